package event_bus

// Topic names used across the application.
const (
	TopicSessionRevoked      EventType = "session.revoked"
	TopicWorkloadWeekUpdated EventType = "workload.week.updated"
)

// SessionRevoked is published when a user logs out and their session row is
// deleted. Caches keyed by that user must drop their entries.
type SessionRevoked struct {
	UserId int
}

// WorkloadWeekUpdated is published after a week's status or notes were
// successfully written to the store.
type WorkloadWeekUpdated struct {
	UserId     int
	Year       int
	WeekNumber int
}
