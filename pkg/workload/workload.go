package workload

// Status describes how loaded a single week was.
type Status string

const (
	StatusTooMuch     Status = "too-much"
	StatusHeavy       Status = "heavy"
	StatusNormal      Status = "normal"
	StatusLazyNormal  Status = "lazy-normal"
	StatusTooLazy     Status = "too-lazy"
	StatusUnavailable Status = "unavailable"
	// StatusUndefined is the default for weeks the user has not touched yet.
	StatusUndefined Status = "undefined"
)

// AllStatuses lists every status in the order the frontend legend shows them.
var AllStatuses = []Status{
	StatusTooMuch,
	StatusHeavy,
	StatusNormal,
	StatusLazyNormal,
	StatusTooLazy,
	StatusUnavailable,
	StatusUndefined,
}

var statusLabels = map[Status]string{
	StatusTooMuch:     "Too Much Work",
	StatusHeavy:       "Work Heavy",
	StatusNormal:      "Normal Load",
	StatusLazyNormal:  "Lazy Normal",
	StatusTooLazy:     "Too Lazy",
	StatusUnavailable: "Unavailable/Sick",
	StatusUndefined:   "Not Set",
}

// IsValid reports whether s is one of the known workload statuses.
func (s Status) IsValid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label returns the human-readable name of the status.
func (s Status) Label() string {
	return statusLabels[s]
}

// WeekRecord is one calendar week's tracked state. An empty Notes value means
// the user never wrote any notes for that week.
type WeekRecord struct {
	WeekNumber int
	Status     Status
	Notes      string
}

// YearView holds every week of one year for one user. Weeks are numbered
// contiguously from 1 to WeeksInYear(Year); weeks without a stored row are
// synthesized with StatusUndefined and empty notes.
type YearView struct {
	Year  int
	Weeks []WeekRecord
}

// newSyntheticYearView builds a view where no week has been touched yet.
func newSyntheticYearView(year int) YearView {
	weeks := make([]WeekRecord, WeeksInYear(year))
	for i := range weeks {
		weeks[i] = WeekRecord{WeekNumber: i + 1, Status: StatusUndefined}
	}
	return YearView{Year: year, Weeks: weeks}
}
