package workload

import (
	"context"
	"sync"
)

type weekKey struct {
	userId     int
	year       int
	weekNumber int
}

// RepositoryStub is an in-memory Repository with injectable failures for
// service tests.
type RepositoryStub struct {
	mu    sync.RWMutex
	rows  map[weekKey]WeekRecord
	calls int

	getErr    error
	upsertErr error
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{rows: make(map[weekKey]WeekRecord)}
}

func (r *RepositoryStub) GetWeeksForYear(ctx context.Context, userId int, year int) ([]WeekRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++

	if r.getErr != nil {
		return nil, r.getErr
	}

	var records []WeekRecord
	for key, record := range r.rows {
		if key.userId == userId && key.year == year {
			records = append(records, record)
		}
	}
	return records, nil
}

func (r *RepositoryStub) UpsertWeek(ctx context.Context, userId int, year int, record WeekRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++

	if r.upsertErr != nil {
		return r.upsertErr
	}
	r.rows[weekKey{userId: userId, year: year, weekNumber: record.WeekNumber}] = record
	return nil
}

// SetGetError makes every GetWeeksForYear call fail with err.
func (r *RepositoryStub) SetGetError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getErr = err
}

// SetUpsertError makes every UpsertWeek call fail with err.
func (r *RepositoryStub) SetUpsertError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upsertErr = err
}

// StoredWeek returns the persisted record for assertions.
func (r *RepositoryStub) StoredWeek(userId int, year int, weekNumber int) (WeekRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.rows[weekKey{userId: userId, year: year, weekNumber: weekNumber}]
	return record, ok
}

// Calls returns how many repository operations have been made.
func (r *RepositoryStub) Calls() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.calls
}

// Reset clears all rows and injected failures (useful between tests).
func (r *RepositoryStub) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = make(map[weekKey]WeekRecord)
	r.calls = 0
	r.getErr = nil
	r.upsertErr = nil
}
