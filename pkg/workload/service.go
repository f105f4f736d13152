package workload

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/guswawan/weekload/internal/event_bus"
	"github.com/guswawan/weekload/pkg/user"
	log "github.com/sirupsen/logrus"
)

var (
	ErrUnauthenticated = errors.New("no authenticated user")
	ErrLoadFailed      = errors.New("failed to load workload data")
	ErrSaveFailed      = errors.New("failed to save workload data")
	ErrInvalidWeek     = errors.New("week number out of range")
	ErrInvalidStatus   = errors.New("unknown workload status")
)

type Service interface {
	// GetYearView returns every week of the given year for the current user.
	// Without an authenticated user it returns a synthesized all-undefined
	// view and never touches the store.
	GetYearView(ctx context.Context, year int) (YearView, error)
	// SetStatus stores a new status for one week, carrying the week's
	// current notes forward so they are not reset by the write.
	SetStatus(ctx context.Context, year int, weekNumber int, status Status) error
	// SetNotes stores new notes for one week. currentStatus must be the
	// status the caller currently displays for that week; it is resent in
	// the same row so the write does not reset it.
	SetNotes(ctx context.Context, year int, weekNumber int, notes string, currentStatus Status) error
}

type cacheKey struct {
	year   int
	userId int
}

// ServiceImpl keeps an in-memory copy of each loaded (year, user) view and
// applies successful writes to it directly, so readers see a write without a
// refetch. The store remains the durable owner: two concurrent writes to the
// same week are resolved last-write-wins in the cache while the row's upsert
// decides the persisted value. Views for a user are dropped when their
// session is revoked.
type ServiceImpl struct {
	repo     Repository
	eventBus *event_bus.EventBus

	mu    sync.RWMutex
	cache map[cacheKey]YearView
}

func NewService(repo Repository, eventBus *event_bus.EventBus) *ServiceImpl {
	service := &ServiceImpl{
		repo:     repo,
		eventBus: eventBus,
		cache:    make(map[cacheKey]YearView),
	}
	if eventBus != nil {
		event_bus.SubscribeTyped[event_bus.SessionRevoked](
			eventBus,
			event_bus.TopicSessionRevoked,
			func(e event_bus.EventT[event_bus.SessionRevoked]) error {
				dropped := service.invalidateUser(e.Data.UserId)
				log.Debugf("dropped %d cached workload year(s) for user %d", dropped, e.Data.UserId)
				return nil
			},
		)
	}
	return service
}

func (s *ServiceImpl) GetYearView(ctx context.Context, year int) (YearView, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		// Anonymous visitors get a read-only grid of untouched weeks.
		return newSyntheticYearView(year), nil
	}

	view, err := s.loadYear(ctx, userId, year)
	if err != nil {
		return YearView{}, err
	}
	return copyView(view), nil
}

func (s *ServiceImpl) SetStatus(ctx context.Context, year int, weekNumber int, status Status) error {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return ErrUnauthenticated
	}
	if err := validateWeek(year, weekNumber); err != nil {
		return err
	}
	if !status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	view, err := s.loadYear(ctx, userId, year)
	if err != nil {
		return err
	}
	current := view.Weeks[weekNumber-1]

	record := WeekRecord{WeekNumber: weekNumber, Status: status, Notes: current.Notes}
	if err := s.repo.UpsertWeek(ctx, userId, year, record); err != nil {
		log.Errorf("failed to upsert status for week %d/%d: %v", weekNumber, year, err)
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}

	s.applyToCache(userId, year, func(view YearView) YearView {
		return applyStatus(view, weekNumber, status)
	})
	s.publishWeekUpdated(ctx, userId, year, weekNumber)
	return nil
}

func (s *ServiceImpl) SetNotes(ctx context.Context, year int, weekNumber int, notes string, currentStatus Status) error {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return ErrUnauthenticated
	}
	if err := validateWeek(year, weekNumber); err != nil {
		return err
	}
	if !currentStatus.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, currentStatus)
	}

	// Make sure the year is cached so a later read reflects this write.
	if _, err := s.loadYear(ctx, userId, year); err != nil {
		return err
	}

	record := WeekRecord{WeekNumber: weekNumber, Status: currentStatus, Notes: notes}
	if err := s.repo.UpsertWeek(ctx, userId, year, record); err != nil {
		log.Errorf("failed to upsert notes for week %d/%d: %v", weekNumber, year, err)
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}

	s.applyToCache(userId, year, func(view YearView) YearView {
		return applyNotes(view, weekNumber, notes)
	})
	s.publishWeekUpdated(ctx, userId, year, weekNumber)
	return nil
}

// loadYear returns the cached view for (year, userId) or fetches it from the
// store, synthesizing the weeks that have no row so the result always covers
// weeks 1..WeeksInYear(year). A fetch failure leaves the cache untouched.
func (s *ServiceImpl) loadYear(ctx context.Context, userId int, year int) (YearView, error) {
	key := cacheKey{year: year, userId: userId}

	s.mu.RLock()
	view, ok := s.cache[key]
	s.mu.RUnlock()
	if ok {
		return view, nil
	}

	stored, err := s.repo.GetWeeksForYear(ctx, userId, year)
	if err != nil {
		log.Errorf("failed to load workload weeks for year %d: %v", year, err)
		return YearView{}, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}

	byNumber := make(map[int]WeekRecord, len(stored))
	for _, record := range stored {
		byNumber[record.WeekNumber] = record
	}
	view = newSyntheticYearView(year)
	for i := range view.Weeks {
		if record, ok := byNumber[i+1]; ok {
			view.Weeks[i] = record
		}
	}

	s.mu.Lock()
	s.cache[key] = view
	s.mu.Unlock()
	return view, nil
}

// applyToCache runs a pure view transform against the cached entry, if any.
func (s *ServiceImpl) applyToCache(userId int, year int, transform func(YearView) YearView) {
	key := cacheKey{year: year, userId: userId}
	s.mu.Lock()
	defer s.mu.Unlock()
	if view, ok := s.cache[key]; ok {
		s.cache[key] = transform(view)
	}
}

// invalidateUser drops every cached year of the given user and returns how
// many entries were removed.
func (s *ServiceImpl) invalidateUser(userId int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	dropped := 0
	for key := range s.cache {
		if key.userId == userId {
			delete(s.cache, key)
			dropped++
		}
	}
	return dropped
}

func (s *ServiceImpl) publishWeekUpdated(ctx context.Context, userId int, year int, weekNumber int) {
	if s.eventBus == nil {
		return
	}
	event := event_bus.NewEvent(ctx, event_bus.TopicWorkloadWeekUpdated, event_bus.WorkloadWeekUpdated{
		UserId:     userId,
		Year:       year,
		WeekNumber: weekNumber,
	})
	if err := s.eventBus.Publish(event); err != nil {
		log.Errorf("failed to publish week updated event: %v", err)
	}
}

func validateWeek(year int, weekNumber int) error {
	if weekNumber < 1 || weekNumber > WeeksInYear(year) {
		return fmt.Errorf("%w: week %d of %d", ErrInvalidWeek, weekNumber, year)
	}
	return nil
}

// applyStatus returns a copy of the view with one week's status replaced.
// Notes of that week are left as they are.
func applyStatus(view YearView, weekNumber int, status Status) YearView {
	out := copyView(view)
	if weekNumber >= 1 && weekNumber <= len(out.Weeks) {
		out.Weeks[weekNumber-1].Status = status
	}
	return out
}

// applyNotes returns a copy of the view with one week's notes replaced.
// The status of that week is left as it is.
func applyNotes(view YearView, weekNumber int, notes string) YearView {
	out := copyView(view)
	if weekNumber >= 1 && weekNumber <= len(out.Weeks) {
		out.Weeks[weekNumber-1].Notes = notes
	}
	return out
}

func copyView(view YearView) YearView {
	weeks := make([]WeekRecord, len(view.Weeks))
	copy(weeks, view.Weeks)
	return YearView{Year: view.Year, Weeks: weeks}
}
