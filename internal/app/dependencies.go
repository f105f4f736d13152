package app

import (
	"github.com/guswawan/weekload/internal/config"
	"github.com/guswawan/weekload/internal/event_bus"
	"github.com/guswawan/weekload/internal/observability"
	"github.com/guswawan/weekload/internal/utils"
	"github.com/guswawan/weekload/pkg/session"
	"github.com/guswawan/weekload/pkg/user"
	"github.com/guswawan/weekload/pkg/workload"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	EventBus *event_bus.EventBus
	Clock    utils.Clock

	UserService user.Service
	UserHandler *user.Handler

	SessionRepo    session.Repository
	SessionService session.Service
	SessionHandler *session.Handler

	WorkloadRepo    workload.Repository
	WorkloadService workload.Service
	CsvRenderer     *workload.CsvRendererImpl
	WorkloadHandler *workload.Handler
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *pgxpool.Pool, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.EventBus = event_bus.NewEventBus()
	deps.Clock = &utils.SystemClock{}

	deps.UserService = user.NewUserService(user.NewUserRepo(db))
	deps.UserHandler = user.NewHandler(deps.UserService)

	deps.SessionRepo = session.NewRepository(db)
	deps.SessionService = session.NewService(deps.SessionRepo, deps.UserService, deps.EventBus, cfg, deps.Clock)
	deps.SessionHandler = session.NewHandler(deps.SessionService)

	deps.WorkloadRepo = workload.NewRepository(db)
	deps.WorkloadService = workload.NewService(deps.WorkloadRepo, deps.EventBus)
	deps.CsvRenderer = workload.NewCsvRenderer()
	deps.WorkloadHandler = workload.NewHandler(deps.WorkloadService, deps.CsvRenderer, deps.Clock)

	event_bus.SubscribeTyped[event_bus.WorkloadWeekUpdated](
		deps.EventBus,
		event_bus.TopicWorkloadWeekUpdated,
		func(e event_bus.EventT[event_bus.WorkloadWeekUpdated]) error {
			observability.RecordWeekWrite()
			return nil
		},
	)

	return deps
}
