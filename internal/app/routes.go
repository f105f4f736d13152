package app

import (
	"github.com/gorilla/mux"
	"github.com/guswawan/weekload/internal/config"
	"github.com/guswawan/weekload/internal/observability"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Auth
	r.HandleFunc("/api/auth/login", deps.SessionHandler.Login).Methods("GET")
	r.HandleFunc("/api/auth/callback", deps.SessionHandler.Callback).Methods("GET")
	r.HandleFunc("/api/auth/session", deps.SessionHandler.CurrentSession).Methods("GET")
	r.HandleFunc("/api/auth/session", deps.SessionHandler.Logout).Methods("DELETE")

	// User
	r.HandleFunc("/api/user/current", deps.UserHandler.CurrentUser).Methods("GET")

	// Workload
	r.HandleFunc("/api/workload/week/current", deps.WorkloadHandler.CurrentWeek).Methods("GET")
	r.HandleFunc("/api/workload/statuses", deps.WorkloadHandler.ListStatuses).Methods("GET")
	r.HandleFunc("/api/workload/{year}", deps.WorkloadHandler.GetYear).Methods("GET")
	r.HandleFunc("/api/workload/{year}/export", deps.WorkloadHandler.ExportYear).Methods("GET")
	r.HandleFunc("/api/workload/{year}/week/{week}/status", deps.WorkloadHandler.SetWeekStatus).Methods("PUT")
	r.HandleFunc("/api/workload/{year}/week/{week}/notes", deps.WorkloadHandler.SetWeekNotes).Methods("PUT")

	// Metrics
	r.Handle("/metrics", observability.MetricsHandler()).Methods("GET")
}
