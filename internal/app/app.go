package app

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/guswawan/weekload/internal/config"
	"github.com/guswawan/weekload/internal/database"
	"github.com/guswawan/weekload/internal/rest"
	log "github.com/sirupsen/logrus"
)

// Application bundles the configuration, router, and HTTP server.
type Application struct {
	cfg    config.Application
	router *mux.Router
	srv    *http.Server
}

// NewApplication loads configuration, connects the database, runs migrations,
// and wires all services, middlewares, and routes. The returned application is
// ready to Run.
func NewApplication() (*Application, error) {
	cfg, err := config.Load("./config/application.yaml")
	if err != nil {
		return nil, err
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(cfg.Database); err != nil {
		return nil, err
	}

	r := mux.NewRouter()
	deps := BuildDependencies(db, cfg)
	SetupMiddleware(r, deps, cfg)
	RegisterRoutes(r, deps, cfg)

	// The built frontend is served from the same binary; anything not matching
	// an API route falls through to it.
	if cfg.Frontend.Enabled {
		r.PathPrefix("/").Handler(rest.NewFrontendHandler("frontend", "index.html"))
	}

	srv := &http.Server{
		Handler:      r,
		Addr:         ":8181",
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Application{cfg: cfg, router: r, srv: srv}, nil
}

// Run starts the HTTP server and blocks until it stops.
func (a *Application) Run() error {
	log.Infof("Starting server on %s", a.srv.Addr)
	return a.srv.ListenAndServe()
}
