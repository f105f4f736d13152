package app

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/guswawan/weekload/internal/auth"
	"github.com/guswawan/weekload/internal/config"
	"github.com/guswawan/weekload/internal/observability"
	"github.com/guswawan/weekload/pkg/session"
	"github.com/guswawan/weekload/pkg/user"
	log "github.com/sirupsen/logrus"
)

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router, deps *Dependencies, cfg config.Application) {

	r.Use(observability.InstrumentHandler)

	tokenConfig := auth.Config{
		Secret: cfg.Auth.TokenSecret,
		Issuer: cfg.Auth.TokenIssuer,
		TTL:    cfg.Auth.SessionTTL(),
	}

	// Resolve the bearer token into a user for downstream services. Requests
	// without a token continue anonymously; services decide what anonymous
	// callers may do.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			token, err := auth.BearerToken(req)
			if errors.Is(err, auth.ErrMissingToken) {
				next.ServeHTTP(w, req)
				return
			}
			if err != nil {
				http.Error(w, "invalid authorization header", http.StatusUnauthorized)
				return
			}

			claims, err := auth.Parse(token, tokenConfig)
			if err != nil {
				log.Debugf("rejected bearer token: %v", err)
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			ctx := req.Context()
			currentSession, err := deps.SessionRepo.GetSession(ctx, claims.SessionId)
			if err != nil {
				if errors.Is(err, session.ErrSessionNotFound) {
					http.Error(w, "session revoked", http.StatusUnauthorized)
					return
				}
				log.Errorf("failed to resolve session: %v", err)
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			if deps.Clock.Now().After(currentSession.ExpiresAt) {
				http.Error(w, "session expired", http.StatusUnauthorized)
				return
			}

			currentUser, err := deps.UserService.GetUser(ctx, currentSession.UserId)
			if err != nil {
				if errors.Is(err, user.ErrUserNotFound) {
					log.Debugf("user of session %s no longer exists", currentSession.Id)
					http.Error(w, "user not found", http.StatusForbidden)
					return
				}
				log.Errorf("failed to get user: %v", err)
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}

			ctx = user.WithUser(ctx, currentUser)
			ctx = session.WithSession(ctx, currentSession)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
}
