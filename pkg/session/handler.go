package session

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/guswawan/weekload/internal/rest"
	log "github.com/sirupsen/logrus"
)

type loginRedirect struct {
	RedirectUrl string `json:"redirectUrl"`
}

type SessionDTO struct {
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Login godoc
// @Summary Start a Google login
// @Description Returns the Google consent URL the frontend must redirect the browser to.
// @Tags Auth
// @Produce json
// @Param finalUrl query string false "URL the callback redirects back to"
// @Success 200 {object} loginRedirect
// @Router /api/auth/login [get]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	finalUrl := r.URL.Query().Get("finalUrl")
	redirectUrl, err := h.service.LoginURL(r.Context(), finalUrl)
	if err != nil {
		log.Errorf("failed to prepare login redirect: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error: "Failed to start Google login",
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
		}
		return
	}

	if err := json.NewEncoder(w).Encode(loginRedirect{RedirectUrl: redirectUrl}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Callback godoc
// @Summary Finish a Google login
// @Description Exchanges the authorization code and redirects the browser back with a session token in the fragment.
// @Tags Auth
// @Param code query string true "Authorization code"
// @Param state query string true "Opaque state from the login redirect"
// @Success 302
// @Router /api/auth/callback [get]
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	code := r.FormValue("code")
	state := r.FormValue("state")

	token, finalUrl, err := h.service.HandleCallback(r.Context(), code, state)
	if err != nil {
		log.Errorf("login callback failed: %v", err)
		http.Redirect(w, r, finalUrl+"?success=false", http.StatusFound)
		return
	}
	http.Redirect(w, r, finalUrl+"#token="+token, http.StatusFound)
}

// CurrentSession godoc
// @Summary Get the current session
// @Tags Auth
// @Produce json
// @Success 200 {object} SessionDTO
// @Failure 401 {string} string "No active session"
// @Router /api/auth/session [get]
// @Security BearerToken
func (h *Handler) CurrentSession(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	currentSession, err := FromContext(r.Context())
	if err != nil {
		http.Error(w, "no active session", http.StatusUnauthorized)
		return
	}

	dto := SessionDTO{
		CreatedAt: currentSession.CreatedAt,
		ExpiresAt: currentSession.ExpiresAt,
	}
	if err := json.NewEncoder(w).Encode(dto); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Logout godoc
// @Summary Revoke the current session
// @Tags Auth
// @Success 204
// @Failure 401 {string} string "No active session"
// @Router /api/auth/session [delete]
// @Security BearerToken
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	err := h.service.Logout(r.Context())
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			http.Error(w, "no active session", http.StatusUnauthorized)
			return
		}
		log.Errorf("logout failed: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
