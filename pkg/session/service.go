package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/guswawan/weekload/internal/auth"
	"github.com/guswawan/weekload/internal/config"
	"github.com/guswawan/weekload/internal/event_bus"
	"github.com/guswawan/weekload/internal/utils"
	"github.com/guswawan/weekload/pkg/user"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

var ErrInvalidState = fmt.Errorf("invalid oauth state")

type Service interface {
	// LoginURL starts a Google login: it stores a state nonce and returns
	// the consent URL the frontend must redirect to. finalUrl is where the
	// callback sends the browser afterwards.
	LoginURL(ctx context.Context, finalUrl string) (string, error)
	// HandleCallback finishes the login: exchanges the code, fetches the
	// Google profile, creates the user on first login, and returns a signed
	// session token together with the finalUrl from the state.
	HandleCallback(ctx context.Context, code string, state string) (token string, finalUrl string, err error)
	// Logout revokes the current session and announces the revocation on
	// the event bus so per-user caches are dropped.
	Logout(ctx context.Context) error
}

type ServiceImpl struct {
	repo        Repository
	userService user.Service
	eventBus    *event_bus.EventBus
	oauthConfig *oauth2.Config
	tokenConfig auth.Config
	clock       utils.Clock
}

func NewService(
	repo Repository,
	userService user.Service,
	eventBus *event_bus.EventBus,
	cfg config.Application,
	clock utils.Clock,
) *ServiceImpl {
	oauthConfig := &oauth2.Config{
		ClientID:     cfg.Google.ClientId,
		ClientSecret: cfg.Google.ClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  cfg.Host + "/api/auth/callback",
		Scopes:       []string{oauth2api.UserinfoEmailScope, oauth2api.UserinfoProfileScope},
	}
	return &ServiceImpl{
		repo:        repo,
		userService: userService,
		eventBus:    eventBus,
		oauthConfig: oauthConfig,
		tokenConfig: auth.Config{
			Secret: cfg.Auth.TokenSecret,
			Issuer: cfg.Auth.TokenIssuer,
			TTL:    cfg.Auth.SessionTTL(),
		},
		clock: clock,
	}
}

func (s *ServiceImpl) LoginURL(ctx context.Context, finalUrl string) (string, error) {
	stateNonce := uuid.New().String()
	if err := s.repo.StoreNonce(ctx, stateNonce); err != nil {
		return "", fmt.Errorf("failed to store oauth nonce: %w", err)
	}

	log.Tracef("Redirecting to Google auth URL with nonce: %s", stateNonce)
	return s.oauthConfig.AuthCodeURL(finalUrl + "|" + stateNonce), nil
}

func (s *ServiceImpl) HandleCallback(ctx context.Context, code string, state string) (string, string, error) {
	parts := strings.SplitN(state, "|", 2)
	if len(parts) != 2 {
		return "", "", ErrInvalidState
	}
	finalUrl := parts[0]
	nonce := parts[1]

	known, err := s.repo.ConsumeNonce(ctx, nonce)
	if err != nil {
		return "", finalUrl, fmt.Errorf("failed to consume oauth nonce: %w", err)
	}
	if !known {
		return "", finalUrl, ErrInvalidState
	}

	oauthToken, err := s.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return "", finalUrl, fmt.Errorf("unable to exchange code for token: %w", err)
	}

	oauth2Service, err := oauth2api.NewService(ctx, option.WithTokenSource(s.oauthConfig.TokenSource(ctx, oauthToken)))
	if err != nil {
		return "", finalUrl, fmt.Errorf("unable to create userinfo client: %w", err)
	}
	userinfo, err := oauth2Service.Userinfo.Get().Do()
	if err != nil {
		return "", finalUrl, fmt.Errorf("unable to fetch userinfo: %w", err)
	}

	currentUser, err := s.userService.FindOrCreateByEmail(ctx, userinfo.Email, userinfo.Name, userinfo.Picture)
	if err != nil {
		return "", finalUrl, fmt.Errorf("failed to resolve user: %w", err)
	}

	now := s.clock.Now()
	newSession := Session{
		Id:        uuid.New().String(),
		UserId:    currentUser.Id,
		CreatedAt: now,
		ExpiresAt: now.Add(s.tokenConfig.TTL),
	}
	if err := s.repo.CreateSession(ctx, newSession); err != nil {
		return "", finalUrl, fmt.Errorf("failed to create session: %w", err)
	}

	token, err := auth.Issue(s.tokenConfig, newSession.Id, currentUser.Uid, now)
	if err != nil {
		return "", finalUrl, err
	}

	log.Debugf("user %s logged in, session %s", currentUser.Uid, newSession.Id)
	return token, finalUrl, nil
}

func (s *ServiceImpl) Logout(ctx context.Context) error {
	currentSession, err := FromContext(ctx)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteSession(ctx, currentSession.Id); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}

	if s.eventBus != nil {
		event := event_bus.NewEvent(ctx, event_bus.TopicSessionRevoked, event_bus.SessionRevoked{
			UserId: currentSession.UserId,
		})
		if err := s.eventBus.Publish(event); err != nil {
			log.Errorf("failed to publish session revoked event: %v", err)
		}
	}
	return nil
}
