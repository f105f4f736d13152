package session

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/guswawan/weekload/internal/config"
	"github.com/guswawan/weekload/internal/event_bus"
	"github.com/guswawan/weekload/internal/utils"
	"github.com/guswawan/weekload/pkg/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sessionClock = &utils.MockClock{FixedNow: time.Date(2024, time.March, 6, 12, 0, 0, 0, time.UTC)}

func setup(t *testing.T) (*ServiceImpl, *RepositoryStub, *event_bus.EventBus) {
	repo := NewRepositoryStub()
	bus := event_bus.NewEventBus()
	userService := user.NewUserService(user.NewStubUserRepository())
	cfg := config.Application{
		Host: "http://localhost:8181",
		Google: config.Google{
			ClientId:     "client-id",
			ClientSecret: "client-secret",
		},
		Auth: config.Auth{
			TokenSecret: "test-secret",
			TokenIssuer: "weekload",
			SessionDays: 30,
		},
	}
	service := NewService(repo, userService, bus, cfg, sessionClock)
	t.Cleanup(repo.Reset)
	return service, repo, bus
}

func TestServiceImpl_LoginURL(t *testing.T) {
	service, _, _ := setup(t)

	// when
	loginUrl, err := service.LoginURL(context.Background(), "http://localhost:8181/app")

	// then
	require.NoError(t, err)
	parsed, err := url.Parse(loginUrl)
	require.NoError(t, err)
	assert.Equal(t, "accounts.google.com", parsed.Host)
	assert.Equal(t, "client-id", parsed.Query().Get("client_id"))
	assert.Equal(t, "http://localhost:8181/api/auth/callback", parsed.Query().Get("redirect_uri"))

	state := parsed.Query().Get("state")
	parts := strings.SplitN(state, "|", 2)
	require.Len(t, parts, 2)
	assert.Equal(t, "http://localhost:8181/app", parts[0])
	assert.NotEmpty(t, parts[1])
}

func TestServiceImpl_LoginURL_generatesFreshNonce(t *testing.T) {
	service, _, _ := setup(t)

	first, err := service.LoginURL(context.Background(), "http://localhost:8181/app")
	require.NoError(t, err)
	second, err := service.LoginURL(context.Background(), "http://localhost:8181/app")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestServiceImpl_HandleCallback_rejectsUnknownState(t *testing.T) {
	service, _, _ := setup(t)

	t.Run("malformed state", func(t *testing.T) {
		_, _, err := service.HandleCallback(context.Background(), "code", "no-separator")
		assert.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("nonce never issued", func(t *testing.T) {
		_, finalUrl, err := service.HandleCallback(context.Background(), "code", "http://localhost:8181/app|forged-nonce")
		assert.ErrorIs(t, err, ErrInvalidState)
		assert.Equal(t, "http://localhost:8181/app", finalUrl)
	})

	t.Run("nonce cannot be replayed", func(t *testing.T) {
		ctx := context.Background()
		loginUrl, err := service.LoginURL(ctx, "http://localhost:8181/app")
		require.NoError(t, err)
		parsed, err := url.Parse(loginUrl)
		require.NoError(t, err)
		state := parsed.Query().Get("state")

		// first use consumes the nonce; the exchange then fails against the
		// fake credentials, which is fine for this test
		_, _, _ = service.HandleCallback(ctx, "code", state)

		_, _, err = service.HandleCallback(ctx, "code", state)
		assert.ErrorIs(t, err, ErrInvalidState)
	})
}

func TestServiceImpl_Logout(t *testing.T) {
	service, repo, bus := setup(t)

	// given
	current := Session{
		Id:        "session-1",
		UserId:    123,
		CreatedAt: sessionClock.Now(),
		ExpiresAt: sessionClock.Now().Add(30 * 24 * time.Hour),
	}
	require.NoError(t, repo.CreateSession(context.Background(), current))
	ctx := WithSession(context.Background(), current)

	var revoked []event_bus.SessionRevoked
	event_bus.SubscribeTyped[event_bus.SessionRevoked](
		bus,
		event_bus.TopicSessionRevoked,
		func(e event_bus.EventT[event_bus.SessionRevoked]) error {
			revoked = append(revoked, e.Data)
			return nil
		},
	)

	// when
	err := service.Logout(ctx)

	// then
	require.NoError(t, err)
	_, err = repo.GetSession(context.Background(), "session-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	require.Len(t, revoked, 1)
	assert.Equal(t, event_bus.SessionRevoked{UserId: 123}, revoked[0])
}

func TestServiceImpl_Logout_errors(t *testing.T) {
	service, repo, bus := setup(t)

	t.Run("no session in context", func(t *testing.T) {
		err := service.Logout(context.Background())
		assert.ErrorIs(t, err, ErrNoSession)
	})

	t.Run("delete failure keeps the session", func(t *testing.T) {
		current := Session{Id: "session-2", UserId: 123}
		require.NoError(t, repo.CreateSession(context.Background(), current))
		repo.SetDeleteError(errors.New("connection refused"))

		var revoked []event_bus.SessionRevoked
		event_bus.SubscribeTyped[event_bus.SessionRevoked](
			bus,
			event_bus.TopicSessionRevoked,
			func(e event_bus.EventT[event_bus.SessionRevoked]) error {
				revoked = append(revoked, e.Data)
				return nil
			},
		)

		err := service.Logout(WithSession(context.Background(), current))

		require.Error(t, err)
		assert.Empty(t, revoked)
		_, err = repo.GetSession(context.Background(), "session-2")
		assert.NoError(t, err)
	})
}
