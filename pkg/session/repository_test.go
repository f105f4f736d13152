package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/guswawan/weekload/internal/test_utils"
	"github.com/guswawan/weekload/pkg/user"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

var pgContainer *postgres.PostgresContainer
var openDb func() *pgxpool.Pool

func TestMain(m *testing.M) {
	pgContainer, openDb = test_utils.TestWithDB()
	defer func() {
		if err := testcontainers.TerminateContainer(pgContainer); err != nil {
			log.Errorf("failed to terminate container: %s", err)
		}
	}()
	code := m.Run()
	os.Exit(code)
}

func setupTestRepository(t *testing.T) (context.Context, *RepositoryImpl, int) {
	ctx := context.Background()
	db := openDb()
	repository := NewRepository(db)
	t.Cleanup(func() {
		db.Close()
		err := pgContainer.Restore(ctx)
		require.NoError(t, err)
	})

	userId, err := user.NewUserRepo(db).CreateUser(ctx, user.User{
		Uid:         uuid.NewString(),
		Email:       "test@weekload.dev",
		DisplayName: "Test User",
	})
	require.NoError(t, err)
	return ctx, repository, userId
}

func TestRepositoryImpl_Sessions(t *testing.T) {
	t.Run("should create and fetch a session", func(t *testing.T) {
		// given
		ctx, repo, userId := setupTestRepository(t)
		now := time.Now().UTC().Truncate(time.Microsecond)
		created := Session{
			Id:        uuid.NewString(),
			UserId:    userId,
			CreatedAt: now,
			ExpiresAt: now.Add(30 * 24 * time.Hour),
		}

		// when
		require.NoError(t, repo.CreateSession(ctx, created))
		fetched, err := repo.GetSession(ctx, created.Id)

		// then
		require.NoError(t, err)
		assert.Equal(t, created.Id, fetched.Id)
		assert.Equal(t, created.UserId, fetched.UserId)
		assert.True(t, created.CreatedAt.Equal(fetched.CreatedAt))
		assert.True(t, created.ExpiresAt.Equal(fetched.ExpiresAt))
	})

	t.Run("should report missing sessions", func(t *testing.T) {
		ctx, repo, _ := setupTestRepository(t)

		_, err := repo.GetSession(ctx, uuid.NewString())

		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("should delete a session", func(t *testing.T) {
		// given
		ctx, repo, userId := setupTestRepository(t)
		now := time.Now().UTC()
		created := Session{Id: uuid.NewString(), UserId: userId, CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
		require.NoError(t, repo.CreateSession(ctx, created))

		// when
		require.NoError(t, repo.DeleteSession(ctx, created.Id))

		// then
		_, err := repo.GetSession(ctx, created.Id)
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})
}

func TestRepositoryImpl_Nonces(t *testing.T) {
	t.Run("should consume a stored nonce exactly once", func(t *testing.T) {
		// given
		ctx, repo, _ := setupTestRepository(t)
		nonce := uuid.NewString()
		require.NoError(t, repo.StoreNonce(ctx, nonce))

		// when
		first, err := repo.ConsumeNonce(ctx, nonce)
		require.NoError(t, err)
		second, err := repo.ConsumeNonce(ctx, nonce)
		require.NoError(t, err)

		// then
		assert.True(t, first)
		assert.False(t, second)
	})

	t.Run("should not consume an unknown nonce", func(t *testing.T) {
		ctx, repo, _ := setupTestRepository(t)

		known, err := repo.ConsumeNonce(ctx, uuid.NewString())

		require.NoError(t, err)
		assert.False(t, known)
	})
}
