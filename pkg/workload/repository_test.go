package workload

import (
	"context"
	"os"
	"testing"

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

func TestRepositoryImpl_UpsertWeek(t *testing.T) {
	t.Run("should insert a new week row", func(t *testing.T) {
		// given
		ctx, repo, userId := setupTestRepository(t)

		// when
		err := repo.UpsertWeek(ctx, userId, 2024, WeekRecord{WeekNumber: 10, Status: StatusHeavy, Notes: "Busy sprint"})

		// then
		require.NoError(t, err)
		records, err := repo.GetWeeksForYear(ctx, userId, 2024)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, WeekRecord{WeekNumber: 10, Status: StatusHeavy, Notes: "Busy sprint"}, records[0])
	})

	t.Run("should overwrite an existing week row", func(t *testing.T) {
		// given
		ctx, repo, userId := setupTestRepository(t)
		require.NoError(t, repo.UpsertWeek(ctx, userId, 2024, WeekRecord{WeekNumber: 10, Status: StatusNormal, Notes: "first"}))

		// when
		err := repo.UpsertWeek(ctx, userId, 2024, WeekRecord{WeekNumber: 10, Status: StatusTooMuch, Notes: "second"})

		// then
		require.NoError(t, err)
		records, err := repo.GetWeeksForYear(ctx, userId, 2024)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, WeekRecord{WeekNumber: 10, Status: StatusTooMuch, Notes: "second"}, records[0])
	})

	t.Run("should keep rows of other weeks and years apart", func(t *testing.T) {
		// given
		ctx, repo, userId := setupTestRepository(t)
		require.NoError(t, repo.UpsertWeek(ctx, userId, 2024, WeekRecord{WeekNumber: 10, Status: StatusHeavy}))
		require.NoError(t, repo.UpsertWeek(ctx, userId, 2024, WeekRecord{WeekNumber: 11, Status: StatusNormal}))
		require.NoError(t, repo.UpsertWeek(ctx, userId, 2025, WeekRecord{WeekNumber: 10, Status: StatusTooLazy}))

		// when
		records, err := repo.GetWeeksForYear(ctx, userId, 2024)

		// then
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, 10, records[0].WeekNumber)
		assert.Equal(t, 11, records[1].WeekNumber)
	})

	t.Run("should reject week numbers outside 1..53", func(t *testing.T) {
		// given
		ctx, repo, userId := setupTestRepository(t)

		// when
		err := repo.UpsertWeek(ctx, userId, 2024, WeekRecord{WeekNumber: 54, Status: StatusHeavy})

		// then
		require.Error(t, err)
	})
}

func TestRepositoryImpl_GetWeeksForYear(t *testing.T) {
	t.Run("should return no rows for an untouched year", func(t *testing.T) {
		// given
		ctx, repo, userId := setupTestRepository(t)

		// when
		records, err := repo.GetWeeksForYear(ctx, userId, 2024)

		// then
		require.NoError(t, err)
		require.Empty(t, records)
	})

	t.Run("should not leak rows of another user", func(t *testing.T) {
		// given
		ctx, repo, userId := setupTestRepository(t)
		otherId, err := user.NewUserRepo(repo.db).CreateUser(ctx, user.User{
			Uid:         uuid.NewString(),
			Email:       "other@weekload.dev",
			DisplayName: "Other User",
		})
		require.NoError(t, err)
		require.NoError(t, repo.UpsertWeek(ctx, otherId, 2024, WeekRecord{WeekNumber: 10, Status: StatusHeavy}))

		// when
		records, err := repo.GetWeeksForYear(ctx, userId, 2024)

		// then
		require.NoError(t, err)
		require.Empty(t, records)
	})
}
