package repository

import (
	"context"
	"os"
	"testing"

	"github.com/Freeeeeet/court_bot/internal/app"
	"github.com/Freeeeeet/court_bot/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newPgRepo поднимает схему в базе из TEST_DB_DSN и очищает таблицу
func newPgRepo(t *testing.T) *TaskPgRepository {
	t.Helper()

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	migrator, err := app.NewMigrator(pool, "../../migrations", zap.NewNop())
	require.NoError(t, err)
	defer migrator.Close()
	require.NoError(t, migrator.Run(ctx))

	_, err = pool.Exec(ctx, "TRUNCATE booking_tasks RESTART IDENTITY")
	require.NoError(t, err)

	return NewTaskPgRepository(pool)
}

func TestPgRepoSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	repo := newPgRepo(t)

	t1 := task("2025-11-21", "14:00", "Court A", "North")
	t1.ItemType = "badminton"
	t2 := task("2025-11-21", "15:00", "Court A", "North")

	added, err := repo.Save(ctx, []model.BookingTask{t1, t2, t1})
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	added, err = repo.Save(ctx, []model.BookingTask{t2})
	require.NoError(t, err)
	assert.Equal(t, 0, added)

	tasks, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, t1.Key(), tasks[0].Key())
	assert.Equal(t, "badminton", tasks[0].ItemType)
	assert.Equal(t, t1.Data.TicketLevelNo, tasks[0].Data.TicketLevelNo)
	assert.Equal(t, 40.0, tasks[0].Price)
}

func TestPgRepoDelete(t *testing.T) {
	ctx := context.Background()
	repo := newPgRepo(t)

	first := task("2025-11-21", "08:00", "Court A", "North")
	second := task("2025-11-21", "09:00", "Court A", "North")
	third := task("2025-11-21", "10:00", "Court A", "North")
	_, err := repo.Save(ctx, []model.BookingTask{first, second, third})
	require.NoError(t, err)

	require.NoError(t, repo.DeleteAt(ctx, 1))
	assert.ErrorIs(t, repo.DeleteAt(ctx, 5), ErrTaskNotFound)

	require.NoError(t, repo.DeleteByKey(ctx, third.Key()))
	assert.ErrorIs(t, repo.DeleteByKey(ctx, third.Key()), ErrTaskNotFound)

	tasks, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, first.Key(), tasks[0].Key())

	times, err := repo.ScheduledTimes(ctx, "North", "2025-11-21")
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{"08:00": {}}, times)
}
