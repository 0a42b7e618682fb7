//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/fastygo/breaks/domain"
	"github.com/fastygo/breaks/internal/config"
	pgInfra "github.com/fastygo/breaks/internal/infrastructure/postgres"
)

func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pg, err := postgrescontainer.Run(ctx, "postgres:16-alpine",
		postgrescontainer.WithDatabase("breaks"),
		postgrescontainer.WithUsername("breaks"),
		postgrescontainer.WithPassword("breaks"),
		postgrescontainer.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, pgInfra.Migrate(config.DatabaseConfig{URL: connStr, Name: "breaks"}, "../../assets/migrations", false, nil))

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func TestBreaksLifecycle(t *testing.T) {
	pool := startPostgres(t)
	ctx := context.Background()

	users := NewUserRepository(pool)
	activities := NewActivityRepository(pool)
	breaks := NewBreakRepository(pool)

	alice, err := users.Create(ctx, &domain.User{Username: "alice", PasswordHash: "x"})
	require.NoError(t, err)
	bob, err := users.Create(ctx, &domain.User{Username: "bob", PasswordHash: "x"})
	require.NoError(t, err)

	_, err = users.Create(ctx, &domain.User{Username: "alice", PasswordHash: "y"})
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)

	coffee, err := activities.Create(ctx, &domain.Activity{Name: "Coffee"})
	require.NoError(t, err)
	walk, err := activities.Create(ctx, &domain.Activity{Name: "Walk"})
	require.NoError(t, err)

	_, err = breaks.Create(ctx, &domain.Break{UserID: alice.ID, ActivityID: 9999})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))

	var ids []int64
	for i := 0; i < 12; i++ {
		activityID := coffee.ID
		if i%2 == 1 {
			activityID = walk.ID
		}
		b, err := breaks.Create(ctx, &domain.Break{UserID: alice.ID, ActivityID: activityID})
		require.NoError(t, err)
		assert.False(t, b.IsDone)
		ids = append(ids, b.ID)
	}
	bobBreak, err := breaks.Create(ctx, &domain.Break{UserID: bob.ID, ActivityID: coffee.ID})
	require.NoError(t, err)

	recent, err := breaks.ListRecent(ctx, alice.ID, domain.RecentBreaksLimit)
	require.NoError(t, err)
	require.Len(t, recent, domain.RecentBreaksLimit)
	for i := 1; i < len(recent); i++ {
		prev, cur := recent[i-1], recent[i]
		assert.True(t, prev.Date.After(cur.Date) || (prev.Date.Equal(cur.Date) && prev.ID > cur.ID))
		assert.Equal(t, alice.ID, cur.UserID)
	}
	assert.Equal(t, ids[len(ids)-1], recent[0].ID)
	assert.NotEmpty(t, recent[0].ActivityName)

	// foreign break is invisible to alice
	_, err = breaks.SetDone(ctx, bobBreak.ID, alice.ID, true)
	assert.ErrorIs(t, err, domain.ErrBreakNotFound)
	_, err = breaks.Delete(ctx, bobBreak.ID, alice.ID)
	assert.ErrorIs(t, err, domain.ErrBreakNotFound)

	before := recent[0]
	updated, err := breaks.SetDone(ctx, before.ID, alice.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.IsDone)
	assert.Equal(t, before.ActivityID, updated.ActivityID)
	assert.WithinDuration(t, before.Date, updated.Date, time.Microsecond)

	_, err = breaks.Delete(ctx, before.ID, alice.ID)
	require.NoError(t, err)
	_, err = breaks.Delete(ctx, before.ID, alice.ID)
	assert.ErrorIs(t, err, domain.ErrBreakNotFound)

	// deleting an activity cascades to its breaks
	require.NoError(t, activities.Delete(ctx, walk.ID))
	recent, err = breaks.ListRecent(ctx, alice.ID, 100)
	require.NoError(t, err)
	for _, b := range recent {
		assert.Equal(t, coffee.ID, b.ActivityID)
	}

	// deleting a user cascades to their breaks
	require.NoError(t, users.DeleteByUsername(ctx, "bob"))
	var count int
	require.NoError(t, pool.QueryRow(ctx, "SELECT COUNT(*) FROM breaks WHERE user_id = $1", bob.ID).Scan(&count))
	assert.Zero(t, count)
}
