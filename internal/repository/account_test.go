package repository_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storm-aslanbek/veridian/internal/domain"
	"github.com/storm-aslanbek/veridian/internal/repository"
	"github.com/storm-aslanbek/veridian/internal/testutil"
)

func TestAdjustBalance(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewAccountRepository(db)
	ctx := context.Background()

	user := testutil.SeedTestUser(t, db, "Aslan", "Bekov", "87011112233")
	acct := testutil.SeedTestAccount(t, db, user.ID, 100, true)

	t.Run("refuses adjustment below the floor", func(t *testing.T) {
		_, err := repo.AdjustBalance(ctx, acct.ID, -150, 0)
		require.ErrorIs(t, err, domain.ErrInsufficientFunds)
		assert.Equal(t, int64(100), testutil.GetAccountBalance(t, db, acct.ID))
	})

	t.Run("allows draining to exactly the floor", func(t *testing.T) {
		balance, err := repo.AdjustBalance(ctx, acct.ID, -100, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(0), balance)
	})

	t.Run("credit has no floor to hit", func(t *testing.T) {
		balance, err := repo.AdjustBalance(ctx, acct.ID, 250, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(250), balance)
	})

	t.Run("unknown account", func(t *testing.T) {
		_, err := repo.AdjustBalance(ctx, uuid.New(), 100, 0)
		require.ErrorIs(t, err, domain.ErrAccountNotFound)
	})
}

func TestAdjustBalance_ConcurrentDebits(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewAccountRepository(db)
	ctx := context.Background()

	user := testutil.SeedTestUser(t, db, "Aslan", "Bekov", "87011112233")
	acct := testutil.SeedTestAccount(t, db, user.ID, 1000, true)

	const workers = 10
	var wg sync.WaitGroup
	results := make(chan error, workers)

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.AdjustBalance(ctx, acct.ID, -300, 0)
			results <- err
		}()
	}

	wg.Wait()
	close(results)

	var successes int
	for err := range results {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
		}
	}

	assert.Equal(t, 3, successes, "only three debits of 300 fit in 1000")
	assert.Equal(t, int64(100), testutil.GetAccountBalance(t, db, acct.ID))
}

func TestGetForOwner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewAccountRepository(db)
	ctx := context.Background()

	owner := testutil.SeedTestUser(t, db, "Aslan", "Bekov", "87011112233")
	other := testutil.SeedTestUser(t, db, "Dana", "Serikova", "87019876543")
	acct := testutil.SeedTestAccount(t, db, owner.ID, 500, true)

	got, err := repo.GetForOwner(ctx, acct.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, acct.ID, got.ID)
	assert.Equal(t, int64(500), got.Balance)

	_, err = repo.GetForOwner(ctx, acct.ID, other.ID)
	require.ErrorIs(t, err, domain.ErrAccountNotFound,
		"someone else's account must look like a missing one")
}

func TestOldestActiveForUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewAccountRepository(db)
	ctx := context.Background()

	user := testutil.SeedTestUser(t, db, "Aslan", "Bekov", "87011112233")

	_, err := repo.OldestActiveForUser(ctx, user.ID)
	require.ErrorIs(t, err, domain.ErrNoActiveAccount)

	testutil.SeedTestAccount(t, db, user.ID, 0, false)
	_, err = repo.OldestActiveForUser(ctx, user.ID)
	require.ErrorIs(t, err, domain.ErrNoActiveAccount, "inactive accounts never receive")

	active := testutil.SeedTestAccount(t, db, user.ID, 0, true)
	got, err := repo.OldestActiveForUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, active.ID, got.ID)
}
