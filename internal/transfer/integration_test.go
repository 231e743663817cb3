package transfer_test

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storm-aslanbek/veridian/internal/domain"
	"github.com/storm-aslanbek/veridian/internal/repository"
	"github.com/storm-aslanbek/veridian/internal/testutil"
	"github.com/storm-aslanbek/veridian/internal/transfer"
)

func setupTransferService(t *testing.T, db *sql.DB) *transfer.Service {
	t.Helper()

	accounts := repository.NewAccountRepository(db)
	ledger := repository.NewTransactionRepository(db)
	users := repository.NewUserRepository(db)
	resolver := transfer.NewResolver(users, accounts)
	return transfer.NewService(accounts, ledger, resolver, db, 5*time.Second)
}

func TestToCard_HappyPath(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupTransferService(t, db)
	ctx := context.Background()

	sender := testutil.SeedTestUser(t, db, "Aslan", "Bekov", "87011112233")
	acct := testutil.SeedTestAccount(t, db, sender.ID, 10000, true)

	res, err := svc.ToCard(ctx, transfer.ToCardRequest{
		OwnerID:    sender.ID,
		AccountID:  acct.ID,
		CardNumber: "4400 1234 5678 9010",
		Amount:     3000,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(7000), testutil.GetAccountBalance(t, db, acct.ID))
	assert.Equal(t, 1, testutil.CountTransactions(t, db, acct.ID))

	rec := testutil.GetTransaction(t, db, res.TransactionID)
	assert.Equal(t, domain.KindTransfer, rec.Kind)
	assert.Equal(t, int64(-3000), rec.Amount)
	assert.Equal(t, domain.TransactionStatusCompleted, rec.Status)
	require.NotNil(t, rec.CounterpartyRef)
	assert.Equal(t, "4400 1234 5678 9010", *rec.CounterpartyRef)
	require.NotNil(t, rec.Description)
	assert.Equal(t, "Transfer to 4400 1234 5678 9010", *rec.Description)
}

func TestToCard_InsufficientFunds(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupTransferService(t, db)
	ctx := context.Background()

	sender := testutil.SeedTestUser(t, db, "Aslan", "Bekov", "87011112233")
	acct := testutil.SeedTestAccount(t, db, sender.ID, 1000, true)

	_, err := svc.ToCard(ctx, transfer.ToCardRequest{
		OwnerID:    sender.ID,
		AccountID:  acct.ID,
		CardNumber: "4400 1234 5678 9010",
		Amount:     5000,
	})

	require.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.Equal(t, int64(1000), testutil.GetAccountBalance(t, db, acct.ID))
	assert.Equal(t, 0, testutil.CountTransactions(t, db, acct.ID))
}

func TestToCard_InvalidAmount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupTransferService(t, db)
	ctx := context.Background()

	sender := testutil.SeedTestUser(t, db, "Aslan", "Bekov", "87011112233")
	acct := testutil.SeedTestAccount(t, db, sender.ID, 10000, true)

	for _, amount := range []int64{0, -500} {
		_, err := svc.ToCard(ctx, transfer.ToCardRequest{
			OwnerID:    sender.ID,
			AccountID:  acct.ID,
			CardNumber: "4400 1234 5678 9010",
			Amount:     amount,
		})
		require.ErrorIs(t, err, domain.ErrInvalidAmount, "amount %d", amount)
	}

	assert.Equal(t, int64(10000), testutil.GetAccountBalance(t, db, acct.ID))
	assert.Equal(t, 0, testutil.CountTransactions(t, db, acct.ID))
}

func TestToCard_AccountNotOwned(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupTransferService(t, db)
	ctx := context.Background()

	sender := testutil.SeedTestUser(t, db, "Aslan", "Bekov", "87011112233")
	other := testutil.SeedTestUser(t, db, "Dana", "Serikova", "87019876543")
	otherAcct := testutil.SeedTestAccount(t, db, other.ID, 10000, true)

	_, err := svc.ToCard(ctx, transfer.ToCardRequest{
		OwnerID:    sender.ID,
		AccountID:  otherAcct.ID,
		CardNumber: "4400 1234 5678 9010",
		Amount:     1000,
	})

	require.ErrorIs(t, err, domain.ErrAccountNotFound)
	assert.Equal(t, int64(10000), testutil.GetAccountBalance(t, db, otherAcct.ID))
}

func TestToCard_InactiveSourceAccount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupTransferService(t, db)
	ctx := context.Background()

	sender := testutil.SeedTestUser(t, db, "Aslan", "Bekov", "87011112233")
	closedAcct := testutil.SeedTestAccount(t, db, sender.ID, 10000, false)

	_, err := svc.ToCard(ctx, transfer.ToCardRequest{
		OwnerID:    sender.ID,
		AccountID:  closedAcct.ID,
		CardNumber: "4400 1234 5678 9010",
		Amount:     1000,
	})

	require.ErrorIs(t, err, domain.ErrAccountInactive)
	assert.Equal(t, int64(10000), testutil.GetAccountBalance(t, db, closedAcct.ID))
	assert.Equal(t, 0, testutil.CountTransactions(t, db, closedAcct.ID))
}

func TestByPhone_HappyPath(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupTransferService(t, db)
	ctx := context.Background()

	sender := testutil.SeedTestUser(t, db, "Aslan", "Bekov", "87011112233")
	recipient := testutil.SeedTestUser(t, db, "Dana", "Serikova", "87019876543")
	sourceAcct := testutil.SeedTestAccount(t, db, sender.ID, 150000, true)
	destAcct := testutil.SeedTestAccount(t, db, recipient.ID, 0, true)

	res, err := svc.ByPhone(ctx, transfer.ByPhoneRequest{
		OwnerID:   sender.ID,
		AccountID: sourceAcct.ID,
		Phone:     "+7 701 987-65-43",
		Amount:    50000,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(100000), testutil.GetAccountBalance(t, db, sourceAcct.ID))
	assert.Equal(t, int64(50000), testutil.GetAccountBalance(t, db, destAcct.ID))
	assert.Equal(t, 1, testutil.CountTransactions(t, db, sourceAcct.ID))
	assert.Equal(t, 1, testutil.CountTransactions(t, db, destAcct.ID))

	out := testutil.GetTransaction(t, db, res.TransactionID)
	assert.Equal(t, domain.KindTransferOut, out.Kind)
	assert.Equal(t, int64(-50000), out.Amount)
	assert.Equal(t, sourceAcct.ID, out.AccountID)
	assert.Equal(t, sender.ID, out.UserID)
	require.NotNil(t, out.Description)
	assert.Equal(t, "Transfer to 87019876543", *out.Description)

	require.NotNil(t, out.CounterpartyRef)
	inID, err := uuid.Parse(*out.CounterpartyRef)
	require.NoError(t, err)

	in := testutil.GetTransaction(t, db, inID)
	assert.Equal(t, domain.KindTransferIn, in.Kind)
	assert.Equal(t, int64(50000), in.Amount)
	assert.Equal(t, destAcct.ID, in.AccountID)
	assert.Equal(t, recipient.ID, in.UserID)
	require.NotNil(t, in.CounterpartyRef)
	assert.Equal(t, out.ID.String(), *in.CounterpartyRef)

	assert.Equal(t, int64(0), out.Amount+in.Amount, "the two legs must sum to zero")
}

func TestByPhone_InsufficientFunds(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupTransferService(t, db)
	ctx := context.Background()

	sender := testutil.SeedTestUser(t, db, "Aslan", "Bekov", "87011112233")
	recipient := testutil.SeedTestUser(t, db, "Dana", "Serikova", "87019876543")
	sourceAcct := testutil.SeedTestAccount(t, db, sender.ID, 1000, true)
	destAcct := testutil.SeedTestAccount(t, db, recipient.ID, 5000, true)

	_, err := svc.ByPhone(ctx, transfer.ByPhoneRequest{
		OwnerID:   sender.ID,
		AccountID: sourceAcct.ID,
		Phone:     "87019876543",
		Amount:    5000,
	})

	require.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.Equal(t, int64(1000), testutil.GetAccountBalance(t, db, sourceAcct.ID))
	assert.Equal(t, int64(5000), testutil.GetAccountBalance(t, db, destAcct.ID))
	assert.Equal(t, 0, testutil.CountTransactions(t, db, sourceAcct.ID))
	assert.Equal(t, 0, testutil.CountTransactions(t, db, destAcct.ID))
}

func TestByPhone_SelfTransfer(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupTransferService(t, db)
	ctx := context.Background()

	sender := testutil.SeedTestUser(t, db, "Aslan", "Bekov", "87011112233")
	acct := testutil.SeedTestAccount(t, db, sender.ID, 10000, true)

	_, err := svc.ByPhone(ctx, transfer.ByPhoneRequest{
		OwnerID:   sender.ID,
		AccountID: acct.ID,
		Phone:     "8 701 111 22 33",
		Amount:    1000,
	})

	require.ErrorIs(t, err, domain.ErrSelfTransfer)
	assert.Equal(t, int64(10000), testutil.GetAccountBalance(t, db, acct.ID))
	assert.Equal(t, 0, testutil.CountTransactions(t, db, acct.ID))
}

func TestByPhone_RecipientNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupTransferService(t, db)
	ctx := context.Background()

	sender := testutil.SeedTestUser(t, db, "Aslan", "Bekov", "87011112233")
	acct := testutil.SeedTestAccount(t, db, sender.ID, 10000, true)

	_, err := svc.ByPhone(ctx, transfer.ByPhoneRequest{
		OwnerID:   sender.ID,
		AccountID: acct.ID,
		Phone:     "87770000000",
		Amount:    1000,
	})

	require.ErrorIs(t, err, domain.ErrRecipientNotFound)
	assert.Equal(t, int64(10000), testutil.GetAccountBalance(t, db, acct.ID))
}

func TestByPhone_NoActiveAccount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupTransferService(t, db)
	ctx := context.Background()

	sender := testutil.SeedTestUser(t, db, "Aslan", "Bekov", "87011112233")
	recipient := testutil.SeedTestUser(t, db, "Dana", "Serikova", "87019876543")
	sourceAcct := testutil.SeedTestAccount(t, db, sender.ID, 10000, true)
	closedAcct := testutil.SeedTestAccount(t, db, recipient.ID, 0, false)

	_, err := svc.ByPhone(ctx, transfer.ByPhoneRequest{
		OwnerID:   sender.ID,
		AccountID: sourceAcct.ID,
		Phone:     "87019876543",
		Amount:    1000,
	})

	require.ErrorIs(t, err, domain.ErrNoActiveAccount)
	assert.Equal(t, int64(10000), testutil.GetAccountBalance(t, db, sourceAcct.ID))
	assert.Equal(t, int64(0), testutil.GetAccountBalance(t, db, closedAcct.ID))
}

func TestByPhone_OldestActiveAccountReceives(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupTransferService(t, db)
	ctx := context.Background()

	sender := testutil.SeedTestUser(t, db, "Aslan", "Bekov", "87011112233")
	recipient := testutil.SeedTestUser(t, db, "Dana", "Serikova", "87019876543")
	sourceAcct := testutil.SeedTestAccount(t, db, sender.ID, 10000, true)

	now := time.Now().UTC()
	older := testutil.SeedTestAccountAt(t, db, recipient.ID, 0, now.Add(-48*time.Hour))
	newer := testutil.SeedTestAccountAt(t, db, recipient.ID, 0, now.Add(-1*time.Hour))

	_, err := svc.ByPhone(ctx, transfer.ByPhoneRequest{
		OwnerID:   sender.ID,
		AccountID: sourceAcct.ID,
		Phone:     "87019876543",
		Amount:    4000,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(4000), testutil.GetAccountBalance(t, db, older.ID))
	assert.Equal(t, int64(0), testutil.GetAccountBalance(t, db, newer.ID))
}

func TestByPhone_ConcurrentOverdraft(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupTransferService(t, db)
	ctx := context.Background()

	sender := testutil.SeedTestUser(t, db, "Aslan", "Bekov", "87011112233")
	recipient := testutil.SeedTestUser(t, db, "Dana", "Serikova", "87019876543")
	sourceAcct := testutil.SeedTestAccount(t, db, sender.ID, 10000, true)
	destAcct := testutil.SeedTestAccount(t, db, recipient.ID, 0, true)

	var wg sync.WaitGroup
	results := make(chan error, 2)

	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.ByPhone(ctx, transfer.ByPhoneRequest{
				OwnerID:   sender.ID,
				AccountID: sourceAcct.ID,
				Phone:     "87019876543",
				Amount:    7000,
			})
			results <- err
		}()
	}

	wg.Wait()
	close(results)

	var successes, failures int
	for err := range results {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
			failures++
		}
	}

	assert.Equal(t, 1, successes, "exactly one transfer should succeed")
	assert.Equal(t, 1, failures, "exactly one transfer should fail")

	sourceBalance := testutil.GetAccountBalance(t, db, sourceAcct.ID)
	destBalance := testutil.GetAccountBalance(t, db, destAcct.ID)
	assert.Equal(t, int64(3000), sourceBalance, "balance must be 3000, not negative")
	assert.Equal(t, int64(7000), destBalance)
	assert.Equal(t, int64(10000), sourceBalance+destBalance, "total funds must be conserved")
}
