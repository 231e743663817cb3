package service_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storm-aslanbek/veridian/internal/domain"
	"github.com/storm-aslanbek/veridian/internal/repository"
	"github.com/storm-aslanbek/veridian/internal/service"
	"github.com/storm-aslanbek/veridian/internal/testutil"
)

func setupOnboarding(t *testing.T, db *sql.DB) *service.Onboarding {
	t.Helper()
	return service.NewOnboarding(
		db,
		repository.NewUserRepository(db),
		repository.NewAccountRepository(db),
		repository.NewCardRepository(db),
		15_000_000,
	)
}

func TestRegister_SeedsAccountAndCard(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupOnboarding(t, db)
	ctx := context.Background()

	user, err := svc.Register(ctx, service.RegisterInput{
		FirstName: "Aslan",
		Surname:   "Bekov",
		IIN:       "990101300123",
		Email:     "aslan@test.kz",
		Password:  "password123",
		Phone:     "+7 (701) 111-22-33",
	})

	require.NoError(t, err)
	assert.Equal(t, "87011112233", user.Phone, "phone must be stored normalized")

	accounts, err := repository.NewAccountRepository(db).GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, int64(15_000_000), accounts[0].Balance)
	assert.Equal(t, domain.CurrencyKZT, accounts[0].Currency)
	assert.True(t, accounts[0].Active)

	cards, err := repository.NewCardRepository(db).GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, accounts[0].ID, cards[0].AccountID)
	assert.Equal(t, "ASLAN BEKOV", cards[0].CardHolderName)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupOnboarding(t, db)
	ctx := context.Background()

	testutil.SeedTestUser(t, db, "Dana", "Serikova", "87019876543")

	existing, err := repository.NewUserRepository(db).GetByPhone(ctx, "87019876543")
	require.NoError(t, err)

	_, err = svc.Register(ctx, service.RegisterInput{
		FirstName: "Someone",
		Surname:   "Else",
		IIN:       "990101300999",
		Email:     existing.Email,
		Password:  "password123",
		Phone:     "87770000000",
	})
	require.ErrorIs(t, err, domain.ErrEmailExists)
}

func TestRegister_DuplicateIIN(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupOnboarding(t, db)
	ctx := context.Background()

	first, err := svc.Register(ctx, service.RegisterInput{
		FirstName: "Aslan",
		Surname:   "Bekov",
		IIN:       "990101300123",
		Email:     "aslan@test.kz",
		Password:  "password123",
		Phone:     "87011112233",
	})
	require.NoError(t, err)

	_, err = svc.Register(ctx, service.RegisterInput{
		FirstName: "Someone",
		Surname:   "Else",
		IIN:       first.IIN,
		Email:     "else@test.kz",
		Password:  "password123",
		Phone:     "87770000000",
	})
	require.ErrorIs(t, err, domain.ErrIINExists)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := service.HashPassword("password123")
	require.NoError(t, err)

	assert.True(t, service.VerifyPassword("password123", hash))
	assert.False(t, service.VerifyPassword("wrong", hash))

	long := make([]byte, 100)
	for i := range long {
		long[i] = 'a'
	}
	longHash, err := service.HashPassword(string(long))
	require.NoError(t, err)
	assert.True(t, service.VerifyPassword(string(long), longHash))
}
