package testutil

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/storm-aslanbek/veridian/internal/domain"
)

var seedCounter int

// SeedTestUser inserts a user with the given normalized phone. Email and IIN
// are derived from the name so fixtures in the same test don't collide.
func SeedTestUser(t *testing.T, db *sql.DB, firstName, surname, phone string) *domain.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	seedCounter++
	u := &domain.User{
		ID:           uuid.New(),
		FirstName:    firstName,
		Surname:      surname,
		IIN:          fmt.Sprintf("9%011d", seedCounter),
		Email:        fmt.Sprintf("%s.%s.%d@test.kz", firstName, surname, seedCounter),
		Phone:        phone,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}

	_, err = db.Exec(
		`INSERT INTO users (id, first_name, surname, iin, email, phone, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		u.ID, u.FirstName, u.Surname, u.IIN, u.Email, u.Phone, u.PasswordHash, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("seed test user %s %s: %v", firstName, surname, err)
	}
	return u
}

func SeedTestAccount(t *testing.T, db *sql.DB, userID uuid.UUID, balance int64, active bool) *domain.Account {
	t.Helper()

	seedCounter++
	a := &domain.Account{
		ID:            uuid.New(),
		UserID:        userID,
		AccountNumber: fmt.Sprintf("KZ44 0000 0000 %04d", seedCounter),
		AccountName:   "Основной счет",
		AccountType:   domain.AccountTypeChecking,
		Balance:       balance,
		Currency:      domain.CurrencyKZT,
		Active:        active,
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}

	_, err := db.Exec(
		`INSERT INTO accounts (id, user_id, account_number, account_name, account_type,
			balance, currency, active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		a.ID, a.UserID, a.AccountNumber, a.AccountName, a.AccountType,
		a.Balance, a.Currency, a.Active, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("seed test account for %s: %v", userID, err)
	}
	return a
}

// SeedTestAccountAt is SeedTestAccount with an explicit creation time, for
// tests that pin the deterministic destination-account selection.
func SeedTestAccountAt(t *testing.T, db *sql.DB, userID uuid.UUID, balance int64, createdAt time.Time) *domain.Account {
	t.Helper()

	a := SeedTestAccount(t, db, userID, balance, true)
	if _, err := db.Exec(`UPDATE accounts SET created_at = $1 WHERE id = $2`, createdAt, a.ID); err != nil {
		t.Fatalf("set account created_at: %v", err)
	}
	a.CreatedAt = createdAt
	return a
}

func GetAccountBalance(t *testing.T, db *sql.DB, accountID uuid.UUID) int64 {
	t.Helper()

	var balance int64
	err := db.QueryRow(`SELECT balance FROM accounts WHERE id = $1`, accountID).Scan(&balance)
	if err != nil {
		t.Fatalf("get account balance %s: %v", accountID, err)
	}
	return balance
}

func CountTransactions(t *testing.T, db *sql.DB, accountID uuid.UUID) int {
	t.Helper()

	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM transactions WHERE account_id = $1`, accountID).Scan(&count)
	if err != nil {
		t.Fatalf("count transactions for account %s: %v", accountID, err)
	}
	return count
}

func GetTransaction(t *testing.T, db *sql.DB, id uuid.UUID) *domain.Transaction {
	t.Helper()

	var tx domain.Transaction
	err := db.QueryRow(
		`SELECT id, user_id, account_id, kind, category, amount, currency,
			counterparty_ref, description, status, transaction_date, created_at
		 FROM transactions WHERE id = $1`, id,
	).Scan(
		&tx.ID, &tx.UserID, &tx.AccountID, &tx.Kind, &tx.Category, &tx.Amount,
		&tx.Currency, &tx.CounterpartyRef, &tx.Description, &tx.Status,
		&tx.TransactionDate, &tx.CreatedAt,
	)
	if err != nil {
		t.Fatalf("get transaction %s: %v", id, err)
	}
	return &tx
}
