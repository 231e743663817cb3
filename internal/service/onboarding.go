package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/storm-aslanbek/veridian/internal/domain"
	"github.com/storm-aslanbek/veridian/internal/logging"
	"github.com/storm-aslanbek/veridian/internal/transfer"
)

// bcrypt silently ignores everything past 72 bytes; truncate explicitly so
// the same long password verifies consistently.
const bcryptMaxLength = 72

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByIIN(ctx context.Context, iin string) (*domain.User, error)
	Create(ctx context.Context, tx *sql.Tx, user *domain.User) error
}

type accountCreator interface {
	Create(ctx context.Context, tx *sql.Tx, account *domain.Account) error
}

type cardCreator interface {
	Create(ctx context.Context, tx *sql.Tx, card *domain.Card) error
}

// Onboarding registers a user and seeds their starter products: one active
// KZT checking account with the configured opening balance and one card
// bound to it.
type Onboarding struct {
	db          *sql.DB
	users       userStore
	accounts    accountCreator
	cards       cardCreator
	seedBalance int64
}

func NewOnboarding(db *sql.DB, users userStore, accounts accountCreator, cards cardCreator, seedBalance int64) *Onboarding {
	return &Onboarding{
		db:          db,
		users:       users,
		accounts:    accounts,
		cards:       cards,
		seedBalance: seedBalance,
	}
}

type RegisterInput struct {
	FirstName  string
	Surname    string
	Patronymic *string
	IIN        string
	Email      string
	Password   string
	Phone      string
}

func (s *Onboarding) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	log := logging.FromContext(ctx)

	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, fmt.Errorf("Register: %w", domain.ErrEmailExists)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("Register: check email: %w", err)
	}

	if _, err := s.users.GetByIIN(ctx, in.IIN); err == nil {
		return nil, fmt.Errorf("Register: %w", domain.ErrIINExists)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("Register: check iin: %w", err)
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("Register: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New(),
		FirstName:    in.FirstName,
		Surname:      in.Surname,
		Patronymic:   in.Patronymic,
		IIN:          in.IIN,
		Email:        in.Email,
		Phone:        transfer.NormalizePhone(in.Phone),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("Register: begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := s.users.Create(ctx, tx, user); err != nil {
		return nil, fmt.Errorf("Register: %w", err)
	}

	account, err := s.seedAccount(ctx, tx, user, now)
	if err != nil {
		return nil, fmt.Errorf("Register: %w", err)
	}

	if err := s.seedCard(ctx, tx, user, account, now); err != nil {
		return nil, fmt.Errorf("Register: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("Register: commit: %w", err)
	}

	log.Info("user registered",
		"user_id", user.ID,
		"account_id", account.ID,
	)

	return user, nil
}

func (s *Onboarding) seedAccount(ctx context.Context, tx *sql.Tx, user *domain.User, now time.Time) (*domain.Account, error) {
	number, err := generateAccountNumber()
	if err != nil {
		return nil, err
	}

	account := &domain.Account{
		ID:            uuid.New(),
		UserID:        user.ID,
		AccountNumber: number,
		AccountName:   "Основной счет",
		AccountType:   domain.AccountTypeChecking,
		Balance:       s.seedBalance,
		Currency:      domain.CurrencyKZT,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.accounts.Create(ctx, tx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *Onboarding) seedCard(ctx context.Context, tx *sql.Tx, user *domain.User, account *domain.Account, now time.Time) error {
	number, err := generateCardNumber()
	if err != nil {
		return err
	}

	card := &domain.Card{
		ID:             uuid.New(),
		UserID:         user.ID,
		AccountID:      account.ID,
		CardNumber:     number,
		CardHolderName: strings.ToUpper(user.FullName()),
		ExpiryDate:     now.AddDate(4, 0, 0).Format("01/06"),
		CardType:       "Visa",
		Status:         domain.CardStatusActive,
		CardColor:      "0xFF1E1E1E",
		CreatedAt:      now,
	}
	return s.cards.Create(ctx, tx, card)
}

func HashPassword(password string) (string, error) {
	if len(password) > bcryptMaxLength {
		password = password[:bcryptMaxLength]
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("HashPassword: %w", err)
	}
	return string(hash), nil
}

func VerifyPassword(password, hash string) bool {
	if len(password) > bcryptMaxLength {
		password = password[:bcryptMaxLength]
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func randomDigits(n int) (string, error) {
	digits := make([]byte, n)
	for i := range digits {
		d, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("randomDigits: %w", err)
		}
		digits[i] = '0' + byte(d.Int64())
	}
	return string(digits), nil
}

// generateAccountNumber produces an IBAN-shaped local number like
// "KZ44 1234 5678 9000".
func generateAccountNumber() (string, error) {
	digits, err := randomDigits(14)
	if err != nil {
		return "", fmt.Errorf("generateAccountNumber: %w", err)
	}
	return fmt.Sprintf("KZ%s %s %s %s", digits[:2], digits[2:6], digits[6:10], digits[10:14]), nil
}

func generateCardNumber() (string, error) {
	digits, err := randomDigits(12)
	if err != nil {
		return "", fmt.Errorf("generateCardNumber: %w", err)
	}
	return fmt.Sprintf("4400 %s %s %s", digits[:4], digits[4:8], digits[8:12]), nil
}
