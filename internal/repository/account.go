package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/storm-aslanbek/veridian/internal/domain"
)

const accountColumns = `id, user_id, account_number, account_name, account_type,
	balance, currency, active, created_at, updated_at`

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// GetForOwner filters by owner: an account that exists but belongs to another
// user is reported as not found, same as a missing one.
func (r *AccountRepository) GetForOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1 AND user_id = $2`,
		id, ownerID,
	)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetForOwner: %w", domain.ErrAccountNotFound)
		}
		return nil, fmt.Errorf("GetForOwner: %w", err)
	}
	return a, nil
}

func (r *AccountRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE user_id = $1 ORDER BY created_at`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("GetByUserID: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("GetByUserID: scan: %w", err)
		}
		accounts = append(accounts, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetByUserID: rows: %w", err)
	}
	return accounts, nil
}

// OldestActiveForUser picks the destination account for an incoming phone
// transfer: the active account created first, with the id as tiebreak so the
// choice is stable.
func (r *AccountRepository) OldestActiveForUser(ctx context.Context, userID uuid.UUID) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts
		WHERE user_id = $1 AND active
		ORDER BY created_at, id
		LIMIT 1`,
		userID,
	)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("OldestActiveForUser: %w", domain.ErrNoActiveAccount)
		}
		return nil, fmt.Errorf("OldestActiveForUser: %w", err)
	}
	return a, nil
}

// AdjustBalance applies delta only if the resulting balance stays at or above
// minResulting, as one conditional UPDATE. There is no read-then-write window:
// concurrent adjustments against the same account serialize on the row and
// each one either applies fully or not at all.
func (r *AccountRepository) AdjustBalance(ctx context.Context, id uuid.UUID, delta, minResulting int64) (int64, error) {
	var balance int64
	err := r.db.QueryRowContext(ctx,
		`UPDATE accounts
		SET balance = balance + $2, updated_at = now()
		WHERE id = $1 AND balance + $2 >= $3
		RETURNING balance`,
		id, delta, minResulting,
	).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		var exists bool
		if probeErr := r.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM accounts WHERE id = $1)`, id,
		).Scan(&exists); probeErr != nil {
			return 0, fmt.Errorf("AdjustBalance: probe: %w", probeErr)
		}
		if !exists {
			return 0, fmt.Errorf("AdjustBalance: %w", domain.ErrAccountNotFound)
		}
		return 0, fmt.Errorf("AdjustBalance: %w", domain.ErrInsufficientFunds)
	}
	if err != nil {
		return 0, fmt.Errorf("AdjustBalance: %w", err)
	}
	return balance, nil
}

func (r *AccountRepository) Create(ctx context.Context, tx *sql.Tx, account *domain.Account) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO accounts (
			id, user_id, account_number, account_name, account_type,
			balance, currency, active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		account.ID, account.UserID, account.AccountNumber, account.AccountName,
		account.AccountType, account.Balance, account.Currency, account.Active,
		account.CreatedAt, account.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func scanAccount(s scanner) (*domain.Account, error) {
	var a domain.Account
	err := s.Scan(
		&a.ID, &a.UserID, &a.AccountNumber, &a.AccountName, &a.AccountType,
		&a.Balance, &a.Currency, &a.Active, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
