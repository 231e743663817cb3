package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/storm-aslanbek/veridian/internal/domain"
)

const transactionColumns = `id, user_id, account_id, kind, category, amount,
	currency, counterparty_ref, description, status, transaction_date, created_at`

// TransactionRepository is the ledger. Records only ever get inserted; there
// is no update or delete path.
type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create appends one record inside the caller's transaction. A zero ID or
// zero timestamps are assigned here; both legs of a paired transfer must be
// created in the same sql.Tx so readers see either none or both.
func (r *TransactionRepository) Create(ctx context.Context, tx *sql.Tx, t *domain.Transaction) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	now := time.Now().UTC()
	if t.TransactionDate.IsZero() {
		t.TransactionDate = now
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}

	_, err := tx.ExecContext(ctx,
		`INSERT INTO transactions (
			id, user_id, account_id, kind, category, amount,
			currency, counterparty_ref, description, status, transaction_date, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		t.ID, t.UserID, t.AccountID, t.Kind, t.Category, t.Amount,
		t.Currency, t.CounterpartyRef, t.Description, t.Status,
		t.TransactionDate, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *TransactionRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		WHERE user_id = $1
		ORDER BY transaction_date DESC, created_at DESC
		LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("ListByUser: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("ListByUser: scan: %w", err)
		}
		txns = append(txns, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListByUser: rows: %w", err)
	}
	return txns, nil
}

func scanTransaction(s scanner) (*domain.Transaction, error) {
	var t domain.Transaction
	err := s.Scan(
		&t.ID, &t.UserID, &t.AccountID, &t.Kind, &t.Category, &t.Amount,
		&t.Currency, &t.CounterpartyRef, &t.Description, &t.Status,
		&t.TransactionDate, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
