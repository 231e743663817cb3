package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/storm-aslanbek/veridian/internal/domain"
)

type RecipientRepository struct {
	db *sql.DB
}

func NewRecipientRepository(db *sql.DB) *RecipientRepository {
	return &RecipientRepository{db: db}
}

func (r *RecipientRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Recipient, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, account_number, bank_name, recipient_type, favorite, created_at
		FROM recipients WHERE user_id = $1 ORDER BY favorite DESC, created_at`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("GetByUserID: %w", err)
	}
	defer rows.Close()

	var recipients []domain.Recipient
	for rows.Next() {
		var rec domain.Recipient
		err := rows.Scan(
			&rec.ID, &rec.UserID, &rec.Name, &rec.AccountNumber,
			&rec.BankName, &rec.RecipientType, &rec.Favorite, &rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("GetByUserID: scan: %w", err)
		}
		recipients = append(recipients, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetByUserID: rows: %w", err)
	}
	return recipients, nil
}

func (r *RecipientRepository) Create(ctx context.Context, recipient *domain.Recipient) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO recipients (
			id, user_id, name, account_number, bank_name, recipient_type, favorite, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		recipient.ID, recipient.UserID, recipient.Name, recipient.AccountNumber,
		recipient.BankName, recipient.RecipientType, recipient.Favorite, recipient.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}
