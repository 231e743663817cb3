package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/storm-aslanbek/veridian/internal/domain"
)

const cardColumns = `id, user_id, account_id, card_number, card_holder_name,
	expiry_date, card_type, status, card_color, created_at`

type CardRepository struct {
	db *sql.DB
}

func NewCardRepository(db *sql.DB) *CardRepository {
	return &CardRepository{db: db}
}

func (r *CardRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Card, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+cardColumns+` FROM cards WHERE user_id = $1 ORDER BY created_at`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("GetByUserID: %w", err)
	}
	defer rows.Close()

	var cards []domain.Card
	for rows.Next() {
		var c domain.Card
		err := rows.Scan(
			&c.ID, &c.UserID, &c.AccountID, &c.CardNumber, &c.CardHolderName,
			&c.ExpiryDate, &c.CardType, &c.Status, &c.CardColor, &c.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("GetByUserID: scan: %w", err)
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetByUserID: rows: %w", err)
	}
	return cards, nil
}

func (r *CardRepository) Create(ctx context.Context, tx *sql.Tx, card *domain.Card) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO cards (
			id, user_id, account_id, card_number, card_holder_name,
			expiry_date, card_type, status, card_color, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		card.ID, card.UserID, card.AccountID, card.CardNumber, card.CardHolderName,
		card.ExpiryDate, card.CardType, card.Status, card.CardColor, card.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}
