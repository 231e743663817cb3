package domain

import (
	"time"

	"github.com/google/uuid"
)

type CardStatus string

const (
	CardStatusActive  CardStatus = "active"
	CardStatusBlocked CardStatus = "blocked"
)

type Card struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	AccountID      uuid.UUID
	CardNumber     string
	CardHolderName string
	ExpiryDate     string
	CardType       string
	Status         CardStatus
	CardColor      string
	CreatedAt      time.Time
}

// MaskedNumber keeps only the last four digits, e.g. "**** **** **** 5566".
func (c *Card) MaskedNumber() string {
	if len(c.CardNumber) < 4 {
		return c.CardNumber
	}
	return "**** **** **** " + c.CardNumber[len(c.CardNumber)-4:]
}
