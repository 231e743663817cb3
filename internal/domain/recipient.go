package domain

import (
	"time"

	"github.com/google/uuid"
)

type RecipientType string

const (
	RecipientTypeInternal RecipientType = "internal"
	RecipientTypeExternal RecipientType = "external"
)

// Recipient is a saved transfer destination bookmark.
type Recipient struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Name          string
	AccountNumber string
	BankName      string
	RecipientType RecipientType
	Favorite      bool
	CreatedAt     time.Time
}
