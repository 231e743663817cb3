package domain

import (
	"time"

	"github.com/google/uuid"
)

type Currency string

const (
	CurrencyKZT Currency = "KZT"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
)

func (c Currency) IsValid() bool {
	switch c {
	case CurrencyKZT, CurrencyUSD, CurrencyEUR:
		return true
	default:
		return false
	}
}

type AccountType string

const (
	AccountTypeChecking AccountType = "checking"
	AccountTypeSavings  AccountType = "savings"
)

// Account balances are stored in minor currency units (tiyn for KZT).
// Balance never goes below zero; the adjustment primitive in the repository
// enforces that as part of a single conditional update.
type Account struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	AccountNumber string
	AccountName   string
	AccountType   AccountType
	Balance       int64
	Currency      Currency
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
