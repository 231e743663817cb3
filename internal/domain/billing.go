package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Bill struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	PayeeName string
	Category  string
	Amount    int64
	Currency  Currency
	DueDate   time.Time
	Paid      bool
	CreatedAt time.Time
}

type LoanStatus string

const (
	LoanStatusActive LoanStatus = "active"
	LoanStatusClosed LoanStatus = "closed"
)

type Loan struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Provider        string
	Amount          int64
	RemainingAmount int64
	Currency        Currency
	InterestRate    decimal.Decimal
	NextPaymentDate time.Time
	Status          LoanStatus
	CreatedAt       time.Time
}
