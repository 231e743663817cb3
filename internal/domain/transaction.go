package domain

import (
	"time"

	"github.com/google/uuid"
)

type TransactionKind string

const (
	KindDebit       TransactionKind = "debit"
	KindCredit      TransactionKind = "credit"
	KindTransfer    TransactionKind = "transfer"
	KindTransferOut TransactionKind = "transfer_out"
	KindTransferIn  TransactionKind = "transfer_in"
)

type TransactionStatus string

// Records are immutable, so status is fixed at insert time; the engine only
// ever writes completed records (a failed transfer leaves no records at all).
const TransactionStatusCompleted TransactionStatus = "completed"

// Transaction is one ledger record. Records are append-only: once written
// they are never updated or deleted. Amount is signed and in minor units;
// the two legs of a phone transfer sum to zero and carry each other's id
// in CounterpartyRef.
type Transaction struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	AccountID       uuid.UUID
	Kind            TransactionKind
	Category        string
	Amount          int64
	Currency        Currency
	CounterpartyRef *string
	Description     *string
	Status          TransactionStatus
	TransactionDate time.Time
	CreatedAt       time.Time
}
