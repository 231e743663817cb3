package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/storm-aslanbek/veridian/internal/auth"
	"github.com/storm-aslanbek/veridian/internal/domain"
	"github.com/storm-aslanbek/veridian/internal/logging"
)

const (
	defaultTransactionLimit = 100
	maxTransactionLimit     = 500
)

type ledgerReader interface {
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Transaction, error)
}

type TransactionHandler struct {
	ledger ledgerReader
}

func NewTransactionHandler(ledger ledgerReader) *TransactionHandler {
	return &TransactionHandler{ledger: ledger}
}

type transactionDTO struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"userId"`
	AccountID       uuid.UUID `json:"accountId"`
	Type            string    `json:"type"`
	Category        string    `json:"category"`
	Amount          int64     `json:"amount"`
	Currency        string    `json:"currency"`
	Recipient       *string   `json:"recipient"`
	Description     *string   `json:"description"`
	Status          string    `json:"status"`
	TransactionDate time.Time `json:"transactionDate"`
	CreatedAt       time.Time `json:"createdAt"`
}

func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	limit := defaultTransactionLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxTransactionLimit {
			RespondValidationError(w, []FieldError{{Field: "limit", Message: "must be between 1 and 500"}})
			return
		}
		limit = n
	}

	txns, err := h.ledger.ListByUser(r.Context(), userID, limit)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list transactions", "error", err)
		RespondDomainError(w, err)
		return
	}

	dtos := make([]transactionDTO, len(txns))
	for i, t := range txns {
		dtos[i] = transactionDTO{
			ID:              t.ID,
			UserID:          t.UserID,
			AccountID:       t.AccountID,
			Type:            string(t.Kind),
			Category:        t.Category,
			Amount:          t.Amount,
			Currency:        string(t.Currency),
			Recipient:       t.CounterpartyRef,
			Description:     t.Description,
			Status:          string(t.Status),
			TransactionDate: t.TransactionDate,
			CreatedAt:       t.CreatedAt,
		}
	}
	RespondSuccess(w, http.StatusOK, dtos)
}
