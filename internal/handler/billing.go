package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storm-aslanbek/veridian/internal/auth"
	"github.com/storm-aslanbek/veridian/internal/domain"
	"github.com/storm-aslanbek/veridian/internal/logging"
)

type billReader interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Bill, error)
}

type loanReader interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Loan, error)
}

type BillingHandler struct {
	bills billReader
	loans loanReader
}

func NewBillingHandler(bills billReader, loans loanReader) *BillingHandler {
	return &BillingHandler{bills: bills, loans: loans}
}

type billDTO struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	PayeeName string    `json:"payeeName"`
	Category  string    `json:"category"`
	Amount    int64     `json:"amount"`
	Currency  string    `json:"currency"`
	DueDate   time.Time `json:"dueDate"`
	IsPaid    bool      `json:"isPaid"`
	CreatedAt time.Time `json:"createdAt"`
}

func (h *BillingHandler) ListBills(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	bills, err := h.bills.GetByUserID(r.Context(), userID)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list bills", "error", err)
		RespondDomainError(w, err)
		return
	}

	dtos := make([]billDTO, len(bills))
	for i, b := range bills {
		dtos[i] = billDTO{
			ID:        b.ID,
			UserID:    b.UserID,
			PayeeName: b.PayeeName,
			Category:  b.Category,
			Amount:    b.Amount,
			Currency:  string(b.Currency),
			DueDate:   b.DueDate,
			IsPaid:    b.Paid,
			CreatedAt: b.CreatedAt,
		}
	}
	RespondSuccess(w, http.StatusOK, dtos)
}

type loanDTO struct {
	ID              uuid.UUID       `json:"id"`
	UserID          uuid.UUID       `json:"userId"`
	Provider        string          `json:"provider"`
	Amount          int64           `json:"amount"`
	RemainingAmount int64           `json:"remainingAmount"`
	Currency        string          `json:"currency"`
	InterestRate    decimal.Decimal `json:"interestRate"`
	NextPaymentDate time.Time       `json:"nextPaymentDate"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
}

func (h *BillingHandler) ListLoans(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	loans, err := h.loans.GetByUserID(r.Context(), userID)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list loans", "error", err)
		RespondDomainError(w, err)
		return
	}

	dtos := make([]loanDTO, len(loans))
	for i, l := range loans {
		dtos[i] = loanDTO{
			ID:              l.ID,
			UserID:          l.UserID,
			Provider:        l.Provider,
			Amount:          l.Amount,
			RemainingAmount: l.RemainingAmount,
			Currency:        string(l.Currency),
			InterestRate:    l.InterestRate,
			NextPaymentDate: l.NextPaymentDate,
			Status:          string(l.Status),
			CreatedAt:       l.CreatedAt,
		}
	}
	RespondSuccess(w, http.StatusOK, dtos)
}
