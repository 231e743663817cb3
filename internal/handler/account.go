package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/storm-aslanbek/veridian/internal/auth"
	"github.com/storm-aslanbek/veridian/internal/domain"
	"github.com/storm-aslanbek/veridian/internal/logging"
)

type accountReader interface {
	GetForOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Account, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Account, error)
}

type AccountHandler struct {
	accounts accountReader
}

func NewAccountHandler(accounts accountReader) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

type accountDTO struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"userId"`
	AccountNumber string    `json:"accountNumber"`
	AccountName   string    `json:"accountName"`
	AccountType   string    `json:"accountType"`
	Balance       int64     `json:"balance"`
	Currency      string    `json:"currency"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func toAccountDTO(a *domain.Account) accountDTO {
	return accountDTO{
		ID:            a.ID,
		UserID:        a.UserID,
		AccountNumber: a.AccountNumber,
		AccountName:   a.AccountName,
		AccountType:   string(a.AccountType),
		Balance:       a.Balance,
		Currency:      string(a.Currency),
		IsActive:      a.Active,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	accounts, err := h.accounts.GetByUserID(r.Context(), userID)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list accounts", "error", err)
		RespondDomainError(w, err)
		return
	}

	dtos := make([]accountDTO, len(accounts))
	for i := range accounts {
		dtos[i] = toAccountDTO(&accounts[i])
	}
	RespondSuccess(w, http.StatusOK, dtos)
}

func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	accountID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	account, err := h.accounts.GetForOwner(r.Context(), accountID, userID)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toAccountDTO(account))
}
