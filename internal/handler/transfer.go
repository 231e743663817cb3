package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/storm-aslanbek/veridian/internal/auth"
	"github.com/storm-aslanbek/veridian/internal/logging"
	"github.com/storm-aslanbek/veridian/internal/transfer"
)

type transferEngine interface {
	ToCard(ctx context.Context, req transfer.ToCardRequest) (*transfer.Result, error)
	ByPhone(ctx context.Context, req transfer.ByPhoneRequest) (*transfer.Result, error)
}

type TransferHandler struct {
	engine transferEngine
}

func NewTransferHandler(engine transferEngine) *TransferHandler {
	return &TransferHandler{engine: engine}
}

type transferResponse struct {
	Status        string    `json:"status"`
	TransactionID uuid.UUID `json:"transactionId"`
}

type toCardRequest struct {
	AccountID   string `json:"accountId"`
	CardNumber  string `json:"cardNumber"`
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
}

func (r toCardRequest) Validate() []FieldError {
	var errs []FieldError
	if r.AccountID == "" {
		errs = append(errs, FieldError{Field: "accountId", Message: "required"})
	} else if _, err := uuid.Parse(r.AccountID); err != nil {
		errs = append(errs, FieldError{Field: "accountId", Message: "must be a valid id"})
	}
	if r.CardNumber == "" {
		errs = append(errs, FieldError{Field: "cardNumber", Message: "required"})
	}
	if r.Amount <= 0 {
		errs = append(errs, FieldError{Field: "amount", Message: "must be greater than zero"})
	}
	return errs
}

func (h *TransferHandler) ToCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	var req toCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	result, err := h.engine.ToCard(r.Context(), transfer.ToCardRequest{
		OwnerID:     userID,
		AccountID:   uuid.MustParse(req.AccountID),
		CardNumber:  req.CardNumber,
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		logging.FromContext(r.Context()).Warn("card transfer rejected", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, transferResponse{
		Status:        "success",
		TransactionID: result.TransactionID,
	})
}

type byPhoneRequest struct {
	AccountID   string `json:"accountId"`
	PhoneNumber string `json:"phoneNumber"`
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
}

func (r byPhoneRequest) Validate() []FieldError {
	var errs []FieldError
	if r.AccountID == "" {
		errs = append(errs, FieldError{Field: "accountId", Message: "required"})
	} else if _, err := uuid.Parse(r.AccountID); err != nil {
		errs = append(errs, FieldError{Field: "accountId", Message: "must be a valid id"})
	}
	if r.PhoneNumber == "" {
		errs = append(errs, FieldError{Field: "phoneNumber", Message: "required"})
	}
	if r.Amount <= 0 {
		errs = append(errs, FieldError{Field: "amount", Message: "must be greater than zero"})
	}
	return errs
}

func (h *TransferHandler) ByPhone(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	var req byPhoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	result, err := h.engine.ByPhone(r.Context(), transfer.ByPhoneRequest{
		OwnerID:     userID,
		AccountID:   uuid.MustParse(req.AccountID),
		Phone:       req.PhoneNumber,
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		logging.FromContext(r.Context()).Warn("phone transfer rejected", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, transferResponse{
		Status:        "success",
		TransactionID: result.TransactionID,
	})
}
