package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/storm-aslanbek/veridian/internal/auth"
	"github.com/storm-aslanbek/veridian/internal/domain"
	"github.com/storm-aslanbek/veridian/internal/logging"
)

type recipientStore interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Recipient, error)
	Create(ctx context.Context, recipient *domain.Recipient) error
}

type RecipientHandler struct {
	recipients recipientStore
}

func NewRecipientHandler(recipients recipientStore) *RecipientHandler {
	return &RecipientHandler{recipients: recipients}
}

type recipientDTO struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"userId"`
	Name          string    `json:"name"`
	AccountNumber string    `json:"accountNumber"`
	BankName      string    `json:"bankName"`
	RecipientType string    `json:"recipientType"`
	IsFavorite    bool      `json:"isFavorite"`
	CreatedAt     time.Time `json:"createdAt"`
}

func toRecipientDTO(rec *domain.Recipient) recipientDTO {
	return recipientDTO{
		ID:            rec.ID,
		UserID:        rec.UserID,
		Name:          rec.Name,
		AccountNumber: rec.AccountNumber,
		BankName:      rec.BankName,
		RecipientType: string(rec.RecipientType),
		IsFavorite:    rec.Favorite,
		CreatedAt:     rec.CreatedAt,
	}
}

func (h *RecipientHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	recipients, err := h.recipients.GetByUserID(r.Context(), userID)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list recipients", "error", err)
		RespondDomainError(w, err)
		return
	}

	dtos := make([]recipientDTO, len(recipients))
	for i := range recipients {
		dtos[i] = toRecipientDTO(&recipients[i])
	}
	RespondSuccess(w, http.StatusOK, dtos)
}

type createRecipientRequest struct {
	Name          string `json:"name"`
	AccountNumber string `json:"accountNumber"`
	BankName      string `json:"bankName"`
	RecipientType string `json:"recipientType"`
	IsFavorite    bool   `json:"isFavorite"`
}

func (r createRecipientRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "required"})
	}
	if r.AccountNumber == "" {
		errs = append(errs, FieldError{Field: "accountNumber", Message: "required"})
	}
	if r.RecipientType != "" &&
		r.RecipientType != string(domain.RecipientTypeInternal) &&
		r.RecipientType != string(domain.RecipientTypeExternal) {
		errs = append(errs, FieldError{Field: "recipientType", Message: "must be internal or external"})
	}
	return errs
}

func (h *RecipientHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	var req createRecipientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	recipientType := domain.RecipientType(req.RecipientType)
	if req.RecipientType == "" {
		recipientType = domain.RecipientTypeExternal
	}
	bankName := req.BankName
	if bankName == "" {
		bankName = "Other Bank"
	}

	rec := &domain.Recipient{
		ID:            uuid.New(),
		UserID:        userID,
		Name:          req.Name,
		AccountNumber: req.AccountNumber,
		BankName:      bankName,
		RecipientType: recipientType,
		Favorite:      req.IsFavorite,
		CreatedAt:     time.Now().UTC(),
	}

	if err := h.recipients.Create(r.Context(), rec); err != nil {
		logging.FromContext(r.Context()).Error("failed to create recipient", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toRecipientDTO(rec))
}
