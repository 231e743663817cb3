package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/storm-aslanbek/veridian/internal/auth"
	"github.com/storm-aslanbek/veridian/internal/domain"
	"github.com/storm-aslanbek/veridian/internal/logging"
)

type userDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type phoneResolver interface {
	ResolveByPhone(ctx context.Context, rawPhone string, requesterID uuid.UUID) (*domain.User, error)
}

type UserHandler struct {
	users    userDirectory
	resolver phoneResolver
}

func NewUserHandler(users userDirectory, resolver phoneResolver) *UserHandler {
	return &UserHandler{users: users, resolver: resolver}
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to load user", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toUserDTO(user))
}

type searchRequest struct {
	Phone string `json:"phone"`
}

type searchResponse struct {
	FirstName  string  `json:"firstName"`
	Surname    string  `json:"surname"`
	Patronymic *string `json:"patronymic"`
}

// Search looks up a transfer recipient by phone before the client submits the
// transfer itself. Same normalization and self-transfer guard as the engine.
func (h *UserHandler) Search(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if req.Phone == "" {
		RespondValidationError(w, []FieldError{{Field: "phone", Message: "required"}})
		return
	}

	found, err := h.resolver.ResolveByPhone(r.Context(), req.Phone, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrRecipientNotFound) && !errors.Is(err, domain.ErrSelfTransfer) && !errors.Is(err, domain.ErrInvalidPhone) {
			logging.FromContext(r.Context()).Error("recipient search failed", "error", err)
		}
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, searchResponse{
		FirstName:  found.FirstName,
		Surname:    found.Surname,
		Patronymic: found.Patronymic,
	})
}
