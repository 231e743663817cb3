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

type cardReader interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Card, error)
}

type CardHandler struct {
	cards cardReader
}

func NewCardHandler(cards cardReader) *CardHandler {
	return &CardHandler{cards: cards}
}

type cardDTO struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"userId"`
	AccountID      uuid.UUID `json:"accountId"`
	CardNumber     string    `json:"cardNumber"`
	CardHolderName string    `json:"cardHolderName"`
	ExpiryDate     string    `json:"expiryDate"`
	CardType       string    `json:"cardType"`
	Status         string    `json:"status"`
	CardColor      string    `json:"cardColor"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (h *CardHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	cards, err := h.cards.GetByUserID(r.Context(), userID)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list cards", "error", err)
		RespondDomainError(w, err)
		return
	}

	dtos := make([]cardDTO, len(cards))
	for i, c := range cards {
		dtos[i] = cardDTO{
			ID:             c.ID,
			UserID:         c.UserID,
			AccountID:      c.AccountID,
			CardNumber:     c.MaskedNumber(),
			CardHolderName: c.CardHolderName,
			ExpiryDate:     c.ExpiryDate,
			CardType:       c.CardType,
			Status:         string(c.Status),
			CardColor:      c.CardColor,
			CreatedAt:      c.CreatedAt,
		}
	}
	RespondSuccess(w, http.StatusOK, dtos)
}
