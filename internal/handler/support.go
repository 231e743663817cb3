package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/storm-aslanbek/veridian/internal/logging"
	"github.com/storm-aslanbek/veridian/internal/support"
)

type chatClient interface {
	Enabled() bool
	Chat(ctx context.Context, message, language string) (string, error)
}

type SupportHandler struct {
	chat chatClient
}

func NewSupportHandler(chat chatClient) *SupportHandler {
	return &SupportHandler{chat: chat}
}

type chatRequest struct {
	Message  string `json:"message"`
	Language string `json:"language"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

// Chat never fails toward the client: any upstream problem degrades to the
// canned per-language reply.
func (h *SupportHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if req.Message == "" {
		RespondValidationError(w, []FieldError{{Field: "message", Message: "required"}})
		return
	}
	if req.Language == "" {
		req.Language = "ru"
	}

	if !h.chat.Enabled() {
		RespondSuccess(w, http.StatusOK, chatResponse{Reply: support.FallbackReply(req.Language)})
		return
	}

	reply, err := h.chat.Chat(r.Context(), req.Message, req.Language)
	if err != nil {
		logging.FromContext(r.Context()).Error("support chat upstream failed", "error", err)
		RespondSuccess(w, http.StatusOK, chatResponse{Reply: support.FallbackReply(req.Language)})
		return
	}

	RespondSuccess(w, http.StatusOK, chatResponse{Reply: reply})
}
