// Package support answers customer questions through an LLM chat-completions
// backend, with canned per-language fallbacks when the upstream is down.
package support

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/storm-aslanbek/veridian/internal/logging"
)

const systemPromptRU = "Ты — полезный виртуальный помощник банка Veridian. Отвечай кратко, по делу и на русском языке."
const systemPromptKK = "Сіз Veridian банкінің пайдалы виртуалды көмекшісісіз. Жауаптарыңыз қысқа, нақты және қазақ тілінде болсын."
const systemPromptEN = "You are a helpful virtual assistant for Veridian Bank. Keep your answers concise and in English."

var fallbackReplies = map[string]string{
	"ru": "Извините, сейчас я не могу ответить. Попробуйте позже.",
	"kk": "Кешіріңіз, қазір жауап бере алмаймын. Кейінірек көріңіз.",
	"en": "Sorry, I cannot answer right now. Try again later.",
}

type ChatClient struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewChatClient(baseURL, apiKey, model string) *ChatClient {
	return &ChatClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Enabled reports whether an API key is configured. Without one every chat
// request gets the fallback reply.
func (c *ChatClient) Enabled() bool {
	return c.apiKey != ""
}

// FallbackReply returns the canned answer for the given language, Russian if
// the language is unknown.
func FallbackReply(language string) string {
	if reply, ok := fallbackReplies[language]; ok {
		return reply
	}
	return fallbackReplies["ru"]
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Chat sends the user message with a language-matched system prompt and
// returns the assistant reply.
func (c *ChatClient) Chat(ctx context.Context, message, language string) (string, error) {
	log := logging.FromContext(ctx)

	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt(language)},
			{Role: "user", Content: message},
		},
		MaxTokens:   150,
		Temperature: 0.7,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("Chat: marshal: %w", err)
	}

	url := c.baseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("Chat: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("Chat: send: %w", err)
	}
	defer resp.Body.Close()

	log.Info("support chat upstream response",
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("Chat: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("Chat: decode: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("Chat: empty choices in response")
	}

	return parsed.Choices[0].Message.Content, nil
}

func systemPrompt(language string) string {
	switch language {
	case "kk":
		return systemPromptKK
	case "en":
		return systemPromptEN
	default:
		return systemPromptRU
	}
}
