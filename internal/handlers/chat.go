package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"forensai-backend/internal/logx"
	"forensai-backend/internal/metrics"
	"forensai-backend/internal/middleware"
	"forensai-backend/internal/models"
	"forensai-backend/internal/services"
)

const noResponseFallback = "No response from AI"

type ChatHandler struct {
	generator Generator
	model     string
}

func NewChatHandler(generator Generator, model string) *ChatHandler {
	return &ChatHandler{
		generator: generator,
		model:     model,
	}
}

// Chat forwards the caller's message to the backend verbatim.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeChatRequest(r.Body)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResp("No message provided"))
		return
	}

	gen, err := h.generator.Generate(r.Context(), h.model, req.Message)
	if err != nil {
		h.handleGenerateError(w, r, err)
		return
	}
	metrics.RecordBackendRequest("chat", metrics.OutcomeOK)

	writeJSON(w, http.StatusOK, models.ChatResponse{
		Response: gen.ResponseJSON(noResponseFallback),
		Model:    h.model,
	})
}

func (h *ChatHandler) handleGenerateError(w http.ResponseWriter, r *http.Request, err error) {
	logger := logx.Log.With().
		Str("request_id", middleware.GetRequestID(r.Context())).
		Str("operation", "chat").
		Err(err).
		Logger()

	var unavailable *services.BackendUnavailableError
	var statusErr *services.BackendStatusError
	switch {
	case errors.As(err, &unavailable):
		metrics.RecordBackendRequest("chat", metrics.OutcomeUnavailable)
		logger.Warn().Msg("backend unreachable")
		writeJSON(w, http.StatusServiceUnavailable, models.ErrorResponse{
			Error: "Cannot connect to Ollama. Make sure Ollama is running.",
			Hint:  "Run: ollama serve",
		})
	case errors.As(err, &statusErr):
		metrics.RecordBackendRequest("chat", metrics.OutcomeStatusError)
		logger.Warn().Int("backend_status", statusErr.StatusCode).Msg("backend returned an error")
		writeJSON(w, http.StatusInternalServerError, errorRespWithDetails("Failed to get response from Ollama", statusErr.Body))
	default:
		metrics.RecordBackendRequest("chat", metrics.OutcomeError)
		logger.Error().Msg("chat failed")
		writeJSON(w, http.StatusInternalServerError, errorRespWithDetails("Internal server error", err.Error()))
	}
}

// decodeChatRequest accepts any JSON object whose "message" key holds a string.
func decodeChatRequest(body io.Reader) (models.ChatRequest, bool) {
	var req models.ChatRequest

	raw, err := io.ReadAll(body)
	if err != nil {
		return req, false
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return req, false
	}
	msg, ok := fields["message"]
	if !ok || bytes.Equal(bytes.TrimSpace(msg), []byte("null")) {
		return req, false
	}
	if err := json.Unmarshal(msg, &req.Message); err != nil {
		return req, false
	}
	return req, true
}
