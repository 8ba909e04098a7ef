package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"forensai-backend/internal/logx"
	"forensai-backend/internal/models"
)

// Generator produces text for a prompt. *services.OllamaService is the
// production implementation.
type Generator interface {
	Generate(ctx context.Context, model, prompt string) (*models.Generation, error)
}

// TextExtractor turns an uploaded file into text.
type TextExtractor interface {
	ExtractText(filename string, r io.ReaderAt, size int64) (string, error)
}

// Shared helpers

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logx.Log.Error().Err(err).Msg("encode response")
	}
}

func errorResp(message string) models.ErrorResponse {
	return models.ErrorResponse{Error: message}
}

func errorRespWithDetails(message, details string) models.ErrorResponse {
	return models.ErrorResponse{Error: message, Details: &details}
}
