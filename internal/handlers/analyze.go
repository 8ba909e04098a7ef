package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"forensai-backend/internal/logx"
	"forensai-backend/internal/metrics"
	"forensai-backend/internal/middleware"
	"forensai-backend/internal/models"
	"forensai-backend/internal/services"
)

// multipartMemory is how much of an upload is held in memory before spilling
// to temporary files.
const multipartMemory = 32 << 20

var errNoContent = errors.New("no file or content provided")

type AnalyzeHandler struct {
	generator      Generator
	extractor      TextExtractor
	model          string
	maxUploadBytes int64
}

func NewAnalyzeHandler(generator Generator, extractor TextExtractor, model string, maxUploadBytes int64) *AnalyzeHandler {
	return &AnalyzeHandler{
		generator:      generator,
		extractor:      extractor,
		model:          model,
		maxUploadBytes: maxUploadBytes,
	}
}

// AnalyzeLog wraps an uploaded log (or pasted text) in the forensic prompt
// and returns the backend's analysis together with a short preview.
//
// Unlike Chat, a backend that cannot be reached is reported as a generic
// 500 here rather than 503.
func (h *AnalyzeHandler) AnalyzeLog(w http.ResponseWriter, r *http.Request) {
	logger := logx.Log.With().
		Str("request_id", middleware.GetRequestID(r.Context())).
		Str("operation", "analyze_log").
		Logger()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	content, err := h.readContent(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, errNoContent):
			writeJSON(w, http.StatusBadRequest, errorResp("No file or content provided"))
		case errors.As(err, &tooLarge):
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResp("File size exceeds upload limit"))
		default:
			logger.Error().Err(err).Msg("failed to read log content")
			writeJSON(w, http.StatusInternalServerError, errorRespWithDetails("Error analyzing log", err.Error()))
		}
		return
	}

	gen, err := h.generator.Generate(r.Context(), h.model, services.BuildForensicPrompt(content))
	if err != nil {
		var statusErr *services.BackendStatusError
		var unavailable *services.BackendUnavailableError
		switch {
		case errors.As(err, &statusErr):
			metrics.RecordBackendRequest("analyze_log", metrics.OutcomeStatusError)
			logger.Warn().Err(err).Int("backend_status", statusErr.StatusCode).Msg("backend returned an error")
			writeJSON(w, http.StatusInternalServerError, errorResp("Analysis failed"))
		case errors.As(err, &unavailable):
			metrics.RecordBackendRequest("analyze_log", metrics.OutcomeUnavailable)
			logger.Warn().Err(err).Msg("backend unreachable")
			writeJSON(w, http.StatusInternalServerError, errorRespWithDetails("Error analyzing log", err.Error()))
		default:
			metrics.RecordBackendRequest("analyze_log", metrics.OutcomeError)
			logger.Error().Err(err).Msg("analysis failed")
			writeJSON(w, http.StatusInternalServerError, errorRespWithDetails("Error analyzing log", err.Error()))
		}
		return
	}
	metrics.RecordBackendRequest("analyze_log", metrics.OutcomeOK)

	writeJSON(w, http.StatusOK, models.AnalyzeResponse{
		Analysis:   gen.ResponseJSON(""),
		LogPreview: services.FirstChars(content, services.PreviewLimit),
	})
}

// readContent returns the text of the "file" part if one was uploaded,
// otherwise the "content" form field.
func (h *AnalyzeHandler) readContent(r *http.Request) (string, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", err
		}
		logx.Log.Debug().Err(err).Msg("unreadable form body")
		return "", errNoContent
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()

		if files := r.MultipartForm.File["file"]; len(files) > 0 {
			fh := files[0]
			f, err := fh.Open()
			if err != nil {
				return "", fmt.Errorf("failed to open uploaded file: %w", err)
			}
			defer f.Close()

			return h.extractor.ExtractText(fh.Filename, f, fh.Size)
		}
		// A file input submitted with no file selected arrives with an
		// empty filename, which mime/multipart files under Value. It is
		// still the upload and still takes precedence over "content".
		if values := r.MultipartForm.Value["file"]; len(values) > 0 {
			return h.extractor.ExtractText("", strings.NewReader(values[0]), int64(len(values[0])))
		}
	}

	if values, ok := r.PostForm["content"]; ok && len(values) > 0 {
		return values[0], nil
	}
	return "", errNoContent
}
