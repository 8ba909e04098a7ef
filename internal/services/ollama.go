package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"syscall"
	"time"
	"unicode/utf8"

	"github.com/tidwall/gjson"

	"forensai-backend/internal/logx"
	"forensai-backend/internal/models"
)

// OllamaService posts non-streaming generate requests to a local Ollama.
type OllamaService struct {
	url    string
	client *http.Client
}

// NewOllamaService creates a client for the given generate endpoint. A zero
// timeout leaves the call unbounded; it still ends when ctx is cancelled.
func NewOllamaService(url string, timeout time.Duration) *OllamaService {
	return &OllamaService{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Generate sends one prompt to the backend and returns its "response" field.
// Connection failures come back as *BackendUnavailableError and non-200
// replies as *BackendStatusError.
func (s *OllamaService) Generate(ctx context.Context, model, prompt string) (*models.Generation, error) {
	payload, err := json.Marshal(models.GenerateRequest{
		Model:  model,
		Prompt: prompt,
		Stream: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		if isConnectionError(err) {
			return nil, &BackendUnavailableError{URL: s.url, Err: err}
		}
		return nil, fmt.Errorf("Ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read Ollama response: %w", err)
	}

	logx.Log.Debug().
		Str("model", model).
		Int("status", resp.StatusCode).
		Int("prompt_chars", utf8.RuneCountInString(prompt)).
		Dur("elapsed", time.Since(start)).
		Msg("ollama generate")

	if resp.StatusCode != http.StatusOK {
		return nil, &BackendStatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return parseGeneration(body)
}

func parseGeneration(body []byte) (*models.Generation, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("Ollama returned invalid JSON")
	}
	parsed := gjson.ParseBytes(body)
	if !parsed.IsObject() {
		return nil, fmt.Errorf("Ollama returned a JSON %s instead of an object", parsed.Type)
	}

	field := parsed.Get("response")
	return &models.Generation{
		Text:  field.String(),
		Raw:   json.RawMessage(field.Raw),
		Found: field.Exists(),
	}, nil
}

// isConnectionError reports failures to establish or keep a connection to the
// backend. Cancellation and deadlines are not connection failures.
func isConnectionError(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return false
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}
	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF)
}
