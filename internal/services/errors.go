package services

import "fmt"

// BackendUnavailableError means the inference backend could not be reached
// at the connection level (refused, reset, DNS failure).
type BackendUnavailableError struct {
	URL string
	Err error
}

func (e *BackendUnavailableError) Error() string {
	return fmt.Sprintf("cannot connect to Ollama at %s: %v", e.URL, e.Err)
}

func (e *BackendUnavailableError) Unwrap() error { return e.Err }

// BackendStatusError is a reply from the backend with a status other than 200.
// Body is kept verbatim.
type BackendStatusError struct {
	StatusCode int
	Body       string
}

func (e *BackendStatusError) Error() string {
	return fmt.Sprintf("Ollama returned status %d", e.StatusCode)
}
