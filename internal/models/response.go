package models

type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// API Error response
type ErrorResponse struct {
	Error   string  `json:"error"`
	Details *string `json:"details,omitempty"`
	Hint    string  `json:"hint,omitempty"`
}
