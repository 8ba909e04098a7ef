package models

import "encoding/json"

// ChatRequest is the payload sent to the chat endpoint.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the reply relayed back from the model.
type ChatResponse struct {
	Response json.RawMessage `json:"response"`
	Model    string `json:"model"`
}
