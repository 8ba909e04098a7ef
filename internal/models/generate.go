package models

import "encoding/json"

// GenerateRequest is the body posted to Ollama's /api/generate.
type GenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// Generation is what the relay keeps from a successful backend reply.
// Found is false when the body carried no "response" field, so callers
// can apply their own fallback text. Raw holds the field's JSON exactly as
// the backend sent it (string, null, number...).
type Generation struct {
	Text  string
	Raw   json.RawMessage
	Found bool
}

// ResponseJSON is the value relayed to the caller: the backend's raw field
// when present, otherwise fallback.
func (g *Generation) ResponseJSON(fallback string) json.RawMessage {
	if !g.Found {
		b, _ := json.Marshal(fallback)
		return b
	}
	if len(g.Raw) > 0 {
		return g.Raw
	}
	b, _ := json.Marshal(g.Text)
	return b
}
