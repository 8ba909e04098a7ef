package models

import "encoding/json"

// AnalyzeResponse is returned by the log analysis endpoint. LogPreview holds
// the head of the submitted log, independent of how much went into the prompt.
type AnalyzeResponse struct {
	Analysis   json.RawMessage `json:"analysis"`
	LogPreview string `json:"log_preview"`
}
