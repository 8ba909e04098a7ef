package services

import "fmt"

const (
	// PromptContentLimit caps how much of a log is pasted into the prompt.
	PromptContentLimit = 2000
	// PreviewLimit caps the log excerpt echoed back to the caller.
	PreviewLimit = 500
)

const forensicPromptTemplate = `You are a digital forensics expert. Analyze this log file and provide:
1. Summary of key events
2. Any suspicious activities or anomalies
3. Security concerns
4. Recommendations

Log Content:
%s

Provide a concise analysis.`

// BuildForensicPrompt wraps the first PromptContentLimit characters of a log
// in the forensic analysis instructions. The rest of the log is dropped.
func BuildForensicPrompt(content string) string {
	return fmt.Sprintf(forensicPromptTemplate, FirstChars(content, PromptContentLimit))
}

// FirstChars returns at most n characters (code points, not bytes) of s.
func FirstChars(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
