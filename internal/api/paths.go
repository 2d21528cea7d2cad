// Package api provides the HTTP client for the echochat backend.
package api

// GJSON paths for extracting values from backend responses
const (
	// PathAssistant is the reply text; any other shape is tolerated
	PathAssistant = "assistant"
)

// maxResponseBytes caps how much of a response body is read
const maxResponseBytes = 1 << 20

// maxErrorBodyBytes caps the body kept on an error for diagnostics
const maxErrorBodyBytes = 4096
