// Package models contains data types and constants shared by echochat packages.
package models

import "time"

// Backend defaults
const (
	// DefaultEndpoint is the backend address used when nothing overrides it
	DefaultEndpoint = "http://10.139.20.130:5001"

	// ChatPath is the path of the chat route on the backend
	ChatPath = "/chat"

	// DefaultTimeoutSeconds matches the transport's own default
	DefaultTimeoutSeconds = 30
)

// Fixed reply texts
const (
	// NoResponseText is shown when the backend answered without an assistant field
	NoResponseText = "No response"

	// ApologyText is shown when the backend could not be reached or answered garbage
	ApologyText = "Sorry, I couldn't process your request. Please try again."

	// ThinkingText is the placeholder shown while a reply is pending
	ThinkingText = "Thinking…"

	// ConnectedText is the label of the connectivity indicator
	ConnectedText = "Connected"
)

// PresetDelay is the simulated latency before a preset answer is shown
const PresetDelay = 500 * time.Millisecond

// DefaultHeaders returns the headers sent with every chat request
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
	}
}
