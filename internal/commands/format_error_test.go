package commands

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	apierrors "github.com/diogo/echochat/internal/errors"
)

func TestFormatErrorMessage_Nil(t *testing.T) {
	if got := formatErrorMessage(nil, "ctx"); got != "" {
		t.Fatalf("expected empty for nil error, got %s", got)
	}
}

func TestFormatErrorMessage_APIError(t *testing.T) {
	e := apierrors.NewAPIErrorWithBody(502, "http://localhost:5001/chat", "bad gateway", "upstream down")
	out := formatErrorMessage(fmt.Errorf("request failed: %w", e), "Failed")

	for _, want := range []string{"HTTP Status: 502", "Endpoint: http://localhost:5001/chat", "upstream down"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in message, got: %s", want, out)
		}
	}
	if strings.Contains(out, "Hint") {
		t.Errorf("body should replace the hint, got: %s", out)
	}
}

func TestFormatErrorMessage_Hints(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"timeout", apierrors.NewTimeoutError("request timed out"), "timeout_seconds"},
		{"network", apierrors.NewNetworkError("send", errors.New("connection refused")), "backend is running"},
		{"parse", apierrors.NewParseError("not json", ""), "JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := formatErrorMessage(tt.err, "Request failed")
			if !strings.Contains(out, "Hint") || !strings.Contains(out, tt.want) {
				t.Errorf("expected hint with %q, got: %s", tt.want, out)
			}
		})
	}
}

func TestFormatErrorMessage_Plain(t *testing.T) {
	out := formatErrorMessage(errors.New("boom"), "Error")
	if !strings.Contains(out, "Error: boom") {
		t.Errorf("unexpected message: %s", out)
	}
	if strings.Contains(out, "Hint") {
		t.Errorf("plain error should have no hint: %s", out)
	}
}
