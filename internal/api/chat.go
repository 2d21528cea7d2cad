package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	apierrors "github.com/diogo/echochat/internal/errors"
	"github.com/diogo/echochat/internal/models"
)

// SendMessage posts text to the backend and returns its reply.
// The text is sent exactly as typed. There is no retry.
func (c *Client) SendMessage(ctx context.Context, text string) (*models.Reply, error) {
	if c.IsClosed() {
		return nil, apierrors.ErrClientClosed
	}

	payload, err := json.Marshal(models.ChatRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to build payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.chatURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for key, value := range models.DefaultHeaders() {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("chat request failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		if errors.Is(err, context.DeadlineExceeded) || apierrors.IsTimeoutError(err) {
			return nil, apierrors.NewTimeoutError(err.Error())
		}
		return nil, apierrors.NewNetworkErrorWithEndpoint("chat", c.chatURL, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, apierrors.NewNetworkErrorWithEndpoint("read chat response", c.chatURL, err)
	}

	c.logger.Debug("chat response",
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return parseReply(body, resp.StatusCode, c.chatURL)
}

// parseReply extracts the assistant text from a response body.
//
// The status code is not consulted when the body is JSON, so a backend that
// answers {"assistant": "..."} with a 500 still gets its text shown.
func parseReply(body []byte, statusCode int, endpoint string) (*models.Reply, error) {
	if !gjson.ValidBytes(body) {
		preview := string(body)
		if len(preview) > maxErrorBodyBytes {
			preview = preview[:maxErrorBodyBytes]
		}
		if statusCode < 200 || statusCode >= 300 {
			return nil, apierrors.NewAPIErrorWithBody(statusCode, endpoint, "chat request failed", preview)
		}
		return nil, apierrors.NewParseError("response body is not JSON", preview)
	}

	reply := &models.Reply{StatusCode: statusCode}
	result := gjson.GetBytes(body, PathAssistant)
	if result.Type == gjson.String && result.String() != "" {
		reply.Text = result.String()
	} else {
		reply.Empty = true
	}
	return reply, nil
}
