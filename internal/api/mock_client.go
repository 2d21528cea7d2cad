package api

import (
	"context"
	"sync"

	"github.com/diogo/echochat/internal/models"
)

// MockClient is a mock implementation of ChatClient for testing
type MockClient struct {
	// Mock return values
	ReplyVal    *models.Reply
	Err         error
	EndpointVal string

	// SendFunc, when set, replaces ReplyVal/Err
	SendFunc func(ctx context.Context, text string) (*models.Reply, error)

	mu          sync.Mutex
	calls       int
	lastText    string
	closeCalled bool
}

// Ensure MockClient implements ChatClient
var _ ChatClient = (*MockClient)(nil)

// NewMockClient returns a mock that answers every message with text
func NewMockClient(text string) *MockClient {
	return &MockClient{ReplyVal: &models.Reply{Text: text, StatusCode: 200}}
}

// NewFailingMockClient returns a mock that fails every message with err
func NewFailingMockClient(err error) *MockClient {
	return &MockClient{Err: err}
}

func (m *MockClient) SendMessage(ctx context.Context, text string) (*models.Reply, error) {
	m.mu.Lock()
	m.calls++
	m.lastText = text
	send := m.SendFunc
	m.mu.Unlock()

	if send != nil {
		return send(ctx, text)
	}
	return m.ReplyVal, m.Err
}

func (m *MockClient) Endpoint() string {
	if m.EndpointVal != "" {
		return m.EndpointVal
	}
	return models.DefaultEndpoint + models.ChatPath
}

func (m *MockClient) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeCalled = true
}

// Calls returns how many times SendMessage ran
func (m *MockClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// LastText returns the text of the most recent SendMessage call
func (m *MockClient) LastText() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastText
}

// CloseCalled reports whether Close ran
func (m *MockClient) CloseCalled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeCalled
}
