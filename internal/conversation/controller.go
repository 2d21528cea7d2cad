// Package conversation owns the message thread and the pending-reply state.
//
// A submission goes through two steps. Submit appends the user message and
// marks the conversation as awaiting a reply; it never blocks. The returned
// Pending is then resolved, usually on another goroutine: a preset question is
// answered after a short simulated delay, anything else is sent to the
// backend. Resolution always appends exactly one assistant message and
// returns the conversation to Idle.
package conversation

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/diogo/echochat/internal/api"
	apierrors "github.com/diogo/echochat/internal/errors"
	"github.com/diogo/echochat/internal/models"
	"github.com/diogo/echochat/internal/preset"
)

// State is the controller state
type State int

const (
	Idle State = iota
	AwaitingResponse
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingResponse:
		return "awaiting_response"
	default:
		return "unknown"
	}
}

// Sleeper waits for d or until ctx is done
type Sleeper func(ctx context.Context, d time.Duration)

// StateHook is called after every state transition, outside the lock
type StateHook func(from, to State)

// Snapshot is a copy of the conversation state
type Snapshot struct {
	Messages         []models.Message
	PendingInput     string
	AwaitingResponse bool
}

// Result describes how a submission was resolved
type Result struct {
	Message models.Message
	Source  models.ReplySource
	Err     error // backend failure behind an apology, nil otherwise
	Elapsed time.Duration
}

// Controller owns a single conversation. It is safe for concurrent use.
type Controller struct {
	client      api.ChatClient
	matcher     *preset.Matcher
	presetDelay time.Duration
	sleep       Sleeper
	hook        StateHook
	logger      *zap.Logger

	mu           sync.Mutex
	messages     []models.Message
	pendingInput string
	state        State
}

// Option configures a Controller
type Option func(*Controller)

// WithMatcher replaces the preset matcher
func WithMatcher(m *preset.Matcher) Option {
	return func(c *Controller) {
		if m != nil {
			c.matcher = m
		}
	}
}

// WithPresetDelay sets the simulated delay before a preset answer
func WithPresetDelay(d time.Duration) Option {
	return func(c *Controller) {
		c.presetDelay = d
	}
}

// WithSleeper replaces how the preset delay is waited out
func WithSleeper(s Sleeper) Option {
	return func(c *Controller) {
		if s != nil {
			c.sleep = s
		}
	}
}

// WithStateHook registers a callback for state transitions
func WithStateHook(h StateHook) Option {
	return func(c *Controller) {
		c.hook = h
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a controller that forwards non-preset questions to client
func New(client api.ChatClient, opts ...Option) *Controller {
	c := &Controller{
		client:      client,
		matcher:     preset.Default(),
		presetDelay: models.PresetDelay,
		sleep:       sleepContext,
		logger:      zap.NewNop(),
		messages:    []models.Message{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// sleepContext is the default Sleeper
func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// Submit starts a new exchange with text.
//
// Whitespace-only text returns ErrEmptyInput and changes nothing. While a
// previous submission is unresolved Submit returns ErrBusy. Otherwise the
// user message is appended right away and the returned Pending must be
// resolved to produce the reply.
func (c *Controller) Submit(text string) (*Pending, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apierrors.ErrEmptyInput
	}

	c.mu.Lock()
	if c.state == AwaitingResponse {
		c.mu.Unlock()
		c.logger.Debug("submission rejected while awaiting reply")
		return nil, apierrors.ErrBusy
	}
	c.messages = append(c.messages, models.UserMessage(text))
	c.pendingInput = ""
	c.state = AwaitingResponse
	c.mu.Unlock()

	c.notify(Idle, AwaitingResponse)

	p := &Pending{
		controller: c,
		text:       text,
		submitted:  time.Now(),
	}
	p.answer, p.preset = c.matcher.Match(text)

	c.logger.Info("message submitted",
		zap.Bool("preset", p.preset),
		zap.Int("length", len(text)),
	)
	return p, nil
}

// Ask submits text and waits for the reply
func (c *Controller) Ask(ctx context.Context, text string) (Result, error) {
	p, err := c.Submit(text)
	if err != nil {
		return Result{}, err
	}
	return p.Resolve(ctx), nil
}

// finish appends the assistant message and returns the controller to Idle
func (c *Controller) finish(msg models.Message) {
	c.mu.Lock()
	c.messages = append(c.messages, msg)
	c.state = Idle
	c.mu.Unlock()

	c.notify(AwaitingResponse, Idle)
}

func (c *Controller) notify(from, to State) {
	if c.hook != nil {
		c.hook(from, to)
	}
}

// Snapshot returns a copy of the current state
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	msgs := make([]models.Message, len(c.messages))
	copy(msgs, c.messages)
	return Snapshot{
		Messages:         msgs,
		PendingInput:     c.pendingInput,
		AwaitingResponse: c.state == AwaitingResponse,
	}
}

// Messages returns a copy of the thread
func (c *Controller) Messages() []models.Message {
	return c.Snapshot().Messages
}

// Len returns the number of messages in the thread
func (c *Controller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}

// State returns the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Awaiting reports whether a reply is pending
func (c *Controller) Awaiting() bool {
	return c.State() == AwaitingResponse
}

// SetPendingInput records the draft the user is typing
func (c *Controller) SetPendingInput(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendingInput = s
}

// LastReply returns the most recent assistant message, if any
func (c *Controller) LastReply() (models.Message, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].Role == models.RoleAssistant {
			return c.messages[i], true
		}
	}
	return models.Message{}, false
}

// Matcher returns the preset matcher in use
func (c *Controller) Matcher() *preset.Matcher {
	return c.matcher
}
