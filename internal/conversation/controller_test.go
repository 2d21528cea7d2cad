package conversation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/diogo/echochat/internal/api"
	apierrors "github.com/diogo/echochat/internal/errors"
	"github.com/diogo/echochat/internal/models"
	"github.com/diogo/echochat/internal/preset"
)

// recordingSleeper captures requested delays without waiting
type recordingSleeper struct {
	mu     sync.Mutex
	delays []time.Duration
	during func()
}

func (s *recordingSleeper) sleep(ctx context.Context, d time.Duration) {
	s.mu.Lock()
	s.delays = append(s.delays, d)
	during := s.during
	s.mu.Unlock()
	if during != nil {
		during()
	}
}

func (s *recordingSleeper) total() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sum time.Duration
	for _, d := range s.delays {
		sum += d
	}
	return sum
}

func newTestController(client api.ChatClient, opts ...Option) (*Controller, *recordingSleeper) {
	s := &recordingSleeper{}
	opts = append([]Option{WithSleeper(s.sleep)}, opts...)
	return New(client, opts...), s
}

func TestNew(t *testing.T) {
	c := New(api.NewMockClient("x"))

	snap := c.Snapshot()
	if len(snap.Messages) != 0 {
		t.Errorf("expected empty thread, got %d messages", len(snap.Messages))
	}
	if snap.AwaitingResponse {
		t.Error("new controller should not be awaiting")
	}
	if c.State() != Idle {
		t.Errorf("State() = %v, want idle", c.State())
	}
	if c.presetDelay != models.PresetDelay {
		t.Errorf("presetDelay = %v, want %v", c.presetDelay, models.PresetDelay)
	}
}

func TestState_String(t *testing.T) {
	tests := map[State]string{
		Idle:             "idle",
		AwaitingResponse: "awaiting_response",
		State(9):         "unknown",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", s, got, want)
		}
	}
}

func TestSubmit_EmptyInput(t *testing.T) {
	client := api.NewMockClient("x")
	c, _ := newTestController(client)

	for _, text := range []string{"", "   ", "\n\t "} {
		p, err := c.Submit(text)
		if !errors.Is(err, apierrors.ErrEmptyInput) {
			t.Errorf("Submit(%q) error = %v, want ErrEmptyInput", text, err)
		}
		if p != nil {
			t.Errorf("Submit(%q) returned a pending submission", text)
		}
	}

	if c.Len() != 0 {
		t.Errorf("thread grew to %d messages", c.Len())
	}
	if c.Awaiting() {
		t.Error("empty input should not start awaiting")
	}
	if client.Calls() != 0 {
		t.Errorf("backend called %d times", client.Calls())
	}
}

func TestSubmit_AppendsUserMessageImmediately(t *testing.T) {
	c, _ := newTestController(api.NewMockClient("x"))
	c.SetPendingInput("draft")

	p, err := c.Submit("  hello there  ")
	if err != nil {
		t.Fatalf("Submit() returned error: %v", err)
	}

	snap := c.Snapshot()
	if len(snap.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(snap.Messages))
	}
	if snap.Messages[0].Role != models.RoleUser || snap.Messages[0].Content != "  hello there  " {
		t.Errorf("user message = %+v, want raw text", snap.Messages[0])
	}
	if !snap.AwaitingResponse {
		t.Error("expected awaiting after Submit")
	}
	if snap.PendingInput != "" {
		t.Errorf("PendingInput = %q, want cleared", snap.PendingInput)
	}
	if p.Text() != "  hello there  " {
		t.Errorf("Text() = %q", p.Text())
	}
}

func TestSubmit_BusyWhileAwaiting(t *testing.T) {
	client := api.NewMockClient("x")
	c, _ := newTestController(client)

	p, err := c.Submit("first")
	if err != nil {
		t.Fatalf("Submit() returned error: %v", err)
	}

	if _, err := c.Submit("second"); !errors.Is(err, apierrors.ErrBusy) {
		t.Fatalf("second Submit() error = %v, want ErrBusy", err)
	}
	if c.Len() != 1 {
		t.Errorf("rejected submission changed the thread: %d messages", c.Len())
	}

	p.Resolve(context.Background())

	if _, err := c.Submit("third"); err != nil {
		t.Errorf("Submit() after resolve returned error: %v", err)
	}
}

func TestResolve_Preset(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"exact", "What is an atom?"},
		{"case and punctuation", "WHY IS THE SKY BLUE!!"},
		{"surrounding space", "  define gravity  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := api.NewMockClient("backend")
			c, sleeper := newTestController(client)

			want, ok := preset.Default().Match(tt.input)
			if !ok {
				t.Fatalf("%q should be a preset question", tt.input)
			}

			// the answer must not be visible while the delay runs
			sleeper.during = func() {
				if c.Len() != 1 {
					t.Errorf("answer appended before the delay elapsed: %d messages", c.Len())
				}
				if !c.Awaiting() {
					t.Error("not awaiting during the preset delay")
				}
			}

			p, err := c.Submit(tt.input)
			if err != nil {
				t.Fatalf("Submit() returned error: %v", err)
			}
			if !p.IsPreset() {
				t.Error("IsPreset() = false")
			}

			res := p.Resolve(context.Background())

			if res.Source != models.SourcePreset {
				t.Errorf("Source = %s, want preset", res.Source)
			}
			if res.Message.Content != want {
				t.Errorf("reply = %q, want %q", res.Message.Content, want)
			}
			if sleeper.total() < 500*time.Millisecond {
				t.Errorf("preset delay = %v, want at least 500ms", sleeper.total())
			}
			if client.Calls() != 0 {
				t.Errorf("backend called %d times for a preset", client.Calls())
			}
			if c.Awaiting() {
				t.Error("still awaiting after resolve")
			}
		})
	}
}

func TestResolve_Backend(t *testing.T) {
	tests := []struct {
		name       string
		client     *api.MockClient
		wantText   string
		wantSource models.ReplySource
		wantErr    bool
	}{
		{
			name:       "reply text",
			client:     api.NewMockClient("Paris"),
			wantText:   "Paris",
			wantSource: models.SourceBackend,
		},
		{
			name:       "empty reply",
			client:     &api.MockClient{ReplyVal: &models.Reply{Empty: true, StatusCode: 200}},
			wantText:   models.NoResponseText,
			wantSource: models.SourceBackend,
		},
		{
			name:       "network failure",
			client:     api.NewFailingMockClient(apierrors.NewNetworkError("send", errors.New("refused"))),
			wantText:   models.ApologyText,
			wantSource: models.SourceError,
			wantErr:    true,
		},
		{
			name:       "unparseable body",
			client:     api.NewFailingMockClient(apierrors.NewParseError("not json", "<html>")),
			wantText:   models.ApologyText,
			wantSource: models.SourceError,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, sleeper := newTestController(tt.client)

			p, err := c.Submit("What is the capital of France?")
			if err != nil {
				t.Fatalf("Submit() returned error: %v", err)
			}
			if p.IsPreset() {
				t.Fatal("question should not be a preset")
			}

			res := p.Resolve(context.Background())

			if res.Message.Role != models.RoleAssistant {
				t.Errorf("Role = %s, want assistant", res.Message.Role)
			}
			if res.Message.Content != tt.wantText {
				t.Errorf("reply = %q, want %q", res.Message.Content, tt.wantText)
			}
			if res.Source != tt.wantSource {
				t.Errorf("Source = %s, want %s", res.Source, tt.wantSource)
			}
			if (res.Err != nil) != tt.wantErr {
				t.Errorf("Err = %v, wantErr %v", res.Err, tt.wantErr)
			}
			if tt.client.Calls() != 1 {
				t.Errorf("backend called %d times, want 1", tt.client.Calls())
			}
			if tt.client.LastText() != "What is the capital of France?" {
				t.Errorf("backend got %q", tt.client.LastText())
			}
			if sleeper.total() != 0 {
				t.Errorf("backend path slept %v", sleeper.total())
			}
			if c.Len() != 2 || c.Awaiting() {
				t.Errorf("after resolve: %d messages, awaiting=%v", c.Len(), c.Awaiting())
			}
		})
	}
}

func TestResolve_NilClient(t *testing.T) {
	c, _ := newTestController(nil)

	res, err := c.Ask(context.Background(), "anything new?")
	if err != nil {
		t.Fatalf("Ask() returned error: %v", err)
	}
	if res.Message.Content != models.ApologyText {
		t.Errorf("reply = %q, want apology", res.Message.Content)
	}
	if !errors.Is(res.Err, apierrors.ErrClientClosed) {
		t.Errorf("Err = %v, want ErrClientClosed", res.Err)
	}
}

func TestResolve_Idempotent(t *testing.T) {
	var transitions []State
	client := api.NewMockClient("once")
	c, _ := newTestController(client, WithStateHook(func(from, to State) {
		transitions = append(transitions, to)
	}))

	p, err := c.Submit("not a preset")
	if err != nil {
		t.Fatalf("Submit() returned error: %v", err)
	}

	first := p.Resolve(context.Background())
	second := p.Resolve(context.Background())

	if first.Message != second.Message {
		t.Errorf("results differ: %+v vs %+v", first.Message, second.Message)
	}
	if c.Len() != 2 {
		t.Errorf("expected 2 messages, got %d", c.Len())
	}
	if client.Calls() != 1 {
		t.Errorf("backend called %d times", client.Calls())
	}

	want := []State{AwaitingResponse, Idle}
	if len(transitions) != len(want) {
		t.Fatalf("transitions = %v, want %v", transitions, want)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Errorf("transition %d = %v, want %v", i, transitions[i], want[i])
		}
	}
}

func TestConversation_Alternates(t *testing.T) {
	client := api.NewMockClient("sure")
	c, _ := newTestController(client)

	inputs := []string{"what is force", "tell me a joke", "WHAT IS THE SOLAR SYSTEM.", "what else?"}
	for _, in := range inputs {
		if _, err := c.Ask(context.Background(), in); err != nil {
			t.Fatalf("Ask(%q) returned error: %v", in, err)
		}
	}

	msgs := c.Messages()
	if len(msgs) != 2*len(inputs) {
		t.Fatalf("expected %d messages, got %d", 2*len(inputs), len(msgs))
	}
	for i, m := range msgs {
		wantRole := models.RoleUser
		if i%2 == 1 {
			wantRole = models.RoleAssistant
		}
		if m.Role != wantRole {
			t.Errorf("message %d role = %s, want %s", i, m.Role, wantRole)
		}
		if i%2 == 0 && m.Content != inputs[i/2] {
			t.Errorf("message %d = %q, want %q", i, m.Content, inputs[i/2])
		}
	}

	// the first and third inputs are presets, the other two reach the backend
	if client.Calls() != 2 {
		t.Errorf("backend called %d times, want 2", client.Calls())
	}

	last, ok := c.LastReply()
	if !ok || last.Content != "sure" {
		t.Errorf("LastReply() = %+v, %v", last, ok)
	}
}

func TestConcurrentSubmit(t *testing.T) {
	release := make(chan struct{})
	client := &api.MockClient{
		SendFunc: func(ctx context.Context, text string) (*models.Reply, error) {
			<-release
			return &models.Reply{Text: "ok"}, nil
		},
	}
	c, _ := newTestController(client)

	p, err := c.Submit("slow question")
	if err != nil {
		t.Fatalf("Submit() returned error: %v", err)
	}
	done := make(chan Result)
	go func() { done <- p.Resolve(context.Background()) }()

	var wg sync.WaitGroup
	var mu sync.Mutex
	busy := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Submit("another"); errors.Is(err, apierrors.ErrBusy) {
				mu.Lock()
				busy++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if busy != 8 {
		t.Errorf("%d of 8 concurrent submits were rejected, want all", busy)
	}

	close(release)
	res := <-done
	if res.Message.Content != "ok" {
		t.Errorf("reply = %q", res.Message.Content)
	}
	if c.Len() != 2 {
		t.Errorf("expected 2 messages, got %d", c.Len())
	}
}

func TestSleepContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	sleepContext(ctx, time.Hour)
	if time.Since(start) > time.Second {
		t.Error("sleepContext ignored a cancelled context")
	}

	sleepContext(context.Background(), 0)
}

func TestSnapshot_IsCopy(t *testing.T) {
	c, _ := newTestController(api.NewMockClient("x"))
	if _, err := c.Ask(context.Background(), "What is an atom?"); err != nil {
		t.Fatal(err)
	}

	snap := c.Snapshot()
	snap.Messages[0].Content = "mutated"

	if c.Messages()[0].Content != "What is an atom?" {
		t.Error("Snapshot() exposed internal state")
	}
}
