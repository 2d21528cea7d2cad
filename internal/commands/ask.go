package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/diogo/echochat/internal/config"
	"github.com/diogo/echochat/internal/conversation"
	apierrors "github.com/diogo/echochat/internal/errors"
	"github.com/diogo/echochat/internal/models"
	"github.com/diogo/echochat/internal/render"
)

// Gradient colors for animation
var gradientColors = []lipgloss.Color{
	lipgloss.Color("#2563eb"),
	lipgloss.Color("#3b82f6"),
	lipgloss.Color("#60a5fa"),
	lipgloss.Color("#22c55e"),
	lipgloss.Color("#4ade80"),
	lipgloss.Color("#60a5fa"),
}

var (
	colorText     = lipgloss.Color("#c0caf5")
	colorTextDim  = lipgloss.Color("#565f89")
	colorTextMute = lipgloss.Color("#3b4261")
	colorSuccess  = lipgloss.Color("#9ece6a")
	colorWarning  = lipgloss.Color("#e0af68")
	colorError    = lipgloss.Color("#f7768e")
	colorPrimary  = lipgloss.Color("#7aa2f7")
)

// Styles matching the chat TUI
var (
	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	assistantBubbleStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Foreground(colorText).
				Padding(0, 1).
				MarginBottom(1)
)

// spinner is the animated indicator shown while a reply is pending
type spinner struct {
	out     io.Writer
	message string
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	frame   int
	stopped bool
}

func newSpinner(out io.Writer, message string) *spinner {
	return &spinner{
		out:     out,
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func (s *spinner) start() {
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		fmt.Fprint(s.out, "\033[?25l")
		for {
			select {
			case <-s.stop:
				fmt.Fprint(s.out, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				s.mu.Lock()
				s.render()
				s.frame++
				s.mu.Unlock()
			}
		}
	}()
}

// render draws the current frame: a spinning glyph, the message and pulsing dots
func (s *spinner) render() {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

	glyph := lipgloss.NewStyle().
		Foreground(gradientColors[s.frame%len(gradientColors)]).
		Bold(true).
		Render(chars[s.frame%len(chars)])

	var dots strings.Builder
	lit := (s.frame / 3) % 4
	for i := 0; i < 3; i++ {
		if i < lit {
			dots.WriteString(lipgloss.NewStyle().Foreground(gradientColors[(s.frame+i)%len(gradientColors)]).Render("●"))
		} else {
			dots.WriteString(lipgloss.NewStyle().Foreground(colorTextMute).Render("○"))
		}
	}

	msg := lipgloss.NewStyle().Foreground(colorText).Render(s.message)
	fmt.Fprintf(s.out, "\r\033[K%s %s %s", glyph, msg, dots.String())
}

func (s *spinner) stopOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		close(s.stop)
		s.stopped = true
	}
}

func (s *spinner) stopWithSuccess(message string) {
	s.stopOnce()
	<-s.done
	check := lipgloss.NewStyle().Foreground(colorSuccess).Bold(true).Render("✓")
	fmt.Fprintf(s.out, "%s %s\n", check, lipgloss.NewStyle().Foreground(colorSuccess).Render(message))
}

func (s *spinner) stopWithError() {
	s.stopOnce()
	<-s.done
}

// sourceLabel describes where a reply came from
func sourceLabel(src models.ReplySource) string {
	switch src {
	case models.SourcePreset:
		return "Answered locally"
	case models.SourceBackend:
		return "Done"
	default:
		return "Failed"
	}
}

// runAsk sends a single question and prints the reply. On a terminal the
// reply is rendered as markdown in a bubble with progress on stderr;
// otherwise only the raw text goes to stdout.
func (a *app) runAsk(ctx context.Context, question string, flags askFlags) error {
	if strings.TrimSpace(question) == "" {
		return fmt.Errorf("question cannot be empty: %w", apierrors.ErrEmptyInput)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	s, err := a.open(true)
	if err != nil {
		return err
	}
	defer s.Close()

	tty := a.deps.IsTTY()
	stderr := a.deps.Stderr

	if s.cfg.Verbose && tty {
		fmt.Fprintf(stderr, "[verbose] Endpoint: %s\n", s.client.Endpoint())
	}

	ctrl := conversation.New(s.client,
		conversation.WithLogger(s.logger),
		conversation.WithPresetDelay(a.deps.PresetDelay),
	)

	var spin *spinner
	if tty {
		spin = newSpinner(stderr, models.ThinkingText)
		spin.start()
	}

	res, err := ctrl.Ask(ctx, question)
	if err != nil {
		if spin != nil {
			spin.stopWithError()
		}
		return err
	}

	if spin != nil {
		if res.Err != nil {
			spin.stopWithError()
			fmt.Fprintln(stderr, formatErrorMessage(res.Err, "Request failed"))
		} else {
			spin.stopWithSuccess(sourceLabel(res.Source))
		}
	}

	if s.cfg.Verbose && tty {
		fmt.Fprintf(stderr, "[verbose] Source: %s, took %s\n", res.Source, res.Elapsed.Round(time.Millisecond))
	}

	text := res.Message.Content

	if flags.copy || s.cfg.CopyToClipboard {
		a.copyReply(text, tty, s.logger)
	}

	if flags.output != "" {
		if err := os.WriteFile(flags.output, []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if tty {
			fmt.Fprintln(stderr, lipgloss.NewStyle().Foreground(colorSuccess).Render(
				fmt.Sprintf("✓ Reply saved to %s", flags.output),
			))
		}
	} else if tty {
		a.printBubble(text, s.cfg)
	} else {
		fmt.Fprintln(a.deps.Stdout, text)
	}

	if res.Err != nil {
		return fmt.Errorf("request failed: %w", res.Err)
	}
	return nil
}

func (a *app) copyReply(text string, tty bool, logger *zap.Logger) {
	if err := a.deps.Copy(text); err != nil {
		logger.Warn("clipboard copy failed", zap.Error(err))
		if tty {
			fmt.Fprintln(a.deps.Stderr, lipgloss.NewStyle().Foreground(colorWarning).Render(
				fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err),
			))
		}
		return
	}
	if tty {
		fmt.Fprintln(a.deps.Stderr, lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ Copied to clipboard"))
	}
}

// printBubble writes the reply as rendered markdown inside the assistant bubble.
func (a *app) printBubble(text string, cfg config.Config) {
	termWidth := a.deps.TerminalWidth()
	bubbleWidth := termWidth - 2
	if bubbleWidth < 20 {
		bubbleWidth = 20
	}
	contentWidth := bubbleWidth - 4

	rendered := render.Reply(text, render.OptionsFromConfig(cfg).WithWidth(contentWidth))

	out := a.deps.Stdout
	fmt.Fprintln(out, assistantLabelStyle.Render("✦ Assistant"))
	fmt.Fprintln(out, assistantBubbleStyle.Width(bubbleWidth).Render(rendered))
}

// formatErrorMessage formats an error with additional context from structured errors
func formatErrorMessage(err error, context string) string {
	if err == nil {
		return ""
	}

	errorStyle := lipgloss.NewStyle().Foreground(colorError)
	dimStyle := lipgloss.NewStyle().Foreground(colorTextDim)

	var sb strings.Builder
	sb.WriteString(errorStyle.Render(fmt.Sprintf("✗ %s: %v", context, err)))

	if status := apierrors.GetHTTPStatus(err); status > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}
	if endpoint := apierrors.GetEndpoint(err); endpoint != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Endpoint: %s", endpoint)))
	}

	if body := apierrors.GetResponseBody(err); body != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n\n  %s", strings.ReplaceAll(body, "\n", "\n  "))))
		return sb.String()
	}

	switch {
	case apierrors.IsTimeoutError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: The backend took too long. Try again or raise timeout_seconds"))
	case apierrors.IsNetworkError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Check the backend is running and the endpoint is right (echochat config show)"))
	case apierrors.IsParseError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: The backend did not answer with JSON"))
	}

	return sb.String()
}
