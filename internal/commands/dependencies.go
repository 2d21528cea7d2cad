package commands

import (
	"io"
	"os"
	"time"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/diogo/echochat/internal/api"
	"github.com/diogo/echochat/internal/config"
	"github.com/diogo/echochat/internal/models"
	"github.com/diogo/echochat/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(opts tui.Options) error
}

// ClientFactory builds the backend client from the effective configuration.
type ClientFactory func(cfg config.Config, logger *zap.Logger) (api.ChatClient, error)

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// Client, when set, is used instead of calling NewClient. It is not
	// closed by the commands.
	Client    api.ChatClient
	NewClient ClientFactory

	// TUI is the terminal user interface.
	TUI TUIInterface

	// LoadConfig returns the effective configuration.
	LoadConfig func() (config.Config, error)

	// Logger, when set, replaces the file logger built from config.
	Logger *zap.Logger

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// IsTTY reports whether stdout is a terminal.
	IsTTY func() bool

	// TerminalWidth returns the stdout width in columns.
	TerminalWidth func() int

	// Copy writes text to the system clipboard.
	Copy func(string) error

	// PresetDelay is the pause before a preset answer appears. Zero shows it at once.
	PresetDelay time.Duration
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(opts tui.Options) error {
	return tui.RunChat(opts)
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		NewClient:     newBackendClient,
		TUI:           &DefaultTUI{},
		LoadConfig:    config.Load,
		Stdin:         os.Stdin,
		Stdout:        os.Stdout,
		Stderr:        os.Stderr,
		IsTTY:         isStdoutTTY,
		TerminalWidth: getTerminalWidth,
		Copy:          clipboard.WriteAll,
		PresetDelay:   models.PresetDelay,
	}
}

// withDefaults fills any unset field from NewDependencies
func (d *Dependencies) withDefaults() *Dependencies {
	def := NewDependencies()
	if d == nil {
		return def
	}
	out := *d
	if out.NewClient == nil {
		out.NewClient = def.NewClient
	}
	if out.TUI == nil {
		out.TUI = def.TUI
	}
	if out.LoadConfig == nil {
		out.LoadConfig = def.LoadConfig
	}
	if out.Stdout == nil {
		out.Stdout = def.Stdout
	}
	if out.Stderr == nil {
		out.Stderr = def.Stderr
	}
	if out.IsTTY == nil {
		out.IsTTY = def.IsTTY
	}
	if out.TerminalWidth == nil {
		out.TerminalWidth = def.TerminalWidth
	}
	if out.Copy == nil {
		out.Copy = def.Copy
	}
	return &out
}

func newBackendClient(cfg config.Config, logger *zap.Logger) (api.ChatClient, error) {
	client, err := api.NewClient(
		api.WithEndpoint(cfg.Endpoint),
		api.WithTimeout(time.Duration(cfg.TimeoutSeconds)*time.Second),
		api.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// isStdoutTTY returns true if stdout is connected to a terminal
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
