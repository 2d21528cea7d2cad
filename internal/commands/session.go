package commands

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/diogo/echochat/internal/api"
	"github.com/diogo/echochat/internal/config"
	"github.com/diogo/echochat/internal/logging"
)

// app carries the dependencies and the persistent flags shared by every command
type app struct {
	deps *Dependencies

	endpoint string
	verbose  bool
}

func newApp(deps *Dependencies) *app {
	return &app{deps: deps.withDefaults()}
}

// session is what a command needs to talk to the backend
type session struct {
	cfg    config.Config
	logger *zap.Logger
	client api.ChatClient

	ownsClient bool
}

// loadConfig returns the effective configuration with flag overrides applied
func (a *app) loadConfig() (config.Config, error) {
	cfg, err := a.deps.LoadConfig()
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}
	if a.endpoint != "" {
		if _, err := config.ChatURL(a.endpoint); err != nil {
			return cfg, err
		}
		cfg.Endpoint = a.endpoint
	}
	if a.verbose {
		cfg.Verbose = true
	}
	return cfg, nil
}

// open loads config, builds the logger and connects the client. mirrorLogs
// sends verbose logs to stderr as well; the TUI passes false since it owns
// the terminal.
func (a *app) open(mirrorLogs bool) (*session, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}

	logger := a.deps.Logger
	if logger == nil {
		logger, err = a.buildLogger(cfg, mirrorLogs)
		if err != nil {
			return nil, err
		}
	}

	s := &session{cfg: cfg, logger: logger}
	if a.deps.Client != nil {
		s.client = a.deps.Client
		return s, nil
	}

	client, err := a.deps.NewClient(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	s.client = client
	s.ownsClient = true

	logger.Debug("session opened",
		zap.String("endpoint", client.Endpoint()),
		zap.Int("timeout_seconds", cfg.TimeoutSeconds),
	)
	return s, nil
}

func (a *app) buildLogger(cfg config.Config, mirrorLogs bool) (*zap.Logger, error) {
	path, err := config.GetLogPath(cfg)
	if err != nil {
		return nil, err
	}
	level := cfg.Log.Level
	if cfg.Verbose {
		level = "debug"
	}
	return logging.New(logging.Options{
		Level:  level,
		Format: cfg.Log.Format,
		File:   path,
		Stderr: mirrorLogs && cfg.Verbose,
	})
}

// Close releases the client and flushes the logger
func (s *session) Close() {
	if s.ownsClient && s.client != nil {
		s.client.Close()
	}
	if s.logger != nil {
		_ = s.logger.Sync()
	}
}
