package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/diogo/echochat/internal/conversation"
	"github.com/diogo/echochat/internal/render"
	"github.com/diogo/echochat/internal/tui"
)

// NewChatCmd creates the interactive chat command
func NewChatCmd(a *app) *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat session with the Echo assistant.

With an empty thread the welcome screen lists the locally answered
questions; pick one with the arrow keys and press Enter.
Type 'exit', 'quit', or press Ctrl+C to end the session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runChat(cmd, query)
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Question to submit as soon as the chat opens")
	return cmd
}

func (a *app) runChat(cmd *cobra.Command, query string) error {
	s, err := a.open(false)
	if err != nil {
		return err
	}
	defer s.Close()

	if s.cfg.TUITheme != "" && !render.SetTUITheme(s.cfg.TUITheme) {
		fmt.Fprintf(a.deps.Stderr, "Warning: unknown theme %q, using %s\n", s.cfg.TUITheme, render.GetTUITheme().Name)
		s.logger.Warn("unknown tui theme", zap.String("theme", s.cfg.TUITheme))
	}
	tui.UpdateTheme()

	ctrl := conversation.New(s.client,
		conversation.WithLogger(s.logger),
		conversation.WithPresetDelay(a.deps.PresetDelay),
	)

	s.logger.Info("chat started", zap.Bool("initial_query", query != ""))
	err = a.deps.TUI.RunChat(tui.Options{
		Controller:   ctrl,
		Endpoint:     s.cfg.Endpoint,
		InitialQuery: query,
		Render:       render.OptionsFromConfig(s.cfg),
		Copy:         a.deps.Copy,
		Context:      cmd.Context(),
	})
	s.logger.Info("chat ended", zap.Int("messages", ctrl.Len()))
	return err
}
