// Package commands provides CLI commands for echochat.
package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = NewRootCmd(NewDependencies())

// askFlags are the flags of the one-shot ask on the root command
type askFlags struct {
	output string
	file   string
	copy   bool
}

// NewRootCmd builds the command tree around deps
func NewRootCmd(deps *Dependencies) *cobra.Command {
	a := newApp(deps)
	var flags askFlags

	cmd := &cobra.Command{
		Use:   "echochat [question]",
		Short: "Terminal client for the Echo offline assistant",
		Long: `echochat talks to the Echo assistant backend, a small HTTP service that
answers questions with POST /chat. A handful of common science questions are
answered locally without a round trip.

Examples:
  echochat chat                          Start interactive chat
  echochat chat -q "What is an atom?"    Start chat with a first question
  echochat "Why is the sky blue?"        Ask a single question
  echochat -f question.md                Read the question from a file
  cat question.md | echochat             Read the question from stdin
  echochat "Define gravity" -o out.md    Save the reply to a file
  echochat presets                       List the locally answered questions
  echochat config set endpoint http://localhost:5001`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(a.deps.Stdout, "echochat %s (built %s)\n", Version, BuildTime)
				return nil
			}

			if flags.file != "" {
				data, err := os.ReadFile(flags.file)
				if err != nil {
					return fmt.Errorf("failed to read file: %w", err)
				}
				return a.runAsk(cmd.Context(), string(data), flags)
			}

			if len(args) > 0 {
				return a.runAsk(cmd.Context(), args[0], flags)
			}

			if hasStdinData(a.deps.Stdin) {
				data, err := io.ReadAll(a.deps.Stdin)
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				return a.runAsk(cmd.Context(), string(data), flags)
			}

			return cmd.Help()
		},
	}

	cmd.SetOut(a.deps.Stdout)
	cmd.SetErr(a.deps.Stderr)

	cmd.PersistentFlags().StringVar(&a.endpoint, "endpoint", "", "Backend base address (default from config)")
	cmd.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "Verbose output and debug logging")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Save the reply to file")
	cmd.Flags().StringVarP(&flags.file, "file", "f", "", "Read the question from file")
	cmd.Flags().BoolVar(&flags.copy, "copy", false, "Copy the reply to the clipboard")
	cmd.Flags().BoolP("version", "v", false, "Show version and exit")

	cmd.AddCommand(NewChatCmd(a))
	cmd.AddCommand(NewPresetsCmd(a))
	cmd.AddCommand(NewConfigCmd(a))

	return cmd
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, formatErrorMessage(err, "Error"))
		os.Exit(1)
	}
}

// hasStdinData reports whether r is piped input rather than an interactive terminal
func hasStdinData(r io.Reader) bool {
	if r == nil {
		return false
	}
	f, ok := r.(*os.File)
	if !ok {
		return true
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}
