package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diogo/echochat/internal/preset"
)

// NewPresetsCmd lists the questions answered without a backend call
func NewPresetsCmd(a *app) *cobra.Command {
	var answers bool

	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List the locally answered questions",
		Long: `List the questions echochat answers on its own, without calling the backend.

Matching ignores case, punctuation and surrounding spaces, so
"why is the sky blue" hits "Why is the sky blue?".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := a.deps.Stdout
			for i, e := range preset.Default().Entries() {
				fmt.Fprintf(out, "%2d. %s\n", i+1, e.Question)
				if answers {
					fmt.Fprintf(out, "    %s\n\n", e.Answer)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&answers, "answers", "a", false, "Show the answer under each question")
	return cmd
}
