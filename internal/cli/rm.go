package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vytor/leettrack/internal/app"
)

func newRmCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a tracked problem",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			return g.withTracker(cmd.Context(), func(a *app.App) error {
				if err := a.Problems.Delete(cmd.Context(), id); err != nil {
					return err
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"id":%q}`+"\n", id)
				return err
			})
		},
	}
}
