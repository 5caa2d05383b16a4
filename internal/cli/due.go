package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/vytor/leettrack/internal/app"
)

func newDueCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "due",
		Short: "Show problems due for a redo today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withTracker(cmd.Context(), func(a *app.App) error {
				due := a.Problems.Reminders(cmd.Context())
				if !g.text() {
					if due == nil {
						return writeJSON(cmd.OutOrStdout(), []any{})
					}
					return writeJSON(cmd.OutOrStdout(), due)
				}
				if len(due) == 0 {
					_, err := fmt.Fprintln(cmd.OutOrStdout(), "nothing due today")
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tPROBLEM\tREDO\tDAYS")
				for _, r := range due {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", r.ID, r.Title, r.RedoDifficulty, r.DaysSinceSolved)
				}
				return tw.Flush()
			})
		},
	}
}
