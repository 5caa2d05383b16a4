package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vytor/leettrack/internal/app"
	"github.com/vytor/leettrack/internal/models"
)

func newRedoneCmd(g *globals) *cobra.Command {
	return scheduleCmd(g, "redone <id>", "Mark a problem as redone today",
		func(ctx context.Context, a *app.App, id string) (models.Problem, error) {
			return a.Problems.MarkRedone(ctx, id)
		})
}

func newSkipCmd(g *globals) *cobra.Command {
	return scheduleCmd(g, "skip <id>", "Stop reminding about a problem",
		func(ctx context.Context, a *app.App, id string) (models.Problem, error) {
			return a.Problems.SkipRedo(ctx, id)
		})
}

func scheduleCmd(g *globals, use, short string, fn func(context.Context, *app.App, string) (models.Problem, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withTracker(cmd.Context(), func(a *app.App) error {
				p, err := fn(cmd.Context(), a, args[0])
				if err != nil {
					return err
				}
				if g.text() {
					_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s solved %s, redo %s\n",
						p.Title, p.SolvedDate.Format("2006-01-02"), p.RedoDifficulty)
					return err
				}
				return writeJSON(cmd.OutOrStdout(), p)
			})
		},
	}
}
