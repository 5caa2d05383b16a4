package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/vytor/leettrack/internal/app"
	"github.com/vytor/leettrack/internal/models"
	"github.com/vytor/leettrack/internal/services"
)

func newListCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tracked problems",
		Args:  cobra.NoArgs,
	}

	cmd.Flags().StringP("search", "s", "", "Only problems whose title, approach or notes contain this text")
	cmd.Flags().String("sort", "", "Sort column: date, duration, difficulty, problemTitle, redo, timeComplexity, spaceComplexity")
	cmd.Flags().String("dir", "asc", "Sort direction: asc or desc")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		search, _ := cmd.Flags().GetString("search")
		sortKey, _ := cmd.Flags().GetString("sort")
		dir, _ := cmd.Flags().GetString("dir")

		return g.withTracker(cmd.Context(), func(a *app.App) error {
			problems, err := a.Problems.List(cmd.Context(), services.ListParams{Search: search, Sort: sortKey, Dir: dir})
			if err != nil {
				return err
			}
			if g.text() {
				return printProblems(cmd.OutOrStdout(), problems)
			}
			return writeJSON(cmd.OutOrStdout(), problems)
		})
	}
	return cmd
}

func printProblems(w io.Writer, problems []models.Problem) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tPROBLEM\tDIFFICULTY\tREDO\tMIN")
	for _, p := range problems {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n",
			p.ID, p.SolvedDate.Format("2006-01-02"), p.Title, p.Difficulty, p.RedoDifficulty, p.DurationMinutes)
	}
	return tw.Flush()
}
