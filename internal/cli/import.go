package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/vytor/leettrack/internal/app"
)

func newImportCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import problems from a CSV export",
		Long:  "Import problems from a CSV export (a file, or - for stdin). Problems already tracked under the same URL are updated in place.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open %s: %w", args[0], err)
				}
				defer f.Close()
				in = f
			}

			return g.withTracker(cmd.Context(), func(a *app.App) error {
				res, err := a.Problems.Import(cmd.Context(), in)
				if err != nil {
					return err
				}
				if g.text() {
					out := cmd.OutOrStdout()
					fmt.Fprintf(out, "inserted %d, updated %d\n", res.Inserted, res.Updated)
					for _, w := range res.Warnings {
						fmt.Fprintf(out, "warning: %s\n", w)
					}
					return nil
				}
				return writeJSON(cmd.OutOrStdout(), res)
			})
		},
	}
}
