package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/vytor/leettrack/internal/app"
)

func newExportCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export every problem as CSV",
		Long:  "Export every problem as CSV to file, or to stdout when no file is given. With --dir the file is named leetcode-tracking-<date>.csv inside that directory.",
		Args:  cobra.MaximumNArgs(1),
	}
	cmd.Flags().String("dir", "", "Write a dated file into this directory")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		if dir != "" && len(args) > 0 {
			return fmt.Errorf("give either a file or --dir, not both")
		}

		return g.withTracker(cmd.Context(), func(a *app.App) error {
			var buf bytes.Buffer
			filename, err := a.Problems.Export(cmd.Context(), &buf)
			if err != nil {
				return err
			}

			target := ""
			switch {
			case len(args) > 0:
				target = args[0]
			case dir != "":
				target = filepath.Join(dir, filename)
			}
			if target == "" {
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			if err := os.WriteFile(target, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", target, err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"file":%q}`+"\n", target)
			return err
		})
	}
	return cmd
}
