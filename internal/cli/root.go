// Package cli implements the leettrack command line.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/vytor/leettrack/internal/app"
	"github.com/vytor/leettrack/internal/config"
	"github.com/vytor/leettrack/internal/logger"
)

// globals holds the persistent flags shared by every command.
type globals struct {
	backend string
	dbPath  string
	dataDir string
	format  string
}

// RootCmd is the top-level command.
var RootCmd = NewRootCmd()

// NewRootCmd builds a fresh command tree. Each call has its own flag state.
func NewRootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:           "leettrack",
		Short:         "Track solved LeetCode problems and when to redo them",
		Long:          "A small tracker for solved LeetCode problems. Records live in SQLite, a data directory, or memory, and the due list follows each problem's redo cadence.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&g.backend, "backend", "b", "", "Storage backend: sqlite, file or memory (default: $STORAGE_BACKEND)")
	root.PersistentFlags().StringVarP(&g.dbPath, "db", "d", "", "Database path (default: $DB_PATH)")
	root.PersistentFlags().StringVar(&g.dataDir, "data-dir", "", "Data directory for the file backend (default: $DATA_DIR)")
	root.PersistentFlags().StringVarP(&g.format, "format", "f", "json", "Output format: json or text")

	root.AddCommand(
		newListCmd(g),
		newAddCmd(g),
		newDueCmd(g),
		newRedoneCmd(g),
		newSkipCmd(g),
		newRmCmd(g),
		newImportCmd(g),
		newExportCmd(g),
	)
	return root
}

func (g *globals) config() (config.Config, error) {
	cfg := config.Load()
	if g.backend != "" {
		cfg.StorageBackend = g.backend
	}
	if g.dbPath != "" {
		cfg.DBPath = g.dbPath
	}
	if g.dataDir != "" {
		cfg.DataDir = g.dataDir
	}
	// the CLI never seeds; import does that explicitly
	cfg.SeedCSVPath = ""
	return cfg, cfg.Validate()
}

// withTracker opens the tracker, runs fn and closes it again so that every
// write fn made is on disk before the command returns.
func (g *globals) withTracker(ctx context.Context, fn func(*app.App) error) (err error) {
	cfg, err := g.config()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logger.SetDefault(logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithOutput(logStream),
	))

	a, err := app.New(ctx, cfg, app.Options{})
	if err != nil {
		return fmt.Errorf("open tracker: %w", err)
	}
	defer func() {
		if closeErr := a.Close(ctx); closeErr != nil && err == nil {
			err = fmt.Errorf("save: %w", closeErr)
		}
	}()
	return fn(a)
}

func writeJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func (g *globals) text() bool {
	return g.format == "text"
}
