package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vytor/leettrack/internal/app"
	"github.com/vytor/leettrack/internal/csvcodec"
	"github.com/vytor/leettrack/internal/models"
)

func newAddCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a solved problem",
		Args:  cobra.NoArgs,
	}

	cmd.Flags().StringP("title", "t", "", "Problem title, e.g. \"1. Two Sum\" (required)")
	cmd.Flags().String("date", "", "Date solved, M/D/YYYY or YYYY-MM-DD (default: today)")
	cmd.Flags().Int("duration", 0, "Minutes spent")
	cmd.Flags().String("difficulty", string(models.Easy), "Easy, Medium or Hard")
	cmd.Flags().String("redo", string(models.Easy), "Redo cadence: Hard weekly, Medium fortnightly, Easy never")
	cmd.Flags().String("url", "", "Problem URL (default: derived from the title)")
	cmd.Flags().String("approach", "", "Approach used")
	cmd.Flags().String("notes", "", "Free-form notes")
	cmd.Flags().String("time", "", "Time complexity")
	cmd.Flags().String("space", "", "Space complexity")
	_ = cmd.MarkFlagRequired("title")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		p, err := problemFromFlags(cmd, g)
		if err != nil {
			return err
		}
		return g.withTracker(cmd.Context(), func(a *app.App) error {
			created, err := a.Problems.Create(cmd.Context(), p)
			if err != nil {
				return err
			}
			if g.text() {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "added %s %s\n", created.ID, created.Title)
				return err
			}
			return writeJSON(cmd.OutOrStdout(), created)
		})
	}
	return cmd
}

func problemFromFlags(cmd *cobra.Command, g *globals) (models.Problem, error) {
	flags := cmd.Flags()
	title, _ := flags.GetString("title")
	date, _ := flags.GetString("date")
	duration, _ := flags.GetInt("duration")
	difficulty, _ := flags.GetString("difficulty")
	redo, _ := flags.GetString("redo")
	url, _ := flags.GetString("url")
	approach, _ := flags.GetString("approach")
	notes, _ := flags.GetString("notes")
	timeC, _ := flags.GetString("time")
	spaceC, _ := flags.GetString("space")

	p := models.Problem{
		Title:           strings.TrimSpace(title),
		DurationMinutes: duration,
		URL:             strings.TrimSpace(url),
		Approach:        approach,
		Notes:           notes,
		TimeComplexity:  timeC,
		SpaceComplexity: spaceC,
	}
	if duration < 0 {
		return p, fmt.Errorf("--duration must not be negative")
	}

	var ok bool
	if p.Difficulty, ok = models.ParseDifficulty(difficulty); !ok {
		return p, fmt.Errorf("--difficulty must be Easy, Medium or Hard, got %q", difficulty)
	}
	if p.RedoDifficulty, ok = models.ParseDifficulty(redo); !ok {
		return p, fmt.Errorf("--redo must be Easy, Medium or Hard, got %q", redo)
	}

	if date != "" {
		cfg, err := g.config()
		if err != nil {
			return p, fmt.Errorf("invalid configuration: %w", err)
		}
		d, ok := csvcodec.ParseDate(date, cfg.Location())
		if !ok {
			return p, fmt.Errorf("--date %q is not a date", date)
		}
		p.SolvedDate = d
	}
	return p, nil
}
