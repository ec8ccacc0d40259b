package main

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/ersonp/trope-crawler/internal/domain/services"
)

func newStatsCmd() *cobra.Command {
	var (
		recent int
		format string
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize the crawl output",
		Long:  "Shows registry and relation counts. With the sqlite backend, recent checkpoints are listed too.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}
			return withDeps(cmd.Context(), func(d *Deps) error {
				stats, err := d.TropeHandler.HandleStats(cmd.Context(), recent)
				if err != nil {
					return fmt.Errorf("reading stats: %w", err)
				}
				if format == "json" {
					return printJSON(cmd.OutOrStdout(), stats)
				}
				printStats(cmd.OutOrStdout(), d.Config.Output.Backend, stats)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&recent, "recent", DefaultRecentLimit, "Number of recent checkpoints to show")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json")

	return cmd
}

func printStats(w io.Writer, backend string, s *services.Stats) {
	fmt.Fprintf(w, "Backend:         %s\n", backend)
	fmt.Fprintf(w, "Tropes:          %d (%d unreferenced)\n", s.Tropes, s.UnusedTropes)
	fmt.Fprintf(w, "Movies:          %d\n", s.Movies)
	fmt.Fprintf(w, "Relation rows:   %d (%d duplicates)\n", s.Relations, s.DuplicateRows)

	if len(s.Checkpoints) == 0 {
		return
	}
	fmt.Fprintln(w, "\nRecent checkpoints:")
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Saved", "Run", "Tropes", "Relations"})
	for _, c := range s.Checkpoints {
		t.AppendRow(table.Row{c.CreatedAt.Local().Format(time.DateTime), c.RunID, c.Tropes, c.Relations})
	}
	t.Render()
}
