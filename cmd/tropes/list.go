package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/ersonp/trope-crawler/internal/application/handlers"
)

func newListCmd() *cobra.Command {
	var (
		limit  int
		search string
		format string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tropes in the registry",
		Long: `Lists registry entries in id order with the number of movies referencing each.

Examples:
  tropes list
  tropes list --search hero --limit 10
  tropes list --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}
			return withDeps(cmd.Context(), func(d *Deps) error {
				result, err := d.TropeHandler.HandleList(cmd.Context(), search, limit)
				if err != nil {
					return fmt.Errorf("listing tropes: %w", err)
				}
				return printTropeList(cmd.OutOrStdout(), result, format)
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", DefaultListLimit, "Maximum number of tropes to display")
	cmd.Flags().StringVarP(&search, "search", "s", "", "Only tropes whose name contains this text")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json")

	return cmd
}

func printTropeList(w io.Writer, result *handlers.TropeListResult, format string) error {
	if format == "json" {
		return printJSON(w, result)
	}

	if len(result.Tropes) == 0 {
		fmt.Fprintln(w, "No tropes found.")
		return nil
	}

	fmt.Fprintf(w, "Showing %d of %d tropes:\n", len(result.Tropes), result.Total)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Name", "Movies"})
	for _, trope := range result.Tropes {
		t.AppendRow(table.Row{trope.ID, trope.Name, trope.Movies})
	}
	t.Render()
	return nil
}
