package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ersonp/trope-crawler/internal/application/handlers"
)

func newRelationsCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "relations <movie-id>",
		Short: "List the tropes recorded for a movie",
		Long: `Shows the distinct tropes a movie references, in the order they were recorded.

Examples:
  tropes relations 42
  tropes relations 42 --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}
			return withDeps(cmd.Context(), func(d *Deps) error {
				result, err := d.RelationHandler.Handle(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("listing relations: %w", err)
				}
				return printRelations(cmd.OutOrStdout(), result, format)
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json")

	return cmd
}

func printRelations(w io.Writer, result *handlers.RelationResult, format string) error {
	if format == "json" {
		return printJSON(w, result)
	}

	if len(result.Tropes) == 0 {
		fmt.Fprintf(w, "No tropes recorded for movie: %s\n", result.MovieID)
		return nil
	}

	fmt.Fprintf(w, "%s (%d tropes)\n", result.MovieID, len(result.Tropes))
	for _, t := range result.Tropes {
		name := t.Name
		if name == "" {
			name = "(not in registry)"
		}
		fmt.Fprintf(w, "  %s  %s\n", t.ID, name)
	}
	return nil
}
