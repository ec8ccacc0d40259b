package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTopCmd() *cobra.Command {
	var (
		limit  int
		format string
	)

	cmd := &cobra.Command{
		Use:   "top",
		Short: "Show the tropes referenced by the most movies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}
			return withDeps(cmd.Context(), func(d *Deps) error {
				result, err := d.TropeHandler.HandleTop(cmd.Context(), limit)
				if err != nil {
					return fmt.Errorf("ranking tropes: %w", err)
				}
				return printTropeList(cmd.OutOrStdout(), result, format)
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", DefaultTopLimit, "Number of tropes to display")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json")

	return cmd
}
