package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newColumnsCmd() *cobra.Command {
	var (
		format string
		delim  string
	)

	cmd := &cobra.Command{
		Use:   "columns SOURCE",
		Short: "Print the column names and types of a catalog file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := openSource(args[0], format, delim)
			if err != nil {
				return err
			}
			defer src.Close()

			nameWidth := len("name")
			typeWidth := len("type")
			for _, col := range src.Columns() {
				nameWidth = max(nameWidth, len(col.Name))
				typeWidth = max(typeWidth, len(col.Type.String()))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%*s | %-*s\n", nameWidth, "name", typeWidth, "type")
			fmt.Fprintf(out, "%s-+-%s\n", strings.Repeat("-", nameWidth), strings.Repeat("-", typeWidth))
			for _, col := range src.Columns() {
				fmt.Fprintf(out, "%*s | %-*s\n", nameWidth, col.Name, typeWidth, col.Type.String())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "source format: csv, tsv, or fits (default: by extension)")
	cmd.Flags().StringVar(&delim, "delim", ",", "field delimiter for delimited-text sources")

	return cmd
}
