package main

import (
	"fmt"
	"text/tabwriter"

	"limitup_go/internal/domain"

	"github.com/spf13/cobra"
)

func segmentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "segments",
		Short: "List market segments and their daily limits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tNAME\tLIMIT")
			for _, s := range domain.Segments() {
				fmt.Fprintf(w, "%s\t%s\t%s%%\n", s.Key, s.Name, s.DailyLimitPercent)
			}
			return w.Flush()
		},
	}
}
