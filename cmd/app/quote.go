package main

import (
	"encoding/json"
	"fmt"
	"io"

	"limitup_go/internal/app"
	"limitup_go/internal/service"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func quoteCmd(b *app.Bootstrap) *cobra.Command {
	var (
		closePrice string
		segment    string
		days       int
		target     string
		trajectory bool
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Compute limit-up prices for a previous close",
		Example: `  limitup quote --close 4.96 --segment normal
  limitup quote --close 4.96 --days 8 --target 10.3 --trajectory`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := service.QuoteRequest{Segment: segment, Trajectory: trajectory}

			prev, err := decimal.NewFromString(closePrice)
			if err != nil {
				return fmt.Errorf("--close: %w", err)
			}
			req.PreviousClose = prev

			if cmd.Flags().Changed("days") {
				req.Days = &days
			}
			if cmd.Flags().Changed("target") {
				t, err := decimal.NewFromString(target)
				if err != nil {
					return fmt.Errorf("--target: %w", err)
				}
				req.Target = &t
			}

			q, err := b.Quotes.Quote(req)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(q)
			}
			return printQuote(cmd.OutOrStdout(), q)
		},
	}

	cmd.Flags().StringVar(&closePrice, "close", "", "previous closing price")
	cmd.Flags().StringVar(&segment, "segment", "", "market segment key (default from config)")
	cmd.Flags().IntVar(&days, "days", 0, "number of consecutive limit-up days")
	cmd.Flags().StringVar(&target, "target", "", "target price")
	cmd.Flags().BoolVar(&trajectory, "trajectory", false, "print the price after each day (needs --days)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	_ = cmd.MarkFlagRequired("close")

	return cmd
}

func printQuote(w io.Writer, q *service.Quote) error {
	fmt.Fprintf(w, "segment:        %s (%s, %s%%)\n", q.Segment.Key, q.Segment.Name, q.Segment.DailyLimitPercent)
	fmt.Fprintf(w, "previous close: %s\n", q.PreviousClose)
	fmt.Fprintf(w, "limit-up once:  %s\n", q.LimitUpOnce.StringFixed(2))

	if q.Days != nil {
		fmt.Fprintf(w, "after %d days:  %s\n", *q.Days, q.PriceAfterDays.StringFixed(2))
		for i, p := range q.Trajectory {
			fmt.Fprintf(w, "  day %-3d %s\n", i+1, p.StringFixed(2))
		}
	}
	if q.Target != nil {
		_, err := fmt.Fprintf(w, "to reach %s:    %d limit-ups\n", q.Target, *q.LimitUpsNeeded)
		return err
	}
	return nil
}
