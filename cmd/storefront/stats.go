package main

import (
	"github.com/spf13/cobra"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/stats"
)

func newStatsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Sales dashboard figures and the live update feed",
	}

	var (
		date  string
		limit int
	)
	summary := &cobra.Command{
		Use:   "summary",
		Short: "Total sales, the day's sales and orders, and the top products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.app.dashboard.Summary(cmd.Context(), date, limit)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), s)
		},
	}
	summary.Flags().StringVar(&date, "date", "", "day as yyyyMMdd (default: today on the backend)")
	summary.Flags().IntVar(&limit, "limit", clients.DefaultTopLimit, "number of top products (1-20)")

	sevenDays := &cobra.Command{
		Use:   "seven-days",
		Short: "Seven-day sales and order rollups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d := opts.app.dashboard
			sales, err := d.SevenDaysSales(ctx)
			if err != nil {
				return err
			}
			orders, err := d.SevenDaysOrders(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]stats.Series{"sales": sales, "orders": orders})
		},
	}

	watch := &cobra.Command{
		Use:   "watch",
		Short: "Print pushed statistics updates until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			logger := opts.app.logger

			feed := opts.app.liveFeed()
			feed.Connect(ctx,
				func(u stats.Update) {
					if err := printJSON(out, u); err != nil {
						logger.Warn("print update failed", "error", err)
					}
				},
				func(err error) {
					logger.Warn("live feed error", "error", err)
				},
			)
			<-ctx.Done()
			feed.Disconnect()
			feed.Wait()
			return nil
		},
	}

	cmd.AddCommand(summary, sevenDays, watch)
	return cmd
}
