package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"salestrack/internal/exporter"
	"salestrack/internal/importer"
	"salestrack/internal/model"
)

func newOrderBookCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "orderbook",
		Short: "当月在手订单与洽谈中订单金额",
		RunE: func(cmd *cobra.Command, args []string) error {
			if root.profile == "" {
				root.profile = "orderbook"
			}
			a, err := setup(root, false)
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.coordinator.Run(cmd.Context(), importer.RunOptions{
				RunDate: a.runDate,
			})
			if err != nil && !errors.Is(err, model.ErrNoMonthsLoaded) {
				return err
			}

			book := report.OrderBook
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "月份: %s\n", book.Month)
			fmt.Fprintf(out, "在手订单: %s（%d 行）\n", exporter.FormatNumber(book.InHandAmount), book.InHandRows)
			fmt.Fprintf(out, "洽谈中订单: %s（%d 行）\n", exporter.FormatNumber(book.NegotiationAmount), book.NegotiationRows)
			return nil
		},
	}
}
