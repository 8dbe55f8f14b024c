package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMonthsCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "months",
		Short: "列出待加载的月份 Sheet 及其是否存在",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(root, false)
			if err != nil {
				return err
			}
			defer a.Close()

			months, err := a.coordinator.Months(cmd.Context(), a.runDate)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, m := range months {
				mark := "缺失"
				if m.Available {
					mark = "可用"
				}
				if m.Current {
					mark += "（当前月份）"
				}
				fmt.Fprintf(out, "%s  %s\n", m.Month, mark)
			}
			return nil
		},
	}
}
