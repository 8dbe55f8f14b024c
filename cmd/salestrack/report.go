package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"salestrack/internal/exporter"
	"salestrack/internal/importer"
	"salestrack/internal/model"
)

func newReportCmd(root *rootOptions) *cobra.Command {
	var (
		granularity string
		noWrite     bool
		noRunLog    bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "汇总本年 1 月至今的月度数据并写出结果表",
		RunE: func(cmd *cobra.Command, args []string) error {
			var g model.Granularity
			if granularity != "" {
				var err error
				if g, err = model.ParseGranularity(granularity); err != nil {
					return err
				}
			}

			a, err := setup(root, !noRunLog)
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.coordinator.Run(cmd.Context(), importer.RunOptions{
				Granularity: g,
				RunDate:     a.runDate,
				Write:       !noWrite,
			})
			if errors.Is(err, model.ErrNoMonthsLoaded) {
				return fmt.Errorf("%w (skipped: %v)", err, report.Skipped)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "口径: %s  粒度: %s  当前月份: %s\n", report.Profile, report.Granularity, report.CurrentMonth)
			if len(report.Skipped) > 0 {
				fmt.Fprintf(out, "跳过月份: %v\n", report.Skipped)
			}
			fmt.Fprint(out, exporter.Render(report.Table))
			if report.Written {
				fmt.Fprintf(out, "已写出到 %s\n", a.cfg.Output.Workbook)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&granularity, "granularity", "", "汇总粒度: department|salesperson|indicator|indicator_department|indicator_salesperson")
	cmd.Flags().BoolVar(&noWrite, "no-write", false, "只打印，不写出到输出工作簿")
	cmd.Flags().BoolVar(&noRunLog, "no-run-log", false, "不记录运行结果")
	return cmd
}
