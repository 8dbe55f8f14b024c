package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	logLevel   string
	profile    string
	workbook   string
	date       string
}

func newRootCmd() *cobra.Command {
	var opts rootOptions

	root := &cobra.Command{
		Use:           "salestrack",
		Short:         "销售跟踪月表汇总：业务员 → 部门 → 中心",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "配置文件路径（默认与可执行文件同目录的 config.toml）")
	pf.StringVar(&opts.logLevel, "log-level", "", "日志级别（覆盖配置文件）")
	pf.StringVar(&opts.profile, "profile", "", "报表口径（默认 active_profile）")
	pf.StringVar(&opts.workbook, "workbook", "", "月度跟踪表工作簿（覆盖配置文件）")
	pf.StringVar(&opts.date, "date", "", "运行日期 YYYY-MM-DD（默认今天）")

	root.AddCommand(
		newReportCmd(&opts),
		newOrderBookCmd(&opts),
		newMonthsCmd(&opts),
		newServeCmd(&opts),
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "错误:", err)
		os.Exit(1)
	}
}
