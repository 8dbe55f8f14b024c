package exporter

import (
	"bytes"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"salestrack/internal/model"
)

// FormatNumber 千分位、两位小数，仅用于控制台/日志展示
func FormatNumber(v float64) string {
	return humanize.FormatFloat("#,###.##", v)
}

// Render 把结果表渲染为对齐的文本
func Render(table model.Table) string {
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', tabwriter.AlignRight)
	tw.Write([]byte(strings.Join(table.Headers(), "\t") + "\t\n"))
	for _, cells := range table.Rows {
		parts := make([]string, len(cells))
		for i, c := range cells {
			if table.Columns[i].Kind == model.ColumnText {
				parts[i] = c.Text
			} else {
				parts[i] = FormatNumber(c.Number)
			}
		}
		tw.Write([]byte(strings.Join(parts, "\t") + "\t\n"))
	}
	tw.Flush()
	return buf.String()
}
