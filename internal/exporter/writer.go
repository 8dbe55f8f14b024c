package exporter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"salestrack/internal/model"
	"salestrack/internal/source"
)

// Destination 写入位置：固定区域 + 目标 Sheet
type Destination struct {
	Range   string `json:"range"`
	Append  bool   `json:"append"`
	Section string `json:"section"`
}

// Writer 汇总结果输出端
type Writer interface {
	WriteTable(ctx context.Context, table model.Table, dest Destination) error
}

// ErrTableTooLarge 结果表超出目标区域
var ErrTableTooLarge = errors.New("table does not fit destination range")

// XLSXWriter 把结果表写入 .xlsx 工作簿的指定 Sheet
type XLSXWriter struct {
	path     string
	progress func(ProgressEvent)
}

// NewXLSXWriter 创建写入器；文件不存在时自动创建
func NewXLSXWriter(path string, progress func(ProgressEvent)) *XLSXWriter {
	return &XLSXWriter{path: path, progress: progress}
}

// WriteTable 写入结果表
//
// 非追加模式：先清空目标区域，再从区域左上角写表头与数据。
// 追加模式：在区域内最后一个已用行之后写数据；区域为空时先写表头。
func (w *XLSXWriter) WriteTable(ctx context.Context, table model.Table, dest Destination) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rng, err := source.ParseRange(dest.Range)
	if err != nil {
		return err
	}
	if strings.TrimSpace(dest.Section) == "" {
		return fmt.Errorf("destination section is empty")
	}
	if len(table.Columns) > rng.Cols() {
		return fmt.Errorf("%w: %d columns, range %s has %d", ErrTableTooLarge, len(table.Columns), rng, rng.Cols())
	}

	progress := progressReporter{notify: w.progress, section: dest.Section, total: len(table.Rows)}
	progress.report(0, "打开输出工作簿", 0)
	f, isNew, err := w.open()
	if err != nil {
		return err
	}
	defer f.Close()

	sheet := dest.Section
	if err := ensureSheet(f, sheet, isNew); err != nil {
		return err
	}

	existing, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("read destination sheet %q: %w", sheet, err)
	}
	used := rng.Clip(existing)

	startRow := rng.FromRow
	writeHeader := true
	if dest.Append {
		if last := lastUsedRow(used); last > 0 {
			startRow = rng.FromRow + last
			writeHeader = false
		}
	} else {
		progress.report(10, "清空目标区域", 0)
		if err := clearRange(f, sheet, rng, used); err != nil {
			return err
		}
	}

	need := len(table.Rows)
	if writeHeader {
		need++
	}
	if startRow+need-1 > rng.ToRow {
		return fmt.Errorf("%w: %d rows from row %d, range %s ends at row %d", ErrTableTooLarge, need, startRow, rng, rng.ToRow)
	}

	styles, err := newStyles(f)
	if err != nil {
		return err
	}

	row := startRow
	if writeHeader {
		if err := setRow(f, sheet, rng.FromCol, row, toAny(table.Headers())); err != nil {
			return err
		}
		if err := styleRow(f, sheet, rng.FromCol, rng.FromCol+len(table.Columns)-1, row, styles.header); err != nil {
			return err
		}
		row++
	}
	for i, cells := range table.Rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		values := make([]any, len(cells))
		for j, c := range cells {
			values[j] = c.Value(table.Columns[j].Kind)
		}
		if err := setRow(f, sheet, rng.FromCol, row, values); err != nil {
			return err
		}
		for j, col := range table.Columns {
			if col.Kind == model.ColumnText {
				continue
			}
			if err := styleRow(f, sheet, rng.FromCol+j, rng.FromCol+j, row, styles.number); err != nil {
				return err
			}
		}
		row++
		progress.rowsWritten(i + 1)
	}

	progress.report(95, "保存工作簿", len(table.Rows))
	if isNew {
		err = f.SaveAs(w.path)
	} else {
		err = f.Save()
	}
	if err != nil {
		return fmt.Errorf("save workbook %s: %w", w.path, err)
	}
	progress.report(100, "完成", len(table.Rows))
	return nil
}

func (w *XLSXWriter) open() (*excelize.File, bool, error) {
	if _, err := os.Stat(w.path); err != nil {
		if os.IsNotExist(err) {
			return excelize.NewFile(), true, nil
		}
		return nil, false, fmt.Errorf("stat workbook %s: %w", w.path, err)
	}
	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return nil, false, fmt.Errorf("open workbook %s: %w", w.path, err)
	}
	return f, false, nil
}

func ensureSheet(f *excelize.File, sheet string, isNew bool) error {
	idx, err := f.GetSheetIndex(sheet)
	if err == nil && idx >= 0 {
		return nil
	}
	if isNew {
		// 新建工作簿：直接把默认 Sheet 改名
		if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
			return fmt.Errorf("rename default sheet: %w", err)
		}
		return nil
	}
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %q: %w", sheet, err)
	}
	return nil
}

// lastUsedRow 区域内最后一个有内容的行（相对区域首行，1 起）；无内容返回 0
func lastUsedRow(rows [][]string) int {
	for i := len(rows) - 1; i >= 0; i-- {
		for _, v := range rows[i] {
			if strings.TrimSpace(v) != "" {
				return i + 1
			}
		}
	}
	return 0
}

func clearRange(f *excelize.File, sheet string, rng source.CellRange, used [][]string) error {
	for i, cells := range used {
		for j := range cells {
			cell, err := excelize.CoordinatesToCellName(rng.FromCol+j, rng.FromRow+i)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, nil); err != nil {
				return fmt.Errorf("clear %s!%s: %w", sheet, cell, err)
			}
		}
	}
	return nil
}

type cellStyles struct {
	header int
	number int
}

func newStyles(f *excelize.File) (cellStyles, error) {
	var st cellStyles
	var err error
	st.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return st, fmt.Errorf("create header style: %w", err)
	}
	// 千分位两位小数
	st.number, err = f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return st, fmt.Errorf("create number style: %w", err)
	}
	return st, nil
}

func styleRow(f *excelize.File, sheet string, fromCol, toCol, row, style int) error {
	from, err := excelize.CoordinatesToCellName(fromCol, row)
	if err != nil {
		return err
	}
	to, err := excelize.CoordinatesToCellName(toCol, row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, from, to, style)
}

func setRow(f *excelize.File, sheet string, col, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s!%s: %w", sheet, cell, err)
	}
	return nil
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
