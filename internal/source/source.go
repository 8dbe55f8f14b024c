package source

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Source 表格数据提供方：按 Sheet 名（月份标签）读取一个矩形区域，保持原始行序
type Source interface {
	FetchSheet(ctx context.Context, sheet string, rng CellRange) ([][]string, error)
	Sheets(ctx context.Context) ([]string, error)
	Close() error
}

// CellRange 单元格区域（1 起，闭区间）
type CellRange struct {
	FromCol int
	FromRow int
	ToCol   int
	ToRow   int
}

// ParseRange 解析 A1 形式的区域，如 "A1:T1000"
func ParseRange(ref string) (CellRange, error) {
	parts := strings.Split(strings.TrimSpace(ref), ":")
	if len(parts) != 2 {
		return CellRange{}, fmt.Errorf("invalid range %q", ref)
	}
	c1, r1, err := excelize.CellNameToCoordinates(parts[0])
	if err != nil {
		return CellRange{}, fmt.Errorf("invalid range %q: %w", ref, err)
	}
	c2, r2, err := excelize.CellNameToCoordinates(parts[1])
	if err != nil {
		return CellRange{}, fmt.Errorf("invalid range %q: %w", ref, err)
	}
	if c2 < c1 {
		c1, c2 = c2, c1
	}
	if r2 < r1 {
		r1, r2 = r2, r1
	}
	return CellRange{FromCol: c1, FromRow: r1, ToCol: c2, ToRow: r2}, nil
}

// MustParseRange 解析区域，失败时 panic（仅用于常量区域）
func MustParseRange(ref string) CellRange {
	r, err := ParseRange(ref)
	if err != nil {
		panic(err)
	}
	return r
}

// Rows 区域行数
func (r CellRange) Rows() int { return r.ToRow - r.FromRow + 1 }

// Cols 区域列数
func (r CellRange) Cols() int { return r.ToCol - r.FromCol + 1 }

// String A1 形式
func (r CellRange) String() string {
	from, _ := excelize.CoordinatesToCellName(r.FromCol, r.FromRow)
	to, _ := excelize.CoordinatesToCellName(r.ToCol, r.ToRow)
	return from + ":" + to
}

// Clip 按区域裁剪整张 Sheet 的行（rows[0] 为第 1 行）；区域内缺失的行保留为空行
func (r CellRange) Clip(rows [][]string) [][]string {
	if len(rows) < r.FromRow {
		return nil
	}
	last := len(rows)
	if last > r.ToRow {
		last = r.ToRow
	}
	out := make([][]string, 0, last-r.FromRow+1)
	for _, row := range rows[r.FromRow-1 : last] {
		if len(row) < r.FromCol {
			out = append(out, nil)
			continue
		}
		end := len(row)
		if end > r.ToCol {
			end = r.ToCol
		}
		out = append(out, append([]string(nil), row[r.FromCol-1:end]...))
	}
	return out
}

// Open 按扩展名打开工作簿：.xls 使用旧格式读取，其余按 .xlsx 处理
func Open(path string) (Source, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xls":
		return OpenLegacyWorkbook(path)
	default:
		return OpenWorkbook(path)
	}
}
