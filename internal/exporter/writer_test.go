package exporter

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"salestrack/internal/model"
)

func testTable(names ...string) model.Table {
	table := model.Table{
		Columns: []model.Column{
			{Name: "部门", Kind: model.ColumnText},
			{Name: "累计任务量", Kind: model.ColumnAmount},
			{Name: "累计开单完成率(%)", Kind: model.ColumnRate},
		},
	}
	for i, name := range names {
		table.Rows = append(table.Rows, []model.Cell{
			{Text: name},
			{Number: float64(i+1) * 10},
			{Number: 12.34},
		})
	}
	return table
}

func readRows(t *testing.T, path, sheet string) [][]string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	return rows
}

func TestWriteTableCreatesWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	var events []ProgressEvent
	w := NewXLSXWriter(path, func(ev ProgressEvent) { events = append(events, ev) })

	dest := Destination{Range: "B2:F10", Section: "开单+船期"}
	require.NoError(t, w.WriteTable(context.Background(), testTable("美洲", "亚太"), dest))

	rows := readRows(t, path, "开单+船期")
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"", "部门", "累计任务量", "累计开单完成率(%)"}, rows[1])
	assert.Equal(t, []string{"", "美洲", "10", "12.34"}, rows[2])
	assert.Equal(t, []string{"", "亚太", "20", "12.34"}, rows[3])

	require.NotEmpty(t, events)
	last := events[len(events)-1]
	assert.Equal(t, 100, last.Percent)
	assert.Equal(t, "开单+船期", last.Section)
	assert.Equal(t, 2, last.Rows)
	for i := 1; i < len(events); i++ {
		assert.GreaterOrEqual(t, events[i].Percent, events[i-1].Percent)
	}
}

func TestWriteTableReplacesRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	w := NewXLSXWriter(path, nil)
	dest := Destination{Range: "A1:C10", Section: "汇总"}

	require.NoError(t, w.WriteTable(context.Background(), testTable("美洲", "亚太", "亚非"), dest))
	require.NoError(t, w.WriteTable(context.Background(), testTable("欧洲事业部"), dest))

	rows := readRows(t, path, "汇总")
	require.Len(t, rows, 2, "stale rows are cleared")
	assert.Equal(t, "欧洲事业部", rows[1][0])
}

func TestWriteTableAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	w := NewXLSXWriter(path, nil)
	dest := Destination{Range: "A1:C10", Section: "汇总", Append: true}

	require.NoError(t, w.WriteTable(context.Background(), testTable("美洲"), dest))
	require.NoError(t, w.WriteTable(context.Background(), testTable("亚太"), dest))

	rows := readRows(t, path, "汇总")
	require.Len(t, rows, 3)
	assert.Equal(t, "部门", rows[0][0])
	assert.Equal(t, "美洲", rows[1][0])
	assert.Equal(t, "亚太", rows[2][0])
}

func TestWriteTableKeepsOtherSheets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "keep"))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	w := NewXLSXWriter(path, nil)
	require.NoError(t, w.WriteTable(context.Background(), testTable("美洲"), Destination{Range: "A1:C10", Section: "汇总"}))

	assert.Equal(t, "keep", readRows(t, path, "Sheet1")[0][0])
	assert.Equal(t, "美洲", readRows(t, path, "汇总")[1][0])
}

func TestWriteTableOverflow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	w := NewXLSXWriter(path, nil)

	err := w.WriteTable(context.Background(), testTable("a", "b", "c"), Destination{Range: "A1:C3", Section: "汇总"})
	assert.True(t, errors.Is(err, ErrTableTooLarge))

	err = w.WriteTable(context.Background(), testTable("a"), Destination{Range: "A1:B10", Section: "汇总"})
	assert.True(t, errors.Is(err, ErrTableTooLarge))

	err = w.WriteTable(context.Background(), testTable("a"), Destination{Range: "bogus", Section: "汇总"})
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	table := testTable("美洲")
	table.Rows[0][1].Number = 1234567.891
	out := Render(table)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "累计任务量")
	assert.Contains(t, lines[1], "1,234,567.89")
	assert.Contains(t, lines[1], "12.34")
}
