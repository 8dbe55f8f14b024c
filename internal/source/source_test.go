package source

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"salestrack/internal/model"
)

func TestParseRange(t *testing.T) {
	r, err := ParseRange("A1:T1000")
	require.NoError(t, err)
	assert.Equal(t, CellRange{FromCol: 1, FromRow: 1, ToCol: 20, ToRow: 1000}, r)
	assert.Equal(t, 20, r.Cols())
	assert.Equal(t, 1000, r.Rows())
	assert.Equal(t, "A1:T1000", r.String())

	r, err = ParseRange("C5:B2")
	require.NoError(t, err)
	assert.Equal(t, "B2:C5", r.String())

	for _, bad := range []string{"", "A1", "A1:ZZZZ1", "1A:B2"} {
		_, err := ParseRange(bad)
		assert.Error(t, err, bad)
	}
}

func TestClip(t *testing.T) {
	rows := [][]string{
		{"x", "x", "x"},
		{"a", "b", "c", "d"},
		{"e"},
		{},
		{"f", "g", "h"},
	}
	got := MustParseRange("B2:C4").Clip(rows)
	assert.Equal(t, [][]string{{"b", "c"}, nil, nil}, got)

	assert.Nil(t, MustParseRange("A10:B20").Clip(rows))
}

func writeSheet(t *testing.T, f *excelize.File, sheet string, rows [][]any) {
	t.Helper()
	if _, err := f.NewSheet(sheet); err != nil {
		t.Fatalf("new sheet: %v", err)
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
}

func TestWorkbookFetchSheet(t *testing.T) {
	f := excelize.NewFile()
	writeSheet(t, f, "2025.01", [][]any{
		{"部门", "业务员", "已开单金额"},
		{"美洲", "Alice", 12.5},
		{"亚太", "", 3},
	})

	path := filepath.Join(t.TempDir(), "tracking.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	src, err := Open(path)
	require.NoError(t, err)
	defer src.Close()

	sheets, err := src.Sheets(context.Background())
	require.NoError(t, err)
	assert.Contains(t, sheets, "2025.01")

	rows, err := src.FetchSheet(context.Background(), "2025.01", MustParseRange("A1:C100"))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"美洲", "Alice", "12.5"}, rows[1])
	assert.Equal(t, "亚太", rows[2][0])
	assert.Equal(t, "3", rows[2][2])

	_, err = src.FetchSheet(context.Background(), "2025.02", MustParseRange("A1:C100"))
	assert.ErrorIs(t, err, model.ErrSourceUnavailable)
}

func TestWorkbookFetchSheetIgnoresNumberFormats(t *testing.T) {
	f := excelize.NewFile()
	writeSheet(t, f, "2025.01", [][]any{
		{"本月目标", "已开单金额", "开船完成率"},
		{1234.56, 1234.56, 0.35},
	})
	thousands, err := f.NewStyle(&excelize.Style{NumFmt: 3})
	require.NoError(t, err)
	currency := `"$"#,##0.00`
	dollars, err := f.NewStyle(&excelize.Style{CustomNumFmt: &currency})
	require.NoError(t, err)
	percent, err := f.NewStyle(&excelize.Style{NumFmt: 9})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle("2025.01", "A2", "A2", thousands))
	require.NoError(t, f.SetCellStyle("2025.01", "B2", "B2", dollars))
	require.NoError(t, f.SetCellStyle("2025.01", "C2", "C2", percent))

	path := filepath.Join(t.TempDir(), "formatted.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	src, err := OpenWorkbook(path)
	require.NoError(t, err)
	defer src.Close()

	rows, err := src.FetchSheet(context.Background(), "2025.01", MustParseRange("A1:C2"))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"1234.56", "1234.56", "0.35"}, rows[1])
}

func TestLegacyWorkbookFetchSheet(t *testing.T) {
	src, err := Open(filepath.Join("testdata", "forecast.xls"))
	require.NoError(t, err)
	defer src.Close()

	legacy, ok := src.(*LegacyWorkbook)
	require.True(t, ok, "expected .xls to open as LegacyWorkbook, got %T", src)

	sheets, err := legacy.Sheets(context.Background())
	require.NoError(t, err)
	assert.Contains(t, sheets, "Sheet1")

	rows, err := legacy.FetchSheet(context.Background(), "Sheet1", MustParseRange("B1:C2"))
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"短期预测风速", "短期预测功率"},
		{"短期预测风速(m/s)", "短期预测功率(MW)"},
	}, rows)

	_, err = legacy.FetchSheet(context.Background(), "2025.01", MustParseRange("A1:C2"))
	assert.ErrorIs(t, err, model.ErrSourceUnavailable)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = legacy.FetchSheet(ctx, "Sheet1", MustParseRange("A1:A1"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpenMissingLegacyWorkbook(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.xls"))
	assert.ErrorIs(t, err, model.ErrSourceUnavailable)
}

func TestMemorySource(t *testing.T) {
	m := NewMemory()
	m.SetSheet("2025.01", [][]string{{"a"}, {"b"}})
	m.Fail("2025.02", errors.New("locked"))
	m.SetSheet("2025.03", [][]string{{"c"}})
	m.Delay("2025.03", time.Second)

	rows, err := m.FetchSheet(context.Background(), "2025.01", MustParseRange("A1:A1"))
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a"}}, rows)
	assert.Equal(t, 1, m.Fetches("2025.01"))

	_, err = m.FetchSheet(context.Background(), "2025.02", MustParseRange("A1:A1"))
	assert.ErrorIs(t, err, model.ErrSourceUnavailable)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = m.FetchSheet(ctx, "2025.03", MustParseRange("A1:A1"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	sheets, err := m.Sheets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"2025.01", "2025.03"}, sheets)
}
