package rollup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salestrack/internal/model"
)

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.24, Round2(1.235))
	assert.Equal(t, -1.24, Round2(-1.235))
	assert.Equal(t, 35.71, Round2(35.714285))
	assert.Equal(t, 0.0, Round2(0))
}

func TestToUnit(t *testing.T) {
	assert.Equal(t, 1.23, ToUnit(12345.678, 10000))
	assert.Equal(t, 12345.68, ToUnit(12345.678, 1))
}

func TestColumns(t *testing.T) {
	assert.Len(t, Columns(model.BySalesperson), 12)
	assert.Len(t, Columns(model.ByIndicatorType), 14)
	assert.Len(t, Columns(model.ByIndicatorTypeSalesperson), 16)

	cols := Columns(model.ByIndicatorTypeDepartment)
	assert.Equal(t, "二级指标", cols[0].Name)
	assert.Equal(t, "部门", cols[2].Name)
	assert.Equal(t, "当月开单占比(%)", cols[len(cols)-1].Name)
}

func TestPresentScalesAmountsOnly(t *testing.T) {
	rows := Build(model.BySalesperson, []model.SummaryRow{
		member("美洲", "Alice", 200000, 70000, 25000),
	}, testLabels)
	table := Present(model.BySalesperson, rows, 10000)
	require.Len(t, table.Rows, 3)

	center := table.Rows[0]
	assert.Equal(t, "国际营销中心", center[0].Text)
	assert.Equal(t, "（中心合计）", center[1].Text)
	assert.Equal(t, 20.0, center[2].Number)
	assert.Equal(t, 7.0, center[3].Number)
	assert.Equal(t, 2.5, center[4].Number)
	assert.Equal(t, 35.0, center[5].Number)
	assert.Equal(t, 35.71, center[6].Number)

	assert.Equal(t, "Alice", table.Rows[2][1].Text)
}
