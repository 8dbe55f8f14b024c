package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salestrack/internal/config"
	"salestrack/internal/model"
)

func raw(dept, category, salesperson, target, order, booked, shipped string) model.RawRow {
	return model.RawRow{
		Department:    dept,
		Category:      category,
		Salesperson:   salesperson,
		MonthlyTarget: target,
		OrderNumber:   order,
		BookedAmount:  booked,
		ShippedAmount: shipped,
	}
}

func TestNormalizeFillsAndFilters(t *testing.T) {
	n := New(Options{
		Departments: []string{"美洲", "亚太"},
		TargetScale: 10000,
		DefaultType: "其他",
	})

	rows := []model.RawRow{
		raw("美洲", "", "Alice", "2", "X1", "10", "5"),
		raw("美洲", "本月预计发货订单", "", "", "X1", "", ""),
		raw("欧洲事业部", "本月预计发货订单", "Carol", "1", "E1", "7", "7"),
		raw(" 亚太 ", "", "", "x", "X5", "1,000", "bad"),
		raw("亚太", "洽谈中", "Dave", "", "P1", "", ""),
	}
	out, stats := n.Normalize("2025.01", rows)

	require.Len(t, out, 4)
	assert.Equal(t, 5, stats.RawRows)
	assert.Equal(t, 4, stats.KeptRows)
	assert.Equal(t, 2, stats.Coerced)
	assert.Equal(t, 0, stats.Unattributed)

	// 类目向后填充，业务员向前继承（过滤发生在填充之后）
	assert.Equal(t, "本月预计发货订单", out[0].Category)
	assert.Equal(t, "Alice", out[1].Salesperson)
	assert.Equal(t, "亚太", out[2].Department)
	assert.Equal(t, "洽谈中", out[2].Category)
	assert.Equal(t, "Carol", out[2].Salesperson)

	assert.Equal(t, 20000.0, out[0].MonthlyTarget)
	assert.Equal(t, 0.0, out[2].MonthlyTarget)
	assert.Equal(t, 1000.0, out[2].BookedAmount)
	assert.Equal(t, 0.0, out[2].ShippedAmount)

	for _, r := range out {
		assert.Equal(t, "2025.01", r.Month)
		assert.Equal(t, "其他", r.SecondaryIndicator)
		assert.Equal(t, "其他", r.Type)
	}
}

func TestNormalizeIndicatorTypes(t *testing.T) {
	n := New(Options{
		Indicators:     []string{"ODM开发", "现有连锁增量"},
		IndicatorTypes: config.DefaultIndicatorTypes(),
		DefaultType:    "其他",
	})
	rows := []model.RawRow{
		{Department: "亚太", Salesperson: "A", SecondaryIndicator: "ODM开发"},
		{Department: "亚太", Salesperson: "A", SecondaryIndicator: "现有连锁增量"},
		{Department: "亚太", Salesperson: "A", SecondaryIndicator: "经销商开发"},
		{Department: "亚太", Salesperson: "A"},
	}
	out, _ := n.Normalize("2025.02", rows)
	require.Len(t, out, 2)
	assert.Equal(t, "拓展", out[0].Type)
	assert.Equal(t, "固本", out[1].Type)
}

func TestNormalizeUnassignedOwner(t *testing.T) {
	n := New(Options{NewOrderOwner: config.NewOrderOwnerUnassigned})
	rows := []model.RawRow{
		raw("美洲", "本月预计发货订单", "Alice", "1", "X1", "1", ""),
		raw("美洲", "", "", "", "X5", "2", ""),
	}
	out, stats := n.Normalize("2025.03", rows)
	require.Len(t, out, 2)
	assert.False(t, out[1].Attributed())
	assert.Equal(t, 1, stats.Unattributed)
}

func TestNormalizeCategoryFillBoth(t *testing.T) {
	n := New(Options{CategoryFill: config.CategoryFillBoth})
	rows := []model.RawRow{
		{Department: "美洲", Salesperson: "A"},
		{Department: "美洲", Category: "已确认订单"},
		{Department: "美洲"},
	}
	out, _ := n.Normalize("2025.03", rows)
	require.Len(t, out, 3)
	assert.Equal(t, "已确认订单", out[0].Category)
	assert.Equal(t, "已确认订单", out[2].Category)
}
