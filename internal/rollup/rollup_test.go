package rollup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salestrack/internal/aggregator"
	"salestrack/internal/model"
)

var testLabels = Labels{
	CenterDepartment: "国际营销中心",
	Center:           "（中心合计）",
	Department:       "（部门合计）",
}

func member(dept, salesperson string, task, booked, shipped float64) model.SummaryRow {
	s := model.SummaryRow{
		Key:        model.GroupKey{Department: dept, Salesperson: salesperson},
		Cumulative: model.Metrics{Task: task, Booked: booked, Shipped: shipped},
		Current:    model.Metrics{Task: task / 2, Booked: booked / 2, Shipped: shipped / 2},
	}
	aggregator.Finalize(&s.Cumulative)
	aggregator.Finalize(&s.Current)
	return s
}

func TestBuildOrderAndAssociativity(t *testing.T) {
	members := []model.SummaryRow{
		member("美洲", "Bob", 100, 50, 10),
		member("亚太", "Carol", 200, 0, 0),
		member("美洲", "Alice", 300, 150, 150),
	}
	rows := Build(model.BySalesperson, members, testLabels)
	require.Len(t, rows, 6)

	assert.Equal(t, model.LevelCenter, rows[0].Level)
	assert.Equal(t, "国际营销中心", rows[0].DepartmentLabel)
	assert.Equal(t, "（中心合计）", rows[0].SalespersonLabel)

	assert.Equal(t, model.LevelDepartment, rows[1].Level)
	assert.Equal(t, "亚太", rows[1].DepartmentLabel)
	assert.Equal(t, "（部门合计）", rows[1].SalespersonLabel)
	assert.Equal(t, "美洲", rows[2].DepartmentLabel)

	assert.Equal(t, "Carol", rows[3].SalespersonLabel)
	assert.Equal(t, "Alice", rows[4].SalespersonLabel)
	assert.Equal(t, "Bob", rows[5].SalespersonLabel)

	var deptSum model.Metrics
	for _, r := range rows {
		if r.Level == model.LevelDepartment {
			deptSum.Add(r.Cumulative)
		}
	}
	center, ok := CenterRow(rows)
	require.True(t, ok)
	assert.Equal(t, center.Cumulative.Task, deptSum.Task)
	assert.Equal(t, center.Cumulative.Booked, deptSum.Booked)
	assert.Equal(t, center.Cumulative.Shipped, deptSum.Shipped)

	// 完成率由合计金额重新计算，而不是成员完成率求和
	assert.InDelta(t, 200.0/600*100, center.Cumulative.BookingRate, 1e-9)
	assert.InDelta(t, 160.0/200*100, center.Cumulative.ShipmentRate, 1e-9)
	assert.InDelta(t, 50.0, rows[2].Cumulative.BookingRate, 1e-9)

	// 没有开单的部门完成率为 0
	assert.Equal(t, 0.0, rows[1].Cumulative.BookingRate)
	assert.Equal(t, 0.0, rows[1].Cumulative.ShipmentRate)
}

func TestBuildByDepartment(t *testing.T) {
	members := []model.SummaryRow{
		member("美洲", "", 100, 50, 10),
		member("亚太", "", 200, 20, 0),
	}
	rows := Build(model.ByDepartment, members, testLabels)
	require.Len(t, rows, 3)
	assert.Equal(t, model.LevelCenter, rows[0].Level)
	assert.Equal(t, "亚太", rows[1].DepartmentLabel)
	assert.Equal(t, "（部门合计）", rows[1].SalespersonLabel)
	assert.Equal(t, 300.0, rows[0].Cumulative.Task)
}

func TestBuildEmpty(t *testing.T) {
	rows := Build(model.BySalesperson, nil, testLabels)
	require.Len(t, rows, 1)
	assert.Equal(t, model.Metrics{}, rows[0].Cumulative)
}
