package rollup

import (
	"github.com/shopspring/decimal"

	"salestrack/internal/model"
)

// Round2 保留两位小数（四舍五入，远离零）
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// ToUnit 金额换算为汇报单位并保留两位小数
func ToUnit(v, unit float64) float64 {
	if unit == 0 || unit == 1 {
		return Round2(v)
	}
	return decimal.NewFromFloat(v).Div(decimal.NewFromFloat(unit)).Round(2).InexactFloat64()
}

// Columns 展示表列定义
func Columns(g model.Granularity) []model.Column {
	var cols []model.Column
	if g.UsesIndicator() {
		cols = append(cols,
			model.Column{Name: "二级指标", Kind: model.ColumnText},
			model.Column{Name: "类型", Kind: model.ColumnText},
		)
	}
	if g.UsesDepartment() {
		cols = append(cols,
			model.Column{Name: "部门", Kind: model.ColumnText},
			model.Column{Name: "业务员", Kind: model.ColumnText},
		)
	}
	cols = append(cols,
		model.Column{Name: "累计任务量", Kind: model.ColumnAmount},
		model.Column{Name: "累计已开单金额", Kind: model.ColumnAmount},
		model.Column{Name: "累计已开船金额", Kind: model.ColumnAmount},
		model.Column{Name: "累计开单完成率(%)", Kind: model.ColumnRate},
		model.Column{Name: "累计船期完成率(%)", Kind: model.ColumnRate},
		model.Column{Name: "当月任务量", Kind: model.ColumnAmount},
		model.Column{Name: "当月已开单金额", Kind: model.ColumnAmount},
		model.Column{Name: "当月已开船金额", Kind: model.ColumnAmount},
		model.Column{Name: "当月开单完成率(%)", Kind: model.ColumnRate},
		model.Column{Name: "当月船期完成率(%)", Kind: model.ColumnRate},
	)
	if g.UsesIndicator() {
		cols = append(cols,
			model.Column{Name: "累计开单占比(%)", Kind: model.ColumnRate},
			model.Column{Name: "当月开单占比(%)", Kind: model.ColumnRate},
		)
	}
	return cols
}

// Present 生成展示表：金额列换算为汇报单位，完成率不换算，数值统一保留两位小数
func Present(g model.Granularity, rows []model.RollupRow, unit float64) model.Table {
	table := model.Table{Columns: Columns(g)}
	for _, r := range rows {
		var cells []model.Cell
		if g.UsesIndicator() {
			indicator, typ := r.Key.Indicator, r.Key.Type
			switch r.Level {
			case model.LevelCenter:
				indicator, typ = "", ""
				if !g.UsesDepartment() {
					indicator = r.SalespersonLabel
				}
			case model.LevelDepartment:
				indicator, typ = "", ""
			}
			cells = append(cells, model.Cell{Text: indicator}, model.Cell{Text: typ})
		}
		if g.UsesDepartment() {
			cells = append(cells, model.Cell{Text: r.DepartmentLabel}, model.Cell{Text: r.SalespersonLabel})
		}
		cells = append(cells,
			model.Cell{Number: ToUnit(r.Cumulative.Task, unit)},
			model.Cell{Number: ToUnit(r.Cumulative.Booked, unit)},
			model.Cell{Number: ToUnit(r.Cumulative.Shipped, unit)},
			model.Cell{Number: Round2(r.Cumulative.BookingRate)},
			model.Cell{Number: Round2(r.Cumulative.ShipmentRate)},
			model.Cell{Number: ToUnit(r.Current.Task, unit)},
			model.Cell{Number: ToUnit(r.Current.Booked, unit)},
			model.Cell{Number: ToUnit(r.Current.Shipped, unit)},
			model.Cell{Number: Round2(r.Current.BookingRate)},
			model.Cell{Number: Round2(r.Current.ShipmentRate)},
		)
		if g.UsesIndicator() {
			cells = append(cells,
				model.Cell{Number: Round2(r.CumulativeBookedShare)},
				model.Cell{Number: Round2(r.CurrentBookedShare)},
			)
		}
		table.Rows = append(table.Rows, cells)
	}
	return table
}
