// Package rollup 把业务员级汇总逐级合成为部门合计与中心合计，并生成展示表。
package rollup

import (
	"sort"

	"salestrack/internal/aggregator"
	"salestrack/internal/config"
	"salestrack/internal/model"
)

// Labels 合计行标识
type Labels struct {
	CenterDepartment string // 中心合计行的部门列，如 “国际营销中心”
	Center           string // 中心合计行标识，如 “（中心合计）”
	Department       string // 部门合计行标识，如 “（部门合计）”
}

// LabelsFromProfile 从报表口径读取合计行标识
func LabelsFromProfile(p *config.Profile) Labels {
	return Labels{
		CenterDepartment: p.CenterDepartment,
		Center:           p.CenterLabel,
		Department:       p.DepartmentLabel,
	}
}

// Build 合成中心合计、部门合计与成员行，并按 中心 → 部门合计 → 成员 排序
//
// 合计行的金额由成员金额重新求和，完成率由合计金额重新计算。
func Build(g model.Granularity, members []model.SummaryRow, labels Labels) []model.RollupRow {
	var center model.SummaryRow
	depts := make(map[string]*model.SummaryRow)
	for _, m := range members {
		center.Cumulative.Add(m.Cumulative)
		center.Current.Add(m.Current)
		if !g.UsesDepartment() {
			continue
		}
		d, ok := depts[m.Key.Department]
		if !ok {
			d = &model.SummaryRow{Key: model.GroupKey{Department: m.Key.Department}}
			depts[m.Key.Department] = d
		}
		d.Cumulative.Add(m.Cumulative)
		d.Current.Add(m.Current)
	}
	finalize(&center, center)

	out := make([]model.RollupRow, 0, len(members)+len(depts)+1)
	out = append(out, model.RollupRow{
		SummaryRow:       center,
		Level:            model.LevelCenter,
		DepartmentLabel:  labels.CenterDepartment,
		SalespersonLabel: labels.Center,
	})

	// 按部门口径汇总时成员行即部门行，不再重复生成部门合计
	if g == model.ByDepartment {
		for _, m := range members {
			out = append(out, model.RollupRow{
				SummaryRow:       m,
				Level:            model.LevelDepartment,
				DepartmentLabel:  m.Key.Department,
				SalespersonLabel: labels.Department,
			})
		}
		sortRows(out)
		return out
	}

	for _, d := range depts {
		finalize(d, center)
		out = append(out, model.RollupRow{
			SummaryRow:       *d,
			Level:            model.LevelDepartment,
			DepartmentLabel:  d.Key.Department,
			SalespersonLabel: labels.Department,
		})
	}
	for _, m := range members {
		out = append(out, model.RollupRow{
			SummaryRow:       m,
			Level:            model.LevelMember,
			DepartmentLabel:  m.Key.Department,
			SalespersonLabel: m.Key.Salesperson,
		})
	}
	sortRows(out)
	return out
}

// finalize 重算完成率；合计行的开单占比相对中心合计
func finalize(s *model.SummaryRow, center model.SummaryRow) {
	aggregator.Finalize(&s.Cumulative)
	aggregator.Finalize(&s.Current)
	s.CumulativeBookedShare = aggregator.SafeRatio(s.Cumulative.Booked, center.Cumulative.Booked)
	s.CurrentBookedShare = aggregator.SafeRatio(s.Current.Booked, center.Current.Booked)
}

// sortRows 中心合计在前，其次各部门合计（按部门），最后成员行（按部门、指标、类型、业务员）
func sortRows(rows []model.RollupRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Level != b.Level {
			return a.Level < b.Level
		}
		return a.Key.Less(b.Key)
	})
}

// CenterRow 取中心合计行
func CenterRow(rows []model.RollupRow) (model.RollupRow, bool) {
	for _, r := range rows {
		if r.Level == model.LevelCenter {
			return r, true
		}
	}
	return model.RollupRow{}, false
}
