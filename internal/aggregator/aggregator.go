// Package aggregator 按分组口径汇总任务量、开单金额、开船金额并计算完成率。
package aggregator

import (
	"sort"

	"salestrack/internal/config"
	"salestrack/internal/model"
)

// Metrics 别名，便于在本包内使用
type Metrics = model.Metrics

// Options 汇总口径
type Options struct {
	// OrderCategory 订单行的类目；OrdersOnly 为 false 时所有行都计入开单/开船
	OrderCategory string
	OrdersOnly    bool
}

// OptionsFromProfile 从报表口径构造汇总参数
func OptionsFromProfile(p *config.Profile) Options {
	return Options{
		OrderCategory: p.OrderCategory,
		OrdersOnly:    p.BookedScope != config.BookedScopeAll,
	}
}

// Aggregator 分组汇总器
type Aggregator struct {
	opts Options
}

// New 创建汇总器
func New(opts Options) *Aggregator {
	return &Aggregator{opts: opts}
}

func (a *Aggregator) isOrder(r *model.NormalizedRow) bool {
	return !a.opts.OrdersOnly || r.Category == a.opts.OrderCategory
}

// Summarize 在指定口径下汇总：all 为全部月份的行，current 为当月行
//
// 累计任务量统计全部行；累计开单/开船只统计订单行；
// 当月开单/开船只统计开单金额大于 0 的当月订单行；全部行口径下当月行全部计入（含冲红）。
// 任一分组中出现过的键都会输出，缺失项为 0。
func (a *Aggregator) Summarize(g model.Granularity, all, current []model.NormalizedRow) []model.SummaryRow {
	acc := make(map[model.GroupKey]*model.SummaryRow)
	get := func(k model.GroupKey) *model.SummaryRow {
		s, ok := acc[k]
		if !ok {
			s = &model.SummaryRow{Key: k}
			acc[k] = s
		}
		return s
	}

	for i := range all {
		r := &all[i]
		if g.UsesSalesperson() && !r.Attributed() {
			continue
		}
		s := get(model.KeyOf(g, r))
		s.Cumulative.Task += r.MonthlyTarget
		if a.isOrder(r) {
			s.Cumulative.Booked += r.BookedAmount
			s.Cumulative.Shipped += r.ShippedAmount
		}
	}

	for i := range current {
		r := &current[i]
		if g.UsesSalesperson() && !r.Attributed() {
			continue
		}
		s := get(model.KeyOf(g, r))
		s.Current.Task += r.MonthlyTarget
		if a.isOrder(r) && (!a.opts.OrdersOnly || r.BookedAmount > 0) {
			s.Current.Booked += r.BookedAmount
			s.Current.Shipped += r.ShippedAmount
		}
	}

	out := make([]model.SummaryRow, 0, len(acc))
	for _, s := range acc {
		Finalize(&s.Cumulative)
		Finalize(&s.Current)
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key.Less(out[j].Key) })

	applyShares(g, out)
	return out
}

// shareGroup 开单占比的分母分组
func shareGroup(g model.Granularity, k model.GroupKey) (model.GroupKey, bool) {
	switch g {
	case model.ByIndicatorType:
		return model.GroupKey{}, true
	case model.ByIndicatorTypeDepartment:
		return model.GroupKey{Type: k.Type, Department: k.Department}, true
	case model.ByIndicatorTypeSalesperson:
		return model.GroupKey{Type: k.Type, Department: k.Department, Salesperson: k.Salesperson}, true
	default:
		return model.GroupKey{}, false
	}
}

// applyShares 计算二级指标口径下的开单占比
func applyShares(g model.Granularity, rows []model.SummaryRow) {
	if _, ok := shareGroup(g, model.GroupKey{}); !ok {
		return
	}
	cum := make(map[model.GroupKey]float64)
	cur := make(map[model.GroupKey]float64)
	for _, r := range rows {
		k, _ := shareGroup(g, r.Key)
		cum[k] += r.Cumulative.Booked
		cur[k] += r.Current.Booked
	}
	for i := range rows {
		k, _ := shareGroup(g, rows[i].Key)
		rows[i].CumulativeBookedShare = SafeRatio(rows[i].Cumulative.Booked, cum[k])
		rows[i].CurrentBookedShare = SafeRatio(rows[i].Current.Booked, cur[k])
	}
}
