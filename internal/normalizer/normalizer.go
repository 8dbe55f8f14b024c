// Package normalizer 把月度原始行清洗为可汇总的规范行。
package normalizer

import (
	"strings"

	"salestrack/internal/config"
	"salestrack/internal/model"
	"salestrack/internal/parser"
)

// Options 清洗口径
type Options struct {
	Departments    []string
	Indicators     []string
	IndicatorTypes map[string]string
	DefaultType    string
	TargetScale    float64
	NewOrderOwner  string
	CategoryFill   string
}

// OptionsFromProfile 从报表口径构造清洗参数
func OptionsFromProfile(p *config.Profile) Options {
	return Options{
		Departments:    p.Departments,
		Indicators:     p.Indicators,
		IndicatorTypes: p.IndicatorTypes,
		DefaultType:    p.DefaultType,
		TargetScale:    p.TargetScale,
		NewOrderOwner:  p.NewOrderOwner,
		CategoryFill:   p.CategoryFill,
	}
}

// Stats 单月清洗统计
type Stats struct {
	RawRows      int
	KeptRows     int
	Unattributed int
	Coerced      int
}

// Normalizer 行清洗器
type Normalizer struct {
	opts        Options
	departments map[string]struct{}
	indicators  map[string]struct{}
}

// New 创建清洗器
func New(opts Options) *Normalizer {
	if opts.TargetScale == 0 {
		opts.TargetScale = 1
	}
	if opts.DefaultType == "" {
		opts.DefaultType = defaultIndicator
	}
	return &Normalizer{
		opts:        opts,
		departments: toSet(opts.Departments),
		indicators:  toSet(opts.Indicators),
	}
}

const defaultIndicator = "其他"

// Normalize 清洗一个月的原始行；rows 必须保持 Sheet 原始行序
func (n *Normalizer) Normalize(month string, rows []model.RawRow) ([]model.NormalizedRow, Stats) {
	stats := Stats{RawRows: len(rows)}

	departments := make([]string, len(rows))
	categories := make([]string, len(rows))
	salespeople := make([]string, len(rows))
	orderNumbers := make([]string, len(rows))
	for i := range rows {
		departments[i] = strings.TrimSpace(rows[i].Department)
		categories[i] = strings.TrimSpace(rows[i].Category)
		salespeople[i] = strings.TrimSpace(rows[i].Salesperson)
		orderNumbers[i] = strings.TrimSpace(rows[i].OrderNumber)
	}

	if n.opts.CategoryFill == config.CategoryFillBoth {
		categories = ForwardFill(categories)
	}
	categories = BackFill(categories)
	salespeople = ResolveSalespeople(salespeople, orderNumbers, n.opts.NewOrderOwner)

	out := make([]model.NormalizedRow, 0, len(rows))
	for i := range rows {
		raw := &rows[i]

		indicator := strings.TrimSpace(raw.SecondaryIndicator)
		if indicator == "" {
			indicator = defaultIndicator
		}

		if !n.keepDepartment(departments[i]) || !n.keepIndicator(indicator) {
			continue
		}

		row := model.NormalizedRow{
			RowNo:              raw.RowNo,
			Month:              month,
			Department:         departments[i],
			Category:           categories[i],
			SecondaryIndicator: indicator,
			Type:               n.typeOf(indicator),
			Salesperson:        salespeople[i],
			CustomerName:       strings.TrimSpace(raw.CustomerName),
			OrderNumber:        orderNumbers[i],
			ExchangeRate:       strings.TrimSpace(raw.ExchangeRate),
			Extra:              raw.Extra,
		}
		row.MonthlyTarget = coerce(raw.MonthlyTarget, &stats) * n.opts.TargetScale
		row.OrderAmountUSD = coerce(raw.OrderAmountUSD, &stats)
		row.ExpectedBookedAmount = coerce(raw.ExpectedBookedAmount, &stats)
		row.BookedAmount = coerce(raw.BookedAmount, &stats)
		row.ShippedAmount = coerce(raw.ShippedAmount, &stats)

		if !row.Attributed() {
			stats.Unattributed++
		}
		out = append(out, row)
	}
	stats.KeptRows = len(out)
	return out, stats
}

func (n *Normalizer) keepDepartment(dept string) bool {
	if len(n.departments) == 0 {
		return true
	}
	_, ok := n.departments[dept]
	return ok
}

func (n *Normalizer) keepIndicator(indicator string) bool {
	if len(n.indicators) == 0 {
		return true
	}
	_, ok := n.indicators[indicator]
	return ok
}

func (n *Normalizer) typeOf(indicator string) string {
	if t, ok := n.opts.IndicatorTypes[indicator]; ok && t != "" {
		return t
	}
	return n.opts.DefaultType
}

// coerce 数值转换；无法解析的非空单元格按 0 处理并计数
func coerce(s string, stats *Stats) float64 {
	v, ok := parser.ParseAmount(s)
	if !ok {
		stats.Coerced++
	}
	return v
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			set[v] = struct{}{}
		}
	}
	return set
}
