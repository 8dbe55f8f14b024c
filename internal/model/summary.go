package model

import "fmt"

// Granularity 汇总口径
type Granularity string

const (
	ByDepartment               Granularity = "department"
	BySalesperson              Granularity = "salesperson"
	ByIndicatorType            Granularity = "indicator"
	ByIndicatorTypeDepartment  Granularity = "indicator_department"
	ByIndicatorTypeSalesperson Granularity = "indicator_salesperson"
)

// Granularities 全部支持的汇总口径
var Granularities = []Granularity{
	ByDepartment,
	BySalesperson,
	ByIndicatorType,
	ByIndicatorTypeDepartment,
	ByIndicatorTypeSalesperson,
}

// ParseGranularity 解析汇总口径
func ParseGranularity(s string) (Granularity, error) {
	for _, g := range Granularities {
		if string(g) == s {
			return g, nil
		}
	}
	return "", fmt.Errorf("unknown granularity: %q", s)
}

// UsesSalesperson 是否按业务员分组
func (g Granularity) UsesSalesperson() bool {
	return g == BySalesperson || g == ByIndicatorTypeSalesperson
}

// UsesDepartment 是否按部门分组
func (g Granularity) UsesDepartment() bool {
	return g != ByIndicatorType
}

// UsesIndicator 是否按二级指标/类型分组
func (g Granularity) UsesIndicator() bool {
	return g == ByIndicatorType || g == ByIndicatorTypeDepartment || g == ByIndicatorTypeSalesperson
}

// GroupKey 分组键；未参与分组的字段为空
type GroupKey struct {
	Indicator   string `json:"indicator,omitempty"`
	Type        string `json:"type,omitempty"`
	Department  string `json:"department,omitempty"`
	Salesperson string `json:"salesperson,omitempty"`
}

// KeyOf 按口径提取分组键
func KeyOf(g Granularity, r *NormalizedRow) GroupKey {
	var k GroupKey
	if g.UsesIndicator() {
		k.Indicator = r.SecondaryIndicator
		k.Type = r.Type
	}
	if g.UsesDepartment() {
		k.Department = r.Department
	}
	if g.UsesSalesperson() {
		k.Salesperson = r.Salesperson
	}
	return k
}

// Less 键的确定性排序（按字节序逐字段比较）
func (k GroupKey) Less(o GroupKey) bool {
	if k.Department != o.Department {
		return k.Department < o.Department
	}
	if k.Indicator != o.Indicator {
		return k.Indicator < o.Indicator
	}
	if k.Type != o.Type {
		return k.Type < o.Type
	}
	return k.Salesperson < o.Salesperson
}

// Metrics 某一时间口径下的任务量、开单、开船及完成率
type Metrics struct {
	Task         float64 `json:"task"`
	Booked       float64 `json:"booked"`
	Shipped      float64 `json:"shipped"`
	BookingRate  float64 `json:"bookingRate"`  // 开单完成率(%)
	ShipmentRate float64 `json:"shipmentRate"` // 船期完成率(%)
}

// Add 累加金额（完成率不参与累加）
func (m *Metrics) Add(o Metrics) {
	m.Task += o.Task
	m.Booked += o.Booked
	m.Shipped += o.Shipped
}

// SummaryRow 某个分组键的汇总结果
type SummaryRow struct {
	Key        GroupKey `json:"key"`
	Cumulative Metrics  `json:"cumulative"`
	Current    Metrics  `json:"current"`

	CumulativeBookedShare float64 `json:"cumulativeBookedShare"` // 累计开单占比(%)
	CurrentBookedShare    float64 `json:"currentBookedShare"`    // 当月开单占比(%)
}

// Level 汇总层级
type Level int

const (
	LevelCenter Level = iota
	LevelDepartment
	LevelMember
)

func (l Level) String() string {
	switch l {
	case LevelCenter:
		return "center"
	case LevelDepartment:
		return "department"
	default:
		return "member"
	}
}

// RollupRow 带层级标识的汇总行
type RollupRow struct {
	SummaryRow
	Level Level `json:"level"`

	// 展示用标识：部门合计行的 Salesperson 为部门合计标签，中心合计行两者均为中心标签
	DepartmentLabel  string `json:"departmentLabel"`
	SalespersonLabel string `json:"salespersonLabel"`
}
