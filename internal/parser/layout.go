package parser

import (
	"fmt"

	"salestrack/internal/model"
)

// fieldByHeader 表头 → 规范字段；不在表中的列作为物流等附加信息透传
var fieldByHeader = map[string]model.Field{
	"部门":       model.FieldDepartment,
	"类目":       model.FieldCategory,
	"业务员":      model.FieldSalesperson,
	"本月目标":     model.FieldMonthlyTarget,
	"客户名称":     model.FieldCustomerName,
	"二级指标":     model.FieldSecondaryIndicator,
	"新连锁开发-区域": model.FieldSecondaryIndicator,
	"订单号":      model.FieldOrderNumber,
	"订单金额(美金)": model.FieldOrderAmountUSD,
	"预计开单金额":   model.FieldExpectedBookedAmount,
	"已开单金额":    model.FieldBookedAmount,
	"已开船金额":    model.FieldShippedAmount,
	"汇率":       model.FieldExchangeRate,
}

var requiredFields = []model.Field{
	model.FieldDepartment,
	model.FieldCategory,
	model.FieldSalesperson,
	model.FieldMonthlyTarget,
	model.FieldOrderNumber,
	model.FieldBookedAmount,
	model.FieldShippedAmount,
}

// FieldForHeader 表头对应的规范字段
func FieldForHeader(header string) (model.Field, bool) {
	f, ok := fieldByHeader[NormalizeColumnName(header)]
	return f, ok
}

// Layout 列布局：按位置把列分配到字段
type Layout struct {
	Columns []string
	fields  []model.Field // 与 Columns 对应；附加列为空
}

// NewLayout 根据列名创建布局，并检查必需字段齐全、无重复
func NewLayout(columns []string) (*Layout, error) {
	l := &Layout{
		Columns: append([]string(nil), columns...),
		fields:  make([]model.Field, len(columns)),
	}
	seen := make(map[model.Field]string)
	for i, col := range columns {
		f, ok := FieldForHeader(col)
		if !ok {
			continue
		}
		if prev, dup := seen[f]; dup {
			return nil, fmt.Errorf("columns %q and %q both map to %s", prev, col, f)
		}
		seen[f] = col
		l.fields[i] = f
	}
	for _, f := range requiredFields {
		if _, ok := seen[f]; !ok {
			return nil, fmt.Errorf("column layout is missing required field %s", f)
		}
	}
	return l, nil
}

// Width 布局列数
func (l *Layout) Width() int {
	return len(l.Columns)
}

// HeaderWidth 表头宽度（截至最后一个非空表头单元格）
func HeaderWidth(header []string) int {
	n := len(header)
	for n > 0 && IsBlank(header[n-1]) {
		n--
	}
	return n
}

// Validate 校验表头是否符合布局；列数不符总是报错，verifyNames 时逐列比对名称
func (l *Layout) Validate(month string, header []string, verifyNames bool) error {
	got := HeaderWidth(header)
	if got != l.Width() {
		return &model.SchemaMismatchError{Month: month, Want: l.Width(), Got: got, Column: -1}
	}
	if !verifyNames {
		return nil
	}
	for i, want := range l.Columns {
		if NormalizeColumnName(header[i]) != NormalizeColumnName(want) {
			return &model.SchemaMismatchError{
				Month:   month,
				Want:    l.Width(),
				Got:     got,
				Column:  i,
				Header:  header[i],
				WantCol: want,
			}
		}
	}
	return nil
}

// Assign 按位置把一行单元格分配到 RawRow；短行以空白补齐
func (l *Layout) Assign(rowNo int, cells []string) model.RawRow {
	row := model.RawRow{RowNo: rowNo}
	for i, col := range l.Columns {
		var value string
		if i < len(cells) {
			value = cells[i]
		}
		if f := l.fields[i]; f != "" {
			row.Set(f, value)
			continue
		}
		if value == "" {
			continue
		}
		if row.Extra == nil {
			row.Extra = make(map[string]string)
		}
		row.Extra[col] = value
	}
	return row
}
