package model

// Table 矩形结果表（交给输出端写入）
type Table struct {
	Columns []Column `json:"columns"`
	Rows    [][]Cell `json:"rows"`
}

// ColumnKind 列类型
type ColumnKind int

const (
	ColumnText ColumnKind = iota
	ColumnAmount
	ColumnRate
)

// Column 列定义
type Column struct {
	Name string     `json:"name"`
	Kind ColumnKind `json:"kind"`
}

// Cell 单元格；Text 列使用 Text，其余列使用 Number
type Cell struct {
	Text   string  `json:"text,omitempty"`
	Number float64 `json:"number"`
}

// Value 单元格的写入值
func (c Cell) Value(kind ColumnKind) any {
	if kind == ColumnText {
		return c.Text
	}
	return c.Number
}

// Headers 表头
func (t *Table) Headers() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}
