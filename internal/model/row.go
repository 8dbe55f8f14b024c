package model

// Field 规范字段名（与表头无关的内部口径）
type Field string

const (
	FieldDepartment           Field = "department"
	FieldCategory             Field = "category"
	FieldSecondaryIndicator   Field = "secondary_indicator"
	FieldSalesperson          Field = "salesperson"
	FieldMonthlyTarget        Field = "monthly_target"
	FieldCustomerName         Field = "customer_name"
	FieldOrderNumber          Field = "order_number"
	FieldOrderAmountUSD       Field = "order_amount_usd"
	FieldExpectedBookedAmount Field = "expected_booked_amount"
	FieldBookedAmount         Field = "booked_amount"
	FieldShippedAmount        Field = "shipped_amount"
	FieldExchangeRate         Field = "exchange_rate"
)

// RawRow 月度 Sheet 中的一行原始数据（保持原始字符串，不做任何清洗）
type RawRow struct {
	RowNo int `json:"rowNo"` // Sheet 中的行号（1 起，含表头）

	Department           string `json:"department"`
	Category             string `json:"category"`
	SecondaryIndicator   string `json:"secondaryIndicator"`
	Salesperson          string `json:"salesperson"`
	MonthlyTarget        string `json:"monthlyTarget"`
	CustomerName         string `json:"customerName"`
	OrderNumber          string `json:"orderNumber"`
	OrderAmountUSD       string `json:"orderAmountUsd"`
	ExpectedBookedAmount string `json:"expectedBookedAmount"`
	BookedAmount         string `json:"bookedAmount"`
	ShippedAmount        string `json:"shippedAmount"`
	ExchangeRate         string `json:"exchangeRate"`

	// 交期、装柜、开船、进度说明等物流字段，按表头原样透传
	Extra map[string]string `json:"extra,omitempty"`
}

// Set 按规范字段写入值
func (r *RawRow) Set(field Field, value string) {
	switch field {
	case FieldDepartment:
		r.Department = value
	case FieldCategory:
		r.Category = value
	case FieldSecondaryIndicator:
		r.SecondaryIndicator = value
	case FieldSalesperson:
		r.Salesperson = value
	case FieldMonthlyTarget:
		r.MonthlyTarget = value
	case FieldCustomerName:
		r.CustomerName = value
	case FieldOrderNumber:
		r.OrderNumber = value
	case FieldOrderAmountUSD:
		r.OrderAmountUSD = value
	case FieldExpectedBookedAmount:
		r.ExpectedBookedAmount = value
	case FieldBookedAmount:
		r.BookedAmount = value
	case FieldShippedAmount:
		r.ShippedAmount = value
	case FieldExchangeRate:
		r.ExchangeRate = value
	}
}

// NormalizedRow 清洗后的行
type NormalizedRow struct {
	RowNo int    `json:"rowNo"`
	Month string `json:"month"` // 月份标签 YYYY.MM

	Department         string `json:"department"`
	Category           string `json:"category"`
	SecondaryIndicator string `json:"secondaryIndicator"`
	Type               string `json:"type"` // 拓展/固本/其他
	Salesperson        string `json:"salesperson"`
	CustomerName       string `json:"customerName"`
	OrderNumber        string `json:"orderNumber"`

	MonthlyTarget        float64 `json:"monthlyTarget"`
	OrderAmountUSD       float64 `json:"orderAmountUsd"`
	ExpectedBookedAmount float64 `json:"expectedBookedAmount"`
	BookedAmount         float64 `json:"bookedAmount"`
	ShippedAmount        float64 `json:"shippedAmount"`
	ExchangeRate         string  `json:"exchangeRate"`

	Extra map[string]string `json:"extra,omitempty"`
}

// Attributed 是否已归属到业务员
func (r *NormalizedRow) Attributed() bool {
	return r.Salesperson != ""
}
