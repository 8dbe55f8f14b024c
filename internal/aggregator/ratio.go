package aggregator

// SafeRatio 百分比：分母大于 0 时为 n/d*100，否则为 0
func SafeRatio(numerator, denominator float64) float64 {
	if denominator > 0 {
		return numerator / denominator * 100
	}
	return 0
}

// Finalize 由金额重新计算完成率（完成率从不参与求和）
func Finalize(m *Metrics) {
	m.BookingRate = SafeRatio(m.Booked, m.Task)
	m.ShipmentRate = SafeRatio(m.Shipped, m.Booked)
}
