package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var monthTagRe = regexp.MustCompile(`^(\d{4})\.(\d{2})$`)

// MonthTag 月份标签（Sheet 名）："2025.03"
func MonthTag(year, month int) string {
	return fmt.Sprintf("%d.%02d", year, month)
}

// ParseMonthTag 解析月份标签
func ParseMonthTag(tag string) (year, month int, found bool) {
	matches := monthTagRe.FindStringSubmatch(tag)
	if len(matches) < 3 {
		return 0, 0, false
	}
	year, _ = strconv.Atoi(matches[1])
	month, _ = strconv.Atoi(matches[2])
	if month < 1 || month > 12 {
		return 0, 0, false
	}
	return year, month, true
}

// CurrentMonthTag 运行日期所在月份的标签
func CurrentMonthTag(runDate time.Time) string {
	return MonthTag(runDate.Year(), int(runDate.Month()))
}

// MonthsToDate 本年 1 月至运行月份（含）的标签
func MonthsToDate(runDate time.Time) []string {
	current := int(runDate.Month())
	months := make([]string, 0, current)
	for m := 1; m <= current; m++ {
		months = append(months, MonthTag(runDate.Year(), m))
	}
	return months
}
