package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// NormalizeColumnName 规范化列名，去除空格和特殊字符
func NormalizeColumnName(name string) string {
	// 全角括号统一为半角，避免同一列在不同月份 Sheet 中写法不同
	name = strings.NewReplacer("（", "(", "）", ")").Replace(name)
	return whitespaceRe.ReplaceAllString(name, "")
}

// IsBlank 空白单元格（空串或仅含空白字符）
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// ParseAmount 安全转换为浮点数
// 空白返回 (0, true)；无法解析、NaN、Inf 返回 (0, false)
func ParseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	s = strings.ReplaceAll(s, ",", "") // 移除千分位
	s = strings.ReplaceAll(s, "，", "")
	s = strings.TrimSpace(s)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
