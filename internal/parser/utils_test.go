package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"", 0, true},
		{"   ", 0, true},
		{"12.5", 12.5, true},
		{"1,234.5", 1234.5, true},
		{" -3 ", -3, true},
		{"abc", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseAmount(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestNormalizeColumnName(t *testing.T) {
	assert.Equal(t, "订单金额(美金)", NormalizeColumnName("订单金额（美金）"))
	assert.Equal(t, "已开单金额", NormalizeColumnName(" 已开单 金额 "))
}
