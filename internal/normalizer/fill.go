package normalizer

import "salestrack/internal/config"

// BackFill 空值取其后第一个非空值；末尾无后继的空值保持为空
func BackFill(values []string) []string {
	out := make([]string, len(values))
	next := ""
	for i := len(values) - 1; i >= 0; i-- {
		if values[i] != "" {
			next = values[i]
		}
		out[i] = next
	}
	return out
}

// ForwardFill 空值取其前最近的非空值；开头无前值的空值保持为空
func ForwardFill(values []string) []string {
	out := make([]string, len(values))
	prev := ""
	for i, v := range values {
		if v != "" {
			prev = v
		}
		out[i] = prev
	}
	return out
}

// ResolveSalespeople 按原始行序补全业务员
//
// inherit：空业务员一律继承上一行已确定的业务员（含带新订单号的行）。
// unassigned：空业务员且带订单号的行视为“新订单、归属未知”，保持为空，
// 其后的续行随之保持为空，直到出现新的业务员。
func ResolveSalespeople(salespeople, orderNumbers []string, policy string) []string {
	out := make([]string, len(salespeople))
	carry := ""
	for i, sp := range salespeople {
		switch {
		case sp != "":
			carry = sp
		case policy == config.NewOrderOwnerUnassigned && i < len(orderNumbers) && orderNumbers[i] != "":
			carry = ""
		}
		out[i] = carry
	}
	return out
}
