package aggregator

import (
	"salestrack/internal/config"
	"salestrack/internal/model"
)

// OrderBook 当月在手订单与洽谈中订单金额（预计开单金额口径）
type OrderBook struct {
	Month             string  `json:"month"`
	InHandAmount      float64 `json:"inHandAmount"`
	NegotiationAmount float64 `json:"negotiationAmount"`
	InHandRows        int     `json:"inHandRows"`
	NegotiationRows   int     `json:"negotiationRows"`
}

// SummarizeOrderBook 汇总当月行中的在手订单与洽谈中订单
func SummarizeOrderBook(month string, current []model.NormalizedRow, inHand, negotiation []string) OrderBook {
	book := OrderBook{Month: month}
	inHandSet := make(map[string]struct{}, len(inHand))
	for _, c := range inHand {
		inHandSet[c] = struct{}{}
	}
	negotiationSet := make(map[string]struct{}, len(negotiation))
	for _, c := range negotiation {
		negotiationSet[c] = struct{}{}
	}

	for i := range current {
		r := &current[i]
		if _, ok := inHandSet[r.Category]; ok {
			book.InHandAmount += r.ExpectedBookedAmount
			book.InHandRows++
		}
		if _, ok := negotiationSet[r.Category]; ok {
			book.NegotiationAmount += r.ExpectedBookedAmount
			book.NegotiationRows++
		}
	}
	return book
}

// OrderBookFromProfile 按报表口径的类目配置汇总
func OrderBookFromProfile(p *config.Profile, month string, current []model.NormalizedRow) OrderBook {
	return SummarizeOrderBook(month, current, p.InHandCategories, p.NegotiationCategories)
}
