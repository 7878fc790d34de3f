package book

import "sort"

// BidLevels aggregates resting buy quantity by exact price, best (highest)
// price first. Pure read; computed under the book lock so a concurrent match
// or expiry can never be observed half-applied.
func (b *Book) BidLevels() []PriceLevel {
	b.mu.Lock()
	defer b.mu.Unlock()
	return aggregateLevels(b.bids, func(a, c float64) bool { return a > c })
}

// AskLevels aggregates resting sell quantity by exact price, best (lowest)
// price first.
func (b *Book) AskLevels() []PriceLevel {
	b.mu.Lock()
	defer b.mu.Unlock()
	return aggregateLevels(b.asks, func(a, c float64) bool { return a < c })
}

func aggregateLevels(q *orderQueue, before func(a, b float64) bool) []PriceLevel {
	byPrice := make(map[float64]int64, q.Len())
	for _, o := range q.orders {
		byPrice[o.Price] += o.Qty
	}

	levels := make([]PriceLevel, 0, len(byPrice))
	for price, qty := range byPrice {
		levels = append(levels, PriceLevel{Price: price, Qty: qty})
	}
	sort.Slice(levels, func(i, j int) bool {
		return before(levels[i].Price, levels[j].Price)
	})
	return levels
}
