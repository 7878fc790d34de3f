package api

import "marketsim/pkg/book"

// REST response types and WebSocket message types.

// LevelInfo is one aggregated price level.
type LevelInfo struct {
	Price float64 `json:"price"`
	Qty   int64   `json:"qty"`
}

// OrderbookResponse is the depth snapshot served at /api/v1/orderbook.
type OrderbookResponse struct {
	Bids      []LevelInfo `json:"bids"` // sorted high to low
	Asks      []LevelInfo `json:"asks"` // sorted low to high
	BidCount  int         `json:"bidCount"`
	AskCount  int         `json:"askCount"`
	BidVolume int64       `json:"bidVolume"`
	AskVolume int64       `json:"askVolume"`
	Timestamp int64       `json:"timestamp"` // Unix milliseconds
}

// TradeInfo is one executed trade.
type TradeInfo struct {
	Side      string  `json:"side"`
	Price     float64 `json:"price"`
	Qty       int64   `json:"qty"`
	Timestamp int64   `json:"timestamp"` // Unix milliseconds
}

// ChartScale gives renderers a padded min/max for the price axis. The range
// is never zero: a flat series gets a unit range instead.
type ChartScale struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// HistoryResponse carries the bounded bid/ask/mid series. Absent samples
// encode as null.
type HistoryResponse struct {
	Bid              []book.Sample `json:"bid"`
	Ask              []book.Sample `json:"ask"`
	Mid              []book.Sample `json:"mid"`
	FirstSampleIndex uint64        `json:"firstSampleIndex"`
	TotalSamples     uint64        `json:"totalSamples"`
	Scale            ChartScale    `json:"scale"`
}

// StatsResponse summarizes current book state.
type StatsResponse struct {
	Bid          book.Sample `json:"bid"`
	Ask          book.Sample `json:"ask"`
	Mid          book.Sample `json:"mid"`
	BidCount     int         `json:"bidCount"`
	AskCount     int         `json:"askCount"`
	BidVolume    int64       `json:"bidVolume"`
	AskVolume    int64       `json:"askVolume"`
	TradeCount   int         `json:"tradeCount"`
	TotalSamples uint64      `json:"totalSamples"`
}

// WSSubscribeRequest is sent by a client to manage channel subscriptions.
type WSSubscribeRequest struct {
	Op       string   `json:"op"`       // "subscribe" or "unsubscribe"
	Channels []string `json:"channels"` // e.g. ["ticker", "depth"]
}

// TickerUpdate is broadcast on the "ticker" channel every tick.
type TickerUpdate struct {
	Type      string      `json:"type"` // "ticker"
	Tick      uint64      `json:"tick"`
	Fair      float64     `json:"fair"`
	Bid       book.Sample `json:"bid"`
	Ask       book.Sample `json:"ask"`
	Mid       book.Sample `json:"mid"`
	Timestamp int64       `json:"timestamp"`
}

// DepthUpdate is broadcast on the "depth" channel every tick.
type DepthUpdate struct {
	Type      string      `json:"type"` // "depth"
	Bids      []LevelInfo `json:"bids"`
	Asks      []LevelInfo `json:"asks"`
	Timestamp int64       `json:"timestamp"`
}

// TradesUpdate is broadcast on the "trades" channel for every tick that
// executed at least one fill.
type TradesUpdate struct {
	Type      string      `json:"type"` // "trades"
	Trades    []TradeInfo `json:"trades"`
	Timestamp int64       `json:"timestamp"`
}

func toTradeInfos(trades []book.Trade) []TradeInfo {
	out := make([]TradeInfo, len(trades))
	for i, t := range trades {
		out[i] = TradeInfo{
			Side:      t.Taker.String(),
			Price:     t.Price,
			Qty:       t.Qty,
			Timestamp: t.At.UnixMilli(),
		}
	}
	return out
}

func toLevelInfos(levels []book.PriceLevel) []LevelInfo {
	out := make([]LevelInfo, len(levels))
	for i, l := range levels {
		out[i] = LevelInfo{Price: l.Price, Qty: l.Qty}
	}
	return out
}

// chartScale computes a padded axis range across every valid sample of the
// given series. A zero range substitutes a unit range so renderers never
// divide by zero.
func chartScale(seriesList ...[]book.Sample) ChartScale {
	var min, max float64
	seen := false
	for _, s := range seriesList {
		for _, v := range s {
			if !v.Valid {
				continue
			}
			if !seen || v.Price < min {
				min = v.Price
			}
			if !seen || v.Price > max {
				max = v.Price
			}
			seen = true
		}
	}
	if !seen {
		return ChartScale{Min: 0, Max: 1}
	}
	min *= 0.999
	max *= 1.001
	if max-min == 0 {
		max = min + 1
	}
	return ChartScale{Min: min, Max: max}
}
