package book

import (
	"sync"
	"time"
)

// Trade is an immutable record of one match. Taker carries the buy-side
// display convention used by the price panels.
type Trade struct {
	Taker Side
	Price float64
	Qty   int64
	At    time.Time
}

// TradeLog is an append-only trade history. It carries its own lock so
// renderers can read it without contending on the book's mutex while a
// matching pass appends.
type TradeLog struct {
	mu     sync.Mutex
	trades []Trade
}

func NewTradeLog() *TradeLog { return &TradeLog{} }

func (l *TradeLog) Record(t Trade) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.trades = append(l.trades, t)
}

// All returns a copy of the full log, oldest first.
func (l *TradeLog) All() []Trade {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Trade, len(l.trades))
	copy(out, l.trades)
	return out
}

// Recent returns a copy of up to n most recent trades, oldest first.
func (l *TradeLog) Recent(n int) []Trade {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n < 0 {
		n = 0
	}
	if n > len(l.trades) {
		n = len(l.trades)
	}
	out := make([]Trade, n)
	copy(out, l.trades[len(l.trades)-n:])
	return out
}

func (l *TradeLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.trades)
}

func (l *TradeLog) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.trades = nil
}
