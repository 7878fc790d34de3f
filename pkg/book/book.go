package book

import (
	"container/heap"
	"fmt"
	"sync"
	"time"
)

// PriceLevel is the aggregate resting quantity at one exact price.
type PriceLevel struct {
	Price float64
	Qty   int64
}

// Book is a single-instrument order book. One mutex serializes every
// operation that touches the queues, the cached quotes, or the history
// series; the trade log has its own lock (see TradeLog). A driving goroutine
// runs the tick sequence Add -> Match -> UpdatePrices -> Expire while
// renderers call the read accessors concurrently.
type Book struct {
	mu sync.Mutex

	bids *orderQueue
	asks *orderQueue

	bestBid Sample
	bestAsk Sample
	mid     Sample

	bidHist series
	askHist series
	midHist series

	// totalSamples counts every UpdatePrices call ever made, independent of
	// what the bounded series still retain.
	totalSamples uint64

	trades *TradeLog
}

func New() *Book {
	b := &Book{
		bids:   newBidQueue(),
		asks:   newAskQueue(),
		trades: NewTradeLog(),
	}
	heap.Init(b.bids)
	heap.Init(b.asks)
	return b
}

// Add admits one order into its side's queue.
func (b *Book) Add(o *Order) {
	if o.Qty <= 0 {
		panic(fmt.Sprintf("book: add order %s with qty %d", o.ID, o.Qty))
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if o.Side == Buy {
		heap.Push(b.bids, o)
	} else {
		heap.Push(b.asks, o)
	}
}

// Match crosses the book until the tops of the two sides no longer overlap.
// Two market orders facing each other have no reference price, so that pair
// stays unmatched until a limit order arrives on either side. Because each
// queue's top is its most aggressive price, the first ineligible pair ends
// the whole pass.
func (b *Book) Match() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for b.bids.Len() > 0 && b.asks.Len() > 0 {
		buy := b.bids.Peek()
		sell := b.asks.Peek()

		if buy.Market && sell.Market {
			break
		}
		if !buy.Market && !sell.Market && buy.Price < sell.Price {
			break
		}

		qty := min64(buy.Qty, sell.Qty)
		price := tradePrice(buy, sell)

		b.trades.Record(Trade{Taker: Buy, Price: price, Qty: qty, At: time.Now()})

		buy.Reduce(qty)
		sell.Reduce(qty)

		if buy.Qty == 0 {
			heap.Pop(b.bids)
		}
		if sell.Qty == 0 {
			heap.Pop(b.asks)
		}
	}
}

// tradePrice picks the execution price: the limit side holds the price when a
// market order crosses; two limit orders trade at the sell's price.
func tradePrice(buy, sell *Order) float64 {
	if buy.Market && !sell.Market {
		return sell.Price
	}
	if !buy.Market && sell.Market {
		return buy.Price
	}
	return sell.Price
}

// Expire ages every resting order by one tick and drops the ones whose
// lifetime ran out. Each queue is filtered and re-heapified in one pass so
// removal can never skip entries mid-iteration.
func (b *Book) Expire() {
	b.mu.Lock()
	defer b.mu.Unlock()
	expireQueue(b.bids)
	expireQueue(b.asks)
}

func expireQueue(q *orderQueue) {
	orders := q.orders
	kept := orders[:0]
	for _, o := range orders {
		o.Age--
		if !o.Expired() {
			kept = append(kept, o)
		}
	}
	for i := len(kept); i < len(orders); i++ {
		orders[i] = nil
	}
	q.orders = kept
	heap.Init(q)
}

// UpdatePrices refreshes the cached best bid/ask/mid and appends one sample
// to each history series, valid or not. The sample counter advances on every
// call so the global index of the oldest retained sample stays recoverable.
func (b *Book) UpdatePrices() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.bestBid = topPrice(b.bids)
	b.bestAsk = topPrice(b.asks)
	if b.bestBid.Valid && b.bestAsk.Valid {
		b.mid = Sample{Price: (b.bestBid.Price + b.bestAsk.Price) / 2, Valid: true}
	} else {
		b.mid = Sample{}
	}

	b.bidHist.push(b.bestBid)
	b.askHist.push(b.bestAsk)
	b.midHist.push(b.mid)

	b.totalSamples++
}

func topPrice(q *orderQueue) Sample {
	if o := q.Peek(); o != nil {
		return Sample{Price: o.Price, Valid: true}
	}
	return Sample{}
}

// BestBid returns the last computed best bid, false when the side was empty.
func (b *Book) BestBid() (float64, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bestBid.Price, b.bestBid.Valid
}

// BestAsk returns the last computed best ask, false when the side was empty.
func (b *Book) BestAsk() (float64, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bestAsk.Price, b.bestAsk.Valid
}

// Mid returns the last computed mid price, false when either side was empty.
func (b *Book) Mid() (float64, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mid.Price, b.mid.Valid
}

func (b *Book) BidHistory() []Sample {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bidHist.snapshot()
}

func (b *Book) AskHistory() []Sample {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.askHist.snapshot()
}

func (b *Book) MidHistory() []Sample {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.midHist.snapshot()
}

// FirstSampleIndex returns the 1-based global index of the oldest sample the
// bounded series still retain.
func (b *Book) FirstSampleIndex() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.totalSamples - uint64(b.midHist.len()) + 1
}

// TotalSamples returns how many times UpdatePrices has ever run.
func (b *Book) TotalSamples() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.totalSamples
}

func (b *Book) BidCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bids.Len()
}

func (b *Book) AskCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.asks.Len()
}

// BidVolume returns the total resting quantity on the buy side.
func (b *Book) BidVolume() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return queueVolume(b.bids)
}

// AskVolume returns the total resting quantity on the sell side.
func (b *Book) AskVolume() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return queueVolume(b.asks)
}

func queueVolume(q *orderQueue) int64 {
	var total int64
	for _, o := range q.orders {
		total += o.Qty
	}
	return total
}

// Trades returns an immutable snapshot of the full trade log.
func (b *Book) Trades() []Trade { return b.trades.All() }

// RecentTrades returns up to n most recent trades, oldest first.
func (b *Book) RecentTrades(n int) []Trade { return b.trades.Recent(n) }

func (b *Book) TradeCount() int { return b.trades.Len() }

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
