package sim

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"marketsim/pkg/book"
	"marketsim/pkg/util"
)

// Frame is the per-tick snapshot handed to the renderer. Every slice in it is
// a defensive copy; the renderer may hold on to it.
type Frame struct {
	Tick      uint64
	FairPrice float64

	Bid book.Sample
	Ask book.Sample
	Mid book.Sample

	Bids []book.PriceLevel
	Asks []book.PriceLevel

	// Trades holds the fills executed during this tick, oldest first.
	Trades []book.Trade

	TradeCount int
}

// Renderer receives one frame per engine tick. Notify is called from the tick
// goroutine and must not block it.
type Renderer interface {
	Notify(Frame)
}

// NopRenderer discards frames.
type NopRenderer struct{}

func (NopRenderer) Notify(Frame) {}

// Engine drives the simulation on a fixed interval. Each tick it drifts the
// fair price, feeds one generated order through the book, matches, refreshes
// quotes, expires stale orders, and notifies the renderer.
type Engine struct {
	Book     *book.Book
	Gen      *Generator
	Renderer Renderer
	Interval time.Duration
	Clock    util.Clock
	Log      *zap.SugaredLogger

	tick       atomic.Uint64
	seenTrades int
}

func NewEngine(b *book.Book, g *Generator, r Renderer, interval time.Duration, logger *zap.SugaredLogger) *Engine {
	if r == nil {
		r = NopRenderer{}
	}
	return &Engine{
		Book:     b,
		Gen:      g,
		Renderer: r,
		Interval: interval,
		Clock:    util.RealClock{},
		Log:      logger,
	}
}

// Run ticks until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) {
	e.Log.Infow("engine_started", "interval_ms", e.Interval.Milliseconds())
	for {
		select {
		case <-ctx.Done():
			e.Log.Infow("engine_stopped", "ticks", e.tick.Load())
			return
		case <-e.Clock.After(e.Interval):
			e.Step()
		}
	}
}

// Step runs one tick of the simulation sequence.
func (e *Engine) Step() {
	e.Gen.Drift()
	order := e.Gen.Next(e.Book)

	e.Book.Add(order)
	e.Book.Match()
	e.Book.UpdatePrices()
	e.Book.Expire()

	tick := e.tick.Add(1)
	e.Renderer.Notify(e.frame(tick))

	if tick%100 == 0 {
		bid, _ := e.Book.BestBid()
		ask, _ := e.Book.BestAsk()
		e.Log.Infow("tick",
			"n", tick,
			"fair", e.Gen.FairPrice(),
			"bid", bid,
			"ask", ask,
			"bids", e.Book.BidCount(),
			"asks", e.Book.AskCount(),
			"trades", e.Book.TradeCount(),
		)
	}
}

// Ticks returns how many ticks have run. Safe to call from any goroutine.
func (e *Engine) Ticks() uint64 { return e.tick.Load() }

func (e *Engine) frame(tick uint64) Frame {
	bid, bidOK := e.Book.BestBid()
	ask, askOK := e.Book.BestAsk()
	mid, midOK := e.Book.Mid()

	// Fills since the previous frame; seenTrades is only touched from the
	// tick goroutine.
	count := e.Book.TradeCount()
	var fills []book.Trade
	if count > e.seenTrades {
		fills = e.Book.RecentTrades(count - e.seenTrades)
		e.seenTrades = count
	}

	return Frame{
		Tick:       tick,
		FairPrice:  e.Gen.FairPrice(),
		Bid:        book.Sample{Price: bid, Valid: bidOK},
		Ask:        book.Sample{Price: ask, Valid: askOK},
		Mid:        book.Sample{Price: mid, Valid: midOK},
		Bids:       e.Book.BidLevels(),
		Asks:       e.Book.AskLevels(),
		Trades:     fills,
		TradeCount: count,
	}
}
