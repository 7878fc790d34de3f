package sim

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"marketsim/pkg/book"
)

type recordingRenderer struct {
	frames []Frame
}

func (r *recordingRenderer) Notify(f Frame) { r.frames = append(r.frames, f) }

// fakeClock fires immediately for a fixed number of ticks, then cancels.
type fakeClock struct {
	remaining int
	cancel    context.CancelFunc
}

func (c *fakeClock) After(time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	if c.remaining > 0 {
		c.remaining--
		ch <- time.Time{}
	} else {
		c.cancel()
	}
	return ch
}

func (c *fakeClock) Now() time.Time { return time.Time{} }

func newTestEngine(r Renderer) *Engine {
	b := book.New()
	g := NewGenerator(DefaultGenConfig(), 100.0, 11)
	return NewEngine(b, g, r, time.Millisecond, zap.NewNop().Sugar())
}

func TestStepRunsFullTickSequence(t *testing.T) {
	rec := &recordingRenderer{}
	e := newTestEngine(rec)

	const ticks = 50
	for i := 0; i < ticks; i++ {
		e.Step()
	}

	// One price sample per tick, no more, no fewer.
	if got := e.Book.TotalSamples(); got != ticks {
		t.Errorf("total samples %d, want %d", got, ticks)
	}
	if len(rec.frames) != ticks {
		t.Fatalf("renderer saw %d frames, want %d", len(rec.frames), ticks)
	}
	for i, f := range rec.frames {
		if f.Tick != uint64(i+1) {
			t.Fatalf("frame %d has tick %d", i, f.Tick)
		}
	}

	// Frames reflect book state: level sums must match reported side volume
	// at notify time for the final frame (book is quiet afterwards).
	last := rec.frames[ticks-1]
	var fromLevels int64
	for _, l := range last.Bids {
		fromLevels += l.Qty
	}
	if got := e.Book.BidVolume(); got != fromLevels {
		t.Errorf("frame bid depth %d, book volume %d", fromLevels, got)
	}
}

func TestFramesCarryOnlyNewTrades(t *testing.T) {
	rec := &recordingRenderer{}
	e := newTestEngine(rec)

	const ticks = 200
	for i := 0; i < ticks; i++ {
		e.Step()
	}

	// Every fill the book recorded appears in exactly one frame, in order.
	var carried int
	for _, f := range rec.frames {
		for _, tr := range f.Trades {
			if tr.Qty <= 0 {
				t.Fatalf("frame %d carries trade with qty %d", f.Tick, tr.Qty)
			}
			carried++
		}
		if f.TradeCount != carried {
			t.Fatalf("frame %d reports %d total trades, carried %d", f.Tick, f.TradeCount, carried)
		}
	}
	if carried != e.Book.TradeCount() {
		t.Errorf("frames carried %d trades, book recorded %d", carried, e.Book.TradeCount())
	}
	if carried == 0 {
		t.Fatal("no trades executed in 200 ticks; seed no longer crosses the spread")
	}
}

func TestStepExpiresAfterMatching(t *testing.T) {
	e := newTestEngine(nil)

	// An order with one tick of life must survive the tick it arrives in
	// only if it rests, and be gone after its age runs out.
	e.Book.Add(book.NewLimitOrder(book.Buy, 1, 5, 1))
	before := e.Book.BidCount()
	if before != 1 {
		t.Fatal("seed order did not rest")
	}
	e.Step()
	// The bid at price 1 never matches (generator prices live near 100), and
	// its single tick of age is consumed by the step's expiry pass.
	for _, l := range e.Book.BidLevels() {
		if l.Price == 1 {
			t.Fatal("aged-out order still resting")
		}
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	rec := &recordingRenderer{}
	e := newTestEngine(rec)

	ctx, cancel := context.WithCancel(context.Background())
	e.Clock = &fakeClock{remaining: 10, cancel: cancel}

	done := make(chan struct{})
	go func() {
		e.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("engine did not stop after context cancel")
	}

	if e.Ticks() != 10 {
		t.Errorf("ran %d ticks, want 10", e.Ticks())
	}
	if len(rec.frames) != 10 {
		t.Errorf("renderer saw %d frames, want 10", len(rec.frames))
	}
}

func TestTicksIsSafeDuringRun(t *testing.T) {
	e := newTestEngine(nil)

	ctx, cancel := context.WithCancel(context.Background())
	e.Clock = &fakeClock{remaining: 100, cancel: cancel}

	// Poll the counter from another goroutine while the loop runs; the race
	// detector flags this if the tick counter is not synchronized.
	stop := make(chan struct{})
	var last uint64
	go func() {
		defer close(stop)
		for {
			n := e.Ticks()
			if n < last {
				t.Error("tick counter went backwards")
				return
			}
			last = n
			select {
			case <-ctx.Done():
				return
			default:
			}
		}
	}()

	e.Run(ctx)
	<-stop

	if e.Ticks() != 100 {
		t.Errorf("ran %d ticks, want 100", e.Ticks())
	}
}

func TestNilRendererDefaultsToNop(t *testing.T) {
	e := newTestEngine(nil)
	// Must not panic.
	e.Step()
	if e.Ticks() != 1 {
		t.Errorf("ticks %d, want 1", e.Ticks())
	}
}
