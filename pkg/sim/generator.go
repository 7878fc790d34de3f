package sim

import (
	"math"
	"math/rand"

	"marketsim/pkg/book"
)

// Quotes is the read surface the generator needs from the book.
type Quotes interface {
	BestBid() (float64, bool)
	BestAsk() (float64, bool)
}

// GenConfig tunes the stochastic order flow.
type GenConfig struct {
	MarketOrderProb float64 // fraction of orders submitted as market orders
	LargeOrderProb  float64 // fraction of orders drawn from the large size band
	SpreadWidth     float64 // limit prices land within fair +- SpreadWidth
	DriftStdDev     float64 // sigma of the per-tick fair price random walk

	SmallQtyMin, SmallQtyMax int64
	LargeQtyMin, LargeQtyMax int64
	AgeMin, AgeMax           int
}

func DefaultGenConfig() GenConfig {
	return GenConfig{
		MarketOrderProb: 0.15,
		LargeOrderProb:  0.05,
		SpreadWidth:     10.0,
		DriftStdDev:     0.5,
		SmallQtyMin:     1,
		SmallQtyMax:     100,
		LargeQtyMin:     500,
		LargeQtyMax:     1000,
		AgeMin:          10,
		AgeMax:          100,
	}
}

// Generator produces synthetic order flow around a drifting fair price.
// Not safe for concurrent use; the engine owns it.
type Generator struct {
	cfg  GenConfig
	fair float64
	rng  *rand.Rand
}

func NewGenerator(cfg GenConfig, initialFair float64, seed int64) *Generator {
	return &Generator{cfg: cfg, fair: initialFair, rng: rand.New(rand.NewSource(seed))}
}

func (g *Generator) FairPrice() float64 { return g.fair }

// Drift moves the fair price one gaussian step.
func (g *Generator) Drift() {
	g.fair += g.rng.NormFloat64() * g.cfg.DriftStdDev
}

// Next builds one random order. Market orders pin their reference price to
// the opposite best quote so they sort to the front of their queue; with no
// quote on that side the fair price stands in. Limit prices land inside the
// configured spread band around fair, rounded to cents.
func (g *Generator) Next(q Quotes) *book.Order {
	side := book.Sell
	if g.rng.Intn(2) == 0 {
		side = book.Buy
	}
	isMarket := g.rng.Float64() <= g.cfg.MarketOrderProb

	var price float64
	if isMarket {
		if side == book.Buy {
			if ask, ok := q.BestAsk(); ok {
				price = ask
			} else {
				price = g.fair
			}
		} else {
			if bid, ok := q.BestBid(); ok {
				price = bid
			} else {
				price = g.fair
			}
		}
	} else {
		offset := g.rng.Float64() * g.cfg.SpreadWidth
		if side == book.Buy {
			price = g.fair - offset
		} else {
			price = g.fair + offset
		}
	}

	var qty int64
	if g.rng.Float64() < g.cfg.LargeOrderProb {
		qty = g.cfg.LargeQtyMin + g.rng.Int63n(g.cfg.LargeQtyMax-g.cfg.LargeQtyMin)
	} else {
		qty = g.cfg.SmallQtyMin + g.rng.Int63n(g.cfg.SmallQtyMax-g.cfg.SmallQtyMin)
	}

	age := g.cfg.AgeMin + g.rng.Intn(g.cfg.AgeMax-g.cfg.AgeMin)

	price = roundCents(price)
	if isMarket {
		return book.NewMarketOrder(side, price, qty, age)
	}
	return book.NewLimitOrder(side, price, qty, age)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
