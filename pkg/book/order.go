package book

import (
	"fmt"

	"github.com/google/uuid"
)

type Side int8

const (
	Buy  Side = 1
	Sell Side = -1
)

func (s Side) String() string {
	if s == Buy {
		return "BUY"
	}
	return "SELL"
}

// Order is one unit of trading intent. Qty and Age are mutated by the book
// during matching and expiry; everything else is fixed at creation. Market
// orders keep a reference price for display and queue placement, but it is
// ignored when a trade is priced.
type Order struct {
	ID     string
	Side   Side
	Price  float64
	Qty    int64
	Market bool
	Age    int // ticks left before expiry
}

func NewLimitOrder(side Side, price float64, qty int64, age int) *Order {
	return &Order{ID: uuid.NewString(), Side: side, Price: price, Qty: qty, Age: age}
}

func NewMarketOrder(side Side, refPrice float64, qty int64, age int) *Order {
	return &Order{ID: uuid.NewString(), Side: side, Price: refPrice, Qty: qty, Market: true, Age: age}
}

// Reduce decrements the remaining quantity. Reducing below zero is a matching
// bug, not an input error, so it fails loudly.
func (o *Order) Reduce(amount int64) {
	if amount < 0 || amount > o.Qty {
		panic(fmt.Sprintf("book: reduce %d on order %s with qty %d", amount, o.ID, o.Qty))
	}
	o.Qty -= amount
}

func (o *Order) Expired() bool { return o.Age <= 0 }

func (o *Order) String() string {
	kind := "LIMIT"
	if o.Market {
		kind = "MARKET"
	}
	return fmt.Sprintf("%s %s %d @ %.2f", kind, o.Side, o.Qty, o.Price)
}
