package book

// orderQueue is a price-priority heap of resting orders, highest priority at
// index 0. Bids order by descending price, asks by ascending price. Ties
// resolve arbitrarily: this book intentionally has no time priority.
// Use container/heap to manipulate it (Init, Push, Pop).
type orderQueue struct {
	orders []*Order
	less   func(a, b *Order) bool
}

func newBidQueue() *orderQueue {
	return &orderQueue{less: func(a, b *Order) bool { return a.Price > b.Price }}
}

func newAskQueue() *orderQueue {
	return &orderQueue{less: func(a, b *Order) bool { return a.Price < b.Price }}
}

func (q *orderQueue) Len() int           { return len(q.orders) }
func (q *orderQueue) Less(i, j int) bool { return q.less(q.orders[i], q.orders[j]) }
func (q *orderQueue) Swap(i, j int)      { q.orders[i], q.orders[j] = q.orders[j], q.orders[i] }

func (q *orderQueue) Push(x interface{}) {
	q.orders = append(q.orders, x.(*Order))
}

func (q *orderQueue) Pop() interface{} {
	old := q.orders
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	q.orders = old[:n-1]
	return x
}

// Peek returns the highest-priority order without removing it, nil when empty.
func (q *orderQueue) Peek() *Order {
	if len(q.orders) == 0 {
		return nil
	}
	return q.orders[0]
}
