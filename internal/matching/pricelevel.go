package matching

// PriceLevel is a FIFO queue of resting orders at one price, grounded on
// the teacher's internal/engine/orderbook.go PriceLevel (price + []*Order),
// generalized with an aggregate resting-quantity tally so BookSide doesn't
// need to re-walk the queue to answer "how much liquidity is here".
type PriceLevel struct {
	PriceLevel Price
	Orders     []*Order
	total      Quantity
}

func newPriceLevel(price Price) *PriceLevel {
	return &PriceLevel{PriceLevel: price}
}

// AddOrder appends o to the tail, preserving time priority.
func (l *PriceLevel) AddOrder(o *Order) {
	l.Orders = append(l.Orders, o)
	l.total += o.Remaining
}

// RemoveOrder locates o by id via linear scan (levels are expected short,
// see spec.md §9) and removes it, decrementing the aggregate by the
// order's current Remaining.
func (l *PriceLevel) RemoveOrder(id OrderID) error {
	for i, o := range l.Orders {
		if o.ID == id {
			l.total -= o.Remaining
			l.Orders = append(l.Orders[:i], l.Orders[i+1:]...)
			return nil
		}
	}
	return &OrderNotFoundError{OrderID: id}
}

// Front returns the head of the queue without removing it, or nil if empty.
func (l *PriceLevel) Front() *Order {
	if len(l.Orders) == 0 {
		return nil
	}
	return l.Orders[0]
}

// Empty reports whether the level holds no resting orders.
func (l *PriceLevel) Empty() bool {
	return len(l.Orders) == 0
}

// TotalQuantity returns the aggregate resting quantity T = Σ R.
func (l *PriceLevel) TotalQuantity() Quantity {
	return l.total
}

// recompute is used after a matching pass mutates orders' Remaining
// in-place without going through AddOrder/RemoveOrder (the matcher
// decrements Remaining directly during execution before orders are
// staged for removal).
func (l *PriceLevel) recompute() {
	var t Quantity
	for _, o := range l.Orders {
		t += o.Remaining
	}
	l.total = t
}
