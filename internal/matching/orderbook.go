package matching

// restingRef records where a currently-resting order lives so OrderBook
// can remove it in O(level lookup) without scanning both sides.
type restingRef struct {
	order *Order
	price Price
}

// OrderBook is the per-instrument composition of a bid side, an ask side,
// and an id index covering only currently-resting orders. MARKET orders
// never appear here.
type OrderBook struct {
	Instrument string
	Bids       *BookSide
	Asks       *BookSide
	index      map[OrderID]restingRef
}

// NewOrderBook constructs an empty book for one instrument.
func NewOrderBook(instrument string) *OrderBook {
	return &OrderBook{
		Instrument: instrument,
		Bids:       NewBookSide(Buy),
		Asks:       NewBookSide(Sell),
		index:      make(map[OrderID]restingRef),
	}
}

// sideFor returns the BookSide an order of Side s rests on.
func (b *OrderBook) sideFor(s Side) *BookSide {
	if s == Buy {
		return b.Bids
	}
	return b.Asks
}

// AddOrder records (o, o.Price) in the id index and rests o on the
// appropriate side. No-op for MARKET orders.
func (b *OrderBook) AddOrder(o *Order) {
	if o.Type == Market {
		return
	}
	b.sideFor(o.Side).AddOrder(o)
	b.index[o.ID] = restingRef{order: o, price: o.Price}
}

// RemoveOrder removes a resting order from its side and the id index.
func (b *OrderBook) RemoveOrder(id OrderID) error {
	ref, ok := b.index[id]
	if !ok {
		return &OrderNotFoundError{OrderID: id}
	}
	if err := b.sideFor(ref.order.Side).RemoveOrder(id, ref.price); err != nil {
		return err
	}
	delete(b.index, id)
	return nil
}

// FindOrder returns the resting order for id, or nil if it is not
// currently resting.
func (b *OrderBook) FindOrder(id OrderID) *Order {
	ref, ok := b.index[id]
	if !ok {
		return nil
	}
	return ref.order
}

// IsResting reports whether id currently rests in this book.
func (b *OrderBook) IsResting(id OrderID) bool {
	_, ok := b.index[id]
	return ok
}
