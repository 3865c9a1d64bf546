package matching

// Order is the per-order state carried through its entire lifecycle: the
// book's price levels, the id index, and the engine's order history all
// reference the same *Order — there are no divergent copies.
//
// Invariant: Quantity == Remaining + Executed, except after UpdateQuantity
// clamps a new quantity below Executed, which leaves Remaining at 0 and
// Quantity < Executed.
type Order struct {
	Timestamp      Timestamp
	ID             OrderID
	Instrument     string
	Side           Side
	Type           OrderType
	Quantity       Quantity // Q: original quantity
	Remaining      Quantity // R: unexecuted quantity
	Executed       Quantity // E: executed quantity
	Price          Price    // P: limit price, 0 for MARKET
	ExecutionPrice Price    // last execution price
	CounterpartyID OrderID  // last counterparty
	Status         OrderStatus
}

// NewOrder validates and constructs an Order. A MARKET order's supplied
// price is discarded and stored as 0; a LIMIT order requires price > 0.
func NewOrder(ts Timestamp, id OrderID, instrument string, side Side, typ OrderType, qty Quantity, price Price) (*Order, error) {
	if id == 0 {
		return nil, &InvalidOrderError{OrderID: id, Reason: "order id must be non-zero"}
	}
	if instrument == "" {
		return nil, &InvalidOrderError{OrderID: id, Reason: "instrument must not be empty"}
	}
	if qty == 0 {
		return nil, &InvalidOrderError{OrderID: id, Reason: "quantity must be positive"}
	}
	if typ == Market {
		price = 0
	} else if price <= 0 {
		return nil, &InvalidOrderError{OrderID: id, Reason: "limit price must be positive"}
	}

	return &Order{
		Timestamp:  ts,
		ID:         id,
		Instrument: instrument,
		Side:       side,
		Type:       typ,
		Quantity:   qty,
		Remaining:  qty,
		Price:      price,
		Status:     Pending,
	}, nil
}

// IsActive reports whether the order can still rest or receive fills.
func (o *Order) IsActive() bool {
	return o.Status == Pending || o.Status == PartiallyExecuted
}

// UpdateQuantity sets a new original quantity, recomputing Remaining. A new
// quantity at or below what is already Executed clamps Remaining to zero
// and marks the order EXECUTED, rather than going negative (spec's
// resolution of the update_quantity ambiguity).
func (o *Order) UpdateQuantity(q Quantity) error {
	if q == 0 {
		return &InvalidOrderError{OrderID: o.ID, Reason: "quantity must be positive"}
	}
	o.Quantity = q
	if q <= o.Executed {
		o.Remaining = 0
		o.Status = Executed
		return nil
	}
	o.Remaining = q - o.Executed
	return nil
}

// UpdatePrice sets a new limit price. No-op for MARKET orders.
func (o *Order) UpdatePrice(p Price) error {
	if o.Type == Market {
		return nil
	}
	if p <= 0 {
		return &InvalidOrderError{OrderID: o.ID, Reason: "limit price must be positive"}
	}
	o.Price = p
	return nil
}

// Execute records a fill of q at price p against counterparty cp. Requires
// q <= Remaining.
func (o *Order) Execute(q Quantity, p Price, cp OrderID) error {
	if q > o.Remaining {
		return &InvalidOrderError{OrderID: o.ID, Reason: "execution quantity exceeds remaining"}
	}
	o.Executed += q
	o.Remaining -= q
	o.ExecutionPrice = p
	o.CounterpartyID = cp
	if o.Remaining == 0 {
		o.Status = Executed
	} else {
		o.Status = PartiallyExecuted
	}
	return nil
}

// Cancel marks the order CANCELED. Rejects an already-EXECUTED order;
// canceling a PARTIALLY_EXECUTED order preserves Executed.
func (o *Order) Cancel() error {
	if o.Status == Executed {
		return &InvalidOrderError{OrderID: o.ID, Reason: "cannot cancel a fully executed order"}
	}
	o.Status = Canceled
	return nil
}
