package engine

import "github.com/saiputravu/matchengine/internal/matching"

// Event is an immutable record of one order lifecycle transition, derived
// by the Engine at atomic match granularity (spec.md §1, §4.6).
type Event struct {
	ActionTimestamp matching.Timestamp
	OrderID         matching.OrderID
	Instrument      string
	Side            matching.Side
	Type            matching.OrderType
	Action          Action
	Status          matching.OrderStatus
	DisplayQty      matching.Quantity
	Price           matching.Price
	ExecutedQty     matching.Quantity
	ExecutionPrice  matching.Price
	CounterpartyID  matching.OrderID

	// sequence is the InstrumentManager-assigned submission order, used
	// to break actionTimestamp ties deterministically on merge
	// (spec.md §4.7, §9 Open Question 1). Copied from the OrderAction
	// that produced the event; it is zero when an Engine is driven
	// directly rather than through InstrumentManager.Submit.
	sequence uint64
}
