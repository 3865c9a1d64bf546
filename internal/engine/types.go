// Package engine dispatches order actions against per-instrument order
// books, derives the lifecycle event stream, and fans actions out across
// instruments.
package engine

import "github.com/saiputravu/matchengine/internal/matching"

// Action identifies which order-lifecycle operation a submitted tuple
// requests.
type Action int

const (
	NewAction Action = iota
	ModifyAction
	CancelAction
)

func (a Action) String() string {
	switch a {
	case NewAction:
		return "NEW"
	case ModifyAction:
		return "MODIFY"
	case CancelAction:
		return "CANCEL"
	default:
		return "UNKNOWN"
	}
}

// OrderAction is one (ts, id, instrument, side, type, qty, price, action)
// tuple as described in spec.md §4.6 — the engine's unit of work.
type OrderAction struct {
	Timestamp  matching.Timestamp
	OrderID    matching.OrderID
	Instrument string
	Side       matching.Side
	Type       matching.OrderType
	Quantity   matching.Quantity
	Price      matching.Price
	Action     Action

	// sequence is stamped in by InstrumentManager.Submit and carried
	// through to every Event this action produces, breaking
	// ActionTimestamp ties deterministically when logs from different
	// instruments are merged (spec.md §4.7, §9 Open Question 1).
	sequence uint64
}
