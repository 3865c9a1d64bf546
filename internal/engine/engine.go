package engine

import (
	"github.com/rs/zerolog"

	"github.com/saiputravu/matchengine/internal/matching"
)

// Engine is the per-instrument facade named in spec.md §4.6: it owns one
// order book, an append-only event log, and an order history that outlives
// any single order's residence in the book.
//
// Generalizes the teacher's internal/engine/engine.go Engine (which held a
// map of books and a stubbed Trade() hook) down to a single book per Engine
// — instrument fan-out is InstrumentManager's job (spec.md §4.7).
type Engine struct {
	instrument string
	book       *matching.OrderBook
	history    map[matching.OrderID]*matching.Order
	events     []Event
	log        zerolog.Logger

	// currentSeq is the submission sequence of the action currently being
	// processed; emit stamps it onto every Event it appends so
	// InstrumentManager.AllEvents can break ActionTimestamp ties.
	currentSeq uint64
}

// New constructs an Engine for one instrument. A zero-value log is fine
// (zerolog.Logger{} silently discards), matching the teacher's convention
// of taking a *configured* logger rather than reaching for a global one
// inside library code.
func New(instrument string, log zerolog.Logger) *Engine {
	return &Engine{
		instrument: instrument,
		book:       matching.NewOrderBook(instrument),
		history:    make(map[matching.OrderID]*matching.Order),
		log:        log,
	}
}

// Instrument returns the instrument this Engine is scoped to.
func (e *Engine) Instrument() string { return e.instrument }

// Events returns the append-only event log produced so far. Callers must
// not mutate the returned slice.
func (e *Engine) Events() []Event { return e.events }

// Book exposes the underlying order book, primarily for tests and
// introspection tooling.
func (e *Engine) Book() *matching.OrderBook { return e.book }

// PruneTerminal removes history entries for orders that are terminal
// (EXECUTED, CANCELED, REJECTED) and whose timestamp predates before. This
// is the optional garbage-collection hook spec.md §5 permits; it is never
// called automatically, the default policy is retention.
func (e *Engine) PruneTerminal(before matching.Timestamp) {
	for id, o := range e.history {
		if !o.IsActive() && o.Timestamp < before {
			delete(e.history, id)
		}
	}
}

// Process dispatches one OrderAction tuple, matching spec.md §4.6.
func (e *Engine) Process(action OrderAction) error {
	e.currentSeq = action.sequence

	var err error
	switch action.Action {
	case NewAction:
		err = e.processNew(action)
	case ModifyAction:
		err = e.processModify(action)
	case CancelAction:
		err = e.processCancel(action)
	}
	if err != nil {
		e.log.Error().
			Err(err).
			Str("instrument", e.instrument).
			Uint64("orderId", uint64(action.OrderID)).
			Str("action", action.Action.String()).
			Msg("order action rejected")
	}
	return err
}

func (e *Engine) processNew(a OrderAction) error {
	order, err := matching.NewOrder(a.Timestamp, a.OrderID, a.Instrument, a.Side, a.Type, a.Quantity, a.Price)
	if err != nil {
		return err
	}
	e.history[order.ID] = order

	trades := matching.Match(order, e.book)
	e.emitNewOrModifyEvents(order, trades, NewAction)
	return nil
}

func (e *Engine) processModify(a OrderAction) error {
	existing, seen := e.history[a.OrderID]
	if seen && existing.Type == matching.Market {
		return &matching.InvalidOrderError{OrderID: a.OrderID, Reason: "cannot modify a MARKET order"}
	}

	order := e.book.FindOrder(a.OrderID)
	if order == nil {
		return &matching.OrderNotFoundError{OrderID: a.OrderID}
	}

	// Validate the incoming quantity/price before touching the book: a
	// MODIFY that fails validation must have no observable side effect
	// (spec.md §7), so the order must not be pulled from the book on a
	// path that ends up returning an error.
	if a.Quantity == 0 {
		return &matching.InvalidOrderError{OrderID: a.OrderID, Reason: "quantity must be positive"}
	}
	if order.Type == matching.Limit && a.Price <= 0 {
		return &matching.InvalidOrderError{OrderID: a.OrderID, Reason: "limit price must be positive"}
	}

	// Removing from the book forfeits time priority: this is intentional
	// (spec.md §4.6, "Modify loses priority" law in §8). Safe now that the
	// new quantity/price are known valid, so this path cannot fail partway.
	if err := e.book.RemoveOrder(a.OrderID); err != nil {
		return err
	}
	_ = order.UpdateQuantity(a.Quantity)
	_ = order.UpdatePrice(a.Price)
	order.Timestamp = a.Timestamp

	trades := matching.Match(order, e.book)
	e.emitNewOrModifyEvents(order, trades, ModifyAction)
	return nil
}

func (e *Engine) processCancel(a OrderAction) error {
	order := e.book.FindOrder(a.OrderID)
	if order == nil {
		order = e.history[a.OrderID]
	}
	if order == nil {
		return &matching.OrderNotFoundError{OrderID: a.OrderID}
	}

	if order.IsActive() {
		_ = order.Cancel()
		_ = e.book.RemoveOrder(order.ID) // no-op if already not resting
	}

	e.emit(Event{
		ActionTimestamp: a.Timestamp,
		OrderID:         order.ID,
		Instrument:      e.instrument,
		Side:            order.Side,
		Type:            order.Type,
		Action:          CancelAction,
		Status:          matching.Canceled,
		DisplayQty:      0,
		Price:           0,
	})
	return nil
}

// emitNewOrModifyEvents implements the NEW/MODIFY event derivation shared
// by spec.md §4.6: a pending/status event when nothing crossed, two events
// per trade (maker leg then taker leg — see the note below), and the
// MARKET residual-cancellation event. selfAction is the Action recorded
// against the order being processed (NEW for processNew, MODIFY for
// processModify); every counterparty event always carries NewAction, per
// spec.md §4.6.
func (e *Engine) emitNewOrModifyEvents(order *matching.Order, trades []matching.Trade, selfAction Action) {
	if len(trades) == 0 {
		if order.IsActive() {
			e.emit(Event{
				ActionTimestamp: order.Timestamp,
				OrderID:         order.ID,
				Instrument:      e.instrument,
				Side:            order.Side,
				Type:            order.Type,
				Action:          selfAction,
				Status:          order.Status,
				DisplayQty:      order.Remaining,
				Price:           order.Price,
			})
		}
	}

	for _, t := range trades {
		sellOrder := e.orderFor(t.SellID, order)
		buyOrder := e.orderFor(t.BuyID, order)

		selfOrder, counterpartyOrder := sellOrder, buyOrder
		if buyOrder.ID == order.ID {
			selfOrder, counterpartyOrder = buyOrder, sellOrder
		}

		// The resting (maker) leg is always reported before the
		// incoming (taker) leg — see DESIGN.md for why this reading,
		// rather than a fixed sell-then-buy order, is what the
		// worked examples in spec.md §8 actually require.
		e.emit(e.tradeEvent(counterpartyOrder, t, NewAction))
		e.emit(e.tradeEvent(selfOrder, t, selfAction))
	}

	if order.Type == matching.Market && order.Status == matching.Canceled {
		e.emit(Event{
			ActionTimestamp: order.Timestamp,
			OrderID:         order.ID,
			Instrument:      e.instrument,
			Side:            order.Side,
			Type:            order.Type,
			Action:          selfAction,
			Status:          matching.Canceled,
			DisplayQty:      0,
			Price:           0,
			ExecutedQty:     0,
			ExecutionPrice:  0,
			CounterpartyID:  0,
		})
	}
}

// tradeEvent builds the per-side event for one trade leg.
func (e *Engine) tradeEvent(o *matching.Order, t matching.Trade, action Action) Event {
	status := matching.PartiallyExecuted
	if o.Remaining == 0 {
		status = matching.Executed
	}
	counterparty := t.SellID
	if o.ID == t.SellID {
		counterparty = t.BuyID
	}
	return Event{
		ActionTimestamp: t.Timestamp,
		OrderID:         o.ID,
		Instrument:      e.instrument,
		Side:            o.Side,
		Type:            o.Type,
		Action:          action,
		Status:          status,
		DisplayQty:      o.Remaining,
		Price:           o.Price,
		ExecutedQty:     t.Quantity,
		ExecutionPrice:  t.Price,
		CounterpartyID:  counterparty,
	}
}

// orderFor resolves an order id to its *Order: self if it matches,
// otherwise the counterparty looked up from history (it is guaranteed to
// exist there — it was either already resting or created by an earlier
// NEW in this run).
func (e *Engine) orderFor(id matching.OrderID, self *matching.Order) *matching.Order {
	if self.ID == id {
		return self
	}
	return e.history[id]
}

func (e *Engine) emit(ev Event) {
	ev.sequence = e.currentSeq
	e.events = append(e.events, ev)
}
