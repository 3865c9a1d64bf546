package engine

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saiputravu/matchengine/internal/matching"
)

func newTestEngine() *Engine {
	return New("AAPL", zerolog.Nop())
}

func TestEngine_NewRestingLimitEmitsPendingEvent(t *testing.T) {
	e := newTestEngine()
	require.NoError(t, e.Process(OrderAction{
		Timestamp: 1000, OrderID: 1, Instrument: "AAPL",
		Side: matching.Buy, Type: matching.Limit, Quantity: 100, Price: 150.00,
		Action: NewAction,
	}))

	events := e.Events()
	require.Len(t, events, 1)
	assert.Equal(t, matching.OrderID(1), events[0].OrderID)
	assert.Equal(t, NewAction, events[0].Action)
	assert.Equal(t, matching.Pending, events[0].Status)
	assert.Equal(t, matching.Quantity(100), events[0].DisplayQty)
}

// TestEngine_IncomingSellCrossesRestingBuy reproduces spec.md §8 scenario
// S2: the resting (maker) order's event is reported before the incoming
// (taker) order's event, even though the incoming order is the SELL leg.
func TestEngine_IncomingSellCrossesRestingBuy(t *testing.T) {
	e := newTestEngine()
	require.NoError(t, e.Process(OrderAction{
		Timestamp: 1000, OrderID: 1, Instrument: "AAPL",
		Side: matching.Buy, Type: matching.Limit, Quantity: 100, Price: 150.00,
		Action: NewAction,
	}))
	require.NoError(t, e.Process(OrderAction{
		Timestamp: 2000, OrderID: 2, Instrument: "AAPL",
		Side: matching.Sell, Type: matching.Limit, Quantity: 100, Price: 150.00,
		Action: NewAction,
	}))

	events := e.Events()
	require.Len(t, events, 3) // seed PENDING + 2 trade legs

	maker, taker := events[1], events[2]
	assert.Equal(t, matching.OrderID(1), maker.OrderID, "maker (order 1, resting) reports first")
	assert.Equal(t, matching.Executed, maker.Status)
	assert.Equal(t, matching.OrderID(2), maker.CounterpartyID)

	assert.Equal(t, matching.OrderID(2), taker.OrderID, "taker (order 2, incoming) reports second")
	assert.Equal(t, matching.Executed, taker.Status)
	assert.Equal(t, matching.OrderID(1), taker.CounterpartyID)
}

// TestEngine_IncomingMarketBuySweepsAndCancelsResidual reproduces spec.md
// §8 scenario S3: a MARKET order partially fills against a resting SELL
// and its residual is canceled, again with the maker's event first.
func TestEngine_IncomingMarketBuySweepsAndCancelsResidual(t *testing.T) {
	e := newTestEngine()
	require.NoError(t, e.Process(OrderAction{
		Timestamp: 1000, OrderID: 1, Instrument: "AAPL",
		Side: matching.Sell, Type: matching.Limit, Quantity: 100, Price: 150.00,
		Action: NewAction,
	}))
	require.NoError(t, e.Process(OrderAction{
		Timestamp: 2000, OrderID: 2, Instrument: "AAPL",
		Side: matching.Buy, Type: matching.Market, Quantity: 200,
		Action: NewAction,
	}))

	events := e.Events()
	require.Len(t, events, 4) // seed PENDING + 2 trade legs + residual CANCELED

	maker, taker, residual := events[1], events[2], events[3]
	assert.Equal(t, matching.OrderID(1), maker.OrderID)
	assert.Equal(t, matching.Executed, maker.Status)
	assert.Equal(t, matching.Quantity(0), maker.DisplayQty)
	assert.Equal(t, matching.Price(150.00), maker.Price)

	assert.Equal(t, matching.OrderID(2), taker.OrderID)
	assert.Equal(t, matching.PartiallyExecuted, taker.Status)
	assert.Equal(t, matching.Quantity(100), taker.DisplayQty)
	assert.Equal(t, matching.Price(0), taker.Price, "MARKET orders never carry a limit price")

	assert.Equal(t, matching.OrderID(2), residual.OrderID)
	assert.Equal(t, NewAction, residual.Action)
	assert.Equal(t, matching.Canceled, residual.Status)
	assert.Equal(t, matching.Quantity(0), residual.DisplayQty)
	assert.Equal(t, matching.OrderID(0), residual.CounterpartyID)
}

func TestEngine_ModifyLosesTimePriority(t *testing.T) {
	e := newTestEngine()
	require.NoError(t, e.Process(OrderAction{Timestamp: 1000, OrderID: 1, Instrument: "AAPL", Side: matching.Sell, Type: matching.Limit, Quantity: 100, Price: 150.00, Action: NewAction}))
	require.NoError(t, e.Process(OrderAction{Timestamp: 1001, OrderID: 2, Instrument: "AAPL", Side: matching.Sell, Type: matching.Limit, Quantity: 100, Price: 150.00, Action: NewAction}))

	// Re-quote order 1 at the same price: it must now stand behind order 2.
	require.NoError(t, e.Process(OrderAction{Timestamp: 1500, OrderID: 1, Instrument: "AAPL", Side: matching.Sell, Type: matching.Limit, Quantity: 100, Price: 150.00, Action: ModifyAction}))

	require.NoError(t, e.Process(OrderAction{Timestamp: 2000, OrderID: 3, Instrument: "AAPL", Side: matching.Buy, Type: matching.Limit, Quantity: 50, Price: 150.00, Action: NewAction}))

	events := e.Events()
	last := events[len(events)-1]
	assert.Equal(t, matching.OrderID(2), last.CounterpartyID, "order 2 now has priority over the re-quoted order 1")
}

func TestEngine_ModifyUnknownMarketOrderIsInvalid(t *testing.T) {
	e := newTestEngine()
	require.NoError(t, e.Process(OrderAction{Timestamp: 1000, OrderID: 1, Instrument: "AAPL", Side: matching.Buy, Type: matching.Market, Quantity: 100, Action: NewAction}))

	err := e.Process(OrderAction{Timestamp: 1001, OrderID: 1, Instrument: "AAPL", Side: matching.Buy, Type: matching.Limit, Quantity: 50, Price: 10, Action: ModifyAction})
	var invalid *matching.InvalidOrderError
	assert.ErrorAs(t, err, &invalid)
}

func TestEngine_ModifyUnknownOrderIsNotFound(t *testing.T) {
	e := newTestEngine()
	err := e.Process(OrderAction{Timestamp: 1000, OrderID: 99, Instrument: "AAPL", Side: matching.Buy, Type: matching.Limit, Quantity: 10, Price: 10, Action: ModifyAction})
	var notFound *matching.OrderNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

// TestEngine_ModifyRejectedQuantityLeavesOrderRestingInBook reproduces
// spec.md §7's "an action that failed validation must have no observable
// side effect": a MODIFY with a zero quantity must reject without pulling
// the order out of the book.
func TestEngine_ModifyRejectedQuantityLeavesOrderRestingInBook(t *testing.T) {
	e := newTestEngine()
	require.NoError(t, e.Process(OrderAction{Timestamp: 1000, OrderID: 1, Instrument: "AAPL", Side: matching.Buy, Type: matching.Limit, Quantity: 10, Price: 100, Action: NewAction}))

	err := e.Process(OrderAction{Timestamp: 1001, OrderID: 1, Instrument: "AAPL", Side: matching.Buy, Type: matching.Limit, Quantity: 0, Price: 100, Action: ModifyAction})
	var invalid *matching.InvalidOrderError
	require.ErrorAs(t, err, &invalid)

	assert.True(t, e.Book().IsResting(1), "order must remain resting after a rejected MODIFY")
	resting := e.Book().FindOrder(1)
	require.NotNil(t, resting)
	assert.Equal(t, matching.Quantity(10), resting.Remaining)
}

// TestEngine_ModifyRejectedPriceLeavesOrderRestingInBook is the same
// invariant for a non-positive LIMIT price.
func TestEngine_ModifyRejectedPriceLeavesOrderRestingInBook(t *testing.T) {
	e := newTestEngine()
	require.NoError(t, e.Process(OrderAction{Timestamp: 1000, OrderID: 1, Instrument: "AAPL", Side: matching.Buy, Type: matching.Limit, Quantity: 10, Price: 100, Action: NewAction}))

	err := e.Process(OrderAction{Timestamp: 1001, OrderID: 1, Instrument: "AAPL", Side: matching.Buy, Type: matching.Limit, Quantity: 10, Price: 0, Action: ModifyAction})
	var invalid *matching.InvalidOrderError
	require.ErrorAs(t, err, &invalid)

	assert.True(t, e.Book().IsResting(1), "order must remain resting after a rejected MODIFY")
}

func TestEngine_CancelRestingOrder(t *testing.T) {
	e := newTestEngine()
	require.NoError(t, e.Process(OrderAction{Timestamp: 1000, OrderID: 1, Instrument: "AAPL", Side: matching.Buy, Type: matching.Limit, Quantity: 10, Price: 10, Action: NewAction}))
	require.NoError(t, e.Process(OrderAction{Timestamp: 1001, OrderID: 1, Instrument: "AAPL", Action: CancelAction}))

	events := e.Events()
	last := events[len(events)-1]
	assert.Equal(t, CancelAction, last.Action)
	assert.Equal(t, matching.Canceled, last.Status)
	assert.False(t, e.Book().IsResting(1))
}

func TestEngine_CancelUnknownOrderIsNotFound(t *testing.T) {
	e := newTestEngine()
	err := e.Process(OrderAction{Timestamp: 1000, OrderID: 1, Instrument: "AAPL", Action: CancelAction})
	var notFound *matching.OrderNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestEngine_PruneTerminalRemovesOldFinishedOrders(t *testing.T) {
	e := newTestEngine()
	require.NoError(t, e.Process(OrderAction{Timestamp: 1000, OrderID: 1, Instrument: "AAPL", Side: matching.Buy, Type: matching.Limit, Quantity: 10, Price: 10, Action: NewAction}))
	require.NoError(t, e.Process(OrderAction{Timestamp: 1001, OrderID: 1, Instrument: "AAPL", Action: CancelAction}))

	e.PruneTerminal(2000)
	_, seen := e.history[matching.OrderID(1)]
	assert.False(t, seen)
}
