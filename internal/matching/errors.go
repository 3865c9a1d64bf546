package matching

import (
	"errors"
	"fmt"
)

// Sentinel errors, in the teacher's style (internal/engine/orderbook.go
// declares ErrNotEnoughLiquidity/ErrRejection as package vars checked with
// errors.Is). The concrete error types below wrap these sentinels so
// callers can either match on the sentinel or unwrap the structured fields.
var (
	ErrInvalidOrder  = errors.New("invalid order")
	ErrOrderNotFound = errors.New("order not found")
)

// InvalidOrderError reports a construction or mutation that violates an
// Order invariant: zero id, empty instrument, zero quantity, non-positive
// LIMIT price, modifying a MARKET order, executing beyond remaining.
type InvalidOrderError struct {
	OrderID OrderID
	Reason  string
}

func (e *InvalidOrderError) Error() string {
	return fmt.Sprintf("invalid order %d: %s", e.OrderID, e.Reason)
}

func (e *InvalidOrderError) Unwrap() error { return ErrInvalidOrder }

// OrderNotFoundError reports that a MODIFY or CANCEL targeted an id absent
// from the relevant index.
type OrderNotFoundError struct {
	OrderID OrderID
}

func (e *OrderNotFoundError) Error() string {
	return fmt.Sprintf("order %d not found", e.OrderID)
}

func (e *OrderNotFoundError) Unwrap() error { return ErrOrderNotFound }
