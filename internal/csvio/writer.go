package csvio

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/saiputravu/matchengine/internal/engine"
	"github.com/saiputravu/matchengine/internal/matching"
)

// outputHeader is spec.md §6's exact output column order.
var outputHeader = []string{
	"timestamp", "order_id", "instrument", "side", "type", "quantity",
	"price", "action", "status", "executed_quantity", "execution_price",
	"counterparty_id",
}

// WriteEvents writes events to path as a single CSV, header first, in the
// order given — callers are expected to have already sorted events
// chronologically (InstrumentManager.AllEvents does this). A failure to
// create or close the file is reported as a *FileIOError.
func WriteEvents(path string, events []engine.Event) error {
	f, err := os.Create(path)
	if err != nil {
		return &FileIOError{Path: path, Op: "create", Err: err}
	}

	w := csv.NewWriter(f)
	if err := w.Write(outputHeader); err != nil {
		f.Close()
		return &FileIOError{Path: path, Op: "write header", Err: err}
	}

	for _, ev := range events {
		if err := w.Write(eventRow(ev)); err != nil {
			f.Close()
			return &FileIOError{Path: path, Op: "write row", Err: err}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return &FileIOError{Path: path, Op: "flush", Err: err}
	}

	if err := f.Close(); err != nil {
		return &FileIOError{Path: path, Op: "close", Err: err}
	}
	return nil
}

func eventRow(ev engine.Event) []string {
	price := ev.Price
	if ev.Type == matching.Market {
		price = 0
	}
	return []string{
		strconv.FormatUint(uint64(ev.ActionTimestamp), 10),
		strconv.FormatUint(uint64(ev.OrderID), 10),
		ev.Instrument,
		ev.Side.String(),
		ev.Type.String(),
		strconv.FormatUint(uint64(ev.DisplayQty), 10),
		formatPrice(price),
		ev.Action.String(),
		ev.Status.String(),
		strconv.FormatUint(uint64(ev.ExecutedQty), 10),
		formatPrice(ev.ExecutionPrice),
		strconv.FormatUint(uint64(ev.CounterpartyID), 10),
	}
}

// formatPrice renders fixed notation with two fractional digits, per
// spec.md §6.
func formatPrice(p matching.Price) string {
	return strconv.FormatFloat(float64(p), 'f', 2, 64)
}
