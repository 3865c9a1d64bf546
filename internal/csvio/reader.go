package csvio

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/saiputravu/matchengine/internal/engine"
	"github.com/saiputravu/matchengine/internal/matching"
)

// minInputFields is the field count spec.md §6 requires ("rows of exactly
// ≥8 fields"); extra trailing fields are ignored.
const minInputFields = 8

// ReadResult summarizes one ingestion run, the counts spec.md §7 requires
// the CLI to print at completion.
type ReadResult struct {
	LinesRead int
	Malformed int
}

// ReadActions streams every well-formed row of path through sink, in
// file order. Malformed lines are logged and skipped, not fatal; a
// failure to open the file is reported as a *FileIOError, matching
// spec.md §7's "failure in file open/close is fatal" rule.
func ReadActions(path string, log zerolog.Logger, sink func(engine.OrderAction)) (ReadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return ReadResult{}, &FileIOError{Path: path, Op: "open", Err: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // rows may carry >8 fields; variable width is allowed
	r.TrimLeadingSpace = true

	var result ReadResult
	line := 0

	// First row is the header; discard it per spec.md §6.
	if _, err := r.Read(); err != nil {
		if err == io.EOF {
			return result, nil
		}
		return result, &FileIOError{Path: path, Op: "read header", Err: err}
	}
	line++

	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			result.Malformed++
			log.Error().Int("line", line).Err(err).Msg("malformed CSV row")
			continue
		}

		action, perr := parseRecord(record)
		if perr != nil {
			if pe, ok := perr.(*ParsingError); ok {
				pe.Line = line
			}
			result.Malformed++
			log.Error().Int("line", line).Err(perr).Msg("malformed order action")
			continue
		}

		result.LinesRead++
		sink(action)
	}

	return result, nil
}

func parseRecord(record []string) (engine.OrderAction, error) {
	if len(record) < minInputFields {
		return engine.OrderAction{}, &ParsingError{Reason: "expected at least 8 fields"}
	}

	fields := make([]string, len(record))
	for i, f := range record {
		fields[i] = strings.Trim(f, " \t")
	}

	ts, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil {
		return engine.OrderAction{}, &ParsingError{Reason: "timestamp: " + err.Error()}
	}

	id, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return engine.OrderAction{}, &ParsingError{Reason: "order_id: " + err.Error()}
	}

	instrument := fields[2]
	if instrument == "" {
		return engine.OrderAction{}, &ParsingError{Reason: "instrument must not be empty"}
	}

	side, err := parseSide(fields[3])
	if err != nil {
		return engine.OrderAction{}, err
	}

	typ, err := parseOrderType(fields[4])
	if err != nil {
		return engine.OrderAction{}, err
	}

	qty, err := strconv.ParseUint(fields[5], 10, 64)
	if err != nil {
		return engine.OrderAction{}, &ParsingError{Reason: "quantity: " + err.Error()}
	}
	if qty == 0 {
		return engine.OrderAction{}, &ParsingError{Reason: "quantity must be positive"}
	}

	price, err := parsePrice(typ, fields[6])
	if err != nil {
		return engine.OrderAction{}, err
	}

	action, err := parseAction(fields[7])
	if err != nil {
		return engine.OrderAction{}, err
	}

	return engine.OrderAction{
		Timestamp:  matching.Timestamp(ts),
		OrderID:    matching.OrderID(id),
		Instrument: instrument,
		Side:       side,
		Type:       typ,
		Quantity:   matching.Quantity(qty),
		Price:      price,
		Action:     action,
	}, nil
}

func parseSide(s string) (matching.Side, error) {
	switch s {
	case "BUY":
		return matching.Buy, nil
	case "SELL":
		return matching.Sell, nil
	default:
		return 0, &ParsingError{Reason: "side must be BUY or SELL, got " + s}
	}
}

func parseOrderType(s string) (matching.OrderType, error) {
	switch s {
	case "LIMIT":
		return matching.Limit, nil
	case "MARKET":
		return matching.Market, nil
	default:
		return 0, &ParsingError{Reason: "type must be LIMIT or MARKET, got " + s}
	}
}

func parseAction(s string) (engine.Action, error) {
	switch s {
	case "NEW":
		return engine.NewAction, nil
	case "MODIFY":
		return engine.ModifyAction, nil
	case "CANCEL":
		return engine.CancelAction, nil
	default:
		return 0, &ParsingError{Reason: "action must be NEW, MODIFY, or CANCEL, got " + s}
	}
}

// parsePrice applies spec.md §6's MARKET-price leniency: any value,
// including "na" or empty, is accepted and replaced by 0. LIMIT prices
// must parse to a strictly positive number (enforced again, redundantly,
// by matching.NewOrder — the redundancy keeps the parse error and the
// domain error distinguishable for logging).
func parsePrice(typ matching.OrderType, raw string) (matching.Price, error) {
	if typ == matching.Market {
		if raw == "" || strings.EqualFold(raw, "na") {
			return 0, nil
		}
		// A MARKET row may still carry a numeric price; §6 says "any
		// value... is accepted and replaced by 0", so parse failures
		// here are not fatal to the row either.
		if _, err := strconv.ParseFloat(raw, 64); err != nil {
			return 0, nil
		}
		return 0, nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &ParsingError{Reason: "price: " + err.Error()}
	}
	if v <= 0 {
		return 0, &ParsingError{Reason: "LIMIT price must be positive"}
	}
	return matching.Price(v), nil
}
