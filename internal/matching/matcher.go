package matching

import "github.com/google/uuid"

// crosses implements spec.md §4.5's crossing predicate for one opposite
// price level: MARKET always crosses; BUY LIMIT at P crosses L iff P >= L;
// SELL LIMIT at P crosses L iff P <= L.
func crosses(incoming *Order, levelPrice Price) bool {
	if incoming.Type == Market {
		return true
	}
	if incoming.Side == Buy {
		return incoming.Price >= levelPrice
	}
	return incoming.Price <= levelPrice
}

// Match is the pure matching algorithm: it mutates incoming and book, and
// returns the trades produced, in execution order. The incoming order is
// never inserted into the book mid-match.
//
// Limit path: match against the opposite side; if still active with
// remaining quantity, rest it.
//
// Market path: match against the opposite side; any residual quantity
// after the side is exhausted is canceled, never rested.
func Match(incoming *Order, book *OrderBook) []Trade {
	var trades []Trade
	opposite := book.sideFor(incoming.Side.Opposite())

	for incoming.Remaining > 0 {
		level := opposite.BestLevel()
		if level == nil || !crosses(incoming, level.PriceLevel) {
			break
		}
		levelPrice := level.PriceLevel

		var filled []OrderID
		for i := 0; i < len(level.Orders) && incoming.Remaining > 0; i++ {
			resting := level.Orders[i]
			m := min(incoming.Remaining, resting.Remaining)
			if m == 0 {
				break
			}

			buyID, sellID := incoming.ID, resting.ID
			if incoming.Side == Sell {
				buyID, sellID = resting.ID, incoming.ID
			}

			// Errors are impossible here: m is bounded by both
			// Remaining values by construction.
			_ = incoming.Execute(m, levelPrice, resting.ID)
			_ = resting.Execute(m, levelPrice, incoming.ID)

			trades = append(trades, Trade{
				TradeID:    uuid.NewString(),
				Timestamp:  incoming.Timestamp,
				Instrument: book.Instrument,
				BuyID:      buyID,
				SellID:     sellID,
				Quantity:   m,
				Price:      levelPrice,
			})

			if resting.Remaining == 0 {
				filled = append(filled, resting.ID)
			}
		}

		for _, id := range filled {
			_ = level.RemoveOrder(id)
			delete(book.index, id)
		}
		opposite.DeleteLevelIfEmpty(level)
	}

	switch incoming.Type {
	case Limit:
		if incoming.IsActive() && incoming.Remaining > 0 {
			book.AddOrder(incoming)
		}
	case Market:
		if incoming.Remaining > 0 {
			_ = incoming.Cancel()
		}
	}

	return trades
}
