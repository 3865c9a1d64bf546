package matching

import "github.com/tidwall/btree"

// levels is the btree.BTreeG instantiation shared by both book sides,
// grounded directly on the teacher's internal/engine/orderbook.go
// `type PriceLevels = btree.BTreeG[*PriceLevel]`.
type levels = btree.BTreeG[*PriceLevel]

// BookSide is an ordered mapping price -> PriceLevel. Bids sort descending
// (best = highest price first); asks sort ascending (best = lowest price
// first). The comparator direction is fixed at construction, the Go
// expression of spec.md §9's "two concrete types parameterized over
// ordering" option.
type BookSide struct {
	side Side
	tree *levels
}

// NewBookSide constructs a BookSide for the given Side with the correct
// price ordering.
func NewBookSide(side Side) *BookSide {
	var tree *levels
	if side == Buy {
		tree = btree.NewBTreeG(func(a, b *PriceLevel) bool {
			return a.PriceLevel > b.PriceLevel
		})
	} else {
		tree = btree.NewBTreeG(func(a, b *PriceLevel) bool {
			return a.PriceLevel < b.PriceLevel
		})
	}
	return &BookSide{side: side, tree: tree}
}

// AddOrder is a no-op for MARKET orders, which never rest. Otherwise it
// locates or creates the level at o.Price and appends o to its FIFO queue.
func (bs *BookSide) AddOrder(o *Order) {
	if o.Type == Market {
		return
	}
	level, ok := bs.tree.Get(&PriceLevel{PriceLevel: o.Price})
	if !ok {
		level = newPriceLevel(o.Price)
		bs.tree.Set(level)
	}
	level.AddOrder(o)
}

// RemoveOrder removes the order with id from the level at price, deleting
// the level if it becomes empty.
func (bs *BookSide) RemoveOrder(id OrderID, price Price) error {
	level, ok := bs.tree.Get(&PriceLevel{PriceLevel: price})
	if !ok {
		return &OrderNotFoundError{OrderID: id}
	}
	if err := level.RemoveOrder(id); err != nil {
		return err
	}
	if level.Empty() {
		bs.tree.Delete(level)
	}
	return nil
}

// DeleteLevelIfEmpty is called by the matcher after a matching pass
// mutates a level's orders in place; it recomputes the aggregate and prunes
// the level from the tree if it is now empty.
func (bs *BookSide) DeleteLevelIfEmpty(level *PriceLevel) {
	level.recompute()
	if level.Empty() {
		bs.tree.Delete(level)
	}
}

// BestLevel returns the ordering-first level, or nil if the side is empty.
func (bs *BookSide) BestLevel() *PriceLevel {
	level, ok := bs.tree.Min()
	if !ok {
		return nil
	}
	return level
}

// BestPrice returns the best resting price, or 0 if the side is empty.
func (bs *BookSide) BestPrice() (Price, bool) {
	level := bs.BestLevel()
	if level == nil {
		return 0, false
	}
	return level.PriceLevel, true
}

// Levels returns all resting price levels in ordering-first order,
// primarily for tests and book introspection.
func (bs *BookSide) Levels() []*PriceLevel {
	var out []*PriceLevel
	bs.tree.Scan(func(l *PriceLevel) bool {
		out = append(out, l)
		return true
	})
	return out
}
