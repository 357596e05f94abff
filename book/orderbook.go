// Package book implements the two-sided, price-indexed order book that
// backs MBP-10 reconstruction: price levels, side books, and the composed
// order book with its event-application state machine.
package book

import (
	"errors"
	"fmt"

	"mbpbook/event"
)

// ErrInvalidEvent reports an event with an unknown action, or (for
// non-Clear actions) an invalid side, price, or size.
var ErrInvalidEvent = errors.New("book: invalid event")

// ErrDuplicateAdd reports an Add whose order_id is already resting in the
// book. The index would otherwise be corrupted, so this is reported and
// the event is rejected rather than silently merged.
var ErrDuplicateAdd = errors.New("book: duplicate add")

type location struct {
	price event.Price
	side  event.Side
}

// OrderBook composes the bid and ask Side Books with the order index that
// couples them. All mutation goes through Apply so the two indices never
// drift apart; callers never see the underlying maps.
type OrderBook struct {
	bids  *sideBook
	asks  *sideBook
	index map[event.OrderID]location
	dirty bool

	// Reusable top-N buffers (§5: pre-reserved to size ten, avoids
	// reallocating on every projection).
	bidBuf []LevelView
	askBuf []LevelView
}

// New returns an empty order book.
func New() *OrderBook {
	return &OrderBook{
		bids:   newSideBook(true),
		asks:   newSideBook(false),
		index:  make(map[event.OrderID]location),
		bidBuf: make([]LevelView, 0, event.MBPLevels),
		askBuf: make([]LevelView, 0, event.MBPLevels),
	}
}

func (b *OrderBook) sideBookFor(s event.Side) (*sideBook, bool) {
	switch s {
	case event.SideBid:
		return b.bids, true
	case event.SideAsk:
		return b.asks, true
	default:
		return nil, false
	}
}

// Apply validates and routes e, mutating the book per its action. Either
// every mutation an action implies completes, or none does — apply never
// leaves the book half-updated.
func (b *OrderBook) Apply(e *event.MBO) error {
	if !event.ValidAction(e.Action) {
		return fmt.Errorf("%w: unknown action %q", ErrInvalidEvent, byte(e.Action))
	}
	if e.Action != event.ActionClear {
		if !event.ValidSide(e.Side) {
			return fmt.Errorf("%w: side %q", ErrInvalidEvent, byte(e.Side))
		}
		if e.Price == event.Undef || e.Price <= 0 {
			return fmt.Errorf("%w: price %d", ErrInvalidEvent, e.Price)
		}
		if e.Size == 0 {
			return fmt.Errorf("%w: size 0", ErrInvalidEvent)
		}
	}

	switch e.Action {
	case event.ActionAdd:
		return b.applyAdd(e)
	case event.ActionCancel:
		return b.applyCancel(e)
	case event.ActionModify:
		return b.applyModify(e)
	case event.ActionClear:
		b.applyClear()
		return nil
	case event.ActionTrade, event.ActionFill, event.ActionNone:
		// Book-transparent: size changes from executions arrive as
		// subsequent Cancel/Modify events in this feed's convention.
		return nil
	default:
		return fmt.Errorf("%w: unhandled action %q", ErrInvalidEvent, byte(e.Action))
	}
}

func (b *OrderBook) applyAdd(e *event.MBO) error {
	if _, exists := b.index[e.OrderID]; exists {
		return fmt.Errorf("%w: order %d", ErrDuplicateAdd, e.OrderID)
	}
	sb, ok := b.sideBookFor(e.Side)
	if !ok {
		return fmt.Errorf("%w: side %q on add", ErrInvalidEvent, byte(e.Side))
	}
	lvl := sb.getOrInsert(e.Price)
	lvl.add(e.OrderID, e.Size)
	b.index[e.OrderID] = location{price: e.Price, side: e.Side}
	b.dirty = true
	return nil
}

func (b *OrderBook) applyCancel(e *event.MBO) error {
	loc, ok := b.index[e.OrderID]
	if !ok {
		// Tolerates streams that begin mid-session: normal, not an error.
		b.dirty = true
		return nil
	}
	sb, _ := b.sideBookFor(loc.side)
	if lvl, found := sb.get(loc.price); found {
		lvl.remove(e.OrderID)
	}
	sb.dropIfEmpty(loc.price)
	delete(b.index, e.OrderID)
	b.dirty = true
	return nil
}

func (b *OrderBook) applyModify(e *event.MBO) error {
	loc, ok := b.index[e.OrderID]
	if !ok {
		// Modify of an unknown order behaves exactly like Add.
		return b.applyAdd(e)
	}

	if loc.price == e.Price && loc.side == e.Side {
		sb, _ := b.sideBookFor(loc.side)
		if lvl, found := sb.get(loc.price); found {
			lvl.modify(e.OrderID, e.Size)
		}
		b.dirty = true
		return nil
	}

	// Cross-price/side move: insert into the new level first, then
	// remove from the old one, so a failure partway through never
	// leaves the order homeless.
	newSB, ok := b.sideBookFor(e.Side)
	if !ok {
		return fmt.Errorf("%w: side %q on modify", ErrInvalidEvent, byte(e.Side))
	}
	newLvl := newSB.getOrInsert(e.Price)
	newLvl.add(e.OrderID, e.Size)

	oldSB, _ := b.sideBookFor(loc.side)
	if oldLvl, found := oldSB.get(loc.price); found {
		oldLvl.remove(e.OrderID)
	}
	oldSB.dropIfEmpty(loc.price)

	b.index[e.OrderID] = location{price: e.Price, side: e.Side}
	b.dirty = true
	return nil
}

func (b *OrderBook) applyClear() {
	b.bids = newSideBook(true)
	b.asks = newSideBook(false)
	b.index = make(map[event.OrderID]location)
	b.dirty = true
}

// TopBids returns up to k bid levels, best (highest price) first. The
// returned slice aliases a reusable buffer; consume it before the next
// call to TopBids.
func (b *OrderBook) TopBids(k int) []LevelView {
	return b.bids.topK(b.bidBuf, k)
}

// TopAsks returns up to k ask levels, best (lowest price) first. The
// returned slice aliases a reusable buffer; consume it before the next
// call to TopAsks.
func (b *OrderBook) TopAsks(k int) []LevelView {
	return b.asks.topK(b.askBuf, k)
}

// Dirty reports whether any Apply since the last ClearDirty mutated the
// book. Reads never clear it; only ClearDirty does.
func (b *OrderBook) Dirty() bool { return b.dirty }

// ClearDirty resets the dirty flag. Callers gate emission on Dirty, then
// call ClearDirty after consuming the change.
func (b *OrderBook) ClearDirty() { b.dirty = false }

// Stats summarizes the book's current shape for observability.
type Stats struct {
	BidLevels int
	AskLevels int
	Orders    int
	BestBid   event.Price
	BestAsk   event.Price
}

// Stats returns a point-in-time summary of the book.
func (b *OrderBook) Stats() Stats {
	s := Stats{
		BidLevels: b.bids.size(),
		AskLevels: b.asks.size(),
		Orders:    len(b.index),
		BestBid:   event.Undef,
		BestAsk:   event.Undef,
	}
	if lvl, ok := b.bids.best(); ok {
		s.BestBid = lvl.price
	}
	if lvl, ok := b.asks.best(); ok {
		s.BestAsk = lvl.price
	}
	return s
}
