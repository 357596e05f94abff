package book

import "mbpbook/event"

// Level aggregates every resting order at one price on one side.
//
// Invariants: totalSize == sum(orders values); the level is empty iff
// orders is empty, in which case price is reset to event.Undef.
type Level struct {
	price     event.Price
	totalSize uint64
	orders    map[event.OrderID]event.Size
}

func newLevel(price event.Price) *Level {
	return &Level{price: price, orders: make(map[event.OrderID]event.Size)}
}

// Price is event.Undef once the level has been emptied.
func (l *Level) Price() event.Price { return l.price }

// TotalSize is the sum of resting order sizes at this level.
func (l *Level) TotalSize() uint64 { return l.totalSize }

// OrderCount is the number of resting orders at this level.
func (l *Level) OrderCount() int { return len(l.orders) }

// Empty reports whether the level has no resting orders.
func (l *Level) Empty() bool { return len(l.orders) == 0 }

// Contains reports whether oid rests at this level.
func (l *Level) Contains(oid event.OrderID) bool {
	_, ok := l.orders[oid]
	return ok
}

// SizeOf returns oid's resting size, or 0 if oid is not at this level.
func (l *Level) SizeOf(oid event.OrderID) event.Size {
	return l.orders[oid]
}

// add rests a new order at this level. Rejects a duplicate oid, leaving
// the level untouched.
func (l *Level) add(oid event.OrderID, size event.Size) bool {
	if _, exists := l.orders[oid]; exists {
		return false
	}
	l.orders[oid] = size
	l.totalSize += uint64(size)
	return true
}

// remove drops oid from the level. Silent no-op if oid is absent. Resets
// price to event.Undef once the level empties.
func (l *Level) remove(oid event.OrderID) {
	size, ok := l.orders[oid]
	if !ok {
		return
	}
	delete(l.orders, oid)
	l.totalSize -= uint64(size)
	if len(l.orders) == 0 {
		l.price = event.Undef
		l.totalSize = 0
	}
}

// modify changes oid's resting size. Silent no-op if oid is absent.
func (l *Level) modify(oid event.OrderID, newSize event.Size) {
	old, ok := l.orders[oid]
	if !ok {
		return
	}
	l.totalSize = l.totalSize - uint64(old) + uint64(newSize)
	l.orders[oid] = newSize
}
