package mbp

import (
	"mbpbook/book"
	"mbpbook/event"
)

// Project builds a Snapshot from the event that triggered emission and the
// book's current top-10 bid and ask levels. bids and asks are already
// best-first and may hold fewer than ten entries; unfilled slots are
// padded with event.Undef and zero size and count.
//
// Depth is fixed at 1 for a Cancel and 0 for every other action, matching
// this feed's convention that only Cancel reports a per-order depth hint.
func Project(e *event.MBO, bids, asks []book.LevelView) Snapshot {
	s := Snapshot{
		TsRecv:       e.TsRecv,
		TsEvent:      e.TsEvent,
		RType:        RecordType,
		PublisherID:  e.PublisherID,
		InstrumentID: e.InstrumentID,
		Action:       e.Action,
		Side:         e.Side,
		Price:        e.Price,
		Size:         e.Size,
		ChannelID:    e.ChannelID,
		OrderID:      e.OrderID,
		Flags:        e.Flags,
		TsInDelta:    e.TsInDelta,
		Sequence:     e.Sequence,
		Symbol:       e.Symbol,
	}
	if e.Action == event.ActionCancel {
		s.Depth = 1
	}

	for i := 0; i < event.MBPLevels; i++ {
		s.Bids[i] = slotAt(i, bids)
		s.Asks[i] = slotAt(i, asks)
	}
	return s
}

func slotAt(i int, levels []book.LevelView) LevelSlot {
	if i >= len(levels) {
		return LevelSlot{Price: event.Undef}
	}
	lvl := levels[i]
	return LevelSlot{Price: lvl.Price, Size: lvl.TotalSize, Count: lvl.OrderCount}
}
