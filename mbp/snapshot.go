// Package mbp projects an order book's top-10 levels into an MBP-10
// snapshot record, echoing the triggering event's metadata.
package mbp

import "mbpbook/event"

// RecordType is the fixed rtype value for an MBP-10 record.
const RecordType uint8 = 10

// LevelSlot is one price level of a snapshot's bid or ask array. A slot
// beyond the book's populated depth carries Price == event.Undef and zero
// size and count.
type LevelSlot struct {
	Price event.Price
	Size  uint64
	Count uint32
}

// Snapshot is a single MBP-10 depth record: the triggering event's
// metadata plus ten bid and ten ask levels, best first.
type Snapshot struct {
	TsRecv       string
	TsEvent      string
	RType        uint8
	PublisherID  uint16
	InstrumentID uint32
	Action       event.Action
	Side         event.Side
	Price        event.Price
	Size         event.Size
	ChannelID    uint8
	OrderID      event.OrderID
	Flags        uint8
	TsInDelta    int32
	Sequence     uint32
	Symbol       string
	Depth        uint8

	Bids [event.MBPLevels]LevelSlot
	Asks [event.MBPLevels]LevelSlot
}
