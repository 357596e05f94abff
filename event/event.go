// Package event defines the wire vocabulary shared by every stage of the
// MBO-to-MBP pipeline: scaled prices, sides, actions, and the MBO record
// itself.
package event

import "math"

// Price is a scaled fixed-point price: the real price times 1e9.
type Price int64

// Undef is the sentinel for "no price".
const Undef Price = math.MaxInt64

// Size is a resting order's quantity. Must be > 0 for any resting order.
type Size uint32

// OrderID identifies an order for the lifetime of a stream.
type OrderID uint64

// Side of the book an event pertains to.
type Side byte

const (
	SideBid  Side = 'B'
	SideAsk  Side = 'A'
	SideNone Side = 'N'
)

// Action describes what an MBO event does to an order.
type Action byte

const (
	ActionAdd    Action = 'A'
	ActionCancel Action = 'C'
	ActionModify Action = 'M'
	ActionTrade  Action = 'T'
	ActionFill   Action = 'F'
	ActionClear  Action = 'R'
	ActionNone   Action = 'N'
)

// Flag bits on MBO events. Informational; the core never inspects them.
const (
	FlagLast     uint8 = 0x80
	FlagTOB      uint8 = 0x40
	FlagSnapshot uint8 = 0x20
	FlagMBP      uint8 = 0x10
)

// MBPLevels is the number of price levels carried per side in an MBP-10
// snapshot.
const MBPLevels = 10

// MBO is a single Market-By-Order lifecycle event.
type MBO struct {
	TsRecv       string
	TsEvent      string
	RType        uint8
	PublisherID  uint16
	InstrumentID uint32
	Action       Action
	Side         Side
	Price        Price
	Size         Size
	ChannelID    uint8
	OrderID      OrderID
	Flags        uint8
	TsInDelta    int32
	Sequence     uint32
	Symbol       string
}

// ValidSide reports whether s is one of the three known side codes.
func ValidSide(s Side) bool {
	return s == SideBid || s == SideAsk || s == SideNone
}

// ValidAction reports whether a is one of the seven known action codes.
func ValidAction(a Action) bool {
	switch a {
	case ActionAdd, ActionCancel, ActionModify, ActionTrade, ActionFill, ActionClear, ActionNone:
		return true
	default:
		return false
	}
}
