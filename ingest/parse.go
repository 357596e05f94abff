package ingest

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"mbpbook/event"
)

// ErrMalformedRecord reports a CSV row that could not be parsed into an
// MBO event: wrong field count, or a field that fails to parse as its
// expected type.
var ErrMalformedRecord = errors.New("ingest: malformed record")

const priceScale = 1e9

// fieldCount is the number of comma-separated fields a valid input row
// carries, per the feed's fixed column order.
const fieldCount = 15

func parseRecord(fields []string) (*event.MBO, error) {
	if len(fields) != fieldCount {
		return nil, fmt.Errorf("%w: expected %d fields, got %d", ErrMalformedRecord, fieldCount, len(fields))
	}

	rtype, err := parseUint8(fields[2])
	if err != nil {
		return nil, fmt.Errorf("%w: rtype: %v", ErrMalformedRecord, err)
	}
	publisherID, err := parseUint16(fields[3])
	if err != nil {
		return nil, fmt.Errorf("%w: publisher_id: %v", ErrMalformedRecord, err)
	}
	instrumentID, err := parseUint32(fields[4])
	if err != nil {
		return nil, fmt.Errorf("%w: instrument_id: %v", ErrMalformedRecord, err)
	}
	action, err := parseAction(fields[5])
	if err != nil {
		return nil, err
	}
	side, err := parseSide(fields[6])
	if err != nil {
		return nil, err
	}
	price, err := parsePrice(fields[7])
	if err != nil {
		return nil, fmt.Errorf("%w: price: %v", ErrMalformedRecord, err)
	}
	size, err := parseSize(fields[8])
	if err != nil {
		return nil, fmt.Errorf("%w: size: %v", ErrMalformedRecord, err)
	}
	channelID, err := parseUint8(fields[9])
	if err != nil {
		return nil, fmt.Errorf("%w: channel_id: %v", ErrMalformedRecord, err)
	}
	orderID, err := parseUint64(fields[10])
	if err != nil {
		return nil, fmt.Errorf("%w: order_id: %v", ErrMalformedRecord, err)
	}
	flags, err := parseUint8(fields[11])
	if err != nil {
		return nil, fmt.Errorf("%w: flags: %v", ErrMalformedRecord, err)
	}
	tsInDelta, err := parseInt32(fields[12])
	if err != nil {
		return nil, fmt.Errorf("%w: ts_in_delta: %v", ErrMalformedRecord, err)
	}
	sequence, err := parseUint32(fields[13])
	if err != nil {
		return nil, fmt.Errorf("%w: sequence: %v", ErrMalformedRecord, err)
	}

	return &event.MBO{
		TsRecv:       fields[0],
		TsEvent:      fields[1],
		RType:        rtype,
		PublisherID:  publisherID,
		InstrumentID: instrumentID,
		Action:       action,
		Side:         side,
		Price:        price,
		Size:         size,
		ChannelID:    channelID,
		OrderID:      event.OrderID(orderID),
		Flags:        flags,
		TsInDelta:    tsInDelta,
		Sequence:     sequence,
		Symbol:       fields[14],
	}, nil
}

// parsePrice reads a decimal (optionally scientific-notation) real price
// and scales it to the fixed-point representation, rounding to the
// nearest integer tick to absorb float64 rounding noise.
func parsePrice(s string) (event.Price, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return event.Price(math.Round(f * priceScale)), nil
}

func parseSize(s string) (event.Size, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return event.Size(v), nil
}

func parseUint8(s string) (uint8, error) {
	v, err := strconv.ParseUint(s, 10, 8)
	return uint8(v), err
}

func parseUint16(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 10, 16)
	return uint16(v), err
}

func parseUint32(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	return uint32(v), err
}

func parseUint64(s string) (uint64, error) {
	return strconv.ParseUint(s, 10, 64)
}

func parseInt32(s string) (int32, error) {
	v, err := strconv.ParseInt(s, 10, 32)
	return int32(v), err
}

func parseAction(s string) (event.Action, error) {
	if len(s) != 1 {
		return 0, fmt.Errorf("%w: action: expected single character, got %q", ErrMalformedRecord, s)
	}
	a := event.Action(s[0])
	if !event.ValidAction(a) {
		return 0, fmt.Errorf("%w: action: unknown code %q", ErrMalformedRecord, s)
	}
	return a, nil
}

func parseSide(s string) (event.Side, error) {
	if len(s) != 1 {
		return 0, fmt.Errorf("%w: side: expected single character, got %q", ErrMalformedRecord, s)
	}
	side := event.Side(s[0])
	if !event.ValidSide(side) {
		return 0, fmt.Errorf("%w: side: unknown code %q", ErrMalformedRecord, s)
	}
	return side, nil
}
