// Package sink writes MBP-10 snapshots to a destination — CSV file,
// Kafka topic, or a fan-out of several — in the fixed row format the
// feed's downstream consumers expect.
package sink

import (
	"strconv"
	"strings"

	"mbpbook/event"
	"mbpbook/mbp"
)

// Header is the first line written to every CSV-shaped sink.
const Header = ",ts_recv,ts_event,rtype,publisher_id,instrument_id,action,side,depth,price,size,flags,ts_in_delta,sequence," +
	"bid_px_00,bid_sz_00,bid_ct_00,ask_px_00,ask_sz_00,ask_ct_00," +
	"bid_px_01,bid_sz_01,bid_ct_01,ask_px_01,ask_sz_01,ask_ct_01," +
	"bid_px_02,bid_sz_02,bid_ct_02,ask_px_02,ask_sz_02,ask_ct_02," +
	"bid_px_03,bid_sz_03,bid_ct_03,ask_px_03,ask_sz_03,ask_ct_03," +
	"bid_px_04,bid_sz_04,bid_ct_04,ask_px_04,ask_sz_04,ask_ct_04," +
	"bid_px_05,bid_sz_05,bid_ct_05,ask_px_05,ask_sz_05,ask_ct_05," +
	"bid_px_06,bid_sz_06,bid_ct_06,ask_px_06,ask_sz_06,ask_ct_06," +
	"bid_px_07,bid_sz_07,bid_ct_07,ask_px_07,ask_sz_07,ask_ct_07," +
	"bid_px_08,bid_sz_08,bid_ct_08,ask_px_08,ask_sz_08,ask_ct_08," +
	"bid_px_09,bid_sz_09,bid_ct_09,ask_px_09,ask_sz_09,ask_ct_09," +
	"symbol,order_id\n"

const priceScale = 1e9

// formatPrice renders a scaled price as a fixed two-decimal string, or
// the empty string for event.Undef.
func formatPrice(p event.Price) string {
	if p == event.Undef {
		return ""
	}
	return strconv.FormatFloat(float64(p)/priceScale, 'f', 2, 64)
}

// EncodeRow renders one snapshot as a newline-terminated CSV row,
// prefixed with idx.
func EncodeRow(idx uint64, s mbp.Snapshot) string {
	var b strings.Builder
	b.Grow(512)

	b.WriteString(strconv.FormatUint(idx, 10))
	b.WriteByte(',')
	b.WriteString(s.TsRecv)
	b.WriteByte(',')
	b.WriteString(s.TsEvent)
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(int(s.RType)))
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(int(s.PublisherID)))
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(int(s.InstrumentID)))
	b.WriteByte(',')
	b.WriteByte(byte(s.Action))
	b.WriteByte(',')
	b.WriteByte(byte(s.Side))
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(int(s.Depth)))
	b.WriteByte(',')
	b.WriteString(formatPrice(s.Price))
	b.WriteByte(',')
	b.WriteString(strconv.FormatUint(uint64(s.Size), 10))
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(int(s.Flags)))
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(int(s.TsInDelta)))
	b.WriteByte(',')
	b.WriteString(strconv.FormatUint(uint64(s.Sequence), 10))

	for i := 0; i < event.MBPLevels; i++ {
		bid, ask := s.Bids[i], s.Asks[i]
		b.WriteByte(',')
		b.WriteString(formatPrice(bid.Price))
		b.WriteByte(',')
		b.WriteString(strconv.FormatUint(bid.Size, 10))
		b.WriteByte(',')
		b.WriteString(strconv.FormatUint(uint64(bid.Count), 10))
		b.WriteByte(',')
		b.WriteString(formatPrice(ask.Price))
		b.WriteByte(',')
		b.WriteString(strconv.FormatUint(ask.Size, 10))
		b.WriteByte(',')
		b.WriteString(strconv.FormatUint(uint64(ask.Count), 10))
	}

	b.WriteByte(',')
	b.WriteString(s.Symbol)
	b.WriteByte(',')
	b.WriteString(strconv.FormatUint(uint64(s.OrderID), 10))
	b.WriteByte('\n')

	return b.String()
}
