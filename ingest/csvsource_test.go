package ingest

import (
	"errors"
	"io"
	"strings"
	"testing"

	"mbpbook/event"
)

const header = "ts_recv,ts_event,rtype,publisher_id,instrument_id,action,side,price,size,channel_id,order_id,flags,ts_in_delta,sequence,symbol\n"

func TestCSVSourceParsesRows(t *testing.T) {
	data := header +
		"2024-01-01T00:00:00Z,2024-01-01T00:00:00Z,160,1,42,A,B,100.5,10,0,1,0,0,1,TEST\n"

	src, err := NewCSVSource(strings.NewReader(data))
	if err != nil {
		t.Fatalf("NewCSVSource: %v", err)
	}

	e, err := src.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if e.Action != event.ActionAdd || e.Side != event.SideBid {
		t.Errorf("unexpected action/side: %c/%c", e.Action, e.Side)
	}
	if e.Price != 100_500_000_000 {
		t.Errorf("expected price 100_500_000_000, got %d", e.Price)
	}
	if e.Symbol != "TEST" || e.OrderID != 1 {
		t.Errorf("unexpected symbol/order_id: %s/%d", e.Symbol, e.OrderID)
	}

	if _, err := src.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF at end of stream, got %v", err)
	}
}

func TestCSVSourceRejectsMissingHeader(t *testing.T) {
	if _, err := NewCSVSource(strings.NewReader("")); err == nil {
		t.Fatal("expected error for empty stream")
	}
}

func TestCSVSourceMalformedRowIsReported(t *testing.T) {
	data := header + "too,few,fields\n"

	src, err := NewCSVSource(strings.NewReader(data))
	if err != nil {
		t.Fatalf("NewCSVSource: %v", err)
	}

	if _, err := src.Next(); !errors.Is(err, ErrMalformedRecord) {
		t.Fatalf("expected ErrMalformedRecord, got %v", err)
	}
}
