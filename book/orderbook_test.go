package book

import (
	"errors"
	"testing"

	"mbpbook/event"
)

func addEvent(oid event.OrderID, side event.Side, price event.Price, size event.Size) *event.MBO {
	return &event.MBO{Action: event.ActionAdd, Side: side, Price: price, Size: size, OrderID: oid}
}

func cancelEvent(oid event.OrderID, side event.Side, price event.Price) *event.MBO {
	return &event.MBO{Action: event.ActionCancel, Side: side, Price: price, Size: 1, OrderID: oid}
}

func TestApplyAddThenCancelRestoresBook(t *testing.T) {
	b := New()

	if err := b.Apply(addEvent(1, event.SideBid, 10_000_000_000, 5)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if got := b.TopBids(10); len(got) != 1 || got[0].TotalSize != 5 {
		t.Fatalf("unexpected bid top after add: %+v", got)
	}

	if err := b.Apply(cancelEvent(1, event.SideBid, 10_000_000_000)); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if got := b.TopBids(10); len(got) != 0 {
		t.Fatalf("expected empty bid side after cancel, got %+v", got)
	}
	if b.Stats().Orders != 0 {
		t.Fatalf("expected 0 orders after round trip, got %d", b.Stats().Orders)
	}
}

func TestApplyCancelUnknownOrderIsSilent(t *testing.T) {
	b := New()

	if err := b.Apply(cancelEvent(999, event.SideBid, 5_000_000_000)); err != nil {
		t.Fatalf("expected silent success, got %v", err)
	}
	if !b.Dirty() {
		t.Fatal("expected dirty to be set even for an unknown cancel")
	}
	if b.Stats().Orders != 0 {
		t.Fatal("book should remain empty")
	}
}

func TestApplyModifyAcrossPriceMoves(t *testing.T) {
	b := New()
	if err := b.Apply(addEvent(1, event.SideAsk, 20_000_000_000, 5)); err != nil {
		t.Fatalf("add: %v", err)
	}

	modify := &event.MBO{Action: event.ActionModify, Side: event.SideAsk, Price: 21_000_000_000, Size: 7, OrderID: 1}
	if err := b.Apply(modify); err != nil {
		t.Fatalf("modify: %v", err)
	}

	top := b.TopAsks(10)
	if len(top) != 1 {
		t.Fatalf("expected exactly one ask level, got %d", len(top))
	}
	if top[0].Price != 21_000_000_000 || top[0].TotalSize != 7 || top[0].OrderCount != 1 {
		t.Fatalf("unexpected ask top after modify: %+v", top[0])
	}
}

func TestApplyModifyOfUnknownOrderBehavesLikeAdd(t *testing.T) {
	b := New()
	modify := &event.MBO{Action: event.ActionModify, Side: event.SideBid, Price: 10_000_000_000, Size: 4, OrderID: 42}

	if err := b.Apply(modify); err != nil {
		t.Fatalf("modify-as-add: %v", err)
	}

	top := b.TopBids(10)
	if len(top) != 1 || top[0].TotalSize != 4 {
		t.Fatalf("expected order to be resting after modify-as-add, got %+v", top)
	}
}

func TestApplyClearNullifiesBook(t *testing.T) {
	b := New()
	b.Apply(addEvent(1, event.SideBid, 10_000_000_000, 2))
	b.Apply(addEvent(2, event.SideAsk, 11_000_000_000, 3))
	b.ClearDirty()

	if err := b.Apply(&event.MBO{Action: event.ActionClear}); err != nil {
		t.Fatalf("clear: %v", err)
	}

	if len(b.TopBids(10)) != 0 || len(b.TopAsks(10)) != 0 {
		t.Fatal("expected both sides empty after clear")
	}
	if b.Stats().Orders != 0 {
		t.Fatal("expected order index empty after clear")
	}
	if !b.Dirty() {
		t.Fatal("expected dirty to be set after clear")
	}
}

func TestApplyDuplicateAddIsRejected(t *testing.T) {
	b := New()
	if err := b.Apply(addEvent(1, event.SideBid, 10_000_000_000, 2)); err != nil {
		t.Fatalf("first add: %v", err)
	}

	err := b.Apply(addEvent(1, event.SideBid, 10_000_000_000, 3))
	if !errors.Is(err, ErrDuplicateAdd) {
		t.Fatalf("expected ErrDuplicateAdd, got %v", err)
	}

	top := b.TopBids(10)
	if len(top) != 1 || top[0].TotalSize != 2 || top[0].OrderCount != 1 {
		t.Fatalf("duplicate add mutated the level: %+v", top)
	}
}

func TestTopKOrderingBidsDescendingAsksAscending(t *testing.T) {
	b := New()
	b.Apply(addEvent(1, event.SideBid, 10_000_000_000, 3))
	b.Apply(addEvent(2, event.SideBid, 11_000_000_000, 4))
	b.Apply(addEvent(3, event.SideBid, 9_000_000_000, 1))

	top := b.TopBids(10)
	wantPrices := []event.Price{11_000_000_000, 10_000_000_000, 9_000_000_000}
	if len(top) != len(wantPrices) {
		t.Fatalf("expected %d levels, got %d", len(wantPrices), len(top))
	}
	for i, want := range wantPrices {
		if top[i].Price != want {
			t.Errorf("level %d: expected price %d, got %d", i, want, top[i].Price)
		}
	}

	b.Apply(addEvent(4, event.SideAsk, 51_000_000_000, 1))
	b.Apply(addEvent(5, event.SideAsk, 50_000_000_000, 1))
	b.Apply(addEvent(6, event.SideAsk, 52_000_000_000, 1))

	askTop := b.TopAsks(10)
	wantAsk := []event.Price{50_000_000_000, 51_000_000_000, 52_000_000_000}
	for i, want := range wantAsk {
		if askTop[i].Price != want {
			t.Errorf("ask level %d: expected price %d, got %d", i, want, askTop[i].Price)
		}
	}
}

func TestTopKIdempotentWithoutInterveningApply(t *testing.T) {
	b := New()
	b.Apply(addEvent(1, event.SideBid, 10_000_000_000, 3))
	b.Apply(addEvent(2, event.SideBid, 11_000_000_000, 4))

	first := append([]LevelView(nil), b.TopBids(10)...)
	second := append([]LevelView(nil), b.TopBids(10)...)

	if len(first) != len(second) {
		t.Fatalf("length mismatch: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("mismatch at %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestApplyInvalidActionIsHardError(t *testing.T) {
	b := New()
	err := b.Apply(&event.MBO{Action: event.Action('Z'), Side: event.SideBid, Price: 1, Size: 1})
	if !errors.Is(err, ErrInvalidEvent) {
		t.Fatalf("expected ErrInvalidEvent, got %v", err)
	}
}

func TestApplyTradeFillNoneAreBookTransparent(t *testing.T) {
	b := New()
	b.Apply(addEvent(1, event.SideBid, 10_000_000_000, 5))
	b.ClearDirty()

	for _, a := range []event.Action{event.ActionTrade, event.ActionFill, event.ActionNone} {
		e := &event.MBO{Action: a, Side: event.SideBid, Price: 10_000_000_000, Size: 1, OrderID: 1}
		if err := b.Apply(e); err != nil {
			t.Fatalf("%c: %v", a, err)
		}
		if b.Dirty() {
			t.Fatalf("%c must not set dirty", a)
		}
	}

	top := b.TopBids(10)
	if len(top) != 1 || top[0].TotalSize != 5 {
		t.Fatalf("trade/fill/none must not mutate the book, got %+v", top)
	}
}

// A Modify sets dirty without clearing it (Modify never emits). A Trade
// that follows before anything consumes the flag inherits it, per Open
// Question 1's resolution: dirty is read, not reset, on every
// non-Clear branch, so it survives a non-emitting Modify.
func TestApplyTradeInheritsDirtyFromPrecedingModify(t *testing.T) {
	b := New()
	b.Apply(addEvent(1, event.SideBid, 10_000_000_000, 5))
	b.ClearDirty()

	modify := &event.MBO{Action: event.ActionModify, Side: event.SideBid, Price: 10_000_000_000, Size: 8, OrderID: 1}
	if err := b.Apply(modify); err != nil {
		t.Fatalf("modify: %v", err)
	}
	if !b.Dirty() {
		t.Fatal("expected modify to set dirty")
	}

	trade := &event.MBO{Action: event.ActionTrade, Side: event.SideBid, Price: 10_000_000_000, Size: 1, OrderID: 1}
	if err := b.Apply(trade); err != nil {
		t.Fatalf("trade: %v", err)
	}
	if !b.Dirty() {
		t.Fatal("expected dirty to still be set after trade inherits the modify's flag")
	}

	top := b.TopBids(10)
	if len(top) != 1 || top[0].TotalSize != 8 {
		t.Fatalf("expected the trade's snapshot to carry the modify's mutation, got %+v", top)
	}
}
