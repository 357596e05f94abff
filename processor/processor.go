// Package processor drives the MBO-to-MBP pipeline: pulls events from a
// source, applies them to an order book, and emits MBP-10 snapshots to a
// sink under the feed's change-gated emission contract.
package processor

import (
	"errors"
	"fmt"
	"io"

	"mbpbook/book"
	"mbpbook/event"
	"mbpbook/ingest"
	"mbpbook/mbp"
)

// Source yields parsed MBO events one at a time, returning io.EOF once
// exhausted.
type Source interface {
	Next() (*event.MBO, error)
}

// Sink is the destination for row-indexed MBP-10 snapshots. Satisfied
// structurally by sink.CSVSink, sink.KafkaSink, and sink.Multi.
type Sink interface {
	Write(idx uint64, snap mbp.Snapshot) error
	Close() error
}

// Recorder observes processor activity for external monitoring.
// Satisfied structurally by metrics.Metrics; nil-safe via NopRecorder.
type Recorder interface {
	IncRecords()
	IncSnapshots()
	IncErrors()
	SetOrders(n int)
}

// NopRecorder discards every observation.
type NopRecorder struct{}

func (NopRecorder) IncRecords()    {}
func (NopRecorder) IncSnapshots()  {}
func (NopRecorder) IncErrors()     {}
func (NopRecorder) SetOrders(int)  {}

// Logger receives per-line diagnostics. Satisfied structurally by
// logging.Adapter, which wraps a zerolog.Logger.
type Logger interface {
	Warn(msg string, err error, fields map[string]any)
}

// ErrSourceFailure wraps a fatal failure reading from the source.
var ErrSourceFailure = errors.New("processor: source failure")

// ErrSinkFailure wraps a fatal failure writing to the sink.
var ErrSinkFailure = errors.New("processor: sink failure")

// Processor owns one Order Book for the lifetime of a single stream and
// drives events from a Source to snapshots on a Sink.
type Processor struct {
	book     *book.OrderBook
	src      Source
	sink     Sink
	log      Logger
	rec      Recorder
	rowIndex uint64
}

// New builds a Processor over an empty order book. log and rec may be
// nil; nil log discards diagnostics, nil rec is treated as NopRecorder.
func New(src Source, snk Sink, log Logger, rec Recorder) *Processor {
	if rec == nil {
		rec = NopRecorder{}
	}
	return &Processor{book: book.New(), src: src, sink: snk, log: log, rec: rec}
}

// Stats reports how many events, snapshots, and skipped errors this run
// has produced so far.
type Stats struct {
	EventsSeen      uint64
	SnapshotsEmitted uint64
	Skipped         uint64
}

// Run drains the source to completion, applying each event to the book
// and emitting snapshots per the gating contract on applyAndMaybeEmit.
// A malformed record is logged and skipped. It returns nil on a clean
// end-of-stream, or a wrapped ErrSourceFailure / ErrSinkFailure on a
// fatal I/O error.
func (p *Processor) Run() (Stats, error) {
	var stats Stats

	for {
		e, err := p.src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if errors.Is(err, ingest.ErrMalformedRecord) {
			stats.EventsSeen++
			p.rec.IncRecords()
			stats.Skipped++
			p.rec.IncErrors()
			if p.log != nil {
				p.log.Warn("malformed record, skipping", err, nil)
			}
			continue
		}
		if err != nil {
			return stats, fmt.Errorf("%w: %v", ErrSourceFailure, err)
		}
		stats.EventsSeen++
		p.rec.IncRecords()

		if err := p.applyAndMaybeEmit(e, &stats); err != nil {
			return stats, err
		}
	}

	if err := p.sink.Close(); err != nil {
		return stats, fmt.Errorf("%w: %v", ErrSinkFailure, err)
	}
	return stats, nil
}

// applyAndMaybeEmit applies one event to the book and emits a snapshot
// when the emission contract is satisfied:
//
//  1. action in {Add, Cancel, Clear, Trade} — Modify never emits though it
//     mutates the book; Fill and None never emit.
//  2. for Add/Cancel/Trade: the book's dirty flag must be set after apply.
//     Trade itself never sets dirty, so it only emits when a prior
//     Modify's dirty flag was never consumed by an intervening emission.
//  3. Clear always emits, unconditionally, reflecting the post-clear
//     (empty) book.
func (p *Processor) applyAndMaybeEmit(e *event.MBO, stats *Stats) error {
	if err := p.book.Apply(e); err != nil {
		p.warn("apply failed, skipping event", err, e)
		stats.Skipped++
		p.rec.IncErrors()
		return nil
	}
	p.rec.SetOrders(p.book.Stats().Orders)

	emit := false
	switch e.Action {
	case event.ActionClear:
		emit = true
	case event.ActionAdd, event.ActionCancel, event.ActionTrade:
		emit = p.book.Dirty()
	}
	if !emit {
		return nil
	}

	bids := p.book.TopBids(event.MBPLevels)
	asks := p.book.TopAsks(event.MBPLevels)
	snap := mbp.Project(e, bids, asks)

	if err := p.sink.Write(p.rowIndex, snap); err != nil {
		return fmt.Errorf("%w: %v", ErrSinkFailure, err)
	}
	p.rowIndex++
	stats.SnapshotsEmitted++
	p.rec.IncSnapshots()
	p.book.ClearDirty()
	return nil
}

func (p *Processor) warn(msg string, err error, e *event.MBO) {
	if p.log == nil {
		return
	}
	p.log.Warn(msg, err, map[string]any{
		"action":   string(e.Action),
		"order_id": uint64(e.OrderID),
		"sequence": e.Sequence,
	})
}
