package sink

import (
	"bufio"
	"io"

	"mbpbook/mbp"
)

// flushThreshold is the buffered-output size at which CSVSink flushes to
// its underlying writer, matching the reusable growable byte buffer the
// core's resource model calls for.
const flushThreshold = 64 * 1024

// CSVSink writes MBP-10 snapshots as CSV rows to w, buffering writes and
// flushing once the buffer crosses flushThreshold or on Close.
type CSVSink struct {
	w         *bufio.Writer
	closer    io.Closer
	buffered  int
	wroteHead bool
}

// NewCSVSink wraps w. If w also implements io.Closer, Close closes it too.
func NewCSVSink(w io.Writer) *CSVSink {
	closer, _ := w.(io.Closer)
	return &CSVSink{w: bufio.NewWriterSize(w, flushThreshold), closer: closer}
}

func (s *CSVSink) writeHeader() error {
	if s.wroteHead {
		return nil
	}
	s.wroteHead = true
	_, err := s.w.WriteString(Header)
	return err
}

// Write appends one row for snapshot at row index idx, flushing if the
// buffer has crossed the threshold.
func (s *CSVSink) Write(idx uint64, snap mbp.Snapshot) error {
	if err := s.writeHeader(); err != nil {
		return err
	}
	if _, err := s.w.WriteString(EncodeRow(idx, snap)); err != nil {
		return err
	}
	if s.w.Buffered() >= flushThreshold {
		return s.w.Flush()
	}
	return nil
}

// Close flushes any remaining buffered output and closes the underlying
// writer if it supports it.
func (s *CSVSink) Close() error {
	if err := s.writeHeader(); err != nil {
		return err
	}
	if err := s.w.Flush(); err != nil {
		return err
	}
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}
