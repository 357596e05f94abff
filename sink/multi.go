package sink

import "mbpbook/mbp"

// Sink is a destination for row-indexed MBP-10 snapshots.
type Sink interface {
	Write(idx uint64, snap mbp.Snapshot) error
	Close() error
}

// Multi fans a single stream of snapshots out to several sinks. Write
// returns the first error encountered but still attempts every sink, so
// one slow or broken destination does not silently starve the others of
// writes they can still accept.
type Multi struct {
	sinks []Sink
}

// NewMulti returns a Sink that fans out to every sink in sinks, in order.
func NewMulti(sinks ...Sink) *Multi {
	return &Multi{sinks: sinks}
}

func (m *Multi) Write(idx uint64, snap mbp.Snapshot) error {
	var first error
	for _, s := range m.sinks {
		if err := s.Write(idx, snap); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m *Multi) Close() error {
	var first error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
