package ingest

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"

	"mbpbook/event"
)

// CSVSource reads MBO events from a headered CSV stream, one event per
// data row.
type CSVSource struct {
	r      *csv.Reader
	header []string
}

// NewCSVSource wraps r, consuming its header line. Returns an error if the
// header cannot be read at all — a source with no header is unusable. The
// header's column names are not checked.
func NewCSVSource(r io.Reader) (*CSVSource, error) {
	cr := csv.NewReader(bufio.NewReaderSize(r, 64*1024))
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("ingest: reading header: %w", err)
	}
	// ReuseRecord means cr will overwrite header's backing array on the
	// next Read; copy it out so callers can inspect it safely.
	hdr := append([]string(nil), header...)

	return &CSVSource{r: cr, header: hdr}, nil
}

// Header returns the column names read from the first line.
func (s *CSVSource) Header() []string { return s.header }

// Next returns the next parsed event, or io.EOF once the stream is
// exhausted. A row with the wrong field count or an unparseable field
// yields ErrMalformedRecord; callers may choose to skip and continue.
func (s *CSVSource) Next() (*event.MBO, error) {
	fields, err := s.r.Read()
	if err != nil {
		return nil, err
	}
	return parseRecord(fields)
}
