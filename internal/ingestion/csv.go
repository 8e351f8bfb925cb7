package ingestion

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"PayLedger/internal/event"

	"github.com/shopspring/decimal"
)

// CSVSource reads a transaction log with a `type,client,tx,amount` header
// and yields one validated event per row. Whitespace around fields is
// trimmed, the type is case-insensitive, and the amount column may be
// absent or empty for dispute-family rows. Any malformed row is a source
// error — the whole run aborts, in contrast to the skip-and-continue
// policy the workers apply to domain errors.
type CSVSource struct {
	r    *csv.Reader
	cols map[string]int
	line int
}

// NewCSVSource reads the header row and prepares the column mapping.
func NewCSVSource(r io.Reader) (*CSVSource, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty input: missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"type", "client", "tx"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	return &CSVSource{r: cr, cols: cols, line: 1}, nil
}

// Next returns the next event, or io.EOF at end of input.
func (s *CSVSource) Next() (event.Event, error) {
	row, err := s.r.Read()
	if err == io.EOF {
		return event.Event{}, io.EOF
	}
	if err != nil {
		return event.Event{}, fmt.Errorf("line %d: %w", s.line+1, err)
	}
	s.line++

	kind, err := event.ParseKind(s.field(row, "type"))
	if err != nil {
		return event.Event{}, fmt.Errorf("line %d: %w", s.line, err)
	}

	client, err := strconv.ParseUint(s.field(row, "client"), 10, 16)
	if err != nil {
		return event.Event{}, fmt.Errorf("line %d: bad client id: %w", s.line, err)
	}

	tx, err := strconv.ParseUint(s.field(row, "tx"), 10, 32)
	if err != nil {
		return event.Event{}, fmt.Errorf("line %d: bad tx id: %w", s.line, err)
	}

	ev := event.Event{
		Kind:   kind,
		Client: event.ClientID(client),
		Tx:     event.TxID(tx),
	}

	if raw := s.field(row, "amount"); raw != "" {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return event.Event{}, fmt.Errorf("line %d: bad amount %q: %w", s.line, raw, err)
		}
		ev.Amount = &amount
	}

	return ev, nil
}

// field returns the trimmed value of a named column, or "" when the column
// is missing from the header or the row is too short.
func (s *CSVSource) field(row []string, name string) string {
	idx, ok := s.cols[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
