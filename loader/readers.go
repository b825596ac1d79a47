package loader

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/gfbarbieri/sinkingfund/fund"
)

// Reader parses bill definitions from one input format.
type Reader interface {
	// Read parses every bill definition in the input.
	Read(r io.Reader) ([]*fund.Bill, error)

	// Format names the input format this reader handles.
	Format() string
}

// =============================================================================
// JSON READER
// =============================================================================

// JSONReader parses a JSON array of bill records.
type JSONReader struct{}

func (JSONReader) Format() string { return "json" }

func (JSONReader) Read(r io.Reader) ([]*fund.Bill, error) {
	var records []Record
	dec := json.NewDecoder(r)
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: malformed JSON: %v", fund.ErrInvalidArgument, err)
	}
	return toBills(records)
}

// =============================================================================
// CSV READER
// =============================================================================

// CSVReader parses header-mapped CSV bill definitions. Column order is
// free; unknown columns are ignored; empty cells mean "unset".
type CSVReader struct{}

func (CSVReader) Format() string { return "csv" }

func (CSVReader) Read(r io.Reader) ([]*fund.Bill, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: missing CSV header: %v", fund.ErrInvalidArgument, err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var records []Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: malformed CSV row: %v", fund.ErrInvalidArgument, err)
		}
		rec, err := csvRecord(columns, row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return toBills(records)
}

func csvRecord(columns map[string]int, row []string) (Record, error) {
	cell := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	rec := Record{
		BillID:    cell("bill_id"),
		Service:   cell("service"),
		AmountDue: cell("amount_due"),
		Frequency: cell("frequency"),
	}

	var err error
	if v := cell("recurring"); v != "" {
		rec.Recurring, err = strconv.ParseBool(v)
		if err != nil {
			return Record{}, fmt.Errorf("%w: malformed recurring flag %q", fund.ErrInvalidArgument, v)
		}
	}
	if rec.DueDate, err = csvDate(cell("due_date")); err != nil {
		return Record{}, err
	}
	if rec.StartDate, err = csvDate(cell("start_date")); err != nil {
		return Record{}, err
	}
	if rec.EndDate, err = csvDate(cell("end_date")); err != nil {
		return Record{}, err
	}
	if rec.Interval, err = csvInt(cell("interval")); err != nil {
		return Record{}, err
	}
	if rec.Occurrences, err = csvInt(cell("occurrences")); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func csvDate(s string) (fund.Date, error) {
	if s == "" {
		return fund.Date{}, nil
	}
	return fund.ParseDate(s)
}

func csvInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: malformed integer %q", fund.ErrInvalidArgument, s)
	}
	return n, nil
}

// =============================================================================
// FORMAT REGISTRY
// =============================================================================

// Registry maps format names to readers. Built once by the caller and
// passed where needed; there is no package-level registry.
type Registry struct {
	readers map[string]Reader
}

// NewRegistry returns a registry preloaded with the CSV and JSON readers.
func NewRegistry() *Registry {
	r := &Registry{readers: make(map[string]Reader)}
	r.Register(JSONReader{})
	r.Register(CSVReader{})
	return r
}

// Register adds or replaces a reader under its format name.
func (r *Registry) Register(reader Reader) {
	r.readers[reader.Format()] = reader
}

// ByFormat returns the reader for a format name.
func (r *Registry) ByFormat(format string) (Reader, error) {
	reader, ok := r.readers[strings.ToLower(strings.TrimSpace(format))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", fund.ErrUnknownFormat, format)
	}
	return reader, nil
}

// ByPath returns the reader matching a file path's extension.
func (r *Registry) ByPath(path string) (Reader, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return nil, fmt.Errorf("%w: %q has no extension", fund.ErrUnknownFormat, path)
	}
	return r.ByFormat(ext)
}

// Formats lists the registered format names in sorted order.
func (r *Registry) Formats() []string {
	formats := make([]string, 0, len(r.readers))
	for f := range r.readers {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}
