package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/pierrec/lz4/v4"
	"github.com/sheikh-saqib/transactions-engine/internal/models"
)

var (
	// ErrSourceUnreadable aborts the whole run.
	ErrSourceUnreadable = errors.New("source unreadable")
	// ErrMalformedRecord only affects the offending row.
	ErrMalformedRecord = errors.New("malformed record")
)

var requiredColumns = []string{"type", "client", "tx"}

// Open opens the input file, transparently decompressing .gz and .lz4 sources.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnreadable, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("%w: %s: %w", ErrSourceUnreadable, path, err)
		}
		return &source{Reader: zr, closers: []io.Closer{zr, f}}, nil
	case ".lz4":
		return &source{Reader: lz4.NewReader(f), closers: []io.Closer{f}}, nil
	default:
		return f, nil
	}
}

// source closes a decompressor and its underlying file together.
type source struct {
	io.Reader
	closers []io.Closer
}

func (s *source) Close() error {
	var errs []error
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Reader yields raw transaction records from a CSV stream with a header row.
// Fields are whitespace-trimmed and rows may leave out trailing columns.
type Reader struct {
	csv     *csv.Reader
	columns map[string]int
	line    int
	empty   bool
}

// NewReader consumes the header row of r.
func NewReader(r io.Reader) (*Reader, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return &Reader{csv: cr, empty: true}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading header: %w", ErrSourceUnreadable, err)
	}

	// spreadsheet exports often prefix the header with a byte order mark
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("%w: header is missing the %q column", ErrSourceUnreadable, name)
		}
	}

	return &Reader{csv: cr, columns: columns, line: 1}, nil
}

// Line returns the input line of the most recently read record.
func (r *Reader) Line() int {
	return r.line
}

// Next returns the next record, or io.EOF at the end of the stream.
// Row-level problems are reported as ErrMalformedRecord and reading may
// continue; anything else wraps ErrSourceUnreadable.
func (r *Reader) Next() (models.Record, error) {
	if r.empty {
		return models.Record{}, io.EOF
	}

	fields, err := r.csv.Read()
	if errors.Is(err, io.EOF) {
		return models.Record{}, io.EOF
	}
	if err != nil {
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			r.line = parseErr.StartLine
			return models.Record{}, fmt.Errorf("%w: line %d: %w", ErrMalformedRecord, parseErr.StartLine, parseErr.Err)
		}
		return models.Record{}, fmt.Errorf("%w: %w", ErrSourceUnreadable, err)
	}
	r.line, _ = r.csv.FieldPos(0)

	record := models.Record{Type: r.field(fields, "type")}

	client, err := strconv.ParseUint(r.field(fields, "client"), 10, 16)
	if err != nil {
		return record, fmt.Errorf("%w: line %d: client: %w", ErrMalformedRecord, r.line, err)
	}
	record.Client = uint16(client)

	tx, err := strconv.ParseUint(r.field(fields, "tx"), 10, 32)
	if err != nil {
		return record, fmt.Errorf("%w: line %d: tx: %w", ErrMalformedRecord, r.line, err)
	}
	record.Tx = uint32(tx)

	if amount := r.field(fields, "amount"); amount != "" {
		record.Amount = &amount
	}
	return record, nil
}

func (r *Reader) field(fields []string, name string) string {
	i, ok := r.columns[name]
	if !ok || i >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[i])
}
