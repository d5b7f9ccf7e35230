// Package csv reads delimited-text catalog files as an [astrodb.Source].
//
// The first row is the header; every subsequent row yields one record. Cell
// values are plain text and rely on astrodb's value coercion for typing,
// since delimited text carries no column type codes.
package csv

import (
	"context"
	stdcsv "encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"

	"github.com/JHaller27/astrodb"
)

// Reader is a forward-only delimited-text source. It is not restartable:
// once the row sequence is exhausted or abandoned, reopen the file to read it
// again.
type Reader struct {
	f       *os.File
	r       *stdcsv.Reader
	columns []astrodb.Column
}

// Open opens a delimited catalog file and reads its header row. delim is the
// field separator (',' for CSV, '\t' for TSV).
func Open(path string, delim rune) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", astrodb.ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	r := stdcsv.NewReader(f)
	r.Comma = delim
	r.ReuseRecord = true
	// Catalog exports are not always rectangular; row width is reconciled
	// against the header downstream.
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: reading header of %s: %v", astrodb.ErrSourceFormatInvalid, path, err)
	}

	columns := make([]astrodb.Column, len(header))
	for i, name := range header {
		columns[i] = astrodb.Column{Name: name, Type: astrodb.ColText}
	}

	return &Reader{f: f, r: r, columns: columns}, nil
}

// Columns returns the header columns in file order.
func (r *Reader) Columns() []astrodb.Column { return r.columns }

// Rows yields the data rows after the header.
func (r *Reader) Rows(ctx context.Context) iter.Seq2[astrodb.Row, error] {
	return func(yield func(astrodb.Row, error) bool) {
		for {
			if ctx.Err() != nil {
				return
			}

			cells, err := r.r.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(nil, fmt.Errorf("%w: %v", astrodb.ErrSourceFormatInvalid, err))
				return
			}

			row := make(astrodb.Row, len(cells))
			for i, c := range cells {
				row[i] = c
			}
			if !yield(row, nil) {
				return
			}
		}
	}
}

// Close releases the underlying file.
func (r *Reader) Close() error { return r.f.Close() }
