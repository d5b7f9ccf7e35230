// Package fits reads FITS binary-table catalogs as an [astrodb.Source].
//
// The first table HDU in the file provides both the column definitions and
// the row data. Cell values arrive natively typed from the FITS decoder, so
// numeric columns skip text coercion entirely.
package fits

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"os"

	"github.com/astrogo/fitsio"

	"github.com/JHaller27/astrodb"
)

// Reader is a forward-only FITS binary-table source. It is not restartable:
// once the row sequence is exhausted or abandoned, reopen the file to read it
// again.
type Reader struct {
	f       *os.File
	fits    *fitsio.File
	table   *fitsio.Table
	columns []astrodb.Column
}

// Open opens a FITS file and locates its first table HDU.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", astrodb.ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	ff, err := fitsio.Open(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %s: %v", astrodb.ErrSourceFormatInvalid, path, err)
	}

	var table *fitsio.Table
	for _, hdu := range ff.HDUs() {
		if t, ok := hdu.(*fitsio.Table); ok {
			table = t
			break
		}
	}
	if table == nil {
		ff.Close()
		f.Close()
		return nil, fmt.Errorf("%w: %s has no table HDU", astrodb.ErrSourceFormatInvalid, path)
	}

	cols := table.Cols()
	columns := make([]astrodb.Column, len(cols))
	for i, c := range cols {
		columns[i] = astrodb.Column{Name: c.Name, Type: formatType(c.Format)}
	}

	return &Reader{f: f, fits: ff, table: table, columns: columns}, nil
}

// Columns returns the table's column descriptors in file order.
func (r *Reader) Columns() []astrodb.Column { return r.columns }

// Rows yields every row of the table.
func (r *Reader) Rows(ctx context.Context) iter.Seq2[astrodb.Row, error] {
	return func(yield func(astrodb.Row, error) bool) {
		rows, err := r.table.Read(0, r.table.NumRows())
		if err != nil {
			yield(nil, fmt.Errorf("%w: reading table: %v", astrodb.ErrSourceFormatInvalid, err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			if ctx.Err() != nil {
				return
			}

			cells := make(map[string]interface{}, len(r.columns))
			if err := rows.Scan(&cells); err != nil {
				yield(nil, fmt.Errorf("%w: scanning row: %v", astrodb.ErrSourceFormatInvalid, err))
				return
			}

			row := make(astrodb.Row, len(r.columns))
			for i, col := range r.columns {
				row[i] = cells[col.Name]
			}
			if !yield(row, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(nil, fmt.Errorf("%w: reading rows: %v", astrodb.ErrSourceFormatInvalid, err))
		}
	}
}

// Close releases the FITS structures and the underlying file.
func (r *Reader) Close() error {
	if err := r.fits.Close(); err != nil {
		r.f.Close()
		return err
	}
	return r.f.Close()
}

// formatType maps a TFORM format code to a column type. The repeat-count
// prefix (e.g. "10A") is skipped; unknown codes degrade to text.
func formatType(format string) astrodb.ColumnType {
	for _, r := range format {
		switch r {
		case 'L':
			return astrodb.ColBool
		case 'X', 'B', 'I', 'J', 'K':
			return astrodb.ColInt
		case 'E', 'D':
			return astrodb.ColFloat
		case 'A':
			return astrodb.ColText
		case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			continue
		default:
			return astrodb.ColText
		}
	}
	return astrodb.ColText
}
