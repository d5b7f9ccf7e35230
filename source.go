package astrodb

import (
	"context"
	"iter"
)

// ColumnType is the static type code a source reader reports for a column.
// It describes the on-disk encoding; cell values are still normalized
// independently by [Normalize], so a reader that cannot type its columns may
// report ColText for everything.
type ColumnType int

const (
	ColText ColumnType = iota
	ColInt
	ColFloat
	ColBool
)

func (t ColumnType) String() string {
	switch t {
	case ColInt:
		return "int"
	case ColFloat:
		return "float"
	case ColBool:
		return "bool"
	default:
		return "text"
	}
}

// Column describes one column of a catalog file. Descriptors are read once
// when the source is opened and are constant for the life of the source.
type Column struct {
	Name string
	Type ColumnType
}

// Row is one raw catalog row, cell values in column order. Cells may be
// strings (delimited text sources) or native numeric types (binary table
// sources); [Normalize] accepts either.
type Row []any

// Source yields the columns and rows of one catalog file.
//
// The row sequence is finite, forward-only, and not restartable: once the
// iterator is exhausted or abandoned, reopening the source is the only way to
// read it again.
type Source interface {
	// Columns returns the column descriptors, in file order.
	Columns() []Column

	// Rows returns the row sequence. A non-nil error yielded alongside a row
	// terminates the sequence; iteration stops early when ctx is cancelled.
	Rows(ctx context.Context) iter.Seq2[Row, error]

	// Close releases the underlying file handle.
	Close() error
}
