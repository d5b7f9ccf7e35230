package astrodb

import "log/slog"

// Default configuration values.
const (
	// DefaultBufferSize is the flush threshold: the number of buffered
	// records that triggers a reconcile-and-write pass.
	DefaultBufferSize = 1000

	// DefaultWriteBatch is the maximum number of records per store insert.
	// A flush larger than this is written in chunks.
	DefaultWriteBatch = 500

	// DefaultExtractDepth is the capacity of the channel between the row
	// reader and the merge loop.
	DefaultExtractDepth = 64
)

// Config carries all pipeline settings. It replaces any notion of ambient,
// process-global knobs: a Config is built once at startup and handed to
// [New]; components receive the values they need as parameters.
type Config struct {
	// BufferSize is the flush threshold. Zero selects DefaultBufferSize; a
	// negative value defers every write to the final drain, so the whole
	// source is merged in memory before anything reaches the store.
	BufferSize int

	// SeparationArcsec is the matching threshold. Records whose
	// representative points are within this angular separation are merged.
	// Zero (the default) disables merging entirely.
	SeparationArcsec float64

	// SourceLabel overrides the provenance label for this run. Empty means
	// the opener's default, normally the source file name.
	SourceLabel string

	// IDColumn names the designated external primary key column,
	// case-insensitive. Empty disables primary key extraction.
	IDColumn string

	// WriteBatch caps the records per store insert. Zero selects
	// DefaultWriteBatch.
	WriteBatch int

	// ExtractDepth bounds the reader-to-merger channel. Zero selects
	// DefaultExtractDepth.
	ExtractDepth int

	// Logger receives structured progress and diagnostic output. Nil selects
	// slog.Default().
	Logger *slog.Logger

	// Progress, when non-nil, is invoked after every flush.
	Progress Progress
}

// deferAll reports whether all writes are deferred to the final drain.
func (c Config) deferAll() bool { return c.BufferSize < 0 }

func (c Config) resolveBufferSize() int {
	switch {
	case c.BufferSize < 0:
		return 0 // never flush mid-run
	case c.BufferSize == 0:
		return DefaultBufferSize
	default:
		return c.BufferSize
	}
}

func (c Config) resolveWriteBatch() int {
	if c.WriteBatch > 0 {
		return c.WriteBatch
	}
	return DefaultWriteBatch
}

func (c Config) resolveExtractDepth() int {
	if c.ExtractDepth > 0 {
		return c.ExtractDepth
	}
	return DefaultExtractDepth
}

func (c Config) resolveLogger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
