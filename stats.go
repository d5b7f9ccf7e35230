package astrodb

import (
	"log/slog"
	"sync/atomic"
)

// Stats tracks run-wide ingestion counters. Counter fields use atomic
// operations so progress hooks can read a consistent snapshot while the
// extract stage is still producing rows. A Stats belongs to one pipeline run;
// there is no shared or package-level instance.
type Stats struct {
	rowsRead     atomic.Int64
	nonSpatial   atomic.Int64
	bufferMerges atomic.Int64
	storeMerges  atomic.Int64
	inserted     atomic.Int64
	flushes      atomic.Int64
}

// RowsRead returns the number of rows read from the source.
func (s *Stats) RowsRead() int64 { return s.rowsRead.Load() }

// NonSpatial returns the number of records built without usable coordinate
// columns. These records pass through without ever matching spatially.
func (s *Stats) NonSpatial() int64 { return s.nonSpatial.Load() }

// BufferMerges returns the number of merges performed inside the buffer.
func (s *Stats) BufferMerges() int64 { return s.bufferMerges.Load() }

// StoreMerges returns the number of merges against persisted records.
func (s *Stats) StoreMerges() int64 { return s.storeMerges.Load() }

// Inserted returns the number of records accepted by the store.
func (s *Stats) Inserted() int64 { return s.inserted.Load() }

// Flushes returns the number of completed reconcile-and-write passes.
func (s *Stats) Flushes() int64 { return s.flushes.Load() }

// LogValue implements slog.LogValuer for structured logging.
func (s *Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("rows_read", s.RowsRead()),
		slog.Int64("non_spatial", s.NonSpatial()),
		slog.Int64("buffer_merges", s.BufferMerges()),
		slog.Int64("store_merges", s.StoreMerges()),
		slog.Int64("inserted", s.Inserted()),
		slog.Int64("flushes", s.Flushes()),
	)
}

func (s *Stats) incRowsRead(n int64) int64     { return s.rowsRead.Add(n) }
func (s *Stats) incNonSpatial(n int64) int64   { return s.nonSpatial.Add(n) }
func (s *Stats) incBufferMerges(n int64) int64 { return s.bufferMerges.Add(n) }
func (s *Stats) incStoreMerges(n int64) int64  { return s.storeMerges.Add(n) }
func (s *Stats) incInserted(n int64) int64     { return s.inserted.Add(n) }
func (s *Stats) incFlushes(n int64) int64      { return s.flushes.Add(n) }
