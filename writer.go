package astrodb

import (
	"context"
	"fmt"
	"log/slog"
)

// Writer performs the batch insert that ends every flush. Large flushes are
// split into chunks of at most maxBatch records so a single insert stays
// within the store's document-count and payload limits.
type Writer struct {
	store    Store
	maxBatch int
	log      *slog.Logger
}

// NewWriter returns a writer over store writing at most maxBatch records per
// insert.
func NewWriter(store Store, maxBatch int, log *slog.Logger) *Writer {
	if maxBatch <= 0 {
		maxBatch = DefaultWriteBatch
	}
	return &Writer{store: store, maxBatch: maxBatch, log: log}
}

// Flush writes records to the store and returns the number accepted. A
// rejected insert is fatal for the run: the store does not report per-record
// outcomes for a failed batch, so partial recovery is not attempted. Chunks
// inserted before the failure remain committed.
func (w *Writer) Flush(ctx context.Context, records []Record) (int, error) {
	total := 0
	for _, batch := range chunk(records, w.maxBatch) {
		n, err := w.store.InsertMany(ctx, batch)
		total += n
		if err != nil {
			return total, fmt.Errorf("insert %d records: %w", len(batch), err)
		}
		w.log.DebugContext(ctx, "wrote chunk", "records", n)
	}
	return total, nil
}

// chunk splits a slice into sub-slices of at most size elements.
func chunk[T any](items []T, size int) [][]T {
	if len(items) == 0 || size <= 0 {
		return nil
	}

	numChunks := (len(items) + size - 1) / size
	result := make([][]T, 0, numChunks)

	for i := 0; i < len(items); i += size {
		end := min(i+size, len(items))
		result = append(result, items[i:end])
	}

	return result
}
