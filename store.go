package astrodb

import "context"

// Store is the persistent document store the pipeline writes into. The store
// is shared and externally owned; the pipeline is assumed to be its only
// writer for the duration of a run, but no locking is provided and the
// delete-then-insert merge sequence is not atomic against concurrent writers.
type Store interface {
	// Query returns every persisted record whose stored envelope intersects
	// the given rectangle, bounds inclusive.
	Query(ctx context.Context, env Envelope) ([]Record, error)

	// InsertMany performs a batch insert and returns the number of records
	// accepted. A rejected batch fails as a whole; per-record outcomes are
	// not separable.
	InsertMany(ctx context.Context, records []Record) (int, error)

	// DeleteOne removes a previously queried record, identified by its
	// provenance list.
	DeleteOne(ctx context.Context, record Record) error
}
