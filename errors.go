package astrodb

import "errors"

// Sentinel errors for the fatal failure classes of an ingestion run. Callers
// match them with errors.Is; lower layers wrap them with context via fmt.Errorf
// and %w.
//
// Missing coordinate columns are deliberately not represented here: a record
// without a sky position is a data condition, not a failure. Such records are
// counted in [Stats.NonSpatial] and pass through the pipeline without ever
// matching anything.
var (
	// ErrSourceNotFound indicates the catalog file does not exist.
	ErrSourceNotFound = errors.New("source not found")

	// ErrSourceFormatInvalid indicates the catalog file exists but could not
	// be parsed in the requested format.
	ErrSourceFormatInvalid = errors.New("source format invalid")

	// ErrStoreConnection indicates the document store could not be reached.
	ErrStoreConnection = errors.New("store connection failed")

	// ErrStoreWrite indicates a batch insert was rejected by the store.
	// The pipeline treats this as fatal for the run; batches written by
	// earlier flushes remain committed.
	ErrStoreWrite = errors.New("store write failed")
)
