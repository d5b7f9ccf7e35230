package astrodb

import "context"

// Progress receives a callback after each completed flush. Implement it to
// log throughput, update a dashboard, or emit metrics while a long ingestion
// runs.
//
// The Stats snapshot is safe to read concurrently. OnFlush runs on the
// pipeline's goroutine between flushes, so avoid blocking I/O inside it.
//
// Example:
//
//	func (r *reporter) OnFlush(ctx context.Context, stats *astrodb.Stats) {
//	    slog.InfoContext(ctx, "progress",
//	        "read", stats.RowsRead(),
//	        "inserted", stats.Inserted(),
//	    )
//	}
type Progress interface {
	// OnFlush is called once after every reconcile-and-write pass, including
	// the final drain.
	OnFlush(ctx context.Context, stats *Stats)
}

// ProgressFunc adapts a plain function to the [Progress] interface.
type ProgressFunc func(ctx context.Context, stats *Stats)

func (f ProgressFunc) OnFlush(ctx context.Context, stats *Stats) { f(ctx, stats) }
