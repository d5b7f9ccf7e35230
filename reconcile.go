package astrodb

import (
	"context"
	"fmt"
	"log/slog"
	"math"
)

// Reconciler merges a flushed batch against records already persisted in the
// store. It is the only component that reads the store during ingestion.
type Reconciler struct {
	store Store
	log   *slog.Logger
	stats *Stats
}

// NewReconciler returns a reconciler over store. stats may be nil when merge
// counting is not wanted.
func NewReconciler(store Store, log *slog.Logger, stats *Stats) *Reconciler {
	if stats == nil {
		stats = &Stats{}
	}
	return &Reconciler{store: store, log: log, stats: stats}
}

// Reconcile resolves each buffered record against the store and returns the
// final records to write.
//
// For every record with a sky position, the store is queried with the
// record's envelope padded by the threshold on Dec and by the threshold
// widened for meridian convergence on RA (see [searchWindow]). The
// rectangular prefilter is deliberately looser than the circular matching
// radius, so it cannot reject a true match on its own; the exact separation
// test then discards the false positives it lets through. The first candidate
// that passes the exact test is merged into the buffered record and deleted
// from the store. At most one store partner per record per pass, and no
// repeated passes. The delete and the later insert of the survivor are two
// separate store operations, not a transaction.
//
// The prefilter rectangle does not wrap right ascension at 0/360, so
// candidates straddling the RA seam can be missed. Known limitation, carried
// over from the collections this tool has to stay compatible with.
func (r *Reconciler) Reconcile(ctx context.Context, buffered []Record, thresholdArcsec float64) ([]Record, error) {
	if thresholdArcsec <= 0 {
		return buffered, nil
	}

	final := make([]Record, 0, len(buffered))
	pad := thresholdArcsec / arcsecPerDeg

	for _, rec := range buffered {
		env, ok := rec.Envelope()
		if !ok {
			final = append(final, rec)
			continue
		}

		candidates, err := r.store.Query(ctx, searchWindow(env, pad))
		if err != nil {
			return nil, fmt.Errorf("query merge candidates: %w", err)
		}

		for _, cand := range candidates {
			if !Matches(rec, cand, thresholdArcsec) {
				continue
			}
			merged := Merge(rec, cand)
			if err := r.store.DeleteOne(ctx, cand); err != nil {
				return nil, fmt.Errorf("delete merged record: %w", err)
			}
			r.stats.incStoreMerges(1)
			r.log.DebugContext(ctx, "merged with persisted record",
				"record", rec.Provenance,
				"candidate", cand.Provenance,
			)
			rec = merged
			break
		}

		final = append(final, rec)
	}

	return final, nil
}

// searchWindow pads env for the candidate query. Dec is padded by pad
// degrees directly. A fixed span of RA coordinate covers less sky as |Dec|
// grows, so the RA pad is divided by the cosine of the window's highest
// |Dec|, keeping the rectangle at least as wide as the circular matching
// radius everywhere; within a pad of the poles the widening saturates to the
// full RA range.
func searchWindow(env Envelope, pad float64) Envelope {
	out := env.Pad(pad)

	absDec := max(math.Abs(out.DecMin), math.Abs(out.DecMax))
	raPad := 360.0
	if c := math.Cos(absDec * degToRad); c > 0 {
		raPad = min(pad/c, 360)
	}
	out.RAMin = env.RAMin - raPad
	out.RAMax = env.RAMax + raPad
	return out
}
