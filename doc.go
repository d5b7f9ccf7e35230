// Package astrodb ingests columnar astronomical catalogs into a document
// store while deduplicating detections of the same physical object.
//
// Each catalog row becomes a [Record]: a set of normalized column values
// plus provenance identifying the originating source block. Records whose
// representative sky positions fall within a configurable angular separation
// are merged without losing any constituent row. Merging applies within the
// same file as well as against records persisted by earlier runs.
//
// # Quick start
//
// Open a source, connect a store, and run the pipeline:
//
//	src, err := csv.Open("catalog.csv", ',')
//	if err != nil {
//	    return err
//	}
//	defer src.Close()
//
//	store, err := mongo.Connect(ctx, uri, "astro", "detections", false)
//	if err != nil {
//	    return err
//	}
//	defer store.Close(ctx)
//
//	p := astrodb.New(src, store, astrodb.Config{
//	    BufferSize:       5000,
//	    SeparationArcsec: 2.0,
//	    SourceLabel:      "catalog_csv",
//	})
//	err = p.Run(ctx)
//
// # Matching and merging
//
// Two records match when the great-circle separation between their
// representative points, the midpoints of their RA/Dec envelopes, is
// within the threshold ([Matches]). A threshold of zero disables merging,
// which is the default operating mode.
//
// Merging inside the buffer is greedy and order dependent: each arriving
// record merges with at most the first buffered record it matches
// ([Buffer.Append]). Merging against the store pads the record's envelope by
// the threshold, widened in RA for the convergence of meridians at high
// declination, queries for envelope-intersecting candidates, applies the
// exact separation test, and replaces at most one persisted partner per pass
// ([Reconciler.Reconcile]). Both behaviors are compatibility contracts with
// existing collections, not tunable heuristics.
//
// A merged record keeps every constituent row's full field set under that
// row's provenance identifier; its envelope is re-derived from the raw row
// coordinates on every merge ([Record.Envelope]).
//
// # Collaborators
//
// The pipeline reads rows through the [Source] interface and reaches the
// store only through [Store]. Readers for delimited text and FITS binary
// tables live in the source/csv and source/fits subpackages; the MongoDB
// adapter lives in store/mongo. Records without recognizable RA/Dec columns
// are a counted data condition, not an error: they flow through the pipeline
// and simply never merge.
package astrodb
