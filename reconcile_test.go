package astrodb_test

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JHaller27/astrodb"
)

// =============================================================================
// Fake Store
// =============================================================================

// fakeStore is an in-memory Store whose Query applies the same inclusive
// envelope-intersection semantics the real adapter implements server-side.
type fakeStore struct {
	records []astrodb.Record

	queries   []astrodb.Envelope
	deletes   []astrodb.Record
	inserts   [][]astrodb.Record
	insertErr error
	queryErr  error
}

func (s *fakeStore) Query(_ context.Context, env astrodb.Envelope) ([]astrodb.Record, error) {
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	s.queries = append(s.queries, env)

	var out []astrodb.Record
	for _, rec := range s.records {
		re, ok := rec.Envelope()
		if !ok {
			continue
		}
		if re.RAMin <= env.RAMax && re.RAMax >= env.RAMin &&
			re.DecMin <= env.DecMax && re.DecMax >= env.DecMin {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *fakeStore) InsertMany(_ context.Context, records []astrodb.Record) (int, error) {
	if s.insertErr != nil {
		return 0, s.insertErr
	}
	s.inserts = append(s.inserts, slices.Clone(records))
	s.records = append(s.records, records...)
	return len(records), nil
}

func (s *fakeStore) DeleteOne(_ context.Context, record astrodb.Record) error {
	s.deletes = append(s.deletes, record)
	for i, rec := range s.records {
		if slices.Equal(rec.Provenance, record.Provenance) {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return nil
		}
	}
	return nil
}

// inserted flattens every insert batch the store accepted.
func (s *fakeStore) inserted() []astrodb.Record {
	var out []astrodb.Record
	for _, batch := range s.inserts {
		out = append(out, batch...)
	}
	return out
}

func discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// =============================================================================
// Reconciler
// =============================================================================

func TestReconciler_MergesWithPersistedCandidate(t *testing.T) {
	store := &fakeStore{records: []astrodb.Record{detection("old_0", 10.00000, 20.00000)}}
	var stats astrodb.Stats
	r := astrodb.NewReconciler(store, discard(), &stats)

	buffered := []astrodb.Record{detection("new_0", 10.00028, 20.00028)}
	final, err := r.Reconcile(context.Background(), buffered, 2.0)
	require.NoError(t, err)

	require.Len(t, final, 1)
	require.Equal(t, []string{"new_0", "old_0"}, final[0].Provenance)

	// The matched candidate was deleted; its replacement is not yet written.
	require.Len(t, store.deletes, 1)
	require.Equal(t, []string{"old_0"}, store.deletes[0].Provenance)
	require.Empty(t, store.records)
	require.Equal(t, int64(1), stats.StoreMerges())
}

func TestReconciler_EmptyCandidateSetPassesThrough(t *testing.T) {
	store := &fakeStore{}
	r := astrodb.NewReconciler(store, discard(), nil)

	buffered := []astrodb.Record{detection("new_0", 10, 20)}
	final, err := r.Reconcile(context.Background(), buffered, 2.0)
	require.NoError(t, err)

	require.Equal(t, buffered, final)
	require.Empty(t, store.deletes)
	require.Len(t, store.queries, 1)
}

func TestReconciler_ZeroThresholdSkipsStoreEntirely(t *testing.T) {
	store := &fakeStore{records: []astrodb.Record{detection("old_0", 10, 20)}}
	r := astrodb.NewReconciler(store, discard(), nil)

	buffered := []astrodb.Record{detection("new_0", 10, 20)}
	final, err := r.Reconcile(context.Background(), buffered, 0)
	require.NoError(t, err)

	require.Equal(t, buffered, final)
	require.Empty(t, store.queries)
	require.Empty(t, store.deletes)
}

func TestReconciler_PrefilterPadsEnvelopeByThreshold(t *testing.T) {
	store := &fakeStore{}
	r := astrodb.NewReconciler(store, discard(), nil)

	_, err := r.Reconcile(context.Background(), []astrodb.Record{detection("n_0", 10, 20)}, 3.6)
	require.NoError(t, err)

	require.Len(t, store.queries, 1)
	q := store.queries[0]
	pad := 3.6 / 3600
	require.InDelta(t, 20-pad, q.DecMin, 1e-12)
	require.InDelta(t, 20+pad, q.DecMax, 1e-12)

	// The RA pad is wider than the Dec pad by the meridian-convergence
	// factor at this declination, never narrower.
	raPad := pad / math.Cos((20+pad)*math.Pi/180)
	require.Greater(t, raPad, pad)
	require.InDelta(t, 10-raPad, q.RAMin, 1e-9)
	require.InDelta(t, 10+raPad, q.RAMax, 1e-9)
}

func TestReconciler_WindowWidensWithDeclination(t *testing.T) {
	// 1.9 arcseconds on the sky at dec 60 spans 3.8 arcseconds of RA
	// coordinate. The candidate window must still reach that far out.
	store := &fakeStore{records: []astrodb.Record{detection("old_0", 10+3.8/3600, 60)}}
	var stats astrodb.Stats
	r := astrodb.NewReconciler(store, discard(), &stats)

	final, err := r.Reconcile(context.Background(), []astrodb.Record{detection("new_0", 10, 60)}, 2.0)
	require.NoError(t, err)

	require.Len(t, final, 1)
	require.Equal(t, []string{"new_0", "old_0"}, final[0].Provenance)
	require.Len(t, store.deletes, 1)
	require.Equal(t, int64(1), stats.StoreMerges())
}

func TestReconciler_RejectsPrefilterFalsePositives(t *testing.T) {
	// Inside the padded rectangle's corner but outside the circular radius.
	store := &fakeStore{records: []astrodb.Record{
		detection("old_0", 10+1.9/3600, 20+1.9/3600),
	}}
	r := astrodb.NewReconciler(store, discard(), nil)

	final, err := r.Reconcile(context.Background(), []astrodb.Record{detection("n_0", 10, 20)}, 2.0)
	require.NoError(t, err)

	require.Len(t, final, 1)
	require.Equal(t, []string{"n_0"}, final[0].Provenance)
	require.Empty(t, store.deletes)
}

func TestReconciler_AtMostOneStorePartnerPerPass(t *testing.T) {
	store := &fakeStore{records: []astrodb.Record{
		detection("old_0", 10.00000, 20.00000),
		detection("old_1", 10.00010, 20.00010),
	}}
	var stats astrodb.Stats
	r := astrodb.NewReconciler(store, discard(), &stats)

	final, err := r.Reconcile(context.Background(), []astrodb.Record{detection("n_0", 10.00005, 20.00005)}, 2.0)
	require.NoError(t, err)

	require.Len(t, final, 1)
	require.Len(t, final[0].Provenance, 2)
	require.Len(t, store.deletes, 1)
	require.Equal(t, int64(1), stats.StoreMerges())
	// The unmatched persisted record is untouched.
	require.Len(t, store.records, 1)
}

func TestReconciler_NonSpatialRecordPassesThrough(t *testing.T) {
	store := &fakeStore{records: []astrodb.Record{detection("old_0", 10, 20)}}
	r := astrodb.NewReconciler(store, discard(), nil)

	buffered := []astrodb.Record{blind("n_0")}
	final, err := r.Reconcile(context.Background(), buffered, 2.0)
	require.NoError(t, err)

	require.Equal(t, buffered, final)
	require.Empty(t, store.queries)
}

func TestReconciler_QueryFailureIsFatal(t *testing.T) {
	boom := errors.New("boom")
	store := &fakeStore{queryErr: boom}
	r := astrodb.NewReconciler(store, discard(), nil)

	_, err := r.Reconcile(context.Background(), []astrodb.Record{detection("n_0", 10, 20)}, 2.0)
	require.ErrorIs(t, err, boom)
}
