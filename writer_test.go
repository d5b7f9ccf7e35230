package astrodb_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JHaller27/astrodb"
)

func TestWriter_SingleBatch(t *testing.T) {
	store := &fakeStore{}
	w := astrodb.NewWriter(store, 10, discard())

	n, err := w.Flush(context.Background(), []astrodb.Record{
		detection("a_0", 1, 1),
		detection("b_0", 2, 2),
	})
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Len(t, store.inserts, 1)
}

func TestWriter_ChunksLargeFlushes(t *testing.T) {
	store := &fakeStore{}
	w := astrodb.NewWriter(store, 2, discard())

	records := []astrodb.Record{
		detection("a_0", 1, 1),
		detection("b_0", 2, 2),
		detection("c_0", 3, 3),
		detection("d_0", 4, 4),
		detection("e_0", 5, 5),
	}
	n, err := w.Flush(context.Background(), records)
	require.NoError(t, err)
	require.Equal(t, 5, n)

	require.Len(t, store.inserts, 3)
	require.Len(t, store.inserts[0], 2)
	require.Len(t, store.inserts[1], 2)
	require.Len(t, store.inserts[2], 1)

	// Source order survives chunking.
	got := store.inserted()
	require.Equal(t, []string{"a_0"}, got[0].Provenance)
	require.Equal(t, []string{"e_0"}, got[4].Provenance)
}

func TestWriter_EmptyFlush(t *testing.T) {
	store := &fakeStore{}
	w := astrodb.NewWriter(store, 10, discard())

	n, err := w.Flush(context.Background(), nil)
	require.NoError(t, err)
	require.Zero(t, n)
	require.Empty(t, store.inserts)
}

func TestWriter_InsertFailureIsFatal(t *testing.T) {
	store := &fakeStore{insertErr: astrodb.ErrStoreWrite}
	w := astrodb.NewWriter(store, 10, discard())

	_, err := w.Flush(context.Background(), []astrodb.Record{detection("a_0", 1, 1)})
	require.ErrorIs(t, err, astrodb.ErrStoreWrite)
}
