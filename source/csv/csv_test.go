package csv_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JHaller27/astrodb"
	"github.com/JHaller27/astrodb/source/csv"
)

func writeFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestOpen_ReadsHeaderAndRows(t *testing.T) {
	path := writeFile(t, "cat.csv", "ID,RA,DEC\n1,10.5,-3.25\n2,11.0,4.0\n")

	src, err := csv.Open(path, ',')
	require.NoError(t, err)
	defer src.Close()

	cols := src.Columns()
	require.Len(t, cols, 3)
	require.Equal(t, "RA", cols[1].Name)
	require.Equal(t, astrodb.ColText, cols[1].Type)

	var rows []astrodb.Row
	for row, err := range src.Rows(context.Background()) {
		require.NoError(t, err)
		rows = append(rows, row)
	}
	require.Len(t, rows, 2)
	require.Equal(t, astrodb.Row{"1", "10.5", "-3.25"}, rows[0])
	require.Equal(t, astrodb.Row{"2", "11.0", "4.0"}, rows[1])
}

func TestOpen_TabDelimited(t *testing.T) {
	path := writeFile(t, "cat.tsv", "RA\tDEC\n1.0\t2.0\n")

	src, err := csv.Open(path, '\t')
	require.NoError(t, err)
	defer src.Close()

	require.Equal(t, []astrodb.Column{
		{Name: "RA", Type: astrodb.ColText},
		{Name: "DEC", Type: astrodb.ColText},
	}, src.Columns())

	for row, err := range src.Rows(context.Background()) {
		require.NoError(t, err)
		require.Equal(t, astrodb.Row{"1.0", "2.0"}, row)
	}
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := csv.Open(filepath.Join(t.TempDir(), "nope.csv"), ',')
	require.ErrorIs(t, err, astrodb.ErrSourceNotFound)
}

func TestOpen_EmptyFileIsFormatInvalid(t *testing.T) {
	path := writeFile(t, "empty.csv", "")
	_, err := csv.Open(path, ',')
	require.ErrorIs(t, err, astrodb.ErrSourceFormatInvalid)
}

func TestRows_RaggedRowsAreTolerated(t *testing.T) {
	// Catalog exports are not always rectangular; the builder reconciles
	// short rows against the header downstream.
	path := writeFile(t, "ragged.csv", "RA,DEC,FLUX\n1.0,2.0\n3.0,4.0,5.0\n")

	src, err := csv.Open(path, ',')
	require.NoError(t, err)
	defer src.Close()

	var rows []astrodb.Row
	for row, err := range src.Rows(context.Background()) {
		require.NoError(t, err)
		rows = append(rows, row)
	}
	require.Len(t, rows, 2)
	require.Len(t, rows[0], 2)
	require.Len(t, rows[1], 3)
}

func TestRows_CancelledContextStopsIteration(t *testing.T) {
	path := writeFile(t, "cat.csv", "RA,DEC\n1.0,2.0\n3.0,4.0\n")

	src, err := csv.Open(path, ',')
	require.NoError(t, err)
	defer src.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	count := 0
	for range src.Rows(ctx) {
		count++
	}
	require.Zero(t, count)
}
