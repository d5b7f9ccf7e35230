package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JHaller27/astrodb"
)

func TestBufferFlag(t *testing.T) {
	// Zero and negative both mean "hold everything until the drain".
	require.Equal(t, -1, bufferFlag(0))
	require.Equal(t, -1, bufferFlag(-5))
	require.Equal(t, 250, bufferFlag(250))
}

func TestDelimRune(t *testing.T) {
	for _, s := range []string{"\\t", "tab"} {
		d, err := delimRune(s)
		require.NoError(t, err)
		require.Equal(t, '\t', d)
	}

	d, err := delimRune("|")
	require.NoError(t, err)
	require.Equal(t, '|', d)

	_, err = delimRune("ab")
	require.ErrorIs(t, err, astrodb.ErrSourceFormatInvalid)
}

func TestOpenSource_UnknownFormat(t *testing.T) {
	_, err := openSource("cat.csv", "xml", ",")
	require.ErrorIs(t, err, astrodb.ErrSourceFormatInvalid)
}
