package astrodb_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JHaller27/astrodb"
)

func TestCoerce_Floats(t *testing.T) {
	for _, raw := range []string{"3.5", "-2.5", "+0.25", ".5", "10.", "6.02e23", "-1.5E-3", "5e3"} {
		v := astrodb.Coerce(raw)
		require.Equal(t, astrodb.KindFloat, v.Kind(), "raw=%q", raw)
	}

	v := astrodb.Coerce("20.00028")
	f, ok := v.Float()
	require.True(t, ok)
	require.InDelta(t, 20.00028, f, 1e-12)
}

func TestCoerce_Integers(t *testing.T) {
	for raw, want := range map[string]int64{
		"0":    0,
		"42":   42,
		"-7":   -7,
		"+5":   5,
		"0042": 42,
	} {
		v := astrodb.Coerce(raw)
		require.Equal(t, astrodb.KindInt, v.Kind(), "raw=%q", raw)
		require.Equal(t, want, v.Int(), "raw=%q", raw)
	}
}

func TestCoerce_Text(t *testing.T) {
	for _, raw := range []string{"", "abc", "nan", "inf", "1.2.3", "12abc", "--5", "1 000"} {
		v := astrodb.Coerce(raw)
		require.Equal(t, astrodb.KindText, v.Kind(), "raw=%q", raw)
		require.Equal(t, raw, v.String(), "raw=%q", raw)
	}
}

func TestCoerce_IntegerOverflowDemotesToText(t *testing.T) {
	v := astrodb.Coerce("9223372036854775807")
	require.Equal(t, astrodb.KindInt, v.Kind())

	// One past int64 max: kept as text, never truncated.
	v = astrodb.Coerce("9223372036854775808")
	require.Equal(t, astrodb.KindText, v.Kind())
	require.Equal(t, "9223372036854775808", v.String())

	v = astrodb.Coerce("-9223372036854775809")
	require.Equal(t, astrodb.KindText, v.Kind())
}

// Coercion is total: every input maps to exactly one of {Int, Float, Text}.
func TestCoerce_Totality(t *testing.T) {
	inputs := []string{
		"", " ", "\t", "0", "-0", "3.14", "1e10", "1e999", "true", "null",
		"NaN", "Infinity", "0x1F", "1_000", "٣", "10.00028", "-.5e-2", "+.",
	}
	for _, raw := range inputs {
		v := astrodb.Coerce(raw)
		require.Contains(t,
			[]astrodb.Kind{astrodb.KindInt, astrodb.KindFloat, astrodb.KindText},
			v.Kind(), "raw=%q", raw)
	}
}

func TestNormalize_NativeTypes(t *testing.T) {
	require.Equal(t, astrodb.KindInt, astrodb.Normalize(int32(7)).Kind())
	require.Equal(t, astrodb.KindInt, astrodb.Normalize(int64(7)).Kind())
	require.Equal(t, astrodb.KindFloat, astrodb.Normalize(float32(1.5)).Kind())
	require.Equal(t, astrodb.KindFloat, astrodb.Normalize(2.5).Kind())
	require.Equal(t, astrodb.KindBool, astrodb.Normalize(true).Kind())
	require.Equal(t, astrodb.KindText, astrodb.Normalize(nil).Kind())

	// Strings still go through coercion.
	require.Equal(t, astrodb.KindFloat, astrodb.Normalize("3.5").Kind())

	// Already-normalized values pass through untouched.
	v := astrodb.Int(9)
	require.Equal(t, v, astrodb.Normalize(v))
}

func TestValue_Interface(t *testing.T) {
	require.Equal(t, int64(3), astrodb.Int(3).Interface())
	require.Equal(t, 1.5, astrodb.Float(1.5).Interface())
	require.Equal(t, true, astrodb.Bool(true).Interface())
	require.Equal(t, "x", astrodb.Text("x").Interface())
}
