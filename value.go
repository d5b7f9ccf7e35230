package astrodb

import (
	"fmt"
	"regexp"
	"strconv"
)

// Kind discriminates the variants of a [Value].
type Kind int

const (
	KindText Kind = iota
	KindInt
	KindFloat
	KindBool
)

// String returns a short name for the kind, used in logs and column listings.
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	default:
		return "text"
	}
}

// Value is a tagged union holding one normalized cell value. Exactly one
// variant is populated, indicated by Kind. The zero Value is empty Text.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
	b    bool
}

// Text, Int, Float, and Bool construct values of the corresponding kind.
func Text(s string) Value { return Value{kind: KindText, s: s} }

func Int(i int64) Value { return Value{kind: KindInt, i: i} }

func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Kind reports which variant the value holds.
func (v Value) Kind() Kind { return v.kind }

// Int returns the integer variant. It is only meaningful when Kind is KindInt.
func (v Value) Int() int64 { return v.i }

// Float returns the numeric magnitude of the value: the float variant as-is,
// the integer variant widened, and (0, false) for text and bool.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	default:
		return 0, false
	}
}

// Bool returns the boolean variant. It is only meaningful when Kind is KindBool.
func (v Value) Bool() bool { return v.b }

// String renders the value for display and for text storage.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return v.s
	}
}

// Interface unwraps the value to the native Go type the store drivers expect:
// int64, float64, bool, or string.
func (v Value) Interface() any {
	switch v.kind {
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindBool:
		return v.b
	default:
		return v.s
	}
}

// Signed-decimal and signed-integer cell patterns. A decimal requires a dot
// (with digits on at least one side) or an exponent; a bare digit run is an
// integer. Anything else stays text.
var (
	floatPat = regexp.MustCompile(`^[+-]?((\d+\.\d*|\.\d+)([eE][+-]?\d+)?|\d+[eE][+-]?\d+)$`)
	intPat   = regexp.MustCompile(`^[+-]?\d+$`)
)

// Coerce converts one raw cell into a normalized Value. It is total: every
// input maps to exactly one of {Int, Float, Text}, and it never fails.
//
// Integers that overflow the store's signed 64-bit width are kept as Text
// rather than truncated, so no precision is silently lost.
func Coerce(raw string) Value {
	switch {
	case floatPat.MatchString(raw):
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Text(raw)
		}
		return Float(f)
	case intPat.MatchString(raw):
		i, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			// Out of int64 range: demote, don't truncate.
			return Text(raw)
		}
		return Int(i)
	default:
		return Text(raw)
	}
}

// Normalize converts an arbitrary cell produced by a source reader into a
// Value. Text goes through [Coerce]; native numeric and boolean types map to
// their variant directly. Unrecognized types fall back to their printed form,
// keeping normalization total.
func Normalize(cell any) Value {
	switch c := cell.(type) {
	case Value:
		return c
	case string:
		return Coerce(c)
	case bool:
		return Bool(c)
	case int:
		return Int(int64(c))
	case int8:
		return Int(int64(c))
	case int16:
		return Int(int64(c))
	case int32:
		return Int(int64(c))
	case int64:
		return Int(c)
	case uint8:
		return Int(int64(c))
	case uint16:
		return Int(int64(c))
	case uint32:
		return Int(int64(c))
	case float32:
		return Float(float64(c))
	case float64:
		return Float(c)
	case nil:
		return Text("")
	default:
		return Text(fmt.Sprint(c))
	}
}
