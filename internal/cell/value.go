// Package cell defines the scalar values a spreadsheet cell can hold once it
// has been decoded: a number, a text string, or nothing at all.
//
// Absent is a real state, not a zero value of the other kinds. A cell that
// was never written, a blank cell and an empty string all decode to Absent,
// and Absent is never turned into "" or 0 on the way back out.
package cell

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Kind classifies a Value.
type Kind uint8

const (
	KindAbsent Kind = iota
	KindNumber
	KindText
)

// String returns the lowercase kind name used in logs and JSON metadata.
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	default:
		return "absent"
	}
}

// Value is a tagged union over the representable cell scalars.
// The zero Value is Absent.
type Value struct {
	kind Kind
	num  float64
	text string
}

// Number returns a numeric Value.
func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// Text returns a text Value. The string is kept verbatim, including
// surrounding whitespace. An empty string is still Text here; decoders are
// responsible for mapping blank cells to Absent.
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Absent returns the Value for a cell with no content.
func Absent() Value {
	return Value{}
}

// Kind reports which variant v holds.
func (v Value) Kind() Kind { return v.kind }

// IsAbsent reports whether v holds no value.
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// Float returns the numeric payload and true when v is a Number.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// Str returns the text payload and true when v is Text.
func (v Value) Str() (string, bool) {
	if v.kind != KindText {
		return "", false
	}
	return v.text, true
}

// Equal reports whether v and o hold the same kind and payload.
// NaN numbers compare equal to each other so that Equal is reflexive.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNumber:
		if math.IsNaN(v.num) && math.IsNaN(o.num) {
			return true
		}
		return v.num == o.num
	case KindText:
		return v.text == o.text
	default:
		return true
	}
}

// Display renders v for humans. Numbers use the shortest decimal form that
// round-trips (10, 10.5, 1e+21), text is returned unchanged and Absent
// renders as the empty string so callers can pick their own placeholder.
func (v Value) Display() string {
	switch v.kind {
	case KindNumber:
		return FormatNumber(v.num)
	case KindText:
		return v.text
	default:
		return ""
	}
}

// String implements fmt.Stringer for debugging output.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return "Number(" + FormatNumber(v.num) + ")"
	case KindText:
		return fmt.Sprintf("Text(%q)", v.text)
	default:
		return "Absent"
	}
}

// FormatNumber renders f the way spreadsheet front ends show a general
// number: plain decimal notation below 1e21, exponent notation above.
func FormatNumber(f float64) string {
	if math.Abs(f) >= 1e21 {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// MarshalJSON encodes numbers as JSON numbers, text as JSON strings and
// Absent as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return nil, fmt.Errorf("cell: cannot encode non-finite number %v as JSON", v.num)
		}
		return []byte(strconv.FormatFloat(v.num, 'g', -1, 64)), nil
	case KindText:
		return json.Marshal(v.text)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch t := raw.(type) {
	case nil:
		*v = Absent()
	case float64:
		*v = Number(t)
	case string:
		*v = Text(t)
	default:
		return fmt.Errorf("cell: unsupported JSON value %s", data)
	}
	return nil
}
