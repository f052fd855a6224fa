package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind identifies which member of the Literal union is set
type Kind int

const (
	KindInteger Kind = iota + 1
	KindFloat
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	}
	return "invalid"
}

// floatTolerance bounds the error accepted when numeric literals are compared
const floatTolerance = 1e-9

// Literal is a constant appearing in an annotation: an integer, a float or a
// quoted string. The zero value is invalid
type Literal struct {
	Kind  Kind
	Int   int64
	Float float64
	Text  string
}

// Int returns an integer literal
func Int(v int64) Literal { return Literal{Kind: KindInteger, Int: v} }

// Float returns a float literal
func Float(v float64) Literal { return Literal{Kind: KindFloat, Float: v} }

// Text returns a string literal
func Text(v string) Literal { return Literal{Kind: KindText, Text: v} }

// IsValid reports whether one of the union members is set
func (l Literal) IsValid() bool {
	return l.Kind == KindInteger || l.Kind == KindFloat || l.Kind == KindText
}

// IsNumeric reports whether the literal is an integer or a float
func (l Literal) IsNumeric() bool {
	return l.Kind == KindInteger || l.Kind == KindFloat
}

// Number returns the numeric value as float64
func (l Literal) Number() float64 {
	if l.Kind == KindInteger {
		return float64(l.Int)
	}
	return l.Float
}

// String spells the literal the way it is written inside an annotation
func (l Literal) String() string {
	switch l.Kind {
	case KindInteger:
		return strconv.FormatInt(l.Int, 10)
	case KindFloat:
		return FormatFloat(l.Float)
	case KindText:
		return QuoteText(l.Text)
	}
	return "<invalid>"
}

// Equal compares two literals. Numbers compare by value across kinds with a
// small tolerance, text compares exactly and never equals a number
func (l Literal) Equal(other Literal) bool {
	switch {
	case l.Kind == KindText && other.Kind == KindText:
		return l.Text == other.Text
	case l.Kind == KindInteger && other.Kind == KindInteger:
		return l.Int == other.Int
	case l.IsNumeric() && other.IsNumeric():
		return floatsEqual(l.Number(), other.Number())
	}
	return false
}

func floatsEqual(a, b float64) bool {
	if a == b {
		return true
	}
	diff := math.Abs(a - b)
	if diff <= floatTolerance {
		return true
	}
	return diff <= floatTolerance*math.Max(math.Abs(a), math.Abs(b))
}

// FormatFloat renders a float so that it always reads back as a float
func FormatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".") {
		s += ".0"
	}
	return s
}

// QuoteText wraps s in single quotes, escaping quotes and backslashes
func QuoteText(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('\'')
	for _, r := range s {
		if r == '\'' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('\'')
	return b.String()
}

// MarshalJSON encodes numbers as JSON numbers (floats keep a decimal point)
// and text as a JSON string
func (l Literal) MarshalJSON() ([]byte, error) {
	switch l.Kind {
	case KindInteger:
		return []byte(strconv.FormatInt(l.Int, 10)), nil
	case KindFloat:
		if math.IsNaN(l.Float) || math.IsInf(l.Float, 0) {
			return nil, fmt.Errorf("float literal %v is not representable in JSON", l.Float)
		}
		return []byte(FormatFloat(l.Float)), nil
	case KindText:
		return json.Marshal(l.Text)
	}
	return []byte("null"), nil
}

// UnmarshalJSON is the inverse of MarshalJSON. A number without a fraction or
// exponent decodes as an integer
func (l *Literal) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = Literal{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = Text(s)
		return nil
	}
	lit, err := LiteralFromNumber(json.Number(data))
	if err != nil {
		return err
	}
	*l = lit
	return nil
}

// LiteralFromNumber converts a decoded JSON number into an integer or float
// literal
func LiteralFromNumber(n json.Number) (Literal, error) {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		i, err := strconv.ParseInt(s, 10, 64)
		if err == nil {
			return Int(i), nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Literal{}, fmt.Errorf("decode number %q: %w", s, err)
	}
	return Float(f), nil
}

// LiteralFromJSON converts a value produced by a json.Decoder with UseNumber
// into a Literal. Only numbers and strings are representable
func LiteralFromJSON(v any) (Literal, error) {
	switch x := v.(type) {
	case json.Number:
		return LiteralFromNumber(x)
	case string:
		return Text(x), nil
	case float64:
		return Float(x), nil
	}
	return Literal{}, fmt.Errorf("value of type %T is not an integer, float or string", v)
}
