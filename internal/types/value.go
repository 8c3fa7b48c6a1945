package types

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Value is a constant of one of the dialogue types. Only the field that
// matches Kind is meaningful.
type Value struct {
	Kind Kind    `msgpack:"k"`
	Num  float64 `msgpack:"n,omitempty"`
	Str  string  `msgpack:"s,omitempty"`
	Bool bool    `msgpack:"b,omitempty"`
}

func NumberValue(v float64) Value { return Value{Kind: Number, Num: v} }
func StringValue(v string) Value  { return Value{Kind: String, Str: v} }
func BoolValue(v bool) Value      { return Value{Kind: Bool, Bool: v} }

// Zero returns the default value of k: 0, "" or false.
func Zero(k Kind) Value {
	return Value{Kind: k}
}

// IsValid reports whether v carries a type.
func (v Value) IsValid() bool {
	return v.Kind != Invalid
}

// String renders the value the way it appears in dialogue text.
func (v Value) String() string {
	switch v.Kind {
	case Number:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case String:
		return v.Str
	case Bool:
		return strconv.FormatBool(v.Bool)
	}
	return "<invalid>"
}

// Interface returns the Go value: float64, string or bool; nil when invalid.
func (v Value) Interface() any {
	switch v.Kind {
	case Number:
		return v.Num
	case String:
		return v.Str
	case Bool:
		return v.Bool
	}
	return nil
}

// MarshalJSON writes the plain JSON scalar.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// UnmarshalJSON reads a JSON scalar back; the kind follows the JSON type
// and null leaves v invalid.
func (v *Value) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch x := raw.(type) {
	case nil:
		*v = Value{}
	case float64:
		*v = NumberValue(x)
	case string:
		*v = StringValue(x)
	case bool:
		*v = BoolValue(x)
	default:
		return fmt.Errorf("value must be a number, string or bool, got %s", b)
	}
	return nil
}

// AsNumber converts v to a number. Bools convert to 0/1, strings must parse.
func (v Value) AsNumber() (float64, error) {
	switch v.Kind {
	case Number:
		return v.Num, nil
	case String:
		return strconv.ParseFloat(v.Str, 64)
	case Bool:
		if v.Bool {
			return 1, nil
		}
		return 0, nil
	}
	return 0, &CastError{From: v.Kind, To: Number}
}

// AsBool converts v to a bool. Numbers are true when non-zero.
func (v Value) AsBool() (bool, error) {
	switch v.Kind {
	case Number:
		return v.Num != 0, nil
	case String:
		return strconv.ParseBool(v.Str)
	case Bool:
		return v.Bool, nil
	}
	return false, &CastError{From: v.Kind, To: Bool}
}

// Equal compares two values; numbers match within epsilon.
func (v Value) Equal(other Value, epsilon float64) bool {
	if v.Kind != other.Kind {
		return false
	}
	if v.Kind == Number {
		return v.Num == other.Num || math.Abs(v.Num-other.Num) <= epsilon
	}
	return v == other
}

// CastError reports an impossible conversion.
type CastError struct {
	From, To Kind
}

func (e *CastError) Error() string {
	return "cannot convert " + e.From.String() + " to " + e.To.String()
}
