package types

import (
	"fmt"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// Kind is the type of a dialogue variable or constant.
type Kind uint8

const (
	Invalid Kind = iota
	Number
	String
	Bool
)

func (k Kind) String() string {
	switch k {
	case Number:
		return "Number"
	case String:
		return "String"
	case Bool:
		return "Bool"
	case Invalid:
		return "Invalid"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// ParseKind resolves a type name from an `as Type` annotation or a manifest.
// Matching ignores case; "Boolean" is accepted as an alias of Bool.
func ParseKind(name string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "number":
		return Number, true
	case "string":
		return String, true
	case "bool", "boolean":
		return Bool, true
	}
	return Invalid, false
}

// MarshalText lets Kind appear by name in JSON and TOML.
func (k Kind) MarshalText() ([]byte, error) {
	if k == Invalid {
		return nil, fmt.Errorf("types: cannot marshal invalid kind")
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	parsed, ok := ParseKind(string(b))
	if !ok {
		return fmt.Errorf("types: unknown type %q", string(b))
	}
	*k = parsed
	return nil
}

// EncodeMsgpack stores the kind as its number, so cache entries never
// depend on the display names.
func (k Kind) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.EncodeUint8(uint8(k))
}

func (k *Kind) DecodeMsgpack(dec *msgpack.Decoder) error {
	v, err := dec.DecodeUint8()
	if err != nil {
		return err
	}
	if Kind(v) > Bool {
		return fmt.Errorf("types: unknown kind %d", v)
	}
	*k = Kind(v)
	return nil
}
