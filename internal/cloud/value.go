package cloud

import (
	"encoding/json"
	"fmt"
)

// Kind is the type of a parameter value.
type Kind int

const (
	KindInvalid Kind = iota // zero Value, e.g. a missing JSON field
	KindBool
	KindInt
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindString:
		return "string"
	case KindInvalid:
		return "invalid"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is a tagged parameter value. It encodes to a bare JSON
// bool, number or string.
type Value struct {
	Kind Kind
	B    bool
	I    int
	S    string
}

// Bool returns a bool value.
func Bool(b bool) Value { return Value{Kind: KindBool, B: b} }

// Int returns an int value.
func Int(i int) Value { return Value{Kind: KindInt, I: i} }

// String returns a string value.
func String(s string) Value { return Value{Kind: KindString, S: s} }

func (v Value) String() string {
	switch v.Kind {
	case KindBool:
		return fmt.Sprintf("%t", v.B)
	case KindInt:
		return fmt.Sprintf("%d", v.I)
	case KindString:
		return fmt.Sprintf("%q", v.S)
	default:
		return "<invalid>"
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindBool:
		return json.Marshal(v.B)
	case KindInt:
		return json.Marshal(v.I)
	case KindString:
		return json.Marshal(v.S)
	default:
		return nil, fmt.Errorf("cloud: cannot encode %v", v.Kind)
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch x := raw.(type) {
	case bool:
		*v = Bool(x)
	case string:
		*v = String(x)
	case float64:
		if x != float64(int(x)) {
			return fmt.Errorf("cloud: %v is not an integer", x)
		}
		*v = Int(int(x))
	default:
		return fmt.Errorf("cloud: unsupported value %s", string(data))
	}
	return nil
}
