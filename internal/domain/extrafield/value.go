package extrafield

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DateLayout is the ISO-8601 calendar date accepted for date fields
const DateLayout = "2006-01-02"

// Kind tags the variant held by a Value
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBoolean
	KindDate
	KindEnum
	// KindOther holds arrays and objects, which no field type accepts.
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindDate:
		return "date"
	case KindEnum:
		return "enum"
	default:
		return "other"
	}
}

// Value is a single extra field value. Strings, dates and enum members share
// the text slot; numbers keep their JSON literal so no precision is lost.
type Value struct {
	kind Kind
	text string
	b    bool
	raw  json.RawMessage
}

// Null is the JSON null value
func Null() Value {
	return Value{kind: KindNull}
}

func String(s string) Value {
	return Value{kind: KindString, text: s}
}

func Bool(b bool) Value {
	return Value{kind: KindBoolean, b: b}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Text returns the textual payload of string, date and enum values
func (v Value) Text() string {
	return v.text
}

func (v Value) BoolVal() bool {
	return v.b
}

// IsTextual reports whether the value was supplied as a JSON string
func (v Value) IsTextual() bool {
	return v.kind == KindString || v.kind == KindDate || v.kind == KindEnum
}

func (v Value) as(kind Kind) Value {
	v.kind = kind
	return v
}

// MarshalJSON implements json.Marshaler
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindBoolean:
		return json.Marshal(v.b)
	case KindNumber:
		return []byte(v.text), nil
	case KindOther:
		if len(v.raw) == 0 {
			return []byte("null"), nil
		}
		return v.raw, nil
	default:
		return json.Marshal(v.text)
	}
}

// UnmarshalJSON implements json.Unmarshaler
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var decoded interface{}
	if err := dec.Decode(&decoded); err != nil {
		return err
	}

	switch x := decoded.(type) {
	case nil:
		*v = Null()
	case string:
		*v = String(x)
	case json.Number:
		*v = Value{kind: KindNumber, text: x.String()}
	case bool:
		*v = Bool(x)
	default:
		raw := make(json.RawMessage, len(data))
		copy(raw, data)
		*v = Value{kind: KindOther, raw: raw}
	}
	return nil
}

// Data is the set of extra field values submitted with a receipt
type Data map[string]Value

// UnmarshalJSON implements json.Unmarshaler. A JSON null decodes to an empty map.
func (d *Data) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*d = Data{}
		return nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Data, len(raw))
	for k, r := range raw {
		var v Value
		if err := v.UnmarshalJSON(r); err != nil {
			return fmt.Errorf("extrafield: decode %q: %w", k, err)
		}
		out[k] = v
	}
	*d = out
	return nil
}

