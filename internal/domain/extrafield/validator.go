package extrafield

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// ValidationError describes why extra data or a schema was rejected
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Validate checks data against schema and returns the data with date and enum
// values tagged by their declared type. It holds no state and is run again for
// every receipt because a project may change its schema at any time.
func Validate(schema Schema, data Data) (Data, error) {
	if len(schema) == 0 {
		if len(data) == 0 {
			return Data{}, nil
		}
		return nil, invalid("", "extra data not permitted")
	}

	for _, def := range schema {
		if !def.Required {
			continue
		}
		v, ok := data[def.Key]
		if !ok {
			return nil, invalid(def.Key, "missing required field: %s", def.Key)
		}
		if v.IsNull() {
			return nil, invalid(def.Key, "required field is null: %s", def.Key)
		}
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, ok := schema.Lookup(k); !ok {
			return nil, invalid(k, "unknown field: %s", k)
		}
	}

	out := make(Data, len(data))
	for _, def := range schema {
		v, ok := data[def.Key]
		if !ok {
			continue
		}
		if v.IsNull() {
			out[def.Key] = v
			continue
		}
		checked, err := checkType(def, v)
		if err != nil {
			return nil, err
		}
		out[def.Key] = checked
	}
	return out, nil
}

func checkType(def FieldDefinition, v Value) (Value, error) {
	switch def.Type {
	case TypeString:
		if v.Kind() != KindString {
			return v, invalid(def.Key, "field %s must be a string", def.Key)
		}
		return v, nil

	case TypeNumber:
		if v.Kind() != KindNumber {
			return v, invalid(def.Key, "field %s must be a number", def.Key)
		}
		return v, nil

	case TypeBoolean:
		if v.Kind() != KindBoolean {
			return v, invalid(def.Key, "field %s must be a boolean", def.Key)
		}
		return v, nil

	case TypeDate:
		if !v.IsTextual() {
			return v, invalid(def.Key, "field %s must be a date string", def.Key)
		}
		if _, err := time.Parse(DateLayout, v.Text()); err != nil {
			return v, invalid(def.Key, "field %s must be an ISO date (yyyy-mm-dd)", def.Key)
		}
		return v.as(KindDate), nil

	case TypeEnum:
		if !v.IsTextual() {
			return v, invalid(def.Key, "field %s must be a string enum", def.Key)
		}
		for _, opt := range def.Options {
			if opt == v.Text() {
				return v.as(KindEnum), nil
			}
		}
		return v, invalid(def.Key, "field %s must be one of [%s]", def.Key, strings.Join(def.Options, ", "))

	default:
		return v, invalid(def.Key, "unsupported field type: %s", def.Type)
	}
}
