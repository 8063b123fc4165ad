// Package extrafield models the per-project custom receipt fields: the schema a
// project declares and the values a receipt carries for it.
package extrafield

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// FieldType is the declared type of an extra field
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeNumber  FieldType = "number"
	TypeBoolean FieldType = "boolean"
	TypeDate    FieldType = "date"
	TypeEnum    FieldType = "enum"
)

// IsSupported reports whether the validator knows how to check t
func (t FieldType) IsSupported() bool {
	switch t {
	case TypeString, TypeNumber, TypeBoolean, TypeDate, TypeEnum:
		return true
	}
	return false
}

// FieldDefinition declares one extra field of a project's receipts
type FieldDefinition struct {
	Key      string    `json:"key"`
	Label    string    `json:"label,omitempty"`
	Type     FieldType `json:"type"`
	Required bool      `json:"required"`
	Options  []string  `json:"options,omitempty"`
}

// Schema is the ordered list of field definitions for a project. It is stored
// as serialized JSON text and only interpreted when a receipt is validated or
// rendered.
type Schema []FieldDefinition

// Lookup returns the definition for key
func (s Schema) Lookup(key string) (FieldDefinition, bool) {
	for _, def := range s {
		if def.Key == key {
			return def, true
		}
	}
	return FieldDefinition{}, false
}

// Value implements driver.Valuer
func (s Schema) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (s *Schema) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*s = Schema{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("extrafield: unsupported schema column type")
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		*s = Schema{}
		return nil
	}
	var out Schema
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("extrafield: decode schema: %w", err)
	}
	if out == nil {
		out = Schema{}
	}
	*s = out
	return nil
}

// ValidateSchema checks a schema before it is saved on a project: keys must be
// non-blank and unique, types supported, and enum fields must list options.
func ValidateSchema(schema Schema) error {
	seen := make(map[string]struct{}, len(schema))
	for i, def := range schema {
		key := strings.TrimSpace(def.Key)
		if key == "" {
			return &ValidationError{Field: fmt.Sprintf("[%d].key", i), Reason: "field key is required"}
		}
		if _, dup := seen[key]; dup {
			return &ValidationError{Field: key, Reason: "duplicate field key: " + key}
		}
		seen[key] = struct{}{}

		if !def.Type.IsSupported() {
			return &ValidationError{Field: key, Reason: "unsupported field type: " + string(def.Type)}
		}
		if def.Type == TypeEnum && len(def.Options) == 0 {
			return &ValidationError{Field: key, Reason: "enum field " + key + " must declare options"}
		}
	}
	return nil
}
