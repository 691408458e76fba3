// Package entity provides base types shared by directory entities.
package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// Attributes holds free-form directory attributes. Identity directories store
// every attribute as a list of strings, so this mirrors that shape.
// Implements sql.Scanner and driver.Valuer for PostgreSQL JSONB mapping.
type Attributes map[string][]string

// Scan implements sql.Scanner for reading from PostgreSQL JSONB.
func (a *Attributes) Scan(src any) error {
	if src == nil {
		*a = nil
		return nil
	}

	var source []byte
	switch v := src.(type) {
	case []byte:
		source = v
	case string:
		source = []byte(v)
	default:
		return fmt.Errorf("unsupported type for Attributes: %T", src)
	}

	if len(source) == 0 {
		*a = nil
		return nil
	}

	var result map[string][]string
	if err := json.Unmarshal(source, &result); err != nil {
		return fmt.Errorf("failed to decode Attributes: %w", err)
	}

	*a = result
	return nil
}

// Value implements driver.Valuer for writing to PostgreSQL JSONB.
func (a Attributes) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	return json.Marshal(a)
}

// First returns the first value of key or empty string.
func (a Attributes) First(key string) string {
	if vals := a[key]; len(vals) > 0 {
		return vals[0]
	}
	return ""
}

// Has checks if key exists.
func (a Attributes) Has(key string) bool {
	_, ok := a[key]
	return ok
}

// Set replaces all values of key. Returns self for chaining.
func (a *Attributes) Set(key string, values ...string) *Attributes {
	if *a == nil {
		*a = make(Attributes)
	}
	(*a)[key] = values
	return a
}

// Add appends a value to key unless it is already present.
func (a *Attributes) Add(key, value string) *Attributes {
	if *a == nil {
		*a = make(Attributes)
	}
	if !slices.Contains((*a)[key], value) {
		(*a)[key] = append((*a)[key], value)
	}
	return a
}

// Clone creates a deep copy.
func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}
	result := make(Attributes, len(a))
	for k, v := range maps.All(a) {
		result[k] = slices.Clone(v)
	}
	return result
}
