// Package store is the persistent key-value store behind every view. Values
// are JSON documents; keys follow the grammar in package keys.
package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zulandar/pitwall/internal/keys"
)

// ErrDecode marks a stored value that is not valid JSON for its reader.
// Callers propagate it; the store never attempts partial recovery.
var ErrDecode = errors.New("store: decode failure")

// Store is a synchronous key-value store with a category index.
//
// Get reports a missing key with found == false and a nil error. KeysIn
// enumerates the keys of one category in first-write order; keys without a
// category (see keys.Parse) are never indexed.
type Store interface {
	Get(key string) (value json.RawMessage, found bool, err error)
	Set(key string, value any) error
	Delete(key string) error
	Keys() ([]string, error)
	KeysIn(category string) ([]string, error)
	Categories() ([]string, error)
}

// GetJSON reads key and decodes it into v. A missing key leaves v untouched
// and returns found == false.
func GetJSON(s Store, key string, v any) (bool, error) {
	raw, found, err := s.Get(key)
	if err != nil || !found {
		return found, err
	}
	if err := Decode(key, raw, v); err != nil {
		return true, err
	}
	return true, nil
}

// Decode unmarshals raw into v, wrapping failures in ErrDecode.
func Decode(key string, raw json.RawMessage, v any) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDecode, key, err)
	}
	return nil
}

// encode checks the key and serializes a value for storage. Raw JSON is
// accepted as-is once validated.
func encode(key string, value any) (string, error) {
	if err := keys.Check(key); err != nil {
		return "", fmt.Errorf("store: set: %w", err)
	}
	switch v := value.(type) {
	case json.RawMessage:
		if !json.Valid(v) {
			return "", fmt.Errorf("store: set %s: value is not valid JSON", key)
		}
		return string(v), nil
	case []byte:
		return encode(key, json.RawMessage(v))
	}
	data, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("store: set %s: %w", key, err)
	}
	return string(data), nil
}
