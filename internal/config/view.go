package config

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Get returns the setting at a dot-path key as a display string.
func (s Settings) Get(key string) (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("encode settings: %w", err)
	}
	res := gjson.GetBytes(data, key)
	if !res.Exists() {
		return "", fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return res.String(), nil
}

// Set updates the setting at a dot-path key from its string form,
// converting to the setting's current type. The receiver is replaced
// wholesale so validation sees the full picture.
func (s *Settings) Set(key, value string) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	cur := gjson.GetBytes(data, key)
	if !cur.Exists() {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}

	var typed any
	switch cur.Type {
	case gjson.Number:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %q is not a number", ErrInvalidValue, value)
		}
		typed = n
	case gjson.True, gjson.False:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %q is not a boolean", ErrInvalidValue, value)
		}
		typed = b
	default:
		typed = value
	}

	updated, err := sjson.SetBytes(data, key, typed)
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}

	var next Settings
	if err := json.Unmarshal(updated, &next); err != nil {
		return fmt.Errorf("decode settings: %w", err)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*s = next
	return nil
}

// Keys returns every dot-path key in sorted order.
func (s Settings) Keys() []string {
	data, err := json.Marshal(s)
	if err != nil {
		return nil
	}
	var keys []string
	gjson.ParseBytes(data).ForEach(func(k, _ gjson.Result) bool {
		keys = append(keys, k.String())
		return true
	})
	sort.Strings(keys)
	return keys
}
