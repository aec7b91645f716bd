package formdata

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// Entry is a single posted key/value pair.
type Entry struct {
	Key   string
	Value string
}

// Entries is an ordered multi-map of posted fields. Duplicate keys are kept
// as separate entries in the order they were received.
type Entries []Entry

// Add appends a pair and returns the extended sequence.
func (e Entries) Add(key, value string) Entries {
	return append(e, Entry{Key: key, Value: value})
}

// Get returns the first value stored for key.
func (e Entries) Get(key string) (string, bool) {
	for _, entry := range e {
		if entry.Key == key {
			return entry.Value, true
		}
	}
	return "", false
}

// Has reports whether at least one pair uses key.
func (e Entries) Has(key string) bool {
	_, ok := e.Get(key)
	return ok
}

// Values returns every value stored for key in submission order.
func (e Entries) Values(key string) []string {
	var out []string
	for _, entry := range e {
		if entry.Key == key {
			out = append(out, entry.Value)
		}
	}
	return out
}

// Delete returns a copy without any pair named key. The receiver is not
// modified.
func (e Entries) Delete(key string) Entries {
	out := make(Entries, 0, len(e))
	for _, entry := range e {
		if entry.Key == key {
			continue
		}
		out = append(out, entry)
	}
	return out
}

// Keys returns the distinct keys in first-seen order.
func (e Entries) Keys() []string {
	if len(e) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(e))
	keys := make([]string, 0, len(e))
	for _, entry := range e {
		if _, ok := seen[entry.Key]; ok {
			continue
		}
		seen[entry.Key] = struct{}{}
		keys = append(keys, entry.Key)
	}
	return keys
}

// Clone returns an independent copy.
func (e Entries) Clone() Entries {
	if e == nil {
		return nil
	}
	out := make(Entries, len(e))
	copy(out, e)
	return out
}

// Equal reports whether both sequences hold the same pairs in the same order.
func (e Entries) Equal(other Entries) bool {
	if len(e) != len(other) {
		return false
	}
	for i := range e {
		if e[i] != other[i] {
			return false
		}
	}
	return true
}

// Encode renders the pairs as an application/x-www-form-urlencoded string,
// preserving their order.
func (e Entries) Encode() string {
	if len(e) == 0 {
		return ""
	}
	var b strings.Builder
	for i, entry := range e {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(entry.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(entry.Value))
	}
	return b.String()
}

// MarshalJSON encodes the pairs as an array of two-element arrays, the same
// shape FormData iteration produces in a browser.
func (e Entries) MarshalJSON() ([]byte, error) {
	pairs := make([][2]string, 0, len(e))
	for _, entry := range e {
		pairs = append(pairs, [2]string{entry.Key, entry.Value})
	}
	return json.Marshal(pairs)
}

// UnmarshalJSON decodes the array-of-pairs shape produced by MarshalJSON.
func (e *Entries) UnmarshalJSON(data []byte) error {
	var pairs [][]string
	if err := json.Unmarshal(data, &pairs); err != nil {
		return fmt.Errorf("formdata: decode entries: %w", err)
	}
	out := make(Entries, 0, len(pairs))
	for idx, pair := range pairs {
		if len(pair) != 2 {
			return fmt.Errorf("formdata: entry %d: expected [key, value], got %d items", idx, len(pair))
		}
		out = append(out, Entry{Key: pair[0], Value: pair[1]})
	}
	*e = out
	return nil
}
