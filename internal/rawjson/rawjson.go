// Package rawjson decodes loosely shaped backend payloads without losing key
// order or numeric precision.
//
// Objects decode to *Record, arrays to []any, numbers to json.Number, and
// strings, booleans and null to their plain Go values.
package rawjson

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrTrailingData is returned when a payload holds more than one JSON value.
var ErrTrailingData = errors.New("rawjson: trailing data after top-level value")

// Record is a JSON object that remembers the order its keys appeared in.
// The zero value is an empty record ready to use.
type Record struct {
	keys   []string
	values map[string]any
}

// NewRecord creates an empty Record.
func NewRecord() *Record {
	return &Record{values: make(map[string]any)}
}

// Len returns the number of keys.
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// Keys returns the keys in insertion order.
func (r *Record) Keys() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Get returns the value stored under key (exact match).
func (r *Record) Get(key string) (any, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r.values[key]
	return v, ok
}

// Set stores v under key. A new key goes to the end; an existing key keeps
// its position and takes the new value.
func (r *Record) Set(key string, v any) {
	if r.values == nil {
		r.values = make(map[string]any)
	}
	if _, exists := r.values[key]; !exists {
		r.keys = append(r.keys, key)
	}
	r.values[key] = v
}

// MarshalJSON writes the record with its original key order.
func (r *Record) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, fmt.Errorf("marshal %q: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON replaces the record's contents with a decoded JSON object.
func (r *Record) UnmarshalJSON(data []byte) error {
	v, err := Decode(data)
	if err != nil {
		return err
	}
	rec, ok := v.(*Record)
	if !ok {
		return fmt.Errorf("rawjson: expected object, got %T", v)
	}
	*r = *rec
	return nil
}

// AsRecord reports whether v is a non-nil *Record.
func AsRecord(v any) (*Record, bool) {
	rec, ok := v.(*Record)
	if !ok || rec == nil {
		return nil, false
	}
	return rec, true
}

// Decode parses exactly one JSON value from data.
func Decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := readValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, ErrTrailingData
	}
	return v, nil
}

func readValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		rec := NewRecord()
		for dec.More() {
			kt, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := kt.(string)
			if !ok {
				return nil, fmt.Errorf("rawjson: object key is %T", kt)
			}
			v, err := readValue(dec)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", key, err)
			}
			rec.Set(key, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return rec, nil

	case '[':
		arr := make([]any, 0)
		for dec.More() {
			v, err := readValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	}

	return nil, fmt.Errorf("rawjson: unexpected delimiter %q", delim)
}

// Into copies a decoded value into dst (a pointer) through encoding/json.
// Numbers keep their full precision on the way through. Fields that fail to
// convert are left zero and reported in the returned error.
func Into(v any, dst any) error {
	buf, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(buf, dst)
}
