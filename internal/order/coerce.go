package order

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/kiwari-pos/dashboard/internal/rawjson"
)

// asRecord accepts a record or a JSON string encoding one. Anything else,
// including malformed JSON, becomes an empty record.
func asRecord(v any) *rawjson.Record {
	switch t := v.(type) {
	case *rawjson.Record:
		if t != nil {
			return t
		}
	case string:
		parsed, err := rawjson.Decode([]byte(t))
		if err == nil {
			if rec, ok := rawjson.AsRecord(parsed); ok {
				return rec
			}
		}
	}
	return rawjson.NewRecord()
}

// firstPresent returns the value of the first key that exists and is not null.
func firstPresent(rec *rawjson.Record, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := rec.Get(k); ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func field(rec *rawjson.Record, key string) any {
	v, _ := rec.Get(key)
	return v
}

// asInt coerces v to an integer. Unparsable or non-finite input yields 0 and
// fractions are truncated.
func asInt(v any) int64 {
	switch t := v.(type) {
	case json.Number:
		return parseInt(t.String())
	case string:
		return parseInt(t)
	case bool:
		if t {
			return 1
		}
	case int:
		return int64(t)
	case int64:
		return t
	case float64:
		return truncate(t)
	}
	return 0
}

func parseInt(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return truncate(f)
}

func truncate(f float64) int64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	if f > math.MaxInt64 || f < math.MinInt64 {
		return 0
	}
	return int64(f)
}

// asText renders scalars as text. Records, arrays and null become "".
func asText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}

func optionalText(rec *rawjson.Record, keys ...string) *string {
	v, ok := firstPresent(rec, keys...)
	if !ok {
		return nil
	}
	s := asText(v)
	return &s
}

func optionalID(n int64) *int64 {
	if n == 0 {
		return nil
	}
	return &n
}
