// Package extract finds values in loosely shaped records whose field names
// vary between backend versions.
package extract

import (
	"strings"

	"github.com/kiwari-pos/dashboard/internal/rawjson"
)

// DefaultDepth is the nesting depth searched when callers have no preference.
const DefaultDepth = 3

// FindFirstValue looks for any of keys in source, ignoring case.
//
// Each level is scanned in the record's own key order and the first key that
// matches any candidate wins; the order of keys does not rank candidates.
// Only when a level has no match does the search descend, depth first, into
// nested records with maxDepth-1. Arrays are not searched.
//
// The second result is false when nothing matched, when source is not a
// record, or when maxDepth is negative.
func FindFirstValue(source any, keys []string, maxDepth int) (any, bool) {
	rec, ok := rawjson.AsRecord(source)
	if !ok || maxDepth < 0 {
		return nil, false
	}

	targets := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		targets[strings.ToLower(k)] = struct{}{}
	}
	return find(rec, targets, maxDepth)
}

func find(rec *rawjson.Record, targets map[string]struct{}, depth int) (any, bool) {
	keys := rec.Keys()
	for _, k := range keys {
		if _, hit := targets[strings.ToLower(k)]; hit {
			v, _ := rec.Get(k)
			return v, true
		}
	}

	if depth == 0 {
		return nil, false
	}

	for _, k := range keys {
		v, _ := rec.Get(k)
		nested, ok := rawjson.AsRecord(v)
		if !ok {
			continue
		}
		if found, ok := find(nested, targets, depth-1); ok {
			return found, true
		}
	}
	return nil, false
}
