package contentful

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Fields holds an entry's fields undecoded. Every accessor takes an ordered
// list of candidate field names and returns the first usable value, so a
// renamed field in the content model only needs a new candidate.
type Fields map[string]json.RawMessage

// Raw returns the first candidate that is set and not JSON null.
func (f Fields) Raw(keys ...string) (json.RawMessage, bool) {
	for _, key := range keys {
		raw, ok := f[key]
		if !ok || isNull(raw) {
			continue
		}
		return raw, true
	}
	return nil, false
}

// String returns the first candidate holding a non-blank string, trimmed.
func (f Fields) String(keys ...string) (string, bool) {
	for _, key := range keys {
		var s string
		if err := json.Unmarshal(f[key], &s); err != nil {
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			return s, true
		}
	}
	return "", false
}

// StringOr is String with a fallback.
func (f Fields) StringOr(fallback string, keys ...string) string {
	if s, ok := f.String(keys...); ok {
		return s
	}
	return fallback
}

// Has reports whether any candidate holds a truthy value: a non-blank string,
// true, a non-zero number, a non-empty array or any object.
func (f Fields) Has(keys ...string) bool {
	for _, key := range keys {
		raw, ok := f[key]
		if ok && truthy(raw) {
			return true
		}
	}
	return false
}

// Bool reports whether any candidate is boolean-ish true.
func (f Fields) Bool(keys ...string) bool {
	for _, key := range keys {
		if v, ok := parseBool(f[key]); ok && v {
			return true
		}
	}
	return false
}

// BoolOr returns the value of the first candidate that parses as a boolean,
// or fallback when none does.
func (f Fields) BoolOr(fallback bool, keys ...string) bool {
	for _, key := range keys {
		if v, ok := parseBool(f[key]); ok {
			return v
		}
	}
	return fallback
}

// Number returns the first candidate holding a number or a numeric string.
func (f Fields) Number(keys ...string) (float64, bool) {
	for _, key := range keys {
		if n, ok := ParseNumber(f[key]); ok {
			return n, true
		}
	}
	return 0, false
}

// Strings merges every candidate that is a string or an array of strings.
// Comma separated strings are split. Values are trimmed and de-duplicated,
// keeping first-seen order.
func (f Fields) Strings(keys ...string) []string {
	var out []string
	seen := map[string]bool{}
	add := func(s string) {
		for _, part := range strings.Split(s, ",") {
			part = strings.TrimSpace(part)
			if part == "" || seen[part] {
				continue
			}
			seen[part] = true
			out = append(out, part)
		}
	}

	for _, key := range keys {
		raw, ok := f[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			add(s)
			continue
		}
		var list []json.RawMessage
		if err := json.Unmarshal(raw, &list); err != nil {
			continue
		}
		for _, item := range list {
			var v string
			if err := json.Unmarshal(item, &v); err == nil {
				add(v)
			}
		}
	}
	return out
}

// LinkID returns the target id of the first candidate that is a link.
func (f Fields) LinkID(keys ...string) (string, bool) {
	for _, key := range keys {
		var link Link
		if err := json.Unmarshal(f[key], &link); err != nil {
			continue
		}
		if link.Sys.ID != "" {
			return link.Sys.ID, true
		}
	}
	return "", false
}

// LinkIDs returns the link targets of the first candidate that is a
// non-empty array of links.
func (f Fields) LinkIDs(keys ...string) []string {
	for _, key := range keys {
		var links []Link
		if err := json.Unmarshal(f[key], &links); err != nil {
			continue
		}
		var ids []string
		for _, link := range links {
			if link.Sys.ID != "" {
				ids = append(ids, link.Sys.ID)
			}
		}
		if len(ids) > 0 {
			return ids
		}
	}
	return nil
}

// ParseNumber reads a JSON number or a string holding one. Infinities and
// NaN are rejected.
func ParseNumber(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 || isNull(raw) {
		return 0, false
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0, false
	}
	return n, true
}

func parseBool(raw json.RawMessage) (bool, bool) {
	if len(raw) == 0 || isNull(raw) {
		return false, false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true", "yes", "y", "1", "on":
			return true, true
		case "false", "no", "n", "0", "off":
			return false, true
		}
		return false, false
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n != 0, true
	}
	return false, false
}

func truthy(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || isNull(raw) {
		return false
	}
	switch raw[0] {
	case '"':
		var s string
		return json.Unmarshal(raw, &s) == nil && strings.TrimSpace(s) != ""
	case '[':
		var list []json.RawMessage
		return json.Unmarshal(raw, &list) == nil && len(list) > 0
	case '{':
		return true
	case 't':
		return true
	case 'f':
		return false
	}
	var n float64
	return json.Unmarshal(raw, &n) == nil && n != 0
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
