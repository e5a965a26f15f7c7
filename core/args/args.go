package args

import (
	"maps"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// Args holds request arguments. Values are strings, string slices, or,
// after normalization, nested map[string]any and sequences.
type Args map[string]any

// FromValues converts url.Values: single values become strings, repeated
// values become []string.
func FromValues(v url.Values) Args {
	out := make(Args, len(v))
	for k, vals := range v {
		switch len(vals) {
		case 0:
			out[k] = ""
		case 1:
			out[k] = vals[0]
		default:
			out[k] = slices.Clone(vals)
		}
	}
	return out
}

// Has reports whether key is present.
func (a Args) Has(key string) bool {
	_, ok := a[key]
	return ok
}

// String returns the value of key as a string. For sequences the first
// element is returned; other types yield "".
func (a Args) String(key string) string {
	switch v := a[key].(type) {
	case string:
		return v
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	case []any:
		if len(v) > 0 {
			if s, ok := v[0].(string); ok {
				return s
			}
		}
	}
	return ""
}

// Strings returns the value of key as a string slice.
func (a Args) Strings(key string) []string {
	switch v := a[key].(type) {
	case string:
		return []string{v}
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// Map returns the nested mapping stored under key, or nil.
func (a Args) Map(key string) map[string]any {
	switch v := a[key].(type) {
	case map[string]any:
		return v
	case Args:
		return v
	}
	return nil
}

// Bool interprets the value of key as a flag. Strings are parsed with
// strconv.ParseBool; "on" and "yes" are also true.
func (a Args) Bool(key string) bool {
	switch v := a[key].(type) {
	case bool:
		return v
	case string:
		return parseFlag(v)
	case []string:
		return len(v) > 0 && parseFlag(v[len(v)-1])
	}
	return false
}

func parseFlag(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "on" || s == "yes" {
		return true
	}
	b, err := strconv.ParseBool(s)
	return err == nil && b
}

// Clone returns a deep copy of a.
func (a Args) Clone() Args {
	if a == nil {
		return Args{}
	}
	out := make(Args, len(a))
	for k, v := range a {
		out[k] = cloneValue(v)
	}
	return out
}

// Without returns a copy of a without keys.
func (a Args) Without(keys ...string) Args {
	out := a.Clone()
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case []string:
		return slices.Clone(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = cloneValue(item)
		}
		return out
	case Args:
		return t.Clone()
	default:
		return v
	}
}

// sortedKeys returns the keys of m in ascending order.
func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
