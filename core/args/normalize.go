package args

import (
	"net/url"
	"strings"
)

// Normalize expands bracket keys into nested structures:
//
//	name[]        -> sequence
//	name[a]       -> {"name": {"a": value}}
//	name[a][b]    -> {"name": {"a": {"b": value}}}
//
// Leaf values of mapping keys are percent-decoded. Keys sharing a base name
// are merged, including into a mapping passed under the plain base name.
// Plain keys pass through unchanged. Keys are processed in sorted
// order, so the result does not depend on map iteration.
func Normalize(in map[string]any) (Args, error) {
	out := make(Args, len(in))
	kinds := make(map[string]keyKind, len(in))

	for _, key := range sortedKeys(in) {
		value := in[key]

		base, path, kind, err := parseKey(key)
		if err != nil {
			return nil, err
		}
		nested, isMap := value.(map[string]any)
		if kind == kindPlain && isMap {
			kind = kindMap
		}

		if prev, seen := kinds[base]; seen && (prev != kindMap || kind != kindMap) {
			return nil, malformed(key, "conflicts with another argument named "+base)
		}
		kinds[base] = kind

		switch kind {
		case kindPlain:
			out[base] = value
		case kindSequence:
			out[base] = toSequence(value)
		case kindMap:
			if path == nil {
				out[base] = cloneMap(nested)
				continue
			}
			root, _ := out[base].(map[string]any)
			if root == nil {
				root = make(map[string]any)
				out[base] = root
			}
			if err := insert(root, path, decodeLeaf(value), key); err != nil {
				return nil, err
			}
		}
	}

	return out, nil
}

// NormalizeValues normalizes url.Values.
func NormalizeValues(v url.Values) (Args, error) {
	return Normalize(FromValues(v))
}

type keyKind int

const (
	kindPlain keyKind = iota
	kindSequence
	kindMap
)

// parseKey splits "base[a][b]" into its base name and path segments.
func parseKey(key string) (string, []string, keyKind, error) {
	open := strings.IndexByte(key, '[')
	if open < 0 {
		if strings.IndexByte(key, ']') >= 0 {
			return "", nil, 0, malformed(key, "unbalanced brackets")
		}
		return key, nil, kindPlain, nil
	}

	base := key[:open]
	if base == "" {
		return "", nil, 0, malformed(key, "empty base name")
	}
	if strings.IndexByte(base, ']') >= 0 {
		return "", nil, 0, malformed(key, "unbalanced brackets")
	}

	var segments []string
	rest := key[open:]
	for rest != "" {
		if rest[0] != '[' {
			return "", nil, 0, malformed(key, "unexpected characters after closing bracket")
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return "", nil, 0, malformed(key, "unbalanced brackets")
		}
		segment := rest[1:end]
		if strings.IndexByte(segment, '[') >= 0 {
			return "", nil, 0, malformed(key, "unbalanced brackets")
		}
		segments = append(segments, segment)
		rest = rest[end+1:]
	}

	if len(segments) == 1 && segments[0] == "" {
		return base, nil, kindSequence, nil
	}
	for _, s := range segments {
		if s == "" {
			return "", nil, 0, malformed(key, "empty segment in nested key")
		}
	}
	return base, segments, kindMap, nil
}

// insert places value at path inside root, creating intermediate mappings.
func insert(root map[string]any, path []string, value any, key string) error {
	node := root
	for _, segment := range path[:len(path)-1] {
		next, exists := node[segment]
		if !exists {
			child := make(map[string]any)
			node[segment] = child
			node = child
			continue
		}
		child, ok := next.(map[string]any)
		if !ok {
			return malformed(key, "conflicts with a value at "+segment)
		}
		node = child
	}

	leaf := path[len(path)-1]
	if _, exists := node[leaf]; exists {
		return malformed(key, "conflicts with a nested value at "+leaf)
	}
	node[leaf] = value
	return nil
}

// cloneMap copies nested mappings so later merges never touch the caller's input.
func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if child, ok := v.(map[string]any); ok {
			v = cloneMap(child)
		}
		out[k] = v
	}
	return out
}

func toSequence(value any) any {
	switch v := value.(type) {
	case []string, []any:
		return v
	case nil:
		return []string{}
	case string:
		return []string{v}
	default:
		return []any{v}
	}
}

func decodeLeaf(value any) any {
	switch v := value.(type) {
	case string:
		return unescape(v)
	case []string:
		out := make([]string, len(v))
		for i, s := range v {
			out[i] = unescape(s)
		}
		return out
	default:
		return v
	}
}

// unescape percent-decodes s, keeping it verbatim when it has invalid escapes.
func unescape(s string) string {
	decoded, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}
