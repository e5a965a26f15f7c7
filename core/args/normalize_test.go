package args_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mvc/core/args"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   map[string]any
		want args.Args
	}{
		{
			name: "sequence and mapping",
			in:   map[string]any{"tags[]": "a", "user[name]": "Bob", "user[age]": "30"},
			want: args.Args{"tags": []string{"a"}, "user": map[string]any{"name": "Bob", "age": "30"}},
		},
		{
			name: "sequence passes slices through",
			in:   map[string]any{"ids[]": []string{"1", "2"}},
			want: args.Args{"ids": []string{"1", "2"}},
		},
		{
			name: "deep nesting merges",
			in: map[string]any{
				"f[a][b]": "1",
				"f[a][c]": "2",
				"f[d]":    "3",
			},
			want: args.Args{"f": map[string]any{
				"a": map[string]any{"b": "1", "c": "2"},
				"d": "3",
			}},
		},
		{
			name: "leaf percent-decoded",
			in:   map[string]any{"q[text]": "hello%20world", "q[bad]": "100%"},
			want: args.Args{"q": map[string]any{"text": "hello world", "bad": "100%"}},
		},
		{
			name: "plain keys untouched",
			in:   map[string]any{"page": "2", "raw": "a%20b"},
			want: args.Args{"page": "2", "raw": "a%20b"},
		},
		{
			name: "already nested input",
			in:   map[string]any{"user": map[string]any{"name": "Bob"}, "tags": []string{"a"}},
			want: args.Args{"user": map[string]any{"name": "Bob"}, "tags": []string{"a"}},
		},
		{
			name: "bracket keys merge into nested input",
			in: map[string]any{
				"user":            map[string]any{"name": "Bob", "addr": map[string]any{"city": "Oslo"}},
				"user[age]":       "30",
				"user[addr][zip]": "0150",
			},
			want: args.Args{"user": map[string]any{
				"name": "Bob",
				"age":  "30",
				"addr": map[string]any{"city": "Oslo", "zip": "0150"},
			}},
		},
		{
			name: "empty",
			in:   map[string]any{},
			want: args.Args{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := args.Normalize(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	t.Parallel()

	first, err := args.Normalize(map[string]any{"tags[]": "a", "user[name]": "Bob", "page": "1"})
	require.NoError(t, err)

	second, err := args.Normalize(first)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	user := map[string]any{"name": "Bob"}
	_, err := args.Normalize(map[string]any{"user": user, "user[age]": "30"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "Bob"}, user)
}

func TestNormalize_Malformed(t *testing.T) {
	t.Parallel()

	tests := map[string]map[string]any{
		"unclosed bracket":    {"a[b": "1"},
		"stray closing":       {"a]": "1"},
		"nested open":         {"a[b[c]]": "1"},
		"empty base":          {"[a]": "1"},
		"trailing characters": {"a[b]c": "1"},
		"empty inner segment": {"a[][b]": "1"},
		"scalar and mapping":  {"a": "1", "a[b]": "2"},
		"mapping and leaf":    {"a": map[string]any{"b": "1"}, "a[b]": "2"},
		"sequence and map":    {"a[]": "1", "a[b]": "2"},
		"leaf then branch":    {"a[b]": "1", "a[b][c]": "2"},
	}

	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := args.Normalize(in)
			require.ErrorIs(t, err, args.ErrMalformedArgument)

			var malformed *args.MalformedArgumentError
			require.ErrorAs(t, err, &malformed)
			assert.NotEmpty(t, malformed.Key)
			assert.NotEmpty(t, malformed.Reason)
		})
	}
}

func TestNormalizeValues(t *testing.T) {
	t.Parallel()

	v, err := url.ParseQuery("tags[]=a&tags[]=b&user[name]=Bob&page=3")
	require.NoError(t, err)

	got, err := args.NormalizeValues(v)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got.Strings("tags"))
	assert.Equal(t, "Bob", got.Map("user")["name"])
	assert.Equal(t, "3", got.String("page"))
}
