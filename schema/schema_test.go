package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/commentspec/schema"
	"go.jacobcolvin.com/commentspec/weave"
)

func ptr(f float64) *float64 { return &f }

// serverSchema is shared by several tests:
//
//	# Server
//	name: demo
//	listen:
//	  host: 0.0.0.0
//	  port: 8080
//	servers: []
var serverSchema = &schema.Schema{
	Header: []string{"Server", "#####"},
	Fields: []*schema.Field{
		{Name: "serverName", Comment: "Display name.", Type: schema.TypeString, Default: "demo"},
		{
			Key:     "listen",
			Comment: "Where to listen.\nBoth fields are required.",
			Fields: []*schema.Field{
				{Key: "host", Comment: "Bind host.", Type: schema.TypeString, Default: "0.0.0.0"},
				{Key: "port", Comment: "Bind port.", Type: schema.TypeInteger, Default: 8080, Minimum: ptr(1), Maximum: ptr(65535)},
			},
		},
		{
			Key:     "servers",
			Comment: "Upstreams.",
			Items: &schema.Field{
				Comment: "# One upstream.",
				Fields: []*schema.Field{
					{Key: "host", Type: schema.TypeString},
					{Key: "weight", Comment: "Relative weight.", Type: schema.TypeNumber, Default: 1, Rule: "value > 0"},
				},
			},
		},
		{Key: "debug", Type: schema.TypeBoolean},
	},
}

func TestCamelToKebab(t *testing.T) {
	t.Parallel()

	tcs := map[string]string{
		"":              "",
		"name":          "name",
		"serverName":    "server-name",
		"ServerName":    "server-name",
		"maxHTTPConns":  "max-httpconns",
		"a1B":           "a1b",
		"already-kebab": "already-kebab",
	}

	for in, want := range tcs {
		t.Run(in, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, want, schema.CamelToKebab(in))
		})
	}
}

func TestKebabToCamel(t *testing.T) {
	t.Parallel()

	tcs := map[string]string{
		"":               "",
		"name":           "name",
		"server-name":    "serverName",
		"max-open-conns": "maxOpenConns",
		"trailing-":      "trailing",
	}

	for in, want := range tcs {
		t.Run(in, func(t *testing.T) {
			t.Parallel()

			got := schema.KebabToCamel(in)
			assert.Equal(t, want, got)

			if in != "" && in[len(in)-1] != '-' {
				assert.Equal(t, in, schema.CamelToKebab(got))
			}
		})
	}
}

func TestFieldDocumentKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "explicit", (&schema.Field{Key: "explicit", Name: "otherName"}).DocumentKey())
	assert.Equal(t, "other-name", (&schema.Field{Name: "otherName"}).DocumentKey())
}

func TestOrdered(t *testing.T) {
	t.Parallel()

	fields := []*schema.Field{
		{Key: "c", Order: 2},
		{Key: "a"},
		{Key: "d", Order: 1},
		{Key: "b"},
		{Key: "e", Order: 1},
	}

	var keys []string
	for _, f := range schema.Ordered(fields) {
		keys = append(keys, f.Key)
	}

	assert.Equal(t, []string{"a", "b", "d", "e", "c"}, keys)
	assert.Equal(t, "c", fields[0].Key, "input must not be reordered")
}

func TestCheck(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		schema  *schema.Schema
		wantErr string
	}{
		"valid": {
			schema: serverSchema,
		},
		"missing key": {
			schema:  &schema.Schema{Fields: []*schema.Field{{Comment: "x"}}},
			wantErr: "<root>: field 0 has no key or name",
		},
		"duplicate key": {
			schema: &schema.Schema{Fields: []*schema.Field{
				{Key: "a-b"},
				{Name: "aB"},
			}},
			wantErr: "a-b: duplicate key",
		},
		"duplicate nested key": {
			schema: &schema.Schema{Fields: []*schema.Field{
				{Key: "list", Items: &schema.Field{Fields: []*schema.Field{{Key: "x"}, {Key: "x"}}}},
			}},
			wantErr: "list.<arr>.x: duplicate key",
		},
		"unknown type": {
			schema:  &schema.Schema{Fields: []*schema.Field{{Key: "a", Type: "map"}}},
			wantErr: `a: unknown type "map"`,
		},
		"fields and items": {
			schema: &schema.Schema{Fields: []*schema.Field{
				{Key: "a", Fields: []*schema.Field{{Key: "b"}}, Items: &schema.Field{}},
			}},
			wantErr: "a: both fields and items are set",
		},
		"fields on scalar": {
			schema: &schema.Schema{Fields: []*schema.Field{
				{Key: "a", Type: schema.TypeString, Fields: []*schema.Field{{Key: "b"}}},
			}},
			wantErr: "a: fields set on string",
		},
		"bad bounds": {
			schema: &schema.Schema{Fields: []*schema.Field{
				{Key: "a", Minimum: ptr(2), Maximum: ptr(1)},
			}},
			wantErr: "a: minimum 2 exceeds maximum 1",
		},
		"bad rule": {
			schema: &schema.Schema{Fields: []*schema.Field{
				{Key: "a", Rule: "value >"},
			}},
			wantErr: "a: rule:",
		},
		"comparison rule": {
			schema: &schema.Schema{Fields: []*schema.Field{
				{Key: "port", Type: schema.TypeInteger, Rule: "value > 0"},
			}},
		},
		"member rule": {
			schema: &schema.Schema{Fields: []*schema.Field{
				{Key: "range", Rule: "value.low <= value.high", Fields: []*schema.Field{
					{Key: "low", Type: schema.TypeInteger},
					{Key: "high", Type: schema.TypeInteger},
				}},
			}},
		},
		"string rule": {
			schema: &schema.Schema{Fields: []*schema.Field{
				{Key: "mode", Rule: `value in ["fast", "safe"]`},
			}},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := tc.schema.Check()
			if tc.wantErr == "" {
				require.NoError(t, err)

				return
			}

			require.ErrorIs(t, err, schema.ErrInvalidSchema)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestComments(t *testing.T) {
	t.Parallel()

	table := serverSchema.Comments()

	want := map[string][]string{
		"server-name":          {"# Display name."},
		"listen":               {"", "# Where to listen.", "# Both fields are required."},
		"listen.host":          {"# Bind host."},
		"listen.port":          {"", "# Bind port."},
		"servers":              {"", "# Upstreams."},
		"servers.<arr>":        {"# One upstream."},
		"servers.<arr>.weight": {"", "# Relative weight."},
	}

	assert.Equal(t, len(want), table.Len())

	for path, block := range want {
		got, ok := table.Lookup(path)
		if assert.True(t, ok, path) {
			assert.Equal(t, block, got, path)
		}
	}

	_, ok := table.Lookup("debug")
	assert.False(t, ok)
}

func TestHeaders(t *testing.T) {
	t.Parallel()

	s := &schema.Schema{Header: []string{"# Title", "multi\nline"}}

	assert.Equal(t, []string{"# Title", "multi", "line"}, s.Headers())
	assert.Equal(t, "Title", s.Title())
	assert.Empty(t, (&schema.Schema{}).Title())
	assert.Equal(t, "Server", serverSchema.Title())

	assert.Equal(t, []string{"# Title", "# multi", "# line", ""}, weave.InjectHeader(nil, s.Headers()))
}
