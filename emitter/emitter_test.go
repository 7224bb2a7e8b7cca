package emitter_test

import (
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/commentspec/emitter"
	"go.jacobcolvin.com/commentspec/stringtest"
	"go.jacobcolvin.com/commentspec/weave"
)

// keyLines returns the line of every mapping key, by path.
func keyLines(t *testing.T, em *weave.Emission) map[string][]int {
	t.Helper()

	steps, err := weave.Track(em.Events)
	require.NoError(t, err)

	out := make(map[string][]int)

	for _, s := range steps {
		if s.Anchor {
			p := s.Path.String()
			out[p] = append(out[p], s.Line)
		}
	}

	return out
}

func TestEmit(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		tree       any
		wantGoccy  string
		wantYAMLv3 string
		wantLines  map[string][]int
	}{
		"nested mapping": {
			tree: yaml.MapSlice{
				{Key: "a", Value: yaml.MapSlice{{Key: "b", Value: 1}}},
			},
			wantGoccy: stringtest.Input(`
				a:
				  b: 1
			`),
			wantYAMLv3: stringtest.Input(`
				a:
				  b: 1
			`),
			wantLines: map[string][]int{"a": {0}, "a.b": {1}},
		},
		"key order preserved": {
			tree: yaml.MapSlice{
				{Key: "zeta", Value: 1},
				{Key: "alpha", Value: 2},
			},
			wantGoccy:  stringtest.JoinLF("zeta: 1", "alpha: 2"),
			wantYAMLv3: stringtest.JoinLF("zeta: 1", "alpha: 2"),
			wantLines:  map[string][]int{"zeta": {0}, "alpha": {1}},
		},
		"unordered map sorted": {
			tree:       map[string]any{"b": 1, "a": 2},
			wantGoccy:  stringtest.JoinLF("a: 2", "b: 1"),
			wantYAMLv3: stringtest.JoinLF("a: 2", "b: 1"),
			wantLines:  map[string][]int{"a": {0}, "b": {1}},
		},
		"scalar sequence": {
			tree: yaml.MapSlice{{Key: "items", Value: []any{1, 2, 3}}},
			wantGoccy: stringtest.Input(`
				items:
				- 1
				- 2
				- 3
			`),
			wantYAMLv3: stringtest.Input(`
				items:
				  - 1
				  - 2
				  - 3
			`),
			wantLines: map[string][]int{"items": {0}, "items.<arr>": {1, 2, 3}},
		},
		"sequence of mappings": {
			tree: yaml.MapSlice{{Key: "servers", Value: []any{
				yaml.MapSlice{{Key: "host", Value: "a"}, {Key: "port", Value: 80}},
				yaml.MapSlice{{Key: "host", Value: "b"}},
			}}},
			wantGoccy: stringtest.Input(`
				servers:
				- host: a
				  port: 80
				- host: b
			`),
			wantYAMLv3: stringtest.Input(`
				servers:
				  - host: a
				    port: 80
				  - host: b
			`),
			wantLines: map[string][]int{
				"servers":            {0},
				"servers.<arr>":      {1, 3},
				"servers.<arr>.host": {1, 3},
				"servers.<arr>.port": {2},
			},
		},
		"multi-line string": {
			tree: yaml.MapSlice{
				{Key: "note", Value: "x\ny"},
				{Key: "next", Value: 1},
			},
			wantGoccy: stringtest.Input(`
				note: |-
				  x
				  y
				next: 1
			`),
			wantYAMLv3: stringtest.Input(`
				note: |-
				  x
				  y
				next: 1
			`),
			wantLines: map[string][]int{"note": {0}, "next": {3}},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			for emName, want := range map[string]string{
				emitter.NameGoccy:  tc.wantGoccy,
				emitter.NameYAMLv3: tc.wantYAMLv3,
			} {
				em, err := emitter.New(emName, 2)
				require.NoError(t, err)

				got, err := em.Emit(tc.tree)
				require.NoError(t, err, emName)
				assert.Equal(t, want, stringtest.JoinLF(got.Lines...), emName)
				assert.Equal(t, tc.wantLines, keyLines(t, got), emName)

				last := 0
				for i, ev := range got.Events {
					assert.GreaterOrEqual(t, ev.Line, last, "%s: event %d", emName, i)
					assert.Less(t, ev.Line, len(got.Lines), "%s: event %d", emName, i)
					last = ev.Line
				}
			}
		})
	}
}

func TestGoccyIndent(t *testing.T) {
	t.Parallel()

	tree := yaml.MapSlice{
		{Key: "a", Value: yaml.MapSlice{{Key: "list", Value: []any{"x"}}}},
	}

	got, err := emitter.NewGoccy(emitter.WithIndent(4), emitter.WithIndentSequence(true)).Emit(tree)
	require.NoError(t, err)
	assert.Equal(t, stringtest.Input(`
		a:
		    list:
		        - x
	`), stringtest.JoinLF(got.Lines...))
}

func TestEmitEvents(t *testing.T) {
	t.Parallel()

	tree := yaml.MapSlice{{Key: "a", Value: yaml.MapSlice{{Key: "b", Value: 1}}}}

	want := []weave.Event{
		{Kind: weave.DocumentStart, Line: 0},
		{Kind: weave.MapStart, Line: 0},
		{Kind: weave.Scalar, Value: "a", Line: 0},
		{Kind: weave.MapStart, Line: 1},
		{Kind: weave.Scalar, Value: "b", Line: 1},
		{Kind: weave.Scalar, Value: "1", Line: 1},
		{Kind: weave.MapEnd, Line: 1},
		{Kind: weave.MapEnd, Line: 1},
	}

	for _, em := range []weave.Emitter{emitter.NewGoccy(), emitter.NewYAMLv3()} {
		got, err := em.Emit(tree)
		require.NoError(t, err)
		assert.Equal(t, want, got.Events)
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		want any
		err  error
	}{
		"":        {want: &emitter.Goccy{}},
		"goccy":   {want: &emitter.Goccy{}},
		"yaml.v3": {want: &emitter.YAMLv3{}},
		"YAMLv3":  {want: &emitter.YAMLv3{}},
		"json":    {err: emitter.ErrUnknownEmitter},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			em, err := emitter.New(name, 0)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)

				return
			}

			require.NoError(t, err)
			assert.IsType(t, tc.want, em)
		})
	}

	assert.Equal(t, []string{emitter.NameGoccy, emitter.NameYAMLv3}, emitter.GetAllNames())
}

func TestEmitMarshalError(t *testing.T) {
	t.Parallel()

	tree := yaml.MapSlice{{Key: "bad", Value: make(chan int)}}

	for _, em := range []weave.Emitter{emitter.NewGoccy(), emitter.NewYAMLv3()} {
		_, err := em.Emit(tree)
		require.ErrorIs(t, err, emitter.ErrMarshal)
	}
}

func TestEmitNonStringKeys(t *testing.T) {
	t.Parallel()

	tree := yaml.MapSlice{
		{Key: 1, Value: "one"},
		{Key: "nested", Value: []any{
			yaml.MapSlice{{Key: true, Value: 2}},
		}},
	}

	for _, em := range []weave.Emitter{emitter.NewGoccy(), emitter.NewYAMLv3()} {
		got, err := em.Emit(tree)
		require.NoError(t, err)
		require.Len(t, got.Lines, 3)
		assert.Contains(t, got.Lines[0], "one")
		assert.Equal(t, map[string][]int{
			"1":                 {0},
			"nested":            {1},
			"nested.<arr>":      {2},
			"nested.<arr>.true": {2},
		}, keyLines(t, got))
	}

	// The tree passed in is not modified.
	assert.Equal(t, 1, tree[0].Key)
}
