package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/commentspec/stringtest"
)

func TestRender(t *testing.T) {
	t.Parallel()

	custom := stringtest.JoinLF(
		"# Service settings",
		"",
		"# Service name.",
		"name: svc",
		"",
		"# HTTP listener.",
		"http:",
		"  # Listen port.",
		"  port: 9000",
		"extra: true",
		"",
	)

	tcs := map[string]struct {
		files map[string]string
		args  []string
		want  string
	}{
		"missing file renders defaults": {
			args: []string{"config.yaml"},
			want: serviceDefaults,
		},
		"existing values kept": {
			files: map[string]string{"config.yaml": "extra: true\nhttp:\n  port: 9000\n"},
			args:  []string{"config.yaml"},
			want:  custom,
		},
		"glob renders in sorted order": {
			files: map[string]string{
				"b/config.yaml": "extra: true\nhttp:\n  port: 9000\n",
				"a/config.yaml": "",
			},
			args: []string{"**/config.yaml"},
			want: serviceDefaults + "---\n" + custom,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			schemaPath := writeFile(t, dir, "schema.yaml", serviceDefinition)

			for name, content := range tc.files {
				writeFile(t, dir, name, content)
			}

			args := []string{"render", "--schema", schemaPath}
			for _, arg := range tc.args {
				args = append(args, filepath.Join(dir, arg))
			}

			out, err := execute(t, args...)
			require.NoError(t, err)
			assert.Equal(t, tc.want, out)
		})
	}
}

func TestRenderWrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "schema.yaml", serviceDefinition)
	configPath := writeFile(t, dir, "config.yaml", "name: svc\n")

	out, err := execute(t, "render", "--schema", schemaPath, "--write", configPath)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Equal(t, serviceDefaults, readFile(t, configPath))

	// A second run leaves the file alone.
	_, err = execute(t, "render", "--schema", schemaPath, "-w", configPath)
	require.NoError(t, err)
	assert.Equal(t, serviceDefaults, readFile(t, configPath))
}

func TestRenderDiff(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "schema.yaml", serviceDefinition)
	configPath := writeFile(t, dir, "config.yaml", "name: app\n")
	renderedPath := writeFile(t, dir, "rendered.yaml", serviceDefaults)

	out, err := execute(t, "render", "--schema", schemaPath, "--diff", configPath, renderedPath)
	require.NoError(t, err)

	want := stringtest.JoinLF(
		"--- "+configPath,
		"+++ "+configPath,
		"@@ -1 +1,9 @@",
		"+# Service settings",
		"+",
		"+# Service name.",
		" name: app",
		"+",
		"+# HTTP listener.",
		"+http:",
		"+  # Listen port.",
		"+  port: 8080",
		"",
	)
	assert.Equal(t, want, out)

	// Diff mode never writes.
	assert.Equal(t, "name: app\n", readFile(t, configPath))
}

func TestRenderErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "schema.yaml", serviceDefinition)
	badSchema := writeFile(t, dir, "bad.yaml", "fields:\n  - key: a\n  - key: a\n")
	configPath := filepath.Join(dir, "config.yaml")

	tcs := map[string]struct {
		err  error
		args []string
	}{
		"glob without matches": {
			args: []string{"render", "--schema", schemaPath, filepath.Join(dir, "*.json")},
			err:  ErrNoMatch,
		},
		"write and diff": {
			args: []string{"render", "--schema", schemaPath, "--write", "--diff", configPath},
		},
		"no files": {
			args: []string{"render", "--schema", schemaPath},
		},
		"invalid schema": {
			args: []string{"render", "--schema", badSchema, configPath},
		},
		"missing schema file": {
			args: []string{"render", "--schema", filepath.Join(dir, "missing.yaml"), configPath},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := execute(t, tc.args...)
			require.Error(t, err)

			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
			}
		})
	}
}

func TestExpandArgs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := writeFile(t, dir, "a.yaml", "")
	writeFile(t, dir, "b.yml", "")
	c := writeFile(t, dir, "sub/c.yaml", "")

	tcs := map[string]struct {
		args []string
		want []string
	}{
		"literal paths kept": {
			args: []string{filepath.Join(dir, "missing.yaml"), a},
			want: []string{filepath.Join(dir, "missing.yaml"), a},
		},
		"recursive glob": {
			args: []string{filepath.Join(dir, "**", "*.yaml")},
			want: []string{a, c},
		},
		"duplicates removed": {
			args: []string{a, filepath.Join(dir, "*.yaml"), a},
			want: []string{a},
		},
		"alternatives": {
			args: []string{filepath.Join(dir, "*.{yaml,yml}")},
			want: []string{a, filepath.Join(dir, "b.yml")},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := expandArgs(tc.args)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
