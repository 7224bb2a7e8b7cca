// Package stringtest builds expected multi-line text for tests.
package stringtest

import "strings"

// Input dedents a raw string literal so expected YAML can be written inline
// at the test's indentation.
//
// One leading newline is removed, as is one trailing newline together with
// the indentation of the closing backtick. The indentation common to all
// non-blank lines is stripped and whitespace-only lines become empty.
//
// Example:
//
//	want := stringtest.Input(`
//		name: test
//		nested:
//		  child: value
//	`) // -> "name: test\nnested:\n  child: value"
func Input(s string) string {
	s = strings.TrimPrefix(s, "\n")
	s = strings.TrimSuffix(strings.TrimRight(s, " \t"), "\n")

	lines := strings.Split(s, "\n")
	prefix := commonIndent(lines)

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ""
			continue
		}

		lines[i] = strings.TrimPrefix(line, prefix)
	}

	return strings.Join(lines, "\n")
}

// Lines returns [Input] of s split into lines, the shape renderers return.
// An empty input yields nil.
func Lines(s string) []string {
	in := Input(s)
	if in == "" {
		return nil
	}

	return strings.Split(in, "\n")
}

// JoinLF joins multiple strings with LF line endings.
// Use this to construct expected test output with explicit line endings.
//
// Example:
//
//	want := stringtest.JoinLF(
//		"# header",
//		"",
//		"name: test",
//	) // -> "# header\n\nname: test"
func JoinLF(ss ...string) string {
	return strings.Join(ss, "\n")
}

func commonIndent(lines []string) string {
	var (
		prefix string
		found  bool
	)

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if !found {
			prefix = indent
			found = true

			continue
		}

		for !strings.HasPrefix(indent, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
	}

	return prefix
}
