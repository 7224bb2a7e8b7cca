package weave

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// FormatCommentLine turns free text into a comment line. Text already
// starting with "#" is kept as is, so callers can write separators such as
// "#####"; anything else is prefixed with "# ".
func FormatCommentLine(text string) string {
	if strings.HasPrefix(text, "#") {
		return text
	}

	return "# " + text
}

// InjectHeader returns lines preceded by the header formatted with
// [FormatCommentLine] and one blank separator line. An empty header returns
// lines unchanged.
func InjectHeader(lines, header []string) []string {
	if len(header) == 0 {
		return lines
	}

	out := make([]string, 0, len(header)+1+len(lines))
	for _, h := range header {
		out = append(out, FormatCommentLine(h))
	}

	out = append(out, "")

	return append(out, lines...)
}

// TrimDocument removes a single leading whitespace character from the first
// line, if there is one. Block emitters may leave one in front of the first
// line of a document.
func TrimDocument(lines []string) []string {
	if len(lines) == 0 || lines[0] == "" {
		return lines
	}

	r, size := utf8.DecodeRuneInString(lines[0])
	if !unicode.IsSpace(r) {
		return lines
	}

	out := make([]string, len(lines))
	copy(out, lines)
	out[0] = lines[0][size:]

	return out
}
