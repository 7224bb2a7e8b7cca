package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// diffContext is the number of unchanged lines shown around each change.
const diffContext = 3

// palette colors diff output.
type palette struct {
	header func(a ...any) string
	hunk   func(a ...any) string
	del    func(a ...any) string
	ins    func(a ...any) string
}

func newPalette(colored bool) palette {
	if !colored {
		return palette{header: fmt.Sprint, hunk: fmt.Sprint, del: fmt.Sprint, ins: fmt.Sprint}
	}

	sprint := func(attrs ...color.Attribute) func(a ...any) string {
		c := color.New(attrs...)
		c.EnableColor()

		return c.SprintFunc()
	}

	return palette{
		header: sprint(color.Bold),
		hunk:   sprint(color.FgCyan),
		del:    sprint(color.FgRed),
		ins:    sprint(color.FgGreen),
	}
}

type diffLine struct {
	text string
	op   diffmatchpatch.Operation
}

// unifiedDiff returns a unified diff from before to after, or "" when they
// are equal.
func unifiedDiff(path, before, after string, p palette) string {
	ops := diffLines(before, after)

	hunks := diffHunks(ops)
	if len(hunks) == 0 {
		return ""
	}

	var sb strings.Builder

	sb.WriteString(p.header("--- "+path) + "\n")
	sb.WriteString(p.header("+++ "+path) + "\n")

	for _, h := range hunks {
		oldStart, oldCount, newStart, newCount := hunkRange(ops, h[0], h[1])
		sb.WriteString(p.hunk(fmt.Sprintf("@@ -%s +%s @@", formatRange(oldStart, oldCount), formatRange(newStart, newCount))) + "\n")

		for _, l := range ops[h[0]:h[1]] {
			switch l.op {
			case diffmatchpatch.DiffDelete:
				sb.WriteString(p.del("-"+l.text) + "\n")
			case diffmatchpatch.DiffInsert:
				sb.WriteString(p.ins("+"+l.text) + "\n")
			case diffmatchpatch.DiffEqual:
				sb.WriteString(" " + l.text + "\n")
			}
		}
	}

	return sb.String()
}

// diffLines computes a line-level diff.
func diffLines(before, after string) []diffLine {
	dmp := diffmatchpatch.New()

	a, b, index := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), index)

	var ops []diffLine

	for _, d := range diffs {
		for l := range strings.SplitSeq(strings.TrimSuffix(d.Text, "\n"), "\n") {
			ops = append(ops, diffLine{op: d.Type, text: l})
		}
	}

	return ops
}

// diffHunks returns the [start, end) ranges of ops to print, each change
// padded with up to [diffContext] unchanged lines.
func diffHunks(ops []diffLine) [][2]int {
	var hunks [][2]int

	for i := 0; i < len(ops); i++ {
		if ops[i].op == diffmatchpatch.DiffEqual {
			continue
		}

		start := max(i-diffContext, 0)
		last := i

		for j := i + 1; j < len(ops) && j-last <= 2*diffContext+1; j++ {
			if ops[j].op != diffmatchpatch.DiffEqual {
				last = j
			}
		}

		end := min(last+diffContext+1, len(ops))
		hunks = append(hunks, [2]int{start, end})
		i = end - 1
	}

	return hunks
}

// hunkRange returns the 1-based line ranges of ops[start:end] in the old and
// new text.
func hunkRange(ops []diffLine, start, end int) (int, int, int, int) {
	var oldLine, newLine int

	for _, l := range ops[:start] {
		if l.op != diffmatchpatch.DiffInsert {
			oldLine++
		}

		if l.op != diffmatchpatch.DiffDelete {
			newLine++
		}
	}

	var oldCount, newCount int

	for _, l := range ops[start:end] {
		if l.op != diffmatchpatch.DiffInsert {
			oldCount++
		}

		if l.op != diffmatchpatch.DiffDelete {
			newCount++
		}
	}

	return oldLine + 1, oldCount, newLine + 1, newCount
}

func formatRange(start, count int) string {
	switch count {
	case 0:
		return fmt.Sprintf("%d,0", start-1)
	case 1:
		return fmt.Sprintf("%d", start)
	}

	return fmt.Sprintf("%d,%d", start, count)
}
