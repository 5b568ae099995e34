// Package diff renders a line preview of a buffer before and after a replace.
package diff

import (
	"strconv"
	"strings"

	"github.com/fatih/color"
)

// Options control how a preview is rendered.
type Options struct {
	// Color forces red/green lines on, even when the output is not a terminal.
	Color bool
	// Positions, when set, are the rune offsets of the matches in before.
	// Each removed line is prefixed with the 1-based line number it holds.
	Positions []int
}

// Preview returns a human-readable line diff and whether the inputs differ.
// Lines are compared pairwise; equal lines are elided and empty lines are not
// rendered. A side that loses or gains the final newline is marked with a
// "\ No newline at end of file" line.
func Preview(before, after string, opts Options) (string, bool) {
	if before == after {
		return "", false
	}

	removed := color.New(color.FgRed)
	added := color.New(color.FgGreen)
	if opts.Color {
		removed.EnableColor()
		added.EnableColor()
	} else {
		removed.DisableColor()
		added.DisableColor()
	}

	var matchLines map[int]bool
	if len(opts.Positions) > 0 {
		matchLines = LinesOf(before, opts.Positions)
	}

	var sb strings.Builder
	sb.WriteString("--- before\n+++ after\n")
	bl := strings.Split(before, "\n")
	al := strings.Split(after, "\n")
	for i := 0; i < max(len(bl), len(al)); i++ {
		var old, cur string
		if i < len(bl) {
			old = bl[i]
		}
		if i < len(al) {
			cur = al[i]
		}
		if old == cur {
			continue
		}
		if old != "" {
			prefix := "-"
			if matchLines[i+1] {
				prefix = "-" + strconv.Itoa(i+1) + ":"
			}
			sb.WriteString(removed.Sprint(prefix + old))
			sb.WriteByte('\n')
		}
		if cur != "" {
			sb.WriteString(added.Sprint("+" + cur))
			sb.WriteByte('\n')
		}
	}
	if strings.HasSuffix(before, "\n") != strings.HasSuffix(after, "\n") {
		mark := added
		if !strings.HasSuffix(before, "\n") {
			mark = removed
		}
		sb.WriteString(mark.Sprint(noNewline))
		sb.WriteByte('\n')
	}
	return sb.String(), true
}

const noNewline = "\\ No newline at end of file"

// LinesOf maps rune offsets in text to the set of 1-based line numbers that
// contain them. Offsets outside text are ignored.
func LinesOf(text string, positions []int) map[int]bool {
	lines := make(map[int]bool, len(positions))
	if len(positions) == 0 {
		return lines
	}
	want := make(map[int]bool, len(positions))
	for _, p := range positions {
		want[p] = true
	}
	line, off := 1, 0
	for _, r := range text {
		if want[off] {
			lines[line] = true
		}
		if r == '\n' {
			line++
		}
		off++
	}
	return lines
}
