package buffer

import "slices"

// Buffer is a mutable sequence of characters holding a whole document.
// Offsets are rune offsets. A Buffer has a single owner; it is not safe
// for concurrent use.
type Buffer struct {
	runes []rune
}

// New returns a buffer holding s.
func New(s string) *Buffer {
	return &Buffer{runes: []rune(s)}
}

// Len returns the number of characters in the buffer.
func (b *Buffer) Len() int { return len(b.runes) }

func (b *Buffer) String() string { return string(b.runes) }

// Append adds s to the end of the buffer.
func (b *Buffer) Append(s string) {
	b.runes = append(b.runes, []rune(s)...)
}

// Reset releases the buffer contents.
func (b *Buffer) Reset() { b.runes = nil }

// Index returns the offset of the first occurrence of needle at or after
// from, or -1 if there is none.
func (b *Buffer) Index(needle []rune, from int) int {
	if from < 0 {
		from = 0
	}
	n := len(needle)
	if n == 0 {
		if from <= len(b.runes) {
			return from
		}
		return -1
	}
	last := len(b.runes) - n
	for i := from; i <= last; i++ {
		if b.runes[i] != needle[0] {
			continue
		}
		if slices.Equal(b.runes[i:i+n], needle) {
			return i
		}
	}
	return -1
}

// Splice replaces the span [start, end) with repl. Offsets after the span
// shift by len(repl)-(end-start).
func (b *Buffer) Splice(start, end int, repl []rune) {
	if start < 0 || end > len(b.runes) || start > end {
		panic("buffer: splice out of range")
	}
	delta := len(repl) - (end - start)
	switch {
	case delta == 0:
		copy(b.runes[start:end], repl)
	case delta < 0:
		copy(b.runes[start:], repl)
		n := copy(b.runes[start+len(repl):], b.runes[end:])
		b.runes = b.runes[:start+len(repl)+n]
	default:
		old := len(b.runes)
		b.runes = append(b.runes, make([]rune, delta)...)
		copy(b.runes[end+delta:], b.runes[end:old])
		copy(b.runes[start:], repl)
	}
}
