package processor

import (
	"context"

	"gitlab.com/tozd/go/errors"

	"textedit/internal/buffer"
	"textedit/internal/textio"
)

// Result is the outcome of SubstituteFile.
type Result struct {
	Before       string
	After        string
	Positions    []int
	Matches      int
	Replacements int
	Changed      bool
}

// SearchAll returns the offsets of every non-overlapping occurrence of
// needle in b, scanning left to right. After a match at p the scan resumes
// at p+len(needle), so "aa" in "aaaa" matches at 0 and 2.
// It returns nil when b is nil, needle is empty, or nothing matches.
func SearchAll(b *buffer.Buffer, needle string) []int {
	if b == nil || needle == "" {
		return nil
	}
	n := []rune(needle)
	var positions []int
	for i := b.Index(n, 0); i >= 0; i = b.Index(n, i+len(n)) {
		positions = append(positions, i)
	}
	return positions
}

// Replace substitutes newString for every occurrence of oldString in b and
// returns the number of replacements. Scanning resumes after the inserted
// text, so a newString that contains oldString is never matched again.
// A nil buffer or an empty string is a no-op returning 0.
func Replace(b *buffer.Buffer, oldString, newString string) int {
	if b == nil || oldString == "" || newString == "" {
		return 0
	}
	o, r := []rune(oldString), []rune(newString)
	count := 0
	for i := b.Index(o, 0); i >= 0; i = b.Index(o, i+len(r)) {
		b.Splice(i, i+len(o), r)
		count++
	}
	return count
}

// SubstituteFile loads the file, does in-memory literal replacement,
// and returns a Result. It does NOT write changes back to disk.
func SubstituteFile(ctx context.Context, path, oldString, newString string) (Result, error) {
	b, err := textio.Load(ctx, path)
	if err != nil {
		return Result{}, errors.Errorf("substitute: %w", err)
	}
	before := b.String()
	positions := SearchAll(b, oldString)
	replaced := Replace(b, oldString, newString)
	after := b.String()
	return Result{
		Before:       before,
		After:        after,
		Positions:    positions,
		Matches:      len(positions),
		Replacements: replaced,
		Changed:      before != after,
	}, nil
}
