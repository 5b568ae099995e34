package processor

import (
	"context"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"textedit/internal/buffer"
	"textedit/internal/testutil"
	"textedit/internal/textio"
)

func TestSearchAll(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		needle string
		want   []int
	}{
		{name: "single", text: "What a wonderful world", needle: "wonder", want: []int{7}},
		{name: "non_overlapping", text: "aaaa", needle: "aa", want: []int{0, 2}},
		{name: "odd_run", text: "aaaaa", needle: "aa", want: []int{0, 2}},
		{name: "several", text: "cat hat cat", needle: "cat", want: []int{0, 8}},
		{name: "case_sensitive", text: "Cat cat", needle: "cat", want: []int{4}},
		{name: "rune_offsets", text: "ééx ééx", needle: "x", want: []int{2, 6}},
		{name: "across_lines", text: "foo\nbar foo\n", needle: "o\nb", want: []int{2}},
		{name: "whole_buffer", text: "abc", needle: "abc", want: []int{0}},
		{name: "not_found_is_nil", text: "hello", needle: "xyz", want: nil},
		{name: "needle_longer_than_buffer", text: "ab", needle: "abc", want: nil},
		{name: "empty_buffer", text: "", needle: "a", want: nil},
		{name: "empty_needle", text: "abc", needle: "", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SearchAll(buffer.New(tt.text), tt.needle))
		})
	}
}

func TestSearchAll_NilBuffer(t *testing.T) {
	assert.Nil(t, SearchAll(nil, "a"))
}

func TestSearchAll_PositionsAreNonOverlapping(t *testing.T) {
	texts := []string{"aaaaaaa", "abababab", "abcabcabc", "xxyxxyxxy", strings.Repeat("ab", 50)}
	needles := []string{"a", "aa", "aba", "ab", "xxy", "abab"}
	for _, text := range texts {
		for _, needle := range needles {
			got := SearchAll(buffer.New(text), needle)
			// strings.Count counts non-overlapping occurrences the same way.
			assert.Len(t, got, strings.Count(text, needle), "%q in %q", needle, text)
			for i := 1; i < len(got); i++ {
				assert.GreaterOrEqual(t, got[i], got[i-1]+len(needle), "%q in %q", needle, text)
			}
		}
	}
}

func TestReplace(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		old, new  string
		wantCount int
		want      string
	}{
		{name: "same_length", text: "cat hat cat", old: "cat", new: "dog", wantCount: 2, want: "dog hat dog"},
		{name: "new_contains_old", text: "abab", old: "ab", new: "abab", wantCount: 2, want: "abababab"},
		{name: "shrinking", text: "foo bar foo bar", old: "foo", new: "x", wantCount: 2, want: "x bar x bar"},
		{name: "growing", text: "a-a-a", old: "a", new: "long", wantCount: 3, want: "long-long-long"},
		{name: "adjacent", text: "aaaa", old: "aa", new: "b", wantCount: 2, want: "bb"},
		{name: "old_inside_new_suffix", text: "xx", old: "x", new: "yx", wantCount: 2, want: "yxyx"},
		{name: "multiline", text: "foo\nbar foo\n", old: "foo", new: "baz", wantCount: 2, want: "baz\nbar baz\n"},
		{name: "crlf_untouched", text: "foo\r\nbar\r\n", old: "foo", new: "bar", wantCount: 1, want: "bar\r\nbar\r\n"},
		{name: "unicode", text: "héllo héllo", old: "é", new: "e", wantCount: 2, want: "hello hello"},
		{name: "no_match", text: "hello world", old: "xxx", new: "yyy", wantCount: 0, want: "hello world"},
		{name: "empty_old_noop", text: "some content", old: "", new: "xxx", wantCount: 0, want: "some content"},
		{name: "empty_new_noop", text: "some content", old: "some", new: "", wantCount: 0, want: "some content"},
		{name: "empty_buffer", text: "", old: "a", new: "b", wantCount: 0, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := buffer.New(tt.text)
			assert.Equal(t, tt.wantCount, Replace(b, tt.old, tt.new))
			assert.Equal(t, tt.want, b.String())
		})
	}
}

func TestReplace_NilBuffer(t *testing.T) {
	assert.Equal(t, 0, Replace(nil, "a", "b"))
}

func TestReplace_SameStringKeepsContent(t *testing.T) {
	b := buffer.New("foo foo bar foo")
	assert.Equal(t, 3, Replace(b, "foo", "foo"))
	assert.Equal(t, "foo foo bar foo", b.String())
}

func TestReplace_CountMatchesSearch(t *testing.T) {
	for _, text := range []string{"aaaaa", "abcabcab", "the cat sat on the mat"} {
		for _, pair := range [][2]string{{"a", "aa"}, {"ab", "b"}, {"at", "at!"}, {"aa", "a"}} {
			want := len(SearchAll(buffer.New(text), pair[0]))
			b := buffer.New(text)
			assert.Equal(t, want, Replace(b, pair[0], pair[1]), "%q -> %q in %q", pair[0], pair[1], text)
		}
	}
}

func TestSubstituteFile_NoMatches(t *testing.T) {
	p := testutil.WriteFile(t, t.TempDir(), "a.txt", "hello world\n")
	res, err := SubstituteFile(context.Background(), p, "xxx", "yyy")
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Zero(t, res.Matches)
	assert.Zero(t, res.Replacements)
	assert.Nil(t, res.Positions)
	assert.Equal(t, res.Before, res.After)
}

func TestSubstituteFile_MatchesAndReplace(t *testing.T) {
	p := testutil.WriteFile(t, t.TempDir(), "a.txt", "foo\nbar foo\n")
	res, err := SubstituteFile(context.Background(), p, "foo", "baz")
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, 2, res.Matches)
	assert.Equal(t, 2, res.Replacements)
	assert.Equal(t, []int{0, 8}, res.Positions)
	assert.Equal(t, "foo\nbar foo\n", res.Before)
	assert.Equal(t, "baz\nbar baz\n", res.After)
}

func TestSubstituteFile_DoesNotWrite(t *testing.T) {
	p := testutil.WriteFile(t, t.TempDir(), "a.txt", "foo\n")
	_, err := SubstituteFile(context.Background(), p, "foo", "bar")
	require.NoError(t, err)

	b, err := textio.Load(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "foo\n", b.String())
}

func TestSubstituteFile_ReplacementSameAsPattern_NoChange(t *testing.T) {
	p := testutil.WriteFile(t, t.TempDir(), "a.txt", "foo foo\n")
	res, err := SubstituteFile(context.Background(), p, "foo", "foo")
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, 2, res.Matches)
	assert.Equal(t, 2, res.Replacements)
}

func TestSubstituteFile_PathWithUnicode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("path unicode quirk on CI")
	}
	p := testutil.WriteFile(t, t.TempDir(), "føø/å.txt", "foo")
	res, err := SubstituteFile(context.Background(), p, "foo", "bar")
	require.NoError(t, err)
	assert.Equal(t, "bar\n", res.After)
}

func TestSubstituteFile_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.txt")
	_, err := SubstituteFile(context.Background(), missing, "a", "b")
	assert.ErrorIs(t, err, textio.ErrNotFound)
}

func TestSubstituteFile_BinaryIsSkipped(t *testing.T) {
	p := testutil.WriteFile(t, t.TempDir(), "bin.dat", string([]byte{0x00, 0x01, 0x02}))
	_, err := SubstituteFile(context.Background(), p, "a", "b")
	assert.ErrorIs(t, err, textio.ErrBinary)
}

func TestSubstituteFile_LargeFile(t *testing.T) {
	if testing.Short() {
		t.Skip("short")
	}
	line := strings.Repeat("a", 1024)
	body := strings.Repeat(line+"\n", 1024)
	p := testutil.WriteFile(t, t.TempDir(), "big.txt", body)
	res, err := SubstituteFile(context.Background(), p, "aaa", "bbb")
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, 341*1024, res.Replacements)
}
