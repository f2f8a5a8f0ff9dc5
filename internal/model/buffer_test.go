package model

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBuffer(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "empty", text: "", want: []string{}},
		{name: "trailing newline", text: "a\nb\n", want: []string{"a", "b"}},
		{name: "no trailing newline", text: "a\nb", want: []string{"a", "b"}},
		{name: "crlf", text: "a\r\nb\r\n", want: []string{"a", "b"}},
		{name: "blank lines kept", text: "a\n\nb", want: []string{"a", "", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuffer(tt.text)
			assert.Equal(t, tt.want, b.Lines())
			assert.Equal(t, 1, b.Current)
			assert.Equal(t, 1, b.Selected)
		})
	}
}

func TestBufferInsertReplace(t *testing.T) {
	b := NewBuffer("one\ntwo\nthree")

	require.NoError(t, b.Insert(2, "decl"))
	assert.Equal(t, []string{"one", "decl", "two", "three"}, b.Lines())

	require.NoError(t, b.Insert(5, "tail"))
	assert.Equal(t, "tail", b.Lines()[4])

	require.NoError(t, b.Replace(3, "TWO"))
	line, ok := b.Line(3)
	require.True(t, ok)
	assert.Equal(t, "TWO", line)

	err := b.Replace(9, "x")
	assert.True(t, errors.Is(err, ErrLineOutOfRange))
	err = b.Insert(0, "x")
	assert.True(t, errors.Is(err, ErrLineOutOfRange))
	assert.Equal(t, 5, b.Len())
}

// After N insertions and any number of replacements the line count is original + N.
func TestBufferLineShiftInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 50; round++ {
		b := NewBuffer("a\nb\nc\nd\ne")
		original := b.Len()
		inserts := 0
		for op := 0; op < 40; op++ {
			if rng.Intn(3) == 0 {
				require.NoError(t, b.Insert(1+rng.Intn(b.Len()+1), "ins"))
				inserts++
			} else {
				require.NoError(t, b.Replace(1+rng.Intn(b.Len()), "rep"))
			}
			require.Equal(t, original+inserts, b.Len())
		}
	}
}

func TestBufferCursor(t *testing.T) {
	b := NewBuffer("1\n2\n3")
	b.Goto(10)
	assert.Equal(t, 3, b.Current)
	assert.Equal(t, 3, b.Selected)

	b.Move(1)
	assert.Equal(t, 1, b.Selected, "moving past the end wraps")
	b.Move(-1)
	assert.Equal(t, 3, b.Selected)
	assert.Equal(t, 3, b.Current, "moving the selection leaves the current line alone")

	b.Goto(0)
	assert.Equal(t, 1, b.Selected)
}

func TestBufferTextRoundTrip(t *testing.T) {
	for _, lines := range [][]string{{}, {""}, {"a", ""}, {"", "", "x"}} {
		b := NewBufferLines(lines)
		assert.Equal(t, len(lines), NewBuffer(b.Text()).Len(), "%q", lines)
		assert.Equal(t, b.Lines(), NewBuffer(b.Text()).Lines(), "%q", lines)
	}
}

func TestBufferExcerpt(t *testing.T) {
	b := NewBufferLines([]string{"a", "b", "c", "d"})
	assert.Equal(t, "     1 a\n@    2 b\n     3 c\n     4 d", b.Excerpt(2, 2))
	assert.Equal(t, "     3 c\n@    4 d", b.Excerpt(4, 1))
	assert.Contains(t, b.Excerpt(9, 2), "out of range")
}
