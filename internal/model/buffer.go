package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrLineOutOfRange is returned when an edit addresses a line the buffer does not have.
var ErrLineOutOfRange = errors.New("line out of range")

// Buffer is the live, line-addressable copy of a target file being rewritten.
// Line numbers are 1-based. The worker and the presentation layer each keep one
// and apply the same sequence of edits to it.
type Buffer struct {
	lines []string

	// Presentation cursors.
	Current  int
	Selected int
}

// NewBuffer splits text into lines. A trailing newline does not produce an empty last line.
func NewBuffer(text string) *Buffer {
	b := &Buffer{}
	b.Reset(text)
	return b
}

// NewBufferLines builds a buffer holding a copy of lines.
func NewBufferLines(lines []string) *Buffer {
	b := &Buffer{lines: make([]string, len(lines)), Current: 1, Selected: 1}
	copy(b.lines, lines)
	return b
}

// Reset replaces the whole contents and rewinds the cursors.
func (b *Buffer) Reset(text string) {
	b.lines = SplitLines(text)
	b.Current = 1
	b.Selected = 1
}

// Len returns the number of lines.
func (b *Buffer) Len() int {
	return len(b.lines)
}

// Line returns line n.
func (b *Buffer) Line(n int) (string, bool) {
	if n < 1 || n > len(b.lines) {
		return "", false
	}
	return b.lines[n-1], true
}

// Lines returns a copy of all lines.
func (b *Buffer) Lines() []string {
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

// Insert places text so that it becomes line n; n may be Len()+1 to append.
func (b *Buffer) Insert(n int, text string) error {
	if n < 1 || n > len(b.lines)+1 {
		return fmt.Errorf("insert at %d (buffer has %d lines): %w", n, len(b.lines), ErrLineOutOfRange)
	}
	b.lines = append(b.lines, "")
	copy(b.lines[n:], b.lines[n-1:])
	b.lines[n-1] = text
	return nil
}

// Replace overwrites line n.
func (b *Buffer) Replace(n int, text string) error {
	if n < 1 || n > len(b.lines) {
		return fmt.Errorf("replace at %d (buffer has %d lines): %w", n, len(b.lines), ErrLineOutOfRange)
	}
	b.lines[n-1] = text
	return nil
}

// Goto moves both cursors to n, clamped to the buffer.
func (b *Buffer) Goto(n int) {
	switch {
	case len(b.lines) == 0:
		n = 1
	case n > len(b.lines):
		n = len(b.lines)
	case n < 1:
		n = 1
	}
	b.Current = n
	b.Selected = n
}

// Move shifts the selected line by delta, wrapping around the ends.
func (b *Buffer) Move(delta int) {
	if len(b.lines) == 0 {
		return
	}
	n := (b.Selected - 1 + delta) % len(b.lines)
	if n < 0 {
		n += len(b.lines)
	}
	b.Selected = n + 1
}

// Excerpt renders line n with up to radius lines on each side, numbered and
// with n marked by IconSelected.
func (b *Buffer) Excerpt(n, radius int) string {
	if n < 1 || n > len(b.lines) {
		return fmt.Sprintf("Line %d out of range (file has %d lines)", n, len(b.lines))
	}
	from, to := max(1, n-radius), min(len(b.lines), n+radius)
	rows := make([]string, 0, to-from+1)
	for i := from; i <= to; i++ {
		mark := " "
		if i == n {
			mark = IconSelected
		}
		rows = append(rows, fmt.Sprintf("%s %4d %s", mark, i, b.lines[i-1]))
	}
	return strings.Join(rows, "\n")
}

// String joins the lines with newlines (no trailing newline).
func (b *Buffer) String() string {
	return strings.Join(b.lines, "\n")
}

// Text is every line followed by a newline; SplitLines(b.Text()) == b.Lines().
func (b *Buffer) Text() string {
	if len(b.lines) == 0 {
		return ""
	}
	return strings.Join(b.lines, "\n") + "\n"
}

// SplitLines splits text on '\n', dropping a single trailing newline and any '\r'.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
