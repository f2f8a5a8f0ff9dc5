// Package migrate rewrites free-text logging calls into table-driven message codes.
package migrate

import (
	"regexp"
	"strings"
)

const terminator = ";"

// LogicalLine is one line of the normalized file. A logging call spread over
// several physical lines becomes a single LogicalLine.
type LogicalLine struct {
	Text      string
	Source    int // first physical line, 1-based
	SourceEnd int // last physical line
	Statement bool
}

// Joined reports whether the line was assembled from more than one physical line.
func (l LogicalLine) Joined() bool {
	return l.SourceEnd > l.Source
}

// Normalized is the result of one normalization pass.
type Normalized struct {
	Lines []LogicalLine

	// Source lines of calls that never reached a terminator; they are left as they were.
	Unterminated []int
}

// Texts returns the logical lines as plain strings.
func (n Normalized) Texts() []string {
	out := make([]string, len(n.Lines))
	for i, l := range n.Lines {
		out[i] = l.Text
	}
	return out
}

// Merges returns the lines that were joined.
func (n Normalized) Merges() []LogicalLine {
	var out []LogicalLine
	for _, l := range n.Lines {
		if l.Joined() {
			out = append(out, l)
		}
	}
	return out
}

// Normalizer joins multi-line logging calls.
type Normalizer struct {
	marker   *regexp.Regexp
	comments []string
}

// NewNormalizer recognises calls to any of severities; lines starting with one of
// commentPrefixes are never treated as calls.
func NewNormalizer(severities, commentPrefixes []string) *Normalizer {
	return &Normalizer{
		marker:   regexp.MustCompile(`\b(?:` + alternation(severities) + `)\s*\(`),
		comments: commentPrefixes,
	}
}

// IsComment reports whether line is a comment line.
func (n *Normalizer) IsComment(line string) bool {
	trimmed := strings.TrimSpace(line)
	for _, p := range n.comments {
		if strings.HasPrefix(trimmed, p) {
			return true
		}
	}
	return false
}

// IsStatement reports whether line contains a logging call outside any comment.
func (n *Normalizer) IsStatement(line string) bool {
	code, _ := n.splitComment(line)
	return n.marker.MatchString(code)
}

// splitComment cuts line at the first comment prefix outside a string or
// character literal. comment keeps its prefix and is empty when there is none.
func (n *Normalizer) splitComment(line string) (code, comment string) {
	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		default:
			for _, p := range n.comments {
				if strings.HasPrefix(line[i:], p) {
					return line[:i], line[i:]
				}
			}
		}
	}
	return line, ""
}

func (n *Normalizer) terminated(line string) bool {
	code, _ := n.splitComment(line)
	return strings.HasSuffix(strings.TrimRight(code, " \t"), terminator)
}

type joinState int

const (
	collecting joinState = iota
	joining
)

// Normalize collapses every logging call to one line. Comments met inside a
// call are hoisted above it on lines of their own, except a comment after the
// terminator, which stays at the end of the joined line. Running Normalize on
// its own output changes nothing.
func (n *Normalizer) Normalize(lines []string) Normalized {
	var (
		out     Normalized
		state   = collecting
		pending strings.Builder
		start   int
		mark    int
		indent  string
	)
	for i, line := range lines {
		num := i + 1
		switch state {
		case collecting:
			if !n.IsStatement(line) {
				out.Lines = append(out.Lines, LogicalLine{Text: line, Source: num, SourceEnd: num})
				continue
			}
			if n.terminated(line) {
				out.Lines = append(out.Lines, LogicalLine{Text: line, Source: num, SourceEnd: num, Statement: true})
				continue
			}
			state = joining
			start = num
			mark = len(out.Lines)
			indent = line[:len(line)-len(strings.TrimLeft(line, " \t"))]
			code, comment := n.splitComment(line)
			pending.Reset()
			pending.WriteString(strings.TrimRight(code, " \t"))
			if comment != "" {
				out.Lines = append(out.Lines, LogicalLine{Text: indent + strings.TrimSpace(comment), Source: num, SourceEnd: num})
			}

		case joining:
			done := n.terminated(line)
			code, comment := n.splitComment(line)
			if done {
				code = line
			} else if comment != "" {
				out.Lines = append(out.Lines, LogicalLine{Text: indent + strings.TrimSpace(comment), Source: num, SourceEnd: num})
			}
			if trimmed := strings.TrimSpace(code); trimmed != "" {
				pending.WriteString(" ")
				pending.WriteString(trimmed)
			}
			if done {
				out.Lines = append(out.Lines, LogicalLine{Text: pending.String(), Source: start, SourceEnd: num, Statement: true})
				state = collecting
			}
		}
	}

	if state == joining {
		out.Lines = out.Lines[:mark]
		out.Unterminated = append(out.Unterminated, start)
		for num := start; num <= len(lines); num++ {
			out.Lines = append(out.Lines, LogicalLine{
				Text:      lines[num-1],
				Source:    num,
				SourceEnd: num,
				Statement: n.IsStatement(lines[num-1]),
			})
		}
	}
	return out
}

func alternation(words []string) string {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return strings.Join(quoted, "|")
}
