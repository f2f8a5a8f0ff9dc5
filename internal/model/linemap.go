package model

import "fmt"

// LineMap converts original line numbers (the file as first shown, before any edit)
// to edited line numbers (positions in the live Buffer). Only insertions shift lines;
// they are recorded in non-decreasing original order and never retracted.
type LineMap struct {
	inserts []int
}

// Insert records a new line placed immediately before original line n and returns the
// edited position the new line occupies. n may be one past the last original line.
func (m *LineMap) Insert(n int) (int, error) {
	if k := len(m.inserts); k > 0 && n < m.inserts[k-1] {
		return 0, fmt.Errorf("insert before original line %d after an insert at %d", n, m.inserts[k-1])
	}
	edited := m.Edited(n)
	m.inserts = append(m.inserts, n)
	return edited, nil
}

// Edited returns the edited position of original line n.
func (m *LineMap) Edited(n int) int {
	shift := 0
	for _, at := range m.inserts {
		if at <= n {
			shift++
		}
	}
	return n + shift
}

// Inserted is the number of insertions recorded so far.
func (m *LineMap) Inserted() int {
	return len(m.inserts)
}

// LineRef carries both numbering spaces for one line-level operation.
type LineRef struct {
	Source   int // physical line in the untouched file
	Original int // line in the normalized file, before edits
	Edited   int // line in the live Buffer
}

func (r LineRef) String() string {
	if r.Source == r.Original && r.Original == r.Edited {
		return fmt.Sprintf("line %d", r.Original)
	}
	return fmt.Sprintf("line %d (source %d, now %d)", r.Original, r.Source, r.Edited)
}
