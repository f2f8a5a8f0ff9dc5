package model

import "sort"

// CodeTable maps an error token to its canonical message template. Templates keep
// their surrounding quotes so they can be pasted verbatim into a rewritten call.
type CodeTable map[string]string

// Lookup returns the template for token.
func (t CodeTable) Lookup(token string) (string, bool) {
	tmpl, ok := t[token]
	return tmpl, ok
}

// CodeTables holds one table per loaded subsystem.
type CodeTables map[Subsystem]CodeTable

// Subsystems lists the loaded subsystems in declaration order.
func (ts CodeTables) Subsystems() []Subsystem {
	out := make([]Subsystem, 0, len(ts))
	for s := range ts {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Lookup finds token in the table for s. A missing table behaves like a miss.
func (ts CodeTables) Lookup(s Subsystem, token string) (string, bool) {
	t, ok := ts[s]
	if !ok {
		return "", false
	}
	return t.Lookup(token)
}

// Binding ties a source-code variable name (the logger object) to a subsystem.
type Binding struct {
	Variable  string
	Subsystem Subsystem
}

// Bindings is ordered by subsystem declaration order; the order is the tie-break
// when a comment names more than one bound variable.
type Bindings []Binding

// Named returns the bindings whose variable name is not blank.
func (bs Bindings) Named() Bindings {
	out := make(Bindings, 0, len(bs))
	for _, b := range bs {
		if b.Variable != "" {
			out = append(out, b)
		}
	}
	return out
}
