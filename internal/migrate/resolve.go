package migrate

import (
	"errors"
	"fmt"
	"strings"

	"mdbconv/internal/config"
	"mdbconv/internal/model"
	"mdbconv/internal/protocol"
)

// ErrTokenMissing is returned when the chosen table has no entry for the token.
var ErrTokenMissing = errors.New("no error code")

// errNotPending is returned by Answer when nothing is being asked.
var errNotPending = errors.New("resolution is not waiting for an answer")

// Origin says how a template was found.
type Origin int

const (
	FromComment Origin = iota
	FromOperator
	FromPlaceholder
)

func (o Origin) String() string {
	switch o {
	case FromComment:
		return "comment"
	case FromOperator:
		return "operator"
	default:
		return "placeholder"
	}
}

// Match is a resolved template for one statement.
type Match struct {
	Token     string
	Template  string
	Subsystem model.Subsystem
	Variable  string // binding that matched; empty unless Origin is FromComment
	Origin    Origin
}

// Note is a progress message produced while resolving.
type Note struct {
	Level protocol.LogLevel
	Text  string
}

// Resolver decides which code table a statement's token comes from. It never
// blocks: when it needs the operator it parks a PendingQuery on the Resolution.
type Resolver struct {
	tables   model.CodeTables
	bindings model.Bindings
	policy   string
}

// NewResolver uses bindings in their given order as the tie-break between
// variables named in the same comment. policy is config.MissPrompt or
// config.MissPlaceholder.
func NewResolver(tables model.CodeTables, bindings model.Bindings, policy string) *Resolver {
	return &Resolver{tables: tables, bindings: bindings.Named(), policy: policy}
}

// Candidates returns the menu offered when comments do not settle a statement:
// the bound subsystems, or every loaded one when nothing is bound.
func (r *Resolver) Candidates() []model.Subsystem {
	seen := make(map[model.Subsystem]bool)
	var out []model.Subsystem
	for _, b := range r.bindings {
		if _, loaded := r.tables[b.Subsystem]; loaded && !seen[b.Subsystem] {
			seen[b.Subsystem] = true
			out = append(out, b.Subsystem)
		}
	}
	if len(out) == 0 {
		return r.tables.Subsystems()
	}
	return out
}

// Resolution is the lookup for one statement. It is either finished or waiting
// on Pending() for an answer.
type Resolution struct {
	r     *Resolver
	token string
	query *model.PendingQuery
	match *Match
	notes []Note
}

// Resolve starts resolving token for the statement at line. comments is the
// comment block around the statement; it is ignored unless it mentions token.
func (r *Resolver) Resolve(token string, line model.LineRef, statement, comments string) *Resolution {
	res := &Resolution{r: r, token: token}

	block := TrustedBlock(comments, token)
	if block != "" {
		res.note(protocol.LevelTrace, fmt.Sprintf("--------- For %s -------\n%s\n--------- found comments\n%s",
			line, statement, strings.TrimSpace(block)))
		if res.fromComments(block) {
			return res
		}
	}

	res.query = model.MenuQuery(
		fmt.Sprintf("--------- For %s select mdb file ----------\n%s", line, statement),
		r.Candidates())
	return res
}

func (res *Resolution) fromComments(block string) bool {
	mentioned := false
	for _, b := range res.r.bindings {
		if !strings.Contains(block, b.Variable) {
			continue
		}
		mentioned = true
		tmpl, ok := res.r.tables.Lookup(b.Subsystem, res.token)
		if !ok {
			res.note(protocol.LevelError, fmt.Sprintf("No error code for %s in %s", res.token, b.Variable))
			continue
		}
		res.finish(Match{Token: res.token, Template: tmpl, Subsystem: b.Subsystem, Variable: b.Variable, Origin: FromComment})
		res.note(protocol.LevelInfo, fmt.Sprintf("Got %s for %s code in %s", tmpl, res.token, b.Variable))
		return true
	}
	if mentioned && res.r.policy == config.MissPlaceholder {
		res.finish(Match{Token: res.token, Origin: FromPlaceholder})
		res.note(protocol.LevelWarn, fmt.Sprintf("No template for %s; leaving an empty message", res.token))
		return true
	}
	return false
}

// Pending returns the open question, or nil once resolved.
func (res *Resolution) Pending() *model.PendingQuery {
	return res.query
}

// Answer resumes a pending resolution with the operator's menu choice. Invalid
// choices and table misses return an error and leave the same query pending.
func (res *Resolution) Answer(text string) error {
	if res.query == nil {
		return errNotPending
	}
	s, err := res.query.Choose(text)
	if err != nil {
		return err
	}
	tmpl, ok := res.r.tables.Lookup(s, res.token)
	if !ok {
		return fmt.Errorf("%w for %s in %s", ErrTokenMissing, res.token, s)
	}
	res.query = nil
	res.finish(Match{Token: res.token, Template: tmpl, Subsystem: s, Origin: FromOperator})
	res.note(protocol.LevelInfo, fmt.Sprintf("Got %s for %s code in %s", tmpl, res.token, s))
	return nil
}

// Match returns the result once the resolution is finished.
func (res *Resolution) Match() (Match, bool) {
	if res.match == nil {
		return Match{}, false
	}
	return *res.match, true
}

// TakeNotes returns and clears the accumulated notes.
func (res *Resolution) TakeNotes() []Note {
	notes := res.notes
	res.notes = nil
	return notes
}

func (res *Resolution) finish(m Match) {
	res.match = &m
}

func (res *Resolution) note(level protocol.LogLevel, text string) {
	res.notes = append(res.notes, Note{Level: level, Text: text})
}
