package migrate

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"mdbconv/internal/model"
	"mdbconv/internal/protocol"
)

// State is the step a file session is in.
type State int

const (
	StateAwaitBindings State = iota
	StateAwaitDeclarationLine
	StateRewriting
	StateDone
)

func (s State) String() string {
	switch s {
	case StateAwaitBindings:
		return "await-bindings"
	case StateAwaitDeclarationLine:
		return "await-declaration-line"
	case StateRewriting:
		return "rewriting"
	default:
		return "done"
	}
}

// FileResult summarises one migrated file.
type FileResult struct {
	Path          string
	Output        string
	Declaration   int // normalized line the declaration was placed before
	Statements    int
	Rewritten     int
	PassedThrough int
	Prompts       int
}

type target struct {
	path            string
	output          string
	source          []string
	trailingNewline bool
}

// fileSession holds everything that lives for one target file.
type fileSession struct {
	r     *Runner
	port  *protocol.Port
	t     target
	state State

	norm     Normalized
	buf      *model.Buffer
	lines    model.LineMap
	resolver *Resolver
	result   FileResult
}

func (r *Runner) newFileSession(t target) *fileSession {
	return &fileSession{
		r:      r,
		port:   r.port,
		t:      t,
		result: FileResult{Path: t.path, Output: t.output},
	}
}

func (s *fileSession) run() (FileResult, error) {
	s.port.Log(protocol.LevelInfo, fmt.Sprintf("------------ Editing %s -------------", s.t.path))
	s.normalize()

	steps := []func() error{s.askBindings, s.askDeclarationLine, s.rewrite, s.finish}
	for _, step := range steps {
		if err := step(); err != nil {
			return s.result, err
		}
	}
	return s.result, nil
}

func (s *fileSession) normalize() {
	s.port.Log(protocol.LevelInfo, "-------------- Removing multi-line logs --------------")
	s.norm = s.r.normalizer.Normalize(s.t.source)
	for i, l := range s.norm.Lines {
		switch {
		case l.Joined():
			s.port.Log(protocol.LevelTrace, fmt.Sprintf("------ Multiple-line log on lines %d-%d (now line %d) ------\n%s",
				l.Source, l.SourceEnd, i+1, l.Text))
		case l.Statement:
			s.port.Log(protocol.LevelTrace, fmt.Sprintf("------ One-line log on line %d ------\n%s", l.Source, l.Text))
		}
	}
	if merged := len(s.norm.Merges()); merged > 0 {
		s.port.Log(protocol.LevelInfo, fmt.Sprintf("Joined %d multi-line logs", merged))
	}
	for _, n := range s.norm.Unterminated {
		s.port.Log(protocol.LevelWarn, fmt.Sprintf("Log starting on line %d is never terminated; leaving it unchanged", n))
	}

	s.buf = model.NewBufferLines(s.norm.Texts())
	s.port.Emit(protocol.NewFile(s.buf.Text()))
}

func (s *fileSession) askBindings() error {
	s.state = StateAwaitBindings
	var bindings model.Bindings
	for _, sub := range s.r.tables.Subsystems() {
		q := model.TextQuery(fmt.Sprintf("Specify variable name for logger %s (for auto-search based on comments, blank or - to skip)", sub.Label()))
		answer, err := s.port.Ask(q.Text(), func(string) error { return nil })
		if err != nil {
			return err
		}
		if answer == "-" {
			answer = ""
		}
		bindings = append(bindings, model.Binding{Variable: answer, Subsystem: sub})
	}
	s.resolver = NewResolver(s.r.tables, bindings, s.r.cfg.Rewrite.CommentMiss)
	return nil
}

func (s *fileSession) askDeclarationLine() error {
	s.state = StateAwaitDeclarationLine
	s.port.Log(protocol.LevelInfo, "-------------- Replacing logs --------------")

	last := len(s.norm.Lines) + 1
	q := model.TextQuery(fmt.Sprintf("Specify line number to put %q (1-%d)", s.r.rewriter.Declaration(), last))
	_, err := s.port.Ask(q.Text(), func(answer string) error {
		n, err := strconv.Atoi(answer)
		if err != nil || n < 1 || n > last {
			return fmt.Errorf("Wrong input: expected a line number from 1 to %d", last)
		}
		s.result.Declaration = n
		return nil
	})
	return err
}

func (s *fileSession) rewrite() error {
	s.state = StateRewriting
	for i, l := range s.norm.Lines {
		orig := i + 1
		if orig == s.result.Declaration {
			if err := s.insertDeclaration(); err != nil {
				return err
			}
		}
		if !l.Statement {
			continue
		}
		s.result.Statements++
		ref := model.LineRef{Source: l.Source, Original: orig, Edited: s.lines.Edited(orig)}
		if err := s.rewriteLine(ref, l); err != nil {
			return err
		}
	}
	if s.result.Declaration == len(s.norm.Lines)+1 {
		return s.insertDeclaration()
	}
	return nil
}

func (s *fileSession) insertDeclaration() error {
	edited, err := s.lines.Insert(s.result.Declaration)
	if err != nil {
		return err
	}
	text := s.r.rewriter.Declaration()
	if err := s.buf.Insert(edited, text); err != nil {
		return err
	}
	s.port.Emit(protocol.InsertFileLine(edited, text))
	return nil
}

func (s *fileSession) rewriteLine(ref model.LineRef, l LogicalLine) error {
	if current, ok := s.buf.Line(ref.Edited); !ok || current != l.Text {
		return fmt.Errorf("%s: buffer out of sync at %s", s.t.path, ref)
	}
	statement := strings.TrimSpace(l.Text)

	call, err := s.r.calls.Parse(l.Text)
	if err != nil {
		s.result.PassedThrough++
		s.port.Log(protocol.LevelWarn, fmt.Sprintf("Leaving %s unchanged: %v\n%s", ref, err, statement))
		return nil
	}

	block := CommentBlock(s.t.source, ref.Source, s.r.normalizer.IsComment)
	res := s.resolver.Resolve(call.Token, ref, statement, block)
	s.flush(res)

	if q := res.Pending(); q != nil {
		s.result.Prompts++
		s.port.Emit(protocol.JumpLine(ref.Edited))
		_, err := s.port.Ask(q.Text(), func(answer string) error {
			err := res.Answer(answer)
			s.flush(res)
			return err
		})
		if err != nil {
			return err
		}
	}

	m, _ := res.Match()
	text := s.r.rewriter.Statement(call, m.Template)
	if err := s.buf.Replace(ref.Edited, text); err != nil {
		return err
	}
	s.port.Emit(protocol.ReplaceFileLine(ref.Edited, text))
	s.port.Log(protocol.LevelTrace, fmt.Sprintf("------- Replacing log on %s --------\n%s\n%s", ref, statement, strings.TrimSpace(text)))
	s.r.log.Debug("statement rewritten",
		zap.String("file", s.t.path),
		zap.Int("line", ref.Original),
		zap.Int("edited", ref.Edited),
		zap.String("token", call.Token),
		zap.Stringer("subsystem", m.Subsystem),
		zap.Stringer("origin", m.Origin))
	s.result.Rewritten++
	return nil
}

func (s *fileSession) flush(res *Resolution) {
	for _, n := range res.TakeNotes() {
		s.port.Log(n.Level, n.Text)
	}
}

func (s *fileSession) finish() error {
	s.state = StateDone
	text := s.buf.String()
	if s.t.trailingNewline {
		text = s.buf.Text()
	}
	if err := writeOutput(s.t.output, text); err != nil {
		return fmt.Errorf("%s: %w", s.t.path, err)
	}
	s.port.Log(protocol.LevelInfo, fmt.Sprintf("Wrote %s (%d of %d logs rewritten, %d left unchanged)",
		s.t.output, s.result.Rewritten, s.result.Statements, s.result.PassedThrough))
	s.r.log.Info("file migrated",
		zap.String("file", s.t.path),
		zap.String("output", s.t.output),
		zap.Int("statements", s.result.Statements),
		zap.Int("rewritten", s.result.Rewritten),
		zap.Int("prompts", s.result.Prompts),
		zap.Int("inserted", s.lines.Inserted()))
	return nil
}
