// Package console presents worker events as plain text and answers prompts
// from a line-oriented reader, for pipes and scripted runs.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"mdbconv/internal/model"
	"mdbconv/internal/protocol"
)

// ErrInputClosed is returned when the worker asks for input after the reader is exhausted.
var ErrInputClosed = errors.New("input closed while the worker was waiting for an answer")

var (
	warnColor     = color.New(color.FgYellow)
	errorColor    = color.New(color.FgRed, color.Bold)
	traceColor    = color.New(color.FgHiBlack)
	insertedColor = color.New(color.FgGreen)
	replacedColor = color.New(color.FgCyan)
	doneColor     = color.New(color.FgHiGreen, color.Bold)
)

// Presenter mirrors the worker's file and prints its log.
type Presenter struct {
	in   *bufio.Scanner
	out  io.Writer
	file *model.Buffer

	// Trace logs are only printed when set.
	Verbose bool
}

func New(in io.Reader, out io.Writer) *Presenter {
	return &Presenter{
		in:   bufio.NewScanner(in),
		out:  out,
		file: model.NewBuffer(""),
	}
}

// Run consumes events until the stream closes. It returns ErrInputClosed if a
// prompt cannot be answered; the caller must then cancel the worker.
func (p *Presenter) Run(events <-chan protocol.Event, submit func(string) bool) error {
	for ev := range events {
		if err := p.handle(ev, submit); err != nil {
			return err
		}
	}
	return nil
}

func (p *Presenter) handle(ev protocol.Event, submit func(string) bool) error {
	switch ev.Kind {
	case protocol.EventLog:
		p.log(ev)
	case protocol.EventWaitForInput:
		fmt.Fprint(p.out, model.IconPrompt+" ")
		if !p.in.Scan() {
			fmt.Fprintln(p.out)
			if err := p.in.Err(); err != nil {
				return fmt.Errorf("read answer: %w", err)
			}
			return ErrInputClosed
		}
		if !submit(p.in.Text()) {
			return errors.New("worker did not take the answer")
		}
	case protocol.EventJumpLine:
		p.file.Goto(ev.Line)
		fmt.Fprintln(p.out, p.file.Excerpt(ev.Line, 2))
	case protocol.EventNewFile:
		p.file.Reset(ev.Text)
	case protocol.EventInsertFileLine:
		if err := p.file.Insert(ev.Line, ev.Text); err != nil {
			return err
		}
		insertedColor.Fprintf(p.out, "%s %4d %s\n", model.IconInserted, ev.Line, ev.Text)
	case protocol.EventReplaceFileLine:
		if err := p.file.Replace(ev.Line, ev.Text); err != nil {
			return err
		}
		replacedColor.Fprintf(p.out, "%s %4d %s\n", model.IconReplaced, ev.Line, ev.Text)
	case protocol.EventReadyToQuit:
		doneColor.Fprintln(p.out, model.IconDone+" All files processed.")
	}
	return nil
}

func (p *Presenter) log(ev protocol.Event) {
	switch ev.Level {
	case protocol.LevelWarn:
		warnColor.Fprintln(p.out, ev.Text)
	case protocol.LevelError:
		errorColor.Fprintln(p.out, ev.Text)
	case protocol.LevelTrace:
		if p.Verbose {
			traceColor.Fprintln(p.out, ev.Text)
		}
	default:
		fmt.Fprintln(p.out, ev.Text)
	}
}

// Lines returns the presenter's copy of the file being edited.
func (p *Presenter) Lines() []string {
	return p.file.Lines()
}
