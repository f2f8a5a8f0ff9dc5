// Package protocol is the contract between the migration worker and whatever
// presents it to the operator. The worker emits Events in order and blocks for a
// Command only after it has emitted WaitForInput.
package protocol

import "fmt"

// LogLevel classifies Log events. It has no effect on the worker.
type LogLevel int

const (
	LevelInfo LogLevel = iota
	LevelWarn
	LevelError
	LevelTrace
)

func (l LogLevel) String() string {
	switch l {
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelTrace:
		return "TRACE"
	default:
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
}

// EventKind enumerates worker-to-presentation events.
type EventKind int

const (
	EventLog EventKind = iota
	EventWaitForInput
	EventJumpLine
	EventNewFile
	EventInsertFileLine
	EventReplaceFileLine
	EventReadyToQuit
)

var eventKindNames = map[EventKind]string{
	EventLog:             "Log",
	EventWaitForInput:    "WaitForInput",
	EventJumpLine:        "JumpLine",
	EventNewFile:         "NewFile",
	EventInsertFileLine:  "InsertFileLine",
	EventReplaceFileLine: "ReplaceFileLine",
	EventReadyToQuit:     "ReadyToQuit",
}

func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event is one worker-to-presentation message. Line is 1-based and refers to the
// edited numbering of the presentation's buffer.
type Event struct {
	Kind  EventKind
	Text  string
	Level LogLevel
	Line  int
}

func Log(text string, level LogLevel) Event {
	return Event{Kind: EventLog, Text: text, Level: level}
}

func WaitForInput() Event {
	return Event{Kind: EventWaitForInput}
}

func JumpLine(n int) Event {
	return Event{Kind: EventJumpLine, Line: n}
}

func NewFile(text string) Event {
	return Event{Kind: EventNewFile, Text: text}
}

func InsertFileLine(n int, text string) Event {
	return Event{Kind: EventInsertFileLine, Line: n, Text: text}
}

func ReplaceFileLine(n int, text string) Event {
	return Event{Kind: EventReplaceFileLine, Line: n, Text: text}
}

func ReadyToQuit() Event {
	return Event{Kind: EventReadyToQuit}
}

// Mutates reports whether the event changes the file buffer.
func (e Event) Mutates() bool {
	return e.Kind == EventNewFile || e.Kind == EventInsertFileLine || e.Kind == EventReplaceFileLine
}

func (e Event) String() string {
	switch e.Kind {
	case EventLog:
		return fmt.Sprintf("Log(%s, %q)", e.Level, e.Text)
	case EventJumpLine:
		return fmt.Sprintf("JumpLine(%d)", e.Line)
	case EventNewFile:
		return fmt.Sprintf("NewFile(%d bytes)", len(e.Text))
	case EventInsertFileLine, EventReplaceFileLine:
		return fmt.Sprintf("%s(%d, %q)", e.Kind, e.Line, e.Text)
	default:
		return e.Kind.String()
	}
}

// Command is one presentation-to-worker message: a completed text submission.
type Command struct {
	Text string
}

func Submit(text string) Command {
	return Command{Text: text}
}
