package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"mdbconv/internal/model"
	"mdbconv/internal/protocol"
)

// Focus is the panel that receives navigation keys.
type Focus int

const (
	FocusInput Focus = iota
	FocusFile
	FocusLog
	focusCount
)

func (f Focus) String() string {
	switch f {
	case FocusFile:
		return "file"
	case FocusLog:
		return "log"
	default:
		return "input"
	}
}

// AppModel holds the TUI state.
type AppModel struct {
	// Data
	File *model.Buffer
	Logs []protocol.Event

	// Worker state
	Waiting bool // the worker is blocked on a submission
	Done    bool // ReadyToQuit received
	Closed  bool // event stream ended

	// UI State
	Focus      Focus
	WindowSize tea.WindowSizeMsg

	// Components
	Input   textinput.Model
	LogView viewport.Model

	events <-chan protocol.Event
	submit func(string) bool
}

// New returns a model fed by events that hands completed input to submit.
func New(events <-chan protocol.Event, submit func(string) bool) AppModel {
	ti := textinput.New()
	ti.Prompt = model.IconPrompt + " "
	ti.Placeholder = "waiting for the worker..."
	ti.CharLimit = 256
	ti.Width = 40
	ti.Focus()

	return AppModel{
		File:    model.NewBuffer(""),
		Focus:   FocusInput,
		Input:   ti,
		LogView: viewport.New(40, 10),
		events:  events,
		submit:  submit,
	}
}

// InitialModel wires a model to the presentation side of pipe.
func InitialModel(pipe *protocol.Pipe) AppModel {
	return New(pipe.Events(), pipe.Submit)
}
