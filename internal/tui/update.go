package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"mdbconv/internal/protocol"
)

// MsgEvent carries one worker event.
type MsgEvent protocol.Event

// MsgWorkerDone indicates that the worker closed its event stream.
type MsgWorkerDone struct{}

func listenForEvent(events <-chan protocol.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return MsgWorkerDone{}
		}
		return MsgEvent(ev)
	}
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, listenForEvent(m.events))
}

// Update handles events.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.WindowSize = msg
		m.resize()
		return m, nil

	case MsgEvent:
		cmd = m.apply(protocol.Event(msg))
		return m, tea.Batch(cmd, listenForEvent(m.events))

	case MsgWorkerDone:
		m.Closed = true
		m.Waiting = false
		m.Input.Blur()
		if !m.Done {
			// The worker stopped early; main reports why.
			return m, tea.Quit
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "ctrl+q":
			return m, tea.Quit
		}
		if m.Done {
			return m, tea.Quit
		}

		switch msg.String() {
		case "ctrl+down", "ctrl+j", "tab":
			m.setFocus((m.Focus + 1) % focusCount)
			return m, nil
		case "ctrl+up", "ctrl+k", "shift+tab":
			m.setFocus((m.Focus + focusCount - 1) % focusCount)
			return m, nil
		}

		switch m.Focus {
		case FocusFile:
			switch msg.String() {
			case "up", "k":
				m.File.Move(-1)
			case "down", "j":
				m.File.Move(1)
			case "pgup":
				m.File.Move(-m.fileRows())
			case "pgdown":
				m.File.Move(m.fileRows())
			case "home", "g":
				m.File.Goto(1)
			case "end", "G":
				m.File.Goto(m.File.Len())
			}
			return m, nil
		case FocusLog:
			m.LogView, cmd = m.LogView.Update(msg)
			return m, cmd
		}

		if msg.Type == tea.KeyEnter {
			m.submitInput()
			return m, nil
		}
		m.Input, cmd = m.Input.Update(msg)
		return m, cmd
	}

	return m, cmd
}

// apply mirrors one worker event onto the display.
func (m *AppModel) apply(ev protocol.Event) tea.Cmd {
	switch ev.Kind {
	case protocol.EventLog:
		m.appendLog(ev)
	case protocol.EventWaitForInput:
		m.Waiting = true
		m.setFocus(FocusInput)
		return textinput.Blink
	case protocol.EventJumpLine:
		m.File.Goto(ev.Line)
	case protocol.EventNewFile:
		m.File.Reset(ev.Text)
	case protocol.EventInsertFileLine:
		if err := m.File.Insert(ev.Line, ev.Text); err != nil {
			m.appendLog(protocol.Log(err.Error(), protocol.LevelError))
			break
		}
		m.File.Current = ev.Line
	case protocol.EventReplaceFileLine:
		if err := m.File.Replace(ev.Line, ev.Text); err != nil {
			m.appendLog(protocol.Log(err.Error(), protocol.LevelError))
			break
		}
		m.File.Current = ev.Line
	case protocol.EventReadyToQuit:
		m.Done = true
		m.Waiting = false
		m.Input.Blur()
		m.appendLog(protocol.Log("All files processed. Press any key to exit.", protocol.LevelInfo))
	}
	return nil
}

func (m *AppModel) submitInput() {
	if !m.Waiting {
		return
	}
	if !m.submit(m.Input.Value()) {
		return
	}
	m.Waiting = false
	m.Input.Reset()
}

func (m *AppModel) setFocus(f Focus) {
	m.Focus = f
	if f == FocusInput && !m.Done {
		m.Input.Focus()
		return
	}
	m.Input.Blur()
}

func (m *AppModel) appendLog(ev protocol.Event) {
	m.Logs = append(m.Logs, ev)
	m.LogView.SetContent(m.renderLogs())
	m.LogView.GotoBottom()
}
