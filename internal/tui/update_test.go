package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mdbconv/internal/protocol"
)

type fakeWorker struct {
	submitted []string
	accept    bool
}

func (w *fakeWorker) submit(text string) bool {
	if !w.accept {
		return false
	}
	w.submitted = append(w.submitted, text)
	return true
}

func newTestModel(t *testing.T) (AppModel, *fakeWorker) {
	t.Helper()
	w := &fakeWorker{accept: true}
	m := New(make(chan protocol.Event), w.submit)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(AppModel), w
}

func send(t *testing.T, m AppModel, msgs ...tea.Msg) (AppModel, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var updated tea.Model
		updated, cmd = m.Update(msg)
		m = updated.(AppModel)
	}
	return m, cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func typeText(text string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)}
}

func TestEventsMirrorTheFile(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = send(t, m,
		MsgEvent(protocol.NewFile("a\nb\nc\n")),
		MsgEvent(protocol.InsertFileLine(1, "decl")),
		MsgEvent(protocol.ReplaceFileLine(3, "B")),
		MsgEvent(protocol.JumpLine(4)),
	)
	assert.Equal(t, []string{"decl", "a", "B", "c"}, m.File.Lines())
	assert.Equal(t, 4, m.File.Current)
	assert.Equal(t, 4, m.File.Selected)

	m, _ = send(t, m, MsgEvent(protocol.ReplaceFileLine(9, "x")))
	require.Len(t, m.Logs, 1)
	assert.Equal(t, protocol.LevelError, m.Logs[0].Level)
	assert.Equal(t, []string{"decl", "a", "B", "c"}, m.File.Lines())
}

func TestEnterSubmitsOnlyWhileWaiting(t *testing.T) {
	m, w := newTestModel(t)

	m, _ = send(t, m, typeText("log"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Empty(t, w.submitted)

	m, _ = send(t, m, MsgEvent(protocol.WaitForInput()))
	assert.True(t, m.Waiting)
	assert.Equal(t, FocusInput, m.Focus)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, []string{"log"}, w.submitted)
	assert.False(t, m.Waiting)
	assert.Empty(t, m.Input.Value())

	m, _ = send(t, m, typeText("2"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Len(t, w.submitted, 1)
}

func TestRejectedSubmitKeepsInput(t *testing.T) {
	m, w := newTestModel(t)
	w.accept = false
	m, _ = send(t, m, MsgEvent(protocol.WaitForInput()), typeText("7"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.Waiting)
	assert.Equal(t, "7", m.Input.Value())
}

func TestFocusCyclesAndMovesCursor(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = send(t, m, MsgEvent(protocol.NewFile("1\n2\n3\n")))

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlDown})
	assert.Equal(t, FocusFile, m.Focus)
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.File.Selected)
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 3, m.File.Selected)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlDown})
	assert.Equal(t, FocusLog, m.Focus)
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlUp}, tea.KeyMsg{Type: tea.KeyCtrlUp})
	assert.Equal(t, FocusInput, m.Focus)
}

func TestQuitKeys(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, isQuit(cmd))

	m, _ = send(t, m, MsgEvent(protocol.ReadyToQuit()))
	assert.True(t, m.Done)
	_, cmd = send(t, m, typeText("x"))
	assert.True(t, isQuit(cmd))
}

func TestWorkerDone(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := send(t, m, MsgWorkerDone{})
	assert.True(t, isQuit(cmd), "early stop quits")

	m, _ = send(t, m, MsgEvent(protocol.ReadyToQuit()))
	m, cmd = send(t, m, MsgWorkerDone{})
	assert.False(t, isQuit(cmd), "waits for a key after the last file")
	assert.True(t, m.Closed)
}

func TestListenForEvent(t *testing.T) {
	events := make(chan protocol.Event, 1)
	events <- protocol.JumpLine(3)
	close(events)

	assert.Equal(t, MsgEvent(protocol.JumpLine(3)), listenForEvent(events)())
	assert.Equal(t, MsgWorkerDone{}, listenForEvent(events)())
}

func TestViewShowsFileAndLogs(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = send(t, m,
		MsgEvent(protocol.NewFile("int a;\nqInfo(\"X\");\n")),
		MsgEvent(protocol.Log("Loading file fcpasm.mdb", protocol.LevelInfo)),
		MsgEvent(protocol.JumpLine(2)),
		MsgEvent(protocol.WaitForInput()),
	)
	out := m.View()
	assert.Contains(t, out, "int a;")
	assert.Contains(t, out, "Loading file fcpasm.mdb")
	assert.Contains(t, out, "Source")
	assert.Contains(t, out, "Enter: Submit")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abcdef", truncate("abcdef", 6))
	assert.Equal(t, "abc...", truncate("abcdefgh", 6))
	assert.Equal(t, "ab", truncate("abcdef", 2))
}
