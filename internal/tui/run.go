package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"mdbconv/internal/protocol"
)

// Run shows the interactive display until the operator quits or the worker
// stops early.
func Run(pipe *protocol.Pipe) error {
	program := tea.NewProgram(InitialModel(pipe), tea.WithAltScreen())
	_, err := program.Run()
	return err
}
