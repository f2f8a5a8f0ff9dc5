package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"mdbconv/internal/model"
	"mdbconv/internal/protocol"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	currentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	normalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))

	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("208")) // Orange
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)

	borderColor = lipgloss.Color("63")
	activeColor = lipgloss.Color("205")
)

const (
	minWidth  = 40
	minHeight = 12
	inputRows = 3 // border + input line
	footerRow = 1
)

// layout returns the interior sizes of the file and log panels.
func (m AppModel) layout() (fileW, logW, height int) {
	width := m.WindowSize.Width
	if width < minWidth {
		width = minWidth
	}
	h := m.WindowSize.Height
	if h < minHeight {
		h = minHeight
	}
	// Subtracting 4 for the two bordered panels side by side.
	net := width - 4
	fileW = net * 3 / 5
	logW = net - fileW
	height = h - inputRows - footerRow - 2
	return fileW, logW, height
}

func (m *AppModel) resize() {
	_, logW, height := m.layout()
	m.LogView.Width = logW
	m.LogView.Height = height - 1 // title row
	m.Input.Width = m.WindowSize.Width - 8
	m.LogView.SetContent(m.renderLogs())
	m.LogView.GotoBottom()
}

func (m AppModel) fileRows() int {
	_, _, height := m.layout()
	if height < 2 {
		return 1
	}
	return height - 1
}

func (m AppModel) View() string {
	if m.WindowSize.Width == 0 {
		return "\n  Starting migration... please wait.\n"
	}
	fileW, logW, height := m.layout()

	left := panel(m.renderFile(fileW, height-1), "Source", fileW, height, m.Focus == FocusFile)
	right := panel(m.LogView.View(), "Log", logW, height, m.Focus == FocusLog)

	inputBorder := borderColor
	if m.Focus == FocusInput {
		inputBorder = activeColor
	}
	input := lipgloss.NewStyle().
		Width(fileW+logW+2).
		Border(lipgloss.NormalBorder()).
		BorderForeground(inputBorder).
		Render(m.inputLine())

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, left, right),
		input,
		dimStyle.Render(m.help()))
}

func panel(content, title string, width, height int, focused bool) string {
	color := borderColor
	if focused {
		color = activeColor
	}
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Border(lipgloss.NormalBorder()).
		BorderForeground(color).
		Render(titleStyle.Render(title) + "\n" + content)
}

// renderFile shows a window of the buffer around the selected line.
func (m AppModel) renderFile(width, rows int) string {
	n := m.File.Len()
	if n == 0 {
		return dimStyle.Render("(no file)")
	}
	if rows < 1 {
		rows = 1
	}
	start := 1
	if n > rows {
		start = m.File.Selected - rows/2
		if start < 1 {
			start = 1
		}
		if start+rows-1 > n {
			start = n - rows + 1
		}
	}
	end := start + rows - 1
	if end > n {
		end = n
	}

	numWidth := len(fmt.Sprint(n))
	var b strings.Builder
	for i := start; i <= end; i++ {
		text, _ := m.File.Line(i)
		marker := " "
		if i == m.File.Current {
			marker = model.IconSelected
		}
		line := fmt.Sprintf("%s %*d %s", marker, numWidth, i, strings.ReplaceAll(text, "\t", "    "))
		line = truncate(line, width)

		style := normalStyle
		switch {
		case i == m.File.Selected && m.Focus == FocusFile:
			style = selectedStyle
		case i == m.File.Current:
			style = currentStyle
		}
		b.WriteString(style.Render(line))
		if i < end {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m AppModel) renderLogs() string {
	width := m.LogView.Width
	var b strings.Builder
	for i, ev := range m.Logs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(levelStyle(ev.Level).Width(width).Render(ev.Text))
	}
	return b.String()
}

func levelStyle(level protocol.LogLevel) lipgloss.Style {
	switch level {
	case protocol.LevelWarn:
		return warnStyle
	case protocol.LevelError:
		return errorStyle
	case protocol.LevelTrace:
		return dimStyle
	default:
		return normalStyle
	}
}

func (m AppModel) inputLine() string {
	switch {
	case m.Done:
		return currentStyle.Render(model.IconDone + " All files processed. Press any key to exit.")
	case m.Closed:
		return dimStyle.Render("Worker stopped.")
	case !m.Waiting:
		return dimStyle.Render(m.Input.Prompt + "working...")
	}
	return m.Input.View()
}

func (m AppModel) help() string {
	switch m.Focus {
	case FocusFile:
		return "File: ↑/↓: Move • PgUp/PgDn: Page • ctrl+↑/↓: Switch Panel • Esc: Quit"
	case FocusLog:
		return "Log: ↑/↓: Scroll • ctrl+↑/↓: Switch Panel • Esc: Quit"
	default:
		return "Input: Enter: Submit • ctrl+↑/↓: Switch Panel • Esc: Quit"
	}
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
