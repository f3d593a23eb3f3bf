package main

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// maxHistory bounds the scrollback kept by the interactive shell.
const maxHistory = 200

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	outputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type interactiveModel struct {
	sh      *shell
	out     *bytes.Buffer
	title   string
	history []string
	input   textinput.Model
	height  int
}

func newInteractiveModel(sh *shell, cfg config) *interactiveModel {
	out := &bytes.Buffer{}
	sh.out = out

	ti := textinput.New()
	ti.Prompt = promptStyle.Render("hostfs> ")
	ti.Placeholder = "help"
	ti.Width = 60
	ti.Focus()

	return &interactiveModel{
		sh:    sh,
		out:   out,
		title: fmt.Sprintf("%s on %s (%s)", cfg.Root, cfg.Mountpoint, cfg.Platform),
		input: ti,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "enter":
			line := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			if line == "exit" || line == "quit" {
				return m, tea.Quit
			}
			m.runLine(line)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *interactiveModel) runLine(line string) {
	if line == "" {
		return
	}
	m.out.Reset()
	err := m.sh.execLine(line)

	m.push(promptStyle.Render("> ") + line)
	if text := strings.TrimRight(m.out.String(), "\n"); text != "" {
		for _, l := range strings.Split(text, "\n") {
			m.push(outputStyle.Render(l))
		}
	}
	if err != nil {
		m.push(errorStyle.Render(fmt.Sprintf("Error: %v", err)))
	}
}

func (m *interactiveModel) push(line string) {
	m.history = append(m.history, line)
	if over := len(m.history) - maxHistory; over > 0 {
		m.history = m.history[over:]
	}
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("hostfs"))
	b.WriteString(" ")
	b.WriteString(m.title)
	b.WriteString("\n\n")

	history := m.history
	if m.height > 6 && len(history) > m.height-6 {
		history = history[len(history)-(m.height-6):]
	}
	for _, l := range history {
		b.WriteString(l)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("enter run • help lists commands • esc quit"))
	return b.String()
}

func runInteractive(sh *shell, cfg config) error {
	p := tea.NewProgram(newInteractiveModel(sh, cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
