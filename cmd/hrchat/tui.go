package main

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/poiesic/hrchat/core"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	subtitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#06B6D4"))
	userStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#06B6D4"))
	assistantStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A6E3A1"))
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8"))
)

// headerHeight and footerHeight are the rows outside the transcript viewport.
const (
	headerHeight = 3
	footerHeight = 3
)

// entry is one rendered transcript line.
type entry struct {
	role    core.Role
	content string
	sources []string
	failed  bool
}

// answerMsg carries the outcome of a question back to the update loop.
type answerMsg struct {
	resp core.QueryResponse
	err  error
}

type chatModel struct {
	ctx      context.Context
	session  asker
	input    textinput.Model
	spinner  spinner.Model
	viewport viewport.Model
	entries  []entry
	busy     bool
	width    int
}

func newChatModel(ctx context.Context, session asker) chatModel {
	ti := textinput.New()
	ti.Placeholder = inputPrompt
	ti.Prompt = "> "
	ti.CharLimit = 1024
	ti.Width = 76
	ti.Focus()

	return chatModel{
		ctx:      ctx,
		session:  session,
		input:    ti,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(subtitleStyle)),
		viewport: viewport.New(80, 18),
		width:    80,
	}
}

func (m chatModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-headerHeight-footerHeight, 1)
		m.input.Width = max(msg.Width-len(m.input.Prompt)-1, 10)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case answerMsg:
		m.busy = false
		if msg.err != nil {
			m.entries = append(m.entries, entry{role: core.RoleAI, content: msg.err.Error(), failed: true})
		} else {
			m.entries = append(m.entries, entry{role: core.RoleAI, content: msg.resp.Answer, sources: msg.resp.Sources()})
		}
		m.refresh()
		cmd := m.input.Focus()
		return m, cmd

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m chatModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	//nolint:exhaustive // only a few keys are special
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	if m.busy {
		return m, nil
	}

	if msg.Type == tea.KeyEnter {
		question := strings.TrimSpace(m.input.Value())
		if question == "" {
			return m, nil
		}
		m.busy = true
		m.input.Reset()
		m.input.Blur()
		m.entries = append(m.entries, entry{role: core.RoleHuman, content: question})
		m.refresh()
		return m, tea.Batch(m.spinner.Tick, m.ask(question))
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// ask runs the question off the update loop.
func (m chatModel) ask(question string) tea.Cmd {
	return func() tea.Msg {
		resp, err := m.session.Ask(m.ctx, question)
		return answerMsg{resp: resp, err: err}
	}
}

// refresh re-renders the transcript and scrolls to the newest message.
func (m *chatModel) refresh() {
	m.viewport.SetContent(m.transcript())
	m.viewport.GotoBottom()
}

func (m chatModel) transcript() string {
	wrap := lipgloss.NewStyle().Width(max(m.width-2, 20))

	var b strings.Builder
	for _, e := range m.entries {
		switch {
		case e.failed:
			b.WriteString(errorStyle.Render("Error: "))
			b.WriteString(wrap.Render(e.content))
		case e.role == core.RoleHuman:
			b.WriteString(userStyle.Render("You"))
			b.WriteString("\n")
			b.WriteString(wrap.Render(e.content))
		default:
			b.WriteString(assistantStyle.Render("Assistant"))
			b.WriteString("\n")
			b.WriteString(wrap.Render(e.content))
			if len(e.sources) > 0 {
				b.WriteString("\n")
				b.WriteString(mutedStyle.Render("Sources: " + strings.Join(e.sources, ", ")))
			}
		}
		b.WriteString("\n\n")
	}
	return b.String()
}

func (m chatModel) View() string {
	header := titleStyle.Render(appTitle) + "\n" + subtitleStyle.Render(appSubtitle) + "\n"

	footer := m.input.View()
	if m.busy {
		footer = m.spinner.View() + " " + workingLabel
	}
	footer += "\n" + mutedStyle.Render("enter to send | pgup/pgdn to scroll | esc to quit")

	return header + "\n" + m.viewport.View() + "\n" + footer
}
