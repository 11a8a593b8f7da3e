package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const banner = `
╔══════════════════════════════════════╗
║          SNIPPET  PLAYGROUND         ║
╚══════════════════════════════════════╝
`

type model struct {
	styles  styles
	session *session

	viewport  viewport.Model
	textarea  textarea.Model
	spinner   spinner.Model
	isLoading bool
	width     int

	history []string
}

func initialModel(theme ThemeName, s *session) *model {
	styles := GetTheme(theme)
	ta := textarea.New()
	ta.Placeholder = "Enter a statement or /help..."
	ta.Focus()
	ta.Prompt = styles.prompt.Render("► ")
	ta.CharLimit = 500
	ta.SetWidth(50)
	ta.SetHeight(1)
	ta.ShowLineNumbers = false

	sp := spinner.New()
	sp.Spinner = spinner.Points
	sp.Style = styles.ascii

	return &model{
		styles:   styles,
		session:  s,
		textarea: ta,
		spinner:  sp,
		history: []string{
			styles.ascii.Render(banner),
			styles.inactive.Render(fmt.Sprintf("Dialect %s. Type /help for commands.", s.Version())),
		},
	}
}

func (m *model) Init() tea.Cmd {
	return textarea.Blink
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		spCmd tea.Cmd
	)

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)
	m.spinner, spCmd = m.spinner.Update(msg)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			input := strings.TrimSpace(m.textarea.Value())
			m.textarea.Reset()
			if input == "" || m.isLoading {
				return m, nil
			}
			return m, m.processCommand(input)
		}

	case evalResultMsg:
		m.isLoading = false
		if msg.err != nil {
			m.appendHistory(m.styles.error.Render("✗ " + msg.err.Error()))
			return m, nil
		}
		if len(msg.output) == 0 {
			m.appendHistory(m.styles.inactive.Render("✓"))
			return m, nil
		}
		m.appendHistory(msg.output...)

	case lintResultMsg:
		m.isLoading = false
		if msg.err != nil {
			m.appendHistory(m.styles.error.Render("✗ " + msg.err.Error()))
			return m, nil
		}
		if len(msg.results) == 0 {
			m.appendHistory(m.styles.success.Render("✓ no violations"))
			return m, nil
		}
		lines := make([]string, 0, len(msg.results))
		for _, r := range msg.results {
			lines = append(lines, m.styles.warning.Render(fmt.Sprintf("%d:%d  %s", r.Line, r.Column, r.Message)))
		}
		m.appendHistory(lines...)

	case formatResultMsg:
		m.isLoading = false
		if msg.err != nil {
			m.appendHistory(m.styles.error.Render("✗ " + msg.err.Error()))
			return m, nil
		}
		m.appendHistory(msg.formatted)

	case errorMsg:
		m.isLoading = false
		m.appendHistory(m.styles.error.Render("⚠ " + msg.err.Error()))
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = msg.Height - 8
		m.textarea.SetWidth(msg.Width - 10)
		m.viewport.SetContent(strings.Join(m.history, "\n"))
	}

	return m, tea.Batch(tiCmd, vpCmd, spCmd)
}

func (m *model) View() string {
	lines, inputs := m.session.Stats()
	status := m.styles.inactive.Render(strings.Join([]string{
		fmt.Sprintf("DIALECT: %s", m.session.Version()),
		fmt.Sprintf("LINES: %d", lines),
		fmt.Sprintf("QUEUED INPUT: %d", inputs),
	}, " │ "))

	var loadingIndicator string
	if m.isLoading {
		loadingIndicator = " " + m.spinner.View() + " " + m.styles.success.Render("RUNNING...")
	}

	return m.styles.app.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.styles.viewport.Render(m.viewport.View()),
			"",
			m.styles.footer.Render(
				lipgloss.JoinHorizontal(lipgloss.Left,
					m.textarea.View(),
					loadingIndicator,
				),
			),
			status,
		),
	)
}

func (m *model) appendHistory(lines ...string) {
	m.history = append(m.history, lines...)
	m.viewport.SetContent(strings.Join(m.history, "\n"))
	m.viewport.GotoBottom()
}

func (m *model) processCommand(input string) tea.Cmd {
	m.appendHistory("", m.styles.prompt.Render("► ")+input)

	if !strings.HasPrefix(input, "/") {
		m.isLoading = true
		return tea.Batch(m.spinner.Tick, submitCmd(m.session, input))
	}

	parts := strings.Fields(input)
	command, args := parts[0], parts[1:]

	switch command {
	case "/help":
		m.appendHistory(renderHelp(m.width - 8))
		return nil

	case "/lint":
		m.isLoading = true
		return tea.Batch(m.spinner.Tick, lintCmd(m.session))

	case "/format":
		m.isLoading = true
		return tea.Batch(m.spinner.Tick, formatCmd(m.session))

	case "/source":
		src := m.session.Source()
		if src == "" {
			m.appendHistory(m.styles.inactive.Render("The program is empty."))
			return nil
		}
		m.appendHistory(src)
		return nil

	case "/input":
		if len(args) == 0 {
			m.appendHistory(m.styles.error.Render("USAGE: /input [line...]"))
			return nil
		}
		m.session.QueueInput(args...)
		m.appendHistory(m.styles.success.Render(fmt.Sprintf("✓ queued %d input line(s)", len(args))))
		return nil

	case "/version":
		if len(args) != 1 {
			m.appendHistory(m.styles.error.Render("USAGE: /version [1.0|1.1]"))
			return nil
		}
		if err := m.session.SetVersion(args[0]); err != nil {
			m.appendHistory(m.styles.error.Render("✗ " + err.Error()))
			return nil
		}
		m.appendHistory(m.styles.success.Render(fmt.Sprintf("✓ dialect set to %s, program cleared", args[0])))
		return nil

	case "/reset":
		m.session.Reset()
		m.appendHistory(m.styles.success.Render("✓ program cleared"))
		return nil

	case "/exit", "/quit":
		return tea.Quit

	default:
		m.appendHistory(m.styles.error.Render(fmt.Sprintf("UNKNOWN COMMAND: %s", command)),
			m.styles.inactive.Render("Type /help for assistance."))
		return nil
	}
}
