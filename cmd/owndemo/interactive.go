package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/ownkit"
	"github.com/wippyai/ownkit/alloc"
	"github.com/wippyai/ownkit/owner"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			Width(28)

	cardTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#98FB98"))

	noneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Italic(true)

	stepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	eventStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	auditOKStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// uiObserver collects lifecycle events between steps for the log viewport.
type uiObserver struct {
	lines []string
}

func (o *uiObserver) OnResourceEvent(e alloc.Event) {
	o.lines = append(o.lines, fmt.Sprintf("%s seq=%d value=%d", e.Type, e.Seq, e.Value))
}

type interactiveModel struct {
	err   error
	st    *runState
	obs   *uiObserver
	cfg   scenario
	steps []step
	log   []string
	audit string
	next  int
	vp    viewport.Model
	ready bool
}

func newInteractiveModel(cfg scenario) *interactiveModel {
	m := &interactiveModel{
		cfg:   cfg,
		steps: scenarioSteps(),
	}
	m.reset()
	return m
}

// reset starts the scenario over with a fresh tracker.
func (m *interactiveModel) reset() {
	m.st = newRunState(m.cfg)
	m.obs = &uiObserver{}
	m.st.tr.Subscribe(m.obs)
	m.next = 0
	m.log = nil
	m.audit = ""
	m.err = nil
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "n", " ":
			m.advance()
			return m, nil

		case "r":
			m.reset()
			m.refreshLog()
			return m, nil
		}

	case tea.WindowSizeMsg:
		vpHeight := msg.Height - 17
		if vpHeight < 3 {
			vpHeight = 3
		}
		if !m.ready {
			m.vp = viewport.New(msg.Width, vpHeight)
			m.ready = true
		} else {
			m.vp.Width = msg.Width
			m.vp.Height = vpHeight
		}
		m.refreshLog()
	}

	// Remaining keys scroll the log viewport
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

// advance runs the next step, or the final audit once all steps ran.
func (m *interactiveModel) advance() {
	if m.err != nil || m.audit != "" {
		return
	}

	if m.next < len(m.steps) {
		s := m.steps[m.next]
		m.next++
		m.log = append(m.log, stepStyle.Render(fmt.Sprintf("[%d/%d] %s", m.next, len(m.steps), s.title)))

		lines, err := s.run(m.st)
		m.drainEvents()
		if err != nil {
			m.err = err
			m.refreshLog()
			return
		}
		for _, ln := range lines {
			m.log = append(m.log, "  "+ln)
		}
		m.refreshLog()
		return
	}

	if err := m.st.tr.Close(); err != nil {
		m.err = err
		return
	}
	m.audit = "clean, every resource released exactly once"
}

func (m *interactiveModel) drainEvents() {
	for _, ln := range m.obs.lines {
		m.log = append(m.log, eventStyle.Render("  event: "+ln))
	}
	m.obs.lines = m.obs.lines[:0]
}

func (m *interactiveModel) refreshLog() {
	if !m.ready {
		return
	}
	m.vp.SetContent(strings.Join(m.log, "\n"))
	m.vp.GotoBottom()
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("ownkit inspector"))
	b.WriteString(fmt.Sprintf(" owner id=%d name=%q\n\n", m.cfg.ID, m.cfg.Name))

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		m.ownerCard("owner1", m.st.owner1),
		m.ownerCard("owner2", m.st.owner2),
		m.ownerCard("owner3", m.st.owner3),
	))
	b.WriteString("\n")

	b.WriteString(m.liveTable())
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(fmt.Sprintf("error: %v", m.err)))
	case m.audit != "":
		b.WriteString(auditOKStyle.Render("audit: " + m.audit))
	case m.next < len(m.steps):
		b.WriteString(stepStyle.Render("next: " + m.steps[m.next].title))
	default:
		b.WriteString(stepStyle.Render("next: leak audit"))
	}
	b.WriteString("\n")

	if m.ready {
		b.WriteString(m.vp.View())
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("n/space step • r reset • q quit"))
	return b.String()
}

func (m *interactiveModel) ownerCard(label string, o *owner.Owner) string {
	var body strings.Builder
	body.WriteString(cardTitleStyle.Render(label))
	body.WriteString("\n")

	if o == nil {
		body.WriteString(noneStyle.Render("not constructed"))
		return cardStyle.Render(body.String())
	}

	fmt.Fprintf(&body, "id    %d\n", o.ID())
	fmt.Fprintf(&body, "name  %q\n", o.Name())
	if res := o.Resource(); res != nil {
		fmt.Fprintf(&body, "value %d", res.Value())
		if seq, ok := m.st.tr.Seq(res); ok {
			fmt.Fprintf(&body, "\nseq   %d", seq)
		}
	} else {
		body.WriteString(noneStyle.Render("resource <none>"))
	}
	return cardStyle.Render(body.String())
}

func (m *interactiveModel) liveTable() string {
	var rows []string
	m.st.tr.Each(func(res *ownkit.Resource, seq uint64) bool {
		rows = append(rows, fmt.Sprintf("  seq=%d value=%d handle=%p", seq, res.Value(), res))
		return true
	})
	if len(rows) == 0 {
		return "live allocations: none"
	}
	return "live allocations:\n" + strings.Join(rows, "\n")
}

func runInteractive(cfg scenario) error {
	p := tea.NewProgram(newInteractiveModel(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
