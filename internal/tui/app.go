// Package tui is the terminal viewer: one explorer session driven from the
// keyboard.
package tui

import (
	"context"
	"errors"
	"strconv"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lehigh-university-libraries/artexplorer/internal/catalog"
	"github.com/lehigh-university-libraries/artexplorer/internal/explorer"
	"github.com/lehigh-university-libraries/artexplorer/internal/history"
	"github.com/lehigh-university-libraries/artexplorer/internal/render"
	"github.com/lehigh-university-libraries/artexplorer/internal/sampler"
)

type model struct {
	ctx   context.Context
	theme Theme
	exp   *explorer.Explorer

	snap        explorer.Snapshot
	fetching    bool
	spinner     spinner.Model
	showHistory bool
	cursor      int
	status      string
	failed      bool
}

// Run starts the viewer and blocks until the user quits or ctx is done
func Run(ctx context.Context, e *explorer.Explorer) error {
	p, unsubscribe := newProgram(ctx, e, tea.WithAltScreen())
	defer unsubscribe()

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// newProgram builds the program and forwards explorer changes into it.
// The returned function removes the subscription.
func newProgram(ctx context.Context, e *explorer.Explorer, opts ...tea.ProgramOption) (*tea.Program, func()) {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(newModel(ctx, e), opts...)

	unsubscribe := e.Subscribe(func(s explorer.Snapshot) {
		p.Send(snapshotMsg{snap: s})
	})
	return p, unsubscribe
}

func newModel(ctx context.Context, e *explorer.Explorer) model {
	return model{
		ctx:     ctx,
		theme:   DefaultTheme(),
		exp:     e,
		snap:    e.Snapshot(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		status:  "Press n to start exploring",
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		m.apply(msg.snap)
		return m, nil

	case discoverDoneMsg:
		m.fetching = false
		m.apply(msg.snap)
		m.status, m.failed = discoverStatus(msg.err)
		return m, nil

	case selectDoneMsg:
		m.apply(msg.snap)
		switch {
		case msg.err == nil:
			m.status = "Showing an earlier artwork"
			m.failed = false
		case errors.Is(msg.err, history.ErrRejected):
			m.status = "That artwork is hidden by your filters"
			m.failed = true
		default:
			m.status = msg.err.Error()
			m.failed = true
		}
		return m, nil

	case spinner.TickMsg:
		if !m.fetching {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "n":
		if m.fetching {
			return m, nil
		}
		m.fetching = true
		m.failed = false
		m.status = "Searching Harvard's collection..."
		return m, tea.Batch(m.spinner.Tick, cmdDiscover(m.ctx, m.exp))

	case "1", "2", "3", "4", "5", "6":
		if m.snap.Current == nil {
			return m, nil
		}
		n, _ := strconv.Atoi(key)
		attrs := m.snap.Current.Attributes()
		if n > len(attrs) {
			return m, nil
		}
		return m, cmdToggleBan(m.exp, attrs[n-1].Value)

	case "c":
		m.status = "Filters cleared"
		m.failed = false
		return m, cmdClearBans(m.exp)

	case "h":
		m.showHistory = !m.showHistory
		return m, nil

	case "up", "k":
		if m.showHistory && m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "j":
		if m.showHistory && m.cursor < len(m.snap.History)-1 {
			m.cursor++
		}
		return m, nil

	case "enter":
		if !m.showHistory || len(m.snap.History) == 0 {
			return m, nil
		}
		return m, cmdSelectHistory(m.exp, m.cursor)
	}
	return m, nil
}

// apply replaces the held state unless snap is older than it
func (m *model) apply(snap explorer.Snapshot) {
	if snap.Version < m.snap.Version {
		return
	}
	m.snap = snap
	if m.cursor >= len(m.snap.History) {
		m.cursor = max(len(m.snap.History)-1, 0)
	}
}

func discoverStatus(err error) (string, bool) {
	switch {
	case err == nil:
		return "", false
	case errors.Is(err, sampler.ErrExhausted):
		return "No artwork matched your filters. Press n to try again.", false
	case errors.Is(err, sampler.ErrBusy):
		return "A fetch is already in progress", false
	case errors.Is(err, catalog.ErrTransport), errors.Is(err, catalog.ErrParse):
		return "Could not reach the collection: " + err.Error(), true
	case errors.Is(err, context.Canceled):
		return "", false
	default:
		return err.Error(), true
	}
}

func (m model) View() string {
	wrap := lipgloss.NewStyle().Padding(1, 2)
	header := m.theme.Title.Render("ArtExplorer") + "\n"

	status := m.theme.Status.Render(m.status)
	if m.failed {
		status = m.theme.Error.Render(m.status)
	}
	if m.fetching {
		status = m.spinner.View() + " " + status
	}

	main := lipgloss.JoinHorizontal(lipgloss.Top,
		render.Card(m.snap.Current, m.snap.Bans),
		"  ",
		m.theme.Panel.Render(render.BanList(m.snap.Bans)),
	)

	body := header + "\n" + main + "\n" + status + "\n"
	if m.showHistory {
		body += "\n" + m.theme.Panel.Render(render.History(m.snap.History, m.cursor)) + "\n"
	}

	help := "n new artwork • 1-6 ban attribute • c clear filters • h history • q quit"
	if m.showHistory {
		help = "↑/↓ move • enter view • " + help
	}
	return wrap.Render(body + "\n" + m.theme.Help.Render(help))
}
