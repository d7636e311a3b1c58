package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lehigh-university-libraries/artexplorer/internal/explorer"
)

// Explorer mutations publish into the running program and must not be
// called from Update.

func cmdDiscover(ctx context.Context, e *explorer.Explorer) tea.Cmd {
	return func() tea.Msg {
		_, err := e.Discover(ctx)
		return discoverDoneMsg{snap: e.Snapshot(), err: err}
	}
}

func cmdToggleBan(e *explorer.Explorer, term string) tea.Cmd {
	return func() tea.Msg {
		e.ToggleBan(term)
		return snapshotMsg{snap: e.Snapshot()}
	}
}

func cmdClearBans(e *explorer.Explorer) tea.Cmd {
	return func() tea.Msg {
		e.ClearBans()
		return snapshotMsg{snap: e.Snapshot()}
	}
}

func cmdSelectHistory(e *explorer.Explorer, index int) tea.Cmd {
	return func() tea.Msg {
		_, err := e.SelectHistory(index)
		return selectDoneMsg{snap: e.Snapshot(), err: err}
	}
}
