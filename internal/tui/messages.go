package tui

import (
	"github.com/lehigh-university-libraries/artexplorer/internal/explorer"
)

// snapshotMsg carries explorer state, either from a subscription or as the
// result of a command.
type snapshotMsg struct {
	snap explorer.Snapshot
}

type discoverDoneMsg struct {
	snap explorer.Snapshot
	err  error
}

type selectDoneMsg struct {
	snap explorer.Snapshot
	err  error
}
