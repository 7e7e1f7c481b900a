package tui

import "github.com/Edisonlex/lubri/internal/alerts"

// snapshotMsg carries a fresh poll result.
type snapshotMsg struct {
	snapshot alerts.Snapshot
}

// feedClosedMsg is sent once the poller channel closes.
type feedClosedMsg struct{}

type ackDoneMsg struct {
	err error
	id  string
}

type refreshedMsg struct {
	snapshot alerts.Snapshot
}

type refreshFailedMsg struct {
	err error
}
