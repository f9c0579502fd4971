package focus

import (
	"github.com/abhisek/studyquest/internal/focus"
)

// openedMsg is sent when the session for the lesson has been prepared.
type openedMsg struct {
	session *focus.Session
	err     error
}

// snapshotMsg carries one update from the session.
type snapshotMsg struct {
	session *focus.Session
	snap    focus.Snapshot
}

// updatesClosedMsg is sent when the session's update channel closes.
type updatesClosedMsg struct {
	session *focus.Session
}

// finishedMsg is sent when a manual finish returns.
type finishedMsg struct {
	outcome *focus.Outcome
	err     error
}

// replyMsg carries the tutor's answer.
type replyMsg struct {
	text string
	err  error
}
