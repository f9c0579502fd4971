package lessons

import (
	"strconv"
	"strings"

	"github.com/rs/xid"

	"github.com/abhisek/studyquest/internal/study"
)

// NewID returns a fresh lesson id.
func NewID() string {
	return xid.New().String()
}

// NewCollection turns drafts into a fresh lesson collection: ids from
// newID (NewID when nil), order by position, the first lesson OPEN and
// every other lesson LOCKED. Blank titles are replaced so the map never
// shows an empty node.
func NewCollection(drafts []Draft, subject string, newID func() string) []study.Lesson {
	if newID == nil {
		newID = NewID
	}
	out := make([]study.Lesson, 0, len(drafts))
	for i, d := range drafts {
		status := study.StatusLocked
		if i == 0 {
			status = study.StatusOpen
		}
		title := strings.TrimSpace(d.Title)
		if title == "" {
			title = "Level " + strconv.Itoa(i+1)
		}
		subj := subject
		if d.Subject != "" {
			subj = d.Subject
		}
		out = append(out, study.Lesson{
			ID:          newID(),
			Order:       i,
			Status:      status,
			Title:       title,
			Description: strings.TrimSpace(d.Description),
			Subject:     subj,
		})
	}
	return out
}
