// Package router keeps the stack of screens the app navigates through.
// Screens ask for navigation by returning the messages below from a
// command; the router applies them before anything else sees them.
package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studyquest/internal/screen"
)

// PushScreenMsg opens Screen on top of the current one.
type PushScreenMsg struct {
	Screen screen.Screen
}

// PopScreenMsg closes the current screen and reveals the one below,
// which then receives a screen.RefreshMsg.
type PopScreenMsg struct{}

// ReplaceScreenMsg closes the current screen and shows Screen in its
// place, e.g. landing to setup to map.
type ReplaceScreenMsg struct {
	Screen screen.Screen
}

// Router owns the screen stack. The bottom screen is never popped.
// Screens implementing screen.Closer are closed when they leave.
type Router struct {
	stack []screen.Screen
}

// New starts a stack with root at the bottom. Init on root is left to
// the caller.
func New(root screen.Screen) *Router {
	return &Router{stack: []screen.Screen{root}}
}

// Active is the screen on top, nil after Close.
func (r *Router) Active() screen.Screen {
	if len(r.stack) == 0 {
		return nil
	}
	return r.stack[len(r.stack)-1]
}

// Depth is the number of screens on the stack.
func (r *Router) Depth() int { return len(r.stack) }

// Push opens s and returns its Init command.
func (r *Router) Push(s screen.Screen) tea.Cmd {
	r.stack = append(r.stack, s)
	return s.Init()
}

// Pop closes the top screen. The revealed screen is sent a RefreshMsg so
// it can reload whatever the popped screen changed.
func (r *Router) Pop() tea.Cmd {
	if len(r.stack) < 2 {
		return nil
	}
	leave(r.stack[len(r.stack)-1])
	r.stack = r.stack[:len(r.stack)-1]
	return func() tea.Msg { return screen.RefreshMsg{} }
}

// Replace closes the top screen and puts s in its place.
func (r *Router) Replace(s screen.Screen) tea.Cmd {
	if top := r.Active(); top != nil {
		leave(top)
		r.stack = r.stack[:len(r.stack)-1]
	}
	return r.Push(s)
}

// Close closes every screen, top first, and empties the stack.
func (r *Router) Close() {
	for len(r.stack) > 0 {
		leave(r.stack[len(r.stack)-1])
		r.stack = r.stack[:len(r.stack)-1]
	}
}

// Update applies navigation messages and hands everything else to the
// active screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		return r.Push(msg.Screen)
	case PopScreenMsg:
		return r.Pop()
	case ReplaceScreenMsg:
		return r.Replace(msg.Screen)
	}
	top := r.Active()
	if top == nil {
		return nil
	}
	next, cmd := top.Update(msg)
	r.stack[len(r.stack)-1] = next
	return cmd
}

// View renders the active screen into width x height.
func (r *Router) View(width, height int) string {
	if top := r.Active(); top != nil {
		return top.View(width, height)
	}
	return ""
}

func leave(s screen.Screen) {
	if c, ok := s.(screen.Closer); ok {
		c.Close()
	}
}
