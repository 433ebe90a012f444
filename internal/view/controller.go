// Package view decides which screen a session is looking at.
package view

import (
	"errors"
	"fmt"
	"sync"

	"github.com/debemdeboas/thread-drafts/internal/model"
)

type Screen int

const (
	List Screen = iota
	New
	Edit
	View
)

func (s Screen) String() string {
	switch s {
	case List:
		return "list"
	case New:
		return "new"
	case Edit:
		return "edit"
	case View:
		return "view"
	default:
		return fmt.Sprintf("screen(%d)", int(s))
	}
}

var ErrInvalidTransition = errors.New("invalid view transition")

// State is the active screen plus the thread it shows, if any.
type State struct {
	Screen Screen
	ID     model.ThreadID
}

func (s State) String() string {
	if s.ID == "" {
		return s.Screen.String()
	}
	return s.Screen.String() + "(" + string(s.ID) + ")"
}

// Controller is the screen state machine. It holds no thread data; screens load
// what they need from the store when they are entered.
type Controller struct {
	mu    sync.Mutex
	state State
}

// NewController starts on the list screen.
func NewController() *Controller {
	return &Controller{state: State{Screen: List}}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// New opens the editor for a fresh thread. Only allowed from the list.
func (c *Controller) New() error {
	return c.transition("new", func(s State) (State, bool) {
		if s.Screen != List {
			return s, false
		}
		return State{Screen: New}, true
	})
}

// Open shows a thread read-only. Only allowed from the list.
func (c *Controller) Open(id model.ThreadID) error {
	return c.transition("open", func(s State) (State, bool) {
		if s.Screen != List || id == "" {
			return s, false
		}
		return State{Screen: View, ID: id}, true
	})
}

// EditRequested opens the editor on a saved thread, from the list or from that thread's view.
func (c *Controller) EditRequested(id model.ThreadID) error {
	return c.transition("edit", func(s State) (State, bool) {
		if id == "" {
			return s, false
		}
		switch {
		case s.Screen == List:
		case s.Screen == View && s.ID == id:
		default:
			return s, false
		}
		return State{Screen: Edit, ID: id}, true
	})
}

// Saved moves from either editor to the view of the thread that was just written.
func (c *Controller) Saved(id model.ThreadID) error {
	return c.transition("saved", func(s State) (State, bool) {
		if (s.Screen != New && s.Screen != Edit) || id == "" {
			return s, false
		}
		return State{Screen: View, ID: id}, true
	})
}

// Back leaves the current screen: Edit returns to its View, View and New return to the list.
func (c *Controller) Back() error {
	return c.transition("back", func(s State) (State, bool) {
		switch s.Screen {
		case Edit:
			return State{Screen: View, ID: s.ID}, true
		case View, New:
			return State{Screen: List}, true
		default:
			return s, false
		}
	})
}

// BackToList returns to the list from anywhere.
func (c *Controller) BackToList() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = State{Screen: List}
}

func (c *Controller) transition(intent string, next func(State) (State, bool)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := next(c.state)
	if !ok {
		return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, intent, c.state)
	}
	c.state = s
	return nil
}
