package state

import (
	"github.com/actionsum/niribar/pkg/niri"
)

// Model is the flat, authoritative view of niri's workspaces and windows.
// It is built only from events and is owned by a single goroutine.
type Model struct {
	Workspaces []niri.Workspace
	Windows    []niri.Window
}

// New returns an empty model
func New() *Model {
	return &Model{}
}

// Workspace returns the workspace with the given id
func (m *Model) Workspace(id uint64) (*niri.Workspace, bool) {
	for i := range m.Workspaces {
		if m.Workspaces[i].ID == id {
			return &m.Workspaces[i], true
		}
	}
	return nil, false
}

// Window returns the window with the given id
func (m *Model) Window(id uint64) (*niri.Window, bool) {
	for i := range m.Windows {
		if m.Windows[i].ID == id {
			return &m.Windows[i], true
		}
	}
	return nil, false
}

// FocusedWindow returns the focused window, if any
func (m *Model) FocusedWindow() (niri.Window, bool) {
	for _, w := range m.Windows {
		if w.IsFocused {
			return w, true
		}
	}
	return niri.Window{}, false
}

// Clone returns a copy that shares no slices with m.
// Pointer fields inside records are never mutated in place, so they are shared.
func (m *Model) Clone() *Model {
	c := &Model{}
	if m.Workspaces != nil {
		c.Workspaces = append(make([]niri.Workspace, 0, len(m.Workspaces)), m.Workspaces...)
	}
	if m.Windows != nil {
		c.Windows = append(make([]niri.Window, 0, len(m.Windows)), m.Windows...)
	}
	return c
}
