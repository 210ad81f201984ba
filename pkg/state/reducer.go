package state

import (
	"github.com/pkg/errors"

	"github.com/actionsum/niribar/pkg/niri"
)

var (
	// ErrWorkspaceNotFound means an event referenced a workspace the model
	// has never seen. The model is out of sync with niri and must be rebuilt.
	ErrWorkspaceNotFound = errors.New("workspace not found")

	// ErrUnhandledEvent is returned for a nil event
	ErrUnhandledEvent = errors.New("unhandled event")
)

// Apply folds one event into the model.
// A returned error leaves the model in an unspecified state.
func (m *Model) Apply(ev niri.Event) error {
	switch e := ev.(type) {
	case niri.WorkspacesChanged:
		m.Workspaces = e.Workspaces
	case niri.WorkspaceActivated:
		return m.activateWorkspace(e.ID, e.Focused)
	case niri.WorkspaceActiveWindowChanged:
		if ws, ok := m.Workspace(e.WorkspaceID); ok {
			ws.ActiveWindowID = e.ActiveWindowID
		}
	case niri.WindowsChanged:
		m.Windows = e.Windows
	case niri.WindowOpenedOrChanged:
		m.upsertWindow(e.Window)
	case niri.WindowClosed:
		m.removeWindow(e.ID)
	case niri.WindowFocusChanged:
		m.clearWindowFocus()
		if e.ID != nil {
			if w, ok := m.Window(*e.ID); ok {
				w.IsFocused = true
			}
		}
	case niri.WindowLayoutsChanged:
		for _, change := range e.Changes {
			if w, ok := m.Window(change.ID); ok {
				w.Layout = change.Layout
			}
		}
	case niri.WorkspaceUrgencyChanged,
		niri.WindowUrgencyChanged,
		niri.KeyboardLayoutsChanged,
		niri.KeyboardLayoutSwitched,
		niri.OverviewOpenedOrClosed,
		niri.ConfigLoaded,
		niri.Unknown:
		// not part of the model
	default:
		return errors.Wrapf(ErrUnhandledEvent, "%T", ev)
	}
	return nil
}

func (m *Model) activateWorkspace(id uint64, focused bool) error {
	if focused {
		for i := range m.Workspaces {
			m.Workspaces[i].IsFocused = false
		}
	}

	target, ok := m.Workspace(id)
	if !ok {
		return errors.Wrapf(ErrWorkspaceNotFound, "activated workspace %d", id)
	}
	target.IsActive = true
	target.IsFocused = focused

	if target.Output == nil {
		return nil
	}
	for i := range m.Workspaces {
		ws := &m.Workspaces[i]
		if ws.ID != id && ws.SameOutput(target) {
			ws.IsActive = false
		}
	}
	return nil
}

func (m *Model) upsertWindow(window niri.Window) {
	if window.IsFocused {
		m.clearWindowFocus()
	}
	if existing, ok := m.Window(window.ID); ok {
		*existing = window
		return
	}
	m.Windows = append(m.Windows, window)
}

func (m *Model) removeWindow(id uint64) {
	kept := m.Windows[:0]
	for _, w := range m.Windows {
		if w.ID != id {
			kept = append(kept, w)
		}
	}
	m.Windows = kept
}

func (m *Model) clearWindowFocus() {
	for i := range m.Windows {
		m.Windows[i].IsFocused = false
	}
}
