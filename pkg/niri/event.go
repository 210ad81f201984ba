package niri

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Event is one message of the niri event stream.
// The set of implementations is closed: only types in this package satisfy it.
type Event interface {
	// Kind returns the wire name of the event, e.g. "WindowClosed"
	Kind() string
	isEvent()
}

// WorkspacesChanged carries the full workspace list
type WorkspacesChanged struct {
	Workspaces []Workspace `json:"workspaces"`
}

// WorkspaceUrgencyChanged reports a workspace urgency flip
type WorkspaceUrgencyChanged struct {
	ID     uint64 `json:"id"`
	Urgent bool   `json:"urgent"`
}

// WorkspaceActivated reports a workspace becoming active on its output
type WorkspaceActivated struct {
	ID      uint64 `json:"id"`
	Focused bool   `json:"focused"`
}

// WorkspaceActiveWindowChanged reports a workspace's active window changing
type WorkspaceActiveWindowChanged struct {
	WorkspaceID    uint64  `json:"workspace_id"`
	ActiveWindowID *uint64 `json:"active_window_id"`
}

// WindowsChanged carries the full window list
type WindowsChanged struct {
	Windows []Window `json:"windows"`
}

// WindowOpenedOrChanged carries a new or updated window
type WindowOpenedOrChanged struct {
	Window Window `json:"window"`
}

// WindowClosed reports a window going away
type WindowClosed struct {
	ID uint64 `json:"id"`
}

// WindowFocusChanged reports the focused window; ID is nil when nothing is focused
type WindowFocusChanged struct {
	ID *uint64 `json:"id"`
}

// WindowUrgencyChanged reports a window urgency flip
type WindowUrgencyChanged struct {
	ID     uint64 `json:"id"`
	Urgent bool   `json:"urgent"`
}

// WindowLayoutsChanged carries new layouts for a set of windows
type WindowLayoutsChanged struct {
	Changes []LayoutChange `json:"changes"`
}

// LayoutChange pairs a window id with its new layout.
// On the wire it is a two element array [id, layout].
type LayoutChange struct {
	ID     uint64
	Layout WindowLayout
}

func (c LayoutChange) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{c.ID, c.Layout})
}

func (c *LayoutChange) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return errors.Wrap(err, "failed to decode layout change")
	}
	if len(pair) != 2 {
		return errors.Errorf("layout change must have 2 elements, got %d", len(pair))
	}
	if err := json.Unmarshal(pair[0], &c.ID); err != nil {
		return errors.Wrap(err, "failed to decode layout change window id")
	}
	if err := json.Unmarshal(pair[1], &c.Layout); err != nil {
		return errors.Wrapf(err, "failed to decode layout for window %d", c.ID)
	}
	return nil
}

// KeyboardLayoutsChanged carries the configured keyboard layouts
type KeyboardLayoutsChanged struct {
	KeyboardLayouts KeyboardLayouts `json:"keyboard_layouts"`
}

// KeyboardLayoutSwitched reports the active keyboard layout index
type KeyboardLayoutSwitched struct {
	Idx uint8 `json:"idx"`
}

// OverviewOpenedOrClosed reports the overview state
type OverviewOpenedOrClosed struct {
	IsOpen bool `json:"is_open"`
}

// ConfigLoaded reports a config (re)load
type ConfigLoaded struct {
	Failed bool `json:"failed"`
}

// Unknown is an event kind this build does not recognise.
// niri adds event kinds over time; they are passed through untouched.
type Unknown struct {
	Name    string
	Payload json.RawMessage
}

func (WorkspacesChanged) Kind() string            { return "WorkspacesChanged" }
func (WorkspaceUrgencyChanged) Kind() string      { return "WorkspaceUrgencyChanged" }
func (WorkspaceActivated) Kind() string           { return "WorkspaceActivated" }
func (WorkspaceActiveWindowChanged) Kind() string { return "WorkspaceActiveWindowChanged" }
func (WindowsChanged) Kind() string               { return "WindowsChanged" }
func (WindowOpenedOrChanged) Kind() string        { return "WindowOpenedOrChanged" }
func (WindowClosed) Kind() string                 { return "WindowClosed" }
func (WindowFocusChanged) Kind() string           { return "WindowFocusChanged" }
func (WindowUrgencyChanged) Kind() string         { return "WindowUrgencyChanged" }
func (WindowLayoutsChanged) Kind() string         { return "WindowLayoutsChanged" }
func (KeyboardLayoutsChanged) Kind() string       { return "KeyboardLayoutsChanged" }
func (KeyboardLayoutSwitched) Kind() string       { return "KeyboardLayoutSwitched" }
func (OverviewOpenedOrClosed) Kind() string       { return "OverviewOpenedOrClosed" }
func (ConfigLoaded) Kind() string                 { return "ConfigLoaded" }
func (u Unknown) Kind() string                    { return u.Name }

func (WorkspacesChanged) isEvent()            {}
func (WorkspaceUrgencyChanged) isEvent()      {}
func (WorkspaceActivated) isEvent()           {}
func (WorkspaceActiveWindowChanged) isEvent() {}
func (WindowsChanged) isEvent()               {}
func (WindowOpenedOrChanged) isEvent()        {}
func (WindowClosed) isEvent()                 {}
func (WindowFocusChanged) isEvent()           {}
func (WindowUrgencyChanged) isEvent()         {}
func (WindowLayoutsChanged) isEvent()         {}
func (KeyboardLayoutsChanged) isEvent()       {}
func (KeyboardLayoutSwitched) isEvent()       {}
func (OverviewOpenedOrClosed) isEvent()       {}
func (ConfigLoaded) isEvent()                 {}
func (Unknown) isEvent()                      {}
