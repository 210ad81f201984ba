package niri

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Workspace is a workspace as reported by niri
type Workspace struct {
	ID             uint64  `json:"id"`
	Idx            uint8   `json:"idx"`
	Name           *string `json:"name"`
	Output         *string `json:"output"`
	IsUrgent       bool    `json:"is_urgent"`
	IsActive       bool    `json:"is_active"`
	IsFocused      bool    `json:"is_focused"`
	ActiveWindowID *uint64 `json:"active_window_id"`
}

// OutputName returns the output the workspace is on, or "" when unassigned
func (w *Workspace) OutputName() string {
	if w.Output == nil {
		return ""
	}
	return *w.Output
}

// SameOutput reports whether both workspaces are assigned to the same output.
// Two unassigned workspaces are considered to share an output.
func (w *Workspace) SameOutput(other *Workspace) bool {
	if w.Output == nil || other.Output == nil {
		return w.Output == nil && other.Output == nil
	}
	return *w.Output == *other.Output
}

// Window is a toplevel window as reported by niri
type Window struct {
	ID          uint64       `json:"id"`
	Title       *string      `json:"title"`
	AppID       *string      `json:"app_id"`
	PID         *int32       `json:"pid"`
	WorkspaceID *uint64      `json:"workspace_id"`
	IsFocused   bool         `json:"is_focused"`
	IsFloating  bool         `json:"is_floating"`
	IsUrgent    bool         `json:"is_urgent"`
	Layout      WindowLayout `json:"layout"`
}

// Position returns the window's tile position in the scrolling layout
func (w *Window) Position() (TilePosition, bool) {
	if w.Layout.PosInScrollingLayout == nil {
		return TilePosition{}, false
	}
	return *w.Layout.PosInScrollingLayout, true
}

// AppName returns the app id, falling back to "unknown"
func (w *Window) AppName() string {
	if w.AppID == nil || *w.AppID == "" {
		return "unknown"
	}
	return *w.AppID
}

// WindowTitle returns the title or ""
func (w *Window) WindowTitle() string {
	if w.Title == nil {
		return ""
	}
	return *w.Title
}

// WindowLayout describes where and how big a window is
type WindowLayout struct {
	// PosInScrollingLayout is nil for floating windows
	PosInScrollingLayout   *TilePosition `json:"pos_in_scrolling_layout"`
	TileSize               [2]float64    `json:"tile_size"`
	WindowSize             [2]int32      `json:"window_size"`
	TilePosInWorkspaceView *[2]float64   `json:"tile_pos_in_workspace_view"`
	WindowOffsetInTile     [2]float64    `json:"window_offset_in_tile"`
}

// TilePosition is a (column, row) pair inside a workspace's scrolling layout.
// It is encoded on the wire as a two element array.
type TilePosition struct {
	Column int
	Row    int
}

func (p TilePosition) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{p.Column, p.Row})
}

func (p *TilePosition) UnmarshalJSON(data []byte) error {
	var pair []int
	if err := json.Unmarshal(data, &pair); err != nil {
		return errors.Wrap(err, "failed to decode tile position")
	}
	if len(pair) != 2 {
		return errors.Errorf("tile position must have 2 elements, got %d", len(pair))
	}
	p.Column, p.Row = pair[0], pair[1]
	return nil
}

// KeyboardLayouts lists configured layouts and the active one
type KeyboardLayouts struct {
	Names      []string `json:"names"`
	CurrentIdx uint8    `json:"current_idx"`
}
