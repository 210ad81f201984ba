// Package projection reshapes the flat niri model into the nested
// output → workspace → column → window view consumed by status bars.
package projection

import (
	"slices"

	"github.com/pkg/errors"

	"github.com/actionsum/niribar/pkg/state"
)

var (
	// ErrWorkspaceNotFound means a tiled window points at a workspace that
	// is not under any output in the model.
	ErrWorkspaceNotFound = errors.New("window workspace not found")

	// ErrMissingPosition means a tiled window has no position in the scrolling layout
	ErrMissingPosition = errors.New("tiled window has no tile position")
)

// View is the document emitted after every event
type View struct {
	Outputs map[string]*Output `json:"outputs" yaml:"outputs"`
}

// Output groups the workspaces shown on one display
type Output struct {
	Workspaces []*Workspace `json:"workspaces" yaml:"workspaces"`
}

type Workspace struct {
	ID       uint64    `json:"id" yaml:"id"`
	Index    uint8     `json:"index" yaml:"index"`
	IsActive bool      `json:"is_active" yaml:"is_active"`
	Columns  []*Column `json:"columns" yaml:"columns"`
}

type Column struct {
	Index            int      `json:"index" yaml:"index"`
	NumWindows       int      `json:"num_windows" yaml:"num_windows"`
	HasFocusedWindow bool     `json:"has_focused_window" yaml:"has_focused_window"`
	Windows          []Window `json:"windows" yaml:"windows"`
}

type Window struct {
	ID        uint64 `json:"id" yaml:"id"`
	Column    int    `json:"column" yaml:"column"`
	IsFocused bool   `json:"is_focused" yaml:"is_focused"`
}

// workspaceBuild collects columns by index until the view is sorted
type workspaceBuild struct {
	view    *Workspace
	columns map[int]*Column
}

// Project builds the nested view of m. It does not modify m.
// Workspaces without an output and floating or unassigned windows are left out.
func Project(m *state.Model) (*View, error) {
	outputs := make(map[string]map[uint64]*workspaceBuild)
	byID := make(map[uint64]*workspaceBuild)

	for _, ws := range m.Workspaces {
		name := ws.OutputName()
		if name == "" {
			continue
		}
		if outputs[name] == nil {
			outputs[name] = make(map[uint64]*workspaceBuild)
		}
		build := &workspaceBuild{
			view: &Workspace{
				ID:       ws.ID,
				Index:    ws.Idx,
				IsActive: ws.IsActive,
				Columns:  []*Column{},
			},
			columns: make(map[int]*Column),
		}
		outputs[name][ws.ID] = build
		byID[ws.ID] = build
	}

	for i := range m.Windows {
		w := &m.Windows[i]
		if w.IsFloating || w.WorkspaceID == nil {
			continue
		}

		build, ok := byID[*w.WorkspaceID]
		if !ok {
			return nil, errors.Wrapf(ErrWorkspaceNotFound, "window %d on workspace %d", w.ID, *w.WorkspaceID)
		}

		pos, ok := w.Position()
		if !ok {
			return nil, errors.Wrapf(ErrMissingPosition, "window %d", w.ID)
		}

		col, ok := build.columns[pos.Column]
		if !ok {
			col = &Column{Index: pos.Column, Windows: []Window{}}
			build.columns[pos.Column] = col
		}
		col.Windows = append(col.Windows, Window{
			ID:        w.ID,
			Column:    pos.Column,
			IsFocused: w.IsFocused,
		})
		col.NumWindows++
		if w.IsFocused {
			col.HasFocusedWindow = true
		}
	}

	view := &View{Outputs: make(map[string]*Output, len(outputs))}
	for name, workspaces := range outputs {
		out := &Output{Workspaces: make([]*Workspace, 0, len(workspaces))}
		for _, build := range workspaces {
			for _, col := range build.columns {
				build.view.Columns = append(build.view.Columns, col)
			}
			slices.SortFunc(build.view.Columns, func(a, b *Column) int {
				return a.Index - b.Index
			})
			out.Workspaces = append(out.Workspaces, build.view)
		}
		slices.SortFunc(out.Workspaces, func(a, b *Workspace) int {
			switch {
			case a.ID < b.ID:
				return -1
			case a.ID > b.ID:
				return 1
			}
			return 0
		})
		view.Outputs[name] = out
	}
	return view, nil
}

// NumWindows counts all projected windows
func (v *View) NumWindows() int {
	n := 0
	for _, out := range v.Outputs {
		for _, ws := range out.Workspaces {
			for _, col := range ws.Columns {
				n += col.NumWindows
			}
		}
	}
	return n
}
