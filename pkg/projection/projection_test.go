package projection

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/actionsum/niribar/pkg/niri"
	"github.com/actionsum/niribar/pkg/state"
)

func strPtr(s string) *string { return &s }
func idPtr(id uint64) *uint64 { return &id }

func ws(id uint64, output string, active bool) niri.Workspace {
	w := niri.Workspace{ID: id, Idx: uint8(id), IsActive: active}
	if output != "" {
		w.Output = strPtr(output)
	}
	return w
}

func win(id, workspaceID uint64, column int, focused bool) niri.Window {
	return niri.Window{
		ID:          id,
		WorkspaceID: idPtr(workspaceID),
		IsFocused:   focused,
		Layout: niri.WindowLayout{
			PosInScrollingLayout: &niri.TilePosition{Column: column, Row: 1},
		},
	}
}

func build(t *testing.T, events ...niri.Event) *state.Model {
	t.Helper()
	m := state.New()
	for _, ev := range events {
		if err := m.Apply(ev); err != nil {
			t.Fatalf("Apply(%s) error: %v", ev.Kind(), err)
		}
	}
	return m
}

func TestProjectSingleWindow(t *testing.T) {
	m := build(t,
		niri.WorkspacesChanged{Workspaces: []niri.Workspace{ws(1, "eDP-1", true)}},
		niri.WindowOpenedOrChanged{Window: niri.Window{
			ID:          10,
			WorkspaceID: idPtr(1),
			IsFocused:   true,
			Layout:      niri.WindowLayout{PosInScrollingLayout: &niri.TilePosition{Column: 0, Row: 0}},
		}},
	)

	view, err := Project(m)
	if err != nil {
		t.Fatalf("Project() error: %v", err)
	}

	data, err := json.Marshal(view)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	want := `{"outputs":{"eDP-1":{"workspaces":[{"id":1,"index":1,"is_active":true,"columns":[` +
		`{"index":0,"num_windows":1,"has_focused_window":true,"windows":[{"id":10,"column":0,"is_focused":true}]}]}]}}}`
	if string(data) != want {
		t.Errorf("Project() =\n%s\nwant\n%s", data, want)
	}
}

func TestProjectOrdering(t *testing.T) {
	m := build(t,
		niri.WorkspacesChanged{Workspaces: []niri.Workspace{ws(3, "A", false), ws(1, "A", true), ws(2, "B", true)}},
		niri.WindowsChanged{Windows: []niri.Window{
			win(20, 1, 3, false),
			win(21, 1, 1, false),
			win(22, 1, 3, true),
			win(23, 3, 2, false),
		}},
	)

	view, err := Project(m)
	if err != nil {
		t.Fatalf("Project() error: %v", err)
	}

	a := view.Outputs["A"]
	if a == nil || len(a.Workspaces) != 2 {
		t.Fatalf("output A = %+v, want 2 workspaces", a)
	}
	if a.Workspaces[0].ID != 1 || a.Workspaces[1].ID != 3 {
		t.Errorf("workspace order = %d, %d, want 1, 3", a.Workspaces[0].ID, a.Workspaces[1].ID)
	}

	cols := a.Workspaces[0].Columns
	if len(cols) != 2 || cols[0].Index != 1 || cols[1].Index != 3 {
		t.Fatalf("columns = %+v, want indices 1, 3", cols)
	}
	if cols[1].NumWindows != 2 || !cols[1].HasFocusedWindow {
		t.Errorf("column 3 = %+v, want 2 windows with focus", cols[1])
	}
	if cols[1].Windows[0].ID != 20 || cols[1].Windows[1].ID != 22 {
		t.Errorf("column 3 windows = %+v, want model order 20, 22", cols[1].Windows)
	}
	if cols[0].HasFocusedWindow {
		t.Error("column 1 should not have a focused window")
	}

	b := view.Outputs["B"]
	if b == nil || len(b.Workspaces) != 1 || len(b.Workspaces[0].Columns) != 0 {
		t.Errorf("output B = %+v, want one empty workspace", b)
	}
	if view.NumWindows() != 4 {
		t.Errorf("NumWindows() = %d, want 4", view.NumWindows())
	}
}

func TestProjectExclusions(t *testing.T) {
	floating := win(30, 1, 1, true)
	floating.IsFloating = true
	floating.Layout.PosInScrollingLayout = nil

	unassigned := win(31, 0, 1, false)
	unassigned.WorkspaceID = nil

	m := build(t,
		niri.WorkspacesChanged{Workspaces: []niri.Workspace{ws(1, "A", true), ws(2, "", true)}},
		niri.WindowsChanged{Windows: []niri.Window{floating, unassigned}},
	)

	view, err := Project(m)
	if err != nil {
		t.Fatalf("Project() error: %v", err)
	}
	if len(view.Outputs) != 1 {
		t.Errorf("len(Outputs) = %d, want 1 (unassigned workspace dropped)", len(view.Outputs))
	}
	if view.NumWindows() != 0 {
		t.Errorf("NumWindows() = %d, want 0", view.NumWindows())
	}
	for _, ws := range view.Outputs["A"].Workspaces {
		for _, col := range ws.Columns {
			if col.HasFocusedWindow {
				t.Error("floating focused window must not mark a column as focused")
			}
		}
	}
}

func TestProjectClosedWindowDisappears(t *testing.T) {
	m := build(t,
		niri.WorkspacesChanged{Workspaces: []niri.Workspace{ws(1, "A", true)}},
		niri.WindowsChanged{Windows: []niri.Window{win(10, 1, 1, true), win(11, 1, 1, false)}},
		niri.WindowClosed{ID: 10},
	)

	view, err := Project(m)
	if err != nil {
		t.Fatalf("Project() error: %v", err)
	}
	col := view.Outputs["A"].Workspaces[0].Columns[0]
	if col.NumWindows != 1 || col.Windows[0].ID != 11 || col.HasFocusedWindow {
		t.Errorf("column = %+v, want only unfocused window 11", col)
	}
}

func TestProjectInvariantViolations(t *testing.T) {
	noPosition := win(10, 1, 1, false)
	noPosition.Layout.PosInScrollingLayout = nil

	tests := []struct {
		name    string
		windows []niri.Window
		wantErr error
	}{
		{
			name:    "unknown workspace",
			windows: []niri.Window{win(10, 9, 1, false)},
			wantErr: ErrWorkspaceNotFound,
		},
		{
			name:    "workspace without output",
			windows: []niri.Window{win(10, 2, 1, false)},
			wantErr: ErrWorkspaceNotFound,
		},
		{
			name:    "missing position",
			windows: []niri.Window{noPosition},
			wantErr: ErrMissingPosition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := build(t,
				niri.WorkspacesChanged{Workspaces: []niri.Workspace{ws(1, "A", true), ws(2, "", false)}},
				niri.WindowsChanged{Windows: tt.windows},
			)
			if _, err := Project(m); !errors.Is(err, tt.wantErr) {
				t.Errorf("Project() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestProjectDeterministic(t *testing.T) {
	m := build(t,
		niri.WorkspacesChanged{Workspaces: []niri.Workspace{ws(5, "B", true), ws(1, "A", true), ws(4, "A", false), ws(2, "C", true)}},
		niri.WindowsChanged{Windows: []niri.Window{
			win(1, 1, 2, false), win(2, 4, 1, false), win(3, 1, 1, true),
			win(4, 5, 7, false), win(5, 2, 3, false), win(6, 1, 2, false),
		}},
	)
	before := m.Clone()

	first, err := Project(m)
	if err != nil {
		t.Fatalf("Project() error: %v", err)
	}
	firstJSON, _ := json.Marshal(first)

	for i := 0; i < 20; i++ {
		again, err := Project(m)
		if err != nil {
			t.Fatalf("Project() error: %v", err)
		}
		againJSON, _ := json.Marshal(again)
		if !bytes.Equal(firstJSON, againJSON) {
			t.Fatalf("run %d differs:\n%s\n%s", i, firstJSON, againJSON)
		}
	}

	if len(m.Windows) != len(before.Windows) || m.Windows[2] != before.Windows[2] {
		t.Error("Project() modified the model")
	}
}

func TestProjectEmpty(t *testing.T) {
	view, err := Project(state.New())
	if err != nil {
		t.Fatalf("Project() error: %v", err)
	}
	data, _ := json.Marshal(view)
	if string(data) != `{"outputs":{}}` {
		t.Errorf("Project() = %s, want empty outputs object", data)
	}
}
