package state

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/actionsum/niribar/pkg/niri"
)

func strPtr(s string) *string { return &s }
func idPtr(id uint64) *uint64 { return &id }

func workspace(id uint64, output string, active, focused bool) niri.Workspace {
	ws := niri.Workspace{ID: id, Idx: uint8(id), IsActive: active, IsFocused: focused}
	if output != "" {
		ws.Output = strPtr(output)
	}
	return ws
}

func tiled(id, workspaceID uint64, column, row int, focused bool) niri.Window {
	return niri.Window{
		ID:          id,
		WorkspaceID: idPtr(workspaceID),
		IsFocused:   focused,
		Layout: niri.WindowLayout{
			PosInScrollingLayout: &niri.TilePosition{Column: column, Row: row},
		},
	}
}

func mustApply(t *testing.T, m *Model, events ...niri.Event) {
	t.Helper()
	for _, ev := range events {
		if err := m.Apply(ev); err != nil {
			t.Fatalf("Apply(%s) error: %v", ev.Kind(), err)
		}
	}
}

func TestWorkspacesChangedReplaces(t *testing.T) {
	m := New()
	mustApply(t, m,
		niri.WorkspacesChanged{Workspaces: []niri.Workspace{workspace(1, "A", true, true), workspace(2, "A", false, false)}},
		niri.WorkspacesChanged{Workspaces: []niri.Workspace{workspace(3, "B", true, false)}},
	)

	if len(m.Workspaces) != 1 || m.Workspaces[0].ID != 3 {
		t.Errorf("Workspaces = %+v, want only workspace 3", m.Workspaces)
	}
}

func TestWorkspaceActivated(t *testing.T) {
	tests := []struct {
		name        string
		workspaces  []niri.Workspace
		event       niri.WorkspaceActivated
		wantActive  map[uint64]bool
		wantFocused map[uint64]bool
	}{
		{
			name:        "focused activation on same output",
			workspaces:  []niri.Workspace{workspace(1, "A", true, true), workspace(2, "A", false, false)},
			event:       niri.WorkspaceActivated{ID: 2, Focused: true},
			wantActive:  map[uint64]bool{1: false, 2: true},
			wantFocused: map[uint64]bool{1: false, 2: true},
		},
		{
			name:        "unfocused activation keeps focus elsewhere",
			workspaces:  []niri.Workspace{workspace(1, "A", true, true), workspace(2, "B", true, false), workspace(3, "B", false, false)},
			event:       niri.WorkspaceActivated{ID: 3, Focused: false},
			wantActive:  map[uint64]bool{1: true, 2: false, 3: true},
			wantFocused: map[uint64]bool{1: true, 2: false, 3: false},
		},
		{
			name:        "focus moves across outputs",
			workspaces:  []niri.Workspace{workspace(1, "A", true, true), workspace(2, "B", true, false)},
			event:       niri.WorkspaceActivated{ID: 2, Focused: true},
			wantActive:  map[uint64]bool{1: true, 2: true},
			wantFocused: map[uint64]bool{1: false, 2: true},
		},
		{
			name:        "unassigned workspace does not deactivate others",
			workspaces:  []niri.Workspace{workspace(1, "", true, false), workspace(2, "", false, false)},
			event:       niri.WorkspaceActivated{ID: 2, Focused: false},
			wantActive:  map[uint64]bool{1: true, 2: true},
			wantFocused: map[uint64]bool{1: false, 2: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New()
			mustApply(t, m, niri.WorkspacesChanged{Workspaces: tt.workspaces}, tt.event)

			for id, want := range tt.wantActive {
				ws, _ := m.Workspace(id)
				if ws.IsActive != want {
					t.Errorf("workspace %d IsActive = %v, want %v", id, ws.IsActive, want)
				}
			}
			for id, want := range tt.wantFocused {
				ws, _ := m.Workspace(id)
				if ws.IsFocused != want {
					t.Errorf("workspace %d IsFocused = %v, want %v", id, ws.IsFocused, want)
				}
			}
		})
	}
}

func TestWorkspaceActivatedUnknownID(t *testing.T) {
	m := New()
	mustApply(t, m, niri.WorkspacesChanged{Workspaces: []niri.Workspace{workspace(1, "A", true, true)}})

	err := m.Apply(niri.WorkspaceActivated{ID: 42, Focused: true})
	if !errors.Is(err, ErrWorkspaceNotFound) {
		t.Fatalf("Apply() error = %v, want ErrWorkspaceNotFound", err)
	}
}

func TestWorkspaceActiveWindowChanged(t *testing.T) {
	m := New()
	mustApply(t, m,
		niri.WorkspacesChanged{Workspaces: []niri.Workspace{workspace(1, "A", true, true)}},
		niri.WorkspaceActiveWindowChanged{WorkspaceID: 1, ActiveWindowID: idPtr(10)},
		niri.WorkspaceActiveWindowChanged{WorkspaceID: 99, ActiveWindowID: idPtr(11)},
	)

	ws, _ := m.Workspace(1)
	if ws.ActiveWindowID == nil || *ws.ActiveWindowID != 10 {
		t.Errorf("ActiveWindowID = %v, want 10", ws.ActiveWindowID)
	}

	mustApply(t, m, niri.WorkspaceActiveWindowChanged{WorkspaceID: 1})
	if ws.ActiveWindowID != nil {
		t.Errorf("ActiveWindowID = %v, want nil", *ws.ActiveWindowID)
	}
}

func TestWindowOpenedOrChanged(t *testing.T) {
	m := New()
	mustApply(t, m,
		niri.WindowOpenedOrChanged{Window: tiled(10, 1, 1, 1, true)},
		niri.WindowOpenedOrChanged{Window: tiled(11, 1, 2, 1, false)},
	)

	if len(m.Windows) != 2 {
		t.Fatalf("len(Windows) = %d, want 2", len(m.Windows))
	}
	if w, _ := m.Window(10); !w.IsFocused {
		t.Error("window 10 should still be focused")
	}

	changed := tiled(11, 1, 3, 1, true)
	changed.Title = strPtr("editor")
	mustApply(t, m, niri.WindowOpenedOrChanged{Window: changed})

	if len(m.Windows) != 2 {
		t.Fatalf("len(Windows) = %d after update, want 2", len(m.Windows))
	}
	if m.Windows[1].ID != 11 || m.Windows[1].WindowTitle() != "editor" {
		t.Errorf("window 11 not replaced in place: %+v", m.Windows[1])
	}
	if w, _ := m.Window(10); w.IsFocused {
		t.Error("window 10 should lose focus when 11 is focused")
	}
}

func TestWindowClosed(t *testing.T) {
	m := New()
	mustApply(t, m, niri.WindowsChanged{Windows: []niri.Window{tiled(10, 1, 1, 1, false), tiled(11, 1, 1, 2, false)}})

	mustApply(t, m, niri.WindowClosed{ID: 10})
	if _, ok := m.Window(10); ok {
		t.Error("window 10 still present after close")
	}
	if len(m.Windows) != 1 {
		t.Errorf("len(Windows) = %d, want 1", len(m.Windows))
	}

	before := m.Clone()
	mustApply(t, m, niri.WindowClosed{ID: 777})
	if len(m.Windows) != len(before.Windows) || m.Windows[0].ID != before.Windows[0].ID {
		t.Errorf("closing an unknown window changed the model: %+v", m.Windows)
	}
}

func TestWindowFocusChanged(t *testing.T) {
	m := New()
	mustApply(t, m, niri.WindowsChanged{Windows: []niri.Window{tiled(10, 1, 1, 1, true), tiled(11, 1, 2, 1, false)}})

	mustApply(t, m, niri.WindowFocusChanged{ID: idPtr(11)})
	if w, ok := m.FocusedWindow(); !ok || w.ID != 11 {
		t.Errorf("FocusedWindow() = %d, %v, want 11", w.ID, ok)
	}

	mustApply(t, m, niri.WindowFocusChanged{ID: idPtr(404)})
	if _, ok := m.FocusedWindow(); ok {
		t.Error("focus on unknown window should leave nothing focused")
	}

	mustApply(t, m, niri.WindowFocusChanged{ID: idPtr(10)}, niri.WindowFocusChanged{})
	if _, ok := m.FocusedWindow(); ok {
		t.Error("focus cleared but a window is still focused")
	}
}

func TestWindowLayoutsChanged(t *testing.T) {
	m := New()
	mustApply(t, m, niri.WindowsChanged{Windows: []niri.Window{tiled(10, 1, 1, 1, false)}})

	mustApply(t, m, niri.WindowLayoutsChanged{Changes: []niri.LayoutChange{
		{ID: 10, Layout: niri.WindowLayout{PosInScrollingLayout: &niri.TilePosition{Column: 4, Row: 2}}},
		{ID: 99, Layout: niri.WindowLayout{PosInScrollingLayout: &niri.TilePosition{Column: 1, Row: 1}}},
	}})

	w, _ := m.Window(10)
	pos, ok := w.Position()
	if !ok || pos.Column != 4 || pos.Row != 2 {
		t.Errorf("Position() = %+v, %v, want {4 2}", pos, ok)
	}
	if len(m.Windows) != 1 {
		t.Errorf("layout change for unknown id added a window")
	}
}

func TestIgnoredEvents(t *testing.T) {
	m := New()
	mustApply(t, m,
		niri.WorkspacesChanged{Workspaces: []niri.Workspace{workspace(1, "A", true, true)}},
		niri.WindowsChanged{Windows: []niri.Window{tiled(10, 1, 1, 1, true)}},
	)
	before := m.Clone()

	mustApply(t, m,
		niri.WorkspaceUrgencyChanged{ID: 1, Urgent: true},
		niri.WindowUrgencyChanged{ID: 10, Urgent: true},
		niri.KeyboardLayoutsChanged{KeyboardLayouts: niri.KeyboardLayouts{Names: []string{"us"}}},
		niri.KeyboardLayoutSwitched{Idx: 1},
		niri.OverviewOpenedOrClosed{IsOpen: true},
		niri.ConfigLoaded{Failed: true},
		niri.Unknown{Name: "ScreenshotCaptured"},
	)

	if m.Workspaces[0] != before.Workspaces[0] {
		t.Errorf("workspace changed: %+v", m.Workspaces[0])
	}
	if m.Windows[0].IsUrgent || !m.Windows[0].IsFocused {
		t.Errorf("window changed: %+v", m.Windows[0])
	}
}

func TestApplyNil(t *testing.T) {
	if err := New().Apply(nil); !errors.Is(err, ErrUnhandledEvent) {
		t.Errorf("Apply(nil) error = %v, want ErrUnhandledEvent", err)
	}
}

func checkInvariants(t *testing.T, m *Model, step int) {
	t.Helper()
	activePerOutput := map[string]int{}
	focusedWorkspaces := 0
	for _, ws := range m.Workspaces {
		if ws.IsActive && ws.OutputName() != "" {
			activePerOutput[ws.OutputName()]++
		}
		if ws.IsFocused {
			focusedWorkspaces++
		}
	}
	for out, n := range activePerOutput {
		if n > 1 {
			t.Fatalf("step %d: output %s has %d active workspaces", step, out, n)
		}
	}
	if focusedWorkspaces > 1 {
		t.Fatalf("step %d: %d focused workspaces", step, focusedWorkspaces)
	}

	focusedWindows := 0
	for _, w := range m.Windows {
		if w.IsFocused {
			focusedWindows++
		}
	}
	if focusedWindows > 1 {
		t.Fatalf("step %d: %d focused windows", step, focusedWindows)
	}
}

func TestRandomSequencesKeepExclusivity(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	outputs := []string{"eDP-1", "HDMI-A-1", ""}

	for run := 0; run < 50; run++ {
		m := New()
		var workspaces []niri.Workspace
		for id := uint64(1); id <= 6; id++ {
			workspaces = append(workspaces, workspace(id, outputs[int(id)%len(outputs)], false, false))
		}
		mustApply(t, m, niri.WorkspacesChanged{Workspaces: workspaces})

		for step := 0; step < 200; step++ {
			var ev niri.Event
			switch rng.Intn(5) {
			case 0:
				ev = niri.WorkspaceActivated{ID: uint64(rng.Intn(6) + 1), Focused: rng.Intn(2) == 0}
			case 1:
				ev = niri.WindowOpenedOrChanged{Window: tiled(uint64(rng.Intn(10)+1), uint64(rng.Intn(6)+1), rng.Intn(4), 1, rng.Intn(2) == 0)}
			case 2:
				ev = niri.WindowClosed{ID: uint64(rng.Intn(10) + 1)}
			case 3:
				if rng.Intn(4) == 0 {
					ev = niri.WindowFocusChanged{}
				} else {
					ev = niri.WindowFocusChanged{ID: idPtr(uint64(rng.Intn(10) + 1))}
				}
			default:
				ev = niri.WindowLayoutsChanged{Changes: []niri.LayoutChange{{
					ID:     uint64(rng.Intn(10) + 1),
					Layout: niri.WindowLayout{PosInScrollingLayout: &niri.TilePosition{Column: rng.Intn(4), Row: 1}},
				}}}
			}
			mustApply(t, m, ev)
			checkInvariants(t, m, step)
		}
	}
}

func TestClone(t *testing.T) {
	m := New()
	mustApply(t, m,
		niri.WorkspacesChanged{Workspaces: []niri.Workspace{workspace(1, "A", true, true)}},
		niri.WindowsChanged{Windows: []niri.Window{tiled(10, 1, 1, 1, true)}},
	)

	c := m.Clone()
	mustApply(t, m, niri.WindowFocusChanged{}, niri.WindowClosed{ID: 10})

	if len(c.Windows) != 1 || !c.Windows[0].IsFocused {
		t.Errorf("clone was affected by changes to the original: %+v", c.Windows)
	}
}
