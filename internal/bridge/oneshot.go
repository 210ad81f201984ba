package bridge

import (
	"context"

	"github.com/pkg/errors"

	"github.com/actionsum/niribar/pkg/niri"
	"github.com/actionsum/niribar/pkg/projection"
	"github.com/actionsum/niribar/pkg/state"
)

// Querier answers the full-state requests of the niri socket
type Querier interface {
	Workspaces(ctx context.Context) ([]niri.Workspace, error)
	Windows(ctx context.Context) ([]niri.Window, error)
}

// ProjectOnce builds a model from one Workspaces and one Windows reply, the
// same way the event stream's initial events do, and projects it.
func ProjectOnce(ctx context.Context, q Querier) (*projection.View, error) {
	workspaces, err := q.Workspaces(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query workspaces")
	}

	windows, err := q.Windows(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query windows")
	}

	m := state.New()
	for _, ev := range []niri.Event{
		niri.WorkspacesChanged{Workspaces: workspaces},
		niri.WindowsChanged{Windows: windows},
	} {
		if err := m.Apply(ev); err != nil {
			return nil, err
		}
	}

	return projection.Project(m)
}
