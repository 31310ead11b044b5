package bridge

import (
	"context"
	"errors"
	"sync"

	"github.com/hawkeye-rf/emflow/pkg/domain"
	"github.com/hawkeye-rf/emflow/pkg/ports"
)

// Desktop implements ports.Desktop over a bridge connection.
type Desktop struct {
	conn *Conn

	mu       sync.Mutex
	released bool
}

// NewDesktop wraps an established connection.
func NewDesktop(conn *Conn) *Desktop {
	return &Desktop{conn: conn}
}

type loadProjectParams struct {
	Path   string `json:"path"`
	Design string `json:"design,omitempty"`
}

type loadProjectResult struct {
	Design string `json:"design"`
}

// LoadProject opens the project and returns a handle on the active (or requested) design.
func (d *Desktop) LoadProject(ctx context.Context, ref domain.ProjectRef) (ports.Design, error) {
	if d.isReleased() {
		return nil, domain.ErrSessionClosed
	}
	var res loadProjectResult
	if err := d.conn.Call(ctx, MethodLoadProject, loadProjectParams(ref), &res); err != nil {
		return nil, err
	}
	name := res.Design
	if name == "" {
		name = ref.Design
	}
	return &Design{conn: d.conn, name: name}, nil
}

// Release tells the bridge to detach (or close the desktop) and closes the connection.
func (d *Desktop) Release(ctx context.Context, closeProjects bool) error {
	d.mu.Lock()
	if d.released {
		d.mu.Unlock()
		return domain.ErrSessionClosed
	}
	d.released = true
	d.mu.Unlock()

	callErr := d.conn.Call(ctx, MethodRelease, map[string]bool{"close_projects": closeProjects}, nil)
	return errors.Join(callErr, d.conn.Close())
}

func (d *Desktop) isReleased() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.released
}
