package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/hawkeye-rf/emflow/pkg/domain"
	"github.com/hawkeye-rf/emflow/pkg/ports"
)

// Launcher implements ports.Launcher by handing out a single in-memory desktop.
type Launcher struct {
	desktop *Desktop

	mu       sync.Mutex
	launches int
	lastOpts domain.SessionOptions
	err      error
}

// NewLauncher creates a launcher whose desktop serves the given designs, keyed by project path.
func NewLauncher(designs map[string]*Design) *Launcher {
	return &Launcher{desktop: NewDesktop(designs)}
}

// FailWith makes every subsequent Launch return err.
func (l *Launcher) FailWith(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.err = err
}

// Launch returns the shared desktop, reopening it if it was released.
func (l *Launcher) Launch(ctx context.Context, opts domain.SessionOptions) (ports.Desktop, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, l.err
	}
	l.launches++
	l.lastOpts = opts
	l.desktop.reopen()
	return l.desktop, nil
}

// Launches counts successful Launch calls.
func (l *Launcher) Launches() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.launches
}

// LastOptions returns the options passed to the most recent Launch.
func (l *Launcher) LastOptions() domain.SessionOptions {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastOpts
}

// Desktop returns the underlying fake desktop.
func (l *Launcher) Desktop() *Desktop {
	return l.desktop
}

// Desktop implements ports.Desktop in memory.
type Desktop struct {
	mu       sync.Mutex
	designs  map[string]*Design
	loaded   []domain.ProjectRef
	released bool
	closed   bool
}

// NewDesktop creates a desktop serving the given designs, keyed by project path.
func NewDesktop(designs map[string]*Design) *Desktop {
	if designs == nil {
		designs = make(map[string]*Design)
	}
	return &Desktop{designs: designs}
}

// LoadProject returns the design registered for ref.Path.
func (d *Desktop) LoadProject(ctx context.Context, ref domain.ProjectRef) (ports.Design, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.released {
		return nil, domain.ErrSessionClosed
	}
	design, ok := d.designs[ref.Path]
	if !ok {
		return nil, fmt.Errorf("%s: %w", ref.Path, domain.ErrProjectNotFound)
	}
	if ref.Design != "" && ref.Design != design.DesignName() {
		return nil, fmt.Errorf("design %q in %s: %w", ref.Design, ref.Path, domain.ErrNotFound)
	}
	d.loaded = append(d.loaded, ref)
	return design, nil
}

// Release marks the desktop released. closeProjects is remembered for assertions.
func (d *Desktop) Release(ctx context.Context, closeProjects bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.released {
		return domain.ErrSessionClosed
	}
	d.released = true
	d.closed = closeProjects
	return nil
}

// Released reports whether Release was called since the last launch.
func (d *Desktop) Released() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.released
}

// ClosedProjects reports whether the last Release closed the projects.
func (d *Desktop) ClosedProjects() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// Loaded lists the projects opened so far.
func (d *Desktop) Loaded() []domain.ProjectRef {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]domain.ProjectRef, len(d.loaded))
	copy(out, d.loaded)
	return out
}

func (d *Desktop) reopen() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.released = false
	d.closed = false
}
