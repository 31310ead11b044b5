package bridge

import (
	"context"
	"io"
	"log/slog"

	"github.com/hawkeye-rf/emflow/internal/logging"
	"github.com/hawkeye-rf/emflow/pkg/domain"
	"github.com/hawkeye-rf/emflow/pkg/ports"
)

// RPC method names.
const (
	MethodDesktopStart   = "desktop.start"
	MethodLoadProject    = "desktop.load_project"
	MethodRelease        = "desktop.release"
	MethodSolutionType   = "design.solution_type"
	MethodSetups         = "design.setups"
	MethodSetupProps     = "design.setup_props"
	MethodSweeps         = "design.sweeps"
	MethodSweepProps     = "design.sweep_props"
	MethodBoundaries     = "design.boundaries"
	MethodVariables      = "design.variables"
	MethodTraces         = "design.traces"
	MethodCreateSetup    = "design.create_setup"
	MethodEditSetup      = "design.edit_setup"
	MethodCreateSweep    = "design.create_sweep"
	MethodSetVariable    = "design.set_variable"
	MethodAnalyze        = "design.analyze"
	MethodSave           = "project.save"
	MethodObjects        = "modeler.objects"
	MethodMaterials      = "modeler.materials"
	MethodBoundingBox    = "modeler.bounding_box"
	MethodAddMaterial    = "modeler.add_material"
	MethodCreateBox      = "modeler.create_box"
	MethodCreateRect     = "modeler.create_rectangle"
	MethodThicken        = "modeler.thicken"
	MethodAssignMaterial = "modeler.assign_material"
	MethodPerfectE       = "boundary.perfect_e"
	MethodRadiation      = "boundary.radiation"
	MethodLatticePairs   = "boundary.auto_lattice_pairs"
	MethodFloquetPort    = "boundary.floquet_port"
	MethodPlaneWave      = "boundary.plane_wave"
	MethodInfiniteSphere = "post.insert_infinite_sphere"
	MethodCreateReport   = "post.create_report"
	MethodExportImage    = "post.export_image"
	MethodExportData     = "post.export_data"
)

// Launcher implements ports.Launcher by spawning or attaching to a bridge.
type Launcher struct {
	cfg    Config
	logger *slog.Logger
	hooks  domain.LifecycleHooks
}

// LauncherOption configures a Launcher.
type LauncherOption func(*Launcher)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) LauncherOption {
	return func(l *Launcher) {
		l.logger = logger
	}
}

// WithLifecycleHooks registers hooks fired on every bridge call.
func WithLifecycleHooks(hooks domain.LifecycleHooks) LauncherOption {
	return func(l *Launcher) {
		l.hooks = hooks
	}
}

// NewLauncher creates a launcher for the given endpoint.
func NewLauncher(cfg Config, opts ...LauncherOption) *Launcher {
	l := &Launcher{
		cfg:    cfg.WithDefaults(),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Launch connects to the bridge and asks it to start (or attach to) the desktop.
func (l *Launcher) Launch(ctx context.Context, opts domain.SessionOptions) (ports.Desktop, error) {
	if err := l.cfg.Validate(); err != nil {
		return nil, err
	}

	var rwc io.ReadWriteCloser
	switch l.cfg.Mode {
	case ModeAttach:
		c, err := dial(ctx, l.cfg, l.logger)
		if err != nil {
			return nil, err
		}
		rwc = c
	default:
		p, err := spawn(ctx, l.cfg, l.logger)
		if err != nil {
			return nil, err
		}
		rwc = p
	}

	conn := NewConn(rwc, WithConnLogger(l.logger), WithHooks(l.hooks))
	l.logger.Info("bridge connected", "mode", l.cfg.Mode, "version", opts.Version, "non_graphical", opts.NonGraphical)

	if err := conn.Call(ctx, MethodDesktopStart, opts, nil); err != nil {
		conn.Close()
		return nil, err
	}
	return &Desktop{conn: conn}, nil
}
