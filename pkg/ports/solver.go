package ports

import (
	"context"

	"github.com/hawkeye-rf/emflow/pkg/domain"
)

// Launcher starts or attaches to the external desktop application.
type Launcher interface {
	// Launch returns a live desktop session. It blocks until the application is ready.
	Launch(ctx context.Context, opts domain.SessionOptions) (Desktop, error)
}

// Desktop is a handle to the running desktop application.
// The application is a process-wide singleton; a GUI may hold the same process.
type Desktop interface {
	// LoadProject opens a project file and activates the requested design
	// (or the project's active design when ref.Design is empty).
	LoadProject(ctx context.Context, ref domain.ProjectRef) (Design, error)

	// Release detaches from the application. When closeProjects is set, open projects
	// are closed and the application exits.
	Release(ctx context.Context, closeProjects bool) error
}

// Inspector is the read-only view of a design. Nothing reachable through it mutates
// the project, which is what lets inspection guarantee it never writes.
type Inspector interface {
	DesignName() string
	SolutionType(ctx context.Context) (string, error)

	SetupNames(ctx context.Context) ([]string, error)
	SetupProps(ctx context.Context, setup string) (domain.PropertyBag, error)
	SweepNames(ctx context.Context, setup string) ([]string, error)
	SweepProps(ctx context.Context, setup, sweep string) (domain.PropertyBag, error)

	Boundaries(ctx context.Context) ([]domain.Boundary, error)
	Variables(ctx context.Context) (map[string]string, error)
	Traces(ctx context.Context, category string) ([]string, error)

	ObjectNames(ctx context.Context) ([]string, error)
	MaterialNames(ctx context.Context) ([]string, error)
	BoundingBox(ctx context.Context, object string) (domain.BoundingBox, error)
}

// Provisioner creates and edits analysis setups and sweeps.
type Provisioner interface {
	CreateSetup(ctx context.Context, name string, props domain.PropertyBag) error
	EditSetup(ctx context.Context, name string, props domain.PropertyBag) error
	CreateSweep(ctx context.Context, sweep domain.SweepSpec) error
}

// Modeler creates geometry and assigns materials, boundaries and excitations.
type Modeler interface {
	SetVariable(ctx context.Context, v domain.Variable) error
	AddMaterial(ctx context.Context, m domain.Material) error

	CreateBox(ctx context.Context, box domain.Box) error
	CreateRectangle(ctx context.Context, rect domain.Rectangle) error
	Thicken(ctx context.Context, object, thickness string) error
	AssignMaterial(ctx context.Context, object, material string) error

	AssignPerfectE(ctx context.Context, name string, objects []string) error
	AssignRadiation(ctx context.Context, name string, objects []string) error
	AutoAssignLatticePairs(ctx context.Context, object string) ([]string, error)
	CreateFloquetPort(ctx context.Context, port domain.FloquetPortSpec) error
	AssignPlaneWave(ctx context.Context, wave domain.PlaneWaveSpec) error
	InsertInfiniteSphere(ctx context.Context, sphere domain.InfiniteSphereSpec) error
}

// Executor persists the project and runs the solver.
type Executor interface {
	Save(ctx context.Context) error

	// Analyze solves the named setup. It blocks until the solver finishes;
	// solver-side failures are returned as errors.
	Analyze(ctx context.Context, setup string) error
}

// PostProcessor creates reports from solved data and exports them.
type PostProcessor interface {
	CreateReport(ctx context.Context, spec domain.ReportSpec) (string, error)

	// ExportImage writes "<report>.jpg" into dir and returns the file path.
	ExportImage(ctx context.Context, report, dir string) (string, error)

	// ExportData writes the report data with the given extension (".csv") into dir.
	ExportData(ctx context.Context, report, dir, ext string) (string, error)
}

// Design is a full handle on one design of an open project.
type Design interface {
	Inspector
	Provisioner
	Modeler
	Executor
	PostProcessor
}
