package memory

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/hawkeye-rf/emflow/pkg/domain"
)

// Call is one recorded invocation of the fake solver API.
type Call struct {
	Method   string
	Args     []any
	Mutating bool
}

// SweepFixture seeds one existing sweep.
type SweepFixture struct {
	Name  string
	Props domain.PropertyBag
}

// SetupFixture seeds one existing setup with its sweeps.
type SetupFixture struct {
	Name   string
	Props  domain.PropertyBag
	Sweeps []SweepFixture
}

// Fixture is the initial content of a fake design.
type Fixture struct {
	Name         string
	SolutionType string
	Setups       []SetupFixture
	Boundaries   []domain.Boundary
	Variables    map[string]string
	Traces       []string
	Objects      []string
	Materials    []string
}

// Design implements ports.Design in memory and records every call made against it.
// Mutating calls update the in-memory model so that later reads observe them.
// Safe for concurrent use.
type Design struct {
	mu sync.Mutex

	name         string
	solutionType string
	setups       []SetupFixture
	boundaries   []domain.Boundary
	variables    map[string]string
	traces       []string
	objects      []string
	materials    []string
	bboxes       map[string]domain.BoundingBox
	reports      map[string]domain.ReportSpec
	analyzed     []string

	failures map[string]error
	calls    []Call
}

// NewDesign creates a fake design seeded from the fixture.
func NewDesign(f Fixture) *Design {
	d := &Design{
		name:         f.Name,
		solutionType: f.SolutionType,
		boundaries:   slices.Clone(f.Boundaries),
		variables:    make(map[string]string, len(f.Variables)),
		traces:       slices.Clone(f.Traces),
		objects:      slices.Clone(f.Objects),
		materials:    slices.Clone(f.Materials),
		bboxes:       make(map[string]domain.BoundingBox),
		reports:      make(map[string]domain.ReportSpec),
		failures:     make(map[string]error),
	}
	if d.solutionType == "" {
		d.solutionType = "Modal"
	}
	for k, v := range f.Variables {
		d.variables[k] = v
	}
	for _, s := range f.Setups {
		s.Sweeps = slices.Clone(s.Sweeps)
		d.setups = append(d.setups, s)
	}
	return d
}

// FailOn makes every subsequent call to method return err.
func (d *Design) FailOn(method string, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failures[method] = err
}

// SetBoundingBox overrides the bounding box reported for an object.
func (d *Design) SetBoundingBox(object string, bb domain.BoundingBox) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.bboxes[object] = bb
}

// Calls returns a copy of all recorded calls in order.
func (d *Design) Calls() []Call {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.calls)
}

// MutatingCalls returns only the recorded calls that change the project.
func (d *Design) MutatingCalls() []Call {
	var out []Call
	for _, c := range d.Calls() {
		if c.Mutating {
			out = append(out, c)
		}
	}
	return out
}

// CallsTo returns the recorded calls to one method.
func (d *Design) CallsTo(method string) []Call {
	var out []Call
	for _, c := range d.Calls() {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// Analyzed lists the setups that were solved, in order.
func (d *Design) Analyzed() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.analyzed)
}

// record must be called with d.mu held.
func (d *Design) record(method string, mutating bool, args ...any) error {
	d.calls = append(d.calls, Call{Method: method, Args: args, Mutating: mutating})
	return d.failures[method]
}

func (d *Design) setup(name string) *SetupFixture {
	for i := range d.setups {
		if d.setups[i].Name == name {
			return &d.setups[i]
		}
	}
	return nil
}

// --- Inspector ---

func (d *Design) DesignName() string {
	return d.name
}

func (d *Design) SolutionType(ctx context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("SolutionType", false); err != nil {
		return "", err
	}
	return d.solutionType, nil
}

func (d *Design) SetupNames(ctx context.Context) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("SetupNames", false); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(d.setups))
	for _, s := range d.setups {
		names = append(names, s.Name)
	}
	return names, nil
}

func (d *Design) SetupProps(ctx context.Context, setup string) (domain.PropertyBag, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("SetupProps", false, setup); err != nil {
		return nil, err
	}
	s := d.setup(setup)
	if s == nil {
		return nil, fmt.Errorf("setup %q: %w", setup, domain.ErrNotFound)
	}
	return s.Props.Clone(), nil
}

func (d *Design) SweepNames(ctx context.Context, setup string) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("SweepNames", false, setup); err != nil {
		return nil, err
	}
	s := d.setup(setup)
	if s == nil {
		return nil, fmt.Errorf("setup %q: %w", setup, domain.ErrNotFound)
	}
	names := make([]string, 0, len(s.Sweeps))
	for _, sw := range s.Sweeps {
		names = append(names, sw.Name)
	}
	return names, nil
}

func (d *Design) SweepProps(ctx context.Context, setup, sweep string) (domain.PropertyBag, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("SweepProps", false, setup, sweep); err != nil {
		return nil, err
	}
	if s := d.setup(setup); s != nil {
		for _, sw := range s.Sweeps {
			if sw.Name == sweep {
				return sw.Props.Clone(), nil
			}
		}
	}
	return nil, fmt.Errorf("sweep %q on %q: %w", sweep, setup, domain.ErrNotFound)
}

func (d *Design) Boundaries(ctx context.Context) ([]domain.Boundary, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("Boundaries", false); err != nil {
		return nil, err
	}
	out := make([]domain.Boundary, 0, len(d.boundaries))
	for _, b := range d.boundaries {
		b.Props = b.Props.Clone()
		out = append(out, b)
	}
	return out, nil
}

func (d *Design) Variables(ctx context.Context) (map[string]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("Variables", false); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(d.variables))
	for k, v := range d.variables {
		out[k] = v
	}
	return out, nil
}

func (d *Design) Traces(ctx context.Context, category string) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("Traces", false, category); err != nil {
		return nil, err
	}
	var out []string
	for _, t := range d.traces {
		if category == "" || strings.HasPrefix(t, category) || strings.Contains(t, category+"(") {
			out = append(out, t)
		}
	}
	return out, nil
}

func (d *Design) ObjectNames(ctx context.Context) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("ObjectNames", false); err != nil {
		return nil, err
	}
	return slices.Clone(d.objects), nil
}

func (d *Design) MaterialNames(ctx context.Context) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("MaterialNames", false); err != nil {
		return nil, err
	}
	return slices.Clone(d.materials), nil
}

func (d *Design) BoundingBox(ctx context.Context, object string) (domain.BoundingBox, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("BoundingBox", false, object); err != nil {
		return domain.BoundingBox{}, err
	}
	if !slices.Contains(d.objects, object) {
		return domain.BoundingBox{}, fmt.Errorf("object %q: %w", object, domain.ErrNotFound)
	}
	return d.bboxes[object], nil
}

// --- Provisioner ---

func (d *Design) CreateSetup(ctx context.Context, name string, props domain.PropertyBag) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("CreateSetup", true, name, props); err != nil {
		return err
	}
	if d.setup(name) != nil {
		return fmt.Errorf("setup %q already exists", name)
	}
	d.setups = append(d.setups, SetupFixture{Name: name, Props: props.Clone()})
	return nil
}

func (d *Design) EditSetup(ctx context.Context, name string, props domain.PropertyBag) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("EditSetup", true, name, props); err != nil {
		return err
	}
	s := d.setup(name)
	if s == nil {
		return fmt.Errorf("setup %q: %w", name, domain.ErrNotFound)
	}
	if s.Props == nil {
		s.Props = domain.PropertyBag{}
	}
	for k, v := range props {
		s.Props[k] = v
	}
	return nil
}

func (d *Design) CreateSweep(ctx context.Context, sweep domain.SweepSpec) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("CreateSweep", true, sweep); err != nil {
		return err
	}
	s := d.setup(sweep.Setup)
	if s == nil {
		return fmt.Errorf("setup %q: %w", sweep.Setup, domain.ErrNotFound)
	}
	s.Sweeps = append(s.Sweeps, SweepFixture{
		Name: sweep.Name,
		Props: domain.PropertyBag{
			domain.PropRangeType:         "LinearCount",
			domain.PropRangeStart:        fmt.Sprintf("%g%s", sweep.Start, sweep.Units),
			domain.PropRangeEnd:          fmt.Sprintf("%g%s", sweep.Stop, sweep.Units),
			domain.PropRangeCount:        sweep.Count,
			domain.PropSweepType:         string(sweep.Kind),
			domain.PropSaveFields:        sweep.SaveFields,
			domain.PropSaveRadFieldsOnly: sweep.SaveRadFields && !sweep.SaveFields,
		},
	})
	return nil
}

// --- Modeler ---

func (d *Design) SetVariable(ctx context.Context, v domain.Variable) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("SetVariable", true, v); err != nil {
		return err
	}
	d.variables[v.Name] = v.Expression
	return nil
}

func (d *Design) AddMaterial(ctx context.Context, m domain.Material) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("AddMaterial", true, m); err != nil {
		return err
	}
	if slices.Contains(d.materials, m.Name) {
		return fmt.Errorf("material %q already exists", m.Name)
	}
	d.materials = append(d.materials, m.Name)
	return nil
}

func (d *Design) CreateBox(ctx context.Context, box domain.Box) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("CreateBox", true, box); err != nil {
		return err
	}
	if err := d.addObject(box.Name); err != nil {
		return err
	}
	if _, ok := d.bboxes[box.Name]; !ok {
		var bb domain.BoundingBox
		for i := 0; i < 3; i++ {
			o := d.eval(box.Origin[i])
			bb.Min[i] = min(o, o+d.eval(box.Sizes[i]))
			bb.Max[i] = max(o, o+d.eval(box.Sizes[i]))
		}
		d.bboxes[box.Name] = bb
	}
	return nil
}

func (d *Design) CreateRectangle(ctx context.Context, rect domain.Rectangle) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("CreateRectangle", true, rect); err != nil {
		return err
	}
	return d.addObject(rect.Name)
}

func (d *Design) Thicken(ctx context.Context, object, thickness string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("Thicken", true, object, thickness); err != nil {
		return err
	}
	if !slices.Contains(d.objects, object) {
		return fmt.Errorf("object %q: %w", object, domain.ErrNotFound)
	}
	return nil
}

func (d *Design) AssignMaterial(ctx context.Context, object, material string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("AssignMaterial", true, object, material); err != nil {
		return err
	}
	if !slices.Contains(d.objects, object) {
		return fmt.Errorf("object %q: %w", object, domain.ErrNotFound)
	}
	return nil
}

func (d *Design) AssignPerfectE(ctx context.Context, name string, objects []string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("AssignPerfectE", true, name, objects); err != nil {
		return err
	}
	return d.addBoundary(name, domain.BoundaryPerfectE, domain.PropertyBag{"Objects": slices.Clone(objects)})
}

func (d *Design) AssignRadiation(ctx context.Context, name string, objects []string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("AssignRadiation", true, name, objects); err != nil {
		return err
	}
	return d.addBoundary(name, domain.BoundaryRadiation, domain.PropertyBag{"Objects": slices.Clone(objects)})
}

func (d *Design) AutoAssignLatticePairs(ctx context.Context, object string) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("AutoAssignLatticePairs", true, object); err != nil {
		return nil, err
	}
	names := []string{"LatticePair1", "LatticePair2"}
	for _, n := range names {
		if err := d.addBoundary(n, domain.BoundaryLattice, domain.PropertyBag{"Objects": []string{object}}); err != nil {
			return nil, err
		}
	}
	return names, nil
}

func (d *Design) CreateFloquetPort(ctx context.Context, port domain.FloquetPortSpec) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("CreateFloquetPort", true, port); err != nil {
		return err
	}
	return d.addBoundary(port.Name, domain.BoundaryFloquetPort, domain.PropertyBag{"Faces": []string{port.Face.String()}})
}

func (d *Design) AssignPlaneWave(ctx context.Context, wave domain.PlaneWaveSpec) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("AssignPlaneWave", true, wave); err != nil {
		return err
	}
	return d.addBoundary(wave.Name, domain.BoundaryPlaneWave, domain.PropertyBag{
		"Theta":        wave.Theta,
		"Phi":          wave.Phi,
		"Polarization": string(wave.Polarization),
	})
}

func (d *Design) InsertInfiniteSphere(ctx context.Context, sphere domain.InfiniteSphereSpec) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("InsertInfiniteSphere", true, sphere); err != nil {
		return err
	}
	return d.addBoundary(sphere.Name, "Far Field Sphere", domain.PropertyBag{"Definition": sphere.Definition})
}

func (d *Design) addObject(name string) error {
	if slices.Contains(d.objects, name) {
		return fmt.Errorf("object %q already exists", name)
	}
	d.objects = append(d.objects, name)
	return nil
}

func (d *Design) addBoundary(name string, typ domain.BoundaryType, props domain.PropertyBag) error {
	for _, b := range d.boundaries {
		if b.Name == name {
			return fmt.Errorf("boundary %q already exists", name)
		}
	}
	d.boundaries = append(d.boundaries, domain.Boundary{Name: name, Type: typ, Props: props})
	return nil
}

// eval resolves simple expressions ("3mm", "px", "-px/2", "2*h", "h+10mm") against
// the design variables. Anything else evaluates to 0.
func (d *Design) eval(expr string) float64 {
	expr = strings.ReplaceAll(expr, " ", "")
	if expr == "" {
		return 0
	}
	if i := additiveOp(expr); i > 0 {
		a, b := d.eval(expr[:i]), d.eval(expr[i+1:])
		if expr[i] == '+' {
			return a + b
		}
		return a - b
	}
	sign := 1.0
	if strings.HasPrefix(expr, "-") {
		sign, expr = -1, expr[1:]
	}
	if i := strings.IndexAny(expr, "*/"); i > 0 {
		a, b := d.eval(expr[:i]), d.eval(expr[i+1:])
		if expr[i] == '*' {
			return sign * a * b
		}
		if b == 0 {
			return 0
		}
		return sign * a / b
	}
	if v, ok := d.variables[expr]; ok && v != expr {
		return sign * d.eval(v)
	}
	num := strings.TrimRight(expr, "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	return sign * f
}

// additiveOp returns the index of the last binary + or - in expr, or -1.
func additiveOp(expr string) int {
	for i := len(expr) - 1; i > 0; i-- {
		if expr[i] != '+' && expr[i] != '-' {
			continue
		}
		prev := expr[i-1]
		if strings.IndexByte("*/+-", prev) >= 0 {
			continue
		}
		// Exponent of a number such as 1e-3.
		if (prev == 'e' || prev == 'E') && i >= 2 && expr[i-2] >= '0' && expr[i-2] <= '9' {
			continue
		}
		return i
	}
	return -1
}

// --- Executor ---

func (d *Design) Save(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.record("Save", true)
}

func (d *Design) Analyze(ctx context.Context, setup string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("Analyze", true, setup); err != nil {
		return err
	}
	if d.setup(setup) == nil {
		return fmt.Errorf("setup %q: %w", setup, domain.ErrNotFound)
	}
	d.analyzed = append(d.analyzed, setup)
	return nil
}

// --- PostProcessor ---

func (d *Design) CreateReport(ctx context.Context, spec domain.ReportSpec) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("CreateReport", true, spec); err != nil {
		return "", err
	}
	d.reports[spec.Name] = spec
	return spec.Name, nil
}

// ExportImage writes a small placeholder JPEG named after the report.
func (d *Design) ExportImage(ctx context.Context, report, dir string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("ExportImage", true, report, dir); err != nil {
		return "", err
	}
	if _, ok := d.reports[report]; !ok {
		return "", fmt.Errorf("report %q: %w", report, domain.ErrNotFound)
	}
	path := filepath.Join(dir, report+".jpg")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for x := 0; x < 16; x++ {
		for y := 0; y < 16; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 16), G: uint8(y * 16), B: 128, A: 255})
		}
	}
	if err := jpeg.Encode(f, img, nil); err != nil {
		return "", err
	}
	return path, nil
}

// ExportData writes a CSV table with a frequency column and one column per quantity.
func (d *Design) ExportData(ctx context.Context, report, dir, ext string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("ExportData", true, report, dir, ext); err != nil {
		return "", err
	}
	spec, ok := d.reports[report]
	if !ok {
		return "", fmt.Errorf("report %q: %w", report, domain.ErrNotFound)
	}
	quantities := spec.Quantities
	if len(quantities) == 0 {
		quantities = []string{"Value"}
	}

	var sb strings.Builder
	sb.WriteString(`"Freq [GHz]"`)
	for _, q := range quantities {
		fmt.Fprintf(&sb, `,"%s []"`, q)
	}
	sb.WriteString("\n")
	for i := 0; i < 5; i++ {
		fmt.Fprintf(&sb, "%g", 22+float64(i))
		for j := range quantities {
			fmt.Fprintf(&sb, ",%g", -10-float64(i)-float64(j))
		}
		sb.WriteString("\n")
	}

	path := filepath.Join(dir, report+ext)
	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return "", err
	}
	return path, nil
}
