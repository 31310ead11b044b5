package bridge

import (
	"context"

	"github.com/hawkeye-rf/emflow/pkg/domain"
)

// Design implements ports.Design; every method is one bridge call.
type Design struct {
	conn *Conn
	name string
}

type setupParams struct {
	Setup string `json:"setup"`
}

type sweepParams struct {
	Setup string `json:"setup"`
	Sweep string `json:"sweep"`
}

type namedProps struct {
	Name  string             `json:"name"`
	Props domain.PropertyBag `json:"props"`
}

type namedObjects struct {
	Name    string   `json:"name"`
	Objects []string `json:"objects"`
}

type objectParams struct {
	Object    string `json:"object"`
	Material  string `json:"material,omitempty"`
	Thickness string `json:"thickness,omitempty"`
}

type exportParams struct {
	Report string `json:"report"`
	Dir    string `json:"dir"`
	Ext    string `json:"ext,omitempty"`
}

func (d *Design) DesignName() string {
	return d.name
}

func (d *Design) SolutionType(ctx context.Context) (string, error) {
	var out string
	err := d.conn.Call(ctx, MethodSolutionType, nil, &out)
	return out, err
}

func (d *Design) SetupNames(ctx context.Context) ([]string, error) {
	var out []string
	err := d.conn.Call(ctx, MethodSetups, nil, &out)
	return out, err
}

func (d *Design) SetupProps(ctx context.Context, setup string) (domain.PropertyBag, error) {
	var out domain.PropertyBag
	err := d.conn.Call(ctx, MethodSetupProps, setupParams{Setup: setup}, &out)
	return out, err
}

func (d *Design) SweepNames(ctx context.Context, setup string) ([]string, error) {
	var out []string
	err := d.conn.Call(ctx, MethodSweeps, setupParams{Setup: setup}, &out)
	return out, err
}

func (d *Design) SweepProps(ctx context.Context, setup, sweep string) (domain.PropertyBag, error) {
	var out domain.PropertyBag
	err := d.conn.Call(ctx, MethodSweepProps, sweepParams{Setup: setup, Sweep: sweep}, &out)
	return out, err
}

func (d *Design) Boundaries(ctx context.Context) ([]domain.Boundary, error) {
	var out []domain.Boundary
	err := d.conn.Call(ctx, MethodBoundaries, nil, &out)
	return out, err
}

func (d *Design) Variables(ctx context.Context) (map[string]string, error) {
	out := map[string]string{}
	err := d.conn.Call(ctx, MethodVariables, nil, &out)
	return out, err
}

func (d *Design) Traces(ctx context.Context, category string) ([]string, error) {
	var out []string
	err := d.conn.Call(ctx, MethodTraces, map[string]string{"category": category}, &out)
	return out, err
}

func (d *Design) ObjectNames(ctx context.Context) ([]string, error) {
	var out []string
	err := d.conn.Call(ctx, MethodObjects, nil, &out)
	return out, err
}

func (d *Design) MaterialNames(ctx context.Context) ([]string, error) {
	var out []string
	err := d.conn.Call(ctx, MethodMaterials, nil, &out)
	return out, err
}

func (d *Design) BoundingBox(ctx context.Context, object string) (domain.BoundingBox, error) {
	var out domain.BoundingBox
	err := d.conn.Call(ctx, MethodBoundingBox, objectParams{Object: object}, &out)
	return out, err
}

func (d *Design) CreateSetup(ctx context.Context, name string, props domain.PropertyBag) error {
	return d.conn.Call(ctx, MethodCreateSetup, namedProps{Name: name, Props: props}, nil)
}

func (d *Design) EditSetup(ctx context.Context, name string, props domain.PropertyBag) error {
	return d.conn.Call(ctx, MethodEditSetup, namedProps{Name: name, Props: props}, nil)
}

func (d *Design) CreateSweep(ctx context.Context, sweep domain.SweepSpec) error {
	return d.conn.Call(ctx, MethodCreateSweep, sweep, nil)
}

func (d *Design) SetVariable(ctx context.Context, v domain.Variable) error {
	return d.conn.Call(ctx, MethodSetVariable, v, nil)
}

func (d *Design) AddMaterial(ctx context.Context, m domain.Material) error {
	return d.conn.Call(ctx, MethodAddMaterial, m, nil)
}

func (d *Design) CreateBox(ctx context.Context, box domain.Box) error {
	return d.conn.Call(ctx, MethodCreateBox, box, nil)
}

func (d *Design) CreateRectangle(ctx context.Context, rect domain.Rectangle) error {
	return d.conn.Call(ctx, MethodCreateRect, rect, nil)
}

func (d *Design) Thicken(ctx context.Context, object, thickness string) error {
	return d.conn.Call(ctx, MethodThicken, objectParams{Object: object, Thickness: thickness}, nil)
}

func (d *Design) AssignMaterial(ctx context.Context, object, material string) error {
	return d.conn.Call(ctx, MethodAssignMaterial, objectParams{Object: object, Material: material}, nil)
}

func (d *Design) AssignPerfectE(ctx context.Context, name string, objects []string) error {
	return d.conn.Call(ctx, MethodPerfectE, namedObjects{Name: name, Objects: objects}, nil)
}

func (d *Design) AssignRadiation(ctx context.Context, name string, objects []string) error {
	return d.conn.Call(ctx, MethodRadiation, namedObjects{Name: name, Objects: objects}, nil)
}

func (d *Design) AutoAssignLatticePairs(ctx context.Context, object string) ([]string, error) {
	var out []string
	err := d.conn.Call(ctx, MethodLatticePairs, objectParams{Object: object}, &out)
	return out, err
}

func (d *Design) CreateFloquetPort(ctx context.Context, port domain.FloquetPortSpec) error {
	return d.conn.Call(ctx, MethodFloquetPort, port, nil)
}

func (d *Design) AssignPlaneWave(ctx context.Context, wave domain.PlaneWaveSpec) error {
	return d.conn.Call(ctx, MethodPlaneWave, wave, nil)
}

func (d *Design) InsertInfiniteSphere(ctx context.Context, sphere domain.InfiniteSphereSpec) error {
	return d.conn.Call(ctx, MethodInfiniteSphere, sphere, nil)
}

func (d *Design) Save(ctx context.Context) error {
	return d.conn.Call(ctx, MethodSave, nil, nil)
}

func (d *Design) Analyze(ctx context.Context, setup string) error {
	return d.conn.Call(ctx, MethodAnalyze, setupParams{Setup: setup}, nil)
}

func (d *Design) CreateReport(ctx context.Context, spec domain.ReportSpec) (string, error) {
	var out string
	err := d.conn.Call(ctx, MethodCreateReport, spec, &out)
	return out, err
}

func (d *Design) ExportImage(ctx context.Context, report, dir string) (string, error) {
	var out string
	err := d.conn.Call(ctx, MethodExportImage, exportParams{Report: report, Dir: dir}, &out)
	return out, err
}

func (d *Design) ExportData(ctx context.Context, report, dir, ext string) (string, error) {
	var out string
	err := d.conn.Call(ctx, MethodExportData, exportParams{Report: report, Dir: dir, Ext: ext}, &out)
	return out, err
}
