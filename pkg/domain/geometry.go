package domain

import "fmt"

// Variable is a design-scope name/expression pair, e.g. px = "6mm".
type Variable struct {
	Name       string `json:"name" yaml:"name" validate:"required"`
	Expression string `json:"expression" yaml:"expression" validate:"required"`
}

// Vector3 is a point or direction whose coordinates are solver expressions
// (numbers with units or variable references such as "-px/2").
type Vector3 [3]string

// Vec returns a Vector3 from three expressions.
func Vec(x, y, z string) Vector3 {
	return Vector3{x, y, z}
}

// Plane is a coordinate plane for planar primitives.
type Plane string

const (
	PlaneXY Plane = "XY"
	PlaneYZ Plane = "YZ"
	PlaneZX Plane = "ZX"
)

// Material is a simple isotropic dielectric or conductor definition.
type Material struct {
	Name         string  `json:"name" yaml:"name" validate:"required"`
	Permittivity float64 `json:"permittivity,omitempty" yaml:"permittivity" validate:"gte=0"`
	LossTangent  float64 `json:"loss_tangent,omitempty" yaml:"loss_tangent" validate:"gte=0"`
	Conductivity float64 `json:"conductivity,omitempty" yaml:"conductivity" validate:"gte=0"`
}

// Box is an axis-aligned solid defined by its origin corner and sizes.
type Box struct {
	Name     string  `json:"name"`
	Origin   Vector3 `json:"origin"`
	Sizes    Vector3 `json:"sizes"`
	Material string  `json:"material,omitempty"`
}

// Rectangle is a planar sheet defined by its origin corner and two sizes in the given plane.
type Rectangle struct {
	Name   string    `json:"name"`
	Plane  Plane     `json:"plane"`
	Origin Vector3   `json:"origin"`
	Sizes  [2]string `json:"sizes"`
}

// BoundingBox is the numeric extent of an object in model units.
type BoundingBox struct {
	Min [3]float64 `json:"min"`
	Max [3]float64 `json:"max"`
}

// Size returns the extent along each axis.
func (b BoundingBox) Size() [3]float64 {
	return [3]float64{b.Max[0] - b.Min[0], b.Max[1] - b.Min[1], b.Max[2] - b.Min[2]}
}

// FaceSide names a face of an axis-aligned object.
type FaceSide string

const (
	FaceTop    FaceSide = "top"
	FaceBottom FaceSide = "bottom"
)

// FaceRef selects one face of a named object.
type FaceRef struct {
	Object string   `json:"object"`
	Side   FaceSide `json:"side"`
}

func (f FaceRef) String() string {
	return fmt.Sprintf("%s.%s", f.Object, f.Side)
}

// CellGeometry is the parametric stack-up of one unit cell or tag: a dielectric
// substrate, an optional ground sheet and an optional metal patch.
type CellGeometry struct {
	Variables []Variable `json:"variables,omitempty" yaml:"variables" validate:"dive"`
	Materials []Material `json:"materials,omitempty" yaml:"materials" validate:"dive"`

	Substrate *Box `json:"substrate,omitempty" yaml:"substrate"`

	Ground         *Rectangle `json:"ground,omitempty" yaml:"ground"`
	GroundBoundary string     `json:"ground_boundary,omitempty" yaml:"ground_boundary"`

	Patch          *Rectangle `json:"patch,omitempty" yaml:"patch"`
	PatchThickness string     `json:"patch_thickness,omitempty" yaml:"patch_thickness"`
	PatchMaterial  string     `json:"patch_material,omitempty" yaml:"patch_material"`
}

// Empty reports whether there is nothing to build besides variables.
func (g CellGeometry) Empty() bool {
	return len(g.Materials) == 0 && g.Substrate == nil && g.Ground == nil && g.Patch == nil
}
