package domain

// BoundaryType is the solver's type name for a boundary or excitation.
type BoundaryType string

const (
	BoundaryRadiation   BoundaryType = "Radiation"
	BoundaryPerfectE    BoundaryType = "Perfect E"
	BoundaryPerfectH    BoundaryType = "Perfect H"
	BoundaryLattice     BoundaryType = "Lattice Pair"
	BoundaryPML         BoundaryType = "PML"
	BoundarySymmetry    BoundaryType = "Symmetry"
	BoundaryFloquetPort BoundaryType = "Floquet Port"
	BoundaryLumpedPort  BoundaryType = "Lumped Port"
	BoundaryWavePort    BoundaryType = "Wave Port"
	BoundaryPlaneWave   BoundaryType = "Plane Incident Wave"
)

// BoundaryReportKeys are the boundary properties surfaced by inspection.
var BoundaryReportKeys = []string{
	"Objects", "Faces", "FacesList", "IsAssignedToSketch", "Polarization", "Theta", "Phi",
	"Impedance", "Resistance", "Reactance", "RenormalizeAllTerminals",
}

// IsExcitation reports whether the type is a source rather than a passive boundary.
func (t BoundaryType) IsExcitation() bool {
	switch t {
	case BoundaryFloquetPort, BoundaryLumpedPort, BoundaryWavePort, BoundaryPlaneWave:
		return true
	}
	return false
}

// Boundary is a named boundary or excitation as reported by the solver.
type Boundary struct {
	Name  string       `json:"name"`
	Type  BoundaryType `json:"type"`
	Props PropertyBag  `json:"props,omitempty"`
}
