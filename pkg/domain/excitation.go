package domain

// FloquetPortSpec defines a Floquet-mode port for a periodic unit cell.
type FloquetPortSpec struct {
	Name string  `json:"name"`
	Face FaceRef `json:"face"`

	// LatticeA and LatticeB are the lattice basis vectors, each given as start and end points.
	LatticeA [2]Vector3 `json:"lattice_a"`
	LatticeB [2]Vector3 `json:"lattice_b"`

	Modes           int    `json:"modes"`
	DeembedDistance string `json:"deembed_distance,omitempty"`
}

// Polarization of an incident plane wave.
type Polarization string

const (
	PolarizationTE Polarization = "TE"
	PolarizationTM Polarization = "TM"
)

// PlaneWaveSpec defines a plane incident wave excitation for a portless driven problem.
type PlaneWaveSpec struct {
	Name         string       `json:"name" yaml:"name"`
	Theta        string       `json:"theta" yaml:"theta"`
	Phi          string       `json:"phi" yaml:"phi"`
	Polarization Polarization `json:"polarization" yaml:"polarization" validate:"omitempty,oneof=TE TM"`

	// Propagation overrides the direction derived from Theta/Phi when set.
	Propagation *Vector3 `json:"propagation,omitempty" yaml:"propagation"`
}

// InfiniteSphereSpec defines a far-field sampling sphere.
type InfiniteSphereSpec struct {
	Name       string `json:"name" yaml:"name"`
	Definition string `json:"definition" yaml:"definition"`
	ThetaStart string `json:"theta_start" yaml:"theta_start"`
	ThetaStop  string `json:"theta_stop" yaml:"theta_stop"`
	ThetaStep  string `json:"theta_step" yaml:"theta_step"`
	PhiStart   string `json:"phi_start" yaml:"phi_start"`
	PhiStop    string `json:"phi_stop" yaml:"phi_stop"`
	PhiStep    string `json:"phi_step" yaml:"phi_step"`
}

// DefaultInfiniteSphere is a full Theta-Phi sphere sampled every 5 degrees.
func DefaultInfiniteSphere(name string) InfiniteSphereSpec {
	if name == "" {
		name = "Infinite Sphere 1"
	}
	return InfiniteSphereSpec{
		Name:       name,
		Definition: "Theta-Phi",
		ThetaStart: "0deg", ThetaStop: "180deg", ThetaStep: "5deg",
		PhiStart: "0deg", PhiStop: "360deg", PhiStep: "5deg",
	}
}
