package domain

import "fmt"

// TopologyKind names the excitation topology of a model.
type TopologyKind string

const (
	TopologyPeriodic TopologyKind = "periodic"
	TopologyFinite   TopologyKind = "finite"
)

// Air spacing used when a topology leaves it unset: roughly a quarter and a half
// wavelength at 24 GHz.
const (
	DefaultPadding      = "3mm"
	DefaultRegionHeight = "6mm"
)

// Topology is the excitation strategy of a model. It is a closed union:
// the only implementations are Periodic and Finite.
type Topology interface {
	Kind() TopologyKind
	// Portless reports whether the model is driven without ports.
	Portless() bool
	isTopology()
}

// Periodic is an infinite-array unit cell: lattice pairs on the side walls
// and a Floquet port on top of the air region.
type Periodic struct {
	RegionName      string `json:"region_name" yaml:"region_name"`
	RegionHeight    string `json:"region_height" yaml:"region_height" validate:"required"`
	PortName        string `json:"port_name" yaml:"port_name"`
	Modes           int    `json:"modes" yaml:"modes" validate:"gte=0"`
	DeembedDistance string `json:"deembed_distance" yaml:"deembed_distance"`
}

// Finite is a finite tag in free space illuminated by a plane wave.
type Finite struct {
	RegionName    string              `json:"region_name" yaml:"region_name"`
	Padding       string              `json:"padding" yaml:"padding" validate:"required"`
	RadiationName string              `json:"radiation_name" yaml:"radiation_name"`
	PlaneWave     PlaneWaveSpec       `json:"plane_wave" yaml:"plane_wave"`
	Sphere        *InfiniteSphereSpec `json:"sphere,omitempty" yaml:"sphere"`
}

func (Periodic) Kind() TopologyKind { return TopologyPeriodic }
func (Periodic) Portless() bool     { return false }
func (Periodic) isTopology()        {}

func (Finite) Kind() TopologyKind { return TopologyFinite }
func (Finite) Portless() bool     { return true }
func (Finite) isTopology()        {}

// WithDefaults fills unset names.
func (p Periodic) WithDefaults() Periodic {
	if p.RegionName == "" {
		p.RegionName = "AirRegion"
	}
	if p.RegionHeight == "" {
		p.RegionHeight = DefaultRegionHeight
	}
	if p.PortName == "" {
		p.PortName = "FloquetPort1"
	}
	if p.Modes == 0 {
		p.Modes = 2
	}
	if p.DeembedDistance == "" {
		p.DeembedDistance = "0mm"
	}
	return p
}

// WithDefaults fills unset names.
func (f Finite) WithDefaults() Finite {
	if f.RegionName == "" {
		f.RegionName = "AirRegion"
	}
	if f.Padding == "" {
		f.Padding = DefaultPadding
	}
	if f.RadiationName == "" {
		f.RadiationName = "Rad1"
	}
	if f.PlaneWave.Name == "" {
		f.PlaneWave.Name = "IncPWave1"
	}
	if f.PlaneWave.Theta == "" {
		f.PlaneWave.Theta = "0deg"
	}
	if f.PlaneWave.Phi == "" {
		f.PlaneWave.Phi = "0deg"
	}
	if f.PlaneWave.Polarization == "" {
		f.PlaneWave.Polarization = PolarizationTE
	}
	return f
}

// Resolve returns the variant behind t as a value with defaults applied.
// A nil topology, including a nil *Periodic or *Finite, is ErrInvalidTopology.
func Resolve(t Topology) (Topology, error) {
	switch v := t.(type) {
	case Periodic:
		return v.WithDefaults(), nil
	case *Periodic:
		if v != nil {
			return v.WithDefaults(), nil
		}
	case Finite:
		return v.WithDefaults(), nil
	case *Finite:
		if v != nil {
			return v.WithDefaults(), nil
		}
	}
	return nil, fmt.Errorf("%w: no topology", ErrInvalidTopology)
}

// ParseTopologyKind validates a topology name.
func ParseTopologyKind(s string) (TopologyKind, error) {
	switch TopologyKind(s) {
	case TopologyPeriodic, TopologyFinite:
		return TopologyKind(s), nil
	}
	return "", fmt.Errorf("%w: unknown kind %q", ErrInvalidTopology, s)
}
