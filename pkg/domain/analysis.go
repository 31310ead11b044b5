package domain

import (
	"fmt"
	"strings"
)

// Solver property keys for analysis setups.
const (
	PropFrequency              = "Frequency"
	PropMaximumPasses          = "MaximumPasses"
	PropDeltaS                 = "DeltaS"
	PropMinimumConvergedPasses = "MinimumConvergedPasses"
	PropMaximumDeltaS          = "MaximumDeltaS"
	PropBasisOrder             = "BasisOrder"
	PropPercentRefinement      = "PercentRefinementPerPass"
)

// Solver property keys for frequency sweeps.
const (
	PropRangeType         = "RangeType"
	PropRangeStart        = "RangeStart"
	PropRangeEnd          = "RangeEnd"
	PropRangeCount        = "RangeCount"
	PropSweepType         = "Type"
	PropSaveFields        = "SaveFields"
	PropSaveRadFieldsOnly = "SaveRadFieldsOnly"
)

// SetupReportKeys are the setup properties surfaced by inspection.
var SetupReportKeys = []string{
	PropFrequency, PropMaximumPasses, PropDeltaS, PropMinimumConvergedPasses,
	PropMaximumDeltaS, PropBasisOrder, PropPercentRefinement,
}

// SweepReportKeys are the sweep properties surfaced by inspection.
var SweepReportKeys = []string{
	PropRangeType, PropRangeStart, PropRangeEnd, PropRangeCount,
	PropSweepType, PropSaveFields, PropSaveRadFieldsOnly,
}

// SetupSpec describes a named analysis setup and its convergence criteria.
type SetupSpec struct {
	Name                   string  `json:"name" yaml:"name" validate:"required"`
	Frequency              string  `json:"frequency" yaml:"frequency" validate:"required"`
	MaximumPasses          int     `json:"maximum_passes" yaml:"maximum_passes" validate:"gte=1"`
	DeltaS                 float64 `json:"delta_s" yaml:"delta_s" validate:"gt=0"`
	MinimumConvergedPasses int     `json:"minimum_converged_passes,omitempty" yaml:"minimum_converged_passes" validate:"gte=0"`
	MaximumDeltaS          float64 `json:"maximum_delta_s,omitempty" yaml:"maximum_delta_s" validate:"gte=0"`

	// Extra carries additional solver keys forwarded verbatim (e.g. BasisOrder).
	Extra PropertyBag `json:"extra,omitempty" yaml:"extra_props"`
}

// Props renders the spec as a solver property bag. Zero optional values are left out
// so the solver keeps its own defaults for them.
func (s SetupSpec) Props() PropertyBag {
	bag := PropertyBag{
		PropFrequency:     s.Frequency,
		PropMaximumPasses: s.MaximumPasses,
		PropDeltaS:        s.DeltaS,
	}
	if s.MinimumConvergedPasses > 0 {
		bag[PropMinimumConvergedPasses] = s.MinimumConvergedPasses
	}
	if s.MaximumDeltaS > 0 {
		bag[PropMaximumDeltaS] = s.MaximumDeltaS
	}
	for k, v := range s.Extra {
		bag[k] = v
	}
	return bag
}

// SweepKind is the frequency sampling strategy of a sweep.
type SweepKind string

const (
	SweepDiscrete      SweepKind = "Discrete"
	SweepInterpolating SweepKind = "Interpolating"
	SweepFast          SweepKind = "Fast"
)

// ParseSweepKind accepts the kind names case-insensitively.
func ParseSweepKind(s string) (SweepKind, error) {
	for _, k := range []SweepKind{SweepDiscrete, SweepInterpolating, SweepFast} {
		if strings.EqualFold(s, string(k)) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown sweep kind %q", s)
}

// SweepSpec describes a linear-count frequency sweep attached to one setup.
type SweepSpec struct {
	Name          string    `json:"name" yaml:"name" validate:"required"`
	Setup         string    `json:"setup" yaml:"setup"`
	Units         string    `json:"units" yaml:"units"`
	Start         float64   `json:"start" yaml:"start" validate:"gt=0"`
	Stop          float64   `json:"stop" yaml:"stop" validate:"gtfield=Start"`
	Count         int       `json:"count" yaml:"count" validate:"gte=1"`
	Kind          SweepKind `json:"kind" yaml:"kind" validate:"oneof=Discrete Interpolating Fast"`
	SaveFields    bool      `json:"save_fields" yaml:"save_fields"`
	SaveRadFields bool      `json:"save_rad_fields" yaml:"save_rad_fields"`
}

// Solution returns the solver's "<setup> : <sweep>" solution identifier.
func (s SweepSpec) Solution() string {
	return s.Setup + " : " + s.Name
}

// SweepRequirements captures what the rest of the run expects from a sweep.
type SweepRequirements struct {
	// Portless is set for driven problems excited without ports (plane wave).
	Portless bool
	// FarField is set when a far-field report will be extracted from the sweep.
	FarField bool
}

// ValidateSweep checks a sweep against the run's requirements.
// Portless and far-field runs need fields saved at every point, which only Discrete
// and Fast sweeps can provide.
func ValidateSweep(s SweepSpec, req SweepRequirements) error {
	if !req.Portless && !req.FarField {
		return nil
	}
	reason := "plane-wave excitation"
	if !req.Portless {
		reason = "far-field export"
	}
	if s.Kind != SweepDiscrete && s.Kind != SweepFast {
		return fmt.Errorf("%w: %s requires a Discrete or Fast sweep, got %s", ErrIncompatibleSweep, reason, s.Kind)
	}
	if !s.SaveFields {
		return fmt.Errorf("%w: %s requires save_fields on sweep %q", ErrIncompatibleSweep, reason, s.Name)
	}
	return nil
}
