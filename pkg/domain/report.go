package domain

// ReportType is the solver's report template name.
type ReportType string

const (
	ReportRectangular ReportType = "Rectangular Plot"
	ReportPolar3D     ReportType = "3D Polar Plot"
	ReportRadiation   ReportType = "Radiation Pattern"
)

// IsFarField reports whether the report needs a far-field sampling setup.
func (t ReportType) IsFarField() bool {
	return t == ReportPolar3D || t == ReportRadiation
}

// ReportSpec describes a derived report computed from a solved sweep.
type ReportSpec struct {
	Name           string     `json:"name" yaml:"name" validate:"required"`
	Type           ReportType `json:"type" yaml:"type" validate:"required"`
	DisplayType    string     `json:"display_type,omitempty" yaml:"display_type"`
	Solution       string     `json:"solution" yaml:"solution"`
	Quantities     []string   `json:"quantities,omitempty" yaml:"quantities"`
	FarFieldSetup  string     `json:"far_field_setup,omitempty" yaml:"far_field_setup"`
	PrimarySweep   string     `json:"primary_sweep,omitempty" yaml:"primary_sweep"`
	SecondarySweep string     `json:"secondary_sweep,omitempty" yaml:"secondary_sweep"`

	// Image and Data select which exports follow report creation.
	Image bool `json:"image" yaml:"image"`
	Data  bool `json:"data" yaml:"data"`
	// Caption is used when the exported image is embedded in the PDF.
	Caption string `json:"caption,omitempty" yaml:"caption"`
}

// SweepSummary is the inspected view of one sweep.
type SweepSummary struct {
	Name  string      `json:"name"`
	Props PropertyBag `json:"props"`
}

// SetupSummary is the inspected view of one setup and its sweeps.
type SetupSummary struct {
	Name   string         `json:"name"`
	Props  PropertyBag    `json:"props"`
	Sweeps []SweepSummary `json:"sweeps"`
}

// SweepNames lists the sweeps of the setup in solver order.
func (s SetupSummary) SweepNames() []string {
	names := make([]string, 0, len(s.Sweeps))
	for _, sw := range s.Sweeps {
		names = append(names, sw.Name)
	}
	return names
}

// InspectionReport is the read-only summary of a design.
type InspectionReport struct {
	Project      string            `json:"project"`
	Design       string            `json:"design"`
	SolutionType string            `json:"solution_type,omitempty"`
	Setups       []SetupSummary    `json:"setups"`
	Boundaries   []Boundary        `json:"boundaries"`
	Variables    map[string]string `json:"variables"`
	Traces       []string          `json:"traces"`

	// Warnings lists listings that failed and were degraded to empty.
	Warnings []string `json:"warnings,omitempty"`
}

// SetupNames lists the inspected setups in solver order.
func (r *InspectionReport) SetupNames() []string {
	names := make([]string, 0, len(r.Setups))
	for _, s := range r.Setups {
		names = append(names, s.Name)
	}
	return names
}
