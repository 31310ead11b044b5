package workflow

import (
	"context"
	"fmt"
	"sort"

	"github.com/hawkeye-rf/emflow/pkg/domain"
	"github.com/hawkeye-rf/emflow/pkg/ports"
)

// InspectOptions tunes inspection.
type InspectOptions struct {
	// MaxTraces caps the number of trace names reported. Defaults to 10.
	MaxTraces int
	// TraceCategory filters traces, "S" for S-parameters. Defaults to "S".
	TraceCategory string
}

func (o InspectOptions) withDefaults() InspectOptions {
	if o.MaxTraces <= 0 {
		o.MaxTraces = 10
	}
	if o.TraceCategory == "" {
		o.TraceCategory = "S"
	}
	return o
}

// Inspect builds a read-only summary of the design. Listing failures degrade to empty
// collections and are recorded as warnings on the report; only cancellation aborts.
func Inspect(ctx context.Context, d ports.Inspector, project string, opts InspectOptions) (*domain.InspectionReport, error) {
	opts = opts.withDefaults()
	rep := &domain.InspectionReport{
		Project:    project,
		Design:     d.DesignName(),
		Setups:     []domain.SetupSummary{},
		Boundaries: []domain.Boundary{},
		Variables:  map[string]string{},
		Traces:     []string{},
	}
	warn := func(what string, err error) {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("%s: %v", what, err))
	}

	if st, err := d.SolutionType(ctx); err != nil {
		warn("solution type", err)
	} else {
		rep.SolutionType = st
	}

	setups, err := d.SetupNames(ctx)
	if err != nil {
		warn("setup listing", err)
	}
	for _, name := range setups {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rep.Setups = append(rep.Setups, inspectSetup(ctx, d, name, warn))
	}

	if bounds, err := d.Boundaries(ctx); err != nil {
		warn("boundary listing", err)
	} else {
		for _, b := range bounds {
			rep.Boundaries = append(rep.Boundaries, domain.Boundary{
				Name:  b.Name,
				Type:  b.Type,
				Props: b.Props.Select(domain.BoundaryReportKeys),
			})
		}
	}

	if vars, err := d.Variables(ctx); err != nil {
		warn("variable listing", err)
	} else {
		for k, v := range vars {
			rep.Variables[k] = v
		}
	}

	if traces, err := d.Traces(ctx, opts.TraceCategory); err != nil {
		warn("trace listing", err)
	} else {
		if len(traces) > opts.MaxTraces {
			traces = traces[:opts.MaxTraces]
		}
		rep.Traces = append(rep.Traces, traces...)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return rep, nil
}

func inspectSetup(ctx context.Context, d ports.Inspector, name string, warn func(string, error)) domain.SetupSummary {
	sum := domain.SetupSummary{Name: name, Props: domain.PropertyBag{}, Sweeps: []domain.SweepSummary{}}

	if props, err := d.SetupProps(ctx, name); err != nil {
		warn("setup "+name+" properties", err)
	} else {
		sum.Props = props.Select(domain.SetupReportKeys)
	}

	sweeps, err := d.SweepNames(ctx, name)
	if err != nil {
		warn("sweep listing for "+name, err)
		return sum
	}
	for _, sw := range sweeps {
		ss := domain.SweepSummary{Name: sw, Props: domain.PropertyBag{}}
		if props, err := d.SweepProps(ctx, name, sw); err != nil {
			warn("sweep "+name+" : "+sw+" properties", err)
		} else {
			ss.Props = props.Select(domain.SweepReportKeys)
		}
		sum.Sweeps = append(sum.Sweeps, ss)
	}
	return sum
}

// VariableNames returns the inspected variable names sorted, for stable output.
func VariableNames(rep *domain.InspectionReport) []string {
	names := make([]string, 0, len(rep.Variables))
	for k := range rep.Variables {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
