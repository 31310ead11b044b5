package workflow

import (
	"context"
	"fmt"
	"slices"

	"github.com/hawkeye-rf/emflow/pkg/domain"
	"github.com/hawkeye-rf/emflow/pkg/ports"
)

// ProvisionTarget can both list and create setups and sweeps.
type ProvisionTarget interface {
	ports.Inspector
	ports.Provisioner
}

// SetupOptions controls what happens when the named setup already exists.
type SetupOptions struct {
	// UpdateExisting pushes the requested properties onto an existing setup.
	UpdateExisting bool
}

// SetupOutcome reports what EnsureSetup did.
type SetupOutcome struct {
	Created bool
	Updated bool
	// Drift lists requested keys whose value differs from the existing setup.
	Drift []string
}

// EnsureSetup creates the setup if absent. An existing setup is reused as-is unless
// opts.UpdateExisting is set; property drift is reported either way.
func EnsureSetup(ctx context.Context, d ProvisionTarget, spec domain.SetupSpec, opts SetupOptions) (SetupOutcome, error) {
	var out SetupOutcome
	names, err := d.SetupNames(ctx)
	if err != nil {
		return out, fmt.Errorf("list setups: %w", err)
	}

	want := spec.Props()
	if !slices.Contains(names, spec.Name) {
		if err := d.CreateSetup(ctx, spec.Name, want); err != nil {
			return out, fmt.Errorf("create setup %s: %w", spec.Name, err)
		}
		out.Created = true
		return out, nil
	}

	have, err := d.SetupProps(ctx, spec.Name)
	if err != nil {
		return out, fmt.Errorf("read setup %s: %w", spec.Name, err)
	}
	out.Drift = have.Diff(want)
	if len(out.Drift) > 0 && opts.UpdateExisting {
		if err := d.EditSetup(ctx, spec.Name, want.Select(out.Drift)); err != nil {
			return out, fmt.Errorf("update setup %s: %w", spec.Name, err)
		}
		out.Updated = true
	}
	return out, nil
}

// EnsureSweep validates the sweep against req and creates it under its setup if absent.
// It returns true when a sweep was created. Validation happens before any solver call.
func EnsureSweep(ctx context.Context, d ProvisionTarget, spec domain.SweepSpec, req domain.SweepRequirements) (bool, error) {
	if err := domain.ValidateSweep(spec, req); err != nil {
		return false, err
	}

	setups, err := d.SetupNames(ctx)
	if err != nil {
		return false, fmt.Errorf("list setups: %w", err)
	}
	if !slices.Contains(setups, spec.Setup) {
		return false, fmt.Errorf("%w: sweep %s needs setup %s", domain.ErrPrecondition, spec.Name, spec.Setup)
	}

	sweeps, err := d.SweepNames(ctx, spec.Setup)
	if err != nil {
		return false, fmt.Errorf("list sweeps of %s: %w", spec.Setup, err)
	}
	if slices.Contains(sweeps, spec.Name) {
		return false, nil
	}
	if err := d.CreateSweep(ctx, spec); err != nil {
		return false, fmt.Errorf("create sweep %s: %w", spec.Solution(), err)
	}
	return true, nil
}
