package workflow

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/hawkeye-rf/emflow/pkg/domain"
	"github.com/hawkeye-rf/emflow/pkg/ports"
)

// ExecuteTarget can check preconditions and run the solver.
type ExecuteTarget interface {
	ports.Inspector
	ports.Executor
}

// CheckSolvable verifies that the setup and sweep exist and that the design has at
// least one excitation. Failures wrap domain.ErrPrecondition.
func CheckSolvable(ctx context.Context, d ports.Inspector, setup, sweep string) error {
	if err := checkSolution(ctx, d, setup, sweep); err != nil {
		return err
	}
	bounds, err := d.Boundaries(ctx)
	if err != nil {
		return fmt.Errorf("list boundaries: %w", err)
	}
	if !slices.ContainsFunc(bounds, func(b domain.Boundary) bool { return b.Type.IsExcitation() }) {
		return fmt.Errorf("%w: design has no excitation", domain.ErrPrecondition)
	}
	return nil
}

// checkSolution verifies that setup exists and, unless sweep is empty or the adaptive
// pass, that the sweep exists under it.
func checkSolution(ctx context.Context, d ports.Inspector, setup, sweep string) error {
	setups, err := d.SetupNames(ctx)
	if err != nil {
		return fmt.Errorf("list setups: %w", err)
	}
	if !slices.Contains(setups, setup) {
		return fmt.Errorf("%w: setup %q does not exist", domain.ErrPrecondition, setup)
	}
	if sweep == "" || strings.EqualFold(sweep, "LastAdaptive") {
		return nil
	}
	sweeps, err := d.SweepNames(ctx, setup)
	if err != nil {
		return fmt.Errorf("list sweeps of %s: %w", setup, err)
	}
	if !slices.Contains(sweeps, sweep) {
		return fmt.Errorf("%w: sweep %q does not exist on %s", domain.ErrPrecondition, sweep, setup)
	}
	return nil
}

// Execute saves the project and solves setup. It blocks until the solver returns.
// There is no retry: a solver failure is returned as is.
func Execute(ctx context.Context, d ExecuteTarget, setup, sweep string) error {
	if err := CheckSolvable(ctx, d, setup, sweep); err != nil {
		return err
	}
	if err := d.Save(ctx); err != nil {
		return fmt.Errorf("save project: %w", err)
	}
	if err := d.Analyze(ctx, setup); err != nil {
		return fmt.Errorf("analyze %s: %w", setup, err)
	}
	return nil
}
