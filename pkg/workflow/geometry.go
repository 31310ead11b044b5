package workflow

import (
	"context"
	"fmt"
	"slices"

	"github.com/hawkeye-rf/emflow/pkg/domain"
	"github.com/hawkeye-rf/emflow/pkg/ports"
)

// ModelTarget can list and create geometry, boundaries and excitations.
type ModelTarget interface {
	ports.Inspector
	ports.Modeler
}

// BuildOutcome lists what a build step created and what it skipped as already present.
type BuildOutcome struct {
	Created []string
	Skipped []string
}

// SetVariables writes every design variable. Setting a variable is idempotent.
func SetVariables(ctx context.Context, d ports.Modeler, vars []domain.Variable) error {
	for _, v := range vars {
		if err := d.SetVariable(ctx, v); err != nil {
			return fmt.Errorf("set variable %s: %w", v.Name, err)
		}
	}
	return nil
}

// BuildGeometry creates materials, substrate, ground and patch. Objects and materials
// that already exist by name are skipped.
func BuildGeometry(ctx context.Context, d ModelTarget, g domain.CellGeometry) (BuildOutcome, error) {
	var out BuildOutcome

	materials, err := d.MaterialNames(ctx)
	if err != nil {
		return out, fmt.Errorf("list materials: %w", err)
	}
	for _, m := range g.Materials {
		if slices.Contains(materials, m.Name) {
			out.Skipped = append(out.Skipped, m.Name)
			continue
		}
		if err := d.AddMaterial(ctx, m); err != nil {
			return out, fmt.Errorf("add material %s: %w", m.Name, err)
		}
		out.Created = append(out.Created, m.Name)
	}

	objects, err := d.ObjectNames(ctx)
	if err != nil {
		return out, fmt.Errorf("list objects: %w", err)
	}
	exists := func(name string) bool {
		if slices.Contains(objects, name) {
			out.Skipped = append(out.Skipped, name)
			return true
		}
		return false
	}

	if s := g.Substrate; s != nil && !exists(s.Name) {
		if err := d.CreateBox(ctx, *s); err != nil {
			return out, fmt.Errorf("create substrate %s: %w", s.Name, err)
		}
		out.Created = append(out.Created, s.Name)
	}

	if gr := g.Ground; gr != nil && !exists(gr.Name) {
		if err := d.CreateRectangle(ctx, *gr); err != nil {
			return out, fmt.Errorf("create ground %s: %w", gr.Name, err)
		}
		out.Created = append(out.Created, gr.Name)
		name := g.GroundBoundary
		if name == "" {
			name = "PerfE_" + gr.Name
		}
		if err := d.AssignPerfectE(ctx, name, []string{gr.Name}); err != nil {
			return out, fmt.Errorf("assign perfect E to %s: %w", gr.Name, err)
		}
		out.Created = append(out.Created, name)
	}

	if p := g.Patch; p != nil && !exists(p.Name) {
		if err := d.CreateRectangle(ctx, *p); err != nil {
			return out, fmt.Errorf("create patch %s: %w", p.Name, err)
		}
		out.Created = append(out.Created, p.Name)
		if g.PatchThickness != "" {
			if err := d.Thicken(ctx, p.Name, g.PatchThickness); err != nil {
				return out, fmt.Errorf("thicken %s: %w", p.Name, err)
			}
		}
		if g.PatchMaterial != "" {
			if err := d.AssignMaterial(ctx, p.Name, g.PatchMaterial); err != nil {
				return out, fmt.Errorf("assign %s to %s: %w", g.PatchMaterial, p.Name, err)
			}
		}
	}
	return out, nil
}
