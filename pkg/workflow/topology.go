package workflow

import (
	"context"
	"fmt"
	"slices"

	"github.com/hawkeye-rf/emflow/pkg/domain"
)

// ApplyTopology builds the air region around anchor and issues the excitation set of
// the topology: lattice pairs and a Floquet port for Periodic, radiation and a plane
// wave (plus an optional far-field sphere) for Finite. Never both.
func ApplyTopology(ctx context.Context, d ModelTarget, topo domain.Topology, anchor string) (BuildOutcome, error) {
	var out BuildOutcome
	topo, err := domain.Resolve(topo)
	if err != nil {
		return out, err
	}

	objects, err := d.ObjectNames(ctx)
	if err != nil {
		return out, fmt.Errorf("list objects: %w", err)
	}
	if !slices.Contains(objects, anchor) {
		return out, fmt.Errorf("%w: anchor object %q not in design", domain.ErrPrecondition, anchor)
	}
	bounds, err := d.Boundaries(ctx)
	if err != nil {
		return out, fmt.Errorf("list boundaries: %w", err)
	}
	if err := checkExclusive(topo, bounds); err != nil {
		return out, err
	}

	bb, err := d.BoundingBox(ctx, anchor)
	if err != nil {
		return out, fmt.Errorf("bounding box of %s: %w", anchor, err)
	}

	switch t := topo.(type) {
	case domain.Periodic:
		return applyPeriodic(ctx, d, t, bb, objects, bounds)
	case domain.Finite:
		return applyFinite(ctx, d, t, bb, objects, bounds)
	}
	return out, fmt.Errorf("%w: unsupported %T", domain.ErrInvalidTopology, topo)
}

// checkExclusive rejects a design that already carries the other topology's excitations.
func checkExclusive(topo domain.Topology, bounds []domain.Boundary) error {
	for _, b := range bounds {
		switch {
		case topo.Portless() && (b.Type == domain.BoundaryFloquetPort || b.Type == domain.BoundaryLattice):
			return fmt.Errorf("%w: finite topology but design has %s %q", domain.ErrInvalidTopology, b.Type, b.Name)
		case !topo.Portless() && (b.Type == domain.BoundaryPlaneWave || b.Type == domain.BoundaryRadiation):
			return fmt.Errorf("%w: periodic topology but design has %s %q", domain.ErrInvalidTopology, b.Type, b.Name)
		}
	}
	return nil
}

func hasBoundary(bounds []domain.Boundary, name string) bool {
	return slices.ContainsFunc(bounds, func(b domain.Boundary) bool { return b.Name == name })
}

func mm(v float64) string {
	return fmt.Sprintf("%gmm", v)
}

// applyPeriodic encloses the whole cell stack in the air region so that the lattice
// pairs cover the substrate side walls, and puts the port on the region top.
func applyPeriodic(ctx context.Context, d ModelTarget, p domain.Periodic, cell domain.BoundingBox, objects []string, bounds []domain.Boundary) (BuildOutcome, error) {
	var out BuildOutcome
	size := cell.Size()

	if slices.Contains(objects, p.RegionName) {
		out.Skipped = append(out.Skipped, p.RegionName)
	} else {
		region := domain.Box{
			Name:     p.RegionName,
			Origin:   domain.Vec(mm(cell.Min[0]), mm(cell.Min[1]), mm(cell.Min[2])),
			Sizes:    domain.Vec(mm(size[0]), mm(size[1]), fmt.Sprintf("%s+%s", mm(size[2]), p.RegionHeight)),
			Material: "vacuum",
		}
		if err := d.CreateBox(ctx, region); err != nil {
			return out, fmt.Errorf("create air region: %w", err)
		}
		out.Created = append(out.Created, p.RegionName)
	}

	if slices.ContainsFunc(bounds, func(b domain.Boundary) bool { return b.Type == domain.BoundaryLattice }) {
		out.Skipped = append(out.Skipped, "lattice pairs")
	} else {
		pairs, err := d.AutoAssignLatticePairs(ctx, p.RegionName)
		if err != nil {
			return out, fmt.Errorf("assign lattice pairs: %w", err)
		}
		out.Created = append(out.Created, pairs...)
	}

	if hasBoundary(bounds, p.PortName) {
		out.Skipped = append(out.Skipped, p.PortName)
		return out, nil
	}
	rb, err := d.BoundingBox(ctx, p.RegionName)
	if err != nil {
		return out, fmt.Errorf("bounding box of %s: %w", p.RegionName, err)
	}
	top := rb.Max[2]
	origin := domain.Vec(mm(rb.Min[0]), mm(rb.Min[1]), mm(top))
	port := domain.FloquetPortSpec{
		Name:            p.PortName,
		Face:            domain.FaceRef{Object: p.RegionName, Side: domain.FaceTop},
		LatticeA:        [2]domain.Vector3{origin, domain.Vec(mm(rb.Max[0]), mm(rb.Min[1]), mm(top))},
		LatticeB:        [2]domain.Vector3{origin, domain.Vec(mm(rb.Min[0]), mm(rb.Max[1]), mm(top))},
		Modes:           p.Modes,
		DeembedDistance: p.DeembedDistance,
	}
	if err := d.CreateFloquetPort(ctx, port); err != nil {
		return out, fmt.Errorf("create floquet port: %w", err)
	}
	out.Created = append(out.Created, p.PortName)
	return out, nil
}

func applyFinite(ctx context.Context, d ModelTarget, f domain.Finite, tag domain.BoundingBox, objects []string, bounds []domain.Boundary) (BuildOutcome, error) {
	var out BuildOutcome
	size := tag.Size()

	if slices.Contains(objects, f.RegionName) {
		out.Skipped = append(out.Skipped, f.RegionName)
	} else {
		var origin, sizes domain.Vector3
		for i := 0; i < 3; i++ {
			origin[i] = fmt.Sprintf("%s-%s", mm(tag.Min[i]), f.Padding)
			sizes[i] = fmt.Sprintf("%s+2*%s", mm(size[i]), f.Padding)
		}
		region := domain.Box{Name: f.RegionName, Origin: origin, Sizes: sizes, Material: "vacuum"}
		if err := d.CreateBox(ctx, region); err != nil {
			return out, fmt.Errorf("create air region: %w", err)
		}
		out.Created = append(out.Created, f.RegionName)
	}

	if hasBoundary(bounds, f.RadiationName) {
		out.Skipped = append(out.Skipped, f.RadiationName)
	} else {
		if err := d.AssignRadiation(ctx, f.RadiationName, []string{f.RegionName}); err != nil {
			return out, fmt.Errorf("assign radiation: %w", err)
		}
		out.Created = append(out.Created, f.RadiationName)
	}

	if hasBoundary(bounds, f.PlaneWave.Name) {
		out.Skipped = append(out.Skipped, f.PlaneWave.Name)
	} else {
		if err := d.AssignPlaneWave(ctx, f.PlaneWave); err != nil {
			return out, fmt.Errorf("assign plane wave: %w", err)
		}
		out.Created = append(out.Created, f.PlaneWave.Name)
	}

	if f.Sphere != nil {
		sphere := *f.Sphere
		if sphere.Definition == "" {
			sphere = domain.DefaultInfiniteSphere(sphere.Name)
		}
		if hasBoundary(bounds, sphere.Name) {
			out.Skipped = append(out.Skipped, sphere.Name)
		} else {
			if err := d.InsertInfiniteSphere(ctx, sphere); err != nil {
				return out, fmt.Errorf("insert infinite sphere: %w", err)
			}
			out.Created = append(out.Created, sphere.Name)
		}
	}
	return out, nil
}
