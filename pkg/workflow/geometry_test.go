package workflow_test

import (
	"context"
	"testing"

	"github.com/hawkeye-rf/emflow/pkg/adapters/memory"
	"github.com/hawkeye-rf/emflow/pkg/domain"
	"github.com/hawkeye-rf/emflow/pkg/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// builtCell returns a design with the unit cell geometry already in place.
func builtCell(t *testing.T) *memory.Design {
	t.Helper()
	d := cellDesign()
	g := cellGeometry()
	require.NoError(t, workflow.SetVariables(context.Background(), d, g.Variables))
	_, err := workflow.BuildGeometry(context.Background(), d, g)
	require.NoError(t, err)
	return d
}

func TestBuildGeometry(t *testing.T) {
	d := cellDesign()
	g := cellGeometry()
	ctx := context.Background()

	require.NoError(t, workflow.SetVariables(ctx, d, g.Variables))
	out, err := workflow.BuildGeometry(ctx, d, g)
	require.NoError(t, err)

	assert.Equal(t, []string{"Rogers", "Substrate", "Ground", "PerfE_Ground", "Patch"}, out.Created)
	assert.Empty(t, out.Skipped)
	assert.Len(t, d.CallsTo("AddMaterial"), 1)
	assert.Len(t, d.CallsTo("CreateBox"), 1)
	assert.Len(t, d.CallsTo("CreateRectangle"), 2)

	pe := d.CallsTo("AssignPerfectE")
	require.Len(t, pe, 1)
	assert.Equal(t, []string{"Ground"}, pe[0].Args[1])

	thicken := d.CallsTo("Thicken")
	require.Len(t, thicken, 1)
	assert.Equal(t, []any{"Patch", "35um"}, thicken[0].Args)
	assign := d.CallsTo("AssignMaterial")
	require.Len(t, assign, 1)
	assert.Equal(t, []any{"Patch", "copper"}, assign[0].Args)

	bb, err := d.BoundingBox(ctx, "Substrate")
	require.NoError(t, err)
	assert.Equal(t, [3]float64{-3, -3, 0}, bb.Min)
	assert.Equal(t, [3]float64{3, 3, 0.5}, bb.Max)
}

func TestBuildGeometry_Idempotent(t *testing.T) {
	d := builtCell(t)
	before := len(d.MutatingCalls())

	out, err := workflow.BuildGeometry(context.Background(), d, cellGeometry())
	require.NoError(t, err)
	assert.Empty(t, out.Created)
	assert.ElementsMatch(t, []string{"Rogers", "Substrate", "Ground", "Patch"}, out.Skipped)
	assert.Len(t, d.MutatingCalls(), before, "second build issues no creations")
}

func TestApplyTopology_Periodic(t *testing.T) {
	d := builtCell(t)
	topo := domain.Periodic{RegionHeight: "10mm"}

	out, err := workflow.ApplyTopology(context.Background(), d, topo, "Substrate")
	require.NoError(t, err)
	assert.Equal(t, []string{"AirRegion", "LatticePair1", "LatticePair2", "FloquetPort1"}, out.Created)

	boxes := d.CallsTo("CreateBox")
	region := boxes[len(boxes)-1].Args[0].(domain.Box)
	assert.Equal(t, "AirRegion", region.Name)
	assert.Equal(t, domain.Vec("-3mm", "-3mm", "0mm"), region.Origin, "region starts at the bottom of the cell")
	assert.Equal(t, "0.5mm+10mm", region.Sizes[2])

	rb, err := d.BoundingBox(context.Background(), "AirRegion")
	require.NoError(t, err)
	cell, err := d.BoundingBox(context.Background(), "Substrate")
	require.NoError(t, err)
	assert.LessOrEqual(t, rb.Min[2], cell.Min[2], "substrate side walls lie inside the region")
	assert.GreaterOrEqual(t, rb.Max[2], cell.Max[2])

	assert.Len(t, d.CallsTo("AutoAssignLatticePairs"), 1)
	ports := d.CallsTo("CreateFloquetPort")
	require.Len(t, ports, 1)
	port := ports[0].Args[0].(domain.FloquetPortSpec)
	assert.Equal(t, domain.FaceRef{Object: "AirRegion", Side: domain.FaceTop}, port.Face)
	assert.Equal(t, [2]domain.Vector3{
		domain.Vec("-3mm", "-3mm", "10.5mm"),
		domain.Vec("3mm", "-3mm", "10.5mm"),
	}, port.LatticeA)
	assert.Equal(t, [2]domain.Vector3{
		domain.Vec("-3mm", "-3mm", "10.5mm"),
		domain.Vec("-3mm", "3mm", "10.5mm"),
	}, port.LatticeB)
	assert.Equal(t, 2, port.Modes)

	assert.Empty(t, d.CallsTo("AssignRadiation"))
	assert.Empty(t, d.CallsTo("AssignPlaneWave"))
	assert.Empty(t, d.CallsTo("InsertInfiniteSphere"))
}

func TestApplyTopology_Finite(t *testing.T) {
	d := builtCell(t)
	topo := domain.Finite{
		Padding:   "lambda/4",
		PlaneWave: domain.PlaneWaveSpec{Theta: "30deg"},
		Sphere:    &domain.InfiniteSphereSpec{Name: "FF_Sphere"},
	}

	out, err := workflow.ApplyTopology(context.Background(), d, &topo, "Substrate")
	require.NoError(t, err)
	assert.Equal(t, []string{"AirRegion", "Rad1", "IncPWave1", "FF_Sphere"}, out.Created)

	wave := d.CallsTo("AssignPlaneWave")
	require.Len(t, wave, 1)
	pw := wave[0].Args[0].(domain.PlaneWaveSpec)
	assert.Equal(t, "30deg", pw.Theta)
	assert.Equal(t, "0deg", pw.Phi)
	assert.Equal(t, domain.PolarizationTE, pw.Polarization)

	sphere := d.CallsTo("InsertInfiniteSphere")
	require.Len(t, sphere, 1)
	assert.Equal(t, domain.DefaultInfiniteSphere("FF_Sphere"), sphere[0].Args[0])

	box := d.CallsTo("CreateBox")
	require.Len(t, box, 2)
	region := box[1].Args[0].(domain.Box)
	assert.Equal(t, "-3mm-lambda/4", region.Origin[0])
	assert.Equal(t, "6mm+2*lambda/4", region.Sizes[0])

	assert.Empty(t, d.CallsTo("CreateFloquetPort"))
	assert.Empty(t, d.CallsTo("AutoAssignLatticePairs"))
}

func TestApplyTopology_Idempotent(t *testing.T) {
	for _, topo := range []domain.Topology{
		domain.Periodic{RegionHeight: "10mm"},
		domain.Finite{Padding: "5mm", Sphere: &domain.InfiniteSphereSpec{}},
	} {
		t.Run(string(topo.Kind()), func(t *testing.T) {
			d := builtCell(t)
			_, err := workflow.ApplyTopology(context.Background(), d, topo, "Substrate")
			require.NoError(t, err)
			before := len(d.MutatingCalls())

			out, err := workflow.ApplyTopology(context.Background(), d, topo, "Substrate")
			require.NoError(t, err)
			assert.Empty(t, out.Created)
			assert.NotEmpty(t, out.Skipped)
			assert.Len(t, d.MutatingCalls(), before)
		})
	}
}

func TestApplyTopology_Exclusive(t *testing.T) {
	t.Run("finite on a design with a floquet port", func(t *testing.T) {
		d := builtCell(t)
		_, err := workflow.ApplyTopology(context.Background(), d, domain.Periodic{RegionHeight: "10mm"}, "Substrate")
		require.NoError(t, err)
		before := len(d.MutatingCalls())

		_, err = workflow.ApplyTopology(context.Background(), d, domain.Finite{Padding: "5mm"}, "Substrate")
		assert.ErrorIs(t, err, domain.ErrInvalidTopology)
		assert.Len(t, d.MutatingCalls(), before)
	})

	t.Run("periodic on a design with radiation", func(t *testing.T) {
		d := builtCell(t)
		_, err := workflow.ApplyTopology(context.Background(), d, domain.Finite{Padding: "5mm"}, "Substrate")
		require.NoError(t, err)

		_, err = workflow.ApplyTopology(context.Background(), d, domain.Periodic{RegionHeight: "10mm"}, "Substrate")
		assert.ErrorIs(t, err, domain.ErrInvalidTopology)
		assert.Empty(t, d.CallsTo("CreateFloquetPort"))
	})
}

func TestApplyTopology_MissingAnchor(t *testing.T) {
	d := cellDesign()
	_, err := workflow.ApplyTopology(context.Background(), d, domain.Periodic{RegionHeight: "10mm"}, "Substrate")
	assert.ErrorIs(t, err, domain.ErrPrecondition)
	assert.Empty(t, d.MutatingCalls())

	_, err = workflow.ApplyTopology(context.Background(), d, nil, "Substrate")
	assert.ErrorIs(t, err, domain.ErrInvalidTopology)
}

func TestApplyTopology_NilVariant(t *testing.T) {
	d := builtCell(t)
	before := len(d.MutatingCalls())
	for _, topo := range []domain.Topology{(*domain.Periodic)(nil), (*domain.Finite)(nil)} {
		_, err := workflow.ApplyTopology(context.Background(), d, topo, "Substrate")
		assert.ErrorIs(t, err, domain.ErrInvalidTopology)
	}
	assert.Len(t, d.MutatingCalls(), before)
}

func TestApplyTopology_FiniteDefaultPadding(t *testing.T) {
	d := builtCell(t)
	_, err := workflow.ApplyTopology(context.Background(), d, domain.Finite{}, "Substrate")
	require.NoError(t, err)

	boxes := d.CallsTo("CreateBox")
	region := boxes[len(boxes)-1].Args[0].(domain.Box)
	assert.Equal(t, "-3mm-3mm", region.Origin[0])
	assert.Equal(t, "6mm+2*3mm", region.Sizes[0])
}
