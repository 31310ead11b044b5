package memory_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/hawkeye-rf/emflow/pkg/adapters/memory"
	"github.com/hawkeye-rf/emflow/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDesign_RecordsCalls(t *testing.T) {
	ctx := context.Background()
	d := memory.NewDesign(memory.Fixture{
		Name: "HFSSDesign1",
		Setups: []memory.SetupFixture{
			{Name: "Setup1", Props: domain.PropertyBag{"Frequency": "10GHz"}},
		},
	})

	names, err := d.SetupNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Setup1"}, names)
	assert.Empty(t, d.MutatingCalls())

	require.NoError(t, d.CreateSweep(ctx, domain.SweepSpec{
		Name: "Sweep", Setup: "Setup1", Units: "GHz", Start: 8, Stop: 12, Count: 5, Kind: domain.SweepDiscrete, SaveFields: true,
	}))
	assert.Len(t, d.MutatingCalls(), 1)
	assert.Len(t, d.CallsTo("CreateSweep"), 1)

	sweeps, err := d.SweepNames(ctx, "Setup1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Sweep"}, sweeps)

	props, err := d.SweepProps(ctx, "Setup1", "Sweep")
	require.NoError(t, err)
	assert.Equal(t, "8GHz", props[domain.PropRangeStart])
	assert.Equal(t, 5, props[domain.PropRangeCount])
}

func TestDesign_FailOn(t *testing.T) {
	ctx := context.Background()
	d := memory.NewDesign(memory.Fixture{Name: "D"})
	boom := errors.New("boom")
	d.FailOn("Boundaries", boom)

	_, err := d.Boundaries(ctx)
	assert.ErrorIs(t, err, boom)
	assert.Len(t, d.CallsTo("Boundaries"), 1)
}

func TestDesign_BoxBoundingBox(t *testing.T) {
	ctx := context.Background()
	d := memory.NewDesign(memory.Fixture{Name: "D"})
	require.NoError(t, d.SetVariable(ctx, domain.Variable{Name: "px", Expression: "6mm"}))
	require.NoError(t, d.CreateBox(ctx, domain.Box{
		Name:   "Sub",
		Origin: domain.Vec("-px/2", "-px/2", "0mm"),
		Sizes:  domain.Vec("px", "px", "0.5mm"),
	}))

	bb, err := d.BoundingBox(ctx, "Sub")
	require.NoError(t, err)
	assert.InDelta(t, -3, bb.Min[0], 1e-9)
	assert.InDelta(t, 3, bb.Max[1], 1e-9)
	assert.InDelta(t, 0.5, bb.Max[2], 1e-9)

	require.NoError(t, d.CreateBox(ctx, domain.Box{
		Name:   "Air",
		Origin: domain.Vec("-px/2-1mm", "-px/2", "0mm"),
		Sizes:  domain.Vec("px+2*1mm", "px", "0.5mm+10mm"),
	}))
	air, err := d.BoundingBox(ctx, "Air")
	require.NoError(t, err)
	assert.InDelta(t, -4, air.Min[0], 1e-9)
	assert.InDelta(t, 4, air.Max[0], 1e-9)
	assert.InDelta(t, 10.5, air.Max[2], 1e-9)

	err = d.CreateBox(ctx, domain.Box{Name: "Sub"})
	assert.Error(t, err, "duplicate object names are rejected")
}

func TestDesign_Exports(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	d := memory.NewDesign(memory.Fixture{Name: "D"})

	_, err := d.ExportImage(ctx, "Missing", dir)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	name, err := d.CreateReport(ctx, domain.ReportSpec{Name: "S11", Type: domain.ReportRectangular, Quantities: []string{"dB(S(1,1))"}})
	require.NoError(t, err)

	img, err := d.ExportImage(ctx, name, dir)
	require.NoError(t, err)
	assert.FileExists(t, img)

	csv, err := d.ExportData(ctx, name, dir, ".csv")
	require.NoError(t, err)
	data, err := os.ReadFile(csv)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"dB(S(1,1)) []"`)
}

func TestDesktop_Lifecycle(t *testing.T) {
	ctx := context.Background()
	design := memory.NewDesign(memory.Fixture{Name: "UnitCell"})
	l := memory.NewLauncher(map[string]*memory.Design{"cell.aedt": design})

	desk, err := l.Launch(ctx, domain.SessionOptions{Version: "2023.1"})
	require.NoError(t, err)
	assert.Equal(t, 1, l.Launches())

	_, err = desk.LoadProject(ctx, domain.ProjectRef{Path: "other.aedt"})
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)

	got, err := desk.LoadProject(ctx, domain.ProjectRef{Path: "cell.aedt", Design: "UnitCell"})
	require.NoError(t, err)
	assert.Equal(t, "UnitCell", got.DesignName())

	require.NoError(t, desk.Release(ctx, true))
	assert.True(t, l.Desktop().Released())
	assert.True(t, l.Desktop().ClosedProjects())
	assert.ErrorIs(t, desk.Release(ctx, true), domain.ErrSessionClosed)
}
