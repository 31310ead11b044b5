package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/hawkeye-rf/emflow"
	"github.com/hawkeye-rf/emflow/pkg/adapters/memory"
	"github.com/hawkeye-rf/emflow/pkg/domain"
	"github.com/hawkeye-rf/emflow/pkg/workflow"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *emflow.Engine, string) {
	t.Helper()
	project := filepath.Join(t.TempDir(), "cell.aedt")
	require.NoError(t, os.WriteFile(project, []byte("project"), 0644))
	design := memory.NewDesign(memory.Fixture{
		Name:   "UnitCell",
		Setups: []memory.SetupFixture{{Name: "Setup1", Sweeps: []memory.SweepFixture{{Name: "Sweep"}}}},
	})
	eng, err := emflow.New(memory.NewLauncher(map[string]*memory.Design{project: design}))
	require.NoError(t, err)
	return NewServer(eng, nil), eng, project
}

func TestInspectProject(t *testing.T) {
	s, _, project := newTestServer(t)
	ctx := context.Background()

	rep, err := s.handleInspect(ctx, mcp.CallToolRequest{}, InspectArgs{Path: project})
	require.NoError(t, err)
	assert.Equal(t, "UnitCell", rep.Design)
	require.Len(t, rep.Setups, 1)
	assert.Equal(t, []string{"Sweep"}, rep.Setups[0].SweepNames())

	_, err = s.handleInspect(ctx, mcp.CallToolRequest{}, InspectArgs{})
	assert.ErrorContains(t, err, "path is required")

	_, err = s.handleInspect(ctx, mcp.CallToolRequest{}, InspectArgs{Path: filepath.Join(t.TempDir(), "none.aedt")})
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
}

func TestRunTools(t *testing.T) {
	s, eng, project := newTestServer(t)
	ctx := context.Background()

	list, err := s.handleListRuns(ctx, mcp.CallToolRequest{}, nil)
	require.NoError(t, err)
	assert.Empty(t, list.Runs)

	rec, err := eng.Run(ctx, workflow.Plan{Project: domain.ProjectRef{Path: project}})
	require.NoError(t, err)

	list, err = s.handleListRuns(ctx, mcp.CallToolRequest{}, nil)
	require.NoError(t, err)
	require.Len(t, list.Runs, 1)
	assert.Equal(t, rec.ID, list.Runs[0].ID)
	assert.Equal(t, domain.RunSucceeded, list.Runs[0].Status)

	got, err := s.handleGetRun(ctx, mcp.CallToolRequest{}, GetRunArgs{ID: rec.ID})
	require.NoError(t, err)
	assert.Equal(t, "UnitCell", got.Design)

	_, err = s.handleGetRun(ctx, mcp.CallToolRequest{}, GetRunArgs{ID: "missing"})
	assert.ErrorIs(t, err, domain.ErrRunNotFound)
}

func TestRunResources(t *testing.T) {
	s, eng, project := newTestServer(t)
	ctx := context.Background()
	rec, err := eng.Run(ctx, workflow.Plan{Project: domain.ProjectRef{Path: project}})
	require.NoError(t, err)

	contents, err := s.readRuns(ctx, mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)
	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, "emflow://runs", text.URI)
	var list RunList
	require.NoError(t, json.Unmarshal([]byte(text.Text), &list))
	require.Len(t, list.Runs, 1)

	req := mcp.ReadResourceRequest{}
	req.Params.URI = "emflow://runs/" + rec.ID
	contents, err = s.readRun(ctx, req)
	require.NoError(t, err)
	text = contents[0].(mcp.TextResourceContents)
	assert.Contains(t, text.Text, rec.ID)

	req.Params.URI = "emflow://runs/"
	_, err = s.readRun(ctx, req)
	assert.ErrorContains(t, err, "invalid run URI")
}
