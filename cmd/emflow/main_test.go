package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hawkeye-rf/emflow/internal/cli"
	"github.com/hawkeye-rf/emflow/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const runConfig = `
project:
  path: %[1]s
store:
  kind: file
  path: %[2]s/runs
setup: {}
sweep:
  name: Sweep_22_26G_fast
  start: 22
  stop: 26
  count: 51
solve: true
reports:
  - name: S11
    type: Rectangular Plot
    quantities: ["dB(S(1,1))"]
export:
  dir: %[2]s/reports
document:
  title: Far Field Analysis
  chapters:
    - title: Far Field Analysis
      sections:
        - title: Radiation Pattern
          images: [{report: S11, width: 400}]
`

func execute(t *testing.T, args ...string) error {
	t.Helper()
	globalOpts = cli.Options{}
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func writeConfig(t *testing.T) (cfgPath, dir string) {
	t.Helper()
	dir = t.TempDir()
	project := filepath.Join(dir, "cell.aedt")
	require.NoError(t, os.WriteFile(project, []byte("project"), 0644))
	cfgPath = filepath.Join(dir, "emflow.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(fmt.Sprintf(runConfig, filepath.ToSlash(project), filepath.ToSlash(dir))), 0644))
	return cfgPath, dir
}

func TestValidateCommand(t *testing.T) {
	cfgPath, _ := writeConfig(t)
	assert.NoError(t, execute(t, "validate", "--config", cfgPath))

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("solve: true\n"), 0644))
	assert.Error(t, execute(t, "validate", "--config", bad))
}

func TestRunCommand_DryRun(t *testing.T) {
	cfgPath, dir := writeConfig(t)
	require.NoError(t, execute(t, "run", "--config", cfgPath, "--dry-run", "--quiet"))

	assert.FileExists(t, filepath.Join(dir, "reports", "S11.jpg"))
	assert.FileExists(t, filepath.Join(dir, "reports", "S11.csv"))
	assert.FileExists(t, filepath.Join(dir, "reports", "FarFieldReport.pdf"))

	entries, err := os.ReadDir(filepath.Join(dir, "runs"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	runID := entries[0].Name()[:len(entries[0].Name())-len(".json")]

	assert.NoError(t, execute(t, "runs", "list", "--config", cfgPath))
	assert.NoError(t, execute(t, "runs", "show", runID, "--config", cfgPath, "--json"))
	assert.NoError(t, execute(t, "graph", "--config", cfgPath, "--run", runID))

	out := filepath.Join(dir, "again.pdf")
	require.NoError(t, execute(t, "pdf", runID, "--config", cfgPath, "--output", out))
	assert.FileExists(t, out)
}

func TestRunCommand_ProjectArgument(t *testing.T) {
	cfgPath, dir := writeConfig(t)
	data, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	// Drop the project section so the config acts as a template.
	tmpl := strings.Replace(string(data), "project:\n  path:", "unused:\n  path:", 1)
	tmplPath := filepath.Join(dir, "template.yaml")
	require.NoError(t, os.WriteFile(tmplPath, []byte(tmpl), 0644))

	project := filepath.Join(dir, "cell.aedt")
	require.NoError(t, execute(t, "run", project, "--config", tmplPath, "--dry-run", "--quiet"))
	assert.FileExists(t, filepath.Join(dir, "reports", "FarFieldReport.pdf"))
}

func TestRunCommand_MissingProject(t *testing.T) {
	cfgPath, dir := writeConfig(t)
	require.NoError(t, os.Remove(filepath.Join(dir, "cell.aedt")))

	err := execute(t, "run", "--config", cfgPath, "--dry-run", "--quiet")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
	assert.Contains(t, cli.ExitMessage(err), "Project not found")
}

func TestPlotCommand(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "S11.csv")
	require.NoError(t, os.WriteFile(src, []byte("\"Freq [GHz]\",\"dB(S(1,1)) []\"\n22,-10\n24,-25\n26,-12\n"), 0644))

	xlsx := filepath.Join(dir, "S11.xlsx")
	require.NoError(t, execute(t, "plot", src, "--xlsx", xlsx))
	assert.FileExists(t, filepath.Join(dir, "S11_plot.png"))
	assert.FileExists(t, xlsx)
}
