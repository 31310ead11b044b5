package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/hawkeye-rf/emflow/pkg/config"
	"github.com/hawkeye-rf/emflow/pkg/domain"
	"github.com/hawkeye-rf/emflow/pkg/session"
	"github.com/hawkeye-rf/emflow/pkg/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "run.yaml", "project:\n  path: cell.aedt\n  design: UnitCell\n")

	t.Run("Explicit file", func(t *testing.T) {
		cfg, err := LoadConfig(Options{ConfigPath: cfgPath}, "")
		require.NoError(t, err)
		assert.Equal(t, "cell.aedt", cfg.Project.Path)
		assert.Equal(t, "UnitCell", cfg.Project.Design)
	})

	t.Run("Argument overrides project path", func(t *testing.T) {
		cfg, err := LoadConfig(Options{ConfigPath: cfgPath}, "other.aedt")
		require.NoError(t, err)
		assert.Equal(t, "other.aedt", cfg.Project.Path)
	})

	t.Run("Defaults without a file", func(t *testing.T) {
		t.Chdir(t.TempDir())
		cfg, err := LoadConfig(Options{}, "cell.aedt")
		require.NoError(t, err)
		assert.Equal(t, config.DefaultVersion, cfg.Session.Version)
	})

	t.Run("Nothing to load", func(t *testing.T) {
		t.Chdir(t.TempDir())
		cfg, err := LoadConfig(Options{}, "")
		require.NoError(t, err)
		assert.ErrorIs(t, RequireProject(cfg), ErrNoProject)
	})

	t.Run("Default file in working directory", func(t *testing.T) {
		wd := t.TempDir()
		writeFile(t, wd, DefaultConfigFile, "project:\n  path: found.aedt\n")
		t.Chdir(wd)
		cfg, err := LoadConfig(Options{}, "")
		require.NoError(t, err)
		assert.Equal(t, "found.aedt", cfg.Project.Path)
	})

	t.Run("Template without project", func(t *testing.T) {
		tmpl := writeFile(t, dir, "template.yaml", "setup:\n  name: Setup_24G\nsolve: true\n")
		cfg, err := LoadConfig(Options{ConfigPath: tmpl}, "cell.aedt")
		require.NoError(t, err)
		assert.Equal(t, "cell.aedt", cfg.Project.Path)
		assert.Equal(t, "Setup_24G", cfg.Setup.Name)

		_, err = LoadConfig(Options{ConfigPath: tmpl}, "")
		assert.ErrorIs(t, err, config.ErrInvalid)
	})

	t.Run("Invalid file", func(t *testing.T) {
		bad := writeFile(t, dir, "bad.yaml", "solve: true\n")
		_, err := LoadConfig(Options{ConfigPath: bad}, "")
		assert.ErrorIs(t, err, config.ErrInvalid)
	})
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, Options{LogFormat: "json"}, config.LogConfig{Level: "warn", Format: "text"})
	logger.Info("hidden")
	logger.Warn("shown", "error", "boom")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"err":"boom"`)

	buf.Reset()
	logger = NewLogger(&buf, Options{Debug: true}, config.LogConfig{Level: "error"})
	logger.Debug("debugging")
	assert.Contains(t, buf.String(), "debugging")
}

func TestExitMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("open: %w", domain.ErrProjectNotFound), "Project not found"},
		{fmt.Errorf("x: %w", config.ErrInvalid), "Invalid configuration"},
		{fmt.Errorf("x: %w", domain.ErrIncompatibleSweep), "Invalid plan"},
		{fmt.Errorf("x: %w", domain.ErrPrecondition), "Precondition failed"},
		{fmt.Errorf("boom"), "Error: boom"},
	}
	for _, tt := range tests {
		assert.Contains(t, ExitMessage(tt.err), tt.want)
	}
}

func dryRunConfig(t *testing.T, store config.StoreConfig) *config.Config {
	t.Helper()
	project := writeFile(t, t.TempDir(), "cell.aedt", "project")
	cfg := config.Default(project)
	cfg.Store = store
	return cfg
}

func TestNewStack_DryRun(t *testing.T) {
	ctx := context.Background()
	cfg := dryRunConfig(t, config.StoreConfig{Kind: config.StoreMemory})
	st, err := NewStack(ctx, cfg, Options{DryRun: true}, NewLogger(&bytes.Buffer{}, Options{}, cfg.Log))
	require.NoError(t, err)
	defer st.Close()

	rep, err := st.Engine.Inspect(ctx, cfg.Project)
	require.NoError(t, err)
	assert.Equal(t, dryRunDesign, rep.Design)
	require.NotNil(t, st.Desktop)
	assert.Len(t, st.Desktop.Loaded(), 1)
}

func TestNewStack_FileStore(t *testing.T) {
	ctx := context.Background()
	runs := filepath.Join(t.TempDir(), "runs")
	cfg := dryRunConfig(t, config.StoreConfig{Kind: config.StoreFile, Path: runs})
	st, err := NewStack(ctx, cfg, Options{DryRun: true}, NewLogger(&bytes.Buffer{}, Options{}, cfg.Log))
	require.NoError(t, err)
	defer st.Close()

	rec, err := st.Engine.Run(ctx, cfg.Plan())
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(runs, rec.ID+".json"))
}

func TestNewStack_RedisStore(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	cfg := dryRunConfig(t, config.StoreConfig{Kind: config.StoreRedis, Redis: config.RedisConfig{Addr: mr.Addr()}})
	st, err := NewStack(ctx, cfg, Options{DryRun: true, Debug: true}, NewLogger(&bytes.Buffer{}, Options{}, cfg.Log))
	require.NoError(t, err)
	defer st.Close()

	rec, err := st.Engine.Run(ctx, workflow.Plan{Session: cfg.Session, Project: cfg.Project})
	require.NoError(t, err)

	runs, err := st.Engine.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, rec.ID, runs[0].ID)
	assert.False(t, mr.Exists("emflow:run:lock:"+session.Key(cfg.Session)), "desktop lock released after the run")
}

func TestNewStack_RedisUnavailable(t *testing.T) {
	cfg := dryRunConfig(t, config.StoreConfig{Kind: config.StoreRedis, Redis: config.RedisConfig{Addr: "127.0.0.1:1"}})
	_, err := NewStack(context.Background(), cfg, Options{DryRun: true}, NewLogger(&bytes.Buffer{}, Options{}, cfg.Log))
	assert.ErrorContains(t, err, "connect to redis")
}
