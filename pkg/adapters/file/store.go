package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hawkeye-rf/emflow/pkg/domain"
)

// Store implements ports.RunStore using the local filesystem.
// Each run is one indented JSON file named after its ID.
type Store struct {
	BasePath string
}

// New creates a Store rooted at basePath.
// If basePath is empty, it defaults to ".emflow/runs".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".emflow", "runs")
	}
	return &Store{BasePath: basePath}
}

func (s *Store) path(runID string) string {
	return filepath.Join(s.BasePath, runID+".json")
}

// Save writes the record atomically: temp file, fsync, rename.
func (s *Store) Save(ctx context.Context, rec *domain.RunRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("run ID cannot be empty")
	}
	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure run directory: %w", err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}

	tmp, err := os.CreateTemp(s.BasePath, rec.ID+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write run file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync run file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close run file: %w", err)
	}
	if err := os.Rename(tmpName, s.path(rec.ID)); err != nil {
		return fmt.Errorf("failed to commit run file: %w", err)
	}
	return nil
}

// Load reads one run record.
func (s *Store) Load(ctx context.Context, runID string) (*domain.RunRecord, error) {
	if runID == "" {
		return nil, fmt.Errorf("run ID cannot be empty")
	}
	data, err := os.ReadFile(s.path(runID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to read run file: %w", err)
	}

	var rec domain.RunRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run %s: %w", runID, err)
	}
	return &rec, nil
}

// Delete removes the run file.
func (s *Store) Delete(ctx context.Context, runID string) error {
	if runID == "" {
		return fmt.Errorf("run ID cannot be empty")
	}
	if err := os.Remove(s.path(runID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete run file: %w", err)
	}
	return nil
}

// List returns the stored run IDs in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}
