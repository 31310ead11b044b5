package ports

import (
	"context"
	"testing"
	"time"

	"github.com/hawkeye-rf/emflow/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunRunStoreContract runs a suite of tests to verify that a RunStore implementation
// adheres to the defined interface contract.
func RunRunStoreContract(t *testing.T, store RunStore) {
	ctx := context.Background()
	runID := "contract-test-run-" + time.Now().Format("20060102150405")
	project := domain.ProjectRef{Path: "cell.aedt", Design: "UnitCell"}

	t.Run("Save and Load", func(t *testing.T) {
		rec := domain.NewRunRecord(runID, project, time.Now().UTC())
		rec.Stage(domain.StageSetup).Status = domain.StageDone
		rec.AddArtifact(domain.ArtifactCSV, "out/s11.csv", "S11")
		rec.Warn("image missing")

		require.NoError(t, store.Save(ctx, rec), "Save should not return error")

		loaded, err := store.Load(ctx, runID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, rec.ID, loaded.ID)
		assert.Equal(t, "UnitCell", loaded.Design)
		assert.True(t, loaded.Completed(domain.StageSetup))
		assert.Equal(t, rec.Artifacts, loaded.Artifacts)
		assert.Equal(t, []string{"image missing"}, loaded.Warnings)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+runID)
		assert.ErrorIs(t, err, domain.ErrRunNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, domain.NewRunRecord(runID, project, time.Now().UTC())))

		require.NoError(t, store.Delete(ctx, runID), "Delete should not return error")

		_, err := store.Load(ctx, runID)
		assert.ErrorIs(t, err, domain.ErrRunNotFound, "Load after Delete should return ErrRunNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := runID + "-1"
		id2 := runID + "-2"
		_ = store.Save(ctx, domain.NewRunRecord(id1, project, time.Now().UTC()))
		_ = store.Save(ctx, domain.NewRunRecord(id2, project, time.Now().UTC()))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		runs, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, runs, id1)
		assert.Contains(t, runs, id2)
	})
}
