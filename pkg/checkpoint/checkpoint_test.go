package checkpoint

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckpointManager(t *testing.T) {
	// Create temporary directory for tests
	tmpDir, err := os.MkdirTemp("", "trovato-checkpoint-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	ctx := context.Background()

	t.Run("Create manager with custom directory", func(t *testing.T) {
		manager, err := NewCheckpointManager(tmpDir)
		require.NoError(t, err)
		assert.Equal(t, tmpDir, manager.GetCheckpointDir())
	})

	t.Run("Create manager with default directory", func(t *testing.T) {
		manager, err := NewCheckpointManager("")
		require.NoError(t, err)
		expectedDir := filepath.Join(os.TempDir(), "trovato-checkpoints")
		assert.Equal(t, expectedDir, manager.GetCheckpointDir())
	})

	t.Run("Save and load checkpoint", func(t *testing.T) {
		manager, err := NewCheckpointManager(tmpDir)
		require.NoError(t, err)

		checkpoint := &JobCheckpoint{
			JobID:     "job-123",
			Status:    StatusRunning,
			CreatedAt: time.Now(),
			Cursor:    "pkg-00420",
			Processed: 420,
			Total:     9000,
			PageSize:  100,
			Model:     "text-embedding-3-small",
		}

		// Save checkpoint
		err = manager.Save(ctx, checkpoint)
		require.NoError(t, err)

		// Load checkpoint
		loaded, err := manager.Load(ctx, "job-123")
		require.NoError(t, err)
		require.NotNil(t, loaded)

		assert.Equal(t, checkpoint.JobID, loaded.JobID)
		assert.Equal(t, checkpoint.Status, loaded.Status)
		assert.Equal(t, checkpoint.Cursor, loaded.Cursor)
		assert.Equal(t, checkpoint.Processed, loaded.Processed)
		assert.Equal(t, checkpoint.Total, loaded.Total)
		assert.Equal(t, checkpoint.Model, loaded.Model)
	})

	t.Run("Load non-existent checkpoint", func(t *testing.T) {
		manager, err := NewCheckpointManager(tmpDir)
		require.NoError(t, err)

		loaded, err := manager.Load(ctx, "non-existent")
		require.NoError(t, err)
		assert.Nil(t, loaded)
	})

	t.Run("Delete checkpoint", func(t *testing.T) {
		manager, err := NewCheckpointManager(tmpDir)
		require.NoError(t, err)

		checkpoint := NewJobCheckpoint("job-delete", "", 100, 10)

		// Save and verify exists
		err = manager.Save(ctx, checkpoint)
		require.NoError(t, err)

		exists, err := manager.Exists(ctx, "job-delete")
		require.NoError(t, err)
		assert.True(t, exists)

		// Delete and verify doesn't exist
		err = manager.Delete(ctx, "job-delete")
		require.NoError(t, err)

		exists, err = manager.Exists(ctx, "job-delete")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Save progress", func(t *testing.T) {
		manager, err := NewCheckpointManager(tmpDir)
		require.NoError(t, err)

		checkpoint := NewJobCheckpoint("job-progress", "", 500, 100)
		err = manager.Save(ctx, checkpoint)
		require.NoError(t, err)

		err = manager.SaveProgress(ctx, checkpoint, "pkg-00100", 100)
		require.NoError(t, err)

		loaded, err := manager.Load(ctx, "job-progress")
		require.NoError(t, err)
		assert.Equal(t, "pkg-00100", loaded.Cursor)
		assert.Equal(t, int64(100), loaded.Processed)
		assert.Equal(t, StatusRunning, loaded.Status)
	})

	t.Run("Mark completed", func(t *testing.T) {
		manager, err := NewCheckpointManager(tmpDir)
		require.NoError(t, err)

		checkpoint := NewJobCheckpoint("job-done", "", 500, 100)
		err = manager.MarkCompleted(ctx, checkpoint)
		require.NoError(t, err)

		loaded, err := manager.Load(ctx, "job-done")
		require.NoError(t, err)
		assert.Equal(t, StatusCompleted, loaded.Status)
	})

	t.Run("Record error", func(t *testing.T) {
		manager, err := NewCheckpointManager(tmpDir)
		require.NoError(t, err)

		checkpoint := NewJobCheckpoint("job-error", "", 500, 100)
		err = manager.Save(ctx, checkpoint)
		require.NoError(t, err)

		// Record error
		testErr := assert.AnError
		err = manager.RecordError(ctx, "job-error", testErr, "stack trace here")
		require.NoError(t, err)

		// Verify error recorded
		loaded, err := manager.Load(ctx, "job-error")
		require.NoError(t, err)
		assert.Equal(t, 1, loaded.AttemptCount)
		assert.Contains(t, loaded.LastError, "assert.AnError")
		assert.Equal(t, "stack trace here", loaded.LastErrorStack)
		assert.Equal(t, StatusFailed, loaded.Status)
	})

	t.Run("LoadOrCreate", func(t *testing.T) {
		manager, err := NewCheckpointManager(tmpDir)
		require.NoError(t, err)

		created, existed, err := manager.LoadOrCreate(ctx, "job-resume", "text-embedding-3-small", 1000, 100)
		require.NoError(t, err)
		assert.False(t, existed)
		require.NotNil(t, created)

		err = manager.SaveProgress(ctx, created, "pkg-00300", 300)
		require.NoError(t, err)

		resumed, existed, err := manager.LoadOrCreate(ctx, "job-resume", "text-embedding-3-small", 1000, 100)
		require.NoError(t, err)
		assert.True(t, existed)
		assert.Equal(t, "pkg-00300", resumed.Cursor)
		assert.Equal(t, int64(300), resumed.Processed)
	})

	t.Run("LoadOrCreate refuses a model mismatch", func(t *testing.T) {
		manager, err := NewCheckpointManager(tmpDir)
		require.NoError(t, err)

		_, _, err = manager.LoadOrCreate(ctx, "job-model", "text-embedding-3-small", 1000, 100)
		require.NoError(t, err)

		_, existed, err := manager.LoadOrCreate(ctx, "job-model", "text-embedding-3-large", 1000, 100)
		require.Error(t, err)
		assert.True(t, existed)
		assert.Contains(t, err.Error(), "refusing to resume")
	})

	t.Run("List checkpoints", func(t *testing.T) {
		manager, err := NewCheckpointManager(tmpDir)
		require.NoError(t, err)

		// Create multiple checkpoints
		for i := 0; i < 3; i++ {
			checkpoint := NewJobCheckpoint(fmt.Sprintf("job-list-%d", i), "", 100, 10)
			err = manager.Save(ctx, checkpoint)
			require.NoError(t, err)
		}

		// List all
		checkpoints, err := manager.List(ctx)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(checkpoints), 3)
	})

	t.Run("Clean old checkpoints", func(t *testing.T) {
		manager, err := NewCheckpointManager(tmpDir)
		require.NoError(t, err)

		// Create old checkpoint - manually write with old timestamp
		oldTime := time.Now().Add(-48 * time.Hour)
		oldCheckpoint := &JobCheckpoint{
			JobID:         "job-old",
			Status:        StatusRunning,
			CreatedAt:     oldTime,
			LastUpdatedAt: oldTime,
		}
		// Manually write to preserve old timestamp
		data, err := json.MarshalIndent(oldCheckpoint, "", "  ")
		require.NoError(t, err)
		oldPath, err := manager.GetCheckpointPath("job-old")
		require.NoError(t, err)
		err = os.WriteFile(oldPath, data, 0644)
		require.NoError(t, err)

		// Create recent checkpoint
		recentCheckpoint := NewJobCheckpoint("job-recent", "", 100, 10)
		err = manager.Save(ctx, recentCheckpoint)
		require.NoError(t, err)

		// Clean old (older than 24 hours)
		removed, err := manager.CleanOld(ctx, 24*time.Hour)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, removed, 1)

		// Verify old checkpoint is gone but recent remains
		exists, err := manager.Exists(ctx, "job-old")
		require.NoError(t, err)
		assert.False(t, exists)

		exists, err = manager.Exists(ctx, "job-recent")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("Find stalled jobs", func(t *testing.T) {
		stalledDir := filepath.Join(tmpDir, "stalled")
		manager, err := NewCheckpointManager(stalledDir)
		require.NoError(t, err)

		oldTime := time.Now().Add(-2 * time.Hour)
		stalledJob := &JobCheckpoint{
			JobID:         "job-stalled",
			Status:        StatusRunning,
			CreatedAt:     oldTime,
			LastUpdatedAt: oldTime,
		}
		data, err := json.MarshalIndent(stalledJob, "", "  ")
		require.NoError(t, err)
		stalledPath, err := manager.GetCheckpointPath("job-stalled")
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(stalledPath, data, 0644))

		doneJob := &JobCheckpoint{
			JobID:         "job-finished",
			Status:        StatusCompleted,
			CreatedAt:     oldTime,
			LastUpdatedAt: oldTime,
		}
		data, err = json.MarshalIndent(doneJob, "", "  ")
		require.NoError(t, err)
		donePath, err := manager.GetCheckpointPath("job-finished")
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(donePath, data, 0644))

		stalled, err := manager.FindStalled(ctx, time.Hour)
		require.NoError(t, err)
		require.Len(t, stalled, 1)
		assert.Equal(t, "job-stalled", stalled[0].JobID)
	})
}

func TestPathTraversalPrevention(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "trovato-checkpoint-security-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	ctx := context.Background()
	manager, err := NewCheckpointManager(tmpDir)
	require.NoError(t, err)

	pathTraversalAttempts := []struct {
		name  string
		jobID string
	}{
		{"simple path traversal", "../../../etc/passwd"},
		{"path traversal with dots", ".."},
		{"double traversal", "foo/../.."},
		{"forward slash", "foo/bar"},
		{"backslash", `foo\bar`},
		{"null byte", "job\x00.json"},
		{"hidden file traversal", "../.hidden"},
		{"absolute path attempt", "/etc/passwd"},
		{"windows path", `C:\Windows\System32`},
		{"empty ID", ""},
	}

	for _, tc := range pathTraversalAttempts {
		t.Run("GetCheckpointPath_"+tc.name, func(t *testing.T) {
			_, err := manager.GetCheckpointPath(tc.jobID)
			assert.ErrorIs(t, err, ErrInvalidJobID, "Job ID %q should be rejected", tc.jobID)
		})

		t.Run("Load_"+tc.name, func(t *testing.T) {
			_, err := manager.Load(ctx, tc.jobID)
			assert.Error(t, err, "Load should reject job ID %q", tc.jobID)
		})

		t.Run("Delete_"+tc.name, func(t *testing.T) {
			err := manager.Delete(ctx, tc.jobID)
			assert.Error(t, err, "Delete should reject job ID %q", tc.jobID)
		})

		t.Run("Exists_"+tc.name, func(t *testing.T) {
			_, err := manager.Exists(ctx, tc.jobID)
			assert.Error(t, err, "Exists should reject job ID %q", tc.jobID)
		})

		t.Run("Save_"+tc.name, func(t *testing.T) {
			checkpoint := &JobCheckpoint{
				JobID:  tc.jobID,
				Status: StatusRunning,
			}
			err := manager.Save(ctx, checkpoint)
			assert.Error(t, err, "Save should reject job ID %q", tc.jobID)
		})
	}

	// Test that valid job IDs still work
	validIDs := []string{
		"job-123",
		"my_job",
		"Job.With.Dots",
		"precompute-2026-01-15T10:30:00Z",
		"abc123def456",
		"a",
	}

	for _, id := range validIDs {
		t.Run("valid_ID_"+id, func(t *testing.T) {
			path, err := manager.GetCheckpointPath(id)
			require.NoError(t, err, "Valid job ID %q should be accepted", id)
			assert.Contains(t, path, id, "Path should contain the job ID")
		})
	}
}

func TestJobProgress(t *testing.T) {
	c := &JobCheckpoint{Processed: 420, Total: 1000}
	assert.Equal(t, "42% (420/1000)", c.Progress())

	c = &JobCheckpoint{Processed: 17}
	assert.Equal(t, "17 processed", c.Progress())
}

func TestCanRetry(t *testing.T) {
	fresh := NewJobCheckpoint("job-retry", "", 100, 10)
	assert.True(t, fresh.CanRetry(3, time.Hour))

	fresh.AttemptCount = 3
	assert.False(t, fresh.CanRetry(3, time.Hour))

	old := NewJobCheckpoint("job-ancient", "", 100, 10)
	old.CreatedAt = time.Now().Add(-2 * time.Hour)
	assert.False(t, old.CanRetry(3, time.Hour))
}
