package checkpoint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrInvalidJobID is returned when a job ID contains invalid characters
var ErrInvalidJobID = errors.New("invalid job ID: contains path traversal or invalid characters")

// JobStatus represents the lifecycle state of a precompute job
type JobStatus string

const (
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// JobCheckpoint represents the state of a partially completed embedding
// precompute run. Cursor is the last package ID the job finished, so a
// restarted run can resume the keyset walk from where it stopped.
type JobCheckpoint struct {
	// Job identification
	JobID  string    `json:"job_id"`
	Status JobStatus `json:"status"`

	// Timestamp tracking
	CreatedAt      time.Time `json:"created_at"`
	LastUpdatedAt  time.Time `json:"last_updated_at"`
	AttemptCount   int       `json:"attempt_count"`
	LastError      string    `json:"last_error,omitempty"`
	LastErrorStack string    `json:"last_error_stack,omitempty"`

	// Walk state
	Cursor    string `json:"cursor,omitempty"`
	Processed int64  `json:"processed"`
	Total     int64  `json:"total"`
	PageSize  int    `json:"page_size"`

	// Model records which embedding model produced the vectors, so a resumed
	// run can refuse to mix models within one job.
	Model string `json:"model,omitempty"`
}

// CheckpointManager manages precompute job checkpoints
type CheckpointManager struct {
	checkpointDir string
}

// NewCheckpointManager creates a new checkpoint manager
// If checkpointDir is empty, uses os.TempDir()/trovato-checkpoints
func NewCheckpointManager(checkpointDir string) (*CheckpointManager, error) {
	if checkpointDir == "" {
		checkpointDir = filepath.Join(os.TempDir(), "trovato-checkpoints")
	}

	// Create checkpoint directory if it doesn't exist
	if err := os.MkdirAll(checkpointDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create checkpoint directory: %w", err)
	}

	return &CheckpointManager{
		checkpointDir: checkpointDir,
	}, nil
}

// validateJobID checks that the job ID is safe for use in file paths.
// It rejects IDs containing path separators, path traversal sequences, or null bytes.
func validateJobID(jobID string) error {
	if jobID == "" {
		return ErrInvalidJobID
	}

	// Check for path traversal sequences
	if strings.Contains(jobID, "..") {
		return ErrInvalidJobID
	}

	// Check for path separators
	if strings.ContainsAny(jobID, `/\`) {
		return ErrInvalidJobID
	}

	// Check for null bytes (can truncate paths in some systems)
	if strings.ContainsRune(jobID, '\x00') {
		return ErrInvalidJobID
	}

	return nil
}

// isPathWithinDirectory checks that the resolved path is within the expected directory.
func isPathWithinDirectory(path, directory string) bool {
	// Clean both paths to resolve any . or .. components
	cleanPath := filepath.Clean(path)
	cleanDir := filepath.Clean(directory)

	// Ensure the directory path ends with separator for proper prefix matching
	if !strings.HasSuffix(cleanDir, string(filepath.Separator)) {
		cleanDir += string(filepath.Separator)
	}

	// Check if the path starts with the directory
	return strings.HasPrefix(cleanPath, cleanDir) || cleanPath == filepath.Clean(directory)
}

// GetCheckpointPath returns the file path for a job's checkpoint.
// Returns an error if the job ID contains invalid characters or path traversal sequences.
func (m *CheckpointManager) GetCheckpointPath(jobID string) (string, error) {
	if err := validateJobID(jobID); err != nil {
		return "", err
	}

	filename := fmt.Sprintf("checkpoint_%s.json", jobID)
	fullPath := filepath.Join(m.checkpointDir, filename)

	if !isPathWithinDirectory(fullPath, m.checkpointDir) {
		return "", ErrInvalidJobID
	}

	return fullPath, nil
}

// Save persists the checkpoint to disk
func (m *CheckpointManager) Save(ctx context.Context, checkpoint *JobCheckpoint) error {
	checkpoint.LastUpdatedAt = time.Now()

	data, err := json.MarshalIndent(checkpoint, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal checkpoint: %w", err)
	}

	checkpointPath, err := m.GetCheckpointPath(checkpoint.JobID)
	if err != nil {
		return fmt.Errorf("invalid job ID: %w", err)
	}

	// Write to a temporary file first, then rename for atomic write
	tmpPath := checkpointPath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write checkpoint file: %w", err)
	}

	if err := os.Rename(tmpPath, checkpointPath); err != nil {
		return fmt.Errorf("failed to rename checkpoint file: %w", err)
	}

	return nil
}

// Load retrieves a checkpoint from disk
func (m *CheckpointManager) Load(ctx context.Context, jobID string) (*JobCheckpoint, error) {
	checkpointPath, err := m.GetCheckpointPath(jobID)
	if err != nil {
		return nil, fmt.Errorf("invalid job ID: %w", err)
	}

	data, err := os.ReadFile(checkpointPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // No checkpoint exists
		}
		return nil, fmt.Errorf("failed to read checkpoint file: %w", err)
	}

	var checkpoint JobCheckpoint
	if err := json.Unmarshal(data, &checkpoint); err != nil {
		return nil, fmt.Errorf("failed to unmarshal checkpoint: %w", err)
	}

	return &checkpoint, nil
}

// Delete removes a checkpoint from disk
func (m *CheckpointManager) Delete(ctx context.Context, jobID string) error {
	checkpointPath, err := m.GetCheckpointPath(jobID)
	if err != nil {
		return fmt.Errorf("invalid job ID: %w", err)
	}

	if err := os.Remove(checkpointPath); err != nil {
		if os.IsNotExist(err) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete checkpoint file: %w", err)
	}

	return nil
}

// Exists checks if a checkpoint exists for a job
func (m *CheckpointManager) Exists(ctx context.Context, jobID string) (bool, error) {
	checkpointPath, err := m.GetCheckpointPath(jobID)
	if err != nil {
		return false, fmt.Errorf("invalid job ID: %w", err)
	}

	_, err = os.Stat(checkpointPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check checkpoint existence: %w", err)
	}

	return true, nil
}

// List returns all checkpoint files in the checkpoint directory
func (m *CheckpointManager) List(ctx context.Context) ([]*JobCheckpoint, error) {
	entries, err := os.ReadDir(m.checkpointDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read checkpoint directory: %w", err)
	}

	var checkpoints []*JobCheckpoint
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		// Only process .json files, skip .tmp files
		if filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		data, err := os.ReadFile(filepath.Join(m.checkpointDir, entry.Name()))
		if err != nil {
			continue // Skip files we can't read
		}

		var checkpoint JobCheckpoint
		if err := json.Unmarshal(data, &checkpoint); err != nil {
			continue // Skip files we can't unmarshal
		}

		checkpoints = append(checkpoints, &checkpoint)
	}

	return checkpoints, nil
}

// RecordError records an error in the checkpoint
func (m *CheckpointManager) RecordError(ctx context.Context, jobID string, err error, stackTrace string) error {
	checkpoint, loadErr := m.Load(ctx, jobID)
	if loadErr != nil {
		return loadErr
	}
	if checkpoint == nil {
		return fmt.Errorf("checkpoint not found for job %s", jobID)
	}

	checkpoint.AttemptCount++
	checkpoint.LastError = err.Error()
	checkpoint.LastErrorStack = stackTrace
	checkpoint.Status = StatusFailed

	return m.Save(ctx, checkpoint)
}

// GetCheckpointDir returns the checkpoint directory path
func (m *CheckpointManager) GetCheckpointDir() string {
	return m.checkpointDir
}

// CleanOld removes checkpoints older than the specified duration
func (m *CheckpointManager) CleanOld(ctx context.Context, maxAge time.Duration) (int, error) {
	checkpoints, err := m.List(ctx)
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0

	for _, checkpoint := range checkpoints {
		if checkpoint.LastUpdatedAt.Before(cutoff) {
			if err := m.Delete(ctx, checkpoint.JobID); err != nil {
				// Log but don't fail the entire cleanup
				continue
			}
			removed++
		}
	}

	return removed, nil
}
