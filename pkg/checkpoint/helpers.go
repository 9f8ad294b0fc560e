package checkpoint

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"
)

// NewJobCheckpoint creates a new checkpoint for a precompute job that has not
// processed any pages yet
func NewJobCheckpoint(jobID, model string, total int64, pageSize int) *JobCheckpoint {
	now := time.Now()
	return &JobCheckpoint{
		JobID:         jobID,
		Status:        StatusRunning,
		CreatedAt:     now,
		LastUpdatedAt: now,
		AttemptCount:  0,
		Total:         total,
		PageSize:      pageSize,
		Model:         model,
	}
}

// CanRetry determines if a job should be retried based on attempt count and age
func (c *JobCheckpoint) CanRetry(maxAttempts int, maxAge time.Duration) bool {
	if c.AttemptCount >= maxAttempts {
		return false
	}

	age := time.Since(c.CreatedAt)
	if age > maxAge {
		return false
	}

	return true
}

// Progress returns a human-readable progress description
func (c *JobCheckpoint) Progress() string {
	if c.Total <= 0 {
		return fmt.Sprintf("%d processed", c.Processed)
	}
	percentage := (float64(c.Processed) / float64(c.Total)) * 100
	return fmt.Sprintf("%.0f%% (%d/%d)", percentage, c.Processed, c.Total)
}

// Summary provides a human-readable summary of the checkpoint
func (c *JobCheckpoint) Summary() string {
	summary := fmt.Sprintf("Job: %s\n", c.JobID)
	summary += fmt.Sprintf("Status: %s\n", c.Status)
	summary += fmt.Sprintf("Progress: %s\n", c.Progress())
	summary += fmt.Sprintf("Created: %s\n", c.CreatedAt.Format(time.RFC3339))
	summary += fmt.Sprintf("Last Updated: %s\n", c.LastUpdatedAt.Format(time.RFC3339))
	summary += fmt.Sprintf("Attempts: %d\n", c.AttemptCount)

	if c.Model != "" {
		summary += fmt.Sprintf("Model: %s\n", c.Model)
	}

	if c.Cursor != "" {
		summary += fmt.Sprintf("Cursor: %s\n", c.Cursor)
	}

	if c.LastError != "" {
		summary += fmt.Sprintf("Last Error: %s\n", c.LastError)
	}

	return summary
}

// SaveProgress is a helper that advances the walk state and saves in one
// operation
func (m *CheckpointManager) SaveProgress(ctx context.Context, checkpoint *JobCheckpoint, cursor string, processed int64) error {
	checkpoint.Cursor = cursor
	checkpoint.Processed = processed
	return m.Save(ctx, checkpoint)
}

// MarkCompleted is a helper that finalizes the job and saves in one operation
func (m *CheckpointManager) MarkCompleted(ctx context.Context, checkpoint *JobCheckpoint) error {
	checkpoint.Status = StatusCompleted
	return m.Save(ctx, checkpoint)
}

// SaveWithError is a helper that records an error and saves in one operation
func (m *CheckpointManager) SaveWithError(ctx context.Context, checkpoint *JobCheckpoint, err error) error {
	checkpoint.AttemptCount++
	checkpoint.LastError = err.Error()
	checkpoint.LastErrorStack = string(debug.Stack())
	checkpoint.Status = StatusFailed
	return m.Save(ctx, checkpoint)
}

// LoadOrCreate loads an existing checkpoint or creates a new one. The second
// return value reports whether an existing checkpoint was found.
func (m *CheckpointManager) LoadOrCreate(ctx context.Context, jobID, model string, total int64, pageSize int) (*JobCheckpoint, bool, error) {
	existing, err := m.Load(ctx, jobID)
	if err != nil {
		return nil, false, err
	}

	if existing != nil {
		if model != "" && existing.Model != "" && existing.Model != model {
			return nil, true, fmt.Errorf("job %s was started with model %q, refusing to resume with %q", jobID, existing.Model, model)
		}
		return existing, true, nil
	}

	// Create new checkpoint
	checkpoint := NewJobCheckpoint(jobID, model, total, pageSize)
	if err := m.Save(ctx, checkpoint); err != nil {
		return nil, false, err
	}

	return checkpoint, false, nil
}

// FindStalled returns running jobs that haven't been updated recently
func (m *CheckpointManager) FindStalled(ctx context.Context, stalledDuration time.Duration) ([]*JobCheckpoint, error) {
	checkpoints, err := m.List(ctx)
	if err != nil {
		return nil, err
	}

	cutoff := time.Now().Add(-stalledDuration)
	var stalled []*JobCheckpoint

	for _, checkpoint := range checkpoints {
		if checkpoint.Status != StatusCompleted && checkpoint.LastUpdatedAt.Before(cutoff) {
			stalled = append(stalled, checkpoint)
		}
	}

	return stalled, nil
}
