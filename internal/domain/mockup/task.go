package mockup

import (
	"time"

	"github.com/podsync/backend/internal/domain/shared"
)

// Task references a provider-side mockup rendering task. The provider issues
// the task key on submission; everything after that is observed by polling.
type Task struct {
	shared.BaseEntity
	TaskKey          string     // Provider-issued key, unique
	CatalogProductID int64      // Provider catalog product the render applies to
	VariantIDs       []int64    // Provider variants rendered in the task
	Status           TaskStatus // Last observed status
	ErrorMessage     string     // Provider error when the render failed
	CompletedAt      *time.Time
}

// NewTask creates a task record for a submitted render request
func NewTask(taskKey string, catalogProductID int64, variantIDs []int64) (*Task, error) {
	if taskKey == "" {
		return nil, shared.NewDomainError("INVALID_TASK_KEY", "Task key cannot be empty")
	}
	if catalogProductID <= 0 {
		return nil, shared.NewDomainError("INVALID_PRODUCT_ID", "Catalog product ID must be positive")
	}

	return &Task{
		BaseEntity:       shared.NewBaseEntity(),
		TaskKey:          taskKey,
		CatalogProductID: catalogProductID,
		VariantIDs:       variantIDs,
		Status:           TaskStatusCreated,
	}, nil
}

// Acknowledge marks the task as pending after the provider accepted it
func (t *Task) Acknowledge() error {
	if !t.Status.CanTransitionTo(TaskStatusPending) {
		return shared.NewDomainError("INVALID_STATE",
			"Cannot acknowledge task from status: "+t.Status.String())
	}
	t.Status = TaskStatusPending
	t.UpdatedAt = time.Now()
	return nil
}

// Complete marks the task as completed
func (t *Task) Complete() error {
	if !t.Status.CanTransitionTo(TaskStatusCompleted) {
		return shared.NewDomainError("INVALID_STATE",
			"Cannot complete task from status: "+t.Status.String())
	}
	t.Status = TaskStatusCompleted
	now := time.Now()
	t.CompletedAt = &now
	t.UpdatedAt = now
	return nil
}

// Fail marks the task as failed with the provider-reported error
func (t *Task) Fail(errorMessage string) error {
	if t.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE",
			"Cannot fail a task that is already in terminal status: "+t.Status.String())
	}
	t.Status = TaskStatusFailed
	t.ErrorMessage = errorMessage
	t.UpdatedAt = time.Now()
	return nil
}

// Timeout marks the task as timed out after the polling budget was exhausted.
// A timed-out task is terminal; a fresh task must be created to retry.
func (t *Task) Timeout() error {
	if !t.Status.CanTransitionTo(TaskStatusTimeout) {
		return shared.NewDomainError("INVALID_STATE",
			"Cannot time out task from status: "+t.Status.String())
	}
	t.Status = TaskStatusTimeout
	t.UpdatedAt = time.Now()
	return nil
}

// IsPending returns true if the task is still being rendered
func (t *Task) IsPending() bool {
	return t.Status == TaskStatusPending
}

// IsCompleted returns true if the task completed successfully
func (t *Task) IsCompleted() bool {
	return t.Status == TaskStatusCompleted
}

// IsTerminal returns true if the task is in a terminal state
func (t *Task) IsTerminal() bool {
	return t.Status.IsTerminal()
}
