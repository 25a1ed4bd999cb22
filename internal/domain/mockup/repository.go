package mockup

import (
	"context"

	"github.com/google/uuid"

	"github.com/podsync/backend/internal/domain/shared"
)

// TaskRepository defines the interface for mockup task persistence
type TaskRepository interface {
	// FindByID finds a task by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Task, error)

	// FindByTaskKey finds a task by its provider-issued key
	FindByTaskKey(ctx context.Context, taskKey string) (*Task, error)

	// FindAll finds all tasks with optional filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Task, error)

	// Save saves a task (insert or update), keyed by the task key so retried
	// submissions upsert rather than duplicate
	Save(ctx context.Context, task *Task) error
}

// ResultRepository defines the interface for mockup result persistence
type ResultRepository interface {
	// FindByTaskKey finds a result by its task key
	FindByTaskKey(ctx context.Context, taskKey string) (*Result, error)

	// Save stores a completed-task result. Results are written once.
	Save(ctx context.Context, result *Result) error
}
