package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/podsync/backend/internal/domain/mockup"
	"github.com/podsync/backend/internal/domain/shared"
	"github.com/podsync/backend/internal/infrastructure/persistence/models"
)

// GormMockupTaskRepository implements mockup.TaskRepository using GORM
type GormMockupTaskRepository struct {
	db *gorm.DB
}

// NewGormMockupTaskRepository creates a new GormMockupTaskRepository
func NewGormMockupTaskRepository(db *gorm.DB) *GormMockupTaskRepository {
	return &GormMockupTaskRepository{db: db}
}

// FindByID finds a task by ID
func (r *GormMockupTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*mockup.Task, error) {
	var model models.MockupTaskModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindByTaskKey finds a task by its provider-issued key
func (r *GormMockupTaskRepository) FindByTaskKey(ctx context.Context, taskKey string) (*mockup.Task, error) {
	var model models.MockupTaskModel
	if err := r.db.WithContext(ctx).First(&model, "task_key = ?", taskKey).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindAll finds all tasks with optional filtering
func (r *GormMockupTaskRepository) FindAll(ctx context.Context, filter shared.Filter) ([]mockup.Task, error) {
	filter.Normalize()

	var taskModels []models.MockupTaskModel
	if err := r.db.WithContext(ctx).
		Order(filter.OrderBy).
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&taskModels).Error; err != nil {
		return nil, err
	}

	tasks := make([]mockup.Task, 0, len(taskModels))
	for i := range taskModels {
		t, err := taskModels[i].ToDomain()
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, nil
}

// Save saves a task, upserting on the task key so retried submissions of the
// same provider task converge on one row
func (r *GormMockupTaskRepository) Save(ctx context.Context, task *mockup.Task) error {
	var model models.MockupTaskModel
	if err := model.FromDomain(task); err != nil {
		return err
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "task_key"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"status", "error_message", "completed_at", "updated_at",
			}),
		}).
		Create(&model).Error
}

// GormMockupResultRepository implements mockup.ResultRepository using GORM
type GormMockupResultRepository struct {
	db *gorm.DB
}

// NewGormMockupResultRepository creates a new GormMockupResultRepository
func NewGormMockupResultRepository(db *gorm.DB) *GormMockupResultRepository {
	return &GormMockupResultRepository{db: db}
}

// FindByTaskKey finds a result by its task key
func (r *GormMockupResultRepository) FindByTaskKey(ctx context.Context, taskKey string) (*mockup.Result, error) {
	var model models.MockupResultModel
	if err := r.db.WithContext(ctx).First(&model, "task_key = ?", taskKey).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// Save stores a completed-task result. A result for an existing task key is
// left untouched; results are written exactly once.
func (r *GormMockupResultRepository) Save(ctx context.Context, result *mockup.Result) error {
	var model models.MockupResultModel
	if err := model.FromDomain(result); err != nil {
		return err
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "task_key"}},
			DoNothing: true,
		}).
		Create(&model).Error
}
