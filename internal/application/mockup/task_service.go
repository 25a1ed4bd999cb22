package mockup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/podsync/backend/internal/domain/design"
	"github.com/podsync/backend/internal/domain/integration"
	"github.com/podsync/backend/internal/domain/mockup"
	"github.com/podsync/backend/internal/domain/shared"
)

// PollConfig tunes the interactive polling loop
type PollConfig struct {
	// Interval is the fixed delay between polls
	Interval time.Duration
	// MaxAttempts bounds the polls before the task is timed out locally
	MaxAttempts int
}

// TaskService submits provider render tasks and polls them to completion.
// The provider owns the task state; the local record is a reference keyed by
// the provider task key.
type TaskService struct {
	taskRepo     mockup.TaskRepository
	resultRepo   mockup.ResultRepository
	templateRepo design.TemplateRepository
	provider     integration.PrintProvider
	poll         PollConfig
	logger       *zap.Logger
	sleep        func(context.Context, time.Duration) error
}

// NewTaskService creates a new TaskService
func NewTaskService(
	taskRepo mockup.TaskRepository,
	resultRepo mockup.ResultRepository,
	templateRepo design.TemplateRepository,
	provider integration.PrintProvider,
	poll PollConfig,
	logger *zap.Logger,
) *TaskService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TaskService{
		taskRepo:     taskRepo,
		resultRepo:   resultRepo,
		templateRepo: templateRepo,
		provider:     provider,
		poll:         poll,
		logger:       logger,
		sleep:        sleepContext,
	}
}

// sleepContext waits for the delay or the context, whichever ends first
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// CreateTask submits a render task for a design template. When no variant
// subset is given, all template variants are rendered. The design files come
// from the provider template's configured placements.
func (s *TaskService) CreateTask(ctx context.Context, req CreateTaskRequest) (*TaskResponse, error) {
	templateID, err := uuid.Parse(req.TemplateID)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid template ID")
	}

	template, err := s.templateRepo.FindByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Template not found")
		}
		return nil, fmt.Errorf("failed to load template: %w", err)
	}

	variantIDs := req.VariantIDs
	if len(variantIDs) == 0 {
		variantIDs = template.VariantIDs
	} else {
		for _, id := range variantIDs {
			if !template.HasVariant(id) {
				return nil, shared.NewDomainError("INVALID_INPUT",
					fmt.Sprintf("Variant %d does not belong to this template", id))
			}
		}
	}

	data, err := s.provider.GetTemplate(ctx, template.ExternalTemplateID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch provider template: %w", err)
	}
	if len(data.Placements) == 0 {
		return nil, shared.NewDomainError("INVALID_STATE", "Template has no configured print areas")
	}

	renderReq := &integration.MockupRenderRequest{
		CatalogProductID: data.CatalogProductID,
		VariantIDs:       variantIDs,
		Format:           req.Format,
		Width:            req.Width,
	}
	for _, p := range data.Placements {
		renderReq.Files = append(renderReq.Files, integration.MockupFile{
			Placement: p.Placement,
			ImageURL:  p.ImageURL,
		})
	}

	taskKey, err := s.provider.CreateMockupTask(ctx, renderReq)
	if err != nil {
		return nil, fmt.Errorf("failed to submit render task: %w", err)
	}

	task, err := mockup.NewTask(taskKey, data.CatalogProductID, variantIDs)
	if err != nil {
		return nil, err
	}
	if err := task.Acknowledge(); err != nil {
		return nil, err
	}
	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to save task: %w", err)
	}

	s.logger.Info("mockup task submitted",
		zap.String("task_key", taskKey),
		zap.Int64("catalog_product_id", data.CatalogProductID),
		zap.Int("variants", len(variantIDs)))

	return toTaskResponse(task), nil
}

// GetTask retrieves a task by its provider key
func (s *TaskService) GetTask(ctx context.Context, taskKey string) (*TaskResponse, error) {
	task, err := s.taskRepo.FindByTaskKey(ctx, taskKey)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Task not found")
		}
		return nil, fmt.Errorf("failed to load task: %w", err)
	}
	return toTaskResponse(task), nil
}

// GetResult retrieves the stored result of a completed task
func (s *TaskService) GetResult(ctx context.Context, taskKey string) (*ResultResponse, error) {
	result, err := s.resultRepo.FindByTaskKey(ctx, taskKey)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Result not available")
		}
		return nil, fmt.Errorf("failed to load result: %w", err)
	}
	return toResultResponse(result), nil
}

// AwaitResult polls the provider at a fixed interval until the task reaches
// a terminal state or the polling budget runs out. A task still pending
// after the last poll is marked timed out locally; retrying means creating
// a fresh task.
func (s *TaskService) AwaitResult(ctx context.Context, taskKey string) (*ResultResponse, error) {
	task, err := s.taskRepo.FindByTaskKey(ctx, taskKey)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Task not found")
		}
		return nil, fmt.Errorf("failed to load task: %w", err)
	}

	if task.IsCompleted() {
		return s.GetResult(ctx, taskKey)
	}
	if task.IsTerminal() {
		return nil, shared.NewDomainError("INVALID_STATE",
			"Task already ended with status: "+task.Status.String())
	}

	for attempt := 1; attempt <= s.poll.MaxAttempts; attempt++ {
		state, err := s.provider.GetMockupTask(ctx, taskKey)
		if err != nil {
			return nil, fmt.Errorf("failed to poll task: %w", err)
		}

		switch state.Status {
		case integration.TaskPollCompleted:
			return s.completeTask(ctx, task, state)

		case integration.TaskPollFailed:
			if err := task.Fail(state.Error); err != nil {
				return nil, err
			}
			if err := s.taskRepo.Save(ctx, task); err != nil {
				return nil, fmt.Errorf("failed to save task: %w", err)
			}
			s.logger.Warn("mockup task failed",
				zap.String("task_key", taskKey),
				zap.String("error", state.Error))
			return nil, shared.NewDomainError("TASK_FAILED", "Render task failed: "+state.Error)

		case integration.TaskPollPending:
			if attempt == s.poll.MaxAttempts {
				break
			}
			if err := s.sleep(ctx, s.poll.Interval); err != nil {
				return nil, err
			}
		}
	}

	if err := task.Timeout(); err != nil {
		return nil, err
	}
	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to save task: %w", err)
	}

	s.logger.Warn("mockup task timed out",
		zap.String("task_key", taskKey),
		zap.Int("attempts", s.poll.MaxAttempts))

	return nil, shared.NewDomainError("TIMEOUT", "Render task did not finish within the polling budget")
}

func (s *TaskService) completeTask(ctx context.Context, task *mockup.Task, state *integration.MockupTaskState) (*ResultResponse, error) {
	if err := task.Complete(); err != nil {
		return nil, err
	}
	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to save task: %w", err)
	}

	result, err := mockup.NewResult(task.TaskKey, state.Mockups, state.Printfiles)
	if err != nil {
		return nil, err
	}
	if err := s.resultRepo.Save(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to save result: %w", err)
	}

	s.logger.Info("mockup task completed",
		zap.String("task_key", task.TaskKey),
		zap.Int("mockups", len(result.Mockups)),
		zap.Int("printfiles", len(result.Printfiles)))

	return toResultResponse(result), nil
}
