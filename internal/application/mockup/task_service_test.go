package mockup

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/podsync/backend/internal/domain/design"
	"github.com/podsync/backend/internal/domain/integration"
	domainmockup "github.com/podsync/backend/internal/domain/mockup"
	"github.com/podsync/backend/internal/domain/shared"
)

// =============================================================================
// Mock Implementations
// =============================================================================

type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*domainmockup.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domainmockup.Task), args.Error(1)
}

func (m *MockTaskRepository) FindByTaskKey(ctx context.Context, taskKey string) (*domainmockup.Task, error) {
	args := m.Called(ctx, taskKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domainmockup.Task), args.Error(1)
}

func (m *MockTaskRepository) FindAll(ctx context.Context, filter shared.Filter) ([]domainmockup.Task, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domainmockup.Task), args.Error(1)
}

func (m *MockTaskRepository) Save(ctx context.Context, task *domainmockup.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

type MockResultRepository struct {
	mock.Mock
}

func (m *MockResultRepository) FindByTaskKey(ctx context.Context, taskKey string) (*domainmockup.Result, error) {
	args := m.Called(ctx, taskKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domainmockup.Result), args.Error(1)
}

func (m *MockResultRepository) Save(ctx context.Context, result *domainmockup.Result) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

type MockTemplateRepository struct {
	mock.Mock
}

func (m *MockTemplateRepository) FindByID(ctx context.Context, id uuid.UUID) (*design.Template, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*design.Template), args.Error(1)
}

func (m *MockTemplateRepository) FindByExternalID(ctx context.Context, externalTemplateID int64) (*design.Template, error) {
	args := m.Called(ctx, externalTemplateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*design.Template), args.Error(1)
}

func (m *MockTemplateRepository) FindAll(ctx context.Context, filter shared.Filter) ([]design.Template, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]design.Template), args.Error(1)
}

func (m *MockTemplateRepository) FindByOwner(ctx context.Context, ownerUserID uuid.UUID, filter shared.Filter) ([]design.Template, error) {
	args := m.Called(ctx, ownerUserID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]design.Template), args.Error(1)
}

func (m *MockTemplateRepository) Save(ctx context.Context, template *design.Template) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

func (m *MockTemplateRepository) UpdateImageURL(ctx context.Context, id uuid.UUID, imageURL string) error {
	args := m.Called(ctx, id, imageURL)
	return args.Error(0)
}

func (m *MockTemplateRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

type MockPrintProvider struct {
	mock.Mock
}

func (m *MockPrintProvider) GetTemplate(ctx context.Context, templateID int64) (*integration.TemplateData, error) {
	args := m.Called(ctx, templateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.TemplateData), args.Error(1)
}

func (m *MockPrintProvider) GetCatalogVariants(ctx context.Context, variantIDs []int64) (*integration.CatalogResult, error) {
	args := m.Called(ctx, variantIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.CatalogResult), args.Error(1)
}

func (m *MockPrintProvider) CreateMockupTask(ctx context.Context, req *integration.MockupRenderRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockPrintProvider) GetMockupTask(ctx context.Context, taskKey string) (*integration.MockupTaskState, error) {
	args := m.Called(ctx, taskKey)
	if rf, ok := args.Get(0).(func(context.Context, string) *integration.MockupTaskState); ok {
		return rf(ctx, taskKey), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.MockupTaskState), args.Error(1)
}

func (m *MockPrintProvider) CreateSyncedProduct(ctx context.Context, req *integration.SyncedProductRequest) (int64, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(int64), args.Error(1)
}

// =============================================================================
// Helpers
// =============================================================================

type serviceFixture struct {
	taskRepo     *MockTaskRepository
	resultRepo   *MockResultRepository
	templateRepo *MockTemplateRepository
	provider     *MockPrintProvider
	service      *TaskService
	delays       *[]time.Duration
}

func newFixture(maxAttempts int) *serviceFixture {
	f := &serviceFixture{
		taskRepo:     new(MockTaskRepository),
		resultRepo:   new(MockResultRepository),
		templateRepo: new(MockTemplateRepository),
		provider:     new(MockPrintProvider),
	}
	f.service = NewTaskService(f.taskRepo, f.resultRepo, f.templateRepo, f.provider, PollConfig{
		Interval:    5 * time.Second,
		MaxAttempts: maxAttempts,
	}, nil)
	delays := []time.Duration{}
	f.delays = &delays
	f.service.sleep = func(_ context.Context, d time.Duration) error {
		*f.delays = append(*f.delays, d)
		return nil
	}
	return f
}

func pendingTask(t *testing.T, taskKey string) *domainmockup.Task {
	task, err := domainmockup.NewTask(taskKey, 71, []int64{101, 102})
	require.NoError(t, err)
	require.NoError(t, task.Acknowledge())
	return task
}

// =============================================================================
// CreateTask Tests
// =============================================================================

func TestTaskService_CreateTask(t *testing.T) {
	template, err := design.NewTemplate(7, "Classic Tee", []int64{101, 102, 103})
	require.NoError(t, err)

	providerData := &integration.TemplateData{
		ID:                  7,
		CatalogProductID:    71,
		Title:               "Classic Tee",
		AvailableVariantIDs: []int64{101, 102, 103},
		Placements: []integration.Placement{
			{Placement: "front", ImageURL: "https://cdn.example.com/design.png", Technique: "dtg"},
		},
	}

	t.Run("submits subset of variants", func(t *testing.T) {
		f := newFixture(10)

		f.templateRepo.On("FindByID", mock.Anything, template.ID).Return(template, nil)
		f.provider.On("GetTemplate", mock.Anything, int64(7)).Return(providerData, nil)
		f.provider.On("CreateMockupTask", mock.Anything, mock.MatchedBy(func(req *integration.MockupRenderRequest) bool {
			return req.CatalogProductID == 71 &&
				len(req.VariantIDs) == 2 &&
				len(req.Files) == 1 &&
				req.Files[0].Placement == "front"
		})).Return("gt-123", nil)
		f.taskRepo.On("Save", mock.Anything, mock.MatchedBy(func(task *domainmockup.Task) bool {
			return task.TaskKey == "gt-123" && task.Status == domainmockup.TaskStatusPending
		})).Return(nil)

		resp, err := f.service.CreateTask(context.Background(), CreateTaskRequest{
			TemplateID: template.ID.String(),
			VariantIDs: []int64{101, 102},
		})
		require.NoError(t, err)
		assert.Equal(t, "gt-123", resp.TaskKey)
		assert.Equal(t, domainmockup.TaskStatusPending.String(), resp.Status)

		f.taskRepo.AssertExpectations(t)
		f.provider.AssertExpectations(t)
	})

	t.Run("defaults to all template variants", func(t *testing.T) {
		f := newFixture(10)

		f.templateRepo.On("FindByID", mock.Anything, template.ID).Return(template, nil)
		f.provider.On("GetTemplate", mock.Anything, int64(7)).Return(providerData, nil)
		f.provider.On("CreateMockupTask", mock.Anything, mock.MatchedBy(func(req *integration.MockupRenderRequest) bool {
			return len(req.VariantIDs) == 3
		})).Return("gt-124", nil)
		f.taskRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

		resp, err := f.service.CreateTask(context.Background(), CreateTaskRequest{
			TemplateID: template.ID.String(),
		})
		require.NoError(t, err)
		assert.Equal(t, []int64{101, 102, 103}, resp.VariantIDs)
	})

	t.Run("rejects foreign variant", func(t *testing.T) {
		f := newFixture(10)

		f.templateRepo.On("FindByID", mock.Anything, template.ID).Return(template, nil)

		_, err := f.service.CreateTask(context.Background(), CreateTaskRequest{
			TemplateID: template.ID.String(),
			VariantIDs: []int64{999},
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_INPUT", domainErr.Code)
	})

	t.Run("rejects template without print areas", func(t *testing.T) {
		f := newFixture(10)

		f.templateRepo.On("FindByID", mock.Anything, template.ID).Return(template, nil)
		f.provider.On("GetTemplate", mock.Anything, int64(7)).Return(&integration.TemplateData{
			ID:               7,
			CatalogProductID: 71,
		}, nil)

		_, err := f.service.CreateTask(context.Background(), CreateTaskRequest{
			TemplateID: template.ID.String(),
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})
}

// =============================================================================
// AwaitResult Tests
// =============================================================================

func TestTaskService_AwaitResult(t *testing.T) {
	t.Run("pending polls then completion", func(t *testing.T) {
		f := newFixture(10)
		task := pendingTask(t, "gt-123")

		f.taskRepo.On("FindByTaskKey", mock.Anything, "gt-123").Return(task, nil)

		polls := 0
		f.provider.On("GetMockupTask", mock.Anything, "gt-123").Return(func(context.Context, string) *integration.MockupTaskState {
			polls++
			if polls < 4 {
				return &integration.MockupTaskState{TaskKey: "gt-123", Status: integration.TaskPollPending}
			}
			return &integration.MockupTaskState{
				TaskKey: "gt-123",
				Status:  integration.TaskPollCompleted,
				Mockups: []domainmockup.Mockup{
					{MockupURL: "https://cdn.example.com/m1.png", VariantIDs: []int64{101, 102}},
				},
				Printfiles: []domainmockup.Printfile{
					{URL: "https://cdn.example.com/print.png", VariantIDs: []int64{101, 102}},
				},
			}
		}, nil)
		f.taskRepo.On("Save", mock.Anything, mock.MatchedBy(func(saved *domainmockup.Task) bool {
			return saved.Status == domainmockup.TaskStatusCompleted
		})).Return(nil)
		f.resultRepo.On("Save", mock.Anything, mock.MatchedBy(func(result *domainmockup.Result) bool {
			return result.TaskKey == "gt-123" && len(result.Mockups) == 1
		})).Return(nil)

		resp, err := f.service.AwaitResult(context.Background(), "gt-123")
		require.NoError(t, err)
		require.Len(t, resp.Mockups, 1)
		assert.Equal(t, 4, polls)
		// a delay after each pending observation, none after completion
		assert.Equal(t, []time.Duration{5 * time.Second, 5 * time.Second, 5 * time.Second}, *f.delays)

		f.resultRepo.AssertExpectations(t)
	})

	t.Run("failure is terminal", func(t *testing.T) {
		f := newFixture(10)
		task := pendingTask(t, "gt-123")

		f.taskRepo.On("FindByTaskKey", mock.Anything, "gt-123").Return(task, nil)
		f.provider.On("GetMockupTask", mock.Anything, "gt-123").Return(&integration.MockupTaskState{
			TaskKey: "gt-123",
			Status:  integration.TaskPollFailed,
			Error:   "render crashed",
		}, nil)
		f.taskRepo.On("Save", mock.Anything, mock.MatchedBy(func(saved *domainmockup.Task) bool {
			return saved.Status == domainmockup.TaskStatusFailed && saved.ErrorMessage == "render crashed"
		})).Return(nil)

		_, err := f.service.AwaitResult(context.Background(), "gt-123")
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "TASK_FAILED", domainErr.Code)
		assert.Empty(t, *f.delays)
	})

	t.Run("times out after polling budget", func(t *testing.T) {
		f := newFixture(3)
		task := pendingTask(t, "gt-123")

		f.taskRepo.On("FindByTaskKey", mock.Anything, "gt-123").Return(task, nil)
		f.provider.On("GetMockupTask", mock.Anything, "gt-123").Return(&integration.MockupTaskState{
			TaskKey: "gt-123",
			Status:  integration.TaskPollPending,
		}, nil)
		f.taskRepo.On("Save", mock.Anything, mock.MatchedBy(func(saved *domainmockup.Task) bool {
			return saved.Status == domainmockup.TaskStatusTimeout
		})).Return(nil)

		_, err := f.service.AwaitResult(context.Background(), "gt-123")
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "TIMEOUT", domainErr.Code)
		// no delay after the final poll
		assert.Len(t, *f.delays, 2)
	})

	t.Run("completed task returns stored result", func(t *testing.T) {
		f := newFixture(10)
		task := pendingTask(t, "gt-123")
		require.NoError(t, task.Complete())

		result, err := domainmockup.NewResult("gt-123", []domainmockup.Mockup{
			{MockupURL: "https://cdn.example.com/m1.png", VariantIDs: []int64{101}},
		}, nil)
		require.NoError(t, err)

		f.taskRepo.On("FindByTaskKey", mock.Anything, "gt-123").Return(task, nil)
		f.resultRepo.On("FindByTaskKey", mock.Anything, "gt-123").Return(result, nil)

		resp, err := f.service.AwaitResult(context.Background(), "gt-123")
		require.NoError(t, err)
		require.Len(t, resp.Mockups, 1)
		f.provider.AssertNotCalled(t, "GetMockupTask")
	})

	t.Run("cancellation interrupts the poll delay", func(t *testing.T) {
		f := newFixture(10)
		task := pendingTask(t, "gt-123")

		f.taskRepo.On("FindByTaskKey", mock.Anything, "gt-123").Return(task, nil)
		f.provider.On("GetMockupTask", mock.Anything, "gt-123").Return(&integration.MockupTaskState{
			TaskKey: "gt-123",
			Status:  integration.TaskPollPending,
		}, nil).Once()
		f.service.sleep = func(ctx context.Context, _ time.Duration) error {
			return context.Canceled
		}

		_, err := f.service.AwaitResult(context.Background(), "gt-123")
		require.ErrorIs(t, err, context.Canceled)
		f.provider.AssertExpectations(t)
	})

	t.Run("timed out task cannot be awaited again", func(t *testing.T) {
		f := newFixture(10)
		task := pendingTask(t, "gt-123")
		require.NoError(t, task.Timeout())

		f.taskRepo.On("FindByTaskKey", mock.Anything, "gt-123").Return(task, nil)

		_, err := f.service.AwaitResult(context.Background(), "gt-123")
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})
}
