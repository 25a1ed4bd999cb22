package mockup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	tests := []struct {
		name             string
		taskKey          string
		catalogProductID int64
		expectError      bool
		errorMsg         string
	}{
		{
			name:             "valid task",
			taskKey:          "task-abc123",
			catalogProductID: 71,
		},
		{
			name:             "empty task key",
			taskKey:          "",
			catalogProductID: 71,
			expectError:      true,
			errorMsg:         "Task key cannot be empty",
		},
		{
			name:             "invalid product id",
			taskKey:          "task-abc123",
			catalogProductID: 0,
			expectError:      true,
			errorMsg:         "Catalog product ID must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task, err := NewTask(tt.taskKey, tt.catalogProductID, []int64{101, 102})

			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				require.NoError(t, err)
				require.NotNil(t, task)
				assert.Equal(t, tt.taskKey, task.TaskKey)
				assert.Equal(t, TaskStatusCreated, task.Status)
				assert.NotEmpty(t, task.ID)
				assert.Nil(t, task.CompletedAt)
			}
		})
	}
}

func TestTask_Lifecycle(t *testing.T) {
	t.Run("created acknowledges to pending then completes", func(t *testing.T) {
		task, err := NewTask("task-1", 71, []int64{101})
		require.NoError(t, err)

		require.NoError(t, task.Acknowledge())
		assert.True(t, task.IsPending())

		require.NoError(t, task.Complete())
		assert.True(t, task.IsCompleted())
		assert.NotNil(t, task.CompletedAt)
	})

	t.Run("cannot complete before acknowledgment", func(t *testing.T) {
		task, _ := NewTask("task-1", 71, nil)
		assert.Error(t, task.Complete())
	})

	t.Run("pending can fail with provider error", func(t *testing.T) {
		task, _ := NewTask("task-1", 71, nil)
		require.NoError(t, task.Acknowledge())

		require.NoError(t, task.Fail("render engine rejected file"))
		assert.Equal(t, TaskStatusFailed, task.Status)
		assert.Equal(t, "render engine rejected file", task.ErrorMessage)
		assert.True(t, task.IsTerminal())
	})

	t.Run("pending can time out and timeout is terminal", func(t *testing.T) {
		task, _ := NewTask("task-1", 71, nil)
		require.NoError(t, task.Acknowledge())

		require.NoError(t, task.Timeout())
		assert.Equal(t, TaskStatusTimeout, task.Status)
		assert.Error(t, task.Acknowledge())
		assert.Error(t, task.Complete())
		assert.Error(t, task.Fail("late failure"))
	})

	t.Run("terminal states accept no transitions", func(t *testing.T) {
		task, _ := NewTask("task-1", 71, nil)
		require.NoError(t, task.Acknowledge())
		require.NoError(t, task.Complete())

		assert.Error(t, task.Fail("too late"))
		assert.Error(t, task.Timeout())
	})
}

func TestTaskStatus_CanTransitionTo(t *testing.T) {
	assert.True(t, TaskStatusCreated.CanTransitionTo(TaskStatusPending))
	assert.True(t, TaskStatusCreated.CanTransitionTo(TaskStatusFailed))
	assert.False(t, TaskStatusCreated.CanTransitionTo(TaskStatusCompleted))
	assert.True(t, TaskStatusPending.CanTransitionTo(TaskStatusCompleted))
	assert.True(t, TaskStatusPending.CanTransitionTo(TaskStatusTimeout))
	assert.False(t, TaskStatusCompleted.CanTransitionTo(TaskStatusPending))
	assert.False(t, TaskStatusTimeout.CanTransitionTo(TaskStatusPending))
	assert.False(t, TaskStatus("BOGUS").IsValid())
}

func TestResult(t *testing.T) {
	mockups := []Mockup{
		{
			MockupURL:  "https://img.example.com/main.png",
			VariantIDs: []int64{101, 102},
			ExtraImages: []ExtraImage{
				{URL: "https://img.example.com/back.png", Label: "extra"},
			},
		},
	}
	printfiles := []Printfile{
		{URL: "https://img.example.com/print.png", VariantIDs: []int64{101}},
	}

	result, err := NewResult("task-1", mockups, printfiles)
	require.NoError(t, err)

	t.Run("printfile lookup by variant", func(t *testing.T) {
		pf, ok := result.PrintfileForVariant(101)
		require.True(t, ok)
		assert.Equal(t, "https://img.example.com/print.png", pf.URL)

		_, ok = result.PrintfileForVariant(999)
		assert.False(t, ok)
	})

	t.Run("image urls list mains before extras", func(t *testing.T) {
		urls := result.ImageURLs()
		require.Len(t, urls, 2)
		assert.Equal(t, "https://img.example.com/main.png", urls[0])
		assert.Equal(t, "https://img.example.com/back.png", urls[1])
	})

	t.Run("empty result rejected", func(t *testing.T) {
		_, err := NewResult("task-1", nil, nil)
		assert.Error(t, err)

		_, err = NewResult("", mockups, nil)
		assert.Error(t, err)
	})
}
