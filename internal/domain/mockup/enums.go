package mockup

// TaskStatus represents the observed status of a mockup rendering task
type TaskStatus string

const (
	TaskStatusCreated   TaskStatus = "CREATED"   // Task record created, not yet acknowledged
	TaskStatusPending   TaskStatus = "PENDING"   // Provider acknowledged, render in progress
	TaskStatusCompleted TaskStatus = "COMPLETED" // Render finished, result fetched
	TaskStatusFailed    TaskStatus = "FAILED"    // Provider reported a render error
	TaskStatusTimeout   TaskStatus = "TIMEOUT"   // Polling budget exhausted
)

// IsValid checks if the TaskStatus is a valid value
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusCreated, TaskStatusPending, TaskStatusCompleted, TaskStatusFailed, TaskStatusTimeout:
		return true
	}
	return false
}

// String returns the string representation of TaskStatus
func (s TaskStatus) String() string {
	return string(s)
}

// IsTerminal returns true if this is a terminal status (no further transitions)
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusFailed || s == TaskStatusTimeout
}

// CanTransitionTo checks if the status can transition to the target status
func (s TaskStatus) CanTransitionTo(target TaskStatus) bool {
	switch s {
	case TaskStatusCreated:
		return target == TaskStatusPending || target == TaskStatusFailed
	case TaskStatusPending:
		return target == TaskStatusCompleted || target == TaskStatusFailed || target == TaskStatusTimeout
	case TaskStatusCompleted, TaskStatusFailed, TaskStatusTimeout:
		return false // Terminal states
	}
	return false
}
