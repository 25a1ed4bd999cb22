package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/podsync/backend/internal/application/mockup"
	"github.com/podsync/backend/internal/interfaces/http/middleware"
	"github.com/podsync/backend/internal/interfaces/http/router"
)

// MockupHandler handles mockup render task HTTP requests
type MockupHandler struct {
	BaseHandler
	taskService *mockup.TaskService
}

// NewMockupHandler creates a new mockup handler
func NewMockupHandler(taskService *mockup.TaskService) *MockupHandler {
	return &MockupHandler{
		taskService: taskService,
	}
}

// CreateTask submits a render task to the provider
func (h *MockupHandler) CreateTask(c *gin.Context) {
	var req mockup.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.taskService.CreateTask(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Accepted(c, result)
}

// GetTask returns the stored state of a render task
func (h *MockupHandler) GetTask(c *gin.Context) {
	taskKey := c.Param("task_key")
	if taskKey == "" {
		h.BadRequest(c, "Missing task key")
		return
	}

	result, err := h.taskService.GetTask(c.Request.Context(), taskKey)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// AwaitResult polls the provider until the render finishes, then returns
// the stored result. The request blocks for up to the polling budget.
func (h *MockupHandler) AwaitResult(c *gin.Context) {
	taskKey := c.Param("task_key")
	if taskKey == "" {
		h.BadRequest(c, "Missing task key")
		return
	}

	result, err := h.taskService.AwaitResult(c.Request.Context(), taskKey)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetResult returns the stored result of a completed task
func (h *MockupHandler) GetResult(c *gin.Context) {
	taskKey := c.Param("task_key")
	if taskKey == "" {
		h.BadRequest(c, "Missing task key")
		return
	}

	result, err := h.taskService.GetResult(c.Request.Context(), taskKey)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// MockupRoutes creates the route group for mockup render endpoints
func MockupRoutes(handler *MockupHandler, authMiddleware gin.HandlerFunc) *router.DomainGroup {
	group := router.NewDomainGroup("mockups", "/mockups")
	group.Use(authMiddleware)

	group.POST("/tasks", handler.CreateTask)
	group.GET("/tasks/:task_key", handler.GetTask)
	group.POST("/tasks/:task_key/await", handler.AwaitResult)
	group.GET("/tasks/:task_key/result", handler.GetResult)

	return group
}
