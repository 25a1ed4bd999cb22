package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/podsync/backend/internal/application/design"
	"github.com/podsync/backend/internal/interfaces/http/dto"
	"github.com/podsync/backend/internal/interfaces/http/middleware"
	"github.com/podsync/backend/internal/interfaces/http/router"
)

// TemplateHandler handles design template HTTP requests
type TemplateHandler struct {
	BaseHandler
	templateService *design.TemplateService
}

// NewTemplateHandler creates a new template handler
func NewTemplateHandler(templateService *design.TemplateService) *TemplateHandler {
	return &TemplateHandler{
		templateService: templateService,
	}
}

// Import fetches a provider template and stores it locally
func (h *TemplateHandler) Import(c *gin.Context) {
	var req design.ImportTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	result, err := h.templateService.ImportTemplate(c.Request.Context(), req, &userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Get returns one imported template
func (h *TemplateHandler) Get(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid template ID")
		return
	}

	result, err := h.templateService.GetTemplate(c.Request.Context(), mustParseUUID(req.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List returns a page of imported templates
func (h *TemplateHandler) List(c *gin.Context) {
	var req design.ListTemplatesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.templateService.ListTemplates(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Limit, result.Offset)
}

// TemplateRoutes creates the route group for template endpoints
func TemplateRoutes(handler *TemplateHandler, authMiddleware gin.HandlerFunc) *router.DomainGroup {
	group := router.NewDomainGroup("templates", "/templates")
	group.Use(authMiddleware)

	group.POST("/import", handler.Import)
	group.GET("", handler.List)
	group.GET("/:id", handler.Get)

	return group
}
