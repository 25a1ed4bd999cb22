package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/podsync/backend/internal/application/listing"
	"github.com/podsync/backend/internal/interfaces/http/router"
)

// CatalogHandler proxies provider catalog lookups through the variant cache
type CatalogHandler struct {
	BaseHandler
	productService *listing.ProductService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(productService *listing.ProductService) *CatalogHandler {
	return &CatalogHandler{
		productService: productService,
	}
}

// GetVariants returns enriched catalog variants for a comma-separated list
// of provider variant IDs
func (h *CatalogHandler) GetVariants(c *gin.Context) {
	raw := c.Query("ids")
	if raw == "" {
		h.BadRequest(c, "Missing ids query parameter")
		return
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil || id <= 0 {
			h.BadRequest(c, "Invalid variant ID: "+part)
			return
		}
		ids = append(ids, id)
	}

	result, err := h.productService.GetCatalogVariants(c.Request.Context(), ids)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// CatalogRoutes creates the route group for catalog endpoints
func CatalogRoutes(handler *CatalogHandler, authMiddleware gin.HandlerFunc) *router.DomainGroup {
	group := router.NewDomainGroup("catalog", "/catalog")
	group.Use(authMiddleware)

	group.GET("/variants", handler.GetVariants)

	return group
}
