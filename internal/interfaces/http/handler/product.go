package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/podsync/backend/internal/application/listing"
	"github.com/podsync/backend/internal/interfaces/http/middleware"
	"github.com/podsync/backend/internal/interfaces/http/router"
)

// ProductHandler handles storefront product assembly HTTP requests
type ProductHandler struct {
	BaseHandler
	productService *listing.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *listing.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// Create runs the full assembly pipeline for a template and completed
// render task. Partial variant or media failures surface as user_errors
// in the response rather than failing the request.
func (h *ProductHandler) Create(c *gin.Context) {
	var req listing.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.productService.CreateProduct(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// ProductRoutes creates the route group for product endpoints
func ProductRoutes(handler *ProductHandler, authMiddleware gin.HandlerFunc) *router.DomainGroup {
	group := router.NewDomainGroup("products", "/products")
	group.Use(authMiddleware)

	group.POST("", handler.Create)

	return group
}
