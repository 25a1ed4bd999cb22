package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/podsync/backend/internal/application/identity"
	"github.com/podsync/backend/internal/interfaces/http/middleware"
	"github.com/podsync/backend/internal/interfaces/http/router"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService *identity.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *identity.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register creates a new account and issues an access token
func (h *AuthHandler) Register(c *gin.Context) {
	var req identity.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Login authenticates with email and password
func (h *AuthHandler) Login(c *gin.Context) {
	var req identity.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetCurrentUser returns the authenticated user's profile
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	result, err := h.authService.GetUser(c.Request.Context(), userID.String())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// AuthRoutes creates the route group for authentication endpoints.
// Register and login are public; everything else requires a token.
func AuthRoutes(handler *AuthHandler, authMiddleware gin.HandlerFunc) *router.DomainGroup {
	group := router.NewDomainGroup("auth", "/auth")

	group.POST("/register", handler.Register)
	group.POST("/login", handler.Login)
	group.GET("/me", authMiddleware, handler.GetCurrentUser)

	return group
}
