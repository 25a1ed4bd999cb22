package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/podsync/backend/internal/domain/shared"
)

func TestBaseHandler_HandleError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", shared.NewDomainError("NOT_FOUND", "Template not found"), http.StatusNotFound, "NOT_FOUND"},
		{"conflict", shared.NewDomainError("ALREADY_EXISTS", "Email already registered"), http.StatusConflict, "ALREADY_EXISTS"},
		{"invalid state", shared.NewDomainError("INVALID_STATE", "Task still pending"), http.StatusUnprocessableEntity, "INVALID_STATE"},
		{"upstream down", shared.NewDomainError("UPSTREAM_UNAVAILABLE", "Provider unreachable"), http.StatusBadGateway, "UPSTREAM_UNAVAILABLE"},
		{"render timeout", shared.NewDomainError("TIMEOUT", "Polling budget exhausted"), http.StatusGatewayTimeout, "TIMEOUT"},
		{"wrapped domain error", fmt.Errorf("loading: %w", shared.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"plain error", fmt.Errorf("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			var h BaseHandler
			h.HandleError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantCode)
		})
	}
}
