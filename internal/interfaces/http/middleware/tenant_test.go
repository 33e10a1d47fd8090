package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTenantTestRouter(cfg TenantMiddlewareConfig, pre ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	for _, mw := range pre {
		r.Use(mw)
	}
	r.Use(TenantMiddlewareWithConfig(cfg))
	r.GET("/resource", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"tenant_id": GetTenantID(c)})
	})
	r.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestTenantMiddleware_HeaderExtraction(t *testing.T) {
	tenantID := uuid.New().String()

	tests := []struct {
		name           string
		header         string
		expectedStatus int
	}{
		{"valid tenant ID in header", tenantID, http.StatusOK},
		{"missing tenant ID", "", http.StatusUnauthorized},
		{"invalid tenant ID format", "not-a-uuid", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTenantTestRouter(DefaultTenantConfig())
			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/resource", nil)
			if tt.header != "" {
				req.Header.Set(TenantHeaderKey, tt.header)
			}
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestTenantMiddleware_JWTClaimTakesPrecedence(t *testing.T) {
	jwtTenant := uuid.New().String()
	headerTenant := uuid.New().String()

	setClaims := func(c *gin.Context) {
		c.Set(JWTTenantIDKey, jwtTenant)
		c.Next()
	}

	r := newTenantTestRouter(DefaultTenantConfig(), setClaims)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/resource", nil)
	req.Header.Set(TenantHeaderKey, headerTenant)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), jwtTenant)
	assert.NotContains(t, w.Body.String(), headerTenant)
}

func TestTenantMiddleware_SkipPaths(t *testing.T) {
	r := newTenantTestRouter(DefaultTenantConfig())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTenantMiddleware_NotRequired(t *testing.T) {
	cfg := DefaultTenantConfig()
	cfg.Required = false

	r := newTenantTestRouter(cfg)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/resource", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetTenantUUID(t *testing.T) {
	tenantID := uuid.New()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(TenantIDKey, tenantID.String())

	parsed, err := GetTenantUUID(c)
	require.NoError(t, err)
	assert.Equal(t, tenantID, parsed)
}

func TestGetTenantUUID_Empty(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	parsed, err := GetTenantUUID(c)
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, parsed)
}
