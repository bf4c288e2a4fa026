package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newAuthTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Auth(AuthConfig{
		Secret:    "test-secret",
		Issuer:    "test",
		SkipPaths: DefaultSkipPaths,
		Enabled:   true,
	}))
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	r.POST("/api/v1/auth/login", ok)
	r.POST("/api/v1/auth/logout", ok)
	r.POST("/api/v1/auth/logout-all", ok)
	r.GET("/api/v1/auth/login/history", ok)
	r.GET("/api/v1/documents", ok)
	r.GET("/health", ok)
	r.GET("/metrics", ok)
	return r
}

func TestAuthSkipPaths(t *testing.T) {
	r := newAuthTestRouter(t)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodPost, "/api/v1/auth/login", http.StatusOK},
		{http.MethodPost, "/api/v1/auth/logout", http.StatusOK},
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		// 精确匹配：跳过路径的相邻路径不得绕过认证
		{http.MethodPost, "/api/v1/auth/logout-all", http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/auth/login/history", http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/documents", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(tt.method, tt.path, nil)
		r.ServeHTTP(w, req)
		if w.Code != tt.want {
			t.Errorf("%s %s: status = %d, want %d", tt.method, tt.path, w.Code, tt.want)
		}
	}
}

func TestAuthRejectsMissingToken(t *testing.T) {
	r := newAuthTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: status = %d, want 401", w.Code)
	}

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token: status = %d, want 401", w.Code)
	}
}
