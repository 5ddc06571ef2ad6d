package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/tiredaf123/fitflow--G3-sub001/pkg/authtoken"
	"github.com/tiredaf123/fitflow--G3-sub001/pkg/config"
	"github.com/tiredaf123/fitflow--G3-sub001/pkg/types"
)

func authTestConfig() *config.Config {
	return &config.Config{JWT: config.JWTConfig{Secret: "test-secret", TTLHours: 1}}
}

func newAuthRouter(cfg *config.Config, roles ...types.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	grp := r.Group("/", AuthMiddleware(cfg))
	if len(roles) > 0 {
		grp.Use(RequireRole(roles...))
	}
	grp.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": AuthUserID(c), "role": string(AuthRole(c))})
	})
	return r
}

func TestAuthMiddleware_RejectsMissingToken(t *testing.T) {
	r := newAuthRouter(authTestConfig())

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_RejectsBadToken(t *testing.T) {
	r := newAuthRouter(authTestConfig())

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_SetsIdentity(t *testing.T) {
	cfg := authTestConfig()
	token, err := authtoken.Issue(cfg, "user-1", types.RoleTrainer)
	require.NoError(t, err)

	r := newAuthRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "user-1")
	require.Contains(t, w.Body.String(), "trainer")
}

func TestRequireRole_ForbidsMismatch(t *testing.T) {
	cfg := authTestConfig()
	token, err := authtoken.Issue(cfg, "user-1", types.RoleUser)
	require.NoError(t, err)

	r := newAuthRouter(cfg, types.RoleTrainer, types.RoleAdmin)
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRole_AllowsListedRole(t *testing.T) {
	cfg := authTestConfig()
	token, err := authtoken.Issue(cfg, "trainer-1", types.RoleTrainer)
	require.NoError(t, err)

	r := newAuthRouter(cfg, types.RoleTrainer, types.RoleAdmin)
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
}
