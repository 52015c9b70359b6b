package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"academy-qabot/internal/pkg/jwtutil"
)

func newAdminRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/admin", AuthJWT("secret"), RequireRole(jwtutil.RoleAdmin), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextSubjectKey))
	})
	return router
}

func doAdmin(router *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAdminAccess(t *testing.T) {
	router := newAdminRouter()

	admin, err := jwtutil.GenerateToken("secret", time.Hour, "manager", jwtutil.RoleAdmin)
	require.NoError(t, err)
	rec := doAdmin(router, "Bearer "+admin)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "manager", rec.Body.String())

	viewer, err := jwtutil.GenerateToken("secret", time.Hour, "student", "viewer")
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, doAdmin(router, "Bearer "+viewer).Code)

	assert.Equal(t, http.StatusUnauthorized, doAdmin(router, "").Code)
	assert.Equal(t, http.StatusUnauthorized, doAdmin(router, "Basic abc").Code)
	assert.Equal(t, http.StatusUnauthorized, doAdmin(router, "Bearer nope").Code)
}
