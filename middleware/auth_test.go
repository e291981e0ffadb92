package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"adwuma/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProtectedRouter(roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", JWTAuthMiddleware(roles...), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"actorId":   c.GetString("actorID"),
			"actorRole": c.GetString("actorRole"),
		})
	})
	return r
}

func doGet(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMiddlewareRejectsMissingToken(t *testing.T) {
	r := newProtectedRouter()

	w := doGet(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doGet(r, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthMiddlewareSetsActorContext(t *testing.T) {
	token, err := utils.GenerateToken("client-1", "client", time.Hour)
	require.NoError(t, err)

	w := doGet(newProtectedRouter(), token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "client-1")
	assert.Contains(t, w.Body.String(), "client")
}

func TestJWTAuthMiddlewareEnforcesRoles(t *testing.T) {
	clientToken, err := utils.GenerateToken("client-1", "client", time.Hour)
	require.NoError(t, err)
	providerToken, err := utils.GenerateToken("provider-1", "provider", time.Hour)
	require.NoError(t, err)

	r := newProtectedRouter("provider", "admin")

	w := doGet(r, clientToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doGet(r, providerToken)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJWTAuthMiddlewareRejectsExpiredToken(t *testing.T) {
	expired, err := utils.GenerateToken("client-1", "client", -time.Minute)
	require.NoError(t, err)

	w := doGet(newProtectedRouter(), expired)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
