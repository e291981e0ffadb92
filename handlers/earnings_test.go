package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"adwuma/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubEarningsService struct {
	snap *models.ProviderEarningsSnapshot
	err  error
}

func (s *stubEarningsService) GetProviderEarningsSnapshot(ctx context.Context, providerID string, now time.Time) (*models.ProviderEarningsSnapshot, error) {
	return s.snap, s.err
}

func earningsRouter(actorID, actorRole string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewEarningsHandler(&stubEarningsService{
		snap: &models.ProviderEarningsSnapshot{ProviderID: "provider-1"},
	}, zap.NewNop())

	r := gin.New()
	r.GET("/api/providers/:id/earnings", func(c *gin.Context) {
		c.Set("actorID", actorID)
		c.Set("actorRole", actorRole)
	}, h.GetProviderEarnings)
	return r
}

func getEarnings(r *gin.Engine, providerID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/providers/"+providerID+"/earnings", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetProviderEarningsOwnSnapshot(t *testing.T) {
	w := getEarnings(earningsRouter("provider-1", "provider"), "provider-1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "provider-1")
}

func TestGetProviderEarningsForeignProviderForbidden(t *testing.T) {
	w := getEarnings(earningsRouter("provider-2", "provider"), "provider-1")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetProviderEarningsAdminMayReadAny(t *testing.T) {
	w := getEarnings(earningsRouter("ops-1", "admin"), "provider-1")
	assert.Equal(t, http.StatusOK, w.Code)
}
