package handlers

import (
	"net/http"
	"time"

	"adwuma/services/earnings"
	"adwuma/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EarningsHandler exposes the provider earnings snapshot.
type EarningsHandler struct {
	Svc    earnings.EarningsService
	Logger *zap.Logger
}

func NewEarningsHandler(svc earnings.EarningsService, logger *zap.Logger) *EarningsHandler {
	return &EarningsHandler{Svc: svc, Logger: logger}
}

// GetProviderEarnings handles GET /api/providers/:id/earnings. Earnings are
// private: a provider may only read their own snapshot, admins may read any.
func (h *EarningsHandler) GetProviderEarnings(c *gin.Context) {
	providerID := c.Param("id")
	if c.GetString("actorRole") != "admin" && c.GetString("actorID") != providerID {
		utils.JSONError(c, http.StatusForbidden, "forbidden", "earnings belong to a different provider")
		return
	}
	snap, err := h.Svc.GetProviderEarningsSnapshot(c.Request.Context(), providerID, time.Now())
	if err != nil {
		h.Logger.Error("failed to compute earnings snapshot",
			zap.String("providerId", providerID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute earnings"})
		return
	}
	c.JSON(http.StatusOK, snap)
}
