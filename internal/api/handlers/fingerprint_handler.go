package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cartshield/cartshield/internal/api/middleware"
	"github.com/cartshield/cartshield/internal/fraud"
	"github.com/cartshield/cartshield/internal/services"
)

// FingerprintHandler tells storefront pages whether to embed the device
// fingerprint collector and hands them the tracking snippet.
type FingerprintHandler struct {
	settings *services.SettingsService
	engine   *fraud.Engine
}

func NewFingerprintHandler(settings *services.SettingsService, engine *fraud.Engine) *FingerprintHandler {
	return &FingerprintHandler{settings: settings, engine: engine}
}

func (h *FingerprintHandler) Get(c *gin.Context) {
	settings, err := h.settings.Settings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load settings"})
		return
	}

	rc := middleware.BuildRequestContext(c)
	if routeName := c.Query("route"); routeName != "" {
		// pages ask on behalf of the route they are rendering
		rc.RouteName = routeName
	}

	if !h.engine.CanDisplayDeviceFingerprint(settings, rc) {
		c.JSON(http.StatusOK, gin.H{"display": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"display":       true,
		"tracking_code": settings.DeviceFingerprintTrackingCode,
		"variable_name": settings.DeviceTrackingVariableName,
		"customer_id":   rc.CustomerID,
		// the client blocks the visitor when the collector script fails to run
		"block_if_script_blocked": settings.BlockUserIfScriptIsBlocked,
	})
}
