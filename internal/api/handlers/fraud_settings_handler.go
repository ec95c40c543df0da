package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cartshield/cartshield/internal/fraud"
	"github.com/cartshield/cartshield/internal/models"
	"github.com/cartshield/cartshield/internal/services"
)

// FraudSettingsHandler exposes the fraud configuration to the admin API.
type FraudSettingsHandler struct {
	settings *services.SettingsService
}

func NewFraudSettingsHandler(settings *services.SettingsService) *FraudSettingsHandler {
	return &FraudSettingsHandler{settings: settings}
}

func (h *FraudSettingsHandler) Get(c *gin.Context) {
	settings, err := h.settings.Settings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load settings"})
		return
	}

	c.JSON(http.StatusOK, settings)
}

// Update validates and replaces the configuration. Invalid field values are
// reported per field so the admin form can highlight them.
func (h *FraudSettingsHandler) Update(c *gin.Context) {
	var updated models.FraudSettings
	if err := c.ShouldBindJSON(&updated); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if violations := fraud.ValidateSettings(&updated); len(violations) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"violations": violations})
		return
	}

	if err := h.settings.Update(&updated); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save settings"})
		return
	}

	c.JSON(http.StatusOK, &updated)
}
