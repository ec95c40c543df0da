package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cartshield/cartshield/internal/models"
	"github.com/cartshield/cartshield/internal/services"
)

// NotificationHandler exposes the staff notification feed and the external
// provider configuration.
type NotificationHandler struct {
	notifications *services.NotificationService
}

func NewNotificationHandler(notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

func (h *NotificationHandler) List(c *gin.Context) {
	unreadOnly := c.Query("unread") == "true"

	notifications, err := h.notifications.List(unreadOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load notifications"})
		return
	}

	c.JSON(http.StatusOK, notifications)
}

func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	if err := h.notifications.MarkAsRead(c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark notification"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *NotificationHandler) ListProviders(c *gin.Context) {
	var providers []models.NotificationProvider
	if err := h.notifications.DB.Find(&providers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load providers"})
		return
	}

	c.JSON(http.StatusOK, providers)
}

type providerRequest struct {
	Name           string `json:"name" binding:"required"`
	Type           string `json:"type" binding:"required"`
	URL            string `json:"url" binding:"required"`
	Enabled        bool   `json:"enabled"`
	NotifyOrders   bool   `json:"notify_orders"`
	NotifyRequests bool   `json:"notify_requests"`
}

func (h *NotificationHandler) CreateProvider(c *gin.Context) {
	var req providerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	provider := models.NotificationProvider{
		Name:           req.Name,
		Type:           req.Type,
		URL:            req.URL,
		Enabled:        req.Enabled,
		NotifyOrders:   req.NotifyOrders,
		NotifyRequests: req.NotifyRequests,
	}
	if err := h.notifications.DB.Create(&provider).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create provider"})
		return
	}

	c.JSON(http.StatusCreated, provider)
}

func (h *NotificationHandler) DeleteProvider(c *gin.Context) {
	result := h.notifications.DB.Where("id = ?", c.Param("id")).Delete(&models.NotificationProvider{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete provider"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "provider not found"})
		return
	}

	c.Status(http.StatusNoContent)
}
