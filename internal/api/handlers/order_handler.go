package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cartshield/cartshield/internal/api/middleware"
	"github.com/cartshield/cartshield/internal/fraud"
	"github.com/cartshield/cartshield/internal/metrics"
	"github.com/cartshield/cartshield/internal/models"
	"github.com/cartshield/cartshield/internal/services"
)

// OrderHandler covers the order-side surface: placing orders through the
// fraud hook and the admin views over reports and notes.
type OrderHandler struct {
	orders   *services.OrderService
	reports  *services.ReportService
	settings *services.SettingsService
	engine   *fraud.Engine
	hook     *fraud.OrderPlacedHook
}

func NewOrderHandler(
	orders *services.OrderService,
	reports *services.ReportService,
	settings *services.SettingsService,
	engine *fraud.Engine,
	hook *fraud.OrderPlacedHook,
) *OrderHandler {
	return &OrderHandler{
		orders:   orders,
		reports:  reports,
		settings: settings,
		engine:   engine,
		hook:     hook,
	}
}

func orderID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return 0, false
	}
	return uint(id), true
}

// Place creates an order and runs it through fraud scoring before replying.
func (h *OrderHandler) Place(c *gin.Context) {
	var order models.Order
	if err := c.ShouldBindJSON(&order); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order.ID = 0
	order.StatusID = models.OrderStatusPending
	if err := h.orders.DB.Create(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create order"})
		return
	}

	rc := middleware.BuildRequestContext(c)
	if err := h.hook.HandleOrderPlaced(c.Request.Context(), rc, &order); err != nil {
		middleware.GetRequestLogger(c).WithError(err).Error("order fraud scoring failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "order scoring failed"})
		return
	}

	switch order.StatusID {
	case models.OrderStatusCancelled:
		metrics.IncOrderRejected()
	case models.OrderStatusPending:
		// scoring skipped, order stays as placed
	default:
		metrics.IncOrderApproved()
	}

	c.JSON(http.StatusCreated, &order)
}

// Report returns the persisted fraud report of an order.
func (h *OrderHandler) Report(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}

	report, err := h.reports.Report(id)
	if errors.Is(err, services.ErrReportNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no fraud report for this order"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load fraud report"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// Notes lists an order's notes, newest first.
func (h *OrderHandler) Notes(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}

	notes, err := h.orders.OrderNotes(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load order notes"})
		return
	}

	c.JSON(http.StatusOK, notes)
}

// Approve is the staff override moving an order to the approve status.
func (h *OrderHandler) Approve(c *gin.Context) {
	h.applyVerdict(c, h.engine.ApproveOrder)
}

// Reject is the staff override moving an order to the reject status with a
// fraud note.
func (h *OrderHandler) Reject(c *gin.Context) {
	h.applyVerdict(c, h.engine.RejectOrder)
}

func (h *OrderHandler) applyVerdict(c *gin.Context, verdict func(*models.FraudSettings, *models.Order) error) {
	id, ok := orderID(c)
	if !ok {
		return
	}

	order, err := h.orders.OrderByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}

	settings, err := h.settings.Settings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load settings"})
		return
	}

	if err := verdict(settings, order); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update order"})
		return
	}

	c.JSON(http.StatusOK, order)
}
