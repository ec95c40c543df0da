package fraud

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/cartshield/cartshield/internal/logger"
	"github.com/cartshield/cartshield/internal/models"
)

// SettingsSource yields the current configuration; the hook re-reads it on
// every event so admin edits apply without a restart.
type SettingsSource interface {
	Settings() (*models.FraudSettings, error)
}

// DecisionRecorder keeps the audit trail of evaluations the hook performs.
type DecisionRecorder interface {
	RecordOrderDecision(orderID uint, rc *RequestContext, accepted bool, riskScore float64)
}

// OrderPlacedHook scores orders synchronously at placement time, before the
// customer sees the confirmation page.
type OrderPlacedHook struct {
	engine    *Engine
	settings  SettingsSource
	decisions DecisionRecorder
}

// NewOrderPlacedHook builds the hook. decisions may be nil.
func NewOrderPlacedHook(engine *Engine, settings SettingsSource, decisions DecisionRecorder) *OrderPlacedHook {
	return &OrderPlacedHook{engine: engine, settings: settings, decisions: decisions}
}

// HandleOrderPlaced evaluates a freshly placed order and moves it into the
// configured approve or reject status. Evaluation errors leave the order
// untouched in its placement status.
func (h *OrderPlacedHook) HandleOrderPlaced(ctx context.Context, rc *RequestContext, order *models.Order) error {
	if order == nil {
		return ErrNilOrder
	}

	settings, err := h.settings.Settings()
	if err != nil {
		return err
	}

	eligible, err := h.engine.CanValidateOrder(settings, rc, order)
	if err != nil {
		return err
	}
	if !eligible {
		return nil
	}

	accepted, report, err := h.engine.ValidateOrder(ctx, settings, rc, order)
	if err != nil {
		return err
	}

	if h.decisions != nil {
		h.decisions.RecordOrderDecision(order.ID, rc, accepted, report.PaymentRiskScore)
	}

	if accepted {
		return h.engine.ApproveOrder(settings, order)
	}

	logger.WithFields(logrus.Fields{
		"order_id":    order.ID,
		"customer_id": order.CustomerID,
	}).Warn("order failed fraud scoring")

	return h.engine.RejectOrder(settings, order)
}
