package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/cartshield/cartshield/internal/fraud"
	"github.com/cartshield/cartshield/internal/logger"
	"github.com/cartshield/cartshield/internal/models"
)

// DecisionService keeps the audit trail of fraud verdicts.
type DecisionService struct {
	DB *gorm.DB
}

func NewDecisionService(db *gorm.DB) *DecisionService {
	return &DecisionService{DB: db}
}

func (s *DecisionService) record(decision *models.FraudDecision) {
	decision.UUID = uuid.New().String()
	if err := s.DB.Create(decision).Error; err != nil {
		logger.WithFields(logrus.Fields{"check": decision.Check}).
			WithError(err).Error("failed to record fraud decision")
	}
}

// RecordRequestDecision logs an IP or email verdict applied by the
// interception layer.
func (s *DecisionService) RecordRequestDecision(check, action string, rc *fraud.RequestContext) {
	s.record(&models.FraudDecision{
		Check:     check,
		Action:    action,
		IP:        rc.ClientIP,
		RouteName: rc.RouteName,
	})
}

// RecordOrderDecision logs an order scoring verdict.
func (s *DecisionService) RecordOrderDecision(orderID uint, rc *fraud.RequestContext, accepted bool, riskScore float64) {
	action := "approve"
	if !accepted {
		action = "reject"
	}
	s.record(&models.FraudDecision{
		Check:     "order",
		Action:    action,
		IP:        rc.ClientIP,
		RouteName: rc.RouteName,
		OrderID:   &orderID,
		Details:   fmt.Sprintf("risk_score=%g", riskScore),
	})
}

// List returns the newest decisions up to limit.
func (s *DecisionService) List(limit int) ([]models.FraudDecision, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var decisions []models.FraudDecision
	err := s.DB.Order("created_at desc").Limit(limit).Find(&decisions).Error
	return decisions, err
}

// PurgeOlderThan removes decisions past the retention window and returns how
// many rows were deleted. Run from the retention cron.
func (s *DecisionService) PurgeOlderThan(retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, nil
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	result := s.DB.Where("created_at < ?", cutoff).Delete(&models.FraudDecision{})
	return result.RowsAffected, result.Error
}
