package services

import (
	"encoding/json"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cartshield/cartshield/internal/models"
)

// ErrReportNotFound is returned when an order has no fraud report attribute.
var ErrReportNotFound = errors.New("order fraud report not found")

// ReportService persists the per-order fraud report as a JSON order attribute.
type ReportService struct {
	DB *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{DB: db}
}

// SaveReport serializes and upserts the report under the order's attribute key.
func (s *ReportService) SaveReport(orderID uint, report *models.OrderFraudReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return err
	}

	attr := models.OrderAttribute{
		OrderID: orderID,
		Key:     models.AttributeKeyOrderFraudReport,
		Value:   string(payload),
	}

	return s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "order_id"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&attr).Error
}

// Report loads and deserializes an order's fraud report.
func (s *ReportService) Report(orderID uint) (*models.OrderFraudReport, error) {
	var attr models.OrderAttribute
	err := s.DB.Where("order_id = ? AND key = ?", orderID, models.AttributeKeyOrderFraudReport).
		First(&attr).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, err
	}

	var report models.OrderFraudReport
	if err := json.Unmarshal([]byte(attr.Value), &report); err != nil {
		return nil, err
	}

	return &report, nil
}
