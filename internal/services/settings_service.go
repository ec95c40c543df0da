package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/cartshield/cartshield/internal/models"
)

// SettingsService owns the single fraud configuration row.
type SettingsService struct {
	DB *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{DB: db}
}

// defaultSettings mirror the values applied on first install.
func defaultSettings() *models.FraudSettings {
	return &models.FraudSettings{
		IPReputationEnabled:                  true,
		IPReputationFraudScoreForBlocking:    85,
		ProxyBlockingEnabled:                 true,
		TorBlockingEnabled:                   true,
		AllowCrawlers:                        true,
		BlockNotificationType:                models.BlockNotificationRedirect,
		OrderScoringEnabled:                  true,
		RiskScoreForBlocking:                 85,
		ApproveStatusID:                      models.OrderStatusProcessing,
		RejectStatusID:                       models.OrderStatusCancelled,
		EmailValidationEnabled:               true,
		EmailReputationFraudScoreForBlocking: 85,
		EmailReputationTimeout:               7,
		DeviceTrackingVariableName:           "userID",
	}
}

// Settings returns the configuration row, creating it with defaults on first
// access.
func (s *SettingsService) Settings() (*models.FraudSettings, error) {
	var settings models.FraudSettings
	err := s.DB.First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = *defaultSettings()
		if err := s.DB.Create(&settings).Error; err != nil {
			return nil, err
		}
		return &settings, nil
	}
	if err != nil {
		return nil, err
	}

	return &settings, nil
}

// Update overwrites the configuration row. The caller validates first.
func (s *SettingsService) Update(updated *models.FraudSettings) error {
	current, err := s.Settings()
	if err != nil {
		return err
	}

	updated.ID = current.ID
	updated.CreatedAt = current.CreatedAt
	return s.DB.Save(updated).Error
}
