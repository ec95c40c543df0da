package fraud

import (
	"fmt"

	"github.com/cartshield/cartshield/internal/models"
)

// Violation describes one settings field failing validation.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidateSettings checks the configuration the same way the admin form does.
// Threshold rules only apply while their owning toggle is enabled; a check
// whose configuration is invalid is skipped entirely, never hard-failed.
func ValidateSettings(s *models.FraudSettings) []Violation {
	var violations []Violation

	if s.ApiKey == "" {
		violations = append(violations, Violation{Field: "ApiKey", Message: "API key is required"})
	}

	if s.IPReputationEnabled {
		violations = appendRange(violations, "IPReputationFraudScoreForBlocking", s.IPReputationFraudScoreForBlocking, 0, 100)
		violations = appendRange(violations, "IPReputationStrictness", float64(s.IPReputationStrictness), 0, 3)

		if s.OrderScoringEnabled {
			violations = appendRange(violations, "TransactionStrictness", float64(s.TransactionStrictness), 0, 2)
			violations = appendRange(violations, "RiskScoreForBlocking", s.RiskScoreForBlocking, 0, 100)
		}
	}

	if s.EmailValidationEnabled {
		violations = appendRange(violations, "EmailReputationFraudScoreForBlocking", s.EmailReputationFraudScoreForBlocking, 0, 100)
		violations = appendRange(violations, "EmailReputationStrictness", float64(s.EmailReputationStrictness), 0, 2)
		violations = appendRange(violations, "AbuseStrictness", float64(s.AbuseStrictness), 0, 2)
	}

	if s.DeviceFingerprintEnabled {
		if s.DeviceFingerprintTrackingCode == "" {
			violations = append(violations, Violation{Field: "DeviceFingerprintTrackingCode", Message: "tracking code is required"})
		}
		violations = appendRange(violations, "DeviceFingerprintFraudChance", float64(s.DeviceFingerprintFraudChance), 0, 100)
	}

	return violations
}

func appendRange(violations []Violation, field string, value, min, max float64) []Violation {
	if value < min || value > max {
		violations = append(violations, Violation{
			Field:   field,
			Message: fmt.Sprintf("must be between %g and %g", min, max),
		})
	}
	return violations
}
