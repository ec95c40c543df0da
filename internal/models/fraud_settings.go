package models

import "time"

// BlockNotificationType selects the user-visible consequence when a request
// fails the reputation check.
type BlockNotificationType string

const (
	// BlockNotificationDisplay lets the request proceed and only renders an
	// ambient "flagged" notification.
	BlockNotificationDisplay BlockNotificationType = "display"
	// BlockNotificationRedirect short-circuits to the prevent-fraud page.
	BlockNotificationRedirect BlockNotificationType = "redirect"
)

// FraudSettings is the per-store configuration of the fraud add-on. A single
// row is stored and loaded once per evaluated request; the engine never
// mutates it.
type FraudSettings struct {
	ID uint `json:"id" gorm:"primaryKey"`

	ApiKey           string `json:"api_key"`
	LogRequestErrors bool   `json:"log_request_errors"`

	// IP reputation
	IPReputationEnabled               bool    `json:"ip_reputation_enabled"`
	IPReputationFraudScoreForBlocking float64 `json:"ip_reputation_fraud_score_for_blocking"`
	IPReputationStrictness            int     `json:"ip_reputation_strictness"`
	ProxyBlockingEnabled              bool    `json:"proxy_blocking_enabled"`
	VpnBlockingEnabled                bool    `json:"vpn_blocking_enabled"`
	TorBlockingEnabled                bool    `json:"tor_blocking_enabled"`
	AllowPublicAccessPoints           bool    `json:"allow_public_access_points"`
	LighterPenalties                  bool    `json:"lighter_penalties"`
	AllowCrawlers                     bool    `json:"allow_crawlers"`
	// IPQualityGroups is a comma-separated list of route group names
	// (customer, catalog, checkout). Empty means every public page.
	IPQualityGroups string `json:"ip_quality_groups"`

	BlockNotificationType BlockNotificationType `json:"block_notification_type" gorm:"default:'redirect'"`

	// Order scoring
	OrderScoringEnabled      bool    `json:"order_scoring_enabled"`
	RiskScoreForBlocking     float64 `json:"risk_score_for_blocking"`
	TransactionStrictness    int     `json:"transaction_strictness"`
	ApproveStatusID          int     `json:"approve_status_id"`
	RejectStatusID           int     `json:"reject_status_id"`
	InformCustomerAboutFraud bool    `json:"inform_customer_about_fraud"`

	// Email validation
	EmailValidationEnabled               bool    `json:"email_validation_enabled"`
	EmailReputationFraudScoreForBlocking float64 `json:"email_reputation_fraud_score_for_blocking"`
	EmailReputationStrictness            int     `json:"email_reputation_strictness"`
	AbuseStrictness                      int     `json:"abuse_strictness"`
	EmailReputationTimeout               int     `json:"email_reputation_timeout" gorm:"default:7"`

	// Device fingerprint
	DeviceFingerprintEnabled      bool   `json:"device_fingerprint_enabled"`
	DeviceFingerprintTrackingCode string `json:"device_fingerprint_tracking_code" gorm:"type:text"`
	DeviceFingerprintFraudChance  int    `json:"device_fingerprint_fraud_chance"`
	DeviceTrackingVariableName    string `json:"device_tracking_variable_name"`
	BlockUserIfScriptIsBlocked    bool   `json:"block_user_if_script_is_blocked"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
