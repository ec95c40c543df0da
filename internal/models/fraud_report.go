package models

// AttributeKeyOrderFraudReport is the order-attribute key the serialized
// fraud report is stored under.
const AttributeKeyOrderFraudReport = "cartshield.order_fraud_report"

// OrderFraudReport is the per-order scoring document persisted after order
// validation. It is written once and never updated; nil pointers mean the
// provider did not report that field.
type OrderFraudReport struct {
	PaymentRiskScore           float64  `json:"payment_risk_score"`
	DeviceFingerprintRiskScore *float64 `json:"device_fingerprint_risk_score"`
	ValidBillingEmail          *bool    `json:"valid_billing_email"`
	ValidBillingPhone          *bool    `json:"valid_billing_phone"`
	ValidBillingAddress        *bool    `json:"valid_billing_address"`
	ValidShippingEmail         *bool    `json:"valid_shipping_email"`
	ValidShippingPhone         *bool    `json:"valid_shipping_phone"`
	ValidShippingAddress       *bool    `json:"valid_shipping_address"`
}
