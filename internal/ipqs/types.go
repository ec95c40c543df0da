package ipqs

// Response carries the fields every provider endpoint returns.
type Response struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

// TransactionDetails scores an order's billing/shipping data specifically.
// Pointer fields are absent when the provider had nothing to say about them.
type TransactionDetails struct {
	RiskScore            float64 `json:"risk_score"`
	ValidBillingEmail    *bool   `json:"valid_billing_email"`
	ValidBillingPhone    *bool   `json:"valid_billing_phone"`
	ValidBillingAddress  *bool   `json:"valid_billing_address"`
	ValidShippingEmail   *bool   `json:"valid_shipping_email"`
	ValidShippingPhone   *bool   `json:"valid_shipping_phone"`
	ValidShippingAddress *bool   `json:"valid_shipping_address"`
}

// IPReputationResponse is the reply of the IP reputation endpoint.
type IPReputationResponse struct {
	Response
	FraudScore         float64             `json:"fraud_score"`
	AbuseVelocity      string              `json:"abuse_velocity"`
	IsProxy            bool                `json:"proxy"`
	IsVpn              bool                `json:"vpn"`
	IsTor              bool                `json:"tor"`
	RecentAbuse        bool                `json:"recent_abuse"`
	IsCrawler          bool                `json:"isCrawler"`
	TransactionDetails *TransactionDetails `json:"transaction_details"`
}

// EmailReputationResponse is the reply of the email reputation endpoint.
type EmailReputationResponse struct {
	Response
	Valid       bool    `json:"valid"`
	Disposable  bool    `json:"disposable"`
	FraudScore  float64 `json:"fraud_score"`
	RecentAbuse bool    `json:"recent_abuse"`
}

// PostbackResponse is the reply of the postback/device-fingerprint lookup.
type PostbackResponse struct {
	Response
	FraudChance float64 `json:"fraud_chance"`
}
