package models

import (
	"time"
)

// FraudDecision stores a verdict applied by the interception middleware or the
// order hook so it can be audited and surfaced in the admin UI.
type FraudDecision struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UUID      string    `json:"uuid" gorm:"uniqueIndex"`
	Check     string    `json:"check"`  // ip, email, order
	Action    string    `json:"action"` // flag, redirect, reject
	IP        string    `json:"ip"`
	RouteName string    `json:"route_name"`
	OrderID   *uint     `json:"order_id,omitempty"`
	Details   string    `json:"details" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}
