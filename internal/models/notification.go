package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationTypeInfo    NotificationType = "info"
	NotificationTypeWarning NotificationType = "warning"
	NotificationTypeError   NotificationType = "error"
)

// Notification is an internal feed entry for store staff (e.g. "order 42
// rejected for fraud").
type Notification struct {
	ID        string           `gorm:"primaryKey" json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return
}

// NotificationProvider is an external destination (shoutrrr URL) that fraud
// events are pushed to.
type NotificationProvider struct {
	ID             string    `gorm:"primaryKey" json:"id"`
	Name           string    `json:"name"`
	Type           string    `json:"type"` // discord, slack, telegram, generic shoutrrr
	URL            string    `json:"url"`
	Enabled        bool      `json:"enabled" gorm:"default:true"`
	NotifyOrders   bool      `json:"notify_orders" gorm:"default:true"`
	NotifyRequests bool      `json:"notify_requests"`
	CreatedAt      time.Time `json:"created_at"`
}

func (p *NotificationProvider) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return
}
