package services

import (
	"fmt"
	"regexp"

	"github.com/containrrr/shoutrrr"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/cartshield/cartshield/internal/logger"
	"github.com/cartshield/cartshield/internal/models"
)

// NotificationService maintains the internal staff notification feed and
// fans events out to external shoutrrr destinations.
type NotificationService struct {
	DB *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{DB: db}
}

var discordWebhookRegex = regexp.MustCompile(`^https://discord(?:app)?\.com/api/webhooks/(\d+)/([a-zA-Z0-9_-]+)`)

// normalizeURL rewrites plain webhook URLs into shoutrrr's scheme form.
func normalizeURL(serviceType, rawURL string) string {
	if serviceType == "discord" {
		matches := discordWebhookRegex.FindStringSubmatch(rawURL)
		if len(matches) == 3 {
			return fmt.Sprintf("discord://%s@%s", matches[2], matches[1])
		}
	}
	return rawURL
}

func (s *NotificationService) Create(nType models.NotificationType, title, message string) (*models.Notification, error) {
	notification := &models.Notification{
		Type:    nType,
		Title:   title,
		Message: message,
	}
	result := s.DB.Create(notification)
	return notification, result.Error
}

func (s *NotificationService) List(unreadOnly bool) ([]models.Notification, error) {
	var notifications []models.Notification
	query := s.DB.Order("created_at desc")
	if unreadOnly {
		query = query.Where("read = ?", false)
	}
	result := query.Find(&notifications)
	return notifications, result.Error
}

func (s *NotificationService) MarkAsRead(id string) error {
	return s.DB.Model(&models.Notification{}).Where("id = ?", id).Update("read", true).Error
}

// OrderRejected records a feed entry and pushes the event to external
// destinations that opted into order events.
func (s *NotificationService) OrderRejected(order *models.Order, statusName string) {
	title := fmt.Sprintf("Order #%d rejected for fraud", order.ID)
	message := fmt.Sprintf("Order #%d was scored as fraudulent and moved to %q.", order.ID, statusName)

	if _, err := s.Create(models.NotificationTypeWarning, title, message); err != nil {
		logger.WithFields(logrus.Fields{"order_id": order.ID}).
			WithError(err).Error("failed to create fraud notification")
	}

	s.sendExternal(title, message, func(p models.NotificationProvider) bool {
		return p.NotifyOrders
	})
}

// RequestBlocked pushes a blocked-request event to external destinations that
// opted into request events. These are high-volume, so no feed entry is kept.
func (s *NotificationService) RequestBlocked(ip, routeName string) {
	title := "Suspicious request blocked"
	message := fmt.Sprintf("A request from %s to %q was blocked by IP reputation.", ip, routeName)

	s.sendExternal(title, message, func(p models.NotificationProvider) bool {
		return p.NotifyRequests
	})
}

func (s *NotificationService) sendExternal(title, message string, wants func(models.NotificationProvider) bool) {
	var providers []models.NotificationProvider
	if err := s.DB.Where("enabled = ?", true).Find(&providers).Error; err != nil {
		logger.Log().WithError(err).Error("failed to fetch notification providers")
		return
	}

	for _, provider := range providers {
		if !wants(provider) {
			continue
		}

		go func(p models.NotificationProvider) {
			url := normalizeURL(p.Type, p.URL)
			msg := fmt.Sprintf("%s\n\n%s", title, message)
			if err := shoutrrr.Send(url, msg); err != nil {
				logger.WithFields(logrus.Fields{"provider": p.Name}).
					WithError(err).Error("failed to send external notification")
			}
		}(provider)
	}
}
