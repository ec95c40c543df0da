package services

import (
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/cartshield/cartshield/internal/logger"
	"github.com/cartshield/cartshield/internal/models"
)

// OrderService is the host-side order persistence the fraud engine consumes.
type OrderService struct {
	DB *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{DB: db}
}

func (s *OrderService) OrderByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := s.DB.First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *OrderService) CustomerByID(id uint) (*models.Customer, error) {
	var customer models.Customer
	if err := s.DB.First(&customer, id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (s *OrderService) AddressByID(id uint) (*models.Address, error) {
	var address models.Address
	if err := s.DB.First(&address, id).Error; err != nil {
		return nil, err
	}
	return &address, nil
}

func (s *OrderService) OrderItems(orderID uint) ([]models.OrderItem, error) {
	var items []models.OrderItem
	if err := s.DB.Where("order_id = ?", orderID).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// SetOrderStatus persists the new status and runs the status-change hooks the
// storefront expects (currently just audit logging).
func (s *OrderService) SetOrderStatus(order *models.Order, statusID int) error {
	previous := order.StatusID
	order.StatusID = statusID

	if err := s.DB.Model(order).Update("status_id", statusID).Error; err != nil {
		order.StatusID = previous
		return err
	}

	logger.WithFields(logrus.Fields{
		"order_id": order.ID,
		"from":     previous,
		"to":       statusID,
	}).Info("order status changed")

	return nil
}

func (s *OrderService) InsertOrderNote(note *models.OrderNote) error {
	return s.DB.Create(note).Error
}

// OrderNotes lists an order's notes, newest first.
func (s *OrderService) OrderNotes(orderID uint) ([]models.OrderNote, error) {
	var notes []models.OrderNote
	err := s.DB.Where("order_id = ?", orderID).Order("created_at desc").Find(&notes).Error
	return notes, err
}
