package models

import "time"

// Order status ids follow the host storefront's numeric scheme.
const (
	OrderStatusPending    = 10
	OrderStatusProcessing = 20
	OrderStatusComplete   = 30
	OrderStatusCancelled  = 40
)

// Customer is the slice of the host's customer record the fraud engine needs.
type Customer struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"index"`
	Username     string    `json:"username"`
	LanguageCode string    `json:"language_code" gorm:"default:'en'"`
	CreatedAt    time.Time `json:"created_at"`
}

// Address holds billing or shipping details attached to an order.
type Address struct {
	ID             uint   `json:"id" gorm:"primaryKey"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Company        string `json:"company"`
	CountryISOCode string `json:"country_iso_code"`
	Address1       string `json:"address1"`
	Address2       string `json:"address2"`
	City           string `json:"city"`
	Region         string `json:"region"`
	Postcode       string `json:"postcode"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
}

// Order mirrors the host storefront's order rows the engine reads and updates.
type Order struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	CustomerID        uint      `json:"customer_id" gorm:"index"`
	BillingAddressID  uint      `json:"billing_address_id"`
	ShippingAddressID *uint     `json:"shipping_address_id"`
	PickupInStore     bool      `json:"pickup_in_store"`
	StatusID          int       `json:"status_id" gorm:"default:10"`
	OrderTotal        float64   `json:"order_total"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// OrderItem is a purchased line with its quantity.
type OrderItem struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	OrderID   uint   `json:"order_id" gorm:"index"`
	ProductID uint   `json:"product_id"`
	Quantity  int    `json:"quantity"`
	SKU       string `json:"sku"`
}

// OrderNote is an annotation on an order, optionally shown to the customer.
type OrderNote struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	OrderID           uint      `json:"order_id" gorm:"index"`
	Note              string    `json:"note" gorm:"type:text"`
	DisplayToCustomer bool      `json:"display_to_customer"`
	CreatedAt         time.Time `json:"created_at"`
}

// OrderAttribute stores one opaque value per (order, key). The fraud report
// is persisted here as JSON.
type OrderAttribute struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	OrderID   uint      `json:"order_id" gorm:"index:idx_order_attr,unique"`
	Key       string    `json:"key" gorm:"index:idx_order_attr,unique"`
	Value     string    `json:"value" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
}
