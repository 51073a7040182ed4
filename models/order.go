package models

import "time"

// OrderStatus represents all possible states of an order
type OrderStatus string

const (
	StatusPending        OrderStatus = "PENDING"
	StatusConfirmed      OrderStatus = "CONFIRMED"
	StatusPreparing      OrderStatus = "PREPARING"
	StatusOutForDelivery OrderStatus = "OUT_FOR_DELIVERY"
	StatusDelivered      OrderStatus = "DELIVERED"
	StatusCancelled      OrderStatus = "CANCELLED"
)

type Order struct {
	ID              uint        `json:"id" gorm:"primaryKey"`
	CustomerID      uint        `json:"customer_id" gorm:"not null;index"`
	Customer        User        `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	ProviderID      uint        `json:"provider_id" gorm:"not null;index"`
	Provider        User        `json:"provider,omitempty" gorm:"foreignKey:ProviderID"`
	Status          OrderStatus `json:"status" gorm:"not null;default:'PENDING'"`
	TotalAmount     float64     `json:"total_amount" gorm:"not null"`
	DeliveryAddress string      `json:"delivery_address" gorm:"not null"`
	ContactPhone    string      `json:"contact_phone" gorm:"not null"`
	OrderNotes      string      `json:"order_notes"`
	Items           []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

type OrderItem struct {
	ID       uint `json:"id" gorm:"primaryKey"`
	OrderID  uint `json:"order_id" gorm:"not null;index"`
	MealID   uint `json:"meal_id" gorm:"not null"`
	Meal     Meal `json:"meal,omitempty" gorm:"foreignKey:MealID"`
	Quantity int  `json:"quantity" gorm:"not null"`
	// PriceAtOrder is frozen at order creation; later catalog price
	// changes never touch it.
	PriceAtOrder float64 `json:"price_at_order" gorm:"not null"`
}
