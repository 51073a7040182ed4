package models

import "time"

// Review is unique per (customer, meal, order); the composite index makes
// the check-then-insert race collapse into a duplicate-key error.
type Review struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	CustomerID uint      `json:"customer_id" gorm:"not null;uniqueIndex:idx_review_once"`
	MealID     uint      `json:"meal_id" gorm:"not null;uniqueIndex:idx_review_once"`
	OrderID    uint      `json:"order_id" gorm:"not null;uniqueIndex:idx_review_once"`
	Customer   User      `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Meal       Meal      `json:"meal,omitempty" gorm:"foreignKey:MealID"`
	Rating     int       `json:"rating" gorm:"not null"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
