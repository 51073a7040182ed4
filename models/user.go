package models

import (
	"time"
)

// Role defines allowed roles in the system
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleProvider Role = "PROVIDER"
	RoleAdmin    Role = "ADMIN"
)

// UserStatus is the account standing; suspended accounts cannot log in
// and previously issued tokens stop working.
type UserStatus string

const (
	StatusActive    UserStatus = "ACTIVE"
	StatusSuspended UserStatus = "SUSPENDED"
)

type User struct {
	ID              uint             `json:"id" gorm:"primaryKey"`
	Email           string           `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash    string           `json:"-" gorm:"not null"`
	Name            string           `json:"name" gorm:"not null"`
	Phone           string           `json:"phone"`
	Address         string           `json:"address"`
	Role            Role             `json:"role" gorm:"not null;default:'CUSTOMER'"`
	Status          UserStatus       `json:"status" gorm:"not null;default:'ACTIVE'"`
	ProviderProfile *ProviderProfile `json:"provider_profile,omitempty" gorm:"foreignKey:UserID"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// ProviderProfile holds the restaurant metadata of a PROVIDER user.
// Each provider owns at most one.
type ProviderProfile struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	UserID         uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	RestaurantName string    `json:"restaurant_name" gorm:"not null"`
	Description    string    `json:"description"`
	Address        string    `json:"address"`
	OpeningHours   string    `json:"opening_hours"`
	ClosingHours   string    `json:"closing_hours"`
	CuisineType    string    `json:"cuisine_type"`
	ImageURL       string    `json:"image_url"`
	IsActive       bool      `json:"is_active" gorm:"default:true"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// PublicUser is the password-free projection returned by auth endpoints.
type PublicUser struct {
	ID              uint             `json:"id"`
	Email           string           `json:"email"`
	Name            string           `json:"name"`
	Phone           string           `json:"phone,omitempty"`
	Address         string           `json:"address,omitempty"`
	Role            Role             `json:"role"`
	Status          UserStatus       `json:"status"`
	ProviderProfile *ProviderProfile `json:"provider_profile,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}

// Public strips the credential from a user record.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:              u.ID,
		Email:           u.Email,
		Name:            u.Name,
		Phone:           u.Phone,
		Address:         u.Address,
		Role:            u.Role,
		Status:          u.Status,
		ProviderProfile: u.ProviderProfile,
		CreatedAt:       u.CreatedAt,
	}
}
