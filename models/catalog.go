package models

import "time"

// DietaryType tags a meal for dietary filtering.
type DietaryType string

const (
	DietaryNone       DietaryType = "NONE"
	DietaryVegetarian DietaryType = "VEGETARIAN"
	DietaryVegan      DietaryType = "VEGAN"
	DietaryGlutenFree DietaryType = "GLUTEN_FREE"
	DietaryHalal      DietaryType = "HALAL"
)

type Category struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"uniqueIndex;not null"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	Meals       []Meal    `json:"meals,omitempty" gorm:"foreignKey:CategoryID"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Meal struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	ProviderID  uint        `json:"provider_id" gorm:"not null;index"`
	Provider    User        `json:"provider,omitempty" gorm:"foreignKey:ProviderID"`
	CategoryID  uint        `json:"category_id" gorm:"not null;index"`
	Category    Category    `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Name        string      `json:"name" gorm:"not null"`
	Description string      `json:"description"`
	Price       float64     `json:"price" gorm:"not null"`
	ImageURL    string      `json:"image_url"`
	Ingredients string      `json:"ingredients"`
	IsAvailable bool        `json:"is_available" gorm:"default:true"`
	DietaryInfo DietaryType `json:"dietary_info" gorm:"not null;default:'NONE'"`
	PrepTime    int         `json:"prep_time" gorm:"default:30"` // minutes
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// RatedMeal decorates a meal with its review aggregate for listings.
type RatedMeal struct {
	Meal
	AvgRating   float64 `json:"avg_rating"`
	ReviewCount int     `json:"review_count"`
}
