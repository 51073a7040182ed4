package handlers

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"foodhub-api/models"
)

// maxPageLimit bounds the per-page size callers may request.
const maxPageLimit = 100

// pageParams reads page/limit query values, clamping to sane bounds.
func pageParams(c *gin.Context, defaultLimit int) (page, limit, offset int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit, (page - 1) * limit
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}

type ratingAgg struct {
	MealID uint
	Avg    float64
	Cnt    int
}

// rateMeals decorates meals with their review average and count.
func rateMeals(db *gorm.DB, meals []models.Meal) []models.RatedMeal {
	rated := make([]models.RatedMeal, 0, len(meals))
	if len(meals) == 0 {
		return rated
	}

	ids := make([]uint, 0, len(meals))
	for _, m := range meals {
		ids = append(ids, m.ID)
	}

	var aggs []ratingAgg
	db.Model(&models.Review{}).
		Select("meal_id, avg(rating) as avg, count(*) as cnt").
		Where("meal_id IN ?", ids).
		Group("meal_id").
		Scan(&aggs)

	byMeal := make(map[uint]ratingAgg, len(aggs))
	for _, a := range aggs {
		byMeal[a.MealID] = a
	}

	for _, m := range meals {
		agg := byMeal[m.ID]
		rated = append(rated, models.RatedMeal{
			Meal:        m,
			AvgRating:   round1(agg.Avg),
			ReviewCount: agg.Cnt,
		})
	}
	return rated
}

// providerRating returns the review average and count across all of a
// provider's meals.
func providerRating(db *gorm.DB, providerID uint) (float64, int) {
	var agg struct {
		Avg float64
		Cnt int
	}
	db.Table("reviews").
		Joins("JOIN meals ON meals.id = reviews.meal_id").
		Where("meals.provider_id = ?", providerID).
		Select("avg(reviews.rating) as avg, count(*) as cnt").
		Scan(&agg)
	return round1(agg.Avg), agg.Cnt
}
