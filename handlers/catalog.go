package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"foodhub-api/models"
	"foodhub-api/response"
)

// CatalogHandler serves the public, read-only catalog: meals, categories
// and provider storefronts.
type CatalogHandler struct {
	DB *gorm.DB
}

// ListMeals returns available meals with filters and pagination.
func (h *CatalogHandler) ListMeals(c *gin.Context) {
	page, limit, offset := pageParams(c, 12)

	query := h.DB.Model(&models.Meal{}).
		Preload("Category").
		Preload("Provider.ProviderProfile")

	if categoryID := c.Query("categoryId"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}
	if providerID := c.Query("providerId"); providerID != "" {
		query = query.Where("provider_id = ?", providerID)
	}
	if dietary := c.Query("dietaryInfo"); dietary != "" {
		query = query.Where("dietary_info = ?", dietary)
	}
	if minPrice := c.Query("minPrice"); minPrice != "" {
		if v, err := strconv.ParseFloat(minPrice, 64); err == nil {
			query = query.Where("price >= ?", v)
		}
	}
	if maxPrice := c.Query("maxPrice"); maxPrice != "" {
		if v, err := strconv.ParseFloat(maxPrice, 64); err == nil {
			query = query.Where("price <= ?", v)
		}
	}
	if avail := c.Query("isAvailable"); avail != "" {
		query = query.Where("is_available = ?", avail == "true")
	}
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", like, like)
	}

	var total int64
	query.Count(&total)

	var meals []models.Meal
	if err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&meals).Error; err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to fetch meals")
		return
	}

	response.Paginated(c, rateMeals(h.DB, meals), page, limit, total)
}

// GetMeal returns one meal with its reviews and rating aggregate.
func (h *CatalogHandler) GetMeal(c *gin.Context) {
	var meal models.Meal
	err := h.DB.
		Preload("Category").
		Preload("Provider.ProviderProfile").
		First(&meal, c.Param("id")).Error
	if err != nil {
		response.Error(c, http.StatusNotFound, "Meal not found")
		return
	}

	var reviews []models.Review
	h.DB.Preload("Customer").
		Where("meal_id = ?", meal.ID).
		Order("created_at desc").
		Find(&reviews)

	var sum int
	for _, r := range reviews {
		sum += r.Rating
	}
	avg := 0.0
	if len(reviews) > 0 {
		avg = round1(float64(sum) / float64(len(reviews)))
	}

	response.Success(c, http.StatusOK, gin.H{
		"meal":         meal,
		"reviews":      reviews,
		"avg_rating":   avg,
		"review_count": len(reviews),
	}, "")
}

// MealsByProvider returns a provider's menu with rating decoration.
func (h *CatalogHandler) MealsByProvider(c *gin.Context) {
	query := h.DB.Preload("Category").
		Where("provider_id = ?", c.Param("providerId"))

	if avail := c.Query("isAvailable"); avail != "" {
		query = query.Where("is_available = ?", avail == "true")
	}
	if categoryID := c.Query("categoryId"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}

	var meals []models.Meal
	if err := query.Order("created_at desc").Find(&meals).Error; err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to fetch meals")
		return
	}

	response.Success(c, http.StatusOK, rateMeals(h.DB, meals), "")
}

// ListCategories returns all categories ordered by name, with meal counts.
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	var categories []models.Category
	if err := h.DB.Order("name asc").Find(&categories).Error; err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to fetch categories")
		return
	}

	type categoryWithCount struct {
		models.Category
		MealCount int64 `json:"meal_count"`
	}
	out := make([]categoryWithCount, 0, len(categories))
	for _, cat := range categories {
		var count int64
		h.DB.Model(&models.Meal{}).Where("category_id = ?", cat.ID).Count(&count)
		out = append(out, categoryWithCount{Category: cat, MealCount: count})
	}

	response.Success(c, http.StatusOK, out, "")
}

// GetCategory returns one category with up to 10 available meals.
func (h *CatalogHandler) GetCategory(c *gin.Context) {
	var category models.Category
	err := h.DB.
		Preload("Meals", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_available = ?", true).Limit(10).Preload("Provider.ProviderProfile")
		}).
		First(&category, c.Param("id")).Error
	if err != nil {
		response.Error(c, http.StatusNotFound, "Category not found")
		return
	}

	var count int64
	h.DB.Model(&models.Meal{}).Where("category_id = ?", category.ID).Count(&count)

	response.Success(c, http.StatusOK, gin.H{
		"category":   category,
		"meal_count": count,
	}, "")
}

// ListProviders returns active provider storefronts with search and
// cuisine filters, pagination and rating aggregates.
func (h *CatalogHandler) ListProviders(c *gin.Context) {
	page, limit, offset := pageParams(c, 12)

	query := h.DB.Model(&models.User{}).
		Select("users.*").
		Preload("ProviderProfile").
		Joins("JOIN provider_profiles ON provider_profiles.user_id = users.id").
		Where("users.role = ? AND users.status = ? AND provider_profiles.is_active = ?",
			models.RoleProvider, models.StatusActive, true)

	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("users.name LIKE ? OR provider_profiles.restaurant_name LIKE ?", like, like)
	}
	if cuisine := c.Query("cuisineType"); cuisine != "" {
		query = query.Where("provider_profiles.cuisine_type LIKE ?", "%"+cuisine+"%")
	}

	var total int64
	query.Count(&total)

	var providers []models.User
	if err := query.Offset(offset).Limit(limit).Find(&providers).Error; err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to fetch providers")
		return
	}

	type ratedProvider struct {
		models.PublicUser
		AvgRating   float64 `json:"avg_rating"`
		ReviewCount int     `json:"review_count"`
		MealCount   int64   `json:"meal_count"`
	}
	out := make([]ratedProvider, 0, len(providers))
	for _, p := range providers {
		avg, count := providerRating(h.DB, p.ID)
		var mealCount int64
		h.DB.Model(&models.Meal{}).
			Where("provider_id = ? AND is_available = ?", p.ID, true).
			Count(&mealCount)
		out = append(out, ratedProvider{
			PublicUser:  p.Public(),
			AvgRating:   avg,
			ReviewCount: count,
			MealCount:   mealCount,
		})
	}

	response.Paginated(c, out, page, limit, total)
}

// GetProvider returns one active provider with its available meals.
func (h *CatalogHandler) GetProvider(c *gin.Context) {
	var provider models.User
	err := h.DB.Preload("ProviderProfile").
		Where("id = ? AND role = ? AND status = ?",
			c.Param("id"), models.RoleProvider, models.StatusActive).
		First(&provider).Error
	if err != nil {
		response.Error(c, http.StatusNotFound, "Provider not found")
		return
	}

	var meals []models.Meal
	h.DB.Preload("Category").
		Where("provider_id = ? AND is_available = ?", provider.ID, true).
		Order("created_at desc").
		Find(&meals)

	avg, count := providerRating(h.DB, provider.ID)

	response.Success(c, http.StatusOK, gin.H{
		"provider":     provider.Public(),
		"meals":        rateMeals(h.DB, meals),
		"avg_rating":   avg,
		"review_count": count,
	}, "")
}
