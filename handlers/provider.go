package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"foodhub-api/middleware"
	"foodhub-api/models"
	"foodhub-api/response"
	"foodhub-api/statemachine"
)

// ProviderHandler owns meal management and the provider side of the
// order lifecycle.
type ProviderHandler struct {
	DB *gorm.DB
}

type CreateMealRequest struct {
	CategoryID  uint                `json:"category_id" binding:"required"`
	Name        string              `json:"name" binding:"required"`
	Description string              `json:"description" binding:"required"`
	Price       float64             `json:"price" binding:"required,gt=0"`
	ImageURL    string              `json:"image_url"`
	Ingredients string              `json:"ingredients"`
	IsAvailable *bool               `json:"is_available"`
	DietaryInfo *models.DietaryType `json:"dietary_info" binding:"omitempty,oneof=NONE VEGETARIAN VEGAN GLUTEN_FREE HALAL"`
	PrepTime    *int                `json:"prep_time"`
}

// CreateMeal adds a meal to the caller's menu.
func (h *ProviderHandler) CreateMeal(c *gin.Context) {
	providerID := middleware.GetUserID(c)

	var req CreateMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	var category models.Category
	if err := h.DB.First(&category, req.CategoryID).Error; err != nil {
		response.Error(c, http.StatusNotFound, "Category not found")
		return
	}

	meal := models.Meal{
		ProviderID:  providerID,
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Ingredients: req.Ingredients,
		IsAvailable: true,
		DietaryInfo: models.DietaryNone,
		PrepTime:    30,
	}
	if req.IsAvailable != nil {
		meal.IsAvailable = *req.IsAvailable
	}
	if req.DietaryInfo != nil {
		meal.DietaryInfo = *req.DietaryInfo
	}
	if req.PrepTime != nil {
		meal.PrepTime = *req.PrepTime
	}

	if err := h.DB.Create(&meal).Error; err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to create meal")
		return
	}

	if err := h.DB.Preload("Category").First(&meal, meal.ID).Error; err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to fetch meal")
		return
	}
	response.Success(c, http.StatusCreated, meal, "Meal created successfully")
}

type UpdateMealRequest struct {
	CategoryID  *uint               `json:"category_id"`
	Name        *string             `json:"name"`
	Description *string             `json:"description"`
	Price       *float64            `json:"price" binding:"omitempty,gt=0"`
	ImageURL    *string             `json:"image_url"`
	Ingredients *string             `json:"ingredients"`
	IsAvailable *bool               `json:"is_available"`
	DietaryInfo *models.DietaryType `json:"dietary_info" binding:"omitempty,oneof=NONE VEGETARIAN VEGAN GLUTEN_FREE HALAL"`
	PrepTime    *int                `json:"prep_time"`
}

// UpdateMeal patches a meal the caller owns; only supplied fields change.
func (h *ProviderHandler) UpdateMeal(c *gin.Context) {
	providerID := middleware.GetUserID(c)

	var meal models.Meal
	err := h.DB.Where("id = ? AND provider_id = ?", c.Param("id"), providerID).First(&meal).Error
	if err != nil {
		response.Error(c, http.StatusNotFound, "Meal not found or access denied")
		return
	}

	var req UpdateMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	if req.CategoryID != nil {
		var category models.Category
		if err := h.DB.First(&category, *req.CategoryID).Error; err != nil {
			response.Error(c, http.StatusNotFound, "Category not found")
			return
		}
	}

	update := map[string]interface{}{}
	if req.CategoryID != nil {
		update["category_id"] = *req.CategoryID
	}
	if req.Name != nil {
		update["name"] = *req.Name
	}
	if req.Description != nil {
		update["description"] = *req.Description
	}
	if req.Price != nil {
		update["price"] = *req.Price
	}
	if req.ImageURL != nil {
		update["image_url"] = *req.ImageURL
	}
	if req.Ingredients != nil {
		update["ingredients"] = *req.Ingredients
	}
	if req.IsAvailable != nil {
		update["is_available"] = *req.IsAvailable
	}
	if req.DietaryInfo != nil {
		update["dietary_info"] = *req.DietaryInfo
	}
	if req.PrepTime != nil {
		update["prep_time"] = *req.PrepTime
	}
	if len(update) > 0 {
		if err := h.DB.Model(&meal).Updates(update).Error; err != nil {
			response.Error(c, http.StatusInternalServerError, "Failed to update meal")
			return
		}
	}

	if err := h.DB.Preload("Category").First(&meal, meal.ID).Error; err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to fetch meal")
		return
	}
	response.Success(c, http.StatusOK, meal, "Meal updated successfully")
}

// DeleteMeal removes a meal the caller owns.
func (h *ProviderHandler) DeleteMeal(c *gin.Context) {
	providerID := middleware.GetUserID(c)

	var meal models.Meal
	err := h.DB.Where("id = ? AND provider_id = ?", c.Param("id"), providerID).First(&meal).Error
	if err != nil {
		response.Error(c, http.StatusNotFound, "Meal not found or access denied")
		return
	}

	if err := h.DB.Delete(&meal).Error; err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to delete meal")
		return
	}

	response.Success(c, http.StatusOK, nil, "Meal deleted successfully")
}

// ToggleMealAvailability flips a meal's availability flag.
func (h *ProviderHandler) ToggleMealAvailability(c *gin.Context) {
	providerID := middleware.GetUserID(c)

	var meal models.Meal
	err := h.DB.Where("id = ? AND provider_id = ?", c.Param("id"), providerID).First(&meal).Error
	if err != nil {
		response.Error(c, http.StatusNotFound, "Meal not found or access denied")
		return
	}

	if err := h.DB.Model(&meal).Update("is_available", !meal.IsAvailable).Error; err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to toggle availability")
		return
	}

	msg := "Meal is now unavailable"
	if meal.IsAvailable {
		msg = "Meal is now available"
	}
	response.Success(c, http.StatusOK, meal, msg)
}

// ListMeals returns the caller's menu, paginated and rating-decorated.
func (h *ProviderHandler) ListMeals(c *gin.Context) {
	providerID := middleware.GetUserID(c)
	page, limit, offset := pageParams(c, 20)

	var total int64
	h.DB.Model(&models.Meal{}).Where("provider_id = ?", providerID).Count(&total)

	var meals []models.Meal
	if err := h.DB.Preload("Category").
		Where("provider_id = ?", providerID).
		Order("created_at desc").
		Offset(offset).Limit(limit).
		Find(&meals).Error; err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to fetch meals")
		return
	}

	response.Paginated(c, rateMeals(h.DB, meals), page, limit, total)
}

// ListOrders returns orders placed with the caller.
func (h *ProviderHandler) ListOrders(c *gin.Context) {
	providerID := middleware.GetUserID(c)
	page, limit, offset := pageParams(c, 20)

	query := h.DB.Model(&models.Order{}).Where("provider_id = ?", providerID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var orders []models.Order
	if err := query.
		Preload("Customer").
		Preload("Items.Meal").
		Order("created_at desc").
		Offset(offset).Limit(limit).
		Find(&orders).Error; err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}

	response.Paginated(c, orders, page, limit, total)
}

// GetOrder returns one of the caller's orders; the ownership filter
// makes foreign orders indistinguishable from missing ones.
func (h *ProviderHandler) GetOrder(c *gin.Context) {
	providerID := middleware.GetUserID(c)

	var order models.Order
	err := h.DB.
		Preload("Customer").
		Preload("Items.Meal").
		Where("id = ? AND provider_id = ?", c.Param("id"), providerID).
		First(&order).Error
	if err != nil {
		response.Error(c, http.StatusNotFound, "Order not found")
		return
	}

	response.Success(c, http.StatusOK, order, "")
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required,oneof=CONFIRMED PREPARING OUT_FOR_DELIVERY DELIVERED CANCELLED"`
}

// UpdateOrderStatus moves an order through the lifecycle. The transition
// table is the only authority on which moves are legal.
func (h *ProviderHandler) UpdateOrderStatus(c *gin.Context) {
	providerID := middleware.GetUserID(c)

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	var order models.Order
	err := h.DB.Where("id = ? AND provider_id = ?", c.Param("id"), providerID).First(&order).Error
	if err != nil {
		response.Error(c, http.StatusNotFound, "Order not found or access denied")
		return
	}

	if err := statemachine.CanTransition(order.Status, req.Status); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.DB.Model(&order).Update("status", req.Status).Error; err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to update order status")
		return
	}

	if err := h.DB.Preload("Items.Meal").First(&order, order.ID).Error; err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to fetch order")
		return
	}
	response.Success(c, http.StatusOK, order, "Order status updated to "+string(req.Status))
}

// Stats aggregates the caller's order, revenue and rating numbers.
func (h *ProviderHandler) Stats(c *gin.Context) {
	providerID := middleware.GetUserID(c)

	var totalOrders, pendingOrders, completedOrders, totalMeals int64
	h.DB.Model(&models.Order{}).Where("provider_id = ?", providerID).Count(&totalOrders)
	h.DB.Model(&models.Order{}).
		Where("provider_id = ? AND status IN ?", providerID,
			[]models.OrderStatus{models.StatusPending, models.StatusConfirmed, models.StatusPreparing}).
		Count(&pendingOrders)
	h.DB.Model(&models.Order{}).
		Where("provider_id = ? AND status = ?", providerID, models.StatusDelivered).
		Count(&completedOrders)
	h.DB.Model(&models.Meal{}).Where("provider_id = ?", providerID).Count(&totalMeals)

	var revenue struct{ Total float64 }
	h.DB.Model(&models.Order{}).
		Where("provider_id = ? AND status = ?", providerID, models.StatusDelivered).
		Select("coalesce(sum(total_amount), 0) as total").
		Scan(&revenue)

	avgRating, _ := providerRating(h.DB, providerID)

	var recentOrders []models.Order
	h.DB.Preload("Customer").Preload("Items").
		Where("provider_id = ?", providerID).
		Order("created_at desc").
		Limit(5).
		Find(&recentOrders)

	type recentOrder struct {
		models.Order
		ItemCount int `json:"item_count"`
	}
	recent := make([]recentOrder, 0, len(recentOrders))
	for _, o := range recentOrders {
		count := 0
		for _, item := range o.Items {
			count += item.Quantity
		}
		recent = append(recent, recentOrder{Order: o, ItemCount: count})
	}

	type topMeal struct {
		MealID    uint    `json:"meal_id"`
		Name      string  `json:"name"`
		ImageURL  string  `json:"image_url"`
		Price     float64 `json:"price"`
		TotalSold int     `json:"total_sold"`
	}
	var topMeals []topMeal
	h.DB.Table("order_items").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN meals ON meals.id = order_items.meal_id").
		Where("orders.provider_id = ? AND orders.status = ?", providerID, models.StatusDelivered).
		Select("order_items.meal_id as meal_id, meals.name as name, meals.image_url as image_url, meals.price as price, sum(order_items.quantity) as total_sold").
		Group("order_items.meal_id, meals.name, meals.image_url, meals.price").
		Order("total_sold desc").
		Limit(5).
		Scan(&topMeals)

	response.Success(c, http.StatusOK, gin.H{
		"total_orders":     totalOrders,
		"pending_orders":   pendingOrders,
		"completed_orders": completedOrders,
		"total_revenue":    revenue.Total,
		"total_meals":      totalMeals,
		"avg_rating":       avgRating,
		"recent_orders":    recent,
		"top_meals":        topMeals,
	}, "")
}

// ListReviews returns reviews left on the caller's meals.
func (h *ProviderHandler) ListReviews(c *gin.Context) {
	providerID := middleware.GetUserID(c)
	page, limit, offset := pageParams(c, 20)

	base := h.DB.Model(&models.Review{}).
		Joins("JOIN meals ON meals.id = reviews.meal_id").
		Where("meals.provider_id = ?", providerID)

	var total int64
	base.Count(&total)

	var reviews []models.Review
	if err := base.
		Select("reviews.*").
		Preload("Customer").
		Preload("Meal").
		Order("reviews.created_at desc").
		Offset(offset).Limit(limit).
		Find(&reviews).Error; err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to fetch reviews")
		return
	}

	response.Paginated(c, reviews, page, limit, total)
}
