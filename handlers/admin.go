package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"foodhub-api/middleware"
	"foodhub-api/models"
	"foodhub-api/response"
)

// AdminHandler provides platform oversight: user moderation, category
// management, review moderation and cross-cutting reads.
type AdminHandler struct {
	DB *gorm.DB
}

// ListUsers returns users with role/status/search filters.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, limit, offset := pageParams(c, 20)

	query := h.DB.Model(&models.User{}).Preload("ProviderProfile")
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR email LIKE ?", like, like)
	}

	var total int64
	query.Count(&total)

	var users []models.User
	if err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to fetch users")
		return
	}

	type userRow struct {
		models.PublicUser
		CustomerOrders int64 `json:"customer_orders"`
		ProviderOrders int64 `json:"provider_orders"`
	}
	out := make([]userRow, 0, len(users))
	for _, u := range users {
		var asCustomer, asProvider int64
		h.DB.Model(&models.Order{}).Where("customer_id = ?", u.ID).Count(&asCustomer)
		h.DB.Model(&models.Order{}).Where("provider_id = ?", u.ID).Count(&asProvider)
		out = append(out, userRow{
			PublicUser:     u.Public(),
			CustomerOrders: asCustomer,
			ProviderOrders: asProvider,
		})
	}

	response.Paginated(c, out, page, limit, total)
}

// GetUser returns a single user with entity counts.
func (h *AdminHandler) GetUser(c *gin.Context) {
	var user models.User
	if err := h.DB.Preload("ProviderProfile").First(&user, c.Param("id")).Error; err != nil {
		response.Error(c, http.StatusNotFound, "User not found")
		return
	}

	var customerOrders, providerOrders, meals, reviews int64
	h.DB.Model(&models.Order{}).Where("customer_id = ?", user.ID).Count(&customerOrders)
	h.DB.Model(&models.Order{}).Where("provider_id = ?", user.ID).Count(&providerOrders)
	h.DB.Model(&models.Meal{}).Where("provider_id = ?", user.ID).Count(&meals)
	h.DB.Model(&models.Review{}).Where("customer_id = ?", user.ID).Count(&reviews)

	response.Success(c, http.StatusOK, gin.H{
		"user": user.Public(),
		"counts": gin.H{
			"customer_orders": customerOrders,
			"provider_orders": providerOrders,
			"meals":           meals,
			"reviews":         reviews,
		},
	}, "")
}

type UpdateUserStatusRequest struct {
	Status models.UserStatus `json:"status" binding:"required,oneof=ACTIVE SUSPENDED"`
}

// UpdateUserStatus suspends or reactivates an account. Admins may not
// touch their own status or another admin's.
func (h *AdminHandler) UpdateUserStatus(c *gin.Context) {
	actingAdminID := middleware.GetUserID(c)

	var req UpdateUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	var user models.User
	if err := h.DB.First(&user, c.Param("id")).Error; err != nil {
		response.Error(c, http.StatusNotFound, "User not found")
		return
	}

	if user.ID == actingAdminID {
		response.Error(c, http.StatusBadRequest, "Cannot modify your own status")
		return
	}
	if user.Role == models.RoleAdmin {
		response.Error(c, http.StatusBadRequest, "Cannot modify admin status")
		return
	}

	if err := h.DB.Model(&user).Update("status", req.Status).Error; err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to update user status")
		return
	}

	response.Success(c, http.StatusOK, user.Public(), "User status updated to "+string(req.Status))
}

// DeleteUser removes an account along with its provider profile and
// meals. Self-deletion and admin targets are rejected.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	actingAdminID := middleware.GetUserID(c)

	var user models.User
	if err := h.DB.First(&user, c.Param("id")).Error; err != nil {
		response.Error(c, http.StatusNotFound, "User not found")
		return
	}

	if user.ID == actingAdminID {
		response.Error(c, http.StatusBadRequest, "Cannot delete your own account")
		return
	}
	if user.Role == models.RoleAdmin {
		response.Error(c, http.StatusBadRequest, "Cannot delete admin accounts")
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("provider_id = ?", user.ID).Delete(&models.Meal{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.ProviderProfile{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to delete user")
		return
	}

	response.Success(c, http.StatusOK, nil, "User deleted successfully")
}

// ListOrders returns all orders with status/provider/customer filters.
func (h *AdminHandler) ListOrders(c *gin.Context) {
	page, limit, offset := pageParams(c, 20)

	query := h.DB.Model(&models.Order{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if providerID := c.Query("providerId"); providerID != "" {
		query = query.Where("provider_id = ?", providerID)
	}
	if customerID := c.Query("customerId"); customerID != "" {
		query = query.Where("customer_id = ?", customerID)
	}

	var total int64
	query.Count(&total)

	var orders []models.Order
	if err := query.
		Preload("Customer").
		Preload("Provider.ProviderProfile").
		Order("created_at desc").
		Offset(offset).Limit(limit).
		Find(&orders).Error; err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}

	response.Paginated(c, orders, page, limit, total)
}

// GetOrder returns any order in full detail; admins bypass ownership.
func (h *AdminHandler) GetOrder(c *gin.Context) {
	var order models.Order
	err := h.DB.
		Preload("Customer").
		Preload("Provider.ProviderProfile").
		Preload("Items.Meal").
		First(&order, c.Param("id")).Error
	if err != nil {
		response.Error(c, http.StatusNotFound, "Order not found")
		return
	}

	response.Success(c, http.StatusOK, order, "")
}

type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

// CreateCategory adds a meal category; names are unique.
func (h *AdminHandler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	var existing models.Category
	if err := h.DB.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		response.Error(c, http.StatusConflict, "Category already exists")
		return
	}

	category := models.Category{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	}
	if err := h.DB.Create(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			response.Error(c, http.StatusConflict, "Category already exists")
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to create category")
		return
	}

	response.Success(c, http.StatusCreated, category, "Category created successfully")
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
}

// UpdateCategory patches a category.
func (h *AdminHandler) UpdateCategory(c *gin.Context) {
	var category models.Category
	if err := h.DB.First(&category, c.Param("id")).Error; err != nil {
		response.Error(c, http.StatusNotFound, "Category not found")
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	update := map[string]interface{}{}
	if req.Name != nil {
		update["name"] = *req.Name
	}
	if req.Description != nil {
		update["description"] = *req.Description
	}
	if req.ImageURL != nil {
		update["image_url"] = *req.ImageURL
	}
	if len(update) > 0 {
		if err := h.DB.Model(&category).Updates(update).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				response.Error(c, http.StatusConflict, "Category already exists")
				return
			}
			response.Error(c, http.StatusInternalServerError, "Failed to update category")
			return
		}
	}

	response.Success(c, http.StatusOK, category, "Category updated successfully")
}

// DeleteCategory removes a category unless meals still reference it.
func (h *AdminHandler) DeleteCategory(c *gin.Context) {
	var category models.Category
	if err := h.DB.First(&category, c.Param("id")).Error; err != nil {
		response.Error(c, http.StatusNotFound, "Category not found")
		return
	}

	var mealCount int64
	h.DB.Model(&models.Meal{}).Where("category_id = ?", category.ID).Count(&mealCount)
	if mealCount > 0 {
		response.Error(c, http.StatusBadRequest,
			fmt.Sprintf("Cannot delete category with %d meals. Reassign meals first.", mealCount))
		return
	}

	if err := h.DB.Delete(&category).Error; err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to delete category")
		return
	}

	response.Success(c, http.StatusOK, nil, "Category deleted successfully")
}

// ListReviews returns every review for moderation.
func (h *AdminHandler) ListReviews(c *gin.Context) {
	page, limit, offset := pageParams(c, 20)

	var total int64
	h.DB.Model(&models.Review{}).Count(&total)

	var reviews []models.Review
	if err := h.DB.
		Preload("Customer").
		Preload("Meal.Provider.ProviderProfile").
		Order("created_at desc").
		Offset(offset).Limit(limit).
		Find(&reviews).Error; err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to fetch reviews")
		return
	}

	response.Paginated(c, reviews, page, limit, total)
}

// DeleteReview removes any review (moderation path; no ownership check).
func (h *AdminHandler) DeleteReview(c *gin.Context) {
	var review models.Review
	if err := h.DB.First(&review, c.Param("id")).Error; err != nil {
		response.Error(c, http.StatusNotFound, "Review not found")
		return
	}

	if err := h.DB.Delete(&review).Error; err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to delete review")
		return
	}

	response.Success(c, http.StatusOK, nil, "Review deleted successfully")
}

// Stats aggregates platform-wide counts, revenue and top providers.
func (h *AdminHandler) Stats(c *gin.Context) {
	countUsers := func(where string, args ...interface{}) int64 {
		var n int64
		q := h.DB.Model(&models.User{})
		if where != "" {
			q = q.Where(where, args...)
		}
		q.Count(&n)
		return n
	}
	countOrders := func(where string, args ...interface{}) int64 {
		var n int64
		q := h.DB.Model(&models.Order{})
		if where != "" {
			q = q.Where(where, args...)
		}
		q.Count(&n)
		return n
	}

	var totalMeals, totalCategories, totalReviews int64
	h.DB.Model(&models.Meal{}).Count(&totalMeals)
	h.DB.Model(&models.Category{}).Count(&totalCategories)
	h.DB.Model(&models.Review{}).Count(&totalReviews)

	var revenue struct{ Total float64 }
	h.DB.Model(&models.Order{}).
		Where("status = ?", models.StatusDelivered).
		Select("coalesce(sum(total_amount), 0) as total").
		Scan(&revenue)

	var recentOrders []models.Order
	h.DB.Preload("Customer").Preload("Provider.ProviderProfile").
		Order("created_at desc").
		Limit(10).
		Find(&recentOrders)

	type topProvider struct {
		ProviderID     uint    `json:"provider_id"`
		RestaurantName string  `json:"restaurant_name"`
		TotalOrders    int     `json:"total_orders"`
		TotalRevenue   float64 `json:"total_revenue"`
	}
	var topProviders []topProvider
	h.DB.Table("orders").
		Joins("JOIN provider_profiles ON provider_profiles.user_id = orders.provider_id").
		Where("orders.status = ?", models.StatusDelivered).
		Select("orders.provider_id as provider_id, provider_profiles.restaurant_name as restaurant_name, count(*) as total_orders, sum(orders.total_amount) as total_revenue").
		Group("orders.provider_id, provider_profiles.restaurant_name").
		Order("total_revenue desc").
		Limit(5).
		Scan(&topProviders)

	response.Success(c, http.StatusOK, gin.H{
		"users": gin.H{
			"total":     countUsers(""),
			"customers": countUsers("role = ?", models.RoleCustomer),
			"providers": countUsers("role = ?", models.RoleProvider),
			"active":    countUsers("status = ?", models.StatusActive),
			"suspended": countUsers("status = ?", models.StatusSuspended),
		},
		"orders": gin.H{
			"total": countOrders(""),
			"pending": countOrders("status IN ?",
				[]models.OrderStatus{models.StatusPending, models.StatusConfirmed, models.StatusPreparing}),
			"delivered": countOrders("status = ?", models.StatusDelivered),
			"cancelled": countOrders("status = ?", models.StatusCancelled),
		},
		"revenue":       revenue.Total,
		"meals":         totalMeals,
		"categories":    totalCategories,
		"reviews":       totalReviews,
		"recent_orders": recentOrders,
		"top_providers": topProviders,
	}, "")
}
