package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"foodhub-api/middleware"
	"foodhub-api/models"
	"foodhub-api/response"
)

// ReviewHandler enforces review eligibility: one review per
// (customer, meal, order), and only for delivered orders that actually
// contained the meal.
type ReviewHandler struct {
	DB *gorm.DB
}

type CreateReviewRequest struct {
	MealID  uint   `json:"meal_id" binding:"required"`
	OrderID uint   `json:"order_id" binding:"required"`
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// Create runs the eligibility chain and inserts the review inside a
// transaction; the composite unique index turns a lost race into a
// duplicate-key error rather than a double insert.
func (h *ReviewHandler) Create(c *gin.Context) {
	customerID := middleware.GetUserID(c)

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	var review models.Review
	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		err := tx.Preload("Items").
			Where("id = ? AND customer_id = ? AND status = ?",
				req.OrderID, customerID, models.StatusDelivered).
			First(&order).Error
		if err != nil {
			return errNotDelivered
		}

		found := false
		for _, item := range order.Items {
			if item.MealID == req.MealID {
				found = true
				break
			}
		}
		if !found {
			return errMealNotInOrder
		}

		var existing models.Review
		err = tx.Where("customer_id = ? AND meal_id = ? AND order_id = ?",
			customerID, req.MealID, req.OrderID).
			First(&existing).Error
		if err == nil {
			return errAlreadyReviewed
		}

		review = models.Review{
			CustomerID: customerID,
			MealID:     req.MealID,
			OrderID:    req.OrderID,
			Rating:     req.Rating,
			Comment:    req.Comment,
		}
		return tx.Create(&review).Error
	})

	switch {
	case txErr == nil:
	case errors.Is(txErr, errNotDelivered):
		response.Error(c, http.StatusNotFound, "Order not found or not delivered yet")
		return
	case errors.Is(txErr, errMealNotInOrder):
		response.Error(c, http.StatusBadRequest, "Meal was not part of this order")
		return
	case errors.Is(txErr, errAlreadyReviewed), errors.Is(txErr, gorm.ErrDuplicatedKey):
		response.Error(c, http.StatusConflict, "You have already reviewed this meal for this order")
		return
	default:
		response.Error(c, http.StatusInternalServerError, "Failed to submit review")
		return
	}

	if err := h.DB.Preload("Customer").Preload("Meal").First(&review, review.ID).Error; err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to fetch review")
		return
	}
	response.Success(c, http.StatusCreated, review, "Review submitted successfully")
}

var (
	errNotDelivered    = errors.New("order not found or not delivered")
	errMealNotInOrder  = errors.New("meal not part of order")
	errAlreadyReviewed = errors.New("review already exists")
)

// MealReviews returns a meal's reviews, newest first.
func (h *ReviewHandler) MealReviews(c *gin.Context) {
	page, limit, offset := pageParams(c, 10)

	var total int64
	h.DB.Model(&models.Review{}).Where("meal_id = ?", c.Param("mealId")).Count(&total)

	var reviews []models.Review
	if err := h.DB.Preload("Customer").
		Where("meal_id = ?", c.Param("mealId")).
		Order("created_at desc").
		Offset(offset).Limit(limit).
		Find(&reviews).Error; err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to fetch reviews")
		return
	}

	response.Paginated(c, reviews, page, limit, total)
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating" binding:"omitempty,min=1,max=5"`
	Comment *string `json:"comment"`
}

// Update patches a review the caller authored.
func (h *ReviewHandler) Update(c *gin.Context) {
	customerID := middleware.GetUserID(c)

	var review models.Review
	err := h.DB.Where("id = ? AND customer_id = ?", c.Param("id"), customerID).First(&review).Error
	if err != nil {
		response.Error(c, http.StatusNotFound, "Review not found")
		return
	}

	var req UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	update := map[string]interface{}{}
	if req.Rating != nil {
		update["rating"] = *req.Rating
	}
	if req.Comment != nil {
		update["comment"] = *req.Comment
	}
	if len(update) > 0 {
		if err := h.DB.Model(&review).Updates(update).Error; err != nil {
			response.Error(c, http.StatusInternalServerError, "Failed to update review")
			return
		}
	}

	response.Success(c, http.StatusOK, review, "Review updated successfully")
}

// Delete removes a review the caller authored.
func (h *ReviewHandler) Delete(c *gin.Context) {
	customerID := middleware.GetUserID(c)

	var review models.Review
	err := h.DB.Where("id = ? AND customer_id = ?", c.Param("id"), customerID).First(&review).Error
	if err != nil {
		response.Error(c, http.StatusNotFound, "Review not found")
		return
	}

	if err := h.DB.Delete(&review).Error; err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to delete review")
		return
	}

	response.Success(c, http.StatusOK, nil, "Review deleted successfully")
}

// MyReviews returns everything the caller has written.
func (h *ReviewHandler) MyReviews(c *gin.Context) {
	customerID := middleware.GetUserID(c)

	var reviews []models.Review
	if err := h.DB.Preload("Meal.Provider.ProviderProfile").
		Where("customer_id = ?", customerID).
		Order("created_at desc").
		Find(&reviews).Error; err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to fetch reviews")
		return
	}

	response.Success(c, http.StatusOK, reviews, "")
}
