package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"foodhub-api/middleware"
	"foodhub-api/models"
	"foodhub-api/response"
)

// OrderHandler owns the customer side of the order lifecycle.
type OrderHandler struct {
	DB *gorm.DB
}

type CreateOrderRequest struct {
	Items []struct {
		MealID   uint `json:"meal_id" binding:"required"`
		Quantity int  `json:"quantity" binding:"required,min=1"`
	} `json:"items" binding:"required,min=1,dive"`
	DeliveryAddress string `json:"delivery_address" binding:"required"`
	ContactPhone    string `json:"contact_phone" binding:"required"`
	OrderNotes      string `json:"order_notes"`
}

// Create places a new order. Every requested meal must exist and be
// available, and all meals must belong to one provider. Item prices are
// snapshotted; order and items are written in one transaction.
func (h *OrderHandler) Create(c *gin.Context) {
	customerID := middleware.GetUserID(c)

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	mealIDs := make([]uint, 0, len(req.Items))
	for _, item := range req.Items {
		mealIDs = append(mealIDs, item.MealID)
	}

	var meals []models.Meal
	if err := h.DB.Where("id IN ? AND is_available = ?", mealIDs, true).Find(&meals).Error; err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to place order")
		return
	}
	if len(meals) != len(req.Items) {
		response.Error(c, http.StatusBadRequest, "Some meals are not available")
		return
	}

	byID := make(map[uint]models.Meal, len(meals))
	providerIDs := map[uint]bool{}
	for _, m := range meals {
		byID[m.ID] = m
		providerIDs[m.ProviderID] = true
	}
	if len(providerIDs) != 1 {
		response.Error(c, http.StatusBadRequest, "All items must be from the same provider")
		return
	}

	var total float64
	items := make([]models.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		meal := byID[item.MealID]
		total += meal.Price * float64(item.Quantity)
		items = append(items, models.OrderItem{
			MealID:       meal.ID,
			Quantity:     item.Quantity,
			PriceAtOrder: meal.Price,
		})
	}

	order := models.Order{
		CustomerID:      customerID,
		ProviderID:      meals[0].ProviderID,
		Status:          models.StatusPending,
		TotalAmount:     total,
		DeliveryAddress: req.DeliveryAddress,
		ContactPhone:    req.ContactPhone,
		OrderNotes:      req.OrderNotes,
		Items:           items,
	}

	// Order and items land together or not at all.
	if err := h.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&order).Error
	}); err != nil {
		log.Printf("create order: %v", err)
		response.Error(c, http.StatusInternalServerError, "Failed to place order")
		return
	}

	if err := h.DB.Preload("Items.Meal").Preload("Provider.ProviderProfile").First(&order, order.ID).Error; err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to fetch order")
		return
	}
	response.Success(c, http.StatusCreated, order, "Order placed successfully")
}

// ListMine returns the caller's orders, optionally filtered by status.
func (h *OrderHandler) ListMine(c *gin.Context) {
	customerID := middleware.GetUserID(c)
	page, limit, offset := pageParams(c, 10)

	query := h.DB.Model(&models.Order{}).Where("customer_id = ?", customerID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var orders []models.Order
	if err := query.
		Preload("Items.Meal").
		Preload("Provider.ProviderProfile").
		Order("created_at desc").
		Offset(offset).Limit(limit).
		Find(&orders).Error; err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}

	response.Paginated(c, orders, page, limit, total)
}

// Get returns a single order. Customers see only their own orders,
// providers only orders placed with them.
func (h *OrderHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)
	role := middleware.GetRole(c)

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

	if role == models.RoleCustomer && order.CustomerID != userID {
		response.Error(c, http.StatusForbidden, "Access denied")
		return
	}
	if role == models.RoleProvider && order.ProviderID != userID {
		response.Error(c, http.StatusForbidden, "Access denied")
		return
	}

	response.Success(c, http.StatusOK, order, "")
}

// Cancel lets a customer cancel their own order while it is still
// PENDING. Once the provider has confirmed, cancellation belongs to the
// provider-side transition table.
func (h *OrderHandler) Cancel(c *gin.Context) {
	customerID := middleware.GetUserID(c)

	var order models.Order
	err := h.DB.Where("id = ? AND customer_id = ?", c.Param("id"), customerID).First(&order).Error
	if err != nil {
		response.Error(c, http.StatusNotFound, "Order not found")
		return
	}

	if order.Status != models.StatusPending {
		response.Error(c, http.StatusBadRequest, "Only pending orders can be cancelled")
		return
	}

	if err := h.DB.Model(&order).Update("status", models.StatusCancelled).Error; err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to cancel order")
		return
	}

	response.Success(c, http.StatusOK, order, "Order cancelled successfully")
}
