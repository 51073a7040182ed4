package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"foodhub-api/middleware"
	"foodhub-api/models"
	"foodhub-api/response"
)

type AuthHandler struct {
	DB   *gorm.DB
	Auth *middleware.Auth
}

type RegisterRequest struct {
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required,min=6"`
	Name     string      `json:"name" binding:"required"`
	Phone    string      `json:"phone"`
	Address  string      `json:"address"`
	Role     models.Role `json:"role" binding:"required,oneof=CUSTOMER PROVIDER"`
	// Provider specific
	RestaurantName        string `json:"restaurant_name" binding:"required_if=Role PROVIDER"`
	RestaurantDescription string `json:"restaurant_description"`
	RestaurantAddress     string `json:"restaurant_address" binding:"required_if=Role PROVIDER"`
	CuisineType           string `json:"cuisine_type"`
}

// Register creates a new account, with a provider profile when the role
// is PROVIDER, and returns a session token alongside the public user.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	var existing models.User
	if err := h.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		response.Error(c, http.StatusConflict, "Email already registered")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Registration failed")
		return
	}

	user := models.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		Name:         req.Name,
		Phone:        req.Phone,
		Address:      req.Address,
		Role:         req.Role,
		Status:       models.StatusActive,
	}
	if req.Role == models.RoleProvider {
		user.ProviderProfile = &models.ProviderProfile{
			RestaurantName: req.RestaurantName,
			Description:    req.RestaurantDescription,
			Address:        req.RestaurantAddress,
			CuisineType:    req.CuisineType,
			IsActive:       true,
		}
	}

	if err := h.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			response.Error(c, http.StatusConflict, "Email already registered")
			return
		}
		log.Printf("register: %v", err)
		response.Error(c, http.StatusInternalServerError, "Registration failed")
		return
	}

	token, err := h.Auth.GenerateToken(&user)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Registration failed")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"user":  user.Public(),
		"token": token,
	}, "Registration successful")
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates a user and returns a session token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	var user models.User
	if err := h.DB.Preload("ProviderProfile").Where("email = ?", req.Email).First(&user).Error; err != nil {
		response.Error(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if user.Status == models.StatusSuspended {
		response.Error(c, http.StatusForbidden, "Account suspended. Please contact support")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		response.Error(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := h.Auth.GenerateToken(&user)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Login failed")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"user":  user.Public(),
		"token": token,
	}, "Login successful")
}

// Me returns the caller's fresh store projection.
func (h *AuthHandler) Me(c *gin.Context) {
	var user models.User
	if err := h.DB.Preload("ProviderProfile").First(&user, middleware.GetUserID(c)).Error; err != nil {
		response.Error(c, http.StatusNotFound, "User not found")
		return
	}
	response.Success(c, http.StatusOK, user.Public(), "")
}

type UpdateProfileRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// UpdateProfile applies only the fields present in the request.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	var user models.User
	if err := h.DB.First(&user, middleware.GetUserID(c)).Error; err != nil {
		response.Error(c, http.StatusNotFound, "User not found")
		return
	}

	update := map[string]interface{}{}
	if req.Name != nil {
		update["name"] = *req.Name
	}
	if req.Phone != nil {
		update["phone"] = *req.Phone
	}
	if req.Address != nil {
		update["address"] = *req.Address
	}
	if len(update) > 0 {
		if err := h.DB.Model(&user).Updates(update).Error; err != nil {
			response.Error(c, http.StatusInternalServerError, "Failed to update profile")
			return
		}
	}

	if err := h.DB.Preload("ProviderProfile").First(&user, user.ID).Error; err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to fetch profile")
		return
	}
	response.Success(c, http.StatusOK, user.Public(), "Profile updated successfully")
}

type UpdateProviderProfileRequest struct {
	RestaurantName *string `json:"restaurant_name"`
	Description    *string `json:"description"`
	Address        *string `json:"address"`
	OpeningHours   *string `json:"opening_hours"`
	ClosingHours   *string `json:"closing_hours"`
	CuisineType    *string `json:"cuisine_type"`
	ImageURL       *string `json:"image_url"`
}

// UpdateProviderProfile upserts the caller's restaurant profile with
// patch semantics.
func (h *AuthHandler) UpdateProviderProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req UpdateProviderProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	var profile models.ProviderProfile
	err := h.DB.Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		profile = models.ProviderProfile{UserID: userID, RestaurantName: "My Restaurant", IsActive: true}
		if req.RestaurantName != nil {
			profile.RestaurantName = *req.RestaurantName
		}
		if req.Description != nil {
			profile.Description = *req.Description
		}
		if req.Address != nil {
			profile.Address = *req.Address
		}
		if req.OpeningHours != nil {
			profile.OpeningHours = *req.OpeningHours
		}
		if req.ClosingHours != nil {
			profile.ClosingHours = *req.ClosingHours
		}
		if req.CuisineType != nil {
			profile.CuisineType = *req.CuisineType
		}
		if req.ImageURL != nil {
			profile.ImageURL = *req.ImageURL
		}
		if err := h.DB.Create(&profile).Error; err != nil {
			response.Error(c, http.StatusInternalServerError, "Failed to update provider profile")
			return
		}
		response.Success(c, http.StatusOK, profile, "Provider profile updated successfully")
		return
	} else if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to update provider profile")
		return
	}

	update := map[string]interface{}{}
	if req.RestaurantName != nil {
		update["restaurant_name"] = *req.RestaurantName
	}
	if req.Description != nil {
		update["description"] = *req.Description
	}
	if req.Address != nil {
		update["address"] = *req.Address
	}
	if req.OpeningHours != nil {
		update["opening_hours"] = *req.OpeningHours
	}
	if req.ClosingHours != nil {
		update["closing_hours"] = *req.ClosingHours
	}
	if req.CuisineType != nil {
		update["cuisine_type"] = *req.CuisineType
	}
	if req.ImageURL != nil {
		update["image_url"] = *req.ImageURL
	}
	if len(update) > 0 {
		if err := h.DB.Model(&profile).Updates(update).Error; err != nil {
			response.Error(c, http.StatusInternalServerError, "Failed to update provider profile")
			return
		}
	}

	response.Success(c, http.StatusOK, profile, "Provider profile updated successfully")
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

// ChangePassword verifies the current credential before replacing it.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	var user models.User
	if err := h.DB.First(&user, middleware.GetUserID(c)).Error; err != nil {
		response.Error(c, http.StatusNotFound, "User not found")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		response.Error(c, http.StatusBadRequest, "Current password is incorrect")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to change password")
		return
	}

	if err := h.DB.Model(&user).Update("password_hash", string(hash)).Error; err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to change password")
		return
	}

	response.Success(c, http.StatusOK, nil, "Password changed successfully")
}
