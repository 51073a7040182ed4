package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"foodhub-api/handlers"
	"foodhub-api/middleware"
	"foodhub-api/models"
)

// Setup wires every route group onto the engine. The DB pool and auth
// service are constructed once in main and injected here.
func Setup(r *gin.Engine, db *gorm.DB, auth *middleware.Auth) {
	authH := &handlers.AuthHandler{DB: db, Auth: auth}
	catalogH := &handlers.CatalogHandler{DB: db}
	orderH := &handlers.OrderHandler{DB: db}
	providerH := &handlers.ProviderHandler{DB: db}
	reviewH := &handlers.ReviewHandler{DB: db}
	adminH := &handlers.AdminHandler{DB: db}

	api := r.Group("/api")

	// ── Auth ───────────────────────────────────────────────────────
	api.POST("/auth/register", authH.Register)
	api.POST("/auth/login", authH.Login)
	api.GET("/auth/me", auth.Required(), authH.Me)
	api.PUT("/auth/profile", auth.Required(), authH.UpdateProfile)
	api.PUT("/auth/change-password", auth.Required(), authH.ChangePassword)
	api.PUT("/auth/provider-profile",
		auth.Required(), middleware.RoleRequired(models.RoleProvider),
		authH.UpdateProviderProfile)

	// ── Public catalog ─────────────────────────────────────────────
	// Optional auth: anonymous and authenticated callers both pass;
	// a bad token never fails a public read.
	public := api.Group("", auth.Optional())
	{
		public.GET("/meals", catalogH.ListMeals)
		public.GET("/meals/provider/:providerId", catalogH.MealsByProvider)
		public.GET("/meals/:id", catalogH.GetMeal)
		public.GET("/categories", catalogH.ListCategories)
		public.GET("/categories/:id", catalogH.GetCategory)
		public.GET("/providers", catalogH.ListProviders)
		public.GET("/providers/:id", catalogH.GetProvider)
		public.GET("/reviews/meal/:mealId", reviewH.MealReviews)
	}

	// ── Customer orders ────────────────────────────────────────────
	orders := api.Group("/orders", auth.Required())
	{
		orders.POST("", middleware.RoleRequired(models.RoleCustomer), orderH.Create)
		orders.GET("", middleware.RoleRequired(models.RoleCustomer), orderH.ListMine)
		orders.GET("/:id", orderH.Get)
		orders.PATCH("/:id/cancel", middleware.RoleRequired(models.RoleCustomer), orderH.Cancel)
	}

	// ── Provider ───────────────────────────────────────────────────
	provider := api.Group("/provider",
		auth.Required(), middleware.RoleRequired(models.RoleProvider))
	{
		provider.GET("/meals", providerH.ListMeals)
		provider.POST("/meals", providerH.CreateMeal)
		provider.PUT("/meals/:id", providerH.UpdateMeal)
		provider.DELETE("/meals/:id", providerH.DeleteMeal)
		provider.PATCH("/meals/:id/toggle-availability", providerH.ToggleMealAvailability)

		provider.GET("/orders", providerH.ListOrders)
		provider.GET("/orders/:id", providerH.GetOrder)
		provider.PATCH("/orders/:id/status", providerH.UpdateOrderStatus)

		provider.GET("/stats", providerH.Stats)
		provider.GET("/reviews", providerH.ListReviews)
	}

	// ── Reviews ────────────────────────────────────────────────────
	reviews := api.Group("/reviews",
		auth.Required(), middleware.RoleRequired(models.RoleCustomer))
	{
		reviews.POST("", reviewH.Create)
		reviews.GET("/my-reviews", reviewH.MyReviews)
		reviews.PUT("/:id", reviewH.Update)
		reviews.DELETE("/:id", reviewH.Delete)
	}

	// ── Admin ──────────────────────────────────────────────────────
	admin := api.Group("/admin",
		auth.Required(), middleware.RoleRequired(models.RoleAdmin))
	{
		admin.GET("/users", adminH.ListUsers)
		admin.GET("/users/:id", adminH.GetUser)
		admin.PATCH("/users/:id/status", adminH.UpdateUserStatus)
		admin.DELETE("/users/:id", adminH.DeleteUser)

		admin.GET("/orders", adminH.ListOrders)
		admin.GET("/orders/:id", adminH.GetOrder)

		admin.POST("/categories", adminH.CreateCategory)
		admin.PUT("/categories/:id", adminH.UpdateCategory)
		admin.DELETE("/categories/:id", adminH.DeleteCategory)

		admin.GET("/reviews", adminH.ListReviews)
		admin.DELETE("/reviews/:id", adminH.DeleteReview)

		admin.GET("/stats", adminH.Stats)
	}
}
