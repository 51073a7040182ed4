package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodhub-api/models"
)

// reviewFixture is a delivered order ready for reviewing.
type reviewFixture struct {
	customer      models.User
	customerToken string
	provider      models.User
	meal          models.Meal
	otherMeal     models.Meal
	order         models.Order
}

func newReviewFixture(t *testing.T, env *testEnv) reviewFixture {
	t.Helper()
	provider, _ := env.createUser("bob", models.RoleProvider)
	customer, token := env.createUser("alice", models.RoleCustomer)
	cat := env.createCategory("Burgers")
	meal := env.createMeal(provider.ID, cat.ID, "Burger", 9)
	otherMeal := env.createMeal(provider.ID, cat.ID, "Fries", 3)
	order := env.createOrder(customer.ID, provider.ID, models.StatusDelivered,
		models.OrderItem{MealID: meal.ID, Quantity: 1, PriceAtOrder: 9})
	return reviewFixture{
		customer:      customer,
		customerToken: token,
		provider:      provider,
		meal:          meal,
		otherMeal:     otherMeal,
		order:         order,
	}
}

func TestCreateReview(t *testing.T) {
	env := newTestEnv(t)
	fx := newReviewFixture(t, env)

	rec := env.request(http.MethodPost, "/api/reviews", fx.customerToken, map[string]interface{}{
		"meal_id":  fx.meal.ID,
		"order_id": fx.order.ID,
		"rating":   5,
		"comment":  "Excellent burger",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var review models.Review
	decodeData(t, rec, &review)
	assert.Equal(t, fx.customer.ID, review.CustomerID)
	assert.Equal(t, 5, review.Rating)
}

func TestCreateReviewOrderNotDelivered(t *testing.T) {
	env := newTestEnv(t)
	fx := newReviewFixture(t, env)

	pending := env.createOrder(fx.customer.ID, fx.provider.ID, models.StatusPending,
		models.OrderItem{MealID: fx.meal.ID, Quantity: 1, PriceAtOrder: 9})

	rec := env.request(http.MethodPost, "/api/reviews", fx.customerToken, map[string]interface{}{
		"meal_id":  fx.meal.ID,
		"order_id": pending.ID,
		"rating":   4,
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Order not found or not delivered yet", decode(t, rec).Error)
}

func TestCreateReviewSomeoneElsesOrder(t *testing.T) {
	env := newTestEnv(t)
	fx := newReviewFixture(t, env)
	_, malloryToken := env.createUser("mallory", models.RoleCustomer)

	rec := env.request(http.MethodPost, "/api/reviews", malloryToken, map[string]interface{}{
		"meal_id":  fx.meal.ID,
		"order_id": fx.order.ID,
		"rating":   1,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateReviewMealNotInOrder(t *testing.T) {
	env := newTestEnv(t)
	fx := newReviewFixture(t, env)

	rec := env.request(http.MethodPost, "/api/reviews", fx.customerToken, map[string]interface{}{
		"meal_id":  fx.otherMeal.ID,
		"order_id": fx.order.ID,
		"rating":   4,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Meal was not part of this order", decode(t, rec).Error)
}

func TestCreateReviewDuplicate(t *testing.T) {
	env := newTestEnv(t)
	fx := newReviewFixture(t, env)

	body := map[string]interface{}{
		"meal_id":  fx.meal.ID,
		"order_id": fx.order.ID,
		"rating":   5,
	}
	rec := env.request(http.MethodPost, "/api/reviews", fx.customerToken, body)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.request(http.MethodPost, "/api/reviews", fx.customerToken, body)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "You have already reviewed this meal for this order", decode(t, rec).Error)

	var count int64
	env.db.Model(&models.Review{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestCreateReviewSameMealDifferentOrder(t *testing.T) {
	env := newTestEnv(t)
	fx := newReviewFixture(t, env)

	rec := env.request(http.MethodPost, "/api/reviews", fx.customerToken, map[string]interface{}{
		"meal_id":  fx.meal.ID,
		"order_id": fx.order.ID,
		"rating":   5,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// A second delivered order containing the same meal may be reviewed
	// independently.
	second := env.createOrder(fx.customer.ID, fx.provider.ID, models.StatusDelivered,
		models.OrderItem{MealID: fx.meal.ID, Quantity: 1, PriceAtOrder: 9})
	rec = env.request(http.MethodPost, "/api/reviews", fx.customerToken, map[string]interface{}{
		"meal_id":  fx.meal.ID,
		"order_id": second.ID,
		"rating":   3,
	})
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestCreateReviewRatingBounds(t *testing.T) {
	env := newTestEnv(t)
	fx := newReviewFixture(t, env)

	for _, rating := range []int{0, 6, -1} {
		rec := env.request(http.MethodPost, "/api/reviews", fx.customerToken, map[string]interface{}{
			"meal_id":  fx.meal.ID,
			"order_id": fx.order.ID,
			"rating":   rating,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code, "rating %d", rating)
	}
}

func TestMealReviewsPublic(t *testing.T) {
	env := newTestEnv(t)
	fx := newReviewFixture(t, env)

	rec := env.request(http.MethodPost, "/api/reviews", fx.customerToken, map[string]interface{}{
		"meal_id":  fx.meal.ID,
		"order_id": fx.order.ID,
		"rating":   5,
		"comment":  "Great",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// No token needed.
	rec = env.request(http.MethodGet, fmt.Sprintf("/api/reviews/meal/%d", fx.meal.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var reviews []models.Review
	resp := decodeData(t, rec, &reviews)
	require.Len(t, reviews, 1)
	assert.EqualValues(t, 1, resp.Pagination.Total)
}

func TestUpdateReviewOwnership(t *testing.T) {
	env := newTestEnv(t)
	fx := newReviewFixture(t, env)
	_, malloryToken := env.createUser("mallory", models.RoleCustomer)

	rec := env.request(http.MethodPost, "/api/reviews", fx.customerToken, map[string]interface{}{
		"meal_id":  fx.meal.ID,
		"order_id": fx.order.ID,
		"rating":   2,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var review models.Review
	decodeData(t, rec, &review)

	path := fmt.Sprintf("/api/reviews/%d", review.ID)

	rec = env.request(http.MethodPut, path, malloryToken, map[string]interface{}{"rating": 5})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.request(http.MethodPut, path, fx.customerToken, map[string]interface{}{"rating": 4})
	require.Equal(t, http.StatusOK, rec.Code)

	var stored models.Review
	require.NoError(t, env.db.First(&stored, review.ID).Error)
	assert.Equal(t, 4, stored.Rating)
}

func TestDeleteReviewOwnership(t *testing.T) {
	env := newTestEnv(t)
	fx := newReviewFixture(t, env)
	_, malloryToken := env.createUser("mallory", models.RoleCustomer)

	rec := env.request(http.MethodPost, "/api/reviews", fx.customerToken, map[string]interface{}{
		"meal_id":  fx.meal.ID,
		"order_id": fx.order.ID,
		"rating":   2,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var review models.Review
	decodeData(t, rec, &review)

	path := fmt.Sprintf("/api/reviews/%d", review.ID)

	rec = env.request(http.MethodDelete, path, malloryToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.request(http.MethodDelete, path, fx.customerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var count int64
	env.db.Model(&models.Review{}).Count(&count)
	assert.Zero(t, count)
}

func TestMyReviews(t *testing.T) {
	env := newTestEnv(t)
	fx := newReviewFixture(t, env)

	rec := env.request(http.MethodPost, "/api/reviews", fx.customerToken, map[string]interface{}{
		"meal_id":  fx.meal.ID,
		"order_id": fx.order.ID,
		"rating":   5,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.request(http.MethodGet, "/api/reviews/my-reviews", fx.customerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var reviews []models.Review
	decodeData(t, rec, &reviews)
	assert.Len(t, reviews, 1)
}
