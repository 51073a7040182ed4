package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"foodhub-api/config"
	"foodhub-api/middleware"
	"foodhub-api/models"
	"foodhub-api/routes"
)

const testPassword = "password123"

// testEnv boots the full router against a throwaway sqlite database so
// tests exercise the same middleware chain production requests hit.
type testEnv struct {
	t    *testing.T
	db   *gorm.DB
	r    *gin.Engine
	auth *middleware.Auth
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	auth := &middleware.Auth{DB: db, Secret: []byte("test-secret"), TTL: time.Hour}
	r := gin.New()
	routes.Setup(r, db, auth)

	return &testEnv{t: t, db: db, r: r, auth: auth}
}

// createUser inserts a user directly and returns it with a valid token.
func (e *testEnv) createUser(name string, role models.Role) (models.User, string) {
	e.t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(e.t, err)

	user := models.User{
		Email:        name + "@example.com",
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
		Status:       models.StatusActive,
	}
	if role == models.RoleProvider {
		user.ProviderProfile = &models.ProviderProfile{
			RestaurantName: name + "'s Kitchen",
			Address:        "1 Test St",
			IsActive:       true,
		}
	}
	require.NoError(e.t, e.db.Create(&user).Error)

	token, err := e.auth.GenerateToken(&user)
	require.NoError(e.t, err)
	return user, token
}

func (e *testEnv) createCategory(name string) models.Category {
	e.t.Helper()
	cat := models.Category{Name: name}
	require.NoError(e.t, e.db.Create(&cat).Error)
	return cat
}

func (e *testEnv) createMeal(providerID, categoryID uint, name string, price float64) models.Meal {
	e.t.Helper()
	meal := models.Meal{
		ProviderID:  providerID,
		CategoryID:  categoryID,
		Name:        name,
		Price:       price,
		IsAvailable: true,
		DietaryInfo: models.DietaryNone,
		PrepTime:    30,
	}
	require.NoError(e.t, e.db.Create(&meal).Error)
	return meal
}

func (e *testEnv) createOrder(customerID, providerID uint, status models.OrderStatus, items ...models.OrderItem) models.Order {
	e.t.Helper()
	var total float64
	for _, it := range items {
		total += it.PriceAtOrder * float64(it.Quantity)
	}
	order := models.Order{
		CustomerID:      customerID,
		ProviderID:      providerID,
		Status:          status,
		TotalAmount:     total,
		DeliveryAddress: "1 Test St",
		ContactPhone:    "555-0100",
		Items:           items,
	}
	require.NoError(e.t, e.db.Create(&order).Error)
	return order
}

// request sends a JSON request through the router.
func (e *testEnv) request(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	e.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.r.ServeHTTP(rec, req)
	return rec
}

type apiResponse struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Error      string          `json:"error"`
	Data       json.RawMessage `json:"data"`
	Pagination *struct {
		Page       int   `json:"page"`
		Limit      int   `json:"limit"`
		Total      int64 `json:"total"`
		TotalPages int   `json:"totalPages"`
	} `json:"pagination"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	var resp apiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp),
		"body: %s", rec.Body.String())
	return resp
}

// decodeData unmarshals the data field of a successful envelope.
func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) apiResponse {
	t.Helper()
	resp := decode(t, rec)
	require.True(t, resp.Success, "expected success envelope, body: %s", rec.Body.String())
	require.NoError(t, json.Unmarshal(resp.Data, out))
	return resp
}

func orderPath(id uint, suffix string) string {
	return fmt.Sprintf("/api/orders/%d%s", id, suffix)
}
