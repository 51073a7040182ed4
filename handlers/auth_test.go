package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodhub-api/models"
)

func TestRegisterCustomer(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"email":    "alice@example.com",
		"password": "secret123",
		"name":     "Alice",
		"role":     "CUSTOMER",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var data struct {
		User  models.PublicUser `json:"user"`
		Token string            `json:"token"`
	}
	decodeData(t, rec, &data)
	assert.Equal(t, "alice@example.com", data.User.Email)
	assert.Equal(t, models.RoleCustomer, data.User.Role)
	assert.Equal(t, models.StatusActive, data.User.Status)
	assert.NotEmpty(t, data.Token)
	assert.NotContains(t, rec.Body.String(), "password_hash")

	// The token works against a protected route.
	me := env.request(http.MethodGet, "/api/auth/me", data.Token, nil)
	assert.Equal(t, http.StatusOK, me.Code)
}

func TestRegisterProviderCreatesProfile(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"email":              "bob@example.com",
		"password":           "secret123",
		"name":               "Bob",
		"role":               "PROVIDER",
		"restaurant_name":    "Bob's Burgers",
		"restaurant_address": "2 Ocean Ave",
		"cuisine_type":       "American",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var data struct {
		User models.PublicUser `json:"user"`
	}
	decodeData(t, rec, &data)
	require.NotNil(t, data.User.ProviderProfile)
	assert.Equal(t, "Bob's Burgers", data.User.ProviderProfile.RestaurantName)
	assert.True(t, data.User.ProviderProfile.IsActive)
}

func TestRegisterProviderRequiresRestaurantFields(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"email":    "bob@example.com",
		"password": "secret123",
		"name":     "Bob",
		"role":     "PROVIDER",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"email":    "eve@example.com",
		"password": "secret123",
		"name":     "Eve",
		"role":     "ADMIN",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.createUser("alice", models.RoleCustomer)

	rec := env.request(http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"email":    "alice@example.com",
		"password": "secret123",
		"name":     "Alice Again",
		"role":     "CUSTOMER",
	})
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Email already registered", decode(t, rec).Error)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	env.createUser("alice", models.RoleCustomer)

	rec := env.request(http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email":    "alice@example.com",
		"password": testPassword,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var data struct {
		Token string `json:"token"`
	}
	decodeData(t, rec, &data)
	assert.NotEmpty(t, data.Token)
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.createUser("alice", models.RoleCustomer)

	rec := env.request(http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email":    "alice@example.com",
		"password": "wrong-password",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid email or password", decode(t, rec).Error)
}

func TestLoginUnknownEmail(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email":    "nobody@example.com",
		"password": testPassword,
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginSuspendedAccount(t *testing.T) {
	env := newTestEnv(t)
	user, _ := env.createUser("alice", models.RoleCustomer)
	require.NoError(t, env.db.Model(&user).Update("status", models.StatusSuspended).Error)

	rec := env.request(http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email":    "alice@example.com",
		"password": testPassword,
	})
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, decode(t, rec).Error, "suspended")
}

func TestSuspensionInvalidatesExistingToken(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.createUser("alice", models.RoleCustomer)

	rec := env.request(http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, env.db.Model(&user).Update("status", models.StatusSuspended).Error)

	rec = env.request(http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDeletedUserTokenRejected(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.createUser("alice", models.RoleCustomer)
	require.NoError(t, env.db.Delete(&user).Error)

	rec := env.request(http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedRouteWithoutToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.request(http.MethodGet, "/api/auth/me", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdateProfilePatchSemantics(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.createUser("alice", models.RoleCustomer)
	require.NoError(t, env.db.Model(&user).Update("phone", "555-0199").Error)

	rec := env.request(http.MethodPut, "/api/auth/profile", token, map[string]interface{}{
		"name": "Alice Updated",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got models.PublicUser
	decodeData(t, rec, &got)
	assert.Equal(t, "Alice Updated", got.Name)
	// Omitted fields stay untouched.
	assert.Equal(t, "555-0199", got.Phone)
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser("alice", models.RoleCustomer)

	rec := env.request(http.MethodPut, "/api/auth/change-password", token, map[string]interface{}{
		"current_password": "wrong",
		"new_password":     "newsecret",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Current password is incorrect", decode(t, rec).Error)

	rec = env.request(http.MethodPut, "/api/auth/change-password", token, map[string]interface{}{
		"current_password": testPassword,
		"new_password":     "newsecret",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// Old credential no longer works, new one does.
	rec = env.request(http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email":    "alice@example.com",
		"password": testPassword,
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.request(http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email":    "alice@example.com",
		"password": "newsecret",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdateProviderProfileCustomerForbidden(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser("alice", models.RoleCustomer)

	rec := env.request(http.MethodPut, "/api/auth/provider-profile", token, map[string]interface{}{
		"restaurant_name": "Sneaky",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUpdateProviderProfilePatch(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser("bob", models.RoleProvider)

	rec := env.request(http.MethodPut, "/api/auth/provider-profile", token, map[string]interface{}{
		"cuisine_type": "Italian",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var profile models.ProviderProfile
	decodeData(t, rec, &profile)
	assert.Equal(t, "Italian", profile.CuisineType)
	assert.Equal(t, "bob's Kitchen", profile.RestaurantName)
}
