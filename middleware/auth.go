package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"foodhub-api/models"
	"foodhub-api/response"
)

const (
	ctxUserID = "userID"
	ctxEmail  = "email"
	ctxRole   = "role"
)

type Claims struct {
	UserID uint        `json:"userId"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// Auth issues and validates session tokens. The DB handle is needed to
// re-resolve the caller on every request so tokens of deleted or
// suspended accounts stop working before they expire.
type Auth struct {
	DB     *gorm.DB
	Secret []byte
	TTL    time.Duration
}

// GenerateToken creates a signed JWT for a given user.
func (a *Auth) GenerateToken(user *models.User) (string, error) {
	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(a.TTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.Secret)
}

func (a *Auth) parseBearer(c *gin.Context) (*Claims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, false
	}
	tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return a.Secret, nil
	})
	if err != nil || !token.Valid {
		return nil, false
	}
	return claims, true
}

// Required validates the bearer token, re-resolves the user from the
// store and injects identity into the context.
func (a *Auth) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := a.parseBearer(c)
		if !ok {
			response.AbortError(c, http.StatusUnauthorized, "Invalid or missing token")
			return
		}

		var user models.User
		if err := a.DB.First(&user, claims.UserID).Error; err != nil {
			response.AbortError(c, http.StatusUnauthorized, "User not found")
			return
		}
		if user.Status == models.StatusSuspended {
			response.AbortError(c, http.StatusForbidden, "Account suspended")
			return
		}

		c.Set(ctxUserID, user.ID)
		c.Set(ctxEmail, user.Email)
		c.Set(ctxRole, string(user.Role))
		c.Next()
	}
}

// Optional decodes the token when present but never rejects the request;
// absent or invalid credentials leave the context unauthenticated.
func (a *Auth) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := a.parseBearer(c); ok {
			c.Set(ctxUserID, claims.UserID)
			c.Set(ctxEmail, claims.Email)
			c.Set(ctxRole, string(claims.Role))
		}
		c.Next()
	}
}

// RoleRequired enforces that the authenticated caller has one of the
// allowed roles. Must run after Required.
func RoleRequired(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, exists := c.Get(ctxRole)
		if !exists {
			response.AbortError(c, http.StatusUnauthorized, "Authentication required")
			return
		}
		callerRole := models.Role(roleVal.(string))
		for _, r := range roles {
			if callerRole == r {
				c.Next()
				return
			}
		}
		response.AbortError(c, http.StatusForbidden, "Access denied. Insufficient permissions")
	}
}

// GetUserID extracts the caller user ID from context.
func GetUserID(c *gin.Context) uint {
	val, _ := c.Get(ctxUserID)
	id, _ := val.(uint)
	return id
}

// GetRole extracts the caller role from context.
func GetRole(c *gin.Context) models.Role {
	val, _ := c.Get(ctxRole)
	s, _ := val.(string)
	return models.Role(s)
}
