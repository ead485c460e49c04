package middleware

import (
	"encoding/base64"
	"net/http"
	"strings"

	"skymarket_backend/internal/auth"
	"skymarket_backend/internal/logger"
	"skymarket_backend/internal/models"
	"skymarket_backend/internal/repositories"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthMiddleware проверяет учетные данные запроса.
// Принимает и HTTP Basic (основная схема фронтенда), и Bearer-токен,
// выданный POST /login.
func AuthMiddleware(db *gorm.DB, users repositories.UserRepository, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		switch {
		case strings.HasPrefix(authHeader, "Basic "):
			authenticateBasic(c, db, users, strings.TrimPrefix(authHeader, "Basic "))
		case strings.HasPrefix(authHeader, "Bearer "):
			authenticateBearer(c, db, users, strings.TrimPrefix(authHeader, "Bearer "), jwtSecret)
		default:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing or invalid"})
		}
	}
}

func authenticateBasic(c *gin.Context, db *gorm.DB, users repositories.UserRepository, encoded string) {
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid Basic credentials"})
		return
	}

	email, password, ok := strings.Cut(string(decoded), ":")
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid Basic credentials"})
		return
	}

	user, err := users.FindByEmail(db, email)
	if err != nil || !user.Enabled || !auth.CheckPasswordHash(password, user.PasswordHash) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	setIdentity(c, user.ID, user.Email, user.Role)
}

func authenticateBearer(c *gin.Context, db *gorm.DB, users repositories.UserRepository, tokenStr, jwtSecret string) {
	claims, err := auth.ParseToken(tokenStr, jwtSecret)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	// Аккаунт мог быть отключен после выдачи токена
	user, err := users.FindByEmail(db, claims.Email)
	if err != nil || !user.Enabled {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Account not available"})
		return
	}

	setIdentity(c, user.ID, user.Email, user.Role)
}

func setIdentity(c *gin.Context, userID uint, email string, role models.UserRole) {
	c.Set("userID", userID)
	c.Set("userEmail", email)
	c.Set("role", role)

	ctx := logger.WithUserID(c.Request.Context(), email)
	c.Request = c.Request.WithContext(ctx)

	c.Next()
}

// RequireRole - middleware ограничения по ролям
func RequireRole(requiredRole models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, exists := c.Get("role")
		if !exists {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: no role"})
			return
		}

		role, ok := roleVal.(models.UserRole)
		if !ok || role != requiredRole {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: insufficient permissions"})
			return
		}

		c.Next()
	}
}

// GetUserEmail извлекает email аутентифицированного пользователя из контекста
func GetUserEmail(c *gin.Context) string {
	emailVal, exists := c.Get("userEmail")
	if !exists {
		return ""
	}

	email, ok := emailVal.(string)
	if !ok {
		return ""
	}
	return email
}
