package middleware

import (
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"project-submission-api/config"
	"project-submission-api/models"
)

type Claims struct {
	UserID int    `json:"user_id"`
	Email  string `json:"email"`
	RoleID int    `json:"role_id"`
	jwt.RegisteredClaims
}

type userCacheEntry struct {
	user      models.User
	fetchedAt time.Time
}

// UserCache caches token-to-user lookups for the auth middleware. It is an
// explicit dependency with a TTL and explicit invalidation, constructed once
// in main and passed to AuthMiddleware.
type UserCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[int]userCacheEntry
}

// NewUserCache creates a cache whose entries expire after ttl.
func NewUserCache(ttl time.Duration) *UserCache {
	return &UserCache{
		ttl:     ttl,
		entries: make(map[int]userCacheEntry),
	}
}

// Get returns the cached user if present and fresh.
func (c *UserCache) Get(userID int) (models.User, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[userID]
	if !ok || time.Since(entry.fetchedAt) >= c.ttl {
		return models.User{}, false
	}
	return entry.user, true
}

// Put stores a user lookup result.
func (c *UserCache) Put(user models.User) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[user.UserID] = userCacheEntry{user: user, fetchedAt: time.Now()}
}

// Invalidate drops a single user, e.g. after an admin edit or delete.
func (c *UserCache) Invalidate(userID int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, userID)
}

// Clear drops every cached entry.
func (c *UserCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[int]userCacheEntry)
}

// AuthMiddleware validates the JWT token and resolves the acting user,
// consulting the injected cache before hitting the database.
func AuthMiddleware(cache *UserCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
			return []byte(os.Getenv("JWT_SECRET")), nil
		})

		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(*Claims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}

		// Check the user still exists (cache first, DB on miss)
		user, cached := cache.Get(claims.UserID)
		if !cached {
			if err := config.DB.Where("user_id = ? AND delete_at IS NULL", claims.UserID).First(&user).Error; err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
				c.Abort()
				return
			}
			cache.Put(user)
		}

		c.Set("userID", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("roleID", user.RoleID)
		c.Set("userName", user.DisplayName())

		c.Next()
	}
}

// RequireRole checks if user has specific role
func RequireRole(roleIDs ...int) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRoleID, exists := c.Get("roleID")
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{"error": "Role not found"})
			c.Abort()
			return
		}

		userRole := userRoleID.(int)
		allowed := false
		for _, roleID := range roleIDs {
			if userRole == roleID {
				allowed = true
				break
			}
		}

		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			c.Abort()
			return
		}

		c.Next()
	}
}
