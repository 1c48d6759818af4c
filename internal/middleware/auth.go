package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"fleettrack/internal/model"
	"fleettrack/pkg/response"
)

const userContextKey = "currentUser"

// userCacheEntry caches a loaded user so every authenticated request does
// not hit the users table.
type userCacheEntry struct {
	user      *model.User
	expiresAt time.Time
}

// Auth validates bearer tokens and loads the requesting user.
type Auth struct {
	db     *gorm.DB
	secret []byte

	cache    sync.Map // uuid.UUID -> userCacheEntry
	cacheTTL time.Duration
}

func NewAuth(db *gorm.DB, secret string) *Auth {
	return &Auth{
		db:       db,
		secret:   []byte(secret),
		cacheTTL: 5 * time.Minute,
	}
}

// CurrentUser returns the authenticated user set by RequireUser.
func CurrentUser(c *gin.Context) *model.User {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil
	}
	return v.(*model.User)
}

// CurrentUserID is a convenience accessor for handlers.
func CurrentUserID(c *gin.Context) uuid.UUID {
	if user := CurrentUser(c); user != nil {
		return user.ID
	}
	return uuid.Nil
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func (a *Auth) parseToken(tokenString string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, jwt.ErrTokenInvalidClaims
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, jwt.ErrTokenInvalidClaims
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, jwt.ErrTokenInvalidClaims
	}
	return uuid.Parse(sub)
}

func (a *Auth) loadUser(id uuid.UUID) (*model.User, error) {
	if entry, ok := a.cache.Load(id); ok {
		cached := entry.(userCacheEntry)
		if time.Now().Before(cached.expiresAt) {
			return cached.user, nil
		}
	}

	var user model.User
	if err := a.db.Preload("Role").First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}

	a.cache.Store(id, userCacheEntry{
		user:      &user,
		expiresAt: time.Now().Add(a.cacheTTL),
	})
	return &user, nil
}

// InvalidateUser drops a user from the auth cache. Called after role or
// status changes so they take effect before the TTL lapses.
func (a *Auth) InvalidateUser(id uuid.UUID) {
	a.cache.Delete(id)
}

// RequireUser validates the token, loads the user and aborts on any failure.
func (a *Auth) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error("Authorization is missing"))
			return
		}

		userID, err := a.parseToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error("Invalid or expired token"))
			return
		}

		user, err := a.loadUser(userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error("Invalid or expired token"))
			return
		}
		if !user.IsActive {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error("Account is deactivated"))
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// RequireAdmin allows admins and super admins through.
func (a *Auth) RequireAdmin() gin.HandlerFunc {
	return a.requireWith(func(user *model.User) bool {
		return user.IsAdmin || user.IsSuperAdmin
	}, "Admin access required")
}

// RequireSuperAdmin allows only the root account through.
func (a *Auth) RequireSuperAdmin() gin.HandlerFunc {
	return a.requireWith(func(user *model.User) bool {
		return user.IsSuperAdmin
	}, "Super admin access required")
}

// RequirePermission checks the user's role for every listed permission.
// Admins bypass the role check entirely.
func (a *Auth) RequirePermission(perms ...model.Permission) gin.HandlerFunc {
	return a.requireWith(func(user *model.User) bool {
		if user.IsAdmin || user.IsSuperAdmin {
			return true
		}
		if user.Role == nil {
			return false
		}
		for _, p := range perms {
			if !user.Role.HasPermission(p) {
				return false
			}
		}
		return true
	}, "Access denied: insufficient permissions")
}

func (a *Auth) requireWith(allowed func(*model.User) bool, denyMessage string) gin.HandlerFunc {
	authenticate := a.RequireUser()
	return func(c *gin.Context) {
		authenticate(c)
		if c.IsAborted() {
			return
		}
		if !allowed(CurrentUser(c)) {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error(denyMessage))
			return
		}
		c.Next()
	}
}
