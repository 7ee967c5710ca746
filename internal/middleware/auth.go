package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/whatsthatbrick/whatsthatbrick/internal/auth"
	"github.com/whatsthatbrick/whatsthatbrick/internal/models"
	"github.com/whatsthatbrick/whatsthatbrick/internal/types"
	"gorm.io/gorm"
)

// AuthMiddleware resolves the bearer token to a live user and aborts with
// 401 otherwise. The token alone is not enough: the user row must still
// exist.
func AuthMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		identity, ok := resolveIdentity(ctx, db)

		if !ok {
			return
		}

		ctx.Set(types.ContextUserKey, identity)
		ctx.Next()
	}
}

// OptionalAuthMiddleware resolves an identity when a credential is
// presented but lets anonymous callers through. Used on public listings
// where an admin credential widens visibility.
func OptionalAuthMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.GetHeader("Authorization") == "" {
			ctx.Next()
			return
		}

		identity, ok := resolveIdentity(ctx, db)

		if !ok {
			return
		}

		ctx.Set(types.ContextUserKey, identity)
		ctx.Next()
	}
}

// RequireRoles aborts with 403 unless the already-authenticated caller
// holds one of roles. Must run after AuthMiddleware.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		value, exists := ctx.Get(types.ContextUserKey)

		if !exists {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		identity, ok := value.(auth.Identity)

		if !ok || !auth.HasRole(identity, roles...) {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient privileges"})
			return
		}

		ctx.Next()
	}
}

func resolveIdentity(ctx *gin.Context, db *gorm.DB) (auth.Identity, bool) {
	authHeader := ctx.GetHeader("Authorization")

	if authHeader == "" {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token is required"})
		return auth.Identity{}, false
	}

	parts := strings.SplitN(authHeader, " ", 2)

	if len(parts) != 2 || parts[0] != "Bearer" {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
		return auth.Identity{}, false
	}

	token, err := auth.VerifyJWT(parts[1])

	if err != nil || !token.Valid {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return auth.Identity{}, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)

	if !ok {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
		return auth.Identity{}, false
	}

	userIDFloat, ok := claims["user_id"].(float64)

	if !ok {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID in token claims"})
		return auth.Identity{}, false
	}

	userID := uint(userIDFloat)

	var user models.User

	if err := db.Where("id = ?", userID).First(&user).Error; err != nil {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return auth.Identity{}, false
	}

	return auth.Identity{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}, true
}
