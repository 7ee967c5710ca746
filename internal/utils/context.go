package utils

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/whatsthatbrick/whatsthatbrick/internal/auth"
	"github.com/whatsthatbrick/whatsthatbrick/internal/types"
)

func GetCurrentUser(ctx *gin.Context) (auth.Identity, error) {
	value, exists := ctx.Get(types.ContextUserKey)

	if !exists {
		return auth.Identity{}, fmt.Errorf("User not authenticated")
	}

	identity, ok := value.(auth.Identity)

	if !ok {
		return auth.Identity{}, fmt.Errorf("Invalid user type in context")
	}

	return identity, nil
}

// GetOptionalUser returns the identity when one was resolved, or nil for
// anonymous callers on routes with optional auth.
func GetOptionalUser(ctx *gin.Context) *auth.Identity {
	identity, err := GetCurrentUser(ctx)

	if err != nil {
		return nil
	}

	return &identity
}
