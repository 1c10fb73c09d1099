package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"vibedl/pkg/utils"
)

// AuthorizeFunc decides whether an account may use protected functionality
// right now. It returns nil when access is granted and ErrNotSubscribed or
// ErrSubscriptionExpired otherwise.
type AuthorizeFunc func(ctx context.Context, accountID uuid.UUID) error

// EntitlementMiddleware re-evaluates entitlement on every protected request,
// not only at login. Must run after JWTAuthMiddleware.
func EntitlementMiddleware(authorize AuthorizeFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID, ok := AccountID(c)
		if !ok {
			utils.RespondError(c, http.StatusUnauthorized, "Authorization required")
			c.Abort()
			return
		}

		if err := authorize(c.Request.Context(), accountID); err != nil {
			utils.HandleServiceError(c, err)
			c.Abort()
			return
		}

		c.Next()
	}
}
