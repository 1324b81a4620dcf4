package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"marina-backend/utils"

	"github.com/gin-gonic/gin"
)

const (
	RoleCustomer = "customer"
	RoleOwner    = "owner"
)

// RequireAuth validates the bearer token and stores the numeric account id
// and role on the context. When role is non-empty the token's role must
// match it.
func RequireAuth(secret, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			utils.JSONError(c, http.StatusUnauthorized, "missing bearer token")
			c.Abort()
			return
		}

		subject, tokenRole, err := utils.ParseToken(secret, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			utils.JSONError(c, http.StatusUnauthorized, "invalid token")
			c.Abort()
			return
		}
		if role != "" && tokenRole != role {
			utils.JSONError(c, http.StatusForbidden, "insufficient role")
			c.Abort()
			return
		}

		accountID, err := strconv.ParseUint(subject, 10, 64)
		if err != nil {
			utils.JSONError(c, http.StatusUnauthorized, "invalid token subject")
			c.Abort()
			return
		}

		c.Set("accountID", uint(accountID))
		c.Set("role", tokenRole)
		c.Next()
	}
}

// AccountID returns the authenticated account id stored by RequireAuth.
func AccountID(c *gin.Context) (uint, bool) {
	v, ok := c.Get("accountID")
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// Role returns the token role stored by RequireAuth.
func Role(c *gin.Context) (string, bool) {
	v, ok := c.Get("role")
	if !ok {
		return "", false
	}
	role, ok := v.(string)
	return role, ok
}
