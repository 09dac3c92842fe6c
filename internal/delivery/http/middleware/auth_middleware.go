package middleware

import (
	"go-hr-tracker/internal/delivery/http/response"
	"go-hr-tracker/internal/domain"
	"go-hr-tracker/pkg/auth"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware verifies the bearer token and resolves the caller. The
// role always comes from the database, not from token claims, so a role
// change takes effect on the next request.
func AuthMiddleware(tokens *auth.TokenManager, authUC domain.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			response.Error(c, http.StatusUnauthorized, "Authorization header required", nil)
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, "Authorization header required", nil)
			c.Abort()
			return
		}

		userID, err := tokens.Verify(tokenString)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "Invalid token", nil)
			c.Abort()
			return
		}

		user, err := authUC.GetCurrentUser(c.Request.Context(), userID)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "User not found", nil)
			c.Abort()
			return
		}

		c.Set(string(domain.KeyUserID), user.ID)
		c.Set(string(domain.KeyUserRole), user.Role)

		c.Next()
	}
}

// CallerFromContext rebuilds the caller identity set by AuthMiddleware.
func CallerFromContext(c *gin.Context) domain.Caller {
	return domain.Caller{
		ID:   c.GetInt64(string(domain.KeyUserID)),
		Role: c.GetString(string(domain.KeyUserRole)),
	}
}
