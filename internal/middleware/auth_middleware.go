package middleware

import (
	"strings"

	"messagely/internal/services"
	messagely_errors "messagely/pkg/errors"

	"github.com/gin-gonic/gin"
)

const tokenQueryParam = "_token"

// Authenticate verifies the token on the request, if any, and stores its
// username in the request context. Missing or invalid tokens leave the
// request anonymous; EnsureLoggedIn and EnsureCorrectUser reject it later.
func Authenticate(service *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearer(c)
		if token == "" {
			token = c.Query(tokenQueryParam)
		}
		if token == "" {
			c.Next()
			return
		}

		claims, err := service.ParseToken(token)
		if err != nil {
			c.Next()
			return
		}

		ctx := services.WithUsername(c.Request.Context(), claims.Username)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// EnsureLoggedIn rejects anonymous requests with 401.
func EnsureLoggedIn() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := services.UsernameFromContext(c.Request.Context()); !ok {
			abortWithError(c, messagely_errors.ErrUnauthorized)
			return
		}
		c.Next()
	}
}

// EnsureCorrectUser rejects requests whose token user is not the :username
// path parameter.
func EnsureCorrectUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		username, ok := services.UsernameFromContext(c.Request.Context())
		if !ok || username != c.Param("username") {
			abortWithError(c, messagely_errors.ErrUnauthorized)
			return
		}
		c.Next()
	}
}

func extractBearer(c *gin.Context) string {
	value := c.GetHeader("Authorization")
	parts := strings.SplitN(value, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
