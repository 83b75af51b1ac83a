package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobhelper/internal/auth"
	"jobhelper/internal/errcode"
)

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "code": errcode.Validation})
}

// SessionMiddleware 校验会话 Cookie 并将 userID / email 注入上下文。
func SessionMiddleware(authService *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		rawToken, err := c.Cookie(auth.SessionCookieName)
		if err != nil || rawToken == "" {
			abortUnauthorized(c)
			return
		}

		claims, err := authService.ValidateSession(rawToken)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("email", claims.Email)
		c.Next()
	}
}
