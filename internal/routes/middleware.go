package routes

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"nany-todo/internal/services"
)

// APIKeyMiddleware は apikey ヘッダーまたは Bearer トークンを検証し、ロールをコンテキストに設定します。
func APIKeyMiddleware(keys *services.APIKeyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("apikey")
		if tokenString == "" {
			header := c.GetHeader("Authorization")
			if header == "" {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "API key required"})
				c.Abort()
				return
			}
			if !strings.HasPrefix(header, "Bearer ") {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format"})
				c.Abort()
				return
			}
			tokenString = header[len("Bearer "):]
		}

		claims, err := keys.ValidateKey(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired API key"})
			c.Abort()
			return
		}

		c.Set("api_role", claims.Role)
		c.Next()
	}
}

// RequireServiceRole は読み取り以外のリクエストに service_role を要求します。
func RequireServiceRole() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}
		if c.GetString("api_role") != services.RoleService {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			c.Abort()
			return
		}
		c.Next()
	}
}
