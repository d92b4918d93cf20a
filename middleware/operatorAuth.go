package middleware

import (
	"net/http"
	"strings"

	"signage/utils"

	"github.com/gin-gonic/gin"
)

// JWTAuthOperatorMiddleware guards dashboard endpoints. Operators
// present a signed bearer JWT; the subject claim identifies them.
func JWTAuthOperatorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		operatorID, err := utils.ExtractIDFromToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized operator access"})
			return
		}

		c.Set("operatorID", operatorID)
		c.Next()
	}
}
