package middleware

import (
	"net/http"
	"strings"

	"adwuma/utils"

	"github.com/gin-gonic/gin"
)

// JWTAuthMiddleware resolves the calling identity from the bearer token and
// stores the actor id and role in the request context. The roles argument
// restricts which actor kinds may reach the route; empty means any
// authenticated actor.
func JWTAuthMiddleware(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		actorID, role, err := utils.ExtractActorFromToken(tokenString)
		if err != nil || actorID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		if len(roles) > 0 {
			allowed := false
			for _, r := range roles {
				if role == r {
					allowed = true
					break
				}
			}
			if !allowed {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
				return
			}
		}

		c.Set("actorID", actorID)
		c.Set("actorRole", role)
		c.Next()
	}
}
