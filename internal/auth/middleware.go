package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const principalKey = "auth.principal"

// Principal is the authenticated caller as asserted by the portal's token
// service. This service only consumes the capability; it never issues tokens.
type Principal struct {
	UserID string
	Role   string
}

func (p *Principal) IsAdmin() bool {
	return p.Role == "admin"
}

// Middleware verifies a Bearer token signed with the shared HMAC secret and
// attaches the resulting Principal to the request context.
func Middleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"ok":    false,
				"error": "Missing token",
			})
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")

		claims := jwt.MapClaims{}
		_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"ok":    false,
				"error": "Invalid token",
			})
			return
		}

		userID, _ := claims["sub"].(string)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"ok":    false,
				"error": "Invalid token payload",
			})
			return
		}

		role, _ := claims["role"].(string)

		c.Set(principalKey, &Principal{
			UserID: userID,
			Role:   role,
		})

		c.Next()
	}
}

// RequireAdmin gates a route group on the admin role. It must run after
// Middleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := FromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"ok":    false,
				"error": "Unauthorized",
			})
			return
		}

		if !principal.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"ok":    false,
				"error": "Admin required",
			})
			return
		}

		c.Next()
	}
}

// FromContext returns the Principal attached by Middleware, if any.
func FromContext(c *gin.Context) (*Principal, bool) {
	value, exists := c.Get(principalKey)
	if !exists {
		return nil, false
	}

	principal, ok := value.(*Principal)
	return principal, ok
}
