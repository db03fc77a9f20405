package handler

import (
	"net/http"
	"strings"

	"mobodokan/catalog-service/internal/app/catalog/entity"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// IdentityClaims are the claims issued by the external identity provider.
// Only email and display name are consumed; everything else about the
// provider is out of scope here.
type IdentityClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// AuthMiddleware verifies bearer tokens on the seller console routes and
// places the caller identity into the Gin context.
type AuthMiddleware struct {
	jwtSecret string
}

func NewAuthMiddleware(jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret: jwtSecret,
	}
}

// Authenticate validates the Authorization header and stores the verified
// owner identity under "owner".
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, entity.Response{Success: false, Error: "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, entity.Response{Success: false, Error: "Invalid authorization header format"})
			c.Abort()
			return
		}

		token, err := jwt.ParseWithClaims(parts[1], &IdentityClaims{}, func(token *jwt.Token) (interface{}, error) {
			return []byte(m.jwtSecret), nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, entity.Response{Success: false, Error: "Invalid or expired token"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(*IdentityClaims)
		if !ok || claims.Email == "" {
			c.JSON(http.StatusUnauthorized, entity.Response{Success: false, Error: "Invalid token claims"})
			c.Abort()
			return
		}

		name := claims.Name
		if name == "" {
			name = claims.Email
		}

		c.Set("owner", entity.Owner{Email: claims.Email, Name: name})

		c.Next()
	}
}

// ownerFromContext returns the identity stored by Authenticate.
func ownerFromContext(c *gin.Context) (entity.Owner, bool) {
	value, exists := c.Get("owner")
	if !exists {
		return entity.Owner{}, false
	}
	owner, ok := value.(entity.Owner)
	return owner, ok
}
