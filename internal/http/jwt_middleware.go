package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"chat-relay/internal/service"
)

const authClaimsKey = "auth_claims"

// JWTAuthMiddleware valida tokens de identidad y guarda claims en el contexto.
func JWTAuthMiddleware(jwtServ *service.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if jwtServ == nil {
			c.JSON(http.StatusInternalServerError, errorBody("jwt not configured"))
			c.Abort()
			return
		}

		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			c.JSON(http.StatusUnauthorized, errorBody("missing token"))
			c.Abort()
			return
		}

		token := strings.TrimSpace(header[len("Bearer "):])
		claims, err := jwtServ.Parse(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, errorBody("invalid token"))
			c.Abort()
			return
		}

		c.Set(authClaimsKey, claims)
		c.Next()
	}
}

// GetAuthClaims obtiene claims del token desde el contexto.
func GetAuthClaims(c *gin.Context) (service.Claims, bool) {
	val, ok := c.Get(authClaimsKey)
	if !ok {
		return service.Claims{}, false
	}
	claims, ok := val.(service.Claims)
	return claims, ok
}
