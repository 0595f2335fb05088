package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"workly/backend/pkg/jwt"
	"workly/backend/pkg/redis"
	"workly/backend/pkg/response"
)

// JWTAuth validates the Authorization: Bearer <token> header and
// injects the caller's identity into the context. Tokens are issued by
// the platform's identity service; this API only verifies them. When a
// cache client is given, revoked tokens (jti blacklist) are rejected.
func JWTAuth(jwtMgr *jwt.Manager, cache *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "intestazione di autenticazione mancante")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, 10002, "intestazione di autenticazione non valida")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, 10002, "token non valido o scaduto")
			c.Abort()
			return
		}

		if claims.TokenType != "access" {
			response.Unauthorized(c, 10002, "tipo di token non valido")
			c.Abort()
			return
		}

		if cache != nil && claims.ID != "" {
			revoked, err := cache.IsBlacklisted(c.Request.Context(), claims.ID)
			if err == nil && revoked {
				response.Unauthorized(c, 10002, "token revocato")
				c.Abort()
				return
			}
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Set("company_id", claims.CompanyID)

		c.Next()
	}
}

// RoleAuth requires the caller to hold one of the allowed roles.
func RoleAuth(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			response.Unauthorized(c, 10002, "non autenticato")
			c.Abort()
			return
		}

		userRole := role.(string)
		for _, r := range allowedRoles {
			if userRole == r {
				c.Next()
				return
			}
		}

		response.Forbidden(c, 10003, "permessi insufficienti")
		c.Abort()
	}
}
