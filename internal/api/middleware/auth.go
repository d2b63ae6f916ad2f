package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Chafic123/Attendance-Backend/internal/api/handler"
	"github.com/Chafic123/Attendance-Backend/pkg/jwt"
	"github.com/Chafic123/Attendance-Backend/pkg/response"
)

// Blacklist reports revoked token ids.
type Blacklist interface {
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// JWTAuth verifies the access token in "Authorization: Bearer <token>" and
// stores the caller in the gin context. A nil blacklist skips revocation
// checks; a blacklist lookup failure lets the request through.
func JWTAuth(jwtMgr *jwt.Manager, blacklist Blacklist, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, 10002, "malformed authorization header")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, 10002, "token is invalid or expired")
			c.Abort()
			return
		}

		if claims.TokenType != jwt.TokenTypeAccess {
			response.Unauthorized(c, 10002, "not an access token")
			c.Abort()
			return
		}

		if blacklist != nil && claims.ID != "" {
			revoked, err := blacklist.IsBlacklisted(c.Request.Context(), claims.ID)
			if err != nil {
				logger.Warn("token blacklist lookup failed", zap.Error(err))
			} else if revoked {
				response.Unauthorized(c, 10002, "token has been revoked")
				c.Abort()
				return
			}
		}

		c.Set(handler.CtxUserID, claims.UserID)
		c.Set(handler.CtxRole, claims.Role)
		c.Set(handler.CtxProfileID, claims.ProfileID)
		c.Set(handler.CtxTokenJTI, claims.ID)
		if claims.ExpiresAt != nil {
			c.Set(handler.CtxTokenExp, claims.ExpiresAt.Time)
		}

		c.Next()
	}
}

// RoleAuth allows the request only if the caller has one of allowedRoles.
func RoleAuth(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := c.GetString(handler.CtxRole)
		if userRole == "" {
			response.Unauthorized(c, 10002, "authentication required")
			c.Abort()
			return
		}

		for _, r := range allowedRoles {
			if userRole == r {
				c.Next()
				return
			}
		}

		response.Forbidden(c, 10003, "insufficient role")
		c.Abort()
	}
}
