package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Chafic123/Attendance-Backend/internal/service"
	"github.com/Chafic123/Attendance-Backend/pkg/response"
)

// Context keys set by middleware.JWTAuth.
const (
	CtxUserID    = "user_id"
	CtxRole      = "role"
	CtxProfileID = "profile_id"
	CtxTokenJTI  = "token_jti"
	CtxTokenExp  = "token_exp"
)

// MustGetActor reads the authenticated caller. When the JWT middleware did
// not run it writes a 401 and returns false; callers should just return.
func MustGetActor(c *gin.Context) (service.Actor, bool) {
	actor := service.Actor{
		UserID:    c.GetString(CtxUserID),
		Role:      c.GetString(CtxRole),
		ProfileID: c.GetString(CtxProfileID),
	}
	if actor.UserID == "" || actor.Role == "" {
		response.Unauthorized(c, codeUnauthenticated, "not authenticated")
		return service.Actor{}, false
	}
	return actor, true
}

// tokenInfo returns the id and expiry of the access token in use.
func tokenInfo(c *gin.Context) (string, time.Time) {
	return c.GetString(CtxTokenJTI), c.GetTime(CtxTokenExp)
}
