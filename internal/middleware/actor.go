package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-syllabus-api/internal/service"
)

// Actor attaches the authenticated caller to the request context for audit records.
func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := service.Actor{
			IPAddress: c.ClientIP(),
			UserAgent: c.GetHeader("User-Agent"),
		}
		if claims := Claims(c); claims != nil {
			actor.UserID = claims.UserID
		}
		c.Request = c.Request.WithContext(service.WithActor(c.Request.Context(), actor))
		c.Next()
	}
}
