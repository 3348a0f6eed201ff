package middleware

import (
	"net"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinic-suite/clinic-backend/pkg/response"
)

// AllowPrivateIP matches loopback and RFC 1918 callers. Used to bypass the
// limiter and to fence debug endpoints to the internal network.
func AllowPrivateIP() AllowFunc {
	return func(c *gin.Context) bool {
		parsed := net.ParseIP(ipFromCtx(c))
		if parsed == nil {
			return false
		}
		return parsed.IsLoopback() || parsed.IsPrivate()
	}
}

// RequireAllowed aborts with 403 when allow rejects the caller.
func RequireAllowed(allow AllowFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if allow != nil && !allow(c) {
			response.Abort(c, http.StatusForbidden, "forbidden", nil)
			return
		}
		c.Next()
	}
}
