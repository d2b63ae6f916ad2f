package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Headers browsers may read from responses: download names for PDF, XLSX
// and ICS files, request tracing, and rate-limit backoff.
const corsExposeHeaders = "Content-Disposition, X-Request-ID, Retry-After"

// CORS echoes allowed origins. "*" in allowOrigins admits any origin but
// without credentials, since bearer tokens must not leak cross-site.
func CORS(allowOrigins []string) gin.HandlerFunc {
	allowAny := false
	origins := make(map[string]bool, len(allowOrigins))
	for _, o := range allowOrigins {
		if o == "*" {
			allowAny = true
			continue
		}
		origins[strings.TrimRight(o, "/")] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			c.Writer.Header().Add("Vary", "Origin")
		}

		switch {
		case origin != "" && origins[origin]:
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
		case origin != "" && allowAny:
			c.Header("Access-Control-Allow-Origin", "*")
		default:
			origin = ""
		}

		if origin != "" {
			c.Header("Access-Control-Expose-Headers", corsExposeHeaders)
		}

		if c.Request.Method == http.MethodOptions && c.GetHeader("Access-Control-Request-Method") != "" {
			if origin != "" {
				c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
				c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				c.Header("Access-Control-Max-Age", "600")
			}
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
