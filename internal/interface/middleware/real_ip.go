package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// ContextRealIP is the gin context key holding the client address used in logs.
const ContextRealIP = "real_ip"

// RealIP stores the client IP under ContextRealIP.
// Priority: CF-Connecting-IP, then the left-most X-Forwarded-For entry, then c.ClientIP().
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextRealIP, clientIP(c))
		c.Next()
	}
}

func clientIP(c *gin.Context) string {
	if ip := net.ParseIP(strings.TrimSpace(c.GetHeader("CF-Connecting-IP"))); ip != nil {
		return ip.String()
	}
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
			return ip.String()
		}
	}
	return c.ClientIP()
}
