package delivery

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// clientIP resolves the originating address behind the reverse-proxy:
// first X-Forwarded-For hop, then X-Real-IP, then the socket peer.
func clientIP(c *gin.Context) string {
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	if realIP := c.GetHeader("X-Real-IP"); realIP != "" {
		return realIP
	}
	return c.RemoteIP()
}
