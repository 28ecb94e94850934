package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// getClientIP resolves the address a request is rate limited under. Forwarding
// headers are client supplied, so only the ones a fronting proxy is configured
// to set are read; anything else falls back to the peer address.
func getClientIP(c *gin.Context, trustedHeaders []string) string {
	for _, header := range trustedHeaders {
		value := c.GetHeader(strings.TrimSpace(header))
		if value == "" {
			continue
		}
		// X-Forwarded-For style lists carry the originating client first.
		first := strings.TrimSpace(strings.Split(value, ",")[0])
		if ip := net.ParseIP(first); ip != nil {
			return ip.String()
		}
	}

	ip := c.Request.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		return host
	}
	return ip
}
