package utils

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/viccabs/booking-service/internal/models"
)

// RequestIDKey is the gin context key holding the request id
const RequestIDKey = "request_id"

var privateRanges = func() []*net.IPNet {
	var nets []*net.IPNet
	for _, cidr := range []string{"10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16", "fc00::/7"} {
		_, subnet, _ := net.ParseCIDR(cidr)
		nets = append(nets, subnet)
	}
	return nets
}()

// GetRealIP extracts the client IP from the request.
//
// Priority order:
// 1. X-Real-IP header when it holds a public address
// 2. First public address in X-Forwarded-For (client, proxy1, proxy2)
// 3. Gin's ClientIP() for direct connections
func GetRealIP(c *gin.Context) string {
	realIP := strings.TrimSpace(c.Request.Header.Get("X-Real-IP"))
	if ip := net.ParseIP(realIP); ip != nil && !isPrivateIP(ip) {
		return realIP
	}

	if forwarded := c.Request.Header.Get("X-Forwarded-For"); forwarded != "" {
		var firstValid string
		for _, part := range strings.Split(forwarded, ",") {
			candidate := strings.TrimSpace(part)
			ip := net.ParseIP(candidate)
			if ip == nil {
				continue
			}
			if firstValid == "" {
				firstValid = candidate
			}
			if !isPrivateIP(ip) && !ip.IsLoopback() {
				return candidate
			}
		}
		// All forwarded addresses are private; the first one is still the best guess
		if firstValid != "" {
			return firstValid
		}
	}

	return c.ClientIP()
}

// GetUserAgent extracts the User-Agent header from the request
func GetUserAgent(c *gin.Context) string {
	if ua := c.Request.UserAgent(); ua != "" {
		return ua
	}
	return "Unknown"
}

// GetSubmissionMeta collects the request metadata attached to a booking submission
func GetSubmissionMeta(c *gin.Context) models.SubmissionMeta {
	userAgent := GetUserAgent(c)
	device := ParseUserAgent(userAgent)

	return models.SubmissionMeta{
		RequestID: c.GetString(RequestIDKey),
		ClientIP:  GetRealIP(c),
		UserAgent: userAgent,
		Device:    device.Summary(),
	}
}

func isPrivateIP(ip net.IP) bool {
	for _, subnet := range privateRanges {
		if subnet.Contains(ip) {
			return true
		}
	}
	return false
}
