package middleware

import (
	"github.com/gofiber/fiber/v2"
)

const (
	ClientIPContextKey  = "client_ip"
	UserAgentContextKey = "user_agent"
)

// RequestInfo captures the client IP (honoring the Cloudflare header when
// present) and User-Agent so audit records can carry them.
func RequestInfo() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ip := c.Get("CF-Connecting-IP")
		if ip == "" {
			ip = c.IP()
		}
		c.Locals(ClientIPContextKey, ip)
		c.Locals(UserAgentContextKey, c.Get("User-Agent"))
		return c.Next()
	}
}

func GetClientIP(c *fiber.Ctx) *string {
	ip, ok := c.Locals(ClientIPContextKey).(string)
	if !ok || ip == "" {
		return nil
	}
	return &ip
}

func GetUserAgent(c *fiber.Ctx) *string {
	ua, ok := c.Locals(UserAgentContextKey).(string)
	if !ok || ua == "" {
		return nil
	}
	return &ua
}
