// internal/interfaces/http/middleware/device.go
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const deviceCookieMaxAge = 365 * 24 * 60 * 60

// DeviceID resolves the per-device identity that keys the cart and
// wishlist caches. Clients may pin it via the X-Device-ID header; browser
// clients get a long-lived cookie on first contact.
func DeviceID() gin.HandlerFunc {
	return func(c *gin.Context) {
		deviceID := c.GetHeader("X-Device-ID")
		if deviceID == "" {
			deviceID, _ = c.Cookie("device_id")
		}
		if deviceID == "" {
			deviceID = uuid.New().String()
			c.SetCookie("device_id", deviceID, deviceCookieMaxAge, "/", "", false, true)
		}

		c.Set("device_id", deviceID)
		c.Next()
	}
}

// GetDeviceIDFromContext extracts the device ID from gin context
func GetDeviceIDFromContext(c *gin.Context) string {
	deviceID, _ := c.Get("device_id")
	if s, ok := deviceID.(string); ok {
		return s
	}
	return ""
}
