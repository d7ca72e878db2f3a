// internal/interfaces/http/handlers/session.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/bookstore-commerce/internal/domain/identity"
	"github.com/your-org/bookstore-commerce/internal/interfaces/http/middleware"
)

// SessionHandler bridges identity-provider state changes into the
// application. The provider owns credentials; these endpoints only tell
// this service that a device's session changed so the caches reconcile.
type SessionHandler struct {
	bus *identity.Bus
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(bus *identity.Bus) *SessionHandler {
	return &SessionHandler{bus: bus}
}

// SignIn handles POST /session/sign-in. Requires a valid token; the
// reconciliation handlers run synchronously before the response so the
// client's next wishlist read already sees the merged state.
func (h *SessionHandler) SignIn(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
		})
		return
	}

	deviceID := middleware.GetDeviceIDFromContext(c)

	h.bus.Publish(c.Request.Context(), identity.Event{
		Type:     identity.EventSignIn,
		UserID:   userID,
		DeviceID: deviceID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Session established successfully",
	})
}

// SignOut handles POST /session/sign-out
func (h *SessionHandler) SignOut(c *gin.Context) {
	deviceID := middleware.GetDeviceIDFromContext(c)

	userID, _ := middleware.GetUserIDFromContext(c)
	h.bus.Publish(c.Request.Context(), identity.Event{
		Type:     identity.EventSignOut,
		UserID:   userID,
		DeviceID: deviceID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Session closed successfully",
	})
}
