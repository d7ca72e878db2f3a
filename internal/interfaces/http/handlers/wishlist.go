// internal/interfaces/http/handlers/wishlist.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/bookstore-commerce/internal/domain/catalog"
	"github.com/your-org/bookstore-commerce/internal/domain/wishlist"
	"github.com/your-org/bookstore-commerce/internal/interfaces/http/middleware"
)

// WishlistHandler handles wishlist endpoints
type WishlistHandler struct {
	engine  *wishlist.SyncEngine
	catalog *catalog.Service
}

// NewWishlistHandler creates a new wishlist handler
func NewWishlistHandler(engine *wishlist.SyncEngine, catalogSvc *catalog.Service) *WishlistHandler {
	return &WishlistHandler{
		engine:  engine,
		catalog: catalogSvc,
	}
}

// ToggleRequest flips a product in or out of the wishlist
type ToggleRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
}

// GetWishlist handles GET /wishlist
func (h *WishlistHandler) GetWishlist(c *gin.Context) {
	deviceID := middleware.GetDeviceIDFromContext(c)

	entries, err := h.engine.Entries(c.Request.Context(), deviceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve wishlist",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Wishlist retrieved successfully",
		"data":    entries,
	})
}

// Toggle handles POST /wishlist/toggle
func (h *WishlistHandler) Toggle(c *gin.Context) {
	deviceID := middleware.GetDeviceIDFromContext(c)

	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	book, err := h.catalog.Book(c.Request.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrBookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Book not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve book",
		})
		return
	}

	var userID *uint
	if uid, ok := middleware.GetUserIDFromContext(c); ok {
		userID = &uid
	}

	entries, err := h.engine.Toggle(c.Request.Context(), userID, deviceID, book)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to update wishlist",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Wishlist updated successfully",
		"data":    entries,
	})
}
