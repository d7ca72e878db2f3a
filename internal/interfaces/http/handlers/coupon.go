// internal/interfaces/http/handlers/coupon.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/bookstore-commerce/internal/domain/cart"
	"github.com/your-org/bookstore-commerce/internal/domain/coupon"
	"github.com/your-org/bookstore-commerce/internal/interfaces/http/middleware"
)

// CouponHandler handles coupon preview and administration endpoints
type CouponHandler struct {
	coupons *coupon.Service
	carts   *cart.Store
}

// NewCouponHandler creates a new coupon handler
func NewCouponHandler(coupons *coupon.Service, carts *cart.Store) *CouponHandler {
	return &CouponHandler{
		coupons: coupons,
		carts:   carts,
	}
}

// PreviewRequest asks what a code would be worth against the current selection
type PreviewRequest struct {
	Code string `json:"code" binding:"required"`
}

// Preview handles POST /coupons/preview. It validates a code against the
// subtotal of the caller's selected items without redeeming anything.
func (h *CouponHandler) Preview(c *gin.Context) {
	deviceID := middleware.GetDeviceIDFromContext(c)

	var req PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	items, err := h.carts.SelectedItems(c.Request.Context(), deviceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve cart",
		})
		return
	}

	var subtotal int64
	for _, item := range items {
		subtotal += item.Subtotal()
	}

	applied, err := h.coupons.Validate(c.Request.Context(), req.Code, subtotal)
	if err != nil {
		if errors.Is(err, coupon.ErrNotApplicable) {
			// One generic message no matter which rule failed.
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Coupon invalid or inapplicable",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to validate coupon",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Coupon applicable",
		"data":    applied,
	})
}

// Create handles POST /admin/coupons
func (h *CouponHandler) Create(c *gin.Context) {
	var req coupon.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	created, err := h.coupons.Create(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Coupon created successfully",
		"data":    created,
	})
}

// Update handles PUT /admin/coupons/:code
func (h *CouponHandler) Update(c *gin.Context) {
	var req coupon.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	updated, err := h.coupons.Update(c.Request.Context(), c.Param("code"), &req)
	if err != nil {
		if errors.Is(err, coupon.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Coupon not found",
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Coupon updated successfully",
		"data":    updated,
	})
}

// List handles GET /admin/coupons
func (h *CouponHandler) List(c *gin.Context) {
	coupons, err := h.coupons.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve coupons",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Coupons retrieved successfully",
		"data":    coupons,
	})
}
