// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/bookstore-commerce/internal/domain/checkout"
	"github.com/your-org/bookstore-commerce/internal/domain/coupon"
	"github.com/your-org/bookstore-commerce/internal/domain/inventory"
	"github.com/your-org/bookstore-commerce/internal/domain/order"
	"github.com/your-org/bookstore-commerce/internal/interfaces/http/middleware"
)

// CheckoutHandler handles checkout endpoints
type CheckoutHandler struct {
	pipeline *checkout.Pipeline
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(pipeline *checkout.Pipeline) *CheckoutHandler {
	return &CheckoutHandler{pipeline: pipeline}
}

// CheckoutRequest carries buyer details and an optional coupon code
type CheckoutRequest struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Phone      string `json:"phone" binding:"required"`
	Address    string `json:"address" binding:"required"`
	City       string `json:"city"`
	Note       string `json:"note"`
	CouponCode string `json:"coupon_code"`
}

// Checkout handles POST /checkout
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
		})
		return
	}

	deviceID := middleware.GetDeviceIDFromContext(c)

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	result, err := h.pipeline.Checkout(c.Request.Context(), &checkout.Request{
		DeviceID:   deviceID,
		UserID:     userID,
		CouponCode: req.CouponCode,
		Customer: order.Customer{
			Name:    req.Name,
			Email:   req.Email,
			Phone:   req.Phone,
			Address: req.Address,
			City:    req.City,
			Note:    req.Note,
		},
	})
	if err != nil {
		h.renderCheckoutError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"data":    result,
	})
}

// renderCheckoutError maps pipeline failures onto HTTP responses. Stock
// failures name the offending product; coupon rejections stay generic.
func (h *CheckoutHandler) renderCheckoutError(c *gin.Context, err error) {
	var verr *checkout.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": verr.Error(),
			"field": verr.Field,
		})
		return
	}

	if errors.Is(err, checkout.ErrEmptySelection) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "No items selected for checkout",
		})
		return
	}

	var oos *inventory.OutOfStockError
	if errors.As(err, &oos) {
		c.JSON(http.StatusConflict, gin.H{
			"error":      "Insufficient stock",
			"product_id": oos.ProductID,
		})
		return
	}

	if errors.Is(err, coupon.ErrNotApplicable) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Coupon invalid or inapplicable",
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"error": "Checkout failed, please try again",
	})
}
