// internal/domain/checkout/pipeline.go
package checkout

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/your-org/bookstore-commerce/internal/config"
	"github.com/your-org/bookstore-commerce/internal/domain/cart"
	"github.com/your-org/bookstore-commerce/internal/domain/coupon"
	"github.com/your-org/bookstore-commerce/internal/domain/order"
)

// Request carries everything a checkout needs from the caller
type Request struct {
	DeviceID   string
	UserID     uint
	CouponCode string
	Customer   order.Customer
}

// Result is returned on a successful checkout
type Result struct {
	OrderID     uint   `json:"order_id"`
	OrderNumber string `json:"order_number"`
	Subtotal    int64  `json:"subtotal"`
	Shipping    int64  `json:"shipping"`
	Discount    int64  `json:"discount"`
	Total       int64  `json:"total"`
}

// Pipeline orchestrates a checkout: it snapshots the selected cart items,
// prices the order, runs the order transaction, and applies post-commit
// side effects. Only the order transaction itself is atomic; the coupon
// usage increment and cart cleanup afterwards are best effort.
type Pipeline struct {
	carts   *cart.Store
	coupons *coupon.Service
	orders  *order.Transaction
	cfg     config.CheckoutConfig
	logger  *logrus.Logger
}

// NewPipeline creates a new checkout pipeline
func NewPipeline(carts *cart.Store, coupons *coupon.Service, orders *order.Transaction, cfg config.CheckoutConfig, logger *logrus.Logger) *Pipeline {
	return &Pipeline{
		carts:   carts,
		coupons: coupons,
		orders:  orders,
		cfg:     cfg,
		logger:  logger,
	}
}

// Checkout runs the full pipeline. On any failure before or during the
// order transaction the cart is left untouched, so the caller can retry
// without re-entering anything.
func (p *Pipeline) Checkout(ctx context.Context, req *Request) (*Result, error) {
	if err := validateCustomer(&req.Customer); err != nil {
		return nil, err
	}

	items, err := p.carts.SelectedItems(ctx, req.DeviceID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptySelection
	}

	var subtotal int64
	for _, item := range items {
		subtotal += item.Subtotal()
	}

	shipping := p.cfg.ShippingFee
	if subtotal >= p.cfg.FreeShippingThreshold {
		shipping = 0
	}

	var applied *coupon.Applied
	if req.CouponCode != "" {
		applied, err = p.coupons.Validate(ctx, req.CouponCode, subtotal)
		if err != nil {
			return nil, err
		}
	}

	var discount int64
	var couponCode string
	if applied != nil {
		discount = applied.Discount
		couponCode = applied.Code
	}

	draft := &order.Draft{
		UserID:         req.UserID,
		Customer:       req.Customer,
		Subtotal:       subtotal,
		Shipping:       shipping,
		CouponDiscount: discount,
		Total:          subtotal + shipping - discount,
		CouponCode:     couponCode,
	}

	o, err := p.orders.Create(ctx, draft, items)
	if err != nil {
		return nil, err
	}

	p.afterCommit(ctx, req.DeviceID, applied, items)

	return &Result{
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		Subtotal:    o.Subtotal,
		Shipping:    o.Shipping,
		Discount:    o.CouponDiscount,
		Total:       o.Total,
	}, nil
}

// afterCommit applies the side effects of a placed order. The order is
// already persisted, so failures here are logged and swallowed rather
// than surfaced as a checkout failure.
func (p *Pipeline) afterCommit(ctx context.Context, deviceID string, applied *coupon.Applied, items []cart.LineItem) {
	if applied != nil {
		if err := p.coupons.IncrementUsage(ctx, applied.Code); err != nil {
			p.logger.WithError(err).WithField("coupon", applied.Code).
				Warn("coupon usage increment failed after checkout")
		}
	}

	ids := make([]uint, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	if _, err := p.carts.RemoveMany(ctx, deviceID, ids); err != nil {
		p.logger.WithError(err).WithField("device_id", deviceID).
			Warn("failed to clear checked-out items from cart")
	}
}

func validateCustomer(c *order.Customer) error {
	required := []struct {
		field string
		value string
	}{
		{"name", c.Name},
		{"email", c.Email},
		{"phone", c.Phone},
		{"address", c.Address},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &ValidationError{Field: r.field}
		}
	}
	return nil
}
