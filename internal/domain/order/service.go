// internal/domain/order/service.go
package order

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/bookstore-commerce/internal/domain/cart"
	"github.com/your-org/bookstore-commerce/internal/domain/inventory"
)

// Draft carries the computed totals and buyer details into Create
type Draft struct {
	UserID         uint
	Customer       Customer
	Subtotal       int64
	Shipping       int64
	CouponDiscount int64
	Total          int64
	CouponCode     string
}

// Transaction creates orders as one logical unit: every line's stock is
// reserved, then the order and its items are persisted. Any failure rolls
// back the reservations already applied, so by the time Create returns
// the store is consistent either way.
type Transaction struct {
	repo   Repository
	stock  inventory.Repository
	logger *logrus.Logger
}

// NewTransaction creates a new order transaction service
func NewTransaction(repo Repository, stock inventory.Repository, logger *logrus.Logger) *Transaction {
	return &Transaction{
		repo:   repo,
		stock:  stock,
		logger: logger,
	}
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// ListResponse represents orders with pagination
type ListResponse struct {
	Orders     []Order    `json:"orders"`
	Pagination Pagination `json:"pagination"`
}

// Create reserves stock for every line item and persists the order.
// All-or-nothing: if any reservation fails, reservations applied for
// earlier lines are released before returning, and the out-of-stock error
// names the offending product.
func (t *Transaction) Create(ctx context.Context, draft *Draft, items []cart.LineItem) (*Order, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("order requires at least one line item")
	}

	for i, item := range items {
		if err := t.stock.Reserve(ctx, item.ProductID, item.Quantity); err != nil {
			t.releaseReserved(ctx, items[:i])
			return nil, err
		}
	}

	o := &Order{
		UserID:         draft.UserID,
		Status:         StatusProcessing,
		StatusStep:     StepProcessing,
		Customer:       draft.Customer,
		Subtotal:       draft.Subtotal,
		Shipping:       draft.Shipping,
		CouponDiscount: draft.CouponDiscount,
		Total:          draft.Total,
		CouponCode:     draft.CouponCode,
		Items:          make([]OrderItem, len(items)),
	}

	for i, item := range items {
		o.Items[i] = OrderItem{
			ProductID:       item.ProductID,
			Title:           item.Title,
			Cover:           item.Cover,
			PriceAtPurchase: item.UnitPrice,
			Quantity:        item.Quantity,
		}
	}

	if err := t.repo.Persist(ctx, o); err != nil {
		// The stock is already decremented; hand it back before failing.
		t.releaseReserved(ctx, items)
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	return o, nil
}

// Get retrieves a single order by id
func (t *Transaction) Get(ctx context.Context, id uint) (*Order, error) {
	return t.repo.ByID(ctx, id)
}

// GetByNumber retrieves a single order by order number
func (t *Transaction) GetByNumber(ctx context.Context, orderNumber string) (*Order, error) {
	return t.repo.ByNumber(ctx, orderNumber)
}

// GetUserOrders retrieves a user's orders, newest first
func (t *Transaction) GetUserOrders(ctx context.Context, userID uint, page, limit int) (*ListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	orders, total, err := t.repo.ListByUser(ctx, userID, page, limit)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ListResponse{
		Orders: orders,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
			HasPrev:    page > 1,
		},
	}, nil
}

// UpdateStatus sets the admin-driven status step. Steps map to fixed
// labels; any step is accepted, including moving backwards.
func (t *Transaction) UpdateStatus(ctx context.Context, orderID uint, step int) error {
	status, err := StatusForStep(step)
	if err != nil {
		return err
	}
	return t.repo.UpdateStatus(ctx, orderID, status, step)
}

func (t *Transaction) releaseReserved(ctx context.Context, reserved []cart.LineItem) {
	for _, item := range reserved {
		if err := t.stock.Release(ctx, item.ProductID, item.Quantity); err != nil {
			// Stock is now under-counted until someone reconciles by hand.
			t.logger.WithFields(logrus.Fields{
				"product_id": item.ProductID,
				"quantity":   item.Quantity,
			}).WithError(err).Error("compensating stock release failed")
		}
	}
}
