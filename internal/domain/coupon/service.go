// internal/domain/coupon/service.go
package coupon

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrNotApplicable is returned whenever a code cannot be applied. The
// caller surfaces one generic message; which rule failed is only logged.
var ErrNotApplicable = errors.New("coupon invalid or inapplicable")

// ErrNotFound is returned by admin lookups for unknown coupons
var ErrNotFound = errors.New("coupon not found")

// Repository provides coupon storage access
type Repository interface {
	ByCode(ctx context.Context, code string) (*Coupon, error)
	Create(ctx context.Context, c *Coupon) error
	Update(ctx context.Context, c *Coupon) error
	List(ctx context.Context) ([]Coupon, error)
	IncrementUsage(ctx context.Context, code string) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a GORM-backed coupon repository
func NewGormRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) ByCode(ctx context.Context, code string) (*Coupon, error) {
	var c Coupon
	err := r.db.WithContext(ctx).
		Where("LOWER(code) = LOWER(?)", code).
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve coupon: %w", err)
	}
	return &c, nil
}

func (r *gormRepository) Create(ctx context.Context, c *Coupon) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *gormRepository) Update(ctx context.Context, c *Coupon) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *gormRepository) List(ctx context.Context) ([]Coupon, error) {
	var coupons []Coupon
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&coupons).Error
	return coupons, err
}

// IncrementUsage bumps used_count with a guard so a single write can never
// push it past the limit. Concurrent checkouts that validated against the
// same snapshot can still collectively overshoot, since this runs outside
// the reservation transaction.
func (r *gormRepository) IncrementUsage(ctx context.Context, code string) error {
	result := r.db.WithContext(ctx).Model(&Coupon{}).
		Where("LOWER(code) = LOWER(?) AND used_count < usage_limit", code).
		UpdateColumn("used_count", gorm.Expr("used_count + 1"))
	if result.Error != nil {
		return fmt.Errorf("failed to increment coupon usage: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("coupon %q not found or usage limit reached", code)
	}
	return nil
}

// Service handles coupon validation and administration
type Service struct {
	repo   Repository
	logger *logrus.Logger
	now    func() time.Time
}

// NewService creates a new coupon service
func NewService(repo Repository, logger *logrus.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Validate decides whether a code applies to the given subtotal. Every
// rule must hold: the coupon exists (case-insensitive), is active, is not
// expired, has usage left, and the subtotal meets the minimum.
func (s *Service) Validate(ctx context.Context, code string, subtotal int64) (*Applied, error) {
	c, err := s.repo.ByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.reject(code, "unknown code")
			return nil, ErrNotApplicable
		}
		return nil, err
	}

	switch {
	case !c.IsActive:
		s.reject(code, "inactive")
		return nil, ErrNotApplicable
	case c.ExpiresAt.Before(s.now()):
		s.reject(code, "expired")
		return nil, ErrNotApplicable
	case c.UsedCount >= c.UsageLimit:
		s.reject(code, "usage limit reached")
		return nil, ErrNotApplicable
	case subtotal < c.MinOrderValue:
		s.reject(code, "below minimum order value")
		return nil, ErrNotApplicable
	}

	return &Applied{
		Code:          c.Code,
		DiscountType:  c.DiscountType,
		DiscountValue: c.DiscountValue,
		Discount:      ComputeDiscount(c, subtotal),
	}, nil
}

// IncrementUsage records a redemption after a successful checkout
func (s *Service) IncrementUsage(ctx context.Context, code string) error {
	return s.repo.IncrementUsage(ctx, code)
}

// CreateRequest represents coupon creation data
type CreateRequest struct {
	Code          string       `json:"code" binding:"required"`
	DiscountType  DiscountType `json:"discount_type" binding:"required,oneof=percentage fixed"`
	DiscountValue int64        `json:"discount_value" binding:"required,min=1"`
	MinOrderValue int64        `json:"min_order_value"`
	UsageLimit    int          `json:"usage_limit" binding:"required,min=1"`
	ExpiresAt     time.Time    `json:"expires_at" binding:"required"`
}

// Create creates a new coupon (admin operation)
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*Coupon, error) {
	if _, err := s.repo.ByCode(ctx, req.Code); err == nil {
		return nil, fmt.Errorf("coupon code %q already exists", req.Code)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	c := &Coupon{
		Code:          strings.ToUpper(strings.TrimSpace(req.Code)),
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		MinOrderValue: req.MinOrderValue,
		UsageLimit:    req.UsageLimit,
		ExpiresAt:     req.ExpiresAt,
		IsActive:      true,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create coupon: %w", err)
	}
	return c, nil
}

// UpdateRequest represents coupon update data
type UpdateRequest struct {
	DiscountValue *int64     `json:"discount_value,omitempty"`
	MinOrderValue *int64     `json:"min_order_value,omitempty"`
	UsageLimit    *int       `json:"usage_limit,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	IsActive      *bool      `json:"is_active,omitempty"`
}

// Update modifies an existing coupon (admin operation)
func (s *Service) Update(ctx context.Context, code string, req *UpdateRequest) (*Coupon, error) {
	c, err := s.repo.ByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if req.DiscountValue != nil {
		c.DiscountValue = *req.DiscountValue
	}
	if req.MinOrderValue != nil {
		c.MinOrderValue = *req.MinOrderValue
	}
	if req.UsageLimit != nil {
		c.UsageLimit = *req.UsageLimit
	}
	if req.ExpiresAt != nil {
		c.ExpiresAt = *req.ExpiresAt
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to update coupon: %w", err)
	}
	return c, nil
}

// List returns all coupons (admin operation)
func (s *Service) List(ctx context.Context) ([]Coupon, error) {
	return s.repo.List(ctx)
}

func (s *Service) reject(code, reason string) {
	s.logger.WithFields(logrus.Fields{
		"coupon": code,
		"reason": reason,
	}).Info("coupon rejected")
}
