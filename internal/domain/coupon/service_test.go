package coupon

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepository implements Repository for testing
type fakeRepository struct {
	coupons map[string]*Coupon
}

func newFakeRepository(coupons ...*Coupon) *fakeRepository {
	f := &fakeRepository{coupons: map[string]*Coupon{}}
	for _, c := range coupons {
		f.coupons[strings.ToLower(c.Code)] = c
	}
	return f
}

func (f *fakeRepository) ByCode(_ context.Context, code string) (*Coupon, error) {
	if c, ok := f.coupons[strings.ToLower(code)]; ok {
		clone := *c
		return &clone, nil
	}
	return nil, ErrNotFound
}

func (f *fakeRepository) Create(_ context.Context, c *Coupon) error {
	f.coupons[strings.ToLower(c.Code)] = c
	return nil
}

func (f *fakeRepository) Update(_ context.Context, c *Coupon) error {
	f.coupons[strings.ToLower(c.Code)] = c
	return nil
}

func (f *fakeRepository) List(_ context.Context) ([]Coupon, error) {
	out := []Coupon{}
	for _, c := range f.coupons {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeRepository) IncrementUsage(_ context.Context, code string) error {
	c, ok := f.coupons[strings.ToLower(code)]
	if !ok || c.UsedCount >= c.UsageLimit {
		return fmt.Errorf("coupon %q not found or usage limit reached", code)
	}
	c.UsedCount++
	return nil
}

func newTestService(coupons ...*Coupon) *Service {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewService(newFakeRepository(coupons...), logger)
}

func validCoupon() *Coupon {
	return &Coupon{
		Code:          "SAVE10",
		DiscountType:  DiscountTypePercentage,
		DiscountValue: 10,
		MinOrderValue: 200000,
		UsageLimit:    5,
		UsedCount:     0,
		ExpiresAt:     time.Now().UTC().Add(24 * time.Hour),
		IsActive:      true,
	}
}

func TestValidate_AllRulesHold(t *testing.T) {
	svc := newTestService(validCoupon())

	applied, err := svc.Validate(context.Background(), "SAVE10", 500000)

	require.NoError(t, err)
	assert.Equal(t, int64(50000), applied.Discount)
}

func TestValidate_CodeIsCaseInsensitive(t *testing.T) {
	svc := newTestService(validCoupon())

	applied, err := svc.Validate(context.Background(), "save10", 500000)

	require.NoError(t, err)
	assert.Equal(t, "SAVE10", applied.Code)
}

func TestValidate_UsageLimitExhausted(t *testing.T) {
	c := validCoupon()
	c.UsageLimit = 1
	c.UsedCount = 1
	svc := newTestService(c)

	// Every other rule qualifies; the exhausted limit alone rejects it.
	_, err := svc.Validate(context.Background(), "SAVE10", 500000)

	assert.ErrorIs(t, err, ErrNotApplicable)
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Coupon)
		subtotal int64
	}{
		{"inactive", func(c *Coupon) { c.IsActive = false }, 500000},
		{"expired", func(c *Coupon) { c.ExpiresAt = time.Now().UTC().Add(-time.Hour) }, 500000},
		{"below minimum", func(c *Coupon) {}, 100000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCoupon()
			tt.mutate(c)
			svc := newTestService(c)

			_, err := svc.Validate(context.Background(), "SAVE10", tt.subtotal)

			assert.ErrorIs(t, err, ErrNotApplicable)
		})
	}
}

func TestValidate_UnknownCode(t *testing.T) {
	svc := newTestService()

	_, err := svc.Validate(context.Background(), "NOPE", 500000)

	assert.ErrorIs(t, err, ErrNotApplicable)
}

func TestComputeDiscount_FixedIsUnclamped(t *testing.T) {
	c := &Coupon{DiscountType: DiscountTypeFixed, DiscountValue: 50000}

	// Documented current behavior: a fixed discount can exceed the
	// subtotal and push the downstream total negative.
	assert.Equal(t, int64(50000), ComputeDiscount(c, 30000))
}

func TestComputeDiscount_Percentage(t *testing.T) {
	c := &Coupon{DiscountType: DiscountTypePercentage, DiscountValue: 25}

	assert.Equal(t, int64(75000), ComputeDiscount(c, 300000))
}

func TestIncrementUsage_StopsAtLimit(t *testing.T) {
	c := validCoupon()
	c.UsageLimit = 2
	svc := newTestService(c)
	ctx := context.Background()

	require.NoError(t, svc.IncrementUsage(ctx, "SAVE10"))
	require.NoError(t, svc.IncrementUsage(ctx, "SAVE10"))
	assert.Error(t, svc.IncrementUsage(ctx, "SAVE10"))
}

func TestCreate_RejectsDuplicateCode(t *testing.T) {
	svc := newTestService(validCoupon())

	_, err := svc.Create(context.Background(), &CreateRequest{
		Code:          "save10",
		DiscountType:  DiscountTypeFixed,
		DiscountValue: 10000,
		UsageLimit:    1,
		ExpiresAt:     time.Now().UTC().Add(time.Hour),
	})

	assert.Error(t, err)
}
