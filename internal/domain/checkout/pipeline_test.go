package checkout

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/bookstore-commerce/internal/config"
	"github.com/your-org/bookstore-commerce/internal/domain/cart"
	"github.com/your-org/bookstore-commerce/internal/domain/coupon"
	"github.com/your-org/bookstore-commerce/internal/domain/inventory"
	"github.com/your-org/bookstore-commerce/internal/domain/order"
)

// memoryCartRepo implements cart.Repository for testing
type memoryCartRepo struct {
	carts map[string]*cart.Cart
}

func newMemoryCartRepo() *memoryCartRepo {
	return &memoryCartRepo{carts: map[string]*cart.Cart{}}
}

func (r *memoryCartRepo) Load(_ context.Context, deviceID string) (*cart.Cart, error) {
	if c, ok := r.carts[deviceID]; ok {
		copied := *c
		copied.Items = append([]cart.LineItem{}, c.Items...)
		copied.SelectedIDs = append([]uint{}, c.SelectedIDs...)
		return &copied, nil
	}
	return &cart.Cart{Items: []cart.LineItem{}, SelectedIDs: []uint{}}, nil
}

func (r *memoryCartRepo) Save(_ context.Context, deviceID string, c *cart.Cart) error {
	r.carts[deviceID] = c
	return nil
}

func (r *memoryCartRepo) Delete(_ context.Context, deviceID string) error {
	delete(r.carts, deviceID)
	return nil
}

// fakeCouponRepo implements coupon.Repository for testing
type fakeCouponRepo struct {
	coupons      map[string]*coupon.Coupon
	incremented  []string
	incrementErr error
}

func newFakeCouponRepo(coupons ...*coupon.Coupon) *fakeCouponRepo {
	repo := &fakeCouponRepo{coupons: map[string]*coupon.Coupon{}}
	for _, c := range coupons {
		repo.coupons[c.Code] = c
	}
	return repo
}

func (f *fakeCouponRepo) ByCode(_ context.Context, code string) (*coupon.Coupon, error) {
	for _, c := range f.coupons {
		if strings.EqualFold(c.Code, code) {
			return c, nil
		}
	}
	return nil, coupon.ErrNotFound
}

func (f *fakeCouponRepo) Create(_ context.Context, c *coupon.Coupon) error {
	f.coupons[c.Code] = c
	return nil
}

func (f *fakeCouponRepo) Update(_ context.Context, c *coupon.Coupon) error {
	f.coupons[c.Code] = c
	return nil
}

func (f *fakeCouponRepo) List(_ context.Context) ([]coupon.Coupon, error) {
	out := []coupon.Coupon{}
	for _, c := range f.coupons {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCouponRepo) IncrementUsage(_ context.Context, code string) error {
	if f.incrementErr != nil {
		return f.incrementErr
	}
	f.incremented = append(f.incremented, code)
	return nil
}

// fakeStock implements inventory.Repository for testing
type fakeStock struct {
	stock map[uint]int
}

func (f *fakeStock) Reserve(_ context.Context, productID uint, quantity int) error {
	if f.stock[productID] < quantity {
		return &inventory.OutOfStockError{ProductID: productID, Requested: quantity}
	}
	f.stock[productID] -= quantity
	return nil
}

func (f *fakeStock) Release(_ context.Context, productID uint, quantity int) error {
	f.stock[productID] += quantity
	return nil
}

// fakeOrderRepo implements order.Repository for testing
type fakeOrderRepo struct {
	persisted []*order.Order
	nextID    uint
}

func (f *fakeOrderRepo) Persist(_ context.Context, o *order.Order) error {
	f.nextID++
	o.ID = f.nextID
	o.OrderNumber = o.GenerateOrderNumber()
	f.persisted = append(f.persisted, o)
	return nil
}

func (f *fakeOrderRepo) ByID(_ context.Context, id uint) (*order.Order, error) {
	for _, o := range f.persisted {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, order.ErrNotFound
}

func (f *fakeOrderRepo) ByNumber(_ context.Context, number string) (*order.Order, error) {
	for _, o := range f.persisted {
		if o.OrderNumber == number {
			return o, nil
		}
	}
	return nil, order.ErrNotFound
}

func (f *fakeOrderRepo) ListByUser(_ context.Context, userID uint, _, _ int) ([]order.Order, int64, error) {
	return nil, 0, nil
}

func (f *fakeOrderRepo) UpdateStatus(_ context.Context, id uint, status order.Status, step int) error {
	return nil
}

type fixture struct {
	pipeline   *Pipeline
	cartRepo   *memoryCartRepo
	couponRepo *fakeCouponRepo
	orderRepo  *fakeOrderRepo
	stock      *fakeStock
}

func newFixture(t *testing.T, stock map[uint]int, coupons ...*coupon.Coupon) *fixture {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	cartRepo := newMemoryCartRepo()
	couponRepo := newFakeCouponRepo(coupons...)
	orderRepo := &fakeOrderRepo{}
	stockRepo := &fakeStock{stock: stock}

	cfg := config.CheckoutConfig{
		Currency:              "VND",
		ShippingFee:           30000,
		FreeShippingThreshold: 300000,
	}

	return &fixture{
		pipeline: NewPipeline(
			cart.NewStore(cartRepo, logger),
			coupon.NewService(couponRepo, logger),
			order.NewTransaction(orderRepo, stockRepo, logger),
			cfg,
			logger,
		),
		cartRepo:   cartRepo,
		couponRepo: couponRepo,
		orderRepo:  orderRepo,
		stock:      stockRepo,
	}
}

func seedCart(f *fixture, deviceID string, selected []uint, items ...cart.LineItem) {
	f.cartRepo.carts[deviceID] = &cart.Cart{
		Items:       items,
		SelectedIDs: selected,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
}

func buyer() order.Customer {
	return order.Customer{
		Name:    "Nguyen Van A",
		Email:   "a@example.com",
		Phone:   "0901234567",
		Address: "12 Ly Thuong Kiet",
		City:    "Hanoi",
	}
}

func TestCheckout_HappyPath(t *testing.T) {
	f := newFixture(t, map[uint]int{1: 5})
	seedCart(f, "dev-1", []uint{1}, cart.LineItem{ProductID: 1, Title: "Book", UnitPrice: 100000, Quantity: 2})

	res, err := f.pipeline.Checkout(context.Background(), &Request{
		DeviceID: "dev-1",
		UserID:   7,
		Customer: buyer(),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(200000), res.Subtotal)
	assert.Equal(t, int64(30000), res.Shipping)
	assert.Equal(t, int64(0), res.Discount)
	assert.Equal(t, int64(230000), res.Total)
	assert.NotEmpty(t, res.OrderNumber)

	require.Len(t, f.orderRepo.persisted, 1)
	assert.Equal(t, uint(7), f.orderRepo.persisted[0].UserID)
	assert.Equal(t, 3, f.stock.stock[1])

	// Checked-out items are cleared from the cart.
	after, err := f.cartRepo.Load(context.Background(), "dev-1")
	require.NoError(t, err)
	assert.Empty(t, after.Items)
}

func TestCheckout_FreeShippingAtThreshold(t *testing.T) {
	f := newFixture(t, map[uint]int{1: 5})
	seedCart(f, "dev-1", []uint{1}, cart.LineItem{ProductID: 1, Title: "Book", UnitPrice: 300000, Quantity: 1})

	res, err := f.pipeline.Checkout(context.Background(), &Request{DeviceID: "dev-1", UserID: 7, Customer: buyer()})

	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Shipping)
	assert.Equal(t, int64(300000), res.Total)
}

func TestCheckout_OnlySelectedItemsAreBought(t *testing.T) {
	f := newFixture(t, map[uint]int{1: 5, 2: 5})
	seedCart(f, "dev-1", []uint{1},
		cart.LineItem{ProductID: 1, Title: "Selected", UnitPrice: 50000, Quantity: 1},
		cart.LineItem{ProductID: 2, Title: "Left behind", UnitPrice: 80000, Quantity: 1},
	)

	res, err := f.pipeline.Checkout(context.Background(), &Request{DeviceID: "dev-1", UserID: 7, Customer: buyer()})

	require.NoError(t, err)
	assert.Equal(t, int64(50000), res.Subtotal)
	assert.Equal(t, 5, f.stock.stock[2], "unselected item must not be reserved")

	after, err := f.cartRepo.Load(context.Background(), "dev-1")
	require.NoError(t, err)
	require.Len(t, after.Items, 1)
	assert.Equal(t, uint(2), after.Items[0].ProductID)
}

func TestCheckout_MissingCustomerField(t *testing.T) {
	f := newFixture(t, map[uint]int{1: 5})
	seedCart(f, "dev-1", []uint{1}, cart.LineItem{ProductID: 1, UnitPrice: 50000, Quantity: 1})

	customer := buyer()
	customer.Email = ""
	_, err := f.pipeline.Checkout(context.Background(), &Request{DeviceID: "dev-1", Customer: customer})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "email", verr.Field)
	assert.Empty(t, f.orderRepo.persisted)
	assert.Equal(t, 5, f.stock.stock[1])
}

func TestCheckout_EmptySelection(t *testing.T) {
	f := newFixture(t, map[uint]int{1: 5})
	seedCart(f, "dev-1", nil, cart.LineItem{ProductID: 1, UnitPrice: 50000, Quantity: 1})

	_, err := f.pipeline.Checkout(context.Background(), &Request{DeviceID: "dev-1", Customer: buyer()})

	assert.ErrorIs(t, err, ErrEmptySelection)
}

func TestCheckout_PercentageCouponApplied(t *testing.T) {
	f := newFixture(t, map[uint]int{1: 5}, &coupon.Coupon{
		Code:          "WELCOME10",
		DiscountType:  coupon.DiscountTypePercentage,
		DiscountValue: 10,
		MinOrderValue: 100000,
		UsageLimit:    100,
		ExpiresAt:     time.Now().Add(24 * time.Hour),
		IsActive:      true,
	})
	seedCart(f, "dev-1", []uint{1}, cart.LineItem{ProductID: 1, UnitPrice: 200000, Quantity: 1})

	res, err := f.pipeline.Checkout(context.Background(), &Request{
		DeviceID:   "dev-1",
		UserID:     7,
		CouponCode: "welcome10",
		Customer:   buyer(),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(20000), res.Discount)
	assert.Equal(t, int64(210000), res.Total)
	assert.Equal(t, []string{"WELCOME10"}, f.couponRepo.incremented)
	assert.Equal(t, "WELCOME10", f.orderRepo.persisted[0].CouponCode)
}

func TestCheckout_FixedCouponCanDriveTotalNegative(t *testing.T) {
	f := newFixture(t, map[uint]int{1: 5}, &coupon.Coupon{
		Code:          "FLAT50K",
		DiscountType:  coupon.DiscountTypeFixed,
		DiscountValue: 50000,
		UsageLimit:    100,
		ExpiresAt:     time.Now().Add(24 * time.Hour),
		IsActive:      true,
	})
	seedCart(f, "dev-1", []uint{1}, cart.LineItem{ProductID: 1, UnitPrice: 10000, Quantity: 1})

	res, err := f.pipeline.Checkout(context.Background(), &Request{
		DeviceID:   "dev-1",
		CouponCode: "FLAT50K",
		Customer:   buyer(),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(50000), res.Discount)
	assert.Equal(t, int64(-10000), res.Total, "fixed discount is applied verbatim")
}

func TestCheckout_RejectedCouponFailsTheCheckout(t *testing.T) {
	f := newFixture(t, map[uint]int{1: 5})
	seedCart(f, "dev-1", []uint{1}, cart.LineItem{ProductID: 1, UnitPrice: 50000, Quantity: 1})

	_, err := f.pipeline.Checkout(context.Background(), &Request{
		DeviceID:   "dev-1",
		CouponCode: "NOPE",
		Customer:   buyer(),
	})

	assert.ErrorIs(t, err, coupon.ErrNotApplicable)
	assert.Empty(t, f.orderRepo.persisted)
	assert.Equal(t, 5, f.stock.stock[1])
}

func TestCheckout_OutOfStockLeavesCartUntouched(t *testing.T) {
	f := newFixture(t, map[uint]int{1: 0})
	seedCart(f, "dev-1", []uint{1}, cart.LineItem{ProductID: 1, Title: "Book", UnitPrice: 50000, Quantity: 1})

	_, err := f.pipeline.Checkout(context.Background(), &Request{DeviceID: "dev-1", Customer: buyer()})

	var oos *inventory.OutOfStockError
	require.ErrorAs(t, err, &oos)
	assert.Equal(t, uint(1), oos.ProductID)

	after, err := f.cartRepo.Load(context.Background(), "dev-1")
	require.NoError(t, err)
	require.Len(t, after.Items, 1, "a failed checkout must not modify the cart")
	assert.Equal(t, []uint{1}, after.SelectedIDs)
}

func TestCheckout_UsageIncrementFailureIsSwallowed(t *testing.T) {
	couponRow := &coupon.Coupon{
		Code:          "WELCOME10",
		DiscountType:  coupon.DiscountTypePercentage,
		DiscountValue: 10,
		UsageLimit:    100,
		ExpiresAt:     time.Now().Add(24 * time.Hour),
		IsActive:      true,
	}
	f := newFixture(t, map[uint]int{1: 5}, couponRow)
	f.couponRepo.incrementErr = errors.New("db down")
	seedCart(f, "dev-1", []uint{1}, cart.LineItem{ProductID: 1, UnitPrice: 200000, Quantity: 1})

	res, err := f.pipeline.Checkout(context.Background(), &Request{
		DeviceID:   "dev-1",
		CouponCode: "WELCOME10",
		Customer:   buyer(),
	})

	// The order is already placed; the increment is best effort.
	require.NoError(t, err)
	assert.NotZero(t, res.OrderID)
	require.Len(t, f.orderRepo.persisted, 1)
}
