// internal/domain/order/entity.go
package order

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Status represents the order status
type Status string

const (
	StatusProcessing Status = "processing"
	StatusConfirmed  Status = "confirmed"
	StatusShipping   Status = "shipping"
	StatusDelivered  Status = "delivered"
)

// Status steps as shown to admins: 0=processing, 1=confirmed, 2=shipping,
// 3=delivered. 3 is terminal. Admin updates may set any step; the UI walks
// forward but regression is not rejected here.
const (
	StepProcessing = 0
	StepConfirmed  = 1
	StepShipping   = 2
	StepDelivered  = 3
)

var stepStatus = map[int]Status{
	StepProcessing: StatusProcessing,
	StepConfirmed:  StatusConfirmed,
	StepShipping:   StatusShipping,
	StepDelivered:  StatusDelivered,
}

// StatusForStep maps a numeric step to its status label
func StatusForStep(step int) (Status, error) {
	s, ok := stepStatus[step]
	if !ok {
		return "", fmt.Errorf("unknown status step %d", step)
	}
	return s, nil
}

// Customer holds the buyer-entered delivery details, embedded in the order
type Customer struct {
	Name    string `gorm:"size:255" json:"name"`
	Email   string `gorm:"size:255" json:"email"`
	Phone   string `gorm:"size:20" json:"phone"`
	Address string `gorm:"size:512" json:"address"`
	City    string `gorm:"size:100" json:"city"`
	Note    string `gorm:"type:text" json:"note"`
}

// Order represents a completed checkout. Everything except the status
// fields is immutable once created; orders are never deleted here.
type Order struct {
	ID          uint     `gorm:"primaryKey" json:"id"`
	OrderNumber string   `gorm:"uniqueIndex;not null;size:50" json:"order_number"`
	UserID      uint     `gorm:"not null;index" json:"user_id"`
	Status      Status   `gorm:"not null;default:'processing'" json:"status"`
	StatusStep  int      `gorm:"not null;default:0" json:"status_step"`
	Customer    Customer `gorm:"embedded;embeddedPrefix:customer_" json:"customer"`

	// Payment breakdown, frozen at checkout. In minor currency units.
	Subtotal       int64 `gorm:"not null" json:"subtotal"`
	Shipping       int64 `gorm:"default:0" json:"shipping"`
	CouponDiscount int64 `gorm:"default:0" json:"coupon_discount"`
	Total          int64 `gorm:"not null" json:"total"`

	CouponCode string `gorm:"size:50" json:"coupon_code,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
}

// OrderItem is a line copied by value out of the cart: title, cover and
// price are the ones in effect at purchase time, not live catalog reads.
type OrderItem struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	OrderID         uint      `gorm:"not null;index" json:"order_id"`
	ProductID       uint      `gorm:"not null;index" json:"product_id"`
	Title           string    `gorm:"not null;size:255" json:"title"`
	Cover           string    `gorm:"size:512" json:"cover"`
	PriceAtPurchase int64     `gorm:"not null" json:"price_at_purchase"`
	Quantity        int       `gorm:"not null" json:"quantity"`
	CreatedAt       time.Time `json:"created_at"`
}

// TableName overrides
func (Order) TableName() string     { return "orders" }
func (OrderItem) TableName() string { return "order_items" }

// GenerateOrderNumber formats a unique order number from the row id
func (o *Order) GenerateOrderNumber() string {
	// Format: ORD-YYYYMMDD-XXXXX
	return fmt.Sprintf("ORD-%s-%05d", time.Now().Format("20060102"), o.ID)
}

// IsDelivered checks whether the order reached the terminal step
func (o *Order) IsDelivered() bool {
	return o.StatusStep == StepDelivered
}
