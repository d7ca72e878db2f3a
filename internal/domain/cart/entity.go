// internal/domain/cart/entity.go
package cart

import (
	"time"
)

// LineItem represents one product entry in the cart. The unit price is
// frozen at the moment the product is added and is never re-read from the
// catalog while the item sits in the cart.
type LineItem struct {
	ProductID uint      `json:"product_id"`
	Title     string    `json:"title"`
	Cover     string    `json:"cover"`
	UnitPrice int64     `json:"unit_price"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
}

// Subtotal returns the frozen price times quantity for this line
func (li LineItem) Subtotal() int64 {
	return li.UnitPrice * int64(li.Quantity)
}

// Cart is the durable-cache form of a device's cart: the line items in
// insertion order plus the ids selected for the next checkout.
// Invariant: SelectedIDs is a subset of the item ids; every mutation prunes.
type Cart struct {
	Items       []LineItem `json:"items"`
	SelectedIDs []uint     `json:"selected_ids"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Totals represents calculated cart totals
type Totals struct {
	ItemCount        int   `json:"item_count"`     // Number of unique items
	TotalQuantity    int   `json:"total_quantity"` // Sum of all quantities
	SubTotal         int64 `json:"sub_total"`      // All lines
	SelectedSubTotal int64 `json:"selected_sub_total"`
}

// IsSelected reports whether the given product participates in checkout
func (c *Cart) IsSelected(productID uint) bool {
	for _, id := range c.SelectedIDs {
		if id == productID {
			return true
		}
	}
	return false
}

// SelectedItems returns the lines marked for checkout, in cart order
func (c *Cart) SelectedItems() []LineItem {
	items := make([]LineItem, 0, len(c.SelectedIDs))
	for _, item := range c.Items {
		if c.IsSelected(item.ProductID) {
			items = append(items, item)
		}
	}
	return items
}

// Totals calculates summary numbers for the cart
func (c *Cart) Totals() Totals {
	var totals Totals
	totals.ItemCount = len(c.Items)
	for _, item := range c.Items {
		totals.TotalQuantity += item.Quantity
		totals.SubTotal += item.Subtotal()
		if c.IsSelected(item.ProductID) {
			totals.SelectedSubTotal += item.Subtotal()
		}
	}
	return totals
}

// pruneSelection drops selected ids that no longer reference a cart line
func (c *Cart) pruneSelection() {
	kept := c.SelectedIDs[:0]
	for _, id := range c.SelectedIDs {
		for _, item := range c.Items {
			if item.ProductID == id {
				kept = append(kept, id)
				break
			}
		}
	}
	c.SelectedIDs = kept
}
