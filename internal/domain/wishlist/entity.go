package wishlist

import (
	"time"
)

// Entry is the denormalized, offline-capable form kept in the device
// cache. It is a display snapshot only: whenever an entry is rendered the
// authoritative product record is re-fetched by id.
type Entry struct {
	ProductID uint      `json:"product_id"`
	Title     string    `json:"title"`
	Cover     string    `json:"cover"`
	Price     int64     `json:"price"`
	AddedAt   time.Time `json:"added_at"`
}

// RemoteEntry is the normalized, authoritative form: one row per
// user/product pair in the shared store, ordered by position.
type RemoteEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	Position  int       `gorm:"not null;default:0" json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (RemoteEntry) TableName() string {
	return "wishlist_entries"
}

// ids extracts the product ids of a snapshot list, in order
func ids(entries []Entry) []uint {
	out := make([]uint, len(entries))
	for i, e := range entries {
		out[i] = e.ProductID
	}
	return out
}
