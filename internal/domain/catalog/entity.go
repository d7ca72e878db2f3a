// internal/domain/catalog/entity.go
package catalog

import (
	"time"

	"gorm.io/gorm"
)

// Book represents a catalog entry. The row also carries the stock quantity;
// it is decremented only through the inventory reservation primitive.
type Book struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"not null;size:255" json:"title"`
	Author      string         `gorm:"size:255" json:"author"`
	Description string         `gorm:"type:text" json:"description"`
	Cover       string         `gorm:"size:512" json:"cover"`
	Price       int64          `gorm:"not null" json:"price"` // In minor currency units
	Quantity    int            `gorm:"not null;default:0" json:"quantity"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (Book) TableName() string {
	return "books"
}

// InStock checks whether the requested quantity is currently available.
// Advisory only: the authoritative check happens in the reservation.
func (b *Book) InStock(quantity int) bool {
	return b.Quantity >= quantity
}
