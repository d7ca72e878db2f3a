// internal/domain/catalog/service.go
package catalog

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrBookNotFound is returned when a book does not exist or is inactive
var ErrBookNotFound = errors.New("book not found or inactive")

// Resolver looks up product snapshots by id. The cart freezes prices from
// it and the wishlist engine resolves remote id lists through it.
type Resolver interface {
	Book(ctx context.Context, id uint) (*Book, error)
	Books(ctx context.Context, ids []uint) ([]Book, error)
}

// Service handles catalog reads
type Service struct {
	db *gorm.DB
}

// NewService creates a new catalog service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Book retrieves a single active book by id
func (s *Service) Book(ctx context.Context, id uint) (*Book, error) {
	var book Book
	result := s.db.WithContext(ctx).Where("id = ? AND is_active = ?", id, true).First(&book)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to retrieve book: %w", result.Error)
	}
	return &book, nil
}

// Books retrieves active books for the given ids, preserving the id order.
// Missing or inactive ids are skipped, not errors: a wishlist can reference
// products that were removed from the catalog since it was written.
func (s *Service) Books(ctx context.Context, ids []uint) ([]Book, error) {
	if len(ids) == 0 {
		return []Book{}, nil
	}

	var found []Book
	err := s.db.WithContext(ctx).Where("id IN ? AND is_active = ?", ids, true).Find(&found).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve books: %w", err)
	}

	byID := make(map[uint]Book, len(found))
	for _, b := range found {
		byID[b.ID] = b
	}

	books := make([]Book, 0, len(ids))
	for _, id := range ids {
		if b, ok := byID[id]; ok {
			books = append(books, b)
		}
	}

	return books, nil
}

// List retrieves active books with offset pagination
func (s *Service) List(ctx context.Context, page, limit int) ([]Book, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var total int64
	query := s.db.WithContext(ctx).Model(&Book{}).Where("is_active = ?", true)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count books: %w", err)
	}

	var books []Book
	offset := (page - 1) * limit
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&books).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve books: %w", err)
	}

	return books, total, nil
}
