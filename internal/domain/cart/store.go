// internal/domain/cart/store.go
package cart

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/bookstore-commerce/internal/domain/catalog"
)

// Store handles cart business logic. Each operation loads the device's
// cart from the durable cache, mutates it, and writes the whole cart back
// (write-through, no batching). A cache-write failure is logged but never
// surfaced: the mutation already happened from the client's point of view
// and a later write supersedes the lost one.
type Store struct {
	repo   Repository
	logger *logrus.Logger
}

// NewStore creates a new cart store
func NewStore(repo Repository, logger *logrus.Logger) *Store {
	return &Store{
		repo:   repo,
		logger: logger,
	}
}

// Get retrieves the cart for a device
func (s *Store) Get(ctx context.Context, deviceID string) (*Cart, error) {
	return s.repo.Load(ctx, deviceID)
}

// Add puts a product in the cart with its price frozen at the current
// catalog price. Adding an already-present product increments its quantity
// instead of creating a second line. New lines default to selected.
func (s *Store) Add(ctx context.Context, deviceID string, book *catalog.Book, quantity int) (*Cart, error) {
	if quantity < 1 {
		quantity = 1
	}

	c, err := s.repo.Load(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range c.Items {
		if c.Items[i].ProductID == book.ID {
			c.Items[i].Quantity += quantity
			found = true
			break
		}
	}

	if !found {
		c.Items = append(c.Items, LineItem{
			ProductID: book.ID,
			Title:     book.Title,
			Cover:     book.Cover,
			UnitPrice: book.Price,
			Quantity:  quantity,
			AddedAt:   time.Now().UTC(),
		})
	}

	if !c.IsSelected(book.ID) {
		c.SelectedIDs = append(c.SelectedIDs, book.ID)
	}

	s.persist(ctx, deviceID, c)
	return c, nil
}

// SetQuantity updates a line's quantity, clamped to a minimum of 1.
// Reaching the floor never removes the line; removal is explicit.
func (s *Store) SetQuantity(ctx context.Context, deviceID string, productID uint, quantity int) (*Cart, error) {
	if quantity < 1 {
		quantity = 1
	}

	c, err := s.repo.Load(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity = quantity
			break
		}
	}

	s.persist(ctx, deviceID, c)
	return c, nil
}

// Remove deletes a line and prunes it from the selection
func (s *Store) Remove(ctx context.Context, deviceID string, productID uint) (*Cart, error) {
	c, err := s.repo.Load(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			break
		}
	}
	c.pruneSelection()

	s.persist(ctx, deviceID, c)
	return c, nil
}

// RemoveMany deletes several lines at once. Checkout uses it to clear
// exactly the lines that were just purchased.
func (s *Store) RemoveMany(ctx context.Context, deviceID string, productIDs []uint) (*Cart, error) {
	c, err := s.repo.Load(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	drop := make(map[uint]bool, len(productIDs))
	for _, id := range productIDs {
		drop[id] = true
	}

	kept := c.Items[:0]
	for _, item := range c.Items {
		if !drop[item.ProductID] {
			kept = append(kept, item)
		}
	}
	c.Items = kept
	c.pruneSelection()

	s.persist(ctx, deviceID, c)
	return c, nil
}

// SetSelected marks or unmarks a line for the next checkout
func (s *Store) SetSelected(ctx context.Context, deviceID string, productID uint, selected bool) (*Cart, error) {
	c, err := s.repo.Load(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	inCart := false
	for _, item := range c.Items {
		if item.ProductID == productID {
			inCart = true
			break
		}
	}

	if inCart {
		already := c.IsSelected(productID)
		if selected && !already {
			c.SelectedIDs = append(c.SelectedIDs, productID)
		} else if !selected && already {
			for i, id := range c.SelectedIDs {
				if id == productID {
					c.SelectedIDs = append(c.SelectedIDs[:i], c.SelectedIDs[i+1:]...)
					break
				}
			}
		}
	}

	s.persist(ctx, deviceID, c)
	return c, nil
}

// SelectedItems snapshots the lines marked for checkout
func (s *Store) SelectedItems(ctx context.Context, deviceID string) ([]LineItem, error) {
	c, err := s.repo.Load(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	return c.SelectedItems(), nil
}

// Clear empties the cart and the selection
func (s *Store) Clear(ctx context.Context, deviceID string) error {
	return s.repo.Delete(ctx, deviceID)
}

func (s *Store) persist(ctx context.Context, deviceID string, c *Cart) {
	c.UpdatedAt = time.Now().UTC()
	if err := s.repo.Save(ctx, deviceID, c); err != nil {
		s.logger.WithField("device_id", deviceID).WithError(err).Warn("cart cache write failed")
	}
}
