package cart

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/chibuezemicahe/wdd330-sleepoutside/models"
	"github.com/chibuezemicahe/wdd330-sleepoutside/storage"
)

// Store owns the persisted cart of each session. Every mutation reads the
// whole cart slot, changes it and writes the whole value back.
type Store struct {
	slots storage.Store
	// serializes read-modify-write cycles within this process
	mu sync.Mutex
}

func NewStore(slots storage.Store) *Store {
	return &Store{slots: slots}
}

// Get returns the current line items. A missing or undecodable slot reads
// as an empty cart.
func (s *Store) Get(ctx context.Context, sess models.Session) ([]models.CartLineItem, error) {
	return s.load(ctx, sess)
}

// Add merges product into the cart: an existing line with the same id and
// category gets its quantity incremented, otherwise a new line with
// quantity 1 is appended. The returned item is the line after the change.
func (s *Store) Add(ctx context.Context, sess models.Session, product models.Product) (models.CartLineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load(ctx, sess)
	if err != nil {
		return models.CartLineItem{}, err
	}

	key := product.Key()
	idx := -1
	for i, item := range items {
		if item.Product.Key() == key {
			idx = i
			break
		}
	}
	if idx >= 0 {
		items[idx].Quantity++
	} else {
		items = append(items, models.CartLineItem{Product: product, Quantity: 1})
		idx = len(items) - 1
	}

	if err := s.save(ctx, sess, items); err != nil {
		return models.CartLineItem{}, err
	}
	zap.S().Infow("Product added to cart",
		"session", sess.ID, "id", product.ID, "category", product.Category, "quantity", items[idx].Quantity)
	return items[idx], nil
}

// RemoveAt drops the line at index. An index outside the current cart is
// ignored so stale views cannot fail.
func (s *Store) RemoveAt(ctx context.Context, sess models.Session, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load(ctx, sess)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(items) {
		zap.S().Debugw("Ignoring cart removal out of range", "session", sess.ID, "index", index, "size", len(items))
		return nil
	}
	items = append(items[:index], items[index+1:]...)
	return s.save(ctx, sess, items)
}

// SetQuantity changes the quantity of the line at index. A quantity of
// zero or less removes the line. Out of range indexes are ignored.
func (s *Store) SetQuantity(ctx context.Context, sess models.Session, index, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load(ctx, sess)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(items) {
		return nil
	}
	if quantity <= 0 {
		items = append(items[:index], items[index+1:]...)
	} else {
		items[index].Quantity = quantity
	}
	return s.save(ctx, sess, items)
}

// Clear empties the cart
func (s *Store) Clear(ctx context.Context, sess models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, sess, []models.CartLineItem{})
}

// Summary recomputes subtotal and item count from the persisted cart
func (s *Store) Summary(ctx context.Context, sess models.Session) (models.CartSummary, error) {
	items, err := s.load(ctx, sess)
	if err != nil {
		return models.CartSummary{}, err
	}
	return models.Summarize(items), nil
}

func (s *Store) load(ctx context.Context, sess models.Session) ([]models.CartLineItem, error) {
	var items []models.CartLineItem
	err := storage.GetJSON(ctx, s.slots, sess.CartKey(), &items)
	switch {
	case err == nil:
	case storage.IsNotFound(err):
		return []models.CartLineItem{}, nil
	case storage.IsCorrupt(err):
		zap.S().Warnw("Discarding unreadable cart", "session", sess.ID, "error", err)
		return []models.CartLineItem{}, nil
	default:
		return nil, errors.Wrap(err, "read cart")
	}

	out := items[:0]
	for _, item := range items {
		// carts written before quantities existed hold one unit per line
		if item.Quantity == 0 {
			item.Quantity = 1
		}
		if item.Quantity < 0 {
			continue
		}
		out = append(out, item)
	}
	if out == nil {
		out = []models.CartLineItem{}
	}
	return out, nil
}

func (s *Store) save(ctx context.Context, sess models.Session, items []models.CartLineItem) error {
	if items == nil {
		items = []models.CartLineItem{}
	}
	return errors.Wrap(storage.PutJSON(ctx, s.slots, sess.CartKey(), items), "write cart")
}
