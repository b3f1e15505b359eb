package order

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/chibuezemicahe/wdd330-sleepoutside/models"
	"github.com/chibuezemicahe/wdd330-sleepoutside/storage"
)

// History is the append-only list of a session's placed orders
type History struct {
	slots storage.Store
	mu    sync.Mutex
}

func NewHistory(slots storage.Store) *History {
	return &History{slots: slots}
}

// List returns the session's orders, oldest first
func (h *History) List(ctx context.Context, sess models.Session) ([]models.Order, error) {
	var orders []models.Order
	err := storage.GetJSON(ctx, h.slots, sess.OrdersKey(), &orders)
	switch {
	case err == nil:
	case storage.IsNotFound(err):
		return []models.Order{}, nil
	case storage.IsCorrupt(err):
		zap.S().Errorw("Order history is unreadable", "session", sess.ID, "error", err)
		return nil, err
	default:
		return nil, errors.Wrap(err, "read orders")
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

// Append adds order to the end of the session's history
func (h *History) Append(ctx context.Context, sess models.Session, order models.Order) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	orders, err := h.List(ctx, sess)
	if err != nil {
		// never overwrite a history we could not read
		return err
	}
	orders = append(orders, order)
	return errors.Wrap(storage.PutJSON(ctx, h.slots, sess.OrdersKey(), orders), "write orders")
}
