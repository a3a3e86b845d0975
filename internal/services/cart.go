package services

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/diewo77/ventepos/internal/models"
	"github.com/diewo77/ventepos/internal/prefs"
)

// CartService holds the current in-progress sale as an ordered collection of
// lines keyed by product identity. All mutating operations are guarded by one
// lock and snapshot the collection to the preferences store, so the basket
// survives a crash or restart.
//
// The service performs no stock checks; callers validate quantities against
// current product stock before adding or updating a line.
type CartService struct {
	mu     sync.Mutex
	lines  []models.CartLine
	store  *prefs.Store
	logger *zap.Logger
}

func NewCartService(store *prefs.Store, logger *zap.Logger) *CartService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartService{store: store, logger: logger}
}

// AddOrUpdateLine replaces the quantity of the existing line for the same
// product (last write wins, not additive), or appends a copy of the incoming
// line. The stored line never aliases caller-owned memory.
func (c *CartService) AddOrUpdateLine(line models.CartLine) (models.CartLine, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID == line.ProductID {
			c.lines[i].Quantite = line.Quantite
			stored := c.lines[i]
			return stored, c.persistLocked()
		}
	}

	stored := copyLine(line)
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if stored.DateDeVente.IsZero() {
		stored.DateDeVente = time.Now()
	}
	c.lines = append(c.lines, stored)
	return stored, c.persistLocked()
}

// RemoveLine removes by line identity; it is a no-op when the basket is
// empty or the id is absent. The updated basket is persisted either way.
func (c *CartService) RemoveLine(lineID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ID == lineID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			break
		}
	}
	return c.persistLocked()
}

// Lines returns a copy of the current basket in insertion order.
func (c *CartService) Lines() []models.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.CartLine, 0, len(c.lines))
	for _, l := range c.lines {
		out = append(out, copyLine(l))
	}
	return out
}

// Line looks a single line up by its id.
func (c *CartService) Line(lineID string) (models.CartLine, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, l := range c.lines {
		if l.ID == lineID {
			return copyLine(l), true
		}
	}
	return models.CartLine{}, false
}

// TotalPrice sums quantity times unit price over all lines; zero for an
// empty basket.
func (c *CartService) TotalPrice() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total float64
	for _, l := range c.lines {
		total += l.TotalPrice()
	}
	return total
}

// Clear empties the basket, in memory and in the preferences store.
func (c *CartService) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
	if err := c.store.Delete(prefs.KeyCartItems); err != nil {
		return fmt.Errorf("clear persisted cart: %w", err)
	}
	return nil
}

// Persist snapshots the basket to the preferences store. Called on process
// suspend in addition to the implicit persistence done by mutations.
func (c *CartService) Persist() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.persistLocked()
}

// Restore loads the basket persisted by a previous process. A missing slot
// leaves the basket empty.
func (c *CartService) Restore() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	raw, ok, err := c.store.Get(prefs.KeyCartItems)
	if err != nil {
		return fmt.Errorf("restore cart: %w", err)
	}
	if !ok {
		return nil
	}
	var lines []models.CartLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		return fmt.Errorf("restore cart: %w", err)
	}
	c.lines = lines
	c.logger.Info("cart restored", zap.Int("lines", len(lines)))
	return nil
}

func (c *CartService) persistLocked() error {
	raw, err := json.Marshal(c.lines)
	if err != nil {
		return fmt.Errorf("persist cart: %w", err)
	}
	if err := c.store.Put(prefs.KeyCartItems, raw); err != nil {
		return fmt.Errorf("persist cart: %w", err)
	}
	return nil
}

// copyLine deep-copies a line, including the optional expiry date pointer.
func copyLine(l models.CartLine) models.CartLine {
	out := l
	if l.DateLimite != nil {
		d := *l.DateLimite
		out.DateLimite = &d
	}
	return out
}
