package cart

import (
	"context"
	"sync"

	"github.com/oxygenixlabs/storefront/pkg/logger"
	"github.com/oxygenixlabs/storefront/pkg/money"
	"github.com/shopspring/decimal"
)

// MaxQuantity caps a single row.
const MaxQuantity = 99

type saver interface {
	Save(ctx context.Context, cartID string, items []LineItem) error
}

type loader interface {
	Load(ctx context.Context, cartID string) []LineItem
}

// Store owns the line items of a single cart. Every mutation persists the
// whole list before returning; persistence failures are logged and the store
// keeps serving from memory. Processes sharing one storage medium overwrite
// each other (last write wins).
type Store struct {
	mu      sync.Mutex
	cartID  string
	items   []LineItem
	unsaved bool
	saver   saver
	logg    *logger.Logger
	metrics Recorder
}

// ID returns the cart identifier the store persists under.
func (s *Store) ID() string {
	return s.cartID
}

// AddItem merges quantity into an existing row or appends a new one.
// Quantities below one are treated as one; rows never exceed MaxQuantity.
func (s *Store) AddItem(ctx context.Context, c Candidate, quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	s.mutate(ctx, opAdd, func() bool {
		if i := s.indexOf(Key{c.ProductID, c.VariantID}); i >= 0 {
			merged := capQuantity(s.items[i].Quantity + quantity)
			if merged == s.items[i].Quantity {
				return false
			}
			s.items[i].Quantity = merged
			return true
		}
		s.items = append(s.items, newLineItem(c, capQuantity(quantity)))
		return true
	})
}

// RemoveItem deletes the row; absent keys are a no-op.
func (s *Store) RemoveItem(ctx context.Context, productID, variantID string) {
	s.mutate(ctx, opRemove, func() bool {
		return s.remove(Key{productID, variantID})
	})
}

// UpdateQuantity sets the row's quantity exactly. Zero or less removes the row.
func (s *Store) UpdateQuantity(ctx context.Context, productID, variantID string, quantity int) {
	s.mutate(ctx, opUpdate, func() bool {
		key := Key{productID, variantID}
		if quantity <= 0 {
			return s.remove(key)
		}
		i := s.indexOf(key)
		if i < 0 {
			return false
		}
		s.items[i].Quantity = capQuantity(quantity)
		return true
	})
}

// ToggleAddOn flips the add-on flag for rows whose variant offers one.
func (s *Store) ToggleAddOn(ctx context.Context, productID, variantID string) {
	s.mutate(ctx, opToggleAddOn, func() bool {
		i := s.indexOf(Key{productID, variantID})
		if i < 0 || !s.items[i].HasAddOn() {
			return false
		}
		s.items[i].IncludeAddOn = !s.items[i].IncludeAddOn
		return true
	})
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) {
	s.mutate(ctx, opClear, func() bool {
		s.items = nil
		return true
	})
}

// Items returns a copy of the rows in insertion order.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneItems(s.items)
}

// ItemCount is the sum of quantities.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, item := range s.items {
		n += item.Quantity
	}
	return n
}

// Subtotal sums line totals, add-ons included.
func (s *Store) Subtotal() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return subtotal(s.items)
}

func (s *Store) Tax() decimal.Decimal {
	return money.Tax(s.Subtotal())
}

func (s *Store) Total() decimal.Decimal {
	return money.Total(s.Subtotal())
}

// Totals is a consistent read of every derived amount.
type Totals struct {
	ItemCount int
	Subtotal  int64
	Tax       decimal.Decimal
	Total     decimal.Decimal
}

// Snapshot returns the rows and their totals under a single lock.
func (s *Store) Snapshot() ([]LineItem, Totals) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneItems(s.items), s.totalsLocked()
}

// Drain passes the rows and totals to fn while holding the cart and empties
// it only when fn returns nil. Other mutations wait until fn is done.
func (s *Store) Drain(ctx context.Context, fn func(items []LineItem, totals Totals) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(cloneItems(s.items), s.totalsLocked()); err != nil {
		return err
	}
	s.items = nil
	s.metrics.CartOp(opClear)
	s.persistLocked(ctx, opClear)
	return nil
}

func (s *Store) totalsLocked() Totals {
	count := 0
	for _, item := range s.items {
		count += item.Quantity
	}
	sub := subtotal(s.items)
	return Totals{
		ItemCount: count,
		Subtotal:  sub,
		Tax:       money.Tax(sub),
		Total:     money.Total(sub),
	}
}

// refresh reloads the rows from storage unless the last save failed.
func (s *Store) refresh(ctx context.Context, src loader) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unsaved {
		return
	}
	s.items = src.Load(ctx, s.cartID)
}

func (s *Store) hasUnsaved() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unsaved
}

func capQuantity(n int) int {
	if n > MaxQuantity {
		return MaxQuantity
	}
	return n
}

func subtotal(items []LineItem) int64 {
	var total int64
	for _, item := range items {
		total += item.LineTotal()
	}
	return total
}

func (s *Store) mutate(ctx context.Context, op string, fn func() bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !fn() {
		return
	}
	s.metrics.CartOp(op)
	s.persistLocked(ctx, op)
}

func (s *Store) persistLocked(ctx context.Context, op string) {
	if err := s.saver.Save(ctx, s.cartID, s.items); err != nil {
		s.unsaved = true
		s.metrics.PersistFailure(opSave)
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
			"op":    op,
			"error": err.Error(),
		}), "cart snapshot save failed; continuing in memory")
		return
	}
	s.unsaved = false
}

func (s *Store) indexOf(key Key) int {
	for i, item := range s.items {
		if item.Key() == key {
			return i
		}
	}
	return -1
}

func (s *Store) remove(key Key) bool {
	i := s.indexOf(key)
	if i < 0 {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return true
}
