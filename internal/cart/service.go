package cart

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oxygenixlabs/storefront/pkg/logger"
)

// DefaultIdleTTL is how long an untouched cart stays open in memory.
const DefaultIdleTTL = 30 * time.Minute

// Service hands out one shared Store per cart id, so every request on a cart
// in this process is serialized by the same mutex.
type Service struct {
	persister *Persister
	logg      *logger.Logger
	metrics   Recorder
	idleTTL   time.Duration
	now       func() time.Time

	mu        sync.Mutex
	open      map[string]*openCart
	lastPrune time.Time
}

type openCart struct {
	store    *Store
	lastUsed time.Time
}

// NewService builds a cart service backed by the provided persister.
func NewService(persister *Persister, logg *logger.Logger, metrics Recorder) (*Service, error) {
	if persister == nil {
		return nil, fmt.Errorf("cart persister required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if metrics == nil {
		metrics = nopRecorder{}
	}
	return &Service{
		persister: persister,
		logg:      logg,
		metrics:   metrics,
		idleTTL:   DefaultIdleTTL,
		now:       time.Now,
		open:      map[string]*openCart{},
	}, nil
}

// Open returns the Store for cartID, refreshed from storage. A store whose
// last save failed keeps its in-memory rows instead.
func (s *Service) Open(ctx context.Context, cartID string) (*Store, error) {
	cartID = strings.TrimSpace(cartID)
	if cartID == "" {
		return nil, fmt.Errorf("cart id required")
	}

	s.mu.Lock()
	now := s.now()
	s.pruneLocked(now)
	entry, ok := s.open[cartID]
	if !ok {
		entry = &openCart{store: &Store{
			cartID:  cartID,
			saver:   s.persister,
			logg:    s.logg,
			metrics: s.metrics,
		}}
		s.open[cartID] = entry
	}
	entry.lastUsed = now
	s.mu.Unlock()

	entry.store.refresh(ctx, s.persister)
	return entry.store, nil
}

// OpenCount reports how many carts are held in memory.
func (s *Service) OpenCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.open)
}

// pruneLocked drops carts idle longer than idleTTL, scanning at most once per
// idleTTL. Dropped carts reload from storage on their next Open.
func (s *Service) pruneLocked(now time.Time) {
	if now.Sub(s.lastPrune) < s.idleTTL {
		return
	}
	s.lastPrune = now
	for id, entry := range s.open {
		if now.Sub(entry.lastUsed) >= s.idleTTL && !entry.store.hasUnsaved() {
			delete(s.open, id)
		}
	}
}
