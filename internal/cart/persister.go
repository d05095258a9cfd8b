package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/oxygenixlabs/storefront/internal/storage"
	"github.com/oxygenixlabs/storefront/pkg/logger"
)

const (
	// DefaultNamespace prefixes every persisted cart key.
	DefaultNamespace = "oxygenix-cart"
	snapshotVersion  = 1
)

type snapshot struct {
	Version int        `json:"version"`
	Items   []LineItem `json:"items"`
}

// Persister reads and writes whole-cart snapshots under <namespace>:<cartID>.
type Persister struct {
	storage   storage.Storage
	namespace string
	logg      *logger.Logger
	metrics   Recorder
}

func NewPersister(st storage.Storage, namespace string, logg *logger.Logger, metrics Recorder) (*Persister, error) {
	if st == nil {
		return nil, fmt.Errorf("cart storage required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if metrics == nil {
		metrics = nopRecorder{}
	}
	return &Persister{storage: st, namespace: namespace, logg: logg, metrics: metrics}, nil
}

// Key returns the storage key for cartID.
func (p *Persister) Key(cartID string) string {
	return p.namespace + ":" + cartID
}

// Load returns the persisted items for cartID. Anything other than a valid
// version-1 snapshot yields an empty cart; the reason is logged and counted.
func (p *Persister) Load(ctx context.Context, cartID string) []LineItem {
	ctx = p.logg.WithField(ctx, "cart_key", p.Key(cartID))

	raw, err := p.storage.Get(ctx, p.Key(cartID))
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		p.metrics.PersistFailure(opLoad)
		p.logg.Warn(p.logg.WithField(ctx, "error", err.Error()), "cart snapshot read failed; starting empty")
		return nil
	}

	items, reason, err := decodeSnapshot(raw)
	if err != nil {
		p.metrics.SnapshotDiscarded(reason)
		p.logg.Warn(p.logg.WithFields(ctx, map[string]any{
			"reason": reason,
			"error":  err.Error(),
		}), "discarding cart snapshot")
		return nil
	}
	return items
}

// Save overwrites the snapshot for cartID with items.
func (p *Persister) Save(ctx context.Context, cartID string, items []LineItem) error {
	if items == nil {
		items = []LineItem{}
	}
	raw, err := json.Marshal(snapshot{Version: snapshotVersion, Items: items})
	if err != nil {
		return fmt.Errorf("encode cart snapshot: %w", err)
	}
	if err := p.storage.Set(ctx, p.Key(cartID), raw, 0); err != nil {
		return fmt.Errorf("write cart snapshot: %w", err)
	}
	return nil
}

func decodeSnapshot(raw []byte) ([]LineItem, string, error) {
	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, discardCorrupt, err
	}
	if snap.Version != snapshotVersion {
		return nil, discardVersion, fmt.Errorf("snapshot version %d", snap.Version)
	}
	if err := validateItems(snap.Items); err != nil {
		return nil, discardInvariant, err
	}
	return snap.Items, "", nil
}

func validateItems(items []LineItem) error {
	seen := make(map[Key]struct{}, len(items))
	for i, item := range items {
		switch {
		case item.ProductID == "" || item.VariantID == "":
			return fmt.Errorf("item %d: missing product or variant id", i)
		case item.Quantity < 1:
			return fmt.Errorf("item %d: quantity %d", i, item.Quantity)
		case item.UnitPrice < 0:
			return fmt.Errorf("item %d: negative unit price", i)
		case item.AddOnUnitPrice != nil && *item.AddOnUnitPrice < 0:
			return fmt.Errorf("item %d: negative add-on price", i)
		case item.IncludeAddOn && item.AddOnUnitPrice == nil:
			return fmt.Errorf("item %d: add-on selected without a price", i)
		}
		if _, dup := seen[item.Key()]; dup {
			return fmt.Errorf("item %d: duplicate key %s/%s", i, item.ProductID, item.VariantID)
		}
		seen[item.Key()] = struct{}{}
	}
	return nil
}
