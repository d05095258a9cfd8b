package cart

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/oxygenixlabs/storefront/internal/storage"
	"github.com/oxygenixlabs/storefront/pkg/logger"
)

func price(v int64) *int64 { return &v }

func homeCompact200() Candidate {
	return Candidate{
		ProductID:      "home-compact",
		VariantID:      "hc-200",
		ProductName:    "Oxygenix Home Compact",
		VariantName:    "200 sq ft",
		CoverageLabel:  "Small Bedroom",
		UnitPrice:      24999,
		AddOnUnitPrice: price(3999),
	}
}

func homePro500() Candidate {
	return Candidate{
		ProductID:      "home-pro",
		VariantID:      "hp-500",
		ProductName:    "Oxygenix Home Pro",
		VariantName:    "500 sq ft",
		CoverageLabel:  "Living Room",
		UnitPrice:      39999,
		AddOnUnitPrice: price(5499),
	}
}

type recordingMetrics struct {
	mu       sync.Mutex
	ops      map[string]int
	failures map[string]int
	discards map[string]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{ops: map[string]int{}, failures: map[string]int{}, discards: map[string]int{}}
}

func (r *recordingMetrics) CartOp(op string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops[op]++
}

func (r *recordingMetrics) PersistFailure(op string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures[op]++
}

func (r *recordingMetrics) SnapshotDiscarded(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.discards[reason]++
}

type failingStorage struct {
	getErr error
	setErr error
	sets   int
}

func (f *failingStorage) Get(context.Context, string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return nil, storage.ErrNotFound
}

func (f *failingStorage) Set(context.Context, string, []byte, time.Duration) error {
	f.sets++
	return f.setErr
}

func (f *failingStorage) Delete(context.Context, string) error { return nil }

func newService(t *testing.T, st storage.Storage, metrics Recorder) *Service {
	t.Helper()
	logg := logger.Nop()
	p, err := NewPersister(st, "", logg, metrics)
	if err != nil {
		t.Fatalf("NewPersister: %v", err)
	}
	svc, err := NewService(p, logg, metrics)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func openStore(t *testing.T, svc *Service, id string) *Store {
	t.Helper()
	s, err := svc.Open(context.Background(), id)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s
}

func TestSeedScenario(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, newService(t, storage.NewMemory(), nil), "visitor-1")

	s.AddItem(ctx, homeCompact200(), 1)
	if got := s.ItemCount(); got != 1 {
		t.Fatalf("step 1: expected count 1, got %d", got)
	}
	if got := s.Subtotal(); got != 24999 {
		t.Fatalf("step 1: expected subtotal 24999, got %d", got)
	}
	if got := s.Tax().StringFixed(2); got != "4499.82" {
		t.Fatalf("step 1: expected tax 4499.82, got %s", got)
	}
	if got := s.Total().StringFixed(2); got != "29498.82" {
		t.Fatalf("step 1: expected total 29498.82, got %s", got)
	}

	s.AddItem(ctx, homeCompact200(), 2)
	items := s.Items()
	if len(items) != 1 || items[0].Quantity != 3 {
		t.Fatalf("step 2: expected one row with qty 3, got %+v", items)
	}
	if got := s.Subtotal(); got != 74997 {
		t.Fatalf("step 2: expected subtotal 74997, got %d", got)
	}

	s.ToggleAddOn(ctx, "home-compact", "hc-200")
	if got := s.Subtotal(); got != 86994 {
		t.Fatalf("step 3: expected subtotal 86994, got %d", got)
	}

	s.UpdateQuantity(ctx, "home-compact", "hc-200", 0)
	if s.ItemCount() != 0 || s.Subtotal() != 0 {
		t.Fatalf("step 4: expected empty cart, got count=%d subtotal=%d", s.ItemCount(), s.Subtotal())
	}
}

func TestAddItemMergeKeepsExistingFields(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, newService(t, storage.NewMemory(), nil), "c")

	s.AddItem(ctx, homeCompact200(), 1)
	changed := homeCompact200()
	changed.UnitPrice = 1
	changed.ProductName = "renamed"
	changed.IncludeAddOn = true
	s.AddItem(ctx, changed, 4)

	items := s.Items()
	if len(items) != 1 {
		t.Fatalf("expected a single row, got %d", len(items))
	}
	if items[0].Quantity != 5 || items[0].UnitPrice != 24999 || items[0].ProductName != "Oxygenix Home Compact" || items[0].IncludeAddOn {
		t.Fatalf("merge should only add quantity, got %+v", items[0])
	}
}

func TestAddItemQuantityFloor(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, newService(t, storage.NewMemory(), nil), "c")

	s.AddItem(ctx, homeCompact200(), 0)
	s.AddItem(ctx, homePro500(), -3)

	for _, item := range s.Items() {
		if item.Quantity != 1 {
			t.Fatalf("expected clamped quantity 1, got %d for %s", item.Quantity, item.VariantID)
		}
	}
	if s.ItemCount() != 2 {
		t.Fatalf("expected count 2, got %d", s.ItemCount())
	}
}

func TestAddItemIgnoresAddOnWithoutPrice(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, newService(t, storage.NewMemory(), nil), "c")

	c := homeCompact200()
	c.AddOnUnitPrice = nil
	c.IncludeAddOn = true
	s.AddItem(ctx, c, 1)

	if s.Items()[0].IncludeAddOn {
		t.Fatal("add-on must not be selected without a price")
	}
	if s.Subtotal() != 24999 {
		t.Fatalf("unexpected subtotal %d", s.Subtotal())
	}

	s.ToggleAddOn(ctx, "home-compact", "hc-200")
	if s.Items()[0].IncludeAddOn {
		t.Fatal("toggle must be a no-op without an add-on price")
	}
}

func TestAddItemWithAddOnSelected(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, newService(t, storage.NewMemory(), nil), "c")

	c := homePro500()
	c.IncludeAddOn = true
	s.AddItem(ctx, c, 2)

	if got := s.Subtotal(); got != 2*(39999+5499) {
		t.Fatalf("unexpected subtotal %d", got)
	}
}

func TestRemoveItemIdempotent(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, newService(t, storage.NewMemory(), nil), "c")

	s.AddItem(ctx, homeCompact200(), 1)
	s.AddItem(ctx, homePro500(), 1)

	s.RemoveItem(ctx, "home-compact", "hc-200")
	s.RemoveItem(ctx, "home-compact", "hc-200")
	s.RemoveItem(ctx, "unknown", "x")

	items := s.Items()
	if len(items) != 1 || items[0].VariantID != "hp-500" {
		t.Fatalf("unexpected items after removals: %+v", items)
	}
}

func TestUpdateQuantity(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, newService(t, storage.NewMemory(), nil), "c")
	s.AddItem(ctx, homeCompact200(), 1)

	s.UpdateQuantity(ctx, "home-compact", "hc-200", 7)
	if s.ItemCount() != 7 {
		t.Fatalf("expected exact quantity 7, got %d", s.ItemCount())
	}

	s.UpdateQuantity(ctx, "home-pro", "hp-500", 3)
	if len(s.Items()) != 1 {
		t.Fatal("update of an absent key must not add a row")
	}

	s.UpdateQuantity(ctx, "home-compact", "hc-200", -1)
	if len(s.Items()) != 0 {
		t.Fatal("negative quantity should remove the row")
	}
}

func TestToggleRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, newService(t, storage.NewMemory(), nil), "c")
	s.AddItem(ctx, homeCompact200(), 2)

	before := s.Subtotal()
	s.ToggleAddOn(ctx, "home-compact", "hc-200")
	if s.Subtotal() != before+2*3999 {
		t.Fatalf("expected add-on included, got %d", s.Subtotal())
	}
	s.ToggleAddOn(ctx, "home-compact", "hc-200")
	if s.Subtotal() != before {
		t.Fatalf("expected round trip to restore %d, got %d", before, s.Subtotal())
	}
	s.ToggleAddOn(ctx, "missing", "x")
}

func TestTaxRecomputedEveryRead(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, newService(t, storage.NewMemory(), nil), "c")

	s.AddItem(ctx, homeCompact200(), 1)
	first := s.Tax()
	s.AddItem(ctx, homePro500(), 1)
	second := s.Tax()

	if first.Equal(second) {
		t.Fatal("tax must follow the current subtotal")
	}
	if got := second.StringFixed(2); got != "11699.64" {
		t.Fatalf("expected tax 11699.64 for subtotal 64998, got %s", got)
	}
	if got := s.Total().StringFixed(2); got != "76697.64" {
		t.Fatalf("expected total 76697.64, got %s", got)
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	svc := newService(t, mem, nil)

	first := openStore(t, svc, "visitor-1")
	first.AddItem(ctx, homeCompact200(), 2)
	first.AddItem(ctx, homePro500(), 1)
	first.ToggleAddOn(ctx, "home-pro", "hp-500")

	reopened := openStore(t, svc, "visitor-1")
	if got, want := reopened.Items(), first.Items(); len(got) != len(want) {
		t.Fatalf("expected %d items after reopen, got %d", len(want), len(got))
	} else {
		for i := range want {
			if got[i].Key() != want[i].Key() || got[i].Quantity != want[i].Quantity || got[i].IncludeAddOn != want[i].IncludeAddOn {
				t.Fatalf("row %d mismatch: got %+v want %+v", i, got[i], want[i])
			}
			if *got[i].AddOnUnitPrice != *want[i].AddOnUnitPrice {
				t.Fatalf("row %d add-on price mismatch", i)
			}
		}
	}
	if reopened.Subtotal() != first.Subtotal() {
		t.Fatalf("subtotal mismatch after reopen: %d vs %d", reopened.Subtotal(), first.Subtotal())
	}

	other := openStore(t, svc, "visitor-2")
	if other.ItemCount() != 0 {
		t.Fatal("carts must be isolated by id")
	}

	first.Clear(ctx)
	if openStore(t, svc, "visitor-1").ItemCount() != 0 {
		t.Fatal("clear must persist")
	}
}

func TestItemsReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, newService(t, storage.NewMemory(), nil), "c")
	s.AddItem(ctx, homeCompact200(), 1)

	items := s.Items()
	items[0].Quantity = 99
	*items[0].AddOnUnitPrice = 1

	fresh := s.Items()[0]
	if fresh.Quantity != 1 || *fresh.AddOnUnitPrice != 3999 {
		t.Fatalf("caller mutation leaked into the store: %+v", fresh)
	}
}

func TestSaveFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	st := &failingStorage{setErr: errors.New("disk full")}
	metrics := newRecordingMetrics()
	s := openStore(t, newService(t, st, metrics), "c")

	s.AddItem(ctx, homeCompact200(), 1)
	s.AddItem(ctx, homeCompact200(), 1)

	if s.ItemCount() != 2 {
		t.Fatalf("store should keep working in memory, count=%d", s.ItemCount())
	}
	if metrics.failures[opSave] != 2 {
		t.Fatalf("expected 2 save failures counted, got %d", metrics.failures[opSave])
	}
	if metrics.ops[opAdd] != 2 {
		t.Fatalf("expected 2 add ops counted, got %d", metrics.ops[opAdd])
	}
}

func TestNoOpMutationsDoNotPersist(t *testing.T) {
	ctx := context.Background()
	st := &failingStorage{}
	s := openStore(t, newService(t, st, nil), "c")

	s.RemoveItem(ctx, "a", "b")
	s.UpdateQuantity(ctx, "a", "b", 2)
	s.ToggleAddOn(ctx, "a", "b")

	if st.sets != 0 {
		t.Fatalf("expected no writes for no-op mutations, got %d", st.sets)
	}
}

func TestLoadFailureStartsEmpty(t *testing.T) {
	st := &failingStorage{getErr: errors.New("connection refused")}
	metrics := newRecordingMetrics()
	s := openStore(t, newService(t, st, metrics), "c")

	if s.ItemCount() != 0 {
		t.Fatal("expected empty cart on read failure")
	}
	if metrics.failures[opLoad] != 1 {
		t.Fatalf("expected load failure counted, got %d", metrics.failures[opLoad])
	}
}

func TestConcurrentMutationsOnOneStore(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, newService(t, storage.NewMemory(), nil), "c")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.AddItem(ctx, homeCompact200(), 1)
			_ = s.Subtotal()
		}()
	}
	wg.Wait()

	if s.ItemCount() != 50 {
		t.Fatalf("expected 50 units, got %d", s.ItemCount())
	}
	if len(s.Items()) != 1 {
		t.Fatalf("expected a single merged row, got %d", len(s.Items()))
	}
}

func TestTwoProcessesSameKeyLastWriteWins(t *testing.T) {
	ctx := context.Background()
	shared := storage.NewMemory()
	nodeA := newService(t, shared, nil)
	nodeB := newService(t, shared, nil)

	tabA := openStore(t, nodeA, "shared")
	tabB := openStore(t, nodeB, "shared")

	tabA.AddItem(ctx, homeCompact200(), 1)
	tabB.AddItem(ctx, homePro500(), 1)

	items := openStore(t, newService(t, shared, nil), "shared").Items()
	if len(items) != 1 || items[0].VariantID != "hp-500" {
		t.Fatalf("expected the later write to win, got %+v", items)
	}
}

func TestOpenSharesStorePerCart(t *testing.T) {
	svc := newService(t, storage.NewMemory(), nil)

	first := openStore(t, svc, "shared")
	if openStore(t, svc, " shared ") != first {
		t.Fatal("expected the same store for one cart id")
	}
	if openStore(t, svc, "other") == first {
		t.Fatal("expected distinct stores for distinct cart ids")
	}
	if svc.OpenCount() != 2 {
		t.Fatalf("expected 2 open carts, got %d", svc.OpenCount())
	}
}

func TestConcurrentOpensDoNotLoseUpdates(t *testing.T) {
	ctx := context.Background()
	shared := storage.NewMemory()
	svc := newService(t, shared, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := svc.Open(ctx, "busy")
			if err != nil {
				t.Errorf("Open: %v", err)
				return
			}
			s.AddItem(ctx, homeCompact200(), 1)
		}()
	}
	wg.Wait()

	if got := openStore(t, newService(t, shared, nil), "busy").ItemCount(); got != 20 {
		t.Fatalf("expected 20 units persisted, got %d", got)
	}
}

func TestOpenRefreshesFromStorage(t *testing.T) {
	ctx := context.Background()
	shared := storage.NewMemory()
	local := newService(t, shared, nil)
	remote := newService(t, shared, nil)

	mine := openStore(t, local, "c")
	mine.AddItem(ctx, homeCompact200(), 1)
	openStore(t, remote, "c").AddItem(ctx, homePro500(), 1)

	if got := len(openStore(t, local, "c").Items()); got != 2 {
		t.Fatalf("expected reopen to see the other writer, got %d rows", got)
	}
}

func TestOpenKeepsUnsavedRows(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, &failingStorage{setErr: errors.New("disk full")}, nil)

	openStore(t, svc, "c").AddItem(ctx, homeCompact200(), 2)
	if got := openStore(t, svc, "c").ItemCount(); got != 2 {
		t.Fatalf("unsaved rows must survive reopen, got %d", got)
	}
}

func TestOpenPrunesIdleCarts(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, storage.NewMemory(), nil)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	stale := openStore(t, svc, "stale")
	stale.AddItem(ctx, homeCompact200(), 1)

	now = now.Add(svc.idleTTL + time.Minute)
	openStore(t, svc, "fresh")
	if svc.OpenCount() != 1 {
		t.Fatalf("expected idle cart dropped, open=%d", svc.OpenCount())
	}

	reopened := openStore(t, svc, "stale")
	if reopened == stale || reopened.ItemCount() != 1 {
		t.Fatalf("expected a reloaded store holding the saved row, got %d", reopened.ItemCount())
	}
}

func TestQuantityCappedAtMax(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, newService(t, storage.NewMemory(), nil), "c")

	s.AddItem(ctx, homeCompact200(), MaxQuantity)
	s.AddItem(ctx, homeCompact200(), MaxQuantity)
	if s.ItemCount() != MaxQuantity {
		t.Fatalf("merge must stop at %d, got %d", MaxQuantity, s.ItemCount())
	}

	s.UpdateQuantity(ctx, "home-compact", "hc-200", 500)
	if s.ItemCount() != MaxQuantity {
		t.Fatalf("update must stop at %d, got %d", MaxQuantity, s.ItemCount())
	}

	s.AddItem(ctx, homePro500(), 150)
	if items := s.Items(); items[1].Quantity != MaxQuantity {
		t.Fatalf("new row must stop at %d, got %d", MaxQuantity, items[1].Quantity)
	}
}

func TestDrainClearsOnlyOnSuccess(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, newService(t, storage.NewMemory(), nil), "c")
	s.AddItem(ctx, homeCompact200(), 2)

	err := s.Drain(ctx, func(items []LineItem, totals Totals) error {
		return errors.New("declined")
	})
	if err == nil || s.ItemCount() != 2 {
		t.Fatalf("failed drain must keep the cart, err=%v count=%d", err, s.ItemCount())
	}

	var seen Totals
	if err := s.Drain(ctx, func(items []LineItem, totals Totals) error {
		seen = totals
		return nil
	}); err != nil {
		t.Fatalf("Drain: %v", err)
	}
	if seen.ItemCount != 2 || seen.Subtotal != 49998 {
		t.Fatalf("unexpected drained totals %+v", seen)
	}
	if s.ItemCount() != 0 {
		t.Fatalf("expected empty cart after drain, got %d", s.ItemCount())
	}
}

func TestSnapshotTotalsAreConsistent(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, newService(t, storage.NewMemory(), nil), "c")
	s.AddItem(ctx, homeCompact200(), 1)

	items, totals := s.Snapshot()
	if len(items) != 1 || totals.ItemCount != 1 || totals.Subtotal != 24999 {
		t.Fatalf("unexpected snapshot %+v %+v", items, totals)
	}
	if totals.Tax.StringFixed(2) != "4499.82" || totals.Total.StringFixed(2) != "29498.82" {
		t.Fatalf("unexpected derived totals %+v", totals)
	}
}

func TestOpenRequiresID(t *testing.T) {
	svc := newService(t, storage.NewMemory(), nil)
	if _, err := svc.Open(context.Background(), "   "); err == nil {
		t.Fatal("expected error for blank cart id")
	}
}
