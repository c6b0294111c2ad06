package cart

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"storefront/internal/models"
)

type recordingPersister struct {
	saves  [][]models.CartLine
	loaded []models.CartLine
	err    error
}

func (p *recordingPersister) Save(ctx context.Context, key string, lines []models.CartLine) error {
	if p.err != nil {
		return p.err
	}
	copied := make([]models.CartLine, len(lines))
	copy(copied, lines)
	p.saves = append(p.saves, copied)
	return nil
}

func (p *recordingPersister) Load(ctx context.Context, key string) ([]models.CartLine, error) {
	return p.loaded, p.err
}

func (p *recordingPersister) Delete(ctx context.Context, key string) error {
	return nil
}

func testLine(productID, variant string, price float64, qty int) models.CartLine {
	return models.CartLine{
		ProductID:       productID,
		UnitPrice:       price,
		Quantity:        qty,
		SelectedVariant: variant,
		Snapshot:        models.ProductSnapshot{Title: "Product " + productID},
	}
}

func TestAddItemMergesSameProduct(t *testing.T) {
	store := NewStore("s1", nil)

	store.AddItem(testLine("p1", "", 10, 1))
	event := store.AddItem(testLine("p1", "", 10, 1))

	lines := store.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected one merged line, got %d", len(lines))
	}
	if lines[0].Quantity != 2 {
		t.Fatalf("expected merged quantity 2, got %d", lines[0].Quantity)
	}
	if event.Kind != EventQuantityIncreased {
		t.Fatalf("expected quantity_increased event, got %s", event.Kind)
	}
}

func TestAddItemKeepsVariantsSeparate(t *testing.T) {
	store := NewStore("s1", nil)

	store.AddItem(testLine("p1", "red", 10, 1))
	event := store.AddItem(testLine("p1", "blue", 10, 1))

	if store.Len() != 2 {
		t.Fatalf("expected two lines for distinct variants, got %d", store.Len())
	}
	if event.Kind != EventAdded {
		t.Fatalf("expected added event for new variant, got %s", event.Kind)
	}
}

func TestAddItemClampsNonPositiveQuantity(t *testing.T) {
	store := NewStore("s1", nil)

	store.AddItem(testLine("p1", "", 10, 0))
	store.AddItem(testLine("p2", "", 10, -3))

	for _, line := range store.Lines() {
		if line.Quantity != 1 {
			t.Fatalf("expected clamped quantity 1 for %s, got %d", line.ProductID, line.Quantity)
		}
	}
}

func TestDecrementToZeroRemovesLine(t *testing.T) {
	store := NewStore("s1", nil)
	store.AddItem(testLine("p1", "", 10, 1))

	event, ok := store.UpdateQuantity("p1", "", ActionDecrement)
	if !ok {
		t.Fatal("expected update to apply")
	}
	if event.Kind != EventRemoved {
		t.Fatalf("expected removed event, got %s", event.Kind)
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty cart, got %d lines", store.Len())
	}
}

func TestDecrementAboveOneDecreases(t *testing.T) {
	store := NewStore("s1", nil)
	store.AddItem(testLine("p1", "", 10, 3))

	event, ok := store.UpdateQuantity("p1", "", ActionDecrement)
	if !ok || event.Kind != EventQuantityDecreased || event.Quantity != 2 {
		t.Fatalf("expected quantity_decreased to 2, got ok=%v event=%+v", ok, event)
	}
}

func TestUpdateQuantityUnknownProductIsNoop(t *testing.T) {
	store := NewStore("s1", nil)
	store.AddItem(testLine("p1", "", 10, 1))

	if _, ok := store.UpdateQuantity("ghost", "", ActionIncrement); ok {
		t.Fatal("expected no-op for unknown product")
	}
	if store.Len() != 1 {
		t.Fatalf("cart changed by no-op update: %d lines", store.Len())
	}
}

func TestRemoveItem(t *testing.T) {
	store := NewStore("s1", nil)
	store.AddItem(testLine("p1", "", 10, 2))

	if !store.RemoveItem("p1", "") {
		t.Fatal("expected removal of present line")
	}
	if store.RemoveItem("p1", "") {
		t.Fatal("expected no-op removing absent line")
	}
}

func TestLinesPreserveInsertionOrder(t *testing.T) {
	store := NewStore("s1", nil)
	store.AddItem(testLine("p1", "", 1, 1))
	store.AddItem(testLine("p2", "", 2, 1))
	store.AddItem(testLine("p3", "", 3, 1))
	store.RemoveItem("p2", "")
	store.AddItem(testLine("p2", "", 2, 1))

	got := make([]string, 0, 3)
	for _, l := range store.Lines() {
		got = append(got, l.ProductID)
	}
	want := []string{"p1", "p3", "p2"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected order %v, got %v", want, got)
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	store := NewStore("s1", nil)
	store.AddItem(testLine("p1", "red", 9.99, 2))
	store.AddItem(testLine("p2", "", 4.5, 1))

	snapshot := store.Snapshot()

	restored := NewStore("s2", nil)
	restored.Restore(snapshot)

	if !reflect.DeepEqual(restored.Lines(), store.Lines()) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", restored.Lines(), store.Lines())
	}
}

func TestRestoreDropsMalformedLines(t *testing.T) {
	store := NewStore("s1", nil)
	store.Restore([]models.CartLine{
		{ProductID: "", UnitPrice: 1, Quantity: 1},
		{ProductID: "p1", UnitPrice: -5, Quantity: 1},
		{ProductID: "p2", UnitPrice: 5, Quantity: 0},
		{ProductID: "p3", UnitPrice: 5, Quantity: 2},
		{ProductID: "p3", UnitPrice: 5, Quantity: 1}, // duplicate key merges
	})

	lines := store.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected only the valid line to survive, got %+v", lines)
	}
	if lines[0].ProductID != "p3" || lines[0].Quantity != 3 {
		t.Fatalf("expected p3 with merged quantity 3, got %+v", lines[0])
	}
}

func TestEveryMutationPersists(t *testing.T) {
	persister := &recordingPersister{}
	store := NewStore("s1", persister)

	store.AddItem(testLine("p1", "", 10, 1))
	store.UpdateQuantity("p1", "", ActionIncrement)
	store.RemoveItem("p1", "")
	store.Clear()

	if len(persister.saves) != 4 {
		t.Fatalf("expected 4 persistence writes, got %d", len(persister.saves))
	}
	if last := persister.saves[len(persister.saves)-1]; len(last) != 0 {
		t.Fatalf("expected final snapshot to be empty, got %+v", last)
	}
}

func TestPersistFailureKeepsCartAuthoritative(t *testing.T) {
	persister := &recordingPersister{err: errors.New("disk full")}
	store := NewStore("s1", persister)

	store.AddItem(testLine("p1", "", 10, 1))

	if store.Len() != 1 {
		t.Fatal("in-memory cart must survive a failed persistence write")
	}
}

func TestSubscribersReceiveEvents(t *testing.T) {
	store := NewStore("s1", nil)

	var kinds []EventKind
	store.Subscribe(func(e Event) { kinds = append(kinds, e.Kind) })

	store.AddItem(testLine("p1", "", 10, 1))
	store.AddItem(testLine("p1", "", 10, 1))
	store.UpdateQuantity("p1", "", ActionDecrement)
	store.UpdateQuantity("p1", "", ActionDecrement)
	store.Clear()

	want := []EventKind{EventAdded, EventQuantityIncreased, EventQuantityDecreased, EventRemoved, EventCleared}
	if !reflect.DeepEqual(kinds, want) {
		t.Fatalf("expected events %v, got %v", want, kinds)
	}
}

func TestManagerRestoresFromPersister(t *testing.T) {
	persister := &recordingPersister{loaded: []models.CartLine{testLine("p1", "", 10, 2)}}
	manager := NewManager(persister)

	store := manager.Store(context.Background(), "session-a")
	if store.Len() != 1 {
		t.Fatalf("expected restored cart, got %d lines", store.Len())
	}

	// Same session gets the same store back, without a second restore.
	again := manager.Store(context.Background(), "session-a")
	if again != store {
		t.Fatal("expected the same store instance per session")
	}
}

func TestManagerRestoreFailureYieldsEmptyCart(t *testing.T) {
	persister := &recordingPersister{err: errors.New("backend down")}
	manager := NewManager(persister)

	store := manager.Store(context.Background(), "session-a")
	if store.Len() != 0 {
		t.Fatal("expected empty cart when restore fails")
	}
}
