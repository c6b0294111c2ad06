package storage

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"storefront/internal/models"
)

func sampleLines() []models.CartLine {
	return []models.CartLine{
		{
			ProductID:       "p1",
			UnitPrice:       9.99,
			Quantity:        2,
			SelectedVariant: "red",
			Snapshot:        models.ProductSnapshot{Title: "Mug", Brand: "Acme"},
		},
		{ProductID: "p2", UnitPrice: 4.5, Quantity: 1, Snapshot: models.ProductSnapshot{Title: "Pen"}},
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	ctx := context.Background()

	if err := store.Save(ctx, "abc-123", sampleLines()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Load(ctx, "abc-123")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(loaded, sampleLines()) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", loaded, sampleLines())
	}
}

func TestFileStoreLoadMissingKey(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}

	lines, err := store.Load(context.Background(), "never-saved")
	if err != nil {
		t.Fatalf("expected missing key to be fail-soft, got %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("expected empty cart, got %+v", lines)
	}
}

func TestFileStoreLoadCorruptSnapshot(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "cart-bad.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	lines, err := store.Load(context.Background(), "bad")
	if err != nil {
		t.Fatalf("expected corrupt snapshot to be fail-soft, got %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("expected empty cart from corrupt snapshot, got %+v", lines)
	}
}

func TestFileStoreDelete(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	ctx := context.Background()

	if err := store.Save(ctx, "abc", sampleLines()); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete(ctx, "abc"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := store.Delete(ctx, "abc"); err != nil {
		t.Fatalf("second Delete should be a no-op, got %v", err)
	}

	lines, err := store.Load(ctx, "abc")
	if err != nil || len(lines) != 0 {
		t.Fatalf("expected empty cart after delete, got %+v (%v)", lines, err)
	}
}

func TestFileStoreSanitizesKeys(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}

	if err := store.Save(context.Background(), "../escape", sampleLines()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "cart-escape.json")); err != nil {
		t.Fatalf("expected sanitized file inside data dir: %v", err)
	}
}
