package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/lazydash/lazydash/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestAddAndGetRecent(t *testing.T) {
	store := openTestStore(t)

	entries := []Entry{
		{TenantCode: "acme", ProductCode: "ops", ObjectCode: "order", ViewContentCode: "order_list", Page: 1, RowCount: 10, Success: true, Duration: 120 * time.Millisecond},
		{TenantCode: "acme", ProductCode: "ops", ObjectCode: "stock", ViewContentCode: "stock_list", Page: 2, RowCount: 0, Success: false, ErrorMessage: "network failure"},
	}
	for _, e := range entries {
		if err := store.Add(e); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	got, err := store.GetRecent(10)
	if err != nil {
		t.Fatalf("GetRecent failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	for _, e := range got {
		if e.TenantCode != "acme" {
			t.Errorf("tenant = %q, want acme", e.TenantCode)
		}
	}
}

func TestGetForView(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 3; i++ {
		if err := store.Add(Entry{
			TenantCode: "acme", ProductCode: "ops",
			ObjectCode: "order", ViewContentCode: "order_list",
			Page: i + 1, Success: true,
		}); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}
	if err := store.Add(Entry{
		TenantCode: "acme", ProductCode: "ops",
		ObjectCode: "stock", ViewContentCode: "stock_list",
		Page: 1, Success: true,
	}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	scope := models.Scope{TenantCode: "acme", ProductCode: "ops", ObjectCode: "order", ViewContentCode: "order_list"}
	got, err := store.GetForView(scope, 10)
	if err != nil {
		t.Fatalf("GetForView failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d entries, want 3", len(got))
	}
	if got[0].Target() != "order__order_list" {
		t.Errorf("target = %q", got[0].Target())
	}
}

func TestPrune(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		if err := store.Add(Entry{
			TenantCode: "acme", ProductCode: "ops",
			ObjectCode: "order", ViewContentCode: "order_list",
			Page: i + 1, Success: true,
		}); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}
	if err := store.Prune(2); err != nil {
		t.Fatalf("Prune failed: %v", err)
	}

	got, err := store.GetRecent(10)
	if err != nil {
		t.Fatalf("GetRecent failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d entries after prune, want 2", len(got))
	}
}
