package components

import (
	"strings"
	"testing"

	"github.com/lazydash/lazydash/internal/models"
	"github.com/lazydash/lazydash/internal/ui/theme"
)

func TestPaginationNext(t *testing.T) {
	p := NewPagination(theme.DefaultTheme(), "order__order_list")
	p.SetResult(&models.PagedResult{Page: 2, TotalPage: 5})

	cmd := p.Next()
	if cmd == nil {
		t.Fatal("next from page 2 of 5 should emit a request")
	}
	msg, ok := cmd().(PageRequestMsg)
	if !ok {
		t.Fatalf("message = %T, want PageRequestMsg", cmd())
	}
	if msg.Page != 3 {
		t.Errorf("requested page = %d, want 3", msg.Page)
	}
	if msg.Target != "order__order_list" {
		t.Errorf("target = %q", msg.Target)
	}
}

func TestPaginationBounds(t *testing.T) {
	p := NewPagination(theme.DefaultTheme(), "t")
	p.SetResult(&models.PagedResult{Page: 1, TotalPage: 1})

	if p.Next() != nil {
		t.Error("next on the last page should be nil")
	}
	if p.Prev() != nil {
		t.Error("prev on the first page should be nil")
	}
}

func TestPaginationView(t *testing.T) {
	p := NewPagination(theme.DefaultTheme(), "t")
	p.SetResult(&models.PagedResult{Page: 2, TotalPage: 5})
	if out := p.View(); !strings.Contains(out, "page 2 of 5") {
		t.Errorf("view = %q", out)
	}
}
