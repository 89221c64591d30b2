package app

import (
	"testing"

	"github.com/lazydash/lazydash/internal/filter"
	"github.com/lazydash/lazydash/internal/models"
	"github.com/lazydash/lazydash/internal/ui/components"
)

func TestParseRoute(t *testing.T) {
	cases := []struct {
		path     string
		wantObj  string
		wantView string
	}{
		{"/t/acme/p/shop/o/orders/view/default", "orders", "default"},
		{"/o/stock/view/warehouse", "stock", "warehouse"},
		{"/o/stock", "stock", ""},
		{"/dashboard", "", ""},
		{"", "", ""},
	}
	for _, tc := range cases {
		obj, view := parseRoute(tc.path)
		if obj != tc.wantObj || view != tc.wantView {
			t.Errorf("parseRoute(%q) = (%q, %q), want (%q, %q)",
				tc.path, obj, view, tc.wantObj, tc.wantView)
		}
	}
}

func TestSplitTarget(t *testing.T) {
	obj, view, ok := splitTarget("orders__default")
	if !ok || obj != "orders" || view != "default" {
		t.Fatalf("splitTarget = (%q, %q, %v)", obj, view, ok)
	}
	if _, _, ok := splitTarget("orders"); ok {
		t.Fatal("expected failure without separator")
	}
	if _, _, ok := splitTarget("__default"); ok {
		t.Fatal("expected failure with empty object")
	}
}

func TestRouteForFallsBackToCode(t *testing.T) {
	a := New(Deps{})
	a.state.Scope = models.Scope{TenantCode: "acme", ProductCode: "shop"}

	item := &models.NavigationItem{Code: "orders", Path: "/orders"}
	scope, ok := a.routeFor(item)
	if !ok {
		t.Fatal("expected a route")
	}
	if scope.ObjectCode != "orders" || scope.ViewContentCode != "default" {
		t.Fatalf("unexpected scope %+v", scope)
	}
	if scope.TenantCode != "acme" || scope.ProductCode != "shop" {
		t.Fatalf("tenant/product not preserved: %+v", scope)
	}
}

func TestFirstRouteFindsDeepLeaf(t *testing.T) {
	a := New(Deps{})
	items := []*models.NavigationItem{
		{
			Code: "group",
			Children: []*models.NavigationItem{
				{Code: "orders", Path: "/o/orders/view/default"},
			},
		},
	}
	models.Link(items)

	scope, ok := a.firstRoute(items)
	if !ok {
		t.Fatal("expected a route")
	}
	if scope.ObjectCode != "orders" {
		t.Fatalf("expected orders, got %s", scope.ObjectCode)
	}
}

func TestApplyDropdownRecordsTargetSelection(t *testing.T) {
	a := New(Deps{})

	msg := components.DropdownChangedMsg{
		Target: "stock__stock_by_warehouse",
		Field:  "warehouse_serial",
		Value:  "wh-1",
	}
	if cmd := a.applyDropdown(msg); cmd == nil {
		t.Fatal("dropdown change should trigger a reload of the target view")
	}

	if got := a.selected[msg.Target]; got != "wh-1" {
		t.Errorf("selected[%s] = %q, want the serial wh-1", msg.Target, got)
	}

	set := a.filters.Get(msg.Target)
	value, op, err := set.Leaf(filter.Path{"warehouse_serial"})
	if err != nil {
		t.Fatalf("filter leaf missing: %v", err)
	}
	if value != "wh-1" || op != filter.OpEqual {
		t.Errorf("filter leaf = (%q, %s), want (wh-1, equal)", value, op)
	}
}
