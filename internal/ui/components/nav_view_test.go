package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lazydash/lazydash/internal/models"
	"github.com/lazydash/lazydash/internal/ui/theme"
)

func navFixture() []*models.NavigationItem {
	items := []*models.NavigationItem{
		{
			Code:  "orders",
			Title: "Orders",
			Children: []*models.NavigationItem{
				{Code: "open_orders", Title: "Open Orders", Path: "/orders/open"},
				{Code: "closed_orders", Title: "Closed Orders", Path: "/orders/closed"},
			},
		},
		{Code: "stock", Title: "Stock", Path: "/stock"},
	}
	models.Link(items)
	return items
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestNavViewExpandCollapse(t *testing.T) {
	nv := NewNavView(navFixture(), theme.GetTheme("default"))

	if got := len(models.FlattenNavigation(nv.Items)); got != 2 {
		t.Fatalf("expected 2 visible items collapsed, got %d", got)
	}

	nv, _ = nv.Update(key("right"))
	if got := len(models.FlattenNavigation(nv.Items)); got != 4 {
		t.Fatalf("expected 4 visible items expanded, got %d", got)
	}

	nv, _ = nv.Update(key("h"))
	if got := len(models.FlattenNavigation(nv.Items)); got != 2 {
		t.Fatalf("expected collapse back to 2 items, got %d", got)
	}
}

func TestNavViewSelectLeafEmitsMsg(t *testing.T) {
	nv := NewNavView(navFixture(), theme.GetTheme("default"))

	nv, _ = nv.Update(key("right"))
	nv, _ = nv.Update(key("down"))

	nv, cmd := nv.Update(key("enter"))
	if cmd == nil {
		t.Fatal("expected a command from selecting a leaf")
	}
	msg, ok := cmd().(NavSelectedMsg)
	if !ok {
		t.Fatalf("expected NavSelectedMsg, got %T", cmd())
	}
	if msg.Item.Code != "open_orders" {
		t.Fatalf("expected open_orders selected, got %s", msg.Item.Code)
	}
}

func TestNavViewEnterOnBranchToggles(t *testing.T) {
	nv := NewNavView(navFixture(), theme.GetTheme("default"))

	nv, cmd := nv.Update(key("enter"))
	if cmd != nil {
		t.Fatal("branch selection should toggle, not emit")
	}
	if !nv.Items[0].Expanded {
		t.Fatal("expected branch expanded after enter")
	}
}

func TestNavViewCursorToCode(t *testing.T) {
	nv := NewNavView(navFixture(), theme.GetTheme("default"))
	nv.Items[0].Toggle()

	if !nv.SetCursorToCode("closed_orders") {
		t.Fatal("expected cursor move to succeed")
	}
	if current := nv.Current(); current == nil || current.Code != "closed_orders" {
		t.Fatalf("cursor not on closed_orders: %+v", current)
	}
	if nv.SetCursorToCode("missing") {
		t.Fatal("expected cursor move to fail for unknown code")
	}
}
