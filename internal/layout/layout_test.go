package layout

import (
	"strings"
	"testing"

	"github.com/lazydash/lazydash/internal/models"
	"github.com/lazydash/lazydash/internal/ui/theme"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		raw  string
		want Kind
	}{
		{"container", KindContainer},
		{"Container", KindContainer},
		{"CONTAINER", KindContainer},
		{"webView", KindContainer},
		{"WebView", KindContainer},
		{"maxWidthContainer", KindMaxWidthContainer},
		{"gridItem", KindGridItem},
		{"scoreCard", KindScoreCard},
		{"pageTitle", KindPageTitle},
		{"cardList", KindCardList},
		{"table", KindTable},
		{"blink", KindUnknown},
		{"", KindUnknown},
	}
	for _, tt := range tests {
		if got := KindOf(tt.raw); got != tt.want {
			t.Errorf("KindOf(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestParseTree(t *testing.T) {
	doc := `{
		"type": "container",
		"children": [
			{"type": "pageTitle"},
			{"type": "grid", "props": {"spacing": 2, "container": true}, "children": [
				{"type": "gridItem", "props": {"xs": 12, "md": 6}, "children": [
					{"type": "text", "props": {"content": "hello"}}
				]},
				{"type": "gridItem", "props": {"xs": 12, "md": 6}, "children": [
					{"type": "table", "props": {"fields": [
						{"field_code": "name", "field_name": "Name", "data_type": "Text", "is_displayed_in_table": true}
					]}}
				]}
			]}
		]
	}`

	root, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if root.Kind != KindContainer {
		t.Fatalf("root kind = %v, want container", root.Kind)
	}
	if len(root.Children) != 2 {
		t.Fatalf("root has %d children, want 2", len(root.Children))
	}

	grid := root.FindFirst(KindGrid)
	if grid == nil {
		t.Fatal("grid not found")
	}
	if got := grid.PropInt("spacing", 0); got != 2 {
		t.Errorf("spacing = %d, want 2", got)
	}
	if !grid.PropBool("container") {
		t.Error("container prop should be true")
	}

	table := root.FindFirst(KindTable)
	if table == nil {
		t.Fatal("table not found")
	}
	fields := table.Fields()
	if len(fields) != 1 {
		t.Fatalf("table has %d fields, want 1", len(fields))
	}
	if fields[0].FieldCode != "name" || fields[0].DataType != models.TypeText {
		t.Errorf("unexpected field: %+v", fields[0])
	}
	if !fields[0].IsDisplayedInTable {
		t.Error("field should be displayed in table")
	}
}

func TestGridSpan(t *testing.T) {
	tests := []struct {
		name  string
		props map[string]any
		want  int
	}{
		{"widest breakpoint wins", map[string]any{"xs": float64(12), "md": float64(6), "xl": float64(4)}, 4},
		{"single breakpoint", map[string]any{"md": float64(6)}, 6},
		{"no props", nil, 12},
		{"out of range", map[string]any{"md": float64(20)}, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &Node{Kind: KindGridItem, Props: tt.props}
			if got := gridSpan(n); got != tt.want {
				t.Errorf("gridSpan = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestInterpretUnknownNodeRendersNothing(t *testing.T) {
	doc := `{
		"type": "container",
		"children": [
			{"type": "hologram", "children": [{"type": "text", "props": {"content": "trapped"}}]},
			{"type": "text", "props": {"content": "visible"}}
		]
	}`
	root, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	it := New(Context{Theme: theme.DefaultTheme()})
	out := it.Interpret(root).Render(80)

	if strings.Contains(out, "trapped") {
		t.Error("unknown node subtree should not render")
	}
	if !strings.Contains(out, "visible") {
		t.Error("sibling of unknown node should still render")
	}
}

func TestInterpretIsIdempotent(t *testing.T) {
	doc := `{
		"type": "container",
		"children": [
			{"type": "section", "props": {"title": "Metrics"}, "children": [
				{"type": "text", "props": {"content": "steady"}}
			]}
		]
	}`
	root, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	it := New(Context{Theme: theme.DefaultTheme()})
	first := it.Interpret(root).Render(60)
	second := it.Interpret(root).Render(60)
	if first != second {
		t.Error("interpreting the same tree twice should render identically")
	}
}

func TestSlotDelegation(t *testing.T) {
	doc := `{"type": "container", "children": [{"type": "table", "props": {}}]}`
	root, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	var slotted *Node
	ctx := Context{
		Theme: theme.DefaultTheme(),
		Slot: func(n *Node) string {
			slotted = n
			return "TABLE CONTENT"
		},
	}
	out := New(ctx).Interpret(root).Render(80)

	if slotted == nil || slotted.Kind != KindTable {
		t.Fatal("table node should be handed to the slot")
	}
	if !strings.Contains(out, "TABLE CONTENT") {
		t.Error("slot output should appear in the render")
	}
}

func TestDropdownSpecFrom(t *testing.T) {
	doc := `{
		"type": "dropdown",
		"props": {
			"objectCode": "warehouse",
			"viewContentCode": "warehouse_list",
			"fieldName": "name",
			"fieldValue": "serial",
			"placeholder": "Pick a warehouse",
			"eventListeners": {
				"onChange": {
					"action": "loadTable",
					"target": "stock__stock_by_warehouse",
					"params": {"field": "warehouse_serial"}
				}
			}
		}
	}`
	root, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	spec := DropdownSpecFrom(root)
	if spec.ObjectCode != "warehouse" || spec.ViewContentCode != "warehouse_list" {
		t.Errorf("unexpected source binding: %+v", spec)
	}
	if spec.Action != "loadTable" {
		t.Errorf("action = %q, want loadTable", spec.Action)
	}
	if spec.Target != "stock__stock_by_warehouse" {
		t.Errorf("target = %q", spec.Target)
	}
	if spec.ActionField != "warehouse_serial" {
		t.Errorf("action field = %q, want warehouse_serial", spec.ActionField)
	}
}

func TestCardListTarget(t *testing.T) {
	n := &Node{Kind: KindCardList, Props: map[string]any{
		"objectCode":      "order",
		"viewContentCode": "recent_orders",
	}}
	if got := CardListTarget(n); got != "order__recent_orders" {
		t.Errorf("target = %q, want order__recent_orders", got)
	}
}

func TestMetadataColumnOptIn(t *testing.T) {
	with := &Node{Props: map[string]any{"is_displaying_metadata_column": true}}
	without := &Node{Props: map[string]any{}}
	if !with.ShowsMetadataColumns() {
		t.Error("opt-in node should show metadata columns")
	}
	if without.ShowsMetadataColumns() {
		t.Error("default should hide metadata columns")
	}
}

func TestChartElementDispatch(t *testing.T) {
	props := map[string]any{
		"title": "Orders by status",
		"dataSource": map[string]any{
			"data": map[string]any{
				"labels": []any{"open", "closed"},
				"values": []any{float64(30), float64(70)},
			},
		},
	}
	th := theme.DefaultTheme()

	bar := newChartElement(th, "bar", props).Render(60)
	if !strings.Contains(bar, "open") || !strings.Contains(bar, "Orders by status") {
		t.Errorf("bar chart missing labels or title:\n%s", bar)
	}

	pie := newChartElement(th, "pie", props).Render(60)
	if !strings.Contains(pie, "30.0%") || !strings.Contains(pie, "70.0%") {
		t.Errorf("pie chart missing percentages:\n%s", pie)
	}

	empty := newChartElement(th, "bar", nil).Render(60)
	if empty != "" {
		t.Errorf("chart without data should render empty, got %q", empty)
	}
}

func TestDropdownSelectionReadsSourceTarget(t *testing.T) {
	doc := `{
		"type": "dropdown",
		"props": {
			"objectCode": "warehouse",
			"viewContentCode": "warehouse_list",
			"fieldName": "name",
			"fieldValue": "serial",
			"eventListeners": {
				"onChange": {
					"action": "loadTable",
					"target": "stock__stock_by_warehouse",
					"params": {"field": "warehouse_serial"}
				}
			}
		}
	}`
	root, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	selections := map[string]string{
		"warehouse__warehouse_list": "Main warehouse",
		"stock__stock_by_warehouse": "wh-1",
	}
	ctx := Context{
		Theme:    theme.DefaultTheme(),
		Selected: func(target string) string { return selections[target] },
	}

	out := New(ctx).Interpret(root).Render(60)
	if !strings.Contains(out, "Main warehouse") {
		t.Errorf("dropdown should show the label stored for its option source:\n%s", out)
	}
	if strings.Contains(out, "wh-1") {
		t.Error("dropdown should not show the serial stored for its publish target")
	}
}

func TestCardListHighlightsBySerial(t *testing.T) {
	doc := `{
		"type": "cardList",
		"props": {"objectCode": "stock", "viewContentCode": "stock_by_warehouse"}
	}`
	root, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	data := &models.PagedResult{Items: []models.Row{
		{"serial": {Value: "st-1"}, "name": {Value: "Bolts"}},
		{"serial": {Value: "st-2"}, "name": {Value: "Nuts"}},
	}}
	ctx := Context{
		Theme:    theme.DefaultTheme(),
		Data:     func(target string) *models.PagedResult { return data },
		Selected: func(target string) string { return "st-2" },
	}

	card, ok := New(ctx).Interpret(root).(*cardListElement)
	if !ok {
		t.Fatal("cardList node should interpret to a card list element")
	}
	if card.selected != "st-2" {
		t.Errorf("card list selection = %q, want the serial st-2", card.selected)
	}
	if out := card.Render(60); !strings.Contains(out, "Bolts") || !strings.Contains(out, "Nuts") {
		t.Errorf("card list should render all rows:\n%s", out)
	}
}
