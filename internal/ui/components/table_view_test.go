package components

import (
	"strings"
	"testing"

	"github.com/lazydash/lazydash/internal/models"
	"github.com/lazydash/lazydash/internal/ui/theme"
)

func field(code, name string, order int) models.FieldDescriptor {
	return models.FieldDescriptor{
		FieldCode:          code,
		FieldName:          name,
		DataType:           models.TypeText,
		FieldOrder:         order,
		IsDisplayedInTable: true,
	}
}

func TestColumnsSingleNarrowColumnExpands(t *testing.T) {
	tv := NewTableView(theme.DefaultTheme())
	tv.SetData([]models.FieldDescriptor{field("a", "A", 1)}, nil, false)

	columns := tv.Columns()
	if len(columns) != 1 {
		t.Fatalf("got %d columns, want 1", len(columns))
	}
	if columns[0].FlexWidth != 50 {
		t.Errorf("flex width = %d, want 50", columns[0].FlexWidth)
	}
	if !columns[0].Expand {
		t.Error("single narrow column should expand")
	}
}

func TestColumnsOverfullViewportNoExpand(t *testing.T) {
	fields := make([]models.FieldDescriptor, 50)
	for i := range fields {
		fields[i] = field(string(rune('a'+i%26))+"_col", "X", i)
		fields[i].FieldCode = fields[i].FieldCode + string(rune('0'+i/26))
	}

	tv := NewTableView(theme.DefaultTheme())
	tv.SetData(fields, nil, false)

	columns := tv.Columns()
	if len(columns) != 50 {
		t.Fatalf("got %d columns, want 50", len(columns))
	}
	total := 0
	for _, c := range columns {
		total += c.FlexWidth
		if c.Expand {
			t.Error("no column should expand when the plan overflows the viewport")
		}
	}
	if total != 2500 {
		t.Errorf("total plan width = %d, want 2500", total)
	}
}

func TestColumnsSuppressMetadata(t *testing.T) {
	fields := []models.FieldDescriptor{
		field("name", "Name", 1),
		field("created_at", "Created At", 2),
		field("serial", "Serial", 3),
		field("status", "Status", 4),
	}

	tv := NewTableView(theme.DefaultTheme())
	tv.SetData(fields, nil, false)
	columns := tv.Columns()
	if len(columns) != 2 {
		t.Fatalf("got %d columns, want 2 (metadata suppressed)", len(columns))
	}
	if columns[0].Field.FieldCode != "name" || columns[1].Field.FieldCode != "status" {
		t.Errorf("columns = %v", columns)
	}

	tv.SetData(fields, nil, true)
	if got := len(tv.Columns()); got != 4 {
		t.Errorf("opted-in got %d columns, want 4", got)
	}
}

func TestColumnsOrderByFieldOrder(t *testing.T) {
	fields := []models.FieldDescriptor{
		field("c", "C", 3),
		field("a", "A", 1),
		field("b", "B", 2),
	}
	tv := NewTableView(theme.DefaultTheme())
	tv.SetData(fields, nil, false)

	var got []string
	for _, c := range tv.Columns() {
		got = append(got, c.Field.FieldCode)
	}
	if strings.Join(got, ",") != "a,b,c" {
		t.Errorf("column order = %v, want a,b,c", got)
	}
}

func TestViewUsesDisplayValues(t *testing.T) {
	tv := NewTableView(theme.DefaultTheme())
	tv.Width = 60
	tv.Height = 10
	tv.SetData(
		[]models.FieldDescriptor{field("status", "Status", 1)},
		&models.PagedResult{
			Items: []models.Row{
				{"status": models.DataItem{Value: 1, DisplayValue: "Active"}},
			},
			TotalData: 1,
		},
		false,
	)

	out := tv.View()
	if !strings.Contains(out, "Active") {
		t.Errorf("view should use display_value:\n%s", out)
	}
	if !strings.Contains(out, "1-1 of 1") {
		t.Errorf("view should show record range:\n%s", out)
	}
}

func TestMoveSelectionBounds(t *testing.T) {
	tv := NewTableView(theme.DefaultTheme())
	tv.SetData(
		[]models.FieldDescriptor{field("name", "Name", 1)},
		&models.PagedResult{
			Items: []models.Row{
				{"name": models.DataItem{Value: "a"}},
				{"name": models.DataItem{Value: "b"}},
			},
			TotalData: 2,
		},
		false,
	)

	tv.MoveSelection(-5)
	if tv.SelectedRow != 0 {
		t.Errorf("selection below zero: %d", tv.SelectedRow)
	}
	tv.MoveSelection(10)
	if tv.SelectedRow != 1 {
		t.Errorf("selection past end: %d", tv.SelectedRow)
	}
	if got := tv.SelectedCell("name"); got != "b" {
		t.Errorf("selected cell = %q, want b", got)
	}
}
