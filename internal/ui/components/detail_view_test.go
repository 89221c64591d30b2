package components

import (
	"strings"
	"testing"

	"github.com/lazydash/lazydash/internal/models"
	"github.com/lazydash/lazydash/internal/ui/theme"
)

func TestValueForRenderConfig(t *testing.T) {
	dv := NewDetailView(theme.DefaultTheme())
	dv.SetRecord(
		[]models.FieldDescriptor{
			{FieldCode: "full_name", FieldName: "Full Name", DataType: models.TypeText,
				RenderConfig: "${first_name} ${last_name}", IsDisplayedInTable: true},
		},
		models.Row{
			"first_name": models.DataItem{Value: "Ada", DisplayValue: "Ada"},
			"last_name":  models.DataItem{Value: "Lovelace", DisplayValue: "Lovelace"},
			"full_name":  models.DataItem{Value: "ignored"},
		},
		false,
	)

	got := dv.ValueFor(dv.Fields[0])
	if got != "Ada Lovelace" {
		t.Errorf("rendered template = %q, want 'Ada Lovelace'", got)
	}
}

func TestValueForMissingTemplateField(t *testing.T) {
	dv := NewDetailView(theme.DefaultTheme())
	dv.SetRecord(
		[]models.FieldDescriptor{
			{FieldCode: "x", FieldName: "X", RenderConfig: "v=${nope}"},
		},
		models.Row{},
		false,
	)
	if got := dv.ValueFor(dv.Fields[0]); got != "v=" {
		t.Errorf("missing field should render empty, got %q", got)
	}
}

func TestValueForBool(t *testing.T) {
	f := models.FieldDescriptor{FieldCode: "active", FieldName: "Active", DataType: models.TypeBool}
	dv := NewDetailView(theme.DefaultTheme())

	dv.SetRecord([]models.FieldDescriptor{f}, models.Row{
		"active": models.DataItem{Value: true},
	}, false)
	if got := dv.ValueFor(f); got != "yes" {
		t.Errorf("true bool = %q, want yes", got)
	}

	dv.SetRecord([]models.FieldDescriptor{f}, models.Row{
		"active": models.DataItem{Value: false},
	}, false)
	if got := dv.ValueFor(f); got != "no" {
		t.Errorf("false bool = %q, want no", got)
	}
}

func TestValueForDateTruncation(t *testing.T) {
	tests := []struct {
		name     string
		dataType models.DataType
		value    string
		want     string
	}{
		{"date strips time", models.TypeDate, "2026-03-14T09:00:00Z", "2026-03-14"},
		{"datetime truncated", models.TypeDateTime, "2026-03-14T09:00:00Z", "2026-03-14"},
		{"plain date untouched", models.TypeDate, "2026-03-14", "2026-03-14"},
		{"space separated", models.TypeDate, "2026-03-14 09:00:00", "2026-03-14"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := models.FieldDescriptor{FieldCode: "d", FieldName: "D", DataType: tt.dataType}
			dv := NewDetailView(theme.DefaultTheme())
			dv.SetRecord([]models.FieldDescriptor{f}, models.Row{
				"d": models.DataItem{Value: tt.value},
			}, false)
			if got := dv.ValueFor(f); got != tt.want {
				t.Errorf("ValueFor = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetailViewSuppressesMetadata(t *testing.T) {
	dv := NewDetailView(theme.DefaultTheme())
	dv.SetRecord(
		[]models.FieldDescriptor{
			{FieldCode: "name", FieldName: "Name", DataType: models.TypeText, IsDisplayedInTable: true},
			{FieldCode: "updated_by", FieldName: "Updated By", DataType: models.TypeText, IsDisplayedInTable: true},
		},
		models.Row{
			"name":       models.DataItem{Value: "Widget", DisplayValue: "Widget"},
			"updated_by": models.DataItem{Value: "admin", DisplayValue: "admin"},
		},
		false,
	)

	out := dv.View()
	if !strings.Contains(out, "Widget") {
		t.Errorf("view missing record value:\n%s", out)
	}
	if strings.Contains(out, "Updated By") {
		t.Errorf("metadata field should be suppressed:\n%s", out)
	}
}
