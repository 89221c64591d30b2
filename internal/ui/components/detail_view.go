package components

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lazydash/lazydash/internal/models"
	"github.com/lazydash/lazydash/internal/ui/theme"
)

var renderConfigField = regexp.MustCompile(`\$\{([^}]+)\}`)

// DetailView renders one record as label/value pairs.
type DetailView struct {
	Fields       []models.FieldDescriptor
	Row          models.Row
	ShowMetadata bool

	Width        int
	Theme        theme.Theme
	TruncateDate bool
}

// NewDetailView creates a new detail view
func NewDetailView(th theme.Theme) *DetailView {
	return &DetailView{Theme: th, TruncateDate: true}
}

// SetRecord sets the record to display.
func (dv *DetailView) SetRecord(fields []models.FieldDescriptor, row models.Row, showMetadata bool) {
	dv.Fields = fields
	dv.Row = row
	dv.ShowMetadata = showMetadata
}

// VisibleFields returns the fields shown, in field order.
func (dv *DetailView) VisibleFields() []models.FieldDescriptor {
	return models.VisibleFields(dv.Fields, dv.ShowMetadata)
}

// ValueFor resolves the display text of one field: render_config templates
// override, Bool renders as yes/no, date-only types are truncated to the
// date part.
func (dv *DetailView) ValueFor(f models.FieldDescriptor) string {
	if f.RenderConfig != "" {
		return dv.renderTemplate(f.RenderConfig)
	}

	item := dv.Row[f.FieldCode]
	switch f.DataType {
	case models.TypeBool:
		if item.Truthy() {
			return "yes"
		}
		return "no"
	case models.TypeDate:
		return truncateDate(item.Display())
	case models.TypeDateTime, models.TypeTimestamptz:
		if dv.TruncateDate {
			return truncateDate(item.Display())
		}
	}
	return item.Display()
}

// renderTemplate substitutes ${field_code} placeholders with sibling values.
func (dv *DetailView) renderTemplate(template string) string {
	return renderConfigField.ReplaceAllStringFunc(template, func(match string) string {
		code := renderConfigField.FindStringSubmatch(match)[1]
		return dv.Row[code].Display()
	})
}

// truncateDate keeps the date part of an ISO timestamp.
func truncateDate(s string) string {
	if i := strings.IndexByte(s, 'T'); i > 0 {
		return s[:i]
	}
	if len(s) > 10 && s[10] == ' ' {
		return s[:10]
	}
	return s
}

// View renders the detail pane
func (dv *DetailView) View() string {
	fields := dv.VisibleFields()
	if len(fields) == 0 || dv.Row == nil {
		return lipgloss.NewStyle().
			Foreground(dv.Theme.Comment).
			Italic(true).
			Render("No record selected")
	}

	labelWidth := 0
	for _, f := range fields {
		if len(f.FieldName) > labelWidth {
			labelWidth = len(f.FieldName)
		}
	}

	labelStyle := lipgloss.NewStyle().
		Foreground(dv.Theme.Comment).
		Width(labelWidth)
	valueStyle := lipgloss.NewStyle().Foreground(dv.Theme.Foreground)
	badgeTrue := lipgloss.NewStyle().Foreground(dv.Theme.BadgeTrue).Bold(true)
	badgeFalse := lipgloss.NewStyle().Foreground(dv.Theme.BadgeFalse).Bold(true)

	var lines []string
	for _, f := range fields {
		value := dv.ValueFor(f)
		rendered := valueStyle.Render(value)
		if f.DataType == models.TypeBool && f.RenderConfig == "" {
			if value == "yes" {
				rendered = badgeTrue.Render("● yes")
			} else {
				rendered = badgeFalse.Render("○ no")
			}
		}
		lines = append(lines, labelStyle.Render(f.FieldName)+"  "+rendered)
	}
	return strings.Join(lines, "\n")
}
