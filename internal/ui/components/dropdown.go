package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lazydash/lazydash/internal/layout"
	"github.com/lazydash/lazydash/internal/models"
	"github.com/lazydash/lazydash/internal/ui/theme"
)

// DropdownChangedMsg is published when a dropdown selection changes. The page
// owning the target view reacts by updating its filter set and reloading.
type DropdownChangedMsg struct {
	Target string
	Field  string
	Value  string
}

// Dropdown is the interactive control behind a layout dropdown node. Its
// options come from the data of the view the node names.
type Dropdown struct {
	Spec    layout.DropdownSpec
	Options []SelectOption
	Index   int
	Open    bool
	Theme   theme.Theme
	Width   int
}

// NewDropdown builds the control from the node spec.
func NewDropdown(spec layout.DropdownSpec, th theme.Theme) *Dropdown {
	return &Dropdown{
		Spec:  spec,
		Theme: th,
		Width: 30,
		Index: -1,
	}
}

// SourceTarget identifies the view whose rows provide the options.
func (d *Dropdown) SourceTarget() string {
	return d.Spec.ObjectCode + "__" + d.Spec.ViewContentCode
}

// SetData fills the option list from fetched rows using the configured
// label and value fields.
func (d *Dropdown) SetData(result *models.PagedResult) {
	d.Options = d.Options[:0]
	if result == nil {
		return
	}
	for _, row := range result.Items {
		label := row[d.Spec.FieldName].Display()
		value := row[d.Spec.FieldValue].Raw()
		if label == "" && value == "" {
			continue
		}
		d.Options = append(d.Options, SelectOption{Label: label, Value: value})
	}
	if d.Index >= len(d.Options) {
		d.Index = -1
	}
}

// Selected returns the current option, or false when nothing is chosen.
func (d *Dropdown) Selected() (SelectOption, bool) {
	if d.Index < 0 || d.Index >= len(d.Options) {
		return SelectOption{}, false
	}
	return d.Options[d.Index], true
}

// Update handles keyboard input while the dropdown has focus.
func (d *Dropdown) Update(msg tea.KeyMsg) (*Dropdown, tea.Cmd) {
	switch msg.String() {
	case "enter", " ":
		if !d.Open {
			d.Open = true
			return d, nil
		}
		d.Open = false
		return d, d.changed()

	case "esc":
		d.Open = false

	case "up", "k":
		if d.Open && d.Index > 0 {
			d.Index--
		}

	case "down", "j":
		if d.Open && d.Index < len(d.Options)-1 {
			d.Index++
		}
	}
	return d, nil
}

func (d *Dropdown) changed() tea.Cmd {
	opt, ok := d.Selected()
	if !ok || d.Spec.Action != "loadTable" || d.Spec.Target == "" {
		return nil
	}
	return func() tea.Msg {
		return DropdownChangedMsg{
			Target: d.Spec.Target,
			Field:  d.Spec.ActionField,
			Value:  opt.Value,
		}
	}
}

// View renders the closed control or the open option list.
func (d *Dropdown) View() string {
	label := d.Spec.Placeholder
	if label == "" {
		label = "Select..."
	}
	if opt, ok := d.Selected(); ok {
		label = opt.Label
	}

	arrow := "▾"
	if d.Open {
		arrow = "▴"
	}
	head := lipgloss.NewStyle().
		Foreground(d.Theme.Foreground).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(d.Theme.BorderFocused).
		Padding(0, 1).
		Render(fmt.Sprintf("%s %s", padTo(label, d.Width-6), arrow))

	if !d.Open {
		return head
	}

	var lines []string
	if len(d.Options) == 0 {
		lines = append(lines, lipgloss.NewStyle().
			Foreground(d.Theme.Comment).Italic(true).Render("No options"))
	}
	for i, opt := range d.Options {
		style := lipgloss.NewStyle().Foreground(d.Theme.Foreground)
		prefix := "  "
		if i == d.Index {
			style = style.Background(d.Theme.Selection).Bold(true)
			prefix = "> "
		}
		lines = append(lines, style.Render(prefix+padTo(opt.Label, d.Width-4)))
	}
	list := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(d.Theme.Border).
		Render(strings.Join(lines, "\n"))

	return lipgloss.JoinVertical(lipgloss.Left, head, list)
}

func padTo(s string, width int) string {
	if width < 1 {
		width = 1
	}
	if len(s) > width {
		if width <= 3 {
			return s[:width]
		}
		return s[:width-3] + "..."
	}
	return s + strings.Repeat(" ", width-len(s))
}
