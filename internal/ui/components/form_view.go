package components

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lazydash/lazydash/internal/models"
	"github.com/lazydash/lazydash/internal/ui/theme"
)

// InputKind is the editor a field renders as.
type InputKind int

const (
	InputText InputKind = iota
	InputNumber
	InputDate
	InputDateTime
	InputBool
	InputSelect
)

// SelectOption is one choice in a foreign-key select.
type SelectOption struct {
	Label string
	Value string
}

// SubmitFormMsg is sent when the form should be submitted. Values holds only
// the fields that changed; Serial is empty for a create.
type SubmitFormMsg struct {
	Serial string
	Values map[string]any
}

// CloseFormMsg is sent when the form should close without submitting.
type CloseFormMsg struct{}

// ForeignSearchMsg asks for select options: records of the referenced object
// whose name contains the query.
type ForeignSearchMsg struct {
	FieldCode    string
	ForeignTable string
	Query        string
}

// FormField is one editable entry.
type FormField struct {
	Descriptor models.FieldDescriptor
	Kind       InputKind

	Input       textinput.Model
	BoolValue   bool
	Options     []SelectOption
	OptionIndex int

	initialText string
	initialBool bool
}

// FormView renders a create/update form for one record.
type FormView struct {
	Fields []FormField
	Serial string

	Focus int
	Width int
	Theme theme.Theme
}

// NewFormView builds a form from the view's fields. Metadata columns and
// computed columns (codes containing "__") are not editable. A non-nil row
// prefills for update; nil means create.
func NewFormView(th theme.Theme, fields []models.FieldDescriptor, row models.Row) *FormView {
	fv := &FormView{Theme: th}
	if row != nil {
		fv.Serial = row.Serial()
	}

	for _, f := range models.VisibleFields(fields, false) {
		if strings.Contains(f.FieldCode, "__") {
			continue
		}

		ff := FormField{Descriptor: f, Kind: inputKindFor(f)}
		ti := textinput.New()
		ti.Placeholder = f.FieldName
		ti.CharLimit = 256
		ti.Width = 40
		if ff.Kind == InputBool {
			if row != nil {
				ff.BoolValue = row[f.FieldCode].Truthy()
			}
			ff.initialBool = ff.BoolValue
		} else if row != nil {
			ti.SetValue(initialText(f, row))
		}
		ff.Input = ti
		ff.initialText = ff.Input.Value()
		fv.Fields = append(fv.Fields, ff)
	}

	if len(fv.Fields) > 0 {
		fv.Fields[0].Input.Focus()
	}
	return fv
}

func inputKindFor(f models.FieldDescriptor) InputKind {
	if f.HasForeignRef() {
		return InputSelect
	}
	switch f.DataType {
	case models.TypeBool:
		return InputBool
	case models.TypeNumber:
		return InputNumber
	case models.TypeDate:
		return InputDate
	case models.TypeDateTime, models.TypeTimestamptz:
		return InputDateTime
	default:
		return InputText
	}
}

func initialText(f models.FieldDescriptor, row models.Row) string {
	item := row[f.FieldCode]
	if f.DataType == models.TypeDate {
		return truncateDate(item.Raw())
	}
	return item.Raw()
}

// IsUpdate reports whether submitting patches an existing record.
func (fv *FormView) IsUpdate() bool { return fv.Serial != "" }

// SetOptions installs fetched foreign-key options for a field.
func (fv *FormView) SetOptions(fieldCode string, options []SelectOption) {
	for i := range fv.Fields {
		if fv.Fields[i].Descriptor.FieldCode == fieldCode {
			fv.Fields[i].Options = options
			if fv.Fields[i].OptionIndex >= len(options) {
				fv.Fields[i].OptionIndex = 0
			}
			return
		}
	}
}

// ChangedValues returns only the fields whose value differs from the loaded
// record, typed for the wire.
func (fv *FormView) ChangedValues() map[string]any {
	values := make(map[string]any)
	for i := range fv.Fields {
		ff := &fv.Fields[i]
		code := ff.Descriptor.FieldCode
		switch ff.Kind {
		case InputBool:
			if ff.BoolValue != ff.initialBool {
				values[code] = ff.BoolValue
			}
		case InputNumber:
			text := ff.Input.Value()
			if text == ff.initialText {
				continue
			}
			if n, err := strconv.ParseFloat(text, 64); err == nil {
				values[code] = n
			} else {
				values[code] = text
			}
		case InputSelect:
			if len(ff.Options) == 0 {
				continue
			}
			selected := ff.Options[ff.OptionIndex].Value
			if selected != ff.initialText {
				values[code] = selected
			}
		case InputDate:
			text := truncateDate(ff.Input.Value())
			if text != truncateDate(ff.initialText) {
				values[code] = text
			}
		default:
			if text := ff.Input.Value(); text != ff.initialText {
				values[code] = text
			}
		}
	}
	return values
}

// Update handles keyboard input.
func (fv *FormView) Update(msg tea.KeyMsg) (*FormView, tea.Cmd) {
	if len(fv.Fields) == 0 {
		return fv, nil
	}
	current := &fv.Fields[fv.Focus]

	switch msg.String() {
	case "esc":
		return fv, func() tea.Msg { return CloseFormMsg{} }

	case "tab", "shift+tab", "up", "down":
		if (msg.String() == "up" || msg.String() == "down") && current.Kind == InputSelect {
			break // selects consume arrows for option cycling
		}
		delta := 1
		if msg.String() == "shift+tab" || msg.String() == "up" {
			delta = -1
		}
		fv.moveFocus(delta)
		return fv, nil

	case "enter":
		values := fv.ChangedValues()
		serial := fv.Serial
		return fv, func() tea.Msg {
			return SubmitFormMsg{Serial: serial, Values: values}
		}
	}

	switch current.Kind {
	case InputBool:
		if msg.String() == " " || msg.String() == "space" {
			current.BoolValue = !current.BoolValue
		}
		return fv, nil

	case InputSelect:
		switch msg.String() {
		case "up", "k":
			if current.OptionIndex > 0 {
				current.OptionIndex--
			}
			return fv, nil
		case "down", "j":
			if current.OptionIndex < len(current.Options)-1 {
				current.OptionIndex++
			}
			return fv, nil
		}
		// anything else edits the search query and refreshes options
		var cmd tea.Cmd
		current.Input, cmd = current.Input.Update(msg)
		query := current.Input.Value()
		field := current.Descriptor
		search := func() tea.Msg {
			return ForeignSearchMsg{
				FieldCode:    field.FieldCode,
				ForeignTable: field.ForeignTableName,
				Query:        query,
			}
		}
		return fv, tea.Batch(cmd, search)

	default:
		var cmd tea.Cmd
		current.Input, cmd = current.Input.Update(msg)
		return fv, cmd
	}
}

func (fv *FormView) moveFocus(delta int) {
	fv.Fields[fv.Focus].Input.Blur()
	fv.Focus += delta
	if fv.Focus < 0 {
		fv.Focus = len(fv.Fields) - 1
	}
	if fv.Focus >= len(fv.Fields) {
		fv.Focus = 0
	}
	fv.Fields[fv.Focus].Input.Focus()
}

// View renders the form
func (fv *FormView) View() string {
	title := "New record"
	if fv.IsUpdate() {
		title = "Edit record"
	}

	titleStyle := lipgloss.NewStyle().
		Foreground(fv.Theme.Foreground).
		Background(fv.Theme.Info).
		Padding(0, 1).
		Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(fv.Theme.Comment)
	focusedLabel := labelStyle.Foreground(fv.Theme.Info).Bold(true)

	sections := []string{titleStyle.Render(title), ""}

	for i := range fv.Fields {
		ff := &fv.Fields[i]
		label := labelStyle
		if i == fv.Focus {
			label = focusedLabel
		}
		sections = append(sections, label.Render(ff.Descriptor.FieldName))

		switch ff.Kind {
		case InputBool:
			toggle := "[ ] off"
			style := lipgloss.NewStyle().Foreground(fv.Theme.BadgeFalse)
			if ff.BoolValue {
				toggle = "[x] on"
				style = lipgloss.NewStyle().Foreground(fv.Theme.BadgeTrue)
			}
			sections = append(sections, style.Render(toggle))
		case InputSelect:
			sections = append(sections, ff.Input.View())
			for j, opt := range ff.Options {
				optStyle := lipgloss.NewStyle().Padding(0, 2)
				if j == ff.OptionIndex && i == fv.Focus {
					optStyle = optStyle.Background(fv.Theme.Selection).Foreground(fv.Theme.Foreground)
				}
				sections = append(sections, optStyle.Render(opt.Label))
			}
		default:
			sections = append(sections, ff.Input.View())
		}
		sections = append(sections, "")
	}

	helpStyle := lipgloss.NewStyle().Foreground(fv.Theme.Comment).Italic(true)
	sections = append(sections, helpStyle.Render("Tab: next field │ Enter: submit │ Esc: cancel"))

	containerStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(fv.Theme.BorderFocused).
		Padding(1, 2)
	if fv.Width > 0 {
		containerStyle = containerStyle.Width(fv.Width)
	}
	return containerStyle.Render(strings.Join(sections, "\n"))
}

// FieldCount is len(Fields); handy for sizing overlays.
func (fv *FormView) FieldCount() int { return len(fv.Fields) }

// Describe summarizes the form for diagnostics.
func (fv *FormView) Describe() string {
	return fmt.Sprintf("form serial=%q fields=%d", fv.Serial, len(fv.Fields))
}
