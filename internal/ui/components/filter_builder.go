package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lazydash/lazydash/internal/filter"
	"github.com/lazydash/lazydash/internal/models"
	"github.com/lazydash/lazydash/internal/ui/theme"
)

// ApplyFilterMsg is sent when a filter should be applied
type ApplyFilterMsg struct {
	Target string
}

// CloseFilterBuilderMsg is sent when the filter builder should close
type CloseFilterBuilderMsg struct{}

// builderRow is one visible line: a group header or a leaf condition.
type builderRow struct {
	path    filter.Path
	depth   int
	isGroup bool
	logic   filter.Logic
	leaf    *filter.Leaf
}

// FilterBuilder provides an interactive UI for building nested filter
// expressions against one view target.
type FilterBuilder struct {
	Width  int
	Height int
	Theme  theme.Theme

	Target string

	set    *filter.Set
	fields []models.FieldDescriptor
	rows   []builderRow

	// State
	currentIndex    int
	editMode        string // "", "field", "operator", "value"
	fieldInput      string
	operatorIndex   int
	valueInput      string
	validationError string

	selectedField models.FieldDescriptor
	availableOps  []filter.Operator
	addPath       filter.Path
	editTarget    filter.Path // non-nil when editing an existing leaf
}

// NewFilterBuilder creates a filter builder bound to a target's set.
func NewFilterBuilder(th theme.Theme, target string, set *filter.Set) *FilterBuilder {
	fb := &FilterBuilder{
		Width:  80,
		Height: 30,
		Theme:  th,
		Target: target,
		set:    set,
	}
	fb.rebuild()
	return fb
}

// SetFields updates the filterable fields.
func (fb *FilterBuilder) SetFields(fields []models.FieldDescriptor) {
	fb.fields = models.VisibleFields(fields, false)
}

// rebuild re-flattens the set into visible rows.
func (fb *FilterBuilder) rebuild() {
	fb.rows = fb.rows[:0]
	fb.rows = append(fb.rows, builderRow{path: nil, isGroup: true, logic: fb.set.Root().Logic})
	fb.flattenGroup(fb.set.Root(), nil, 1)
	if fb.currentIndex >= len(fb.rows) {
		fb.currentIndex = len(fb.rows) - 1
	}
}

func (fb *FilterBuilder) flattenGroup(g *filter.Group, prefix filter.Path, depth int) {
	for _, key := range g.Keys() {
		node, _ := g.Get(key)
		path := prefix.Child(key)
		switch n := node.(type) {
		case *filter.Leaf:
			fb.rows = append(fb.rows, builderRow{path: path, depth: depth, leaf: n})
		case *filter.Group:
			fb.rows = append(fb.rows, builderRow{path: path, depth: depth, isGroup: true, logic: n.Logic})
			fb.flattenGroup(n, path, depth+1)
		}
	}
}

// groupPathAtCursor is where new conditions land: the group under the
// cursor, or the parent group of the leaf under the cursor.
func (fb *FilterBuilder) groupPathAtCursor() filter.Path {
	if fb.currentIndex >= len(fb.rows) {
		return nil
	}
	row := fb.rows[fb.currentIndex]
	if row.isGroup {
		return row.path
	}
	return row.path[:len(row.path)-1]
}

// Update handles keyboard input
func (fb *FilterBuilder) Update(msg tea.KeyMsg) (*FilterBuilder, tea.Cmd) {
	switch fb.editMode {
	case "":
		return fb.handleNavigationMode(msg)
	case "field":
		return fb.handleFieldMode(msg)
	case "operator":
		return fb.handleOperatorMode(msg)
	case "value":
		return fb.handleValueMode(msg)
	}
	return fb, nil
}

func (fb *FilterBuilder) handleNavigationMode(msg tea.KeyMsg) (*FilterBuilder, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if fb.currentIndex > 0 {
			fb.currentIndex--
		}
	case "down", "j":
		if fb.currentIndex < len(fb.rows)-1 {
			fb.currentIndex++
		}
	case "a", "n":
		fb.addPath = fb.groupPathAtCursor()
		fb.editTarget = nil
		fb.editMode = "field"
		fb.fieldInput = ""
		fb.validationError = ""
	case "g":
		// nested group under the cursor's group
		if _, err := fb.set.AddGroup(fb.groupPathAtCursor()); err != nil {
			fb.validationError = err.Error()
		} else {
			fb.validationError = ""
			fb.rebuild()
		}
	case "o":
		// flip AND/OR of the group at the cursor
		path := fb.groupPathAtCursor()
		logic := filter.LogicAnd
		if row := fb.groupRowFor(path); row != nil && row.logic == filter.LogicAnd {
			logic = filter.LogicOr
		}
		if err := fb.set.UpdateGroupOperator(path, logic); err != nil {
			fb.validationError = err.Error()
		} else {
			fb.rebuild()
		}
	case "e":
		// edit the leaf under the cursor
		if fb.currentIndex < len(fb.rows) && !fb.rows[fb.currentIndex].isGroup {
			row := fb.rows[fb.currentIndex]
			fb.editTarget = row.path
			fb.selectedField = fb.fieldByCode(row.path[len(row.path)-1])
			fb.availableOps = filter.OperatorsForType(fb.selectedField.DataType)
			fb.operatorIndex = indexOfOperator(fb.availableOps, row.leaf.Operator)
			fb.valueInput = row.leaf.Value
			fb.editMode = "operator"
		}
	case "d", "x":
		if fb.currentIndex > 0 && fb.currentIndex < len(fb.rows) {
			if err := fb.set.Delete(fb.rows[fb.currentIndex].path); err != nil {
				fb.validationError = err.Error()
			} else {
				fb.validationError = ""
				fb.rebuild()
				if fb.currentIndex >= len(fb.rows) {
					fb.currentIndex = len(fb.rows) - 1
				}
			}
		}
	case "c":
		fb.set.Clear()
		fb.currentIndex = 0
		fb.rebuild()
	case "enter":
		if fb.set.IsEmpty() {
			fb.validationError = "Add at least one condition before applying"
			return fb, nil
		}
		fb.validationError = ""
		target := fb.Target
		return fb, func() tea.Msg {
			return ApplyFilterMsg{Target: target}
		}
	case "esc":
		return fb, func() tea.Msg {
			return CloseFilterBuilderMsg{}
		}
	}
	return fb, nil
}

func (fb *FilterBuilder) handleFieldMode(msg tea.KeyMsg) (*FilterBuilder, tea.Cmd) {
	switch msg.String() {
	case "esc":
		fb.editMode = ""
		fb.fieldInput = ""
		fb.validationError = ""
	case "enter":
		for _, f := range fb.fields {
			if strings.EqualFold(f.FieldCode, fb.fieldInput) {
				fb.selectedField = f
				fb.availableOps = filter.OperatorsForType(f.DataType)
				fb.editMode = "operator"
				fb.operatorIndex = 0
				fb.validationError = ""
				return fb, nil
			}
		}
		fb.validationError = fmt.Sprintf("Field '%s' not found", fb.fieldInput)
	case "backspace":
		if len(fb.fieldInput) > 0 {
			fb.fieldInput = fb.fieldInput[:len(fb.fieldInput)-1]
		}
	default:
		if len(msg.String()) == 1 {
			fb.fieldInput += msg.String()
		}
	}
	return fb, nil
}

func (fb *FilterBuilder) handleOperatorMode(msg tea.KeyMsg) (*FilterBuilder, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if fb.editTarget != nil {
			fb.editMode = ""
		} else {
			fb.editMode = "field"
		}
	case "up", "k":
		if fb.operatorIndex > 0 {
			fb.operatorIndex--
		}
	case "down", "j":
		if fb.operatorIndex < len(fb.availableOps)-1 {
			fb.operatorIndex++
		}
	case "enter":
		op := fb.availableOps[fb.operatorIndex]
		if !op.NeedsValue() {
			fb.commitCondition(op, "")
			fb.editMode = ""
		} else {
			fb.editMode = "value"
		}
	}
	return fb, nil
}

func (fb *FilterBuilder) handleValueMode(msg tea.KeyMsg) (*FilterBuilder, tea.Cmd) {
	switch msg.String() {
	case "esc":
		fb.editMode = "operator"
	case "enter":
		fb.commitCondition(fb.availableOps[fb.operatorIndex], fb.valueInput)
		fb.editMode = ""
		fb.valueInput = ""
	case "backspace":
		if len(fb.valueInput) > 0 {
			fb.valueInput = fb.valueInput[:len(fb.valueInput)-1]
		}
	default:
		if len(msg.String()) == 1 {
			fb.valueInput += msg.String()
		}
	}
	return fb, nil
}

// commitCondition writes a new or edited condition into the set.
func (fb *FilterBuilder) commitCondition(op filter.Operator, value string) {
	path := fb.editTarget
	if path == nil {
		codes := models.FieldCodes(fb.fields)
		if err := fb.set.AddField(fb.addPath, fb.selectedField.FieldCode, codes); err != nil {
			fb.validationError = err.Error()
			return
		}
		path = fb.addPath.Child(fb.selectedField.FieldCode)
	}
	if err := fb.set.UpdateLeaf(path, filter.LeafOperator, string(op)); err != nil {
		fb.validationError = err.Error()
		return
	}
	if op.NeedsValue() {
		if err := fb.set.UpdateLeaf(path, filter.LeafValue, value); err != nil {
			fb.validationError = err.Error()
			return
		}
	}
	fb.validationError = ""
	fb.editTarget = nil
	fb.rebuild()
}

func (fb *FilterBuilder) groupRowFor(path filter.Path) *builderRow {
	for i := range fb.rows {
		if fb.rows[i].isGroup && pathEqual(fb.rows[i].path, path) {
			return &fb.rows[i]
		}
	}
	return nil
}

func (fb *FilterBuilder) fieldByCode(code string) models.FieldDescriptor {
	for _, f := range fb.fields {
		if f.FieldCode == code {
			return f
		}
	}
	return models.FieldDescriptor{FieldCode: code, DataType: models.TypeText}
}

func pathEqual(a, b filter.Path) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func indexOfOperator(ops []filter.Operator, op filter.Operator) int {
	for i, o := range ops {
		if o == op {
			return i
		}
	}
	return 0
}

// View renders the filter builder
func (fb *FilterBuilder) View() string {
	var sections []string

	titleStyle := lipgloss.NewStyle().
		Foreground(fb.Theme.Foreground).
		Background(fb.Theme.Info).
		Padding(0, 1).
		Bold(true)
	sections = append(sections, titleStyle.Render("Filter: "+fb.Target))

	instructionStyle := lipgloss.NewStyle().
		Foreground(fb.Theme.Comment).
		Padding(0, 1)

	var instructions string
	switch fb.editMode {
	case "field":
		instructions = "Type field code, Enter to confirm, Esc to cancel"
	case "operator":
		instructions = "↑↓ Select operator, Enter to confirm, Esc to go back"
	case "value":
		instructions = "Type value, Enter to confirm, Esc to go back"
	default:
		instructions = "a=Add g=Group o=AND/OR e=Edit d=Delete c=Clear Enter=Apply Esc=Close"
	}
	sections = append(sections, instructionStyle.Render(instructions))

	if fb.validationError != "" {
		errorStyle := lipgloss.NewStyle().
			Foreground(fb.Theme.Error).
			Padding(0, 1).
			Bold(true)
		sections = append(sections, errorStyle.Render("Error: "+fb.validationError))
	}

	sections = append(sections, "")
	for i, row := range fb.rows {
		indent := strings.Repeat("  ", row.depth)
		var text string
		if row.isGroup {
			name := "WHERE"
			if len(row.path) > 0 {
				name = row.path[len(row.path)-1]
			}
			text = fmt.Sprintf("%s%s (%s)", indent, name, row.logic)
		} else {
			field := row.path[len(row.path)-1]
			if row.leaf.Operator.NeedsValue() {
				text = fmt.Sprintf("%s%s %s %q", indent, field, row.leaf.Operator, row.leaf.Value)
			} else {
				text = fmt.Sprintf("%s%s %s", indent, field, row.leaf.Operator)
			}
		}

		style := lipgloss.NewStyle().Padding(0, 1)
		if i == fb.currentIndex && fb.editMode == "" {
			style = style.Background(fb.Theme.Selection).Foreground(fb.Theme.Foreground)
		}
		sections = append(sections, style.Render(text))
	}

	if fb.editMode != "" {
		sections = append(sections, "")
		switch fb.editMode {
		case "field":
			sections = append(sections, fmt.Sprintf("Field: %s_", fb.fieldInput))
			remaining := fb.set.RemainingFields(fb.addPath, models.FieldCodes(fb.fields))
			if len(remaining) > 0 {
				hint := lipgloss.NewStyle().Foreground(fb.Theme.Comment)
				sections = append(sections, hint.Render("Available: "+strings.Join(remaining, ", ")))
			}
		case "operator":
			sections = append(sections, fmt.Sprintf("Field: %s", fb.selectedField.FieldCode))
			sections = append(sections, "Select operator:")
			for i, op := range fb.availableOps {
				style := lipgloss.NewStyle().Padding(0, 1)
				if i == fb.operatorIndex {
					style = style.Background(fb.Theme.Selection).Foreground(fb.Theme.Foreground)
				}
				sections = append(sections, style.Render(fmt.Sprintf("  %s", op)))
			}
		case "value":
			sections = append(sections, fmt.Sprintf("Field: %s %s", fb.selectedField.FieldCode, fb.availableOps[fb.operatorIndex]))
			sections = append(sections, fmt.Sprintf("Value: %s_", fb.valueInput))
		}
	}

	// wire preview, the JSON the data endpoint will receive
	if !fb.set.IsEmpty() {
		if encoded, err := fb.set.MarshalJSON(); err == nil {
			sections = append(sections, "\nPayload:")
			previewStyle := lipgloss.NewStyle().
				Foreground(fb.Theme.Comment).
				Padding(0, 1).
				Italic(true)
			sections = append(sections, previewStyle.Render(string(encoded)))
		}
	}

	content := strings.Join(sections, "\n")

	containerStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(fb.Theme.Border).
		Foreground(fb.Theme.Foreground).
		Width(fb.Width).
		Padding(1)

	return containerStyle.Render(content)
}
