package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lazydash/lazydash/internal/models"
	"github.com/lazydash/lazydash/internal/ui/theme"
)

// Column is one planned table column: the backend's pixel-space width
// heuristic plus whether the column stretches to fill leftover space.
type Column struct {
	Field     models.FieldDescriptor
	FlexWidth int
	Expand    bool
}

// TableView displays one page of records for a view
type TableView struct {
	Fields       []models.FieldDescriptor
	Rows         []models.Row
	ShowMetadata bool

	Width         int
	Height        int
	ViewportWidth int
	Theme         theme.Theme

	// Scrolling state
	TopRow      int
	VisibleRows int
	SelectedRow int
	TotalRows   int
}

// NewTableView creates a new table view
func NewTableView(th theme.Theme) *TableView {
	return &TableView{
		Theme:         th,
		ViewportWidth: 1000,
	}
}

// SetData sets the table data
func (tv *TableView) SetData(fields []models.FieldDescriptor, result *models.PagedResult, showMetadata bool) {
	tv.Fields = fields
	tv.ShowMetadata = showMetadata
	if result != nil {
		tv.Rows = result.Items
		tv.TotalRows = result.TotalData
	} else {
		tv.Rows = nil
		tv.TotalRows = 0
	}
	tv.SelectedRow = 0
	tv.TopRow = 0
}

// Columns plans the visible columns: displayed fields in field order, minus
// the metadata columns unless opted in. Width per column is
// len(field_name)*10+40; when the total stays under the viewport width the
// first column expands to fill.
func (tv *TableView) Columns() []Column {
	visible := make([]models.FieldDescriptor, 0, len(tv.Fields))
	for _, f := range models.VisibleFields(tv.Fields, tv.ShowMetadata) {
		if !f.IsDisplayedInTable {
			continue
		}
		visible = append(visible, f)
	}

	columns := make([]Column, len(visible))
	total := 0
	for i, f := range visible {
		w := len(f.FieldName)*10 + 40
		columns[i] = Column{Field: f, FlexWidth: w}
		total += w
	}
	if len(columns) > 0 && total < tv.ViewportWidth {
		columns[0].Expand = true
	}
	return columns
}

// charWidths scales the pixel-space plan to terminal cells.
func (tv *TableView) charWidths(columns []Column) []int {
	if len(columns) == 0 {
		return nil
	}
	// separators take 3 cells per gap plus 2 edge cells
	avail := tv.Width - 3*(len(columns)-1) - 2
	if avail < len(columns) {
		avail = len(columns)
	}

	total := 0
	for _, c := range columns {
		total += c.FlexWidth
	}

	widths := make([]int, len(columns))
	used := 0
	for i, c := range columns {
		w := avail * c.FlexWidth / total
		if w < 4 {
			w = 4
		}
		widths[i] = w
		used += w
	}
	// leftover cells go to the expanding column
	for i, c := range columns {
		if c.Expand && used < avail {
			widths[i] += avail - used
			break
		}
	}
	return widths
}

// View renders the table
func (tv *TableView) View() string {
	columns := tv.Columns()
	if len(columns) == 0 || len(tv.Rows) == 0 {
		return lipgloss.NewStyle().
			Foreground(tv.Theme.Comment).
			Italic(true).
			Render("No data available")
	}

	widths := tv.charWidths(columns)

	var b strings.Builder
	b.WriteString(tv.renderHeader(columns, widths))
	b.WriteString("\n")
	b.WriteString(tv.renderSeparator(widths))
	b.WriteString("\n")

	tv.VisibleRows = tv.Height - 3
	if tv.VisibleRows < 1 {
		tv.VisibleRows = 1
	}

	endRow := tv.TopRow + tv.VisibleRows
	if endRow > len(tv.Rows) {
		endRow = len(tv.Rows)
	}
	for i := tv.TopRow; i < endRow; i++ {
		b.WriteString(tv.renderRow(columns, widths, tv.Rows[i], i == tv.SelectedRow, i%2 == 1))
		if i < endRow-1 {
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(tv.renderStatus())
	return b.String()
}

func (tv *TableView) renderHeader(columns []Column, widths []int) string {
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = pad(c.Field.FieldName, widths[i])
	}
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(tv.Theme.TableHeader)
	return headerStyle.Render(" " + strings.Join(parts, " │ ") + " ")
}

func (tv *TableView) renderSeparator(widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat("─", w)
	}
	return lipgloss.NewStyle().
		Foreground(tv.Theme.Border).
		Render("─" + strings.Join(parts, "─┼─") + "─")
}

func (tv *TableView) renderRow(columns []Column, widths []int, row models.Row, selected, odd bool) string {
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = pad(row[c.Field.FieldCode].Display(), widths[i])
	}
	line := " " + strings.Join(parts, " │ ") + " "

	if selected {
		return lipgloss.NewStyle().
			Background(tv.Theme.TableRowSelected).
			Foreground(tv.Theme.Foreground).
			Bold(true).
			Render(line)
	}
	if odd {
		return lipgloss.NewStyle().Background(tv.Theme.TableRowOdd).Render(line)
	}
	return line
}

func (tv *TableView) renderStatus() string {
	end := tv.TopRow + len(tv.Rows)
	if end > tv.TotalRows {
		end = tv.TotalRows
	}
	showing := fmt.Sprintf(" %d-%d of %d records", tv.TopRow+1, end, tv.TotalRows)
	return lipgloss.NewStyle().
		Foreground(tv.Theme.Comment).
		Italic(true).
		Render(showing)
}

func pad(s string, width int) string {
	if len(s) > width {
		if width <= 3 {
			return s[:width]
		}
		return s[:width-3] + "..."
	}
	return s + strings.Repeat(" ", width-len(s))
}

// SelectedRecord returns the row under the cursor, nil when empty.
func (tv *TableView) SelectedRecord() models.Row {
	if tv.SelectedRow < 0 || tv.SelectedRow >= len(tv.Rows) {
		return nil
	}
	return tv.Rows[tv.SelectedRow]
}

// SelectedCell returns the display text of the first cell of the selected
// row's given column, for clipboard copy.
func (tv *TableView) SelectedCell(fieldCode string) string {
	row := tv.SelectedRecord()
	if row == nil {
		return ""
	}
	return row[fieldCode].Display()
}

// MoveSelection moves the selection up or down
func (tv *TableView) MoveSelection(delta int) {
	tv.SelectedRow += delta

	if tv.SelectedRow < 0 {
		tv.SelectedRow = 0
	}
	if tv.SelectedRow >= len(tv.Rows) {
		tv.SelectedRow = len(tv.Rows) - 1
	}

	if tv.SelectedRow < tv.TopRow {
		tv.TopRow = tv.SelectedRow
	}
	if tv.VisibleRows > 0 && tv.SelectedRow >= tv.TopRow+tv.VisibleRows {
		tv.TopRow = tv.SelectedRow - tv.VisibleRows + 1
	}
}
