package layout

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lazydash/lazydash/internal/models"
	"github.com/lazydash/lazydash/internal/ui/theme"
)

type emptyElement struct{}

func (emptyElement) Render(int) string { return "" }

// boxElement stacks children vertically; cards add a border.
type boxElement struct {
	theme    theme.Theme
	children []Element
	bordered bool
}

func (e *boxElement) Render(width int) string {
	content := joinChildren(e.children, width)
	if !e.bordered {
		return content
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(e.theme.Border).
		Width(max(width-2, 1)).
		Padding(0, 1).
		Render(content)
}

// maxWidthElement clamps content width and optionally centers it.
type maxWidthElement struct {
	maxWidth int
	align    string
	children []Element
}

func (e *maxWidthElement) Render(width int) string {
	inner := width
	if e.maxWidth > 0 && e.maxWidth < inner {
		inner = e.maxWidth
	}
	content := joinChildren(e.children, inner)
	if e.align == "center" && inner < width {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, content)
	}
	return content
}

// sectionElement is a titled vertical block.
type sectionElement struct {
	theme    theme.Theme
	title    string
	children []Element
}

func (e *sectionElement) Render(width int) string {
	content := joinChildren(e.children, width)
	if e.title == "" {
		return content
	}
	title := lipgloss.NewStyle().Bold(true).Foreground(e.theme.Info).Render(e.title)
	return title + "\n" + content
}

type gridItem struct {
	span    int
	element Element
}

// gridElement lays items out on a 12-column grid, wrapping rows when the
// accumulated span exceeds 12.
type gridElement struct {
	theme     theme.Theme
	spacing   int
	container bool
	items     []gridItem
}

func (e *gridElement) Render(width int) string {
	if len(e.items) == 0 {
		return ""
	}

	gap := e.spacing
	if gap < 0 {
		gap = 0
	}

	var rows []string
	var row []string
	used := 0
	flush := func() {
		if len(row) > 0 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
			used = 0
		}
	}

	for _, item := range e.items {
		span := item.span
		if span < 1 || span > 12 {
			span = 12
		}
		if used+span > 12 {
			flush()
		}
		cellWidth := width * span / 12
		if len(row) > 0 && gap > 0 {
			row = append(row, strings.Repeat(" ", gap))
			cellWidth -= gap
		}
		if cellWidth < 1 {
			cellWidth = 1
		}
		cell := lipgloss.NewStyle().Width(cellWidth).Render(item.element.Render(cellWidth))
		row = append(row, cell)
		used += span
	}
	flush()

	return strings.Join(rows, "\n")
}

// textElement renders static copy.
type textElement struct {
	theme   theme.Theme
	content string
}

func (e *textElement) Render(width int) string {
	if e.content == "" {
		return ""
	}
	return lipgloss.NewStyle().Width(max(width, 1)).Foreground(e.theme.Foreground).Render(e.content)
}

// scoreCardElement renders a row of metric cards from the config prop.
type scoreCardElement struct {
	theme  theme.Theme
	layout string
	cards  []scoreCard
}

type scoreCard struct {
	title    string
	subtitle string
	value    string
	unit     string
	trend    string
}

func newScoreCardElement(th theme.Theme, config map[string]any) Element {
	e := &scoreCardElement{theme: th, layout: "horizontal"}
	if config == nil {
		return e
	}
	if layout, _ := config["layout"].(string); layout != "" {
		e.layout = layout
	}
	rawCards, _ := config["cards"].([]any)
	for _, raw := range rawCards {
		m, _ := raw.(map[string]any)
		if m == nil {
			continue
		}
		card := scoreCard{}
		card.title, _ = m["title"].(string)
		card.subtitle, _ = m["subtitle"].(string)
		card.value = fmt.Sprintf("%v", m["value"])
		card.unit, _ = m["unit"].(string)
		if trend, _ := m["trend"].(map[string]any); trend != nil {
			card.trend = trendLine(trend)
		}
		e.cards = append(e.cards, card)
	}
	return e
}

func trendLine(trend map[string]any) string {
	kind, _ := trend["type"].(string)
	span, _ := trend["time_span"].(string)
	value, _ := trend["value"].(float64)
	arrow := "→"
	switch kind {
	case "increase":
		arrow = "↑"
	case "decrease":
		arrow = "↓"
	}
	return strings.TrimSpace(fmt.Sprintf("%s %g%% %s", arrow, value, span))
}

func (e *scoreCardElement) Render(width int) string {
	if len(e.cards) == 0 {
		return ""
	}

	cardWidth := width
	if e.layout == "horizontal" && len(e.cards) > 0 {
		cardWidth = width/len(e.cards) - 1
	}
	if cardWidth < 12 {
		cardWidth = 12
	}

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(e.theme.Border).
		Width(cardWidth).
		Padding(0, 1)
	titleStyle := lipgloss.NewStyle().Foreground(e.theme.Info).Bold(true)
	valueStyle := lipgloss.NewStyle().Foreground(e.theme.Foreground).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(e.theme.Comment)

	var rendered []string
	for _, card := range e.cards {
		var lines []string
		lines = append(lines, titleStyle.Render(card.title))
		value := card.value
		if card.unit != "" {
			value += " " + card.unit
		}
		lines = append(lines, valueStyle.Render(value))
		if card.subtitle != "" {
			lines = append(lines, dimStyle.Render(card.subtitle))
		}
		if card.trend != "" {
			lines = append(lines, dimStyle.Render(card.trend))
		}
		rendered = append(rendered, cardStyle.Render(strings.Join(lines, "\n")))
	}

	if e.layout == "vertical" {
		return strings.Join(rendered, "\n")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// chartElement renders bar, line, and pie charts as text. subType and props
// arrive opaquely from the layout node; the element owns the dispatch.
type chartElement struct {
	theme   theme.Theme
	subType string
	title   string
	labels  []string
	values  []float64
}

func newChartElement(th theme.Theme, subType string, props map[string]any) Element {
	e := &chartElement{theme: th, subType: strings.ToLower(subType)}
	if props == nil {
		return e
	}
	e.title, _ = props["title"].(string)

	source, _ := props["dataSource"].(map[string]any)
	if source == nil {
		return e
	}
	data, _ := source["data"].(map[string]any)
	if data == nil {
		return e
	}
	for _, raw := range toSlice(data["labels"]) {
		e.labels = append(e.labels, fmt.Sprintf("%v", raw))
	}
	for _, raw := range toSlice(data["values"]) {
		if f, ok := raw.(float64); ok {
			e.values = append(e.values, f)
		}
	}
	// series charts collapse to the first series for terminal rendering
	if len(e.values) == 0 {
		if series := toSlice(data["series"]); len(series) > 0 {
			if first, _ := series[0].(map[string]any); first != nil {
				for _, raw := range toSlice(first["data"]) {
					if f, ok := raw.(float64); ok {
						e.values = append(e.values, f)
					}
				}
			}
		}
	}
	return e
}

func toSlice(v any) []any {
	s, _ := v.([]any)
	return s
}

func (e *chartElement) Render(width int) string {
	if len(e.values) == 0 || len(e.labels) == 0 {
		return ""
	}

	var lines []string
	if e.title != "" {
		lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(e.theme.Info).Render(e.title))
	}

	switch e.subType {
	case "pie":
		lines = append(lines, e.renderPie(width)...)
	case "line":
		lines = append(lines, e.renderSpark(width))
	default: // bar
		lines = append(lines, e.renderBars(width)...)
	}
	return strings.Join(lines, "\n")
}

func (e *chartElement) renderBars(width int) []string {
	labelWidth := 0
	maxValue := 0.0
	for i, label := range e.labels {
		if len(label) > labelWidth {
			labelWidth = len(label)
		}
		if i < len(e.values) && e.values[i] > maxValue {
			maxValue = e.values[i]
		}
	}
	barSpace := width - labelWidth - 12
	if barSpace < 5 {
		barSpace = 5
	}

	barStyle := lipgloss.NewStyle().Foreground(e.theme.Info)
	var lines []string
	for i, label := range e.labels {
		if i >= len(e.values) {
			break
		}
		length := 0
		if maxValue > 0 {
			length = int(e.values[i] / maxValue * float64(barSpace))
		}
		lines = append(lines, fmt.Sprintf("%-*s %s %g",
			labelWidth, label, barStyle.Render(strings.Repeat("█", length)), e.values[i]))
	}
	return lines
}

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

func (e *chartElement) renderSpark(width int) string {
	maxValue := 0.0
	for _, v := range e.values {
		if v > maxValue {
			maxValue = v
		}
	}
	var b strings.Builder
	for _, v := range e.values {
		idx := 0
		if maxValue > 0 {
			idx = int(v / maxValue * float64(len(sparkRunes)-1))
		}
		b.WriteRune(sparkRunes[idx])
	}
	spark := lipgloss.NewStyle().Foreground(e.theme.Info).Render(b.String())
	return spark + "  " + strings.Join(e.labels, " ")
}

func (e *chartElement) renderPie(width int) []string {
	total := 0.0
	for _, v := range e.values {
		total += v
	}
	if total == 0 {
		return nil
	}
	var lines []string
	for i, label := range e.labels {
		if i >= len(e.values) {
			break
		}
		pct := e.values[i] / total * 100
		segment := int(pct / 100 * float64(max(width-20, 10)))
		bar := lipgloss.NewStyle().Foreground(e.theme.Info).Render(strings.Repeat("▪", max(segment, 1)))
		lines = append(lines, fmt.Sprintf("%-12s %5.1f%% %s", label, pct, bar))
	}
	return lines
}

// navbarElement renders the top bar: branding title, route breadcrumb, and
// the top-level navigation entries.
type navbarElement struct {
	theme theme.Theme
	scope models.Scope
	view  *models.ViewContent
	items []*models.NavigationItem
}

func (e *navbarElement) Render(width int) string {
	left := e.scope.TenantCode + "/" + e.scope.ProductCode
	if e.view != nil && e.view.Tenant.Name != "" {
		left = e.view.Tenant.Name
	}

	var entries []string
	for _, item := range e.items {
		label := item.Title
		if len(item.Children) > 0 {
			label += " ▾"
		}
		entries = append(entries, label)
	}
	right := strings.Join(entries, "  ")

	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if gap < 1 {
		gap = 1
	}
	bar := " " + left + strings.Repeat(" ", gap) + right + " "
	return lipgloss.NewStyle().
		Width(width).
		Background(e.theme.BorderFocused).
		Foreground(lipgloss.Color("230")).
		Render(bar)
}

// heroesElement renders a hero banner. Slides arrive as the node's raw
// children config, not realized elements.
type heroesElement struct {
	theme  theme.Theme
	slides []heroSlide
}

type heroSlide struct {
	title    string
	subtitle string
}

func newHeroesElement(th theme.Theme, n *Node) Element {
	e := &heroesElement{theme: th}
	for _, child := range n.Children {
		e.slides = append(e.slides, heroSlide{
			title:    child.PropString("title"),
			subtitle: child.PropString("subtitle"),
		})
	}
	if len(e.slides) == 0 {
		// a single-slide hero can be authored through props directly
		if title := n.PropString("title"); title != "" {
			e.slides = append(e.slides, heroSlide{title: title, subtitle: n.PropString("subtitle")})
		}
	}
	return e
}

func (e *heroesElement) Render(width int) string {
	if len(e.slides) == 0 {
		return ""
	}
	slide := e.slides[0]
	var lines []string
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(e.theme.Info).Render(slide.title))
	if slide.subtitle != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(e.theme.Comment).Render(slide.subtitle))
	}
	if len(e.slides) > 1 {
		lines = append(lines, lipgloss.NewStyle().Foreground(e.theme.Comment).
			Render(fmt.Sprintf("1/%d", len(e.slides))))
	}
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(e.theme.BorderFocused).
		Width(max(width-2, 1)).
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))
}

// menuElement renders navigation entries as a vertical menu.
type menuElement struct {
	theme        theme.Theme
	items        []*models.NavigationItem
	overflowType string
}

func (e *menuElement) Render(width int) string {
	if len(e.items) == 0 {
		return ""
	}
	var lines []string
	for _, item := range models.FlattenNavigation(e.items) {
		indent := strings.Repeat("  ", item.Depth())
		icon := "•"
		if item.NavigationConfig.Icon != "" {
			icon = item.NavigationConfig.Icon
		}
		lines = append(lines, fmt.Sprintf("%s%s %s", indent, icon, item.Title))
	}
	return strings.Join(lines, "\n")
}

// footerElement renders a bottom bar.
type footerElement struct {
	theme   theme.Theme
	content string
}

func (e *footerElement) Render(width int) string {
	content := e.content
	if content == "" {
		return ""
	}
	return lipgloss.NewStyle().
		Width(width).
		Foreground(e.theme.Comment).
		Render(" " + content)
}

// pageTitleElement renders the view's display title from ambient context.
type pageTitleElement struct {
	theme theme.Theme
	scope models.Scope
	view  *models.ViewContent
}

func (e *pageTitleElement) Render(width int) string {
	title := models.ToLabel(e.scope.ObjectCode)
	if e.view != nil {
		title = e.view.Title(e.scope.ObjectCode)
	}
	return lipgloss.NewStyle().Bold(true).Foreground(e.theme.Info).Render(title)
}

// slotElement hands table/form/detail nodes to the page component that owns
// their interactive state.
type slotElement struct {
	ctx  Context
	node *Node
}

func (e *slotElement) Render(width int) string {
	if e.ctx.Slot == nil {
		return ""
	}
	return e.ctx.Slot(e.node)
}

// dropdownElement renders a dropdown's current state. Key handling lives in
// the page component; changes publish through the filter store and a message,
// keyed by the spec's target, which card lists and tables subscribe to.
type dropdownElement struct {
	theme    theme.Theme
	spec     DropdownSpec
	selected string
}

func newDropdownElement(ctx Context, n *Node) Element {
	spec := DropdownSpecFrom(n)
	selected := ""
	if ctx.Selected != nil && spec.ObjectCode != "" {
		selected = ctx.Selected(spec.ObjectCode + "__" + spec.ViewContentCode)
	}
	return &dropdownElement{theme: ctx.Theme, spec: spec, selected: selected}
}

func (e *dropdownElement) Render(width int) string {
	label := e.selected
	if label == "" {
		label = e.spec.Placeholder
		if label == "" {
			label = "Select an option"
		}
	}
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(e.theme.Border).
		Padding(0, 1).
		Render(label + " ▾")
}

// cardListElement renders the records for its subscribed target as cards.
type cardListElement struct {
	theme    theme.Theme
	target   string
	selected string
	data     *models.PagedResult
}

func newCardListElement(ctx Context, n *Node) Element {
	target := CardListTarget(n)
	e := &cardListElement{theme: ctx.Theme, target: target}
	if ctx.Data != nil {
		e.data = ctx.Data(target)
	}
	if ctx.Selected != nil {
		e.selected = ctx.Selected(target)
	}
	return e
}

func (e *cardListElement) Render(width int) string {
	if e.data == nil || len(e.data.Items) == 0 {
		return lipgloss.NewStyle().Foreground(e.theme.Comment).Render("No data available")
	}

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(e.theme.Border).
		Width(max(width-2, 20)).
		Padding(0, 1)
	selectedStyle := cardStyle.BorderForeground(e.theme.BorderFocused)

	var cards []string
	for _, row := range e.data.Items {
		title := row["name"].Display()
		if title == "" {
			title = row.Serial()
		}
		style := cardStyle
		if e.selected != "" && row.Serial() == e.selected {
			style = selectedStyle
		}
		cards = append(cards, style.Render(title))
	}
	return strings.Join(cards, "\n")
}

func joinChildren(children []Element, width int) string {
	var parts []string
	for _, child := range children {
		if rendered := child.Render(width); rendered != "" {
			parts = append(parts, rendered)
		}
	}
	return strings.Join(parts, "\n")
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
