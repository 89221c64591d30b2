package layout

import (
	"go.uber.org/zap"

	"github.com/lazydash/lazydash/internal/filter"
	"github.com/lazydash/lazydash/internal/models"
	"github.com/lazydash/lazydash/internal/ui/theme"
)

// Element is a realized piece of UI, ready to render at a given width.
type Element interface {
	Render(width int) string
}

// Context is the ambient state an interpretation runs against: the route
// scope, view metadata, theme, and the hooks that connect tree-local nodes to
// page-owned state. Interpret is a pure function of the node tree and this
// context; running it twice with the same inputs yields identical output.
type Context struct {
	Scope models.Scope
	View  *models.ViewContent
	Theme theme.Theme

	// Filters is the page-owned per-target store dropdown controls publish
	// into and card lists/tables read from.
	Filters *filter.Store

	// Slot renders the interactive data-bound nodes (table, form, detail)
	// that the page manages as stateful components. Nil slots render empty.
	Slot func(n *Node) string

	// Data returns the current page of records for a target, for card lists.
	Data func(target string) *models.PagedResult

	// Selected returns the current selection for a target keyed control.
	Selected func(target string) string

	// Navigation is the menu document used by navbar and menu nodes.
	Navigation []*models.NavigationItem

	Logger *zap.Logger
}

func (c Context) log() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// Interpreter walks a parsed layout tree and maps each node to an Element.
type Interpreter struct {
	ctx Context
}

// New creates an interpreter bound to a context.
func New(ctx Context) *Interpreter {
	return &Interpreter{ctx: ctx}
}

// Interpret realizes a node tree. Children are interpreted first; the node's
// kind then decides how props, class name, ambient context, and the realized
// children combine. Unknown kinds render nothing and are logged, never fatal.
func (it *Interpreter) Interpret(n *Node) Element {
	if n == nil {
		return emptyElement{}
	}

	children := make([]Element, 0, len(n.Children))
	switch n.Kind {
	case KindText, KindPageTitle, KindHeroes:
		// Terminal nodes; heroes consumes its children as raw slide config
		// rather than realized elements.
	default:
		for _, child := range n.Children {
			children = append(children, it.Interpret(child))
		}
	}

	switch n.Kind {
	case KindContainer, KindCard:
		return &boxElement{theme: it.ctx.Theme, children: children, bordered: n.Kind == KindCard}
	case KindMaxWidthContainer:
		return &maxWidthElement{
			maxWidth: n.PropInt("maxWidth", 0),
			align:    n.PropString("align"),
			children: children,
		}
	case KindSection:
		return &sectionElement{
			theme:    it.ctx.Theme,
			title:    n.PropString("title"),
			children: children,
		}
	case KindGrid:
		return &gridElement{
			theme:     it.ctx.Theme,
			spacing:   n.PropInt("spacing", 0),
			container: n.PropBool("container"),
			items:     gridItems(n, children),
		}
	case KindGridItem:
		// A gridItem outside a grid degrades to a plain box.
		return &boxElement{theme: it.ctx.Theme, children: children}
	case KindText:
		return &textElement{theme: it.ctx.Theme, content: n.PropString("content")}
	case KindScoreCard:
		return newScoreCardElement(it.ctx.Theme, n.PropMap("config"))
	case KindChart:
		// The chart element owns further dispatch by subType (bar/line/pie);
		// the whole props object passes through opaquely.
		return newChartElement(it.ctx.Theme, n.SubType, n.Props)
	case KindNavbar:
		// Ambient route context is injected here; the node itself carries none.
		return &navbarElement{
			theme: it.ctx.Theme,
			scope: it.ctx.Scope,
			view:  it.ctx.View,
			items: it.ctx.Navigation,
		}
	case KindHeroes:
		return newHeroesElement(it.ctx.Theme, n)
	case KindMenu:
		return &menuElement{
			theme:        it.ctx.Theme,
			items:        it.ctx.Navigation,
			overflowType: n.PropString("overflowType"),
		}
	case KindFooter:
		return &footerElement{theme: it.ctx.Theme, content: n.PropString("content")}
	case KindPageTitle:
		return &pageTitleElement{theme: it.ctx.Theme, scope: it.ctx.Scope, view: it.ctx.View}
	case KindDropdown:
		return newDropdownElement(it.ctx, n)
	case KindCardList:
		return newCardListElement(it.ctx, n)
	case KindTable, KindForm, KindDetail:
		return &slotElement{ctx: it.ctx, node: n}
	case KindNavigation:
		// Navigation documents are fetched and rendered through the navbar;
		// inline occurrences contribute nothing.
		return emptyElement{}
	default:
		it.ctx.log().Warn("unknown layout node type, dropping subtree",
			zap.String("type", n.RawType))
		return emptyElement{}
	}
}

// gridItems pairs each grid child with its span props. Non-gridItem children
// get a full-width row.
func gridItems(grid *Node, realized []Element) []gridItem {
	items := make([]gridItem, 0, len(realized))
	for i, child := range grid.Children {
		span := 12
		if child.Kind == KindGridItem {
			span = gridSpan(child)
		}
		items = append(items, gridItem{span: span, element: realized[i]})
	}
	return items
}

// gridSpan picks the effective 12-column span from the responsive props,
// widest breakpoint first. Terminal rendering has one breakpoint.
func gridSpan(n *Node) int {
	for _, key := range []string{"xl", "lg", "md", "sm", "xs"} {
		if span := n.PropInt(key, 0); span >= 1 && span <= 12 {
			return span
		}
	}
	return 12
}

// DropdownSpec is the configuration a dropdown node carries, extracted for
// the page component that owns the interactive control.
type DropdownSpec struct {
	Node            *Node
	ObjectCode      string
	ViewContentCode string
	FieldName       string
	FieldValue      string
	Placeholder     string

	// Action wiring: when Action is "loadTable", a change publishes a filter
	// keyed by ActionField into the Set for Target.
	Action      string
	ActionField string
	Target      string
}

// DropdownSpecFrom reads a dropdown node's props.
func DropdownSpecFrom(n *Node) DropdownSpec {
	spec := DropdownSpec{
		Node:            n,
		ObjectCode:      n.PropString("objectCode"),
		ViewContentCode: n.PropString("viewContentCode"),
		FieldName:       n.PropString("fieldName"),
		FieldValue:      n.PropString("fieldValue"),
		Placeholder:     n.PropString("placeholder"),
	}
	listeners := n.PropMap("eventListeners")
	if listeners == nil {
		return spec
	}
	onChange, _ := listeners["onChange"].(map[string]any)
	if onChange == nil {
		return spec
	}
	spec.Action, _ = onChange["action"].(string)
	spec.Target, _ = onChange["target"].(string)
	if params, _ := onChange["params"].(map[string]any); params != nil {
		spec.ActionField, _ = params["field"].(string)
	}
	return spec
}

// CardListTarget returns the pub/sub key a cardList node subscribes to.
func CardListTarget(n *Node) string {
	return n.PropString("objectCode") + "__" + n.PropString("viewContentCode")
}
