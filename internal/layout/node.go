package layout

import (
	"encoding/json"
	"strings"

	"github.com/lazydash/lazydash/internal/models"
)

// Kind is the closed set of layout primitives. The JSON type tag is resolved
// into a Kind once at parse time; anything unrecognized becomes KindUnknown
// and is dropped at render time with a diagnostic.
type Kind int

const (
	KindUnknown Kind = iota
	KindContainer
	KindMaxWidthContainer
	KindSection
	KindGrid
	KindGridItem
	KindText
	KindScoreCard
	KindChart
	KindNavbar
	KindHeroes
	KindMenu
	KindFooter
	KindPageTitle
	KindCard
	KindDropdown
	KindCardList
	KindTable
	KindForm
	KindDetail
	KindNavigation
)

var kindNames = map[Kind]string{
	KindUnknown:           "unknown",
	KindContainer:         "container",
	KindMaxWidthContainer: "maxWidthContainer",
	KindSection:           "section",
	KindGrid:              "grid",
	KindGridItem:          "gridItem",
	KindText:              "text",
	KindScoreCard:         "scoreCard",
	KindChart:             "chart",
	KindNavbar:            "navbar",
	KindHeroes:            "heroes",
	KindMenu:              "menu",
	KindFooter:            "footer",
	KindPageTitle:         "pageTitle",
	KindCard:              "card",
	KindDropdown:          "dropdown",
	KindCardList:          "cardList",
	KindTable:             "table",
	KindForm:              "form",
	KindDetail:            "detail",
	KindNavigation:        "navigation",
}

// kindByTag maps lower-cased type tags to kinds. webView is a legacy alias
// for container still present in backend-authored layouts.
var kindByTag = map[string]Kind{
	"container":         KindContainer,
	"webview":           KindContainer,
	"maxwidthcontainer": KindMaxWidthContainer,
	"section":           KindSection,
	"grid":              KindGrid,
	"griditem":          KindGridItem,
	"text":              KindText,
	"scorecard":         KindScoreCard,
	"chart":             KindChart,
	"navbar":            KindNavbar,
	"heroes":            KindHeroes,
	"menu":              KindMenu,
	"footer":            KindFooter,
	"pagetitle":         KindPageTitle,
	"card":              KindCard,
	"dropdown":          KindDropdown,
	"cardlist":          KindCardList,
	"table":             KindTable,
	"form":              KindForm,
	"detail":            KindDetail,
	"navigation":        KindNavigation,
}

// KindOf resolves a raw type tag case-insensitively.
func KindOf(raw string) Kind {
	if kind, ok := kindByTag[strings.ToLower(raw)]; ok {
		return kind
	}
	return KindUnknown
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Node is one parsed layout node. The tree is backend-authored; depth is
// bounded by configuration, and there are no cycles.
type Node struct {
	Kind      Kind
	RawType   string
	SubType   string
	ClassName string
	Props     map[string]any
	Children  []*Node
}

type nodeJSON struct {
	Type      string          `json:"type"`
	SubType   string          `json:"subType"`
	ClassName string          `json:"class_name"`
	Props     map[string]any  `json:"props"`
	Children  []nodeJSON      `json:"children"`
	Raw       json.RawMessage `json:"-"`
}

// Parse decodes a layout document body into a typed node tree.
func Parse(data []byte) (*Node, error) {
	var raw nodeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return build(raw), nil
}

func build(raw nodeJSON) *Node {
	n := &Node{
		Kind:      KindOf(raw.Type),
		RawType:   raw.Type,
		SubType:   raw.SubType,
		ClassName: raw.ClassName,
		Props:     raw.Props,
	}
	for _, child := range raw.Children {
		n.Children = append(n.Children, build(child))
	}
	return n
}

// FindFirst returns the first node of the given kind in document order.
func (n *Node) FindFirst(kind Kind) *Node {
	if n == nil {
		return nil
	}
	if n.Kind == kind {
		return n
	}
	for _, child := range n.Children {
		if found := child.FindFirst(kind); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every node of the given kind in document order.
func (n *Node) FindAll(kind Kind) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	if n.Kind == kind {
		out = append(out, n)
	}
	for _, child := range n.Children {
		out = append(out, child.FindAll(kind)...)
	}
	return out
}

// PropString reads a string prop, empty when absent or mistyped.
func (n *Node) PropString(key string) string {
	if n.Props == nil {
		return ""
	}
	s, _ := n.Props[key].(string)
	return s
}

// PropInt reads a numeric prop. JSON numbers arrive as float64.
func (n *Node) PropInt(key string, def int) int {
	if n.Props == nil {
		return def
	}
	switch v := n.Props[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return def
	}
}

// PropBool reads a boolean prop, false when absent.
func (n *Node) PropBool(key string) bool {
	if n.Props == nil {
		return false
	}
	b, _ := n.Props[key].(bool)
	return b
}

// PropMap reads a nested object prop.
func (n *Node) PropMap(key string) map[string]any {
	if n.Props == nil {
		return nil
	}
	m, _ := n.Props[key].(map[string]any)
	return m
}

// PropSlice reads an array prop.
func (n *Node) PropSlice(key string) []any {
	if n.Props == nil {
		return nil
	}
	s, _ := n.Props[key].([]any)
	return s
}

// Fields decodes the props.fields list into field descriptors. Table, form
// and detail nodes carry their field list this way.
func (n *Node) Fields() []models.FieldDescriptor {
	raw, ok := n.Props["fields"]
	if !ok {
		return nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil
	}
	var fields []models.FieldDescriptor
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil
	}
	return fields
}

// ShowsMetadataColumns reports the node's metadata-column opt-in.
func (n *Node) ShowsMetadataColumns() bool {
	return n.PropBool("is_displaying_metadata_column")
}
