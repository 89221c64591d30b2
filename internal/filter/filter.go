package filter

import (
	"errors"

	"github.com/lazydash/lazydash/internal/models"
)

// Operator is a leaf comparison operator, in the backend's wire vocabulary.
type Operator string

const (
	OpEqual            Operator = "equal"
	OpContains         Operator = "contains"
	OpGreaterThan      Operator = "greater_than"
	OpGreaterThanEqual Operator = "greater_than_equal"
	OpLessThan         Operator = "less_than"
	OpLessThanEqual    Operator = "less_than_equal"
	OpEmpty            Operator = "empty"
	OpNotEmpty         Operator = "not_empty"
)

// Operators returns every supported operator.
func Operators() []Operator {
	return []Operator{
		OpEqual, OpContains,
		OpGreaterThan, OpGreaterThanEqual,
		OpLessThan, OpLessThanEqual,
		OpEmpty, OpNotEmpty,
	}
}

// IsValid checks if the operator is one of the closed set.
func (op Operator) IsValid() bool {
	switch op {
	case OpEqual, OpContains, OpGreaterThan, OpGreaterThanEqual,
		OpLessThan, OpLessThanEqual, OpEmpty, OpNotEmpty:
		return true
	}
	return false
}

// NeedsValue reports whether the operator compares against a value. empty and
// not_empty are presence checks.
func (op Operator) NeedsValue() bool {
	return op != OpEmpty && op != OpNotEmpty
}

// OperatorsForType returns the operators offered in the builder for a field's
// declared data type. The wire contract accepts any operator for any type
// (validation is delegated to the backend); this only shapes the UI choices.
func OperatorsForType(dataType models.DataType) []Operator {
	switch dataType {
	case models.TypeNumber:
		return []Operator{
			OpEqual,
			OpGreaterThan, OpGreaterThanEqual,
			OpLessThan, OpLessThanEqual,
			OpEmpty, OpNotEmpty,
		}
	case models.TypeDate, models.TypeDateTime, models.TypeTimestamptz:
		return []Operator{
			OpEqual,
			OpGreaterThan, OpGreaterThanEqual,
			OpLessThan, OpLessThanEqual,
			OpEmpty, OpNotEmpty,
		}
	case models.TypeBool:
		return []Operator{OpEqual, OpEmpty, OpNotEmpty}
	case models.TypeText:
		return []Operator{OpEqual, OpContains, OpEmpty, OpNotEmpty}
	default:
		return Operators()
	}
}

// Logic combines a group's children.
type Logic string

const (
	LogicAnd Logic = "AND"
	LogicOr  Logic = "OR"
)

// IsValid checks if the logic value is AND or OR.
func (l Logic) IsValid() bool {
	return l == LogicAnd || l == LogicOr
}

// Mutation errors. Callers receive these instead of the silent no-ops the
// wire contract's permissiveness would otherwise invite.
var (
	ErrDuplicateField = errors.New("filter: field already present in group")
	ErrUnknownField   = errors.New("filter: field not in the object's field list")
	ErrPathNotFound   = errors.New("filter: path does not resolve to a node")
	ErrTypeMismatch   = errors.New("filter: node at path has the wrong kind")
	ErrEmptyField     = errors.New("filter: empty field code")
	ErrInvalidValue   = errors.New("filter: invalid operator or logic value")
)

// Node is either a Leaf or a Group.
type Node interface {
	isNode()
}

// Leaf is a single field constraint.
type Leaf struct {
	Value    string   `json:"value"`
	Operator Operator `json:"operator"`
}

func (*Leaf) isNode() {}

// Group combines children under AND/OR. Children are keyed by field code, or
// by a synthetic group_N key for nested groups; insertion order is preserved
// for deterministic listing and serialization.
type Group struct {
	Logic Logic

	items map[string]Node
	keys  []string
}

func (*Group) isNode() {}

// NewGroup creates an empty AND group.
func NewGroup() *Group {
	return &Group{Logic: LogicAnd, items: map[string]Node{}}
}

// Len returns the number of direct children.
func (g *Group) Len() int {
	return len(g.keys)
}

// Keys returns the child keys in insertion order.
func (g *Group) Keys() []string {
	out := make([]string, len(g.keys))
	copy(out, g.keys)
	return out
}

// Get returns the child stored at key.
func (g *Group) Get(key string) (Node, bool) {
	n, ok := g.items[key]
	return n, ok
}

// Has reports whether the key is used in this group.
func (g *Group) Has(key string) bool {
	_, ok := g.items[key]
	return ok
}

func (g *Group) insert(key string, n Node) {
	if g.items == nil {
		g.items = map[string]Node{}
	}
	if _, exists := g.items[key]; !exists {
		g.keys = append(g.keys, key)
	}
	g.items[key] = n
}

func (g *Group) remove(key string) bool {
	if _, ok := g.items[key]; !ok {
		return false
	}
	delete(g.items, key)
	for i, k := range g.keys {
		if k == key {
			g.keys = append(g.keys[:i], g.keys[i+1:]...)
			break
		}
	}
	return true
}

// nextGroupKey generates a fresh synthetic key by linear scan from group_1
// upward, skipping occupied indices.
func (g *Group) nextGroupKey() string {
	for i := 1; ; i++ {
		key := groupKey(i)
		if !g.Has(key) {
			return key
		}
	}
}
