package filter

import "fmt"

// Path addresses a node inside a Set as the sequence of keys from the root.
// An empty path addresses the root group itself.
type Path []string

// Child extends the path by one key.
func (p Path) Child(key string) Path {
	child := make(Path, 0, len(p)+1)
	child = append(child, p...)
	return append(child, key)
}

// Set is the filter expression for one query context: a single root group.
// A detail page's nested child tables each own an independent Set, looked up
// through a Store by target.
type Set struct {
	root *Group
}

// NewSet creates a Set holding an empty AND group.
func NewSet() *Set {
	return &Set{root: NewGroup()}
}

// Root exposes the root group for read-only traversal by renderers.
func (s *Set) Root() *Group {
	return s.root
}

// IsEmpty reports whether no constraints have been added.
func (s *Set) IsEmpty() bool {
	return s.root.Len() == 0
}

// groupAt resolves a path to the group it names. Every key on the path must
// resolve to a nested group.
func (s *Set) groupAt(path Path) (*Group, error) {
	current := s.root
	for _, key := range path {
		node, ok := current.Get(key)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrPathNotFound, key)
		}
		group, ok := node.(*Group)
		if !ok {
			return nil, fmt.Errorf("%w: %q is not a group", ErrTypeMismatch, key)
		}
		current = group
	}
	return current, nil
}

// nodeAt resolves a path to any node. The path must not be empty.
func (s *Set) nodeAt(path Path) (Node, error) {
	if len(path) == 0 {
		return nil, ErrPathNotFound
	}
	parent, err := s.groupAt(path[:len(path)-1])
	if err != nil {
		return nil, err
	}
	node, ok := parent.Get(path[len(path)-1])
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrPathNotFound, path[len(path)-1])
	}
	return node, nil
}

// AddField inserts an empty equal-constraint for fieldCode into the group at
// path. When known is non-nil the field must belong to it (the remaining
// fields precondition is the caller drawing from RemainingFields).
func (s *Set) AddField(path Path, fieldCode string, known []string) error {
	if fieldCode == "" {
		return ErrEmptyField
	}
	group, err := s.groupAt(path)
	if err != nil {
		return err
	}
	if group.Has(fieldCode) {
		return fmt.Errorf("%w: %q", ErrDuplicateField, fieldCode)
	}
	if known != nil && !contains(known, fieldCode) {
		return fmt.Errorf("%w: %q", ErrUnknownField, fieldCode)
	}
	group.insert(fieldCode, &Leaf{Value: "", Operator: OpEqual})
	return nil
}

// AddGroup inserts an empty AND group under the group at path, generating a
// fresh group_N key, and returns the key.
func (s *Set) AddGroup(path Path) (string, error) {
	group, err := s.groupAt(path)
	if err != nil {
		return "", err
	}
	key := group.nextGroupKey()
	group.insert(key, NewGroup())
	return key, nil
}

// LeafField selects which half of a leaf UpdateLeaf mutates.
type LeafField string

const (
	LeafValue    LeafField = "value"
	LeafOperator LeafField = "operator"
)

// UpdateLeaf mutates the value or operator of the leaf at path.
func (s *Set) UpdateLeaf(path Path, field LeafField, value string) error {
	node, err := s.nodeAt(path)
	if err != nil {
		return err
	}
	leaf, ok := node.(*Leaf)
	if !ok {
		return fmt.Errorf("%w: %q is a group", ErrTypeMismatch, path[len(path)-1])
	}
	switch field {
	case LeafValue:
		leaf.Value = value
	case LeafOperator:
		op := Operator(value)
		if !op.IsValid() {
			return fmt.Errorf("%w: operator %q", ErrInvalidValue, value)
		}
		leaf.Operator = op
	default:
		return fmt.Errorf("%w: leaf field %q", ErrInvalidValue, field)
	}
	return nil
}

// UpdateGroupOperator flips the AND/OR of the group at path, independent of
// its children's operators.
func (s *Set) UpdateGroupOperator(path Path, logic Logic) error {
	if !logic.IsValid() {
		return fmt.Errorf("%w: logic %q", ErrInvalidValue, logic)
	}
	group, err := s.groupAt(path)
	if err != nil {
		return err
	}
	group.Logic = logic
	return nil
}

// Delete removes the node at path (a leaf or a whole group subtree) from its
// parent.
func (s *Set) Delete(path Path) error {
	if len(path) == 0 {
		return ErrPathNotFound
	}
	parent, err := s.groupAt(path[:len(path)-1])
	if err != nil {
		return err
	}
	if !parent.remove(path[len(path)-1]) {
		return fmt.Errorf("%w: %q", ErrPathNotFound, path[len(path)-1])
	}
	return nil
}

// Leaf returns the value and operator of the leaf at path.
func (s *Set) Leaf(path Path) (string, Operator, error) {
	node, err := s.nodeAt(path)
	if err != nil {
		return "", "", err
	}
	leaf, ok := node.(*Leaf)
	if !ok {
		return "", "", fmt.Errorf("%w: %q is a group", ErrTypeMismatch, path[len(path)-1])
	}
	return leaf.Value, leaf.Operator, nil
}

// Clear resets the Set to an empty AND group.
func (s *Set) Clear() {
	s.root = NewGroup()
}

// RemainingFields returns the available field codes not yet used as keys in
// the group at path.
func (s *Set) RemainingFields(path Path, available []string) []string {
	group, err := s.groupAt(path)
	if err != nil {
		return nil
	}
	remaining := make([]string, 0, len(available))
	for _, code := range available {
		if !group.Has(code) {
			remaining = append(remaining, code)
		}
	}
	return remaining
}

// Leaves returns every leaf in the set with its path, depth-first in
// insertion order. Used by the builder UI to list editable rows.
func (s *Set) Leaves() []PathLeaf {
	var out []PathLeaf
	collectLeaves(s.root, nil, &out)
	return out
}

// PathLeaf pairs a leaf with its location.
type PathLeaf struct {
	Path Path
	Leaf *Leaf
}

func collectLeaves(g *Group, prefix Path, out *[]PathLeaf) {
	for _, key := range g.Keys() {
		node, _ := g.Get(key)
		switch n := node.(type) {
		case *Leaf:
			*out = append(*out, PathLeaf{Path: prefix.Child(key), Leaf: n})
		case *Group:
			collectLeaves(n, prefix.Child(key), out)
		}
	}
}

func groupKey(i int) string {
	return fmt.Sprintf("group_%d", i)
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
