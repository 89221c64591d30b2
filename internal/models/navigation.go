package models

// NavigationConfig carries per-item presentation settings authored by the
// backend.
type NavigationConfig struct {
	Icon string `json:"icon,omitempty"`
}

// NavigationItem is one entry of the navigation menu document. The backend
// returns these pre-arranged as a tree.
type NavigationItem struct {
	Code             string            `json:"code"`
	Title            string            `json:"title"`
	URL              string            `json:"url"`
	Path             string            `json:"path"`
	NavigationOrder  int               `json:"navigation_order"`
	NavigationConfig NavigationConfig  `json:"navigation_config"`
	Children         []*NavigationItem `json:"children"`

	// UI state, not part of the wire document.
	Parent   *NavigationItem `json:"-"`
	Expanded bool            `json:"-"`
}

// Link parents after unmarshaling so upward traversal works.
func (n *NavigationItem) Link() {
	for _, child := range n.Children {
		child.Parent = n
		child.Link()
	}
}

// Link links parents across a freshly decoded navigation document.
func Link(items []*NavigationItem) {
	for _, item := range items {
		item.Link()
	}
}

// Toggle flips the expanded state of an item that has children.
func (n *NavigationItem) Toggle() {
	if len(n.Children) > 0 {
		n.Expanded = !n.Expanded
	}
}

// Flatten returns the items currently visible given the expansion state,
// depth-first. The receiver itself is included.
func (n *NavigationItem) Flatten() []*NavigationItem {
	result := []*NavigationItem{n}
	if !n.Expanded {
		return result
	}
	for _, child := range n.Children {
		result = append(result, child.Flatten()...)
	}
	return result
}

// FindByCode searches the subtree for an item by code.
func (n *NavigationItem) FindByCode(code string) *NavigationItem {
	if n.Code == code {
		return n
	}
	for _, child := range n.Children {
		if found := child.FindByCode(code); found != nil {
			return found
		}
	}
	return nil
}

// Depth returns how many ancestors the item has.
func (n *NavigationItem) Depth() int {
	depth := 0
	for current := n.Parent; current != nil; current = current.Parent {
		depth++
	}
	return depth
}

// FlattenNavigation flattens a forest of top-level items.
func FlattenNavigation(items []*NavigationItem) []*NavigationItem {
	var result []*NavigationItem
	for _, item := range items {
		result = append(result, item.Flatten()...)
	}
	return result
}
