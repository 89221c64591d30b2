package filter

import "sort"

// Store owns one Set per target. It replaces ambient cross-component filter
// state: the page owns a Store and passes it to whichever controls publish or
// subscribe to a target, so the dependency is visible at construction time.
// Targets follow the objectCode__viewContentCode convention (Scope.Target).
//
// All access happens on the UI event loop; no locking.
type Store struct {
	sets map[string]*Set
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{sets: map[string]*Set{}}
}

// Get returns the Set for a target, creating an empty one on first use.
func (st *Store) Get(target string) *Set {
	if set, ok := st.sets[target]; ok {
		return set
	}
	set := NewSet()
	st.sets[target] = set
	return set
}

// Put replaces the Set for a target, for restoring a saved filter.
func (st *Store) Put(target string, set *Set) {
	if set == nil {
		delete(st.sets, target)
		return
	}
	st.sets[target] = set
}

// Reset drops the Set for a target.
func (st *Store) Reset(target string) {
	delete(st.sets, target)
}

// Targets lists targets holding a non-empty Set, sorted for determinism.
func (st *Store) Targets() []string {
	var targets []string
	for target, set := range st.sets {
		if !set.IsEmpty() {
			targets = append(targets, target)
		}
	}
	sort.Strings(targets)
	return targets
}
