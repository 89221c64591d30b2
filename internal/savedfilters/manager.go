// Package savedfilters persists named filter sets per view target so a
// useful filter tree can be recalled instead of rebuilt.
package savedfilters

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/lazydash/lazydash/internal/filter"
)

// SavedFilter is one named filter set, stored as its wire JSON.
type SavedFilter struct {
	ID         string    `yaml:"id"`
	Name       string    `yaml:"name"`
	Target     string    `yaml:"target"`
	FilterJSON string    `yaml:"filter_json"`
	CreatedAt  time.Time `yaml:"created_at"`
	UpdatedAt  time.Time `yaml:"updated_at"`
	UsageCount int       `yaml:"usage_count"`
	LastUsed   time.Time `yaml:"last_used"`
}

// Set decodes the stored filter JSON back into a live set.
func (sf SavedFilter) Set() (*filter.Set, error) {
	return filter.Parse([]byte(sf.FilterJSON))
}

// Manager manages saved filters
type Manager struct {
	path    string
	filters []SavedFilter
}

// NewManager creates a new saved filter manager
func NewManager(configDir string) (*Manager, error) {
	path := filepath.Join(configDir, "saved_filters.yaml")

	m := &Manager{
		path:    path,
		filters: []SavedFilter{},
	}

	// Load existing filters if file exists
	if _, err := os.Stat(path); err == nil {
		if err := m.Load(); err != nil {
			return nil, fmt.Errorf("failed to load saved filters: %w", err)
		}
	}

	return m, nil
}

// Load loads saved filters from YAML file
func (m *Manager) Load() error {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return fmt.Errorf("failed to read saved filters file: %w", err)
	}

	if err := yaml.Unmarshal(data, &m.filters); err != nil {
		return fmt.Errorf("failed to parse saved filters: %w", err)
	}

	return nil
}

// Save saves filters to YAML file
func (m *Manager) Save() error {
	data, err := yaml.Marshal(m.filters)
	if err != nil {
		return fmt.Errorf("failed to marshal saved filters: %w", err)
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(m.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write saved filters file: %w", err)
	}

	return nil
}

// Add stores the set under a name for a target. Names are unique per target,
// case-insensitively.
func (m *Manager) Add(name, target string, set *filter.Set) (*SavedFilter, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("saved filter name cannot be empty")
	}
	if set == nil || set.IsEmpty() {
		return nil, fmt.Errorf("saved filter cannot be empty")
	}

	for _, sf := range m.filters {
		if sf.Target == target && strings.EqualFold(sf.Name, name) {
			return nil, fmt.Errorf("a saved filter named '%s' already exists for this view (names are case-insensitive)", name)
		}
	}

	encoded, err := set.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to encode filter: %w", err)
	}

	saved := SavedFilter{
		ID:         uuid.New().String(),
		Name:       name,
		Target:     target,
		FilterJSON: string(encoded),
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	m.filters = append(m.filters, saved)

	if err := m.Save(); err != nil {
		return nil, fmt.Errorf("failed to save filter: %w", err)
	}

	return &saved, nil
}

// Update replaces the name and contents of a saved filter.
func (m *Manager) Update(id, name string, set *filter.Set) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("saved filter name cannot be empty")
	}
	if set == nil || set.IsEmpty() {
		return fmt.Errorf("saved filter cannot be empty")
	}

	for i, sf := range m.filters {
		if sf.ID != id {
			continue
		}
		for _, other := range m.filters {
			if other.ID != id && other.Target == sf.Target && strings.EqualFold(other.Name, name) {
				return fmt.Errorf("a saved filter named '%s' already exists for this view (names are case-insensitive)", name)
			}
		}
		encoded, err := set.MarshalJSON()
		if err != nil {
			return fmt.Errorf("failed to encode filter: %w", err)
		}
		m.filters[i].Name = name
		m.filters[i].FilterJSON = string(encoded)
		m.filters[i].UpdatedAt = time.Now()
		if err := m.Save(); err != nil {
			return fmt.Errorf("failed to save filter: %w", err)
		}
		return nil
	}
	return fmt.Errorf("saved filter with ID '%s' was not found", id)
}

// Delete deletes a saved filter by ID
func (m *Manager) Delete(id string) error {
	for i, sf := range m.filters {
		if sf.ID == id {
			m.filters = append(m.filters[:i], m.filters[i+1:]...)
			if err := m.Save(); err != nil {
				return fmt.Errorf("failed to save filters after deletion: %w", err)
			}
			return nil
		}
	}
	return fmt.Errorf("saved filter with ID '%s' was not found", id)
}

// Get returns a saved filter by ID
func (m *Manager) Get(id string) (*SavedFilter, error) {
	for _, sf := range m.filters {
		if sf.ID == id {
			return &sf, nil
		}
	}
	return nil, fmt.Errorf("saved filter with ID '%s' was not found", id)
}

// GetForTarget returns the filters saved for one view target, newest first.
func (m *Manager) GetForTarget(target string) []SavedFilter {
	var results []SavedFilter
	for _, sf := range m.filters {
		if sf.Target == target {
			results = append(results, sf)
		}
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].UpdatedAt.After(results[j].UpdatedAt)
	})
	return results
}

// GetAll returns all saved filters
func (m *Manager) GetAll() []SavedFilter {
	return m.filters
}

// RecordUsage updates usage statistics for a saved filter
func (m *Manager) RecordUsage(id string) error {
	for i, sf := range m.filters {
		if sf.ID == id {
			m.filters[i].UsageCount++
			m.filters[i].LastUsed = time.Now()
			if err := m.Save(); err != nil {
				return fmt.Errorf("failed to save usage statistics: %w", err)
			}
			return nil
		}
	}
	return fmt.Errorf("saved filter with ID '%s' was not found", id)
}

// GetMostUsed returns the most frequently used saved filters
func (m *Manager) GetMostUsed(limit int) []SavedFilter {
	sorted := make([]SavedFilter, len(m.filters))
	copy(sorted, m.filters)

	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].UsageCount > sorted[j].UsageCount
	})

	if limit > 0 && limit < len(sorted) {
		sorted = sorted[:limit]
	}

	return sorted
}
