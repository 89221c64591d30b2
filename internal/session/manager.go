// Package session persists the login session: the bearer token in the OS
// keyring, the user profile alongside it in a YAML file.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lazydash/lazydash/internal/models"
)

type profile struct {
	TenantCode  string      `yaml:"tenant_code"`
	ProductCode string      `yaml:"product_code"`
	User        models.User `yaml:"user"`
	SavedAt     time.Time   `yaml:"saved_at"`
}

// Manager loads and saves sessions for one tenant/product pair.
type Manager struct {
	path   string
	tokens *TokenStore

	tenantCode  string
	productCode string
}

// NewManager creates a session manager rooted at configDir.
func NewManager(configDir, tenantCode, productCode string) (*Manager, error) {
	tokens, err := NewTokenStore(configDir)
	if err != nil {
		return nil, err
	}
	return &Manager{
		path:        filepath.Join(configDir, "session.yaml"),
		tokens:      tokens,
		tenantCode:  tenantCode,
		productCode: productCode,
	}, nil
}

// Save persists a session after a successful login.
func (m *Manager) Save(s *models.Session) error {
	if err := m.tokens.Save(m.tenantCode, m.productCode, s.Token); err != nil {
		return err
	}

	data, err := yaml.Marshal(profile{
		TenantCode:  m.tenantCode,
		ProductCode: m.productCode,
		User:        s.User,
		SavedAt:     time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal session profile: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(m.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session profile: %w", err)
	}
	return nil
}

// Load restores the stored session. A missing token or profile yields a nil
// session, not an error.
func (m *Manager) Load() (*models.Session, error) {
	token, err := m.tokens.Get(m.tenantCode, m.productCode)
	if err != nil {
		if err == ErrTokenNotFound {
			return nil, nil
		}
		return nil, err
	}

	session := &models.Session{Token: token}

	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return session, nil
		}
		return nil, fmt.Errorf("failed to read session profile: %w", err)
	}

	var p profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse session profile: %w", err)
	}
	if p.TenantCode == m.tenantCode && p.ProductCode == m.productCode {
		session.User = p.User
	}
	return session, nil
}

// Token returns the stored token, empty when logged out. Suitable for the
// API client's token hook.
func (m *Manager) Token() string {
	token, err := m.tokens.Get(m.tenantCode, m.productCode)
	if err != nil {
		return ""
	}
	return token
}

// Clear drops the token and profile, logging the user out.
func (m *Manager) Clear() error {
	if err := m.tokens.Delete(m.tenantCode, m.productCode); err != nil {
		return err
	}
	if err := os.Remove(m.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session profile: %w", err)
	}
	return nil
}
