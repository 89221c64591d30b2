package session

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/99designs/keyring"
)

const (
	serviceName  = "lazydash"
	passwordSalt = "lazydash-keyring-salt-v1"
)

// ErrTokenNotFound means no token is stored for the scope.
var ErrTokenNotFound = errors.New("token not found")

// TokenStore keeps bearer tokens in the OS keyring with a file fallback.
type TokenStore struct {
	ring          keyring.Keyring
	usingFallback bool
}

// NewTokenStore opens the platform keyring, falling back to an encrypted
// file under configDir when no native backend is available.
func NewTokenStore(configDir string) (*TokenStore, error) {
	backends := backendsForPlatform()

	ring, err := keyring.Open(keyring.Config{
		ServiceName:     serviceName,
		AllowedBackends: backends,
		FileDir:         filepath.Join(configDir, "keyring"),
		FilePasswordFunc: func(_ string) (string, error) {
			return deriveFilePassword()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}

	return &TokenStore{
		ring:          ring,
		usingFallback: fileBackendOnly(backends),
	}, nil
}

func backendsForPlatform() []keyring.BackendType {
	switch runtime.GOOS {
	case "darwin":
		return []keyring.BackendType{keyring.KeychainBackend, keyring.FileBackend}
	case "linux":
		return []keyring.BackendType{
			keyring.SecretServiceBackend,
			keyring.KWalletBackend,
			keyring.FileBackend,
		}
	case "windows":
		return []keyring.BackendType{keyring.WinCredBackend, keyring.FileBackend}
	default:
		return []keyring.BackendType{keyring.FileBackend}
	}
}

func fileBackendOnly(requested []keyring.BackendType) bool {
	if len(requested) == 1 && requested[0] == keyring.FileBackend {
		return true
	}
	for _, b := range keyring.AvailableBackends() {
		if b != keyring.FileBackend {
			return false
		}
	}
	return true
}

// IsUsingFallback reports whether tokens live in the file backend rather
// than a native OS keyring.
func (ts *TokenStore) IsUsingFallback() bool {
	return ts.usingFallback
}

// Save stores the token for a tenant/product pair.
func (ts *TokenStore) Save(tenantCode, productCode, token string) error {
	if token == "" {
		return nil
	}
	err := ts.ring.Set(keyring.Item{
		Key:         tokenKey(tenantCode, productCode),
		Data:        []byte(token),
		Label:       fmt.Sprintf("lazydash: %s/%s", tenantCode, productCode),
		Description: "Dashboard session token for lazydash",
	})
	if err != nil {
		return fmt.Errorf("failed to save token to keyring: %w", err)
	}
	return nil
}

// Get retrieves the token for a tenant/product pair.
func (ts *TokenStore) Get(tenantCode, productCode string) (string, error) {
	item, err := ts.ring.Get(tokenKey(tenantCode, productCode))
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", ErrTokenNotFound
		}
		return "", fmt.Errorf("failed to read token from keyring: %w", err)
	}
	return string(item.Data), nil
}

// Delete removes the token for a tenant/product pair.
func (ts *TokenStore) Delete(tenantCode, productCode string) error {
	err := ts.ring.Remove(tokenKey(tenantCode, productCode))
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("failed to delete token from keyring: %w", err)
	}
	return nil
}

func tokenKey(tenantCode, productCode string) string {
	return tenantCode + ":" + productCode
}

// deriveFilePassword generates a machine-specific password for the file
// backend, stable across restarts but different per machine.
func deriveFilePassword() (string, error) {
	machineID := readMachineID()

	username := os.Getenv("USER")
	if username == "" {
		username = os.Getenv("USERNAME")
	}
	if username == "" {
		username = fmt.Sprintf("uid-%d", os.Getuid())
	}

	hash := sha256.Sum256([]byte(machineID + username + passwordSalt))
	return base64.StdEncoding.EncodeToString(hash[:]), nil
}

func readMachineID() string {
	for _, path := range []string{"/etc/machine-id", "/var/lib/dbus/machine-id"} {
		if data, err := os.ReadFile(path); err == nil {
			return strings.TrimSpace(string(data))
		}
	}
	hostname, _ := os.Hostname()
	return hostname
}
