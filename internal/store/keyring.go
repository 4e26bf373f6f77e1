package store

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/99designs/keyring"
)

const (
	// ServiceName is the keyring service name for envkeep.
	ServiceName = "envkeep"
	// CredentialsDirEnvVarName controls the credential storage root directory.
	// envkeep keyring files are stored under: <dir>/envkeep/keyring
	CredentialsDirEnvVarName = "ENVKEEP_CREDENTIALS_DIR"
	// KeyringPasswordEnvVarName sets the file keyring passphrase for
	// non-interactive setups.
	KeyringPasswordEnvVarName = "ENVKEEP_KEYRING_PASSWORD"
	// DBUSSessionAddressEnvVarName is used to detect Linux headless mode.
	DBUSSessionAddressEnvVarName = "DBUS_SESSION_BUS_ADDRESS"
)

// keyringProvider is the subset of keyring operations the store needs.
// It exists so tests can swap in an in-memory ring.
type keyringProvider interface {
	Get(key string) (keyring.Item, error)
	Set(item keyring.Item) error
}

// Keyring persists token values in the OS keychain, falling back to an
// encrypted file ring in headless environments.
type Keyring struct {
	ring keyringProvider
}

// KeyringOptions overrides keyring placement and unlocking. Zero values
// fall back to environment variables and platform defaults.
type KeyringOptions struct {
	// Dir is the root directory for the file-backed ring.
	Dir string
	// Password unlocks the file-backed ring.
	Password string
}

func keyringFileDir(opts KeyringOptions) string {
	if dir := strings.TrimSpace(opts.Dir); dir != "" {
		return filepath.Join(dir, ServiceName, "keyring")
	}
	if dir := strings.TrimSpace(os.Getenv(CredentialsDirEnvVarName)); dir != "" {
		return filepath.Join(dir, ServiceName, "keyring")
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = os.Getenv("HOME")
	}

	configDir = strings.TrimSpace(configDir)
	if configDir == "" {
		return string(os.PathSeparator) + filepath.Join(ServiceName, "keyring")
	}
	return filepath.Join(configDir, ServiceName, "keyring")
}

func keyringFilePassword(opts KeyringOptions) string {
	if password := opts.Password; password != "" {
		return password
	}
	if password := strings.TrimSpace(os.Getenv(KeyringPasswordEnvVarName)); password != "" {
		return password
	}
	return ServiceName
}

func shouldForceFileBackend(goos string, dbusAddr string) bool {
	return goos == "linux" && strings.TrimSpace(dbusAddr) == ""
}

// NewKeyring opens the OS keyring backend.
func NewKeyring(opts KeyringOptions) (*Keyring, error) {
	cfg := keyring.Config{
		ServiceName:                    ServiceName,
		KeychainTrustApplication:       true,
		KeychainSynchronizable:         false,
		KeychainAccessibleWhenUnlocked: true,
		// File-based fallback for environments without a GUI keyring.
		FileDir:          keyringFileDir(opts),
		FilePasswordFunc: func(_ string) (string, error) { return keyringFilePassword(opts), nil },
	}

	if shouldForceFileBackend(runtime.GOOS, os.Getenv(DBUSSessionAddressEnvVarName)) {
		cfg.AllowedBackends = []keyring.BackendType{keyring.FileBackend}
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}
	return &Keyring{ring: ring}, nil
}

// Read returns the durable value for name, or "" when unset.
func (k *Keyring) Read(name string) (string, error) {
	if err := ValidName(name); err != nil {
		return "", err
	}
	item, err := k.ring.Get(name)
	if err == keyring.ErrKeyNotFound {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s from keyring: %w", name, err)
	}
	return string(item.Data), nil
}

// Write sets the durable value for name.
func (k *Keyring) Write(name, value string) error {
	if err := ValidName(name); err != nil {
		return err
	}
	err := k.ring.Set(keyring.Item{
		Key:   name,
		Label: ServiceName + " " + name,
		Data:  []byte(value),
	})
	if err != nil {
		return fmt.Errorf("failed to write %s to keyring: %w", name, err)
	}
	return nil
}
