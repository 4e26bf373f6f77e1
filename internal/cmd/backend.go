package cmd

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/salmonumbrella/envkeep/internal/config"
	"github.com/salmonumbrella/envkeep/internal/errors"
	"github.com/salmonumbrella/envkeep/internal/store"
)

// resolveBackend picks the durable-store backend from the flag, then the
// config file, then the platform default.
func resolveBackend(cfg *config.Config, flag string) string {
	if b := strings.ToLower(strings.TrimSpace(flag)); b != "" {
		return b
	}
	if b := strings.ToLower(strings.TrimSpace(cfg.Backend)); b != "" {
		return b
	}
	if runtime.GOOS == "windows" {
		return "powershell"
	}
	return "keyring"
}

func openStore(cfg *config.Config, backendFlag string) (store.Store, error) {
	switch backend := resolveBackend(cfg, backendFlag); backend {
	case "keyring":
		st, err := store.NewKeyring(store.KeyringOptions{
			Dir:      cfg.Keyring.Dir,
			Password: cfg.KeyringPassword(),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open keyring: %w", err)
		}
		return st, nil
	case "powershell":
		return store.NewPowerShell(), nil
	default:
		return nil, errors.NewUserError(
			fmt.Sprintf("unknown backend %q", backend),
			"Use one of: keyring, powershell",
		)
	}
}
