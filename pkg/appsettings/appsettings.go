// Package appsettings persists user-facing shell settings as a JSON file
// under the platform config directory. Callers own the settings shape; the
// manager only handles the file.
package appsettings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Manager reads and writes one settings file for one application name.
type Manager struct {
	appName string
}

// NewManager creates a settings manager for the given application name.
func NewManager(appName string) *Manager {
	return &Manager{appName: appName}
}

// Path returns the settings file location, e.g.
// ~/.config/companion/settings.json on Linux.
func (m *Manager) Path() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get user config dir: %w", err)
	}
	return filepath.Join(configDir, m.appName, "settings.json"), nil
}

// Load reads the settings file into the provided struct. A missing file is
// a fresh install, not an error: Load returns found=false and leaves the
// struct's defaults untouched.
func (m *Manager) Load(settings any) (bool, error) {
	path, err := m.Path()
	if err != nil {
		return false, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read settings file: %w", err)
	}

	if err := json.Unmarshal(data, settings); err != nil {
		return false, fmt.Errorf("parse settings: %w", err)
	}

	return true, nil
}

// Save writes settings to disk, creating the config directory on first use.
// The file is user-readable only since it can carry a custom UI URL.
func (m *Manager) Save(settings any) error {
	path, err := m.Path()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}
