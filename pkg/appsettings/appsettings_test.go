package appsettings

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// shellSettings mirrors the shape the Companion shell persists.
type shellSettings struct {
	NotificationsEnabled bool   `json:"notifications_enabled"`
	UIURL                string `json:"ui_url,omitempty"`
	TokenIntervalSec     int    `json:"token_interval_sec,omitempty"`
}

func setConfigHome(t *testing.T) {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir) // Linux
	t.Setenv("HOME", tmpDir)            // macOS fallback
	t.Setenv("APPDATA", tmpDir)         // Windows
}

func TestNewManager(t *testing.T) {
	m := NewManager("companion")
	if m == nil {
		t.Fatal("NewManager returned nil")
	}
	if m.appName != "companion" {
		t.Errorf("appName = %q, want %q", m.appName, "companion")
	}
}

func TestPath(t *testing.T) {
	m := NewManager("companion")
	path, err := m.Path()
	if err != nil {
		t.Fatalf("Path() error = %v", err)
	}

	if !filepath.IsAbs(path) {
		t.Errorf("Path is not absolute: %q", path)
	}
	expectedSuffix := filepath.Join("companion", "settings.json")
	if !strings.HasSuffix(path, expectedSuffix) {
		t.Errorf("Path should end with %q, got %q", expectedSuffix, path)
	}
}

func TestSaveAndLoad(t *testing.T) {
	setConfigHome(t)
	m := NewManager("companion")

	original := shellSettings{
		NotificationsEnabled: true,
		UIURL:                "http://127.0.0.1:1420",
		TokenIntervalSec:     60,
	}
	if err := m.Save(&original); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	var loaded shellSettings
	found, err := m.Load(&loaded)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !found {
		t.Fatal("Load() returned found=false, expected true")
	}

	if loaded.NotificationsEnabled != original.NotificationsEnabled {
		t.Errorf("NotificationsEnabled = %v, want %v",
			loaded.NotificationsEnabled, original.NotificationsEnabled)
	}
	if loaded.UIURL != original.UIURL {
		t.Errorf("UIURL = %q, want %q", loaded.UIURL, original.UIURL)
	}
	if loaded.TokenIntervalSec != original.TokenIntervalSec {
		t.Errorf("TokenIntervalSec = %d, want %d",
			loaded.TokenIntervalSec, original.TokenIntervalSec)
	}
}

func TestLoad_FreshInstall(t *testing.T) {
	setConfigHome(t)
	m := NewManager("companion")

	// Defaults survive a missing file untouched.
	settings := shellSettings{NotificationsEnabled: true}
	found, err := m.Load(&settings)
	if err != nil {
		t.Errorf("Load() error = %v, want nil when no settings file exists", err)
	}
	if found {
		t.Error("Load() returned found=true with no settings file, want false")
	}
	if !settings.NotificationsEnabled {
		t.Error("Load() should not clobber defaults when no file exists")
	}
}

func TestLoad_CorruptedFile(t *testing.T) {
	setConfigHome(t)
	m := NewManager("companion")

	path, err := m.Path()
	if err != nil {
		t.Fatalf("Path() error = %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte("not valid json {{{"), 0o600); err != nil {
		t.Fatalf("Failed to write corrupted file: %v", err)
	}

	var settings shellSettings
	found, err := m.Load(&settings)
	if err == nil {
		t.Error("Load() should return error for corrupted file")
	}
	if found {
		t.Error("Load() returned found=true for corrupted file")
	}
}

func TestSave_CreateDirectory(t *testing.T) {
	setConfigHome(t)
	m := NewManager("companion")

	if err := m.Save(&shellSettings{NotificationsEnabled: true}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	path, err := m.Path()
	if err != nil {
		t.Fatalf("Path() error = %v", err)
	}
	if _, err := os.Stat(filepath.Dir(path)); os.IsNotExist(err) {
		t.Error("Config directory should have been created")
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("Settings file should have been created")
	}
}

func TestSave_Overwrite(t *testing.T) {
	setConfigHome(t)
	m := NewManager("companion")

	if err := m.Save(&shellSettings{NotificationsEnabled: true, UIURL: "http://first.local"}); err != nil {
		t.Fatalf("First Save() error = %v", err)
	}
	if err := m.Save(&shellSettings{NotificationsEnabled: false, UIURL: "http://second.local"}); err != nil {
		t.Fatalf("Second Save() error = %v", err)
	}

	var loaded shellSettings
	found, err := m.Load(&loaded)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !found {
		t.Fatal("Load() returned found=false")
	}
	if loaded.UIURL != "http://second.local" {
		t.Errorf("UIURL = %q, want the overwritten value", loaded.UIURL)
	}
	if loaded.NotificationsEnabled {
		t.Error("NotificationsEnabled should carry the overwritten value false")
	}
}

func TestSave_FilePermissions(t *testing.T) {
	setConfigHome(t)
	m := NewManager("companion")

	if err := m.Save(&shellSettings{UIURL: "http://127.0.0.1:1420"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	path, err := m.Path()
	if err != nil {
		t.Fatalf("Path() error = %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if mode := info.Mode(); mode.Perm() != 0o600 {
		t.Logf("Warning: File permissions are %o, expected 0o600", mode.Perm())
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	setConfigHome(t)
	m := NewManager("companion")

	path, err := m.Path()
	if err != nil {
		t.Fatalf("Path() error = %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatalf("Failed to write empty file: %v", err)
	}

	var settings shellSettings
	found, err := m.Load(&settings)
	if err == nil {
		t.Error("Load() should return error for empty file")
	}
	if found {
		t.Error("Load() returned found=true for empty file")
	}
}
