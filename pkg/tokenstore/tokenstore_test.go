package tokenstore

import (
	"testing"

	"github.com/zalando/go-keyring"
)

func TestStoreRoundTrip(t *testing.T) {
	keyring.MockInit()
	store := NewForService("com.hexidecibel.companion.test")

	if _, ok, err := store.Load(); err != nil || ok {
		t.Fatalf("Load() on empty store = (ok=%v, err=%v), want (false, nil)", ok, err)
	}

	if err := store.Save("token-1"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	token, ok, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !ok || token != "token-1" {
		t.Errorf("Load() = (%q, %v), want (token-1, true)", token, ok)
	}

	// Saving again replaces the value.
	if err := store.Save("token-2"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	token, _, _ = store.Load()
	if token != "token-2" {
		t.Errorf("Load() after overwrite = %q, want token-2", token)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, ok, _ := store.Load(); ok {
		t.Error("Load() after Clear() still finds a token")
	}

	// Clearing twice is fine.
	if err := store.Clear(); err != nil {
		t.Errorf("second Clear() error = %v", err)
	}
}
