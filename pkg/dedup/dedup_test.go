package dedup

import (
	"fmt"
	"testing"
	"time"
)

// notifyKey builds keys the way the shell does for desktop notifications.
func notifyKey(title, message string) string {
	return title + "|" + message
}

func TestNew(t *testing.T) {
	m := New(5*time.Second, 1*time.Hour, 100)
	if m == nil {
		t.Fatal("New returned nil")
	}
	if m.window != 5*time.Second {
		t.Errorf("window = %v, want %v", m.window, 5*time.Second)
	}
	if m.cleanupAge != 1*time.Hour {
		t.Errorf("cleanupAge = %v, want %v", m.cleanupAge, 1*time.Hour)
	}
	if m.maxSize != 100 {
		t.Errorf("maxSize = %d, want 100", m.maxSize)
	}
	if m.Size() != 0 {
		t.Errorf("initial Size() = %d, want 0", m.Size())
	}
}

func TestManager_ShouldProcess(t *testing.T) {
	m := New(100*time.Millisecond, 1*time.Hour, 100)
	now := time.Now()
	key := notifyKey("Companion", "Push notifications are connected on this device")

	// First notification goes through.
	if !m.ShouldProcess(key, now) {
		t.Error("First notification should be processed")
	}
	if m.Size() != 1 {
		t.Errorf("Size after first notification = %d, want 1", m.Size())
	}

	// Identical title|message within the window is suppressed.
	if m.ShouldProcess(key, now.Add(50*time.Millisecond)) {
		t.Error("Duplicate notification within dedup window should be suppressed")
	}

	// After the window it fires again.
	if !m.ShouldProcess(key, now.Add(150*time.Millisecond)) {
		t.Error("Notification after dedup window should be processed")
	}
}

func TestManager_KeyIncludesMessage(t *testing.T) {
	m := New(time.Second, 1*time.Hour, 100)
	now := time.Now()

	if !m.ShouldProcess(notifyKey("Companion", "token connected"), now) {
		t.Error("First notification should be processed")
	}
	// Same title, different body: a distinct notification, never deduped
	// against the first.
	if !m.ShouldProcess(notifyKey("Companion", "token rotated"), now) {
		t.Error("Same title with different message should be processed")
	}
	if m.Size() != 2 {
		t.Errorf("Size = %d, want 2 distinct keys", m.Size())
	}
}

func TestManager_Cleanup(t *testing.T) {
	m := New(5*time.Second, 1*time.Minute, 10)
	now := time.Now()

	// Fill beyond max with stale notifications.
	for i := 0; i < 15; i++ {
		key := notifyKey("Companion", fmt.Sprintf("stale event %d", i))
		m.ShouldProcess(key, now.Add(-2*time.Minute))
	}

	// A fresh notification triggers cleanup of the stale entries.
	m.ShouldProcess(notifyKey("Companion", "fresh event"), now)

	if sz := m.Size(); sz > 11 {
		t.Errorf("Size after cleanup = %d, expected cleanup to reduce it", sz)
	}
}

func TestManager_MultipleNotifications(t *testing.T) {
	m := New(200*time.Millisecond, 1*time.Hour, 100)
	now := time.Now()

	keys := []string{
		notifyKey("Companion", "push connected"),
		notifyKey("Companion", "bridge error, check logs"),
		notifyKey("Reminder", "meeting in five minutes"),
	}

	for _, key := range keys {
		if !m.ShouldProcess(key, now) {
			t.Errorf("Initial notification %q should be processed", key)
		}
	}
	if m.Size() != 3 {
		t.Errorf("Size = %d, want 3", m.Size())
	}

	for _, key := range keys {
		if m.ShouldProcess(key, now.Add(100*time.Millisecond)) {
			t.Errorf("Duplicate notification %q should be suppressed", key)
		}
	}

	for _, key := range keys {
		if !m.ShouldProcess(key, now.Add(250*time.Millisecond)) {
			t.Errorf("Notification %q after window should be processed", key)
		}
	}
}

func TestManager_ExactWindowBoundary(t *testing.T) {
	m := New(100*time.Millisecond, 1*time.Hour, 100)
	now := time.Now()
	key := notifyKey("Companion", "boundary check")

	m.ShouldProcess(key, now)

	// Strictly inside the window is suppressed (< not <=).
	if m.ShouldProcess(key, now.Add(99*time.Millisecond)) {
		t.Error("Notification just before window end should be suppressed")
	}
	if !m.ShouldProcess(key, now.Add(100*time.Millisecond)) {
		t.Error("Notification at window boundary should be processed")
	}
}
