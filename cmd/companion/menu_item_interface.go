package main

import "github.com/energye/systray"

// MenuItem is an interface for menu items that can be implemented by both
// real systray menu items and mock menu items for testing.
type MenuItem interface {
	Disable()
	Enable()
	Check()
	Uncheck()
	SetTitle(string)
	Click(func())
}

// RealMenuItem wraps a real systray.MenuItem to implement our MenuItem interface.
type RealMenuItem struct {
	*systray.MenuItem
}

// Ensure RealMenuItem implements MenuItem interface.
var _ MenuItem = (*RealMenuItem)(nil)

func (r *RealMenuItem) Disable() {
	r.MenuItem.Disable()
}

func (r *RealMenuItem) Enable() {
	r.MenuItem.Enable()
}

func (r *RealMenuItem) Check() {
	r.MenuItem.Check()
}

func (r *RealMenuItem) Uncheck() {
	r.MenuItem.Uncheck()
}

func (r *RealMenuItem) SetTitle(title string) {
	r.MenuItem.SetTitle(title)
}

func (r *RealMenuItem) Click(handler func()) {
	r.MenuItem.Click(handler)
}

// MockMenuItem implements MenuItem for testing.
type MockMenuItem struct {
	title    string
	tooltip  string
	checked  bool
	disabled bool
	handler  func()
}

var _ MenuItem = (*MockMenuItem)(nil)

func (m *MockMenuItem) Disable() { m.disabled = true }

func (m *MockMenuItem) Enable() { m.disabled = false }

func (m *MockMenuItem) Check() { m.checked = true }

func (m *MockMenuItem) Uncheck() { m.checked = false }

func (m *MockMenuItem) SetTitle(title string) { m.title = title }

func (m *MockMenuItem) Click(handler func()) { m.handler = handler }

// Trigger simulates a user click in tests.
func (m *MockMenuItem) Trigger() {
	if m.handler != nil {
		m.handler()
	}
}
