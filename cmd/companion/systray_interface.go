package main

import (
	"github.com/energye/systray"
)

// SystrayInterface abstracts systray operations for testing.
type SystrayInterface interface {
	ResetMenu()
	AddMenuItem(title, tooltip string) MenuItem
	AddSeparator()
	SetTooltip(tooltip string)
	SetIcon(iconBytes []byte)
	SetOnClick(fn func(menu systray.IMenu))
	Quit()
}

// RealSystray implements SystrayInterface using the actual systray library.
type RealSystray struct{}

func (*RealSystray) ResetMenu() {
	systray.ResetMenu()
}

func (*RealSystray) AddMenuItem(title, tooltip string) MenuItem {
	item := systray.AddMenuItem(title, tooltip)
	return &RealMenuItem{MenuItem: item}
}

func (*RealSystray) AddSeparator() {
	systray.AddSeparator()
}

func (*RealSystray) SetTooltip(tooltip string) {
	systray.SetTooltip(tooltip)
}

func (*RealSystray) SetIcon(iconBytes []byte) {
	systray.SetIcon(iconBytes)
}

func (*RealSystray) SetOnClick(fn func(menu systray.IMenu)) {
	systray.SetOnClick(fn)
}

func (*RealSystray) Quit() {
	systray.Quit()
}

// MockSystray implements SystrayInterface for testing.
type MockSystray struct {
	tooltip   string
	menuItems []string
	icons     int
	resets    int
	quits     int
}

func (m *MockSystray) ResetMenu() {
	m.menuItems = nil
	m.resets++
}

func (m *MockSystray) AddMenuItem(title, tooltip string) MenuItem {
	m.menuItems = append(m.menuItems, title)
	return &MockMenuItem{title: title, tooltip: tooltip}
}

func (m *MockSystray) AddSeparator() {
	m.menuItems = append(m.menuItems, "---")
}

func (m *MockSystray) SetTooltip(tooltip string) {
	m.tooltip = tooltip
}

func (m *MockSystray) SetIcon(_ []byte) {
	m.icons++
}

func (*MockSystray) SetOnClick(_ func(menu systray.IMenu)) {
	// No-op for testing
}

func (m *MockSystray) Quit() {
	m.quits++
}
