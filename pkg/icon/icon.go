// Package icon renders system tray icons for the Companion shell.
//
// Tray titles are text-only on macOS; Linux and Windows trays want a real
// bitmap. Icons are drawn as a colored circle carrying the app glyph, with
// an unread count replacing the glyph when notifications are pending.
// Generated icons are 48×48 pixels for crisp display on KDE and GNOME.
package icon

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"strconv"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Size is the standard system tray icon size (48×48 for KDE/GNOME).
const Size = 48

// State describes which base color the icon is drawn in.
type State int

const (
	StateIdle      State = iota // no native push bridge, or nothing pending
	StateConnected              // push token held, bridge live
	StateError                  // plugin round-trips failing
)

// Color scheme per state.
var (
	slate = color.RGBA{73, 80, 87, 255}    // idle
	green = color.RGBA{40, 167, 69, 255}   // connected
	amber = color.RGBA{255, 160, 0, 255}   // error
	white = color.RGBA{255, 255, 255, 255} // glyph/text
)

// Render draws the tray icon for a state and a pending-notification count.
// With a zero count the circle carries the "C" glyph; otherwise the count
// (capped at "9+" style display) replaces it.
func Render(state State, unread int) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, Size, Size))

	fill := slate
	switch state {
	case StateConnected:
		fill = green
	case StateError:
		fill = amber
	case StateIdle:
	}

	text := "C"
	if unread > 0 {
		text = format(unread)
	}
	drawCircle(img, fill, text)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// drawCircle renders a large filled circle with bold centered text.
func drawCircle(img *image.RGBA, fill color.RGBA, text string) {
	radius := float64(Size) / 2
	cx := radius
	cy := radius

	for py := 0; py < Size; py++ {
		for px := 0; px < Size; px++ {
			dx := float64(px) - cx + 0.5
			dy := float64(py) - cy + 0.5
			if math.Sqrt(dx*dx+dy*dy) <= radius {
				img.Set(px, py, fill)
			}
		}
	}

	drawBoldText(img, text, Size/2, Size/2)
}

// drawBoldText renders large centered text using Go's monospace bold font.
func drawBoldText(img *image.RGBA, text string, centerX, centerY int) {
	face, err := opentype.Parse(gomonobold.TTF)
	if err != nil {
		return // colored circle without text is still a usable icon
	}

	fontFace, err := opentype.NewFace(face, &opentype.FaceOptions{
		Size: 32.0,
		DPI:  72,
	})
	if err != nil {
		return
	}
	defer fontFace.Close() //nolint:errcheck // Close error is not critical for rendering

	bounds, advance := font.BoundString(fontFace, text)
	textWidth := advance.Ceil()

	// Baseline position that centers the glyph box vertically.
	visualCenter := (bounds.Max.Y + bounds.Min.Y) / 2
	baselineY := fixed.I(centerY) - visualCenter
	x := fixed.I(centerX - textWidth/2)

	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(white),
		Face: fontFace,
		Dot:  fixed.Point26_6{X: x, Y: baselineY},
	}
	drawer.DrawString(text)
}

// format converts a count to display text.
// Shows single digits 1-9, or "+" for 10 or more.
func format(n int) string {
	if n > 9 {
		return "+"
	}
	return strconv.Itoa(n)
}

// Cache stores generated icons to avoid redundant rendering.
type Cache struct {
	icons map[string][]byte
	mu    sync.RWMutex
}

// NewCache creates an icon cache.
func NewCache() *Cache {
	return &Cache{icons: make(map[string][]byte)}
}

// Lookup retrieves a cached icon or returns false if not found.
func (c *Cache) Lookup(state State, unread int) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	data, ok := c.icons[key(state, unread)]
	return data, ok
}

// Put stores an icon in the cache.
func (c *Cache) Put(state State, unread int, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Simple size limit
	if len(c.icons) > 100 {
		clear(c.icons)
	}

	c.icons[key(state, unread)] = data
}

func key(state State, unread int) string {
	return strconv.Itoa(int(state)) + ":" + strconv.Itoa(unread)
}
