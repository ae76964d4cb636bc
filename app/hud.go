package app

import (
	"fmt"
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"

	"spritekit/gfx"
	"spritekit/hal"
	"spritekit/internal/buildinfo"
	"spritekit/sprite"
)

var (
	hudPanel = color.RGBA{R: 0x08, G: 0x08, B: 0x10, A: 0xff}
	hudText  = color.RGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff}
	hudHint  = color.RGBA{R: 0x88, G: 0x88, B: 0x88, A: 0xff}
	hudAlert = color.RGBA{R: 0xff, G: 0xdd, B: 0x66, A: 0xff}
)

const (
	hudLineHeight = 7
	hudMargin     = 2
	hudLines      = 4
	hudWidth      = 150
)

// hud draws status text straight into the framebuffer after the sprites.
type hud struct {
	d       *fbDisplay
	font    tinyfont.Fonter
	visible bool
}

func newHUD(fb hal.Framebuffer) *hud {
	return &hud{d: &fbDisplay{fb: fb}, font: &tinyfont.TomThumb, visible: true}
}

func (h *hud) draw(p *playground) {
	if !h.visible {
		return
	}
	stats := p.ctx.Stats()
	contact := hudText
	if p.contact != sprite.DirNone {
		contact = hudAlert
	}

	h.d.FillRectangle(0, 0, hudWidth, hudMargin*2+hudLines*hudLineHeight, hudPanel)
	h.line(0, hudText, "spritekit "+buildinfo.Short())
	h.line(1, hudText, fmt.Sprintf("ram %s  vram %s", usage(p.world.ram), usage(p.world.vram)))
	h.line(2, contact, fmt.Sprintf("draws %d  tris %d  contact %s", stats.DrawCalls, stats.Triangles, p.contact))
	h.line(3, hudHint, "arrows move  f1 hud  esc quit")
}

func (h *hud) line(n int16, c color.RGBA, s string) {
	// tinyfont positions text by its baseline.
	y := hudMargin + (n+1)*hudLineHeight - 1
	tinyfont.WriteLine(h.d, h.font, hudMargin, y, s, c)
}

// fbDisplay lets tinyfont draw into an RGB565 hal.Framebuffer.
type fbDisplay struct {
	fb hal.Framebuffer
}

var _ drivers.Displayer = (*fbDisplay)(nil)

func (d *fbDisplay) Size() (x, y int16) {
	return int16(d.fb.Width()), int16(d.fb.Height())
}

func (d *fbDisplay) SetPixel(x, y int16, c color.RGBA) {
	off, ok := d.offset(int(x), int(y))
	if !ok {
		return
	}
	pixel := gfx.RGB565(c.R, c.G, c.B)
	buf := d.fb.Buffer()
	buf[off] = byte(pixel)
	buf[off+1] = byte(pixel >> 8)
}

// Display is a no-op; the frame is presented once per step.
func (d *fbDisplay) Display() error { return nil }

func (d *fbDisplay) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	x0 := clamp(int(x), 0, d.fb.Width())
	y0 := clamp(int(y), 0, d.fb.Height())
	x1 := clamp(int(x)+int(width), 0, d.fb.Width())
	y1 := clamp(int(y)+int(height), 0, d.fb.Height())

	pixel := gfx.RGB565(c.R, c.G, c.B)
	lo, hi := byte(pixel), byte(pixel>>8)
	buf := d.fb.Buffer()
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			if off, ok := d.offset(px, py); ok {
				buf[off] = lo
				buf[off+1] = hi
			}
		}
	}
	return nil
}

func (d *fbDisplay) offset(x, y int) (int, bool) {
	if x < 0 || y < 0 || x >= d.fb.Width() || y >= d.fb.Height() {
		return 0, false
	}
	off := y*d.fb.StrideBytes() + x*2
	if off+1 >= len(d.fb.Buffer()) {
		return 0, false
	}
	return off, true
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
