package gfx

import "image/color"

// Color is a packed 32-bit RGBA color laid out as 0xAABBGGRR, so the bytes read
// R, G, B, A in little-endian memory order.
type Color uint32

const (
	White       Color = 0xFFFFFFFF
	Black       Color = 0xFF000000
	Transparent Color = 0
)

func RGBA(r, g, b, a uint8) Color {
	return Color(uint32(r) | uint32(g)<<8 | uint32(b)<<16 | uint32(a)<<24)
}

func RGB(r, g, b uint8) Color { return RGBA(r, g, b, 0xFF) }

func (c Color) R() uint8 { return uint8(c) }
func (c Color) G() uint8 { return uint8(c >> 8) }
func (c Color) B() uint8 { return uint8(c >> 16) }
func (c Color) A() uint8 { return uint8(c >> 24) }

func (c Color) WithAlpha(a uint8) Color { return c&0x00FFFFFF | Color(a)<<24 }

// Modulate multiplies two colors channel by channel.
func (c Color) Modulate(o Color) Color {
	if o == White {
		return c
	}
	if c == White {
		return o
	}
	mul := func(a, b uint8) uint8 {
		return uint8((uint32(a) * uint32(b)) / 255)
	}
	return RGBA(mul(c.R(), o.R()), mul(c.G(), o.G()), mul(c.B(), o.B()), mul(c.A(), o.A()))
}

// NRGBA converts to a non-premultiplied image/color value.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R(), G: c.G(), B: c.B(), A: c.A()}
}

// FromColor packs any image/color value.
func FromColor(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGBA(n.R, n.G, n.B, n.A)
}
