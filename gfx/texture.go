package gfx

import "spritekit/alloc"

// Texture is a decoded RGBA image that can be bound to a Context.
//
// Pix is row-major, Width*Height long. Row 0 is sampled at v=0.
type Texture struct {
	Width  int
	Height int
	Pix    []Color

	// Handle is the allocation backing Pix; zero for textures built with NewTexture.
	Handle alloc.Handle
	// VRAM reports whether Handle belongs to the video memory pool.
	VRAM bool
}

// NewTexture returns a fully transparent w×h texture, or nil for empty sizes.
func NewTexture(w, h int) *Texture {
	if w <= 0 || h <= 0 {
		return nil
	}
	return &Texture{Width: w, Height: h, Pix: make([]Color, w*h)}
}

// Valid reports whether the texture still holds pixel data.
func (t *Texture) Valid() bool {
	return t != nil && t.Width > 0 && t.Height > 0 && len(t.Pix) >= t.Width*t.Height
}

func (t *Texture) At(x, y int) Color {
	if !t.Valid() || x < 0 || y < 0 || x >= t.Width || y >= t.Height {
		return Transparent
	}
	return t.Pix[y*t.Width+x]
}

func (t *Texture) Set(x, y int, c Color) {
	if !t.Valid() || x < 0 || y < 0 || x >= t.Width || y >= t.Height {
		return
	}
	t.Pix[y*t.Width+x] = c
}

// Fill paints every texel with c.
func (t *Texture) Fill(c Color) {
	if !t.Valid() {
		return
	}
	for i := range t.Pix {
		t.Pix[i] = c
	}
}

// Sample returns the nearest texel for normalized coordinates, clamped to the edge.
func (t *Texture) Sample(u, v float32) Color {
	if !t.Valid() {
		return Transparent
	}
	x := int(u * float32(t.Width))
	y := int(v * float32(t.Height))
	if x < 0 {
		x = 0
	}
	if x >= t.Width {
		x = t.Width - 1
	}
	if y < 0 {
		y = 0
	}
	if y >= t.Height {
		y = t.Height - 1
	}
	return t.Pix[y*t.Width+x]
}

// SizeBytes is the memory a texture of w×h texels occupies.
func SizeBytes(w, h int) int { return w * h * 4 }
