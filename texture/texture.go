// Package texture loads images into gfx textures charged against memory arenas.
package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"io/fs"

	_ "golang.org/x/image/bmp"

	"spritekit/alloc"
	"spritekit/gfx"
	"spritekit/hal"
)

var (
	ErrNoFilename = errors.New("texture: empty filename")
	ErrEmptyImage = errors.New("texture: empty image")
)

// Info describes a texture to load.
type Info struct {
	Filename string
	// Flip mirrors the image vertically so row 0 is the bottom of the picture.
	Flip bool
	// VRAM asks for placement in video memory. Placement falls back to RAM when
	// video memory is full.
	VRAM bool
}

// Loader is the texture subsystem: it decodes, places and destroys textures.
type Loader struct {
	fsys fs.FS
	ram  alloc.Allocator
	vram alloc.Allocator
	log  hal.Logger
}

type Option func(*Loader)

// WithVRAM sets the video memory pool used for Info.VRAM requests.
func WithVRAM(vram alloc.Allocator) Option {
	return func(l *Loader) { l.vram = vram }
}

func WithLogger(log hal.Logger) Option {
	return func(l *Loader) { l.log = log }
}

// NewLoader reads files from fsys and charges pixel memory to ram.
func NewLoader(fsys fs.FS, ram alloc.Allocator, opts ...Option) *Loader {
	l := &Loader{fsys: fsys, ram: ram}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load decodes info.Filename (PNG or BMP) into a new texture.
func (l *Loader) Load(info Info) (*gfx.Texture, error) {
	if info.Filename == "" {
		return nil, ErrNoFilename
	}
	if l.fsys == nil {
		return nil, fmt.Errorf("texture: load %s: %w", info.Filename, fs.ErrNotExist)
	}
	data, err := fs.ReadFile(l.fsys, info.Filename)
	if err != nil {
		return nil, fmt.Errorf("texture: read %s: %w", info.Filename, err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", info.Filename, err)
	}
	tex, err := l.FromImage(img, info.Flip, info.VRAM)
	if err != nil {
		return nil, fmt.Errorf("texture: load %s: %w", info.Filename, err)
	}
	l.logf("texture: loaded %s %dx%d vram=%t", info.Filename, tex.Width, tex.Height, tex.VRAM)
	return tex, nil
}

// FromImage copies img into a new texture placed like Load would place it.
func (l *Loader) FromImage(img image.Image, flip, vram bool) (*gfx.Texture, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, ErrEmptyImage
	}
	handle, inVRAM, err := l.place(gfx.SizeBytes(w, h), vram)
	if err != nil {
		return nil, err
	}

	tex := gfx.NewTexture(w, h)
	tex.Handle = handle
	tex.VRAM = inVRAM
	for y := 0; y < h; y++ {
		dy := y
		if flip {
			dy = h - 1 - y
		}
		for x := 0; x < w; x++ {
			tex.Set(x, dy, gfx.FromColor(img.At(b.Min.X+x, b.Min.Y+y)))
		}
	}
	return tex, nil
}

func (l *Loader) place(size int, vram bool) (alloc.Handle, bool, error) {
	if vram && l.vram != nil {
		h, err := l.vram.Allocate(size)
		if err == nil {
			return h, true, nil
		}
		l.logf("texture: vram placement failed (%v), using ram", err)
	}
	if l.ram == nil {
		return 0, false, nil
	}
	h, err := l.ram.Allocate(size)
	if err != nil {
		return 0, false, err
	}
	return h, false, nil
}

// Destroy frees t's memory and empties it. Destroying a nil or empty texture is a no-op.
func (l *Loader) Destroy(t *gfx.Texture) {
	if t == nil {
		return
	}
	if t.Handle != 0 {
		pool := l.ram
		if t.VRAM {
			pool = l.vram
		}
		if pool != nil {
			pool.Free(t.Handle)
		}
	}
	*t = gfx.Texture{}
}

func (l *Loader) logf(format string, args ...any) {
	if l.log == nil {
		return
	}
	l.log.WriteLineString(fmt.Sprintf(format, args...))
}
