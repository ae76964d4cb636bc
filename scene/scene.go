package scene

import (
	"fmt"
	"image"
	"image/color"

	"spritekit/gfx"
	"spritekit/sprite"
	"spritekit/texture"
)

// Textures is the texture subsystem a scene is built with.
type Textures interface {
	Load(info texture.Info) (*gfx.Texture, error)
	FromImage(img image.Image, flip, vram bool) (*gfx.Texture, error)
	Destroy(t *gfx.Texture)
}

// Entity is a named sprite plus the playground behaviour attached to it.
type Entity struct {
	Name   string
	Sprite *sprite.Sprite
	Spin   float32
	Solid  bool
}

// Scene owns the sprites and shared textures built from a Config.
type Scene struct {
	Clear    gfx.Color
	Entities []*Entity
	Player   *Entity

	shared   map[string]*gfx.Texture
	textures Textures
}

// Build creates every texture and sprite in cfg. On failure everything created so
// far is destroyed.
func Build(cfg *Config, kit *sprite.Kit, textures Textures) (*Scene, error) {
	s := &Scene{
		Clear:    gfx.Black,
		shared:   make(map[string]*gfx.Texture, len(cfg.Textures)),
		textures: textures,
	}
	if cfg.Clear != "" {
		c, err := ParseColor(cfg.Clear)
		if err != nil {
			return nil, fmt.Errorf("scene: clear: %w", err)
		}
		s.Clear = c
	}

	for _, tc := range cfg.Textures {
		tex, err := s.loadShared(tc)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("scene: texture %q: %w", tc.Name, err)
		}
		s.shared[tc.Name] = tex
	}

	for _, sc := range cfg.Sprites {
		e, err := s.buildSprite(kit, sc)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("scene: sprite %q: %w", sc.Name, err)
		}
		s.Entities = append(s.Entities, e)
		if sc.Name == cfg.Player {
			s.Player = e
		}
	}
	return s, nil
}

func (s *Scene) loadShared(tc TextureConfig) (*gfx.Texture, error) {
	if tc.File != "" {
		return s.textures.Load(texture.Info{Filename: tc.File, Flip: tc.Flip, VRAM: tc.VRAM})
	}
	img, err := generate(tc)
	if err != nil {
		return nil, err
	}
	return s.textures.FromImage(img, tc.Flip, tc.VRAM)
}

func (s *Scene) buildSprite(kit *sprite.Kit, sc SpriteConfig) (*Entity, error) {
	x, y, w, h := sc.Rect[0], sc.Rect[1], sc.Rect[2], sc.Rect[3]

	var sp *sprite.Sprite
	var err error
	if sc.File != "" {
		sp, err = kit.CreateOwned(x, y, w, h, texture.Info{Filename: sc.File, Flip: sc.Flip, VRAM: sc.VRAM})
	} else {
		tex, ok := s.shared[sc.Texture]
		if !ok {
			return nil, fmt.Errorf("unknown texture %q", sc.Texture)
		}
		sp, err = kit.CreateFromRect(x, y, w, h, tex)
	}
	if err != nil {
		return nil, err
	}

	sp.Transform.Rotation = sc.Rotation
	sp.Layer = sc.Layer
	if sc.Color != "" {
		c, err := ParseColor(sc.Color)
		if err != nil {
			sp.Destroy()
			return nil, err
		}
		sp.Color = c
	}
	return &Entity{Name: sc.Name, Sprite: sp, Spin: sc.Spin, Solid: sc.Solid}, nil
}

// Sprites lists the scene's sprites in declaration order.
func (s *Scene) Sprites() []*sprite.Sprite {
	out := make([]*sprite.Sprite, 0, len(s.Entities))
	for _, e := range s.Entities {
		out = append(out, e.Sprite)
	}
	return out
}

// Lookup finds an entity by name.
func (s *Scene) Lookup(name string) *Entity {
	for _, e := range s.Entities {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// Close destroys the sprites, then the shared textures they borrowed.
func (s *Scene) Close() {
	if s == nil {
		return
	}
	for _, e := range s.Entities {
		e.Sprite.Destroy()
	}
	s.Entities = nil
	s.Player = nil
	for name, tex := range s.shared {
		s.textures.Destroy(tex)
		delete(s.shared, name)
	}
}

func generate(tc TextureConfig) (image.Image, error) {
	colors := make([]color.NRGBA, len(tc.Colors))
	for i, str := range tc.Colors {
		c, err := ParseColor(str)
		if err != nil {
			return nil, err
		}
		colors[i] = c.NRGBA()
	}
	if len(colors) == 0 {
		return nil, fmt.Errorf("generator %q: no colors", tc.Generate)
	}

	w, h := tc.Size[0], tc.Size[1]
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := colors[0]
			if tc.Generate == "checker" && len(colors) > 1 && (x+y)%2 == 1 {
				c = colors[1]
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img, nil
}
