package sprite

import (
	"cmp"
	"slices"

	"spritekit/gfx"
)

// Renderer is the immediate-mode backend a sprite draws through. *gfx.Context
// implements it.
type Renderer interface {
	Save()
	Restore()
	MatrixMode(m gfx.MatrixMode)
	LoadIdentity()
	Translate(v gfx.Vec3)
	RotateZ(rad float32)
	Scale(v gfx.Vec3)
	SetColor(c gfx.Color)
	BindTexture(t *gfx.Texture)
	UnbindTexture(t *gfx.Texture)
	DrawMesh(m *gfx.Mesh)
}

// Draw renders s with its model matrix built as translate(x, y, layer), then
// rotate about Z, then scale(w, h, 1). The renderer state is restored before
// Draw returns.
func (s *Sprite) Draw(r Renderer) {
	if !s.Valid() || r == nil {
		return
	}
	tex := s.tex.texture()
	t := s.Transform

	r.Save()
	defer r.Restore()

	r.MatrixMode(gfx.MatrixModel)
	r.LoadIdentity()
	r.Translate(gfx.V3(t.Position.X, t.Position.Y, s.Layer))
	r.RotateZ(gfx.Radians(t.Rotation))
	r.Scale(gfx.V3(t.Scale.X, t.Scale.Y, 1))
	r.SetColor(s.Color)

	r.BindTexture(tex)
	defer r.UnbindTexture(tex)
	r.DrawMesh(s.mesh)
}

// DrawLayers draws sprites from the lowest layer to the highest. Sprites sharing a
// layer keep their relative order. Nil and empty sprites are skipped.
func DrawLayers(r Renderer, sprites []*Sprite) {
	if r == nil || len(sprites) == 0 {
		return
	}
	order := make([]*Sprite, 0, len(sprites))
	for _, s := range sprites {
		if s.Valid() {
			order = append(order, s)
		}
	}
	slices.SortStableFunc(order, func(a, b *Sprite) int {
		return cmp.Compare(a.Layer, b.Layer)
	})
	for _, s := range order {
		s.Draw(r)
	}
}
