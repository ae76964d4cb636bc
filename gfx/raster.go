package gfx

import "math"

type screenVertex struct {
	x, y, z float32
	u, v    float32
	col     Color
}

// DrawMesh transforms m by projection·view·model, then rasterizes its triangles
// with the current draw color and, for textured meshes, the bound texture.
//
// Texels with zero alpha are discarded before the depth test.
func (c *Context) DrawMesh(m *Mesh) {
	if c == nil || c.target == nil || m == nil {
		return
	}
	if len(m.Vertices) == 0 || len(m.Indices) < 3 {
		return
	}
	w, h := c.target.Size()
	if w <= 0 || h <= 0 {
		return
	}
	if c.Depth {
		c.ensureDepth(w, h)
	}

	mvp := Mat4Mul(c.mats[MatrixProjection], Mat4Mul(c.mats[MatrixView], c.mats[MatrixModel]))
	tex := c.tex
	if m.Kind != VertexTextured || !tex.Valid() {
		tex = nil
	}
	c.stats.DrawCalls++

	var tri [3]screenVertex
	for i := 0; i+2 < len(m.Indices); i += 3 {
		ok := true
		for k := 0; k < 3; k++ {
			idx := int(m.Indices[i+k])
			if idx >= len(m.Vertices) {
				ok = false
				break
			}
			v := m.Vertices[idx]
			p := Mat4MulV4(mvp, Vec4{X: v.X, Y: v.Y, Z: v.Z, W: 1})
			ndc, visible := clipToNDC(p)
			if !visible {
				ok = false
				break
			}
			sx, sy := ndcToScreen(ndc, w, h)
			tri[k] = screenVertex{
				x: sx, y: sy, z: ndc.Z,
				u: v.U, v: v.V,
				col: v.Color.Modulate(c.color),
			}
		}
		if !ok {
			continue
		}
		c.fillTriangle(w, h, &tri, tex)
		c.stats.Triangles++
	}
}

func clipToNDC(p Vec4) (Vec3, bool) {
	if p.W == 0 {
		return Vec3{}, false
	}
	inv := 1 / p.W
	z := p.Z * inv
	// Outside the near/far planes.
	if z < -1 || z > 1 {
		return Vec3{}, false
	}
	return Vec3{X: p.X * inv, Y: p.Y * inv, Z: z}, true
}

// ndcToScreen maps y-up NDC to y-down pixel space.
func ndcToScreen(p Vec3, w, h int) (x, y float32) {
	x = (p.X*0.5 + 0.5) * float32(w)
	y = (1 - (p.Y*0.5 + 0.5)) * float32(h)
	return x, y
}

func (c *Context) fillTriangle(w, h int, t *[3]screenVertex, tex *Texture) {
	p0, p1, p2 := &t[0], &t[1], &t[2]

	minX := int(math.Floor(float64(min(p0.x, p1.x, p2.x))))
	maxX := int(math.Ceil(float64(max(p0.x, p1.x, p2.x))))
	minY := int(math.Floor(float64(min(p0.y, p1.y, p2.y))))
	maxY := int(math.Ceil(float64(max(p0.y, p1.y, p2.y))))
	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	if maxX >= w {
		maxX = w - 1
	}
	if maxY >= h {
		maxY = h - 1
	}
	if minX > maxX || minY > maxY {
		return
	}

	area := edgeFn(p0.x, p0.y, p1.x, p1.y, p2.x, p2.y)
	if area == 0 {
		return
	}
	invArea := 1 / area
	flat := p0.col == p1.col && p1.col == p2.col

	for y := minY; y <= maxY; y++ {
		py := float32(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float32(x) + 0.5
			a0 := edgeFn(p1.x, p1.y, p2.x, p2.y, px, py) * invArea
			a1 := edgeFn(p2.x, p2.y, p0.x, p0.y, px, py) * invArea
			a2 := edgeFn(p0.x, p0.y, p1.x, p1.y, px, py) * invArea
			if a0 < 0 || a1 < 0 || a2 < 0 {
				continue
			}

			col := p0.col
			if !flat {
				col = blend3(p0.col, p1.col, p2.col, a0, a1, a2)
			}
			if tex != nil {
				u := a0*p0.u + a1*p1.u + a2*p2.u
				v := a0*p0.v + a1*p1.v + a2*p2.v
				col = tex.Sample(u, v).Modulate(col)
			}
			if col.A() == 0 {
				continue
			}
			z := a0*p0.z + a1*p1.z + a2*p2.z
			if !c.depthTest(w, x, y, z) {
				continue
			}
			c.target.SetPixel(x, y, col)
			c.stats.Pixels++
		}
	}
}

func (c *Context) depthTest(w int, x, y int, z float32) bool {
	if !c.Depth || len(c.depthBuf) == 0 {
		return true
	}
	idx := y*w + x
	if idx < 0 || idx >= len(c.depthBuf) {
		return false
	}
	// NDC z is in [-1,1]. Map to [0,1].
	d := z*0.5 + 0.5
	if d > c.depthBuf[idx] {
		return false
	}
	c.depthBuf[idx] = d
	return true
}

func edgeFn(x0, y0, x1, y1, x, y float32) float32 {
	return (x-x0)*(y1-y0) - (y-y0)*(x1-x0)
}

func blend3(c0, c1, c2 Color, a0, a1, a2 float32) Color {
	ch := func(v0, v1, v2 uint8) uint8 {
		return uint8(clampF32(a0*float32(v0)+a1*float32(v1)+a2*float32(v2), 0, 255))
	}
	return RGBA(
		ch(c0.R(), c1.R(), c2.R()),
		ch(c0.G(), c1.G(), c2.G()),
		ch(c0.B(), c1.B(), c2.B()),
		ch(c0.A(), c1.A(), c2.A()),
	)
}

func clampF32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
