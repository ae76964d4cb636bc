package gfx

// MatrixMode selects which matrix the transform calls act on.
type MatrixMode uint8

const (
	MatrixProjection MatrixMode = iota
	MatrixView
	MatrixModel

	matrixModes
)

// DepthRange is the eye-space Z range covered by Ortho2D. Layers outside it are clipped.
const DepthRange = 256

// Stats counts work done since the last Clear.
type Stats struct {
	DrawCalls int
	Triangles int
	Pixels    int
}

type savedState struct {
	mode  MatrixMode
	model Mat4
	color Color
	tex   *Texture
}

// Context is the rendering state of one target.
//
// Create it once and reuse it to avoid allocations.
type Context struct {
	Depth      bool
	ClearColor Color

	target Target
	mode   MatrixMode
	mats   [matrixModes]Mat4
	stacks [matrixModes][]Mat4
	saved  []savedState
	color  Color
	tex    *Texture

	depthBuf []float32
	stats    Stats
}

// NewContext creates a context drawing into t, with identity matrices, white draw
// color and depth testing enabled.
func NewContext(t Target) *Context {
	c := &Context{
		Depth:      true,
		ClearColor: Black,
		target:     t,
		mode:       MatrixModel,
		color:      White,
	}
	for i := range c.mats {
		c.mats[i] = Mat4Identity()
	}
	return c
}

func (c *Context) Target() Target { return c.target }

func (c *Context) SetTarget(t Target) {
	c.target = t
	c.depthBuf = c.depthBuf[:0]
}

// Ortho2D sets a y-up pixel projection: (0,0) is the bottom-left corner and
// (w,h) the top-right. The view matrix is reset.
func (c *Context) Ortho2D(w, h int) {
	c.mats[MatrixProjection] = Mat4Ortho(0, float32(w), 0, float32(h), -DepthRange, DepthRange)
	c.mats[MatrixView] = Mat4Identity()
}

func (c *Context) MatrixMode(m MatrixMode) {
	if m >= matrixModes {
		return
	}
	c.mode = m
}

func (c *Context) Mode() MatrixMode { return c.mode }

// Matrix returns the current matrix of the active mode.
func (c *Context) Matrix() Mat4 { return c.mats[c.mode] }

func (c *Context) LoadIdentity()       { c.mats[c.mode] = Mat4Identity() }
func (c *Context) LoadMatrix(m Mat4)   { c.mats[c.mode] = m }
func (c *Context) MultMatrix(m Mat4)   { c.mats[c.mode] = Mat4Mul(c.mats[c.mode], m) }
func (c *Context) Translate(v Vec3)    { c.MultMatrix(Mat4Translate(v)) }
func (c *Context) Scale(v Vec3)        { c.MultMatrix(Mat4Scale(v)) }
func (c *Context) RotateZ(rad float32) { c.MultMatrix(Mat4RotateZ(rad)) }

func (c *Context) PushMatrix() {
	c.stacks[c.mode] = append(c.stacks[c.mode], c.mats[c.mode])
}

// PopMatrix restores the last pushed matrix of the active mode. Popping an empty
// stack is a no-op.
func (c *Context) PopMatrix() {
	s := c.stacks[c.mode]
	if len(s) == 0 {
		return
	}
	c.mats[c.mode] = s[len(s)-1]
	c.stacks[c.mode] = s[:len(s)-1]
}

// Save records the matrix mode, model matrix, draw color and bound texture.
func (c *Context) Save() {
	c.saved = append(c.saved, savedState{
		mode:  c.mode,
		model: c.mats[MatrixModel],
		color: c.color,
		tex:   c.tex,
	})
}

// Restore undoes everything since the matching Save. Unbalanced calls are ignored.
func (c *Context) Restore() {
	if len(c.saved) == 0 {
		return
	}
	s := c.saved[len(c.saved)-1]
	c.saved = c.saved[:len(c.saved)-1]
	c.mode = s.mode
	c.mats[MatrixModel] = s.model
	c.color = s.color
	c.tex = s.tex
}

func (c *Context) SetColor(col Color) { c.color = col }
func (c *Context) Color() Color       { return c.color }

func (c *Context) BindTexture(t *Texture) { c.tex = t }

// UnbindTexture clears the binding if t is the bound texture.
func (c *Context) UnbindTexture(t *Texture) {
	if c.tex == t {
		c.tex = nil
	}
}

func (c *Context) BoundTexture() *Texture { return c.tex }

func (c *Context) Stats() Stats { return c.stats }

// Clear fills the target with ClearColor, resets the depth buffer and the stats.
func (c *Context) Clear() {
	c.stats = Stats{}
	if c.target == nil {
		return
	}
	c.target.Clear(c.ClearColor)
	if c.Depth {
		w, h := c.target.Size()
		c.ensureDepth(w, h)
		for i := range c.depthBuf {
			c.depthBuf[i] = 1
		}
	}
}

func (c *Context) ensureDepth(w, h int) {
	if w <= 0 || h <= 0 {
		c.depthBuf = c.depthBuf[:0]
		return
	}
	n := w * h
	if len(c.depthBuf) == n {
		return
	}
	if cap(c.depthBuf) < n {
		c.depthBuf = make([]float32, n)
	} else {
		c.depthBuf = c.depthBuf[:n]
	}
	for i := range c.depthBuf {
		c.depthBuf[i] = 1
	}
}
