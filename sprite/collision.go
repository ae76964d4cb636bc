package sprite

// Direction names the face of a sprite that touched another one.
type Direction uint8

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "none"
	}
}

// Box is an axis-aligned rectangle in y-up space.
type Box struct {
	Left, Bottom, Right, Top float32
}

// BoxOf returns the box centered on t.Position with half-extents t.Scale/2.
func BoxOf(t Transform) Box {
	hw := t.Scale.X / 2
	hh := t.Scale.Y / 2
	return Box{
		Left:   t.Position.X - hw,
		Bottom: t.Position.Y - hh,
		Right:  t.Position.X + hw,
		Top:    t.Position.Y + hh,
	}
}

// Overlaps reports whether the boxes overlap or touch on both axes.
func (b Box) Overlaps(o Box) bool {
	return b.Left <= o.Right && b.Right >= o.Left &&
		b.Bottom <= o.Top && b.Top >= o.Bottom
}

// Bounds returns the sprite's collision box. Rotation is ignored.
func (s *Sprite) Bounds() Box {
	if s == nil {
		return Box{}
	}
	return BoxOf(s.Transform)
}

// Intersects reports whether the boxes of a and b overlap or touch. It is false
// when either sprite is nil or empty.
func Intersects(a, b *Sprite) bool {
	if !a.Valid() || !b.Valid() {
		return false
	}
	return a.Bounds().Overlaps(b.Bounds())
}

// Intersects is shorthand for Intersects(s, o).
func (s *Sprite) Intersects(o *Sprite) bool { return Intersects(s, o) }

// IntersectDirection reports which face of a met b.
//
// The caller must check Intersects first; the result for separated sprites is
// meaningless. The four candidate distances are compared strictly in the order
// up, down, left, right, and DirNone is returned when none of them is smaller than
// all of the others.
func IntersectDirection(a, b *Sprite) Direction {
	if !a.Valid() || !b.Valid() {
		return DirNone
	}
	return directionOf(a.Bounds(), b.Bounds())
}

func directionOf(a, b Box) Direction {
	down := b.Bottom - a.Top
	up := a.Bottom - b.Top
	left := a.Right - b.Left
	right := b.Right - a.Left

	switch {
	case up < down && up < left && up < right:
		return DirUp
	case down < up && down < left && down < right:
		return DirDown
	case left < up && left < down && left < right:
		return DirLeft
	case right < up && right < down && right < left:
		return DirRight
	default:
		return DirNone
	}
}
