package sprite

import "spritekit/gfx"

const (
	quadVertices = 4
	quadIndices  = 6
)

// quad is a unit square centered at the origin, wound 0,1,2 / 2,3,0.
var quad = [quadVertices]gfx.Vertex{
	{U: 0, V: 0, Color: gfx.White, X: -0.5, Y: -0.5},
	{U: 1, V: 0, Color: gfx.White, X: 0.5, Y: -0.5},
	{U: 1, V: 1, Color: gfx.White, X: 0.5, Y: 0.5},
	{U: 0, V: 1, Color: gfx.White, X: -0.5, Y: 0.5},
}

var quadOrder = [quadIndices]uint16{0, 1, 2, 2, 3, 0}

func buildQuad(m *gfx.Mesh) {
	copy(m.Vertices, quad[:])
	copy(m.Indices, quadOrder[:])
}
