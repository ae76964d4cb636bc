package gfx

import (
	"errors"
	"fmt"
	"unsafe"

	"spritekit/alloc"
)

var ErrInvalidMesh = errors.New("gfx: invalid mesh size")

// VertexKind selects how DrawMesh shades a mesh.
type VertexKind uint8

const (
	// VertexColored ignores UVs and the bound texture.
	VertexColored VertexKind = iota
	// VertexTextured samples the bound texture and modulates it by vertex color.
	VertexTextured
)

// Vertex is the interleaved vertex layout shared by all mesh kinds.
type Vertex struct {
	U, V    float32
	Color   Color
	X, Y, Z float32
}

// Mesh is an indexed triangle list.
type Mesh struct {
	Kind     VertexKind
	Vertices []Vertex
	Indices  []uint16

	handle alloc.Handle
}

// Valid reports whether the mesh still owns its buffers.
func (m *Mesh) Valid() bool {
	return m != nil && len(m.Vertices) > 0 && len(m.Indices) > 0
}

// MeshFactory creates vertex and index buffers charged to an allocator.
type MeshFactory struct {
	mem alloc.Allocator
}

func NewMeshFactory(mem alloc.Allocator) *MeshFactory {
	return &MeshFactory{mem: mem}
}

// MeshBytes is the accounted size of a mesh with the given buffer lengths.
func MeshBytes(vertices, indices int) int {
	return vertices*int(unsafe.Sizeof(Vertex{})) + indices*2
}

// CreateMesh allocates zeroed buffers for vertices and indices.
func (f *MeshFactory) CreateMesh(kind VertexKind, vertices, indices int) (*Mesh, error) {
	if vertices <= 0 || indices <= 0 || vertices > 0xFFFF {
		return nil, ErrInvalidMesh
	}
	var h alloc.Handle
	if f != nil && f.mem != nil {
		var err error
		h, err = f.mem.Allocate(MeshBytes(vertices, indices))
		if err != nil {
			return nil, fmt.Errorf("gfx: create mesh (%d vertices, %d indices): %w", vertices, indices, err)
		}
	}
	return &Mesh{
		Kind:     kind,
		Vertices: make([]Vertex, vertices),
		Indices:  make([]uint16, indices),
		handle:   h,
	}, nil
}

// DestroyMesh releases m's buffers. Destroying a nil or already destroyed mesh is a no-op.
func (f *MeshFactory) DestroyMesh(m *Mesh) {
	if m == nil {
		return
	}
	if f != nil && f.mem != nil && m.handle != 0 {
		f.mem.Free(m.handle)
	}
	*m = Mesh{}
}
