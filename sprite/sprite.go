// Package sprite implements textured quads with a transform, draw ordering by layer
// and axis-aligned collision tests.
//
// Sprites are built by a Kit, which bundles the collaborators a sprite needs for
// its whole life: an allocator for the sprite itself, a mesh factory and a texture
// loader. Construction either returns a complete sprite or nothing; every partial
// resource is rolled back before the error is returned.
package sprite

import (
	"errors"
	"fmt"
	"unsafe"

	"spritekit/alloc"
	"spritekit/gfx"
	"spritekit/texture"
)

var (
	ErrNilTexture = errors.New("sprite: nil texture")

	// ErrIncompleteKit is returned by a Kit built without an allocator or a mesh
	// factory.
	ErrIncompleteKit = errors.New("sprite: kit needs an allocator and a mesh factory")
)

// MeshFactory creates and destroys vertex/index buffers.
type MeshFactory interface {
	CreateMesh(kind gfx.VertexKind, vertices, indices int) (*gfx.Mesh, error)
	DestroyMesh(m *gfx.Mesh)
}

// TextureLoader is the part of the texture subsystem sprites depend on.
type TextureLoader interface {
	Load(info texture.Info) (*gfx.Texture, error)
	Destroy(t *gfx.Texture)
}

// Transform places a sprite. Scale doubles as the rendered width and height;
// Rotation is in degrees.
type Transform struct {
	Position gfx.Vec2
	Scale    gfx.Vec2
	Rotation float32
}

// Sprite is a textured unit quad.
//
// The zero Sprite is empty: it draws nothing and intersects nothing.
type Sprite struct {
	Transform Transform
	Color     gfx.Color
	// Layer feeds the Z coordinate; higher layers draw on top.
	Layer float32

	tex    textureRef
	mesh   *gfx.Mesh
	handle alloc.Handle
	kit    *Kit
}

// textureRef is either borrowed (the caller keeps ownership) or owned (the sprite
// destroys it with itself).
type textureRef interface {
	texture() *gfx.Texture
	release(TextureLoader)
}

type borrowed struct{ t *gfx.Texture }

func (b borrowed) texture() *gfx.Texture { return b.t }
func (borrowed) release(TextureLoader)   {}

type owned struct{ t *gfx.Texture }

func (o owned) texture() *gfx.Texture { return o.t }

func (o owned) release(l TextureLoader) {
	if l != nil {
		l.Destroy(o.t)
	}
}

// Kit creates sprites.
type Kit struct {
	mem      alloc.Allocator
	meshes   MeshFactory
	textures TextureLoader
}

func NewKit(mem alloc.Allocator, meshes MeshFactory, textures TextureLoader) *Kit {
	return &Kit{mem: mem, meshes: meshes, textures: textures}
}

var spriteBytes = int(unsafe.Sizeof(Sprite{}))

// Create builds a sprite of the given size centered at position. The texture is
// borrowed: destroying the sprite leaves it alive.
func (k *Kit) Create(position, size gfx.Vec2, tex *gfx.Texture) (*Sprite, error) {
	if tex == nil {
		return nil, ErrNilTexture
	}
	if k == nil || k.mem == nil || k.meshes == nil {
		return nil, ErrIncompleteKit
	}

	h, err := k.mem.Allocate(spriteBytes)
	if err != nil {
		return nil, fmt.Errorf("sprite: allocate: %w", err)
	}

	mesh, err := k.meshes.CreateMesh(gfx.VertexTextured, quadVertices, quadIndices)
	if err != nil {
		k.mem.Free(h)
		return nil, fmt.Errorf("sprite: mesh: %w", err)
	}
	if mesh == nil || len(mesh.Vertices) < quadVertices || len(mesh.Indices) < quadIndices {
		k.meshes.DestroyMesh(mesh)
		k.mem.Free(h)
		return nil, fmt.Errorf("sprite: mesh: %w", gfx.ErrInvalidMesh)
	}
	buildQuad(mesh)

	return &Sprite{
		Transform: Transform{Position: position, Scale: size},
		Color:     gfx.White,
		tex:       borrowed{t: tex},
		mesh:      mesh,
		handle:    h,
		kit:       k,
	}, nil
}

// CreateFromRect is Create with the rectangle given as scalars.
func (k *Kit) CreateFromRect(x, y, w, h float32, tex *gfx.Texture) (*Sprite, error) {
	return k.Create(gfx.V2(x, y), gfx.V2(w, h), tex)
}

// CreateOwned loads a texture from info and builds a sprite that owns it. If the
// load fails no sprite memory is touched; if the sprite cannot be built the loaded
// texture is destroyed again.
func (k *Kit) CreateOwned(x, y, w, h float32, info texture.Info) (*Sprite, error) {
	if k == nil || k.mem == nil || k.meshes == nil {
		return nil, ErrIncompleteKit
	}
	if k.textures == nil {
		return nil, fmt.Errorf("sprite: load %s: no texture loader", info.Filename)
	}
	tex, err := k.textures.Load(info)
	if err != nil {
		return nil, err
	}
	if tex == nil {
		return nil, ErrNilTexture
	}

	s, err := k.CreateFromRect(x, y, w, h, tex)
	if err != nil {
		k.textures.Destroy(tex)
		return nil, err
	}
	s.tex = owned{t: tex}
	return s, nil
}

// Destroy releases the mesh, the texture if the sprite owns it, and the sprite's
// own memory. Afterwards s is empty. Destroying a nil or empty sprite is a no-op.
func (s *Sprite) Destroy() {
	if s == nil {
		return
	}
	// The mesh is emptied by the first Destroy, so a stale copy releases nothing.
	if s.kit == nil || !s.mesh.Valid() {
		*s = Sprite{}
		return
	}
	k := s.kit
	k.meshes.DestroyMesh(s.mesh)
	if s.tex != nil {
		s.tex.release(k.textures)
	}
	k.mem.Free(s.handle)
	*s = Sprite{}
}

// Valid reports whether s has a live texture and mesh. A value copy of a sprite
// that was destroyed later is not valid, since its mesh is emptied in place.
func (s *Sprite) Valid() bool {
	return s != nil && s.tex != nil && s.tex.texture().Valid() && s.mesh.Valid()
}

// Owned reports whether destroying s also destroys its texture.
func (s *Sprite) Owned() bool {
	if s == nil {
		return false
	}
	_, ok := s.tex.(owned)
	return ok
}

func (s *Sprite) Texture() *gfx.Texture {
	if s == nil || s.tex == nil {
		return nil
	}
	return s.tex.texture()
}

func (s *Sprite) Mesh() *gfx.Mesh {
	if s == nil {
		return nil
	}
	return s.mesh
}
