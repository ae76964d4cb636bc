package gfx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spritekit/alloc"
)

func TestMeshFactoryChargesArena(t *testing.T) {
	mem := alloc.NewArena("ram", 0)
	f := NewMeshFactory(mem)

	m, err := f.CreateMesh(VertexTextured, 4, 6)
	require.NoError(t, err)
	assert.Len(t, m.Vertices, 4)
	assert.Len(t, m.Indices, 6)
	assert.Equal(t, VertexTextured, m.Kind)
	assert.Equal(t, MeshBytes(4, 6), mem.Used())

	f.DestroyMesh(m)
	assert.False(t, m.Valid())
	assert.Equal(t, 0, mem.Used())

	f.DestroyMesh(m)
	f.DestroyMesh(nil)
	assert.Equal(t, 0, mem.Live())
}

func TestMeshFactoryFailures(t *testing.T) {
	f := NewMeshFactory(alloc.NewArena("ram", MeshBytes(4, 6)-1))

	_, err := f.CreateMesh(VertexTextured, 4, 6)
	assert.ErrorIs(t, err, alloc.ErrOutOfMemory)

	_, err = f.CreateMesh(VertexTextured, 0, 6)
	assert.ErrorIs(t, err, ErrInvalidMesh)
}
