package app

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spritekit/alloc"
	"spritekit/gfx"
	"spritekit/hal"
	"spritekit/sprite"
)

type lineLog struct {
	mu    sync.Mutex
	lines []string
}

func (l *lineLog) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, s)
}

func (l *lineLog) WriteLineBytes(b []byte) { l.WriteLineString(string(b)) }

func (l *lineLog) contains(sub string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, s := range l.lines {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

type fakeFB struct {
	w, h     int
	buf      []byte
	presents int
}

func (f *fakeFB) Width() int              { return f.w }
func (f *fakeFB) Height() int             { return f.h }
func (f *fakeFB) Format() hal.PixelFormat { return hal.PixelFormatRGB565 }
func (f *fakeFB) StrideBytes() int        { return f.w * 2 }
func (f *fakeFB) Buffer() []byte          { return f.buf }
func (f *fakeFB) ClearRGB(r, g, b uint8)  {}

func (f *fakeFB) Present() error {
	f.presents++
	return nil
}

func (f *fakeFB) at(x, y int) uint16 {
	off := y*f.w*2 + x*2
	return uint16(f.buf[off]) | uint16(f.buf[off+1])<<8
}

type fakeHAL struct {
	log   *lineLog
	fb    *fakeFB
	keys  chan hal.KeyEvent
	ticks chan uint64
}

func newFakeHAL() *fakeHAL {
	w, h := hal.ScreenWidth, hal.ScreenHeight
	return &fakeHAL{
		log:   &lineLog{},
		fb:    &fakeFB{w: w, h: h, buf: make([]byte, w*h*2)},
		keys:  make(chan hal.KeyEvent, 16),
		ticks: make(chan uint64, 16),
	}
}

func (h *fakeHAL) Logger() hal.Logger           { return h.log }
func (h *fakeHAL) Display() hal.Display         { return h }
func (h *fakeHAL) Input() hal.Input             { return h }
func (h *fakeHAL) Time() hal.Time               { return h }
func (h *fakeHAL) Framebuffer() hal.Framebuffer { return h.fb }
func (h *fakeHAL) Keyboard() hal.Keyboard       { return h }
func (h *fakeHAL) Events() <-chan hal.KeyEvent  { return h.keys }
func (h *fakeHAL) Ticks() <-chan uint64         { return h.ticks }

func (h *fakeHAL) press(code hal.KeyCode) { h.keys <- hal.KeyEvent{Code: code, Press: true} }

type noDisplayHAL struct{ *fakeHAL }

func (noDisplayHAL) Display() hal.Display { return nil }

func writeScene(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

// wallScene has the player 5px left of a solid wall.
const wallScene = `
memory: {ram: 65536}
clear: "#000000"
player: hero
textures:
  - {name: white, generate: solid, size: [1, 1], colors: ["#ffffff"]}
sprites:
  - {name: wall, texture: white, rect: [100, 50, 20, 100], solid: true}
  - {name: hero, texture: white, rect: [80, 30, 10, 10], layer: 1}
  - {name: fan,  texture: white, rect: [200, 200, 10, 10], spin: 90}
`

func TestNewRendersDefaultScene(t *testing.T) {
	h := newFakeHAL()
	step, stop, err := New(h, Config{})
	require.NoError(t, err)
	defer stop()

	require.NoError(t, step())
	assert.Equal(t, 1, h.fb.presents)
	assert.True(t, h.log.contains("app: scene ready, 8 sprites"))

	// Empty floor space shows the clear color, the corner shows the HUD panel.
	assert.Equal(t, gfx.RGB565(0x10, 0x18, 0x20), h.fb.at(240, 135))
	assert.Equal(t, gfx.RGB565(hudPanel.R, hudPanel.G, hudPanel.B), h.fb.at(0, 0))
}

func TestEscapeQuitsAndFreesMemory(t *testing.T) {
	h := newFakeHAL()
	p, err := newPlayground(h, Config{})
	require.NoError(t, err)
	require.NoError(t, p.step())
	require.NotZero(t, p.world.ram.Live())

	h.press(hal.KeyEscape)
	err = p.step()
	assert.ErrorIs(t, err, ErrQuit)
	assert.ErrorIs(t, err, hal.ErrStop)
	assert.Zero(t, p.world.ram.Live())
	assert.Zero(t, p.world.vram.Live())
	assert.True(t, h.log.contains("app: stopped after 1 frames"))

	// A later stop from the runner and further steps are harmless.
	p.shutdown()
	assert.ErrorIs(t, p.step(), ErrQuit)
	assert.Equal(t, 1, h.fb.presents)
}

func TestHeadlessRunReleasesSceneAtTickLimit(t *testing.T) {
	path := writeScene(t, wallScene)
	var p *playground
	err := hal.RunHeadless(context.Background(), func(h hal.HAL) (func() error, func(), error) {
		var err error
		p, err = newPlayground(h, Config{ScenePath: path, Watch: true})
		if err != nil {
			return nil, nil, err
		}
		return p.step, p.shutdown, nil
	}, hal.HeadlessConfig{Hz: 1000, Ticks: 3, Log: io.Discard})
	require.NoError(t, err)
	require.NotNil(t, p)

	assert.Equal(t, uint64(3), p.frames)
	assert.True(t, p.stopped)
	assert.Nil(t, p.watch)
	assert.Nil(t, p.world.scene)
	assert.Zero(t, p.world.ram.Live())
	assert.Zero(t, p.world.vram.Live())
}

func TestPlayerMovesWithHeldKeys(t *testing.T) {
	h := newFakeHAL()
	p, err := newPlayground(h, Config{})
	require.NoError(t, err)
	hero := p.world.scene.Player.Sprite

	h.ticks <- 1
	require.NoError(t, p.step())

	h.press(hal.KeyRight)
	h.press(hal.KeyUp)
	h.ticks <- 51
	require.NoError(t, p.step())
	assert.InDelta(t, 86, hero.Transform.Position.X, 1e-3)
	assert.InDelta(t, 142, hero.Transform.Position.Y, 1e-3)

	h.keys <- hal.KeyEvent{Code: hal.KeyRight}
	h.keys <- hal.KeyEvent{Code: hal.KeyUp}
	h.ticks <- 101
	require.NoError(t, p.step())
	assert.InDelta(t, 86, hero.Transform.Position.X, 1e-3)
}

func TestStepIsCappedAfterStall(t *testing.T) {
	h := newFakeHAL()
	p, err := newPlayground(h, Config{})
	require.NoError(t, err)
	hero := p.world.scene.Player.Sprite

	h.ticks <- 1
	require.NoError(t, p.step())
	h.press(hal.KeyRight)
	h.ticks <- 5001
	require.NoError(t, p.step())
	assert.InDelta(t, 80+playerSpeed*maxStepMS/1000.0, hero.Transform.Position.X, 1e-3)
}

func TestSolidSpriteBlocksPlayer(t *testing.T) {
	h := newFakeHAL()
	p, err := newPlayground(h, Config{ScenePath: writeScene(t, wallScene)})
	require.NoError(t, err)
	hero := p.world.scene.Player.Sprite

	h.ticks <- 1
	require.NoError(t, p.step())

	h.press(hal.KeyRight)
	h.ticks <- 51
	require.NoError(t, p.step())
	assert.Equal(t, float32(80), hero.Transform.Position.X)
	assert.Equal(t, sprite.DirUp, p.contact)
	assert.False(t, sprite.Intersects(hero, p.world.scene.Lookup("wall").Sprite))

	// Moving away is not blocked and clears the contact.
	h.keys <- hal.KeyEvent{Code: hal.KeyRight}
	h.press(hal.KeyDown)
	h.ticks <- 101
	require.NoError(t, p.step())
	assert.InDelta(t, 24, hero.Transform.Position.Y, 1e-3)
	assert.Equal(t, sprite.DirNone, p.contact)
}

func TestSpinningSprites(t *testing.T) {
	h := newFakeHAL()
	p, err := newPlayground(h, Config{ScenePath: writeScene(t, wallScene)})
	require.NoError(t, err)
	fan := p.world.scene.Lookup("fan").Sprite

	h.ticks <- 1
	require.NoError(t, p.step())
	h.ticks <- 51
	require.NoError(t, p.step())
	assert.InDelta(t, 4.5, fan.Transform.Rotation, 1e-3)
}

func TestF1TogglesHUD(t *testing.T) {
	h := newFakeHAL()
	p, err := newPlayground(h, Config{ScenePath: writeScene(t, wallScene)})
	require.NoError(t, err)

	h.press(hal.KeyF1)
	require.NoError(t, p.step())
	assert.False(t, p.hud.visible)
	assert.Equal(t, uint16(0), h.fb.at(0, 0))

	h.press(hal.KeyF1)
	require.NoError(t, p.step())
	assert.True(t, p.hud.visible)
	assert.NotEqual(t, uint16(0), h.fb.at(0, 0))
}

func TestMemoryOverride(t *testing.T) {
	_, _, err := New(newFakeHAL(), Config{RAM: 64})
	assert.ErrorIs(t, err, alloc.ErrOutOfMemory)

	p, err := newPlayground(newFakeHAL(), Config{RAM: 1 << 20, VRAM: 1 << 10})
	require.NoError(t, err)
	assert.Equal(t, 1<<20, p.world.ram.Limit())
	assert.Equal(t, 1<<10, p.world.vram.Limit())
}

func TestNewErrors(t *testing.T) {
	_, _, err := New(noDisplayHAL{newFakeHAL()}, Config{})
	assert.ErrorIs(t, err, ErrNoDisplay)

	_, _, err = New(newFakeHAL(), Config{ScenePath: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWatchReloadsScene(t *testing.T) {
	path := writeScene(t, wallScene)
	h := newFakeHAL()
	p, err := newPlayground(h, Config{ScenePath: path, Watch: true})
	require.NoError(t, err)
	defer p.shutdown()
	old := p.world

	moved := strings.Replace(wallScene, "rect: [80, 30, 10, 10]", "rect: [20, 30, 10, 10]", 1)
	require.NoError(t, os.WriteFile(path, []byte(moved), 0o644))

	deadline := time.Now().Add(5 * time.Second)
	for !h.log.contains("app: reloaded") {
		if time.Now().After(deadline) {
			t.Fatal("scene was not reloaded")
		}
		require.NoError(t, p.step())
		time.Sleep(10 * time.Millisecond)
	}
	assert.Zero(t, old.ram.Live())
	assert.Equal(t, float32(20), p.world.scene.Player.Sprite.Transform.Position.X)
}

func TestReloadFailureKeepsScene(t *testing.T) {
	path := writeScene(t, wallScene)
	h := newFakeHAL()
	p, err := newPlayground(h, Config{ScenePath: path, Watch: true})
	require.NoError(t, err)
	defer p.shutdown()
	old := p.world

	require.NoError(t, os.WriteFile(path, []byte("player: ghost\n"), 0o644))

	deadline := time.Now().Add(5 * time.Second)
	for !h.log.contains("app: reload failed") {
		if time.Now().After(deadline) {
			t.Fatal("reload failure was not reported")
		}
		require.NoError(t, p.step())
		time.Sleep(10 * time.Millisecond)
	}
	assert.Same(t, old, p.world)
	assert.NotZero(t, p.world.ram.Live())
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, float32(10), wrapDegrees(370))
	assert.Equal(t, float32(350), wrapDegrees(-10))

	var k keyState
	k.set(hal.KeyLeft, true)
	assert.Equal(t, float32(-1), k.axis(hal.KeyLeft, hal.KeyRight))
	k.set(hal.KeyRight, true)
	assert.Equal(t, float32(0), k.axis(hal.KeyLeft, hal.KeyRight))
	k.set(hal.KeyCode(999), true)

	assert.True(t, errors.Is(ErrQuit, hal.ErrStop))
}
