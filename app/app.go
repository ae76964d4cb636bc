// Package app is the sprite playground: it builds a scene, moves the player from
// key input, keeps it out of solid sprites and renders everything into the HAL
// framebuffer.
package app

import (
	"errors"
	"fmt"

	"spritekit/gfx"
	"spritekit/hal"
	"spritekit/scene"
	"spritekit/sprite"
)

// Config selects the scene and overrides its memory budgets.
type Config struct {
	ScenePath string // YAML scene; empty uses the built-in one
	Watch     bool   // rebuild the scene when ScenePath changes
	RAM       int    // bytes; > 0 overrides the scene budget
	VRAM      int    // bytes; > 0 overrides the scene budget
}

var (
	// ErrQuit is returned by the step function once Escape is pressed.
	ErrQuit = fmt.Errorf("app: quit: %w", hal.ErrStop)

	ErrNoDisplay         = errors.New("app: no display")
	ErrUnsupportedFormat = errors.New("app: unsupported framebuffer format")
)

const (
	playerSpeed = 120 // px per second
	maxStepMS   = 100
)

type playground struct {
	cfg Config
	log hal.Logger

	fb    hal.Framebuffer
	kbd   hal.Keyboard
	ticks <-chan uint64

	ctx   *gfx.Context
	hud   *hud
	world *world
	watch *scene.Watcher

	keys     keyState
	lastTick uint64
	contact  sprite.Direction
	frames   uint64
	stopped  bool
}

// New builds the playground on h. It returns the per-frame step function and a
// stop function that destroys the scene and closes the watcher; stop is safe to
// call more than once.
func New(h hal.HAL, cfg Config) (func() error, func(), error) {
	p, err := newPlayground(h, cfg)
	if err != nil {
		return nil, nil, err
	}
	return p.step, p.shutdown, nil
}

func newPlayground(h hal.HAL, cfg Config) (*playground, error) {
	var fb hal.Framebuffer
	if d := h.Display(); d != nil {
		fb = d.Framebuffer()
	}
	if fb == nil {
		return nil, ErrNoDisplay
	}
	if fb.Format() != hal.PixelFormatRGB565 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedFormat, fb.Format())
	}

	p := &playground{cfg: cfg, log: h.Logger(), fb: fb}
	if in := h.Input(); in != nil {
		p.kbd = in.Keyboard()
	}
	if t := h.Time(); t != nil {
		p.ticks = t.Ticks()
	}

	p.ctx = gfx.NewContext(&gfx.RGB565Target{
		Buf:    fb.Buffer(),
		Stride: fb.StrideBytes(),
		W:      fb.Width(),
		H:      fb.Height(),
	})
	p.ctx.Ortho2D(fb.Width(), fb.Height())
	p.hud = newHUD(fb)

	w, err := loadWorld(cfg, p.log)
	if err != nil {
		return nil, err
	}
	p.setWorld(w)

	if cfg.Watch && cfg.ScenePath != "" {
		p.watch, err = scene.Watch(cfg.ScenePath)
		if err != nil {
			p.world.close()
			return nil, fmt.Errorf("app: watch: %w", err)
		}
		p.logf("app: watching %s", cfg.ScenePath)
	}
	return p, nil
}

func (p *playground) step() error {
	if p.stopped {
		return ErrQuit
	}
	if err := p.pollKeys(); err != nil {
		p.shutdown()
		return err
	}
	p.pollWatch()
	p.update(p.elapsed())
	p.render()
	p.frames++
	return p.fb.Present()
}

func (p *playground) setWorld(w *world) {
	p.world = w
	p.ctx.ClearColor = w.scene.Clear
	p.contact = sprite.DirNone
	p.logf("app: scene ready, %d sprites, ram %s, vram %s",
		len(w.scene.Entities), usage(w.ram), usage(w.vram))
}

// pollKeys drains pending key events into the held-key state.
func (p *playground) pollKeys() error {
	if p.kbd == nil {
		return nil
	}
	ch := p.kbd.Events()
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return nil
			}
			if ev.Press {
				switch ev.Code {
				case hal.KeyEscape:
					return ErrQuit
				case hal.KeyF1:
					p.hud.visible = !p.hud.visible
				}
			}
			p.keys.set(ev.Code, ev.Press)
		default:
			return nil
		}
	}
}

// pollWatch swaps in a rebuilt scene after the file changed. A scene that fails
// to build is logged and the current one stays.
func (p *playground) pollWatch() {
	if p.watch == nil {
		return
	}
	select {
	case <-p.watch.Events:
		w, err := loadWorld(p.cfg, p.log)
		if err != nil {
			p.logf("app: reload failed: %v", err)
			return
		}
		p.world.close()
		p.setWorld(w)
		p.logf("app: reloaded %s", p.cfg.ScenePath)
	case err := <-p.watch.Errors:
		p.logf("app: watch: %v", err)
	default:
	}
}

// elapsed returns the seconds covered by the ticks received since the last frame.
func (p *playground) elapsed() float32 {
	if p.ticks == nil {
		return 0
	}
	latest := p.lastTick
drain:
	for {
		select {
		case seq, ok := <-p.ticks:
			if !ok {
				p.ticks = nil
				break drain
			}
			latest = max(latest, seq)
		default:
			break drain
		}
	}
	if p.lastTick == 0 {
		p.lastTick = latest
		return 0
	}
	ms := latest - p.lastTick
	p.lastTick = latest
	if ms > maxStepMS {
		ms = maxStepMS
	}
	return float32(ms) / 1000
}

func (p *playground) update(dt float32) {
	if dt <= 0 {
		return
	}
	p.contact = sprite.DirNone
	if player := p.world.scene.Player; player != nil {
		step := playerSpeed * dt
		p.move(player, p.keys.axis(hal.KeyLeft, hal.KeyRight)*step, 0)
		p.move(player, 0, p.keys.axis(hal.KeyDown, hal.KeyUp)*step)
	}
	for _, e := range p.world.scene.Entities {
		if e.Spin == 0 {
			continue
		}
		e.Sprite.Transform.Rotation = wrapDegrees(e.Sprite.Transform.Rotation + e.Spin*dt)
	}
}

// move shifts e by (dx, dy) and undoes the shift if it lands on a solid sprite. The
// contact direction is kept for the HUD.
func (p *playground) move(e *scene.Entity, dx, dy float32) {
	if dx == 0 && dy == 0 {
		return
	}
	s := e.Sprite
	d := gfx.V2(dx, dy)
	s.Transform.Position = s.Transform.Position.Add(d)

	blocker := p.blocker(e)
	if blocker == nil {
		return
	}
	p.contact = sprite.IntersectDirection(s, blocker.Sprite)
	s.Transform.Position = s.Transform.Position.Sub(d)
}

func (p *playground) blocker(e *scene.Entity) *scene.Entity {
	for _, o := range p.world.scene.Entities {
		if o == e || !o.Solid {
			continue
		}
		if sprite.Intersects(e.Sprite, o.Sprite) {
			return o
		}
	}
	return nil
}

func (p *playground) render() {
	p.ctx.Clear()
	sprite.DrawLayers(p.ctx, p.world.scene.Sprites())
	p.hud.draw(p)
}

func (p *playground) shutdown() {
	if p.stopped {
		return
	}
	p.stopped = true
	if p.watch != nil {
		if err := p.watch.Close(); err != nil {
			p.logf("app: watch close: %v", err)
		}
		p.watch = nil
	}
	p.world.close()
	p.logf("app: stopped after %d frames", p.frames)
}

func (p *playground) logf(format string, args ...any) {
	if p.log == nil {
		return
	}
	p.log.WriteLineString(fmt.Sprintf(format, args...))
}

func wrapDegrees(d float32) float32 {
	for d >= 360 {
		d -= 360
	}
	for d < 0 {
		d += 360
	}
	return d
}
