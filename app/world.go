package app

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"spritekit/alloc"
	"spritekit/gfx"
	"spritekit/hal"
	"spritekit/scene"
	"spritekit/sprite"
	"spritekit/texture"
)

// world is one built scene together with the pools it was allocated from. A reload
// builds a new world next to the old one, so budgets never interfere.
type world struct {
	ram   *alloc.Arena
	vram  *alloc.Arena
	scene *scene.Scene
}

func loadWorld(cfg Config, log hal.Logger) (*world, error) {
	sc, err := loadSceneConfig(cfg.ScenePath)
	if err != nil {
		return nil, err
	}

	ramLimit, vramLimit := sc.Memory.RAM, sc.Memory.VRAM
	if cfg.RAM > 0 {
		ramLimit = cfg.RAM
	}
	if cfg.VRAM > 0 {
		vramLimit = cfg.VRAM
	}
	w := &world{
		ram:  alloc.NewArena("ram", ramLimit),
		vram: alloc.NewArena("vram", vramLimit),
	}

	var fsys fs.FS
	if cfg.ScenePath != "" {
		fsys = os.DirFS(filepath.Dir(cfg.ScenePath))
	}
	opts := []texture.Option{texture.WithVRAM(w.vram)}
	if log != nil {
		opts = append(opts, texture.WithLogger(log))
	}
	loader := texture.NewLoader(fsys, w.ram, opts...)
	kit := sprite.NewKit(w.ram, gfx.NewMeshFactory(w.ram), loader)

	w.scene, err = scene.Build(sc, kit, loader)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	return w, nil
}

func loadSceneConfig(path string) (*scene.Config, error) {
	if path == "" {
		return scene.Default()
	}
	return scene.Load(path)
}

func (w *world) close() {
	if w == nil || w.scene == nil {
		return
	}
	w.scene.Close()
	w.scene = nil
}

// usage formats an arena as "used/limit" in KiB.
func usage(a *alloc.Arena) string {
	if a.Limit() <= 0 {
		return fmt.Sprintf("%dK", a.Used()/1024)
	}
	return fmt.Sprintf("%dK/%dK", a.Used()/1024, a.Limit()/1024)
}
