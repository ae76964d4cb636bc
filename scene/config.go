// Package scene describes a set of textures and sprites in YAML and builds them
// into live sprites.
package scene

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"spritekit/gfx"
)

// Config is the YAML scene description.
type Config struct {
	Memory   MemoryConfig    `yaml:"memory"`
	Clear    string          `yaml:"clear"`  // background color, "#rrggbb[aa]"
	Player   string          `yaml:"player"` // name of the sprite driven by input
	Textures []TextureConfig `yaml:"textures"`
	Sprites  []SpriteConfig  `yaml:"sprites"`
}

// MemoryConfig sets the pool budgets in bytes. Zero means unlimited.
type MemoryConfig struct {
	RAM  int `yaml:"ram"`
	VRAM int `yaml:"vram"`
}

// TextureConfig is a texture shared by several sprites. Exactly one of File and
// Generate is set.
type TextureConfig struct {
	Name     string   `yaml:"name"`
	File     string   `yaml:"file"`
	Generate string   `yaml:"generate"` // "solid" or "checker"
	Size     [2]int   `yaml:"size"`     // generated texture size
	Colors   []string `yaml:"colors"`   // generated texture colors
	Flip     bool     `yaml:"flip"`
	VRAM     bool     `yaml:"vram"`
}

// SpriteConfig places one sprite. Texture borrows a shared texture; File loads a
// texture owned by the sprite.
type SpriteConfig struct {
	Name     string     `yaml:"name"`
	Texture  string     `yaml:"texture"`
	File     string     `yaml:"file"`
	Flip     bool       `yaml:"flip"`
	VRAM     bool       `yaml:"vram"`
	Rect     [4]float32 `yaml:"rect"` // center x, center y, width, height
	Rotation float32    `yaml:"rotation"`
	Layer    float32    `yaml:"layer"`
	Color    string     `yaml:"color"`
	Spin     float32    `yaml:"spin"`  // degrees per second
	Solid    bool       `yaml:"solid"` // blocks the player
}

//go:embed default.yaml
var defaultYAML []byte

// Default returns the built-in scene, which needs no files on disk.
func Default() (*Config, error) {
	cfg, err := Parse(defaultYAML)
	if err != nil {
		return nil, fmt.Errorf("scene: default: %w", err)
	}
	return cfg, nil
}

// Load reads and validates a scene file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("scene: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates YAML scene data.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scene: %w", err)
	}
	return &cfg, nil
}

// Validate checks references, sizes and colors.
func (c *Config) Validate() error {
	if c.Memory.RAM < 0 || c.Memory.VRAM < 0 {
		return errors.New("memory budgets cannot be negative")
	}
	if c.Clear != "" {
		if _, err := ParseColor(c.Clear); err != nil {
			return fmt.Errorf("clear: %w", err)
		}
	}

	textures := make(map[string]bool, len(c.Textures))
	for i, t := range c.Textures {
		if t.Name == "" {
			return fmt.Errorf("texture %d: name is required", i)
		}
		if textures[t.Name] {
			return fmt.Errorf("texture %q: duplicate name", t.Name)
		}
		textures[t.Name] = true
		if (t.File == "") == (t.Generate == "") {
			return fmt.Errorf("texture %q: exactly one of file and generate is required", t.Name)
		}
		if t.Generate != "" {
			if err := t.validateGenerated(); err != nil {
				return fmt.Errorf("texture %q: %w", t.Name, err)
			}
		}
	}

	sprites := make(map[string]bool, len(c.Sprites))
	for i, s := range c.Sprites {
		if s.Name == "" {
			return fmt.Errorf("sprite %d: name is required", i)
		}
		if sprites[s.Name] {
			return fmt.Errorf("sprite %q: duplicate name", s.Name)
		}
		sprites[s.Name] = true
		if (s.Texture == "") == (s.File == "") {
			return fmt.Errorf("sprite %q: exactly one of texture and file is required", s.Name)
		}
		if s.Texture != "" && !textures[s.Texture] {
			return fmt.Errorf("sprite %q: unknown texture %q", s.Name, s.Texture)
		}
		if s.Rect[2] <= 0 || s.Rect[3] <= 0 {
			return fmt.Errorf("sprite %q: width and height must be positive", s.Name)
		}
		if s.Color != "" {
			if _, err := ParseColor(s.Color); err != nil {
				return fmt.Errorf("sprite %q: color: %w", s.Name, err)
			}
		}
	}

	if c.Player != "" && !sprites[c.Player] {
		return fmt.Errorf("player: unknown sprite %q", c.Player)
	}
	return nil
}

func (t TextureConfig) validateGenerated() error {
	if t.Size[0] <= 0 || t.Size[1] <= 0 {
		return errors.New("generated size must be positive")
	}
	want := 1
	switch t.Generate {
	case "solid":
	case "checker":
		want = 2
	default:
		return fmt.Errorf("unknown generator %q", t.Generate)
	}
	if len(t.Colors) != want {
		return fmt.Errorf("generator %q needs %d colors, got %d", t.Generate, want, len(t.Colors))
	}
	for _, s := range t.Colors {
		if _, err := ParseColor(s); err != nil {
			return err
		}
	}
	return nil
}

// ParseColor reads "#rrggbb" or "#rrggbbaa".
func ParseColor(s string) (gfx.Color, error) {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok || (len(hex) != 6 && len(hex) != 8) {
		return 0, fmt.Errorf("bad color %q", s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("bad color %q", s)
	}
	return gfx.RGBA(uint8(v>>24), uint8(v>>16), uint8(v>>8), uint8(v)), nil
}
