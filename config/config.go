package config

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"groovepet/internal/entity"

	"gopkg.in/yaml.v3"
)

// Config 结构体：对应 config.yaml 的内容。只读，程序不会往回写
type Config struct {
	Title       string       `yaml:"title"`
	Icon        string       `yaml:"icon"`         // 托盘和窗口图标
	Skins       []SkinConfig `yaml:"skins"`        // 右键菜单里可选的皮肤
	DefaultSkin string       `yaml:"default_skin"` // 名字或路径，空的话用第一个
	Opacity     float64      `yaml:"opacity"`      // 开启透明时的不透明度
	Position    Point        `yaml:"position"`     // 启动时窗口左上角
	TPS         TPSConfig    `yaml:"tps"`
	About       AboutConfig  `yaml:"about"`

	// BaseDir 相对路径以它为基准：配置文件所在目录，没有配置文件时是当前目录
	BaseDir string `yaml:"-"`
}

type SkinConfig struct {
	Name   string `yaml:"name"`
	Path   string `yaml:"path"`
	Shadow string `yaml:"shadow"` // 影子版，空的话自动生成
}

type Point struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// TPSConfig 有人交互 (鼠标指着、拖拽、菜单开着) 时用 Active，否则用 Idle 省电
type TPSConfig struct {
	Active int `yaml:"active"`
	Idle   int `yaml:"idle"`
}

type AboutConfig struct {
	Title string `yaml:"title"`
	Text  string `yaml:"text"`
}

// NewDefault 生成一份默认配置
// 当找不到配置文件时，用这个“保底”
func NewDefault() *Config {
	return &Config{
		Title: "KonataGroove",
		Icon:  "assets/konata.png",
		Skins: []SkinConfig{
			{Name: "Konata", Path: "assets/konata-dance.gif"},
			{Name: "Klee", Path: "assets/klee.gif"},
		},
		Opacity:  0.80,
		Position: Point{X: 200, Y: 200},
		TPS:      TPSConfig{Active: 60, Idle: 30},
		About: AboutConfig{
			Title: "About KonataGroove",
			Text:  "KonataGroove Application\nVersion 1.0\nDeveloped by Nixietab",
		},
	}
}

// DefaultPath ~/.config/groovepet/config.yaml
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "groovepet", "config.yaml"), nil
}

// Load 从硬盘读取配置。文件不存在不算错，直接用默认配置
func Load(filename string) (*Config, error) {
	cfg := NewDefault()

	data, err := os.ReadFile(filename)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		cfg.BaseDir = wd
	} else {
		if err := decode(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", filename, err)
		}
		abs, err := filepath.Abs(filepath.Dir(filename))
		if err != nil {
			return nil, err
		}
		cfg.BaseDir = abs
	}

	cfg.resolve()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", filename, err)
	}
	return cfg, nil
}

// decode 写在文件里的字段覆盖默认值，拼错的字段名直接报错
func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// resolve 把相对路径换成以 BaseDir 为基准的绝对路径
func (c *Config) resolve() {
	c.Icon = c.abs(c.Icon)
	for i := range c.Skins {
		c.Skins[i].Path = c.abs(c.Skins[i].Path)
		c.Skins[i].Shadow = c.abs(c.Skins[i].Shadow)
	}
	// default_skin 写的是名字就不动，写的是路径也要换成绝对路径
	if _, ok := c.lookupSkin(c.DefaultSkin); !ok {
		c.DefaultSkin = c.abs(c.DefaultSkin)
	}
}

func (c *Config) abs(p string) string {
	if p == "" || filepath.IsAbs(p) || c.BaseDir == "" {
		return p
	}
	return filepath.Join(c.BaseDir, p)
}

// Validate 检查配置是否能用
func (c *Config) Validate() error {
	if len(c.Skins) == 0 {
		return errors.New("at least one skin is required")
	}

	seen := make(map[string]bool, len(c.Skins))
	for i, s := range c.Skins {
		if s.Name == "" {
			return fmt.Errorf("skins[%d]: name is required", i)
		}
		if s.Path == "" {
			return fmt.Errorf("skins[%d] %q: path is required", i, s.Name)
		}
		if seen[s.Path] {
			return fmt.Errorf("skins[%d] %q: duplicate path %s", i, s.Name, s.Path)
		}
		seen[s.Path] = true
	}

	if c.DefaultSkin != "" {
		if _, ok := c.lookupSkin(c.DefaultSkin); !ok {
			return fmt.Errorf("default_skin %q does not match any skin", c.DefaultSkin)
		}
	}
	if c.Opacity <= 0 || c.Opacity > 1 {
		return fmt.Errorf("opacity must be in (0, 1], got %v", c.Opacity)
	}
	if c.TPS.Active <= 0 || c.TPS.Idle <= 0 {
		return fmt.Errorf("tps values must be positive, got active=%d idle=%d", c.TPS.Active, c.TPS.Idle)
	}
	if c.Icon == "" {
		return errors.New("icon is required")
	}
	return nil
}

// EntitySkins 转成状态机用的皮肤列表
func (c *Config) EntitySkins() []entity.Skin {
	out := make([]entity.Skin, 0, len(c.Skins))
	for _, s := range c.Skins {
		out = append(out, entity.Skin{Name: s.Name, Path: s.Path, ShadowPath: s.Shadow})
	}
	return out
}

// DefaultSkinPath 默认皮肤的路径
func (c *Config) DefaultSkinPath() string {
	if s, ok := c.lookupSkin(c.DefaultSkin); ok {
		return s.Path
	}
	return c.Skins[0].Path
}

// StartPosition 启动位置
func (c *Config) StartPosition() image.Point {
	return image.Pt(c.Position.X, c.Position.Y)
}

func (c *Config) lookupSkin(key string) (SkinConfig, bool) {
	if key == "" {
		return SkinConfig{}, false
	}
	for _, s := range c.Skins {
		if s.Name == key || s.Path == key {
			return s, true
		}
	}
	return SkinConfig{}, false
}
