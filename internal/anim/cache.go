package anim

import (
	"fmt"
	"image"
	"time"

	"groovepet/internal/entity"
	"groovepet/internal/shade"

	"go.uber.org/zap"
)

// Cache 启动时把所有皮肤 (和它们的影子版) 一次读进内存，
// 之后换皮肤只查表，不再碰硬盘
type Cache struct {
	logger  *zap.Logger
	open    func(path string) (*Animation, error)
	assets  map[string]*Animation
	shadows map[string]*Animation
}

func NewCache(logger *zap.Logger) *Cache {
	return &Cache{
		logger:  logger,
		open:    Open,
		assets:  make(map[string]*Animation),
		shadows: make(map[string]*Animation),
	}
}

// Preload 读取全部皮肤，任何一个读不了都直接返回错误
func (c *Cache) Preload(skins []entity.Skin) error {
	for _, skin := range skins {
		a, err := c.open(skin.Path)
		if err != nil {
			return fmt.Errorf("load skin %q: %w", skin.Name, err)
		}
		c.assets[skin.Path] = a

		var shadow *Animation
		if skin.ShadowPath != "" {
			shadow, err = c.open(skin.ShadowPath)
			if err != nil {
				return fmt.Errorf("load shadow for skin %q: %w", skin.Name, err)
			}
		} else {
			shadow = Silhouette(a)
		}
		c.shadows[skin.Path] = shadow

		c.logger.Debug("skin loaded",
			zap.String("skin", skin.Name),
			zap.String("path", skin.Path),
			zap.Int("frames", a.Len()),
			zap.Int("width", a.Size.X),
			zap.Int("height", a.Size.Y),
		)
	}
	return nil
}

// Load 取出某个皮肤的动图
func (c *Cache) Load(path string) (*Animation, error) {
	a, ok := c.assets[path]
	if !ok {
		return nil, fmt.Errorf("unknown skin %q", path)
	}
	return a, nil
}

// Shadow 取出某个皮肤的影子版
func (c *Cache) Shadow(path string) (*Animation, error) {
	a, ok := c.shadows[path]
	if !ok {
		return nil, fmt.Errorf("no shadow variant for skin %q", path)
	}
	return a, nil
}

// Silhouette 逐帧生成影子版，帧延迟保持不变
func Silhouette(a *Animation) *Animation {
	out := &Animation{
		Frames: make([]*image.RGBA, 0, a.Len()),
		Delays: append([]time.Duration(nil), a.Delays...),
		Size:   a.Size,
	}
	for _, frame := range a.Frames {
		out.Frames = append(out.Frames, shade.Silhouette(frame))
	}
	return out
}
