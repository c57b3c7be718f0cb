//go:build notray || (darwin && !cgo)

package tray

import (
	"errors"
	"sync"

	"go.uber.org/zap"
)

// ErrUnsupported 这个构建里没有托盘
var ErrUnsupported = errors.New("tray support not compiled in")

// Tray 用 notray 构建标签 (或者 macOS 没开 cgo) 时的替身：
// Show 直接报错，调用方就当没有托盘
type Tray struct {
	opts   Options
	logger *zap.Logger
	events chan Event

	mu      sync.Mutex
	visible bool
}

func New(opts Options, logger *zap.Logger) *Tray {
	return &Tray{
		opts:   opts,
		logger: logger,
		events: make(chan Event, eventBuffer),
	}
}

func (t *Tray) Show() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.visible = false
	return ErrUnsupported
}

func (t *Tray) Hide() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.visible = false
}
