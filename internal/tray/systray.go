//go:build !notray && !(darwin && !cgo)

package tray

import (
	"sync"

	"groovepet/internal/entity"

	"fyne.io/systray"
	"go.uber.org/zap"
)

// Tray 基于 fyne.io/systray，跟 ebiten 共用进程，用 RunWithExternalLoop 启动
type Tray struct {
	opts   Options
	logger *zap.Logger
	events chan Event

	mu      sync.Mutex
	visible bool
	end     func()
}

func New(opts Options, logger *zap.Logger) *Tray {
	return &Tray{
		opts:   opts,
		logger: logger,
		events: make(chan Event, eventBuffer),
	}
}

// Show 装上托盘图标
func (t *Tray) Show() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.visible {
		return nil
	}

	start, end := systray.RunWithExternalLoop(t.onReady, func() {
		t.logger.Debug("tray exited")
	})
	start()
	t.end = end
	t.visible = true
	return nil
}

// Hide 拿掉托盘图标，可以重复调用
func (t *Tray) Hide() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.visible {
		return
	}
	t.end()
	t.visible = false
	t.logger.Debug("tray hidden")
}

func (t *Tray) onReady() {
	systray.SetIcon(t.opts.Icon)
	systray.SetTitle(t.opts.Title)
	systray.SetTooltip(t.opts.Tooltip)

	// 左键单击图标 = 恢复窗口
	systray.SetOnTapped(func() {
		t.post(Event{Activation: entity.ActivationTrigger})
	})

	for _, item := range menuItems {
		mi := systray.AddMenuItem(item.label, item.tooltip)
		cmd := item.cmd
		go func() {
			for range mi.ClickedCh {
				t.post(Event{Command: cmd})
			}
		}()
	}
}
