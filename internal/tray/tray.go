// Package tray 系统托盘图标。托盘的回调在别的协程里跑，
// 所以事件一律先放进 channel，再由 GUI 的事件线程取出来处理
package tray

import (
	"groovepet/internal/entity"
)

// Event 托盘产生的事件：要么是图标被激活，要么是托盘菜单选了某个动作
type Event struct {
	Activation entity.ActivationReason
	Command    entity.Command
}

// Options 托盘图标的外观
type Options struct {
	Title   string
	Tooltip string
	Icon    []byte
}

// 托盘菜单
var menuItems = []struct {
	label   string
	tooltip string
	cmd     entity.Command
}{
	{"Show", "Show the window", entity.Restore()},
	{"Hide to Tray", "Hide the window to the tray", entity.HideToTray()},
	{"Quit", "Quit", entity.Close()},
}

// 事件缓冲：GUI 线程一帧取一次，点得再快也够用
const eventBuffer = 16

// Events 读取托盘事件
func (t *Tray) Events() <-chan Event {
	return t.events
}

// Visible 托盘图标是否在
func (t *Tray) Visible() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.visible
}

// post 不阻塞托盘线程：缓冲满了就丢掉
func (t *Tray) post(e Event) {
	select {
	case t.events <- e:
	default:
		t.logger.Warn("tray event dropped")
	}
}
