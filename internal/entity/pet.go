package entity

import "image"

// StackMode 窗口的层叠策略，三选一
type StackMode int

const (
	AlwaysOnTop StackMode = iota // 始终置顶 (默认)
	AlwaysBelow                  // 始终置底
	Standard                     // 普通窗口
)

func (m StackMode) String() string {
	switch m {
	case AlwaysOnTop:
		return "Always on Top"
	case AlwaysBelow:
		return "Always Below"
	case Standard:
		return "Standard"
	default:
		return "unknown"
	}
}

// Valid 判断是不是三种合法模式之一
func (m StackMode) Valid() bool {
	return m == AlwaysOnTop || m == AlwaysBelow || m == Standard
}

// Skin 一个可选的动图皮肤
type Skin struct {
	Name       string // 菜单里显示的名字
	Path       string // 动图路径，同时也是皮肤的 ID
	ShadowPath string // 影子版动图，空的话由原图生成
}

// WindowState 桌宠窗口的全部状态
type WindowState struct {
	Position   image.Point  // 窗口左上角的屏幕坐标
	DragAnchor *image.Point // 拖拽开始时：鼠标相对窗口左上角的偏移，没在拖就是 nil
	Size       image.Point  // 窗口大小，永远等于当前动图的一帧大小

	CurrentSkinPath     string
	ShadowEnabled       bool
	TransparencyEnabled bool
	StackMode           StackMode

	TrayVisible bool // 托盘图标是否还在
	Hidden      bool // 窗口是否被收进托盘
}

// Dragging 是否处于拖拽中
func (s *WindowState) Dragging() bool {
	return s.DragAnchor != nil
}
