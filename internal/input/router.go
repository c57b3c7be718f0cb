// Package input 把每一帧的鼠标键盘状态分给关于面板、右键菜单或者桌宠本身。
// 输入来源是接口，测试里可以换成假的
package input

import (
	"image"

	"groovepet/internal/entity"
)

type Button int

const (
	Left Button = iota
	Right
)

type Key int

const (
	Escape Key = iota
	Enter
)

// Source 一帧的输入状态
type Source interface {
	Cursor() image.Point         // 窗口内坐标
	WindowPosition() image.Point // 窗口在屏幕上的真实位置
	Pressed(b Button) bool
	JustPressed(b Button) bool
	JustReleased(b Button) bool
	KeyJustPressed(k Key) bool
}

// Pet 桌宠窗口的鼠标事件，由 pet.Window 实现
type Pet interface {
	SyncPosition(p image.Point)
	OnPrimaryPress(globalPos image.Point)
	OnPrimaryMove(globalPos image.Point, held bool)
	OnPrimaryRelease()
	OnSecondaryPress(globalPos image.Point)
}

// Menu 窗口里的右键菜单，由 menu.Menu 实现
type Menu interface {
	IsOpen() bool
	Close()
	Hover(p image.Point)
	Click(p image.Point) (entity.Command, bool)
}

// About 关于面板
type About interface {
	AboutVisible() bool
	NextAboutPage() // 翻到最后一页再翻就关掉
	CloseAbout()
}

// Frame Route 顺便告诉调用方的鼠标状态，用来调 TPS
type Frame struct {
	Local image.Point
	Held  bool
}

// Router 输入分发：关于面板 > 菜单 > 桌宠
type Router struct {
	Pet      Pet
	Menu     Menu
	About    About
	Dispatch func(cmd entity.Command)
}

func (r *Router) Route(src Source) Frame {
	// 1. 先以窗口管理器报告的位置为准，再算屏幕坐标
	origin := src.WindowPosition()
	r.Pet.SyncPosition(origin)

	local := src.Cursor()
	global := local.Add(origin)
	held := src.Pressed(Left)

	// 2. 当前最上层的东西处理输入
	switch {
	case r.About != nil && r.About.AboutVisible():
		r.routeAbout(src)
	case r.Menu.IsOpen():
		r.routeMenu(src, local)
	default:
		r.routePet(src, global, held)
	}

	// 3. 左键松开不管被谁挡住都要结束拖拽
	if src.JustReleased(Left) {
		r.Pet.OnPrimaryRelease()
	}

	return Frame{Local: local, Held: held}
}

func (r *Router) routePet(src Source, global image.Point, held bool) {
	// ESC 关闭程序
	if src.KeyJustPressed(Escape) {
		r.Dispatch(entity.Close())
		return
	}

	if src.JustPressed(Left) {
		r.Pet.OnPrimaryPress(global)
	}
	r.Pet.OnPrimaryMove(global, held)

	if src.JustPressed(Right) {
		r.Pet.OnSecondaryPress(global)
	}
}

// 菜单开着的时候点击都归菜单
func (r *Router) routeMenu(src Source, local image.Point) {
	if src.KeyJustPressed(Escape) {
		r.Menu.Close()
		return
	}

	r.Menu.Hover(local)
	if src.JustPressed(Left) || src.JustPressed(Right) {
		if cmd, ok := r.Menu.Click(local); ok {
			r.Dispatch(cmd)
		}
	}
}

func (r *Router) routeAbout(src Source) {
	switch {
	case src.KeyJustPressed(Escape):
		r.About.CloseAbout()
	case src.KeyJustPressed(Enter), src.JustPressed(Left), src.JustPressed(Right):
		r.About.NextAboutPage()
	}
}
