// Package stack 窗口层叠提示。ebiten 只能设置“置顶”，
// 置底、不进任务栏这些要直接跟窗口管理器说。全部尽力而为，失败只记日志
package stack

import "groovepet/internal/pet"

// Hinter 对窗口管理器的层叠请求
type Hinter interface {
	Apply(f pet.WindowFlags) error
	Lower() error
	Close()
}

// Nop 什么都不做 (非 linux，或者连不上 X server)
type Nop struct{}

func (Nop) Apply(pet.WindowFlags) error { return nil }
func (Nop) Lower() error                { return nil }
func (Nop) Close()                      {}
