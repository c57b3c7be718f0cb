package game

import (
	"fmt"
	"image"
	"strings"

	"groovepet/internal/anim"
	"groovepet/internal/input"
	"groovepet/internal/menu"
	"groovepet/internal/pet"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

var (
	_ pet.Host    = (*Manager)(nil)
	_ pet.Surface = (*Manager)(nil)
	_ input.About = (*Manager)(nil)
)

func (g *Manager) SetPosition(p image.Point) {
	ebiten.SetWindowPosition(p.X, p.Y)
}

// SetSize 窗口大小 = 动图大小
func (g *Manager) SetSize(size image.Point) {
	g.size = size
	ebiten.SetWindowSize(size.X, size.Y)
}

func (g *Manager) SetWindowFlags(f pet.WindowFlags) {
	ebiten.SetWindowDecorated(!f.Frameless)
	ebiten.SetWindowFloating(f.StaysOnTop)
	if err := g.hinter.Apply(f); err != nil {
		g.logger.Debug("window manager hint failed", zap.Error(err))
	}
}

func (g *Manager) Lower() {
	if err := g.hinter.Lower(); err != nil {
		g.logger.Debug("lower window failed", zap.Error(err))
	}
}

// Show ebiten 没有隐藏窗口的接口，收进托盘用的是最小化
func (g *Manager) Show() {
	if ebiten.IsWindowMinimized() {
		ebiten.RestoreWindow()
	}
}

func (g *Manager) Hide() {
	g.menu.Close()
	g.CloseAbout()
	ebiten.MinimizeWindow()
}

func (g *Manager) ShowAbout() {
	g.aboutVisible = true
	g.aboutPage = 0
}

func (g *Manager) AboutVisible() bool {
	return g.aboutVisible
}

// NextAboutPage 窗口放不下的时候关于面板分页显示，翻过最后一页就关掉
func (g *Manager) NextAboutPage() {
	g.aboutPage++
	if g.aboutPage >= len(g.aboutPages()) {
		g.CloseAbout()
	}
}

func (g *Manager) CloseAbout() {
	g.aboutVisible = false
	g.aboutPage = 0
}

// Close 下一次 Update 返回 ebiten.Termination
func (g *Manager) Close() {
	g.closing = true
	g.hinter.Close()
}

func (g *Manager) Exit(code int) {
	_ = g.logger.Sync()
	g.exit(code)
}

// SetAnimation 换动图，从第一帧重新播
func (g *Manager) SetAnimation(a *anim.Animation) {
	g.player.Reset(a)
}

func (g *Manager) SetOpacity(opacity float64) {
	g.opacity = opacity
}

// aboutLines 关于面板的内容：固定文字 + 当前资源占用
func (g *Manager) aboutLines() []string {
	lines := []string{g.cfg.About.Title, ""}
	lines = append(lines, strings.Split(g.cfg.About.Text, "\n")...)
	if g.monitor != nil {
		s := g.monitor.Stats()
		lines = append(lines, "", fmt.Sprintf("CPU %.1f%%  MEM %.1f%%", s.CPU, s.Mem))
	}
	return lines
}

func (g *Manager) aboutPages() [][]string {
	return menu.Pages(g.aboutLines(), g.size)
}
