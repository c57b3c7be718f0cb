package game

import (
	"image/color"

	"groovepet/internal/menu"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

var (
	menuBg     = color.RGBA{0x20, 0x20, 0x24, 0xf0}
	menuBorder = color.RGBA{0x60, 0x60, 0x68, 0xff}
	menuHover  = color.RGBA{0x2f, 0x6f, 0xd0, 0xff}
	menuText   = color.RGBA{0xee, 0xee, 0xee, 0xff}
	aboutBg    = color.RGBA{0x10, 0x10, 0x10, 0xe0}
	aboutText  = color.RGBA{0, 255, 0, 255}
)

// 文字是从基线开始画的，往下挪一点防止头被切掉
const baseline = 11

func drawMenu(screen *ebiten.Image, panels []menu.Panel) {
	face := basicfont.Face7x13

	for _, p := range panels {
		r := p.Rect
		vector.DrawFilledRect(screen, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), menuBg, false)
		vector.StrokeRect(screen, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), 1, menuBorder, false)

		for _, row := range p.Rows {
			rr := row.Rect
			if row.Hover {
				vector.DrawFilledRect(screen, float32(rr.Min.X+1), float32(rr.Min.Y), float32(rr.Dx()-2), float32(rr.Dy()), menuHover, false)
			}

			// 窄列里的字不能画到隔壁一列去
			cell := screen.SubImage(rr).(*ebiten.Image)
			x := rr.Min.X + menu.PadX
			y := rr.Min.Y + 2 + baseline
			if row.Checked {
				text.Draw(cell, "*", face, x, y, menuText)
			}
			text.Draw(cell, row.Label, face, x+2*menu.CharWidth, y, menuText)
			if row.HasSub {
				text.Draw(cell, ">", face, rr.Max.X-menu.PadX-menu.CharWidth, y, menuText)
			}
		}
	}
}

// drawAbout 画关于面板的一页，lines 已经按窗口大小折好行
func drawAbout(screen *ebiten.Image, lines []string) {
	b := screen.Bounds()
	vector.DrawFilledRect(screen, 0, 0, float32(b.Dx()), float32(b.Dy()), aboutBg, false)

	face := basicfont.Face7x13
	for i, line := range lines {
		text.Draw(screen, line, face, menu.PadX, menu.PadX+baseline+i*menu.RowHeight, aboutText)
	}
}
