package game

import (
	"image"

	"groovepet/internal/input"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// ebitenInput 从 ebiten 读这一帧的输入
type ebitenInput struct{}

var _ input.Source = ebitenInput{}

var (
	buttons = map[input.Button]ebiten.MouseButton{
		input.Left:  ebiten.MouseButtonLeft,
		input.Right: ebiten.MouseButtonRight,
	}
	keys = map[input.Key]ebiten.Key{
		input.Escape: ebiten.KeyEscape,
		input.Enter:  ebiten.KeyEnter,
	}
)

func (ebitenInput) Cursor() image.Point {
	return image.Pt(ebiten.CursorPosition())
}

func (ebitenInput) WindowPosition() image.Point {
	return image.Pt(ebiten.WindowPosition())
}

func (ebitenInput) Pressed(b input.Button) bool {
	return ebiten.IsMouseButtonPressed(buttons[b])
}

func (ebitenInput) JustPressed(b input.Button) bool {
	return inpututil.IsMouseButtonJustPressed(buttons[b])
}

func (ebitenInput) JustReleased(b input.Button) bool {
	return inpututil.IsMouseButtonJustReleased(buttons[b])
}

func (ebitenInput) KeyJustPressed(k input.Key) bool {
	return inpututil.IsKeyJustPressed(keys[k])
}
