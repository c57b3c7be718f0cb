package anim

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"io"
	"os"
	"time"

	_ "image/jpeg"
	_ "image/png" // 必加，否则 image: unknown format

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// 帧延迟 <= 1 (百分之一秒) 的 GIF 按浏览器的习惯当成 100ms
const fallbackDelay = 100 * time.Millisecond

var gifMagic = []byte("GIF8")

// Animation 解码好的一整段动图：每一帧都已经合成成完整画布
type Animation struct {
	Frames []*image.RGBA
	Delays []time.Duration
	Size   image.Point // 原始帧大小，窗口就按这个尺寸
}

// Len 帧数
func (a *Animation) Len() int {
	return len(a.Frames)
}

// Open 从硬盘读取动图
func Open(path string) (*Animation, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	a, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return a, nil
}

// Decode 读取 GIF (多帧) 或者任意静态图片 (单帧)
func Decode(r io.Reader) (*Animation, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	if bytes.HasPrefix(data, gifMagic) {
		g, err := gif.DecodeAll(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return fromGIF(g)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	frame := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(frame, frame.Bounds(), img, b.Min, draw.Src)
	return &Animation{
		Frames: []*image.RGBA{frame},
		Delays: []time.Duration{fallbackDelay},
		Size:   image.Pt(b.Dx(), b.Dy()),
	}, nil
}

// fromGIF 把每一帧按处置方式 (disposal) 合成到完整画布上
func fromGIF(g *gif.GIF) (*Animation, error) {
	if len(g.Image) == 0 {
		return nil, errors.New("gif has no frames")
	}

	w, h := g.Config.Width, g.Config.Height
	if w == 0 || h == 0 {
		var union image.Rectangle
		for _, frame := range g.Image {
			union = union.Union(frame.Bounds())
		}
		w, h = union.Max.X, union.Max.Y
	}

	a := &Animation{Size: image.Pt(w, h)}
	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	var saved []byte

	for i, frame := range g.Image {
		var disposal byte
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}
		if disposal == gif.DisposalPrevious {
			saved = append(saved[:0], canvas.Pix...)
		}

		draw.Draw(canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)

		out := image.NewRGBA(canvas.Rect)
		copy(out.Pix, canvas.Pix)
		a.Frames = append(a.Frames, out)

		delay := fallbackDelay
		if i < len(g.Delay) && g.Delay[i] > 1 {
			delay = time.Duration(g.Delay[i]) * 10 * time.Millisecond
		}
		a.Delays = append(a.Delays, delay)

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, frame.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			copy(canvas.Pix, saved)
		}
	}

	return a, nil
}
