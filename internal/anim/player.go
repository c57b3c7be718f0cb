package anim

import (
	"image"
	"time"
)

// Player 循环播放一段动图，只负责算“现在该显示第几帧”
type Player struct {
	anim    *Animation
	frame   int
	elapsed time.Duration
}

// Reset 换一段动图并从第一帧重新开始
func (p *Player) Reset(a *Animation) {
	p.anim = a
	p.frame = 0
	p.elapsed = 0
}

// Advance 往前推进 dt，必要时连跳多帧
func (p *Player) Advance(dt time.Duration) {
	if p.anim == nil || p.anim.Len() <= 1 || dt <= 0 {
		return
	}

	p.elapsed += dt
	for {
		d := p.anim.Delays[p.frame]
		if d <= 0 {
			d = fallbackDelay
		}
		if p.elapsed < d {
			return
		}
		p.elapsed -= d
		p.frame = (p.frame + 1) % p.anim.Len()
	}
}

// Frame 当前帧序号
func (p *Player) Frame() int {
	return p.frame
}

// Image 当前帧，还没设置动图时返回 nil
func (p *Player) Image() *image.RGBA {
	if p.anim == nil || p.anim.Len() == 0 {
		return nil
	}
	return p.anim.Frames[p.frame]
}

// Animation 正在播放的动图
func (p *Player) Animation() *Animation {
	return p.anim
}
