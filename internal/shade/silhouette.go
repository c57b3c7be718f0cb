package shade

import (
	"image"
)

// 影子的亮度系数：原图亮度乘以它，越小越黑
const shadowLevel = 0.25

// Silhouette 生成一帧的影子版：
// 透明的地方保持透明，其余像素换成按亮度压暗的灰色，保留一点轮廓细节
func Silhouette(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Rect)

	for i := 0; i+3 < len(src.Pix); i += 4 {
		a := src.Pix[i+3]
		if a == 0 {
			continue
		}

		// image.RGBA 是预乘过 alpha 的，先还原成 0-255 的颜色
		r := uint32(src.Pix[i]) * 255 / uint32(a)
		g := uint32(src.Pix[i+1]) * 255 / uint32(a)
		b := uint32(src.Pix[i+2]) * 255 / uint32(a)

		v := Luma(r, g, b) * shadowLevel

		// 再乘回 alpha
		p := uint8(v * float64(a) / 255)
		dst.Pix[i] = p
		dst.Pix[i+1] = p
		dst.Pix[i+2] = p
		dst.Pix[i+3] = a
	}

	return dst
}

// Luma 灰度 (BT.601 权重)，输入输出都是 0-255
func Luma(r, g, b uint32) float64 {
	gray := 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)

	// 防止浮点数精度问题越界
	if gray > 255 {
		gray = 255
	}
	return gray
}
