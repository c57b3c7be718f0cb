package menu

import (
	"image"
	"strings"
)

// Wrap 把每一行按窗口宽度折行，尽量在空格处断开；
// 单个词比一行还长就硬切
func Wrap(lines []string, width int) []string {
	perLine := max((width-PadX*2)/CharWidth, 1)

	var out []string
	for _, line := range lines {
		r := []rune(line)
		if len(r) <= perLine {
			out = append(out, line)
			continue
		}
		for len(r) > perLine {
			cut := perLine
			if i := strings.LastIndex(string(r[:perLine+1]), " "); i > 0 {
				cut = len([]rune(string(r[:perLine+1])[:i]))
			}
			out = append(out, strings.TrimRight(string(r[:cut]), " "))
			r = []rune(strings.TrimLeft(string(r[cut:]), " "))
		}
		if len(r) > 0 {
			out = append(out, string(r))
		}
	}
	return out
}

// Pages 折行以后按窗口高度分页，每页至少一行
func Pages(lines []string, size image.Point) [][]string {
	wrapped := Wrap(lines, size.X)
	perPage := max((size.Y-PadX)/RowHeight, 1)

	var pages [][]string
	for len(wrapped) > perPage {
		pages = append(pages, wrapped[:perPage])
		wrapped = wrapped[perPage:]
	}
	if len(wrapped) > 0 || len(pages) == 0 {
		pages = append(pages, wrapped)
	}
	return pages
}
