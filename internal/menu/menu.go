package menu

import (
	"image"

	"groovepet/internal/entity"
)

// 尺寸按 basicfont.Face7x13 算：每个字宽 7 像素
const (
	CharWidth = 7
	RowHeight = 16
	PadX      = 6
	arrowW    = 2 * CharWidth // 子菜单箭头 " >" 的位置
	checkW    = 2 * CharWidth // 勾选标记 "* " 的位置
)

// Item 菜单里的一行。有 Sub 的是子菜单入口，没有自己的 Command
type Item struct {
	Label   string
	Command entity.Command
	Checked bool
	Sub     []Item
}

// Row 画菜单用的一行
type Row struct {
	Rect    image.Rectangle
	Label   string
	Checked bool
	HasSub  bool
	Hover   bool
}

// Panel 一块菜单面板 (主菜单或子菜单)
type Panel struct {
	Rect image.Rectangle
	Rows []Row
}

// Menu 画在窗口里面的右键菜单。
// 坐标都是窗口内坐标；打开时传进来的是屏幕坐标，自己换算。
// 窗口比菜单小的时候分列排，列宽再压到窗口宽度以内，保证每一项都点得到
type Menu struct {
	items  []Item
	open   bool
	bounds image.Rectangle // 窗口内可用区域

	main  grid
	sub   grid
	hover int // 主菜单高亮项，-1 表示没有
	expd  int // 展开了子菜单的项，-1 表示没有
	subHv int // 子菜单高亮项
}

func New() *Menu {
	return &Menu{hover: -1, expd: -1, subHv: -1}
}

// Open 在屏幕坐标 at 处打开菜单，area 是窗口在屏幕上的位置和大小
func (m *Menu) Open(items []Item, at image.Point, area image.Rectangle) {
	m.items = items
	m.open = true
	m.bounds = image.Rectangle{Max: area.Size()}
	m.hover, m.expd, m.subHv = -1, -1, -1

	m.main = measure(items, m.bounds)
	m.main.moveTo(place(at.Sub(area.Min), m.main.rect.Size(), m.bounds))
	m.sub = grid{}
}

// IsOpen 菜单是否正开着
func (m *Menu) IsOpen() bool {
	return m.open
}

// Close 不选任何东西直接关掉
func (m *Menu) Close() {
	m.open = false
	m.items = nil
	m.hover, m.expd, m.subHv = -1, -1, -1
	m.sub = grid{}
}

// Hover 鼠标移动：更新高亮，指到子菜单入口就展开
func (m *Menu) Hover(p image.Point) {
	if !m.open {
		return
	}

	if m.expd >= 0 && p.In(m.sub.rect) {
		m.subHv = m.sub.index(p)
		return
	}
	m.subHv = -1

	m.hover = m.main.index(p)
	if m.hover < 0 {
		return
	}
	if len(m.items[m.hover].Sub) > 0 {
		m.expand(m.hover)
	} else {
		m.expd = -1
		m.sub = grid{}
	}
}

// Click 鼠标点击。点中普通项：关菜单并返回它的动作；
// 点中子菜单入口：展开，菜单保持打开；点到菜单外面：关菜单，什么也不选
func (m *Menu) Click(p image.Point) (entity.Command, bool) {
	if !m.open {
		return entity.Command{}, false
	}

	if m.expd >= 0 && p.In(m.sub.rect) {
		idx := m.sub.index(p)
		if idx < 0 {
			return entity.Command{}, false
		}
		item := m.items[m.expd].Sub[idx]
		m.Close()
		return item.Command, true
	}

	if p.In(m.main.rect) {
		idx := m.main.index(p)
		if idx < 0 {
			// 最后一列下面的空格子
			return entity.Command{}, false
		}
		item := m.items[idx]
		if len(item.Sub) > 0 {
			m.hover = idx
			m.expand(idx)
			return entity.Command{}, false
		}
		m.Close()
		return item.Command, true
	}

	m.Close()
	return entity.Command{}, false
}

// Panels 当前要画的面板，子菜单在最后 (画在最上层)
func (m *Menu) Panels() []Panel {
	if !m.open {
		return nil
	}
	panels := []Panel{m.main.panel(m.items, m.hover)}
	if m.expd >= 0 {
		panels = append(panels, m.sub.panel(m.items[m.expd].Sub, m.subHv))
	}
	return panels
}

func (m *Menu) expand(idx int) {
	if m.expd == idx {
		return
	}
	m.expd = idx
	m.subHv = -1

	items := m.items[idx].Sub
	m.sub = measure(items, m.bounds)
	size := m.sub.rect.Size()
	cell := m.main.cell(idx)
	anchor := image.Pt(cell.Max.X, cell.Min.Y)
	if anchor.X+size.X > m.bounds.Max.X {
		// 右边放不下就放左边，两边都放不下就盖在主菜单上面
		anchor.X = cell.Min.X - size.X
	}
	m.sub.moveTo(place(anchor, size, m.bounds))
}

// grid 一块面板的排布：按列从上往下排，一列排满换下一列
type grid struct {
	rect   image.Rectangle
	perCol int // 每列几项
	colW   int
	n      int
}

// measure 算面板大小。放得下就是一列；高度不够就分列；
// 宽度还不够就把每列压窄，标签截短
func measure(items []Item, bounds image.Rectangle) grid {
	n := len(items)
	natural := panelSize(items)
	g := grid{perCol: max(n, 1), colW: natural.X, n: n}

	if natural.Y > bounds.Dy() {
		g.perCol = max(bounds.Dy()/RowHeight, 1)
	}
	cols := (n + g.perCol - 1) / g.perCol
	if cols > 0 && cols*g.colW > bounds.Dx() {
		g.colW = max(bounds.Dx()/cols, 1)
	}
	g.rect = image.Rect(0, 0, cols*g.colW, min(n, g.perCol)*RowHeight)
	return g
}

func (g *grid) moveTo(r image.Rectangle) {
	g.rect = r
}

// cell 第 i 项的位置
func (g grid) cell(i int) image.Rectangle {
	col, row := i/g.perCol, i%g.perCol
	x := g.rect.Min.X + col*g.colW
	y := g.rect.Min.Y + row*RowHeight
	return image.Rect(x, y, x+g.colW, y+RowHeight)
}

// index p 落在哪一项上，没有就是 -1
func (g grid) index(p image.Point) int {
	if !p.In(g.rect) {
		return -1
	}
	col := (p.X - g.rect.Min.X) / g.colW
	row := (p.Y - g.rect.Min.Y) / RowHeight
	i := col*g.perCol + row
	if row >= g.perCol || i >= g.n {
		return -1
	}
	return i
}

func (g grid) panel(items []Item, hover int) Panel {
	rows := make([]Row, 0, len(items))
	for i, item := range items {
		hasSub := len(item.Sub) > 0
		rows = append(rows, Row{
			Rect:    g.cell(i),
			Label:   fit(item.Label, g.colW, hasSub),
			Checked: item.Checked,
			HasSub:  hasSub,
			Hover:   i == hover,
		})
	}
	return Panel{Rect: g.rect, Rows: rows}
}

// fit 列宽不够时把标签截短，末尾换成 "~"
func fit(label string, width int, hasSub bool) string {
	avail := width - PadX*2 - checkW
	if hasSub {
		avail -= arrowW
	}
	n := max(avail/CharWidth, 1)
	r := []rune(label)
	if len(r) <= n {
		return label
	}
	if n == 1 {
		return string(r[:1])
	}
	return string(r[:n-1]) + "~"
}

// panelSize 按最长的标签算一列的面板大小
func panelSize(items []Item) image.Point {
	maxLen := 0
	for _, item := range items {
		if l := len([]rune(item.Label)); l > maxLen {
			maxLen = l
		}
	}
	w := PadX*2 + checkW + maxLen*CharWidth + arrowW
	return image.Pt(w, len(items)*RowHeight)
}

// place 把面板尽量放在 at，超出窗口就往回挪；比窗口还大就贴左上角
func place(at, size image.Point, bounds image.Rectangle) image.Rectangle {
	x, y := at.X, at.Y
	if x+size.X > bounds.Max.X {
		x = bounds.Max.X - size.X
	}
	if y+size.Y > bounds.Max.Y {
		y = bounds.Max.Y - size.Y
	}
	if x < bounds.Min.X {
		x = bounds.Min.X
	}
	if y < bounds.Min.Y {
		y = bounds.Min.Y
	}
	return image.Rectangle{Min: image.Pt(x, y), Max: image.Pt(x+size.X, y+size.Y)}
}
