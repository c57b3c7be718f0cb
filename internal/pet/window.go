// Package pet 桌宠窗口的状态机：把鼠标、菜单、托盘事件变成状态变化，
// 再通过 Host/Surface 这些接口让界面跟着变。本身不依赖任何 GUI 库。
package pet

import (
	"errors"
	"fmt"
	"image"

	"groovepet/internal/anim"
	"groovepet/internal/entity"
	"groovepet/internal/menu"

	"go.uber.org/zap"
)

// DefaultOpacity 开启透明时内容的不透明度
const DefaultOpacity = 0.80

// WindowFlags 窗口属性：无边框 / 置顶 / 工具窗口 (不进任务栏)
type WindowFlags struct {
	Frameless  bool
	StaysOnTop bool
	Tool       bool
}

// Host 宿主窗口 (GUI 库那一侧)
type Host interface {
	SetPosition(p image.Point)
	SetSize(size image.Point)
	SetWindowFlags(f WindowFlags)
	Lower()
	Show()
	Hide()
	ShowAbout()
	Close()
	Exit(code int)
}

// Surface 显示动图的那块区域
type Surface interface {
	SetAnimation(a *anim.Animation) // 换动图并从第一帧开始播
	SetOpacity(opacity float64)
}

// Assets 已经加载好的皮肤
type Assets interface {
	Load(path string) (*anim.Animation, error)
	Shadow(path string) (*anim.Animation, error)
}

// Menu 右键菜单，at 是屏幕坐标，area 是窗口在屏幕上的范围
type Menu interface {
	Open(items []menu.Item, at image.Point, area image.Rectangle)
}

// Tray 托盘图标
type Tray interface {
	Hide()
}

// Options 启动参数
type Options struct {
	Skins       []entity.Skin
	DefaultSkin string // 皮肤路径，空的话用第一个
	Opacity     float64
	Position    image.Point
}

// Deps 窗口依赖的外部组件，Tray 可以为空 (没有托盘)
type Deps struct {
	Host    Host
	Surface Surface
	Assets  Assets
	Menu    Menu
	Tray    Tray
	Logger  *zap.Logger
}

// Window 桌宠窗口，持有 WindowState。所有方法都只在 GUI 的事件线程里调用
type Window struct {
	State entity.WindowState

	opts    Options
	host    Host
	surface Surface
	assets  Assets
	menu    Menu
	tray    Tray
	logger  *zap.Logger
}

func New(opts Options, deps Deps) (*Window, error) {
	if len(opts.Skins) == 0 {
		return nil, errors.New("no skins configured")
	}
	if opts.DefaultSkin == "" {
		opts.DefaultSkin = opts.Skins[0].Path
	}
	if opts.Opacity <= 0 || opts.Opacity > 1 {
		opts.Opacity = DefaultOpacity
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	w := &Window{
		opts:    opts,
		host:    deps.Host,
		surface: deps.Surface,
		assets:  deps.Assets,
		menu:    deps.Menu,
		tray:    deps.Tray,
		logger:  deps.Logger,
	}
	if _, ok := w.skin(opts.DefaultSkin); !ok {
		return nil, fmt.Errorf("default skin %q is not one of the presets", opts.DefaultSkin)
	}
	return w, nil
}

// Init 默认状态：置顶、默认皮肤、影子和透明都关
func (w *Window) Init() error {
	w.State = entity.WindowState{
		Position:        w.opts.Position,
		CurrentSkinPath: w.opts.DefaultSkin,
		StackMode:       entity.AlwaysOnTop,
		TrayVisible:     w.tray != nil,
	}

	if err := w.display(); err != nil {
		return err
	}
	w.host.SetPosition(w.State.Position)
	w.applyStackMode()
	return nil
}

// OnPrimaryPress 左键按下：开始拖拽，记住鼠标相对窗口左上角的偏移
func (w *Window) OnPrimaryPress(globalPos image.Point) {
	if w.State.Dragging() {
		return
	}
	anchor := globalPos.Sub(w.State.Position)
	w.State.DragAnchor = &anchor
}

// OnPrimaryMove 拖拽中：新窗口位置 = 鼠标屏幕位置 - 初始偏移
func (w *Window) OnPrimaryMove(globalPos image.Point, held bool) {
	if !w.State.Dragging() || !held {
		return
	}
	pos := globalPos.Sub(*w.State.DragAnchor)
	if pos == w.State.Position {
		return
	}
	w.State.Position = pos
	w.host.SetPosition(pos)
}

// OnPrimaryRelease 左键松开：结束拖拽
func (w *Window) OnPrimaryRelease() {
	w.State.DragAnchor = nil
}

// SyncPosition 窗口管理器报告的真实位置。窗口可能被窗口管理器挪过，
// 按下左键之前要以它为准，只更新状态，不回写给宿主
func (w *Window) SyncPosition(p image.Point) {
	w.State.Position = p
}

// OnSecondaryPress 右键：在鼠标位置弹出菜单。
// 菜单开着的时候收不到左键松开，所以先结束拖拽
func (w *Window) OnSecondaryPress(globalPos image.Point) {
	w.State.DragAnchor = nil
	area := image.Rectangle{Min: w.State.Position, Max: w.State.Position.Add(w.State.Size)}
	w.menu.Open(w.menuItems(), globalPos, area)
}

// Dispatch 执行菜单或托盘选中的动作
func (w *Window) Dispatch(cmd entity.Command) error {
	w.logger.Debug("dispatch", zap.Stringer("command", cmd))

	switch cmd.Kind {
	case entity.CmdNone:
		return nil
	case entity.CmdClose:
		w.CloseProgram()
		return nil
	case entity.CmdToggleShadow:
		return w.ToggleShadow()
	case entity.CmdToggleTransparency:
		w.ToggleTransparency()
		return nil
	case entity.CmdSetMode:
		return w.SetStackMode(cmd.Mode)
	case entity.CmdSelectSkin:
		return w.SelectSkin(cmd.SkinPath)
	case entity.CmdAbout:
		w.ShowAbout()
		return nil
	case entity.CmdHideToTray:
		w.HideToTray()
		return nil
	case entity.CmdRestore:
		w.Restore()
		return nil
	default:
		return fmt.Errorf("unknown command %v", cmd)
	}
}

// SelectSkin 换皮肤。换完之后重新套用影子和透明
func (w *Window) SelectSkin(path string) error {
	if _, ok := w.skin(path); !ok {
		return fmt.Errorf("unknown skin %q", path)
	}

	prev := w.State.CurrentSkinPath
	w.State.CurrentSkinPath = path
	if err := w.display(); err != nil {
		w.State.CurrentSkinPath = prev
		return err
	}

	w.logger.Info("skin selected", zap.String("skin", path))
	return nil
}

// ToggleShadow 切换影子模式：开 -> 影子版动图，关 -> 当前皮肤原图
func (w *Window) ToggleShadow() error {
	w.State.ShadowEnabled = !w.State.ShadowEnabled
	if err := w.display(); err != nil {
		w.State.ShadowEnabled = !w.State.ShadowEnabled
		return err
	}

	w.logger.Debug("shadow toggled", zap.Bool("enabled", w.State.ShadowEnabled))
	return nil
}

// ToggleTransparency 切换半透明，和影子互不影响
func (w *Window) ToggleTransparency() {
	w.State.TransparencyEnabled = !w.State.TransparencyEnabled
	w.applyEffects()

	w.logger.Debug("transparency toggled", zap.Bool("enabled", w.State.TransparencyEnabled))
}

// SetStackMode 切换层叠模式
func (w *Window) SetStackMode(mode entity.StackMode) error {
	if !mode.Valid() {
		return fmt.Errorf("invalid stack mode %d", int(mode))
	}
	w.State.StackMode = mode
	w.applyStackMode()

	w.logger.Info("stack mode changed", zap.Stringer("mode", mode))
	return nil
}

// CloseProgram 退出：先收托盘图标，再关窗口，最后结束进程
func (w *Window) CloseProgram() {
	w.logger.Info("closing")

	if w.State.TrayVisible {
		w.tray.Hide()
		w.State.TrayVisible = false
	}
	w.host.Close()
	w.host.Exit(0)
}

// ShowAbout 关于
func (w *Window) ShowAbout() {
	w.State.DragAnchor = nil
	w.host.ShowAbout()
}

// HideToTray 把窗口收进托盘。没有托盘的话不收，不然就找不回来了
func (w *Window) HideToTray() {
	if !w.State.TrayVisible {
		w.logger.Warn("no tray icon, refusing to hide the window")
		return
	}
	w.State.DragAnchor = nil
	w.State.Hidden = true
	w.host.Hide()
}

// Restore 从托盘恢复窗口
func (w *Window) Restore() {
	w.State.Hidden = false
	w.host.Show()
}

// OnTrayActivated 托盘图标被点：只有左键单击才恢复窗口
func (w *Window) OnTrayActivated(reason entity.ActivationReason) {
	if reason == entity.ActivationTrigger {
		w.Restore()
	}
}

// display 按当前皮肤和影子开关选出要显示的动图，
// 窗口跟着动图的一帧大小走，然后把透明效果重新套上
func (w *Window) display() error {
	path := w.State.CurrentSkinPath

	var (
		a   *anim.Animation
		err error
	)
	if w.State.ShadowEnabled {
		a, err = w.assets.Shadow(path)
	} else {
		a, err = w.assets.Load(path)
	}
	if err != nil {
		return err
	}

	w.surface.SetAnimation(a)
	w.State.Size = a.Size
	w.host.SetSize(a.Size)
	w.applyEffects()
	return nil
}

func (w *Window) applyEffects() {
	opacity := 1.0
	if w.State.TransparencyEnabled {
		opacity = w.opts.Opacity
	}
	w.surface.SetOpacity(opacity)
}

func (w *Window) applyStackMode() {
	flags := WindowFlags{Frameless: true, Tool: true}
	if w.State.StackMode == entity.AlwaysOnTop {
		flags.StaysOnTop = true
	}
	w.host.SetWindowFlags(flags)

	// 只压一次，之后窗口管理器可能又把它提上来
	if w.State.StackMode == entity.AlwaysBelow {
		w.host.Lower()
	}

	// 有些平台改了属性要重新 show 一下才生效
	if !w.State.Hidden {
		w.host.Show()
	}
}

func (w *Window) skin(path string) (entity.Skin, bool) {
	for _, s := range w.opts.Skins {
		if s.Path == path {
			return s, true
		}
	}
	return entity.Skin{}, false
}

func (w *Window) menuItems() []menu.Item {
	skins := make([]menu.Item, 0, len(w.opts.Skins))
	for _, s := range w.opts.Skins {
		skins = append(skins, menu.Item{
			Label:   s.Name,
			Command: entity.SelectSkin(s.Path),
			Checked: s.Path == w.State.CurrentSkinPath,
		})
	}

	mode := w.State.StackMode
	return []menu.Item{
		{Label: "Close", Command: entity.Close()},
		{Label: "Toggle Shadow", Command: entity.ToggleShadow(), Checked: w.State.ShadowEnabled},
		{Label: "Toggle Transparency", Command: entity.ToggleTransparency(), Checked: w.State.TransparencyEnabled},
		{Label: entity.AlwaysOnTop.String(), Command: entity.SetMode(entity.AlwaysOnTop), Checked: mode == entity.AlwaysOnTop},
		{Label: entity.AlwaysBelow.String(), Command: entity.SetMode(entity.AlwaysBelow), Checked: mode == entity.AlwaysBelow},
		{Label: entity.Standard.String(), Command: entity.SetMode(entity.Standard), Checked: mode == entity.Standard},
		{Label: "Change Skin", Sub: skins},
		{Label: "About", Command: entity.About()},
	}
}
