package game

import (
	"errors"
	"image"
	"os"
	"time"

	"groovepet/config"
	"groovepet/internal/anim"
	"groovepet/internal/entity"
	"groovepet/internal/input"
	"groovepet/internal/menu"
	"groovepet/internal/monitor"
	"groovepet/internal/pet"
	"groovepet/internal/stack"
	"groovepet/internal/tray"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// Manager 实现 ebiten.Game：每一帧把鼠标和托盘事件交给 pet.Window，
// 同时它自己也是 pet.Window 眼里的宿主窗口和显示区域
type Manager struct {
	Window *pet.Window

	cfg     *config.Config
	menu    *menu.Menu
	tray    *tray.Tray
	hinter  stack.Hinter
	monitor *monitor.Monitor
	logger  *zap.Logger

	router  *input.Router
	player  anim.Player
	frames  map[*anim.Animation][]*ebiten.Image // 已经上传到显卡的帧
	opacity float64
	size    image.Point

	aboutVisible bool
	aboutPage    int
	started      bool
	closing      bool
	lastTick     time.Time
	exit         func(code int)
}

// Deps Manager 用到的组件
type Deps struct {
	Assets  pet.Assets
	Tray    *tray.Tray // 可以为空
	Hinter  stack.Hinter
	Monitor *monitor.Monitor
	Logger  *zap.Logger
}

func NewManager(cfg *config.Config, deps Deps) (*Manager, error) {
	g := &Manager{
		cfg:     cfg,
		menu:    menu.New(),
		tray:    deps.Tray,
		hinter:  deps.Hinter,
		monitor: deps.Monitor,
		logger:  deps.Logger,
		frames:  make(map[*anim.Animation][]*ebiten.Image),
		opacity: 1,
		exit:    os.Exit,
	}
	if g.hinter == nil {
		g.hinter = stack.Nop{}
	}

	petDeps := pet.Deps{
		Host:    g,
		Surface: g,
		Assets:  deps.Assets,
		Menu:    g.menu,
		Logger:  deps.Logger,
	}
	// 注意不能直接把 nil 的 *tray.Tray 塞进接口
	if deps.Tray != nil {
		petDeps.Tray = deps.Tray
	}

	w, err := pet.New(pet.Options{
		Skins:       cfg.EntitySkins(),
		DefaultSkin: cfg.DefaultSkinPath(),
		Opacity:     cfg.Opacity,
		Position:    cfg.StartPosition(),
	}, petDeps)
	if err != nil {
		return nil, err
	}
	g.Window = w
	g.router = &input.Router{
		Pet:      w,
		Menu:     g.menu,
		About:    g,
		Dispatch: g.dispatch,
	}
	return g, nil
}

// Init 默认状态，并按动图大小设置窗口
func (g *Manager) Init() error {
	g.lastTick = time.Now()
	return g.Window.Init()
}

func (g *Manager) Update() error {
	if g.closing {
		return ebiten.Termination
	}

	// 1. 动画往前走
	now := time.Now()
	g.player.Advance(now.Sub(g.lastTick))
	g.lastTick = now

	// 窗口要等 RunGame 之后才真正存在，第一帧再把层叠属性设置一遍
	if !g.started {
		g.started = true
		if err := g.Window.SetStackMode(g.Window.State.StackMode); err != nil {
			return err
		}
	}

	// 2. 托盘事件，以及窗口管理器发来的关闭请求
	g.drainTray()
	if ebiten.IsWindowBeingClosed() {
		g.dispatch(entity.Close())
	}
	if g.closing {
		return ebiten.Termination
	}

	// 3. 输入交给 router：关于面板 > 菜单 > 桌宠
	fr := g.router.Route(ebitenInput{})
	g.adjustTPS(fr.Local, fr.Held)

	if g.closing {
		return ebiten.Termination
	}
	return nil
}

// 动态调整 TPS：有人交互时丝滑，没人理它时省电
func (g *Manager) adjustTPS(local image.Point, held bool) {
	isHover := local.In(image.Rectangle{Max: g.size})
	if isHover || held || g.menu.IsOpen() || g.aboutVisible {
		ebiten.SetTPS(g.cfg.TPS.Active)
	} else {
		ebiten.SetTPS(g.cfg.TPS.Idle)
	}
}

func (g *Manager) drainTray() {
	if g.tray == nil {
		return
	}
	for {
		select {
		case e := <-g.tray.Events():
			if e.Activation != entity.ActivationUnknown {
				g.Window.OnTrayActivated(e.Activation)
			} else {
				g.dispatch(e.Command)
			}
		default:
			return
		}
	}
}

func (g *Manager) dispatch(cmd entity.Command) {
	if err := g.Window.Dispatch(cmd); err != nil {
		g.logger.Warn("command failed", zap.Stringer("command", cmd), zap.Error(err))
	}
}

func (g *Manager) Draw(screen *ebiten.Image) {
	if img := g.currentFrame(); img != nil {
		op := &ebiten.DrawImageOptions{}
		op.ColorScale.ScaleAlpha(float32(g.opacity))
		screen.DrawImage(img, op)
	}

	if g.menu.IsOpen() {
		drawMenu(screen, g.menu.Panels())
	}
	if g.aboutVisible {
		// 换皮肤以后页数可能变少
		pages := g.aboutPages()
		drawAbout(screen, pages[min(g.aboutPage, len(pages)-1)])
	}
}

func (g *Manager) Layout(outsideWidth, outsideHeight int) (int, int) {
	// 告诉 Ebiten 画布大小就是当前动图的大小
	return max(g.size.X, 1), max(g.size.Y, 1)
}

// currentFrame 当前帧；同一段动图的帧只上传一次
func (g *Manager) currentFrame() *ebiten.Image {
	a := g.player.Animation()
	if a == nil || a.Len() == 0 {
		return nil
	}
	frames, ok := g.frames[a]
	if !ok {
		frames = make([]*ebiten.Image, a.Len())
		for i, f := range a.Frames {
			frames[i] = ebiten.NewImageFromImage(f)
		}
		g.frames[a] = frames
	}
	return frames[g.player.Frame()]
}

// Run 启动 ebiten 主循环，正常退出返回 nil
func (g *Manager) Run(className string) error {
	err := ebiten.RunGameWithOptions(g, &ebiten.RunGameOptions{
		ScreenTransparent: true,
		SkipTaskbar:       true,
		X11ClassName:      className,
		X11InstanceName:   className,
	})
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}
