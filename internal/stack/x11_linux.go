//go:build linux

package stack

import (
	"errors"
	"fmt"

	"groovepet/internal/pet"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"go.uber.org/zap"
)

// _NET_WM_STATE 请求的 action
const (
	stateRemove = 0
	stateAdd    = 1
)

// 来源 2 表示“用户直接操作”，窗口管理器更愿意照办
const sourcePager = 2

var errWindowNotFound = errors.New("window not found in client list")

// X11 通过 EWMH 给自己的窗口设置 _NET_WM_STATE，按 WM_CLASS 找窗口
type X11 struct {
	xu        *xgbutil.XUtil
	className string
	win       xproto.Window
	logger    *zap.Logger
}

// New 连得上 X server 就用 X11，否则退回 Nop
func New(className string, logger *zap.Logger) Hinter {
	xu, err := xgbutil.NewConn()
	if err != nil {
		logger.Debug("no X11 connection, stacking hints disabled", zap.Error(err))
		return Nop{}
	}
	return &X11{xu: xu, className: className, logger: logger}
}

// Apply 置顶 / 工具窗口 (不进任务栏和切换器)
func (x *X11) Apply(f pet.WindowFlags) error {
	win, err := x.window()
	if err != nil {
		return err
	}

	above := stateRemove
	if f.StaysOnTop {
		above = stateAdd
	}
	skip := stateRemove
	if f.Tool {
		skip = stateAdd
	}

	reqs := []struct {
		action int
		atom   string
	}{
		{stateRemove, "_NET_WM_STATE_BELOW"},
		{above, "_NET_WM_STATE_ABOVE"},
		{skip, "_NET_WM_STATE_SKIP_TASKBAR"},
		{skip, "_NET_WM_STATE_SKIP_PAGER"},
	}
	for _, r := range reqs {
		if err := ewmh.WmStateReq(x.xu, win, r.action, r.atom); err != nil {
			return fmt.Errorf("set %s: %w", r.atom, err)
		}
	}
	return nil
}

// Lower 压到所有窗口下面，只压这一次
func (x *X11) Lower() error {
	win, err := x.window()
	if err != nil {
		return err
	}
	return ewmh.RestackWindowExtra(x.xu, win, xproto.StackModeBelow, 0, sourcePager)
}

func (x *X11) Close() {
	x.xu.Conn().Close()
}

// window 窗口是 ebiten 启动后才创建的，所以第一次用到时才去找，找到就记住
func (x *X11) window() (xproto.Window, error) {
	if x.win != 0 {
		return x.win, nil
	}

	clients, err := ewmh.ClientListGet(x.xu)
	if err != nil {
		return 0, fmt.Errorf("read client list: %w", err)
	}
	for _, c := range clients {
		class, err := icccm.WmClassGet(x.xu, c)
		if err != nil {
			continue
		}
		if class.Class == x.className || class.Instance == x.className {
			x.win = c
			x.logger.Debug("found own window", zap.Uint32("window", uint32(c)))
			return c, nil
		}
	}
	return 0, errWindowNotFound
}
