package pet

import (
	"errors"
	"fmt"
	"image"
	"reflect"
	"testing"

	"groovepet/internal/anim"
	"groovepet/internal/entity"
	"groovepet/internal/menu"
)

// recorder 记录所有外部调用的顺序
type recorder struct {
	calls []string
}

func (r *recorder) add(format string, args ...any) {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

type fakeHost struct {
	rec      *recorder
	pos      image.Point
	size     image.Point
	flags    WindowFlags
	visible  bool
	lowered  int
	about    int
	exitCode int
}

func (h *fakeHost) SetPosition(p image.Point) {
	h.pos = p
	h.rec.add("host.SetPosition(%d,%d)", p.X, p.Y)
}
func (h *fakeHost) SetSize(s image.Point) { h.size = s; h.rec.add("host.SetSize(%d,%d)", s.X, s.Y) }
func (h *fakeHost) SetWindowFlags(f WindowFlags) {
	h.flags = f
	h.rec.add("host.SetWindowFlags(%v)", f.StaysOnTop)
}
func (h *fakeHost) Lower()     { h.lowered++; h.rec.add("host.Lower") }
func (h *fakeHost) Show()      { h.visible = true; h.rec.add("host.Show") }
func (h *fakeHost) Hide()      { h.visible = false; h.rec.add("host.Hide") }
func (h *fakeHost) ShowAbout() { h.about++; h.rec.add("host.ShowAbout") }
func (h *fakeHost) Close()     { h.rec.add("host.Close") }
func (h *fakeHost) Exit(code int) {
	h.exitCode = code
	h.rec.add("host.Exit(%d)", code)
}

type fakeSurface struct {
	anim    *anim.Animation
	opacity float64
	starts  int
}

func (s *fakeSurface) SetAnimation(a *anim.Animation) { s.anim = a; s.starts++ }
func (s *fakeSurface) SetOpacity(o float64)           { s.opacity = o }

type fakeAssets struct {
	assets  map[string]*anim.Animation
	shadows map[string]*anim.Animation
}

func (a *fakeAssets) Load(path string) (*anim.Animation, error) {
	if v, ok := a.assets[path]; ok {
		return v, nil
	}
	return nil, errors.New("missing asset")
}

func (a *fakeAssets) Shadow(path string) (*anim.Animation, error) {
	if v, ok := a.shadows[path]; ok {
		return v, nil
	}
	return nil, errors.New("missing shadow")
}

type fakeMenu struct {
	items []menu.Item
	at    image.Point
	area  image.Rectangle
}

func (m *fakeMenu) Open(items []menu.Item, at image.Point, area image.Rectangle) {
	m.items, m.at, m.area = items, at, area
}

type fakeTray struct{ rec *recorder }

func (t *fakeTray) Hide() { t.rec.add("tray.Hide") }

type fixture struct {
	w       *Window
	rec     *recorder
	host    *fakeHost
	surface *fakeSurface
	assets  *fakeAssets
	menu    *fakeMenu
}

func sized(w, h int) *anim.Animation {
	return &anim.Animation{Size: image.Pt(w, h)}
}

func newFixture(t *testing.T, withTray bool) *fixture {
	t.Helper()
	rec := &recorder{}
	f := &fixture{
		rec:     rec,
		host:    &fakeHost{rec: rec},
		surface: &fakeSurface{},
		assets: &fakeAssets{
			assets: map[string]*anim.Animation{
				"dance.gif": sized(200, 220),
				"klee.gif":  sized(128, 96),
			},
			shadows: map[string]*anim.Animation{
				"dance.gif": sized(210, 230),
				"klee.gif":  sized(130, 100),
			},
		},
		menu: &fakeMenu{},
	}

	deps := Deps{Host: f.host, Surface: f.surface, Assets: f.assets, Menu: f.menu}
	if withTray {
		deps.Tray = &fakeTray{rec: rec}
	}

	w, err := New(Options{
		Skins: []entity.Skin{
			{Name: "Dance", Path: "dance.gif"},
			{Name: "Klee", Path: "klee.gif"},
		},
		Position: image.Pt(200, 200),
	}, deps)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := w.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	f.w = w
	return f
}

func TestInit_Defaults(t *testing.T) {
	f := newFixture(t, true)
	s := f.w.State

	if s.StackMode != entity.AlwaysOnTop {
		t.Fatalf("expected AlwaysOnTop, got %v", s.StackMode)
	}
	if s.ShadowEnabled || s.TransparencyEnabled {
		t.Fatalf("expected both flags off")
	}
	if s.CurrentSkinPath != "dance.gif" {
		t.Fatalf("expected default skin dance.gif, got %q", s.CurrentSkinPath)
	}
	if !s.TrayVisible {
		t.Fatalf("expected tray visible")
	}
	if f.host.size != image.Pt(200, 220) || s.Size != image.Pt(200, 220) {
		t.Fatalf("expected window sized to the dance asset, got %v", f.host.size)
	}
	if f.host.pos != image.Pt(200, 200) {
		t.Fatalf("expected start position (200,200), got %v", f.host.pos)
	}
	if !f.host.flags.StaysOnTop || !f.host.flags.Frameless || !f.host.flags.Tool {
		t.Fatalf("expected frameless always-on-top tool window, got %+v", f.host.flags)
	}
	if f.surface.opacity != 1.0 {
		t.Fatalf("expected full opacity, got %v", f.surface.opacity)
	}
}

func TestNew_RejectsBadOptions(t *testing.T) {
	if _, err := New(Options{}, Deps{}); err == nil {
		t.Fatalf("expected error without skins")
	}
	_, err := New(Options{
		Skins:       []entity.Skin{{Name: "Dance", Path: "dance.gif"}},
		DefaultSkin: "other.gif",
	}, Deps{})
	if err == nil {
		t.Fatalf("expected error for a default skin outside the presets")
	}
}

func TestToggleShadow_Parity(t *testing.T) {
	f := newFixture(t, false)
	for n := 1; n <= 6; n++ {
		if err := f.w.ToggleShadow(); err != nil {
			t.Fatalf("toggle %d: %v", n, err)
		}
		if got, want := f.w.State.ShadowEnabled, n%2 == 1; got != want {
			t.Fatalf("after %d toggles expected %v, got %v", n, want, got)
		}
		if f.w.State.TransparencyEnabled {
			t.Fatalf("shadow toggle changed transparency")
		}
	}
}

func TestToggleTransparency_Parity(t *testing.T) {
	f := newFixture(t, false)
	if err := f.w.ToggleShadow(); err != nil {
		t.Fatalf("toggle shadow: %v", err)
	}
	for n := 1; n <= 5; n++ {
		f.w.ToggleTransparency()
		if got, want := f.w.State.TransparencyEnabled, n%2 == 1; got != want {
			t.Fatalf("after %d toggles expected %v, got %v", n, want, got)
		}
		if !f.w.State.ShadowEnabled {
			t.Fatalf("transparency toggle changed shadow")
		}
	}
}

func TestToggleShadow_SwapsAssetAndResizes(t *testing.T) {
	f := newFixture(t, false)
	starts := f.surface.starts

	if err := f.w.ToggleShadow(); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if f.surface.anim != f.assets.shadows["dance.gif"] {
		t.Fatalf("expected shadow variant to be displayed")
	}
	if f.host.size != image.Pt(210, 230) || f.w.State.Size != image.Pt(210, 230) {
		t.Fatalf("expected resize to shadow frame size, got %v", f.host.size)
	}
	if f.surface.starts != starts+1 {
		t.Fatalf("expected playback restart")
	}

	if err := f.w.ToggleShadow(); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if f.surface.anim != f.assets.assets["dance.gif"] {
		t.Fatalf("expected dance asset restored")
	}
	if f.host.size != image.Pt(200, 220) {
		t.Fatalf("expected resize back to dance frame size, got %v", f.host.size)
	}
}

func TestToggleShadow_KeepsTransparency(t *testing.T) {
	f := newFixture(t, false)
	f.w.ToggleTransparency()
	if err := f.w.ToggleShadow(); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if f.surface.opacity != DefaultOpacity {
		t.Fatalf("expected opacity %v after asset swap, got %v", DefaultOpacity, f.surface.opacity)
	}
}

func TestToggleTransparency_AppliesAndRemovesOverlay(t *testing.T) {
	f := newFixture(t, false)
	f.w.ToggleTransparency()
	if f.surface.opacity != 0.8 {
		t.Fatalf("expected 0.8 opacity, got %v", f.surface.opacity)
	}
	f.w.ToggleTransparency()
	if f.surface.opacity != 1.0 {
		t.Fatalf("expected overlay removed, got %v", f.surface.opacity)
	}
}

func TestSetStackMode_ReadBack(t *testing.T) {
	f := newFixture(t, false)
	for _, m := range []entity.StackMode{entity.Standard, entity.AlwaysBelow, entity.AlwaysOnTop, entity.AlwaysBelow} {
		if err := f.w.SetStackMode(m); err != nil {
			t.Fatalf("set %v: %v", m, err)
		}
		if f.w.State.StackMode != m {
			t.Fatalf("expected %v, got %v", m, f.w.State.StackMode)
		}
		if f.host.flags.StaysOnTop != (m == entity.AlwaysOnTop) {
			t.Fatalf("mode %v: unexpected on-top flag %v", m, f.host.flags.StaysOnTop)
		}
		if !f.host.visible {
			t.Fatalf("mode %v: expected window re-shown", m)
		}
	}
}

func TestSetStackMode_AlwaysBelowLowersOnce(t *testing.T) {
	f := newFixture(t, false)

	if err := f.w.SetStackMode(entity.AlwaysBelow); err != nil {
		t.Fatalf("set: %v", err)
	}
	if f.host.lowered != 1 {
		t.Fatalf("expected one lower request, got %d", f.host.lowered)
	}
	if err := f.w.SetStackMode(entity.Standard); err != nil {
		t.Fatalf("set: %v", err)
	}
	if f.host.lowered != 1 {
		t.Fatalf("standard mode must not lower, got %d", f.host.lowered)
	}

	// 顺序：先改属性，再压到底，最后重新 show
	f.rec.calls = nil
	if err := f.w.SetStackMode(entity.AlwaysBelow); err != nil {
		t.Fatalf("set: %v", err)
	}
	want := []string{"host.SetWindowFlags(false)", "host.Lower", "host.Show"}
	if !reflect.DeepEqual(f.rec.calls, want) {
		t.Fatalf("expected %v, got %v", want, f.rec.calls)
	}
}

func TestSetStackMode_Invalid(t *testing.T) {
	f := newFixture(t, false)
	if err := f.w.SetStackMode(entity.StackMode(42)); err == nil {
		t.Fatalf("expected error for invalid mode")
	}
	if f.w.State.StackMode != entity.AlwaysOnTop {
		t.Fatalf("invalid mode must not change state")
	}
}

func TestDragCycle(t *testing.T) {
	f := newFixture(t, false)
	orig := f.w.State.Position
	p0 := image.Pt(250, 260)
	p1 := image.Pt(400, 123)

	f.w.OnPrimaryPress(p0)
	f.w.OnPrimaryMove(p1, true)
	f.w.OnPrimaryRelease()

	want := p1.Sub(p0.Sub(orig))
	if f.w.State.Position != want || f.host.pos != want {
		t.Fatalf("expected window at %v, got state %v host %v", want, f.w.State.Position, f.host.pos)
	}
	if f.w.State.DragAnchor != nil {
		t.Fatalf("expected drag anchor cleared")
	}
}

func TestDrag_SecondPressDoesNotReanchor(t *testing.T) {
	f := newFixture(t, false)
	f.w.OnPrimaryPress(image.Pt(210, 210))
	f.w.OnPrimaryPress(image.Pt(300, 300))

	if *f.w.State.DragAnchor != image.Pt(10, 10) {
		t.Fatalf("expected original anchor (10,10), got %v", *f.w.State.DragAnchor)
	}
}

func TestDrag_MoveWithoutPressIsNoop(t *testing.T) {
	f := newFixture(t, false)
	orig := f.w.State.Position

	f.w.OnPrimaryMove(image.Pt(999, 999), true)
	if f.w.State.Position != orig {
		t.Fatalf("move without press changed position to %v", f.w.State.Position)
	}

	f.w.OnPrimaryPress(image.Pt(210, 210))
	f.w.OnPrimaryRelease()
	f.w.OnPrimaryRelease()
	f.w.OnPrimaryMove(image.Pt(999, 999), true)
	if f.w.State.Position != orig {
		t.Fatalf("move after release changed position to %v", f.w.State.Position)
	}
}

func TestDrag_MoveWithoutButtonHeldIsNoop(t *testing.T) {
	f := newFixture(t, false)
	orig := f.w.State.Position
	f.w.OnPrimaryPress(image.Pt(210, 210))
	f.w.OnPrimaryMove(image.Pt(500, 500), false)
	if f.w.State.Position != orig {
		t.Fatalf("move without button held changed position")
	}
}

func TestSelectSkin_ChangesPathAndResizes(t *testing.T) {
	f := newFixture(t, false)
	if err := f.w.SelectSkin("klee.gif"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if f.w.State.CurrentSkinPath != "klee.gif" {
		t.Fatalf("expected klee.gif, got %q", f.w.State.CurrentSkinPath)
	}
	if f.host.size != image.Pt(128, 96) || f.w.State.Size != image.Pt(128, 96) {
		t.Fatalf("expected resize to klee frame size, got %v", f.host.size)
	}
	if f.surface.anim != f.assets.assets["klee.gif"] {
		t.Fatalf("expected klee animation displayed")
	}
}

func TestSelectSkin_ReappliesActiveEffects(t *testing.T) {
	f := newFixture(t, false)
	f.w.ToggleTransparency()
	if err := f.w.ToggleShadow(); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	if err := f.w.SelectSkin("klee.gif"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if f.surface.anim != f.assets.shadows["klee.gif"] {
		t.Fatalf("expected the new skin's shadow variant")
	}
	if f.host.size != image.Pt(130, 100) {
		t.Fatalf("expected resize to klee shadow frame, got %v", f.host.size)
	}
	if f.surface.opacity != DefaultOpacity {
		t.Fatalf("expected transparency overlay kept, got %v", f.surface.opacity)
	}

	if err := f.w.ToggleShadow(); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if f.surface.anim != f.assets.assets["klee.gif"] {
		t.Fatalf("leaving shadow mode should restore the selected skin")
	}
}

func TestSelectSkin_UnknownPathLeavesState(t *testing.T) {
	f := newFixture(t, false)
	if err := f.w.SelectSkin("nope.gif"); err == nil {
		t.Fatalf("expected error")
	}
	if f.w.State.CurrentSkinPath != "dance.gif" {
		t.Fatalf("state changed on failed select")
	}
}

func TestSelectSkin_LoadFailureRollsBack(t *testing.T) {
	f := newFixture(t, false)
	delete(f.assets.assets, "klee.gif")
	if err := f.w.SelectSkin("klee.gif"); err == nil {
		t.Fatalf("expected load error")
	}
	if f.w.State.CurrentSkinPath != "dance.gif" {
		t.Fatalf("expected rollback to dance.gif, got %q", f.w.State.CurrentSkinPath)
	}
}

func TestScenario_ShadowTransparencyStandard(t *testing.T) {
	f := newFixture(t, false)

	if err := f.w.ToggleShadow(); err != nil {
		t.Fatalf("toggle shadow: %v", err)
	}
	f.w.ToggleTransparency()
	if err := f.w.SetStackMode(entity.Standard); err != nil {
		t.Fatalf("set mode: %v", err)
	}

	s := f.w.State
	if !s.ShadowEnabled || !s.TransparencyEnabled || s.StackMode != entity.Standard {
		t.Fatalf("unexpected end state %+v", s)
	}
	if f.surface.anim != f.assets.shadows["dance.gif"] {
		t.Fatalf("expected shadow variant displayed")
	}
	if f.surface.opacity != 0.8 {
		t.Fatalf("expected 0.8 opacity overlay, got %v", f.surface.opacity)
	}
}

func TestCloseProgram_HidesTrayFirst(t *testing.T) {
	f := newFixture(t, true)
	f.rec.calls = nil

	f.w.CloseProgram()

	want := []string{"tray.Hide", "host.Close", "host.Exit(0)"}
	if !reflect.DeepEqual(f.rec.calls, want) {
		t.Fatalf("expected %v, got %v", want, f.rec.calls)
	}
	if f.w.State.TrayVisible {
		t.Fatalf("expected tray marked hidden")
	}
}

func TestCloseProgram_WithoutTray(t *testing.T) {
	f := newFixture(t, false)
	f.rec.calls = nil

	f.w.CloseProgram()

	want := []string{"host.Close", "host.Exit(0)"}
	if !reflect.DeepEqual(f.rec.calls, want) {
		t.Fatalf("expected %v, got %v", want, f.rec.calls)
	}
}

func TestOnSecondaryPress_OpensMenu(t *testing.T) {
	f := newFixture(t, false)
	f.w.OnSecondaryPress(image.Pt(250, 260))

	if f.menu.at != image.Pt(250, 260) {
		t.Fatalf("expected menu at (250,260), got %v", f.menu.at)
	}
	if f.menu.area != image.Rect(200, 200, 400, 420) {
		t.Fatalf("expected window area, got %v", f.menu.area)
	}

	var labels []string
	for _, item := range f.menu.items {
		labels = append(labels, item.Label)
	}
	want := []string{"Close", "Toggle Shadow", "Toggle Transparency", "Always on Top", "Always Below", "Standard", "Change Skin", "About"}
	if !reflect.DeepEqual(labels, want) {
		t.Fatalf("expected %v, got %v", want, labels)
	}

	skins := f.menu.items[6].Sub
	if len(skins) != 2 || skins[1].Command != entity.SelectSkin("klee.gif") {
		t.Fatalf("unexpected skin submenu %+v", skins)
	}
	if !skins[0].Checked || skins[1].Checked {
		t.Fatalf("expected current skin checked")
	}
	if !f.menu.items[3].Checked {
		t.Fatalf("expected current mode checked")
	}
}

func TestModalUIEndsDrag(t *testing.T) {
	f := newFixture(t, false)

	f.w.OnPrimaryPress(image.Pt(210, 210))
	f.w.OnSecondaryPress(image.Pt(220, 220))
	if f.w.State.Dragging() {
		t.Fatalf("opening the menu must end the drag")
	}

	// 菜单关掉以后重新按下要用新的偏移
	f.w.OnPrimaryPress(image.Pt(300, 300))
	if *f.w.State.DragAnchor != image.Pt(100, 100) {
		t.Fatalf("expected fresh anchor (100,100), got %v", *f.w.State.DragAnchor)
	}

	f.w.ShowAbout()
	if f.w.State.Dragging() {
		t.Fatalf("showing about must end the drag")
	}
}

func TestSyncPosition_AnchorsAgainstRealPosition(t *testing.T) {
	f := newFixture(t, false)
	// 窗口管理器没理会 (200,200)，窗口实际在 (0,40)
	f.w.SyncPosition(image.Pt(0, 40))
	if f.host.pos != image.Pt(200, 200) {
		t.Fatalf("sync must not move the host window, got %v", f.host.pos)
	}

	f.w.OnPrimaryPress(image.Pt(10, 50))
	f.w.OnPrimaryMove(image.Pt(20, 60), true)
	if f.w.State.Position != image.Pt(10, 50) || f.host.pos != image.Pt(10, 50) {
		t.Fatalf("expected window at (10,50), got state %v host %v", f.w.State.Position, f.host.pos)
	}
}

func TestDispatch(t *testing.T) {
	f := newFixture(t, true)

	steps := []struct {
		cmd   entity.Command
		check func() bool
	}{
		{entity.ToggleShadow(), func() bool { return f.w.State.ShadowEnabled }},
		{entity.ToggleTransparency(), func() bool { return f.w.State.TransparencyEnabled }},
		{entity.SetMode(entity.AlwaysBelow), func() bool { return f.w.State.StackMode == entity.AlwaysBelow }},
		{entity.SelectSkin("klee.gif"), func() bool { return f.w.State.CurrentSkinPath == "klee.gif" }},
		{entity.About(), func() bool { return f.host.about == 1 }},
		{entity.HideToTray(), func() bool { return f.w.State.Hidden && !f.host.visible }},
		{entity.Restore(), func() bool { return !f.w.State.Hidden && f.host.visible }},
		{entity.Command{}, func() bool { return true }},
	}
	for _, s := range steps {
		if err := f.w.Dispatch(s.cmd); err != nil {
			t.Fatalf("dispatch %v: %v", s.cmd, err)
		}
		if !s.check() {
			t.Fatalf("dispatch %v: unexpected state %+v", s.cmd, f.w.State)
		}
	}

	if err := f.w.Dispatch(entity.Command{Kind: entity.CommandKind(99)}); err == nil {
		t.Fatalf("expected error for unknown command")
	}

	f.rec.calls = nil
	if err := f.w.Dispatch(entity.Close()); err != nil {
		t.Fatalf("dispatch close: %v", err)
	}
	if f.rec.calls[len(f.rec.calls)-1] != "host.Exit(0)" {
		t.Fatalf("expected exit, got %v", f.rec.calls)
	}
}

func TestTray_HideAndActivate(t *testing.T) {
	f := newFixture(t, true)

	f.w.HideToTray()
	if !f.w.State.Hidden || f.host.visible {
		t.Fatalf("expected window hidden")
	}

	for _, r := range []entity.ActivationReason{entity.ActivationContext, entity.ActivationDoubleClick, entity.ActivationMiddleClick} {
		f.w.OnTrayActivated(r)
		if !f.w.State.Hidden {
			t.Fatalf("reason %v should not restore the window", r)
		}
	}

	f.w.OnTrayActivated(entity.ActivationTrigger)
	if f.w.State.Hidden || !f.host.visible {
		t.Fatalf("primary activation should restore the window")
	}
}

func TestHideToTray_RequiresTray(t *testing.T) {
	f := newFixture(t, false)
	f.w.HideToTray()
	if f.w.State.Hidden {
		t.Fatalf("window hidden without a tray icon")
	}
}
