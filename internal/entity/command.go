package entity

import "fmt"

// CommandKind 菜单动作的种类
type CommandKind int

const (
	CmdNone CommandKind = iota
	CmdClose
	CmdToggleShadow
	CmdToggleTransparency
	CmdSetMode
	CmdSelectSkin
	CmdAbout
	CmdHideToTray
	CmdRestore
)

// Command 菜单或托盘选中的动作。
// Mode 只对 CmdSetMode 有意义，SkinPath 只对 CmdSelectSkin 有意义。
type Command struct {
	Kind     CommandKind
	Mode     StackMode
	SkinPath string
}

func Close() Command              { return Command{Kind: CmdClose} }
func ToggleShadow() Command       { return Command{Kind: CmdToggleShadow} }
func ToggleTransparency() Command { return Command{Kind: CmdToggleTransparency} }
func About() Command              { return Command{Kind: CmdAbout} }
func HideToTray() Command         { return Command{Kind: CmdHideToTray} }
func Restore() Command            { return Command{Kind: CmdRestore} }

func SetMode(m StackMode) Command {
	return Command{Kind: CmdSetMode, Mode: m}
}

func SelectSkin(path string) Command {
	return Command{Kind: CmdSelectSkin, SkinPath: path}
}

func (c Command) String() string {
	switch c.Kind {
	case CmdNone:
		return "none"
	case CmdClose:
		return "close"
	case CmdToggleShadow:
		return "toggle-shadow"
	case CmdToggleTransparency:
		return "toggle-transparency"
	case CmdSetMode:
		return fmt.Sprintf("set-mode(%s)", c.Mode)
	case CmdSelectSkin:
		return fmt.Sprintf("select-skin(%s)", c.SkinPath)
	case CmdAbout:
		return "about"
	case CmdHideToTray:
		return "hide-to-tray"
	case CmdRestore:
		return "restore"
	default:
		return "unknown"
	}
}

// ActivationReason 托盘图标被激活的原因
type ActivationReason int

const (
	ActivationUnknown ActivationReason = iota
	ActivationTrigger                  // 左键单击
	ActivationContext                  // 右键，弹托盘菜单
	ActivationDoubleClick
	ActivationMiddleClick
)
