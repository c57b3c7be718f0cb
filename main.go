package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"image"
	"os"
	"time"

	"groovepet/config"
	"groovepet/internal/anim"
	"groovepet/internal/game"
	"groovepet/internal/monitor"
	"groovepet/internal/stack"
	"groovepet/internal/tray"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// X11 的 WM_CLASS，stack 包靠它找到自己的窗口
const className = "groovepet"

func main() {
	fs := flag.NewFlagSet("groovepet", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config.yaml (default ~/.config/groovepet/config.yaml)")
	debug := fs.Bool("debug", false, "enable debug logging")
	fs.Parse(os.Args[1:])

	logger, err := newLogger(*debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(*configPath, logger); err != nil {
		logger.Fatal("groovepet failed", zap.Error(err))
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(configPath string, logger *zap.Logger) error {
	if configPath == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		configPath = p
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger.Info("config loaded", zap.String("path", configPath), zap.Int("skins", len(cfg.Skins)))

	// 1. 基础窗口设置
	ebiten.SetWindowDecorated(false) // 无边框
	ebiten.SetWindowFloating(true)   // 始终置顶
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowClosingHandled(true) // 关窗口也走 CloseProgram，保证先收托盘
	ebiten.SetTPS(cfg.TPS.Active)

	// 2. 图标和全部皮肤一次读完，读不了就直接退出
	iconData, err := os.ReadFile(cfg.Icon)
	if err != nil {
		return fmt.Errorf("read icon: %w", err)
	}
	icon, err := anim.Decode(bytes.NewReader(iconData))
	if err != nil {
		return fmt.Errorf("load icon: %w", err)
	}
	ebiten.SetWindowIcon([]image.Image{icon.Frames[0]})

	cache := anim.NewCache(logger)
	if err := cache.Preload(cfg.EntitySkins()); err != nil {
		return err
	}

	// 3. 后台监控 (关于面板里显示)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	mon := monitor.New(2*time.Second, logger)
	mon.Start(ctx)

	// 4. 托盘，装不上 (或者用 notray 构建) 就当没有托盘
	t := tray.New(tray.Options{Title: cfg.Title, Tooltip: cfg.Title, Icon: iconData}, logger)
	if err := t.Show(); err != nil {
		logger.Warn("tray unavailable", zap.Error(err))
		t = nil
	}

	// 5. 初始化逻辑
	mgr, err := game.NewManager(cfg, game.Deps{
		Assets:  cache,
		Tray:    t,
		Hinter:  stack.New(className, logger),
		Monitor: mon,
		Logger:  logger,
	})
	if err != nil {
		return err
	}
	if err := mgr.Init(); err != nil {
		return err
	}

	// 6. 启动
	return mgr.Run(className)
}
