package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/jack-opsapp/ops-site-sub001/pkg/app"
	"github.com/jack-opsapp/ops-site-sub001/pkg/config"
)

var (
	verbose       = flag.Bool("verbose", false, "显示详细调试信息")
	configPath    = flag.String("config", "", "球面配置文件路径（YAML），为空使用内置默认配置")
	profilePath   = flag.String("profile", "", "评分档案文件路径（YAML），为空使用内置默认档案")
	reducedMotion = flag.Bool("reduced-motion", false, "强制降低动态模式（静态渲染，停用动画）")
)

func main() {
	flag.Parse()

	viewerApp, err := app.NewApp(app.Config{
		Verbose:       *verbose,
		ConfigPath:    *configPath,
		ProfilePath:   *profilePath,
		ReducedMotion: *reducedMotion,
	})
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}

	// Set window properties
	ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
	ebiten.SetWindowTitle("维度球面查看器")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	// Start the loop
	// This will call Update() and Draw() repeatedly until the window is closed
	if err := ebiten.RunGame(viewerApp); err != nil {
		log.Fatal(err)
	}
}
