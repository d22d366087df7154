// Package app 提供查看器应用的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，使其可以被桌面端入口与
// 演示程序共用。入口通过 NewApp() 构造并交给 ebiten.RunGame。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"

	"github.com/jack-opsapp/ops-site-sub001/pkg/config"
	"github.com/jack-opsapp/ops-site-sub001/pkg/game"
	"github.com/jack-opsapp/ops-site-sub001/pkg/scenes"
)

// 经过时间的上限（秒）
// 拖动窗口或断点暂停后的首帧 dt 可能非常大，钳制后动画从当前位置
// 继续平滑推进，下一帧自愈
const maxDeltaTime = 0.1

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// ConfigPath 球面配置文件路径（YAML），为空使用内置默认配置
	ConfigPath string
	// ProfilePath 评分档案文件路径（YAML），为空使用内置默认档案
	ProfilePath string
	// ReducedMotion 强制降低动态模式（优先于已保存偏好）
	ReducedMotion bool
}

// App 是查看器应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager    *game.SceneManager
	settingsManager *game.SettingsManager
	verbose         bool

	lastUpdate time.Time // 上一帧时刻，用于实测 deltaTime

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化查看器应用
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	// 加载球面配置
	var sphereCfg *config.SphereConfig
	var err error
	if cfg.ConfigPath != "" {
		sphereCfg, err = config.LoadSphereConfig(cfg.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("球面配置加载失败: %w", err)
		}
		log.Printf("[App] Sphere config loaded from %s", cfg.ConfigPath)
	} else {
		sphereCfg, err = config.DefaultSphereConfig()
		if err != nil {
			return nil, fmt.Errorf("内置球面配置加载失败: %w", err)
		}
	}
	log.Printf("[App] %d dimensions, %d mesh edges", len(sphereCfg.Dimensions), len(sphereCfg.Mesh))

	// 加载评分档案
	var profile *config.ScoreProfile
	if cfg.ProfilePath != "" {
		profile, err = config.LoadScoreProfile(cfg.ProfilePath)
		if err != nil {
			return nil, fmt.Errorf("评分档案加载失败: %w", err)
		}
		log.Printf("[App] Score profile loaded from %s", cfg.ProfilePath)
	} else {
		profile, err = config.DefaultScoreProfile()
		if err != nil {
			return nil, fmt.Errorf("内置评分档案加载失败: %w", err)
		}
	}

	// 打开跨平台偏好存储；失败进入降级模式（仅内存偏好）
	gdataManager, err := gdata.Open(gdata.Config{AppName: "ops_site_sphere"})
	if err != nil {
		log.Printf("[App] Warning: gdata unavailable: %v (settings will not persist)", err)
		gdataManager = nil
	}

	settingsManager, err := game.NewSettingsManager(gdataManager)
	if err != nil {
		return nil, fmt.Errorf("偏好管理器初始化失败: %w", err)
	}

	// 启动时应用全屏偏好
	if settingsManager.GetSettings().Fullscreen {
		ebiten.SetFullscreen(true)
	}

	// 创建场景管理器并进入查看器场景
	sceneManager := game.NewSceneManager()
	viewerScene := scenes.NewViewerScene(sphereCfg, profile, settingsManager, cfg.ReducedMotion)
	sceneManager.SwitchTo(viewerScene)

	return &App{
		sceneManager:    sceneManager,
		settingsManager: settingsManager,
		verbose:         cfg.Verbose,
	}, nil
}

// Update 更新应用逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", config.WindowWidth, config.WindowHeight)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		isFullscreen := ebiten.IsFullscreen()
		if isFullscreen {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			// 延迟几帧后设置窗口大小，让窗口管理器有时间处理
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
			log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
		} else {
			ebiten.SetFullscreen(true)
		}
		a.settingsManager.SetFullscreen(!isFullscreen)
		if err := a.settingsManager.Save(); err != nil {
			log.Printf("[App] Failed to save fullscreen preference: %v", err)
		}
	}

	// 实测经过时间：动画速率与刷新率解耦
	now := time.Now()
	deltaTime := 0.0
	if !a.lastUpdate.IsZero() {
		deltaTime = now.Sub(a.lastUpdate).Seconds()
		if deltaTime > maxDeltaTime {
			deltaTime = maxDeltaTime
		}
	}
	a.lastUpdate = now

	a.sceneManager.Update(deltaTime)
	return nil
}

// Draw 绘制画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	// 先填充黑色背景（全屏时左右两边为黑色）
	screen.Fill(color.Black)
	// 使用线性滤波绘制画面，提高缩放质量
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.WindowWidth, config.WindowHeight
}

// GetSceneManager 返回场景管理器
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
