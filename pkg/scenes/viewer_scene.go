package scenes

import (
	"bytes"
	"fmt"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/jack-opsapp/ops-site-sub001/pkg/config"
	"github.com/jack-opsapp/ops-site-sub001/pkg/game"
	"github.com/jack-opsapp/ops-site-sub001/pkg/sphere"
	"github.com/jack-opsapp/ops-site-sub001/pkg/utils"
)

// ViewerScene 球面查看器主场景
//
// 持有可视化引擎与侧栏面板：左侧为球面画布，右侧为描述面板。
// 引擎通过回调把聚焦/选中/悬停变化推送到 ViewerState，面板只读状态，
// 不逐帧轮询引擎。
type ViewerScene struct {
	engine          *sphere.Engine
	state           *game.ViewerState
	settingsManager *game.SettingsManager

	// 字体资源
	titleFace *text.GoTextFace
	textFace  *text.GoTextFace
	hintFace  *text.GoTextFace

	sphereWidth float64 // 球面画布宽度（窗口宽减去面板宽）
}

// 面板配色
var (
	panelBackColor  = color.RGBA{0x20, 0x24, 0x2c, 0xff}
	panelTitleColor = color.RGBA{0xe8, 0xec, 0xf4, 0xff}
	panelTextColor  = color.RGBA{0xb0, 0xb8, 0xc8, 0xff}
	panelFaintColor = color.RGBA{0x6a, 0x72, 0x82, 0xff}
	sceneBackColor  = color.RGBA{0x14, 0x17, 0x1e, 0xff}
)

// NewViewerScene 创建查看器场景
//
// reducedMotionOverride 为 true 时强制降低动态模式（命令行开关），
// 否则跟随已保存的偏好。
func NewViewerScene(cfg *config.SphereConfig, profile *config.ScoreProfile,
	settingsManager *game.SettingsManager, reducedMotionOverride bool) *ViewerScene {

	scene := &ViewerScene{
		settingsManager: settingsManager,
		sphereWidth:     float64(config.WindowWidth - config.PanelWidth),
	}
	scene.loadFonts()

	settings := settingsManager.GetSettings()
	reducedMotion := settings.ReducedMotion || reducedMotionOverride

	scene.state = game.NewViewerState(cfg, profile)
	scene.engine = sphere.New(cfg, profile, sphere.Options{
		DetailMode:     sphere.ParseDetailMode(settings.DetailMode),
		ReducedMotion:  reducedMotion,
		ShowComparison: settings.ShowComparison,
		Width:          scene.sphereWidth,
		Height:         float64(config.WindowHeight),
		LabelFace:      scene.textFace,
		SubLabelFace:   scene.hintFace,
		Callbacks: sphere.Callbacks{
			OnDimensionFocused: scene.state.SetFocus,
			OnSubSelected:      scene.state.SetSubSelection,
			OnHoverChanged:     scene.state.SetHover,
		},
	})

	log.Printf("[ViewerScene] Initialized (detail=%s, reducedMotion=%v)",
		settings.DetailMode, reducedMotion)
	return scene
}

// loadFonts 构建面板与标签字体
func (s *ViewerScene) loadFonts() {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		// 无字体时引擎与面板自动跳过文字绘制
		log.Printf("[ViewerScene] Failed to load font source: %v", err)
		return
	}
	s.titleFace = &text.GoTextFace{Source: src, Size: 20}
	s.textFace = &text.GoTextFace{Source: src, Size: 14}
	s.hintFace = &text.GoTextFace{Source: src, Size: 11}
}

// Engine 返回底层可视化引擎（宿主做实时评分/外部聚焦用）
func (s *ViewerScene) Engine() *sphere.Engine {
	return s.engine
}

// State 返回侧栏面板的数据模型
func (s *ViewerScene) State() *game.ViewerState {
	return s.state
}

// Update 推进场景：先处理偏好快捷键，再把统一指针状态交给引擎
func (s *ViewerScene) Update(deltaTime float64) {
	s.handleShortcuts()
	s.engine.Update(deltaTime, utils.GetPointerState())
}

// handleShortcuts 偏好快捷键
// R 降低动态、M 子节点模式、C 对照叠加层；变化立即持久化
func (s *ViewerScene) handleShortcuts() {
	sm := s.settingsManager
	settings := sm.GetSettings()

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		sm.SetReducedMotion(!settings.ReducedMotion)
		s.engine.SetReducedMotion(settings.ReducedMotion)
		s.persistSettings()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		next := "quick"
		if settings.DetailMode == "quick" {
			next = "deep"
		}
		sm.SetDetailMode(next)
		s.engine.SetDetailMode(sphere.ParseDetailMode(next))
		s.persistSettings()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		sm.SetShowComparison(!settings.ShowComparison)
		s.engine.SetShowComparison(settings.ShowComparison)
		s.persistSettings()
	}
}

// persistSettings 保存偏好（失败只记日志，不打断交互）
func (s *ViewerScene) persistSettings() {
	if err := s.settingsManager.Save(); err != nil {
		log.Printf("[ViewerScene] Failed to save settings: %v", err)
	}
}

// Draw 绘制场景：球面画布 + 右侧描述面板
func (s *ViewerScene) Draw(screen *ebiten.Image) {
	screen.Fill(sceneBackColor)
	s.engine.Draw(screen)
	s.drawPanel(screen)
}

// drawPanel 右侧描述面板
//
// 自上而下：聚焦维度标题与评分、子评分列表（选中项高亮）、
// 悬停提示、底部快捷键说明。未聚焦时显示引导文案。
func (s *ViewerScene) drawPanel(screen *ebiten.Image) {
	panelX := float32(s.sphereWidth)
	vector.DrawFilledRect(screen, panelX, 0,
		float32(config.PanelWidth), float32(config.WindowHeight), panelBackColor, false)

	if s.textFace == nil {
		return
	}

	x := s.sphereWidth + 24
	y := 36.0

	if s.state.FocusedID() == "" {
		s.drawTextAt(screen, "Dimensions", s.titleFace, x, y, panelTitleColor)
		y += 40
		s.drawTextAt(screen, "Click a node to focus a dimension.", s.textFace, x, y, panelTextColor)
		y += 22
		s.drawTextAt(screen, "Drag to rotate the sphere.", s.textFace, x, y, panelTextColor)
	} else {
		title := fmt.Sprintf("%s  %.0f", s.state.FocusedLabel(), s.state.FocusedScore())
		s.drawTextAt(screen, title, s.titleFace, x, y, panelTitleColor)
		y += 44

		selIndex, _, _, selOK := s.state.SelectedSub()
		for i, sub := range s.state.FocusedSubs() {
			clr := panelTextColor
			if selOK && i == selIndex {
				clr = panelTitleColor
			}
			line := fmt.Sprintf("%s  %.0f", sub.Label, sub.Score)
			s.drawTextAt(screen, line, s.textFace, x, y, clr)
			y += 22
		}
	}

	if hover := s.state.HoverLabel(); hover != "" {
		s.drawTextAt(screen, hover, s.textFace, x, float64(config.WindowHeight)-76, panelTextColor)
	}

	s.drawTextAt(screen, "R reduced motion   M detail   C compare",
		s.hintFace, x, float64(config.WindowHeight)-40, panelFaintColor)
}

// drawTextAt 在指定位置绘制单行文字
func (s *ViewerScene) drawTextAt(screen *ebiten.Image, str string,
	face *text.GoTextFace, x, y float64, clr color.Color) {
	if face == nil {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, str, face, op)
}
