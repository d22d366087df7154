// cmd/spheredemo/main.go
// 受控模式演示程序
//
// 在查看器之上叠加一条脚本时间线：周期性地通过外部覆写切换聚焦维度，
// 并在两组评分之间平滑过渡，验证实时评分更新与外部聚焦路径。
//
// 用法：
//   go run ./cmd/spheredemo --verbose
package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/jack-opsapp/ops-site-sub001/pkg/app"
	"github.com/jack-opsapp/ops-site-sub001/pkg/config"
	"github.com/jack-opsapp/ops-site-sub001/pkg/scenes"
	"github.com/jack-opsapp/ops-site-sub001/pkg/utils"
)

var (
	verbose = flag.Bool("verbose", false, "显示详细调试信息")
)

// 时间线参数（秒）
const (
	focusInterval = 5.0 // 聚焦切换周期
	blendInterval = 9.0 // 评分组切换周期
	blendDuration = 1.5 // 评分过渡时长
	demoTick      = 1.0 / 60.0
)

// demoApp 在 App 之上叠加脚本时间线
type demoApp struct {
	*app.App

	scene        *scenes.ViewerScene
	profile      *config.ScoreProfile
	dimensionIDs []string

	elapsed     float64
	focusIndex  int
	nextFocusAt float64
	nextBlendAt float64

	// 评分过渡状态
	blending   bool
	blendStart float64
	fromScores map[string]float64
	toScores   map[string]float64
}

// Update 先推进查看器，再推进演示时间线
func (d *demoApp) Update() error {
	if err := d.App.Update(); err != nil {
		return err
	}
	d.elapsed += demoTick

	// 周期性切换聚焦（走外部覆写路径，与点击同等语义）
	if d.elapsed >= d.nextFocusAt {
		d.nextFocusAt = d.elapsed + focusInterval
		id := d.dimensionIDs[d.focusIndex%len(d.dimensionIDs)]
		d.focusIndex++
		log.Printf("[Demo] External focus -> %s", id)
		d.scene.Engine().SetExternalFocus(id, -1)
	}

	// 周期性在两组评分之间过渡
	if !d.blending && d.elapsed >= d.nextBlendAt {
		d.blending = true
		d.blendStart = d.elapsed
		d.fromScores = d.scene.Engine().Scores()
		d.toScores = d.flippedScores(d.fromScores)
		log.Printf("[Demo] Score blend started")
	}
	if d.blending {
		t := (d.elapsed - d.blendStart) / blendDuration
		if t >= 1 {
			t = 1
			d.blending = false
			d.nextBlendAt = d.elapsed + blendInterval
		}
		eased := utils.EaseInOutCubic(t)
		blended := make(map[string]float64, len(d.fromScores))
		for id, from := range d.fromScores {
			blended[id] = utils.Lerp(from, d.toScores[id], eased)
		}
		d.scene.Engine().ApplyScores(blended)
		// 面板档案同步更新，子评分与对照数据保持不变
		d.profile.Scores = blended
		d.scene.State().SetProfile(d.profile)
	}

	return nil
}

// flippedScores 生成过渡目标：每个维度的评分对 100 取补
// 高分变低分、低分变高分，过渡时长度与粒子变化最明显
func (d *demoApp) flippedScores(from map[string]float64) map[string]float64 {
	to := make(map[string]float64, len(from))
	for id, s := range from {
		to[id] = 100 - s
	}
	return to
}

func main() {
	flag.Parse()

	viewerApp, err := app.NewApp(app.Config{Verbose: *verbose})
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}

	scene, ok := viewerApp.GetSceneManager().GetCurrentScene().(*scenes.ViewerScene)
	if !ok {
		log.Fatal("当前场景不是查看器场景")
	}

	sphereCfg, err := config.DefaultSphereConfig()
	if err != nil {
		log.Fatalf("内置球面配置加载失败: %v", err)
	}
	ids := make([]string, 0, len(sphereCfg.Dimensions))
	for i := range sphereCfg.Dimensions {
		ids = append(ids, sphereCfg.Dimensions[i].ID)
	}

	profile, err := config.DefaultScoreProfile()
	if err != nil {
		log.Fatalf("内置评分档案加载失败: %v", err)
	}

	demo := &demoApp{
		App:          viewerApp,
		scene:        scene,
		profile:      profile,
		dimensionIDs: ids,
		nextFocusAt:  focusInterval,
		nextBlendAt:  blendInterval,
	}

	ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
	ebiten.SetWindowTitle("维度球面查看器 - 演示")

	if err := ebiten.RunGame(demo); err != nil {
		log.Fatal(err)
	}
}
