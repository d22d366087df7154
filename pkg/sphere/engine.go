package sphere

import (
	"image/color"
	"log"
	"math"
	"math/rand"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/jack-opsapp/ops-site-sub001/pkg/camera"
	"github.com/jack-opsapp/ops-site-sub001/pkg/config"
	"github.com/jack-opsapp/ops-site-sub001/pkg/geom"
	"github.com/jack-opsapp/ops-site-sub001/pkg/utils"
)

// DetailMode 子节点悬停模式
//
// 两种模式是有意的产品差异（预览 vs 深度检查），不做统一：
//   - DetailDeep：子节点仅在父节点聚焦后才可悬停/显示
//   - DetailQuick：所有子节点随时可悬停/显示
type DetailMode int

const (
	// DetailDeep 深度模式：子节点随父节点聚焦解锁
	DetailDeep DetailMode = iota
	// DetailQuick 快速模式：全部子节点随时可见可悬停
	DetailQuick
)

// ParseDetailMode 解析设置中的模式字符串，未知值回退到深度模式
func ParseDetailMode(s string) DetailMode {
	if s == "quick" {
		return DetailQuick
	}
	return DetailDeep
}

// String 返回模式的设置字符串形式
func (m DetailMode) String() string {
	if m == DetailQuick {
		return "quick"
	}
	return "deep"
}

// Callbacks 引擎向宿主推送的低频状态变化
// 只在值实际变化时触发，绝不逐帧触发
type Callbacks struct {
	// OnDimensionFocused 聚焦维度变化，id 为空表示聚焦被清除
	OnDimensionFocused func(id string)
	// OnSubSelected 子节点选中切换
	OnSubSelected func(parentID string, index int, selected bool)
	// OnHoverChanged 悬停的主维度变化，id 为空表示无悬停
	OnHoverChanged func(id string)
}

// Options 引擎构造选项
type Options struct {
	DetailMode     DetailMode
	ReducedMotion  bool // 降低动态模式：固定姿态渲染单一静态帧
	ShowComparison bool
	Width, Height  float64 // 画布逻辑尺寸，零值取 640x640
	Seed           int64   // 环境线/粒子随机源种子，0 表示固定默认种子
	LabelFace      *text.GoTextFace
	SubLabelFace   *text.GoTextFace
	Callbacks      Callbacks
}

// Engine 径向球面可视化引擎
//
// 单线程协作式调度：渲染循环独占全部可变状态，事件以 PointerState
// 形式在每帧开头交接，不存在并发修改。每一帧都从静态方向表全量
// 重算（无累积旋转状态），丢帧在下一帧自愈。
type Engine struct {
	cfg *config.SphereConfig
	cam *camera.Camera

	primaries  []*primaryNode
	byID       map[string]*primaryNode
	subs       map[string][]*subNode
	ambient    []*ambientLine
	comparison []*compNode
	particles  []*particle

	scores map[string]float64

	// 选择状态（FocusSelection）
	focusedID      string
	selectedSub    int // -1 表示无选中
	hoverID        string
	hoverSubParent string
	hoverSubIndex  int

	// 挂起的外部聚焦覆写（手势进行中时延迟到手势结束）
	pendingFocus *externalFocus

	detailMode     DetailMode
	reducedMotion  bool
	showComparison bool

	width, height float64
	maxZ          float64 // 当前帧所有旋转点的最大 |z|，每帧重算
	cx, cy        float64 // 当前帧画布中心（含构图偏移）

	labelFace    *text.GoTextFace
	subLabelFace *text.GoTextFace
	callbacks    Callbacks

	// 深度渐变端点颜色，构造时解析一次
	backColor  color.RGBA
	frontColor color.RGBA

	rng  *rand.Rand
	cmds []drawCmd // 绘制指令缓冲，跨帧复用
}

type externalFocus struct {
	id  string
	sub int
}

// New 构造引擎
//
// 方向表、环境线与粒子在此一次性生成；profile 为 nil 时所有评分按 0 处理。
func New(cfg *config.SphereConfig, profile *config.ScoreProfile, opts Options) *Engine {
	seed := opts.Seed
	if seed == 0 {
		seed = 1
	}

	width, height := opts.Width, opts.Height
	if width <= 0 {
		width = 640
	}
	if height <= 0 {
		height = 640
	}

	tun := &cfg.Tuning
	e := &Engine{
		cfg: cfg,
		cam: camera.New(camera.Config{
			DragThreshold:    tun.DragThreshold,
			DragSensitivity:  tun.DragSensitivity,
			BaseTilt:         tun.BaseTilt,
			TiltClamp:        tun.TiltClamp,
			FocusRate:        tun.FocusRate,
			FocusZoom:        tun.FocusZoom,
			RecenterFraction: tun.RecenterFraction,
			AutoRotateRate:   tun.AutoRotateRate,
			HoverSlowdown:    tun.HoverSlowdown,
			DragDecay:        tun.DragDecay,
		}),
		scores:         make(map[string]float64),
		selectedSub:    -1,
		hoverSubIndex:  -1,
		detailMode:     opts.DetailMode,
		reducedMotion:  opts.ReducedMotion,
		showComparison: opts.ShowComparison,
		width:          width,
		height:         height,
		labelFace:      opts.LabelFace,
		subLabelFace:   opts.SubLabelFace,
		callbacks:      opts.Callbacks,
		rng:            rand.New(rand.NewSource(seed)),
	}

	// Validate 已保证两个颜色可解析
	e.backColor, _ = config.ParseHexColor(cfg.BackColor)
	e.frontColor, _ = config.ParseHexColor(cfg.FrontColor)

	e.buildGeometry(profile, e.rng)

	if profile != nil {
		for id, s := range profile.Scores {
			e.scores[id] = geom.ClampScore(s)
		}
	}
	e.rebuildParticles()

	// 初始帧模型，保证 Update 之前 Draw 也有内容
	e.recomputeFrame()
	return e
}

// Update 推进一帧
//
// dt 为实测经过时间（秒），不是固定步长。in 为本帧统一指针状态，
// 在帧开头一次性交接，之后不再读取外部输入。
// 降低动态模式下输入与动画全部停用，重复帧完全一致。
func (e *Engine) Update(dt float64, in utils.PointerState) {
	if e.reducedMotion {
		e.recomputeFrame()
		return
	}

	px, py := float64(in.X), float64(in.Y)

	if in.JustPressed {
		e.cam.PointerDown(px, py)
	} else if in.Pressed && e.cam.GestureActive() {
		e.cam.PointerMove(px, py)
	}

	e.cam.SetHovered(e.hoverID != "" || e.hoverSubIndex >= 0)
	e.cam.Update(dt)
	e.recomputeFrame()
	e.updateHover(px, py)

	if in.JustReleased {
		e.handlePointerUp()
	}

	e.updateParticles(dt)
}

// recomputeFrame 从静态方向表全量重算当前帧的几何
//
// 不保留任何逐节点累积旋转状态（防漂移）；maxZ 针对本帧所有旋转点
// 重新统计，因为旋转持续改变它，缓存无意义。
func (e *Engine) recomputeFrame() {
	tun := &e.cfg.Tuning
	yaw, tilt := e.cam.Yaw(), e.cam.Tilt()
	zoom := e.cam.Zoom()
	rcx, rcy := e.cam.Recenter()

	e.cx = e.width/2 + rcx
	e.cy = e.height/2 + rcy

	// 世界单位（射线长度 0..1）到像素的换算
	unit := math.Min(e.width, e.height) * 0.36 * zoom

	maxZ := 0.0
	track := func(z float64) {
		if a := math.Abs(z); a > maxZ {
			maxZ = a
		}
	}

	for _, p := range e.primaries {
		p.length = e.rayLength(e.scores[p.id])
		p.rot = geom.RotateYawTilt(r3.Scale(p.length*unit, p.dir), yaw, tilt)
		track(p.rot.Z)
	}

	for _, fan := range e.subs {
		for _, s := range fan {
			parent := e.byID[s.parentID]
			rib := e.subRibLength(parent.length, s.score)
			world := r3.Add(
				r3.Scale(parent.length*unit, parent.dir),
				r3.Scale(rib*unit, s.dir),
			)
			s.rot = geom.RotateYawTilt(world, yaw, tilt)
			track(s.rot.Z)
		}
	}

	for _, a := range e.ambient {
		a.rot = geom.RotateYawTilt(
			r3.Scale(a.lengthFrac*tun.MaxRayLength*unit, a.dir), yaw, tilt)
		track(a.rot.Z)
	}

	for _, c := range e.comparison {
		c.rot = geom.RotateYawTilt(r3.Scale(c.length*unit, c.dir), yaw, tilt)
		track(c.rot.Z)
	}

	e.maxZ = maxZ

	// 投影
	for _, p := range e.primaries {
		p.sx, p.sy, _ = geom.Project(p.rot, e.cx, e.cy, tun.FocalLength)
		p.front = p.rot.Z > 0
	}
	for _, fan := range e.subs {
		for _, s := range fan {
			s.sx, s.sy, _ = geom.Project(s.rot, e.cx, e.cy, tun.FocalLength)
			s.front = s.rot.Z > 0
		}
	}
	for _, c := range e.comparison {
		c.sx, c.sy, _ = geom.Project(c.rot, e.cx, e.cy, tun.FocalLength)
	}

	// 聚焦构图：目标取聚焦节点投影偏移的配置比例，每帧用最新投影刷新
	if e.focusedID != "" {
		if node := e.byID[e.focusedID]; node != nil {
			e.cam.SetRecenterTarget(node.sx-e.width/2, node.sy-e.height/2)
		}
	}
}

// SetSize 更新画布逻辑尺寸
// 表面尺寸变化只改变投影输入，绝不重置镜头姿态
func (e *Engine) SetSize(width, height float64) {
	if width > 0 {
		e.width = width
	}
	if height > 0 {
		e.height = height
	}
}

// ApplyScores 替换主维度实时评分（评分会被钳制到 [0, 100]）
// 几何方向不变，只有评分派生的长度变化；粒子按新评分重建
func (e *Engine) ApplyScores(scores map[string]float64) {
	e.scores = make(map[string]float64, len(scores))
	for id, s := range scores {
		e.scores[id] = geom.ClampScore(s)
	}
	e.rebuildParticles()
}

// Scores 返回当前评分的副本
func (e *Engine) Scores() map[string]float64 {
	out := make(map[string]float64, len(e.scores))
	for id, s := range e.scores {
		out[id] = s
	}
	return out
}

// SetDetailMode 切换快速/深度子节点模式
func (e *Engine) SetDetailMode(m DetailMode) {
	e.detailMode = m
}

// SetReducedMotion 切换降低动态模式
func (e *Engine) SetReducedMotion(enabled bool) {
	e.reducedMotion = enabled
	if enabled {
		log.Printf("[Sphere] Reduced motion enabled, rendering static pose")
	}
}

// SetShowComparison 切换对照评分叠加层
func (e *Engine) SetShowComparison(enabled bool) {
	e.showComparison = enabled
}

// FocusedID 返回当前聚焦的维度 ID，空串表示未聚焦
func (e *Engine) FocusedID() string {
	return e.focusedID
}

// SelectedSub 返回当前选中的子节点索引，-1 表示无选中
func (e *Engine) SelectedSub() int {
	return e.selectedSub
}

// HoverID 返回当前悬停的维度 ID
func (e *Engine) HoverID() string {
	return e.hoverID
}
