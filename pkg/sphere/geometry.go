// Package sphere 实现径向 3D 节点图可视化引擎
//
// 引擎把一小组带评分的维度渲染为从中心辐射的向量，支持轨道拖拽、
// 悬停检查与点击聚焦动画。几何方向表在构造时生成且终生不可变，
// 只有评分派生的长度随数据变化。
//
// 状态所有权划分（与宿主 UI 的再渲染周期隔离）：
//   - 模拟状态（镜头、手势、逐帧派生量）由渲染循环独占原地修改
//   - 呈现状态（聚焦 ID、悬停、选中）仅在变化时通过回调推送给宿主
package sphere

import (
	"image/color"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/jack-opsapp/ops-site-sub001/pkg/config"
	"github.com/jack-opsapp/ops-site-sub001/pkg/geom"
)

// primaryNode 主维度节点
// dir 来自手工配置的方向表，终生不可变；其余字段为逐帧派生量
type primaryNode struct {
	id    string
	label string
	dir   r3.Vec // 单位方向向量（不可变）

	// 逐帧派生
	length float64 // 评分派生的射线长度（世界单位）
	rot    r3.Vec  // 旋转后的端点（像素单位）
	sx, sy float64 // 投影屏幕坐标
	front  bool    // rot.Z > 0，靠近观察者
}

// subNode 子维度节点
// 通过 parentID 引用父节点（平面表查找），不持有父对象指针
type subNode struct {
	parentID string
	index    int
	label    string
	score    float64
	clr      color.RGBA
	dir      r3.Vec // 扇形展开方向（不可变，确定性计算）

	// 逐帧派生
	rot    r3.Vec
	sx, sy float64
	front  bool
}

// ambientLine 环境装饰线
// 方向从均匀球面分布采样一次，终生稳定；纯装饰，不参与命中检测
type ambientLine struct {
	dir        r3.Vec
	opacity    float64
	lengthFrac float64

	rot r3.Vec
}

// compNode 对照评分节点
// 仅渲染，永不参与命中检测
type compNode struct {
	id  string
	dir r3.Vec

	length float64
	rot    r3.Vec
	sx, sy float64
}

// 子节点肋长中评分无关的基础占比
// ribLen = parentLen * SubRibFraction * (base + (1-base) * score/100)
const subRibBaseFraction = 0.4

// buildGeometry 构造全部不可变方向表
//
// 主方向直接取配置；子方向用确定性正交基扇形展开；
// 环境线方向取斐波那契球面采样，透明度与长度用带种子的随机源
// 采样一次后保持稳定。
func (e *Engine) buildGeometry(profile *config.ScoreProfile, rng *rand.Rand) {
	tun := &e.cfg.Tuning

	e.primaries = make([]*primaryNode, 0, len(e.cfg.Dimensions))
	e.byID = make(map[string]*primaryNode, len(e.cfg.Dimensions))
	for i := range e.cfg.Dimensions {
		d := &e.cfg.Dimensions[i]
		node := &primaryNode{
			id:    d.ID,
			label: d.Label,
			dir:   d.Dir(),
		}
		e.primaries = append(e.primaries, node)
		e.byID[d.ID] = node
	}

	e.subs = make(map[string][]*subNode)
	if profile != nil {
		for _, p := range e.primaries {
			list := profile.Subs(p.id)
			if len(list) == 0 {
				continue
			}
			fan := make([]*subNode, 0, len(list))
			for i, s := range list {
				fan = append(fan, &subNode{
					parentID: p.id,
					index:    i,
					label:    s.Label,
					score:    geom.ClampScore(s.Score),
					clr:      e.cfg.PaletteColor(i),
					dir:      geom.SubDirection(p.dir, i, len(list), tun.SubSpreadAngle),
				})
			}
			e.subs[p.id] = fan
		}
	}

	dirs := geom.SpherePoints(tun.AmbientLineCount)
	e.ambient = make([]*ambientLine, 0, len(dirs))
	for _, dir := range dirs {
		e.ambient = append(e.ambient, &ambientLine{
			dir:        dir,
			opacity:    0.05 + 0.10*rng.Float64(),
			lengthFrac: 0.55 + 0.35*rng.Float64(),
		})
	}

	e.comparison = nil
	if profile != nil && len(profile.Comparison) > 0 {
		for _, p := range e.primaries {
			if score, ok := profile.ComparisonScore(p.id); ok {
				e.comparison = append(e.comparison, &compNode{
					id:     p.id,
					dir:    p.dir,
					length: e.rayLength(score),
				})
			}
		}
	}
}

// rayLength 评分到射线长度（世界单位）
// score = 0 时为最小长度，score = 100 时为最大长度，严格单调
func (e *Engine) rayLength(score float64) float64 {
	tun := &e.cfg.Tuning
	return geom.Lerp(tun.MinRayLength, tun.MaxRayLength, geom.ClampScore(score)/100)
}

// subRibLength 子节点肋长（世界单位），不变量：不超过父射线长度的一半
func (e *Engine) subRibLength(parentLen, score float64) float64 {
	frac := subRibBaseFraction + (1-subRibBaseFraction)*geom.ClampScore(score)/100
	return parentLen * e.cfg.Tuning.SubRibFraction * frac
}
