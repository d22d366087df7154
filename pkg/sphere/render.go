package sphere

import (
	"image/color"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/jack-opsapp/ops-site-sub001/pkg/geom"
)

// 画家算法合成
//
// 无 z-buffer：把本帧全部图元按旋转后 z 从远到近排序后依次绘制，
// 半透明描边叠加才能正确合成。深度归一化值统一驱动颜色插值
// （背面灰 → 正面强调色）、不透明度与线宽，射线/节点/标签共用
// 同一套深度线索。

// drawKind 绘制图元类型
type drawKind int

const (
	kindLine drawKind = iota
	kindCircle
	kindRing
	kindLabel
)

// drawCmd 一条绘制指令
// 各类型复用同一结构体：line 用 x1..y2，circle/ring 用 x1/y1/radius，
// label 用 x1/y1/label/face
type drawCmd struct {
	z      float64
	kind   drawKind
	x1, y1 float32
	x2, y2 float32
	radius float32
	width  float32
	clr    color.RGBA
	label  string
	face   *text.GoTextFace
}

// Draw 渲染当前帧模型
// screen 为 nil 时不绘制任何内容（宿主不支持绘图表面时的降级）
func (e *Engine) Draw(screen *ebiten.Image) {
	if screen == nil {
		return
	}

	e.buildDrawList()
	cx, cy := float32(e.cx), float32(e.cy)

	// 中心锚点
	vector.DrawFilledCircle(screen, cx, cy, 2.5, e.backColor, true)

	for i := range e.cmds {
		c := &e.cmds[i]
		switch c.kind {
		case kindLine:
			vector.StrokeLine(screen, c.x1, c.y1, c.x2, c.y2, c.width, c.clr, true)
		case kindCircle:
			vector.DrawFilledCircle(screen, c.x1, c.y1, c.radius, c.clr, true)
		case kindRing:
			vector.StrokeCircle(screen, c.x1, c.y1, c.radius, c.width, c.clr, true)
		case kindLabel:
			if c.face != nil {
				op := &text.DrawOptions{}
				op.GeoM.Translate(float64(c.x1), float64(c.y1))
				op.ColorScale.ScaleWithColor(c.clr)
				text.Draw(screen, c.label, c.face, op)
			}
		}
	}
}

// buildDrawList 收集本帧全部图元并按 z 从远到近排序
//
// 图元来源：环境线、静态网格连线、对照叠加层、主射线/节点/标签、
// 子扇形、前景粒子。结果写入复用缓冲 e.cmds。
func (e *Engine) buildDrawList() {
	e.cmds = e.cmds[:0]
	cx, cy := float32(e.cx), float32(e.cy)
	back, front := e.backColor, e.frontColor

	// 环境装饰线
	for _, a := range e.ambient {
		d := geom.DepthNorm(a.rot.Z, e.maxZ)
		sx, sy, _ := geom.Project(a.rot, e.cx, e.cy, e.cfg.Tuning.FocalLength)
		clr := geom.ScaleAlpha(geom.LerpRGB(back, front, d), a.opacity*(0.4+0.6*d))
		e.cmds = append(e.cmds, drawCmd{
			z: a.rot.Z, kind: kindLine,
			x1: cx, y1: cy, x2: float32(sx), y2: float32(sy),
			width: 1, clr: clr,
		})
	}

	// 静态网格连线（邻接表与评分无关）
	for _, edge := range e.cfg.Mesh {
		a, b := e.byID[edge.From], e.byID[edge.To]
		z := (a.rot.Z + b.rot.Z) / 2
		d := geom.DepthNorm(z, e.maxZ)
		clr := geom.ScaleAlpha(geom.LerpRGB(back, front, d), 0.10+0.20*d)
		e.cmds = append(e.cmds, drawCmd{
			z: z, kind: kindLine,
			x1: float32(a.sx), y1: float32(a.sy),
			x2: float32(b.sx), y2: float32(b.sy),
			width: 1, clr: clr,
		})
	}

	// 对照叠加层：细线 + 空心端点，仅渲染
	if e.showComparison {
		for _, c := range e.comparison {
			d := geom.DepthNorm(c.rot.Z, e.maxZ)
			clr := geom.ScaleAlpha(back, 0.25+0.35*d)
			e.cmds = append(e.cmds, drawCmd{
				z: c.rot.Z, kind: kindLine,
				x1: cx, y1: cy, x2: float32(c.sx), y2: float32(c.sy),
				width: 1, clr: clr,
			})
			e.cmds = append(e.cmds, drawCmd{
				z: c.rot.Z, kind: kindRing,
				x1: float32(c.sx), y1: float32(c.sy),
				radius: 3, width: 1, clr: clr,
			})
		}
	}

	// 主射线、节点与标签
	for _, p := range e.primaries {
		d := geom.DepthNorm(p.rot.Z, e.maxZ)
		clr := geom.LerpRGB(back, front, d)
		highlighted := p.id == e.hoverID || p.id == e.focusedID

		e.cmds = append(e.cmds, drawCmd{
			z: p.rot.Z, kind: kindLine,
			x1: cx, y1: cy, x2: float32(p.sx), y2: float32(p.sy),
			width: float32(1 + 2*d),
			clr:   geom.ScaleAlpha(clr, 0.5+0.5*d),
		})

		radius := float32(4 + 3*d)
		e.cmds = append(e.cmds, drawCmd{
			z: p.rot.Z, kind: kindCircle,
			x1: float32(p.sx), y1: float32(p.sy),
			radius: radius, clr: geom.ScaleAlpha(clr, 0.6+0.4*d),
		})
		if highlighted {
			e.cmds = append(e.cmds, drawCmd{
				z: p.rot.Z, kind: kindRing,
				x1: float32(p.sx), y1: float32(p.sy),
				radius: radius + 4, width: 1.5,
				clr: geom.ScaleAlpha(front, 0.4+0.6*d),
			})
		}

		e.cmds = append(e.cmds, drawCmd{
			z: p.rot.Z, kind: kindLabel,
			x1: float32(p.sx) + 10, y1: float32(p.sy) - 18,
			clr:   geom.ScaleAlpha(clr, 0.45+0.55*d),
			label: p.label, face: e.labelFace,
		})
	}

	// 子扇形：快速模式全部可见，深度模式仅聚焦父节点的扇形
	for parentID, fan := range e.subs {
		if !e.subVisible(parentID) {
			continue
		}
		parent := e.byID[parentID]
		selected := parentID == e.focusedID
		for _, s := range fan {
			d := geom.DepthNorm(s.rot.Z, e.maxZ)
			clr := geom.ScaleAlpha(s.clr, 0.4+0.6*d)

			e.cmds = append(e.cmds, drawCmd{
				z: s.rot.Z, kind: kindLine,
				x1: float32(parent.sx), y1: float32(parent.sy),
				x2: float32(s.sx), y2: float32(s.sy),
				width: 1, clr: clr,
			})
			e.cmds = append(e.cmds, drawCmd{
				z: s.rot.Z, kind: kindCircle,
				x1: float32(s.sx), y1: float32(s.sy),
				radius: float32(2.5 + 1.5*d), clr: clr,
			})
			if selected && s.index == e.selectedSub {
				e.cmds = append(e.cmds, drawCmd{
					z: s.rot.Z, kind: kindRing,
					x1: float32(s.sx), y1: float32(s.sy),
					radius: 7, width: 1.5,
					clr: geom.ScaleAlpha(s.clr, 0.9),
				})
			}
			if selected {
				e.cmds = append(e.cmds, drawCmd{
					z: s.rot.Z, kind: kindLabel,
					x1: float32(s.sx) + 8, y1: float32(s.sy) - 14,
					clr:   geom.ScaleAlpha(s.clr, 0.5+0.5*d),
					label: s.label, face: e.subLabelFace,
				})
			}
		}
	}

	// 前景粒子（降低动态模式下不播种也不推进）
	if !e.reducedMotion {
		for _, pt := range e.particles {
			node := e.byID[pt.parentID]
			if node == nil {
				continue
			}
			px := e.cx + (node.sx-e.cx)*pt.t
			py := e.cy + (node.sy-e.cy)*pt.t
			z := node.rot.Z * pt.t
			d := geom.DepthNorm(z, e.maxZ)
			alpha := particleEnvelope(pt.t) * (0.3 + 0.7*d)
			e.cmds = append(e.cmds, drawCmd{
				z: z, kind: kindCircle,
				x1: float32(px), y1: float32(py),
				radius: float32(1.5 + d), clr: geom.ScaleAlpha(front, alpha),
			})
		}
	}

	// 从远到近排序（z 升序），半透明描边才能正确叠加
	sort.SliceStable(e.cmds, func(i, j int) bool {
		return e.cmds[i].z < e.cmds[j].z
	})
}

// subVisible 子扇形是否绘制（与命中检测共用同一规则）
func (e *Engine) subVisible(parentID string) bool {
	return e.subHitAllowed(parentID)
}
