// Package geom 提供球面可视化所需的 3D 数学原语
//
// 包含旋转、透视投影、深度归一化、子节点扇形方向以及均匀球面采样。
// 所有函数都是纯函数：无内部状态，相同输入永远产生相同输出。
// 向量类型统一使用 gonum 的 r3.Vec。
package geom

import (
	"image/color"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// projEpsilon 防止透视除法分母趋近于零
// 当点无限接近焦点平面时，缩放因子被钳制为 focal/projEpsilon
const projEpsilon = 1e-3

// RotateYawTilt 对点 p 依次应用 Y 轴旋转（yaw）和 X 轴旋转（tilt）
//
// 旋转顺序与镜头模型保持一致：先水平环绕，再整体俯仰。
// yaw = tilt = 0 时为恒等变换。
func RotateYawTilt(p r3.Vec, yaw, tilt float64) r3.Vec {
	cy, sy := math.Cos(yaw), math.Sin(yaw)
	ct, st := math.Cos(tilt), math.Sin(tilt)

	// Y 轴旋转
	x := p.X*cy + p.Z*sy
	z := -p.X*sy + p.Z*cy

	// X 轴旋转（俯仰）
	y := p.Y*ct - z*st
	z = p.Y*st + z*ct

	return r3.Vec{X: x, Y: y, Z: z}
}

// Project 将旋转后的点透视投影到屏幕坐标
//
// 约定 z > 0 为靠近观察者的半空间。
// 公式：scale = F/(F-z)，screenX = cx + x*scale，screenY = cy + y*scale。
// z = 0 平面上的点不产生任何透视畸变（scale = 1）。
//
// 返回：屏幕 X、屏幕 Y、透视缩放因子
func Project(p r3.Vec, cx, cy, focal float64) (sx, sy, scale float64) {
	denom := focal - p.Z
	if denom < projEpsilon {
		denom = projEpsilon
	}
	scale = focal / denom
	return cx + p.X*scale, cy + p.Y*scale, scale
}

// DepthNorm 将旋转后的 z 坐标归一化到 [0, 1]
//
// maxZ 为当前帧所有旋转点的最大 |z|，必须每帧重新计算（旋转会持续改变它）。
// 0 表示最远（背面），1 表示最近（正面）。
// maxZ <= 0 时返回 0.5（整帧退化为平面）。
func DepthNorm(z, maxZ float64) float64 {
	if maxZ <= 0 {
		return 0.5
	}
	return Clamp((z/maxZ+1)/2, 0, 1)
}

// SubDirection 计算子节点的扇形展开方向
//
// 以 parent 为轴构建正交基：参考上向量取世界 Y 轴，当 parent 与 Y 轴
// 接近平行（|parent·Y| > 0.9）时改用世界 X 轴，避免叉积退化。
// 子方向偏离 parent 角度为 spread，并绕 parent 旋转 2π*index/total。
// 结果重新归一化为单位向量。完全确定性，无随机成分。
func SubDirection(parent r3.Vec, index, total int, spread float64) r3.Vec {
	if total <= 0 {
		return parent
	}

	up := r3.Vec{Y: 1}
	if math.Abs(parent.Y) > 0.9 {
		up = r3.Vec{X: 1}
	}

	// 两条与 parent 垂直的切向量
	t1 := r3.Unit(r3.Cross(up, parent))
	t2 := r3.Unit(r3.Cross(parent, t1))

	phi := 2 * math.Pi * float64(index) / float64(total)
	radial := r3.Add(r3.Scale(math.Cos(phi), t1), r3.Scale(math.Sin(phi), t2))

	dir := r3.Add(
		r3.Scale(math.Cos(spread), parent),
		r3.Scale(math.Sin(spread), radial),
	)
	return r3.Unit(dir)
}

// SpherePoints 生成 n 个在单位球面上近似均匀分布的方向
//
// 使用斐波那契螺旋（黄金角步进），对给定 n 结果完全确定。
// 用于环境装饰线的稳定方向采样。
func SpherePoints(n int) []r3.Vec {
	if n <= 0 {
		return nil
	}

	// 黄金角 ≈ 2.39996 rad
	ga := math.Pi * (3 - math.Sqrt(5))

	points := make([]r3.Vec, 0, n)
	for i := 0; i < n; i++ {
		y := 1 - 2*(float64(i)+0.5)/float64(n)
		r := math.Sqrt(1 - y*y)
		theta := ga * float64(i)
		points = append(points, r3.Vec{
			X: r * math.Cos(theta),
			Y: y,
			Z: r * math.Sin(theta),
		})
	}
	return points
}

// Lerp 线性插值：t=0 返回 a，t=1 返回 b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Clamp 将 v 限制在 [lo, hi] 范围内
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampScore 将评分限制在 [0, 100] 范围内
// 任何长度计算之前都必须先经过此钳制
func ClampScore(s float64) float64 {
	return Clamp(s, 0, 100)
}

// WrapAngle 将角度差归一化到 (-π, π]
// 用于镜头沿最短角路径逼近目标 yaw（跨 2π 回绕感知）
func WrapAngle(d float64) float64 {
	for d > math.Pi {
		d -= 2 * math.Pi
	}
	for d <= -math.Pi {
		d += 2 * math.Pi
	}
	return d
}

// LerpRGB 在两个颜色之间按 t 插值，t 会被钳制到 [0, 1]
// 用于深度颜色渐变（背面灰 → 正面强调色）
func LerpRGB(a, b color.RGBA, t float64) color.RGBA {
	t = Clamp(t, 0, 1)
	return color.RGBA{
		R: uint8(Lerp(float64(a.R), float64(b.R), t)),
		G: uint8(Lerp(float64(a.G), float64(b.G), t)),
		B: uint8(Lerp(float64(a.B), float64(b.B), t)),
		A: uint8(Lerp(float64(a.A), float64(b.A), t)),
	}
}

// ScaleAlpha 按不透明度缩放颜色（预乘 alpha）
// ebiten 的 vector 绘制要求预乘 alpha 颜色
func ScaleAlpha(c color.RGBA, a float64) color.RGBA {
	a = Clamp(a, 0, 1)
	return color.RGBA{
		R: uint8(float64(c.R) * a),
		G: uint8(float64(c.G) * a),
		B: uint8(float64(c.B) * a),
		A: uint8(float64(c.A) * a),
	}
}
