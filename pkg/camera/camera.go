// Package camera 实现球面可视化的轨道镜头状态机
//
// 状态流转：FREE_ROTATE → DRAGGING →（释放后）回到 FREE_ROTATE 或进入 FOCUSED。
// 所有连续量（yaw、俯仰偏移、缩放、构图偏移）每帧通过指数平滑逼近目标，
// 平滑速率以"每秒"为单位，与帧率无关。
//
// 镜头只持有标量状态，由渲染循环独占推进；事件处理器仅记录增量，
// 不存在并发修改。
package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/jack-opsapp/ops-site-sub001/pkg/geom"
)

// Gesture 手势状态
type Gesture int

const (
	// GestureNone 无活动手势
	GestureNone Gesture = iota
	// GestureDown 指针已按下，尚未超过拖拽阈值
	GestureDown
	// GestureDrag 已判定为拖拽（对本次手势粘滞，中途回到起点也不撤销）
	GestureDrag
)

// 拖拽偏移衰减到此值以下时直接归零
const decaySnapEpsilon = 1e-4

// Config 镜头调参常量，单位约定见 config.TuningConfig
type Config struct {
	DragThreshold    float64 // 点击/拖拽判定阈值（像素）
	DragSensitivity  float64 // 像素位移到弧度的换算系数
	BaseTilt         float64 // 基础俯仰角
	TiltClamp        float64 // 拖拽俯仰偏移钳制范围（±）
	FocusRate        float64 // 聚焦平滑速率（每秒）
	FocusZoom        float64 // 聚焦目标缩放
	RecenterFraction float64 // 构图偏移比例
	AutoRotateRate   float64 // 自由旋转角速度（弧度/秒）
	HoverSlowdown    float64 // 悬停时自转速率保留比例
	DragDecay        float64 // 拖拽偏移释放后的衰减速率（每秒）
}

// Camera 轨道镜头状态
//
// Yaw 按 mod 2π 回绕；总俯仰 = BaseTilt + 聚焦偏移 + 拖拽偏移（钳制）。
type Camera struct {
	cfg Config

	yaw        float64 // 自转 yaw（不含拖拽偏移）
	tiltOffset float64 // 聚焦产生的俯仰偏移（平滑量）
	dragYaw    float64 // 拖拽 yaw 偏移
	dragTilt   float64 // 拖拽俯仰偏移
	zoom       float64
	recenterX  float64
	recenterY  float64

	// 聚焦目标
	focused    bool
	targetYaw  float64
	targetTilt float64

	// 平滑目标
	targetZoom      float64
	targetRecenterX float64
	targetRecenterY float64

	// 手势状态
	gesture        Gesture
	startX, startY float64
	startDragYaw   float64
	startDragTilt  float64

	hovered bool
}

// New 创建镜头，初始位于默认姿态（yaw = 0，俯仰 = BaseTilt，缩放 = 1）
func New(cfg Config) *Camera {
	return &Camera{
		cfg:        cfg,
		zoom:       1,
		targetZoom: 1,
	}
}

// Update 按实测经过时间推进所有平滑量
//
// 未聚焦时 yaw 以固定角速度自转（悬停时降速）；聚焦时沿最短角路径
// 指数逼近目标。拖拽中的偏移由 PointerMove 直接写入，释放后按
// 乘性衰减回零，低于 epsilon 时精确归零。
func (c *Camera) Update(dt float64) {
	if dt <= 0 {
		return
	}

	rate := 1 - math.Exp(-c.cfg.FocusRate*dt)

	if c.focused {
		// 回绕感知的最短角路径
		delta := geom.WrapAngle(c.targetYaw - c.yaw)
		c.yaw += delta * rate
		c.tiltOffset += ((c.targetTilt - c.cfg.BaseTilt) - c.tiltOffset) * rate
	} else {
		if c.gesture != GestureDrag {
			speed := c.cfg.AutoRotateRate
			if c.hovered {
				speed *= c.cfg.HoverSlowdown
			}
			c.yaw += speed * dt
		}
		c.tiltOffset += (0 - c.tiltOffset) * rate
	}

	c.zoom += (c.targetZoom - c.zoom) * rate
	c.recenterX += (c.targetRecenterX - c.recenterX) * rate
	c.recenterY += (c.targetRecenterY - c.recenterY) * rate

	// 释放后的拖拽偏移弹性衰减
	if c.gesture == GestureNone {
		decay := math.Exp(-c.cfg.DragDecay * dt)
		c.dragYaw *= decay
		c.dragTilt *= decay
		if math.Abs(c.dragYaw) < decaySnapEpsilon {
			c.dragYaw = 0
		}
		if math.Abs(c.dragTilt) < decaySnapEpsilon {
			c.dragTilt = 0
		}
	}

	// yaw 回绕到 [0, 2π)
	c.yaw = math.Mod(c.yaw, 2*math.Pi)
	if c.yaw < 0 {
		c.yaw += 2 * math.Pi
	}
}

// PointerDown 手势开始：记录起点与当前偏移
func (c *Camera) PointerDown(x, y float64) {
	c.gesture = GestureDown
	c.startX, c.startY = x, y
	c.startDragYaw = c.dragYaw
	c.startDragTilt = c.dragTilt
}

// PointerMove 手势移动
//
// 位移一旦超过阈值即判定为拖拽，且对本次手势粘滞。
// 拖拽中按灵敏度写入 yaw/俯仰偏移，俯仰钳制到 ±TiltClamp。
func (c *Camera) PointerMove(x, y float64) {
	if c.gesture == GestureNone {
		return
	}

	dx, dy := x-c.startX, y-c.startY

	if c.gesture == GestureDown {
		if math.Hypot(dx, dy) > c.cfg.DragThreshold {
			c.gesture = GestureDrag
		}
	}

	if c.gesture == GestureDrag {
		c.dragYaw = c.startDragYaw + dx*c.cfg.DragSensitivity
		c.dragTilt = geom.Clamp(
			c.startDragTilt+dy*c.cfg.DragSensitivity,
			-c.cfg.TiltClamp, c.cfg.TiltClamp,
		)
	}
}

// PointerUp 手势结束
//
// 返回本次手势是否被判定为拖拽。拖拽会清除任何聚焦状态
// （拖拽永远不产生聚焦切换的副作用，点击语义由调用方基于返回值处理）。
func (c *Camera) PointerUp() (wasDrag bool) {
	wasDrag = c.gesture == GestureDrag
	c.gesture = GestureNone
	if wasDrag {
		c.ClearFocus()
	}
	return wasDrag
}

// GestureActive 是否有进行中的手势（按下或拖拽）
func (c *Camera) GestureActive() bool {
	return c.gesture != GestureNone
}

// Dragging 当前手势是否已判定为拖拽
func (c *Camera) Dragging() bool {
	return c.gesture == GestureDrag
}

// FocusOn 进入聚焦状态，计算让 dir 正对观察者的目标姿态
//
// targetYaw = -atan2(dirX, dirZ)，targetTilt = atan2(dirY, √(dirX²+dirZ²))。
// 对已聚焦目标重复调用只会刷新相同的目标值，不会重置已完成的
// 缩放/构图平滑进度。
func (c *Camera) FocusOn(dir r3.Vec) {
	c.focused = true
	c.targetYaw = -math.Atan2(dir.X, dir.Z)
	c.targetTilt = math.Atan2(dir.Y, math.Hypot(dir.X, dir.Z))
	c.targetZoom = c.cfg.FocusZoom
}

// ClearFocus 退出聚焦，缩放与构图偏移平滑回到中性值
func (c *Camera) ClearFocus() {
	c.focused = false
	c.targetZoom = 1
	c.targetRecenterX = 0
	c.targetRecenterY = 0
}

// Focused 是否处于聚焦状态
func (c *Camera) Focused() bool {
	return c.focused
}

// SetRecenterTarget 设置构图偏移目标
//
// dx/dy 为聚焦节点投影位置相对画布中心的偏移，实际目标取其
// RecenterFraction 比例。每帧由渲染器用最新投影重新设置。
func (c *Camera) SetRecenterTarget(dx, dy float64) {
	c.targetRecenterX = c.cfg.RecenterFraction * dx
	c.targetRecenterY = c.cfg.RecenterFraction * dy
}

// SetHovered 设置悬停标志（降低自转速率便于观察，无需点击）
func (c *Camera) SetHovered(hovered bool) {
	c.hovered = hovered
}

// Yaw 返回当前有效 yaw（含拖拽偏移）
func (c *Camera) Yaw() float64 {
	return c.yaw + c.dragYaw
}

// Tilt 返回当前有效俯仰角（基础 + 聚焦偏移 + 拖拽偏移）
func (c *Camera) Tilt() float64 {
	return c.cfg.BaseTilt + c.tiltOffset + c.dragTilt
}

// Zoom 返回当前缩放因子
func (c *Camera) Zoom() float64 {
	return c.zoom
}

// Recenter 返回当前构图偏移
func (c *Camera) Recenter() (x, y float64) {
	return c.recenterX, c.recenterY
}

// DragOffsets 返回当前拖拽偏移（测试与调试用）
func (c *Camera) DragOffsets() (yaw, tilt float64) {
	return c.dragYaw, c.dragTilt
}
