package camera

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func testConfig() Config {
	return Config{
		DragThreshold:    6,
		DragSensitivity:  0.008,
		BaseTilt:         -0.35,
		TiltClamp:        0.9,
		FocusRate:        2.45,
		FocusZoom:        1.35,
		RecenterFraction: 0.15,
		AutoRotateRate:   0.18,
		HoverSlowdown:    0.15,
		DragDecay:        6.0,
	}
}

const frameDt = 1.0 / 60.0

// stepFrames 以 60fps 推进 n 帧
func stepFrames(c *Camera, n int) {
	for i := 0; i < n; i++ {
		c.Update(frameDt)
	}
}

// TestFocusOn_TargetAngles 测试聚焦目标角度公式
//
// targetYaw = -atan2(dirX, dirZ)，targetTilt = atan2(dirY, √(dirX²+dirZ²))
func TestFocusOn_TargetAngles(t *testing.T) {
	c := New(testConfig())
	dir := r3.Unit(r3.Vec{X: 1, Y: 0.5, Z: -0.3})

	c.FocusOn(dir)

	wantYaw := -math.Atan2(dir.X, dir.Z)
	wantTilt := math.Atan2(dir.Y, math.Hypot(dir.X, dir.Z))
	if c.targetYaw != wantYaw {
		t.Errorf("targetYaw = %v, want %v", c.targetYaw, wantYaw)
	}
	if c.targetTilt != wantTilt {
		t.Errorf("targetTilt = %v, want %v", c.targetTilt, wantTilt)
	}
	if !c.Focused() {
		t.Error("camera should be focused")
	}
}

// TestUpdate_FocusConverges 测试聚焦后 yaw 收敛到目标
func TestUpdate_FocusConverges(t *testing.T) {
	c := New(testConfig())
	c.FocusOn(r3.Vec{X: 1}) // targetYaw = -π/2

	stepFrames(c, 600) // 10 秒

	want := math.Mod(-math.Pi/2+2*math.Pi, 2*math.Pi)
	if diff := math.Abs(c.yaw - want); diff > 1e-3 {
		t.Errorf("yaw = %v, want ≈ %v (diff %v)", c.yaw, want, diff)
	}
	if diff := math.Abs(c.Zoom() - c.cfg.FocusZoom); diff > 1e-3 {
		t.Errorf("zoom = %v, want ≈ %v", c.Zoom(), c.cfg.FocusZoom)
	}
}

// TestUpdate_ShortestAngularPath 测试 yaw 沿最短角路径跨 2π 回绕逼近目标
func TestUpdate_ShortestAngularPath(t *testing.T) {
	c := New(testConfig())
	c.yaw = 2*math.Pi - 0.1
	c.focused = true
	c.targetYaw = 0.1
	c.targetTilt = c.cfg.BaseTilt

	c.Update(frameDt)

	// 正确方向是向前跨过 2π（yaw 增大或回绕到小角度），而不是倒退 2π-0.2
	if c.yaw > 2*math.Pi-0.1 || c.yaw < 0.15 {
		// yaw 要么略超过 2π 后回绕为小值，要么仍接近 2π
		return
	}
	t.Errorf("yaw = %v, moved the long way around", c.yaw)
}

// TestUpdate_AutoRotate 测试未聚焦时按角速度自转
func TestUpdate_AutoRotate(t *testing.T) {
	c := New(testConfig())

	c.Update(1.0)

	if diff := math.Abs(c.yaw - c.cfg.AutoRotateRate); diff > 1e-9 {
		t.Errorf("yaw after 1s = %v, want %v", c.yaw, c.cfg.AutoRotateRate)
	}
}

// TestUpdate_HoverSlowdown 测试悬停时自转降速到配置比例
func TestUpdate_HoverSlowdown(t *testing.T) {
	c := New(testConfig())
	c.SetHovered(true)

	c.Update(1.0)

	want := c.cfg.AutoRotateRate * c.cfg.HoverSlowdown
	if diff := math.Abs(c.yaw - want); diff > 1e-9 {
		t.Errorf("hovered yaw after 1s = %v, want %v", c.yaw, want)
	}
}

// TestGesture_ClickBelowThreshold 测试位移未超过阈值时不判定为拖拽
func TestGesture_ClickBelowThreshold(t *testing.T) {
	c := New(testConfig())

	c.PointerDown(100, 100)
	c.PointerMove(103, 102) // 位移 ≈ 3.6 < 6
	if wasDrag := c.PointerUp(); wasDrag {
		t.Error("small movement should not classify as drag")
	}
}

// TestGesture_DragSticky 测试拖拽判定对手势粘滞：回到起点也不撤销
func TestGesture_DragSticky(t *testing.T) {
	c := New(testConfig())

	c.PointerDown(100, 100)
	c.PointerMove(150, 100) // 超过阈值，判定为拖拽
	if !c.Dragging() {
		t.Fatal("should be classified as drag")
	}

	c.PointerMove(100, 100) // 回到起点
	if wasDrag := c.PointerUp(); !wasDrag {
		t.Error("drag classification must be sticky for the gesture")
	}
}

// TestGesture_DragClearsFocus 测试拖拽释放清除聚焦状态
func TestGesture_DragClearsFocus(t *testing.T) {
	c := New(testConfig())
	c.FocusOn(r3.Vec{Z: 1})

	c.PointerDown(100, 100)
	c.PointerMove(200, 100)
	c.PointerUp()

	if c.Focused() {
		t.Error("drag release should clear focus")
	}
	if c.targetZoom != 1 {
		t.Errorf("targetZoom = %v, want 1 after focus cleared", c.targetZoom)
	}
}

// TestGesture_DragAppliesOffsets 测试拖拽按灵敏度写入偏移且俯仰被钳制
func TestGesture_DragAppliesOffsets(t *testing.T) {
	c := New(testConfig())

	c.PointerDown(0, 0)
	c.PointerMove(100, 1000)

	dy, dtilt := c.DragOffsets()
	if diff := math.Abs(dy - 100*c.cfg.DragSensitivity); diff > 1e-9 {
		t.Errorf("dragYaw = %v, want %v", dy, 100*c.cfg.DragSensitivity)
	}
	// 1000 * 0.008 = 8 超出钳制范围
	if dtilt != c.cfg.TiltClamp {
		t.Errorf("dragTilt = %v, want clamped to %v", dtilt, c.cfg.TiltClamp)
	}
}

// TestUpdate_DragOffsetsDecayToZero 测试释放后拖拽偏移弹性衰减并精确归零
func TestUpdate_DragOffsetsDecayToZero(t *testing.T) {
	c := New(testConfig())

	c.PointerDown(0, 0)
	c.PointerMove(80, 40)
	c.PointerUp()

	startYaw, _ := c.DragOffsets()
	c.Update(frameDt)
	midYaw, _ := c.DragOffsets()
	if math.Abs(midYaw) >= math.Abs(startYaw) {
		t.Error("drag offset should decay after release")
	}

	stepFrames(c, 600)
	dy, dt2 := c.DragOffsets()
	if dy != 0 || dt2 != 0 {
		t.Errorf("drag offsets = (%v, %v), want exactly (0, 0) after decay", dy, dt2)
	}
}

// TestUpdate_NoDecayWhileDragging 测试拖拽进行中偏移不衰减
func TestUpdate_NoDecayWhileDragging(t *testing.T) {
	c := New(testConfig())

	c.PointerDown(0, 0)
	c.PointerMove(80, 0)
	before, _ := c.DragOffsets()

	c.Update(frameDt)

	after, _ := c.DragOffsets()
	if before != after {
		t.Errorf("drag offset changed during active drag: %v -> %v", before, after)
	}
}

// TestFocusOn_RefocusKeepsProgress 测试对同一目标重复聚焦不重置已完成的缩放进度
//
// 场景：点击 Drive 聚焦后再次点击 Drive，已达成的缩放/构图进度必须保留
func TestFocusOn_RefocusKeepsProgress(t *testing.T) {
	c := New(testConfig())
	dir := r3.Vec{X: 1}

	c.FocusOn(dir)
	stepFrames(c, 120) // 2 秒，缩放已接近目标
	zoomBefore := c.Zoom()

	c.FocusOn(dir) // 再次点击同一维度
	if c.Zoom() != zoomBefore {
		t.Errorf("refocus reset zoom: %v -> %v", zoomBefore, c.Zoom())
	}

	c.Update(frameDt)
	if c.Zoom() < zoomBefore {
		t.Error("zoom regressed after refocus")
	}
}

// TestSetRecenterTarget 测试构图偏移目标取投影偏移的配置比例并平滑逼近
func TestSetRecenterTarget(t *testing.T) {
	c := New(testConfig())

	c.SetRecenterTarget(100, -60)
	stepFrames(c, 600)

	rx, ry := c.Recenter()
	if diff := math.Abs(rx - 15); diff > 1e-3 {
		t.Errorf("recenterX = %v, want ≈ 15", rx)
	}
	if diff := math.Abs(ry - (-9)); diff > 1e-3 {
		t.Errorf("recenterY = %v, want ≈ -9", ry)
	}
}

// TestClearFocus_ReturnsToNeutral 测试退出聚焦后缩放与构图回到中性值
func TestClearFocus_ReturnsToNeutral(t *testing.T) {
	c := New(testConfig())
	c.FocusOn(r3.Vec{Z: 1})
	c.SetRecenterTarget(200, 100)
	stepFrames(c, 300)

	c.ClearFocus()
	stepFrames(c, 600)

	if diff := math.Abs(c.Zoom() - 1); diff > 1e-3 {
		t.Errorf("zoom = %v, want ≈ 1", c.Zoom())
	}
	rx, ry := c.Recenter()
	if math.Abs(rx) > 1e-3 || math.Abs(ry) > 1e-3 {
		t.Errorf("recenter = (%v, %v), want ≈ (0, 0)", rx, ry)
	}
}

// TestUpdate_YawWraps 测试 yaw 始终回绕在 [0, 2π) 范围内
func TestUpdate_YawWraps(t *testing.T) {
	c := New(testConfig())

	// 以自转速率运行足够长时间跨过 2π
	for i := 0; i < 3000; i++ {
		c.Update(0.05)
		if c.yaw < 0 || c.yaw >= 2*math.Pi {
			t.Fatalf("yaw = %v out of [0, 2π)", c.yaw)
		}
	}
}

// TestUpdate_ZeroDt 测试 dt <= 0 时状态不变（降级帧自愈）
func TestUpdate_ZeroDt(t *testing.T) {
	c := New(testConfig())
	c.yaw = 1.23

	c.Update(0)
	c.Update(-1)

	if c.yaw != 1.23 {
		t.Errorf("yaw changed on zero dt: %v", c.yaw)
	}
}
