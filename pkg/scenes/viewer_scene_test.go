package scenes

import (
	"testing"

	"github.com/jack-opsapp/ops-site-sub001/pkg/config"
	"github.com/jack-opsapp/ops-site-sub001/pkg/game"
)

// newTestViewerScene 用内置默认配置与降级偏好管理器构造场景
func newTestViewerScene(t *testing.T, reducedMotion bool) *ViewerScene {
	t.Helper()

	cfg, err := config.DefaultSphereConfig()
	if err != nil {
		t.Fatalf("DefaultSphereConfig failed: %v", err)
	}
	profile, err := config.DefaultScoreProfile()
	if err != nil {
		t.Fatalf("DefaultScoreProfile failed: %v", err)
	}
	sm, err := game.NewSettingsManager(nil)
	if err != nil {
		t.Fatalf("NewSettingsManager failed: %v", err)
	}
	return NewViewerScene(cfg, profile, sm, reducedMotion)
}

// TestNewViewerScene 测试场景构造与访问器
func TestNewViewerScene(t *testing.T) {
	scene := newTestViewerScene(t, false)

	if scene.Engine() == nil {
		t.Fatal("Engine() returned nil")
	}
	if scene.State() == nil {
		t.Fatal("State() returned nil")
	}
	if scene.sphereWidth != float64(config.WindowWidth-config.PanelWidth) {
		t.Errorf("sphereWidth = %v, want %v", scene.sphereWidth,
			config.WindowWidth-config.PanelWidth)
	}
}

// TestViewerScene_CallbacksReachState 测试引擎回调落地到面板状态
//
// 外部聚焦与点击共用同一条路径，这里用外部聚焦驱动回调
func TestViewerScene_CallbacksReachState(t *testing.T) {
	scene := newTestViewerScene(t, false)

	scene.Engine().SetExternalFocus("vision", 0)

	if scene.State().FocusedID() != "vision" {
		t.Errorf("panel FocusedID = %q, want vision", scene.State().FocusedID())
	}
	if index, _, _, ok := scene.State().SelectedSub(); !ok || index != 0 {
		t.Errorf("panel SelectedSub = (%d, ok=%v), want (0, true)", index, ok)
	}

	scene.Engine().SetExternalFocus("", -1)

	if scene.State().FocusedID() != "" {
		t.Errorf("panel FocusedID = %q, want cleared", scene.State().FocusedID())
	}
}

// TestViewerScene_ReducedMotionOverride 测试命令行强制降低动态
func TestViewerScene_ReducedMotionOverride(t *testing.T) {
	scene := newTestViewerScene(t, true)

	// 降低动态下外部聚焦仍然生效（受控模式不算交互动画）
	scene.Engine().SetExternalFocus("drive", -1)
	if scene.Engine().FocusedID() != "drive" {
		t.Errorf("FocusedID = %q, want drive", scene.Engine().FocusedID())
	}
}
