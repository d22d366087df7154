package game

import (
	"os"
	"testing"

	"github.com/quasilyte/gdata/v2"
)

// newTestGdata 在临时目录里创建 gdata 管理器
func newTestGdata(t *testing.T, appName string) *gdata.Manager {
	t.Helper()

	tempDir := t.TempDir()
	originalHome := os.Getenv("HOME")
	os.Setenv("HOME", tempDir)
	t.Cleanup(func() { os.Setenv("HOME", originalHome) })

	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		t.Fatalf("Failed to create gdata manager: %v", err)
	}
	return m
}

// TestDefaultSettings 测试 DefaultSettings() 返回正确的默认值
func TestDefaultSettings(t *testing.T) {
	settings := DefaultSettings()

	if settings == nil {
		t.Fatal("DefaultSettings() returned nil")
	}

	if settings.ReducedMotion {
		t.Error("ReducedMotion: got true, want false")
	}
	if settings.DetailMode != "deep" {
		t.Errorf("DetailMode: got %q, want deep", settings.DetailMode)
	}
	if settings.ShowComparison {
		t.Error("ShowComparison: got true, want false")
	}
	if settings.Fullscreen {
		t.Error("Fullscreen: got true, want false")
	}
}

// TestNewSettingsManager 测试正常初始化 SettingsManager
func TestNewSettingsManager(t *testing.T) {
	gdataManager := newTestGdata(t, "test_settings")

	sm, err := NewSettingsManager(gdataManager)
	if err != nil {
		t.Fatalf("NewSettingsManager() error: %v", err)
	}
	if sm == nil {
		t.Fatal("NewSettingsManager() returned nil")
	}

	// 验证初始化后使用默认偏好
	settings := sm.GetSettings()
	if settings == nil {
		t.Fatal("GetSettings() returned nil after initialization")
	}
	if settings.DetailMode != "deep" {
		t.Errorf("Initial DetailMode: got %q, want deep", settings.DetailMode)
	}
}

// TestNewSettingsManagerNilGdata 测试 gdataManager 为 nil 时的降级场景
func TestNewSettingsManagerNilGdata(t *testing.T) {
	sm, err := NewSettingsManager(nil)
	if err != nil {
		t.Fatalf("NewSettingsManager(nil) error: %v", err)
	}

	// 降级模式下依然可用，使用默认偏好
	settings := sm.GetSettings()
	if settings == nil {
		t.Fatal("GetSettings() returned nil in degraded mode")
	}
	if settings.DetailMode != "deep" {
		t.Errorf("Degraded DetailMode: got %q, want deep", settings.DetailMode)
	}

	// 降级模式下 Save 不报错
	if err := sm.Save(); err != nil {
		t.Errorf("Save() in degraded mode: got error %v, want nil", err)
	}
}

// TestSettingsManagerSaveLoad 测试偏好的保存与重新加载
func TestSettingsManagerSaveLoad(t *testing.T) {
	gdataManager := newTestGdata(t, "test_settings_roundtrip")

	sm, err := NewSettingsManager(gdataManager)
	if err != nil {
		t.Fatalf("NewSettingsManager() error: %v", err)
	}

	sm.SetReducedMotion(true)
	sm.SetDetailMode("quick")
	sm.SetShowComparison(true)
	sm.SetFullscreen(true)

	if err := sm.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	// 用同一个 gdata 管理器新建实例，模拟重启后加载
	sm2, err := NewSettingsManager(gdataManager)
	if err != nil {
		t.Fatalf("NewSettingsManager() (reload) error: %v", err)
	}

	settings := sm2.GetSettings()
	if !settings.ReducedMotion {
		t.Error("ReducedMotion not persisted")
	}
	if settings.DetailMode != "quick" {
		t.Errorf("DetailMode: got %q, want quick", settings.DetailMode)
	}
	if !settings.ShowComparison {
		t.Error("ShowComparison not persisted")
	}
	if !settings.Fullscreen {
		t.Error("Fullscreen not persisted")
	}
}

// TestSetDetailModeValidation 测试未知模式字符串回退到 deep
func TestSetDetailModeValidation(t *testing.T) {
	sm, err := NewSettingsManager(nil)
	if err != nil {
		t.Fatalf("NewSettingsManager(nil) error: %v", err)
	}

	sm.SetDetailMode("quick")
	if sm.GetSettings().DetailMode != "quick" {
		t.Errorf("DetailMode: got %q, want quick", sm.GetSettings().DetailMode)
	}

	sm.SetDetailMode("turbo")
	if sm.GetSettings().DetailMode != "deep" {
		t.Errorf("DetailMode after invalid value: got %q, want deep fallback",
			sm.GetSettings().DetailMode)
	}
}

// TestLoadCorruptedSettings 测试损坏数据加载失败后回退默认偏好
func TestLoadCorruptedSettings(t *testing.T) {
	gdataManager := newTestGdata(t, "test_settings_corrupt")

	// 预先写入非法 YAML
	if err := gdataManager.SaveObjectProp(settingsObject, settingsProperty,
		[]byte("{{{not yaml")); err != nil {
		t.Fatalf("Failed to seed corrupted data: %v", err)
	}

	sm := &SettingsManager{gdataManager: gdataManager, settings: DefaultSettings()}
	if err := sm.Load(); err == nil {
		t.Error("Load() with corrupted data: got nil error, want error")
	}

	// 失败后必须回退到默认偏好
	if sm.GetSettings().DetailMode != "deep" {
		t.Errorf("DetailMode after corrupt load: got %q, want deep",
			sm.GetSettings().DetailMode)
	}
}
