package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// ViewerSettings 全局查看器偏好
// 注意：这些是用户偏好，不是会话状态——镜头姿态、聚焦等
// 交互状态永远不持久化，每次启动回到默认姿态
type ViewerSettings struct {
	// ReducedMotion 降低动态模式：渲染静态姿态，停用动画与交互
	ReducedMotion bool `yaml:"reducedMotion"`
	// DetailMode 子节点模式："deep"（聚焦后解锁）或 "quick"（随时可见）
	DetailMode string `yaml:"detailMode"`
	// ShowComparison 是否渲染对照评分叠加层
	ShowComparison bool `yaml:"showComparison"`

	// 显示设置
	Fullscreen bool `yaml:"fullscreen"` // 启动时是否全屏
}

// DefaultSettings 返回默认偏好
func DefaultSettings() *ViewerSettings {
	return &ViewerSettings{
		ReducedMotion:  false,
		DetailMode:     "deep",
		ShowComparison: false,
		Fullscreen:     false,
	}
}

// SettingsManager 偏好管理器
// 负责查看器偏好的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager  // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *ViewerSettings // 当前偏好
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "viewer"
)

// NewSettingsManager 创建新的偏好管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存偏好）
//
// 返回：
//   - *SettingsManager: 偏好管理器实例
//   - error: 如果加载偏好失败返回错误（不影响创建）
func NewSettingsManager(gdataManager *gdata.Manager) (*SettingsManager, error) {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}

	// 尝试加载已保存的偏好
	if err := sm.Load(); err != nil {
		// 加载失败不是致命错误，使用默认偏好
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}

	return sm, nil
}

// Load 从 gdata 加载偏好
//
// 如果 gdataManager 为 nil 或文件不存在，使用默认偏好
func (sm *SettingsManager) Load() error {
	// 降级模式：无法持久化，使用默认偏好
	if sm.gdataManager == nil {
		sm.settings = DefaultSettings()
		return nil
	}

	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	var loaded ViewerSettings
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	if loaded.DetailMode != "quick" && loaded.DetailMode != "deep" {
		loaded.DetailMode = "deep"
	}

	sm.settings = &loaded
	log.Printf("[SettingsManager] Settings loaded successfully")
	return nil
}

// Save 保存偏好到 gdata
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[SettingsManager] Settings saved successfully")
	return nil
}

// GetSettings 获取当前偏好
func (sm *SettingsManager) GetSettings() *ViewerSettings {
	return sm.settings
}

// SetReducedMotion 设置降低动态模式
// 注意：仅修改内存中的偏好，需调用 Save() 方法持久化
func (sm *SettingsManager) SetReducedMotion(enabled bool) {
	sm.settings.ReducedMotion = enabled
}

// SetDetailMode 设置子节点模式（"quick" 或 "deep"，未知值回退到 "deep"）
// 注意：仅修改内存中的偏好，需调用 Save() 方法持久化
func (sm *SettingsManager) SetDetailMode(mode string) {
	if mode != "quick" && mode != "deep" {
		mode = "deep"
	}
	sm.settings.DetailMode = mode
}

// SetShowComparison 设置对照叠加层开关
// 注意：仅修改内存中的偏好，需调用 Save() 方法持久化
func (sm *SettingsManager) SetShowComparison(enabled bool) {
	sm.settings.ShowComparison = enabled
}

// SetFullscreen 设置全屏模式
// 注意：仅修改内存中的偏好，需调用 Save() 方法持久化
func (sm *SettingsManager) SetFullscreen(enabled bool) {
	sm.settings.Fullscreen = enabled
}
