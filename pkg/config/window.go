package config

// 窗口布局常量
// 逻辑屏幕尺寸独立于实际窗口大小，缩放由 Ebitengine 统一处理，
// 因此表面尺寸变化（含设备像素比）只影响投影输入，不触碰镜头状态。
const (
	// WindowWidth 是逻辑屏幕宽度（像素）
	WindowWidth = 960

	// WindowHeight 是逻辑屏幕高度（像素）
	WindowHeight = 640

	// PanelWidth 是右侧描述面板的宽度（像素）
	// 球面画布占据剩余区域
	PanelWidth = 280
)
