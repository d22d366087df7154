package config

import (
	"embed"
	"fmt"
)

// 内置默认配置
// go:embed 只能嵌入当前包目录及其子目录的文件，因此默认 YAML 放在 defaults/ 下

//go:embed defaults/sphere.yaml defaults/profile.yaml
var defaultsFS embed.FS

// DefaultSphereConfig 返回内置的默认球面配置（六维八面体布局）
func DefaultSphereConfig() (*SphereConfig, error) {
	data, err := defaultsFS.ReadFile("defaults/sphere.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded sphere config: %w", err)
	}
	return ParseSphereConfig(data)
}

// DefaultScoreProfile 返回内置的演示评分数据
func DefaultScoreProfile() (*ScoreProfile, error) {
	data, err := defaultsFS.ReadFile("defaults/profile.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded score profile: %w", err)
	}
	return ParseScoreProfile(data)
}
