// Package config 提供球面可视化的全部配置
//
// 配置分为两类：
//   - SphereConfig：维度方向表、网格邻接、调色板与调参常量（实例生命周期内不可变）
//   - ScoreProfile：实时评分数据（可随时替换）
//
// 所有配置均为 YAML 格式，内置默认配置通过 go:embed 嵌入。
package config

import (
	"fmt"
	"image/color"
	"log"
	"math"
	"os"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

// DimensionConfig 定义一个主维度（中心辐射的顶层节点）
//
// Direction 是手工指定的单位方向向量，不是计算得出的几何。
// 方向表必须跨会话保持稳定，保证同一维度永远占据相同的视觉位置。
type DimensionConfig struct {
	ID        string     `yaml:"id"`        // 维度标识，评分映射的键
	Label     string     `yaml:"label"`     // 显示名称
	Direction [3]float64 `yaml:"direction"` // 单位方向向量 [x, y, z]
}

// Dir 返回方向向量的 r3.Vec 形式
func (d *DimensionConfig) Dir() r3.Vec {
	return r3.Vec{X: d.Direction[0], Y: d.Direction[1], Z: d.Direction[2]}
}

// MeshEdge 定义网格连线的一对维度
// 邻接表是静态的，与评分无关
type MeshEdge struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// TuningConfig 渲染与交互调参常量
//
// 所有角度单位为弧度，所有速率单位为"每秒"（帧率无关）。
type TuningConfig struct {
	FocalLength       float64 `yaml:"focalLength"`       // 透视焦距 F，scale = F/(F-z)
	MinRayLength      float64 `yaml:"minRayLength"`      // score = 0 时的射线长度
	MaxRayLength      float64 `yaml:"maxRayLength"`      // score = 100 时的射线长度
	SubSpreadAngle    float64 `yaml:"subSpreadAngle"`    // 子节点扇形偏离父方向的角度
	SubRibFraction    float64 `yaml:"subRibFraction"`    // 子节点肋长占父射线长度的比例，上限 0.5
	DragThreshold     float64 `yaml:"dragThreshold"`     // 点击/拖拽判定阈值（像素）
	DragSensitivity   float64 `yaml:"dragSensitivity"`   // 拖拽位移到角度偏移的换算系数
	BaseTilt          float64 `yaml:"baseTilt"`          // 镜头基础俯仰角
	TiltClamp         float64 `yaml:"tiltClamp"`         // 拖拽俯仰偏移的钳制范围（±）
	FocusRate         float64 `yaml:"focusRate"`         // 聚焦平滑速率（每秒），≈ 每帧 4%（60fps）
	FocusZoom         float64 `yaml:"focusZoom"`         // 聚焦时的目标缩放（未聚焦为 1.0）
	RecenterFraction  float64 `yaml:"recenterFraction"`  // 构图偏移占聚焦节点投影偏移的比例
	AutoRotateRate    float64 `yaml:"autoRotateRate"`    // 自由旋转角速度（弧度/秒）
	HoverSlowdown     float64 `yaml:"hoverSlowdown"`     // 悬停时自转速率的保留比例
	DragDecay         float64 `yaml:"dragDecay"`         // 拖拽偏移释放后的弹性衰减速率（每秒）
	ParticleThreshold float64 `yaml:"particleThreshold"` // 高于此评分的维度生成粒子流
	AmbientLineCount  int     `yaml:"ambientLineCount"`  // 环境装饰线数量
	HitRadius         float64 `yaml:"hitRadius"`         // 主节点命中检测半径（像素）
	SubHitRadius      float64 `yaml:"subHitRadius"`      // 子节点命中检测半径（像素）
}

// SphereConfig 球面可视化的完整静态配置
type SphereConfig struct {
	Dimensions []DimensionConfig `yaml:"dimensions"`
	Mesh       []MeshEdge        `yaml:"mesh"`
	Palette    []string          `yaml:"palette"`    // 子节点循环调色板（十六进制）
	BackColor  string            `yaml:"backColor"`  // 深度渐变的背面颜色
	FrontColor string            `yaml:"frontColor"` // 深度渐变的正面强调色
	Tuning     TuningConfig      `yaml:"tuning"`
}

// DefaultTuning 返回调参常量的默认值
func DefaultTuning() TuningConfig {
	return TuningConfig{
		FocalLength:       420,
		MinRayLength:      0.35,
		MaxRayLength:      1.0,
		SubSpreadAngle:    0.45,
		SubRibFraction:    0.5,
		DragThreshold:     6,
		DragSensitivity:   0.008,
		BaseTilt:          -0.35,
		TiltClamp:         0.9,
		FocusRate:         2.45, // 1 - exp(-2.45/60) ≈ 0.04
		FocusZoom:         1.35,
		RecenterFraction:  0.15,
		AutoRotateRate:    0.18,
		HoverSlowdown:     0.15,
		DragDecay:         6.0, // exp(-6/60) ≈ 0.905/帧
		ParticleThreshold: 70,
		AmbientLineCount:  64,
		HitRadius:         26,
		SubHitRadius:      16,
	}
}

// ParseSphereConfig 从 YAML 字节解析并校验配置
func ParseSphereConfig(data []byte) (*SphereConfig, error) {
	var cfg SphereConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sphere config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadSphereConfig 从文件加载球面配置
func LoadSphereConfig(path string) (*SphereConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sphere config %s: %w", path, err)
	}
	cfg, err := ParseSphereConfig(data)
	if err != nil {
		return nil, fmt.Errorf("invalid sphere config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate 校验并修正配置
//
// 规则：
//   - 维度表不能为空，ID 不能重复，方向向量不能为零（非单位向量会被归一化）
//   - 引用未知维度的网格连线被丢弃（记录日志，不报错）
//   - 调参常量的零值用默认值填充，比例被钳制到合法范围
//   - 调色板为空时补一个中性灰
func (c *SphereConfig) Validate() error {
	if len(c.Dimensions) == 0 {
		return fmt.Errorf("sphere config has no dimensions")
	}

	ids := make(map[string]bool, len(c.Dimensions))
	for i := range c.Dimensions {
		d := &c.Dimensions[i]
		if d.ID == "" {
			return fmt.Errorf("dimension %d has empty id", i)
		}
		if ids[d.ID] {
			return fmt.Errorf("duplicate dimension id %q", d.ID)
		}
		ids[d.ID] = true

		norm := math.Sqrt(d.Direction[0]*d.Direction[0] +
			d.Direction[1]*d.Direction[1] +
			d.Direction[2]*d.Direction[2])
		if norm == 0 {
			return fmt.Errorf("dimension %q has zero direction vector", d.ID)
		}
		// 非单位向量归一化，保持方向表的不变量
		if math.Abs(norm-1) > 1e-9 {
			d.Direction[0] /= norm
			d.Direction[1] /= norm
			d.Direction[2] /= norm
		}
	}

	kept := c.Mesh[:0]
	for _, e := range c.Mesh {
		if ids[e.From] && ids[e.To] {
			kept = append(kept, e)
		} else {
			log.Printf("[Config] Dropping mesh edge %s-%s: unknown dimension id", e.From, e.To)
		}
	}
	c.Mesh = kept

	if len(c.Palette) == 0 {
		c.Palette = []string{"#9aa5b1"}
	}
	for i, hex := range c.Palette {
		if _, err := ParseHexColor(hex); err != nil {
			return fmt.Errorf("palette entry %d: %w", i, err)
		}
	}

	if c.BackColor == "" {
		c.BackColor = "#39404d"
	}
	if c.FrontColor == "" {
		c.FrontColor = "#4f8cff"
	}
	if _, err := ParseHexColor(c.BackColor); err != nil {
		return fmt.Errorf("backColor: %w", err)
	}
	if _, err := ParseHexColor(c.FrontColor); err != nil {
		return fmt.Errorf("frontColor: %w", err)
	}

	c.Tuning.applyDefaults()
	return nil
}

// applyDefaults 用默认值填充零值字段并钳制比例
func (t *TuningConfig) applyDefaults() {
	def := DefaultTuning()
	if t.FocalLength <= 0 {
		t.FocalLength = def.FocalLength
	}
	if t.MinRayLength <= 0 {
		t.MinRayLength = def.MinRayLength
	}
	if t.MaxRayLength <= t.MinRayLength {
		t.MaxRayLength = def.MaxRayLength
	}
	if t.SubSpreadAngle <= 0 {
		t.SubSpreadAngle = def.SubSpreadAngle
	}
	if t.SubRibFraction <= 0 {
		t.SubRibFraction = def.SubRibFraction
	}
	// 子节点肋长不变量：不超过父射线长度的一半
	if t.SubRibFraction > 0.5 {
		t.SubRibFraction = 0.5
	}
	if t.DragThreshold <= 0 {
		t.DragThreshold = def.DragThreshold
	}
	if t.DragSensitivity <= 0 {
		t.DragSensitivity = def.DragSensitivity
	}
	if t.BaseTilt == 0 {
		t.BaseTilt = def.BaseTilt
	}
	if t.TiltClamp <= 0 {
		t.TiltClamp = def.TiltClamp
	}
	if t.FocusRate <= 0 {
		t.FocusRate = def.FocusRate
	}
	if t.FocusZoom <= 1 {
		t.FocusZoom = def.FocusZoom
	}
	if t.RecenterFraction <= 0 {
		t.RecenterFraction = def.RecenterFraction
	}
	if t.AutoRotateRate <= 0 {
		t.AutoRotateRate = def.AutoRotateRate
	}
	if t.HoverSlowdown <= 0 {
		t.HoverSlowdown = def.HoverSlowdown
	}
	if t.DragDecay <= 0 {
		t.DragDecay = def.DragDecay
	}
	if t.ParticleThreshold <= 0 {
		t.ParticleThreshold = def.ParticleThreshold
	}
	if t.AmbientLineCount <= 0 {
		t.AmbientLineCount = def.AmbientLineCount
	}
	if t.HitRadius <= 0 {
		t.HitRadius = def.HitRadius
	}
	if t.SubHitRadius <= 0 {
		t.SubHitRadius = def.SubHitRadius
	}
}

// Dimension 按 ID 查找维度配置，未知 ID 返回 nil
func (c *SphereConfig) Dimension(id string) *DimensionConfig {
	for i := range c.Dimensions {
		if c.Dimensions[i].ID == id {
			return &c.Dimensions[i]
		}
	}
	return nil
}

// PaletteColor 按索引循环取调色板颜色
// Validate 已保证调色板非空且所有条目可解析
func (c *SphereConfig) PaletteColor(index int) color.RGBA {
	hex := c.Palette[index%len(c.Palette)]
	clr, _ := ParseHexColor(hex)
	return clr
}

// ParseHexColor 解析 "#rrggbb" 或 "#rgb" 格式的颜色
func ParseHexColor(s string) (color.RGBA, error) {
	c := color.RGBA{A: 0xff}

	hexVal := func(b byte) (uint8, bool) {
		switch {
		case b >= '0' && b <= '9':
			return b - '0', true
		case b >= 'a' && b <= 'f':
			return b - 'a' + 10, true
		case b >= 'A' && b <= 'F':
			return b - 'A' + 10, true
		}
		return 0, false
	}

	if len(s) == 0 || s[0] != '#' {
		return c, fmt.Errorf("invalid color %q: must start with '#'", s)
	}

	switch len(s) {
	case 7: // #rrggbb
		vals := make([]uint8, 6)
		for i := 0; i < 6; i++ {
			v, ok := hexVal(s[i+1])
			if !ok {
				return c, fmt.Errorf("invalid color %q: bad hex digit", s)
			}
			vals[i] = v
		}
		c.R = vals[0]<<4 | vals[1]
		c.G = vals[2]<<4 | vals[3]
		c.B = vals[4]<<4 | vals[5]
	case 4: // #rgb
		vals := make([]uint8, 3)
		for i := 0; i < 3; i++ {
			v, ok := hexVal(s[i+1])
			if !ok {
				return c, fmt.Errorf("invalid color %q: bad hex digit", s)
			}
			vals[i] = v
		}
		c.R = vals[0]<<4 | vals[0]
		c.G = vals[1]<<4 | vals[1]
		c.B = vals[2]<<4 | vals[2]
	default:
		return c, fmt.Errorf("invalid color %q: length must be 4 or 7", s)
	}
	return c, nil
}
