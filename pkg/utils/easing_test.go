package utils

import (
	"math"
	"testing"
)

// TestEaseLinear 测试线性缓动函数
func TestEaseLinear(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"起点", 0.0, 0.0},
		{"中点", 0.5, 0.5},
		{"终点", 1.0, 1.0},
		{"四分之一", 0.25, 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := EaseLinear(tt.input)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("EaseLinear(%v) = %v, 期望 %v", tt.input, result, tt.expected)
			}
		})
	}
}

// TestEaseOutCubic 测试三次方缓出函数
func TestEaseOutCubic(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"起点", 0.0, 0.0},
		{"终点", 1.0, 1.0},
		{"中点", 0.5, 0.875}, // 1 - (1-0.5)^3 = 1 - 0.125 = 0.875
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := EaseOutCubic(tt.input)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("EaseOutCubic(%v) = %v, 期望 %v", tt.input, result, tt.expected)
			}
		})
	}

	// 验证"开始快，结束慢"的特性
	t.Run("开始快于线性", func(t *testing.T) {
		// 在前半段（p < 0.5），缓出函数应该比线性快
		for p := 0.1; p < 0.5; p += 0.1 {
			eased := EaseOutCubic(p)
			linear := EaseLinear(p)
			if eased <= linear {
				t.Errorf("EaseOutCubic(%v) = %v 应该大于线性值 %v（开始快）", p, eased, linear)
			}
		}
	})
}

// TestEaseInOutCubic 测试三次方缓入缓出函数
func TestEaseInOutCubic(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"起点", 0.0, 0.0},
		{"终点", 1.0, 1.0},
		{"中点", 0.5, 0.5}, // 对称点
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := EaseInOutCubic(tt.input)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("EaseInOutCubic(%v) = %v, 期望 %v", tt.input, result, tt.expected)
			}
		})
	}

	// 对称性：f(t) + f(1-t) = 1
	t.Run("关于中点对称", func(t *testing.T) {
		for p := 0.0; p <= 0.5; p += 0.1 {
			sum := EaseInOutCubic(p) + EaseInOutCubic(1-p)
			if math.Abs(sum-1.0) > 0.001 {
				t.Errorf("EaseInOutCubic(%v) + EaseInOutCubic(%v) = %v, 期望 1.0", p, 1-p, sum)
			}
		}
	})
}

// TestEaseOutQuad 测试二次方缓出函数
func TestEaseOutQuad(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"起点", 0.0, 0.0},
		{"终点", 1.0, 1.0},
		{"中点", 0.5, 0.75}, // 1 - (1-0.5)^2 = 1 - 0.25 = 0.75
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := EaseOutQuad(tt.input)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("EaseOutQuad(%v) = %v, 期望 %v", tt.input, result, tt.expected)
			}
		})
	}
}

// TestLerp 测试线性插值函数
func TestLerp(t *testing.T) {
	tests := []struct {
		name     string
		a        float64
		b        float64
		t        float64
		expected float64
	}{
		{"起点", 0.0, 100.0, 0.0, 0.0},
		{"中点", 0.0, 100.0, 0.5, 50.0},
		{"终点", 0.0, 100.0, 1.0, 100.0},
		{"四分之一", 0.0, 100.0, 0.25, 25.0},
		{"负数范围", -50.0, 50.0, 0.5, 0.0},
		{"逆向范围", 100.0, 0.0, 0.5, 50.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Lerp(tt.a, tt.b, tt.t)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("Lerp(%v, %v, %v) = %v, 期望 %v", tt.a, tt.b, tt.t, result, tt.expected)
			}
		})
	}
}

// TestScoreBlendWithEasing 测试缓动函数与插值结合使用
// 模拟评分从 40 过渡到 90 的实际使用场景
func TestScoreBlendWithEasing(t *testing.T) {
	startScore := 40.0
	targetScore := 90.0

	tests := []struct {
		progress float64
	}{
		{0.0},
		{0.25},
		{0.5},
		{0.75},
		{1.0},
	}

	prev := startScore
	for _, tt := range tests {
		easedProgress := EaseInOutCubic(tt.progress)
		score := Lerp(startScore, targetScore, easedProgress)

		// 验证边界
		if tt.progress == 0.0 && math.Abs(score-startScore) > 0.001 {
			t.Errorf("进度 0.0 时应该是起始评分 %v, 实际: %v", startScore, score)
		}
		if tt.progress == 1.0 && math.Abs(score-targetScore) > 0.001 {
			t.Errorf("进度 1.0 时应该是目标评分 %v, 实际: %v", targetScore, score)
		}

		// 过渡单调，不回退
		if score < prev-0.001 {
			t.Errorf("进度 %v 时评分 %v 回退（上一步 %v）", tt.progress, score, prev)
		}
		prev = score

		// 始终在范围内
		if score < startScore-0.001 || score > targetScore+0.001 {
			t.Errorf("评分 %v 超出范围 [%v, %v]", score, startScore, targetScore)
		}
	}
}
