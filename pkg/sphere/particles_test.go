package sphere

import (
	"testing"

	"github.com/jack-opsapp/ops-site-sub001/pkg/config"
)

// countParticles 统计某条射线上的粒子数
func countParticles(e *Engine, id string) int {
	n := 0
	for _, p := range e.particles {
		if p.parentID == id {
			n++
		}
	}
	return n
}

// TestParticles_ThresholdGating 测试仅超过阈值的维度播种粒子
//
// 默认阈值 70：恰好等于阈值不播种，必须严格超过
func TestParticles_ThresholdGating(t *testing.T) {
	cfg, err := config.DefaultSphereConfig()
	if err != nil {
		t.Fatalf("DefaultSphereConfig failed: %v", err)
	}
	profile := &config.ScoreProfile{Scores: map[string]float64{
		"vision": 90,
		"drive":  70, // 恰好等于阈值
		"craft":  30,
	}}
	profile.Normalize()

	e := New(cfg, profile, Options{Width: 640, Height: 640, Seed: 42})

	if n := countParticles(e, "vision"); n < 1 || n > 3 {
		t.Errorf("vision particle count = %d, want 1..3", n)
	}
	if n := countParticles(e, "drive"); n != 0 {
		t.Errorf("drive particle count = %d, want 0 (score equals threshold)", n)
	}
	if n := countParticles(e, "craft"); n != 0 {
		t.Errorf("craft particle count = %d, want 0 (below threshold)", n)
	}
}

// TestParticles_RebuildOnScoreChange 测试评分更新后粒子集合随之重建
func TestParticles_RebuildOnScoreChange(t *testing.T) {
	e := newTestEngine(t, Options{})

	e.ApplyScores(map[string]float64{"vision": 90})
	if n := countParticles(e, "vision"); n == 0 {
		t.Error("vision crossed threshold upward, expected particles")
	}

	e.ApplyScores(map[string]float64{"vision": 10})
	if len(e.particles) != 0 {
		t.Errorf("particle count = %d, want 0 after all scores dropped", len(e.particles))
	}
}

// TestParticles_WrapAndReseed 测试粒子越过 1.0 回绕并重新随机化速度
func TestParticles_WrapAndReseed(t *testing.T) {
	e := newTestEngine(t, Options{})
	e.ApplyScores(map[string]float64{"vision": 90})
	if len(e.particles) == 0 {
		t.Fatal("precondition: particles seeded")
	}

	p := e.particles[0]
	p.t = 0.99
	p.speed = 0.5

	e.updateParticles(0.1) // 0.99 + 0.05 = 1.04 -> 回绕

	if p.t < 0 || p.t >= 1 {
		t.Errorf("t = %v after wrap, want [0, 1)", p.t)
	}
	if p.speed < particleSpeedMin || p.speed > particleSpeedMax {
		t.Errorf("speed = %v after reseed, want [%v, %v]",
			p.speed, particleSpeedMin, particleSpeedMax)
	}
}

// TestParticles_ProgressRate 测试未回绕时进度按 speed*dt 线性推进
func TestParticles_ProgressRate(t *testing.T) {
	e := newTestEngine(t, Options{})
	e.ApplyScores(map[string]float64{"vision": 90})
	if len(e.particles) == 0 {
		t.Fatal("precondition: particles seeded")
	}

	p := e.particles[0]
	p.t = 0.2
	p.speed = 0.5

	e.updateParticles(0.1)

	if got, want := p.t, 0.25; got != want {
		t.Errorf("t = %v, want %v", got, want)
	}
	if p.speed != 0.5 {
		t.Errorf("speed = %v, want unchanged 0.5 without wrap", p.speed)
	}
}

// TestParticleEnvelope 测试三角不透明度包络
func TestParticleEnvelope(t *testing.T) {
	cases := []struct {
		t    float64
		want float64
	}{
		{0, 0},
		{0.25, 0.5},
		{0.5, 1},
		{0.75, 0.5},
		{1, 0},
	}
	for _, c := range cases {
		if got := particleEnvelope(c.t); got != c.want {
			t.Errorf("particleEnvelope(%v) = %v, want %v", c.t, got, c.want)
		}
	}

	// 包络单调：上升段与下降段各自单调
	prev := particleEnvelope(0)
	for x := 0.05; x <= 0.5; x += 0.05 {
		cur := particleEnvelope(x)
		if cur < prev {
			t.Fatalf("envelope not rising at t=%v", x)
		}
		prev = cur
	}
}
