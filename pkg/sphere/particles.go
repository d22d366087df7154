package sphere

// 粒子流动画：纯装饰，永不参与命中检测或布局
//
// 评分超过阈值的维度沿其射线播种 1~3 个粒子，进度 t 以独立随机速度
// 推进，越过 1.0 时回绕并重新随机化速度。不透明度用三角包络塑形，
// 在路径中点达到峰值。

// particle 单个粒子
type particle struct {
	parentID string
	t        float64 // 沿射线的进度 [0, 1)
	speed    float64 // 进度/秒
}

// 粒子速度随机范围（进度/秒）
const (
	particleSpeedMin = 0.25
	particleSpeedMax = 0.75
)

// rebuildParticles 按当前评分重建粒子集合
// 构造时与 ApplyScores 后调用；随机源为引擎的带种子源
func (e *Engine) rebuildParticles() {
	e.particles = e.particles[:0]
	for _, p := range e.primaries {
		if e.scores[p.id] <= e.cfg.Tuning.ParticleThreshold {
			continue
		}
		n := 1 + e.rng.Intn(3) // 每条射线 1~3 个
		for i := 0; i < n; i++ {
			e.particles = append(e.particles, &particle{
				parentID: p.id,
				t:        e.rng.Float64(),
				speed:    e.reseedSpeed(),
			})
		}
	}
}

// reseedSpeed 重新随机化粒子速度
func (e *Engine) reseedSpeed() float64 {
	return particleSpeedMin + (particleSpeedMax-particleSpeedMin)*e.rng.Float64()
}

// updateParticles 推进所有粒子
// t += speed*dt，越过 1.0 回绕并重新随机化速度
func (e *Engine) updateParticles(dt float64) {
	for _, p := range e.particles {
		p.t += p.speed * dt
		if p.t >= 1 {
			p.t -= float64(int(p.t))
			p.speed = e.reseedSpeed()
		}
	}
}

// particleEnvelope 三角不透明度包络，t = 0.5 处峰值为 1
func particleEnvelope(t float64) float64 {
	v := 1 - abs(2*t-1)
	if v < 0 {
		return 0
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
