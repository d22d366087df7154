package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SubScore 一个子维度评分条目
// 子节点按列表顺序扇形展开，顺序即索引
type SubScore struct {
	Label string  `yaml:"label"`
	Score float64 `yaml:"score"`
}

// ScoreProfile 一组实时评分数据
//
// Scores 中缺失的维度按 0 分处理而不是报错；
// Comparison 为可选的对照评分，仅渲染，永不参与命中检测。
type ScoreProfile struct {
	Name       string                `yaml:"name"`
	Scores     map[string]float64    `yaml:"scores"`
	SubScores  map[string][]SubScore `yaml:"subScores"`
	Comparison map[string]float64    `yaml:"comparison"`
}

// ParseScoreProfile 从 YAML 字节解析评分数据
func ParseScoreProfile(data []byte) (*ScoreProfile, error) {
	var p ScoreProfile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal score profile: %w", err)
	}
	p.Normalize()
	return &p, nil
}

// LoadScoreProfile 从文件加载评分数据
func LoadScoreProfile(path string) (*ScoreProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read score profile %s: %w", path, err)
	}
	p, err := ParseScoreProfile(data)
	if err != nil {
		return nil, fmt.Errorf("invalid score profile %s: %w", path, err)
	}
	return p, nil
}

// Normalize 将所有评分钳制到 [0, 100]，并保证各映射非 nil
func (p *ScoreProfile) Normalize() {
	if p.Scores == nil {
		p.Scores = make(map[string]float64)
	}
	for id, s := range p.Scores {
		p.Scores[id] = clampScore(s)
	}
	for id, subs := range p.SubScores {
		for i := range subs {
			subs[i].Score = clampScore(subs[i].Score)
		}
		p.SubScores[id] = subs
	}
	for id, s := range p.Comparison {
		p.Comparison[id] = clampScore(s)
	}
}

// Score 返回指定维度的评分，缺失条目按 0 处理
func (p *ScoreProfile) Score(id string) float64 {
	return clampScore(p.Scores[id])
}

// ComparisonScore 返回对照评分，第二个返回值表示条目是否存在
func (p *ScoreProfile) ComparisonScore(id string) (float64, bool) {
	s, ok := p.Comparison[id]
	return clampScore(s), ok
}

// Subs 返回指定维度的有序子评分列表，可能为空
func (p *ScoreProfile) Subs(id string) []SubScore {
	return p.SubScores[id]
}

func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}
