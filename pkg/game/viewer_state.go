package game

import (
	"log"

	"github.com/jack-opsapp/ops-site-sub001/pkg/config"
)

// ViewerState 查看器会话状态（侧栏面板的数据模型）
//
// 推送模型：引擎只在聚焦/选中/悬停实际变化时回调一次，状态在此
// 落地为面板可直接读取的标签与评分，面板不做逐帧轮询。
// 这里的状态是会话性的，永不持久化。
type ViewerState struct {
	cfg     *config.SphereConfig
	profile *config.ScoreProfile

	focusedID    string
	focusedLabel string
	focusedScore float64
	focusedSubs  []config.SubScore

	selectedSubIndex int // -1 表示无选中
	selectedSubLabel string
	selectedSubScore float64

	hoverID    string
	hoverLabel string
}

// NewViewerState 创建查看器状态
func NewViewerState(cfg *config.SphereConfig, profile *config.ScoreProfile) *ViewerState {
	return &ViewerState{
		cfg:              cfg,
		profile:          profile,
		selectedSubIndex: -1,
	}
}

// SetProfile 替换评分档案（实时评分更新后刷新面板数据）
func (vs *ViewerState) SetProfile(profile *config.ScoreProfile) {
	vs.profile = profile
	// 重新解析已聚焦维度的派生数据
	if vs.focusedID != "" {
		vs.SetFocus(vs.focusedID)
	}
}

// SetFocus 聚焦变化回调落地
// id 为空表示聚焦被清除，同时清除子选中派生数据
func (vs *ViewerState) SetFocus(id string) {
	vs.selectedSubIndex = -1
	vs.selectedSubLabel = ""
	vs.selectedSubScore = 0

	if id == "" {
		vs.focusedID = ""
		vs.focusedLabel = ""
		vs.focusedScore = 0
		vs.focusedSubs = nil
		return
	}

	dim := vs.cfg.Dimension(id)
	if dim == nil {
		log.Printf("[ViewerState] Focus callback for unknown dimension %q", id)
		return
	}

	vs.focusedID = id
	vs.focusedLabel = dim.Label
	if vs.profile != nil {
		vs.focusedScore = vs.profile.Score(id)
		vs.focusedSubs = vs.profile.Subs(id)
	} else {
		vs.focusedScore = 0
		vs.focusedSubs = nil
	}
}

// SetSubSelection 子节点选中变化回调落地
func (vs *ViewerState) SetSubSelection(parentID string, index int, selected bool) {
	if !selected || parentID != vs.focusedID || index < 0 || index >= len(vs.focusedSubs) {
		vs.selectedSubIndex = -1
		vs.selectedSubLabel = ""
		vs.selectedSubScore = 0
		return
	}
	sub := vs.focusedSubs[index]
	vs.selectedSubIndex = index
	vs.selectedSubLabel = sub.Label
	vs.selectedSubScore = sub.Score
}

// SetHover 悬停变化回调落地
func (vs *ViewerState) SetHover(id string) {
	vs.hoverID = id
	vs.hoverLabel = ""
	if id == "" {
		return
	}
	if dim := vs.cfg.Dimension(id); dim != nil {
		vs.hoverLabel = dim.Label
	}
}

// FocusedID 当前聚焦维度 ID，空串表示未聚焦
func (vs *ViewerState) FocusedID() string {
	return vs.focusedID
}

// FocusedLabel 当前聚焦维度的显示标签
func (vs *ViewerState) FocusedLabel() string {
	return vs.focusedLabel
}

// FocusedScore 当前聚焦维度的实时评分
func (vs *ViewerState) FocusedScore() float64 {
	return vs.focusedScore
}

// FocusedSubs 当前聚焦维度的子评分列表（配置顺序）
func (vs *ViewerState) FocusedSubs() []config.SubScore {
	return vs.focusedSubs
}

// SelectedSub 当前选中的子节点，无选中时 ok 为 false
func (vs *ViewerState) SelectedSub() (index int, label string, score float64, ok bool) {
	if vs.selectedSubIndex < 0 {
		return -1, "", 0, false
	}
	return vs.selectedSubIndex, vs.selectedSubLabel, vs.selectedSubScore, true
}

// HoverLabel 当前悬停维度的显示标签，空串表示无悬停
func (vs *ViewerState) HoverLabel() string {
	return vs.hoverLabel
}
