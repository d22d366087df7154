package sphere

import (
	"log"
	"math"
)

// 命中检测与点击/拖拽语义
//
// 点击与拖拽只靠"距手势起点的位移阈值"区分，每次手势只判定一次，
// 之后粘滞（中途回到起点不撤销）。点击优先级：
//  1. 已聚焦父节点的悬停子节点 → 切换该子节点的选中
//  2. 悬停的主节点 → 设置/切换聚焦（总是清除子选中）
//  3. 空白 → 无操作
// 触摸与鼠标共用同一阈值与优先级（由 utils.PointerState 统一）。

// updateHover 用当前帧的投影点做命中检测
//
// 主节点：仅正面（front）节点参与，半径内取屏幕距离最近者。
// 子节点：快速模式下全部参与；深度模式下仅父节点聚焦的扇形参与。
func (e *Engine) updateHover(px, py float64) {
	tun := &e.cfg.Tuning

	bestID := ""
	bestDist := tun.HitRadius
	for _, p := range e.primaries {
		if !p.front {
			continue
		}
		d := math.Hypot(px-p.sx, py-p.sy)
		if d <= bestDist {
			bestDist = d
			bestID = p.id
		}
	}

	bestSubParent := ""
	bestSubIndex := -1
	bestSubDist := tun.SubHitRadius
	for parentID, fan := range e.subs {
		if !e.subHitAllowed(parentID) {
			continue
		}
		for _, s := range fan {
			if !s.front {
				continue
			}
			d := math.Hypot(px-s.sx, py-s.sy)
			if d <= bestSubDist {
				bestSubDist = d
				bestSubParent = parentID
				bestSubIndex = s.index
			}
		}
	}

	e.hoverSubParent = bestSubParent
	e.hoverSubIndex = bestSubIndex

	if bestID != e.hoverID {
		e.hoverID = bestID
		if e.callbacks.OnHoverChanged != nil {
			e.callbacks.OnHoverChanged(bestID)
		}
	}
}

// subHitAllowed 子节点是否参与命中检测
// 快速模式：全部参与；深度模式：仅父节点聚焦时参与
func (e *Engine) subHitAllowed(parentID string) bool {
	if e.detailMode == DetailQuick {
		return true
	}
	return parentID == e.focusedID && e.focusedID != ""
}

// handlePointerUp 手势结束处理
//
// 拖拽：清除聚焦与选中（拖拽永远不产生聚焦切换副作用）。
// 点击：按优先级分发。之后统一应用手势期间挂起的外部聚焦覆写。
func (e *Engine) handlePointerUp() {
	wasDrag := e.cam.PointerUp()
	if wasDrag {
		e.clearFocusState()
	} else {
		e.handleClick()
	}

	// 手势期间挂起的外部覆写：延迟到此刻，按点击同等路径应用
	if e.pendingFocus != nil {
		pf := *e.pendingFocus
		e.pendingFocus = nil
		e.applyExternalFocus(pf.id, pf.sub)
	}
}

// handleClick 点击分发（手势未判定为拖拽时）
func (e *Engine) handleClick() {
	// 子节点优先：父节点已聚焦时切换选中，不改变聚焦
	if e.hoverSubIndex >= 0 && e.hoverSubParent == e.focusedID && e.focusedID != "" {
		e.toggleSubSelection(e.hoverSubIndex)
		return
	}

	if e.hoverID != "" {
		e.focusDimension(e.hoverID)
		return
	}

	// 空白点击：无操作
}

// toggleSubSelection 切换子节点选中（同索引再次点击取消）
func (e *Engine) toggleSubSelection(index int) {
	if e.selectedSub == index {
		e.selectedSub = -1
	} else {
		e.selectedSub = index
	}
	if e.callbacks.OnSubSelected != nil {
		e.callbacks.OnSubSelected(e.focusedID, index, e.selectedSub == index)
	}
}

// focusDimension 聚焦指定维度
//
// 不变量：聚焦切换到新维度时总是清除子选中；
// 对已聚焦维度重复聚焦不清除选中，也不重置镜头平滑进度。
func (e *Engine) focusDimension(id string) {
	node := e.byID[id]
	if node == nil {
		return
	}

	changed := id != e.focusedID
	if changed {
		e.selectedSub = -1
	}
	e.focusedID = id
	e.cam.FocusOn(node.dir)

	if changed && e.callbacks.OnDimensionFocused != nil {
		e.callbacks.OnDimensionFocused(id)
	}
}

// clearFocusState 清除聚焦与子选中，并通知宿主
func (e *Engine) clearFocusState() {
	e.selectedSub = -1
	if e.focusedID == "" {
		return
	}
	e.focusedID = ""
	if e.callbacks.OnDimensionFocused != nil {
		e.callbacks.OnDimensionFocused("")
	}
}

// SetExternalFocus 外部聚焦覆写（受控模式）
//
// 与点击共用同一条聚焦路径：把"期望聚焦的 ID"换算成相同的镜头目标，
// 无需重跑指针命中检测。规则：
//   - 手势进行中：挂起，手势结束后按点击同等语义应用
//   - 未知 ID：静默忽略，保持原状态不变
//   - id 为空：清除聚焦
//   - subIndex 超界：仅聚焦，不选中子节点
func (e *Engine) SetExternalFocus(id string, subIndex int) {
	if e.cam.GestureActive() {
		e.pendingFocus = &externalFocus{id: id, sub: subIndex}
		return
	}
	e.applyExternalFocus(id, subIndex)
}

// applyExternalFocus 实际应用外部覆写
func (e *Engine) applyExternalFocus(id string, subIndex int) {
	if id == "" {
		e.cam.ClearFocus()
		e.clearFocusState()
		return
	}

	if e.byID[id] == nil {
		log.Printf("[Sphere] Ignoring external focus on unknown dimension %q", id)
		return
	}

	e.focusDimension(id)
	if subIndex >= 0 && subIndex < len(e.subs[id]) {
		if e.selectedSub != subIndex {
			e.selectedSub = subIndex
			if e.callbacks.OnSubSelected != nil {
				e.callbacks.OnSubSelected(id, subIndex, true)
			}
		}
	}
}
