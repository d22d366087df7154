package utils

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// PointerState 存储当前帧的统一指针状态
// 鼠标与触摸共用同一套语义：按下/移动/释放，触摸优先
type PointerState struct {
	// X, Y 指针位置（逻辑坐标）
	X, Y int
	// Pressed 指针当前是否按下（鼠标左键或活动触摸）
	Pressed bool
	// JustPressed 本帧是否刚刚按下
	JustPressed bool
	// JustReleased 本帧是否刚刚释放
	JustReleased bool
}

// 保存最后一次触摸位置（触摸释放瞬间已取不到坐标）
var lastTouchX, lastTouchY int

// GetPointerState 获取当前帧的统一指针状态
//
// 触摸设备优先：存在活动触摸时使用第一个触摸点；
// 否则回退到鼠标。每帧调用一次，结果在帧内一致。
func GetPointerState() PointerState {
	state := PointerState{}

	// 触摸释放：当前无触摸点，取保存的最后位置
	if released := inpututil.AppendJustReleasedTouchIDs(nil); len(released) > 0 {
		state.JustReleased = true
		state.X, state.Y = lastTouchX, lastTouchY
		return state
	}

	// 活动触摸
	if touchIDs := ebiten.AppendTouchIDs(nil); len(touchIDs) > 0 {
		state.X, state.Y = ebiten.TouchPosition(touchIDs[0])
		state.Pressed = true
		lastTouchX, lastTouchY = state.X, state.Y

		if justPressed := inpututil.AppendJustPressedTouchIDs(nil); len(justPressed) > 0 {
			state.JustPressed = true
		}
		return state
	}

	// 鼠标
	state.X, state.Y = ebiten.CursorPosition()
	state.Pressed = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	state.JustPressed = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	state.JustReleased = inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft)
	return state
}
