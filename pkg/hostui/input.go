package hostui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// InputSource 每个 tick 的鼠标输入
type InputSource interface {
	CursorPosition() (x, y int)
	MouseJustPressed() bool
	MouseJustReleased() bool
	MousePressed() bool
}

// EbitenInput 读取 ebiten 的鼠标左键状态
type EbitenInput struct{}

// CursorPosition implements InputSource.
func (EbitenInput) CursorPosition() (int, int) {
	return ebiten.CursorPosition()
}

// MouseJustPressed implements InputSource.
func (EbitenInput) MouseJustPressed() bool {
	return inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
}

// MouseJustReleased implements InputSource.
func (EbitenInput) MouseJustReleased() bool {
	return inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft)
}

// MousePressed implements InputSource.
func (EbitenInput) MousePressed() bool {
	return ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
}
