package hostui

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"github.com/decker502/relaynet/pkg/gui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"
)

// 默认字号与行距
const (
	DefaultFontSize = 13.0
	labelSpacing    = 2.0
)

var (
	buttonColor      = color.RGBA{R: 60, G: 68, B: 84, A: 255}
	buttonHoverColor = color.RGBA{R: 84, G: 96, B: 120, A: 255}
	buttonTextColor  = color.RGBA{R: 235, G: 235, B: 235, A: 255}
)

// NewDefaultFace 使用内置的 Go 字体创建文字字体
func NewDefaultFace(size float64) (*text.GoTextFace, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("failed to create font source: %w", err)
	}
	return &text.GoTextFace{
		Source:    source,
		Size:      size,
		Direction: text.DirectionLeftToRight,
	}, nil
}

// windowFrame 当前正在绘制的窗口
type windowFrame struct {
	id       int
	rect     gui.Rect
	style    *gui.Style
	cursorY  float64 // 下一行标签的 y（窗口相对坐标）
	contentW float64 // 内容最大宽度
	contentH float64 // 内容最大底边（窗口相对坐标）
}

type dragState struct {
	active   bool
	windowID int
	offsetX  float64
	offsetY  float64
}

// Context 即时模式 GUI 原语的 ebiten 实现
//
// 每个事件（布局、渲染、鼠标）都会让所有已注册窗口重新执行一遍，
// 窗口原语根据当前事件类型决定测量、绘制还是处理输入。
type Context struct {
	face    *text.GoTextFace
	event   gui.Event
	screen  *ebiten.Image
	screenW float64
	screenH float64

	current *windowFrame
	drag    dragState
	pressed string // 当前按下的按钮
}

// NewContext 创建 GUI 上下文
func NewContext(face *text.GoTextFace) *Context {
	return &Context{face: face}
}

// SetScreenSize 设置视口尺寸（由 ebiten Layout 提供）
func (c *Context) SetScreenSize(w, h float64) {
	c.screenW, c.screenH = w, h
}

// Begin 开始处理一个事件；screen 只在渲染阶段非 nil
func (c *Context) Begin(ev gui.Event, screen *ebiten.Image) {
	c.event = ev
	c.screen = screen
}

// Dragging 返回是否正在拖动某个窗口
func (c *Context) Dragging() bool {
	return c.drag.active
}

// CurrentEvent implements gui.IMGUI.
func (c *Context) CurrentEvent() *gui.Event {
	return &c.event
}

// ScreenSize implements gui.IMGUI.
func (c *Context) ScreenSize() (float64, float64) {
	return c.screenW, c.screenH
}

func (c *Context) measure(s string) (float64, float64) {
	if c.face == nil {
		return float64(len(s)) * DefaultFontSize * 0.55, DefaultFontSize
	}
	return text.Measure(s, c.face, c.face.Size+labelSpacing)
}

func (c *Context) drawText(s string, x, y float64, clr color.Color) {
	if c.screen == nil || c.face == nil {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(c.screen, s, c.face, op)
}

func (c *Context) repainting() bool {
	return c.event.Type == gui.EventRepaint && c.screen != nil
}

func titled(title string, style *gui.Style) bool {
	return title != "" && !style.Chromeless
}

// Window implements gui.IMGUI.
func (c *Context) Window(id int, r gui.Rect, fn func(id int), title string, style *gui.Style) gui.Rect {
	if style == nil {
		s := gui.DefaultStyle()
		style = &s
	}

	// 拖动中的窗口跟随鼠标
	if c.drag.active && c.drag.windowID == id {
		switch c.event.Type {
		case gui.EventMouseDrag:
			r.X = c.event.MouseX - c.drag.offsetX
			r.Y = c.event.MouseY - c.drag.offsetY
			c.event.Use()
		case gui.EventMouseUp:
			c.drag = dragState{}
			c.event.Use()
		}
	}

	top := style.PaddingTop
	if titled(title, style) {
		top += style.TitleBarHeight
	}
	frame := &windowFrame{id: id, rect: r, style: style, cursorY: top}

	if c.repainting() && !style.Chromeless {
		vector.DrawFilledRect(c.screen, float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height), style.Background, false)
		vector.StrokeRect(c.screen, float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height), 1, style.Border, false)
		if titled(title, style) {
			c.drawText(title, r.X+style.PaddingLeft, r.Y+3, style.TitleColor)
		}
	}

	prev := c.current
	c.current = frame
	fn(id)
	c.current = prev

	if c.event.Type == gui.EventLayout {
		w := frame.contentW + style.PaddingLeft + style.PaddingRight
		if titled(title, style) {
			titleW, _ := c.measure(title)
			// 留出关闭按钮的位置
			w = math.Max(w, titleW+style.PaddingLeft+style.PaddingRight+20)
		}
		h := math.Max(frame.cursorY, frame.contentH) + style.PaddingBottom
		r.Width = math.Max(r.Width, w)
		r.Height = math.Max(r.Height, h)
	}

	return r
}

// Label implements gui.IMGUI.
func (c *Context) Label(s string) {
	frame := c.current
	if frame == nil {
		return
	}
	w, h := c.measure(s)
	if c.repainting() {
		c.drawText(s, frame.rect.X+frame.style.PaddingLeft, frame.rect.Y+frame.cursorY, frame.style.TextColor)
	}
	frame.cursorY += h + labelSpacing
	frame.contentW = math.Max(frame.contentW, w)
}

// Button implements gui.IMGUI.
//
// 按下和抬起都在按钮内才算一次点击；两次事件都会被消费。
func (c *Context) Button(r gui.Rect, label string) bool {
	frame := c.current
	if frame == nil {
		return false
	}
	frame.contentW = math.Max(frame.contentW, r.X+r.Width-frame.style.PaddingLeft)
	frame.contentH = math.Max(frame.contentH, r.Y+r.Height)

	abs := gui.Rect{X: frame.rect.X + r.X, Y: frame.rect.Y + r.Y, Width: r.Width, Height: r.Height}
	key := fmt.Sprintf("%d:%v", frame.id, r)
	inside := abs.Contains(c.event.MouseX, c.event.MouseY)

	switch c.event.Type {
	case gui.EventRepaint:
		if c.repainting() {
			fill := buttonColor
			if inside {
				fill = buttonHoverColor
			}
			vector.DrawFilledRect(c.screen, float32(abs.X), float32(abs.Y), float32(abs.Width), float32(abs.Height), fill, false)
			if label == "" {
				// 关闭按钮画成叉
				vector.StrokeLine(c.screen, float32(abs.X+4), float32(abs.Y+4), float32(abs.X+abs.Width-4), float32(abs.Y+abs.Height-4), 1.5, buttonTextColor, true)
				vector.StrokeLine(c.screen, float32(abs.X+abs.Width-4), float32(abs.Y+4), float32(abs.X+4), float32(abs.Y+abs.Height-4), 1.5, buttonTextColor, true)
			} else {
				tw, th := c.measure(label)
				c.drawText(label, abs.X+(abs.Width-tw)/2, abs.Y+(abs.Height-th)/2, buttonTextColor)
			}
		}
	case gui.EventMouseDown:
		if inside {
			c.pressed = key
			c.event.Use()
		}
	case gui.EventMouseUp:
		if c.pressed == key {
			c.pressed = ""
			if inside {
				c.event.Use()
				return true
			}
		}
	}
	return false
}

// DragWindow implements gui.IMGUI.
func (c *Context) DragWindow(r gui.Rect) {
	frame := c.current
	if frame == nil || c.event.Type != gui.EventMouseDown {
		return
	}
	abs := gui.Rect{X: frame.rect.X + r.X, Y: frame.rect.Y + r.Y, Width: r.Width, Height: r.Height}
	// 标题栏拖动区域不超出窗口本身
	abs.Width = math.Min(abs.Width, frame.rect.Width-r.X)
	if !abs.Contains(c.event.MouseX, c.event.MouseY) {
		return
	}
	c.drag = dragState{
		active:   true,
		windowID: frame.id,
		offsetX:  c.event.MouseX - frame.rect.X,
		offsetY:  c.event.MouseY - frame.rect.Y,
	}
	c.event.Use()
}
