package gui

import (
	"log"
	"sync/atomic"
)

// PostDrawPriority 窗口在宿主绘制队列中的固定层级
const PostDrawPriority = 0

// 标题栏控件尺寸
const (
	closeButtonSize   = 16.0
	closeButtonMargin = 2.0
	dragBarHeight     = 20.0
	dragBarWidth      = 100000.0
)

// nextWindowID 窗口 ID 计数器，保证同一进程内所有窗口 ID 唯一
var nextWindowID atomic.Int32

// ContentFunc 窗口内容绘制回调
type ContentFunc func(w *Window, ui IMGUI)

// Options 窗口构造参数
type Options struct {
	// Title 为空时使用无边框样式，且不显示关闭按钮
	Title    string
	Position Rect
	Align    WindowAlign
	// Style 为 nil 时有标题用 DefaultStyle()，无标题用 NoneStyle()
	Style   *Style
	Content ContentFunc
}

// Window 覆盖层窗口
//
// 职责：
//   - 管理显示/隐藏状态，以及与宿主绘制队列、指针监听队列的注册关系
//   - 每帧按对齐方式重新计算位置并调用即时模式窗口原语
//   - 指针落在窗口内时通知宿主旧输入路由系统不要再处理该事件
//
// 不变量：enabled 为 true 当且仅当窗口已注册到两个宿主队列。
// Show()/Hide() 幂等，重复调用不会重复注册或注销。
type Window struct {
	Title    string
	Position Rect

	host    Host
	style   Style
	align   WindowAlign
	content ContentFunc

	id      int
	enabled bool

	memory    *PositionMemory
	memoryKey string

	onShow func()
	onHide func()
}

// NewWindow 创建窗口，初始为隐藏状态
func NewWindow(host Host, opts Options) *Window {
	w := &Window{
		Title:    opts.Title,
		Position: opts.Position,
		host:     host,
		align:    opts.Align,
		content:  opts.Content,
		id:       int(nextWindowID.Add(1)),
	}

	switch {
	case opts.Style != nil:
		w.style = *opts.Style
	case opts.Title == "":
		w.style = NoneStyle()
	default:
		w.style = DefaultStyle()
	}

	return w
}

// ID 返回窗口在宿主窗口命名空间中的标识
func (w *Window) ID() int {
	return w.id
}

// Enabled 返回窗口当前是否显示
func (w *Window) Enabled() bool {
	return w.enabled
}

// Align 返回窗口对齐方式
func (w *Window) Align() WindowAlign {
	return w.align
}

// Style 返回窗口样式副本
func (w *Window) Style() Style {
	return w.style
}

// SetHooks 设置显示/隐藏后的回调（可为 nil）
func (w *Window) SetHooks(onShow, onHide func()) {
	w.onShow = onShow
	w.onHide = onHide
}

// Remember 让窗口在隐藏时记住位置，并在下次显示时恢复
//
// 只对 AlignFloating 窗口有意义，其他对齐方式每帧都会覆盖位置。
func (w *Window) Remember(mem *PositionMemory, key string) {
	w.memory = mem
	w.memoryKey = key
}

// Show 显示窗口
func (w *Window) Show() {
	if w.enabled {
		return
	}
	w.enabled = true
	log.Printf("[Window] Enabled (id=%d, title=%q)", w.id, w.Title)

	if w.memory != nil && w.align == AlignFloating {
		if r, ok := w.memory.Get(w.memoryKey); ok {
			w.Position = r
		}
	}

	w.host.Draw.AddToPostDrawQueue(PostDrawPriority, w)
	w.host.Pointer.AddPointerListener(w)

	if w.onShow != nil {
		w.onShow()
	}
}

// Hide 隐藏窗口
func (w *Window) Hide() {
	if !w.enabled {
		return
	}
	w.enabled = false

	w.host.Draw.RemoveFromPostDrawQueue(PostDrawPriority, w)
	w.host.Pointer.RemovePointerListener(w)

	if w.memory != nil {
		w.memory.Set(w.memoryKey, w.Position)
	}

	if w.onHide != nil {
		w.onHide()
	}
}

// Toggle 切换显示状态
func (w *Window) Toggle() {
	if w.enabled {
		w.Hide()
	} else {
		w.Show()
	}
}

// DrawGUI 每帧由宿主绘制队列调用
//
// 步骤：
//  1. 非浮动窗口按视口尺寸和上次测量的窗口尺寸重新对齐
//  2. 布局阶段把宽高清零，让布局系统重新计算内容自然尺寸，
//     避免沿用旧尺寸导致逐帧增长或收缩
//  3. 调用即时模式窗口原语，并保存返回的矩形
func (w *Window) DrawGUI() {
	ui := w.host.GUI

	if w.align != AlignFloating {
		screenW, screenH := ui.ScreenSize()
		w.Position = w.Position.Aligned(w.align, screenW, screenH)
	}

	if ui.CurrentEvent().Type == EventLayout {
		w.Position.Width = 0
		w.Position.Height = 0
	}

	w.Position = ui.Window(w.id, w.Position, w.contents, w.Title, &w.style)
}

// contents 窗口内容回调：先绘制功能内容，再处理标题栏控件和事件消费
func (w *Window) contents(id int) {
	ui := w.host.GUI

	if w.content != nil {
		w.content(w, ui)
	}

	if w.Title != "" {
		closeRect := Rect{
			X:      w.Position.Width - closeButtonSize - closeButtonMargin,
			Y:      closeButtonMargin,
			Width:  closeButtonSize,
			Height: closeButtonSize,
		}
		if ui.Button(closeRect, "") {
			w.Hide()
		}
		ui.DragWindow(Rect{X: 0, Y: 0, Width: dragBarWidth, Height: dragBarHeight})
	}

	if ev := ui.CurrentEvent(); ev.IsMouse() && w.Position.Contains(ev.MouseX, ev.MouseY) {
		ev.Use()
	}
}

// OnPointer 指针占用回调
//
// 宿主指针 API 的 y 轴锚点与窗口矩形不一致时先做翻转，
// 落在窗口内则把占用标记 0 置为 true（从不清除）。
func (w *Window) OnPointer(p PointerInfo) {
	x, y := p.X, p.Y
	if p.Origin == OriginBottomLeft {
		_, screenH := w.host.GUI.ScreenSize()
		y = screenH - y
	}
	if w.Position.Contains(x, y) {
		w.host.Claims.Set(0, true)
	}
}
