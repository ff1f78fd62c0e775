package gui

import "image/color"

// EventType 当前 GUI 事件类型
type EventType int

const (
	// EventLayout 布局阶段：只测量尺寸，不渲染
	EventLayout EventType = iota
	// EventRepaint 渲染阶段
	EventRepaint
	EventMouseDown
	EventMouseUp
	EventMouseDrag
	// EventUsed 事件已被某个窗口消费
	EventUsed
)

// Event 即时模式 GUI 的当前事件
type Event struct {
	Type   EventType
	MouseX float64
	MouseY float64
}

// IsMouse 返回事件是否为鼠标事件
func (e *Event) IsMouse() bool {
	return e.Type == EventMouseDown || e.Type == EventMouseUp || e.Type == EventMouseDrag
}

// Use 标记事件已消费，后续窗口和宿主不再处理
func (e *Event) Use() {
	e.Type = EventUsed
}

// PointerOrigin 宿主指针 API 报告坐标时使用的 y 轴锚点
type PointerOrigin int

const (
	OriginTopLeft PointerOrigin = iota
	OriginBottomLeft
)

// PointerInfo 宿主指针监听器收到的设备坐标
type PointerInfo struct {
	X      float64
	Y      float64
	Origin PointerOrigin
}

// Drawer 每帧由绘制队列回调
type Drawer interface {
	DrawGUI()
}

// PointerListener 每个指针输入事件由指针队列回调
type PointerListener interface {
	OnPointer(p PointerInfo)
}

// DrawDispatcher 宿主的逐帧绘制队列
type DrawDispatcher interface {
	AddToPostDrawQueue(priority int, d Drawer)
	RemoveFromPostDrawQueue(priority int, d Drawer)
}

// PointerDispatcher 宿主的指针事件监听队列
type PointerDispatcher interface {
	AddPointerListener(l PointerListener)
	RemovePointerListener(l PointerListener)
}

// PointerClaims 宿主旧输入路由系统的"指针已被占用"标记数组
//
// 本包只会把下标 0 置为 true，清除由宿主在每帧回调前完成。
type PointerClaims interface {
	Get(index int) bool
	Set(index int, v bool)
}

// IMGUI 宿主提供的即时模式 GUI 原语
type IMGUI interface {
	// CurrentEvent 返回当前正在处理的事件，窗口可以调用 Use() 消费它
	CurrentEvent() *Event
	// ScreenSize 返回当前视口尺寸
	ScreenSize() (w, h float64)
	// Window 绘制并布局一个窗口，返回（可能被调整大小或拖动后的）矩形
	Window(id int, r Rect, fn func(id int), title string, style *Style) Rect
	// Button 在当前窗口内（窗口相对坐标）绘制按钮，被点击时返回 true
	Button(r Rect, label string) bool
	// DragWindow 声明当前窗口内可拖动的区域（窗口相对坐标）
	DragWindow(r Rect)
	// Label 按布局顺序追加一行文本
	Label(s string)
}

// Host 窗口所需的全部宿主协作者
type Host struct {
	GUI     IMGUI
	Draw    DrawDispatcher
	Pointer PointerDispatcher
	Claims  PointerClaims
}

// Style 窗口外观配置
type Style struct {
	PaddingLeft    float64
	PaddingRight   float64
	PaddingTop     float64
	PaddingBottom  float64
	TitleBarHeight float64
	Background     color.Color
	Border         color.Color
	TitleColor     color.Color
	TextColor      color.Color
	// Chromeless 为 true 时不绘制背景、边框和标题栏
	Chromeless bool
}

var (
	defaultStyle = Style{
		PaddingLeft:    5,
		PaddingRight:   5,
		PaddingTop:     5,
		PaddingBottom:  5,
		TitleBarHeight: 20,
		Background:     color.RGBA{R: 24, G: 28, B: 36, A: 220},
		Border:         color.RGBA{R: 90, G: 100, B: 120, A: 255},
		TitleColor:     color.RGBA{R: 230, G: 230, B: 230, A: 255},
		TextColor:      color.RGBA{R: 200, G: 210, B: 220, A: 255},
	}
	noneStyle = Style{
		TextColor:  color.RGBA{R: 200, G: 210, B: 220, A: 255},
		Chromeless: true,
	}
)

// DefaultStyle 返回共享的窗口边框样式（只读，调用方拿到的是副本）
func DefaultStyle() Style {
	return defaultStyle
}

// NoneStyle 返回无边框样式，用于没有标题的窗口
func NoneStyle() Style {
	return noneStyle
}
