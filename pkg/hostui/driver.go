package hostui

import (
	"github.com/decker502/relaynet/pkg/gui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// Driver 把 ebiten 的 Update/Draw 循环转换为覆盖层 GUI 事件
//
// 每个 tick：
//  1. Update() 清除指针占用标记，读取鼠标输入，
//     对每个鼠标事件先通知指针监听器，再让所有窗口处理该事件
//  2. Draw() 先分发布局事件，再分发渲染事件
type Driver struct {
	Queue  *DrawQueue
	Router *PointerRouter
	GUI    *Context

	input      InputSource
	lastX      int
	lastY      int
	lastEvents []gui.EventType
}

// NewDriver 创建宿主驱动
//
// 参数：
//   - input: 鼠标输入来源，nil 时使用 EbitenInput
//   - face: 文字字体，nil 时只做近似测量且不绘制文字
func NewDriver(input InputSource, face *text.GoTextFace) *Driver {
	if input == nil {
		input = EbitenInput{}
	}
	return &Driver{
		Queue:  NewDrawQueue(),
		Router: NewPointerRouter(),
		GUI:    NewContext(face),
		input:  input,
	}
}

// Host 返回窗口所需的宿主协作者集合
func (d *Driver) Host() gui.Host {
	return gui.Host{
		GUI:     d.GUI,
		Draw:    d.Queue,
		Pointer: d.Router,
		Claims:  d.Router,
	}
}

// SetScreenSize 设置视口尺寸
func (d *Driver) SetScreenSize(w, h float64) {
	d.GUI.SetScreenSize(w, h)
}

// PointerClaimed 返回本帧主指针是否落在某个覆盖层窗口内
func (d *Driver) PointerClaimed() bool {
	return d.Router.Claimed()
}

// pollEvents 把本 tick 的鼠标状态转换为事件序列
func (d *Driver) pollEvents() []gui.EventType {
	events := d.lastEvents[:0]
	x, y := d.input.CursorPosition()
	moved := x != d.lastX || y != d.lastY
	d.lastX, d.lastY = x, y

	if d.input.MouseJustPressed() {
		events = append(events, gui.EventMouseDown)
	} else if moved && d.input.MousePressed() {
		events = append(events, gui.EventMouseDrag)
	}
	if d.input.MouseJustReleased() {
		events = append(events, gui.EventMouseUp)
	}
	d.lastEvents = events
	return events
}

// Update 处理本 tick 的鼠标输入
func (d *Driver) Update() {
	d.Router.Clear()

	for _, typ := range d.pollEvents() {
		d.Dispatch(gui.Event{Type: typ, MouseX: float64(d.lastX), MouseY: float64(d.lastY)})
	}
}

// Dispatch 分发单个鼠标事件，返回事件是否被某个窗口消费
func (d *Driver) Dispatch(ev gui.Event) bool {
	d.Router.Route(gui.PointerInfo{X: ev.MouseX, Y: ev.MouseY, Origin: gui.OriginTopLeft})
	d.GUI.Begin(ev, nil)
	d.Queue.Dispatch()
	return d.GUI.CurrentEvent().Type == gui.EventUsed
}

// Layout 分发布局事件
func (d *Driver) Layout() {
	d.GUI.Begin(gui.Event{Type: gui.EventLayout}, nil)
	d.Queue.Dispatch()
}

// Draw 布局并渲染所有已显示的窗口
func (d *Driver) Draw(screen *ebiten.Image) {
	d.Layout()

	x, y := d.input.CursorPosition()
	d.GUI.Begin(gui.Event{Type: gui.EventRepaint, MouseX: float64(x), MouseY: float64(y)}, screen)
	d.Queue.Dispatch()
	d.GUI.Begin(gui.Event{Type: gui.EventLayout}, nil)
}
