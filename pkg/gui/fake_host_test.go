package gui

// fakeDraw 记录绘制队列的注册/注销次数
type fakeDraw struct {
	adds    int
	removes int
	active  map[Drawer]int
}

func newFakeDraw() *fakeDraw {
	return &fakeDraw{active: make(map[Drawer]int)}
}

func (f *fakeDraw) AddToPostDrawQueue(priority int, d Drawer) {
	f.adds++
	f.active[d]++
}

func (f *fakeDraw) RemoveFromPostDrawQueue(priority int, d Drawer) {
	f.removes++
	f.active[d]--
}

// fakePointer 记录指针队列的注册/注销次数
type fakePointer struct {
	adds      int
	removes   int
	listeners []PointerListener
}

func (f *fakePointer) AddPointerListener(l PointerListener) {
	f.adds++
	f.listeners = append(f.listeners, l)
}

func (f *fakePointer) RemovePointerListener(l PointerListener) {
	f.removes++
	for i, existing := range f.listeners {
		if existing == l {
			f.listeners = append(f.listeners[:i], f.listeners[i+1:]...)
			return
		}
	}
}

type fakeClaims struct {
	flags [4]bool
}

func (f *fakeClaims) Get(i int) bool    { return f.flags[i] }
func (f *fakeClaims) Set(i int, v bool) { f.flags[i] = v }

// fakeGUI 即时模式原语的最小实现
//
// Window() 调用内容回调后返回 measured 尺寸（布局阶段）或原样返回矩形。
type fakeGUI struct {
	event        Event
	screenW      float64
	screenH      float64
	measuredW    float64
	measuredH    float64
	clickButtons bool

	windowCalls int
	lastID      int
	lastRect    Rect
	lastTitle   string
	lastStyle   *Style
	buttons     []Rect
	dragRects   []Rect
}

func (f *fakeGUI) CurrentEvent() *Event           { return &f.event }
func (f *fakeGUI) ScreenSize() (float64, float64) { return f.screenW, f.screenH }
func (f *fakeGUI) Label(s string)                 {}

func (f *fakeGUI) Window(id int, r Rect, fn func(id int), title string, style *Style) Rect {
	f.windowCalls++
	f.lastID = id
	f.lastRect = r
	f.lastTitle = title
	f.lastStyle = style
	if f.event.Type == EventLayout {
		r.Width = f.measuredW
		r.Height = f.measuredH
	}
	fn(id)
	return r
}

func (f *fakeGUI) Button(r Rect, label string) bool {
	f.buttons = append(f.buttons, r)
	return f.clickButtons
}

func (f *fakeGUI) DragWindow(r Rect) {
	f.dragRects = append(f.dragRects, r)
}

type fakeHost struct {
	gui     *fakeGUI
	draw    *fakeDraw
	pointer *fakePointer
	claims  *fakeClaims
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		gui:     &fakeGUI{screenW: 1280, screenH: 720, event: Event{Type: EventRepaint}},
		draw:    newFakeDraw(),
		pointer: &fakePointer{},
		claims:  &fakeClaims{},
	}
}

func (h *fakeHost) Host() Host {
	return Host{GUI: h.gui, Draw: h.draw, Pointer: h.pointer, Claims: h.claims}
}
