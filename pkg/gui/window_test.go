package gui

import "testing"

// TestWindowShowIdempotent 连续两次 Show 只注册一次
func TestWindowShowIdempotent(t *testing.T) {
	h := newFakeHost()
	w := NewWindow(h.Host(), Options{Title: "Status"})

	w.Show()
	w.Show()

	if !w.Enabled() {
		t.Error("Expected window to be enabled after Show()")
	}
	if h.draw.adds != 1 {
		t.Errorf("draw registrations: got %d, want 1", h.draw.adds)
	}
	if h.pointer.adds != 1 {
		t.Errorf("pointer registrations: got %d, want 1", h.pointer.adds)
	}
}

// TestWindowHideNeverShown 从未显示的窗口 Hide 不与宿主交互
func TestWindowHideNeverShown(t *testing.T) {
	h := newFakeHost()
	w := NewWindow(h.Host(), Options{})

	w.Hide()
	w.Hide()

	if w.Enabled() {
		t.Error("Expected window to stay disabled")
	}
	if h.draw.adds+h.draw.removes+h.pointer.adds+h.pointer.removes != 0 {
		t.Errorf("Expected zero dispatcher interactions, got draw(%d/%d) pointer(%d/%d)",
			h.draw.adds, h.draw.removes, h.pointer.adds, h.pointer.removes)
	}
}

// TestWindowShowHideShow 显示-隐藏-显示：两次注册一次注销
func TestWindowShowHideShow(t *testing.T) {
	h := newFakeHost()
	w := NewWindow(h.Host(), Options{Title: "Status"})

	w.Show()
	w.Hide()
	w.Show()

	if h.draw.adds != 2 || h.draw.removes != 1 {
		t.Errorf("draw: got %d adds / %d removes, want 2 / 1", h.draw.adds, h.draw.removes)
	}
	if h.pointer.adds != 2 || h.pointer.removes != 1 {
		t.Errorf("pointer: got %d adds / %d removes, want 2 / 1", h.pointer.adds, h.pointer.removes)
	}
	if h.draw.active[w] != 1 {
		t.Errorf("active draw registrations: got %d, want 1", h.draw.active[w])
	}
	if len(h.pointer.listeners) != 1 {
		t.Errorf("active pointer listeners: got %d, want 1", len(h.pointer.listeners))
	}
}

func TestWindowToggle(t *testing.T) {
	h := newFakeHost()
	w := NewWindow(h.Host(), Options{})

	w.Toggle()
	if !w.Enabled() {
		t.Fatal("Expected Toggle() to show hidden window")
	}
	w.Toggle()
	if w.Enabled() {
		t.Fatal("Expected Toggle() to hide shown window")
	}
}

// TestWindowIDsUnique 同时存在的窗口 ID 不冲突
func TestWindowIDsUnique(t *testing.T) {
	h := newFakeHost()
	seen := make(map[int]bool)
	for i := 0; i < 100; i++ {
		w := NewWindow(h.Host(), Options{})
		if seen[w.ID()] {
			t.Fatalf("duplicate window id %d", w.ID())
		}
		seen[w.ID()] = true
	}
}

func TestWindowStyleSelection(t *testing.T) {
	h := newFakeHost()

	titled := NewWindow(h.Host(), Options{Title: "Status"})
	if titled.Style().Chromeless {
		t.Error("Titled window should use the frame style")
	}
	if titled.Style().PaddingLeft != 5 {
		t.Errorf("Frame padding: got %v, want 5", titled.Style().PaddingLeft)
	}

	bare := NewWindow(h.Host(), Options{})
	if !bare.Style().Chromeless {
		t.Error("Untitled window should be chromeless")
	}

	custom := Style{TitleBarHeight: 30}
	w := NewWindow(h.Host(), Options{Title: "x", Style: &custom})
	if w.Style().TitleBarHeight != 30 {
		t.Error("Explicit style should be used")
	}
}

// TestWindowDrawAligns 非浮动窗口每帧按视口重新定位
func TestWindowDrawAligns(t *testing.T) {
	h := newFakeHost()
	w := NewWindow(h.Host(), Options{
		Position: Rect{X: 5, Y: 5, Width: 200, Height: 100},
		Align:    AlignBottomRight,
	})

	w.DrawGUI()

	want := Rect{X: 1280 - 200, Y: 720 - 100, Width: 200, Height: 100}
	if h.gui.lastRect != want {
		t.Errorf("rect passed to Window(): got %+v, want %+v", h.gui.lastRect, want)
	}
	if h.gui.lastID != w.ID() {
		t.Errorf("window id: got %d, want %d", h.gui.lastID, w.ID())
	}

	// 视口变化后下一帧重新对齐
	h.gui.screenW, h.gui.screenH = 800, 600
	w.DrawGUI()
	if w.Position.X != 600 || w.Position.Y != 500 {
		t.Errorf("after resize: got (%v, %v), want (600, 500)", w.Position.X, w.Position.Y)
	}
}

// TestWindowDrawFloatingKeepsPosition 浮动窗口位置不被对齐覆盖
func TestWindowDrawFloatingKeepsPosition(t *testing.T) {
	h := newFakeHost()
	start := Rect{X: 33, Y: 44, Width: 150, Height: 80}
	w := NewWindow(h.Host(), Options{Title: "Float", Position: start})

	w.DrawGUI()

	if w.Position != start {
		t.Errorf("floating position: got %+v, want %+v", w.Position, start)
	}
}

// TestWindowLayoutPassResetsSize 布局阶段宽高清零，由布局系统给出自然尺寸
func TestWindowLayoutPassResetsSize(t *testing.T) {
	h := newFakeHost()
	w := NewWindow(h.Host(), Options{
		Title:    "Status",
		Position: Rect{X: 10, Y: 10, Width: 500, Height: 500},
	})
	h.gui.event.Type = EventLayout
	h.gui.measuredW, h.gui.measuredH = 120, 60

	w.DrawGUI()

	if h.gui.lastRect.Width != 0 || h.gui.lastRect.Height != 0 {
		t.Errorf("layout pass should pass zero size, got %+v", h.gui.lastRect)
	}
	if w.Position.Width != 120 || w.Position.Height != 60 {
		t.Errorf("measured size: got %vx%v, want 120x60", w.Position.Width, w.Position.Height)
	}

	// 渲染阶段保持测量结果
	h.gui.event.Type = EventRepaint
	w.DrawGUI()
	if h.gui.lastRect.Width != 120 {
		t.Errorf("repaint pass width: got %v, want 120", h.gui.lastRect.Width)
	}
}

// TestWindowTitleChrome 有标题时绘制关闭按钮和拖动区域，无标题则不绘制
func TestWindowTitleChrome(t *testing.T) {
	h := newFakeHost()
	w := NewWindow(h.Host(), Options{Title: "Status", Position: Rect{Width: 200, Height: 100}})
	w.DrawGUI()

	if len(h.gui.buttons) != 1 {
		t.Fatalf("buttons: got %d, want 1", len(h.gui.buttons))
	}
	wantClose := Rect{X: 182, Y: 2, Width: 16, Height: 16}
	if h.gui.buttons[0] != wantClose {
		t.Errorf("close button: got %+v, want %+v", h.gui.buttons[0], wantClose)
	}
	if len(h.gui.dragRects) != 1 || h.gui.dragRects[0].Height != 20 {
		t.Errorf("drag rects: got %+v", h.gui.dragRects)
	}
	if h.gui.lastTitle != "Status" || h.gui.lastStyle.Chromeless {
		t.Error("Titled window should pass its title and frame style")
	}

	h2 := newFakeHost()
	bare := NewWindow(h2.Host(), Options{Position: Rect{Width: 200, Height: 100}})
	bare.DrawGUI()
	if len(h2.gui.buttons) != 0 || len(h2.gui.dragRects) != 0 {
		t.Error("Chromeless window should not draw close button or drag area")
	}
	if !h2.gui.lastStyle.Chromeless {
		t.Error("Chromeless window should pass the none style")
	}
}

// TestWindowCloseButtonHides 点击关闭按钮隐藏窗口
func TestWindowCloseButtonHides(t *testing.T) {
	h := newFakeHost()
	w := NewWindow(h.Host(), Options{Title: "Status", Position: Rect{Width: 200, Height: 100}})
	w.Show()

	h.gui.clickButtons = true
	w.DrawGUI()

	if w.Enabled() {
		t.Error("Expected close button to hide the window")
	}
	if h.draw.removes != 1 || h.pointer.removes != 1 {
		t.Errorf("Expected one unregistration each, got draw=%d pointer=%d", h.draw.removes, h.pointer.removes)
	}
}

// TestWindowConsumesMouseEvents 窗口范围内的鼠标事件被消费
func TestWindowConsumesMouseEvents(t *testing.T) {
	tests := []struct {
		name     string
		event    Event
		wantUsed bool
	}{
		{"mouse down inside", Event{Type: EventMouseDown, MouseX: 50, MouseY: 50}, true},
		{"mouse up inside", Event{Type: EventMouseUp, MouseX: 10, MouseY: 10}, true},
		{"mouse down outside", Event{Type: EventMouseDown, MouseX: 500, MouseY: 50}, false},
		{"repaint inside", Event{Type: EventRepaint, MouseX: 50, MouseY: 50}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newFakeHost()
			w := NewWindow(h.Host(), Options{Position: Rect{X: 0, Y: 0, Width: 200, Height: 100}})
			h.gui.event = tt.event

			w.DrawGUI()

			if used := h.gui.event.Type == EventUsed; used != tt.wantUsed {
				t.Errorf("event used: got %v, want %v", used, tt.wantUsed)
			}
		})
	}
}

// TestWindowContentCallback 内容回调每次绘制都被调用
func TestWindowContentCallback(t *testing.T) {
	h := newFakeHost()
	calls := 0
	var gotWindow *Window
	w := NewWindow(h.Host(), Options{
		Content: func(win *Window, ui IMGUI) {
			calls++
			gotWindow = win
		},
	})

	w.DrawGUI()
	w.DrawGUI()

	if calls != 2 {
		t.Errorf("content calls: got %d, want 2", calls)
	}
	if gotWindow != w {
		t.Error("content callback should receive its window")
	}
}

// TestWindowPointerOcclusion 指针落在窗口内时设置占用标记
func TestWindowPointerOcclusion(t *testing.T) {
	tests := []struct {
		name string
		info PointerInfo
		want bool
	}{
		{"top-left inside", PointerInfo{X: 50, Y: 50, Origin: OriginTopLeft}, true},
		{"top-left outside", PointerInfo{X: 50, Y: 650, Origin: OriginTopLeft}, false},
		// 自下而上的坐标：y=670 → 720-670=50，位于窗口内
		{"bottom-left inside", PointerInfo{X: 50, Y: 670, Origin: OriginBottomLeft}, true},
		// 自下而上的坐标：y=50 → 670，位于窗口外
		{"bottom-left outside", PointerInfo{X: 50, Y: 50, Origin: OriginBottomLeft}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newFakeHost()
			w := NewWindow(h.Host(), Options{Position: Rect{X: 0, Y: 0, Width: 200, Height: 100}})

			w.OnPointer(tt.info)

			if got := h.claims.Get(0); got != tt.want {
				t.Errorf("claim[0]: got %v, want %v", got, tt.want)
			}
		})
	}
}

// TestWindowPointerNeverClears 占用标记只会被设置，不会被清除
func TestWindowPointerNeverClears(t *testing.T) {
	h := newFakeHost()
	w := NewWindow(h.Host(), Options{Position: Rect{Width: 10, Height: 10}})
	h.claims.Set(0, true)

	w.OnPointer(PointerInfo{X: 500, Y: 500})

	if !h.claims.Get(0) {
		t.Error("OnPointer outside the window must not clear the claim")
	}
}

// TestWindowRemembersPosition 隐藏时记住位置，再次显示时恢复
func TestWindowRemembersPosition(t *testing.T) {
	h := newFakeHost()
	mem := NewPositionMemory()

	w := NewWindow(h.Host(), Options{Title: "Status", Position: Rect{X: 1, Y: 1, Width: 10, Height: 10}})
	w.Remember(mem, "status")
	w.Show()
	w.Position = Rect{X: 300, Y: 200, Width: 10, Height: 10}
	w.Hide()

	if r, ok := mem.Get("status"); !ok || r.X != 300 {
		t.Fatalf("memory: got %+v, %v", r, ok)
	}

	w2 := NewWindow(h.Host(), Options{Title: "Status", Position: Rect{X: 1, Y: 1}})
	w2.Remember(mem, "status")
	w2.Show()
	if w2.Position.X != 300 || w2.Position.Y != 200 {
		t.Errorf("restored position: got %+v", w2.Position)
	}
}

func TestWindowHooks(t *testing.T) {
	h := newFakeHost()
	w := NewWindow(h.Host(), Options{})
	shown, hidden := 0, 0
	w.SetHooks(func() { shown++ }, func() { hidden++ })

	w.Show()
	w.Show()
	w.Hide()
	w.Hide()

	if shown != 1 || hidden != 1 {
		t.Errorf("hooks: got show=%d hide=%d, want 1/1", shown, hidden)
	}
}
