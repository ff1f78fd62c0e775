package hostui

import "github.com/decker502/relaynet/pkg/gui"

// PointerSlots 占用标记数组长度（与旧输入路由系统的指针数一致）
const PointerSlots = 4

// PointerRouter 指针监听队列，同时持有"指针已被占用"标记
//
// 宿主每帧先 Clear()，再对每个指针事件 Route()；
// 游戏逻辑通过 Claimed() 判断是否应忽略本帧的点击。
type PointerRouter struct {
	listeners []gui.PointerListener
	claims    [PointerSlots]bool
}

// NewPointerRouter 创建指针路由
func NewPointerRouter() *PointerRouter {
	return &PointerRouter{}
}

// AddPointerListener implements gui.PointerDispatcher.
func (r *PointerRouter) AddPointerListener(l gui.PointerListener) {
	r.listeners = append(r.listeners, l)
}

// RemovePointerListener implements gui.PointerDispatcher.
func (r *PointerRouter) RemovePointerListener(l gui.PointerListener) {
	for i, existing := range r.listeners {
		if existing == l {
			r.listeners = append(r.listeners[:i:i], r.listeners[i+1:]...)
			return
		}
	}
}

// Len 返回监听器数量
func (r *PointerRouter) Len() int {
	return len(r.listeners)
}

// Get implements gui.PointerClaims.
func (r *PointerRouter) Get(index int) bool {
	if index < 0 || index >= PointerSlots {
		return false
	}
	return r.claims[index]
}

// Set implements gui.PointerClaims.
func (r *PointerRouter) Set(index int, v bool) {
	if index < 0 || index >= PointerSlots {
		return
	}
	r.claims[index] = v
}

// Clear 清除所有占用标记
func (r *PointerRouter) Clear() {
	r.claims = [PointerSlots]bool{}
}

// Route 把指针事件分发给所有监听器，返回主指针是否已被占用
func (r *PointerRouter) Route(p gui.PointerInfo) bool {
	snapshot := make([]gui.PointerListener, len(r.listeners))
	copy(snapshot, r.listeners)
	for _, l := range snapshot {
		l.OnPointer(p)
	}
	return r.claims[0]
}

// Claimed 返回主指针是否已被覆盖层占用
func (r *PointerRouter) Claimed() bool {
	return r.claims[0]
}
