// Package hostui 基于 ebiten 的覆盖层宿主实现
//
// 提供 pkg/gui 所需的外部协作者：
//   - DrawQueue: 按层级排序的逐帧绘制队列
//   - PointerRouter: 指针监听队列和"指针已被占用"标记
//   - Context: 即时模式 GUI 原语（文本、按钮、可拖动窗口）
//   - Driver: 把 ebiten 的 Update/Draw 转换为 GUI 事件并分发
package hostui

import (
	"sort"

	"github.com/decker502/relaynet/pkg/gui"
)

type drawEntry struct {
	priority int
	seq      int
	drawer   gui.Drawer
}

// DrawQueue 逐帧绘制队列
//
// 同一层级按注册顺序调用，层级小的先绘制。
type DrawQueue struct {
	entries []drawEntry
	nextSeq int
	removed map[int]bool
}

// NewDrawQueue 创建绘制队列
func NewDrawQueue() *DrawQueue {
	return &DrawQueue{removed: make(map[int]bool)}
}

// AddToPostDrawQueue implements gui.DrawDispatcher.
func (q *DrawQueue) AddToPostDrawQueue(priority int, d gui.Drawer) {
	q.nextSeq++
	q.entries = append(q.entries, drawEntry{priority: priority, seq: q.nextSeq, drawer: d})
	sort.SliceStable(q.entries, func(i, j int) bool {
		return q.entries[i].priority < q.entries[j].priority
	})
}

// RemoveFromPostDrawQueue implements gui.DrawDispatcher.
//
// 只移除第一条匹配的注册。
func (q *DrawQueue) RemoveFromPostDrawQueue(priority int, d gui.Drawer) {
	for i, e := range q.entries {
		if e.priority == priority && e.drawer == d {
			q.removed[e.seq] = true
			q.entries = append(q.entries[:i:i], q.entries[i+1:]...)
			return
		}
	}
}

// Len 返回当前注册数
func (q *DrawQueue) Len() int {
	return len(q.entries)
}

// Dispatch 按顺序调用所有绘制回调
//
// 回调中可以安全地注册或注销：本次分发使用快照，
// 已在本次分发中被注销的回调不再调用，新注册的回调下次分发才调用。
func (q *DrawQueue) Dispatch() {
	snapshot := make([]drawEntry, len(q.entries))
	copy(snapshot, q.entries)
	clear(q.removed)

	for _, e := range snapshot {
		if q.removed[e.seq] {
			continue
		}
		e.drawer.DrawGUI()
	}
}
