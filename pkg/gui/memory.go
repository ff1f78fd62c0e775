package gui

// PositionMemory 按名称保存浮动窗口位置（仅运行时，不持久化）
//
// 零值可以直接使用。
type PositionMemory struct {
	positions map[string]Rect
}

// NewPositionMemory 创建空的位置记录
func NewPositionMemory() *PositionMemory {
	return &PositionMemory{positions: make(map[string]Rect)}
}

// Get 返回记录的位置
func (m *PositionMemory) Get(key string) (Rect, bool) {
	r, ok := m.positions[key]
	return r, ok
}

// Set 记录位置
func (m *PositionMemory) Set(key string, r Rect) {
	if m.positions == nil {
		m.positions = make(map[string]Rect)
	}
	m.positions[key] = r
}

// Len 返回记录条数
func (m *PositionMemory) Len() int {
	return len(m.positions)
}
