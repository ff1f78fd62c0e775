// Package gui 提供覆盖层窗口的生命周期与对齐引擎
//
// 窗口本身不直接依赖宿主实现，所有外部协作者（绘制队列、指针监听队列、
// 指针占用标记、即时模式 GUI 原语）都通过 Host 显式注入。
// 具体的 ebiten 适配见 pkg/hostui。
package gui

import (
	"fmt"
	"strings"
)

// WindowAlign 窗口对齐方式
//
// AlignFloating 表示位置由用户控制（可拖动），
// 其余方式每帧根据视口尺寸重新计算窗口原点。
type WindowAlign int

const (
	AlignFloating WindowAlign = iota
	AlignBottomRight
	AlignBottomLeft
	AlignTopRight
	AlignTopLeft
)

var alignNames = map[WindowAlign]string{
	AlignFloating:    "floating",
	AlignBottomRight: "bottom-right",
	AlignBottomLeft:  "bottom-left",
	AlignTopRight:    "top-right",
	AlignTopLeft:     "top-left",
}

// String 返回对齐方式的配置名
func (a WindowAlign) String() string {
	if name, ok := alignNames[a]; ok {
		return name
	}
	return fmt.Sprintf("WindowAlign(%d)", int(a))
}

// ParseWindowAlign 从配置名解析对齐方式（大小写不敏感，允许下划线）
func ParseWindowAlign(s string) (WindowAlign, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	for align, name := range alignNames {
		if name == key {
			return align, nil
		}
	}
	return AlignFloating, fmt.Errorf("unknown window align %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (a WindowAlign) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *WindowAlign) UnmarshalText(b []byte) error {
	parsed, err := ParseWindowAlign(string(b))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ComputeOrigin 根据对齐方式、视口尺寸和窗口尺寸计算窗口左上角位置
//
// 坐标系为自上而下（y 轴向下）。
// AlignFloating 返回 ok == false，调用方应保持原位置不变。
//
// 参数：
//   - mode: 对齐方式
//   - viewportW, viewportH: 当前视口尺寸
//   - windowW, windowH: 窗口上一次测量的尺寸
//
// 返回：
//   - x, y: 窗口原点
//   - ok: 是否需要覆盖原点
func ComputeOrigin(mode WindowAlign, viewportW, viewportH, windowW, windowH float64) (x, y float64, ok bool) {
	switch mode {
	case AlignBottomLeft:
		return 0, viewportH - windowH, true
	case AlignBottomRight:
		return viewportW - windowW, viewportH - windowH, true
	case AlignTopLeft:
		return 0, 0, true
	case AlignTopRight:
		return viewportW - windowW, 0, true
	default:
		return 0, 0, false
	}
}

// Rect 屏幕空间矩形（原点在左上角）
type Rect struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Contains 判断点是否落在矩形内（含左上边界，不含右下边界）
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Aligned 返回按对齐方式重新定位后的矩形，尺寸保持不变
func (r Rect) Aligned(mode WindowAlign, viewportW, viewportH float64) Rect {
	if x, y, ok := ComputeOrigin(mode, viewportW, viewportH, r.Width, r.Height); ok {
		r.X, r.Y = x, y
	}
	return r
}
