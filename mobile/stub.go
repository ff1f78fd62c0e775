//go:build !mobile

// stub.go - 非移动端构建时的占位文件
//
// 普通构建只编译此文件；绑定入口在 mobile.go，仅 -tags mobile 时编译。
package mobile

// Dummy 保证包在桌面端构建时也能被引用
func Dummy() {}
