// Package app 提供覆盖层应用的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"
	"os"

	"github.com/decker502/relaynet/pkg/embedded"
	"github.com/decker502/relaynet/pkg/gui"
	"github.com/decker502/relaynet/pkg/hostui"
	"github.com/decker502/relaynet/pkg/settings"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// GdataAppName gdata 持久化使用的应用名
const GdataAppName = "relaynet"

// 默认逻辑屏幕尺寸
const (
	DefaultWidth  = 1280
	DefaultHeight = 720
)

// settingsWindowKey 设置窗口在位置记忆中的键
const settingsWindowKey = "settings"

var backgroundColor = color.RGBA{R: 12, G: 16, B: 28, A: 255}

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// Root 存档根目录，主设置文件位于 Root/saves/<Save>/
	Root string
	// Save 当前存档名，为空表示没有活动存档（只使用默认设置）
	Save string
	// Scenario 场景/训练模式，强制关闭插件
	Scenario bool
	// OverridesDir 额外扫描的覆盖配置目录，为空则只使用内置数据
	OverridesDir string
	// UseGdata 使用 gdata 持久化代替 Root 目录下的文件
	UseGdata bool
	// Width, Height 逻辑屏幕尺寸，为 0 时使用默认值
	Width  int
	Height int
}

// App 覆盖层应用，实现 ebiten.Game 接口
type App struct {
	store  *settings.Store
	driver *hostui.Driver
	memory *gui.PositionMemory

	settingsWindow *gui.Window
	filterBar      *gui.Window

	width  int
	height int

	verbose                  bool
	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
	passThroughClicks        int  // 未被覆盖层占用的点击次数
}

// NewApp 创建并初始化应用
//
// 调用此函数前，应先调用 embedded.Init() 初始化内置数据；
// 未初始化时跳过内置覆盖配置。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	store, err := NewSettingsStore(cfg)
	if err != nil {
		return nil, err
	}

	face, err := hostui.NewDefaultFace(hostui.DefaultFontSize)
	if err != nil {
		return nil, fmt.Errorf("字体初始化失败: %w", err)
	}

	return newApp(cfg, store, hostui.NewDriver(nil, face)), nil
}

// newApp 组装窗口和宿主驱动（测试中使用假输入）
func newApp(cfg Config, store *settings.Store, driver *hostui.Driver) *App {
	width, height := cfg.Width, cfg.Height
	if width <= 0 || height <= 0 {
		width, height = DefaultWidth, DefaultHeight
	}

	a := &App{
		store:   store,
		driver:  driver,
		memory:  gui.NewPositionMemory(),
		width:   width,
		height:  height,
		verbose: cfg.Verbose,
	}
	driver.SetScreenSize(float64(width), float64(height))

	s := store.EnsureLoaded()
	if s.FirstStart {
		log.Printf("[App] First start, wrote default settings")
	}
	log.Printf("[App] Settings loaded (save=%q, enabled=%v)", cfg.Save, s.RelayNetEnabled)

	a.settingsWindow = gui.NewWindow(driver.Host(), gui.Options{
		Title:    "RelayNet Settings",
		Position: gui.Rect{X: 40, Y: 40},
		Align:    gui.AlignFloating,
		Content:  a.drawSettings,
	})
	a.settingsWindow.Remember(a.memory, settingsWindowKey)

	a.filterBar = gui.NewWindow(driver.Host(), gui.Options{
		Align:   gui.AlignBottomRight,
		Content: a.drawFilterBar,
	})
	if s.RelayNetEnabled {
		a.filterBar.Show()
	}

	return a
}

// NewSettingsStore 按启动配置创建设置存储
func NewSettingsStore(cfg Config) (*settings.Store, error) {
	var backend settings.Backend
	if cfg.UseGdata {
		b, err := settings.OpenGdataBackend(GdataAppName)
		if err != nil {
			return nil, fmt.Errorf("gdata 初始化失败: %w", err)
		}
		backend = b
	} else {
		backend = settings.NewFileBackend(cfg.Root)
	}

	sources, err := OverrideSources(cfg)
	if err != nil {
		return nil, err
	}

	return settings.NewStore(settings.StoreConfig{
		Backend: backend,
		Resolver: settings.StaticContext{
			Active:   cfg.Save != "",
			Scenario: cfg.Scenario,
			Save:     cfg.Save,
		},
		Overrides: sources,
	}), nil
}

// OverrideSources 返回覆盖配置来源
//
// 顺序：内置 data/ 目录，然后是 OverridesDir。
func OverrideSources(cfg Config) (settings.MultiSource, error) {
	var sources settings.MultiSource
	if embedded.IsInitialized() {
		data, err := embedded.Sub("data")
		if err != nil {
			return nil, fmt.Errorf("内置数据加载失败: %w", err)
		}
		src, err := settings.NewDirectorySource(data)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	if cfg.OverridesDir != "" {
		src, err := settings.NewDirectorySource(os.DirFS(cfg.OverridesDir))
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
		log.Printf("[Config] 加载覆盖配置目录: %s", cfg.OverridesDir)
	}
	return sources, nil
}

// drawSettings 设置窗口内容
func (a *App) drawSettings(w *gui.Window, ui gui.IMGUI) {
	s := a.store.Current()

	enabled := "disabled"
	if s.RelayNetEnabled {
		enabled = "enabled"
	}
	ui.Label("RelayNet: " + enabled)
	ui.Label(fmt.Sprintf("Signal delay: %v", s.EnableSignalDelay))
	ui.Label(fmt.Sprintf("Speed of light: %.0f m/s", s.SpeedOfLight))
	ui.Label("Range model: " + s.RangeModelType.String())
	ui.Label(fmt.Sprintf("Range multiplier: %.2f", s.RangeMultiplier))
	ui.Label(fmt.Sprintf("Consumption multiplier: %.2f", s.ConsumptionMultiplier))
	ui.Label("Map filter: " + s.MapFilter.String())
	ui.Label(fmt.Sprintf("Ground stations: %d", len(s.GroundStations)))
}

// drawFilterBar 地图过滤按钮
func (a *App) drawFilterBar(w *gui.Window, ui gui.IMGUI) {
	label := "Filter: " + a.store.Current().MapFilter.String()
	if ui.Button(gui.Rect{Width: 160, Height: 22}, label) {
		a.CycleMapFilter()
	}
}

// CycleMapFilter 切换到下一个地图过滤并保存
func (a *App) CycleMapFilter() {
	s := a.store.Current()
	s.MapFilter = s.MapFilter.Next()
	log.Printf("[App] Map filter: %s", s.MapFilter)
	a.store.Save()
}

// ToggleSettings 显示或隐藏设置窗口
func (a *App) ToggleSettings() {
	a.settingsWindow.Toggle()
}

// Settings 返回当前设置
func (a *App) Settings() *settings.Settings {
	return a.store.Current()
}

// Store 返回设置存储
func (a *App) Store() *settings.Store {
	return a.store
}

// Update 更新逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(a.width, a.height)
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", a.width, a.height)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
		} else {
			ebiten.SetFullscreen(true)
		}
	}

	// F7 切换设置窗口
	if inpututil.IsKeyJustPressed(ebiten.KeyF7) {
		a.ToggleSettings()
	}

	a.tick(inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft))
	return nil
}

// tick 分发覆盖层输入；点击未被窗口占用时交给地图
func (a *App) tick(clicked bool) {
	a.driver.Update()
	if clicked && !a.driver.PointerClaimed() {
		a.passThroughClicks++
		log.Printf("[App] Map click (total=%d)", a.passThroughClicks)
	}
}

// Draw 绘制画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	a.driver.Draw(screen)
}

// Layout 返回逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.width, a.height
}

// Close 会话结束：隐藏窗口并丢弃当前设置
func (a *App) Close() {
	a.settingsWindow.Hide()
	a.filterBar.Hide()
	a.store.Reset()
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
