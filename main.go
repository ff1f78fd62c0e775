package main

import (
	"flag"
	"log"

	"github.com/decker502/relaynet/pkg/app"
	"github.com/decker502/relaynet/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	verbose      = flag.Bool("verbose", false, "显示详细调试信息")
	root         = flag.String("root", ".", "存档根目录（主设置文件位于 <root>/saves/<save>/）")
	save         = flag.String("save", "default", "当前存档名，为空表示不加载存档设置")
	scenario     = flag.Bool("scenario", false, "以场景/训练模式启动（关闭插件）")
	overridesDir = flag.String("overrides", "", "额外扫描的覆盖配置目录")
	useGdata     = flag.Bool("gdata", false, "使用 gdata 保存设置（代替 root 目录下的文件）")
	width        = flag.Int("width", app.DefaultWidth, "逻辑屏幕宽度")
	height       = flag.Int("height", app.DefaultHeight, "逻辑屏幕高度")
)

func main() {
	flag.Parse()

	// 初始化内置数据
	embedded.Init(dataFS)

	a, err := app.NewApp(app.Config{
		Verbose:      *verbose,
		Root:         *root,
		Save:         *save,
		Scenario:     *scenario,
		OverridesDir: *overridesDir,
		UseGdata:     *useGdata,
		Width:        *width,
		Height:       *height,
	})
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}
	defer a.Close()

	ebiten.SetWindowSize(*width, *height)
	ebiten.SetWindowTitle("RelayNet")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(a); err != nil {
		log.Fatal(err)
	}
}
