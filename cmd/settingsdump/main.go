// settingsdump 输出合并后的设置（默认设置 + 存档主文件 + 覆盖配置）
//
// 用于检查覆盖配置的叠加结果：
//
//	go run ./cmd/settingsdump -root ~/ksp -save career -overrides ~/ksp/GameData
//	go run ./cmd/settingsdump -list -overrides ./mods
//	go run ./cmd/settingsdump -format toml
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/decker502/relaynet/pkg/app"
	"github.com/decker502/relaynet/pkg/settings"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

var (
	root         = flag.String("root", ".", "存档根目录")
	save         = flag.String("save", "", "存档名，为空时不读取主文件")
	scenario     = flag.Bool("scenario", false, "模拟场景/训练模式")
	overridesDir = flag.String("overrides", "", "覆盖配置目录")
	useGdata     = flag.Bool("gdata", false, "从 gdata 读取主文件")
	format       = flag.String("format", "yaml", "输出格式 (yaml, toml)")
	list         = flag.Bool("list", false, "只列出发现的覆盖配置来源")
	keys         = flag.Bool("keys", false, "只列出持久化键")
	verbose      = flag.Bool("verbose", false, "显示详细调试信息")
)

func main() {
	flag.Parse()

	if !*verbose {
		log.SetOutput(io.Discard)
	}

	cfg := app.Config{
		Root:         *root,
		Save:         *save,
		Scenario:     *scenario,
		OverridesDir: *overridesDir,
		UseGdata:     *useGdata,
	}

	var err error
	switch {
	case *keys:
		for _, key := range settings.SchemaKeys() {
			fmt.Println(key)
		}
	case *list:
		err = listOverrides(cfg)
	default:
		err = dump(cfg, *format, os.Stdout)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// listOverrides 按应用顺序输出覆盖配置的来源标识
func listOverrides(cfg app.Config) error {
	sources, err := app.OverrideSources(cfg)
	if err != nil {
		return err
	}
	blocks, err := sources.Discover(settings.SchemaName)
	if err != nil {
		return err
	}
	for _, b := range blocks {
		marker := ""
		if b.Origin == settings.SelfOrigin {
			marker = " (skipped)"
		}
		fmt.Printf("%s%s\n", b.Origin, marker)
	}
	fmt.Printf("Total: %d\n", len(blocks))
	return nil
}

// dump 加载合并后的设置并按指定格式输出
func dump(cfg app.Config, format string, w io.Writer) error {
	store, err := app.NewSettingsStore(cfg)
	if err != nil {
		return err
	}
	s := store.EnsureLoaded()
	if err := store.LastError(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	node := settings.Wrap(settings.SchemaName, settings.Encode(s))

	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(node); err != nil {
			enc.Close()
			return fmt.Errorf("failed to encode settings: %w", err)
		}
		return enc.Close()
	case "toml":
		var doc map[string]any
		if err := node.Decode(&doc); err != nil {
			return fmt.Errorf("failed to convert settings: %w", err)
		}
		return toml.NewEncoder(w).Encode(doc)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
