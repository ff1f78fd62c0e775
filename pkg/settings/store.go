package settings

import (
	"errors"
	"fmt"
	"log"
)

// StoreConfig 设置存储配置
type StoreConfig struct {
	// Backend 主文件持久化服务，为 nil 时只使用内存中的默认设置（降级模式）
	Backend Backend
	// Resolver 持久化上下文解析，为 nil 时视为没有活动存档
	Resolver ContextResolver
	// Overrides 覆盖配置来源，可为 nil
	Overrides OverrideSource
	// SelfOrigin 插件自身设置块的来源标识，为空时使用 SelfOrigin 常量
	SelfOrigin string
	// AfterOverride 每个覆盖应用完成（受保护字段已恢复）后调用，可为 nil
	AfterOverride func(block OverrideBlock, settings *Settings)
}

// Store 设置存储
//
// 职责：
//   - 从主文件加载设置，主文件不存在时写入默认文件
//   - 按顺序应用外部覆盖配置，并保护受保护字段
//   - 把合并后的设置保存回主文件
//
// 状态：Unloaded → Loaded，只有 Reset()（会话边界）会回到 Unloaded。
// 所有方法都在宿主主线程调用，不做并发保护。
type Store struct {
	backend       Backend
	resolver      ContextResolver
	overrides     OverrideSource
	selfOrigin    string
	afterOverride func(block OverrideBlock, settings *Settings)

	current *Settings
	lastErr error
}

// NewStore 创建设置存储（不立即加载）
func NewStore(cfg StoreConfig) *Store {
	selfOrigin := cfg.SelfOrigin
	if selfOrigin == "" {
		selfOrigin = SelfOrigin
	}
	return &Store{
		backend:       cfg.Backend,
		resolver:      cfg.Resolver,
		overrides:     cfg.Overrides,
		selfOrigin:    selfOrigin,
		afterOverride: cfg.AfterOverride,
	}
}

func (st *Store) context() Context {
	if st.resolver == nil {
		return Context{}
	}
	return st.resolver.Resolve()
}

// location 返回当前主文件位置；没有可持久化上下文时返回 false
func (st *Store) location() (Location, bool) {
	if st.backend == nil {
		return Location{}, false
	}
	return st.context().persistent()
}

// Current 返回当前设置
//
// 已有设置且已完成文件加载时直接返回，否则执行 Load() 并缓存结果。
// 因此在加载画面获取到的默认设置，会在进入存档后自动重新加载。
func (st *Store) Current() *Settings {
	if st.current != nil && st.current.SettingsLoaded {
		return st.current
	}
	st.current = st.Load()
	return st.current
}

// EnsureLoaded 会话开始时显式初始化设置
func (st *Store) EnsureLoaded() *Settings {
	return st.Current()
}

// Reset 会话结束（离开存档）时丢弃当前设置
func (st *Store) Reset() {
	st.current = nil
}

// Loaded 返回当前是否持有已完成文件加载的设置
func (st *Store) Loaded() bool {
	return st.current != nil && st.current.SettingsLoaded
}

// LastError 返回最近一次保存或加载时记录的错误（仅用于诊断）
func (st *Store) LastError() error {
	return st.lastErr
}

// Load 构建一份新的合并设置
//
// 流程：
//  1. 创建默认设置
//  2. 场景/训练上下文强制关闭插件
//  3. 没有活动存档时直接返回默认设置（SettingsLoaded 保持 false，不做任何 I/O）
//  4. 读取主文件：不存在则写入默认文件并标记 FirstStart；
//     存在则按需去掉外层包装后解码
//  5. 依次应用覆盖配置（跳过插件自身的设置块），
//     每个覆盖前后执行 BackupFields()/RestoreBackups()
//  6. 返回合并结果
func (st *Store) Load() *Settings {
	settings := DefaultSettings()
	ctx := st.context()

	if ctx.Scenario {
		settings.RelayNetEnabled = false
	}

	loc, ok := st.location()
	if !ok {
		return settings
	}

	settings.SettingsLoaded = true

	node, err := st.backend.Load(loc)
	switch {
	case errors.Is(err, ErrNotFound):
		st.save(settings, loc)
		settings.FirstStart = true
		log.Printf("[Settings] No settings at %s, wrote defaults", loc)
	case err != nil:
		st.lastErr = err
		log.Printf("[Settings] Warning: failed to load %s: %v (using defaults)", loc, err)
	default:
		if HasNamedChild(node, SchemaName) {
			node = NamedChild(node, SchemaName)
		}
		log.Printf("[Settings] Load base settings from %s", loc)
		if err := Decode(settings, node); err != nil {
			log.Printf("[Settings] Warning: %s: %v", loc, err)
		}
	}

	st.applyOverrides(settings)
	return settings
}

// applyOverrides 依次应用第三方覆盖配置
//
// 每个覆盖的备份/恢复是链式的：受保护字段恢复为该覆盖应用前的值。
func (st *Store) applyOverrides(settings *Settings) {
	if st.overrides == nil {
		return
	}

	blocks, err := st.overrides.Discover(SchemaName)
	if err != nil {
		log.Printf("[Settings] Warning: override discovery failed: %v", err)
	}

	for _, block := range blocks {
		if block.Origin == st.selfOrigin {
			continue
		}
		log.Printf("[Settings] Override settings with config from %s", block.Origin)
		settings.BackupFields()
		if err := Decode(settings, block.Node); err != nil {
			log.Printf("[Settings] Warning: override %s: %v", block.Origin, err)
		}
		settings.RestoreBackups()
		if st.afterOverride != nil {
			st.afterOverride(block, settings)
		}
	}
}

// Save 保存当前设置；没有设置或没有可持久化上下文时不做任何事
//
// 保存失败只记录日志，不向调用方传播。
func (st *Store) Save() {
	if st.current == nil {
		return
	}
	st.SaveSettings(st.current)
}

// SaveSettings 保存指定设置
func (st *Store) SaveSettings(settings *Settings) {
	loc, ok := st.location()
	if !ok {
		return
	}
	st.save(settings, loc)
}

func (st *Store) save(settings *Settings, loc Location) {
	defer func() {
		if r := recover(); r != nil {
			st.lastErr = fmt.Errorf("panic while saving: %v", r)
			log.Printf("[Settings] An error occurred while attempting to save: %v", r)
		}
	}()

	if err := st.backend.Save(loc, Wrap(SchemaName, Encode(settings))); err != nil {
		st.lastErr = err
		log.Printf("[Settings] An error occurred while attempting to save: %v", err)
		return
	}
	st.lastErr = nil
	log.Printf("[Settings] Settings saved to %s", loc)
}
