package settings

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"path"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// SchemaName 设置块名称，同时也是主文件的外层包装名
const SchemaName = "RelayNetSettings"

// SelfOrigin 插件自带设置块的来源标识，它是基础而不是覆盖，加载时跳过
const SelfOrigin = "RelayNet/RelayNet_Settings/" + SchemaName

// DefaultOverridePattern 默认扫描的覆盖配置文件
const DefaultOverridePattern = "**.{yaml,yml,toml}"

// OverrideBlock 外部发现的一个设置块
type OverrideBlock struct {
	// Origin 来源标识，形如 "<目录>/<文件名去扩展名>/<块名>"
	Origin string
	Node   *yaml.Node
}

// OverrideSource 覆盖配置发现服务
type OverrideSource interface {
	// Discover 返回所有名为 schema 的设置块，顺序即应用顺序
	Discover(schema string) ([]OverrideBlock, error)
}

// MultiSource 依次合并多个来源的结果
//
// 某个来源失败时继续扫描其余来源，返回全部找到的块和合并后的错误。
type MultiSource []OverrideSource

// Discover implements OverrideSource.
func (m MultiSource) Discover(schema string) ([]OverrideBlock, error) {
	var blocks []OverrideBlock
	var errs []error
	for _, src := range m {
		if src == nil {
			continue
		}
		found, err := src.Discover(schema)
		if err != nil {
			errs = append(errs, err)
		}
		blocks = append(blocks, found...)
	}
	return blocks, errors.Join(errs...)
}

// StaticSource 固定的设置块列表（按给定顺序）
type StaticSource []OverrideBlock

// Discover implements OverrideSource.
func (s StaticSource) Discover(schema string) ([]OverrideBlock, error) {
	return s, nil
}

// DirectorySource 扫描文件系统中的 YAML/TOML 配置文件
//
// 每个文件的顶层键中名为 schema 的块都是一个覆盖；YAML 文件可以包含多个文档。
// 结果按来源标识排序，保证应用顺序稳定。
type DirectorySource struct {
	FS       fs.FS
	patterns []glob.Glob
}

// NewDirectorySource 创建目录扫描来源
//
// 参数：
//   - fsys: 被扫描的文件系统（os.DirFS 或内嵌资源）
//   - patterns: 文件匹配模式（gobwas/glob 语法，'/' 为分隔符），为空时使用 DefaultOverridePattern
func NewDirectorySource(fsys fs.FS, patterns ...string) (*DirectorySource, error) {
	if len(patterns) == 0 {
		patterns = []string{DefaultOverridePattern}
	}

	src := &DirectorySource{FS: fsys}
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid override pattern '%s': %w", pattern, err)
		}
		src.patterns = append(src.patterns, g)
	}
	return src, nil
}

func (d *DirectorySource) matches(p string) bool {
	for _, g := range d.patterns {
		if g.Match(p) {
			return true
		}
	}
	return false
}

// Discover implements OverrideSource.
func (d *DirectorySource) Discover(schema string) ([]OverrideBlock, error) {
	var blocks []OverrideBlock

	err := fs.WalkDir(d.FS, ".", func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || !d.matches(p) {
			return nil
		}

		data, err := fs.ReadFile(d.FS, p)
		if err != nil {
			log.Printf("[Overrides] Warning: failed to read %s: %v", p, err)
			return nil
		}

		nodes, err := parseConfigFile(p, data, schema)
		if err != nil {
			log.Printf("[Overrides] Warning: skipping %s: %v", p, err)
			return nil
		}

		origin := strings.TrimSuffix(p, path.Ext(p)) + "/" + schema
		for _, node := range nodes {
			blocks = append(blocks, OverrideBlock{Origin: origin, Node: node})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan override configs: %w", err)
	}

	sort.SliceStable(blocks, func(i, j int) bool {
		return blocks[i].Origin < blocks[j].Origin
	})
	return blocks, nil
}

// parseConfigFile 按扩展名解析文件，返回所有名为 schema 的顶层块
func parseConfigFile(p string, data []byte, schema string) ([]*yaml.Node, error) {
	if strings.EqualFold(path.Ext(p), ".toml") {
		return parseTOMLBlocks(data, schema)
	}
	return parseYAMLBlocks(data, schema)
}

func parseYAMLBlocks(data []byte, schema string) ([]*yaml.Node, error) {
	var nodes []*yaml.Node
	dec := yaml.NewDecoder(bytes.NewReader(data))
	for {
		var doc yaml.Node
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		root := unwrapDocument(&doc)
		if root == nil || root.Kind != yaml.MappingNode {
			continue
		}
		for i := 0; i+1 < len(root.Content); i += 2 {
			if root.Content[i].Value == schema {
				nodes = append(nodes, root.Content[i+1])
			}
		}
	}
	return nodes, nil
}

func parseTOMLBlocks(data []byte, schema string) ([]*yaml.Node, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	value, ok := doc[schema]
	if !ok {
		return nil, nil
	}

	var node yaml.Node
	if err := node.Encode(value); err != nil {
		return nil, fmt.Errorf("failed to convert toml block: %w", err)
	}
	return []*yaml.Node{&node}, nil
}
