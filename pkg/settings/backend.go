package settings

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// ErrNotFound 主文件不存在
var ErrNotFound = errors.New("settings file not found")

// FileName 主设置文件名
const FileName = "RelayNet_Settings.yaml"

// Location 主设置文件在持久化上下文中的位置
type Location struct {
	// Save 存档目录名
	Save string
	// Name 文件名
	Name string
}

// String 返回 "<save>/<name>"
func (l Location) String() string {
	return l.Save + "/" + l.Name
}

// Backend 结构化配置持久化服务
type Backend interface {
	// Load 读取并解析节点；不存在时返回 ErrNotFound
	Load(loc Location) (*yaml.Node, error)
	// Save 写入节点
	Save(loc Location, node *yaml.Node) error
}

// marshalNode 以两个空格缩进序列化节点
func marshalNode(node *yaml.Node) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// unmarshalNode 解析数据为节点；空文件视为空 mapping
func unmarshalNode(data []byte) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	node := unwrapDocument(&doc)
	if node == nil {
		return NewMapping(), nil
	}
	return node, nil
}

// FileBackend 基于本地文件系统的持久化
//
// 文件路径：<Root>/saves/<Save>/<Name>
type FileBackend struct {
	Root string
}

// NewFileBackend 创建文件持久化服务
func NewFileBackend(root string) *FileBackend {
	return &FileBackend{Root: root}
}

// Path 返回位置对应的文件路径
func (b *FileBackend) Path(loc Location) string {
	return filepath.Join(b.Root, "saves", loc.Save, loc.Name)
}

// Load 读取主文件
func (b *FileBackend) Load(loc Location) (*yaml.Node, error) {
	data, err := os.ReadFile(b.Path(loc))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", b.Path(loc), err)
	}

	node, err := unmarshalNode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", b.Path(loc), err)
	}
	return node, nil
}

// Save 写入主文件（自动创建存档目录）
func (b *FileBackend) Save(loc Location, node *yaml.Node) error {
	data, err := marshalNode(node)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	path := b.Path(loc)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create save directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// GdataBackend 基于 gdata 跨平台存储的持久化（桌面、移动端、浏览器）
//
// 对象键：saves_<Save>，属性键：文件名去掉扩展名后转小写。
type GdataBackend struct {
	manager *gdata.Manager
}

// NewGdataBackend 创建 gdata 持久化服务
func NewGdataBackend(manager *gdata.Manager) *GdataBackend {
	return &GdataBackend{manager: manager}
}

// OpenGdataBackend 以指定应用名打开 gdata 存储
func OpenGdataBackend(appName string) (*GdataBackend, error) {
	manager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("failed to open gdata storage: %w", err)
	}
	return NewGdataBackend(manager), nil
}

func gdataKeys(loc Location) (object, prop string) {
	object = "saves_" + sanitizeKey(loc.Save)
	prop = sanitizeKey(strings.TrimSuffix(loc.Name, filepath.Ext(loc.Name)))
	return object, strings.ToLower(prop)
}

// sanitizeKey 把键中不适合作为文件名的字符替换为下划线
func sanitizeKey(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, s)
}

// Load 读取主文件
func (b *GdataBackend) Load(loc Location) (*yaml.Node, error) {
	object, prop := gdataKeys(loc)
	if !b.manager.ObjectPropExists(object, prop) {
		return nil, ErrNotFound
	}

	data, err := b.manager.LoadObjectProp(object, prop)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s/%s: %w", object, prop, err)
	}

	node, err := unmarshalNode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s/%s: %w", object, prop, err)
	}
	return node, nil
}

// Save 写入主文件
func (b *GdataBackend) Save(loc Location, node *yaml.Node) error {
	data, err := marshalNode(node)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	object, prop := gdataKeys(loc)
	if err := b.manager.SaveObjectProp(object, prop, data); err != nil {
		return fmt.Errorf("failed to save %s/%s: %w", object, prop, err)
	}
	return nil
}
