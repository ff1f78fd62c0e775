package settings

import "gopkg.in/yaml.v3"

// 结构化配置节点辅助函数
//
// 配置节点直接使用 yaml.Node：mapping 节点的 Content 按 key、value 交替存放。

// NewMapping 创建空 mapping 节点
func NewMapping() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

// AddNode 追加一个子节点
func AddNode(parent *yaml.Node, key string, child *yaml.Node) {
	parent.Content = append(parent.Content, scalarNode(key, ""), child)
}

// AddValue 追加一个标量值
func AddValue(parent *yaml.Node, key, value string) {
	AddNode(parent, key, scalarNode(value, "!!str"))
}

// HasNamedChild 判断 mapping 节点是否包含指定键
func HasNamedChild(node *yaml.Node, name string) bool {
	return NamedChild(node, name) != nil
}

// NamedChild 返回 mapping 节点中指定键对应的值节点，不存在时返回 nil
//
// 重复键时返回最后一个，与逐键覆盖的语义一致。
func NamedChild(node *yaml.Node, name string) *yaml.Node {
	node = unwrapDocument(node)
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	var found *yaml.Node
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == name {
			found = node.Content[i+1]
		}
	}
	return found
}

// Wrap 把节点包装到名为 name 的外层容器中
func Wrap(name string, child *yaml.Node) *yaml.Node {
	root := NewMapping()
	AddNode(root, name, child)
	return root
}

func scalarNode(value, tag string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

// unwrapDocument 去掉 DocumentNode 外壳，并跟随别名
func unwrapDocument(node *yaml.Node) *yaml.Node {
	for node != nil {
		switch node.Kind {
		case yaml.DocumentNode:
			if len(node.Content) == 0 {
				return nil
			}
			node = node.Content[0]
		case yaml.AliasNode:
			node = node.Alias
		default:
			return node
		}
	}
	return nil
}
