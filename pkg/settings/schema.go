package settings

import (
	"encoding"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// FieldKind 字段的语义类型
type FieldKind int

const (
	KindBool FieldKind = iota
	KindFloat
	KindInt
	KindString
	KindText // 颜色、枚举、标志集合、GUID 等文本编码类型
	KindCollection
)

// Field 字段表中的一项：键名、类型以及读写方法
type Field[T any] struct {
	Key  string
	Kind FieldKind

	encode func(v *T) *yaml.Node
	decode func(v *T, n *yaml.Node) error
}

// Schema 有序字段表，编码时按此顺序输出
type Schema[T any] []Field[T]

// Encode 把记录编码为 mapping 节点
func (sc Schema[T]) Encode(v *T) *yaml.Node {
	node := NewMapping()
	for _, f := range sc {
		AddNode(node, f.Key, f.encode(v))
	}
	return node
}

// Decode 把 mapping 节点中已识别的键写入记录
//
// 未知键被忽略，缺失键保持当前值；某个键解析失败时该字段保持当前值，
// 其余字段照常写入，所有失败合并为一个错误返回。
func (sc Schema[T]) Decode(v *T, node *yaml.Node) error {
	node = unwrapDocument(node)
	if node == nil || node.Kind != yaml.MappingNode {
		return fmt.Errorf("expected mapping node")
	}

	var errs []error
	for _, f := range sc {
		child := NamedChild(node, f.Key)
		if child == nil {
			continue
		}
		if err := f.decode(v, child); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", f.Key, err))
		}
	}
	return errors.Join(errs...)
}

// Keys 返回全部键名
func (sc Schema[T]) Keys() []string {
	keys := make([]string, len(sc))
	for i, f := range sc {
		keys[i] = f.Key
	}
	return keys
}

func scalarValue(n *yaml.Node) (string, error) {
	if n.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("expected scalar value")
	}
	return strings.TrimSpace(n.Value), nil
}

// BoolField 布尔字段
func BoolField[T any](key string, ptr func(*T) *bool) Field[T] {
	return Field[T]{
		Key:  key,
		Kind: KindBool,
		encode: func(v *T) *yaml.Node {
			return scalarNode(strconv.FormatBool(*ptr(v)), "")
		},
		decode: func(v *T, n *yaml.Node) error {
			s, err := scalarValue(n)
			if err != nil {
				return err
			}
			b, err := strconv.ParseBool(s)
			if err != nil {
				return err
			}
			*ptr(v) = b
			return nil
		},
	}
}

// FloatField 浮点字段
func FloatField[T any](key string, ptr func(*T) *float64) Field[T] {
	return Field[T]{
		Key:  key,
		Kind: KindFloat,
		encode: func(v *T) *yaml.Node {
			return scalarNode(formatFloat(*ptr(v)), "")
		},
		decode: func(v *T, n *yaml.Node) error {
			s, err := scalarValue(n)
			if err != nil {
				return err
			}
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return err
			}
			*ptr(v) = f
			return nil
		},
	}
}

// IntField 整数字段
func IntField[T any](key string, ptr func(*T) *int) Field[T] {
	return Field[T]{
		Key:  key,
		Kind: KindInt,
		encode: func(v *T) *yaml.Node {
			return scalarNode(strconv.Itoa(*ptr(v)), "")
		},
		decode: func(v *T, n *yaml.Node) error {
			s, err := scalarValue(n)
			if err != nil {
				return err
			}
			i, err := strconv.Atoi(s)
			if err != nil {
				return err
			}
			*ptr(v) = i
			return nil
		},
	}
}

// StringField 字符串字段
func StringField[T any](key string, ptr func(*T) *string) Field[T] {
	return Field[T]{
		Key:  key,
		Kind: KindString,
		encode: func(v *T) *yaml.Node {
			return scalarNode(*ptr(v), "!!str")
		},
		decode: func(v *T, n *yaml.Node) error {
			if n.Kind != yaml.ScalarNode {
				return fmt.Errorf("expected scalar value")
			}
			*ptr(v) = n.Value
			return nil
		},
	}
}

// TextValue 可以文本编解码的值
type TextValue interface {
	encoding.TextMarshaler
	encoding.TextUnmarshaler
}

// TextField 文本编码字段（颜色、枚举、标志集合、GUID）
//
// 先解码到临时值，失败时不会破坏原值。
func TextField[T any, V any, PV interface {
	*V
	TextValue
}](key string, ptr func(*T) *V) Field[T] {
	return Field[T]{
		Key:  key,
		Kind: KindText,
		encode: func(v *T) *yaml.Node {
			b, err := PV(ptr(v)).MarshalText()
			if err != nil {
				return scalarNode("", "!!str")
			}
			return scalarNode(string(b), "!!str")
		},
		decode: func(v *T, n *yaml.Node) error {
			s, err := scalarValue(n)
			if err != nil {
				return err
			}
			var tmp V
			if err := PV(&tmp).UnmarshalText([]byte(s)); err != nil {
				return err
			}
			*ptr(v) = tmp
			return nil
		},
	}
}

// CollectionField 子记录集合字段
//
// 编码形式为 {<elementKey>: [ ... ]}，也接受直接给出序列的写法。
// 解码时整个集合被替换，每个元素从 newElem() 的默认值开始解码。
func CollectionField[T any, E any](key, elementKey string, ptr func(*T) *[]E, elem Schema[E], newElem func() E) Field[T] {
	return Field[T]{
		Key:  key,
		Kind: KindCollection,
		encode: func(v *T) *yaml.Node {
			seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
			for i := range *ptr(v) {
				seq.Content = append(seq.Content, elem.Encode(&(*ptr(v))[i]))
			}
			wrapper := NewMapping()
			AddNode(wrapper, elementKey, seq)
			return wrapper
		},
		decode: func(v *T, n *yaml.Node) error {
			seq := n
			if n.Kind == yaml.MappingNode {
				seq = NamedChild(n, elementKey)
				if seq == nil {
					return fmt.Errorf("missing %s elements", elementKey)
				}
			}
			// 单个元素可以直接写成 mapping
			if seq.Kind == yaml.MappingNode {
				seq = &yaml.Node{Kind: yaml.SequenceNode, Content: []*yaml.Node{seq}}
			}
			if seq.Kind != yaml.SequenceNode {
				return fmt.Errorf("expected %s sequence", elementKey)
			}

			items := make([]E, 0, len(seq.Content))
			var errs []error
			for i, child := range seq.Content {
				item := newElem()
				if err := elem.Decode(&item, child); err != nil {
					errs = append(errs, fmt.Errorf("%s[%d]: %w", elementKey, i, err))
				}
				items = append(items, item)
			}
			*ptr(v) = items
			return errors.Join(errs...)
		},
	}
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

// 受保护字段：覆盖配置不能静默替换
const (
	keyEnabled      = "RelayNetEnabled"
	keyActiveVessel = "ActiveVesselGuid"
	keyMapFilter    = "MapFilter"
)

var antennaSchema = Schema[Antenna]{
	FloatField("Omni", func(a *Antenna) *float64 { return &a.Omni }),
	FloatField("Dish", func(a *Antenna) *float64 { return &a.Dish }),
	FloatField("CosAngle", func(a *Antenna) *float64 { return &a.CosAngle }),
	StringField("UpgradeableOmni", func(a *Antenna) *string { return &a.UpgradeableOmni }),
	StringField("UpgradeableDish", func(a *Antenna) *string { return &a.UpgradeableDish }),
	StringField("UpgradeableCosAngle", func(a *Antenna) *string { return &a.UpgradeableCosAngle }),
}

var groundStationSchema = Schema[GroundStation]{
	TextField[GroundStation, GUID]("Guid", func(g *GroundStation) *GUID { return &g.GUID }),
	StringField("Name", func(g *GroundStation) *string { return &g.Name }),
	FloatField("Latitude", func(g *GroundStation) *float64 { return &g.Latitude }),
	FloatField("Longitude", func(g *GroundStation) *float64 { return &g.Longitude }),
	FloatField("Height", func(g *GroundStation) *float64 { return &g.Height }),
	IntField("Body", func(g *GroundStation) *int { return &g.Body }),
	TextField[GroundStation, Color]("MarkColor", func(g *GroundStation) *Color { return &g.MarkColor }),
	CollectionField("Antennas", "ANTENNA", func(g *GroundStation) *[]Antenna { return &g.Antennas },
		antennaSchema, func() Antenna { return Antenna{} }),
}

var settingsSchema = Schema[Settings]{
	BoolField(keyEnabled, func(s *Settings) *bool { return &s.RelayNetEnabled }),
	FloatField("ConsumptionMultiplier", func(s *Settings) *float64 { return &s.ConsumptionMultiplier }),
	FloatField("RangeMultiplier", func(s *Settings) *float64 { return &s.RangeMultiplier }),
	TextField[Settings, GUID](keyActiveVessel, func(s *Settings) *GUID { return &s.ActiveVesselGUID }),
	FloatField("SpeedOfLight", func(s *Settings) *float64 { return &s.SpeedOfLight }),
	TextField[Settings, MapFilter](keyMapFilter, func(s *Settings) *MapFilter { return &s.MapFilter }),
	BoolField("EnableSignalDelay", func(s *Settings) *bool { return &s.EnableSignalDelay }),
	TextField[Settings, RangeModel]("RangeModelType", func(s *Settings) *RangeModel { return &s.RangeModelType }),
	FloatField("MultipleAntennaMultiplier", func(s *Settings) *float64 { return &s.MultipleAntennaMultiplier }),
	BoolField("ThrottleTimeWarp", func(s *Settings) *bool { return &s.ThrottleTimeWarp }),
	BoolField("ThrottleZeroOnNoConnection", func(s *Settings) *bool { return &s.ThrottleZeroOnNoConnection }),
	BoolField("HideGroundStationsBehindBody", func(s *Settings) *bool { return &s.HideGroundStationsBehindBody }),
	TextField[Settings, Color]("DishConnectionColor", func(s *Settings) *Color { return &s.DishConnectionColor }),
	TextField[Settings, Color]("OmniConnectionColor", func(s *Settings) *Color { return &s.OmniConnectionColor }),
	TextField[Settings, Color]("ActiveConnectionColor", func(s *Settings) *Color { return &s.ActiveConnectionColor }),
	TextField[Settings, Color]("RemoteStationColorDot", func(s *Settings) *Color { return &s.RemoteStationColorDot }),
	CollectionField("GroundStations", "STATION", func(s *Settings) *[]GroundStation { return &s.GroundStations },
		groundStationSchema, DefaultGroundStation),
}

// Encode 把设置编码为 mapping 节点（不含外层包装）
func Encode(s *Settings) *yaml.Node {
	return settingsSchema.Encode(s)
}

// Decode 把 mapping 节点中的设置写入 s
func Decode(s *Settings, node *yaml.Node) error {
	return settingsSchema.Decode(s, node)
}

// SchemaKeys 返回设置记录的全部持久化键
func SchemaKeys() []string {
	return settingsSchema.Keys()
}
