// Package settings 提供分层的插件设置：主文件加载、外部覆盖合并、受保护字段、持久化
//
// 加载流程见 Store.Load()。记录的编解码由静态字段表（schema.go）驱动，
// 不依赖运行时反射：未知键被忽略，缺失键保留默认值。
package settings

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// MapFilter 地图/覆盖层可见性过滤（位标志集合）
type MapFilter int

const (
	MapFilterNone   MapFilter = 0
	MapFilterPath   MapFilter = 1 << 0
	MapFilterOmni   MapFilter = 1 << 1
	MapFilterDish   MapFilter = 1 << 2
	MapFilterPlanet MapFilter = 1 << 3
	MapFilterCone   MapFilter = 1 << 4
	MapFilterAny    MapFilter = MapFilterPath | MapFilterOmni | MapFilterDish | MapFilterPlanet | MapFilterCone
)

var mapFilterNames = []struct {
	flag MapFilter
	name string
}{
	{MapFilterPath, "Path"},
	{MapFilterOmni, "Omni"},
	{MapFilterDish, "Dish"},
	{MapFilterPlanet, "Planet"},
	{MapFilterCone, "Cone"},
}

// Has 判断是否包含指定标志
func (f MapFilter) Has(flag MapFilter) bool {
	return f&flag == flag
}

// String 以逗号分隔的名称输出，例如 "Path, Omni, Dish"
func (f MapFilter) String() string {
	if f == MapFilterNone {
		return "None"
	}
	var names []string
	for _, entry := range mapFilterNames {
		if f.Has(entry.flag) {
			names = append(names, entry.name)
		}
	}
	return strings.Join(names, ", ")
}

// MarshalText implements encoding.TextMarshaler.
func (f MapFilter) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText 接受名称列表（逗号或竖线分隔）或整数
func (f *MapFilter) UnmarshalText(b []byte) error {
	s := strings.TrimSpace(string(b))
	if n, err := strconv.Atoi(s); err == nil {
		*f = MapFilter(n) & MapFilterAny
		return nil
	}

	var result MapFilter
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '|' }) {
		part = strings.TrimSpace(part)
		if strings.EqualFold(part, "None") {
			continue
		}
		if strings.EqualFold(part, "Any") {
			result |= MapFilterAny
			continue
		}
		found := false
		for _, entry := range mapFilterNames {
			if strings.EqualFold(entry.name, part) {
				result |= entry.flag
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("unknown map filter %q", part)
		}
	}
	*f = result
	return nil
}

// Next 按 None → Path → Omni → Dish → ... 顺序循环单一过滤项（用于过滤按钮）
func (f MapFilter) Next() MapFilter {
	if f == MapFilterNone {
		return mapFilterNames[0].flag
	}
	for i, entry := range mapFilterNames {
		if f == entry.flag {
			if i+1 < len(mapFilterNames) {
				return mapFilterNames[i+1].flag
			}
			return MapFilterNone
		}
	}
	return MapFilterNone
}

// RangeModel 通信距离模型
type RangeModel int

const (
	RangeModelStandard RangeModel = iota
	RangeModelAdditive
)

// String 返回配置名
func (m RangeModel) String() string {
	switch m {
	case RangeModelStandard:
		return "Standard"
	case RangeModelAdditive:
		return "Additive"
	default:
		return fmt.Sprintf("RangeModel(%d)", int(m))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m RangeModel) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *RangeModel) UnmarshalText(b []byte) error {
	s := strings.TrimSpace(string(b))
	switch {
	case strings.EqualFold(s, "Standard"), s == "0":
		*m = RangeModelStandard
	case strings.EqualFold(s, "Additive"), strings.EqualFold(s, "Root"), s == "1":
		*m = RangeModelAdditive
	default:
		return fmt.Errorf("unknown range model %q", s)
	}
	return nil
}

// Color RGBA 颜色，分量范围 0.0 ~ 1.0
type Color struct {
	R, G, B, A float64
}

// MarshalText 输出 "r,g,b,a"
func (c Color) MarshalText() ([]byte, error) {
	parts := []string{
		strconv.FormatFloat(c.R, 'g', -1, 64),
		strconv.FormatFloat(c.G, 'g', -1, 64),
		strconv.FormatFloat(c.B, 'g', -1, 64),
		strconv.FormatFloat(c.A, 'g', -1, 64),
	}
	return []byte(strings.Join(parts, ",")), nil
}

// UnmarshalText 接受 "r,g,b" 或 "r,g,b,a"（缺省 a=1）
func (c *Color) UnmarshalText(b []byte) error {
	parts := strings.Split(string(b), ",")
	if len(parts) != 3 && len(parts) != 4 {
		return fmt.Errorf("color %q: want 3 or 4 components", string(b))
	}
	values := [4]float64{0, 0, 0, 1}
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return fmt.Errorf("color %q: %w", string(b), err)
		}
		values[i] = v
	}
	*c = Color{R: values[0], G: values[1], B: values[2], A: values[3]}
	return nil
}

// RGBA8 转换为 8 位分量（供渲染使用）
func (c Color) RGBA8() (r, g, b, a uint8) {
	conv := func(v float64) uint8 {
		if v <= 0 {
			return 0
		}
		if v >= 1 {
			return 255
		}
		return uint8(v*255 + 0.5)
	}
	return conv(c.R), conv(c.G), conv(c.B), conv(c.A)
}

// GUID 32 位小写十六进制表示的标识（不带连字符）
type GUID string

// MarshalText implements encoding.TextMarshaler.
func (g GUID) MarshalText() ([]byte, error) {
	return []byte(g), nil
}

// UnmarshalText 接受任意 uuid 写法，统一规范化为 32 位小写十六进制
func (g *GUID) UnmarshalText(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" {
		*g = ""
		return nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return fmt.Errorf("invalid guid %q: %w", string(b), err)
	}
	*g = GUID(strings.ReplaceAll(id.String(), "-", ""))
	return nil
}

// 预设颜色
var (
	colorAmber         = Color{R: 0.996078, G: 0.701961, B: 0.031373, A: 1}
	colorBrownGrey     = Color{R: 0.552941, G: 0.517647, B: 0.407843, A: 1}
	colorElectricLime  = Color{R: 0.658824, G: 1, B: 0.015686, A: 1}
	colorStationDotRed = Color{R: 0.996078, G: 0, B: 0, A: 1}
)

// DefaultActiveVesselGUID 默认活动载具标识
const DefaultActiveVesselGUID GUID = "35b89a0d664c43c6bec8d0840afc97b2"

// Settings 插件全局设置
//
// SettingsLoaded 和 FirstStart 是运行时状态，不参与持久化。
type Settings struct {
	RelayNetEnabled              bool
	ConsumptionMultiplier        float64
	RangeMultiplier              float64
	ActiveVesselGUID             GUID
	SpeedOfLight                 float64
	MapFilter                    MapFilter
	EnableSignalDelay            bool
	RangeModelType               RangeModel
	MultipleAntennaMultiplier    float64
	ThrottleTimeWarp             bool
	ThrottleZeroOnNoConnection   bool
	HideGroundStationsBehindBody bool
	DishConnectionColor          Color
	OmniConnectionColor          Color
	ActiveConnectionColor        Color
	RemoteStationColorDot        Color
	GroundStations               []GroundStation

	// SettingsLoaded 本次会话是否完成了基于文件的加载
	SettingsLoaded bool
	// FirstStart 主文件不存在，刚写入了默认文件
	FirstStart bool

	backup *protectedFields
}

// GroundStation 地面站
type GroundStation struct {
	GUID      GUID
	Name      string
	Latitude  float64
	Longitude float64
	Height    float64
	Body      int
	MarkColor Color
	Antennas  []Antenna
}

// Antenna 地面站天线
type Antenna struct {
	Omni                float64
	Dish                float64
	CosAngle            float64
	UpgradeableOmni     string
	UpgradeableDish     string
	UpgradeableCosAngle string
}

// DefaultGroundStation 返回默认的任务控制中心
func DefaultGroundStation() GroundStation {
	return GroundStation{
		GUID:      "5105f5a9d62841c6ad4b21154e8fc488",
		Name:      "Mission Control",
		Latitude:  -0.1313315,
		Longitude: -74.59484,
		Height:    75,
		Body:      1,
		MarkColor: colorStationDotRed,
		Antennas:  []Antenna{{Omni: 75000000, CosAngle: 1}},
	}
}

// DefaultSettings 返回默认设置
func DefaultSettings() *Settings {
	return &Settings{
		RelayNetEnabled:              true,
		ConsumptionMultiplier:        1.0,
		RangeMultiplier:              1.0,
		ActiveVesselGUID:             DefaultActiveVesselGUID,
		SpeedOfLight:                 3e8,
		MapFilter:                    MapFilterPath | MapFilterOmni | MapFilterDish,
		EnableSignalDelay:            true,
		RangeModelType:               RangeModelStandard,
		MultipleAntennaMultiplier:    0.0,
		ThrottleTimeWarp:             true,
		ThrottleZeroOnNoConnection:   true,
		HideGroundStationsBehindBody: false,
		DishConnectionColor:          colorAmber,
		OmniConnectionColor:          colorBrownGrey,
		ActiveConnectionColor:        colorElectricLime,
		RemoteStationColorDot:        colorStationDotRed,
		GroundStations:               []GroundStation{DefaultGroundStation()},
	}
}

// protectedFields 受保护字段的快照（原值，不经过文本编码）
type protectedFields struct {
	mapFilter       MapFilter
	activeVessel    GUID
	relayNetEnabled bool
}

// BackupFields 保存受保护字段（MapFilter、ActiveVesselGuid、RelayNetEnabled）的当前值
//
// 用于在第三方修改（例如覆盖配置）前后保护这几个字段，配合 RestoreBackups() 使用。
// 每次调用替换上一次的快照。
func (s *Settings) BackupFields() {
	s.backup = &protectedFields{
		mapFilter:       s.MapFilter,
		activeVessel:    s.ActiveVesselGUID,
		relayNetEnabled: s.RelayNetEnabled,
	}
}

// RestoreBackups 把 BackupFields() 保存的值无条件写回记录；没有备份时不做任何事
func (s *Settings) RestoreBackups() {
	if s.backup == nil {
		return
	}
	s.MapFilter = s.backup.mapFilter
	s.ActiveVesselGUID = s.backup.activeVessel
	s.RelayNetEnabled = s.backup.relayNetEnabled
}
