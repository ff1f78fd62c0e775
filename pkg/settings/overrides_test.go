package settings

import (
	"errors"
	"testing"
	"testing/fstest"
)

func testOverrideFS() fstest.MapFS {
	return fstest.MapFS{
		"RelayNet/RelayNet_Settings.yaml": {Data: []byte(`
RelayNetSettings:
  RangeMultiplier: 1
`)},
		"ZetaMod/relay.yaml": {Data: []byte(`
RelayNetSettings:
  RangeMultiplier: 2
OtherMod:
  Foo: bar
---
RelayNetSettings:
  RangeMultiplier: 3
`)},
		"AlphaMod/Config/tweaks.toml": {Data: []byte(`
[RelayNetSettings]
ConsumptionMultiplier = 0.25
EnableSignalDelay = false
MapFilter = "Path, Cone"
`)},
		"BetaMod/unrelated.yml": {Data: []byte("SomethingElse:\n  A: 1\n")},
		"BrokenMod/bad.yaml":    {Data: []byte("RelayNetSettings: [oops\n")},
		"readme.txt":            {Data: []byte("RelayNetSettings: ignored\n")},
	}
}

// TestDirectorySourceDiscover 扫描目录，按来源排序返回设置块
func TestDirectorySourceDiscover(t *testing.T) {
	src, err := NewDirectorySource(testOverrideFS())
	if err != nil {
		t.Fatalf("NewDirectorySource error: %v", err)
	}

	blocks, err := src.Discover(SchemaName)
	if err != nil {
		t.Fatalf("Discover error: %v", err)
	}

	wantOrigins := []string{
		"AlphaMod/Config/tweaks/RelayNetSettings",
		SelfOrigin,
		"ZetaMod/relay/RelayNetSettings",
		"ZetaMod/relay/RelayNetSettings",
	}
	if len(blocks) != len(wantOrigins) {
		t.Fatalf("blocks: got %d, want %d (%+v)", len(blocks), len(wantOrigins), blocks)
	}
	for i, want := range wantOrigins {
		if blocks[i].Origin != want {
			t.Errorf("block %d origin: got %q, want %q", i, blocks[i].Origin, want)
		}
	}

	// 同一文件中的多个文档保持文件内顺序
	first := DefaultSettings()
	if err := Decode(first, blocks[2].Node); err != nil {
		t.Fatal(err)
	}
	second := DefaultSettings()
	if err := Decode(second, blocks[3].Node); err != nil {
		t.Fatal(err)
	}
	if first.RangeMultiplier != 2 || second.RangeMultiplier != 3 {
		t.Errorf("document order: got %v then %v, want 2 then 3", first.RangeMultiplier, second.RangeMultiplier)
	}
}

// TestDirectorySourceTOML TOML 覆盖块转换为同样的节点结构
func TestDirectorySourceTOML(t *testing.T) {
	src, err := NewDirectorySource(testOverrideFS(), "**.toml")
	if err != nil {
		t.Fatal(err)
	}
	blocks, err := src.Discover(SchemaName)
	if err != nil {
		t.Fatal(err)
	}
	if len(blocks) != 1 {
		t.Fatalf("blocks: got %d, want 1", len(blocks))
	}

	s := DefaultSettings()
	if err := Decode(s, blocks[0].Node); err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if s.ConsumptionMultiplier != 0.25 {
		t.Errorf("ConsumptionMultiplier: got %v, want 0.25", s.ConsumptionMultiplier)
	}
	if s.EnableSignalDelay {
		t.Error("EnableSignalDelay: got true, want false")
	}
	if s.MapFilter != MapFilterPath|MapFilterCone {
		t.Errorf("MapFilter: got %v", s.MapFilter)
	}
}

func TestDirectorySourceInvalidPattern(t *testing.T) {
	if _, err := NewDirectorySource(testOverrideFS(), "[unterminated"); err == nil {
		t.Error("Expected error for invalid pattern")
	}
}

// TestStoreWithDirectorySource 端到端：目录中的覆盖按来源顺序应用，自身块被跳过
func TestStoreWithDirectorySource(t *testing.T) {
	src, err := NewDirectorySource(testOverrideFS())
	if err != nil {
		t.Fatal(err)
	}

	st := NewStore(StoreConfig{
		Backend:   NewFileBackend(t.TempDir()),
		Resolver:  activeContext,
		Overrides: src,
	})
	s := st.Load()

	// ZetaMod 的第二个文档最后应用
	if s.RangeMultiplier != 3 {
		t.Errorf("RangeMultiplier: got %v, want 3", s.RangeMultiplier)
	}
	if s.ConsumptionMultiplier != 0.25 {
		t.Errorf("ConsumptionMultiplier: got %v, want 0.25", s.ConsumptionMultiplier)
	}
	// MapFilter 受保护，TOML 覆盖无效
	if s.MapFilter != DefaultSettings().MapFilter {
		t.Errorf("MapFilter: got %v, want default", s.MapFilter)
	}
}

func TestMultiSource(t *testing.T) {
	a := StaticSource{{Origin: "b"}}
	b := StaticSource{{Origin: "a"}}
	blocks, err := MultiSource{a, nil, b}.Discover(SchemaName)
	if err != nil {
		t.Fatal(err)
	}
	if len(blocks) != 2 || blocks[0].Origin != "b" || blocks[1].Origin != "a" {
		t.Errorf("MultiSource should keep source order, got %+v", blocks)
	}
}

// failingSource 扫描失败的来源
type failingSource struct {
	err error
}

func (f failingSource) Discover(schema string) ([]OverrideBlock, error) {
	return nil, f.err
}

// TestMultiSourceContinuesAfterError 前一个来源失败不影响后续来源
func TestMultiSourceContinuesAfterError(t *testing.T) {
	errBundled := errors.New("bundled scan failed")
	errLocal := errors.New("local scan failed")
	src := MultiSource{
		failingSource{err: errBundled},
		StaticSource{{Origin: "Mod/cfg/" + SchemaName}},
		failingSource{err: errLocal},
	}

	blocks, err := src.Discover(SchemaName)
	if !errors.Is(err, errBundled) || !errors.Is(err, errLocal) {
		t.Errorf("error should report every failed source, got %v", err)
	}
	if len(blocks) != 1 || blocks[0].Origin != "Mod/cfg/"+SchemaName {
		t.Errorf("blocks from healthy sources: got %+v", blocks)
	}
}

// TestStoreAppliesOverridesDespiteDiscoveryError 扫描出错时仍应用已找到的覆盖
func TestStoreAppliesOverridesDespiteDiscoveryError(t *testing.T) {
	st := NewStore(StoreConfig{
		Backend:  newCountingBackend(),
		Resolver: activeContext,
		Overrides: MultiSource{
			failingSource{err: errors.New("broken")},
			StaticSource{block(t, "Mod/cfg/"+SchemaName, "RangeMultiplier: 4\n")},
		},
	})

	if s := st.Load(); s.RangeMultiplier != 4 {
		t.Errorf("RangeMultiplier: got %v, want 4", s.RangeMultiplier)
	}
}
