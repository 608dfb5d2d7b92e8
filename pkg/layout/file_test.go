package layout

import (
	"path/filepath"
	"testing"

	"github.com/vantagedata/dashlayout/pkg/grid"
)

func TestFormatFor(t *testing.T) {
	tests := map[string]Format{
		"layout.yaml": FormatYAML,
		"layout.YML":  FormatYAML,
		"layout.json": FormatJSON,
		"layout":      FormatJSON,
	}
	for path, want := range tests {
		if got := FormatFor(path); got != want {
			t.Errorf("FormatFor(%q) = %s, want %s", path, got, want)
		}
	}
}

func TestFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.UserID = "alice"
	cfg.IsLocked = true

	for _, name := range []string{"layout.json", "layout.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := WriteFile(path, cfg); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
			got, err := ReadFile(path)
			if err != nil {
				t.Fatalf("ReadFile: %v", err)
			}
			if got.UserID != "alice" || !got.IsLocked || len(got.Items) != len(cfg.Items) {
				t.Fatalf("ReadFile = %+v", got)
			}
			for i := range cfg.Items {
				if got.Items[i] != cfg.Items[i] {
					t.Errorf("item %d = %+v, want %+v", i, got.Items[i], cfg.Items[i])
				}
			}
		})
	}
}

func TestDecodeItemList(t *testing.T) {
	tests := []struct {
		format Format
		data   string
	}{
		{FormatJSON, `[{"i":"table-0","x":0,"y":3,"w":6,"h":2,"static":false,"type":"table","instanceIdx":0}]`},
		{FormatYAML, "- i: table-0\n  x: 0\n  y: 3\n  w: 6\n  h: 2\n  type: table\n  instanceIdx: 0\n"},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			cfg, err := Decode([]byte(tt.data), tt.format)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if len(cfg.Items) != 1 || cfg.Items[0].ID != "table-0" || cfg.Items[0].Y != 3 || cfg.Items[0].Type != TypeTable {
				t.Errorf("Decode = %+v", cfg.Items)
			}
		})
	}

	if _, err := Decode([]byte("{"), FormatJSON); err == nil {
		t.Error("Decode of broken JSON should fail")
	}
}

func TestExampleLayouts(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "examples", "layouts", "*"))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Fatal("no example layouts")
	}
	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			cfg, err := ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if err := cfg.ValidateItems(grid.DefaultConfig()); err != nil {
				t.Error(err)
			}
		})
	}
}
