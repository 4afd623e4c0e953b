package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"atnrt/internal/trace"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[trace]
level = "detail"
mode = "both"
heartbeat = "250ms"

[lex]
normalize = true

[output]
color = "off"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Path != path || !cfg.Lex.Normalize || cfg.Output.Color != "off" {
		t.Fatalf("decoded config = %+v", cfg)
	}
	if cfg.Trace.RingSize != 4096 || !cfg.Cache.Shared || cfg.Lex.CommentChannel != 1 {
		t.Fatalf("defaults lost: %+v", cfg)
	}
	tc := cfg.TraceConfig()
	if tc.Level != trace.LevelDetail || tc.Mode != trace.ModeBoth || tc.Heartbeat != 250*time.Millisecond {
		t.Fatalf("trace config = %+v", tc)
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"syntax", "[trace\n", "failed to parse TOML"},
		{"unknown key", "[cache]\nsize = 3\n", "unknown key cache.size"},
		{"level", "[trace]\nlevel = \"loud\"\n", "[trace].level"},
		{"mode", "[trace]\nmode = \"disk\"\n", "[trace].mode"},
		{"format", "[trace]\nformat = \"xml\"\n", "[trace].format"},
		{"ring", "[trace]\nring_size = 0\n", "ring_size"},
		{"empty output", "[trace]\noutput = \" \"\n", "[trace].output"},
		{"channel", "[stream]\nchannel = -1\n", "channels"},
		{"color", "[output]\ncolor = \"rainbow\"\n", "[output].color"},
	}
	for _, tt := range tests {
		path := writeConfig(t, t.TempDir(), tt.content)
		_, err := Load(path)
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%s: err = %v, want %q", tt.name, err, tt.want)
		}
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	want := writeConfig(t, root, "")
	deep := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(deep, 0o755); err != nil {
		t.Fatal(err)
	}
	got, ok, err := Find(deep)
	if err != nil || !ok {
		t.Fatalf("Find = %v, %v", ok, err)
	}
	if got != want {
		t.Fatalf("Find = %s, want %s", got, want)
	}
	cfg, err := Load(got)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BundlePath("Expr") != filepath.Join(root, "Expr.atnb") {
		t.Fatalf("BundlePath = %s", cfg.BundlePath("Expr"))
	}
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatal(err)
	}
	if Default().BundlePath("x.atnb") != "x.atnb" {
		t.Fatalf("without a config file paths stay as given")
	}
}
