package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const exprATNText = `# s : A b ; b : B | C ;
4, 1, 3,
10,
2, 0, 7, 0, 2, 1, 7, 1, 1, 0, 1, 0, 3, 1, 7, 8, 1, 1, 1, 1, 1,
0, 0,
2, 0, 2,
0,
0,
9,
0, 4, 5, 1, 0, 0,
2, 6, 1, 0, 0, 0,
4, 5, 3, 2, 1, 0,
5, 1, 1, 0, 0, 0,
6, 8, 1, 0, 0, 0,
6, 9, 1, 0, 0, 0,
7, 3, 1, 0, 0, 0,
8, 7, 5, 2, 0, 0,
9, 7, 5, 3, 0, 0,
1, 6,
`

const exprManifest = `[grammar]
name = "Expr"
type = "parser"
atn = "expr.atn"

[names]
symbolic = ["", "A", "B", "C"]
rules = ["s", "b"]
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// workspace creates a directory with atnrt.toml, the expr manifest and its
// ATN text, and returns the config path.
func workspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cfg := filepath.Join(dir, "atnrt.toml")
	writeFile(t, cfg, "[output]\ncolor = \"off\"\n")
	writeFile(t, filepath.Join(dir, "expr.toml"), exprManifest)
	writeFile(t, filepath.Join(dir, "expr.atn"), exprATNText)
	return cfg
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestPackThenInspect(t *testing.T) {
	cfg := workspace(t)
	dir := filepath.Dir(cfg)

	out, err := run(t, "--config", cfg, "pack", "--check", filepath.Join(dir, "expr.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Expr: ok, 83 values") {
		t.Fatalf("pack --check:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "Expr.atnb")); err == nil {
		t.Fatalf("--check must not write the bundle")
	}

	out, err = run(t, "--config", cfg, "pack", "--check=false", filepath.Join(dir, "expr.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "packed Expr") {
		t.Fatalf("pack:\n%s", out)
	}

	out, err = run(t, "--config", cfg, "inspect", "Expr", "Expr")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"== Expr (parser) ==", "alt1 {B}  alt2 {C}", "shared by 2"} {
		if !strings.Contains(out, want) {
			t.Errorf("inspect output lacks %q:\n%s", want, out)
		}
	}

	out, err = run(t, "--config", cfg, "inspect", "--state", "5", "Expr")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "expected {EOF}") {
		t.Fatalf("inspect --state:\n%s", out)
	}
}

func TestPackRejectsBrokenATN(t *testing.T) {
	cfg := workspace(t)
	dir := filepath.Dir(cfg)
	writeFile(t, filepath.Join(dir, "expr.atn"), "4, 1, 3, 10, 2")
	if _, err := run(t, "--config", cfg, "pack", filepath.Join(dir, "expr.toml")); err == nil {
		t.Fatalf("truncated ATN must be rejected")
	}
}

func TestTokenize(t *testing.T) {
	cfg := workspace(t)
	src := filepath.Join(filepath.Dir(cfg), "in.go")
	writeFile(t, src, "x := 42 // answer\n")

	out, err := run(t, "--config", cfg, "tokenize", "--format", "json", "--hidden", src)
	if err != nil {
		t.Fatal(err)
	}
	var toks []struct {
		Name    string `json:"name"`
		Channel int    `json:"channel"`
	}
	if err := json.Unmarshal([]byte(out), &toks); err != nil {
		t.Fatalf("bad JSON %q: %v", out, err)
	}
	if len(toks) != 6 || toks[0].Name != "IDENT" || toks[4].Name != "COMMENT" || toks[4].Channel != 1 {
		t.Fatalf("tokens = %+v", toks)
	}
}

func TestVersionJSON(t *testing.T) {
	cfg := workspace(t)
	out, err := run(t, "--config", cfg, "version", "--format", "json")
	if err != nil {
		t.Fatal(err)
	}
	var p versionPayload
	if err := json.Unmarshal([]byte(out), &p); err != nil {
		t.Fatal(err)
	}
	if p.Tool != "atnrt" || p.ATNVersion != 4 || p.BundleSchema != 1 {
		t.Fatalf("payload = %+v", p)
	}
}
