package version

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func withNoColor(t *testing.T, v bool) {
	t.Helper()
	orig := color.NoColor
	color.NoColor = v
	t.Cleanup(func() { color.NoColor = orig })
}

func withVersion(t *testing.T, v string) {
	t.Helper()
	orig := Version
	Version = v
	t.Cleanup(func() { Version = orig })
}

func TestColoredPlain(t *testing.T) {
	withNoColor(t, true)
	for _, v := range []string{"0.1.0-dev", "1.2.3", "1.0.0-beta.1", "dev"} {
		withVersion(t, v)
		if got := Colored(); got != v {
			t.Errorf("Colored() = %q, want %q", got, v)
		}
	}
}

func TestColoredKeepsSuffixPlain(t *testing.T) {
	withNoColor(t, false)
	withVersion(t, "1.2.3-rc.1")
	got := Colored()
	if !strings.Contains(got, "\x1b[") {
		t.Fatalf("expected ANSI escapes in %q", got)
	}
	if !strings.HasSuffix(got, "-rc.1") {
		t.Fatalf("suffix must stay plain: %q", got)
	}
}
