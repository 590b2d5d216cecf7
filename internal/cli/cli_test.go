package cli

import (
	"bytes"
	"encoding/csv"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	for _, name := range []string{"AURACHECK_LOG_LEVEL", "AURACHECK_LEVEL", "AURACHECK_LARGE_TEXT", "AURACHECK_FORMATS"} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}

	cmd := NewRootCmd(BuildInfo{Version: "1.0.0", BuildTime: "today", GitCommit: "abc123"})
	var stdout, stderr bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writePNG(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 20, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 20; x++ {
			c := color.RGBA{255, 255, 255, 255}
			if x >= 10 {
				c = color.RGBA{0, 0, 0, 255}
			}
			img.Set(x, y, c)
		}
	}
	path := filepath.Join(t.TempDir(), "split.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestVersionCommand(t *testing.T) {
	out, _, err := run(t, "", "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	for _, want := range []string{"auracheck-mcp", "1.0.0", "abc123"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %s", want, out)
		}
	}
}

func TestRootServesMCP(t *testing.T) {
	out, _, err := run(t, `{"jsonrpc":"2.0","id":7,"method":"ping"}`+"\n")
	if err != nil {
		t.Fatalf("serve: %v", err)
	}
	if !strings.Contains(out, `"id":7`) || !strings.Contains(out, `"result":{}`) {
		t.Errorf("unexpected response: %s", out)
	}
}

func TestRootRejectsArgs(t *testing.T) {
	if _, _, err := run(t, "", "image.png"); err == nil {
		t.Error("expected error for positional argument")
	}
}

func TestCheckImagePoints(t *testing.T) {
	path := writePNG(t)
	out, stderr, err := run(t, "", "check", path, "-p", "0,0", "-p", "15,5", "-p", "99,99", "-f", "csv")
	if err != nil {
		t.Fatalf("check: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("output is not CSV: %v\n%s", err, out)
	}
	if len(records) != 3 {
		t.Fatalf("rows: got %d, want header + 2", len(records))
	}
	if records[1][0] != "#FFFFFF" || records[1][1] != "#000000" || records[1][2] != "21.00:1" {
		t.Errorf("first pair: %v", records[1])
	}
	if !strings.Contains(stderr, "point outside image") {
		t.Errorf("missing skip warning on stderr: %q", stderr)
	}
}

func TestCheckHexOnly(t *testing.T) {
	out, _, err := run(t, "", "check", "--hex", "#767676", "--hex", "fff", "--level", "AAA", "-f", "markdown")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !strings.Contains(out, "0 of 2 pairs pass AAA.") {
		t.Errorf("unexpected report:\n%s", out)
	}

	out, _, err = run(t, "", "check", "--hex", "#767676", "--hex", "fff", "--level", "AAA", "--large-text", "-f", "markdown")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !strings.Contains(out, "2 of 2 pairs pass AAA.") {
		t.Errorf("large text report:\n%s", out)
	}
}

func TestCheckTextHasNoSwatchesWhenPiped(t *testing.T) {
	out, _, err := run(t, "", "check", "--hex", "#000", "--hex", "#fff")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("swatches printed to a non-terminal")
	}
	if !strings.Contains(out, "Results (2 pairs, 2 pass AA, 2 pass AAA)") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestCheckErrors(t *testing.T) {
	path := writePNG(t)
	tests := []struct {
		name string
		args []string
	}{
		{"nothing", []string{"check"}},
		{"point without image", []string{"check", "-p", "1,1"}},
		{"bad point", []string{"check", path, "-p", "1;1"}},
		{"bad hex", []string{"check", "--hex", "#zzzzzz"}},
		{"bad level", []string{"check", "--hex", "#000", "--level", "A"}},
		{"bad format", []string{"check", "--hex", "#000", "-f", "pdf"}},
		{"missing image", []string{"check", filepath.Join(t.TempDir(), "nope.png"), "-p", "0,0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := run(t, "", tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParsePoint(t *testing.T) {
	x, y, err := parsePoint(" 12, 34 ")
	if err != nil || x != 12 || y != 34 {
		t.Errorf("parsePoint: got (%d,%d,%v)", x, y, err)
	}
	for _, bad := range []string{"", "1", "a,2", "1,b"} {
		if _, _, err := parsePoint(bad); err == nil {
			t.Errorf("parsePoint(%q): expected error", bad)
		}
	}
}

func TestConfigFileAndLogLevelFlag(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "auracheck.toml")
	if err := os.WriteFile(cfgPath, []byte("level = \"AAA\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, _, err := run(t, "", "check", "--config", cfgPath, "--hex", "#767676", "--hex", "#fff", "-f", "markdown")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !strings.Contains(out, "Level: **AAA**") {
		t.Errorf("config level not applied:\n%s", out)
	}

	if _, _, err := run(t, "", "check", "--log-level", "shout", "--hex", "#000"); err == nil {
		t.Error("expected error for bad log level")
	}
}
