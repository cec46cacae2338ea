package main

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/ramp-tools-mcp/internal/gradient"
	"github.com/ironsheep/ramp-tools-mcp/internal/sampling"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelWarn},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{" warning ", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := parseLevel(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("parseLevel(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
	if _, err := parseLevel("verbose"); err == nil {
		t.Error("parseLevel should reject unknown levels")
	}
}

func TestStoreDir(t *testing.T) {
	t.Setenv(envStoreDir, "/from/env")

	if got, _ := storeDir("/from/flag"); got != "/from/flag" {
		t.Errorf("flag: got %s", got)
	}
	if got, _ := storeDir(""); got != "/from/env" {
		t.Errorf("env: got %s", got)
	}

	t.Setenv(envStoreDir, "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	got, err := storeDir("")
	if err != nil {
		t.Fatalf("storeDir failed: %v", err)
	}
	if filepath.Base(got) != "ramp-tools-mcp" {
		t.Errorf("default: got %s", got)
	}
}

func TestSampleSource(t *testing.T) {
	if _, err := sampleSource("", "", ""); err == nil {
		t.Error("no source should fail")
	}
	if _, err := sampleSource("#000 #fff", "a.png", ""); err == nil {
		t.Error("two sources should fail")
	}

	src, err := sampleSource("#000 #fff", "", "")
	if err != nil {
		t.Fatalf("sampleSource failed: %v", err)
	}
	if src.Kind() != gradient.KindStops {
		t.Errorf("kind: got %v, want stops", src.Kind())
	}
}

func TestPrintRamp(t *testing.T) {
	src, _ := sampleSource("#000000 #ffffff", "", "")
	cfg := sampling.DefaultConfig()
	cfg.SampleCount = 3
	ramp, err := gradient.Sample(src, cfg)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := printRamp(&buf, ramp, "hex"); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "#000000\n#808080\n#ffffff\n" {
		t.Errorf("hex output: got %q", got)
	}

	buf.Reset()
	if err := printRamp(&buf, ramp, "gpl"); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "GIMP Palette\nName: Ramp\n") {
		t.Errorf("gpl output: got %q", buf.String())
	}

	if err := printRamp(&buf, ramp, "yaml"); err == nil {
		t.Error("unknown format should fail")
	}
}
