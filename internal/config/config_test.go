package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/danmuck/craftwire/internal/protocol"
	"github.com/danmuck/craftwire/internal/protocol/frame"
	"github.com/danmuck/craftwire/internal/protocol/packet"
	"github.com/danmuck/craftwire/internal/testutil/testlog"
)

func TestLoadDefaultsAndOverrides(t *testing.T) {
	testlog.Start(t)
	cfg, err := Load(filepath.Join("testdata", "wirectl.toml"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Connection.ProtocolVersion != 340 {
		t.Fatalf("unexpected protocol version: %d", cfg.Connection.ProtocolVersion)
	}
	if cfg.Connection.CompressionThreshold != 64 {
		t.Fatalf("unexpected threshold: %d", cfg.Connection.CompressionThreshold)
	}
	if cfg.Limits.MaxFrameBytes != 65536 {
		t.Fatalf("unexpected max frame bytes: %d", cfg.Limits.MaxFrameBytes)
	}
	if cfg.Limits.MaxUncompressedBytes != frame.DefaultLimits().MaxUncompressedBytes {
		t.Fatalf("absent key should keep default, got %d", cfg.Limits.MaxUncompressedBytes)
	}
	if len(cfg.Packets) != 1 {
		t.Fatalf("unexpected packets: %+v", cfg.Packets)
	}
	p := cfg.Packets[0]
	if p.Bound != "clientbound" || p.Name != "KeepAliveClientbound" {
		t.Fatalf("override not normalized: %+v", p)
	}
	if p.Direction() != packet.Clientbound {
		t.Fatalf("unexpected direction: %v", p.Direction())
	}
	table := p.Table()
	for _, tc := range []struct {
		version int32
		want    int32
	}{{107, 0x1F}, {338, 0x1F}, {339, 0x20}, {578, 0x20}} {
		got, ok := table.Lookup(tc.version)
		if !ok || got != tc.want {
			t.Fatalf("id at %d = %#x, %v; want %#x", tc.version, got, ok, tc.want)
		}
	}
	if _, ok := table.Lookup(100); ok {
		t.Fatalf("no id expected before 107")
	}

	ctx := cfg.Context()
	if ctx.Version() != 340 || !ctx.CompressionEnabled() || ctx.Threshold() != 64 {
		t.Fatalf("unexpected context: %+v", ctx)
	}
}

func TestParseEmptyUsesDefaults(t *testing.T) {
	testlog.Start(t)
	cfg, err := Parse("")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Connection.ProtocolVersion != protocol.LatestProtocolVersion {
		t.Fatalf("unexpected default version: %d", cfg.Connection.ProtocolVersion)
	}
	if cfg.Context().CompressionEnabled() {
		t.Fatalf("compression should default to disabled")
	}
	if cfg.FrameLimits() != frame.DefaultLimits() {
		t.Fatalf("unexpected default limits: %+v", cfg.FrameLimits())
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	testlog.Start(t)
	cases := map[string]string{
		"unsupported version": "[connection]\nprotocol_version = 47\n",
		"unknown key":         "[connection]\nprotocol = 578\n",
		"zero frame limit":    "[limits]\nmax_frame_bytes = 0\n",
		"bad bound":           "[[packets]]\nbound = \"sideways\"\nname = \"ChatPacket\"\n[[packets.ids]]\nid = 1\n",
		"missing name":        "[[packets]]\nbound = \"serverbound\"\n[[packets.ids]]\nid = 1\n",
		"missing ids":         "[[packets]]\nbound = \"serverbound\"\nname = \"ChatPacket\"\n",
		"inverted range":      "[[packets]]\nbound = \"serverbound\"\nname = \"ChatPacket\"\n[[packets.ids]]\nsince = 300\nbefore = 200\nid = 1\n",
		"duplicate override": "[[packets]]\nbound = \"serverbound\"\nname = \"ChatPacket\"\n[[packets.ids]]\nid = 1\n" +
			"[[packets]]\nbound = \"serverbound\"\nname = \"ChatPacket\"\n[[packets.ids]]\nid = 2\n",
	}
	for name, data := range cases {
		if _, err := Parse(data); !errors.Is(err, ErrInvalid) {
			t.Fatalf("%s: expected ErrInvalid, got %v", name, err)
		}
	}
}

func TestTemplatesParse(t *testing.T) {
	testlog.Start(t)
	for _, kind := range []string{"wirectl", "overrides"} {
		tmpl, err := Template(kind)
		if err != nil {
			t.Fatalf("template %s: %v", kind, err)
		}
		if _, err := Parse(tmpl); err != nil {
			t.Fatalf("template %s does not parse: %v", kind, err)
		}
	}
	if _, err := Template("ghost"); err == nil {
		t.Fatalf("expected unknown kind error")
	}
}

func TestWriteTemplateRespectsOverwrite(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "wirectl.toml")
	if err := WriteTemplate(path, "wirectl", false); err != nil {
		t.Fatalf("write template: %v", err)
	}
	if err := WriteTemplate(path, "wirectl", false); err == nil {
		t.Fatalf("expected refusal to overwrite")
	}
	if err := WriteTemplate(path, "overrides", true); err != nil {
		t.Fatalf("overwrite template: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if _, err := Parse(string(data)); err != nil {
		t.Fatalf("written template does not parse: %v", err)
	}
}
