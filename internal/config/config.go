package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/craftwire/internal/protocol"
	"github.com/danmuck/craftwire/internal/protocol/frame"
	"github.com/danmuck/craftwire/internal/protocol/packet"
	"github.com/danmuck/craftwire/internal/protocol/schema"
)

// ErrInvalid marks every validation failure.
var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Connection ConnectionConfig `toml:"connection"`
	Limits     LimitsConfig     `toml:"limits"`
	Metrics    MetricsConfig    `toml:"metrics"`
	Packets    []PacketOverride `toml:"packets"`
}

type ConnectionConfig struct {
	ProtocolVersion int32 `toml:"protocol_version"`
	// CompressionThreshold below zero disables compression.
	CompressionThreshold int `toml:"compression_threshold"`
}

type LimitsConfig struct {
	MaxFrameBytes        int `toml:"max_frame_bytes"`
	MaxUncompressedBytes int `toml:"max_uncompressed_bytes"`
}

type MetricsConfig struct {
	Enabled bool `toml:"enabled"`
}

// PacketOverride replaces the id table of one catalog packet.
type PacketOverride struct {
	Bound string    `toml:"bound"`
	Name  string    `toml:"name"`
	IDs   []IDRange `toml:"ids"`
}

// IDRange assigns ID to versions in [Since, Before). Before 0 is open ended.
type IDRange struct {
	Since  int32 `toml:"since"`
	Before int32 `toml:"before"`
	ID     int32 `toml:"id"`
}

func Default() Config {
	limits := frame.DefaultLimits()
	return Config{
		Connection: ConnectionConfig{
			ProtocolVersion:      protocol.LatestProtocolVersion,
			CompressionThreshold: protocol.CompressionDisabled,
		},
		Limits: LimitsConfig{
			MaxFrameBytes:        limits.MaxFrameBytes,
			MaxUncompressedBytes: limits.MaxUncompressedBytes,
		},
	}
}

// Load reads a TOML file over the defaults. Keys absent from the file keep
// their default value.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	return finish(cfg, meta)
}

// Parse is Load for in-memory TOML.
func Parse(data string) (Config, error) {
	cfg := Default()
	meta, err := toml.Decode(data, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config parse failed: %w", err)
	}
	return finish(cfg, meta)
}

func finish(cfg Config, meta toml.MetaData) (Config, error) {
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%w: unknown keys %s", ErrInvalid, strings.Join(keys, ", "))
	}
	for i := range cfg.Packets {
		cfg.Packets[i].Bound = strings.ToLower(strings.TrimSpace(cfg.Packets[i].Bound))
		cfg.Packets[i].Name = strings.TrimSpace(cfg.Packets[i].Name)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	if !protocol.IsSupported(cfg.Connection.ProtocolVersion) {
		return fmt.Errorf("%w: unsupported protocol_version %d", ErrInvalid, cfg.Connection.ProtocolVersion)
	}
	if cfg.Limits.MaxFrameBytes <= 0 {
		return fmt.Errorf("%w: max_frame_bytes must be positive", ErrInvalid)
	}
	if cfg.Limits.MaxUncompressedBytes <= 0 {
		return fmt.Errorf("%w: max_uncompressed_bytes must be positive", ErrInvalid)
	}
	seen := make(map[string]bool, len(cfg.Packets))
	for i, p := range cfg.Packets {
		if err := ValidateOverride(p); err != nil {
			return fmt.Errorf("packets[%d] invalid: %w", i, err)
		}
		key := p.Bound + "/" + p.Name
		if seen[key] {
			return fmt.Errorf("%w: packets[%d] duplicates %s", ErrInvalid, i, key)
		}
		seen[key] = true
	}
	return nil
}

func ValidateOverride(p PacketOverride) error {
	if _, ok := packet.ParseBound(p.Bound); !ok {
		return fmt.Errorf("%w: bound must be clientbound or serverbound, got %q", ErrInvalid, p.Bound)
	}
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if len(p.IDs) == 0 {
		return fmt.Errorf("%w: at least one ids entry is required", ErrInvalid)
	}
	for j, r := range p.IDs {
		if r.Since < 0 || r.ID < 0 {
			return fmt.Errorf("%w: ids[%d] must not be negative", ErrInvalid, j)
		}
		if r.Before != 0 && r.Before <= r.Since {
			return fmt.Errorf("%w: ids[%d] before %d <= since %d", ErrInvalid, j, r.Before, r.Since)
		}
	}
	return nil
}

// Context builds the connection context the config describes.
func (c Config) Context() *protocol.Context {
	return &protocol.Context{
		ProtocolVersion:      c.Connection.ProtocolVersion,
		CompressionThreshold: c.Connection.CompressionThreshold,
	}
}

func (c Config) FrameLimits() frame.Limits {
	return frame.Limits{
		MaxFrameBytes:        c.Limits.MaxFrameBytes,
		MaxUncompressedBytes: c.Limits.MaxUncompressedBytes,
	}
}

// Table converts the override into a version-keyed id table.
func (p PacketOverride) Table() schema.Table[int32] {
	entries := make([]schema.Entry[int32], 0, len(p.IDs))
	for _, r := range p.IDs {
		rng := schema.Since(r.Since)
		if r.Before != 0 {
			rng = schema.Between(r.Since, r.Before)
		}
		entries = append(entries, schema.At(rng, r.ID))
	}
	return schema.NewTable(entries...)
}

// Direction is the parsed Bound. It is only meaningful after validation.
func (p PacketOverride) Direction() packet.Bound {
	b, _ := packet.ParseBound(p.Bound)
	return b
}
