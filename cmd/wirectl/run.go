package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/danmuck/craftwire/internal/catalog"
	"github.com/danmuck/craftwire/internal/config"
	"github.com/danmuck/craftwire/internal/observability"
	"github.com/danmuck/craftwire/internal/protocol/buffer"
	"github.com/danmuck/craftwire/internal/protocol/dispatch"
	"github.com/danmuck/craftwire/internal/protocol/packet"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

type options struct {
	mode         string
	configPath   string
	version      int
	versionSet   bool
	threshold    int
	thresholdSet bool
	bound        string
	packet       string
	fields       fieldFlags
	hex          string
	kind         string
	output       string
	force        bool
}

func run(opts options, out io.Writer) error {
	if opts.mode == "template" {
		if err := config.WriteTemplate(opts.output, opts.kind, opts.force); err != nil {
			return err
		}
		log.Info().Str("kind", opts.kind).Str("path", opts.output).Msg("wrote config template")
		return nil
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	if cfg.Metrics.Enabled {
		observability.RegisterMetrics()
		defer reportMetrics()
	}
	cat, err := catalog.New(cfg.Packets)
	if err != nil {
		return err
	}
	bound, ok := packet.ParseBound(strings.ToLower(opts.bound))
	if !ok {
		return fmt.Errorf("unknown bound %q", opts.bound)
	}

	switch opts.mode {
	case "encode":
		return encode(cfg, cat, bound, opts, out)
	case "decode":
		return decode(cfg, cat, bound, opts.hex, out)
	default:
		return fmt.Errorf("unknown mode %q", opts.mode)
	}
}

func loadConfig(opts options) (config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
		log.Info().Str("path", opts.configPath).Msg("loaded wirectl config")
	}
	if opts.versionSet {
		cfg.Connection.ProtocolVersion = int32(opts.version)
	}
	if opts.thresholdSet {
		cfg.Connection.CompressionThreshold = opts.threshold
	}
	if err := config.Validate(cfg); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func encode(cfg config.Config, cat *catalog.Catalog, bound packet.Bound, opts options, out io.Writer) error {
	def, ok := cat.Lookup(bound, opts.packet)
	if !ok {
		return fmt.Errorf("no %s packet named %q", bound, opts.packet)
	}
	ctx := cfg.Context()
	p := packet.Empty(def, ctx)
	for _, kv := range opts.fields {
		name, raw, _ := strings.Cut(kv, "=")
		if err := setField(p, name, raw); err != nil {
			return err
		}
	}
	buf := buffer.New()
	if err := p.WriteLimited(buf, ctx.Threshold(), cfg.FrameLimits()); err != nil {
		return err
	}
	log.Debug().Str("packet", p.String()).Msg("encoded")
	_, err := fmt.Fprintln(out, hex.EncodeToString(buf.Writable()))
	return err
}

// setField tries the value as a number or boolean first and falls back to
// the raw string, so "42" can fill either a VarInt or a String field.
func setField(p *packet.Packet, name, raw string) error {
	var parsed any = raw
	if n, err := strconv.ParseInt(raw, 0, 64); err == nil {
		parsed = n
	} else if f, err := strconv.ParseFloat(raw, 64); err == nil {
		parsed = f
	} else if b, err := strconv.ParseBool(raw); err == nil {
		parsed = b
	}
	err := p.Set(name, parsed)
	if err != nil && parsed != any(raw) {
		if fallback := p.Set(name, raw); fallback == nil {
			return nil
		}
	}
	return err
}

func decode(cfg config.Config, cat *catalog.Catalog, bound packet.Bound, frameHex string, out io.Writer) error {
	raw, err := hex.DecodeString(strings.TrimSpace(frameHex))
	if err != nil {
		return fmt.Errorf("decode hex: %w", err)
	}
	set := cat.Set(bound)
	registry := dispatch.NewRegistry()
	registry.Register(func(p *packet.Packet) error {
		_, err := fmt.Fprintln(out, p.String())
		return err
	}, set.Definitions()...)

	ctx := cfg.Context()
	buf := buffer.FromBytes(raw)
	for buf.Remaining() > 0 {
		p, err := packet.ReadLimited(buf, ctx.Threshold(), set, ctx, cfg.FrameLimits())
		if err != nil {
			return err
		}
		if _, err := registry.Dispatch(p); err != nil {
			return err
		}
	}
	return nil
}

func reportMetrics() {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		log.Warn().Err(err).Msg("gather metrics")
		return
	}
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), "craftwire_") {
			continue
		}
		for _, m := range mf.GetMetric() {
			ev := log.Info().Str("metric", mf.GetName())
			for _, l := range m.GetLabel() {
				ev = ev.Str(l.GetName(), l.GetValue())
			}
			switch {
			case m.GetCounter() != nil:
				ev = ev.Float64("value", m.GetCounter().GetValue())
			case m.GetHistogram() != nil:
				ev = ev.Uint64("count", m.GetHistogram().GetSampleCount())
			}
			ev.Msg("metric")
		}
	}
}
