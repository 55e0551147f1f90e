package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/danmuck/craftwire/internal/logging"
	"github.com/rs/zerolog/log"
)

// fieldFlags collects repeated -field name=value arguments.
type fieldFlags []string

func (f *fieldFlags) String() string { return strings.Join(*f, ",") }

func (f *fieldFlags) Set(v string) error {
	if !strings.Contains(v, "=") {
		return fmt.Errorf("field must be name=value, got %q", v)
	}
	*f = append(*f, v)
	return nil
}

func main() {
	logging.ConfigureRuntime()

	var opts options
	flag.StringVar(&opts.mode, "mode", "encode", "mode: encode|decode|template")
	flag.StringVar(&opts.configPath, "config", "", "config file (defaults built in)")
	flag.IntVar(&opts.version, "version", 0, "protocol version override")
	flag.IntVar(&opts.threshold, "threshold", 0, "compression threshold override (-1 disables)")
	flag.StringVar(&opts.bound, "bound", "serverbound", "packet direction: serverbound|clientbound")
	flag.StringVar(&opts.packet, "packet", "ChatPacket", "packet name for encode")
	flag.Var(&opts.fields, "field", "name=value for encode (repeatable)")
	flag.StringVar(&opts.hex, "hex", "", "hex encoded frame for decode")
	flag.StringVar(&opts.kind, "kind", "wirectl", "template kind: wirectl|overrides")
	flag.StringVar(&opts.output, "output", "wirectl.toml", "output path for template")
	flag.BoolVar(&opts.force, "force", false, "overwrite existing template")
	flag.Parse()

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "version":
			opts.versionSet = true
		case "threshold":
			opts.thresholdSet = true
		}
	})

	if err := run(opts, os.Stdout); err != nil {
		log.Fatal().Err(err).Str("mode", opts.mode).Msg("wirectl failed")
	}
}
