package config

import (
	"fmt"
	"os"
	"strings"
)

func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", "wirectl":
		return wirectlTemplate, nil
	case "overrides":
		return overridesTemplate, nil
	default:
		return "", fmt.Errorf("unknown config kind: %s", kind)
	}
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const wirectlTemplate = `[connection]
protocol_version = 578
# -1 disables compression
compression_threshold = 256

[limits]
max_frame_bytes = 2097151
max_uncompressed_bytes = 8388608

[metrics]
enabled = false
`

const overridesTemplate = wirectlTemplate + `
[[packets]]
bound = "serverbound"
name = "ChatPacket"

  [[packets.ids]]
  since = 107
  id = 2

  [[packets.ids]]
  since = 464
  id = 3
`
