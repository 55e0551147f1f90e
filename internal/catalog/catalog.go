// Package catalog holds the concrete packet definitions and builds the
// per-direction sets used to decode them.
package catalog

import (
	"fmt"

	"github.com/danmuck/craftwire/internal/config"
	"github.com/danmuck/craftwire/internal/protocol/packet"
	"github.com/rs/zerolog/log"
)

// Catalog is the set of definitions for each direction after id overrides.
type Catalog struct {
	serverbound *packet.Set
	clientbound *packet.Set
}

// ServerboundDefinitions lists the built in serverbound packets.
func ServerboundDefinitions() []*packet.Definition {
	return []*packet.Definition{ChatPacket, KeepAliveServerbound}
}

// ClientboundDefinitions lists the built in clientbound packets.
func ClientboundDefinitions() []*packet.Definition {
	return []*packet.Definition{
		KeepAliveClientbound,
		ExplosionPacket,
		CombatEventPacket,
		MultiBlockChangePacket,
		SpawnObjectPacket,
	}
}

// Serverbound returns a fresh set of the built in serverbound packets.
func Serverbound() *packet.Set {
	return packet.NewSet(packet.Serverbound.String(), ServerboundDefinitions()...)
}

// Clientbound returns a fresh set of the built in clientbound packets.
func Clientbound() *packet.Set {
	return packet.NewSet(packet.Clientbound.String(), ClientboundDefinitions()...)
}

// New builds a catalog, replacing the id table of every overridden packet.
// Overrides naming an unknown packet are rejected.
func New(overrides []config.PacketOverride) (*Catalog, error) {
	c := &Catalog{serverbound: Serverbound(), clientbound: Clientbound()}
	for _, o := range overrides {
		set := c.Set(o.Direction())
		if set == nil {
			return nil, fmt.Errorf("catalog override %s/%s: unknown direction", o.Bound, o.Name)
		}
		def, ok := set.ByName(o.Name)
		if !ok {
			return nil, fmt.Errorf("catalog override %s/%s: no such packet", o.Bound, o.Name)
		}
		set.Add(def.WithIDs(o.Table()))
		log.Info().Str("packet", def.Tag()).Int("ranges", len(o.IDs)).Msg("catalog.override")
	}
	return c, nil
}

func (c *Catalog) Serverbound() *packet.Set { return c.serverbound }

func (c *Catalog) Clientbound() *packet.Set { return c.clientbound }

// Set returns the set for b, or nil for an unbound direction.
func (c *Catalog) Set(b packet.Bound) *packet.Set {
	switch b {
	case packet.Serverbound:
		return c.serverbound
	case packet.Clientbound:
		return c.clientbound
	default:
		return nil
	}
}

// Lookup finds a definition by direction and packet name.
func (c *Catalog) Lookup(b packet.Bound, name string) (*packet.Definition, bool) {
	set := c.Set(b)
	if set == nil {
		return nil, false
	}
	return set.ByName(name)
}

// Validate checks every definition in the catalog.
func (c *Catalog) Validate() error {
	for _, set := range []*packet.Set{c.serverbound, c.clientbound} {
		for _, def := range set.Definitions() {
			if err := def.Validate(); err != nil {
				return err
			}
		}
	}
	return nil
}
