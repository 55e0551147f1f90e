package packet

import (
	"github.com/danmuck/craftwire/internal/protocol"
	"github.com/danmuck/craftwire/internal/protocol/schema"
)

// Bound is the direction a packet travels.
type Bound uint8

const (
	Clientbound Bound = iota + 1
	Serverbound
)

func (b Bound) String() string {
	switch b {
	case Clientbound:
		return "clientbound"
	case Serverbound:
		return "serverbound"
	default:
		return "unbound"
	}
}

// ParseBound is the inverse of Bound.String.
func ParseBound(raw string) (Bound, bool) {
	switch raw {
	case "clientbound":
		return Clientbound, true
	case "serverbound":
		return Serverbound, true
	default:
		return 0, false
	}
}

// Definition is a concrete packet variant: its body shape, direction and
// version-keyed id table.
type Definition struct {
	Shape
	Bound Bound
	IDs   schema.Table[int32]
	// AfterRead runs once every field has been decoded.
	AfterRead func(p *Packet) error
}

// Tag is the stable identity used for dispatch. Copies made by WithIDs
// share it.
func (d *Definition) Tag() string {
	return d.Bound.String() + "/" + d.Name
}

// ID resolves the packet id for the context's protocol version.
func (d *Definition) ID(ctx *protocol.Context) (int32, error) {
	id, ok := d.IDs.Lookup(ctx.Version())
	if !ok {
		return 0, protocol.Misconfiguredf(d.Name, "", protocol.ErrMissingID, "version %d", ctx.Version())
	}
	return id, nil
}

// WithIDs returns a copy of d using ids.
func (d *Definition) WithIDs(ids schema.Table[int32]) *Definition {
	cp := *d
	cp.IDs = ids
	return &cp
}

func (d *Definition) Validate() error {
	if d.IDs.Len() == 0 {
		return protocol.Misconfiguredf(d.Name, "", protocol.ErrMissingID, "no id entries")
	}
	return d.Shape.Validate()
}
