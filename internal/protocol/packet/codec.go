package packet

import (
	"fmt"

	"github.com/danmuck/craftwire/internal/protocol"
	"github.com/danmuck/craftwire/internal/protocol/buffer"
	"github.com/danmuck/craftwire/internal/protocol/frame"
	"github.com/danmuck/craftwire/internal/protocol/types"
	"github.com/rs/zerolog/log"
)

// Write frames the packet (VarInt id + fields) into buf. A negative
// threshold disables compression.
func (p *Packet) Write(buf *buffer.Buffer, threshold int) error {
	return p.WriteLimited(buf, threshold, frame.DefaultLimits())
}

func (p *Packet) WriteLimited(buf *buffer.Buffer, threshold int, limits frame.Limits) error {
	body, err := p.Encode()
	if err != nil {
		return err
	}
	log.Debug().
		Str("packet", p.def.Name).
		Int32("version", p.ctx.Version()).
		Int("body", len(body)).
		Msg("packet.write")
	return frame.WriteFrame(buf, body, threshold, limits)
}

// Read consumes one frame from buf and decodes it with the definition that
// set maps its id to for the context's protocol version.
func Read(buf *buffer.Buffer, threshold int, set *Set, ctx *protocol.Context) (*Packet, error) {
	return ReadLimited(buf, threshold, set, ctx, frame.DefaultLimits())
}

func ReadLimited(buf *buffer.Buffer, threshold int, set *Set, ctx *protocol.Context, limits frame.Limits) (*Packet, error) {
	body, err := frame.ReadFrame(buf, threshold, limits)
	if err != nil {
		return nil, err
	}
	return Decode(body, set, ctx)
}

// Decode parses an unframed body: VarInt id followed by the fields. Bytes
// left after the last field are a format error.
func Decode(body []byte, set *Set, ctx *protocol.Context) (*Packet, error) {
	bb := buffer.FromBytes(body)
	id, err := types.ReadVarInt(bb)
	if err != nil {
		return nil, err
	}
	def, err := set.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p := Empty(def, ctx)
	if err := p.ReadFields(bb); err != nil {
		return nil, err
	}
	if bb.Remaining() != 0 {
		return nil, protocol.Formatf(def.Name, protocol.ErrTrailingBytes, "%d bytes", bb.Remaining())
	}
	log.Debug().
		Str("packet", def.Name).
		Int32("id", id).
		Int32("version", ctx.Version()).
		Msg("packet.read")
	return p, nil
}

// Encode returns the unframed body: VarInt id followed by the fields.
func (p *Packet) Encode() ([]byte, error) {
	id, err := p.ID()
	if err != nil {
		return nil, err
	}
	scratch := buffer.New()
	types.WriteVarInt(scratch, id)
	if err := p.WriteFields(scratch); err != nil {
		return nil, fmt.Errorf("encode %s: %w", p.def.Name, err)
	}
	return scratch.Writable(), nil
}
