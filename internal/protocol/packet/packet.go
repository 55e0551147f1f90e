package packet

import (
	"fmt"

	"github.com/danmuck/craftwire/internal/protocol"
	"github.com/danmuck/craftwire/internal/protocol/buffer"
)

// Packet is one instance of a Definition bound to a connection context. It
// must not be mutated concurrently with a write or read.
type Packet struct {
	def    *Definition
	ctx    *protocol.Context
	values Values
}

// Empty returns a packet with no values set, ready for ReadFields.
func Empty(def *Definition, ctx *protocol.Context) *Packet {
	return &Packet{def: def, ctx: ctx, values: Values{}}
}

// New builds a packet from canonical names, aliases and composites.
func New(def *Definition, ctx *protocol.Context, in Values) (*Packet, error) {
	p := Empty(def, ctx)
	if err := def.assign(p.values, in, ctx); err != nil {
		return nil, err
	}
	return p, nil
}

// NewPositional builds a packet from values in schema (or Params) order.
func NewPositional(def *Definition, ctx *protocol.Context, args ...any) (*Packet, error) {
	in, err := def.positional(ctx, args)
	if err != nil {
		return nil, err
	}
	return New(def, ctx, in)
}

func (p *Packet) Definition() *Definition { return p.def }

func (p *Packet) Name() string { return p.def.Name }

func (p *Packet) Context() *protocol.Context { return p.ctx }

// SetContext rebinds the packet to another connection context.
func (p *Packet) SetContext(ctx *protocol.Context) { p.ctx = ctx }

func (p *Packet) ID() (int32, error) { return p.def.ID(p.ctx) }

// Get returns a canonical field, an alias, or a joined composite.
func (p *Packet) Get(name string) (any, bool) {
	return p.def.get(p.values, name, p.ctx)
}

func (p *Packet) Set(name string, v any) error {
	return p.def.assign(p.values, Values{name: v}, p.ctx)
}

func (p *Packet) SetValues(in Values) error {
	return p.def.assign(p.values, in, p.ctx)
}

// Unset removes a canonical field so it is written as its zero value.
func (p *Packet) Unset(name string) {
	delete(p.values, name)
}

// Values returns a copy of the canonical field values.
func (p *Packet) Values() Values { return p.values.clone() }

// Equal reports whether o is the same variant with structurally equal
// values. Unset fields compare as their zero value.
func (p *Packet) Equal(o *Packet) bool {
	if p == nil || o == nil {
		return p == o
	}
	return p.def.Tag() == o.def.Tag() && p.def.equal(p.values, o.values, p.ctx)
}

// WriteFields encodes the field values, without id or framing.
func (p *Packet) WriteFields(buf *buffer.Buffer) error {
	return p.def.writeFields(p.values, buf, p.ctx)
}

// ReadFields decodes the field values, replacing any current ones, then
// runs the definition's AfterRead hook.
func (p *Packet) ReadFields(buf *buffer.Buffer) error {
	vals, err := p.def.readFields(buf, p.ctx)
	if err != nil {
		return err
	}
	p.values = vals
	if p.def.AfterRead != nil {
		if err := p.def.AfterRead(p); err != nil {
			return fmt.Errorf("after read %s: %w", p.def.Name, err)
		}
	}
	return nil
}

// String renders "0xNN Name(field=value, ...)".
func (p *Packet) String() string {
	id := "0x??"
	if n, err := p.ID(); err == nil {
		id = fmt.Sprintf("0x%02X", n)
	}
	return id + " " + p.def.render(p.values, p.ctx)
}
