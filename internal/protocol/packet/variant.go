package packet

import (
	"github.com/danmuck/craftwire/internal/protocol"
	"github.com/danmuck/craftwire/internal/protocol/buffer"
	"github.com/danmuck/craftwire/internal/protocol/types"
)

// Case is one arm of a variant: the discriminant value and the shape of the
// fields that follow it.
type Case struct {
	Tag   int64
	Shape *Shape
}

// VariantType is a tagged union field. Its value is a *Record whose shape is
// one of the cases; only that case's fields exist on the wire.
type VariantType struct {
	name         string
	discriminant types.Type
	cases        []Case
}

func Variant(name string, discriminant types.Type, cases ...Case) *VariantType {
	return &VariantType{name: name, discriminant: discriminant, cases: cases}
}

func (t *VariantType) Name() string { return t.name }

// Zero is an empty record of the first case.
func (t *VariantType) Zero() any {
	if len(t.cases) == 0 {
		return nil
	}
	return &Record{shape: t.cases[0].Shape, values: Values{}}
}

func (t *VariantType) Cases() []Case {
	out := make([]Case, len(t.cases))
	copy(out, t.cases)
	return out
}

func (t *VariantType) byShape(s *Shape) (Case, bool) {
	for _, c := range t.cases {
		if c.Shape == s {
			return c, true
		}
	}
	return Case{}, false
}

func (t *VariantType) byTag(tag int64) (Case, bool) {
	for _, c := range t.cases {
		if c.Tag == tag {
			return c, true
		}
	}
	return Case{}, false
}

// New builds a record for the case named caseName.
func (t *VariantType) New(caseName string, in Values) (*Record, error) {
	for _, c := range t.cases {
		if c.Shape.Name == caseName {
			return NewRecordValues(c.Shape, in)
		}
	}
	return nil, protocol.Misconfiguredf(t.name, caseName, protocol.ErrUnknownField, "no such case")
}

func (t *VariantType) Coerce(v any) (any, error) {
	r, ok := v.(*Record)
	if !ok || r == nil {
		return nil, compositeMismatch(t.name, v)
	}
	if _, ok := t.byShape(r.shape); !ok {
		return nil, protocol.Misconfiguredf(t.name, r.shape.Name, protocol.ErrTypeMismatch, "not a case")
	}
	return r, nil
}

func (t *VariantType) Write(v any, buf *buffer.Buffer, ctx *protocol.Context) error {
	c, err := t.Coerce(v)
	if err != nil {
		return err
	}
	r := c.(*Record)
	arm, _ := t.byShape(r.shape)
	if err := t.discriminant.Write(arm.Tag, buf, ctx); err != nil {
		return err
	}
	return r.shape.writeFields(r.values, buf, ctx)
}

func (t *VariantType) Read(buf *buffer.Buffer, ctx *protocol.Context) (any, error) {
	raw, err := t.discriminant.Read(buf, ctx)
	if err != nil {
		return nil, err
	}
	tag, ok := types.AsInt64(raw)
	if !ok {
		return nil, protocol.Formatf(t.name, protocol.ErrUnknownVariant, "discriminant %v", raw)
	}
	arm, ok := t.byTag(tag)
	if !ok {
		return nil, protocol.Formatf(t.name, protocol.ErrUnknownVariant, "discriminant %d", tag)
	}
	vals, err := arm.Shape.readFields(buf, ctx)
	if err != nil {
		return nil, err
	}
	return &Record{shape: arm.Shape, values: vals}, nil
}
