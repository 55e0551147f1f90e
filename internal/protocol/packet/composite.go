package packet

import (
	"github.com/danmuck/craftwire/internal/protocol"
	"github.com/danmuck/craftwire/internal/protocol/schema"
	"github.com/danmuck/craftwire/internal/protocol/types"
)

// Composite is a derived field. Split maps a composite value onto canonical
// parts given the current values; Join synthesizes the composite from them.
// Merge composites fold into a part that other merges may also touch, so
// they are applied after every direct and full-composite source.
type Composite struct {
	Name  string
	Parts []string
	Merge bool
	Split func(v any, cur Values, ctx *protocol.Context) (Values, error)
	Join  func(cur Values, ctx *protocol.Context) (any, bool)
}

func compositeMismatch(name string, v any) error {
	return protocol.Misconfiguredf(name, "", protocol.ErrTypeMismatch, "cannot use %T(%v)", v, v)
}

func floats(cur Values, names ...string) ([]float64, bool) {
	out := make([]float64, len(names))
	for i, n := range names {
		raw, ok := cur[n]
		if !ok {
			return nil, false
		}
		f, ok := types.AsFloat64(raw)
		if !ok {
			return nil, false
		}
		out[i] = f
	}
	return out, true
}

// VectorComposite exposes three numeric fields as one types.Vector.
func VectorComposite(name, x, y, z string) Composite {
	return Composite{
		Name:  name,
		Parts: []string{x, y, z},
		Split: func(v any, _ Values, _ *protocol.Context) (Values, error) {
			vec, ok := types.AsVector(v)
			if !ok {
				return nil, compositeMismatch(name, v)
			}
			return Values{x: vec.X, y: vec.Y, z: vec.Z}, nil
		},
		Join: func(cur Values, _ *protocol.Context) (any, bool) {
			f, ok := floats(cur, x, y, z)
			if !ok {
				return nil, false
			}
			return types.Vector{X: f[0], Y: f[1], Z: f[2]}, true
		},
	}
}

// PositionAndLookComposite exposes five numeric fields as one
// types.PositionAndLook.
func PositionAndLookComposite(name, x, y, z, yaw, pitch string) Composite {
	return Composite{
		Name:  name,
		Parts: []string{x, y, z, yaw, pitch},
		Split: func(v any, _ Values, _ *protocol.Context) (Values, error) {
			pl, ok := types.AsPositionAndLook(v)
			if !ok {
				return nil, compositeMismatch(name, v)
			}
			return Values{x: pl.X, y: pl.Y, z: pl.Z, yaw: pl.Yaw, pitch: pl.Pitch}, nil
		},
		Join: func(cur Values, _ *protocol.Context) (any, bool) {
			f, ok := floats(cur, x, y, z, yaw, pitch)
			if !ok {
				return nil, false
			}
			return types.PositionAndLook{X: f[0], Y: f[1], Z: f[2], Yaw: f[3], Pitch: f[4]}, true
		},
	}
}

// EnumComposite sets an integer field by symbolic name, resolving the name
// table for the active protocol version. Join yields a types.EnumValue.
func EnumComposite(name, field string, tables schema.Table[*types.EnumTable]) Composite {
	return Composite{
		Name:  name,
		Parts: []string{field},
		Split: func(v any, _ Values, ctx *protocol.Context) (Values, error) {
			table, _ := tables.Lookup(ctx.Version())
			switch x := v.(type) {
			case string:
				ev, ok := table.Lookup(x)
				if !ok {
					return nil, protocol.Misconfiguredf(name, field, protocol.ErrUnknownEnumName, "%q", x)
				}
				return Values{field: ev.Value}, nil
			case types.EnumValue:
				return Values{field: x.Value}, nil
			}
			n, ok := types.AsInt64(v)
			if !ok {
				return nil, compositeMismatch(name, v)
			}
			return Values{field: n}, nil
		},
		Join: func(cur Values, ctx *protocol.Context) (any, bool) {
			raw, ok := cur[field]
			if !ok {
				return nil, false
			}
			n, ok := types.AsInt64(raw)
			if !ok {
				return nil, false
			}
			table, _ := tables.Lookup(ctx.Version())
			return table.Of(n), true
		},
	}
}

// BitsComposite exposes width bits of an integer field starting at shift.
// It is a merge composite: several bit ranges of one field can be supplied
// together.
func BitsComposite(name, field string, shift, width uint) Composite {
	mask := int64(1)<<width - 1
	return Composite{
		Name:  name,
		Parts: []string{field},
		Merge: true,
		Split: func(v any, cur Values, _ *protocol.Context) (Values, error) {
			n, ok := types.AsInt64(v)
			if !ok || n < 0 || n > mask {
				return nil, compositeMismatch(name, v)
			}
			var base int64
			if raw, ok := cur[field]; ok {
				base, _ = types.AsInt64(raw)
			}
			return Values{field: base&^(mask<<shift) | n<<shift}, nil
		},
		Join: func(cur Values, _ *protocol.Context) (any, bool) {
			raw, ok := cur[field]
			if !ok {
				return nil, false
			}
			n, ok := types.AsInt64(raw)
			if !ok {
				return nil, false
			}
			return n >> shift & mask, true
		},
	}
}

// DegreesComposite exposes an Angle field in degrees. Writes round to the
// nearest 1/256 turn.
func DegreesComposite(name, field string) Composite {
	return Composite{
		Name:  name,
		Parts: []string{field},
		Split: func(v any, _ Values, _ *protocol.Context) (Values, error) {
			deg, ok := types.AsFloat64(v)
			if !ok {
				return nil, compositeMismatch(name, v)
			}
			return Values{field: types.AngleFromDegrees(deg)}, nil
		},
		Join: func(cur Values, _ *protocol.Context) (any, bool) {
			raw, ok := cur[field]
			if !ok {
				return nil, false
			}
			step, ok := raw.(uint8)
			if !ok {
				return nil, false
			}
			return types.AngleDegrees(step), true
		},
	}
}
