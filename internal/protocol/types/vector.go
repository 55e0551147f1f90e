package types

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"

	"github.com/danmuck/craftwire/internal/protocol"
	"github.com/danmuck/craftwire/internal/protocol/buffer"
)

// Vector is a 3D point or direction. Equality is component-wise.
type Vector struct {
	X, Y, Z float64
}

func (v Vector) String() string {
	return fmt.Sprintf("Vector(%s, %s, %s)", formatFloat(v.X), formatFloat(v.Y), formatFloat(v.Z))
}

// PositionAndLook is a position plus yaw and pitch in degrees.
type PositionAndLook struct {
	X, Y, Z    float64
	Yaw, Pitch float64
}

func (p PositionAndLook) Position() Vector {
	return Vector{X: p.X, Y: p.Y, Z: p.Z}
}

func (p PositionAndLook) String() string {
	return fmt.Sprintf("PositionAndLook(x=%s, y=%s, z=%s, yaw=%s, pitch=%s)",
		formatFloat(p.X), formatFloat(p.Y), formatFloat(p.Z), formatFloat(p.Yaw), formatFloat(p.Pitch))
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// AsVector accepts a Vector, a *Vector, or any three-number array or slice.
func AsVector(v any) (Vector, bool) {
	switch t := v.(type) {
	case Vector:
		return t, true
	case *Vector:
		if t == nil {
			return Vector{}, false
		}
		return *t, true
	case [3]float64:
		return Vector{t[0], t[1], t[2]}, true
	case [3]int:
		return Vector{float64(t[0]), float64(t[1]), float64(t[2])}, true
	case []float64:
		if len(t) == 3 {
			return Vector{t[0], t[1], t[2]}, true
		}
	case []int:
		if len(t) == 3 {
			return Vector{float64(t[0]), float64(t[1]), float64(t[2])}, true
		}
	case []any:
		if len(t) != 3 {
			return Vector{}, false
		}
		var out [3]float64
		for i, c := range t {
			f, ok := AsFloat64(c)
			if !ok {
				return Vector{}, false
			}
			out[i] = f
		}
		return Vector{out[0], out[1], out[2]}, true
	}
	return Vector{}, false
}

// AsPositionAndLook accepts a PositionAndLook or a pointer to one.
func AsPositionAndLook(v any) (PositionAndLook, bool) {
	switch t := v.(type) {
	case PositionAndLook:
		return t, true
	case *PositionAndLook:
		if t == nil {
			return PositionAndLook{}, false
		}
		return *t, true
	}
	return PositionAndLook{}, false
}

type vectorType struct {
	component Type
}

// VectorOf encodes a Vector as three components of the given numeric type.
func VectorOf(component Type) Type {
	return vectorType{component: component}
}

func (t vectorType) Name() string { return "Vector(" + t.component.Name() + ")" }
func (vectorType) Zero() any      { return Vector{} }

func (t vectorType) Coerce(v any) (any, error) {
	vec, ok := AsVector(v)
	if !ok {
		return nil, mismatch(t.Name(), v)
	}
	for _, c := range []float64{vec.X, vec.Y, vec.Z} {
		if _, err := t.component.Coerce(c); err != nil {
			return nil, err
		}
	}
	return vec, nil
}

func (t vectorType) Write(v any, buf *buffer.Buffer, ctx *protocol.Context) error {
	c, err := t.Coerce(v)
	if err != nil {
		return err
	}
	vec := c.(Vector)
	for _, comp := range []float64{vec.X, vec.Y, vec.Z} {
		if err := t.component.Write(comp, buf, ctx); err != nil {
			return err
		}
	}
	return nil
}

func (t vectorType) Read(buf *buffer.Buffer, ctx *protocol.Context) (any, error) {
	var out [3]float64
	for i := range out {
		raw, err := t.component.Read(buf, ctx)
		if err != nil {
			return nil, err
		}
		f, ok := AsFloat64(raw)
		if !ok {
			return nil, mismatch(t.Name(), raw)
		}
		out[i] = f
	}
	return Vector{X: out[0], Y: out[1], Z: out[2]}, nil
}

type positionAndLookType struct {
	pos, look Type
}

// PositionAndLookOf encodes x, y, z with pos and yaw, pitch with look.
func PositionAndLookOf(pos, look Type) Type {
	return positionAndLookType{pos: pos, look: look}
}

func (t positionAndLookType) Name() string { return "PositionAndLook" }
func (positionAndLookType) Zero() any      { return PositionAndLook{} }

func (t positionAndLookType) Coerce(v any) (any, error) {
	pl, ok := AsPositionAndLook(v)
	if !ok {
		return nil, mismatch(t.Name(), v)
	}
	return pl, nil
}

func (t positionAndLookType) Write(v any, buf *buffer.Buffer, ctx *protocol.Context) error {
	pl, ok := AsPositionAndLook(v)
	if !ok {
		return mismatch(t.Name(), v)
	}
	for _, c := range []float64{pl.X, pl.Y, pl.Z} {
		if err := t.pos.Write(c, buf, ctx); err != nil {
			return err
		}
	}
	for _, c := range []float64{pl.Yaw, pl.Pitch} {
		if err := t.look.Write(c, buf, ctx); err != nil {
			return err
		}
	}
	return nil
}

func (t positionAndLookType) Read(buf *buffer.Buffer, ctx *protocol.Context) (any, error) {
	var out [5]float64
	for i := range out {
		typ := t.pos
		if i >= 3 {
			typ = t.look
		}
		raw, err := typ.Read(buf, ctx)
		if err != nil {
			return nil, err
		}
		f, ok := AsFloat64(raw)
		if !ok {
			return nil, mismatch(t.Name(), raw)
		}
		out[i] = f
	}
	return PositionAndLook{X: out[0], Y: out[1], Z: out[2], Yaw: out[3], Pitch: out[4]}, nil
}

type angleType struct{}

// Angle is one byte of 1/256 turn. Values are the uint8 step count so they
// round-trip exactly; AngleDegrees and AngleFromDegrees convert.
var Angle Type = angleType{}

func (angleType) Name() string { return "Angle" }
func (angleType) Zero() any    { return uint8(0) }

func (t angleType) Coerce(v any) (any, error) {
	n, ok := AsInt64(v)
	if !ok || n < 0 || n > math.MaxUint8 {
		return nil, mismatch(t.Name(), v)
	}
	return uint8(n), nil
}

func (t angleType) Write(v any, buf *buffer.Buffer, _ *protocol.Context) error {
	c, err := t.Coerce(v)
	if err != nil {
		return err
	}
	return buf.WriteByte(c.(uint8))
}

func (angleType) Read(buf *buffer.Buffer, _ *protocol.Context) (any, error) {
	return buf.ReadByte()
}

// AngleDegrees converts an Angle step count to degrees in [0, 360).
func AngleDegrees(step uint8) float64 {
	return 360 * float64(step) / 256
}

// AngleFromDegrees rounds deg to the nearest step, wrapping at a full turn.
func AngleFromDegrees(deg float64) uint8 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return uint8(int(math.Round(256*deg/360)) & 0xFF)
}

// packedPositionLayoutChange is the version that moved y to the low bits.
const packedPositionLayoutChange = 443

type positionType struct{}

// Position is a block position packed into one 64-bit integer; values are
// Vector with integral components.
var Position Type = positionType{}

func (positionType) Name() string { return "Position" }
func (positionType) Zero() any    { return Vector{} }

func (t positionType) Coerce(v any) (any, error) {
	vec, ok := AsVector(v)
	if !ok {
		return nil, mismatch(t.Name(), v)
	}
	for _, c := range []float64{vec.X, vec.Y, vec.Z} {
		if c != math.Trunc(c) {
			return nil, mismatch(t.Name(), v)
		}
	}
	return vec, nil
}

func (t positionType) Write(v any, buf *buffer.Buffer, ctx *protocol.Context) error {
	c, err := t.Coerce(v)
	if err != nil {
		return err
	}
	vec := c.(Vector)
	x := uint64(int64(vec.X)) & 0x3FFFFFF
	y := uint64(int64(vec.Y)) & 0xFFF
	z := uint64(int64(vec.Z)) & 0x3FFFFFF
	var packed uint64
	if ctx.ProtocolLaterEq(packedPositionLayoutChange) {
		packed = x<<38 | z<<12 | y
	} else {
		packed = x<<38 | y<<26 | z
	}
	buf.Send(binary.BigEndian.AppendUint64(nil, packed))
	return nil
}

func (positionType) Read(buf *buffer.Buffer, ctx *protocol.Context) (any, error) {
	raw, err := buf.Next(8)
	if err != nil {
		return nil, err
	}
	packed := int64(binary.BigEndian.Uint64(raw))
	var x, y, z int64
	if ctx.ProtocolLaterEq(packedPositionLayoutChange) {
		x = packed >> 38
		y = packed << 52 >> 52
		z = packed << 26 >> 38
	} else {
		x = packed >> 38
		y = packed << 26 >> 52
		z = packed << 38 >> 38
	}
	return Vector{X: float64(x), Y: float64(y), Z: float64(z)}, nil
}
