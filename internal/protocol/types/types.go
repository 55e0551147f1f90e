// Package types implements the wire primitive codecs and composite value
// types (Enum, Vector, PositionAndLook) used by packet schemas.
package types

import (
	"math"

	"github.com/danmuck/craftwire/internal/protocol"
	"github.com/danmuck/craftwire/internal/protocol/buffer"
)

// Type is a field codec. Write accepts any value Coerce accepts; Read always
// yields the canonical Go value for the type.
type Type interface {
	Name() string
	Write(v any, buf *buffer.Buffer, ctx *protocol.Context) error
	Read(buf *buffer.Buffer, ctx *protocol.Context) (any, error)
	// Coerce normalizes a caller value into the canonical Go value.
	Coerce(v any) (any, error)
	Zero() any
}

func mismatch(typeName string, v any) error {
	return protocol.Misconfiguredf(typeName, "", protocol.ErrTypeMismatch, "cannot use %T(%v)", v, v)
}

// AsInt64 converts any Go integer kind, an integral float, or an EnumValue.
func AsInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		if uint64(n) > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case float32:
		return floatToInt(float64(n))
	case float64:
		return floatToInt(n)
	case EnumValue:
		return n.Value, true
	default:
		return 0, false
	}
}

func floatToInt(f float64) (int64, bool) {
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// AsFloat64 converts any Go integer or float kind.
func AsFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		i, ok := AsInt64(v)
		if !ok {
			return 0, false
		}
		return float64(i), true
	}
}
