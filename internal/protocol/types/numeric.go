package types

import (
	"encoding/binary"
	"math"

	"github.com/danmuck/craftwire/internal/protocol"
	"github.com/danmuck/craftwire/internal/protocol/buffer"
)

// intType is a fixed-width big-endian integer.
type intType struct {
	name     string
	size     int
	min, max int64
	wrap     func(int64) any
}

var (
	Byte Type = intType{name: "Byte", size: 1, min: math.MinInt8, max: math.MaxInt8,
		wrap: func(n int64) any { return int8(n) }}
	UnsignedByte Type = intType{name: "UnsignedByte", size: 1, min: 0, max: math.MaxUint8,
		wrap: func(n int64) any { return uint8(n) }}
	Short Type = intType{name: "Short", size: 2, min: math.MinInt16, max: math.MaxInt16,
		wrap: func(n int64) any { return int16(n) }}
	UnsignedShort Type = intType{name: "UnsignedShort", size: 2, min: 0, max: math.MaxUint16,
		wrap: func(n int64) any { return uint16(n) }}
	Integer Type = intType{name: "Integer", size: 4, min: math.MinInt32, max: math.MaxInt32,
		wrap: func(n int64) any { return int32(n) }}
	Long Type = intType{name: "Long", size: 8, min: math.MinInt64, max: math.MaxInt64,
		wrap: func(n int64) any { return n }}
)

func (t intType) Name() string { return t.name }
func (t intType) Zero() any    { return t.wrap(0) }

func (t intType) Coerce(v any) (any, error) {
	n, ok := AsInt64(v)
	if !ok || n < t.min || n > t.max {
		return nil, mismatch(t.name, v)
	}
	return t.wrap(n), nil
}

func (t intType) Write(v any, buf *buffer.Buffer, _ *protocol.Context) error {
	n, ok := AsInt64(v)
	if !ok || n < t.min || n > t.max {
		return mismatch(t.name, v)
	}
	var raw [8]byte
	binary.BigEndian.PutUint64(raw[:], uint64(n))
	buf.Send(raw[8-t.size:])
	return nil
}

func (t intType) Read(buf *buffer.Buffer, _ *protocol.Context) (any, error) {
	raw, err := buf.Next(t.size)
	if err != nil {
		return nil, err
	}
	var u uint64
	for _, b := range raw {
		u = u<<8 | uint64(b)
	}
	if t.min < 0 {
		// sign-extend from size*8 bits
		shift := uint(64 - 8*t.size)
		return t.wrap(int64(u<<shift) >> shift), nil
	}
	return t.wrap(int64(u)), nil
}

type unsignedLongType struct{}

// UnsignedLong values are uint64.
var UnsignedLong Type = unsignedLongType{}

func (unsignedLongType) Name() string { return "UnsignedLong" }
func (unsignedLongType) Zero() any    { return uint64(0) }

func (t unsignedLongType) Coerce(v any) (any, error) {
	if u, ok := v.(uint64); ok {
		return u, nil
	}
	n, ok := AsInt64(v)
	if !ok || n < 0 {
		return nil, mismatch(t.Name(), v)
	}
	return uint64(n), nil
}

func (t unsignedLongType) Write(v any, buf *buffer.Buffer, _ *protocol.Context) error {
	c, err := t.Coerce(v)
	if err != nil {
		return err
	}
	buf.Send(binary.BigEndian.AppendUint64(nil, c.(uint64)))
	return nil
}

func (unsignedLongType) Read(buf *buffer.Buffer, _ *protocol.Context) (any, error) {
	raw, err := buf.Next(8)
	if err != nil {
		return nil, err
	}
	return binary.BigEndian.Uint64(raw), nil
}

type floatType struct {
	name string
	size int
}

var (
	// Float values are float32.
	Float Type = floatType{name: "Float", size: 4}
	// Double values are float64.
	Double Type = floatType{name: "Double", size: 8}
)

func (t floatType) Name() string { return t.name }

func (t floatType) Zero() any {
	if t.size == 4 {
		return float32(0)
	}
	return float64(0)
}

func (t floatType) Coerce(v any) (any, error) {
	f, ok := AsFloat64(v)
	if !ok {
		return nil, mismatch(t.name, v)
	}
	if t.size == 4 {
		return float32(f), nil
	}
	return f, nil
}

func (t floatType) Write(v any, buf *buffer.Buffer, _ *protocol.Context) error {
	f, ok := AsFloat64(v)
	if !ok {
		return mismatch(t.name, v)
	}
	if t.size == 4 {
		buf.Send(binary.BigEndian.AppendUint32(nil, math.Float32bits(float32(f))))
		return nil
	}
	buf.Send(binary.BigEndian.AppendUint64(nil, math.Float64bits(f)))
	return nil
}

func (t floatType) Read(buf *buffer.Buffer, _ *protocol.Context) (any, error) {
	raw, err := buf.Next(t.size)
	if err != nil {
		return nil, err
	}
	if t.size == 4 {
		return math.Float32frombits(binary.BigEndian.Uint32(raw)), nil
	}
	return math.Float64frombits(binary.BigEndian.Uint64(raw)), nil
}

type booleanType struct{}

// Boolean is a single 0/1 byte; any other byte is a format error.
var Boolean Type = booleanType{}

func (booleanType) Name() string { return "Boolean" }
func (booleanType) Zero() any    { return false }

func (t booleanType) Coerce(v any) (any, error) {
	b, ok := v.(bool)
	if !ok {
		return nil, mismatch(t.Name(), v)
	}
	return b, nil
}

func (t booleanType) Write(v any, buf *buffer.Buffer, _ *protocol.Context) error {
	b, ok := v.(bool)
	if !ok {
		return mismatch(t.Name(), v)
	}
	if b {
		return buf.WriteByte(1)
	}
	return buf.WriteByte(0)
}

func (booleanType) Read(buf *buffer.Buffer, _ *protocol.Context) (any, error) {
	b, err := buf.ReadByte()
	if err != nil {
		return nil, err
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return nil, protocol.Formatf("boolean", protocol.ErrInvalidBool, "byte 0x%02x", b)
	}
}
