package types

import (
	"github.com/danmuck/craftwire/internal/protocol"
	"github.com/danmuck/craftwire/internal/protocol/buffer"
)

const (
	maxVarIntBytes  = 5
	maxVarLongBytes = 10
)

// WriteVarInt appends v as a VarInt. Negative values use their uint32
// reinterpretation and always take five bytes.
func WriteVarInt(buf *buffer.Buffer, v int32) {
	u := uint32(v)
	for {
		if u&^0x7F == 0 {
			_ = buf.WriteByte(byte(u))
			return
		}
		_ = buf.WriteByte(byte(u&0x7F) | 0x80)
		u >>= 7
	}
}

// ReadVarInt consumes one VarInt from buf.
func ReadVarInt(buf *buffer.Buffer) (int32, error) {
	var result uint32
	for i := 0; ; i++ {
		if i >= maxVarIntBytes {
			return 0, protocol.Formatf("varint", protocol.ErrVarIntTooLong, "no terminator in %d bytes", maxVarIntBytes)
		}
		b, err := buf.ReadByte()
		if err != nil {
			return 0, err
		}
		// the fifth byte may only carry the top four bits of a 32-bit value
		if i == maxVarIntBytes-1 && b&0x70 != 0 {
			return 0, protocol.Formatf("varint", protocol.ErrVarIntTooLong, "value exceeds 32 bits")
		}
		result |= uint32(b&0x7F) << (7 * i)
		if b&0x80 == 0 {
			return int32(result), nil
		}
	}
}

// VarIntSize returns the encoded length of v.
func VarIntSize(v int32) int {
	u := uint32(v)
	n := 1
	for u >= 0x80 {
		u >>= 7
		n++
	}
	return n
}

func WriteVarLong(buf *buffer.Buffer, v int64) {
	u := uint64(v)
	for {
		if u&^0x7F == 0 {
			_ = buf.WriteByte(byte(u))
			return
		}
		_ = buf.WriteByte(byte(u&0x7F) | 0x80)
		u >>= 7
	}
}

func ReadVarLong(buf *buffer.Buffer) (int64, error) {
	var result uint64
	for i := 0; ; i++ {
		if i >= maxVarLongBytes {
			return 0, protocol.Formatf("varlong", protocol.ErrVarLongTooLong, "no terminator in %d bytes", maxVarLongBytes)
		}
		b, err := buf.ReadByte()
		if err != nil {
			return 0, err
		}
		result |= uint64(b&0x7F) << (7 * i)
		if b&0x80 == 0 {
			return int64(result), nil
		}
	}
}

type varIntType struct{}

// VarInt is the variable-length 32-bit integer; values are int32.
var VarInt Type = varIntType{}

func (varIntType) Name() string { return "VarInt" }
func (varIntType) Zero() any    { return int32(0) }

func (t varIntType) Coerce(v any) (any, error) {
	n, ok := AsInt64(v)
	if !ok {
		return nil, mismatch(t.Name(), v)
	}
	// Unsigned 32-bit inputs are accepted through reinterpretation.
	if n < -1<<31 || n > 1<<32-1 {
		return nil, mismatch(t.Name(), v)
	}
	return int32(uint32(n)), nil
}

func (t varIntType) Write(v any, buf *buffer.Buffer, _ *protocol.Context) error {
	c, err := t.Coerce(v)
	if err != nil {
		return err
	}
	WriteVarInt(buf, c.(int32))
	return nil
}

func (varIntType) Read(buf *buffer.Buffer, _ *protocol.Context) (any, error) {
	return ReadVarInt(buf)
}

type varLongType struct{}

// VarLong is the variable-length 64-bit integer; values are int64.
var VarLong Type = varLongType{}

func (varLongType) Name() string { return "VarLong" }
func (varLongType) Zero() any    { return int64(0) }

func (t varLongType) Coerce(v any) (any, error) {
	n, ok := AsInt64(v)
	if !ok {
		return nil, mismatch(t.Name(), v)
	}
	return n, nil
}

func (t varLongType) Write(v any, buf *buffer.Buffer, _ *protocol.Context) error {
	c, err := t.Coerce(v)
	if err != nil {
		return err
	}
	WriteVarLong(buf, c.(int64))
	return nil
}

func (varLongType) Read(buf *buffer.Buffer, _ *protocol.Context) (any, error) {
	return ReadVarLong(buf)
}
