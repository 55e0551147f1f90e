package types

import (
	"fmt"
	"unicode/utf8"

	"github.com/danmuck/craftwire/internal/protocol"
	"github.com/danmuck/craftwire/internal/protocol/buffer"
	"github.com/google/uuid"
)

// DefaultStringLength is the protocol-wide cap on string length in characters.
const DefaultStringLength = 32767

type stringType struct {
	max int
}

// String is a VarInt byte length followed by UTF-8 bytes.
var String Type = stringType{max: DefaultStringLength}

// StringN is String capped at max characters.
func StringN(max int) Type {
	return stringType{max: max}
}

func (t stringType) Name() string {
	if t.max == DefaultStringLength {
		return "String"
	}
	return fmt.Sprintf("String(%d)", t.max)
}

func (stringType) Zero() any { return "" }

func (t stringType) Coerce(v any) (any, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case []byte:
		return string(s), nil
	case fmt.Stringer:
		return s.String(), nil
	default:
		return nil, mismatch(t.Name(), v)
	}
}

func (t stringType) Write(v any, buf *buffer.Buffer, _ *protocol.Context) error {
	c, err := t.Coerce(v)
	if err != nil {
		return err
	}
	s := c.(string)
	if !utf8.ValidString(s) {
		return protocol.Misconfigured(t.Name(), "", protocol.ErrInvalidUTF8)
	}
	if n := utf8.RuneCountInString(s); n > t.max {
		return protocol.Misconfiguredf(t.Name(), "", protocol.ErrStringTooLong, "%d > %d characters", n, t.max)
	}
	WriteVarInt(buf, int32(len(s)))
	buf.Send([]byte(s))
	return nil
}

func (t stringType) Read(buf *buffer.Buffer, _ *protocol.Context) (any, error) {
	n, err := ReadVarInt(buf)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, protocol.Formatf("string", protocol.ErrNegativeLength, "length %d", n)
	}
	raw, err := buf.Next(int(n))
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(raw) {
		return nil, protocol.Formatf("string", protocol.ErrInvalidUTF8, "%d bytes", n)
	}
	s := string(raw)
	if c := utf8.RuneCountInString(s); c > t.max {
		return nil, protocol.Formatf("string", protocol.ErrStringTooLong, "%d > %d characters", c, t.max)
	}
	return s, nil
}

type uuidType struct{}

// UUID is 16 raw bytes; values are uuid.UUID.
var UUID Type = uuidType{}

func (uuidType) Name() string { return "UUID" }
func (uuidType) Zero() any    { return uuid.Nil }

func (t uuidType) Coerce(v any) (any, error) {
	switch u := v.(type) {
	case uuid.UUID:
		return u, nil
	case string:
		parsed, err := uuid.Parse(u)
		if err != nil {
			return nil, mismatch(t.Name(), v)
		}
		return parsed, nil
	case [16]byte:
		return uuid.UUID(u), nil
	default:
		return nil, mismatch(t.Name(), v)
	}
}

func (t uuidType) Write(v any, buf *buffer.Buffer, _ *protocol.Context) error {
	c, err := t.Coerce(v)
	if err != nil {
		return err
	}
	u := c.(uuid.UUID)
	buf.Send(u[:])
	return nil
}

func (uuidType) Read(buf *buffer.Buffer, _ *protocol.Context) (any, error) {
	raw, err := buf.Next(16)
	if err != nil {
		return nil, err
	}
	return uuid.FromBytes(raw)
}

type byteArrayType struct {
	prefixed bool
}

var (
	// VarIntPrefixedByteArray is a VarInt length followed by raw bytes.
	VarIntPrefixedByteArray Type = byteArrayType{prefixed: true}
	// TrailingByteArray consumes every remaining byte of the packet body.
	TrailingByteArray Type = byteArrayType{}
)

func (t byteArrayType) Name() string {
	if t.prefixed {
		return "VarIntPrefixedByteArray"
	}
	return "TrailingByteArray"
}

func (byteArrayType) Zero() any { return []byte{} }

func (t byteArrayType) Coerce(v any) (any, error) {
	switch b := v.(type) {
	case []byte:
		out := make([]byte, len(b))
		copy(out, b)
		return out, nil
	case string:
		return []byte(b), nil
	default:
		return nil, mismatch(t.Name(), v)
	}
}

func (t byteArrayType) Write(v any, buf *buffer.Buffer, _ *protocol.Context) error {
	c, err := t.Coerce(v)
	if err != nil {
		return err
	}
	b := c.([]byte)
	if t.prefixed {
		WriteVarInt(buf, int32(len(b)))
	}
	buf.Send(b)
	return nil
}

func (t byteArrayType) Read(buf *buffer.Buffer, _ *protocol.Context) (any, error) {
	var raw []byte
	if t.prefixed {
		n, err := ReadVarInt(buf)
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, protocol.Formatf("byte_array", protocol.ErrNegativeLength, "length %d", n)
		}
		if raw, err = buf.Next(int(n)); err != nil {
			return nil, err
		}
	} else {
		raw = buf.Rest()
	}
	out := make([]byte, len(raw))
	copy(out, raw)
	return out, nil
}
