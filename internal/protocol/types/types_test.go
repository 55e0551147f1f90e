package types

import (
	"errors"
	"math"
	"testing"

	"github.com/danmuck/craftwire/internal/protocol"
	"github.com/danmuck/craftwire/internal/protocol/buffer"
	"github.com/danmuck/craftwire/internal/testutil/testlog"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, typ Type, in any, ctx *protocol.Context) any {
	t.Helper()
	buf := buffer.New()
	require.NoError(t, typ.Write(in, buf, ctx))
	out, err := typ.Read(buf, ctx)
	require.NoError(t, err)
	require.Zero(t, buf.Remaining(), "%s left unread bytes", typ.Name())
	return out
}

func TestVarIntBoundaries(t *testing.T) {
	testlog.Start(t)
	cases := []struct {
		value int32
		size  int
	}{
		{0, 1},
		{127, 1},
		{128, 2},
		{255, 2},
		{2097151, 3},
		{math.MaxInt32, 5},
		{-1, 5},
		{math.MinInt32, 5},
	}
	for _, tc := range cases {
		buf := buffer.New()
		WriteVarInt(buf, tc.value)
		require.Equal(t, tc.size, buf.Len(), "size of %d", tc.value)
		require.Equal(t, tc.size, VarIntSize(tc.value))
		got, err := ReadVarInt(buf)
		require.NoError(t, err)
		require.Equal(t, tc.value, got)
	}
}

func TestVarIntKnownEncodings(t *testing.T) {
	testlog.Start(t)
	buf := buffer.New()
	WriteVarInt(buf, 128)
	require.Equal(t, []byte{0x80, 0x01}, buf.Writable())

	buf.Reset()
	WriteVarInt(buf, -1)
	require.Equal(t, []byte{0xff, 0xff, 0xff, 0xff, 0x0f}, buf.Writable())
}

func TestVarIntTooLong(t *testing.T) {
	testlog.Start(t)
	buf := buffer.FromBytes([]byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x01})
	_, err := ReadVarInt(buf)
	require.ErrorIs(t, err, protocol.ErrVarIntTooLong)
	require.ErrorIs(t, err, protocol.ErrFormat)
}

func TestVarIntTruncated(t *testing.T) {
	testlog.Start(t)
	_, err := ReadVarInt(buffer.FromBytes([]byte{0x80, 0x80}))
	require.ErrorIs(t, err, protocol.ErrTruncated)
}

func TestVarLong(t *testing.T) {
	testlog.Start(t)
	for _, v := range []int64{0, 1, 300, math.MaxInt64, -1, math.MinInt64} {
		require.Equal(t, v, roundTrip(t, VarLong, v, nil))
	}
	buf := buffer.New()
	for i := 0; i < 10; i++ {
		_ = buf.WriteByte(0x80)
	}
	_ = buf.WriteByte(0x01)
	_, err := ReadVarLong(buf)
	require.ErrorIs(t, err, protocol.ErrVarLongTooLong)
}

func TestFixedWidthIntegers(t *testing.T) {
	testlog.Start(t)
	require.Equal(t, int8(-116), roundTrip(t, Byte, -116, nil))
	require.Equal(t, uint8(250), roundTrip(t, UnsignedByte, 250, nil))
	require.Equal(t, int16(-30000), roundTrip(t, Short, -30000, nil))
	require.Equal(t, uint16(65000), roundTrip(t, UnsignedShort, 65000, nil))
	require.Equal(t, int32(-91063502), roundTrip(t, Integer, -91063502, nil))
	require.Equal(t, int64(math.MinInt64), roundTrip(t, Long, int64(math.MinInt64), nil))
	require.Equal(t, uint64(math.MaxUint64), roundTrip(t, UnsignedLong, uint64(math.MaxUint64), nil))

	buf := buffer.New()
	require.NoError(t, Short.Write(int16(0x0102), buf, nil))
	require.Equal(t, []byte{0x01, 0x02}, buf.Writable())

	_, err := Byte.Coerce(200)
	require.ErrorIs(t, err, protocol.ErrTypeMismatch)
	_, err = Integer.Coerce("12")
	require.ErrorIs(t, err, protocol.ErrConfiguration)
	_, err = Short.Coerce(1.5)
	require.ErrorIs(t, err, protocol.ErrTypeMismatch)
}

func TestFloats(t *testing.T) {
	testlog.Start(t)
	require.Equal(t, float32(787.5), roundTrip(t, Float, 787.5, nil))
	require.Equal(t, 68.25, roundTrip(t, Double, 68.25, nil))
	require.Equal(t, float32(15), roundTrip(t, Float, 15, nil))
}

func TestBoolean(t *testing.T) {
	testlog.Start(t)
	require.Equal(t, true, roundTrip(t, Boolean, true, nil))
	require.Equal(t, false, roundTrip(t, Boolean, false, nil))
	_, err := Boolean.Read(buffer.FromBytes([]byte{2}), nil)
	require.ErrorIs(t, err, protocol.ErrInvalidBool)
}

func TestStringUTF8(t *testing.T) {
	testlog.Start(t)
	require.Equal(t, "κόσμε", roundTrip(t, String, "κόσμε", nil))

	buf := buffer.New()
	require.NoError(t, String.Write("κόσμε", buf, nil))
	// 5 characters, 11 bytes.
	require.Equal(t, byte(11), buf.Writable()[0])
}

func TestStringInvalidUTF8(t *testing.T) {
	testlog.Start(t)
	_, err := String.Read(buffer.FromBytes([]byte{2, 0xc3, 0x28}), nil)
	require.ErrorIs(t, err, protocol.ErrInvalidUTF8)
	require.ErrorIs(t, err, protocol.ErrFormat)
}

func TestStringLengthPastEnd(t *testing.T) {
	testlog.Start(t)
	_, err := String.Read(buffer.FromBytes([]byte{10, 'a', 'b'}), nil)
	require.ErrorIs(t, err, protocol.ErrTruncated)
}

func TestStringMaxLength(t *testing.T) {
	testlog.Start(t)
	err := StringN(3).Write("abcd", buffer.New(), nil)
	require.ErrorIs(t, err, protocol.ErrStringTooLong)
	require.ErrorIs(t, err, protocol.ErrConfiguration)

	buf := buffer.New()
	require.NoError(t, String.Write("abcd", buf, nil))
	_, err = StringN(3).Read(buf, nil)
	require.ErrorIs(t, err, protocol.ErrFormat)
}

func TestUUID(t *testing.T) {
	testlog.Start(t)
	id := uuid.MustParse("d9568851-85bc-4a10-8d6a-261d130626fa")
	require.Equal(t, id, roundTrip(t, UUID, id.String(), nil))
	_, err := UUID.Coerce("not-a-uuid")
	require.Error(t, err)
}

func TestByteArrays(t *testing.T) {
	testlog.Start(t)
	require.Equal(t, []byte{1, 2, 3}, roundTrip(t, VarIntPrefixedByteArray, []byte{1, 2, 3}, nil))

	buf := buffer.New()
	require.NoError(t, TrailingByteArray.Write([]byte("tail"), buf, nil))
	out, err := TrailingByteArray.Read(buf, nil)
	require.NoError(t, err)
	require.Equal(t, []byte("tail"), out)
}

func TestEnumRendering(t *testing.T) {
	testlog.Start(t)
	table := NewEnum("Difficulty",
		EnumEntry{Name: "PEACEFUL", Value: 0},
		EnumEntry{Name: "EASY", Value: 1},
	)
	typ := Enum(VarInt, table)

	known := roundTrip(t, typ, 1, nil).(EnumValue)
	require.True(t, known.Known)
	require.Equal(t, "EASY", known.String())

	unknown := roundTrip(t, typ, 7, nil).(EnumValue)
	require.False(t, unknown.Known)
	require.Equal(t, "7", unknown.String())
	require.Equal(t, int64(7), unknown.Value)

	byName, err := typ.Coerce("EASY")
	require.NoError(t, err)
	require.Equal(t, known, byName)

	_, err = typ.Coerce("HARD")
	require.ErrorIs(t, err, protocol.ErrUnknownEnumName)
}

func TestVectorCoercionPaths(t *testing.T) {
	testlog.Start(t)
	typ := VectorOf(Double)
	want := Vector{X: 1, Y: 2, Z: 3}
	for _, in := range []any{want, &want, [3]int{1, 2, 3}, [3]float64{1, 2, 3}, []any{1, 2.0, int8(3)}} {
		got, err := typ.Coerce(in)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	require.Equal(t, want, roundTrip(t, typ, []int{1, 2, 3}, nil))
	require.Equal(t, "Vector(1, 2, 3)", want.String())

	_, err := VectorOf(Byte).Coerce(Vector{X: 300})
	require.ErrorIs(t, err, protocol.ErrTypeMismatch)
}

func TestPositionAndLook(t *testing.T) {
	testlog.Start(t)
	typ := PositionAndLookOf(Double, Float)
	in := PositionAndLook{X: 68, Y: 38, Z: 76, Yaw: 16, Pitch: 23}
	require.Equal(t, in, roundTrip(t, typ, in, nil))
	require.Equal(t, Vector{X: 68, Y: 38, Z: 76}, in.Position())
}

func TestAngleSteps(t *testing.T) {
	testlog.Start(t)
	require.Equal(t, uint8(16), roundTrip(t, Angle, 16, nil))
	require.Equal(t, uint8(255), roundTrip(t, Angle, 255.0, nil))
	_, err := Angle.Coerce(256)
	require.ErrorIs(t, err, protocol.ErrTypeMismatch)

	require.Equal(t, uint8(32), AngleFromDegrees(45))
	require.Equal(t, uint8(192), AngleFromDegrees(-90))
	require.Equal(t, uint8(0), AngleFromDegrees(360))
	require.Equal(t, 45.0, AngleDegrees(32))
	require.Equal(t, 22.5, AngleDegrees(16))
}

func TestPositionPackingByVersion(t *testing.T) {
	testlog.Start(t)
	in := Vector{X: -1200, Y: 64, Z: 33554431 >> 1}
	for _, version := range []int32{340, 404, 477, 578} {
		ctx := protocol.NewContext(version)
		require.Equal(t, in, roundTrip(t, Position, in, ctx), "version %d", version)
	}

	oldBuf, newBuf := buffer.New(), buffer.New()
	require.NoError(t, Position.Write(Vector{X: 0, Y: 1, Z: 0}, oldBuf, protocol.NewContext(404)))
	require.NoError(t, Position.Write(Vector{X: 0, Y: 1, Z: 0}, newBuf, protocol.NewContext(477)))
	require.NotEqual(t, oldBuf.Writable(), newBuf.Writable())

	_, err := Position.Coerce(Vector{X: 0.5})
	require.Error(t, err)
}

func TestCoerceErrorsAreConfiguration(t *testing.T) {
	testlog.Start(t)
	_, err := VarInt.Coerce(struct{}{})
	require.True(t, errors.Is(err, protocol.ErrConfiguration))
}

func TestVarIntFifthByteOverflow(t *testing.T) {
	testlog.Start(t)
	_, err := ReadVarInt(buffer.FromBytes([]byte{0xff, 0xff, 0xff, 0xff, 0x7f}))
	require.ErrorIs(t, err, protocol.ErrVarIntTooLong)

	v, err := ReadVarInt(buffer.FromBytes([]byte{0xff, 0xff, 0xff, 0xff, 0x0f}))
	require.NoError(t, err)
	require.Equal(t, int32(-1), v)
}

func TestIntegralFloatBounds(t *testing.T) {
	testlog.Start(t)
	_, ok := AsInt64(math.Pow(2, 63))
	require.False(t, ok)
	n, ok := AsInt64(float64(-1 << 62))
	require.True(t, ok)
	require.Equal(t, int64(-1<<62), n)
}

func TestEnumWithoutTable(t *testing.T) {
	testlog.Start(t)
	typ := Enum(VarInt, nil)
	require.Equal(t, "VarInt", typ.Name())
	out := roundTrip(t, typ, 7, nil)
	require.Equal(t, EnumValue{Value: 7}, out)
}
