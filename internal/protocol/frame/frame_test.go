package frame

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/danmuck/craftwire/internal/protocol"
	"github.com/danmuck/craftwire/internal/protocol/buffer"
	"github.com/danmuck/craftwire/internal/protocol/types"
	"github.com/danmuck/craftwire/internal/testutil/testlog"
	"github.com/klauspost/compress/zlib"
)

func TestReadWriteFrameRoundTrip(t *testing.T) {
	testlog.Start(t)
	body := append([]byte{0x02}, []byte(strings.Repeat("abcdefgh", 64))...)
	for _, threshold := range []int{Disabled, 0, 20, 256, 100000} {
		buf := buffer.New()
		if err := WriteFrame(buf, body, threshold, DefaultLimits()); err != nil {
			t.Fatalf("threshold %d: write frame: %v", threshold, err)
		}
		out, err := ReadFrame(buf, threshold, DefaultLimits())
		if err != nil {
			t.Fatalf("threshold %d: read frame: %v", threshold, err)
		}
		if !bytes.Equal(out, body) {
			t.Fatalf("threshold %d: body mismatch", threshold)
		}
		if buf.Remaining() != 0 {
			t.Fatalf("threshold %d: %d bytes left", threshold, buf.Remaining())
		}
	}
}

func TestWriteFrameUncompressedLayout(t *testing.T) {
	testlog.Start(t)
	body := []byte{0x01, 0x02, 0x03}

	buf := buffer.New()
	if err := WriteFrame(buf, body, Disabled, DefaultLimits()); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !bytes.Equal(buf.Writable(), []byte{0x03, 0x01, 0x02, 0x03}) {
		t.Fatalf("disabled layout: % x", buf.Writable())
	}

	buf.Reset()
	if err := WriteFrame(buf, body, 64, DefaultLimits()); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !bytes.Equal(buf.Writable(), []byte{0x04, 0x00, 0x01, 0x02, 0x03}) {
		t.Fatalf("below-threshold layout: % x", buf.Writable())
	}
}

func TestWriteFrameCompressedLayout(t *testing.T) {
	testlog.Start(t)
	body := []byte(strings.Repeat("z", 500))
	buf := buffer.New()
	if err := WriteFrame(buf, body, 20, DefaultLimits()); err != nil {
		t.Fatalf("write: %v", err)
	}

	buf.ResetCursor()
	length, err := types.ReadVarInt(buf)
	if err != nil {
		t.Fatalf("length: %v", err)
	}
	if int(length) != buf.Remaining() {
		t.Fatalf("length %d does not cover remaining %d", length, buf.Remaining())
	}
	size, err := types.ReadVarInt(buf)
	if err != nil {
		t.Fatalf("size: %v", err)
	}
	if size != 500 {
		t.Fatalf("uncompressed size %d", size)
	}
	zr, err := zlib.NewReader(bytes.NewReader(buf.Rest()))
	if err != nil {
		t.Fatalf("zlib reader: %v", err)
	}
	var out bytes.Buffer
	if _, err := out.ReadFrom(zr); err != nil {
		t.Fatalf("inflate: %v", err)
	}
	if !bytes.Equal(out.Bytes(), body) {
		t.Fatalf("inflated body mismatch")
	}
}

func TestReadFrameDecompressedLengthMismatch(t *testing.T) {
	testlog.Start(t)
	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	_, _ = zw.Write([]byte("short"))
	_ = zw.Close()

	for _, announced := range []int32{10, 3} {
		inner := buffer.New()
		types.WriteVarInt(inner, announced)
		inner.Send(compressed.Bytes())
		frame := buffer.New()
		types.WriteVarInt(frame, int32(inner.Len()))
		frame.Send(inner.Writable())

		_, err := ReadFrame(frame, 1, DefaultLimits())
		if !errors.Is(err, protocol.ErrDecompressedLength) || !errors.Is(err, protocol.ErrFormat) {
			t.Fatalf("announced %d: expected decompressed length error, got %v", announced, err)
		}
	}
}

func TestReadFrameTruncated(t *testing.T) {
	testlog.Start(t)
	_, err := ReadFrame(buffer.FromBytes([]byte{0x05, 0x01, 0x02}), Disabled, DefaultLimits())
	if !errors.Is(err, protocol.ErrTruncated) {
		t.Fatalf("expected truncated, got %v", err)
	}
}

func TestFrameLimits(t *testing.T) {
	testlog.Start(t)
	limits := Limits{MaxFrameBytes: 8, MaxUncompressedBytes: 8}
	err := WriteFrame(buffer.New(), make([]byte, 9), Disabled, limits)
	if !errors.Is(err, protocol.ErrFrameTooLarge) {
		t.Fatalf("expected too large on write, got %v", err)
	}

	buf := buffer.New()
	types.WriteVarInt(buf, 100)
	buf.Send(make([]byte, 100))
	if _, err := ReadFrame(buf, Disabled, limits); !errors.Is(err, protocol.ErrFrameTooLarge) {
		t.Fatalf("expected too large on read, got %v", err)
	}
}
