// Package frame wraps packet bodies in the length-prefixed, optionally
// zlib-compressed envelope and unwraps them on read.
//
// Wire layout:
//
//	threshold < 0:  [VarInt len][body]
//	threshold >= 0: [VarInt len][VarInt uncompressed len or 0][zlib(body) or body]
package frame

import (
	"bytes"
	"errors"
	"io"

	"github.com/danmuck/craftwire/internal/observability"
	"github.com/danmuck/craftwire/internal/protocol"
	"github.com/danmuck/craftwire/internal/protocol/buffer"
	"github.com/danmuck/craftwire/internal/protocol/types"
	"github.com/klauspost/compress/zlib"
	"github.com/rs/zerolog/log"
)

// Disabled turns compression off when passed as a threshold.
const Disabled = protocol.CompressionDisabled

// Limits constrains frame decode/encode memory use.
type Limits struct {
	MaxFrameBytes        int
	MaxUncompressedBytes int
}

// DefaultLimits allows the largest length a 3-byte VarInt can announce and
// an 8 MiB decompressed body.
func DefaultLimits() Limits {
	return Limits{
		MaxFrameBytes:        2097151,
		MaxUncompressedBytes: 8 * 1024 * 1024,
	}
}

// WriteFrame appends body framed for threshold to dst.
func WriteFrame(dst *buffer.Buffer, body []byte, threshold int, limits Limits) error {
	if len(body) > limits.MaxUncompressedBytes {
		return protocol.Formatf("frame.write", protocol.ErrFrameTooLarge, "body %d > %d", len(body), limits.MaxUncompressedBytes)
	}

	inner := buffer.New()
	compressed := false
	switch {
	case threshold < 0:
		inner.Send(body)
	case len(body) >= threshold:
		types.WriteVarInt(inner, int32(len(body)))
		zw := zlib.NewWriter(inner)
		if _, err := zw.Write(body); err != nil {
			return err
		}
		if err := zw.Close(); err != nil {
			return err
		}
		compressed = true
	default:
		types.WriteVarInt(inner, 0)
		inner.Send(body)
	}

	if inner.Len() > limits.MaxFrameBytes {
		return protocol.Formatf("frame.write", protocol.ErrFrameTooLarge, "frame %d > %d", inner.Len(), limits.MaxFrameBytes)
	}
	types.WriteVarInt(dst, int32(inner.Len()))
	dst.Send(inner.Writable())

	observability.RecordFrameEncoded(len(body), compressed)
	log.Trace().
		Str("component", "frame").
		Int("body", len(body)).
		Int("frame", inner.Len()).
		Int("threshold", threshold).
		Bool("compressed", compressed).
		Msg("frame.write")
	return nil
}

// ReadFrame consumes one frame from src and returns its body: the packet id
// followed by the field bytes.
func ReadFrame(src *buffer.Buffer, threshold int, limits Limits) ([]byte, error) {
	body, compressed, err := readFrame(src, threshold, limits)
	if err != nil {
		observability.RecordDecodeError(errorKind(err))
		log.Debug().Str("component", "frame").Err(err).Int("threshold", threshold).Msg("frame.read failed")
		return nil, err
	}
	observability.RecordFrameDecoded(len(body), compressed)
	return body, nil
}

func readFrame(src *buffer.Buffer, threshold int, limits Limits) ([]byte, bool, error) {
	length, err := types.ReadVarInt(src)
	if err != nil {
		return nil, false, err
	}
	if length < 0 {
		return nil, false, protocol.Formatf("frame.read", protocol.ErrNegativeLength, "length %d", length)
	}
	if int(length) > limits.MaxFrameBytes {
		return nil, false, protocol.Formatf("frame.read", protocol.ErrFrameTooLarge, "frame %d > %d", length, limits.MaxFrameBytes)
	}
	raw, err := src.Next(int(length))
	if err != nil {
		return nil, false, err
	}
	if threshold < 0 {
		return copyBytes(raw), false, nil
	}

	inner := buffer.FromBytes(raw)
	size, err := types.ReadVarInt(inner)
	if err != nil {
		return nil, false, err
	}
	if size == 0 {
		return copyBytes(inner.Rest()), false, nil
	}
	if size < 0 {
		return nil, false, protocol.Formatf("frame.read", protocol.ErrNegativeLength, "uncompressed length %d", size)
	}
	if int(size) > limits.MaxUncompressedBytes {
		return nil, false, protocol.Formatf("frame.read", protocol.ErrFrameTooLarge, "uncompressed %d > %d", size, limits.MaxUncompressedBytes)
	}
	body, err := inflate(inner.Rest(), int(size))
	if err != nil {
		return nil, false, err
	}
	return body, true, nil
}

// inflate decompresses data and requires exactly size bytes of output.
func inflate(data []byte, size int) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, protocol.Formatf("frame.inflate", protocol.ErrDecompressedLength, "zlib header: %v", err)
	}
	defer zr.Close()

	out := make([]byte, size)
	n, err := io.ReadFull(zr, out)
	if err != nil {
		return nil, protocol.Formatf("frame.inflate", protocol.ErrDecompressedLength, "got %d of %d bytes: %v", n, size, err)
	}
	var extra [1]byte
	if m, _ := zr.Read(extra[:]); m != 0 {
		return nil, protocol.Formatf("frame.inflate", protocol.ErrDecompressedLength, "more than %d bytes", size)
	}
	return out, nil
}

func copyBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, protocol.ErrTruncated):
		return "truncated"
	case errors.Is(err, protocol.ErrVarIntTooLong):
		return "varint"
	case errors.Is(err, protocol.ErrDecompressedLength):
		return "decompress"
	case errors.Is(err, protocol.ErrFrameTooLarge):
		return "too_large"
	case errors.Is(err, protocol.ErrFormat):
		return "format"
	default:
		return "other"
	}
}
