// Package buffer provides the in-memory packet staging area: an append-only
// store with an independent read cursor.
package buffer

import (
	"io"

	"github.com/danmuck/craftwire/internal/protocol"
)

// Buffer stages outgoing packet bodies and exposes incoming ones for
// sequential reads. Writes always append; reads advance a cursor that is
// independent of the write position. Not safe for concurrent use.
type Buffer struct {
	data   []byte
	cursor int
}

func New() *Buffer {
	return &Buffer{}
}

// FromBytes returns a buffer positioned at the start of a copy of b.
func FromBytes(b []byte) *Buffer {
	data := make([]byte, len(b))
	copy(data, b)
	return &Buffer{data: data}
}

// Send appends p to the stored bytes.
func (b *Buffer) Send(p []byte) {
	b.data = append(b.data, p...)
}

func (b *Buffer) Write(p []byte) (int, error) {
	b.Send(p)
	return len(p), nil
}

func (b *Buffer) WriteByte(c byte) error {
	b.data = append(b.data, c)
	return nil
}

// Next returns the next n bytes and advances the cursor. The returned slice
// aliases the buffer until the next Reset.
func (b *Buffer) Next(n int) ([]byte, error) {
	if n < 0 {
		return nil, protocol.Formatf("buffer.next", protocol.ErrNegativeLength, "n=%d", n)
	}
	if n > b.Remaining() {
		return nil, protocol.Formatf("buffer.next", protocol.ErrTruncated, "want %d have %d", n, b.Remaining())
	}
	out := b.data[b.cursor : b.cursor+n]
	b.cursor += n
	return out, nil
}

// Rest returns every unread byte and moves the cursor to the end.
func (b *Buffer) Rest() []byte {
	out := b.data[b.cursor:]
	b.cursor = len(b.data)
	return out
}

func (b *Buffer) ReadByte() (byte, error) {
	if b.cursor >= len(b.data) {
		return 0, protocol.Formatf("buffer.read_byte", protocol.ErrTruncated, "cursor at end")
	}
	c := b.data[b.cursor]
	b.cursor++
	return c, nil
}

// Read implements io.Reader over the unread bytes.
func (b *Buffer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if b.cursor >= len(b.data) {
		return 0, io.EOF
	}
	n := copy(p, b.data[b.cursor:])
	b.cursor += n
	return n, nil
}

// ResetCursor rewinds reads to the first byte without touching storage.
func (b *Buffer) ResetCursor() {
	b.cursor = 0
}

// Reset drops all stored bytes and rewinds the cursor.
func (b *Buffer) Reset() {
	b.data = b.data[:0]
	b.cursor = 0
}

// Writable returns every byte written so far regardless of the cursor.
func (b *Buffer) Writable() []byte {
	return b.data
}

func (b *Buffer) Len() int { return len(b.data) }

func (b *Buffer) Remaining() int { return len(b.data) - b.cursor }

func (b *Buffer) Cursor() int { return b.cursor }
