package dispatch

import (
	"errors"
	"testing"

	"github.com/danmuck/craftwire/internal/protocol"
	"github.com/danmuck/craftwire/internal/protocol/packet"
	"github.com/danmuck/craftwire/internal/protocol/schema"
	"github.com/danmuck/craftwire/internal/protocol/types"
	"github.com/danmuck/craftwire/internal/testutil/testlog"
	"github.com/stretchr/testify/require"
)

var (
	keepAlive = &packet.Definition{
		Shape: packet.Shape{
			Name:   "KeepAlive",
			Fields: schema.Static(schema.Fields{schema.F("keep_alive_id", types.VarInt)}),
		},
		Bound: packet.Clientbound,
		IDs:   schema.Static[int32](0x1F),
	}
	chat = &packet.Definition{
		Shape: packet.Shape{
			Name:   "Chat",
			Fields: schema.Static(schema.Fields{schema.F("message", types.String)}),
		},
		Bound: packet.Serverbound,
		IDs:   schema.Static[int32](0x02),
	}
)

func newPacket(t *testing.T, def *packet.Definition, in packet.Values) *packet.Packet {
	t.Helper()
	p, err := packet.New(def, protocol.DefaultContext(), in)
	require.NoError(t, err)
	return p
}

func TestListenerSelectivity(t *testing.T) {
	testlog.Start(t)
	var seen []*packet.Packet
	l := NewListener(func(p *packet.Packet) error {
		seen = append(seen, p)
		return nil
	}, keepAlive)

	ka := newPacket(t, keepAlive, packet.Values{"keep_alive_id": 1})
	called, err := l.CallPacket(ka)
	require.NoError(t, err)
	require.True(t, called)

	called, err = l.CallPacket(newPacket(t, chat, packet.Values{"message": "hi"}))
	require.NoError(t, err)
	require.False(t, called)

	require.Len(t, seen, 1)
	require.Same(t, ka, seen[0])
}

func TestListenerMatchesOverriddenIDs(t *testing.T) {
	testlog.Start(t)
	l := NewListener(func(*packet.Packet) error { return nil }, keepAlive)
	moved := keepAlive.WithIDs(schema.Static[int32](0x21))
	require.True(t, l.Accepts(moved))
}

func TestRegistryOrderAndEarlyListeners(t *testing.T) {
	testlog.Start(t)
	r := NewRegistry()
	var order []string
	record := func(name string) Handler {
		return func(*packet.Packet) error {
			order = append(order, name)
			return nil
		}
	}
	r.Register(record("first"), keepAlive)
	r.Register(record("chat"), chat)
	r.Register(record("second"), keepAlive, chat)
	r.RegisterEarly(record("early"), keepAlive)
	require.Equal(t, 4, r.Len())

	n, err := r.Dispatch(newPacket(t, keepAlive, packet.Values{"keep_alive_id": 7}))
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, []string{"early", "first", "second"}, order)
}

func TestRegistryStopsAtFirstError(t *testing.T) {
	testlog.Start(t)
	r := NewRegistry()
	boom := errors.New("boom")
	after := false
	failing := r.Register(func(*packet.Packet) error { return boom }, chat)
	r.Register(func(*packet.Packet) error {
		after = true
		return nil
	}, chat)

	n, err := r.Dispatch(newPacket(t, chat, packet.Values{"message": "x"}))
	require.Equal(t, 1, n)
	require.ErrorIs(t, err, boom)
	var derr *protocol.DispatchError
	require.ErrorAs(t, err, &derr)
	require.Equal(t, "serverbound/Chat", derr.Packet)
	require.Equal(t, failing.ID().String(), derr.Handler)
	require.False(t, after)
}

func TestUnregister(t *testing.T) {
	testlog.Start(t)
	r := NewRegistry()
	calls := 0
	l := r.Register(func(*packet.Packet) error {
		calls++
		return nil
	}, chat)
	early := r.RegisterEarly(func(*packet.Packet) error {
		calls++
		return nil
	}, chat)

	require.True(t, r.Unregister(l))
	require.False(t, r.Unregister(l))
	require.True(t, r.Unregister(early))
	require.Zero(t, r.Len())

	n, err := r.Dispatch(newPacket(t, chat, nil))
	require.NoError(t, err)
	require.Zero(t, n)
	require.Zero(t, calls)
}
