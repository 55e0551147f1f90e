package catalog

import (
	"github.com/danmuck/craftwire/internal/protocol"
	"github.com/danmuck/craftwire/internal/protocol/packet"
	"github.com/danmuck/craftwire/internal/protocol/schema"
	"github.com/danmuck/craftwire/internal/protocol/types"
)

// ChatPacket sends a chat message or command. The codec accepts any
// protocol string; ChatMessageLimit is the length servers enforce.
var ChatPacket = &packet.Definition{
	Shape: packet.Shape{
		Name:   "ChatPacket",
		Fields: schema.Static(schema.Fields{schema.F("message", types.String)}),
	},
	Bound: packet.Serverbound,
	IDs: schema.Cascade[int32](0x01,
		schema.At[int32](schema.Since(107), 0x02),
		schema.At[int32](schema.Since(318), 0x03),
		schema.At[int32](schema.Since(336), 0x02),
		schema.At[int32](schema.Since(343), 0x01),
		schema.At[int32](schema.Since(389), 0x02),
		schema.At[int32](schema.Since(464), 0x03),
	),
}

// ChatMessageLimit is the longest message, in characters, a server
// accepts at the context's version.
func ChatMessageLimit(ctx *protocol.Context) int {
	if ctx.ProtocolLaterEq(306) {
		return 256
	}
	return 100
}

// keepAliveFields switched from VarInt to Long in 1.12.2.
var keepAliveFields = schema.NewTable(
	schema.At(schema.Before(339), schema.Fields{schema.F("keep_alive_id", types.VarInt)}),
	schema.At(schema.Since(339), schema.Fields{schema.F("keep_alive_id", types.Long)}),
)

var KeepAliveServerbound = &packet.Definition{
	Shape: packet.Shape{
		Name:   "KeepAliveServerbound",
		Fields: keepAliveFields,
	},
	Bound: packet.Serverbound,
	IDs: schema.Cascade[int32](0x00,
		schema.At[int32](schema.Since(107), 0x0B),
		schema.At[int32](schema.Since(318), 0x0C),
		schema.At[int32](schema.Since(336), 0x0B),
		schema.At[int32](schema.Since(343), 0x0A),
		schema.At[int32](schema.Since(345), 0x0B),
		schema.At[int32](schema.Since(386), 0x0C),
		schema.At[int32](schema.Since(389), 0x0E),
		schema.At[int32](schema.Since(464), 0x10),
		schema.At[int32](schema.Since(471), 0x0F),
	),
}
