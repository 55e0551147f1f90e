package catalog

import (
	"github.com/danmuck/craftwire/internal/protocol"
	"github.com/danmuck/craftwire/internal/protocol/packet"
	"github.com/danmuck/craftwire/internal/protocol/schema"
	"github.com/danmuck/craftwire/internal/protocol/types"
)

var KeepAliveClientbound = &packet.Definition{
	Shape: packet.Shape{
		Name:   "KeepAliveClientbound",
		Fields: keepAliveFields,
	},
	Bound: packet.Clientbound,
	IDs: schema.Cascade[int32](0x00,
		schema.At[int32](schema.Since(107), 0x1F),
		schema.At[int32](schema.Since(318), 0x20),
		schema.At[int32](schema.Since(332), 0x1F),
		schema.At[int32](schema.Since(345), 0x20),
		schema.At[int32](schema.Since(389), 0x21),
		schema.At[int32](schema.Since(471), 0x20),
		schema.At[int32](schema.Since(550), 0x21),
	),
}

// ExplosionRecord is one destroyed block as a signed offset from the
// explosion centre.
var ExplosionRecord = &packet.Shape{
	Name: "Record",
	Fields: schema.Static(schema.Fields{
		schema.F("x", types.Byte),
		schema.F("y", types.Byte),
		schema.F("z", types.Byte),
	}),
	Composites: []packet.Composite{packet.VectorComposite("offset", "x", "y", "z")},
}

var ExplosionPacket = &packet.Definition{
	Shape: packet.Shape{
		Name: "ExplosionPacket",
		Fields: schema.Static(schema.Fields{
			schema.F("x", types.Float),
			schema.F("y", types.Float),
			schema.F("z", types.Float),
			schema.F("radius", types.Float),
			schema.F("records", packet.RecordList(types.Integer, ExplosionRecord)),
			schema.F("player_motion_x", types.Float),
			schema.F("player_motion_y", types.Float),
			schema.F("player_motion_z", types.Float),
		}),
		Composites: []packet.Composite{
			packet.VectorComposite("position", "x", "y", "z"),
			packet.VectorComposite("player_motion", "player_motion_x", "player_motion_y", "player_motion_z"),
		},
	},
	Bound: packet.Clientbound,
	IDs: schema.Cascade[int32](0x27,
		schema.At[int32](schema.Since(80), 0x1C),
		schema.At[int32](schema.Since(318), 0x1D),
		schema.At[int32](schema.Since(332), 0x1C),
		schema.At[int32](schema.Since(345), 0x1D),
		schema.At[int32](schema.Since(389), 0x1E),
		schema.At[int32](schema.Since(471), 0x1C),
		schema.At[int32](schema.Since(550), 0x1D),
	),
}

var (
	EnterCombatEvent = &packet.Shape{
		Name:   "EnterCombatEvent",
		Fields: schema.Static(schema.Fields{}),
	}
	EndCombatEvent = &packet.Shape{
		Name: "EndCombatEvent",
		Fields: schema.Static(schema.Fields{
			schema.F("duration", types.VarInt),
			schema.F("entity_id", types.Integer),
		}),
	}
	EntityDeadEvent = &packet.Shape{
		Name: "EntityDeadEvent",
		Fields: schema.Static(schema.Fields{
			schema.F("player_id", types.VarInt),
			schema.F("entity_id", types.Integer),
			schema.F("message", types.String),
		}),
	}

	// CombatEvent is the event union carried by CombatEventPacket.
	CombatEvent = packet.Variant("CombatEvent", types.VarInt,
		packet.Case{Tag: 0, Shape: EnterCombatEvent},
		packet.Case{Tag: 1, Shape: EndCombatEvent},
		packet.Case{Tag: 2, Shape: EntityDeadEvent},
	)
)

var CombatEventPacket = &packet.Definition{
	Shape: packet.Shape{
		Name:   "CombatEventPacket",
		Fields: schema.Static(schema.Fields{schema.F("event", CombatEvent)}),
	},
	Bound: packet.Clientbound,
	IDs: schema.Cascade[int32](0x42,
		schema.At[int32](schema.Since(80), 0x2D),
		schema.At[int32](schema.Since(86), 0x2C),
		schema.At[int32](schema.Since(318), 0x2D),
		schema.At[int32](schema.Since(332), 0x2C),
		schema.At[int32](schema.Since(336), 0x2D),
		schema.At[int32](schema.Since(345), 0x2E),
		schema.At[int32](schema.Since(389), 0x2F),
		schema.At[int32](schema.Since(451), 0x30),
		schema.At[int32](schema.Since(471), 0x32),
		schema.At[int32](schema.Since(550), 0x33),
	),
}

// blockPosition packs x and z into h_position (x high nibble) next to y.
func blockPosition() packet.Composite {
	const name = "position"
	return packet.Composite{
		Name:  name,
		Parts: []string{"h_position", "y"},
		Split: func(v any, _ packet.Values, _ *protocol.Context) (packet.Values, error) {
			vec, ok := types.AsVector(v)
			if !ok || !nibble(vec.X) || !nibble(vec.Z) {
				return nil, protocol.Misconfiguredf(name, "", protocol.ErrTypeMismatch, "cannot use %T(%v)", v, v)
			}
			return packet.Values{"h_position": int64(vec.X)<<4 | int64(vec.Z), "y": vec.Y}, nil
		},
		Join: func(cur packet.Values, _ *protocol.Context) (any, bool) {
			h, ok := types.AsInt64(cur["h_position"])
			if !ok {
				return nil, false
			}
			y, ok := types.AsInt64(cur["y"])
			if !ok {
				return nil, false
			}
			return types.Vector{X: float64(h >> 4), Y: float64(y), Z: float64(h & 0x0F)}, true
		},
	}
}

func nibble(f float64) bool {
	return f >= 0 && f < 16 && f == float64(int64(f))
}

// MultiBlockRecord is one changed block within the chunk section.
var MultiBlockRecord = &packet.Shape{
	Name: "Record",
	Fields: schema.Static(schema.Fields{
		schema.F("h_position", types.UnsignedByte),
		schema.F("y", types.UnsignedByte),
		schema.F("block_state_id", types.VarInt),
	}),
	Aliases: map[string]string{"blockStateId": "block_state_id"},
	Composites: []packet.Composite{
		packet.BitsComposite("x", "h_position", 4, 4),
		packet.BitsComposite("z", "h_position", 0, 4),
		blockPosition(),
		packet.BitsComposite("blockId", "block_state_id", 4, 27),
		packet.BitsComposite("blockMeta", "block_state_id", 0, 4),
	},
	Params: []string{"x", "y", "z", "block_state_id"},
}

var MultiBlockChangePacket = &packet.Definition{
	Shape: packet.Shape{
		Name: "MultiBlockChangePacket",
		Fields: schema.Static(schema.Fields{
			schema.F("chunk_x", types.Integer),
			schema.F("chunk_z", types.Integer),
			schema.F("records", packet.RecordList(types.VarInt, MultiBlockRecord)),
		}),
	},
	Bound: packet.Clientbound,
	IDs: schema.Cascade[int32](0x22,
		schema.At[int32](schema.Since(67), 0x10),
		schema.At[int32](schema.Since(318), 0x11),
		schema.At[int32](schema.Since(332), 0x10),
		schema.At[int32](schema.Since(343), 0x0F),
		schema.At[int32](schema.Since(550), 0x10),
	),
}

func spawnObjectFields(typeID types.Type) schema.Fields {
	return schema.Fields{
		schema.F("entity_id", types.VarInt),
		schema.F("object_uuid", types.UUID),
		schema.F("type_id", typeID),
		schema.F("x", types.Double),
		schema.F("y", types.Double),
		schema.F("z", types.Double),
		schema.F("pitch", types.Angle),
		schema.F("yaw", types.Angle),
		schema.F("data", types.Integer),
		schema.F("velocity_x", types.Short),
		schema.F("velocity_y", types.Short),
		schema.F("velocity_z", types.Short),
	}
}

var SpawnObjectPacket = &packet.Definition{
	Shape: packet.Shape{
		Name: "SpawnObjectPacket",
		Fields: schema.NewTable(
			schema.At(schema.Before(458), spawnObjectFields(types.Byte)),
			schema.At(schema.Since(458), spawnObjectFields(types.VarInt)),
		),
		Aliases: map[string]string{"objectUUID": "object_uuid"},
		Composites: []packet.Composite{
			packet.VectorComposite("position", "x", "y", "z"),
			packet.PositionAndLookComposite("position_and_look", "x", "y", "z", "yaw", "pitch"),
			packet.VectorComposite("velocity", "velocity_x", "velocity_y", "velocity_z"),
			packet.EnumComposite("type", "type_id", EntityTypes),
			packet.DegreesComposite("yaw_degrees", "yaw"),
			packet.DegreesComposite("pitch_degrees", "pitch"),
		},
	},
	Bound: packet.Clientbound,
	IDs:   schema.Cascade[int32](0x0E, schema.At[int32](schema.Since(67), 0x00)),
}
