package catalog

import (
	"github.com/danmuck/craftwire/internal/protocol/schema"
	"github.com/danmuck/craftwire/internal/protocol/types"
)

// objectTypes are the spawn object ids used before the entity registry
// took over in 1.14.
var objectTypes = types.NewEnum("EntityType",
	types.EnumEntry{Name: "BOAT", Value: 1},
	types.EnumEntry{Name: "ITEM", Value: 2},
	types.EnumEntry{Name: "AREA_EFFECT_CLOUD", Value: 3},
	types.EnumEntry{Name: "MINECART", Value: 10},
	types.EnumEntry{Name: "ACTIVATED_TNT", Value: 50},
	types.EnumEntry{Name: "ENDER_CRYSTAL", Value: 51},
	types.EnumEntry{Name: "ARROW", Value: 60},
	types.EnumEntry{Name: "SNOWBALL", Value: 61},
	types.EnumEntry{Name: "EGG", Value: 62},
	types.EnumEntry{Name: "FIREBALL", Value: 63},
	types.EnumEntry{Name: "FIRECHARGE", Value: 64},
	types.EnumEntry{Name: "ENDERPEARL", Value: 65},
	types.EnumEntry{Name: "WITHER_SKULL", Value: 66},
	types.EnumEntry{Name: "SHULKER_BULLET", Value: 67},
	types.EnumEntry{Name: "LLAMA_SPIT", Value: 68},
	types.EnumEntry{Name: "FALLING_OBJECT", Value: 70},
	types.EnumEntry{Name: "ITEM_FRAMES", Value: 71},
	types.EnumEntry{Name: "EYE_OF_ENDER", Value: 72},
	types.EnumEntry{Name: "POTION", Value: 73},
	types.EnumEntry{Name: "EXP_BOTTLE", Value: 75},
	types.EnumEntry{Name: "FIREWORK_ROCKET", Value: 76},
	types.EnumEntry{Name: "LEASH_KNOT", Value: 77},
	types.EnumEntry{Name: "ARMORSTAND", Value: 78},
	types.EnumEntry{Name: "EVOCATION_FANGS", Value: 79},
	types.EnumEntry{Name: "FISHING_HOOK", Value: 90},
	types.EnumEntry{Name: "SPECTRAL_ARROW", Value: 91},
	types.EnumEntry{Name: "DRAGON_FIREBALL", Value: 93},
	types.EnumEntry{Name: "TRIDENT", Value: 94},
)

// registryTypes are the object-like entries of the 1.14 entity registry.
var registryTypes = []types.EnumEntry{
	{Name: "AREA_EFFECT_CLOUD", Value: 0},
	{Name: "ARMOR_STAND", Value: 1},
	{Name: "ARROW", Value: 2},
	{Name: "BOAT", Value: 5},
	{Name: "DRAGON_FIREBALL", Value: 14},
	{Name: "END_CRYSTAL", Value: 17},
	{Name: "EVOKER_FANGS", Value: 21},
	{Name: "EXPERIENCE_ORB", Value: 23},
	{Name: "EYE_OF_ENDER", Value: 24},
	{Name: "FALLING_BLOCK", Value: 25},
	{Name: "FIREWORK_ROCKET", Value: 26},
	{Name: "ITEM", Value: 34},
	{Name: "ITEM_FRAME", Value: 35},
	{Name: "FIREBALL", Value: 36},
	{Name: "LEASH_KNOT", Value: 37},
	{Name: "LLAMA_SPIT", Value: 39},
	{Name: "MINECART", Value: 41},
	{Name: "PAINTING", Value: 51},
	{Name: "TNT", Value: 58},
	{Name: "SHULKER_BULLET", Value: 63},
	{Name: "SMALL_FIREBALL", Value: 69},
	{Name: "SNOWBALL", Value: 71},
	{Name: "SPECTRAL_ARROW", Value: 72},
	{Name: "EGG", Value: 74},
	{Name: "ENDER_PEARL", Value: 75},
	{Name: "EXPERIENCE_BOTTLE", Value: 76},
	{Name: "POTION", Value: 77},
	{Name: "WITHER_SKULL", Value: 93},
	{Name: "FISHING_BOBBER", Value: 101},
}

// shifted returns entries with every value >= from moved up by one, the
// effect of a registry insertion.
func shifted(entries []types.EnumEntry, from int64) []types.EnumEntry {
	out := make([]types.EnumEntry, len(entries))
	for i, e := range entries {
		if e.Value >= from {
			e.Value++
		}
		out[i] = e
	}
	return out
}

// EntityTypes resolves SpawnObject type ids by protocol version. 1.15
// inserted BEE at 4.
var EntityTypes = schema.NewTable(
	schema.At(schema.Before(458), objectTypes),
	schema.At(schema.Between(458, 573), types.NewEnum("EntityType", registryTypes...)),
	schema.At(schema.Since(573), types.NewEnum("EntityType", shifted(registryTypes, 4)...)),
)
