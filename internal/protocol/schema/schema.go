// Package schema holds ordered field lists and the version-range tables that
// select them (and packet ids) per protocol version.
package schema

import (
	"fmt"
	"math"

	"github.com/danmuck/craftwire/internal/protocol"
	"github.com/danmuck/craftwire/internal/protocol/types"
	"github.com/rs/zerolog/log"
)

// Field is one named entry of a schema. Field order is wire order.
type Field struct {
	Name string
	Type types.Type
}

// F is shorthand for a Field literal.
func F(name string, typ types.Type) Field {
	return Field{Name: name, Type: typ}
}

// Fields is an ordered schema.
type Fields []Field

func (fs Fields) Names() []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.Name
	}
	return out
}

func (fs Fields) Lookup(name string) (Field, bool) {
	for _, f := range fs {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Validate rejects duplicate names, empty names and nil types.
func Validate(subject string, fs Fields) error {
	seen := make(map[string]struct{}, len(fs))
	for _, f := range fs {
		if f.Name == "" {
			return protocol.Misconfiguredf(subject, "", protocol.ErrInvalidSchema, "empty field name")
		}
		if f.Type == nil {
			return protocol.Misconfiguredf(subject, f.Name, protocol.ErrInvalidSchema, "nil type")
		}
		if _, dup := seen[f.Name]; dup {
			log.Error().Str("subject", subject).Str("field", f.Name).Msg("schema.Validate duplicate field")
			return protocol.Misconfiguredf(subject, f.Name, protocol.ErrInvalidSchema, "duplicate field")
		}
		seen[f.Name] = struct{}{}
	}
	return nil
}

// Range is a half-open protocol version interval [Min, Max).
type Range struct {
	Min, Max int32
}

// All covers every protocol version.
var All = Range{Min: 0, Max: math.MaxInt32}

func Since(v int32) Range        { return Range{Min: v, Max: math.MaxInt32} }
func Before(v int32) Range       { return Range{Min: 0, Max: v} }
func Between(lo, hi int32) Range { return Range{Min: lo, Max: hi} }

func (r Range) Contains(v int32) bool { return v >= r.Min && v < r.Max }

func (r Range) span() int64 { return int64(r.Max) - int64(r.Min) }

func (r Range) String() string {
	switch {
	case r == All:
		return "all"
	case r.Max == math.MaxInt32:
		return fmt.Sprintf(">=%d", r.Min)
	case r.Min == 0:
		return fmt.Sprintf("<%d", r.Max)
	default:
		return fmt.Sprintf("[%d,%d)", r.Min, r.Max)
	}
}

// Entry binds a value to a version range.
type Entry[T any] struct {
	Range Range
	Value T
}

// At builds an Entry.
func At[T any](r Range, v T) Entry[T] {
	return Entry[T]{Range: r, Value: v}
}

// Table selects a value by protocol version. The narrowest matching range
// wins; equal spans resolve to the first declared entry.
type Table[T any] struct {
	entries []Entry[T]
}

func NewTable[T any](entries ...Entry[T]) Table[T] {
	return Table[T]{entries: entries}
}

// Static is a table with one entry covering every version.
func Static[T any](v T) Table[T] {
	return Table[T]{entries: []Entry[T]{{Range: All, Value: v}}}
}

// Cascade builds the common "value changed at version N" table: base holds
// before the first step, each step holds from its version onwards.
func Cascade[T any](base T, steps ...Entry[T]) Table[T] {
	entries := make([]Entry[T], 0, len(steps)+1)
	entries = append(entries, Entry[T]{Range: All, Value: base})
	entries = append(entries, steps...)
	return Table[T]{entries: entries}
}

func (t Table[T]) Len() int { return len(t.entries) }

func (t Table[T]) Entries() []Entry[T] {
	out := make([]Entry[T], len(t.entries))
	copy(out, t.entries)
	return out
}

// Lookup returns the most specific value for version.
func (t Table[T]) Lookup(version int32) (T, bool) {
	var (
		best  T
		found bool
		span  int64
	)
	for _, e := range t.entries {
		if !e.Range.Contains(version) {
			continue
		}
		if !found || e.Range.span() < span {
			best, span, found = e.Value, e.Range.span(), true
		}
	}
	return best, found
}

// Resolve is Lookup reporting a missing entry as a configuration error
// wrapping ErrMissingSchema.
func (t Table[T]) Resolve(subject string, version int32) (T, error) {
	v, ok := t.Lookup(version)
	if !ok {
		log.Error().Str("subject", subject).Int32("version", version).Msg("schema.Resolve no entry")
		return v, protocol.Misconfiguredf(subject, "", protocol.ErrMissingSchema, "version %d", version)
	}
	return v, nil
}

// Values lists every entry value in declaration order.
func (t Table[T]) Values() []T {
	out := make([]T, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.Value
	}
	return out
}
