package types

import (
	"strconv"

	"github.com/danmuck/craftwire/internal/protocol"
	"github.com/danmuck/craftwire/internal/protocol/buffer"
)

// EnumEntry is one symbolic name of an enum table.
type EnumEntry struct {
	Name  string
	Value int64
}

// EnumTable maps integer values to symbolic names. When several names share
// a value the first declared name is the one rendered.
type EnumTable struct {
	name    string
	entries []EnumEntry
	byValue map[int64]string
	byName  map[string]int64
}

func NewEnum(name string, entries ...EnumEntry) *EnumTable {
	t := &EnumTable{
		name:    name,
		entries: entries,
		byValue: make(map[int64]string, len(entries)),
		byName:  make(map[string]int64, len(entries)),
	}
	for _, e := range entries {
		if _, ok := t.byValue[e.Value]; !ok {
			t.byValue[e.Value] = e.Name
		}
		t.byName[e.Name] = e.Value
	}
	return t
}

func (t *EnumTable) Name() string { return t.name }

func (t *EnumTable) Entries() []EnumEntry {
	out := make([]EnumEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Of tags v with its symbolic name, or returns an untagged value.
func (t *EnumTable) Of(v int64) EnumValue {
	if t != nil {
		if name, ok := t.byValue[v]; ok {
			return EnumValue{Value: v, Name: name, Known: true}
		}
	}
	return EnumValue{Value: v}
}

// Lookup resolves a symbolic name.
func (t *EnumTable) Lookup(name string) (EnumValue, bool) {
	if t == nil {
		return EnumValue{}, false
	}
	v, ok := t.byName[name]
	if !ok {
		return EnumValue{}, false
	}
	return t.Of(v), true
}

// EnumValue is either Known (value plus symbolic name) or an unknown raw
// integer. Decoding never fails on an unmatched value.
type EnumValue struct {
	Value int64
	Name  string
	Known bool
}

func (e EnumValue) String() string {
	if e.Known {
		return e.Name
	}
	return strconv.FormatInt(e.Value, 10)
}

type enumType struct {
	underlying Type
	table      *EnumTable
}

// Enum encodes values through underlying and decodes them tagged by table.
// A nil table decodes every value untagged.
func Enum(underlying Type, table *EnumTable) Type {
	if table == nil {
		table = NewEnum(underlying.Name())
	}
	return enumType{underlying: underlying, table: table}
}

func (t enumType) Name() string { return t.table.Name() }
func (t enumType) Zero() any    { return t.table.Of(0) }

func (t enumType) Coerce(v any) (any, error) {
	switch e := v.(type) {
	case EnumValue:
		if _, err := t.underlying.Coerce(e.Value); err != nil {
			return nil, err
		}
		return t.table.Of(e.Value), nil
	case string:
		ev, ok := t.table.Lookup(e)
		if !ok {
			return nil, protocol.Misconfiguredf(t.Name(), "", protocol.ErrUnknownEnumName, "%q", e)
		}
		return ev, nil
	}
	n, ok := AsInt64(v)
	if !ok {
		return nil, mismatch(t.Name(), v)
	}
	if _, err := t.underlying.Coerce(n); err != nil {
		return nil, err
	}
	return t.table.Of(n), nil
}

func (t enumType) Write(v any, buf *buffer.Buffer, ctx *protocol.Context) error {
	c, err := t.Coerce(v)
	if err != nil {
		return err
	}
	return t.underlying.Write(c.(EnumValue).Value, buf, ctx)
}

func (t enumType) Read(buf *buffer.Buffer, ctx *protocol.Context) (any, error) {
	raw, err := t.underlying.Read(buf, ctx)
	if err != nil {
		return nil, err
	}
	n, ok := AsInt64(raw)
	if !ok {
		return nil, mismatch(t.Name(), raw)
	}
	return t.table.Of(n), nil
}
