package packet

import (
	"github.com/danmuck/craftwire/internal/protocol"
	"github.com/danmuck/craftwire/internal/protocol/buffer"
	"github.com/danmuck/craftwire/internal/protocol/types"
)

// Record is a sub-structure value: a list element or a variant case.
type Record struct {
	shape  *Shape
	values Values
}

// NewRecord builds a record from positional values in the shape's Params
// order.
func NewRecord(shape *Shape, args ...any) (*Record, error) {
	in, err := shape.positional(nil, args)
	if err != nil {
		return nil, err
	}
	return NewRecordValues(shape, in)
}

// NewRecordValues builds a record from canonical names, aliases and
// composites.
func NewRecordValues(shape *Shape, in Values) (*Record, error) {
	r := &Record{shape: shape, values: Values{}}
	if err := shape.assign(r.values, in, nil); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Record) Shape() *Shape { return r.shape }

func (r *Record) Get(name string) (any, bool) {
	return r.shape.get(r.values, name, nil)
}

func (r *Record) Set(name string, v any) error {
	return r.shape.assign(r.values, Values{name: v}, nil)
}

func (r *Record) SetValues(in Values) error {
	return r.shape.assign(r.values, in, nil)
}

// Values returns a copy of the canonical field values.
func (r *Record) Values() Values { return r.values.clone() }

func (r *Record) Equal(o *Record) bool {
	if r == nil || o == nil {
		return r == o
	}
	return r.shape == o.shape && r.shape.equal(r.values, o.values, nil)
}

func (r *Record) String() string {
	if r == nil {
		return "None"
	}
	return r.shape.render(r.values, nil)
}

func coerceRecord(shape *Shape, v any) (*Record, error) {
	switch x := v.(type) {
	case *Record:
		if x == nil || x.shape != shape {
			return nil, compositeMismatch(shape.Name, v)
		}
		return x, nil
	case Values:
		return NewRecordValues(shape, x)
	case map[string]any:
		return NewRecordValues(shape, Values(x))
	default:
		return nil, compositeMismatch(shape.Name, v)
	}
}

type recordType struct {
	shape *Shape
}

// RecordType encodes a single Record of shape in schema order.
func RecordType(shape *Shape) types.Type {
	return recordType{shape: shape}
}

func (t recordType) Name() string { return t.shape.Name }
func (t recordType) Zero() any    { return &Record{shape: t.shape, values: Values{}} }

func (t recordType) Coerce(v any) (any, error) {
	return coerceRecord(t.shape, v)
}

func (t recordType) Write(v any, buf *buffer.Buffer, ctx *protocol.Context) error {
	r, err := coerceRecord(t.shape, v)
	if err != nil {
		return err
	}
	return t.shape.writeFields(r.values, buf, ctx)
}

func (t recordType) Read(buf *buffer.Buffer, ctx *protocol.Context) (any, error) {
	vals, err := t.shape.readFields(buf, ctx)
	if err != nil {
		return nil, err
	}
	return &Record{shape: t.shape, values: vals}, nil
}

// maxEmptyRecords caps lists of zero-field records.
const maxEmptyRecords = 1 << 16

type recordListType struct {
	count types.Type
	shape *Shape
}

// RecordList encodes a count (VarInt, Integer...) followed by that many
// records. Values are []*Record.
func RecordList(count types.Type, shape *Shape) types.Type {
	return recordListType{count: count, shape: shape}
}

func (t recordListType) Name() string { return "List(" + t.shape.Name + ")" }
func (t recordListType) Zero() any    { return []*Record{} }

func (t recordListType) Coerce(v any) (any, error) {
	switch x := v.(type) {
	case []*Record:
		out := make([]*Record, len(x))
		for i, r := range x {
			c, err := coerceRecord(t.shape, r)
			if err != nil {
				return nil, err
			}
			out[i] = c
		}
		return out, nil
	case []Values:
		out := make([]*Record, len(x))
		for i, vals := range x {
			r, err := NewRecordValues(t.shape, vals)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return out, nil
	case []any:
		out := make([]*Record, len(x))
		for i, item := range x {
			r, err := coerceRecord(t.shape, item)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return out, nil
	default:
		return nil, compositeMismatch(t.Name(), v)
	}
}

func (t recordListType) Write(v any, buf *buffer.Buffer, ctx *protocol.Context) error {
	c, err := t.Coerce(v)
	if err != nil {
		return err
	}
	records := c.([]*Record)
	if err := t.count.Write(len(records), buf, ctx); err != nil {
		return err
	}
	for _, r := range records {
		if err := t.shape.writeFields(r.values, buf, ctx); err != nil {
			return err
		}
	}
	return nil
}

func (t recordListType) Read(buf *buffer.Buffer, ctx *protocol.Context) (any, error) {
	raw, err := t.count.Read(buf, ctx)
	if err != nil {
		return nil, err
	}
	n, ok := types.AsInt64(raw)
	if !ok || n < 0 {
		return nil, protocol.Formatf("record_list", protocol.ErrNegativeLength, "count %v", raw)
	}
	fields, err := t.shape.Fields.Resolve(t.shape.Name, ctx.Version())
	if err != nil {
		return nil, err
	}
	// a record with fields occupies at least one byte; empty records only
	// have the count to bound them
	limit := int64(buf.Remaining())
	if len(fields) == 0 {
		limit = maxEmptyRecords
	}
	if n > limit {
		return nil, protocol.Formatf("record_list", protocol.ErrTruncated, "count %d with %d bytes left", n, buf.Remaining())
	}
	out := make([]*Record, 0, n)
	for i := int64(0); i < n; i++ {
		vals, err := t.shape.readFields(buf, ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, &Record{shape: t.shape, values: vals})
	}
	return out, nil
}
