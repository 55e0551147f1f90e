package packet

import (
	"fmt"
	"strings"

	"github.com/danmuck/craftwire/internal/protocol"
	"github.com/danmuck/craftwire/internal/protocol/buffer"
	"github.com/danmuck/craftwire/internal/protocol/schema"
	"github.com/danmuck/craftwire/internal/protocol/types"
)

// Shape is a named, version-keyed schema plus the names that may be used to
// populate it.
type Shape struct {
	Name   string
	Fields schema.Table[schema.Fields]
	// Aliases maps an accepted alternate name to its canonical field.
	Aliases    map[string]string
	Composites []Composite
	// Enums renders integer fields by symbolic name in String output.
	Enums map[string]*types.EnumTable
	// Params is the positional construction order. Empty means the field
	// names of the schema resolved for the construction version.
	Params []string
}

// Validate checks every schema entry and that aliases and composites refer
// to canonical fields.
func (s *Shape) Validate() error {
	if s.Fields.Len() == 0 {
		return protocol.Misconfiguredf(s.Name, "", protocol.ErrMissingSchema, "no schema entries")
	}
	for _, fs := range s.Fields.Values() {
		if err := schema.Validate(s.Name, fs); err != nil {
			return err
		}
	}
	for alias, canon := range s.Aliases {
		if !s.isField(canon) {
			return protocol.Misconfiguredf(s.Name, alias, protocol.ErrUnknownField, "alias target %q", canon)
		}
	}
	for _, c := range s.Composites {
		if c.Split == nil || c.Join == nil {
			return protocol.Misconfiguredf(s.Name, c.Name, protocol.ErrInvalidSchema, "composite needs split and join")
		}
		for _, part := range c.Parts {
			if !s.isField(part) {
				return protocol.Misconfiguredf(s.Name, c.Name, protocol.ErrUnknownField, "composite part %q", part)
			}
		}
	}
	return nil
}

func (s *Shape) isField(name string) bool {
	for _, fs := range s.Fields.Values() {
		if _, ok := fs.Lookup(name); ok {
			return true
		}
	}
	return false
}

func (s *Shape) composite(name string) (*Composite, bool) {
	for i := range s.Composites {
		if s.Composites[i].Name == name {
			return &s.Composites[i], true
		}
	}
	return nil, false
}

// fieldType prefers the schema active for ctx and falls back to the most
// recently declared entry that defines name.
func (s *Shape) fieldType(name string, ctx *protocol.Context) (types.Type, bool) {
	if fs, ok := s.Fields.Lookup(ctx.Version()); ok {
		if f, ok := fs.Lookup(name); ok {
			return f.Type, true
		}
	}
	entries := s.Fields.Values()
	for i := len(entries) - 1; i >= 0; i-- {
		if f, ok := entries[i].Lookup(name); ok {
			return f.Type, true
		}
	}
	return nil, false
}

// assign resolves the sources in in onto dst. Conflicts are only detected
// between sources of the same call; existing dst values are overwritten.
func (s *Shape) assign(dst Values, in Values, ctx *protocol.Context) error {
	staged := Values{}
	source := map[string]string{}

	set := func(canon, src string, v any) error {
		typ, ok := s.fieldType(canon, ctx)
		if !ok {
			return protocol.Misconfigured(s.Name, canon, protocol.ErrUnknownField)
		}
		c, err := typ.Coerce(v)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", s.Name, src, err)
		}
		if prev, ok := staged[canon]; ok && !valueEqual(prev, c) {
			return protocol.Misconfiguredf(s.Name, canon, protocol.ErrConflictingFields,
				"%s=%v disagrees with %s=%v", source[canon], prev, src, c)
		}
		staged[canon] = c
		source[canon] = src
		return nil
	}

	view := func(extra Values) Values {
		out := dst.clone()
		for k, v := range staged {
			out[k] = v
		}
		for k, v := range extra {
			out[k] = v
		}
		return out
	}

	var full, merges []string
	for _, key := range in.sortedKeys() {
		switch {
		case s.isField(key):
			if err := set(key, key, in[key]); err != nil {
				return err
			}
		case s.Aliases[key] != "":
			if err := set(s.Aliases[key], key, in[key]); err != nil {
				return err
			}
		default:
			c, ok := s.composite(key)
			if !ok {
				return protocol.Misconfigured(s.Name, key, protocol.ErrUnknownField)
			}
			if c.Merge {
				merges = append(merges, key)
			} else {
				full = append(full, key)
			}
		}
	}

	for _, key := range full {
		c, _ := s.composite(key)
		parts, err := c.Split(in[key], view(nil), ctx)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", s.Name, key, err)
		}
		for _, part := range parts.sortedKeys() {
			if err := set(part, key, parts[part]); err != nil {
				return err
			}
		}
	}

	merged := Values{}
	mergeSource := map[string][]string{}
	for _, key := range merges {
		c, _ := s.composite(key)
		parts, err := c.Split(in[key], view(merged), ctx)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", s.Name, key, err)
		}
		for part, v := range parts {
			typ, ok := s.fieldType(part, ctx)
			if !ok {
				return protocol.Misconfigured(s.Name, part, protocol.ErrUnknownField)
			}
			cv, err := typ.Coerce(v)
			if err != nil {
				return fmt.Errorf("%s.%s: %w", s.Name, key, err)
			}
			merged[part] = cv
			mergeSource[part] = append(mergeSource[part], key)
		}
	}
	for _, part := range merged.sortedKeys() {
		if err := set(part, strings.Join(mergeSource[part], "+"), merged[part]); err != nil {
			return err
		}
	}

	for k, v := range staged {
		dst[k] = v
	}
	return nil
}

func (s *Shape) positional(ctx *protocol.Context, args []any) (Values, error) {
	names := s.Params
	if len(names) == 0 {
		fs, err := s.Fields.Resolve(s.Name, ctx.Version())
		if err != nil {
			return nil, err
		}
		names = fs.Names()
	}
	if len(args) > len(names) {
		return nil, protocol.Misconfiguredf(s.Name, "", protocol.ErrUnknownField,
			"%d positional values for %d fields", len(args), len(names))
	}
	in := make(Values, len(args))
	for i, a := range args {
		in[names[i]] = a
	}
	return in, nil
}

func (s *Shape) get(vals Values, name string, ctx *protocol.Context) (any, bool) {
	if v, ok := vals[name]; ok {
		return v, true
	}
	if canon := s.Aliases[name]; canon != "" {
		v, ok := vals[canon]
		return v, ok
	}
	if c, ok := s.composite(name); ok {
		return c.Join(vals, ctx)
	}
	return nil, false
}

// equal compares values, treating unset fields as the zero of their type.
func (s *Shape) equal(a, b Values, ctx *protocol.Context) bool {
	for k := range b {
		if _, ok := a[k]; !ok {
			if !s.zeroMatches(k, b[k], ctx) {
				return false
			}
		}
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok {
			if !s.zeroMatches(k, av, ctx) {
				return false
			}
			continue
		}
		if !valueEqual(av, bv) {
			return false
		}
	}
	return true
}

func (s *Shape) zeroMatches(name string, v any, ctx *protocol.Context) bool {
	typ, ok := s.fieldType(name, ctx)
	return ok && valueEqual(typ.Zero(), v)
}

func (s *Shape) writeFields(vals Values, buf *buffer.Buffer, ctx *protocol.Context) error {
	fields, err := s.Fields.Resolve(s.Name, ctx.Version())
	if err != nil {
		return err
	}
	for _, name := range vals.sortedKeys() {
		if _, ok := fields.Lookup(name); !ok {
			return protocol.Misconfiguredf(s.Name, name, protocol.ErrFieldNotInSchema, "version %d", ctx.Version())
		}
	}
	for _, f := range fields {
		v, ok := vals[f.Name]
		if !ok {
			v = f.Type.Zero()
		}
		if err := f.Type.Write(v, buf, ctx); err != nil {
			return fmt.Errorf("write %s.%s: %w", s.Name, f.Name, err)
		}
	}
	return nil
}

func (s *Shape) readFields(buf *buffer.Buffer, ctx *protocol.Context) (Values, error) {
	fields, err := s.Fields.Resolve(s.Name, ctx.Version())
	if err != nil {
		return nil, err
	}
	vals := make(Values, len(fields))
	for _, f := range fields {
		v, err := f.Type.Read(buf, ctx)
		if err != nil {
			return nil, fmt.Errorf("read %s.%s: %w", s.Name, f.Name, err)
		}
		vals[f.Name] = v
	}
	return vals, nil
}

// render formats vals as Name(field=value, ...) in schema order.
func (s *Shape) render(vals Values, ctx *protocol.Context) string {
	var names []string
	if fs, ok := s.Fields.Lookup(ctx.Version()); ok {
		names = fs.Names()
	} else {
		names = vals.sortedKeys()
	}
	parts := make([]string, 0, len(names))
	for _, name := range names {
		v, ok := vals[name]
		if !ok {
			if typ, ok := s.fieldType(name, ctx); ok {
				v = typ.Zero()
			}
		}
		parts = append(parts, name+"="+renderValue(v, s.Enums[name]))
	}
	return s.Name + "(" + strings.Join(parts, ", ") + ")"
}
