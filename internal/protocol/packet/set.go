package packet

import (
	"sync"

	"github.com/danmuck/craftwire/internal/protocol"
)

// Set indexes definitions of one direction so incoming ids can be mapped to
// a definition for a protocol version.
type Set struct {
	mu    sync.RWMutex
	name  string
	defs  []*Definition
	byTag map[string]*Definition
	// byVersion caches id -> definition per protocol version.
	byVersion map[int32]map[int32]*Definition
}

func NewSet(name string, defs ...*Definition) *Set {
	s := &Set{name: name, byTag: make(map[string]*Definition)}
	for _, d := range defs {
		s.Add(d)
	}
	return s
}

func (s *Set) Name() string { return s.name }

// Add registers def, replacing any definition with the same tag.
func (s *Set) Add(def *Definition) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.byTag[def.Tag()]; ok {
		for i, d := range s.defs {
			if d == prev {
				s.defs[i] = def
			}
		}
	} else {
		s.defs = append(s.defs, def)
	}
	s.byTag[def.Tag()] = def
	s.byVersion = nil
}

func (s *Set) Definitions() []*Definition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Definition, len(s.defs))
	copy(out, s.defs)
	return out
}

func (s *Set) ByTag(tag string) (*Definition, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.byTag[tag]
	return d, ok
}

// ByName finds a definition by packet name.
func (s *Set) ByName(name string) (*Definition, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.defs {
		if d.Name == name {
			return d, true
		}
	}
	return nil, false
}

// ByID maps an incoming packet id to its definition for the context's
// protocol version. Unknown ids are a format error.
func (s *Set) ByID(ctx *protocol.Context, id int32) (*Definition, error) {
	version := ctx.Version()
	s.mu.RLock()
	table, ok := s.byVersion[version]
	s.mu.RUnlock()
	if !ok {
		table = s.index(version)
	}
	def, ok := table[id]
	if !ok {
		return nil, protocol.Formatf(s.name, protocol.ErrUnknownPacketID, "id 0x%02X at version %d", id, version)
	}
	return def, nil
}

func (s *Set) index(version int32) map[int32]*Definition {
	s.mu.Lock()
	defer s.mu.Unlock()
	if table, ok := s.byVersion[version]; ok {
		return table
	}
	table := make(map[int32]*Definition, len(s.defs))
	for _, d := range s.defs {
		id, ok := d.IDs.Lookup(version)
		if !ok {
			continue
		}
		if _, dup := table[id]; !dup {
			table[id] = d
		}
	}
	if s.byVersion == nil {
		s.byVersion = make(map[int32]map[int32]*Definition)
	}
	s.byVersion[version] = table
	return table
}
