package schema

import (
	"errors"
	"testing"

	"github.com/danmuck/craftwire/internal/protocol"
	"github.com/danmuck/craftwire/internal/protocol/types"
	"github.com/danmuck/craftwire/internal/testutil/testlog"
)

func TestResolvePicksNarrowestRange(t *testing.T) {
	testlog.Start(t)
	ids := Cascade[int32](0x01,
		At[int32](Since(107), 0x02),
		At[int32](Since(318), 0x03),
		At[int32](Since(336), 0x02),
	)
	cases := map[int32]int32{
		47:  0x01,
		107: 0x02,
		317: 0x02,
		318: 0x03,
		335: 0x03,
		340: 0x02,
	}
	for version, want := range cases {
		got, err := ids.Resolve("ids", version)
		if err != nil {
			t.Fatalf("resolve %d: %v", version, err)
		}
		if got != want {
			t.Fatalf("version %d: got 0x%02x want 0x%02x", version, got, want)
		}
	}
}

func TestResolveBoundedRangeBeatsOpenRange(t *testing.T) {
	testlog.Start(t)
	table := NewTable(
		At(Since(100), "open"),
		At(Between(300, 400), "bounded"),
	)
	if got, _ := table.Lookup(350); got != "bounded" {
		t.Fatalf("expected bounded, got %q", got)
	}
	if got, _ := table.Lookup(400); got != "open" {
		t.Fatalf("expected open, got %q", got)
	}
}

func TestResolveTiesUseDeclarationOrder(t *testing.T) {
	testlog.Start(t)
	table := NewTable(At(Since(10), "first"), At(Since(10), "second"))
	if got, _ := table.Lookup(20); got != "first" {
		t.Fatalf("expected first, got %q", got)
	}
}

func TestResolveMissingIsConfigurationError(t *testing.T) {
	testlog.Start(t)
	table := NewTable(At(Between(300, 400), Fields{F("message", types.String)}))
	_, err := table.Resolve("ChatPacket", 47)
	if !errors.Is(err, protocol.ErrMissingSchema) || !errors.Is(err, protocol.ErrConfiguration) {
		t.Fatalf("expected missing schema configuration error, got %v", err)
	}
}

func TestValidateRejectsDuplicates(t *testing.T) {
	testlog.Start(t)
	err := Validate("Dup", Fields{F("a", types.VarInt), F("a", types.String)})
	if !errors.Is(err, protocol.ErrInvalidSchema) {
		t.Fatalf("expected invalid schema, got %v", err)
	}
	var cerr *protocol.ConfigurationError
	if !errors.As(err, &cerr) || cerr.Field != "a" {
		t.Fatalf("unexpected error shape: %+v", err)
	}
	if err := Validate("Nil", Fields{F("a", nil)}); !errors.Is(err, protocol.ErrInvalidSchema) {
		t.Fatalf("expected nil type rejection, got %v", err)
	}
	if err := Validate("Ok", Fields{F("a", types.VarInt), F("b", types.String)}); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestFieldsLookupAndNames(t *testing.T) {
	testlog.Start(t)
	fs := Fields{F("x", types.Double), F("y", types.Double)}
	if names := fs.Names(); len(names) != 2 || names[0] != "x" || names[1] != "y" {
		t.Fatalf("names mismatch: %v", names)
	}
	if _, ok := fs.Lookup("z"); ok {
		t.Fatalf("unexpected z")
	}
	if Since(5).String() != ">=5" || Between(1, 2).String() != "[1,2)" || All.String() != "all" {
		t.Fatalf("range rendering wrong")
	}
}
