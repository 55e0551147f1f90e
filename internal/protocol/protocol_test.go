package protocol

import (
	"errors"
	"fmt"
	"testing"
)

func TestSupportedVersionsAscending(t *testing.T) {
	if len(SupportedProtocolVersions) == 0 {
		t.Fatalf("expected supported versions")
	}
	for i := 1; i < len(SupportedProtocolVersions); i++ {
		if SupportedProtocolVersions[i-1] >= SupportedProtocolVersions[i] {
			t.Fatalf("versions not ascending at %d: %v", i, SupportedProtocolVersions)
		}
	}
	if SupportedProtocolVersions[0] != EarliestProtocolVersion {
		t.Fatalf("earliest mismatch: %d", SupportedProtocolVersions[0])
	}
	if SupportedProtocolVersions[len(SupportedProtocolVersions)-1] != LatestProtocolVersion {
		t.Fatalf("latest mismatch")
	}
	if ReleaseName(340) != "1.12.2" {
		t.Fatalf("unexpected release name %q", ReleaseName(340))
	}
	if IsSupported(1) {
		t.Fatalf("version 1 should not be supported")
	}
}

func TestContextPredicates(t *testing.T) {
	ctx := NewContext(340)
	if !ctx.ProtocolLaterEq(340) || ctx.ProtocolLaterEq(341) {
		t.Fatalf("later-eq predicate wrong")
	}
	if !ctx.ProtocolEarlier(341) || ctx.ProtocolEarlier(340) {
		t.Fatalf("earlier predicate wrong")
	}
	if !ctx.ProtocolInRange(336, 341) || ctx.ProtocolInRange(341, 400) {
		t.Fatalf("range predicate wrong")
	}
	if ctx.CompressionEnabled() {
		t.Fatalf("new context should not compress")
	}
	ctx.CompressionThreshold = 0
	if !ctx.CompressionEnabled() {
		t.Fatalf("threshold 0 should compress")
	}

	var nilCtx *Context
	if nilCtx.Version() != LatestProtocolVersion || nilCtx.Threshold() != CompressionDisabled {
		t.Fatalf("nil context defaults wrong")
	}
}

func TestErrorClassesMatchThroughWrapping(t *testing.T) {
	ferr := fmt.Errorf("read chat: %w", Formatf("varint", ErrVarIntTooLong, "consumed %d bytes", 6))
	if !errors.Is(ferr, ErrFormat) || !errors.Is(ferr, ErrVarIntTooLong) {
		t.Fatalf("format error classification lost: %v", ferr)
	}
	if errors.Is(ferr, ErrConfiguration) {
		t.Fatalf("format error must not match configuration")
	}

	cerr := Misconfigured("ChatPacket", "bogus", ErrUnknownField)
	if !errors.Is(cerr, ErrConfiguration) || !errors.Is(cerr, ErrUnknownField) {
		t.Fatalf("configuration error classification lost: %v", cerr)
	}
	if cerr.Error() != "configuration: ChatPacket.bogus: protocol: unknown field" {
		t.Fatalf("unexpected message %q", cerr.Error())
	}

	derr := &DispatchError{Packet: "ChatPacket", Err: ErrTruncated}
	if !errors.Is(derr, ErrTruncated) {
		t.Fatalf("dispatch error should unwrap")
	}
}
