package protocol

import (
	"errors"
	"fmt"
)

// Class sentinels. Every FormatError matches ErrFormat and every
// ConfigurationError matches ErrConfiguration under errors.Is.
var (
	ErrFormat        = errors.New("protocol: format error")
	ErrConfiguration = errors.New("protocol: configuration error")
)

// Format causes.
var (
	ErrTruncated          = errors.New("protocol: truncated data")
	ErrVarIntTooLong      = errors.New("protocol: varint exceeds 5 bytes")
	ErrVarLongTooLong     = errors.New("protocol: varlong exceeds 10 bytes")
	ErrInvalidUTF8        = errors.New("protocol: invalid utf-8")
	ErrInvalidBool        = errors.New("protocol: invalid bool value")
	ErrNegativeLength     = errors.New("protocol: negative length")
	ErrDecompressedLength = errors.New("protocol: decompressed length mismatch")
	ErrUnknownPacketID    = errors.New("protocol: unknown packet id")
	ErrUnknownVariant     = errors.New("protocol: unknown variant discriminant")
	ErrFrameTooLarge      = errors.New("protocol: frame too large")
	ErrTrailingBytes      = errors.New("protocol: trailing bytes after packet")
)

// Configuration causes.
var (
	ErrMissingSchema     = errors.New("protocol: no schema for protocol version")
	ErrMissingID         = errors.New("protocol: no packet id for protocol version")
	ErrUnknownField      = errors.New("protocol: unknown field")
	ErrConflictingFields = errors.New("protocol: conflicting field sources")
	ErrFieldNotInSchema  = errors.New("protocol: field not in active schema")
	ErrTypeMismatch      = errors.New("protocol: value type mismatch")
	ErrUnknownEnumName   = errors.New("protocol: unknown enum name")
	ErrStringTooLong     = errors.New("protocol: string exceeds maximum length")
	ErrInvalidSchema     = errors.New("protocol: invalid schema")
)

// FormatError reports malformed or truncated input. It is recoverable per
// packet but leaves the read cursor in an unspecified position.
type FormatError struct {
	Op  string
	Err error
}

// Formatf builds a FormatError wrapping cause with extra detail.
func Formatf(op string, cause error, format string, args ...any) *FormatError {
	return &FormatError{Op: op, Err: fmt.Errorf("%w: %s", cause, fmt.Sprintf(format, args...))}
}

func (e *FormatError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("format: %v", e.Err)
	}
	return fmt.Sprintf("format: %s: %v", e.Op, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

func (e *FormatError) Is(target error) bool { return target == ErrFormat }

// ConfigurationError reports a programmer or catalog mistake: a missing
// schema, an unknown field name, conflicting construction sources.
type ConfigurationError struct {
	Subject string
	Field   string
	Err     error
}

func (e *ConfigurationError) Error() string {
	switch {
	case e.Subject == "":
		return fmt.Sprintf("configuration: %v", e.Err)
	case e.Field == "":
		return fmt.Sprintf("configuration: %s: %v", e.Subject, e.Err)
	default:
		return fmt.Sprintf("configuration: %s.%s: %v", e.Subject, e.Field, e.Err)
	}
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// Misconfigured builds a ConfigurationError wrapping cause.
func Misconfigured(subject, field string, cause error) *ConfigurationError {
	return &ConfigurationError{Subject: subject, Field: field, Err: cause}
}

// Misconfiguredf builds a ConfigurationError wrapping cause with extra detail.
func Misconfiguredf(subject, field string, cause error, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{
		Subject: subject,
		Field:   field,
		Err:     fmt.Errorf("%w: %s", cause, fmt.Sprintf(format, args...)),
	}
}

// DispatchError carries a packet handler failure out of a dispatch call.
type DispatchError struct {
	Handler string
	Packet  string
	Err     error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch %s to %s: %v", e.Packet, e.Handler, e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }
