// Package protocol owns the connection-scoped primitives shared by every
// codec layer.
//
// Ownership boundary:
// - connection context (negotiated version, compression threshold)
// - supported protocol versions
// - error taxonomy (format, configuration, dispatch)
//
// Wire layers live in subpackages: buffer, types, schema, packet, frame,
// dispatch.
package protocol
