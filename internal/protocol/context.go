package protocol

// CompressionDisabled is the threshold value that turns frame compression off.
const CompressionDisabled = -1

// Context carries the negotiated connection parameters. It is owned by the
// connection and borrowed read-only by each encode/decode call; updates
// must be sequenced by the transport so they never race an in-flight call.
type Context struct {
	ProtocolVersion      int32
	CompressionThreshold int
}

// NewContext returns a context for version with compression disabled.
func NewContext(version int32) *Context {
	return &Context{ProtocolVersion: version, CompressionThreshold: CompressionDisabled}
}

// DefaultContext returns a context for the latest supported version.
func DefaultContext() *Context {
	return NewContext(LatestProtocolVersion)
}

// Version returns the protocol version, treating a nil context as the
// latest supported version.
func (c *Context) Version() int32 {
	if c == nil {
		return LatestProtocolVersion
	}
	return c.ProtocolVersion
}

func (c *Context) ProtocolLaterEq(v int32) bool { return c.Version() >= v }

func (c *Context) ProtocolEarlier(v int32) bool { return c.Version() < v }

// ProtocolInRange reports lo <= version < hi.
func (c *Context) ProtocolInRange(lo, hi int32) bool {
	v := c.Version()
	return v >= lo && v < hi
}

func (c *Context) CompressionEnabled() bool {
	return c != nil && c.CompressionThreshold >= 0
}

// Threshold returns the compression threshold, CompressionDisabled for nil.
func (c *Context) Threshold() int {
	if c == nil {
		return CompressionDisabled
	}
	return c.CompressionThreshold
}
