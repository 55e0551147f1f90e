package observability

import (
	"testing"

	"github.com/danmuck/craftwire/internal/testutil/testlog"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterMetricsAndRecordersAreSafe(t *testing.T) {
	testlog.Start(t)
	RegisterMetrics()
	RegisterMetrics()

	before := testutil.ToFloat64(framesEncoded.WithLabelValues("true"))
	RecordFrameEncoded(512, true)
	RecordFrameDecoded(512, true)
	RecordDecodeError("format")
	RecordDispatch("ChatPacket", true)

	if got := testutil.ToFloat64(framesEncoded.WithLabelValues("true")); got != before+1 {
		t.Fatalf("encoded counter: got %v want %v", got, before+1)
	}
	if got := testutil.ToFloat64(dispatched.WithLabelValues("ChatPacket", "true")); got < 1 {
		t.Fatalf("dispatch counter not incremented: %v", got)
	}
}
