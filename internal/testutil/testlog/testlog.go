package testlog

import (
	"testing"

	"github.com/danmuck/craftwire/internal/logging"
	"github.com/rs/zerolog/log"
)

// Start configures test logging and brackets the test with start and
// failure lines so interleaved codec traces can be attributed.
func Start(t *testing.T) {
	t.Helper()
	logging.ConfigureTests()
	log.Info().Str("test", t.Name()).Msg("test.start")
	t.Cleanup(func() {
		if t.Failed() {
			log.Warn().Str("test", t.Name()).Msg("test.failed")
		}
	})
}
