package lint

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain ensures no goroutines leak from the linter's rule fan-out or the
// runner's worker pool.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}
