package monitoring

import (
	"fmt"
	"testing"
)

func TestSetLoggerCapturesOutput(t *testing.T) {
	var captured string
	SetLogger(func(format string, v ...interface{}) {
		captured = fmt.Sprintf(format, v...)
	})
	defer SetLogger(nil)

	Logf("ranking failed: %s", "no active period")
	if captured != "ranking failed: no active period" {
		t.Errorf("unexpected captured log: %q", captured)
	}
}

func TestSetLoggerNilIsNoOp(t *testing.T) {
	SetLogger(nil)
	// Must not panic.
	Logf("dropped %d", 1)
}
