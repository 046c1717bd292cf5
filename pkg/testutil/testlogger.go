package testutil

import (
	"bytes"
	"sync"
	"testing"

	"github.com/lucas-albers-lz4/imgembed/pkg/log"
)

// mutex serializes helpers that swap the global log output.
var mutex sync.Mutex

// CaptureLogging redirects log output to a buffer. The returned function
// restores the original output and returns what was captured.
// Only output from pkg/log is captured, not direct writes to os.Stderr.
func CaptureLogging() func() string {
	mutex.Lock()

	var logBuf bytes.Buffer
	logRestore := log.SetOutput(&logBuf)

	return func() string {
		defer mutex.Unlock()
		logRestore()
		return logBuf.String()
	}
}

// UseTestLogger captures log output for the duration of the test and prints
// it only if the test fails. Verbose runs log straight through.
func UseTestLogger(t *testing.T) {
	t.Helper()
	if testing.Verbose() {
		return
	}
	restoreAndGetLogs := CaptureLogging()
	t.Cleanup(func() {
		captured := restoreAndGetLogs()
		if t.Failed() {
			t.Logf("Log output captured during test:\n%s", captured)
		}
	})
}
